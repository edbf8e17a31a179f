package langvm

import (
	"strings"
	"unicode/utf8"
)

// matchState is the single four-field frame shape shared by the
// backtracking stack, the call stack and the quantifier-loop stack —
// they are the same stack in this VM. Not every consumer uses every
// field: Peek/Pop (backtracking) restore sp/qc/ac and ignore ip;
// Call/Return and QuantifierInit/QuantifierNext use only ip; the
// quantifier counter they work with is the live qc register. An implementer may split these into three stacks
// for clarity at no correctness cost; this one keeps the teacher's
// single-stack shape.
type matchState struct {
	sp int32
	qc int32
	ac int32
	ip Address
}

// capture is one entry of the post-order capture fold: the substring
// [start,end) of the input, how many captures were recorded inside it
// at any depth (argc), and the caller-assigned id.
type capture struct {
	start, end int
	argc       int
	id         byte
}

// virtualMachine executes one Bytecode against one input string. It
// is never shared across goroutines mid-match.
type virtualMachine struct {
	code []byte
	text string

	sp      int
	qc      int32
	success bool
	ip      Address

	states   []matchState
	captures []capture

	cfg MatcherConfig
}

func newVirtualMachine(code []byte, text string, cfg MatcherConfig) *virtualMachine {
	return &virtualMachine{code: code, text: text, cfg: cfg}
}

// run drives the dispatch loop to completion: either a synthetic Halt
// terminates it, the call stack empties on a Return, or a fatal
// condition aborts it early. The returned sp/success/captures are
// meaningless when err != nil.
func (vm *virtualMachine) run() (sp int, success bool, captures []capture, err error) {
	for {
		instr, n, ferr := vm.fetch()
		if ferr != nil {
			return 0, false, nil, ferr
		}
		vm.trace(instr)

		switch ins := instr.(type) {
		case IHalt:
			return vm.sp, vm.success, vm.captures, nil

		case IAny:
			if _, size := vm.peekRune(); size > 0 {
				vm.sp += size
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case ISucceed:
			vm.success = true
			vm.ip += Address(n)

		case IFail:
			vm.success = false
			vm.ip += Address(n)

		case IToggleSuccess:
			vm.success = !vm.success
			vm.ip += Address(n)

		case IFailIfLessThan:
			vm.success = vm.qc >= int32(ins.N)
			vm.ip += Address(n)

		case IQuantifierInit:
			vm.pushFrame(vm.ip + Address(n))
			vm.qc = 0
			vm.ip += Address(n)

		case IQuantifierNext:
			if vm.success {
				top, terr := vm.topFrame()
				if terr != nil {
					return 0, false, nil, terr
				}
				vm.qc++
				vm.ip = top.ip
			} else {
				vm.ip += Address(n)
			}

		case IJump:
			vm.ip = ins.Target

		case IJumpIfFail:
			if !vm.success {
				vm.ip = ins.Target
			} else {
				vm.ip += Address(n)
			}

		case IJumpIfSuccess:
			if vm.success {
				vm.ip = ins.Target
			} else {
				vm.ip += Address(n)
			}

		case ICall:
			vm.pushFrame(vm.ip + Address(n))
			vm.ip = ins.Target

		case IReturn:
			if len(vm.states) == 0 {
				return vm.sp, vm.success, vm.captures, nil
			}
			top, perr := vm.popFrame()
			if perr != nil {
				return 0, false, nil, perr
			}
			vm.ip = top.ip

		case IPush:
			vm.pushFrame(0)
			vm.ip += Address(n)

		case IPeek:
			top, terr := vm.topFrame()
			if terr != nil {
				return 0, false, nil, terr
			}
			vm.sp = int(top.sp)
			vm.qc = top.qc
			vm.captures = vm.captures[:top.ac]
			vm.ip += Address(n)

		case IPop:
			if _, perr := vm.popFrame(); perr != nil {
				return 0, false, nil, perr
			}
			vm.ip += Address(n)

		case IByte:
			if vm.sp < len(vm.text) && vm.text[vm.sp] == ins.B {
				vm.sp++
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case IChar:
			if r, size := vm.peekRune(); size > 0 && r == ins.C {
				vm.sp += size
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case IClass:
			if r, size := vm.peekRune(); size > 0 && ins.Class.Matches(r) {
				vm.sp += size
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case ILiteral:
			if strings.HasPrefix(vm.text[min(vm.sp, len(vm.text)):], ins.S) {
				vm.sp += len(ins.S)
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case ISet:
			if r, size := vm.peekRune(); size > 0 && strings.ContainsRune(ins.S, r) {
				vm.sp += size
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case INotSet:
			if r, size := vm.peekRune(); size > 0 && !strings.ContainsRune(ins.S, r) {
				vm.sp += size
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case IRange:
			if vm.sp < len(vm.text) && vm.text[vm.sp] >= ins.Lo && vm.text[vm.sp] <= ins.Hi {
				vm.sp++
				vm.success = true
			} else {
				vm.success = false
			}
			vm.ip += Address(n)

		case ICapture:
			top, terr := vm.topFrame()
			if terr != nil {
				return 0, false, nil, terr
			}
			vm.captures = append(vm.captures, capture{
				start: int(top.sp),
				end:   vm.sp,
				argc:  len(vm.captures) - int(top.ac),
				id:    ins.ID,
			})
			vm.ip += Address(n)

		default:
			panic("langvm: run: unhandled instruction type")
		}
	}
}

func (vm *virtualMachine) fetch() (Instruction, int, error) {
	if int(vm.ip) >= len(vm.code) {
		return nil, 0, &DecodeError{Kind: DecodeErrMissingArgument, Offset: int(vm.ip)}
	}
	return decodeOne(vm.code[vm.ip:])
}

func (vm *virtualMachine) peekRune() (rune, int) {
	if vm.sp >= len(vm.text) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(vm.text[vm.sp:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0
	}
	return r, size
}

func (vm *virtualMachine) pushFrame(ip Address) {
	vm.states = append(vm.states, matchState{
		sp: int32(vm.sp),
		qc: vm.qc,
		ac: int32(len(vm.captures)),
		ip: ip,
	})
}

func (vm *virtualMachine) popFrame() (matchState, error) {
	if len(vm.states) == 0 {
		return matchState{}, ErrUnmatchedPop
	}
	top := vm.states[len(vm.states)-1]
	vm.states = vm.states[:len(vm.states)-1]
	return top, nil
}

func (vm *virtualMachine) topFrame() (matchState, error) {
	if len(vm.states) == 0 {
		return matchState{}, ErrUnmatchedPop
	}
	return vm.states[len(vm.states)-1], nil
}

// fold replays the capture stack in post-order, maintaining a value
// stack: each capture pops the values of the captures nested directly
// inside it (whose subtrees together account for its argc entries),
// calls action with its substring/id/children, and pushes the result.
// The fold result is the last value left on the stack, that of the
// last top-level capture; an empty capture stack yields none.
func fold[T any](text string, captures []capture, action Action[T]) (T, bool) {
	var zero T
	var values []T
	var sizes []int // captures in each value's subtree, itself included
	for _, c := range captures {
		i, covered := len(values), 0
		for covered < c.argc {
			i--
			covered += sizes[i]
		}
		args := make([]T, len(values)-i)
		copy(args, values[i:])
		values = append(values[:i], action(text[c.start:c.end], c.id, args))
		sizes = append(sizes[:i], c.argc+1)
	}
	if len(values) == 0 {
		return zero, false
	}
	return values[len(values)-1], true
}
