package langvm

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Builder is an append-only byte buffer that the compiler drives to
// assemble a program. Its only write-after-emit operation is
// PatchJump, used to resolve forward references once a rule's entry
// address is known.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// CurrentAddress is the address the next Emit will write to.
func (b *Builder) CurrentAddress() Address {
	return Address(len(b.buf))
}

// Emit encodes instr and appends it.
func (b *Builder) Emit(instr Instruction) {
	b.buf = encodeInstruction(b.buf, instr)
}

// PatchJump overwrites the two payload bytes of the jump-family
// instruction (Jump, JumpIfFail, JumpIfSuccess, Call) previously
// emitted at address at, redirecting it to target. Calling it on any
// other instruction is a programmer error, not a runtime condition a
// caller can recover from.
func (b *Builder) PatchJump(at Address, target Address) {
	op := Opcode(b.buf[at])
	if !isJumpFamily(op) {
		panic(fmt.Sprintf("langvm: PatchJump at %d targets a %s instruction, not a jump", at, op))
	}
	binary.LittleEndian.PutUint16(b.buf[int(at)+1:], uint16(target))
}

// Build freezes the emitted bytes into a Bytecode. Builder output is
// trusted: it was produced by encodeInstruction/decodeOne's own
// inverse, so it is accepted without re-running the decoder.
func (b *Builder) Build() *Bytecode {
	return trustedBytecode(append([]byte(nil), b.buf...))
}

func encodeInstruction(buf []byte, instr Instruction) []byte {
	switch ins := instr.(type) {
	case IAny:
		return append(buf, byte(OpAny))
	case ISucceed:
		return append(buf, byte(OpSucceed))
	case IFail:
		return append(buf, byte(OpFail))
	case IToggleSuccess:
		return append(buf, byte(OpToggleSuccess))
	case IQuantifierInit:
		return append(buf, byte(OpQuantifierInit))
	case IQuantifierNext:
		return append(buf, byte(OpQuantifierNext))
	case IReturn:
		return append(buf, byte(OpReturn))
	case IPush:
		return append(buf, byte(OpPush))
	case IPeek:
		return append(buf, byte(OpPeek))
	case IPop:
		return append(buf, byte(OpPop))
	case IHalt:
		return append(buf, byte(OpHalt))

	case IFailIfLessThan:
		return append(buf, byte(OpFailIfLessThan), ins.N)
	case IByte:
		return append(buf, byte(OpByte), ins.B)
	case ICapture:
		return append(buf, byte(OpCapture), ins.ID)
	case IClass:
		return append(buf, byte(OpClass), byte(ins.Class))

	case IJump:
		return appendAddress(append(buf, byte(OpJump)), ins.Target)
	case IJumpIfFail:
		return appendAddress(append(buf, byte(OpJumpIfFail)), ins.Target)
	case IJumpIfSuccess:
		return appendAddress(append(buf, byte(OpJumpIfSuccess)), ins.Target)
	case ICall:
		return appendAddress(append(buf, byte(OpCall)), ins.Target)

	case ILiteral:
		return appendCString(append(buf, byte(OpLiteral)), ins.S)
	case ISet:
		return appendCString(append(buf, byte(OpSet)), ins.S)
	case INotSet:
		return appendCString(append(buf, byte(OpNotSet)), ins.S)

	case IRange:
		return append(buf, byte(OpRange), ins.Lo, ins.Hi)

	case IChar:
		return appendRune(append(buf, byte(OpChar)), ins.C)

	default:
		panic(fmt.Sprintf("langvm: encodeInstruction: unhandled instruction type %T", instr))
	}
}

func appendAddress(buf []byte, a Address) []byte {
	return binary.LittleEndian.AppendUint16(buf, uint16(a))
}

func appendCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}
