package langvm

import "fmt"

// Address is a byte offset into a Bytecode's instruction stream.
type Address uint16

// InvalidAddress is the sentinel used for jump-family placeholders
// before Builder.PatchJump fills in the real target. The Decoder does
// not use it to mark the end of iteration; it keeps its own halted
// flag for that.
const InvalidAddress Address = 0xFFFF

// Opcode is the one-byte tag at the start of every encoded
// instruction. Declaration order matches the wire format and is load
// bearing: byte values, not names, cross the codec boundary.
type Opcode uint8

const (
	OpAny Opcode = iota
	OpSucceed
	OpFail
	OpFailIfLessThan
	OpToggleSuccess
	OpQuantifierInit
	OpQuantifierNext
	OpJump
	OpJumpIfFail
	OpJumpIfSuccess
	OpCall
	OpReturn
	OpPush
	OpPeek
	OpPop
	OpByte
	OpChar
	OpClass
	OpLiteral
	OpSet
	OpNotSet
	OpRange
	OpCapture
	OpHalt

	opcodeCount
)

var opcodeMnemonics = [...]string{
	OpAny:            "any",
	OpSucceed:        "succ",
	OpFail:           "fail",
	OpFailIfLessThan: "flt",
	OpToggleSuccess:  "togl",
	OpQuantifierInit: "qinit",
	OpQuantifierNext: "qnext",
	OpJump:           "jmp",
	OpJumpIfFail:     "jmpf",
	OpJumpIfSuccess:  "jmps",
	OpCall:           "call",
	OpReturn:         "ret",
	OpPush:           "push",
	OpPeek:           "peek",
	OpPop:            "pop",
	OpByte:           "byte",
	OpChar:           "char",
	OpClass:          "cls",
	OpLiteral:        "str",
	OpSet:            "set",
	OpNotSet:         "nset",
	OpRange:          "rng",
	OpCapture:        "cap",
	OpHalt:           "halt",
}

// String renders the assembly mnemonic for op, matching the table in
// the bytecode format description exactly.
func (op Opcode) String() string {
	if op.valid() {
		return opcodeMnemonics[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

func (op Opcode) valid() bool {
	return op < opcodeCount
}

func isJumpFamily(op Opcode) bool {
	switch op {
	case OpJump, OpJumpIfFail, OpJumpIfSuccess, OpCall:
		return true
	default:
		return false
	}
}
