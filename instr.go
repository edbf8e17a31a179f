package langvm

import "unicode/utf8"

// Instruction is the decoded, in-memory form of one bytecode
// instruction. Every concrete type below corresponds to exactly one
// Opcode and knows how many bytes it occupies on the wire.
type Instruction interface {
	Op() Opcode
	SizeInBytes() int
}

// No-payload instructions: one opcode byte, nothing else.

type IAny struct{}

func (IAny) Op() Opcode      { return OpAny }
func (IAny) SizeInBytes() int { return 1 }

type ISucceed struct{}

func (ISucceed) Op() Opcode      { return OpSucceed }
func (ISucceed) SizeInBytes() int { return 1 }

type IFail struct{}

func (IFail) Op() Opcode      { return OpFail }
func (IFail) SizeInBytes() int { return 1 }

type IToggleSuccess struct{}

func (IToggleSuccess) Op() Opcode      { return OpToggleSuccess }
func (IToggleSuccess) SizeInBytes() int { return 1 }

type IQuantifierInit struct{}

func (IQuantifierInit) Op() Opcode      { return OpQuantifierInit }
func (IQuantifierInit) SizeInBytes() int { return 1 }

type IQuantifierNext struct{}

func (IQuantifierNext) Op() Opcode      { return OpQuantifierNext }
func (IQuantifierNext) SizeInBytes() int { return 1 }

type IReturn struct{}

func (IReturn) Op() Opcode      { return OpReturn }
func (IReturn) SizeInBytes() int { return 1 }

type IPush struct{}

func (IPush) Op() Opcode      { return OpPush }
func (IPush) SizeInBytes() int { return 1 }

type IPeek struct{}

func (IPeek) Op() Opcode      { return OpPeek }
func (IPeek) SizeInBytes() int { return 1 }

type IPop struct{}

func (IPop) Op() Opcode      { return OpPop }
func (IPop) SizeInBytes() int { return 1 }

// One-byte-payload instructions.

type IFailIfLessThan struct{ N byte }

func (IFailIfLessThan) Op() Opcode      { return OpFailIfLessThan }
func (IFailIfLessThan) SizeInBytes() int { return 2 }

type IByte struct{ B byte }

func (IByte) Op() Opcode      { return OpByte }
func (IByte) SizeInBytes() int { return 2 }

type ICapture struct{ ID byte }

func (ICapture) Op() Opcode      { return OpCapture }
func (ICapture) SizeInBytes() int { return 2 }

type IClass struct{ Class CharClass }

func (IClass) Op() Opcode      { return OpClass }
func (IClass) SizeInBytes() int { return 2 }

// Two-byte address payload (jump family).

type IJump struct{ Target Address }

func (IJump) Op() Opcode      { return OpJump }
func (IJump) SizeInBytes() int { return 3 }

type IJumpIfFail struct{ Target Address }

func (IJumpIfFail) Op() Opcode      { return OpJumpIfFail }
func (IJumpIfFail) SizeInBytes() int { return 3 }

type IJumpIfSuccess struct{ Target Address }

func (IJumpIfSuccess) Op() Opcode      { return OpJumpIfSuccess }
func (IJumpIfSuccess) SizeInBytes() int { return 3 }

type ICall struct{ Target Address }

func (ICall) Op() Opcode      { return OpCall }
func (ICall) SizeInBytes() int { return 3 }

// NUL-terminated string payloads.

type ILiteral struct{ S string }

func (ILiteral) Op() Opcode          { return OpLiteral }
func (i ILiteral) SizeInBytes() int { return 1 + len(i.S) + 1 }

type ISet struct{ S string }

func (ISet) Op() Opcode          { return OpSet }
func (i ISet) SizeInBytes() int { return 1 + len(i.S) + 1 }

type INotSet struct{ S string }

func (INotSet) Op() Opcode          { return OpNotSet }
func (i INotSet) SizeInBytes() int { return 1 + len(i.S) + 1 }

// Fixed two-byte range payload.

type IRange struct{ Lo, Hi byte }

func (IRange) Op() Opcode      { return OpRange }
func (IRange) SizeInBytes() int { return 3 }

// Variable-width UTF-8 rune payload.

type IChar struct{ C rune }

func (IChar) Op() Opcode          { return OpChar }
func (i IChar) SizeInBytes() int { return 1 + utf8.RuneLen(i.C) }

// IHalt is synthetic: the decoder yields it (carrying the offending
// error) when it cannot make sense of the remaining bytes. The
// compiler never emits it.
type IHalt struct{ Err error }

func (IHalt) Op() Opcode      { return OpHalt }
func (IHalt) SizeInBytes() int { return 1 }
