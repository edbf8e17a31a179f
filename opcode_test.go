package langvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeMnemonics(t *testing.T) {
	cases := []struct {
		op   Opcode
		want string
	}{
		{OpAny, "any"},
		{OpSucceed, "succ"},
		{OpFail, "fail"},
		{OpFailIfLessThan, "flt"},
		{OpToggleSuccess, "togl"},
		{OpQuantifierInit, "qinit"},
		{OpQuantifierNext, "qnext"},
		{OpJump, "jmp"},
		{OpJumpIfFail, "jmpf"},
		{OpJumpIfSuccess, "jmps"},
		{OpCall, "call"},
		{OpReturn, "ret"},
		{OpPush, "push"},
		{OpPeek, "peek"},
		{OpPop, "pop"},
		{OpByte, "byte"},
		{OpChar, "char"},
		{OpClass, "cls"},
		{OpLiteral, "str"},
		{OpSet, "set"},
		{OpNotSet, "nset"},
		{OpRange, "rng"},
		{OpCapture, "cap"},
		{OpHalt, "halt"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.op.String())
			assert.True(t, tc.op.valid())
		})
	}
}

func TestOpcodeOrderingIsWireStable(t *testing.T) {
	// Opcode byte values are the wire format; this pins them against
	// accidental reordering.
	assert.Equal(t, Opcode(0), OpAny)
	assert.Equal(t, Opcode(23), OpHalt)
}

func TestOpcodeInvalid(t *testing.T) {
	bad := Opcode(200)
	assert.False(t, bad.valid())
	assert.Contains(t, bad.String(), "op(200)")
}

func TestIsJumpFamily(t *testing.T) {
	jumpy := []Opcode{OpJump, OpJumpIfFail, OpJumpIfSuccess, OpCall}
	for _, op := range jumpy {
		assert.True(t, isJumpFamily(op), op.String())
	}
	notJumpy := []Opcode{OpAny, OpReturn, OpPush, OpByte, OpHalt}
	for _, op := range notJumpy {
		assert.False(t, isJumpFamily(op), op.String())
	}
}
