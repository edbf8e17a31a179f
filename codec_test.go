package langvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodecRoundTrip is the format's central invariant: every
// instruction the builder can emit decodes back to an equal value,
// consuming exactly the bytes SizeInBytes promised.
func TestCodecRoundTrip(t *testing.T) {
	instrs := []Instruction{
		IAny{},
		ISucceed{},
		IFail{},
		IToggleSuccess{},
		IQuantifierInit{},
		IQuantifierNext{},
		IReturn{},
		IPush{},
		IPeek{},
		IPop{},
		IFailIfLessThan{N: 3},
		IByte{B: 'x'},
		ICapture{ID: 7},
		IClass{Class: ClassDigit},
		IJump{Target: 42},
		IJumpIfFail{Target: 1000},
		IJumpIfSuccess{Target: 0},
		ICall{Target: InvalidAddress},
		ILiteral{S: "hello"},
		ISet{S: "abc"},
		INotSet{S: ""},
		IRange{Lo: 'a', Hi: 'z'},
		IChar{C: 'A'},
		IChar{C: '世'},
	}

	for _, want := range instrs {
		t.Run(want.Op().String(), func(t *testing.T) {
			buf := encodeInstruction(nil, want)
			assert.Len(t, buf, want.SizeInBytes())

			got, n, err := decodeOne(buf)
			require.NoError(t, err)
			assert.Equal(t, want.SizeInBytes(), n)
			assert.Equal(t, want, got)
		})
	}
}

func TestBuilderEmitAndPatchJump(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, Address(0), b.CurrentAddress())

	b.Emit(IAny{})
	at := b.CurrentAddress()
	b.Emit(IJump{Target: InvalidAddress})
	b.Emit(ISucceed{})

	b.PatchJump(at, 99)

	code := b.Build()
	d := NewDecoder(code.Bytes())

	instr, _, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, IAny{}, instr)

	instr, _, ok = d.Next()
	require.True(t, ok)
	assert.Equal(t, IJump{Target: 99}, instr)
}

func TestBuilderPatchJumpPanicsOnNonJumpInstruction(t *testing.T) {
	b := NewBuilder()
	at := b.CurrentAddress()
	b.Emit(IAny{})

	assert.Panics(t, func() {
		b.PatchJump(at, 5)
	})
}

func TestBytecodeBuildIsTrusted(t *testing.T) {
	b := NewBuilder()
	b.Emit(IAny{})
	b.Emit(IReturn{})
	code := b.Build()
	assert.Equal(t, 2, code.Len())
}

func TestNewBytecodeRejectsMalformedInput(t *testing.T) {
	_, err := NewBytecode([]byte{})
	require.Error(t, err)
	assert.ErrorIs(t, err, &DecodeError{Kind: DecodeErrEmptyChunk})
}

func TestNewBytecodeAcceptsWellFormedInput(t *testing.T) {
	b := NewBuilder()
	b.Emit(ILiteral{S: "ok"})
	b.Emit(IReturn{})
	raw := b.Build().Bytes()

	code, err := NewBytecode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, code.Bytes())
}
