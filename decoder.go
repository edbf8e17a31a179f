package langvm

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
)

// Decoder is a forward-only iterator over an encoded instruction
// stream. It never looks backward and never seeks, which is what
// lets the VM's own fetch-at-arbitrary-address loop reuse the same
// per-instruction decode logic without sharing state with this type.
type Decoder struct {
	buf    []byte
	offset int
	halted bool
}

// NewDecoder wraps buf for sequential decoding starting at offset 0.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the byte position Next will read from.
func (d *Decoder) Offset() int { return d.offset }

// Len returns the total length of the underlying buffer.
func (d *Decoder) Len() int { return len(d.buf) }

// Next decodes the instruction at the current offset and advances
// past it. ok is false once iteration is finished: either the buffer
// ran out cleanly after a well-formed instruction, or a Halt(error)
// was already yielded by a previous call.
//
// A Decoder constructed over a zero-length buffer is itself
// malformed: no compiled program is ever zero bytes, since every rule
// ends in at least a Return. So the very first call in that case
// yields a single Halt(EmptyChunk) rather than a clean end; any other
// exhaustion (offset caught up to a non-empty buffer) is ordinary
// termination, not an error.
func (d *Decoder) Next() (Instruction, int, bool) {
	if d.halted {
		return nil, 0, false
	}
	if d.offset >= len(d.buf) {
		if d.offset == 0 {
			d.halted = true
			return IHalt{Err: &DecodeError{Kind: DecodeErrEmptyChunk, Offset: 0}}, 0, true
		}
		return nil, 0, false
	}
	instr, n, err := decodeOne(d.buf[d.offset:])
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Offset = d.offset
		}
		d.halted = true
		return IHalt{Err: err}, 0, true
	}
	d.offset += n
	return instr, n, true
}

func decodeOne(buf []byte) (Instruction, int, error) {
	op := Opcode(buf[0])
	if !op.valid() {
		return nil, 0, &DecodeError{Kind: DecodeErrInvalidOpcode}
	}

	switch op {
	case OpAny:
		return IAny{}, 1, nil
	case OpSucceed:
		return ISucceed{}, 1, nil
	case OpFail:
		return IFail{}, 1, nil
	case OpToggleSuccess:
		return IToggleSuccess{}, 1, nil
	case OpQuantifierInit:
		return IQuantifierInit{}, 1, nil
	case OpQuantifierNext:
		return IQuantifierNext{}, 1, nil
	case OpReturn:
		return IReturn{}, 1, nil
	case OpPush:
		return IPush{}, 1, nil
	case OpPeek:
		return IPeek{}, 1, nil
	case OpPop:
		return IPop{}, 1, nil
	case OpHalt:
		return IHalt{}, 1, nil

	case OpFailIfLessThan:
		b, err := decodeByte(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		return IFailIfLessThan{N: b}, 2, nil

	case OpByte:
		b, err := decodeByte(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		return IByte{B: b}, 2, nil

	case OpCapture:
		b, err := decodeByte(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		return ICapture{ID: b}, 2, nil

	case OpClass:
		b, err := decodeByte(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		cls, ok := byteToCharClass(b)
		if !ok {
			return nil, 0, &DecodeError{Kind: DecodeErrInvalidCharacterClass}
		}
		return IClass{Class: cls}, 2, nil

	case OpJump, OpJumpIfFail, OpJumpIfSuccess, OpCall:
		addr, err := decodeAddress(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		switch op {
		case OpJump:
			return IJump{Target: addr}, 3, nil
		case OpJumpIfFail:
			return IJumpIfFail{Target: addr}, 3, nil
		case OpJumpIfSuccess:
			return IJumpIfSuccess{Target: addr}, 3, nil
		default:
			return ICall{Target: addr}, 3, nil
		}

	case OpLiteral, OpSet, OpNotSet:
		s, consumed, err := decodeCString(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		switch op {
		case OpLiteral:
			return ILiteral{S: s}, consumed, nil
		case OpSet:
			return ISet{S: s}, consumed, nil
		default:
			return INotSet{S: s}, consumed, nil
		}

	case OpRange:
		if len(buf) < 3 {
			return nil, 0, &DecodeError{Kind: DecodeErrMissingArgument}
		}
		lo, hi := buf[1], buf[2]
		if lo >= hi {
			return nil, 0, &DecodeError{Kind: DecodeErrInvalidRange}
		}
		return IRange{Lo: lo, Hi: hi}, 3, nil

	case OpChar:
		r, consumed, err := decodeRune(buf, 1)
		if err != nil {
			return nil, 0, err
		}
		return IChar{C: r}, consumed, nil
	}

	return nil, 0, &DecodeError{Kind: DecodeErrInvalidOpcode}
}

func decodeByte(buf []byte, at int) (byte, error) {
	if at >= len(buf) {
		return 0, &DecodeError{Kind: DecodeErrMissingArgument}
	}
	return buf[at], nil
}

func decodeAddress(buf []byte, at int) (Address, error) {
	if at+2 > len(buf) {
		return 0, &DecodeError{Kind: DecodeErrMissingArgument}
	}
	return Address(binary.LittleEndian.Uint16(buf[at:])), nil
}

func decodeCString(buf []byte, at int) (string, int, error) {
	if at > len(buf) {
		return "", 0, &DecodeError{Kind: DecodeErrMissingArgument}
	}
	rest := buf[at:]
	idx := bytes.IndexByte(rest, 0)
	if idx < 0 {
		return "", 0, &DecodeError{Kind: DecodeErrMissingStringTerminator}
	}
	s := rest[:idx]
	if !utf8.Valid(s) {
		return "", 0, &DecodeError{Kind: DecodeErrUtf8Error}
	}
	return string(s), at + idx + 1, nil
}

func decodeRune(buf []byte, at int) (rune, int, error) {
	if at >= len(buf) {
		return 0, 0, &DecodeError{Kind: DecodeErrMissingArgument}
	}
	r, size := utf8.DecodeRune(buf[at:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, &DecodeError{Kind: DecodeErrUtf8Error}
	}
	return r, at + size, nil
}
