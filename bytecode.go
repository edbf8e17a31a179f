package langvm

// Bytecode is an immutable, already-decodable instruction stream.
// Its entry point — address 0 — is always the first rule's body.
type Bytecode struct {
	code []byte
}

// Bytes exposes the raw encoded instruction stream.
func (b *Bytecode) Bytes() []byte { return b.code }

// Len reports the size of the encoded stream in bytes.
func (b *Bytecode) Len() int { return len(b.code) }

// NewBytecode validates code by running the decoder to completion and
// rejecting any embedded Halt(error): this is the path for bytecode
// arriving from outside the package (deserialized from disk, say),
// where the byte source isn't already known to be decoder-safe.
func NewBytecode(code []byte) (*Bytecode, error) {
	d := NewDecoder(code)
	for {
		instr, _, ok := d.Next()
		if !ok {
			break
		}
		if h, isHalt := instr.(IHalt); isHalt && h.Err != nil {
			return nil, h.Err
		}
	}
	return &Bytecode{code: append([]byte(nil), code...)}, nil
}

// trustedBytecode wraps code without re-validating it. Only call this
// with bytes that were produced by this package's own encoder, such
// as Builder.Build's output.
func trustedBytecode(code []byte) *Bytecode {
	return &Bytecode{code: code}
}
