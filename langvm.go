// Package langvm compiles parsing expression grammars to bytecode for
// a small register/stack virtual machine and matches that bytecode
// against input text.
package langvm

// Action folds one capture and its already-folded children into a
// value of the caller's choosing. It is assumed infallible: there is
// no error return, matching the format's own error-handling design.
type Action[T any] func(substring string, id byte, children []T) T

// TryMatch runs b against text from the start and returns how many
// bytes of text were consumed. A grammar that doesn't match the
// input is not an error condition outside the ordinary: it comes back
// as ErrNoMatch, not a panic or a wrapped internal detail.
func TryMatch(b *Bytecode, text string) (int, error) {
	return TryMatchConfig(b, text, MatcherConfig{})
}

// TryMatchConfig is TryMatch with an explicit MatcherConfig, for
// turning on instruction tracing.
func TryMatchConfig(b *Bytecode, text string, cfg MatcherConfig) (int, error) {
	vm := newVirtualMachine(b.Bytes(), text, cfg)
	sp, success, _, err := vm.run()
	if err != nil {
		return 0, err
	}
	if !success {
		return 0, ErrNoMatch
	}
	return sp, nil
}

// TryMatchThen is TryMatch plus a capture fold: on success, action is
// replayed over the capture stack in post-order and the value of type
// T folded for the last top-level capture is returned alongside the
// consumed-byte count. If the grammar produced no captures, the
// returned value is T's zero value.
func TryMatchThen[T any](b *Bytecode, text string, action Action[T]) (int, T, error) {
	return TryMatchThenConfig(b, text, action, MatcherConfig{})
}

// TryMatchThenConfig is TryMatchThen with an explicit MatcherConfig.
func TryMatchThenConfig[T any](b *Bytecode, text string, action Action[T], cfg MatcherConfig) (int, T, error) {
	var zero T
	vm := newVirtualMachine(b.Bytes(), text, cfg)
	sp, success, captures, err := vm.run()
	if err != nil {
		return 0, zero, err
	}
	if !success {
		return 0, zero, ErrNoMatch
	}
	v, _ := fold(text, captures, action)
	return sp, v, nil
}
