package langvm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DecodeErrorKind enumerates the ways a byte sequence can fail to be
// a valid instruction.
type DecodeErrorKind int

const (
	DecodeErrInvalidOpcode DecodeErrorKind = iota
	DecodeErrMissingArgument
	DecodeErrInvalidCharacterClass
	DecodeErrMissingStringTerminator
	DecodeErrUtf8Error
	DecodeErrInvalidRange
	DecodeErrEmptyChunk
)

var decodeErrorKindNames = [...]string{
	DecodeErrInvalidOpcode:           "InvalidOpcode",
	DecodeErrMissingArgument:         "MissingArgument",
	DecodeErrInvalidCharacterClass:   "InvalidCharacterClass",
	DecodeErrMissingStringTerminator: "MissingStringTerminator",
	DecodeErrUtf8Error:               "Utf8Error",
	DecodeErrInvalidRange:            "InvalidRange",
	DecodeErrEmptyChunk:              "EmptyChunk",
}

func (k DecodeErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(decodeErrorKindNames) {
		return decodeErrorKindNames[k]
	}
	return "DecodeErrorKind(?)"
}

// DecodeError reports a malformed instruction at a given byte offset.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
}

func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}

// CompileErrorKind enumerates the ways a Grammar can fail to produce
// a Bytecode.
type CompileErrorKind int

const (
	CompileErrEmptyGrammar CompileErrorKind = iota
	CompileErrDuplicateRuleName
	CompileErrUnknownNonTerminal
)

// CompileError reports one structural problem found while compiling
// a grammar. Compile aggregates every CompileError it finds into a
// single *multierror.Error; errors.Is/errors.As see through it to the
// sentinels below.
type CompileError struct {
	Kind CompileErrorKind
	Name string
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case CompileErrEmptyGrammar:
		return "grammar has no rules"
	case CompileErrDuplicateRuleName:
		return fmt.Sprintf("duplicate rule name %q", e.Name)
	case CompileErrUnknownNonTerminal:
		return fmt.Sprintf("reference to undefined rule %q", e.Name)
	default:
		return "compile error"
	}
}

func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyGrammar       = &CompileError{Kind: CompileErrEmptyGrammar}
	ErrDuplicateRuleName  = &CompileError{Kind: CompileErrDuplicateRuleName}
	ErrUnknownNonTerminal = &CompileError{Kind: CompileErrUnknownNonTerminal}
)

func aggregateCompileErrors(errs []*CompileError) error {
	var merr *multierror.Error
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// MatchErrorKind enumerates the two ways a match attempt itself can
// conclude without a result: ordinary grammar failure, or bytecode
// that is structurally inconsistent (a compiler bug, never something
// well-formed input can trigger).
type MatchErrorKind int

const (
	MatchErrNoMatch MatchErrorKind = iota
	MatchErrUnmatchedPop
)

// MatchError is returned by TryMatch/TryMatchThen when the grammar
// does not match the input (NoMatch) or the bytecode pops or peeks an
// empty state stack (UnmatchedPop). A decode failure met mid-match is
// returned as the *DecodeError itself, not as a MatchError.
type MatchError struct {
	Kind MatchErrorKind
}

func (e *MatchError) Error() string {
	switch e.Kind {
	case MatchErrNoMatch:
		return "no match"
	case MatchErrUnmatchedPop:
		return "unmatched pop: bytecode is structurally inconsistent"
	default:
		return "match error"
	}
}

func (e *MatchError) Is(target error) bool {
	t, ok := target.(*MatchError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoMatch      = &MatchError{Kind: MatchErrNoMatch}
	ErrUnmatchedPop = &MatchError{Kind: MatchErrUnmatchedPop}
)
