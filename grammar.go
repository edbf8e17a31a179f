package langvm

import "golang.org/x/exp/slices"

// Rule binds a name to the expression that defines it.
type Rule struct {
	Name string
	Expr Expression
}

// Grammar is an ordered list of rules plus a name→index map for
// lookup. The first rule is the axiom: compiling a Grammar produces
// bytecode whose entry point is that rule's body.
type Grammar struct {
	Rules []Rule
	index map[string]int
}

// NewGrammar builds a Grammar directly from a rule list, without
// going through GrammarBuilder. It independently rejects duplicate
// names and an empty rule list, aggregating every problem found
// rather than stopping at the first.
func NewGrammar(rules []Rule) (Grammar, error) {
	var problems []*CompileError
	if len(rules) == 0 {
		problems = append(problems, &CompileError{Kind: CompileErrEmptyGrammar})
	}

	index := make(map[string]int, len(rules))
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if seen[r.Name] {
			problems = append(problems, &CompileError{Kind: CompileErrDuplicateRuleName, Name: r.Name})
			continue
		}
		seen[r.Name] = true
		index[r.Name] = i
	}

	if err := aggregateCompileErrors(problems); err != nil {
		return Grammar{}, err
	}
	return Grammar{Rules: rules, index: index}, nil
}

// Index returns the position of the named rule.
func (g Grammar) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Axiom returns the first rule, the grammar's entry point.
func (g Grammar) Axiom() (Rule, bool) {
	if len(g.Rules) == 0 {
		return Rule{}, false
	}
	return g.Rules[0], true
}

// GrammarBuilder assembles a Grammar one rule at a time. It is not
// the excluded EDSL for building expression trees via operator
// overloading — it only ever sequences whole Rule values — but it
// does give a chainable, fail-fast alternative to constructing a
// []Rule by hand and calling NewGrammar.
type GrammarBuilder struct {
	rules []Rule
	names []string
}

// NewGrammarBuilder returns an empty builder.
func NewGrammarBuilder() *GrammarBuilder {
	return &GrammarBuilder{}
}

// Rule appends a named rule and returns the builder for chaining.
func (b *GrammarBuilder) Rule(name string, expr Expression) *GrammarBuilder {
	b.rules = append(b.rules, Rule{Name: name, Expr: expr})
	b.names = append(b.names, name)
	return b
}

// Build rejects a duplicate name immediately, rather than deferring
// to Compile, so a caller gets the error at the point the mistake was
// made.
func (b *GrammarBuilder) Build() (Grammar, error) {
	for i, name := range b.names {
		if slices.Contains(b.names[:i], name) {
			return Grammar{}, &CompileError{Kind: CompileErrDuplicateRuleName, Name: name}
		}
	}
	return NewGrammar(b.rules)
}
