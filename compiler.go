package langvm

// ruleInfo tracks a rule's entry address (once pass 1 reaches it) and
// every Call placeholder address that still needs patching to it.
type ruleInfo struct {
	entry     Address
	hasEntry  bool
	callSites []Address
}

type compiler struct {
	b     *Builder
	rules map[string]*ruleInfo
}

// Compile lowers a Grammar to a Bytecode in two passes: the first
// emits every rule's body in order, recording each rule's entry
// address as it's reached; the second patches every Call placeholder
// against the now-complete rule table. Every structural problem found
// — an empty grammar, a duplicate rule name, a Call to an undefined
// rule — is collected before Compile returns, rather than stopping at
// the first; if anything was found, Compile returns (nil, err) and no
// bytecode at all, not even a partially patched one.
func Compile(g Grammar) (*Bytecode, error) {
	if len(g.Rules) == 0 {
		return nil, aggregateCompileErrors([]*CompileError{{Kind: CompileErrEmptyGrammar}})
	}

	var problems []*CompileError
	seen := make(map[string]int, len(g.Rules))
	for _, r := range g.Rules {
		seen[r.Name]++
	}
	for _, r := range g.Rules {
		if seen[r.Name] > 1 {
			problems = append(problems, &CompileError{Kind: CompileErrDuplicateRuleName, Name: r.Name})
			seen[r.Name] = 1 // report each duplicated name once
		}
	}

	c := &compiler{
		b:     NewBuilder(),
		rules: make(map[string]*ruleInfo, len(g.Rules)),
	}

	for _, r := range g.Rules {
		ri := c.ruleInfo(r.Name)
		ri.entry = c.b.CurrentAddress()
		ri.hasEntry = true
		c.compileExpr(r.Expr)
		c.b.Emit(IReturn{})
	}

	for name, ri := range c.rules {
		if !ri.hasEntry {
			problems = append(problems, &CompileError{Kind: CompileErrUnknownNonTerminal, Name: name})
			continue
		}
		for _, at := range ri.callSites {
			c.b.PatchJump(at, ri.entry)
		}
	}

	if err := aggregateCompileErrors(problems); err != nil {
		return nil, err
	}
	return c.b.Build(), nil
}

func (c *compiler) ruleInfo(name string) *ruleInfo {
	ri, ok := c.rules[name]
	if !ok {
		ri = &ruleInfo{}
		c.rules[name] = ri
	}
	return ri
}

func (c *compiler) compileExpr(e Expression) {
	switch ex := e.(type) {
	case CharExpr:
		c.compileChar(ex.C)
	case LiteralExpr:
		c.b.Emit(ILiteral{S: ex.S})
	case ClassExpr:
		c.b.Emit(IClass{Class: ex.Class})
	case SetExpr:
		c.b.Emit(ISet{S: ex.Chars})
	case InverseSetExpr:
		c.b.Emit(INotSet{S: ex.Chars})
	case RangeExpr:
		c.b.Emit(IRange{Lo: byte(ex.Lo), Hi: byte(ex.Hi)})
	case AnyExpr:
		c.b.Emit(IAny{})
	case NonTerminalExpr:
		c.compileNonTerminal(ex.Name)
	case QuantifierExpr:
		c.compileQuantifier(ex)
	case AndExpr:
		c.compileAnd(ex.Inner)
	case NotExpr:
		c.compileNot(ex.Inner)
	case SequenceExpr:
		c.compileSequence(ex.Children)
	case ChoiceExpr:
		c.compileChoice(ex.Children)
	case CaptureExpr:
		c.compileCapture(ex)
	default:
		panic("langvm: compileExpr: unhandled expression type")
	}
}

// compileChar emits Byte for code points that fit in a single ASCII
// byte and Char otherwise, per the format's own recommendation:
// ASCII literals are by far the common case and don't need the
// variable-width rune payload.
func (c *compiler) compileChar(r rune) {
	if r <= 0x7F {
		c.b.Emit(IByte{B: byte(r)})
	} else {
		c.b.Emit(IChar{C: r})
	}
}

func (c *compiler) compileNonTerminal(name string) {
	ri := c.ruleInfo(name)
	at := c.b.CurrentAddress()
	c.b.Emit(ICall{Target: InvalidAddress})
	ri.callSites = append(ri.callSites, at)
}

func (c *compiler) compileQuantifier(ex QuantifierExpr) {
	switch ex.N {
	case QuantifierOptional:
		c.compileExpr(ex.Inner)
		c.b.Emit(ISucceed{})
	case QuantifierStar:
		loopStart := c.b.CurrentAddress()
		c.compileExpr(ex.Inner)
		c.b.Emit(IJumpIfSuccess{Target: loopStart})
		c.b.Emit(ISucceed{})
	case QuantifierPlus:
		c.b.Emit(IQuantifierInit{})
		c.compileExpr(ex.Inner)
		c.b.Emit(IQuantifierNext{})
		c.b.Emit(IFailIfLessThan{N: 1})
		c.b.Emit(IPop{})
	default:
		panic("langvm: compileQuantifier: N must be -1, 0 or 1")
	}
}

// compileAnd is the positive lookahead &e: match e, always restore
// the cursor, but keep e's own success/failure verdict.
func (c *compiler) compileAnd(inner Expression) {
	c.b.Emit(IPush{})
	c.compileExpr(inner)
	c.b.Emit(IPeek{})
	c.b.Emit(IPop{})
}

// compileNot is the negative lookahead !e: match e, restore the
// cursor, and invert the verdict.
func (c *compiler) compileNot(inner Expression) {
	c.b.Emit(IPush{})
	c.compileExpr(inner)
	c.b.Emit(IToggleSuccess{})
	c.b.Emit(IPeek{})
	c.b.Emit(IPop{})
}

// compileSequence lowers es[0] es[1] ... es[n-1]. On the failure of
// any child it must restore the cursor to where the sequence started
// (Peek) before dropping the saved frame (Pop); on overall success it
// just drops the frame, since every child already left the cursor
// where it should be.
func (c *compiler) compileSequence(children []Expression) {
	switch len(children) {
	case 0:
		return
	case 1:
		c.compileExpr(children[0])
		return
	}

	c.b.Emit(IPush{})
	c.compileExpr(children[0])

	var failSites []Address
	for _, child := range children[1:] {
		at := c.b.CurrentAddress()
		c.b.Emit(IJumpIfFail{Target: InvalidAddress})
		failSites = append(failSites, at)
		c.compileExpr(child)
	}

	successSite := c.b.CurrentAddress()
	c.b.Emit(IJumpIfSuccess{Target: InvalidAddress})

	endFail := c.b.CurrentAddress()
	c.b.Emit(IPeek{})

	end := c.b.CurrentAddress()
	c.b.Emit(IPop{})

	for _, at := range failSites {
		c.b.PatchJump(at, endFail)
	}
	c.b.PatchJump(successSite, end)
}

// compileChoice lowers es[0] / es[1] / ... / es[n-1]. Every
// alternative's own lowering already restores the cursor on failure
// (by induction: Sequence/And/Not/Quantifier each do), so choice
// itself needs no state frame — it just tries the next alternative at
// the same cursor position.
func (c *compiler) compileChoice(children []Expression) {
	switch len(children) {
	case 0:
		return
	case 1:
		c.compileExpr(children[0])
		return
	}

	c.compileExpr(children[0])

	var successSites []Address
	for _, child := range children[1:] {
		at := c.b.CurrentAddress()
		c.b.Emit(IJumpIfSuccess{Target: InvalidAddress})
		successSites = append(successSites, at)
		c.compileExpr(child)
	}

	end := c.b.CurrentAddress()
	for _, at := range successSites {
		c.b.PatchJump(at, end)
	}
}

func (c *compiler) compileCapture(ex CaptureExpr) {
	c.b.Emit(IPush{})
	c.compileExpr(ex.Inner)
	c.b.Emit(ICapture{ID: ex.ID})
	c.b.Emit(IPop{})
}
