package formula

// Expression = Term { ('+' | '-') Term }
// Term       = Factor { ['*' | '/'] Factor }   a factor without an operator must start with an Atom
// Factor     = ['+' | '-'] Power
// Power      = Atom ['^' Factor]
// Atom       = number | letter | '(' Expression ')'

const atomExpected = "a number, letter, or '('"

// Validate checks that a token sequence from Tokenize is a formula. It builds
// nothing, so a formula that fails validation never produces a partial tree.
// Every sequence that passes can be parsed.
func Validate(toks []Token, opts ...ParseOption) error {
	p := newparsectx(opts)
	return validate(toks, &p)
}

func validate(toks []Token, p *parsectx) error {
	if len(toks) == 0 || toks[len(toks)-1].Kind != End {
		panic("formula: token sequence does not end with End")
	}
	v := validator{toks: toks, p: p}
	if tok := v.peek(); tok.Kind == End {
		return &SyntaxError{Col: tok.Pos, Expected: "a formula", Found: tok.describe(), Reason: "empty formula"}
	}
	if err := v.expr(0); err != nil {
		return err
	}
	switch tok := v.peek(); tok.Kind {
	case End:
		return nil
	case RParen:
		return &SyntaxError{Col: tok.Pos, Expected: "an operator or end of formula", Found: tok.describe(), Reason: "unbalanced parentheses"}
	default:
		panic("formula: validation ended on " + tok.String())
	}
}

// validator walks tokens with the same recursion as parser without building
// nodes.
type validator struct {
	toks []Token
	i    int
	p    *parsectx
}

func (v *validator) peek() Token {
	return v.toks[v.i]
}

// advance scans the next token. End is never passed.
func (v *validator) advance() Token {
	tok := v.toks[v.i]
	if tok.Kind != End {
		v.i++
	}
	return tok
}

func (v *validator) expr(depth int) error {
	if err := v.p.nest(depth, v.peek()); err != nil {
		return err
	}
	if err := v.term(depth); err != nil {
		return err
	}
	for isop(v.peek(), '+', '-') {
		v.advance()
		if err := v.term(depth); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) term(depth int) error {
	if err := v.factor(depth); err != nil {
		return err
	}
	for {
		tok := v.peek()
		switch {
		case isop(tok, '*', '/'):
			v.advance()
		case startsAtom(tok):
			// Implicit multiplication.
		default:
			return nil
		}
		if err := v.factor(depth); err != nil {
			return err
		}
	}
}

func (v *validator) factor(depth int) error {
	if isop(v.peek(), '+', '-') {
		v.advance()
	}
	return v.power(depth)
}

func (v *validator) power(depth int) error {
	if err := v.atom(depth); err != nil {
		return err
	}
	if !isop(v.peek(), '^') {
		return nil
	}
	caret := v.advance()
	if err := v.p.nest(depth+1, caret); err != nil {
		return err
	}
	return v.factor(depth + 1)
}

func (v *validator) atom(depth int) error {
	tok := v.advance()
	switch tok.Kind {
	case Number, Letter:
		return nil
	case LParen:
		if end := v.peek(); end.Kind == RParen {
			return &SyntaxError{Col: end.Pos, Expected: atomExpected, Found: end.describe(), Reason: "empty parentheses"}
		}
		if err := v.expr(depth + 1); err != nil {
			return err
		}
		if end := v.advance(); end.Kind != RParen {
			return &SyntaxError{Col: end.Pos, Expected: "')'", Found: end.describe(), Reason: "unbalanced parentheses"}
		}
		return nil
	case Operator:
		return &SyntaxError{Col: tok.Pos, Expected: atomExpected, Found: tok.describe(), Reason: "unexpected operator"}
	case RParen, End:
		return &SyntaxError{Col: tok.Pos, Expected: atomExpected, Found: tok.describe(), Reason: "missing operand"}
	default:
		panic("formula: unknown token " + tok.String())
	}
}

// isop checks whether tok is one of the given operators.
func isop(tok Token, ops ...rune) bool {
	if tok.Kind != Operator {
		return false
	}
	for _, r := range ops {
		if tok.Rune == r {
			return true
		}
	}
	return false
}

// startsAtom checks whether tok can begin an Atom, and so a factor multiplied
// by juxtaposition.
func startsAtom(tok Token) bool {
	switch tok.Kind {
	case Number, Letter, LParen:
		return true
	default:
		return false
	}
}
