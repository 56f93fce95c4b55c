package formula

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Formula is the result of parsing a formula with an optional range clause.
type Formula struct {
	// Root is the root node of the expression.
	Root Node
	// HasRange indicates a {Begin End} clause restricting the domain.
	HasRange bool
	// Begin and End are the bounds of the domain when HasRange is set.
	Begin, End float64
}

// Parse parses an expression without a range clause. The given options are
// applied in order.
func Parse(src string, opts ...ParseOption) (Node, error) {
	p := newparsectx(opts)
	return parse(src, 0, &p)
}

// ParseFormula parses a formula with an optional range clause. The range
// clause starts at the first '{' and runs to the end of the text; it must
// hold exactly two numbers with the second larger than the first. On any
// error, the result is nil.
func ParseFormula(text string, opts ...ParseOption) (*Formula, error) {
	p := newparsectx(opts)
	src, clause, col := splitRange(text)
	if clause != "" && !strings.HasSuffix(clause, "}") {
		return nil, &RangeSyntaxError{Col: col, Msg: RangeUnclosed}
	}
	root, err := parse(src, 0, &p)
	if err != nil {
		return nil, err
	}
	f := Formula{Root: root}
	if clause == "" {
		return &f, nil
	}
	// Positions inside the clause count the runes up to and including '{'.
	toks, err := tokenize(clause[1:len(clause)-1], col)
	if err != nil {
		return nil, err
	}
	if len(toks) != 3 || toks[0].Kind != Number || toks[1].Kind != Number {
		return nil, &RangeSyntaxError{Col: col, Msg: RangeNotPair}
	}
	f.HasRange = true
	f.Begin, f.End = toks[0].Num, toks[1].Num
	if f.End <= f.Begin {
		return nil, &RangeSyntaxError{Col: col, Msg: RangeInverted}
	}
	return &f, nil
}

// splitRange separates the range clause from the expression. clause is empty
// if there is none; otherwise it starts with '{', has trailing whitespace
// removed, and col is the rune column of the '{'.
func splitRange(text string) (src, clause string, col int) {
	k := strings.IndexByte(text, '{')
	if k < 0 {
		return text, "", 0
	}
	return text[:k], strings.TrimRightFunc(text[k:], unicode.IsSpace), utf8.RuneCountInString(text[:k]) + 1
}

func parse(src string, base int, p *parsectx) (Node, error) {
	toks, err := tokenize(src, base)
	if err != nil {
		return nil, err
	}
	if err := validate(toks, p); err != nil {
		return nil, err
	}
	b := parser{toks: toks, p: p}
	return b.formula(), nil
}

// parser builds trees from validated token sequences. Any token it does not
// expect means the validator accepted something it should not have, so the
// parser panics rather than returning errors.
type parser struct {
	toks []Token
	i    int
	p    *parsectx
}

func (b *parser) peek() Token {
	return b.toks[b.i]
}

func (b *parser) advance() Token {
	tok := b.toks[b.i]
	if tok.Kind != End {
		b.i++
	}
	return tok
}

func (b *parser) nest(depth int, tok Token) {
	if err := b.p.nest(depth, tok); err != nil {
		panic("formula: unvalidated nesting: " + err.Error())
	}
}

func (b *parser) formula() Node {
	n := b.expr(0)
	if tok := b.peek(); tok.Kind != End {
		panic("formula: parse ended on " + tok.String())
	}
	return n
}

func (b *parser) expr(depth int) Node {
	b.nest(depth, b.peek())
	n := b.term(depth)
	for tok := b.peek(); isop(tok, '+', '-'); tok = b.peek() {
		b.advance()
		n = Op{Operator: tok.Rune, Left: n, Right: b.term(depth)}
	}
	return n
}

// term parses a product. Runs of simple factors joined by * or juxtaposition
// fold into a single Term. Anything else, or a division, closes the run and
// becomes an Op whose left side is everything so far.
func (b *parser) term(depth int) Node {
	var (
		acc  Node
		run  Term
		open bool
	)
	// closed gives the product parsed so far and ends any run.
	closed := func() Node {
		if !open {
			return acc
		}
		open = false
		if acc == nil {
			return run
		}
		return Op{Operator: '*', Left: acc, Right: run}
	}
	op := rune(0)
	for {
		f := b.factor(depth)
		switch {
		case f.simple && op != '/':
			if open {
				run.mulFactor(f)
			} else {
				run = f.term()
				open = true
			}
		case op == 0:
			acc = f.tree()
		default:
			acc = Op{Operator: op, Left: closed(), Right: f.tree()}
		}
		tok := b.peek()
		switch {
		case isop(tok, '*', '/'):
			b.advance()
			op = tok.Rune
		case startsAtom(tok):
			op = '*'
		default:
			return closed()
		}
	}
}

func (b *parser) factor(depth int) factor {
	tok := b.peek()
	if !isop(tok, '+', '-') {
		return b.power(depth)
	}
	b.advance()
	return factor{node: Op{Operator: tok.Rune, Left: b.power(depth).tree()}}
}

func (b *parser) power(depth int) factor {
	var base factor
	switch tok := b.advance(); tok.Kind {
	case Number:
		base = factor{simple: true, coeff: tok.Num}
	case Letter:
		base = factor{simple: true, coeff: 1, letter: tok.Rune, exp: 1}
	case LParen:
		base = factor{node: b.expr(depth + 1)}
		if end := b.advance(); end.Kind != RParen {
			panic("formula: unvalidated group ended on " + end.String())
		}
	default:
		panic("formula: unvalidated atom " + tok.String())
	}
	if !isop(b.peek(), '^') {
		return base
	}
	caret := b.advance()
	b.nest(depth+1, caret)
	if base.simple {
		if e, ok := b.literalExp(); ok {
			if base.letter == 0 {
				base.coeff = math.Pow(base.coeff, e)
			} else {
				base.exp = e
			}
			return base
		}
	}
	exp := b.factor(depth + 1)
	return factor{node: Op{Operator: '^', Left: base.tree(), Right: exp.tree()}}
}

// literalExp scans an exponent that is an optionally signed number not itself
// raised to a power. If the next tokens are not such an exponent, literalExp
// scans nothing.
func (b *parser) literalExp() (float64, bool) {
	k := b.i
	sign := 1.0
	if tok := b.toks[k]; isop(tok, '+', '-') {
		if tok.Rune == '-' {
			sign = -1
		}
		k++
	}
	if b.toks[k].Kind != Number || isop(b.toks[k+1], '^') {
		return 0, false
	}
	b.i = k + 1
	return sign * b.toks[k].Num, true
}

// factor is a parsed factor of a product. A simple factor is a number or a
// letter with a literal exponent; these fold into terms. Other factors are
// already built trees.
type factor struct {
	node   Node
	simple bool
	// coeff is the value of a number, with any exponent applied, or 1 for a
	// letter.
	coeff float64
	// letter is the letter of a letter factor, or 0 for a number.
	letter rune
	exp    float64
}

func (f factor) term() Term {
	var t Term
	t.Coefficient = 1
	t.mulFactor(f)
	return t
}

func (f factor) tree() Node {
	if f.simple {
		return f.term()
	}
	return f.node
}

func (t *Term) mulFactor(f factor) {
	t.Coefficient *= f.coeff
	if f.letter != 0 {
		t.mulLetter(f.letter, f.exp)
	}
}
