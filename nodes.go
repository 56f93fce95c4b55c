package formula

import (
	"strconv"
	"strings"
)

// Node is a node in the abstract syntax tree of a formula. The only
// implementations are Op and Term. Nodes are immutable values; a tree belongs
// to whoever holds its root.
type Node interface {
	// String formats the subtree with every node in parentheses. Parsing the
	// result of a tree from Parse gives the same tree as long as its numbers
	// are finite.
	String() string

	fmt(b *strings.Builder)
	isNode()
}

// Op is an arithmetic operation. A unary + or - has a nil Right.
type Op struct {
	// Operator is one of the runes in Operators.
	Operator rune
	Left     Node
	Right    Node
}

// Unary reports whether the operation is a unary + or -.
func (n Op) Unary() bool {
	return n.Right == nil
}

func (Op) isNode() {}

func (n Op) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n Op) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	if n.Right == nil {
		b.WriteRune(n.Operator)
		n.Left.fmt(b)
		return
	}
	n.Left.fmt(b)
	b.WriteRune(n.Operator)
	n.Right.fmt(b)
}

// Power is a letter raised to an exponent within a Term.
type Power struct {
	Letter rune
	Exp    float64
}

// Term is the product of a coefficient and zero or more letters, each raised
// to a constant exponent.
type Term struct {
	// Coefficient is the numeric factor of the term.
	Coefficient float64
	// letters is sorted by letter with no letter repeated.
	letters []Power
}

// NewTerm creates a term. Powers of the same letter are combined by adding
// their exponents.
func NewTerm(coeff float64, letters ...Power) Term {
	t := Term{Coefficient: coeff}
	for _, p := range letters {
		t.mulLetter(p.Letter, p.Exp)
	}
	return t
}

func (Term) isNode() {}

// Letters returns the term's letters and exponents in order of letter. The
// result is a copy.
func (t Term) Letters() []Power {
	if len(t.letters) == 0 {
		return nil
	}
	return append([]Power(nil), t.letters...)
}

// Exp returns the exponent of a letter in the term and whether the letter
// appears at all.
func (t Term) Exp(letter rune) (float64, bool) {
	for _, p := range t.letters {
		if p.Letter == letter {
			return p.Exp, true
		}
	}
	return 0, false
}

// IsLiteral reports whether the term is a plain number.
func (t Term) IsLiteral() bool {
	return len(t.letters) == 0
}

// mulLetter multiplies the term by letter^exp.
func (t *Term) mulLetter(letter rune, exp float64) {
	for i, p := range t.letters {
		switch {
		case p.Letter == letter:
			t.letters[i].Exp += exp
			return
		case p.Letter > letter:
			t.letters = append(t.letters, Power{})
			copy(t.letters[i+1:], t.letters[i:])
			t.letters[i] = Power{Letter: letter, Exp: exp}
			return
		}
	}
	t.letters = append(t.letters, Power{Letter: letter, Exp: exp})
}

func (t Term) String() string {
	var b strings.Builder
	t.fmt(&b)
	return b.String()
}

func (t Term) fmt(b *strings.Builder) {
	b.WriteByte('(')
	if t.Coefficient != 1 || len(t.letters) == 0 {
		b.WriteString(fmtnum(t.Coefficient))
	}
	for _, p := range t.letters {
		b.WriteRune(p.Letter)
		if p.Exp != 1 {
			b.WriteByte('^')
			b.WriteString(fmtnum(p.Exp))
		}
	}
	b.WriteByte(')')
}

// fmtnum formats a number without an exponent so that the formula lexer can
// read it back.
func fmtnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Visit calls fn for each node of the tree rooted at n in depth-first
// preorder. Nodes are values, so fn cannot change the tree.
func Visit(n Node, fn func(Node)) {
	switch n := n.(type) {
	case nil:
		return
	case Op:
		fn(n)
		Visit(n.Left, fn)
		Visit(n.Right, fn)
	case Term:
		fn(n)
	default:
		panic("formula: unknown node type " + n.String())
	}
}

// Equal reports whether two trees are identical.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Op:
		o, ok := b.(Op)
		return ok && a.Operator == o.Operator && Equal(a.Left, o.Left) && Equal(a.Right, o.Right)
	case Term:
		t, ok := b.(Term)
		if !ok || a.Coefficient != t.Coefficient || len(a.letters) != len(t.letters) {
			return false
		}
		for i, p := range a.letters {
			if p != t.letters[i] {
				return false
			}
		}
		return true
	default:
		panic("formula: unknown node type " + a.String())
	}
}

// Outline renders the tree one node per line, indented by depth. Operations
// appear as "OP c" and terms as "TERM coeff l^exp ...".
func Outline(n Node) string {
	var b strings.Builder
	outline(&b, n, 0)
	return b.String()
}

func outline(b *strings.Builder, n Node, depth int) {
	if n == nil {
		return
	}
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	switch n := n.(type) {
	case Op:
		b.WriteString("OP ")
		b.WriteRune(n.Operator)
		b.WriteByte('\n')
		outline(b, n.Left, depth+1)
		outline(b, n.Right, depth+1)
	case Term:
		b.WriteString("TERM ")
		b.WriteString(strconv.FormatFloat(n.Coefficient, 'g', -1, 64))
		for _, p := range n.letters {
			b.WriteByte(' ')
			b.WriteRune(p.Letter)
			b.WriteByte('^')
			b.WriteString(strconv.FormatFloat(p.Exp, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
}
