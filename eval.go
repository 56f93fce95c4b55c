package formula

import (
	"errors"
	"math"
	"strconv"
)

// FreeVariable is the letter that Eval binds to its x argument. It is never a
// parameter.
const FreeVariable = 'x'

// ErrNoFormula is returned when evaluating without a tree.
var ErrNoFormula = errors.New("no formula")

// Eval evaluates a tree at x. Letters other than x take their values from
// params. Results outside the reals, like 0/0 or (-1)^0.5, are NaN or ±Inf as
// IEEE 754 gives them rather than errors.
func Eval(x float64, root Node, params Params) (float64, error) {
	if root == nil {
		return math.NaN(), ErrNoFormula
	}
	return eval(x, root, params)
}

func eval(x float64, n Node, params Params) (float64, error) {
	switch n := n.(type) {
	case Term:
		r := n.Coefficient
		for _, p := range n.letters {
			v := x
			if p.Letter != FreeVariable {
				var ok bool
				v, ok = params[p.Letter]
				if !ok {
					return math.NaN(), &UnboundParameterError{Letter: p.Letter}
				}
			}
			if p.Exp == 1 {
				r *= v
			} else {
				r *= math.Pow(v, p.Exp)
			}
		}
		return r, nil
	case Op:
		l, err := eval(x, n.Left, params)
		if err != nil {
			return math.NaN(), err
		}
		if n.Right == nil {
			switch n.Operator {
			case '-':
				return -l, nil
			case '+':
				return l, nil
			}
			panic("formula: invalid unary operator " + strconv.QuoteRune(n.Operator))
		}
		r, err := eval(x, n.Right, params)
		if err != nil {
			return math.NaN(), err
		}
		switch n.Operator {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			return l / r, nil
		case '^':
			return math.Pow(l, r), nil
		}
		panic("formula: invalid binary operator " + strconv.QuoteRune(n.Operator))
	default:
		panic("formula: invalid AST node " + n.String())
	}
}

// UnboundParameterError is an error from evaluating a letter that has no
// value. Reconcile produces parameters for every letter in a tree, so this
// only happens with parameters that did not come from reconciling the same
// tree.
type UnboundParameterError struct {
	// Letter is the letter that was missing.
	Letter rune
}

func (err *UnboundParameterError) Error() string {
	return "unbound parameter " + strconv.QuoteRune(err.Letter)
}
