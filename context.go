package formula

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating trees to arbitrary precision. It holds
// parameter values converted to its precision. It is not safe to use a
// Context concurrently.
type Context struct {
	stack []*big.Float
	names map[rune]*big.Float
	// nans holds parameters set to NaN, which big.Float cannot hold.
	nans map[rune]bool
	prec uint
	// op is the operator being applied, for errors recovered from math/big.
	op rune
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		letter rune
		val    *big.Float
	}
	paramsopt Params
	precopt   uint
)

func (varopt) ctxOption()    {}
func (paramsopt) ctxOption() {}
func (precopt) ctxOption()   {}

// SetVar sets the value of a parameter in the context.
func SetVar(letter rune, val *big.Float) ContextOption {
	return varopt{letter, val}
}

// SetParams sets the values of any number of parameters in the context. A NaN
// parameter gives a *DomainError when a term uses it.
func SetParams(params Params) ContextOption {
	return paramsopt(params)
}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64}
	return ctx.Clone(opts...)
}

// Eval evaluates a tree at x. The result is a new value owned by the caller.
// Results that math/big cannot represent, like 0/0 or a negative number to a
// fractional power, give a *DomainError.
func (ctx *Context) Eval(x *big.Float, root Node) (r *big.Float, err error) {
	if root == nil {
		return nil, ErrNoFormula
	}
	if len(ctx.stack) != 0 {
		panic("formula: Eval during Eval")
	}
	defer func() {
		ctx.stack = ctx.stack[:0]
		p := recover()
		if p == nil {
			return
		}
		nan, ok := p.(big.ErrNaN)
		if !ok {
			panic(p)
		}
		r, err = nil, &DomainError{Func: string(ctx.op), Msg: nan.Error()}
	}()
	xv := new(big.Float).SetPrec(ctx.prec).Set(x)
	if err := ctx.eval(xv, root); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("formula: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items")
	}
	return new(big.Float).Copy(ctx.top()), nil
}

// Set sets the value of a parameter. Returns ctx for chaining.
func (ctx *Context) Set(letter rune, value *big.Float) *Context {
	if ctx.names == nil {
		ctx.names = make(map[rune]*big.Float)
	}
	ctx.names[letter] = new(big.Float).SetPrec(ctx.prec).Set(value)
	delete(ctx.nans, letter)
	return ctx
}

// Lookup returns a copy of the value of a parameter. If there is no such
// parameter in the context, or its value is NaN, then the result is nil.
func (ctx *Context) Lookup(letter rune) *big.Float {
	v := ctx.names[letter]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		names: make(map[rune]*big.Float, len(ctx.names)),
		nans:  make(map[rune]bool, len(ctx.nans)),
		prec:  ctx.prec,
	}
	// First, check for a precision setting. Loop backward so we apply the last
	// precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Copy parameters. If we have the same precision, we can just copy
	// pointers, since Set always replaces them.
	for letter, val := range ctx.names {
		if n.prec == ctx.prec {
			n.names[letter] = val
		} else {
			n.names[letter] = new(big.Float).SetPrec(n.prec).Set(val)
		}
	}
	for letter := range ctx.nans {
		n.nans[letter] = true
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.letter] = new(big.Float).SetPrec(n.prec).Set(opt.val)
			delete(n.nans, opt.letter)
		case paramsopt:
			for k, v := range opt {
				if math.IsNaN(v) {
					delete(n.names, k)
					n.nans[k] = true
					continue
				}
				n.names[k] = new(big.Float).SetPrec(n.prec).SetFloat64(v)
				delete(n.nans, k)
			}
		case precopt:
			// Already done. Do nothing.
		default:
			panic("formula: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float))
	}
	return ctx.stack[len(ctx.stack)-1].SetPrec(ctx.prec)
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// eval pushes the node's value to the context's stack.
func (ctx *Context) eval(x *big.Float, n Node) error {
	switch n := n.(type) {
	case Term:
		ctx.op = '*'
		r := ctx.push().SetFloat64(n.Coefficient)
		var t, e big.Float
		for _, p := range n.letters {
			v := x
			if p.Letter != FreeVariable {
				v = ctx.names[p.Letter]
				if v == nil {
					if ctx.nans[p.Letter] {
						return &DomainError{Msg: "parameter " + string(p.Letter) + " is NaN"}
					}
					return &UnboundParameterError{Letter: p.Letter}
				}
			}
			if p.Exp == 1 {
				r.Mul(r, v)
				continue
			}
			t.SetPrec(ctx.prec)
			e.SetPrec(ctx.prec).SetFloat64(p.Exp)
			if err := ctx.pow(&t, v, &e); err != nil {
				return err
			}
			ctx.op = '*'
			r.Mul(r, &t)
		}
	case Op:
		if err := ctx.eval(x, n.Left); err != nil {
			return err
		}
		if n.Right == nil {
			if n.Operator == '-' {
				v := ctx.top()
				v.Neg(v)
			}
			return nil
		}
		if err := ctx.eval(x, n.Right); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		ctx.op = n.Operator
		switch n.Operator {
		case '+':
			l.Add(l, r)
		case '-':
			l.Sub(l, r)
		case '*':
			l.Mul(l, r)
		case '/':
			l.Quo(l, r)
		case '^':
			return ctx.pow(l, l, r)
		default:
			panic("formula: invalid binary operator " + strconv.QuoteRune(n.Operator))
		}
	default:
		panic("formula: invalid AST node " + n.String())
	}
	return nil
}

// pow sets z to b^e. z may alias b. Negative bases are allowed only with
// integer exponents.
func (ctx *Context) pow(z, b, e *big.Float) error {
	ctx.op = '^'
	switch {
	case b.IsInf() || e.IsInf():
		// bigfloat.Pow needs finite operands; float64 has the limits.
		bf, _ := b.Float64()
		ef, _ := e.Float64()
		v := math.Pow(bf, ef)
		if math.IsNaN(v) {
			return &DomainError{X: new(big.Float).Copy(b), Func: "^"}
		}
		z.SetFloat64(v)
	case e.Sign() == 0:
		z.SetInt64(1)
	case b.Sign() == 0:
		if e.Sign() > 0 {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
	case b.Sign() < 0:
		if !e.IsInt() {
			return &DomainError{X: new(big.Float).Copy(b), Func: "^"}
		}
		i, _ := e.Int(nil)
		var a big.Float
		a.Abs(b)
		bigfloat.Pow(z, &a, e)
		if i.Bit(0) == 1 {
			z.Neg(z)
		}
	default:
		bigfloat.Pow(z, b, e)
	}
	return nil
}

// DomainError is an error returned when an operation has no real result for
// its operands.
type DomainError struct {
	// X is the out-of-domain operand, if there is a single one.
	X *big.Float
	// Func is the operator.
	Func string
	// Msg describes the problem when there is no single operand to blame.
	Msg string
}

func (err DomainError) Error() string {
	if err.X == nil {
		r := "undefined result"
		if err.Func != "" {
			r += " of " + err.Func
		}
		if err.Msg != "" {
			r += ": " + err.Msg
		}
		return r
	}
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
