package formula

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Color is the color of a function's curve.
type Color struct {
	R, G, B, A float32
}

// DefaultColor is the color of new entries.
var DefaultColor = Color{1, 0.2, 0.3, 0.8}

// Entry is one function being plotted: the text the user typed, the tree and
// range parsed from it, and the values of its parameters.
//
// An Entry always holds the last formula that parsed successfully. Editing the
// text to something invalid sets Err but leaves Root, Params, and the range as
// they were. Params holds exactly the letters other than x that appear in
// Root.
//
// It is not safe to use an Entry concurrently.
type Entry struct {
	// Formula is the most recent text, whether or not it parsed.
	Formula string
	// Root is the tree of the last formula that parsed, or nil.
	Root Node
	// Params holds the parameter values for Root.
	Params Params
	// Err is the error from parsing Formula, or nil if Root came from it.
	Err error
	// HasRange, Begin, and End are the domain restriction of Root.
	HasRange   bool
	Begin, End float64
	// Color is the color of the curve.
	Color Color
}

// NewEntry creates an entry with the default color and parses a formula into
// it. If the formula does not parse, the entry has no tree and Err says why.
func NewEntry(formula string, opts ...ParseOption) *Entry {
	e := Entry{Color: DefaultColor, Params: Params{}}
	e.Edit(formula, opts...)
	return &e
}

// Edit replaces the entry's formula. If the new text parses, its tree, range,
// and reconciled parameters replace the old ones together. Otherwise, the old
// ones stay and Err holds the error, which Edit also returns.
func (e *Entry) Edit(text string, opts ...ParseOption) error {
	e.Formula = text
	f, err := ParseFormula(text, opts...)
	if err != nil {
		e.Err = err
		return err
	}
	params := Reconcile(f.Root, e.Params)
	e.Root = f.Root
	e.Params = params
	e.HasRange, e.Begin, e.End = f.HasRange, f.Begin, f.End
	e.Err = nil
	return nil
}

// SetParam sets the value of one of the entry's parameters.
func (e *Entry) SetParam(letter rune, v float64) error {
	if _, ok := e.Params[letter]; !ok {
		return &UnknownParameterError{Letter: letter}
	}
	e.Params[letter] = v
	return nil
}

// Eval evaluates the entry's tree at x with its parameters. Outside the
// entry's range, the result is NaN with no error.
func (e *Entry) Eval(x float64) (float64, error) {
	if !e.InDomain(x) {
		return math.NaN(), nil
	}
	return Eval(x, e.Root, e.Params)
}

// InDomain reports whether x is within the entry's range. Without a range,
// every x is.
func (e *Entry) InDomain(x float64) bool {
	return !e.HasRange || (e.Begin <= x && x <= e.End)
}

// Message formats Err for display under the formula. Errors with a position
// are followed by the formula and a caret under the position. If there is no
// error, the result is empty.
func (e *Entry) Message() string {
	if e.Err == nil {
		return ""
	}
	return Caret(e.Formula, e.Err)
}

// Caret formats an error from parsing text. If err has a position, the
// message is followed by the text and a line pointing at the position.
func Caret(text string, err error) string {
	var ie InputError
	if !errors.As(err, &ie) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteString("\n  ")
	// Tabs and newlines would misalign the caret.
	b.WriteString(strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, text))
	b.WriteString("\n  ")
	if p := ie.Pos(); p > 1 {
		b.WriteString(strings.Repeat(" ", p-1))
	}
	b.WriteByte('^')
	return b.String()
}

// UnknownParameterError is an error from setting a letter that is not one of
// an entry's parameters.
type UnknownParameterError struct {
	// Letter is the letter that was set.
	Letter rune
}

func (err *UnknownParameterError) Error() string {
	if err.Letter == FreeVariable {
		return strconv.QuoteRune(err.Letter) + " is the free variable, not a parameter"
	}
	return "no parameter " + strconv.QuoteRune(err.Letter)
}
