package formula

import "strconv"

// TokenizeError is an error indicating a rune that cannot begin or continue a
// token. It implements InputError.
type TokenizeError struct {
	// Col is the position of the rune.
	Col int
	// Char is the rune that was not understood.
	Char rune
}

func (err *TokenizeError) Error() string {
	return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Char))
}

func (err *TokenizeError) Pos() int {
	return err.Col
}

// SyntaxError is an error indicating a token sequence that is not a formula.
// It implements InputError.
type SyntaxError struct {
	// Col is the position of the token that broke the grammar.
	Col int
	// Expected describes what the grammar allowed at Col.
	Expected string
	// Found describes the token at Col.
	Found string
	// Reason is a short description of the problem, e.g. "unbalanced
	// parentheses".
	Reason string
}

func (err *SyntaxError) Error() string {
	msg := "expected " + err.Expected + ", found " + err.Found
	if err.Reason != "" {
		msg = err.Reason + ": " + msg
	}
	return errpos(err.Col, msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// Messages for RangeSyntaxError. Users see these verbatim.
const (
	RangeUnclosed = "Expected } for end of range"
	RangeNotPair  = "Invalid range - specify two numbers separated by a space"
	RangeInverted = "Invalid range - second number should be larger"
)

// RangeSyntaxError is an error in the {low high} clause at the end of a
// formula. Its message is one of RangeUnclosed, RangeNotPair, or RangeInverted.
// It implements InputError.
type RangeSyntaxError struct {
	// Col is the position of the clause's opening brace.
	Col int
	// Msg is the error message.
	Msg string
}

func (err *RangeSyntaxError) Error() string {
	return err.Msg
}

func (err *RangeSyntaxError) Pos() int {
	return err.Col
}

// NestingTooDeepError is an error indicating that parentheses or exponents
// nest more deeply than the parser allows. It implements InputError.
type NestingTooDeepError struct {
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the nesting limit in effect.
	Max int
}

func (err *NestingTooDeepError) Error() string {
	return errpos(err.Col, "formula nests more than "+strconv.Itoa(err.Max)+" levels deep")
}

func (err *NestingTooDeepError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column in the formula of the token that
	// caused the error.
	Pos() int
}

var (
	_ InputError = (*TokenizeError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*RangeSyntaxError)(nil)
	_ InputError = (*NestingTooDeepError)(nil)
)
