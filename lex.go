package formula

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical element of a formula.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Pos is the 1-based rune column of the token in the formula text.
	Pos int
	// Num is the value of a Number token.
	Num float64
	// Rune is the letter of a Letter token or the operator of an Operator token.
	Rune rune
}

func (t Token) String() string {
	var s string
	switch t.Kind {
	case Number:
		s = strconv.FormatFloat(t.Num, 'g', -1, 64)
	case Letter, Operator:
		s = string(t.Rune)
	case LParen:
		s = "("
	case RParen:
		s = ")"
	}
	return t.Kind.String() + ":" + s + "@" + strconv.Itoa(t.Pos)
}

// describe names the token the way error messages refer to it.
func (t Token) describe() string {
	switch t.Kind {
	case Number:
		return "number " + strconv.FormatFloat(t.Num, 'g', -1, 64)
	case Letter:
		return "letter " + strconv.QuoteRune(t.Rune)
	case Operator:
		return strconv.QuoteRune(t.Rune)
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case End:
		return "end of formula"
	default:
		return "nothing"
	}
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// Number is a decimal literal.
	Number
	// Letter is a single-letter name.
	Letter
	// Operator is one of the operators in Operators.
	Operator
	// LParen is an open parenthesis.
	LParen
	// RParen is a close parenthesis.
	RParen
	// End marks the end of the input.
	End
)

var tokenKindNames = [...]string{
	tokenNone: "None",
	Number:    "Number",
	Letter:    "Letter",
	Operator:  "Operator",
	LParen:    "LParen",
	RParen:    "RParen",
	End:       "End",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the runes which are lexed as operators.
const Operators = "+-*/^"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	eof  bool
}

// lex creates a lexer over src. base is the number of runes that precede src
// in the formula, so that positions refer to the whole text.
func lex(src io.RuneScanner, base int) *lexer {
	return &lexer{
		src:  src,
		rune: base + 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time the input runs
// out, the result is an End token with a nil error. Subsequent times, the
// result is an empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	if l.eof {
		return Token{}, io.EOF
	}
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = End
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.Pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			v, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			tok.Kind = Number
			tok.Num = v
			return tok, nil
		case unicode.IsLetter(r):
			tok.Kind = Letter
			tok.Rune = r
			return tok, nil
		case r == '(':
			tok.Kind = LParen
			return tok, nil
		case r == ')':
			tok.Kind = RParen
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.Kind = Operator
			tok.Rune = r
			return tok, nil
		default:
			return tok, &TokenizeError{Col: tok.Pos, Char: r}
		}
	}
}

// scanNum scans a decimal literal: digits with at most one dot. A literal
// that starts with a dot needs a digit after it.
func (l *lexer) scanNum() (float64, error) {
	var dig, dot bool
	start := l.rune
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		if r == '.' {
			if dot {
				return 0, &TokenizeError{Col: l.rune - 1, Char: r}
			}
			dot = true
			l.buf.WriteRune(r)
			continue
		}
		if r < '0' || '9' < r {
			l.unreadRune()
			break
		}
		dig = true
		l.buf.WriteRune(r)
	}
	if !dig {
		// Only a lone dot can get here.
		return 0, &TokenizeError{Col: start, Char: '.'}
	}
	v, err := strconv.ParseFloat(l.buf.String(), 64)
	if err != nil {
		// Only overflow is possible for digits and a dot; ParseFloat gives
		// the correctly signed infinity in that case.
		if !errors.Is(err, strconv.ErrRange) {
			panic("formula: invalid number " + strconv.Quote(l.buf.String()) + ": " + err.Error())
		}
	}
	return v, nil
}

// Tokenize splits a formula into tokens. The result always ends with an End
// token unless there is an error, in which case there are no tokens.
func Tokenize(src string) ([]Token, error) {
	return tokenize(src, 0)
}

func tokenize(src string, base int) ([]Token, error) {
	scan := lex(strings.NewReader(src), base)
	toks := make([]Token, 0, len(src)/2+1)
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == End {
			return toks, nil
		}
	}
}
