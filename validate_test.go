package formula

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
		res  []string
	}{
		{"empty", "", new(SyntaxError), 1, []string{`(?i)\bempty formula\b`, `\bend of formula\b`}},
		{"blank", "   ", new(SyntaxError), 4, []string{`(?i)\bempty formula\b`}},
		{"emptyparen", "()", new(SyntaxError), 2, []string{`(?i)\bempty parentheses\b`, `'\)'`}},
		{"emptyterm", "x()", new(SyntaxError), 3, []string{`(?i)\bempty parentheses\b`}},
		{"left", "(x", new(SyntaxError), 3, []string{`(?i)\bunbalanced parentheses\b`, `\bend of formula\b`}},
		{"leftterm", "2(x+1", new(SyntaxError), 6, []string{`(?i)\bunbalanced parentheses\b`}},
		{"right", "x)", new(SyntaxError), 2, []string{`(?i)\bunbalanced parentheses\b`, `'\)'`}},
		{"rights", "(x))", new(SyntaxError), 4, []string{`(?i)\bunbalanced parentheses\b`}},
		{"trailing", "x+", new(SyntaxError), 3, []string{`(?i)\bmissing operand\b`}},
		{"trailingmul", "x*", new(SyntaxError), 3, []string{`(?i)\bmissing operand\b`}},
		{"trailingpow", "x^", new(SyntaxError), 3, []string{`(?i)\bmissing operand\b`}},
		{"trailingneg", "x^-", new(SyntaxError), 4, []string{`(?i)\bmissing operand\b`}},
		{"unaryparen", "(+)", new(SyntaxError), 3, []string{`(?i)\bmissing operand\b`}},
		{"opparen", "(b*)", new(SyntaxError), 4, []string{`(?i)\bmissing operand\b`}},
		{"nonunary", "*x", new(SyntaxError), 1, []string{`(?i)\bunexpected operator\b`, `'\*'`}},
		{"pownonunary", "^x", new(SyntaxError), 1, []string{`(?i)\bunexpected operator\b`, `'\^'`}},
		{"doubleop", "x+*y", new(SyntaxError), 3, []string{`(?i)\bunexpected operator\b`}},
		{"negneg", "--x", new(SyntaxError), 2, []string{`(?i)\bunexpected operator\b`, `'-'`}},
		{"subnegneg", "x---y", new(SyntaxError), 4, []string{`(?i)\bunexpected operator\b`}},
		{"powdouble", "x^^2", new(SyntaxError), 3, []string{`(?i)\bunexpected operator\b`}},
		{"character", "2^$", new(TokenizeError), 3, []string{`'\$'`}},
		{"brace", "x}", new(TokenizeError), 2, []string{`'}'`}},
		{"number", "1.2.3x", new(TokenizeError), 4, []string{`'\.'`}},
		{"unicode", "πθ+*", new(SyntaxError), 4, []string{`(?i)\bunexpected operator\b`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if p := err.(InputError).Pos(); p != c.pos {
				t.Errorf("wrong position from %q: want %d, got %d (%v)", c.src, c.pos, p, err)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestValidateAgreesWithParse(t *testing.T) {
	cases := []string{
		"x", "2x^2+3x-1", "-(x)", "x^-y^-z", "(((x)))", "a b c / d e",
		"x+", "(x", "x)", "--x", "()", "", "^", "x^(", "2(3)(4)",
	}
	for _, src := range cases {
		toks, err := Tokenize(src)
		if err != nil {
			t.Fatalf("%q failed to tokenize: %v", src, err)
		}
		verr := Validate(toks)
		_, perr := Parse(src)
		if (verr == nil) != (perr == nil) {
			t.Errorf("%q: Validate gives %v but Parse gives %v", src, verr, perr)
		}
	}
}

func TestValidateUnterminated(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic validating tokens without End")
		}
	}()
	Validate([]Token{{Kind: Letter, Rune: 'x', Pos: 1}})
}

func TestMaxDepth(t *testing.T) {
	cases := []struct {
		name string
		src  string
		max  int
		pos  int
	}{
		{"flat", "x+y", 1, 0},
		{"paren", "(x)", 1, 0},
		{"parens", "((x))", 1, 3},
		{"parensok", "((x))", 2, 0},
		{"pow", "x^y", 1, 0},
		{"pows", "x^y^z", 1, 4},
		{"powparen", "x^(y)", 1, 4},
		{"powparenok", "x^(y)", 2, 0},
		{"literal", "x^2^3", 1, 4},
		{"deep", strings.Repeat("(", 300) + "x" + strings.Repeat(")", 300), DefaultMaxDepth, DefaultMaxDepth + 2},
		{"deeppow", strings.Repeat("x^", 300) + "x", DefaultMaxDepth, 2*DefaultMaxDepth + 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.src, MaxDepth(c.max))
			if c.pos == 0 {
				if err != nil {
					t.Errorf("%q with max %d: unexpected error %v", c.src, c.max, err)
				}
				return
			}
			nerr, ok := err.(*NestingTooDeepError)
			if !ok {
				t.Fatalf("%q with max %d: want *NestingTooDeepError, got %T (%v)", c.src, c.max, err, err)
			}
			if nerr.Pos() != c.pos {
				t.Errorf("%q with max %d: want error at %d, got %d", c.src, c.max, c.pos, nerr.Pos())
			}
			if nerr.Max != c.max {
				t.Errorf("%q: error reports max %d, want %d", c.src, nerr.Max, c.max)
			}
		})
	}
}

func TestMaxDepthPanics(t *testing.T) {
	for _, n := range []int{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("no panic from MaxDepth(%d)", n)
				}
			}()
			MaxDepth(n)
		}()
	}
}

func TestDefaultDepthIsDefault(t *testing.T) {
	src := strings.Repeat("(", DefaultMaxDepth) + "x" + strings.Repeat(")", DefaultMaxDepth)
	if _, err := Parse(src); err != nil {
		t.Errorf("%d levels should parse by default: %v", DefaultMaxDepth, err)
	}
	src = "(" + src + ")"
	if _, err := Parse(src); err == nil {
		t.Errorf("%d levels should not parse by default", DefaultMaxDepth+1)
	}
}
