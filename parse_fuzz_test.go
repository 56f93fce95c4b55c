//go:build go1.18
// +build go1.18

package formula_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("3x^2 + 2x - 1")
	f.Add("a b/c d")
	f.Add("x^-y^-z")
	f.Add("x {0 1}")
	f.Add("((")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := formula.ParseFormula(s)
		if err != nil {
			if a != nil {
				t.Errorf("%q gave tree %v with error %v", s, a.Root, err)
			}
			if _, ok := err.(formula.InputError); !ok {
				t.Errorf("%q gave error without position: %v", s, err)
			}
			return
		}
		if strings.Contains(s, "{") {
			return
		}
		toks, err := formula.Tokenize(s)
		if err != nil {
			t.Fatalf("%q parsed but did not tokenize: %v", s, err)
		}
		if err := formula.Validate(toks); err != nil {
			t.Errorf("%q parsed but did not validate: %v", s, err)
		}
		str := a.Root.String()
		if strings.Contains(str, "Inf") || strings.Contains(str, "NaN") {
			return
		}
		b, err := formula.Parse(str)
		if err != nil {
			t.Fatalf("%q -> %q failed to parse: %v", s, str, err)
		}
		if !formula.Equal(a.Root, b) {
			t.Errorf("%q -> %q gave different trees", s, str)
		}
	})
}
