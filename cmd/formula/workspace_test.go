package main

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestLoadWorkspace(t *testing.T) {
	src := `
entries:
  - formula: a x^2 + b {0 2}
    params: {a: 2, b: -1}
    color: {r: 0.2, g: 0.4, b: 1, a: 1}
  - formula: sin
  - formula: x +
    params: {q: 1}
  - formula: x {-1 1}
`
	var out strings.Builder
	s := newSession(&out, 0)
	if err := loadWorkspace(s, strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	if len(s.entries) != 4 {
		t.Fatalf("want 4 entries, got %d", len(s.entries))
	}
	e := s.entries[0]
	if e.Err != nil {
		t.Errorf("first entry: %v", e.Err)
	}
	if e.Params['a'] != 2 || e.Params['b'] != -1 {
		t.Errorf("wrong params %v", e.Params)
	}
	if !e.HasRange || e.Begin != 0 || e.End != 2 {
		t.Errorf("wrong range %t {%v %v}", e.HasRange, e.Begin, e.End)
	}
	if want := (formula.Color{R: 0.2, G: 0.4, B: 1, A: 1}); e.Color != want {
		t.Errorf("wrong color: want %v, got %v", want, e.Color)
	}
	if s.entries[1].Color != formula.DefaultColor {
		t.Errorf("second entry has color %v", s.entries[1].Color)
	}
	if len(s.entries[1].Params) != 3 {
		t.Errorf("second entry has params %v", s.entries[1].Params)
	}
	if s.entries[2].Err == nil {
		t.Error("invalid formula loaded without error")
	}
	// Range bounds cannot be negative; "-1" is not a number token.
	var re *formula.RangeSyntaxError
	if !errors.As(s.entries[3].Err, &re) || re.Msg != formula.RangeNotPair {
		t.Errorf("want %q for negative bound, got %v", formula.RangeNotPair, s.entries[3].Err)
	}
	if s.sel != 3 {
		t.Errorf("last entry should be selected, have %d", s.sel)
	}
}

func TestLoadWorkspaceErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		re   string
	}{
		{"field", "entries:\n  - formula: x\n    colour: {r: 1}\n", `line 3: unknown field "colour"`},
		{"top", "functions: []\n", `functions`},
		{"noformula", "entries:\n  - params: {a: 1}\n", `line 2: entry has no formula`},
		{"param", "entries:\n  - formula: a x\n    params: {b: 1}\n", `line 2: no parameter 'b'`},
		{"paramx", "entries:\n  - formula: a x\n    params: {x: 1}\n", `line 2: 'x' is the free variable`},
		{"paramname", "entries:\n  - formula: a x\n    params: {ab: 1}\n", `line 2: parameter name "ab"`},
		{"scalar", "entries:\n  - x^2\n", `line 2: entry must be a mapping`},
		{"syntax", "entries: [\n", `reading workspace`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out strings.Builder
			err := loadWorkspace(newSession(&out, 0), strings.NewReader(c.src))
			if err == nil {
				t.Fatal("no error")
			}
			if !regexp.MustCompile(c.re).MatchString(err.Error()) {
				t.Errorf("error %q does not match %s", err.Error(), c.re)
			}
		})
	}
}

func TestLoadWorkspaceEmpty(t *testing.T) {
	var out strings.Builder
	s := newSession(&out, 0)
	if err := loadWorkspace(s, strings.NewReader("")); err != nil {
		t.Errorf("empty workspace: %v", err)
	}
	if len(s.entries) != 0 || s.sel != -1 {
		t.Errorf("empty workspace added entries")
	}
}
