package formula

import (
	"reflect"
	"testing"
)

func TestReconcile(t *testing.T) {
	cases := []struct {
		name string
		src  string
		old  Params
		want Params
	}{
		{"none", "3x^2 + 1", nil, Params{}},
		{"new", "a x + b", nil, Params{'a': 0, 'b': 0}},
		{"keep", "a x + b", Params{'a': 2, 'b': 3}, Params{'a': 2, 'b': 3}},
		{"carry", "a+b", Params{'a': 5}, Params{'a': 5, 'b': 0}},
		{"dropone", "a", Params{'a': 5, 'b': 2}, Params{'a': 5}},
		{"drop", "a x", Params{'a': 2, 'b': 3}, Params{'a': 2}},
		{"mixed", "a x + c", Params{'a': 2, 'b': 3}, Params{'a': 2, 'c': 0}},
		{"repeat", "a a + a/a", Params{'a': 5}, Params{'a': 5}},
		{"nested", "(b^(c x))/d", Params{'d': -1}, Params{'b': 0, 'c': 0, 'd': -1}},
		{"noxparam", "x", Params{'x': 7}, Params{}},
		{"unicode", "α x + β", Params{'β': 1}, Params{'α': 0, 'β': 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			var old Params
			if c.old != nil {
				old = c.old.Clone()
			}
			got := Reconcile(root, old)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("%q from %v: want %v, got %v", c.src, c.old, c.want, got)
			}
			if !reflect.DeepEqual(old, c.old) {
				t.Errorf("%q: old params changed from %v to %v", c.src, c.old, old)
			}
		})
	}
}

func TestReconcileIdempotent(t *testing.T) {
	srcs := []string{"a x + b", "x", "k^2 x - (m/n) x^3", "q q q"}
	for _, src := range srcs {
		root, err := Parse(src)
		if err != nil {
			t.Fatal(err)
		}
		p := Reconcile(root, Params{'a': 1, 'k': -2, 'q': 0.5, 'z': 9})
		if q := Reconcile(root, p); !reflect.DeepEqual(p, q) {
			t.Errorf("%q: reconciling %v again gave %v", src, p, q)
		}
	}
}

func TestReconcileNil(t *testing.T) {
	p := Reconcile(nil, Params{'a': 1})
	if p == nil || len(p) != 0 {
		t.Errorf("want empty non-nil params, got %#v", p)
	}
}

func TestParamsLetters(t *testing.T) {
	p := Params{'z': 1, 'b': 2, 'β': 3, 'a': 4}
	want := []rune{'a', 'b', 'z', 'β'}
	if got := p.Letters(); !reflect.DeepEqual(got, want) {
		t.Errorf("want %q, got %q", want, got)
	}
	if got := (Params{}).Letters(); len(got) != 0 {
		t.Errorf("empty params have letters %q", got)
	}
}

func TestParamsClone(t *testing.T) {
	p := Params{'a': 1}
	q := p.Clone()
	q['a'] = 2
	q['b'] = 3
	if p['a'] != 1 || len(p) != 1 {
		t.Errorf("modifying clone changed original: %v", p)
	}
}
