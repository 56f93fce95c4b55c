package formula

// Params holds the values of a formula's parameters by letter.
type Params map[rune]float64

// Letters returns the parameter letters in order of code point, the order in
// which a UI should list them.
func (p Params) Letters() []rune {
	r := make([]rune, 0, len(p))
	for k := range p {
		r = append(r, k)
	}
	sortrunes(r)
	return r
}

// Clone returns a copy of p.
func (p Params) Clone() Params {
	r := make(Params, len(p))
	for k, v := range p {
		r[k] = v
	}
	return r
}

// Reconcile computes the parameters for a new tree from those of the formula
// it replaces. Every letter other than x in root becomes a parameter, keeping
// its value from old if it has one and starting at 0 otherwise. Letters in old
// that root doesn't use are dropped. old is not modified.
func Reconcile(root Node, old Params) Params {
	r := make(Params)
	Visit(root, func(n Node) {
		t, ok := n.(Term)
		if !ok {
			return
		}
		for _, p := range t.letters {
			if p.Letter == FreeVariable {
				continue
			}
			// A missing letter reads as 0, which is the initial value.
			r[p.Letter] = old[p.Letter]
		}
	})
	return r
}

// sortrunes sorts a rune slice in place.
func sortrunes(v []rune) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}
