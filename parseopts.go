package formula

import "strconv"

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 256

// ParseOption is an option for validating and parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// parsectx holds general data for parsing.
type parsectx struct {
	// maxdepth is the number of nested groups and exponents allowed.
	maxdepth int
}

func newparsectx(opts []ParseOption) parsectx {
	p := parsectx{maxdepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}

// MaxDepth sets the number of levels that parenthesized groups and exponents
// may nest. Panics if n is not positive.
func MaxDepth(n int) ParseOption {
	if n <= 0 {
		panic("formula: nonpositive max depth " + strconv.Itoa(n))
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// nest checks whether entering another level at tok stays within the limit.
func (p *parsectx) nest(depth int, tok Token) error {
	if depth > p.maxdepth {
		return &NestingTooDeepError{Col: tok.Pos, Max: p.maxdepth}
	}
	return nil
}
