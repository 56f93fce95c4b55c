package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/zephyrtronium/formula"
)

// session is a list of function entries with one selected for editing.
type session struct {
	entries []*formula.Entry
	// sel is the index of the selected entry, or -1 if there are none.
	sel int
	// prec is the precision of evaluation in bits, or 0 for float64.
	prec uint
	opts []formula.ParseOption
	out  io.Writer
}

func newSession(out io.Writer, prec uint, opts ...formula.ParseOption) *session {
	return &session{sel: -1, prec: prec, opts: opts, out: out}
}

// add appends an entry for text and selects it.
func (s *session) add(text string) *formula.Entry {
	e := formula.NewEntry(text, s.opts...)
	s.entries = append(s.entries, e)
	s.sel = len(s.entries) - 1
	return e
}

func (s *session) selected() (*formula.Entry, error) {
	if s.sel < 0 {
		return nil, errNoEntries
	}
	return s.entries[s.sel], nil
}

var errNoEntries = errors.New("no functions; type a formula to add one")

// command is an interactive command. args is the rest of the line after the
// command name.
type command struct {
	name string
	args string
	help string
	run  func(s *session, args string) error
}

var commands []command

func init() {
	commands = []command{
		{"add", "formula", "add a function and select it", (*session).cmdAdd},
		{"sel", "n", "select function n", (*session).cmdSel},
		{"rm", "[n]", "remove function n or the selected function", (*session).cmdRm},
		{"list", "", "list functions", (*session).cmdList},
		{"set", "a=v ...", "set parameters of the selected function", (*session).cmdSet},
		{"eval", "x ...", "evaluate the selected function", (*session).cmdEval},
		{"table", "lo:hi:n", "evaluate the selected function at n points", (*session).cmdTable},
		{"tree", "", "show the parse tree of the selected function", (*session).cmdTree},
		{"help", "", "show this help", (*session).cmdHelp},
		{"quit", "", "exit", nil},
	}
}

// commandNames lists the names of the commands with their colons.
func commandNames() []string {
	r := make([]string, len(commands))
	for i, c := range commands {
		r[i] = ":" + c.name
	}
	return r
}

// exec runs one line of input. Lines starting with ':' are commands; any
// other text replaces the selected function's formula. The result is true
// when the session should end.
func (s *session) exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		s.report(s.edit(line))
		return false
	}
	name, args := line[1:], ""
	if k := strings.IndexFunc(name, func(r rune) bool { return r == ' ' || r == '\t' }); k >= 0 {
		name, args = name[:k], strings.TrimSpace(name[k:])
	}
	name = strings.ToLower(name)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if c.run == nil {
			return true
		}
		s.report(c.run(s, args))
		return false
	}
	msg := "unknown command :" + name
	if m := suggest(name); m != "" {
		msg += "; did you mean :" + m + "?"
	} else {
		msg += "; type :help for a list"
	}
	fmt.Fprintln(s.out, msg)
	return false
}

// suggest finds the command most like name.
func suggest(name string) string {
	if name == "" {
		return ""
	}
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func (s *session) report(err error) {
	if err == nil {
		return
	}
	var ie formula.InputError
	if errors.As(err, &ie) {
		// Entry errors are shown against the text they came from.
		if e, _ := s.selected(); e != nil && e.Err == err {
			fmt.Fprintln(s.out, e.Message())
			return
		}
	}
	fmt.Fprintln(s.out, err)
}

// edit replaces the selected function's formula, or adds a function if there
// are none.
func (s *session) edit(text string) error {
	e, err := s.selected()
	if err != nil {
		e = s.add(text)
	} else if err := e.Edit(text, s.opts...); err != nil {
		return err
	}
	if e.Err != nil {
		return e.Err
	}
	s.printParams(e)
	return nil
}

func (s *session) printParams(e *formula.Entry) {
	letters := e.Params.Letters()
	if len(letters) == 0 {
		return
	}
	var b strings.Builder
	for i, l := range letters {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%c=%g", l, e.Params[l])
	}
	fmt.Fprintln(s.out, b.String())
}

func (s *session) cmdAdd(args string) error {
	if args == "" {
		return errors.New("usage: :add formula")
	}
	e := s.add(args)
	if e.Err != nil {
		return e.Err
	}
	s.printParams(e)
	return nil
}

// index parses a 1-based function number.
func (s *session) index(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.entries) {
		return 0, fmt.Errorf("no function %q; there are %d", arg, len(s.entries))
	}
	return n - 1, nil
}

func (s *session) cmdSel(args string) error {
	k, err := s.index(args)
	if err != nil {
		return err
	}
	s.sel = k
	fmt.Fprintf(s.out, "%d: %s\n", k+1, s.entries[k].Formula)
	return nil
}

func (s *session) cmdRm(args string) error {
	k := s.sel
	if args != "" {
		var err error
		if k, err = s.index(args); err != nil {
			return err
		}
	}
	if k < 0 {
		return errNoEntries
	}
	s.entries = append(s.entries[:k], s.entries[k+1:]...)
	switch {
	case len(s.entries) == 0:
		s.sel = -1
	case s.sel > k || s.sel == len(s.entries):
		s.sel--
	}
	return nil
}

func (s *session) cmdList(string) error {
	if len(s.entries) == 0 {
		return errNoEntries
	}
	for i, e := range s.entries {
		mark := ' '
		if i == s.sel {
			mark = '*'
		}
		fmt.Fprintf(s.out, "%c%d: %s", mark, i+1, e.Formula)
		if e.Err != nil {
			fmt.Fprint(s.out, "  (invalid)")
		}
		fmt.Fprintln(s.out)
	}
	return nil
}

func (s *session) cmdSet(args string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	defs := strings.Fields(args)
	if len(defs) == 0 {
		s.printParams(e)
		return nil
	}
	for _, d := range defs {
		l, v, err := parseDef(d)
		if err != nil {
			return err
		}
		if err := e.SetParam(l, v); err != nil {
			return err
		}
	}
	s.printParams(e)
	return nil
}

func (s *session) cmdEval(args string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	xs := strings.Fields(args)
	if len(xs) == 0 {
		return errors.New("usage: :eval x ...")
	}
	for _, arg := range xs {
		x, err := constant(arg)
		if err != nil {
			return err
		}
		s.printAt(e, x)
	}
	return nil
}

func (s *session) cmdTable(args string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	xs, err := parseTable(args)
	if err != nil {
		return err
	}
	for _, x := range xs {
		s.printAt(e, x)
	}
	return nil
}

func (s *session) cmdTree(string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	if e.Root == nil {
		return formula.ErrNoFormula
	}
	fmt.Fprintln(s.out, e.Root)
	fmt.Fprint(s.out, formula.Outline(e.Root))
	return nil
}

func (s *session) cmdHelp(string) error {
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-18s %s\n", ":"+c.name+" "+c.args, c.help)
	}
	fmt.Fprintln(s.out, "  any other line replaces the selected function's formula")
	return nil
}

// printAt writes one line of a table of values.
func (s *session) printAt(e *formula.Entry, x float64) {
	fmt.Fprintf(s.out, "%g\t%s\n", x, s.value(e, x))
}

// value evaluates e at x to the session's precision and formats the result.
func (s *session) value(e *formula.Entry, x float64) string {
	if !e.InDomain(x) {
		return "-"
	}
	if s.prec == 0 {
		y, err := e.Eval(x)
		if err != nil {
			return err.Error()
		}
		return strconv.FormatFloat(y, 'g', -1, 64)
	}
	if math.IsNaN(x) {
		return "NaN"
	}
	ctx := formula.NewContext(formula.Prec(s.prec), formula.SetParams(e.Params))
	y, err := ctx.Eval(big.NewFloat(x), e.Root)
	if err != nil {
		return err.Error()
	}
	return y.Text('g', -1)
}

// parseDef parses a parameter definition "a=v". The value may be any formula
// without letters.
func parseDef(d string) (rune, float64, error) {
	k := strings.IndexByte(d, '=')
	if k < 0 {
		return 0, 0, fmt.Errorf(`parameter definitions must be "letter=value", not %q`, d)
	}
	name := strings.TrimSpace(d[:k])
	l, sz := utf8.DecodeRuneInString(name)
	if sz == 0 || sz != len(name) {
		return 0, 0, fmt.Errorf("parameter name %q must be a single letter", name)
	}
	v, err := constant(d[k+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("setting %c: %w", l, err)
	}
	return l, v, nil
}

// constant evaluates a formula that contains no letters.
func constant(src string) (float64, error) {
	root, err := formula.Parse(src)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", src, err)
	}
	var letter rune
	formula.Visit(root, func(n formula.Node) {
		if t, ok := n.(formula.Term); ok && !t.IsLiteral() && letter == 0 {
			letter = t.Letters()[0].Letter
		}
	})
	if letter != 0 {
		return 0, fmt.Errorf("%q is not a constant: it uses %c", src, letter)
	}
	return formula.Eval(0, root, nil)
}

// maxTablePoints is the largest table parseTable builds.
const maxTablePoints = 10000

// parseTable parses lo:hi:n into n evenly spaced values from lo to hi.
func parseTable(arg string) ([]float64, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf(`table must be "lo:hi:n", not %q`, arg)
	}
	lo, err := constant(parts[0])
	if err != nil {
		return nil, err
	}
	hi, err := constant(parts[1])
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("number of table points %q must be a positive integer", parts[2])
	}
	if n > maxTablePoints {
		return nil, fmt.Errorf("at most %d table points, not %d", maxTablePoints, n)
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	r := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range r {
		r[i] = lo + float64(i)*step
	}
	r[n-1] = hi
	return r, nil
}

// give applies a parameter definition to every function that uses the letter.
func (s *session) give(def string) error {
	l, v, err := parseDef(def)
	if err != nil {
		return err
	}
	found := false
	for _, e := range s.entries {
		if _, ok := e.Params[l]; ok {
			e.Params[l] = v
			found = true
		}
	}
	if !found {
		return fmt.Errorf("no function has parameter %c", l)
	}
	return nil
}

// print writes each function's values at the given points. Functions that
// failed to parse are reported instead. The result is false if any did.
func (s *session) print(at []float64, echo, tree bool) bool {
	ok := true
	for i, e := range s.entries {
		if len(s.entries) > 1 {
			if i > 0 {
				fmt.Fprintln(s.out)
			}
			fmt.Fprintf(s.out, "# %s\n", e.Formula)
		}
		if e.Err != nil {
			fmt.Fprintln(s.out, e.Message())
			ok = false
			continue
		}
		if echo {
			fmt.Fprintln(s.out, e.Root)
		}
		if tree {
			fmt.Fprint(s.out, formula.Outline(e.Root))
		}
		for _, x := range at {
			s.printAt(e, x)
		}
	}
	return ok
}
