package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/formula"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("formula: ")
	var (
		at          []float64
		given       [][2]string
		table       string
		wsname      string
		prec        uint
		depth       int
		echo, tree  bool
		interactive bool
	)
	addat := func(s string) error {
		x, err := constant(s)
		if err != nil {
			return err
		}
		at = append(at, x)
		return nil
	}
	addgiven := func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf(`parameter definitions must be "letter=value", not %q`, s)
		}
		d := strings.SplitN(s, "=", 2)
		given = append(given, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.Func("at", "evaluate at x (any number of times)", addat)
	flag.Func("given", "letter=value parameter definition (any number of times)", addgiven)
	flag.StringVar(&table, "table", "", "evaluate at `lo:hi:n` evenly spaced points")
	flag.StringVar(&wsname, "w", "", "workspace `file` of functions to load")
	flag.UintVar(&prec, "p", 0, "evaluate with this many `bits` of precision instead of float64")
	flag.IntVar(&depth, "depth", formula.DefaultMaxDepth, "maximum nesting of parentheses and exponents")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&tree, "tree", false, "print parse tree outlines")
	flag.BoolVar(&interactive, "i", false, "start an interactive session")
	flag.Parse()
	if depth <= 0 {
		log.Fatalf("depth (%d) must be positive", depth)
	}

	s := newSession(os.Stdout, prec, formula.MaxDepth(depth))
	if wsname != "" {
		f, err := os.Open(wsname)
		if err != nil {
			log.Fatal(err)
		}
		err = loadWorkspace(s, f)
		f.Close()
		if err != nil {
			log.Fatalf("%s: %v", wsname, err)
		}
	}
	for _, arg := range flag.Args() {
		s.add(arg)
	}
	for _, d := range given {
		if err := s.give(d[0] + "=" + d[1]); err != nil {
			log.Fatal(err)
		}
	}
	if table != "" {
		xs, err := parseTable(table)
		if err != nil {
			log.Fatal(err)
		}
		at = append(at, xs...)
	}

	if interactive {
		repl(s)
		return
	}
	if len(s.entries) == 0 {
		log.Fatal("no formulas given")
	}
	if len(at) == 0 {
		at = []float64{0}
	}
	if !s.print(at, echo, tree) {
		os.Exit(1)
	}
}
