package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/formula"
)

// workspace is the file format for a list of functions to load at start.
//
//	entries:
//	  - formula: a x^2 + b {0 2}
//	    params: {a: 2, b: -1}
//	    color: {r: 0.2, g: 0.4, b: 1, a: 1}
type workspace struct {
	Entries []yaml.Node `yaml:"entries"`
}

type wsEntry struct {
	Formula string             `yaml:"formula"`
	Params  map[string]float64 `yaml:"params"`
	Color   *wsColor           `yaml:"color"`
}

type wsColor struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// loadWorkspace reads a workspace and adds its functions to s. Formulas that
// don't parse are still added so that they can be fixed interactively, but
// parameters must name letters that the formula uses.
func loadWorkspace(s *session, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var ws workspace
	if err := dec.Decode(&ws); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("reading workspace: %w", err)
	}
	for i := range ws.Entries {
		node := &ws.Entries[i]
		if err := checkFields(node); err != nil {
			return err
		}
		var we wsEntry
		if err := node.Decode(&we); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if we.Formula == "" {
			return fmt.Errorf("line %d: entry has no formula", node.Line)
		}
		e := s.add(we.Formula)
		if we.Color != nil {
			e.Color = formula.Color{R: we.Color.R, G: we.Color.G, B: we.Color.B, A: we.Color.A}
		}
		for name, v := range we.Params {
			l, sz := utf8.DecodeRuneInString(name)
			if sz == 0 || sz != len(name) {
				return fmt.Errorf("line %d: parameter name %q must be a single letter", node.Line, name)
			}
			if e.Err != nil {
				continue
			}
			if err := e.SetParam(l, v); err != nil {
				return fmt.Errorf("line %d: %w", node.Line, err)
			}
		}
	}
	return nil
}

// checkFields rejects keys of an entry that wsEntry doesn't have. Decoding a
// node doesn't apply the decoder's KnownFields setting.
func checkFields(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: entry must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch k := node.Content[i]; k.Value {
		case "formula", "params", "color":
		default:
			return fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
		}
	}
	return nil
}
