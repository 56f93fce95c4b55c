// Package formula implements the front end of a live function plotter: it
// tokenizes, validates, parses, and evaluates algebraic formulas of one free
// variable x and any number of single-letter parameters.
//
// The syntax is the one you'd type into a graphing calculator. Every letter is
// its own name, so "3x^2+ay-b" is 3·x² + a·y − b, and factors written next to
// each other are multiplied. A formula may end with a domain restriction in
// braces: "x^2{0 10}" is only drawn for 0 ≤ x ≤ 10.
//
// Runs of numbers and letters are folded into terms while parsing, so "x*x"
// and "x^2" produce the same tree. An Entry keeps the parameter values a user
// has tuned across edits to its formula.
package formula
