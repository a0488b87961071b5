package sppf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/parsejoy"
	"github.com/npillmayer/parsejoy/lr"
)

// Value is a semantic value. It is either a terminal together with the raw
// input it matched, or the left hand side of a reduced rule together with the
// values of the rule's right hand side, in derivation order.
type Value struct {
	id       int
	Symbol   *lr.Symbol    // terminal or LHS of the reduced rule
	Rule     int           // serial of the reduced rule; -1 for terminals
	Span     parsejoy.Span // input positions covered
	Children []*Value      // child values in derivation order; nil for terminals
	Raw      interface{}   // input segment for terminals
}

// IsTerminal is true for values of shifted terminals.
func (v *Value) IsTerminal() bool {
	return v.Rule < 0
}

// ID returns a serial number of the value, unique within its forest.
func (v *Value) ID() int {
	return v.id
}

// Text returns the raw input of a terminal value if it is a string.
// For non-terminals, the texts of all terminals covered are concatenated.
func (v *Value) Text() string {
	if v.IsTerminal() {
		return rawText(v.Raw)
	}
	var b strings.Builder
	stack := []*Value{v}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.IsTerminal() {
			b.WriteString(rawText(top.Raw))
			continue
		}
		for k := len(top.Children) - 1; k >= 0; k-- {
			stack = append(stack, top.Children[k])
		}
	}
	return b.String()
}

func rawText(raw interface{}) string {
	switch r := raw.(type) {
	case string:
		return r
	case []parsejoy.Token:
		var b strings.Builder
		for _, t := range r {
			b.WriteString(t.Lexeme())
		}
		return b.String()
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", raw)
}

// String returns a single-line representation, e.g. `E(E("b") "+" E("b"))`.
func (v *Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v *Value) write(b *strings.Builder) {
	if v.IsTerminal() {
		b.WriteString(strconv.Quote(rawText(v.Raw)))
		return
	}
	b.WriteString(v.Symbol.Name)
	b.WriteString("(")
	for k, c := range v.Children {
		if k > 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString(")")
}

// PrettyString returns an indented, multi-line representation.
func (v *Value) PrettyString() string {
	var b strings.Builder
	v.pretty(&b, 0)
	return b.String()
}

func (v *Value) pretty(b *strings.Builder, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	if v.IsTerminal() {
		b.WriteString(strconv.Quote(rawText(v.Raw)))
		b.WriteString("\n")
		return
	}
	fmt.Fprintf(b, "%s %v\n", v.Symbol.Name, v.Span)
	for _, c := range v.Children {
		c.pretty(b, indent+1)
	}
}

// --- Forest ----------------------------------------------------------------

// Forest holds all semantic values of a parse run. Values are interned: asking
// twice for the same terminal span, or for the same rule over the same children,
// returns the same *Value.
//
// A Forest is not safe for concurrent use; every parse run creates its own.
type Forest struct {
	in       lr.Input
	values   []*Value
	terms    map[termKey]*Value
	nodes    map[string]*Value
	rejected int // number of cyclic derivations rejected
}

type termKey struct {
	symbol   int
	from, to int
}

// NewForest creates an empty forest for values over an input.
func NewForest(in lr.Input) *Forest {
	return &Forest{
		in:    in,
		terms: make(map[termKey]*Value),
		nodes: make(map[string]*Value),
	}
}

// Size returns the number of distinct values in the forest.
func (f *Forest) Size() int {
	return len(f.values)
}

// Rejected returns the number of cyclic derivations which have been rejected.
func (f *Forest) Rejected() int {
	return f.rejected
}

// Terminal returns the value for terminal A matched over input positions
// from…to. Its raw value is the input's segment.
func (f *Forest) Terminal(A *lr.Symbol, from, to int) *Value {
	key := termKey{symbol: A.Value, from: from, to: to}
	if v, ok := f.terms[key]; ok {
		return v
	}
	v := &Value{
		id:     len(f.values),
		Symbol: A,
		Rule:   -1,
		Span:   parsejoy.MakeSpan(from, to),
		Raw:    f.in.Segment(from, to),
	}
	f.values = append(f.values, v)
	f.terms[key] = v
	return v
}

// Reduce returns the value for rule r reduced over children, which span input
// positions from…to. It returns nil if the value would be part of a cyclic
// derivation, i.e. if a child covering the same span derives r's LHS again.
func (f *Forest) Reduce(r *lr.Rule, from, to int, children []*Value) *Value {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.Serial))
	b.WriteString(":")
	b.WriteString(strconv.Itoa(from))
	for _, c := range children {
		b.WriteString(",")
		b.WriteString(strconv.Itoa(c.id))
	}
	key := b.String()
	if v, ok := f.nodes[key]; ok {
		return v
	}
	span := parsejoy.MakeSpan(from, to)
	if derivesSelf(r.LHS, span, children) {
		tracer().Debugf("rejecting cyclic derivation of %s over %v", r.LHS.Name, span)
		f.rejected++
		return nil
	}
	v := &Value{
		id:       len(f.values),
		Symbol:   r.LHS,
		Rule:     r.Serial,
		Span:     span,
		Children: children,
	}
	f.values = append(f.values, v)
	f.nodes[key] = v
	return v
}

// derivesSelf checks if any descendant over the same span, reachable through
// same-span children only, is a value for A.
func derivesSelf(A *lr.Symbol, span parsejoy.Span, children []*Value) bool {
	stack := make([]*Value, 0, len(children))
	for _, c := range children {
		if c.Span == span && !c.IsTerminal() {
			stack = append(stack, c)
		}
	}
	seen := make(map[*Value]bool)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		if v.Symbol == A {
			return true
		}
		for _, c := range v.Children {
			if c.Span == span && !c.IsTerminal() {
				stack = append(stack, c)
			}
		}
	}
	return false
}
