package glr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/parsejoy/lr/sppf"
)

// Result is the outcome of a parse run.
//
// Accepted holds the heads in the accept pseudo-state at the end of input;
// it is empty if the input has not been accepted. Longest holds the heads at
// the furthest input offset reached, which is useful for error reporting.
type Result struct {
	Accepted    []*Head
	Longest     []*Head
	Furthest    int         // furthest input offset reached
	Ambiguities []Ambiguity // competing interpretations found
	Forest      *sppf.Forest
	heads       []*Head
	in          lr.Input
	a           *lr.Automaton
}

// OK returns true if the input has been accepted.
func (r *Result) OK() bool {
	return len(r.Accepted) > 0
}

// Head returns a head by its ID, e.g. to follow the Parent of an ancestor.
func (r *Result) Head(id int) *Head {
	if id < 0 || id >= len(r.heads) {
		return nil
	}
	return r.heads[id]
}

// HeadCount returns the number of heads created during the parse run.
func (r *Result) HeadCount() int {
	return len(r.heads)
}

// Value returns the semantic value of the first ancestor of the first
// accepting head, or nil if the input has not been accepted.
func (r *Result) Value() *sppf.Value {
	if !r.OK() || len(r.Accepted[0].Ancestors) == 0 {
		return nil
	}
	return r.Accepted[0].Ancestors[0].Value
}

// Values returns all distinct semantic values of accepting heads.
// More than one value signals an ambiguous input.
func (r *Result) Values() []*sppf.Value {
	var values []*sppf.Value
	seen := make(map[*sppf.Value]bool)
	for _, h := range r.Accepted {
		for _, anc := range h.Ancestors {
			if !seen[anc.Value] {
				seen[anc.Value] = true
				values = append(values, anc.Value)
			}
		}
	}
	return values
}

// Failure returns a ParseFailure describing where the parse run stopped, or
// nil if the input has been accepted.
func (r *Result) Failure() *ParseFailure {
	if r.OK() {
		return nil
	}
	f := &ParseFailure{Offset: r.Furthest}
	if loc, ok := r.in.(lr.Locator); ok {
		f.Line, f.Column = loc.LineCol(r.Furthest)
	}
	seen := make(map[string]bool)
	for _, h := range r.Longest {
		if h.State == lr.AcceptState {
			continue
		}
		for _, e := range r.a.Shifts(h.State) {
			if s := e.Symbol.String(); !seen[s] {
				seen[s] = true
				f.Expected = append(f.Expected, s)
			}
		}
	}
	sort.Strings(f.Expected)
	return f
}

// Ambiguity records a competing interpretation: two different semantic values
// for the same transition into a head.
type Ambiguity struct {
	State  int // state of the head
	Offset int // input offset of the head
	Symbol string
	First  *sppf.Value
	Second *sppf.Value
}

func (a Ambiguity) String() string {
	return fmt.Sprintf("%s @ %d (state %d): %v | %v", a.Symbol, a.Offset, a.State, a.First, a.Second)
}

// ParseFailure describes an input which has not been accepted.
// Parse runs do not return it as an error, but clients may use it as one.
type ParseFailure struct {
	Offset   int      // furthest input offset reached
	Line     int      // line of Offset, if known; starting at 1
	Column   int      // column of Offset, if known; starting at 1
	Expected []string // terminals which would have been acceptable at Offset
}

func (f *ParseFailure) Error() string {
	var b strings.Builder
	if f.Line > 0 {
		fmt.Fprintf(&b, "parse failed at line %d, column %d", f.Line, f.Column)
	} else {
		fmt.Fprintf(&b, "parse failed at offset %d", f.Offset)
	}
	if len(f.Expected) > 0 {
		fmt.Fprintf(&b, ", expected one of %s", strings.Join(f.Expected, " "))
	}
	return b.String()
}
