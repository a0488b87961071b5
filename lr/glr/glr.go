package glr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/parsejoy/lr/sppf"
)

// Parser is a GLR parser for an automaton. A parser holds no state of its own
// between runs and may be used for any number of inputs, concurrently.
type Parser struct {
	a              *lr.Automaton
	debug          bool
	ambiguityLimit int
}

// Option configures a parser.
type Option func(p *Parser)

// Debug sets or clears debug mode: every input offset will be traced
// together with its stack heads.
func Debug(b bool) Option {
	return func(p *Parser) {
		p.debug = b
	}
}

// AmbiguityLimit sets the maximum number of ambiguities recorded for a parse
// run. A negative limit records every ambiguity.
func AmbiguityLimit(n int) Option {
	return func(p *Parser) {
		p.ambiguityLimit = n
	}
}

// NewParser creates a parser for an automaton.
func NewParser(a *lr.Automaton, opts ...Option) *Parser {
	p := &Parser{a: a, ambiguityLimit: 100}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run parses an input with a default parser for automaton a.
func Run(a *lr.Automaton, in lr.Input) *Result {
	return NewParser(a).Parse(in)
}

// run holds the state of a single parse run.
type run struct {
	p           *Parser
	a           *lr.Automaton
	g           *lr.Grammar
	in          lr.Input
	forest      *sppf.Forest
	heads       []*Head         // arena of all heads
	index       map[headKey]int // heads by (state, offset)
	pending     map[int][]int   // heads created by shifts, by offset
	offsets     *treeset.Set    // offsets with pending heads
	visited     map[string]struct{}
	ambiguities []Ambiguity
}

// Parse runs the parser on an input. It always returns a result; inputs which
// are not accepted are reported by the result, see Result.OK.
func (p *Parser) Parse(in lr.Input) *Result {
	r := &run{
		p:       p,
		a:       p.a,
		g:       p.a.Grammar(),
		in:      in,
		forest:  sppf.NewForest(in),
		index:   make(map[headKey]int),
		pending: make(map[int][]int),
		offsets: treeset.NewWith(utils.IntComparator),
	}
	start, _ := r.head(p.a.StartState(), 0)
	r.pending[0] = []int{start}
	r.offsets.Add(0)
	var level []int
	var accepted []*Head
	offset := 0
	for !r.offsets.Empty() {
		it := r.offsets.Iterator()
		it.First()
		offset = it.Value().(int)
		r.offsets.Remove(offset)
		level = r.pending[offset]
		delete(r.pending, offset)
		level = r.reduceAll(offset, level)
		if p.debug {
			r.dumpLevel(offset, level)
		}
		if offset == in.Len() {
			for _, id := range level {
				if r.heads[id].State == lr.AcceptState {
					accepted = append(accepted, r.heads[id])
				}
			}
			continue
		}
		r.shiftAll(offset, level)
	}
	longest := make([]*Head, len(level))
	for k, id := range level {
		longest[k] = r.heads[id]
	}
	tracer().Infof("parse run: %d heads, %d values, %d accepted at %d/%d",
		len(r.heads), r.forest.Size(), len(accepted), offset, in.Len())
	return &Result{
		Accepted:    accepted,
		Longest:     longest,
		Furthest:    offset,
		Ambiguities: r.ambiguities,
		Forest:      r.forest,
		heads:       r.heads,
		in:          in,
		a:           r.a,
	}
}

// reduceAll applies reductions to the heads at an offset until no head gains
// a new ancestor. At the end of input, end marker transitions are
// taken as well, as they do not consume input. It returns all heads at offset.
func (r *run) reduceAll(offset int, level []int) []int {
	r.visited = make(map[string]struct{})
	queue := arraystack.New()
	queued := make(map[int]bool)
	enqueue := func(id int) {
		if !queued[id] {
			queued[id] = true
			queue.Push(id)
		}
	}
	for _, id := range level {
		enqueue(id)
	}
	atEnd := offset == r.in.Len()
	// track a new ancestor for head id; all heads at this offset have to be
	// revisited, as any of them may reach id by a path
	advance := func(id int, created bool, v *sppf.Value, parent int) {
		if created {
			level = append(level, id)
		}
		if !r.link(id, v, parent) {
			return
		}
		if created {
			enqueue(id)
			return
		}
		for _, other := range level {
			enqueue(other)
		}
	}
	for !queue.Empty() {
		x, _ := queue.Pop()
		id := x.(int)
		queued[id] = false
		h := r.heads[id]
		if h.State == lr.AcceptState {
			continue
		}
		for _, serial := range r.a.Reductions(h.State) {
			rule := r.g.Rule(serial)
			for _, p := range r.paths(id, rule.Len()) {
				if r.seen(serial, p) {
					continue
				}
				root := r.heads[p.root]
				v := r.forest.Reduce(rule, root.Offset, offset, p.values)
				if v == nil {
					continue
				}
				target := lr.AcceptState
				if rule.LHS != r.g.StartSymbol() {
					var ok bool
					if target, ok = r.a.Goto(root.State, rule.LHS); !ok {
						panic(fmt.Sprintf("no GOTO entry for state %d and %s", root.State, rule.LHS))
					}
				}
				tracer().Debugf("reduce %v @ %d: %d -> %d", rule, offset, root.State, target)
				did, created := r.head(target, offset)
				advance(did, created, v, p.root)
			}
		}
		if atEnd {
			for _, e := range r.a.Shifts(h.State) {
				if e.Symbol.IsEndMarker() {
					v := r.forest.Terminal(e.Symbol, offset, offset)
					did, created := r.head(e.Target, offset)
					advance(did, created, v, id)
				}
			}
		}
	}
	return level
}

// seen checks if a reduction along a path has been performed at the current
// offset, and marks it as performed.
func (r *run) seen(rule int, p path) bool {
	var b strings.Builder
	b.WriteString(strconv.Itoa(rule))
	b.WriteString("@")
	b.WriteString(strconv.Itoa(p.root))
	for _, v := range p.values {
		b.WriteString(",")
		b.WriteString(strconv.Itoa(v.ID()))
	}
	key := b.String()
	if _, ok := r.visited[key]; ok {
		return true
	}
	r.visited[key] = struct{}{}
	return false
}

// shiftAll lets every head at an offset take at most one terminal transition.
func (r *run) shiftAll(offset int, level []int) {
	for _, id := range level {
		h := r.heads[id]
		if h.State == lr.AcceptState {
			continue
		}
		e, n, ok := r.selectShift(h.State, offset)
		if !ok {
			continue
		}
		v := r.forest.Terminal(e.Symbol, offset, offset+n)
		did, created := r.head(e.Target, offset+n)
		tracer().Debugf("shift %v @ %d: %d -> %d", e.Symbol, offset, h.State, e.Target)
		r.link(did, v, id)
		if created {
			r.pending[offset+n] = append(r.pending[offset+n], did)
			r.offsets.Add(offset + n)
		}
	}
}

// selectShift selects the terminal transition to take from a state at an offset.
// Among patterns the longest match wins, with ties going to the first
// transition. A matching literal overrides any pattern, with the longest literal
// winning. Matches of length 0 are ignored, and the end marker is handled
// during reduction.
func (r *run) selectShift(state int, offset int) (lr.Edge, int, bool) {
	var best lr.Edge
	bestLen, literal := 0, false
	for _, e := range r.a.Shifts(state) {
		if e.Symbol.IsEndMarker() {
			continue
		}
		n, ok := r.in.Match(offset, e.Symbol)
		if !ok || n == 0 {
			continue
		}
		if e.Symbol.IsLiteral() {
			if !literal || n > bestLen {
				best, bestLen, literal = e, n, true
			}
		} else if !literal && n > bestLen {
			best, bestLen = e, n
		}
	}
	return best, bestLen, bestLen > 0
}

func (r *run) ambiguous(h *Head, first, second *sppf.Value) {
	if r.p.ambiguityLimit >= 0 && len(r.ambiguities) >= r.p.ambiguityLimit {
		return
	}
	a := Ambiguity{
		State:  h.State,
		Offset: h.Offset,
		Symbol: second.Symbol.Name,
		First:  first,
		Second: second,
	}
	tracer().Infof("ambiguity: %v", a)
	r.ambiguities = append(r.ambiguities, a)
}

func (r *run) dumpLevel(offset int, level []int) {
	tracer().Infof("--- offset %d: %d heads ----------------------", offset, len(level))
	for _, id := range level {
		tracer().Infof("   %v", r.heads[id])
	}
}
