package lr

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/parsejoy/lr/sparse"
)

// AcceptState is the pseudo state reached by reducing the start symbol.
const AcceptState = -1

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// closureSet computes the closure of a set of items: for every item with a
// non-terminal A after the dot, all items A ➞ • α are added, transitively.
// S is extended in place.
func (lrgen *tableGenerator) closureSet(S *treeset.Set) *treeset.Set {
	worklist := arraylist.New(S.Values()...)
	for k := 0; k < worklist.Size(); k++ {
		x, _ := worklist.Get(k)
		A := asItem(x).PeekSymbol(lrgen.g)
		if A == nil || A.IsTerminal() {
			continue
		}
		for _, r := range lrgen.g.RulesFor(A) {
			i := Item{Rule: r}
			if !S.Contains(i) {
				S.Add(i)
				worklist.Add(i)
			}
		}
	}
	return S
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int          // serial ID of this state, in order of discovery
	items  *treeset.Set // configuration items within this state
	Accept bool         // does this state complete the start rule?
}

// Items returns the LR(0) items of a state, ordered by rule and dot position.
func (s *CFSMState) Items() []Item {
	vals := s.items.Values()
	items := make([]Item, len(vals))
	for k, x := range vals {
		items[k] = asItem(x)
	}
	return items
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

// Edge is a transition of the CFSM, labeled with a grammar symbol.
type Edge struct {
	Symbol *Symbol
	Target int
}

// Automaton is the characteristic finite state machine (CFSM) for a grammar,
// i.e. the LR(0) state diagram, together with its tables.
// For every state it holds a GOTO entry per symbol which may be shifted or
// reduced to, and a set of rules to reduce.
// Automata are immutable and may be shared between concurrent parser runs.
type Automaton struct {
	g          *Grammar
	states     []*CFSMState
	gototable  *sparse.IntMatrix // state x symbol → state
	edges      [][]Edge          // all edges per state, in order of symbol discovery
	shifts     [][]Edge          // terminal edges per state: patterns, literals, end marker
	reductions [][]int           // rules to reduce per state
}

// Grammar returns the grammar the automaton has been built for.
func (a *Automaton) Grammar() *Grammar {
	return a.g
}

// StartState returns the start state, which always is 0.
func (a *Automaton) StartState() int {
	return 0
}

// StateCount returns the number of states.
func (a *Automaton) StateCount() int {
	return len(a.states)
}

// State returns state no. s.
func (a *Automaton) State(s int) *CFSMState {
	if s < 0 || s >= len(a.states) {
		return nil
	}
	return a.states[s]
}

// Goto returns the target state of the transition from state s on symbol A.
func (a *Automaton) Goto(s int, A *Symbol) (int, bool) {
	v := a.gototable.Value(s, A.Value)
	if v == a.gototable.NullValue() {
		return 0, false
	}
	return int(v), true
}

// Reductions returns the serials of the rules to reduce in state s.
func (a *Automaton) Reductions(s int) []int {
	return a.reductions[s]
}

// Shifts returns the terminal transitions of state s. Pattern transitions come
// first, then literal transitions, then the end marker.
func (a *Automaton) Shifts(s int) []Edge {
	return a.shifts[s]
}

// Edges returns all transitions of state s, for terminals and non-terminals.
func (a *Automaton) Edges(s int) []Edge {
	return a.edges[s]
}

// Terminals returns all terminals appearing on transitions, ordered by serial.
func (a *Automaton) Terminals() []*Symbol {
	seen := make(map[*Symbol]bool)
	var terms []*Symbol
	for _, sh := range a.shifts {
		for _, e := range sh {
			if !seen[e.Symbol] {
				seen[e.Symbol] = true
				terms = append(terms, e.Symbol)
			}
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Value < terms[j].Value })
	return terms
}

// tableGenerator is a generator object to construct an automaton.
type tableGenerator struct {
	g     *Grammar
	a     *Automaton
	index map[string]int // item set key → state ID
}

// Build constructs the LR(0) automaton for a grammar. It will return a
// GrammarError if a non-terminal is used without having any rule.
func Build(g *Grammar) (*Automaton, error) {
	if g == nil || len(g.rules) == 0 {
		return nil, grammarError("?", -1, "", "grammar has no rules")
	}
	if err := checkNonTerminals(g); err != nil {
		return nil, err
	}
	lrgen := &tableGenerator{
		g:     g,
		a:     &Automaton{g: g},
		index: make(map[string]int),
	}
	lrgen.buildCFSM()
	lrgen.buildTables()
	tracer().Infof("automaton for grammar %s has %d states", g.Name, len(lrgen.a.states))
	return lrgen.a, nil
}

func checkNonTerminals(g *Grammar) error {
	for _, r := range g.rules {
		for _, A := range r.RHS {
			if !A.IsTerminal() && len(g.RulesFor(A)) == 0 {
				return grammarError(g.Name, r.Serial, A.Name, "non-terminal has no rule")
			}
		}
	}
	return nil
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are extended in order of discovery.
func (lrgen *tableGenerator) buildCFSM() {
	tracer().Debugf("=== build CFSM ==================================================")
	S0 := newItemSet()
	S0.Add(StartItem(lrgen.g.rules[0]))
	lrgen.addState(lrgen.closureSet(S0))
	for s := 0; s < len(lrgen.a.states); s++ {
		lrgen.extendState(s)
	}
}

// extendState partitions the items of state s by the symbol after the dot.
// Completed items become reductions of s, every partition is advanced over its
// symbol and closed, yielding the GOTO target for that symbol.
func (lrgen *tableGenerator) extendState(s int) {
	state := lrgen.a.states[s]
	tracer().Debugf("--- state %03d -----------", s)
	dumpItems(lrgen.g, state.items)
	var symbols []*Symbol
	partitions := make(map[*Symbol]*treeset.Set)
	var reduce []int
	it := state.items.Iterator()
	for it.Next() {
		i := asItem(it.Value())
		A := i.PeekSymbol(lrgen.g)
		if A == nil {
			reduce = append(reduce, i.Rule)
			continue
		}
		p, ok := partitions[A]
		if !ok {
			p = newItemSet()
			partitions[A] = p
			symbols = append(symbols, A)
		}
		p.Add(i.Advance())
	}
	lrgen.a.reductions[s] = reduce
	for _, A := range symbols {
		target := lrgen.addState(lrgen.closureSet(partitions[A]))
		tracer().Debugf("goto(%d, %v) = %d", s, A, target)
		lrgen.a.edges[s] = append(lrgen.a.edges[s], Edge{Symbol: A, Target: target})
	}
}

// Add a state to the CFSM. Checks first if state is present.
func (lrgen *tableGenerator) addState(iset *treeset.Set) int {
	key := itemSetKey(iset)
	if id, ok := lrgen.index[key]; ok {
		return id
	}
	s := &CFSMState{ID: len(lrgen.a.states), items: iset}
	start := lrgen.g.StartSymbol()
	for _, x := range iset.Values() {
		i := asItem(x)
		if i.IsComplete(lrgen.g) && lrgen.g.rules[i.Rule].LHS == start {
			s.Accept = true
		}
	}
	lrgen.index[key] = s.ID
	lrgen.a.states = append(lrgen.a.states, s)
	lrgen.a.edges = append(lrgen.a.edges, nil)
	lrgen.a.reductions = append(lrgen.a.reductions, nil)
	return s.ID
}

// buildTables fills the GOTO table and orders terminal transitions for the
// GLR runtime.
func (lrgen *tableGenerator) buildTables() {
	a := lrgen.a
	a.gototable = sparse.NewIntMatrix(len(a.states), lrgen.g.SymbolCount(), sparse.DefaultNullValue)
	a.shifts = make([][]Edge, len(a.states))
	for s, edges := range a.edges {
		var shifts []Edge
		for _, e := range edges {
			a.gototable.Set(s, e.Symbol.Value, int32(e.Target))
			if e.Symbol.IsTerminal() {
				shifts = append(shifts, e)
			}
		}
		sort.SliceStable(shifts, func(i, j int) bool {
			return shiftRank(shifts[i].Symbol) < shiftRank(shifts[j].Symbol)
		})
		a.shifts[s] = shifts
	}
	tracer().Debugf("GOTO table has %d entries", a.gototable.ValueCount())
}

func shiftRank(A *Symbol) int {
	switch A.Kind() {
	case PatternKind:
		return 0
	case LiteralKind:
		return 1
	}
	return 2
}

// --- Fingerprint -----------------------------------------------------------

type tableDigest struct {
	Rules  []string
	Goto   []gotoEntry
	Reduce [][]int
}

type gotoEntry struct {
	State  int
	Symbol string
	Target int
}

// Fingerprint returns a digest of the automaton's tables. Building an automaton
// twice from the same grammar yields the same fingerprint.
func (a *Automaton) Fingerprint() string {
	d := tableDigest{Reduce: a.reductions}
	for _, r := range a.g.rules {
		d.Rules = append(d.Rules, r.String())
	}
	for s, edges := range a.edges {
		for _, e := range edges {
			d.Goto = append(d.Goto, gotoEntry{
				State:  s,
				Symbol: e.Symbol.Kind().String() + ":" + e.Symbol.Name,
				Target: e.Target,
			})
		}
	}
	hash, err := structhash.Hash(d, 1)
	if err != nil {
		tracer().Errorf("cannot fingerprint automaton: %v", err)
		return ""
	}
	return hash
}

// --- Export ----------------------------------------------------------------

// Dump is a debugging helper, tracing all states at debug level.
func (a *Automaton) Dump() {
	for _, s := range a.states {
		tracer().Debugf("--- state %03d -----------", s.ID)
		dumpItems(a.g, s.items)
		for _, e := range a.edges[s.ID] {
			tracer().Debugf("   --%v--> %d", e.Symbol, e.Target)
		}
		for _, r := range a.reductions[s.ID] {
			tracer().Debugf("   reduce %d", r)
		}
	}
	tracer().Debugf("-------------------------")
}

// ToGraphViz exports the CFSM to the Graphviz Dot format.
func (a *Automaton) ToGraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range a.states {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(a.g, s.items)))
	}
	for _, s := range a.states {
		for _, e := range a.edges[s.ID] {
			b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", s.ID, e.Target,
				escapeGraphviz(e.Symbol.String())))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(g *Grammar, iset *treeset.Set) string {
	var b strings.Builder
	for k, x := range iset.Values() {
		if k > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeGraphviz(asItem(x).ItemString(g)))
	}
	b.WriteString("\\l")
	return b.String()
}

var graphvizEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "{", `\{`, "}", `\}`,
	"|", `\|`, "<", `\<`, ">", `\>`, "\n", `\\n`)

func escapeGraphviz(s string) string {
	return graphvizEscaper.Replace(s)
}

// TablesAsHTML exports the GOTO-table and the reductions in HTML-format.
func TablesAsHTML(a *Automaton, w io.Writer) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("GOTO table of size = %d<p>", a.gototable.ValueCount()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	a.g.EachSymbol(func(A *Symbol) interface{} {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscaper.Replace(A.String())))
		return nil
	})
	b.WriteString("<td>reduce</td></tr>\n")
	var td string // table cell
	for _, s := range a.states {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", s.ID))
		a.g.EachSymbol(func(A *Symbol) interface{} {
			if target, ok := a.Goto(s.ID, A); ok {
				td = fmt.Sprintf("%d", target)
			} else {
				td = "&nbsp;"
			}
			b.WriteString("<td>")
			b.WriteString(td)
			b.WriteString("</td>\n")
			return nil
		})
		b.WriteString(fmt.Sprintf("<td>%v</td>\n", a.reductions[s.ID]))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
