package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// S ➞ E #eof ;  E ➞ E "+" E | "b"
func makeArithGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Arith")
	b.LHS("S").N("E").EOF()
	b.LHS("E").N("E").L("+").N("E").End()
	b.LHS("E").L("b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBuildAutomaton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	g := makeArithGrammar(t)
	a, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	a.Dump()
	if a.StateCount() != 6 {
		t.Fatalf("expected automaton to have 6 states, has %d", a.StateCount())
	}
	expected := []Item{{Rule: 0, Dot: 0}, {Rule: 1, Dot: 0}, {Rule: 2, Dot: 0}}
	if diff := cmp.Diff(expected, a.State(0).Items()); diff != "" {
		t.Errorf("start state differs (-want +got):\n%s", diff)
	}
	E := g.NonTerminal("E")
	plus := g.Terminal(LiteralKind, "+")
	s1, ok := a.Goto(0, E)
	if !ok || s1 != 1 {
		t.Fatalf("expected goto(0, E) = 1, is %d/%v", s1, ok)
	}
	s4, ok := a.Goto(s1, plus)
	if !ok {
		t.Fatalf("expected goto(1, +) to exist")
	}
	s5, _ := a.Goto(s4, E)
	if diff := cmp.Diff([]int{1}, a.Reductions(s5)); diff != "" {
		t.Errorf("reductions of state %d differ (-want +got):\n%s", s5, diff)
	}
	if back, _ := a.Goto(s5, plus); back != s4 {
		t.Errorf("expected goto(%d, +) to lead back to state %d, is %d", s5, s4, back)
	}
	if _, ok := a.Goto(0, plus); ok {
		t.Errorf("expected no transition for + in start state")
	}
	s3, _ := a.Goto(s1, g.Terminal(EndMarkerKind, EndMarkerName))
	if !a.State(s3).Accept || a.State(s1).Accept {
		t.Errorf("expected exactly state %d to be accepting", s3)
	}
	if len(a.Reductions(0)) != 0 {
		t.Errorf("expected no reductions in start state")
	}
}

func TestShiftOrdering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").EOF()
	b.LHS("A").L("x").End()
	b.LHS("A").P(`[a-z]+`).End()
	b.LHS("A").Epsilon()
	g, _ := b.Grammar()
	a, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	shifts := a.Shifts(0)
	if len(shifts) != 2 {
		t.Fatalf("expected 2 terminal transitions in start state, have %d", len(shifts))
	}
	if !shifts[0].Symbol.IsPattern() || !shifts[1].Symbol.IsLiteral() {
		t.Errorf("expected patterns to be ordered before literals, have %v, %v",
			shifts[0].Symbol, shifts[1].Symbol)
	}
	if len(a.Reductions(0)) != 1 || a.Reductions(0)[0] != 3 {
		t.Errorf("expected epsilon rule 3 to be reduced in start state, have %v", a.Reductions(0))
	}
	if len(a.Terminals()) != 3 {
		t.Errorf("expected 3 terminals, have %v", a.Terminals())
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	a1, err1 := Build(makeArithGrammar(t))
	a2, err2 := Build(makeArithGrammar(t))
	if err1 != nil || err2 != nil {
		t.Fatalf("build failed: %v / %v", err1, err2)
	}
	if a1.Fingerprint() == "" || a1.Fingerprint() != a2.Fingerprint() {
		t.Errorf("expected equal fingerprints for identical grammars")
	}
	for s := 0; s < a1.StateCount(); s++ {
		if diff := cmp.Diff(a1.State(s).Items(), a2.State(s).Items()); diff != "" {
			t.Errorf("state %d differs:\n%s", s, diff)
		}
	}
	b := NewGrammarBuilder("Other")
	b.LHS("S").N("E").EOF()
	b.LHS("E").L("b").End()
	g, _ := b.Grammar()
	a3, _ := Build(g)
	if a3.Fingerprint() == a1.Fingerprint() {
		t.Errorf("expected different fingerprints for different grammars")
	}
}

func TestBuildUndefinedNonTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("E").N("Missing").EOF()
	b.LHS("E").L("e").End()
	g, _ := b.Grammar()
	_, err := Build(g)
	var gerr *GrammarError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a grammar error, got %v", err)
	}
	if gerr.Symbol != "Missing" || gerr.Rule != 0 {
		t.Errorf("expected error to name symbol Missing in rule 0, is %v", gerr)
	}
}

func TestExports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	a, _ := Build(makeArithGrammar(t))
	var dot, html bytes.Buffer
	if err := a.ToGraphViz(&dot); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dot.String(), "digraph {") || !strings.Contains(dot.String(), "s000 -> s001") {
		t.Errorf("unexpected GraphViz output:\n%s", dot.String())
	}
	if err := TablesAsHTML(a, &html); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "<td>state 5</td>") {
		t.Errorf("expected HTML table to contain a row for state 5")
	}
}
