package sppf

import (
	"strings"
	"testing"

	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").EOF()
	b.LHS("A").N("A").L("+").N("A").End()
	b.LHS("A").L("x").End()
	b.LHS("A").N("A").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestForestInterning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	g := makeGrammar(t)
	f := NewForest(lr.NewTextInput("test", "x+x"))
	x := g.Rule(2).RHS[0]
	x1 := f.Terminal(x, 0, 1)
	if f.Terminal(x, 0, 1) != x1 {
		t.Errorf("expected terminal values to be interned")
	}
	if x1.Raw.(string) != "x" {
		t.Errorf("expected raw value of terminal to be input segment, is %v", x1.Raw)
	}
	a1 := f.Reduce(g.Rule(2), 0, 1, []*Value{x1})
	if f.Reduce(g.Rule(2), 0, 1, []*Value{x1}) != a1 {
		t.Errorf("expected reduced values to be interned")
	}
	e1 := f.Reduce(g.Rule(4), 1, 1, nil)
	e2 := f.Reduce(g.Rule(4), 2, 2, nil)
	if e1 == e2 {
		t.Errorf("expected epsilon values at different offsets to differ")
	}
	if f.Size() != 4 {
		t.Errorf("expected forest to hold 4 values, holds %d", f.Size())
	}
}

func TestForestRejectsCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	g := makeGrammar(t)
	f := NewForest(lr.NewTextInput("test", "x"))
	x := f.Terminal(g.Rule(2).RHS[0], 0, 1)
	a := f.Reduce(g.Rule(2), 0, 1, []*Value{x})
	if v := f.Reduce(g.Rule(3), 0, 1, []*Value{a}); v != nil {
		t.Errorf("expected A ➞ A over the same span to be rejected, is %v", v)
	}
	if f.Rejected() != 1 {
		t.Errorf("expected 1 rejected derivation, have %d", f.Rejected())
	}
}

type countingListener struct {
	calls map[*Value]int
}

func (l *countingListener) Terminal(v *Value, ctxt RuleCtxt) interface{} {
	l.calls[v]++
	return v.Raw.(string)
}

func (l *countingListener) ExitRule(v *Value, children []interface{}, ctxt RuleCtxt) interface{} {
	l.calls[v]++
	var b strings.Builder
	b.WriteString("(")
	for _, c := range children {
		b.WriteString(c.(string))
	}
	b.WriteString(")")
	return b.String()
}

func TestWalkSharedValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	g := makeGrammar(t)
	f := NewForest(lr.NewTextInput("test", "x+x+x"))
	X := g.Rule(2).RHS[0]
	plus := g.Rule(1).RHS[1]
	a := func(at int) *Value {
		return f.Reduce(g.Rule(2), at, at+1, []*Value{f.Terminal(X, at, at+1)})
	}
	p1, p2 := f.Terminal(plus, 1, 2), f.Terminal(plus, 3, 4)
	left := f.Reduce(g.Rule(1), 0, 3, []*Value{a(0), p1, a(2)})
	leftAssoc := f.Reduce(g.Rule(1), 0, 5, []*Value{left, p2, a(4)})
	right := f.Reduce(g.Rule(1), 2, 5, []*Value{a(2), p2, a(4)})
	rightAssoc := f.Reduce(g.Rule(1), 0, 5, []*Value{a(0), p1, right})
	if leftAssoc == rightAssoc {
		t.Fatalf("expected different values for different derivations")
	}
	l := &countingListener{calls: make(map[*Value]int)}
	r := Walk(leftAssoc, l)
	if r.(string) != "(((x)+(x))+(x))" {
		t.Errorf("unexpected walk result %v", r)
	}
	r = Walk(rightAssoc, l)
	if r.(string) != "((x)+((x)+(x)))" {
		t.Errorf("unexpected walk result %v", r)
	}
	if rightAssoc.Text() != "x+x+x" {
		t.Errorf("expected text of value to be x+x+x, is %q", rightAssoc.Text())
	}
	t.Logf("\n%s", rightAssoc.PrettyString())
	if leftAssoc.String() != `A(A(A("x") "+" A("x")) "+" A("x"))` {
		t.Errorf("unexpected string form %s", leftAssoc.String())
	}
	single := &countingListener{calls: make(map[*Value]int)}
	shared := f.Reduce(g.Rule(1), 0, 3, []*Value{a(0), p1, a(0)})
	Walk(shared, single)
	if single.calls[a(0)] != 1 {
		t.Errorf("expected shared value to be visited once, was visited %d times", single.calls[a(0)])
	}
}
