package glr

import (
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/parsejoy"
	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// S ➞ E #eof ;  E ➞ E "+" E | "b"
func makeArith(t *testing.T) *lr.Automaton {
	b := lr.NewGrammarBuilder("Arith")
	b.LHS("S").N("E").EOF()
	b.LHS("E").N("E").L("+").N("E").End()
	b.LHS("E").L("b").End()
	return build(t, b)
}

func build(t *testing.T, b *lr.GrammarBuilder) *lr.Automaton {
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	a, err := lr.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func parse(a *lr.Automaton, input string) *Result {
	return NewParser(a, Debug(true)).Parse(lr.NewTextInput("test", input))
}

func TestAccept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	a := makeArith(t)
	result := parse(a, "b+b")
	if !result.OK() {
		t.Fatalf("expected b+b to be accepted")
	}
	if len(result.Values()) != 1 {
		t.Errorf("expected 1 interpretation of b+b, have %d", len(result.Values()))
	}
	v := result.Value()
	if v.String() != `S(E(E("b") "+" E("b")) "")` {
		t.Errorf("unexpected semantic value %v", v)
	}
	if v.Span != parsejoy.MakeSpan(0, 3) {
		t.Errorf("expected value to span the input, spans %v", v.Span)
	}
	if len(result.Ambiguities) != 0 {
		t.Errorf("expected no ambiguities, have %v", result.Ambiguities)
	}
	if result.Failure() != nil {
		t.Errorf("expected no failure for accepted input")
	}
}

func TestAmbiguity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	a := makeArith(t)
	result := parse(a, "b+b+b")
	if !result.OK() {
		t.Fatalf("expected b+b+b to be accepted")
	}
	values := result.Values()
	if len(values) < 2 {
		t.Fatalf("expected at least 2 interpretations of b+b+b, have %d", len(values))
	}
	for _, v := range values {
		t.Logf("interpretation: %v", v)
		if v.Text() != "b+b+b" {
			t.Errorf("expected every interpretation to cover the input, %v does not", v)
		}
	}
	if values[0] == values[1] {
		t.Errorf("expected interpretations to differ")
	}
	if len(result.Ambiguities) == 0 {
		t.Errorf("expected an ambiguity to be recorded")
	}
	quiet := NewParser(a, AmbiguityLimit(0)).Parse(lr.NewTextInput("test", "b+b+b"))
	if !quiet.OK() || len(quiet.Values()) != len(values) {
		t.Errorf("expected ambiguity limit not to change the interpretations")
	}
	if len(quiet.Ambiguities) != 0 {
		t.Errorf("expected no ambiguities to be recorded with limit 0, have %d", len(quiet.Ambiguities))
	}
}

func TestDeadEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").L("a").EOF()
	a := build(t, b)
	result := parse(a, "b")
	if result.OK() || len(result.Accepted) != 0 {
		t.Fatalf("expected input b not to be accepted")
	}
	if result.Furthest != 0 || len(result.Longest) != 1 || result.Longest[0].Offset != 0 {
		t.Errorf("expected the start head at offset 0 to be the longest head, have %v", result.Longest)
	}
	f := result.Failure()
	if f == nil || f.Line != 1 || f.Column != 1 {
		t.Fatalf("expected failure at 1:1, have %v", f)
	}
	if len(f.Expected) != 1 || f.Expected[0] != `"a"` {
		t.Errorf("expected literal a to be expected, have %v", f.Expected)
	}
	t.Logf("failure: %v", f)
}

func TestFailureLocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	a := makeArith(t)
	result := parse(a, "b+b+c")
	if result.OK() {
		t.Fatalf("expected input not to be accepted")
	}
	f := result.Failure()
	if f.Offset != 4 || f.Line != 1 || f.Column != 5 {
		t.Errorf("expected failure at offset 4 (1:5), have %d (%d:%d)", f.Offset, f.Line, f.Column)
	}
	if len(f.Expected) != 1 || f.Expected[0] != `"b"` {
		t.Errorf("expected literal b to be expected, have %v", f.Expected)
	}
	if !strings.Contains(f.Error(), "line 1, column 5") {
		t.Errorf("unexpected error message %q", f.Error())
	}
}

func TestPatternsAndLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").EOF()
	b.LHS("A").P(`[a-z]`).End()
	b.LHS("A").P(`[a-z]+`).End()
	b.LHS("A").L("if").End()
	a := build(t, b)
	result := parse(a, "abc")
	if !result.OK() {
		t.Fatalf("expected longest pattern match to be taken for abc")
	}
	if rule := result.Value().Children[0].Rule; rule != 2 {
		t.Errorf("expected A to be reduced by rule 2, is %d", rule)
	}
	result = parse(a, "if")
	if !result.OK() {
		t.Fatalf("expected if to be accepted")
	}
	if rule := result.Value().Children[0].Rule; rule != 3 {
		t.Errorf("expected literal to override pattern, A reduced by rule %d", rule)
	}
	if parse(a, "iffy").OK() {
		t.Errorf("expected literal 'if' to override the longer pattern match for 'iffy'")
	}
}

func TestEmptyMatchesAndEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").N("B").EOF()
	b.LHS("A").Epsilon()
	b.LHS("B").L("x").End()
	b.LHS("B").P(`y*`).End()
	b.LHS("B").Epsilon()
	a := build(t, b)
	for _, input := range []string{"", "x", "yyy"} {
		if !parse(a, input).OK() {
			t.Errorf("expected %q to be accepted", input)
		}
	}
	result := parse(a, "")
	if v := result.Value(); v.String() != `S(A() B() "")` {
		t.Errorf("expected empty pattern match not to be taken, value is %v", v)
	}
	if parse(a, "z").OK() {
		t.Errorf("expected z not to be accepted")
	}
}

func TestCyclicGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").EOF()
	b.LHS("A").N("A").End()
	b.LHS("A").L("x").End()
	a := build(t, b)
	result := parse(a, "x")
	if !result.OK() {
		t.Fatalf("expected x to be accepted")
	}
	if len(result.Values()) != 1 {
		t.Errorf("expected cyclic derivations to be cut, have %d values", len(result.Values()))
	}
	if result.Forest.Rejected() == 0 {
		t.Errorf("expected cyclic derivations to be rejected")
	}
}

func TestLongInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("E").EOF()
	b.LHS("E").N("E").L("+").L("b").End()
	b.LHS("E").L("b").End()
	a := build(t, b)
	input := "b" + strings.Repeat("+b", 2000)
	result := Run(a, lr.NewTextInput("long", input))
	if !result.OK() || len(result.Values()) != 1 {
		t.Fatalf("expected long input to be accepted unambiguously")
	}
	if result.Value().Span.Len() != uint64(len(input)) {
		t.Errorf("expected value to span the whole input")
	}
}

type lexeme string

func (t lexeme) TokType() parsejoy.TokType { return 0 }
func (t lexeme) Lexeme() string            { return string(t) }
func (t lexeme) Value() interface{}        { return nil }
func (t lexeme) Span() parsejoy.Span       { return parsejoy.Span{} }

func TestTokenInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("E").EOF()
	b.LHS("E").N("E").L("+").N("E").End()
	b.LHS("E").P(`[0-9]+`).End()
	a := build(t, b)
	tokens := []parsejoy.Token{lexeme("12"), lexeme("+"), lexeme("3")}
	result := Run(a, lr.NewTokenInput(tokens))
	if !result.OK() {
		t.Fatalf("expected token sequence to be accepted")
	}
	if result.Value().Text() != "12+3" {
		t.Errorf("expected value to cover 12+3, covers %q", result.Value().Text())
	}
	tokens = append(tokens, lexeme("+"))
	if Run(a, lr.NewTokenInput(tokens)).OK() {
		t.Errorf("expected incomplete token sequence to be rejected")
	}
}

func TestConcurrentRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	a := makeArith(t)
	inputs := []string{"b", "b+b", "b+b+b", "b+b+b+b"}
	counts := make([]int, len(inputs))
	var wg sync.WaitGroup
	for k, input := range inputs {
		wg.Add(1)
		go func(k int, input string) {
			defer wg.Done()
			counts[k] = len(Run(a, lr.NewTextInput("test", input)).Values())
		}(k, input)
	}
	wg.Wait()
	// number of binary bracketings: Catalan numbers
	for k, expected := range []int{1, 1, 2, 5} {
		if counts[k] != expected {
			t.Errorf("expected %d interpretations of %q, have %d", expected, inputs[k], counts[k])
		}
	}
}
