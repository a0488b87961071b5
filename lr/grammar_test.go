package lr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").L("a").EOF()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").P(`[0-9]+`).End()
	b.LHS("B").Epsilon()
	b.LHS("D").L("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	var rules []string
	for _, r := range g.Rules() {
		rules = append(rules, r.String())
	}
	expected := []string{
		`[S] ::= [A "a" #eof]`,
		`[A] ::= [B D]`,
		`[B] ::= [re:[0-9]+]`,
		`[B] ::= []`,
		`[D] ::= ["a"]`,
	}
	if diff := cmp.Diff(expected, rules); diff != "" {
		t.Errorf("rules differ (-want +got):\n%s", diff)
	}
	if g.StartSymbol().Name != "S" {
		t.Errorf("expected start symbol to be S, is %v", g.StartSymbol())
	}
	if g.Rule(0).RHS[1] != g.Rule(4).RHS[0] {
		t.Errorf("expected literal symbols to be unique within grammar")
	}
	if len(g.RulesFor(g.NonTerminal("B"))) != 2 {
		t.Errorf("expected 2 rules for B")
	}
	if !g.Rule(3).IsEpsilon() {
		t.Errorf("expected rule 3 to be an epsilon rule")
	}
}

func TestGrammarBuilderBadPattern(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").P(`(unclosed`).EOF()
	_, err := b.Grammar()
	var gerr *GrammarError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a grammar error for a bad pattern, got %v", err)
	}
	t.Logf("error = %v", err)
}

func TestGrammarBuilderEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	if _, err := NewGrammarBuilder("G").Grammar(); err == nil {
		t.Errorf("expected empty grammar to be rejected")
	}
}

func TestSymbolMatchText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").L("ab").P(`[0-9]*`).P(`x.y`).EOF()
	g, _ := b.Grammar()
	lit, digits, dotall := g.Rule(0).RHS[0], g.Rule(0).RHS[1], g.Rule(0).RHS[2]
	eof := g.Rule(0).RHS[3]
	if n, ok := lit.MatchText("xxabc", 2); !ok || n != 2 {
		t.Errorf("expected literal to match 2 bytes at offset 2, have %d/%v", n, ok)
	}
	if _, ok := lit.MatchText("xxabc", 1); ok {
		t.Errorf("expected literal not to match at offset 1")
	}
	if n, ok := digits.MatchText("a123b", 1); !ok || n != 3 {
		t.Errorf("expected pattern to match 3 bytes, have %d/%v", n, ok)
	}
	if _, ok := digits.MatchText("abc", 0); ok {
		t.Errorf("expected empty pattern match to be no match")
	}
	if _, ok := digits.MatchText("a12", 0); ok {
		t.Errorf("expected pattern to be anchored at the offset")
	}
	if n, ok := dotall.MatchText("x\ny", 0); !ok || n != 3 {
		t.Errorf("expected '.' to match a newline, have %d/%v", n, ok)
	}
	if n, ok := eof.MatchText("abc", 3); !ok || n != 0 {
		t.Errorf("expected end marker to match at end of input")
	}
	if _, ok := eof.MatchText("abc", 2); ok {
		t.Errorf("expected end marker not to match before end of input")
	}
	b = NewGrammarBuilder("H")
	b.LHS("S").P(`^x`).P(`\bx`).EOF()
	h, _ := b.Grammar()
	for _, A := range h.Rule(0).RHS[:2] {
		if n, ok := A.MatchText("ax", 1); !ok || n != 1 {
			t.Errorf("expected %v to see offset 1 as start of text, have %d/%v", A, n, ok)
		}
	}
	if !digits.MatchLexeme("42") || digits.MatchLexeme("42a") {
		t.Errorf("expected pattern to match complete lexemes only")
	}
}
