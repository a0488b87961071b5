package main

import (
	"errors"
	"os"
	"testing"

	"github.com/npillmayer/parsejoy/grammarlang"
	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/parsejoy/lr/glr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func load(t *testing.T) *Joy {
	source, err := os.ReadFile("testdata/arith.joy")
	if err != nil {
		t.Fatal(err)
	}
	a, err := grammarlang.Bootstrap(string(source))
	if err != nil {
		t.Fatal(err)
	}
	return &Joy{parser: glr.NewParser(a), a: a, repeat: 3}
}

func TestGrammarFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.grammar")
	defer teardown()
	//
	joy := load(t)
	// the alternation group of E expands to 2 rules
	if joy.a.Grammar().Size() != 9 {
		t.Errorf("expected 9 rules, have\n%s", joy.a.Grammar())
	}
	if err := joy.Parse("test", "1 + 2*3"); err != nil {
		t.Errorf("expected input to be accepted, is %v", err)
	}
	err := joy.Parse("test", "1 + +")
	var failure *glr.ParseFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected parse failure, have %v", err)
	}
	if failure.Offset != 4 {
		t.Errorf("expected failure at offset 4, is %d", failure.Offset)
	}
	if joy.Execute("rules") || !joy.Execute("quit") {
		t.Errorf("expected only :quit to quit")
	}
}

func TestLeveledValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsejoy.grammar")
	defer teardown()
	//
	joy := load(t)
	result := glr.Run(joy.a, lr.NewTextInput("test", "12"))
	if !result.OK() {
		t.Fatalf("expected 12 to be accepted")
	}
	ll := leveledValue(result.Value())
	// S, E, num, "12", #eof
	if len(ll) != 5 {
		t.Fatalf("expected 5 tree nodes, have %d: %v", len(ll), ll)
	}
	levels := []int{0, 1, 2, 3, 1}
	for i, item := range ll {
		if item.Level != levels[i] {
			t.Errorf("expected node %d (%s) at level %d, is at %d", i, item.Text, levels[i], item.Level)
		}
	}
	if ll[3].Text != `"12"` {
		t.Errorf("expected terminal \"12\", have %s", ll[3].Text)
	}
}
