package grammarlang

import (
	"fmt"

	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/parsejoy/lr/glr"
)

// ParseAST parses grammar source and returns its canonicalized tree.
// If the source is not valid, a *glr.ParseFailure is returned.
func ParseAST(source string) (map[string]interface{}, error) {
	a, err := MetaAutomaton()
	if err != nil {
		return nil, err
	}
	in := lr.NewTextInput("grammar source", source)
	result := glr.NewParser(a).Parse(in)
	if !result.OK() {
		return nil, result.Failure()
	}
	if values := result.Values(); len(values) > 1 {
		tracer().Infof("grammar source is ambiguous, %d interpretations", len(values))
	}
	l, _ := Canonicalize(result.Value()).([]interface{})
	if len(l) == 0 {
		return nil, fmt.Errorf("grammar source yields an empty tree")
	}
	ast, ok := l[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("grammar source yields a malformed tree")
	}
	return ast, nil
}

// ParseGrammar parses grammar source and compiles it.
func ParseGrammar(source string, opts ...Option) (*lr.Grammar, error) {
	ast, err := ParseAST(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read grammar: %w", err)
	}
	return Compile(ast, opts...)
}

// Bootstrap parses grammar source, compiles it and creates an LR(0) automaton
// for it, ready to be used by a GLR parser.
func Bootstrap(source string, opts ...Option) (*lr.Automaton, error) {
	g, err := ParseGrammar(source, opts...)
	if err != nil {
		return nil, err
	}
	return lr.Build(g)
}
