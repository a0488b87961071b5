package grammarlang

import (
	"sync"

	"github.com/npillmayer/parsejoy/lr"
)

// --- Meta-grammar ----------------------------------------------------------

// Names of non-terminals carry a prefix telling the canonicalizer how to
// transform their semantic values:
//
//    []x   a list named x
//    {}x   a map, merged from its children
//    .x    a single field x
//    :x    the first child's text as field x
//    |x    the first child's text
//
// Rules are written such that the meta-grammar is unambiguous, apart from
// alternatives dying after a few characters of lookahead (e.g. white space
// at the end of a rule list, which might start another rule).
//
//    S                   ::=  []rules ows #eof
//    []rules             ::=  []rules {}rule | ε
//    {}rule              ::=  ows .name []args ows "->" patterns ";"
//    []args              ::=  "(" ows arglist ")" | "(" ows ")" | ε
//    arglist             ::=  arglist "," ows |arg ows | |arg ows
//    |arg                ::=  re:[a-z]+
//    patterns            ::=  []alternativelist
//    []alternativelist   ::=  []alternativelist "|" []patternlist | []patternlist
//    []patternlist       ::=  []patternlist "," {}pattern | {}pattern | ows
//    {}pattern           ::=  ows pattern-type ows
//    pattern-type        ::=  .name | expression | .reference | .literal | .regex | :end
//    expression          ::=  "(" ows expression-value ows ")"
//    expression-value    ::=  []expr-alternatives
//    []expr-alternatives ::=  []expr-alternatives ows "|" ows {}expr-alternative
//                          |  {}expr-alternative
//    {}expr-alternative  ::=  .name
//    .reference          ::=  "\" :reference-value
//    :reference-value    ::=  re:[0-9]+
//    :end                ::=  "$"
//    .name               ::=  |name-value
//    |name-value         ::=  re:…
//    .literal            ::=  "\"" :literal-value "\"" :literal-suffix
//    :literal-value      ::=  re:(\\.|[^"])+
//    :literal-suffix     ::=  "_foo" | ε
//    .regex              ::=  "re:" |regex-value
//    |regex-value        ::=  re:(\\.|[^;,\n])+
//    ows                 ::=  ws | ε
//    ws                  ::=  ws wsc | wsc
//    wsc                 ::=  " " | "\t" | "\r" | "\n" | comment
//    comment             ::=  "#" anything newline-or-end | "#" newline-or-end
//    anything            ::=  re:[^\n]+
//    newline-or-end      ::=  "\n" | #eof
//
func makeMetaGrammar() (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder("grammar language")
	b.LHS("S").N("[]rules").N("ows").EOF()
	b.LHS("[]rules").N("[]rules").N("{}rule").End()
	b.LHS("[]rules").Epsilon()
	b.LHS("{}rule").N("ows").N(".name").N("[]args").N("ows").L("->").N("patterns").L(";").End()
	b.LHS("[]args").L("(").N("ows").N("arglist").L(")").End()
	b.LHS("[]args").L("(").N("ows").L(")").End()
	b.LHS("[]args").Epsilon()
	b.LHS("arglist").N("arglist").L(",").N("ows").N("|arg").N("ows").End()
	b.LHS("arglist").N("|arg").N("ows").End()
	b.LHS("|arg").P(`[a-z]+`).End()
	b.LHS("patterns").N("[]alternativelist").End()
	b.LHS("[]alternativelist").N("[]alternativelist").L("|").N("[]patternlist").End()
	b.LHS("[]alternativelist").N("[]patternlist").End()
	b.LHS("[]patternlist").N("[]patternlist").L(",").N("{}pattern").End()
	b.LHS("[]patternlist").N("{}pattern").End()
	b.LHS("[]patternlist").N("ows").End()
	b.LHS("{}pattern").N("ows").N("pattern-type").N("ows").End()
	b.LHS("pattern-type").N(".name").End()
	b.LHS("pattern-type").N("expression").End()
	b.LHS("pattern-type").N(".reference").End()
	b.LHS("pattern-type").N(".literal").End()
	b.LHS("pattern-type").N(".regex").End()
	b.LHS("pattern-type").N(":end").End()
	b.LHS("expression").L("(").N("ows").N("expression-value").N("ows").L(")").End()
	b.LHS("expression-value").N("[]expr-alternatives").End()
	b.LHS("[]expr-alternatives").N("[]expr-alternatives").N("ows").L("|").N("ows").
		N("{}expr-alternative").End()
	b.LHS("[]expr-alternatives").N("{}expr-alternative").End()
	b.LHS("{}expr-alternative").N(".name").End()
	b.LHS(".reference").L(`\`).N(":reference-value").End()
	b.LHS(":reference-value").P(`[0-9]+`).End()
	b.LHS(":end").L("$").End()
	b.LHS(".name").N("|name-value").End()
	b.LHS("|name-value").P(`(:|\[\]|\{\}|\.|\|)?[^#\s|\[\].:;,"'()\\]+`).End()
	b.LHS(".literal").L(`"`).N(":literal-value").L(`"`).N(":literal-suffix").End()
	b.LHS(":literal-value").P(`(\\.|[^"])+`).End()
	b.LHS(":literal-suffix").L("_foo").End()
	b.LHS(":literal-suffix").Epsilon()
	b.LHS(".regex").L("re:").N("|regex-value").End()
	b.LHS("|regex-value").P(`(\\.|[^;,\n])+`).End()
	b.LHS("ows").N("ws").End()
	b.LHS("ows").Epsilon()
	b.LHS("ws").N("ws").N("wsc").End()
	b.LHS("ws").N("wsc").End()
	b.LHS("wsc").L(" ").End()
	b.LHS("wsc").L("\t").End()
	b.LHS("wsc").L("\r").End()
	b.LHS("wsc").L("\n").End()
	b.LHS("wsc").N("comment").End()
	b.LHS("comment").L("#").N("anything").N("newline-or-end").End()
	b.LHS("comment").L("#").N("newline-or-end").End()
	b.LHS("anything").P(`[^\n]+`).End()
	b.LHS("newline-or-end").L("\n").End()
	b.LHS("newline-or-end").EOF()
	return b.Grammar()
}

var metaAutomaton *lr.Automaton
var metaErr error

var metaOnce sync.Once // monitors one-time creation of the meta-grammar's automaton

// MetaAutomaton returns the LR(0) automaton for the grammar language. It is
// created once and shared by all callers.
func MetaAutomaton() (*lr.Automaton, error) {
	metaOnce.Do(func() {
		tracer().Infof("Creating meta-grammar")
		var g *lr.Grammar
		if g, metaErr = makeMetaGrammar(); metaErr != nil {
			return
		}
		metaAutomaton, metaErr = lr.Build(g)
		if metaErr == nil {
			tracer().Infof("meta-grammar automaton has %d states", metaAutomaton.StateCount())
		}
	})
	return metaAutomaton, metaErr
}
