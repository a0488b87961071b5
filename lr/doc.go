/*
Package lr implements prerequisites for GLR parsing: grammars, LR(0) automata
and input abstractions.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals are either
literal strings, regular expressions (patterns) or the end marker, which matches
the end of input. Grammars may contain epsilon-productions.
The left hand side of rule 0 is the start symbol. Reducing it accepts.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("E").EOF()                 // S  ->  E #eof
    b.LHS("E").N("E").L("+").N("E").End()   // E  ->  E "+" E
    b.LHS("E").P(`[0-9]+`).End()            // E  ->  re:[0-9]+
    b.LHS("E").Epsilon()                    // E  ->
    g, err := b.Grammar()

This results in the following trivial grammar:

   g.Dump()

   0: [S] ::= [E #eof]
   1: [E] ::= [E "+" E]
   2: [E] ::= [re:[0-9]+]
   3: [E] ::= []

Patterns are compiled once, when the grammar is built. They are anchored at
the current input position and may not match the empty string.

Automaton Construction

From a grammar, an LR(0) automaton is built. States are sets of LR(0) items,
numbered in order of discovery, and the start state has number 0.
Every state has a GOTO entry for each symbol which may follow the dot in any of
its items, and a set of rules to reduce for items with the dot at the end.
The automaton is not restricted to deterministic grammars: conflicts are resolved
at parse time by the GLR runtime in package glr.

    a, err := lr.Build(g)
    a.ToGraphViz(w)      // export the CFSM in Graphviz Dot format

Input

Parsers run on an Input, which is either text (TextInput, with terminals matched
at byte offsets) or a sequence of tokens (TokenInput, with every terminal
consuming exactly one token).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsejoy.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsejoy.lr")
}
