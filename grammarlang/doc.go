/*
Package grammarlang reads grammars written in a small grammar language.

Grammar source is a sequence of rules:

    # arithmetic
    S    -> E, $ ;
    E    -> E, "+", E
          | E, "*", E
          | num ;
    num  -> re:[0-9]+
          ;

A rule has a name, optional arguments in parentheses, an arrow and one or more
alternatives separated by '|', terminated by ';'. Alternatives are lists of
patterns separated by ',':

■ a name refers to a non-terminal

■ "text" is a literal, with Go-style escape sequences. It may carry a
suffix _foo, which is accepted and ignored.

■ re:expr is a regular expression. The expression extends up to the next
',' or ';' or newline, with trailing white space removed.

■ $ matches the end of input.

■ (a | b | c) is an alternation group of names. A rule containing a group is
expanded into one rule per option.

■ \N refers back to the option chosen for the N-th group of the rule. Groups
are numbered across all alternatives of a rule, but a back-reference has to
refer to a group of its own alternative.

White space and comments (from '#' to the end of the line) may appear between
the elements of a rule. The first rule defines the start symbol. Parsing starts
with rule 0 only: if the first rule contains a group, the additional rules it
expands to are not reachable. Start with a plain rule like 'Z -> S, $ ;'.

Grammar source is parsed by the GLR runtime itself, driven by a fixed
meta-grammar. The resulting semantic value is canonicalized into a tree of maps
and lists, following a naming convention for the meta-grammar's non-terminals,
and compiled into an lr.Grammar:

    a, err := grammarlang.Bootstrap(source)
    result := glr.Run(a, lr.NewTextInput("input", text))

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammarlang

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsejoy.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("parsejoy.grammar")
}
