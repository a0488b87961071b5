/*
Package parsejoy is a table-driven GLR parsing toolbox with a self-hosting grammar
language.

Parsejoy builds LR(0) automata for context-free grammars whose terminals may be
literal strings or regular expressions, and runs them with a generalized LR runtime
which keeps every interpretation of an ambiguous input. Grammars may be written by
hand with a builder or in a small grammar language, which is itself parsed by the
engine. Package structure is as follows:

■ lr: Package lr implements grammars, the LR(0) automaton builder and input
abstractions. Sub-packages contain the GLR runtime, a shared packed forest for
semantic values, sparse tables and scanners for token-level input.

■ grammarlang: Package grammarlang implements the grammar language: a meta-grammar,
an AST canonicalizer and a compiler from ASTs to grammars.

■ cmd/joy: A driver to compile grammars and parse files or interactive input.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parsejoy
