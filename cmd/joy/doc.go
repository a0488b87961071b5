/*
Command joy reads a grammar in the grammar language of package grammarlang
and parses input with it, using the GLR runtime. It reports whether the input
has been accepted, prints the resulting parse tree and measures throughput
over repeated parse runs. joy serves as a sandbox for grammar development:
with flag -i it reads input lines interactively.

Usage:

    joy -grammar arith.joy [-code input.txt | text ...] [flags]

    -grammar   file containing the grammar (required)
    -code      file containing the input to parse
    -repeat    number of parse runs for throughput measurement
    -ast       print the grammar's syntax tree as YAML
    -dot       write the LR(0) automaton as a GraphViz file
    -html      write the automaton's tables as an HTML file
    -debug     trace every input offset of a parse run
    -trace     trace level [Debug|Info|Error]
    -i         interactive mode

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsejoy.grammar'
func tracer() tracing.Trace {
	return tracing.Select("parsejoy.grammar")
}
