/*
Package glr implements a generalized LR parser runtime.

The runtime drives an LR(0) automaton (see package lr) over an input,
keeping every viable interpretation alive. Instead of a single stack, it
maintains a graph of stack heads: a head is a pair (state, input offset) together
with its ancestors, i.e. links to preceding heads labeled with a semantic value.
Heads with identical state and offset are merged, so the graph stays polynomial
in the size of the input for most grammars.

Parsing proceeds offset by offset. At each offset, all heads are reduced until
no more reductions apply, then each head shifts at most one terminal:

■ Pattern transitions are tried first; the longest match wins.

■ Literal transitions are tried next; a matching literal overrides a pattern match.

■ The end marker is shifted (without consuming input) at the end of input only.

Reducing the start symbol leads to the accept pseudo-state. A parse run succeeds if
an accepting head is reached at the end of input. Failing runs are not errors:
the result reports the heads which got furthest into the input, for diagnostics.

    a, _ := lr.Build(g)
    result := glr.Run(a, lr.NewTextInput("example", "b+b+b"))
    if result.OK() {
        for _, v := range result.Values() {  // one value per interpretation
            fmt.Println(v)
        }
    }

Ambiguity is preserved, not resolved: if two different semantic values are
produced for the same transition, both are kept and an Ambiguity is recorded.
Clients decide which interpretation to use.

A parse run is single-threaded and owns all of its data. Automata are never
modified by the runtime and may be shared between concurrent runs.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsejoy.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsejoy.lr")
}
