/*
Package sppf implements a "Shared Packed Parse Forest" for semantic values.

A GLR parse run produces semantic values for every terminal it shifts and every
rule it reduces. Ambiguous grammars may result in parse runs where more than one
parse tree is created. To save space these parse trees share common nodes:
values are hash-consed within a forest, i.e. a terminal over a span, or a rule
reduced over the same children, is represented by a single Value.

Values are immutable once created and may be shared freely between parse trees.
A bottom-up walk over a value (Walk) calls a Listener for every node, visiting
shared nodes only once.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sppf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsejoy.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsejoy.lr")
}
