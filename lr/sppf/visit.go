package sppf

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/

import (
	"github.com/npillmayer/parsejoy"
)

/*
Semantic values of a parse run form a DAG: ambiguous parses share common
sub-values. Clients usually pick one of the accepted values and transform it
into something more convenient, e.g. an AST. Walk supports this by evaluating a
value bottom-up: every node is handed to a Listener, together with the results
of the node's children, and the result of the root is returned.

Shared nodes are evaluated only once and their result is re-used for every
parent. Listeners therefore must not modify the results of children in place.
*/

// --- Listener --------------------------------------------------------------

// Listener is a type for walking semantic values bottom-up.
//
// Terminal is called for every terminal value, ExitRule for every reduced rule,
// with the results of its children in derivation order. Both may return
// user-defined values to be propagated upwards of the tree.
type Listener interface {
	Terminal(*Value, RuleCtxt) interface{}
	ExitRule(*Value, []interface{}, RuleCtxt) interface{}
}

// RuleCtxt is a context structure for Listeners.
type RuleCtxt struct {
	Span      parsejoy.Span // span of input covered by this node
	RuleIndex int           // -1 for terminals
}

func makeCtxt(v *Value) RuleCtxt {
	return RuleCtxt{
		Span:      v.Span,
		RuleIndex: v.Rule,
	}
}

// Walk evaluates a value bottom-up, calling listener for every node,
// and returns the result for the root. It uses an explicit stack, so deeply
// nested values (e.g. long left-recursive lists) do not exhaust the call stack.
func Walk(root *Value, listener Listener) interface{} {
	if root == nil {
		return nil
	}
	type frame struct {
		v    *Value
		next int // index of next child to evaluate
	}
	results := make(map[*Value]interface{})
	stack := []frame{{v: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		v := top.v
		if _, done := results[v]; done {
			stack = stack[:len(stack)-1]
			continue
		}
		if v.IsTerminal() {
			results[v] = listener.Terminal(v, makeCtxt(v))
			stack = stack[:len(stack)-1]
			continue
		}
		for top.next < len(v.Children) {
			if _, done := results[v.Children[top.next]]; !done {
				break
			}
			top.next++
		}
		if top.next < len(v.Children) {
			stack = append(stack, frame{v: v.Children[top.next]})
			continue
		}
		children := make([]interface{}, len(v.Children))
		for k, c := range v.Children {
			children[k] = results[c]
		}
		results[v] = listener.ExitRule(v, children, makeCtxt(v))
		stack = stack[:len(stack)-1]
	}
	return results[root]
}
