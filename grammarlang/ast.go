package grammarlang

import (
	"io"
	"strings"

	"github.com/npillmayer/parsejoy/lr/sppf"
	"gopkg.in/yaml.v3"
)

// Canonicalize transforms a semantic value into a tree of maps
// (map[string]interface{}), lists ([]interface{}) and strings. The transformation
// does not depend on a specific grammar, but on prefixes of non-terminal names:
//
// ■ []x: the values of the children are concatenated to a list, which is
// returned as field x of a map. Child lists are spliced in, and so are children
// consisting of just a field x (i.e., nested lists of the same name).
//
// ■ {}x: children which are maps are merged into one map, as are maps contained
// in child lists. Later fields overwrite earlier ones.
//
// ■ .x: a map with a single field x, holding the child's value. Maps from
// more than one child are merged.
//
// ■ :x: a map with a single field x, holding the text of the first child.
//
// ■ |x: the text of the first child.
//
// Values of non-terminals without a prefix are lists of the children's values,
// with child lists spliced in. Terminals, empty lists and empty maps vanish.
func Canonicalize(v *sppf.Value) interface{} {
	return sppf.Walk(v, canonicalizer{})
}

type canonicalizer struct{}

var _ sppf.Listener = canonicalizer{}

func (c canonicalizer) Terminal(v *sppf.Value, ctxt sppf.RuleCtxt) interface{} {
	return nil
}

func (c canonicalizer) ExitRule(v *sppf.Value, children []interface{}, ctxt sppf.RuleCtxt) interface{} {
	name := v.Symbol.Name
	switch {
	case strings.HasPrefix(name, "[]"):
		return listNode(name[2:], children)
	case strings.HasPrefix(name, "{}"):
		return mapNode(children)
	case strings.HasPrefix(name, "."):
		return fieldNode(name[1:], children)
	case strings.HasPrefix(name, ":"):
		if len(v.Children) == 0 {
			return nil
		}
		return map[string]interface{}{name[1:]: v.Children[0].Text()}
	case strings.HasPrefix(name, "|"):
		if len(v.Children) == 0 {
			return nil
		}
		return v.Children[0].Text()
	}
	var l []interface{}
	for _, child := range children {
		if cl, ok := child.([]interface{}); ok {
			l = append(l, cl...)
		} else if truthy(child) {
			l = append(l, child)
		}
	}
	return l
}

func listNode(key string, children []interface{}) map[string]interface{} {
	l := []interface{}{}
	for _, child := range children {
		switch c := child.(type) {
		case []interface{}:
			l = append(l, c...)
		case map[string]interface{}:
			if inner, ok := c[key]; ok && len(c) == 1 {
				if il, ok := inner.([]interface{}); ok {
					l = append(l, il...)
				} else if truthy(inner) {
					l = append(l, inner)
				}
			} else if len(c) > 0 {
				l = append(l, c)
			}
		default:
			if truthy(c) {
				l = append(l, c)
			}
		}
	}
	return map[string]interface{}{key: l}
}

func mapNode(children []interface{}) map[string]interface{} {
	d := make(map[string]interface{})
	for _, child := range children {
		switch c := child.(type) {
		case map[string]interface{}:
			merge(d, c)
		case []interface{}:
			for _, e := range c {
				if m, ok := e.(map[string]interface{}); ok {
					merge(d, m)
				}
			}
		}
	}
	return d
}

func fieldNode(key string, children []interface{}) map[string]interface{} {
	d := make(map[string]interface{})
	for _, child := range children {
		if m, ok := child.(map[string]interface{}); ok {
			inner, ok := d[key].(map[string]interface{})
			if !ok {
				inner = make(map[string]interface{})
				d[key] = inner
			}
			merge(inner, m)
		} else if truthy(child) {
			d[key] = child
		}
	}
	return d
}

// merge copies the fields of src into dst. Values are shared, not copied, and
// have to be treated as immutable.
func merge(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}

// truthy is false for nil, empty strings, empty lists and empty maps.
func truthy(x interface{}) bool {
	switch v := x.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	}
	return true
}

// DumpAST writes a canonicalized tree in YAML format.
func DumpAST(w io.Writer, ast interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ast); err != nil {
		return err
	}
	return enc.Close()
}
