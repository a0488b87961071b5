package grammarlang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/parsejoy/lr"
)

// Option configures the grammar compiler.
type Option func(c *compiler)

// Name sets the name of the grammar to compile. The default is "G".
func Name(name string) Option {
	return func(c *compiler) {
		c.name = name
	}
}

type compiler struct {
	name  string
	b     *lr.GrammarBuilder
	count int // number of rules emitted
}

// symspec is a grammar symbol to be created by the grammar builder.
type symspec struct {
	kind lr.SymbolKind
	text string
}

// element is an element of an alternative: either a symbol, an alternation group
// or a back-reference to an alternation group.
type element struct {
	sym     symspec
	group   int       // number of an alternation group, or 0
	options []symspec // options of an alternation group
	ref     int       // number of a referenced alternation group, or 0
}

// Compile creates a grammar from a canonicalized grammar source tree (see
// Canonicalize). Every alternative of a rule becomes a grammar rule, in order of
// appearance. Alternatives with alternation groups are expanded into one rule
// per combination of options: the options of the leftmost group vary slowest.
func Compile(ast interface{}, opts ...Option) (*lr.Grammar, error) {
	c := &compiler{name: "G"}
	for _, opt := range opts {
		opt(c)
	}
	c.b = lr.NewGrammarBuilder(c.name)
	root, ok := ast.(map[string]interface{})
	if !ok {
		return nil, c.error(-1, "", "grammar source tree is not a map of rules")
	}
	rules, _ := root["rules"].([]interface{})
	for i, r := range rules {
		rule, ok := r.(map[string]interface{})
		if !ok {
			return nil, c.error(-1, "", "rule #%d is malformed", i+1)
		}
		if err := c.compileRule(rule); err != nil {
			return nil, err
		}
	}
	g, err := c.b.Grammar()
	if err != nil {
		return nil, err
	}
	if n := len(g.RulesFor(g.StartSymbol())); n > 1 {
		tracer().Infof("grammar %s has %d rules for start symbol %s, only rule 0 is reachable",
			c.name, n, g.StartSymbol().Name)
	}
	tracer().Infof("compiled grammar %s with %d rules", c.name, g.Size())
	return g, nil
}

func (c *compiler) compileRule(rule map[string]interface{}) error {
	name, _ := rule["name"].(string)
	if name == "" {
		return c.error(c.count, "", "rule without a name")
	}
	var args []string
	if l, ok := rule["args"].([]interface{}); ok {
		for _, a := range l {
			if s, ok := a.(string); ok {
				args = append(args, s)
			}
		}
	}
	var alternatives []interface{}
	if pl, ok := rule["patternlist"]; ok {
		alternatives = []interface{}{map[string]interface{}{"patternlist": pl}}
	} else if al, ok := rule["alternativelist"].([]interface{}); ok {
		alternatives = al
	}
	group := 1
	for _, alt := range alternatives {
		m, _ := alt.(map[string]interface{})
		patterns, _ := m["patternlist"].([]interface{})
		elems, err := c.elements(name, patterns, &group)
		if err != nil {
			return err
		}
		rhss, err := expand(elems, make(map[int]symspec))
		if err != nil {
			return c.error(c.count, name, "%v", err)
		}
		for _, rhs := range rhss {
			c.emit(name, args, rhs)
		}
	}
	return nil
}

// elements converts the patterns of an alternative. Alternation groups are
// numbered from left to right, continuing the numbering of the preceding
// alternatives of the rule. Back-references resolve within the alternative.
func (c *compiler) elements(lhs string, patterns []interface{}, group *int) ([]element, error) {
	elems := make([]element, 0, len(patterns))
	for _, p := range patterns {
		pattern, ok := p.(map[string]interface{})
		if !ok {
			return nil, c.error(c.count, lhs, "malformed pattern %v", p)
		}
		if lit, ok := pattern["literal"].(map[string]interface{}); ok {
			text, _ := lit["literal-value"].(string)
			elems = append(elems, element{sym: symspec{lr.LiteralKind, decodeEscapes(text)}})
		} else if name, ok := pattern["name"].(string); ok {
			elems = append(elems, element{sym: symspec{lr.NonTerminalKind, name}})
		} else if re, ok := pattern["regex"].(string); ok {
			re = strings.TrimRight(re, " \t\r")
			elems = append(elems, element{sym: symspec{lr.PatternKind, re}})
		} else if _, ok := pattern["end"]; ok {
			elems = append(elems, element{sym: symspec{lr.EndMarkerKind, lr.EndMarkerName}})
		} else if alts, ok := pattern["expr-alternatives"].([]interface{}); ok {
			e := element{group: *group}
			for _, a := range alts {
				m, _ := a.(map[string]interface{})
				opt, _ := m["name"].(string)
				e.options = append(e.options, symspec{lr.NonTerminalKind, opt})
			}
			elems = append(elems, e)
			*group++
		} else if ref, ok := pattern["reference"].(map[string]interface{}); ok {
			s, _ := ref["reference-value"].(string)
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return nil, c.error(c.count, lhs, "invalid back-reference \\%s", s)
			}
			elems = append(elems, element{ref: n})
		} else {
			return nil, c.error(c.count, lhs, "unknown pattern %v", pattern)
		}
	}
	return elems, nil
}

// expand resolves alternation groups and back-references. For a group at
// position i, one right hand side is created for each option, followed by the
// expansions of the remainder, with later back-references bound to the option.
func expand(elems []element, refs map[int]symspec) ([][]symspec, error) {
	prefix := make([]symspec, 0, len(elems))
	for i, e := range elems {
		switch {
		case e.group > 0:
			var rhss [][]symspec
			for _, opt := range e.options {
				refs[e.group] = opt
				tails, err := expand(elems[i+1:], refs)
				if err != nil {
					return nil, err
				}
				for _, tail := range tails {
					rhs := make([]symspec, 0, len(prefix)+1+len(tail))
					rhs = append(rhs, prefix...)
					rhs = append(rhs, opt)
					rhs = append(rhs, tail...)
					rhss = append(rhss, rhs)
				}
			}
			return rhss, nil
		case e.ref > 0:
			opt, ok := refs[e.ref]
			if !ok {
				return nil, fmt.Errorf("back-reference \\%d to an undefined group", e.ref)
			}
			prefix = append(prefix, opt)
		default:
			prefix = append(prefix, e.sym)
		}
	}
	return [][]symspec{prefix}, nil
}

func (c *compiler) emit(lhs string, args []string, rhs []symspec) {
	rb := c.b.LHS(lhs)
	if len(args) > 0 {
		rb.Args(args...)
	}
	for _, s := range rhs {
		switch s.kind {
		case lr.NonTerminalKind:
			rb.N(s.text)
		case lr.LiteralKind:
			rb.L(s.text)
		case lr.PatternKind:
			rb.P(s.text)
		case lr.EndMarkerKind:
			rb.EndMarker()
		}
	}
	r := rb.End()
	tracer().Debugf("%3d: %v", r.Serial, r)
	c.count++
}

func (c *compiler) error(rule int, sym string, format string, args ...interface{}) *lr.GrammarError {
	return &lr.GrammarError{
		Grammar: c.name,
		Rule:    rule,
		Symbol:  sym,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// decodeEscapes replaces escape sequences of a literal by the characters they
// denote, following Go conventions (\n, \t, \x41, \u00e9, \101, ...). Both
// \" and \' denote quotes. Invalid escape sequences are kept as they are.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for len(s) > 0 {
		if s[0] != '\\' {
			i := strings.IndexByte(s, '\\')
			if i < 0 {
				i = len(s)
			}
			b.WriteString(s[:i])
			s = s[i:]
			continue
		}
		if len(s) > 1 && (s[1] == '"' || s[1] == '\'') {
			b.WriteByte(s[1])
			s = s[2:]
			continue
		}
		r, _, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			b.WriteByte('\\')
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String()
}
