package lr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// --- Symbols ---------------------------------------------------------------

// SymbolKind discriminates the variants of grammar symbols.
type SymbolKind int8

// Kinds of grammar symbols.
const (
	NonTerminalKind SymbolKind = iota // a named non-terminal
	LiteralKind                       // a fixed string to match
	PatternKind                       // a regular expression to match
	EndMarkerKind                     // matches only at the end of input
)

func (k SymbolKind) String() string {
	switch k {
	case NonTerminalKind:
		return "NonTerminal"
	case LiteralKind:
		return "Literal"
	case PatternKind:
		return "Pattern"
	case EndMarkerKind:
		return "EndMarker"
	}
	return "?"
}

// EndMarkerName is the name of the end marker symbol.
const EndMarkerName = "#eof"

// Symbol represents a grammar symbol. Symbols are unique within a grammar, i.e.
// two uses of the same literal string refer to the same symbol.
//
// Name is the non-terminal's name, the literal's text or the source of the
// regular expression, respectively. Value is a serial number, unique within the
// grammar.
type Symbol struct {
	Name  string
	Value int
	kind  SymbolKind
	re    *regexp.Regexp // compiled pattern, anchored at match position
}

// Kind returns the variant of a symbol.
func (A *Symbol) Kind() SymbolKind {
	return A.kind
}

// IsTerminal returns true for every symbol which is not a non-terminal.
func (A *Symbol) IsTerminal() bool {
	return A.kind != NonTerminalKind
}

// IsPattern is true for regular expression terminals.
func (A *Symbol) IsPattern() bool {
	return A.kind == PatternKind
}

// IsLiteral is true for literal string terminals.
func (A *Symbol) IsLiteral() bool {
	return A.kind == LiteralKind
}

// IsEndMarker is true for the end-of-input terminal.
func (A *Symbol) IsEndMarker() bool {
	return A.kind == EndMarkerKind
}

func (A *Symbol) String() string {
	switch A.kind {
	case LiteralKind:
		return strconv.Quote(A.Name)
	case PatternKind:
		return "re:" + A.Name
	}
	return A.Name
}

// MatchText matches a terminal at a byte offset of a text and returns the
// length of the match. Literals match by prefix, patterns by an anchored regular
// expression match. Empty pattern matches do not count as a match.
// The end marker matches with length 0 at the end of the text only.
//
// Patterns see the text from the offset onwards only. Assertions looking
// behind the match position therefore treat the offset as start of text:
// ^ and \A always hold there, and \b holds if the text continues with a
// word character, even in the middle of a word.
func (A *Symbol) MatchText(text string, offset int) (int, bool) {
	switch A.kind {
	case LiteralKind:
		if strings.HasPrefix(text[offset:], A.Name) {
			return len(A.Name), true
		}
	case PatternKind:
		loc := A.re.FindStringIndex(text[offset:])
		if loc != nil && loc[1] > 0 {
			return loc[1], true
		}
	case EndMarkerKind:
		return 0, offset == len(text)
	}
	return 0, false
}

// MatchLexeme checks if a terminal matches a complete lexeme. Literals match
// lexemes equal to their text, patterns have to match the lexeme as a whole.
func (A *Symbol) MatchLexeme(lexeme string) bool {
	switch A.kind {
	case LiteralKind:
		return lexeme == A.Name
	case PatternKind:
		loc := A.re.FindStringIndex(lexeme)
		return loc != nil && loc[1] == len(lexeme) && loc[1] > 0
	}
	return false
}

// --- Rules -----------------------------------------------------------------

// Rule is a grammar production LHS ➞ RHS.
// Args holds arguments given to a rule in the grammar language; they carry no
// semantics for parsing.
type Rule struct {
	Serial int
	LHS    *Symbol
	RHS    []*Symbol
	Args   []string
}

// Len returns the length of the right hand side.
func (r *Rule) Len() int {
	return len(r.RHS)
}

// IsEpsilon is true for rules with an empty right hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.RHS) == 0
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.LHS.Name)
	b.WriteString("] ::= [")
	for i, A := range r.RHS {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(A.String())
	}
	b.WriteString("]")
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is an ordered list of rules. The left hand side of rule 0 is the
// start symbol. Grammars are created with a GrammarBuilder and are immutable
// afterwards.
type Grammar struct {
	Name     string
	rules    []*Rule
	symbols  []*Symbol            // indexed by Symbol.Value
	nonterms map[string]*Symbol   // non-terminals by name
	terms    map[symbolKey]*Symbol // terminals by kind and name
	ruleset  map[*Symbol][]int    // rules for each non-terminal
}

type symbolKey struct {
	kind SymbolKind
	name string
}

func newGrammar(name string) *Grammar {
	return &Grammar{
		Name:     name,
		nonterms: make(map[string]*Symbol),
		terms:    make(map[symbolKey]*Symbol),
		ruleset:  make(map[*Symbol][]int),
	}
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns rule no. i.
func (g *Grammar) Rule(i int) *Rule {
	if i < 0 || i >= len(g.rules) {
		return nil
	}
	return g.rules[i]
}

// Rules returns all rules of g, in order.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// StartSymbol returns the left hand side of rule 0.
func (g *Grammar) StartSymbol() *Symbol {
	if len(g.rules) == 0 {
		return nil
	}
	return g.rules[0].LHS
}

// SymbolCount returns the number of distinct symbols of g.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// Symbol returns the symbol with serial number v.
func (g *Grammar) Symbol(v int) *Symbol {
	if v < 0 || v >= len(g.symbols) {
		return nil
	}
	return g.symbols[v]
}

// NonTerminal returns the non-terminal for a name, or nil.
func (g *Grammar) NonTerminal(name string) *Symbol {
	return g.nonterms[name]
}

// Terminal returns the terminal of a kind with a name (the literal's text or
// the pattern's source), or nil.
func (g *Grammar) Terminal(kind SymbolKind, name string) *Symbol {
	return g.terms[symbolKey{kind: kind, name: name}]
}

// RulesFor returns the serials of all rules with left hand side A, in grammar order.
func (g *Grammar) RulesFor(A *Symbol) []int {
	return g.ruleset[A]
}

// EachSymbol calls f for every symbol of g, ordered by serial number.
func (g *Grammar) EachSymbol(f func(A *Symbol) interface{}) []interface{} {
	ret := make([]interface{}, 0, len(g.symbols))
	for _, A := range g.symbols {
		if r := f(A); r != nil {
			ret = append(ret, r)
		}
	}
	return ret
}

// EachNonTerminal calls f for every non-terminal of g, ordered by serial number.
func (g *Grammar) EachNonTerminal(f func(name string, N *Symbol) interface{}) []interface{} {
	ret := make([]interface{}, 0, len(g.nonterms))
	for _, A := range g.symbols {
		if A.kind == NonTerminalKind {
			if r := f(A.Name, A); r != nil {
				ret = append(ret, r)
			}
		}
	}
	return ret
}

// Dump is a debugging helper, tracing all rules at debug level.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.rules {
		fmt.Fprintf(&b, "%3d: %s\n", r.Serial, r)
	}
	return b.String()
}

func (g *Grammar) addSymbol(A *Symbol) *Symbol {
	A.Value = len(g.symbols)
	g.symbols = append(g.symbols, A)
	return A
}

func (g *Grammar) nonterminal(name string) *Symbol {
	if A, ok := g.nonterms[name]; ok {
		return A
	}
	A := g.addSymbol(&Symbol{Name: name, kind: NonTerminalKind})
	g.nonterms[name] = A
	return A
}

func (g *Grammar) terminal(kind SymbolKind, name string) (*Symbol, error) {
	key := symbolKey{kind: kind, name: name}
	if A, ok := g.terms[key]; ok {
		return A, nil
	}
	A := &Symbol{Name: name, kind: kind}
	if kind == PatternKind {
		re, err := regexp.Compile(`(?ms)\A(?:` + name + `)`)
		if err != nil {
			return nil, err
		}
		A.re = re
	}
	g.terms[key] = g.addSymbol(A)
	return A, nil
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is used to construct a Grammar.
//
//    b := NewGrammarBuilder("G")
//    b.LHS("S").N("A").L("a").EOF()  // S  ->  A "a" #eof
//    b.LHS("A").P(`[0-9]+`).End()    // A  ->  re:[0-9]+
//    b.LHS("A").Epsilon()            // A  ->
//    g, err := b.Grammar()
//
// Errors, e.g. patterns which do not compile, are collected and reported by
// b.Grammar().
type GrammarBuilder struct {
	g    *Grammar
	errs []error
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{g: newGrammar(gname)}
}

// RuleBuilder is a builder type for a rule. Clients get one from GrammarBuilder.LHS.
type RuleBuilder struct {
	gb   *GrammarBuilder
	rule *Rule
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	r := &Rule{Serial: -1, LHS: gb.g.nonterminal(name)}
	return &RuleBuilder{gb: gb, rule: r}
}

// N appends a non-terminal to the builder.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rule.RHS = append(rb.rule.RHS, rb.gb.g.nonterminal(name))
	return rb
}

// L appends a literal terminal to the builder.
func (rb *RuleBuilder) L(text string) *RuleBuilder {
	return rb.terminal(LiteralKind, text)
}

// P appends a pattern terminal to the builder. The regular expression is
// compiled in multi-line and dot-all mode and anchored at the match position.
// Matching starts at the match position, with no look-behind into preceding
// text (see Symbol.MatchText).
func (rb *RuleBuilder) P(regex string) *RuleBuilder {
	return rb.terminal(PatternKind, regex)
}

// Args sets arguments for the rule.
func (rb *RuleBuilder) Args(args ...string) *RuleBuilder {
	rb.rule.Args = append(rb.rule.Args, args...)
	return rb
}

func (rb *RuleBuilder) terminal(kind SymbolKind, name string) *RuleBuilder {
	A, err := rb.gb.g.terminal(kind, name)
	if err != nil {
		rb.gb.errs = append(rb.gb.errs, grammarError(rb.gb.g.Name, len(rb.gb.g.rules),
			"re:"+name, "pattern does not compile: %v", err))
		return rb
	}
	rb.rule.RHS = append(rb.rule.RHS, A)
	return rb
}

// EndMarker appends the end marker to the builder.
func (rb *RuleBuilder) EndMarker() *RuleBuilder {
	A, _ := rb.gb.g.terminal(EndMarkerKind, EndMarkerName)
	rb.rule.RHS = append(rb.rule.RHS, A)
	return rb
}

// EOF appends the end marker and ends the rule.
func (rb *RuleBuilder) EOF() *Rule {
	return rb.EndMarker().End()
}

// Epsilon sets an epsilon production for the rule and ends it.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rule.RHS = nil
	return rb.End()
}

// End ends a rule and appends it to the grammar.
func (rb *RuleBuilder) End() *Rule {
	g := rb.gb.g
	rb.rule.Serial = len(g.rules)
	g.rules = append(g.rules, rb.rule)
	g.ruleset[rb.rule.LHS] = append(g.ruleset[rb.rule.LHS], rb.rule.Serial)
	return rb.rule
}

// Grammar returns the grammar under construction, or the first error
// encountered while building it.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.errs) > 0 {
		return nil, gb.errs[0]
	}
	if len(gb.g.rules) == 0 {
		return nil, grammarError(gb.g.Name, -1, "", "grammar has no rules")
	}
	return gb.g, nil
}
