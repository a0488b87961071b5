package lexmach

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parsejoy"
	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/parsejoy/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'parsejoy.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("parsejoy.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values. Expressions added by init
// take precedence over literals and keywords.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	lexer := lexmachine.NewLexer()
	init(lexer)
	for _, lit := range literals {
		lexer.Add([]byte(quoteLiteral(lit)), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	return compile(lexer)
}

// ForGrammar creates a lexmachine adapter for the terminals of a grammar.
// Every literal and every pattern becomes a token type, identified by the
// terminal's serial number (Symbol.Value). Literals take precedence over patterns
// matching a lexeme of the same length. Input matching one of the skip
// expressions is dropped, e.g. white space.
//
// Patterns have to be given in lexmachine's regular expression syntax, which
// is a subset of the Go syntax.
func ForGrammar(g *lr.Grammar, skip ...string) (*LMAdapter, error) {
	var literals, patterns []*lr.Symbol
	g.EachSymbol(func(A *lr.Symbol) interface{} {
		switch A.Kind() {
		case lr.LiteralKind:
			literals = append(literals, A)
		case lr.PatternKind:
			patterns = append(patterns, A)
		}
		return nil
	})
	lexer := lexmachine.NewLexer()
	for _, A := range literals {
		lexer.Add([]byte(quoteLiteral(A.Name)), MakeToken(A.Name, A.Value))
	}
	for _, A := range patterns {
		lexer.Add([]byte(A.Name), MakeToken(A.Name, A.Value))
	}
	for _, s := range skip {
		lexer.Add([]byte(s), Skip)
	}
	tracer().Debugf("lexer for grammar %s: %d literals, %d patterns", g.Name,
		len(literals), len(patterns))
	return compile(lexer)
}

func compile(lexer *lexmachine.Lexer) (*LMAdapter, error) {
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return &LMAdapter{Lexer: lexer}, nil
}

// quoteLiteral escapes every character of a literal which is not a letter or
// digit, as these may be operators of lexmachine's expression syntax.
func quoteLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 0x7f) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{s, logError}, nil
}

// Tokens splits an input into tokens, ready for a GLR parser. Other than
// a scanner, it does not skip input which cannot be matched, but reports the
// first position of unmatched input as an error.
func (lm *LMAdapter) Tokens(input string) (*lr.TokenInput, error) {
	sc, err := lm.Scanner(input)
	if err != nil {
		return nil, err
	}
	var first error
	sc.SetErrorHandler(func(e error) {
		if first == nil {
			first = e
		}
	})
	in := scanner.Input(sc)
	if first != nil {
		return nil, fmt.Errorf("cannot tokenize input: %w", first)
	}
	return in, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface. Input which cannot be
// matched is reported to the error handler and skipped. Spans of tokens are
// byte offsets into the input.
func (lms *LMScanner) NextToken() parsejoy.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		at := uint64(lms.scanner.TC)
		return scanner.MakeDefaultToken(scanner.EOF, "", parsejoy.Span{at, at})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %d %q @ %d", token.Type, token.Lexeme, token.TC)
	return scanner.MakeDefaultToken(
		parsejoy.TokType(token.Type),
		string(token.Lexeme),
		parsejoy.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
