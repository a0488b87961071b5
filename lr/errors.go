package lr

import "fmt"

// GrammarError is returned for grammars which cannot be built or compiled,
// e.g. if a non-terminal is used without having a rule, or if a pattern does not
// compile.
type GrammarError struct {
	Grammar string // name of the grammar
	Rule    int    // serial of the offending rule, or -1
	Symbol  string // offending symbol, if any
	Msg     string
}

func (e *GrammarError) Error() string {
	var where string
	if e.Rule >= 0 {
		where = fmt.Sprintf(" rule %d:", e.Rule)
	}
	if e.Symbol != "" {
		return fmt.Sprintf("grammar %s:%s %s: %s", e.Grammar, where, e.Symbol, e.Msg)
	}
	return fmt.Sprintf("grammar %s:%s %s", e.Grammar, where, e.Msg)
}

func grammarError(g string, rule int, sym string, format string, args ...interface{}) *GrammarError {
	return &GrammarError{
		Grammar: g,
		Rule:    rule,
		Symbol:  sym,
		Msg:     fmt.Sprintf(format, args...),
	}
}
