package lr

import (
	"sort"
	"unicode/utf8"

	"github.com/npillmayer/parsejoy"
)

// Input is the sequence a parser runs on. Offsets range from 0 to Len().
//
// Match checks whether a terminal matches at an offset, returning the number
// of positions consumed. Segment returns the raw input between two offsets;
// parsers use it as the semantic value of terminals.
type Input interface {
	Len() int
	Match(offset int, A *Symbol) (int, bool)
	Segment(from, to int) interface{}
}

// Locator is implemented by inputs which are able to translate offsets to
// line and column numbers (both starting at 1).
type Locator interface {
	LineCol(offset int) (line, col int)
}

// --- Text input ------------------------------------------------------------

// TextInput is an Input for a string, with offsets counting bytes.
// Segments are of type string.
type TextInput struct {
	name       string
	text       string
	lineStarts []int
}

var _ Input = (*TextInput)(nil)
var _ Locator = (*TextInput)(nil)

// NewTextInput creates an input for a text. name identifies the text in messages.
func NewTextInput(name, text string) *TextInput {
	in := &TextInput{name: name, text: text, lineStarts: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			in.lineStarts = append(in.lineStarts, i+1)
		}
	}
	return in
}

// Name returns the name of the input.
func (in *TextInput) Name() string {
	return in.name
}

// Text returns the complete text.
func (in *TextInput) Text() string {
	return in.text
}

// Len is part of interface Input.
func (in *TextInput) Len() int {
	return len(in.text)
}

// Match is part of interface Input.
func (in *TextInput) Match(offset int, A *Symbol) (int, bool) {
	if offset < 0 || offset > len(in.text) {
		return 0, false
	}
	return A.MatchText(in.text, offset)
}

// Segment is part of interface Input.
func (in *TextInput) Segment(from, to int) interface{} {
	return in.text[from:to]
}

// LineCol returns the line and column of a byte offset. Columns count runes.
func (in *TextInput) LineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	} else if offset > len(in.text) {
		offset = len(in.text)
	}
	k := sort.Search(len(in.lineStarts), func(i int) bool {
		return in.lineStarts[i] > offset
	}) - 1
	return k + 1, utf8.RuneCountInString(in.text[in.lineStarts[k]:offset]) + 1
}

// --- Token input -----------------------------------------------------------

// TokenInput is an Input for a sequence of tokens, with offsets counting tokens.
// Every terminal except the end marker consumes exactly one token:
// a literal matches a token with an equal lexeme, a pattern has to match the
// complete lexeme of a token. Segments are of type []parsejoy.Token.
type TokenInput struct {
	tokens []parsejoy.Token
}

var _ Input = (*TokenInput)(nil)

// NewTokenInput creates an input for a sequence of tokens.
func NewTokenInput(tokens []parsejoy.Token) *TokenInput {
	return &TokenInput{tokens: tokens}
}

// Len is part of interface Input.
func (in *TokenInput) Len() int {
	return len(in.tokens)
}

// Token returns the token at an offset.
func (in *TokenInput) Token(offset int) parsejoy.Token {
	if offset < 0 || offset >= len(in.tokens) {
		return nil
	}
	return in.tokens[offset]
}

// Match is part of interface Input.
func (in *TokenInput) Match(offset int, A *Symbol) (int, bool) {
	if A.IsEndMarker() {
		return 0, offset == len(in.tokens)
	}
	if offset < 0 || offset >= len(in.tokens) {
		return 0, false
	}
	if A.MatchLexeme(in.tokens[offset].Lexeme()) {
		return 1, true
	}
	return 0, false
}

// Segment is part of interface Input.
func (in *TokenInput) Segment(from, to int) interface{} {
	return in.tokens[from:to]
}
