package filter

import (
	"strings"
	"unicode"
)

// Token is one whitespace separated term of a filter string.
type Token struct {
	// Text is the lowercased term with quotes, escapes and the negation
	// prefix removed.
	Text string
	// Negated is set by a leading unescaped, unquoted '-'.
	Negated bool
	// Span is the term exactly as written.
	Span string
	// Start and End are the byte offsets of Span in the input.
	Start, End int
}

// a tokenStateHandler takes in a rune and a bool representing the end of the
// input and returns the next state to transition to.
type tokenStateHandler func(in rune, pos int, eof bool) tokenizerState

type tokenizerState uint

const (
	betweenTokensState tokenizerState = iota
	tokenState
	quotedState
	escapeState
	quotedEscapeState
)

// tokenBuilder collects the current token.
type tokenBuilder struct {
	text    strings.Builder
	started bool
	negated bool
	quoted  bool
	start   int
}

func (b *tokenBuilder) begin(pos int) {
	if b.started {
		return
	}
	b.started = true
	b.start = pos
}

func (b *tokenBuilder) reset() {
	b.text.Reset()
	b.started = false
	b.negated = false
	b.quoted = false
}

// Tokenizer splits a filter string into tokens.
type Tokenizer struct {
	input   string
	state   tokenizerState
	builder tokenBuilder
	tokens  []Token
}

// NewTokenizer returns a tokenizer over input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Tokenize splits input into tokens.
func Tokenize(input string) []Token {
	return NewTokenizer(input).Tokenize()
}

// Tokenize runs the tokenizer over the whole input.
func (t *Tokenizer) Tokenize() []Token {
	t.state = betweenTokensState
	t.tokens = nil
	for pos, r := range t.input {
		t.state = t.stateToHandler(t.state)(r, pos, false)
	}
	t.stateToHandler(t.state)(0, len(t.input), true)
	return t.tokens
}

func (t *Tokenizer) stateToHandler(state tokenizerState) tokenStateHandler {
	switch state {
	case tokenState:
		return t.tokenStateHandler
	case quotedState:
		return t.quotedStateHandler
	case escapeState:
		return t.escapeStateHandler
	case quotedEscapeState:
		return t.quotedEscapeStateHandler
	default:
		return t.betweenTokensStateHandler
	}
}

func (t *Tokenizer) emit(end int) {
	b := &t.builder
	tok := Token{
		Text:    strings.ToLower(b.text.String()),
		Negated: b.negated,
		Span:    t.input[b.start:end],
		Start:   b.start,
		End:     end,
	}
	// A bare "-" is a term, not a negation of nothing.
	if tok.Negated && tok.Text == "" && !b.quoted {
		tok.Text, tok.Negated = "-", false
	}
	t.tokens = append(t.tokens, tok)
	b.reset()
}

func (t *Tokenizer) betweenTokensStateHandler(r rune, pos int, eof bool) tokenizerState {
	if eof {
		return betweenTokensState
	}
	switch {
	case unicode.IsSpace(r):
		return betweenTokensState
	case r == '-':
		t.builder.begin(pos)
		t.builder.negated = true
		return tokenState
	default:
		t.builder.begin(pos)
		return t.tokenStateHandler(r, pos, false)
	}
}

func (t *Tokenizer) tokenStateHandler(r rune, pos int, eof bool) tokenizerState {
	if eof {
		t.emit(pos)
		return betweenTokensState
	}
	switch {
	case unicode.IsSpace(r):
		t.emit(pos)
		return betweenTokensState
	case r == '\\':
		return escapeState
	case r == '"':
		t.builder.quoted = true
		return quotedState
	default:
		t.builder.text.WriteRune(r)
		return tokenState
	}
}

func (t *Tokenizer) quotedStateHandler(r rune, pos int, eof bool) tokenizerState {
	if eof {
		// An unterminated quote runs to the end of the input.
		t.emit(pos)
		return betweenTokensState
	}
	switch r {
	case '\\':
		return quotedEscapeState
	case '"':
		return tokenState
	default:
		t.builder.text.WriteRune(r)
		return quotedState
	}
}

func (t *Tokenizer) escapeStateHandler(r rune, pos int, eof bool) tokenizerState {
	if eof {
		// A trailing backslash is kept as is.
		t.builder.text.WriteRune('\\')
		t.emit(pos)
		return betweenTokensState
	}
	t.builder.text.WriteRune(r)
	return tokenState
}

func (t *Tokenizer) quotedEscapeStateHandler(r rune, pos int, eof bool) tokenizerState {
	if eof {
		t.builder.text.WriteRune('\\')
		t.emit(pos)
		return betweenTokensState
	}
	t.builder.text.WriteRune(r)
	return quotedState
}
