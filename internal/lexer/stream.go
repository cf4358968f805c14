package lexer

import "github.com/ion-lang/ionc/internal/token"

// Stream is the stateful cursor the parser actually drives. It wraps the
// pure NextToken function with a one-token lookahead buffer, mirroring the
// Lexer-wraps-Scanner split of a hand-written recursive-descent front end.
type Stream struct {
	src    []rune
	index  int
	peeked *token.Token
	peekAt int
}

// New wraps the given source text in a Stream positioned at its start.
func New(src string) *Stream {
	return &Stream{src: []rune(src)}
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() token.Token {
	if s.peeked == nil {
		tok, next := NextToken(s.src, s.index)
		s.peeked = &tok
		s.peekAt = next
	}
	return *s.peeked
}

// Next consumes and returns the next token.
func (s *Stream) Next() token.Token {
	tok := s.Peek()
	s.index = s.peekAt
	s.peeked = nil
	return tok
}
