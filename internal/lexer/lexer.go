// Package lexer turns Ion source text into a stream of token.Token values.
// NextToken is a pure function: given a source buffer and an index it
// returns the next token and the index just past it,
// without mutating any shared state. Stream (stream.go) is the thin stateful
// wrapper the parser actually drives — it owns the index and supports
// one-token peek. The CALL reclassification's lookahead happens inside
// NextToken itself: lexWord re-lexes at the index just past the word.
package lexer

import "github.com/ion-lang/ionc/internal/token"

// NextToken classifies the next token starting at src[index]. It returns
// the zero Token with Kind token.EOF once index reaches len(src).
func NextToken(src []rune, index int) (token.Token, int) {
	if index >= len(src) {
		return token.Token{Kind: token.EOF}, index
	}

	r := src[index]

	if isWhitespace(r) {
		index++
		for index < len(src) && isWhitespace(src[index]) {
			index++
		}
		return NextToken(src, index)
	}

	if r == '\n' {
		return token.Token{Kind: token.NEWLINE, Lexeme: "\n"}, index + 1
	}

	if isCommentStart(r) {
		for index < len(src) && src[index] != '\n' && src[index] != ';' {
			index++
		}
		return NextToken(src, index)
	}

	if isAlphabetic(r) {
		return lexWord(src, index)
	}

	if isDigit(r) {
		return lexNumber(src, index)
	}

	if r == '\'' {
		return lexChar(src, index)
	}

	if r == '"' {
		return lexString(src, index)
	}

	if isOperatorRune(r) {
		return lexOperator(src, index)
	}

	if isPunctuatorRune(r) {
		return token.Token{Kind: token.Punctuation[r], Lexeme: string(r)}, index + 1
	}

	return token.Token{Kind: token.UNDEFINED, Lexeme: string(r)}, index + 1
}

// lexWord consumes an identifier/keyword and reclassifies it as a CALL
// token if an open paren immediately follows.
func lexWord(src []rune, index int) (token.Token, int) {
	start := index
	for index < len(src) && isWordRune(src[index]) {
		index++
	}
	lexeme := string(src[start:index])

	var kind token.Kind
	switch {
	case lexeme == "TRUE" || lexeme == "FALSE":
		kind = token.BOOL_LIT
	default:
		if kw, ok := token.Keywords[lexeme]; ok {
			kind = kw
		} else {
			kind = token.IDENTIFIER
		}
	}

	if kind == token.IDENTIFIER {
		if next, _ := NextToken(src, index); next.Kind == token.OPEN_PAREN {
			kind = token.CALL
		}
	}

	return token.Token{Kind: kind, Lexeme: lexeme}, index
}

// lexNumber consumes INT_LIT, or FLOAT_LIT when a '.' is followed by at
// least one more digit.
func lexNumber(src []rune, index int) (token.Token, int) {
	start := index
	for index < len(src) && isDigit(src[index]) {
		index++
	}

	if index < len(src) && src[index] == '.' && index+1 < len(src) && isDigit(src[index+1]) {
		index++
		for index < len(src) && isDigit(src[index]) {
			index++
		}
		return token.Token{Kind: token.FLOAT_LIT, Lexeme: string(src[start:index])}, index
	}

	return token.Token{Kind: token.INT_LIT, Lexeme: string(src[start:index])}, index
}

// lexChar consumes a '...' literal. The lexeme is the raw inner text;
// typical use takes the first byte.
func lexChar(src []rune, index int) (token.Token, int) {
	index++ // opening quote
	start := index
	for index < len(src) && src[index] != '\'' {
		index++
	}
	lexeme := string(src[start:index])
	if index < len(src) {
		index++ // closing quote
	}
	return token.Token{Kind: token.CHAR_LIT, Lexeme: lexeme}, index
}

// lexString consumes a "..." literal.
func lexString(src []rune, index int) (token.Token, int) {
	index++ // opening quote
	start := index
	for index < len(src) && src[index] != '"' {
		index++
	}
	lexeme := string(src[start:index])
	if index < len(src) {
		index++ // closing quote
	}
	return token.Token{Kind: token.STRING_LIT, Lexeme: lexeme}, index
}

// lexOperator classifies the double-character comparators/operators before
// falling back to their single-character forms.
func lexOperator(src []rune, index int) (token.Token, int) {
	r := src[index]
	var next rune
	if index+1 < len(src) {
		next = src[index+1]
	}

	two := func(kind token.Kind) (token.Token, int) {
		return token.Token{Kind: kind, Lexeme: string([]rune{r, next})}, index + 2
	}
	one := func(kind token.Kind) (token.Token, int) {
		return token.Token{Kind: kind, Lexeme: string(r)}, index + 1
	}

	switch r {
	case '=':
		if next == '=' {
			return two(token.DOUBLE_CMP)
		}
		return one(token.SINGLE_OP)
	case '!':
		if next == '=' {
			return two(token.DOUBLE_CMP)
		}
		return one(token.SINGLE_OP)
	case '<':
		if next == '=' {
			return two(token.DOUBLE_CMP)
		}
		return one(token.SINGLE_CMP)
	case '>':
		if next == '=' {
			return two(token.DOUBLE_CMP)
		}
		return one(token.SINGLE_CMP)
	case '&':
		if next == '&' {
			return two(token.DOUBLE_OP)
		}
		return one(token.SINGLE_OP)
	case '|':
		if next == '|' {
			return two(token.DOUBLE_OP)
		}
		return one(token.SINGLE_OP)
	default:
		// + - * / %
		return one(token.SINGLE_OP)
	}
}
