package lexer

import "github.com/ion-lang/ionc/internal/token"

// isWhitespace matches the space/tab skipped between tokens. Newlines are
// significant (they become NEWLINE tokens) and are not whitespace here.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isAlphabetic(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordRune(r rune) bool {
	return isAlphabetic(r) || isDigit(r) || r == '_'
}

func isCommentStart(r rune) bool {
	return r == '#'
}

// singleOpRunes are operators that always lex as a single rune unless they
// combine into one of the double-character operators/comparators handled
// explicitly in lexOperator.
var singleOpRunes = map[rune]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true,
	'=': true, '!': true, '&': true, '|': true,
}

func isOperatorRune(r rune) bool {
	return singleOpRunes[r] || r == '<' || r == '>'
}

func isPunctuatorRune(r rune) bool {
	_, ok := token.Punctuation[r]
	return ok
}
