package lexer

import (
	"testing"

	"github.com/ion-lang/ionc/internal/token"
	"github.com/stretchr/testify/require"
)

func collect(src string) []token.Token {
	var toks []token.Token
	runes := []rune(src)
	index := 0
	for {
		tok, next := NextToken(runes, index)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
		index = next
	}
}

func TestNextToken_Keywords(t *testing.T) {
	toks := collect("let x: int = 5")
	require.Equal(t, []token.Kind{
		token.LET, token.IDENTIFIER, token.COLON, token.INT,
		token.SINGLE_OP, token.INT_LIT, token.EOF,
	}, kinds(toks))
}

func TestNextToken_CallReclassification(t *testing.T) {
	toks := collect("write(x)")
	require.Equal(t, token.CALL, toks[0].Kind)
	require.Equal(t, "write", toks[0].Lexeme)
}

func TestNextToken_IdentifierWithoutCallIsPlain(t *testing.T) {
	toks := collect("x + 1")
	require.Equal(t, token.IDENTIFIER, toks[0].Kind)
}

func TestNextToken_FloatVsInt(t *testing.T) {
	toks := collect("3.14 42")
	require.Equal(t, token.FLOAT_LIT, toks[0].Kind)
	require.Equal(t, "3.14", toks[0].Lexeme)
	require.Equal(t, token.INT_LIT, toks[1].Kind)
	require.Equal(t, "42", toks[1].Lexeme)
}

func TestNextToken_DoubleVsSingleOperators(t *testing.T) {
	toks := collect("== != <= >= && || < > = !")
	kinds := []token.Kind{
		token.DOUBLE_CMP, token.DOUBLE_CMP, token.DOUBLE_CMP, token.DOUBLE_CMP,
		token.DOUBLE_OP, token.DOUBLE_OP,
		token.SINGLE_CMP, token.SINGLE_CMP,
		token.SINGLE_OP, token.SINGLE_OP,
		token.EOF,
	}
	require.Equal(t, kinds, kindsOf(toks))
}

func TestNextToken_CommentTerminatedByNewlineOrSemicolon(t *testing.T) {
	toks := collect("# a comment\nlet")
	require.Equal(t, token.NEWLINE, toks[0].Kind)
	require.Equal(t, token.LET, toks[1].Kind)

	toks = collect("# another; let")
	require.Equal(t, token.SEMICOLON, toks[0].Kind)
	require.Equal(t, token.LET, toks[1].Kind)
}

func TestNextToken_CharAndStringLiterals(t *testing.T) {
	toks := collect(`'A' "hello"`)
	require.Equal(t, token.CHAR_LIT, toks[0].Kind)
	require.Equal(t, "A", toks[0].Lexeme)
	require.Equal(t, token.STRING_LIT, toks[1].Kind)
	require.Equal(t, "hello", toks[1].Lexeme)
}

func TestNextToken_BoolLiterals(t *testing.T) {
	toks := collect("TRUE FALSE")
	require.Equal(t, token.BOOL_LIT, toks[0].Kind)
	require.Equal(t, token.BOOL_LIT, toks[1].Kind)
}

func kinds(toks []token.Token) []token.Kind { return kindsOf(toks) }

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestStream_PeekDoesNotConsume(t *testing.T) {
	s := New("let x")
	require.Equal(t, token.LET, s.Peek().Kind)
	require.Equal(t, token.LET, s.Peek().Kind)
	require.Equal(t, token.LET, s.Next().Kind)
	require.Equal(t, token.IDENTIFIER, s.Next().Kind)
	require.Equal(t, token.EOF, s.Next().Kind)
}
