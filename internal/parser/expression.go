package parser

import (
	"strconv"

	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/diag"
	"github.com/ion-lang/ionc/internal/token"
)

// precedence implements the fixed table: UNARY=4, "* / %"=3, "+ -"=2,
// all comparators and logical "&&/||"=1, "="=0.
func precedence(tok token.Token) int {
	switch tok.Kind {
	case token.UNARY_OP:
		return 4
	case token.SINGLE_OP:
		switch tok.Lexeme {
		case "*", "/", "%":
			return 3
		case "+", "-":
			return 2
		case "=":
			return 0
		default: // single & or |
			return 1
		}
	case token.SINGLE_CMP, token.DOUBLE_CMP, token.DOUBLE_OP:
		return 1
	default:
		return -1
	}
}

func isUnaryCandidate(lexeme string) bool {
	return lexeme == "+" || lexeme == "-" || lexeme == "!"
}

// isUnaryContext reports whether lastKind leaves a "+ - !" token with no
// left operand to be binary, forcing a reclassification to unary.
func isUnaryContext(lastKind token.Kind) bool {
	switch lastKind {
	case token.UNDEFINED, token.OPEN_PAREN,
		token.SINGLE_OP, token.UNARY_OP, token.DOUBLE_OP,
		token.SINGLE_CMP, token.DOUBLE_CMP:
		return true
	default:
		return false
	}
}

func hasUnmatchedOpenParen(opStack []token.Token) bool {
	for _, tok := range opStack {
		if tok.Kind == token.OPEN_PAREN {
			return true
		}
	}
	return false
}

// popUntilOpenParen drains opStack into queue up to and discarding its
// nearest OPEN_PAREN. An empty stack with no OPEN_PAREN found is an
// unbalanced-parenthesis syntax error.
func popUntilOpenParen(opStack *[]token.Token, queue *[]token.Token, line int) error {
	for {
		if len(*opStack) == 0 {
			return diag.New(diag.Syntax, line, "unbalanced parentheses")
		}
		top := (*opStack)[len(*opStack)-1]
		*opStack = (*opStack)[:len(*opStack)-1]
		if top.Kind == token.OPEN_PAREN {
			return nil
		}
		*queue = append(*queue, top)
	}
}

// popWhileHigherPrec drains opStack into queue while its top has
// precedence greater than or equal to incoming and is not an unmatched
// OPEN_PAREN, then the caller pushes incoming.
func popWhileHigherPrec(opStack *[]token.Token, queue *[]token.Token, incoming token.Token) {
	for len(*opStack) > 0 {
		top := (*opStack)[len(*opStack)-1]
		if top.Kind == token.OPEN_PAREN || precedence(top) < precedence(incoming) {
			return
		}
		*opStack = (*opStack)[:len(*opStack)-1]
		*queue = append(*queue, top)
	}
}

var literalKinds = map[token.Kind]bool{
	token.INT_LIT: true, token.FLOAT_LIT: true, token.BOOL_LIT: true,
	token.CHAR_LIT: true, token.STRING_LIT: true,
}

// parseExpression runs the shunting-yard algorithm over the token stream,
// then builds an AST from the resulting
// operand queue. In condition mode, a CLOSE_PAREN reached while the
// operator stack holds no unmatched OPEN_PAREN ends the expression and is
// consumed as the condition's own closing paren.
func (p *Parser) parseExpression(condition bool) (ast.Node, error) {
	var opStack []token.Token
	var queue []token.Token
	lastKind := token.Kind(token.UNDEFINED)

loop:
	for {
		tok := p.stream.Peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == token.NEWLINE, tok.Kind == token.SEMICOLON:
			break loop

		case tok.Kind == token.CLOSE_PAREN:
			if condition && !hasUnmatchedOpenParen(opStack) {
				p.stream.Next()
				break loop
			}
			p.stream.Next()
			if err := popUntilOpenParen(&opStack, &queue, p.line); err != nil {
				return nil, err
			}
			lastKind = token.CLOSE_PAREN

		case tok.Kind == token.OPEN_PAREN:
			p.stream.Next()
			opStack = append(opStack, tok)
			lastKind = token.OPEN_PAREN

		case literalKinds[tok.Kind] || tok.Kind == token.IDENTIFIER:
			p.stream.Next()
			queue = append(queue, tok)
			lastKind = tok.Kind

		case tok.Kind == token.CALL:
			p.stream.Next()
			queue = append(queue, tok)
			openTok, err := p.expect(token.OPEN_PAREN)
			if err != nil {
				return nil, err
			}
			queue = append(queue, openTok)
			for {
				arg := p.stream.Peek()
				if arg.Kind == token.CLOSE_PAREN {
					p.stream.Next()
					queue = append(queue, arg)
					break
				}
				if arg.Kind != token.COMMA && !literalKinds[arg.Kind] && arg.Kind != token.IDENTIFIER {
					return nil, diag.New(diag.Syntax, p.line, "unexpected token %s in argument list", arg.Kind)
				}
				p.stream.Next()
				queue = append(queue, arg)
			}
			lastKind = token.CALL

		case tok.Kind == token.SINGLE_OP:
			p.stream.Next()
			opTok := tok
			if isUnaryCandidate(tok.Lexeme) && isUnaryContext(lastKind) {
				opTok.Kind = token.UNARY_OP
			}
			popWhileHigherPrec(&opStack, &queue, opTok)
			opStack = append(opStack, opTok)
			lastKind = opTok.Kind

		case tok.Kind == token.SINGLE_CMP, tok.Kind == token.DOUBLE_CMP, tok.Kind == token.DOUBLE_OP:
			p.stream.Next()
			popWhileHigherPrec(&opStack, &queue, tok)
			opStack = append(opStack, tok)
			lastKind = tok.Kind

		default:
			break loop
		}
	}

	for len(opStack) > 0 {
		queue = append(queue, opStack[len(opStack)-1])
		opStack = opStack[:len(opStack)-1]
	}

	return p.buildFromQueue(queue)
}

// buildFromQueue consumes the shunting-yard output queue left to right,
// maintaining an AST operand stack; operators pop two operands (one for
// UNARY_OP) and CALL consumes directly from the queue up to its own
// CLOSE_PAREN.
func (p *Parser) buildFromQueue(queue []token.Token) (ast.Node, error) {
	var stack []ast.Node
	i := 0
	for i < len(queue) {
		tok := queue[i]
		switch tok.Kind {
		case token.CALL:
			name := tok.Lexeme
			i++
			if i < len(queue) && queue[i].Kind == token.OPEN_PAREN {
				i++
			}
			var args []ast.Node
			for i < len(queue) && queue[i].Kind != token.CLOSE_PAREN {
				if queue[i].Kind == token.COMMA {
					i++
					continue
				}
				arg, err := p.leafFromToken(queue[i])
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				i++
			}
			if i < len(queue) {
				i++
			}
			stack = append(stack, ast.NewFunctionCall(p.line, name, args))

		case token.UNARY_OP:
			if len(stack) < 1 {
				return nil, diag.New(diag.Syntax, p.line, "unary %s missing an operand", tok.Lexeme)
			}
			operand := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, ast.NewUnary(p.line, tok.Lexeme, operand))
			i++

		case token.SINGLE_OP, token.SINGLE_CMP, token.DOUBLE_CMP, token.DOUBLE_OP:
			if len(stack) < 2 {
				return nil, diag.New(diag.Syntax, p.line, "operator %s missing an operand", tok.Lexeme)
			}
			rhs := stack[len(stack)-1]
			lhs := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if tok.Lexeme == "=" {
				if _, ok := lhs.(*ast.Variable); !ok {
					return nil, diag.New(diag.Syntax, p.line, "assignment target must be a variable")
				}
			}
			stack = append(stack, ast.NewBinary(p.line, tok.Lexeme, lhs, rhs))
			i++

		default:
			leaf, err := p.leafFromToken(tok)
			if err != nil {
				return nil, err
			}
			stack = append(stack, leaf)
			i++
		}
	}

	if len(stack) != 1 {
		return nil, diag.New(diag.Syntax, p.line, "malformed expression")
	}
	return stack[0], nil
}

// leafFromToken builds the leaf AST node for a single literal/identifier
// token, interning string literals as it goes.
func (p *Parser) leafFromToken(tok token.Token) (ast.Node, error) {
	switch tok.Kind {
	case token.INT_LIT:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, diag.Wrap(diag.Syntax, p.line, err, "invalid integer literal %q", tok.Lexeme)
		}
		return ast.NewInteger(p.line, v), nil
	case token.FLOAT_LIT:
		v, err := strconv.ParseFloat(tok.Lexeme, 32)
		if err != nil {
			return nil, diag.Wrap(diag.Syntax, p.line, err, "invalid float literal %q", tok.Lexeme)
		}
		return ast.NewFloat(p.line, float32(v)), nil
	case token.BOOL_LIT:
		return ast.NewBoolean(p.line, tok.Lexeme == "TRUE"), nil
	case token.CHAR_LIT:
		var b byte
		if len(tok.Lexeme) > 0 {
			b = tok.Lexeme[0]
		}
		return ast.NewChar(p.line, b), nil
	case token.STRING_LIT:
		label := p.strings.Intern(tok.Lexeme)
		return ast.NewString(p.line, tok.Lexeme, label), nil
	case token.IDENTIFIER:
		return ast.NewVariable(p.line, tok.Lexeme), nil
	default:
		return nil, diag.New(diag.Syntax, p.line, "unexpected token %s in expression", tok.Kind)
	}
}
