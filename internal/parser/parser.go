// Package parser implements the recursive-descent statement parser and the
// shunting-yard expression parser, building an *ast.Program and populating
// a *symbols.Scope tree in lock step.
package parser

import (
	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/diag"
	"github.com/ion-lang/ionc/internal/lexer"
	"github.com/ion-lang/ionc/internal/symbols"
	"github.com/ion-lang/ionc/internal/token"
)

// Parser walks a lexer.Stream once, building the AST and the symbol table
// at the same time.
type Parser struct {
	stream  *lexer.Stream
	line    int
	root    *symbols.Scope
	scope   *symbols.Scope
	strings *symbols.StringTable
}

// Parse lexes and parses src in one pass, returning the program, the root
// of the populated scope tree, and the string-literal intern table.
func Parse(src string) (*ast.Program, *symbols.Scope, *symbols.StringTable, error) {
	root := symbols.NewRoot()
	p := &Parser{
		stream:  lexer.New(src),
		line:    1,
		root:    root,
		scope:   root,
		strings: symbols.NewStringTable(),
	}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, nil, nil, err
	}
	return prog, root, p.strings, nil
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for {
		p.skipTerminators()
		if p.stream.Peek().Kind == token.EOF {
			return prog, nil
		}
		stmt, err := p.parseStatement(true)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
}

// skipTerminators consumes any run of NEWLINE/SEMICOLON tokens, advancing
// the line counter on each NEWLINE.
func (p *Parser) skipTerminators() {
	for {
		switch p.stream.Peek().Kind {
		case token.NEWLINE:
			p.stream.Next()
			p.line++
		case token.SEMICOLON:
			p.stream.Next()
		default:
			return
		}
	}
}

// expectTerminator consumes exactly one terminator (NEWLINE or SEMICOLON),
// the shape every statement-level production ends on. EOF and a closing
// brace also end a statement but are left unconsumed.
func (p *Parser) expectTerminator() error {
	switch tok := p.stream.Peek(); tok.Kind {
	case token.NEWLINE:
		p.stream.Next()
		p.line++
		return nil
	case token.SEMICOLON:
		p.stream.Next()
		return nil
	case token.EOF, token.CLOSE_BRACE:
		return nil
	default:
		return diag.New(diag.Syntax, p.line, "expected end of statement, found %s", tok.Kind)
	}
}

// parseStatement dispatches on the first token of a statement. topLevel
// gates whether FN is legal here (functions never nest).
func (p *Parser) parseStatement(topLevel bool) (ast.Stmt, error) {
	tok := p.stream.Peek()
	switch tok.Kind {
	case token.LET:
		return p.parseDeclaration()
	case token.FN:
		if !topLevel {
			return nil, diag.New(diag.Function, p.line, "function declarations are only allowed at program level")
		}
		return p.parseFunction()
	case token.IF:
		return p.parseConditional()
	case token.WHILE:
		return p.parseLoop()
	case token.OPEN_BRACE:
		return p.parseBlock(false)
	case token.RETURN:
		return p.parseReturn()
	default:
		expr, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		if err := p.expectTerminator(); err != nil {
			return nil, err
		}
		stmt, ok := expr.(ast.Stmt)
		if !ok {
			return nil, diag.New(diag.Syntax, p.line, "expression cannot stand alone as a statement")
		}
		return stmt, nil
	}
}

// expect consumes the next token and errors unless it has kind want.
func (p *Parser) expect(want token.Kind) (token.Token, error) {
	tok := p.stream.Next()
	if tok.Kind != want {
		return tok, diag.New(diag.Syntax, p.line, "expected %s, found %s", want, tok.Kind)
	}
	return tok, nil
}

// typeFromToken maps a type-keyword token to its DataType.
func typeFromToken(k token.Kind) symbols.DataType {
	switch k {
	case token.INT:
		return symbols.INTEGER
	case token.FLOAT:
		return symbols.FLOAT
	case token.BOOL:
		return symbols.BOOLEAN
	case token.CHAR:
		return symbols.CHAR
	case token.STRING:
		return symbols.STRING
	default:
		return symbols.UNKNOWN
	}
}

func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	if _, err := p.expect(token.LET); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	name := nameTok.Lexeme

	declaredType := symbols.UNKNOWN
	if p.stream.Peek().Kind == token.COLON {
		p.stream.Next()
		typeTok := p.stream.Next()
		if _, ok := typeKeywordKinds[typeTok.Kind]; !ok {
			return nil, diag.New(diag.Syntax, p.line, "expected a type after ':', found %s", typeTok.Kind)
		}
		declaredType = typeFromToken(typeTok.Kind)
	}

	if _, err := p.scope.AddSymbol(name, declaredType, false, p.line); err != nil {
		return nil, err
	}

	var stmt ast.Stmt
	if p.stream.Peek().Kind == token.SINGLE_OP && p.stream.Peek().Lexeme == "=" {
		p.stream.Next()
		rhs, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		stmt = ast.NewBinary(p.line, "=", ast.NewVariable(p.line, name), rhs)
	}

	if err := p.expectTerminator(); err != nil {
		return nil, err
	}
	return stmt, nil
}

var typeKeywordKinds = map[token.Kind]bool{
	token.INT: true, token.FLOAT: true, token.BOOL: true,
	token.CHAR: true, token.STRING: true, token.VOID: true,
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	if _, err := p.expect(token.RETURN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectTerminator(); err != nil {
		return nil, err
	}
	return ast.NewReturn(p.line, value), nil
}

// parseBlock parses a brace-delimited statement list. reuseScope is true
// for a function body, whose scope was already opened by parseFunction and
// is closed there too.
func (p *Parser) parseBlock(reuseScope bool) (*ast.Block, error) {
	line := p.line
	if _, err := p.expect(token.OPEN_BRACE); err != nil {
		return nil, err
	}
	if !reuseScope {
		p.scope = p.scope.ScopeIn()
	}

	var stmts []ast.Stmt
	for {
		p.skipTerminators()
		if p.stream.Peek().Kind == token.CLOSE_BRACE {
			break
		}
		if p.stream.Peek().Kind == token.EOF {
			return nil, diag.New(diag.Scope, line, "block missing closing brace")
		}
		stmt, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.expect(token.CLOSE_BRACE); err != nil {
		return nil, err
	}

	if !reuseScope {
		parent, err := p.scope.ScopeOut()
		if err != nil {
			return nil, err
		}
		p.scope = parent
	}

	return ast.NewBlock(line, stmts), nil
}

func (p *Parser) parseFunction() (ast.Stmt, error) {
	line := p.line
	if _, err := p.expect(token.FN); err != nil {
		return nil, err
	}
	// The lexer reclassifies a name followed by "(" as CALL.
	nameTok := p.stream.Next()
	if nameTok.Kind != token.CALL && nameTok.Kind != token.IDENTIFIER {
		return nil, diag.New(diag.Function, line, "expected a function name, found %s", nameTok.Kind)
	}
	if _, err := p.expect(token.OPEN_PAREN); err != nil {
		return nil, err
	}

	funcScope := p.scope.ScopeIn()
	p.scope = funcScope

	var params []ast.Param
	for p.stream.Peek().Kind != token.CLOSE_PAREN {
		if len(params) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		paramTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		paramType := symbols.UNKNOWN
		typeName := ""
		if p.stream.Peek().Kind == token.COLON {
			p.stream.Next()
			typeTok := p.stream.Next()
			if _, ok := typeKeywordKinds[typeTok.Kind]; !ok {
				return nil, diag.New(diag.Function, line, "expected a type for parameter %q, found %s", paramTok.Lexeme, typeTok.Kind)
			}
			paramType = typeFromToken(typeTok.Kind)
			typeName = typeTok.Lexeme
		}
		if _, err := funcScope.AddSymbol(paramTok.Lexeme, paramType, false, line); err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: paramTok.Lexeme, Type: typeName})
	}
	if _, err := p.expect(token.CLOSE_PAREN); err != nil {
		return nil, err
	}

	returnType := ""
	if p.stream.Peek().Kind == token.COLON {
		p.stream.Next()
		typeTok := p.stream.Next()
		if _, ok := typeKeywordKinds[typeTok.Kind]; !ok {
			return nil, diag.New(diag.Function, line, "expected a return type, found %s", typeTok.Kind)
		}
		returnType = typeTok.Lexeme
	}

	body, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}

	parent, err := p.scope.ScopeOut()
	if err != nil {
		return nil, err
	}
	p.scope = parent

	if _, err := p.scope.AddSymbol(nameTok.Lexeme, typeFromToken(returnTypeKind(returnType)), true, line); err != nil {
		return nil, err
	}

	return ast.NewFunction(line, nameTok.Lexeme, params, returnType, body), nil
}

func returnTypeKind(name string) token.Kind {
	if kind, ok := token.Keywords[name]; ok {
		return kind
	}
	return token.VOID
}

func (p *Parser) parseConditional() (ast.Stmt, error) {
	line := p.line
	var branches []ast.Branch

	if _, err := p.expect(token.IF); err != nil {
		return nil, err
	}
	cond, body, err := p.parseBranchHead()
	if err != nil {
		return nil, err
	}
	branches = append(branches, ast.Branch{Condition: cond, Body: body})

	for p.stream.Peek().Kind == token.ELSE {
		p.stream.Next()
		if p.stream.Peek().Kind == token.IF {
			p.stream.Next()
			cond, body, err := p.parseBranchHead()
			if err != nil {
				return nil, err
			}
			branches = append(branches, ast.Branch{Condition: cond, Body: body})
			continue
		}
		body, err := p.parseBlock(false)
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.Branch{Condition: nil, Body: body})
		break
	}

	return ast.NewConditional(line, branches), nil
}

// parseBranchHead parses the "(" expr ")" block" shared by if/while.
func (p *Parser) parseBranchHead() (ast.Node, *ast.Block, error) {
	if _, err := p.expect(token.OPEN_PAREN); err != nil {
		return nil, nil, err
	}
	cond, err := p.parseExpression(true)
	if err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlock(false)
	if err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

func (p *Parser) parseLoop() (ast.Stmt, error) {
	line := p.line
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	cond, body, err := p.parseBranchHead()
	if err != nil {
		return nil, err
	}
	return ast.NewLoop(line, cond, body), nil
}
