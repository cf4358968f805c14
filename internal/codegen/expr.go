package codegen

import (
	"math"

	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/diag"
	"github.com/ion-lang/ionc/internal/symbols"
)

// resolveAddress implements first-use address resolution: on first
// reference, true = GLOBAL_ADDRESS - (address + size) and is cached on
// the Metadata; later uses reuse the cached value directly.
func (g *Generator) resolveAddress(meta *symbols.Metadata) int {
	if meta.RelativeAddress == -1 {
		meta.RelativeAddress = g.global - (meta.Address + meta.Size)
	}
	return meta.RelativeAddress
}

// genExpr dispatches by concrete AST node type, returning the register,
// type, and spill address every node produces.
func (g *Generator) genExpr(node ast.Node) (*GenResult, error) {
	switch n := node.(type) {
	case *ast.Integer:
		reg := g.regs.GetFree()
		g.emit("mov %s, %d", reg, n.Value)
		return &GenResult{Register: reg, Type: symbols.INTEGER}, nil

	case *ast.Float:
		xmm := g.regs.GetFreeXMM()
		bits := math.Float32bits(n.Value)
		g.emit("mov dword [floatstore], %d", bits)
		g.emit("movss %s, [floatstore]", xmm)
		return &GenResult{Register: xmm, Type: symbols.FLOAT}, nil

	case *ast.Boolean:
		reg := g.regs.GetFree()
		val := 0
		if n.Value {
			val = 1
		}
		g.emit("mov %s, %d", reg, val)
		return &GenResult{Register: reg, Type: symbols.BOOLEAN}, nil

	case *ast.Char:
		reg := g.regs.GetFree()
		g.emit("mov %s, %d", sizedRegister(reg, 1), n.Value)
		return &GenResult{Register: reg, Type: symbols.CHAR}, nil

	case *ast.String:
		reg := g.regs.GetFree()
		g.emit("mov %s, %s", reg, n.Label)
		return &GenResult{Register: reg, Type: symbols.STRING}, nil

	case *ast.Variable:
		meta, ok := g.scope.Lookup(n.Name)
		if !ok {
			return nil, diag.New(diag.Semantic, n.Line(), "reference to undeclared name %q", n.Name)
		}
		trueAddr := g.resolveAddress(meta)
		if meta.Type == symbols.FLOAT {
			xmm := g.regs.GetFreeXMM()
			g.emit("movss %s, [rbp - %d]", xmm, trueAddr)
			return &GenResult{Register: xmm, Type: symbols.FLOAT, TrueAddress: trueAddr}, nil
		}
		reg := g.regs.GetFree()
		g.emit("mov %s, [rbp - %d]", sizedRegister(reg, meta.Size), trueAddr)
		return &GenResult{Register: reg, Type: meta.Type, TrueAddress: trueAddr}, nil

	case *ast.Unary:
		return g.genUnary(n)

	case *ast.Binary:
		if n.Op == "=" {
			return g.genAssign(n)
		}
		return g.genBinary(n)

	case *ast.FunctionCall:
		return g.genFunctionCall(n)

	default:
		return nil, diag.New(diag.Syntax, node.Line(), "unsupported expression node")
	}
}

func (g *Generator) genUnary(u *ast.Unary) (*GenResult, error) {
	operand, err := g.genExpr(u.Operand)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "+":
		return operand, nil
	case "-":
		if operand.Type != symbols.INTEGER {
			return nil, diag.New(diag.Type, u.Line(), "unary - requires an int operand, got %s", operand.Type)
		}
		g.emit("neg %s", operand.Register)
		return operand, nil
	case "!":
		if operand.Type != symbols.BOOLEAN {
			return nil, diag.New(diag.Type, u.Line(), "unary ! requires a bool operand, got %s", operand.Type)
		}
		g.emit("xor %s, 1", sizedRegister(operand.Register, 1))
		return operand, nil
	default:
		return nil, diag.New(diag.Syntax, u.Line(), "unknown unary operator %q", u.Op)
	}
}

var setInstruction = map[string]string{
	"==": "sete", "!=": "setne",
	"<": "setl", "<=": "setle",
	">": "setg", ">=": "setge",
}

func (g *Generator) genBinary(b *ast.Binary) (*GenResult, error) {
	switch b.Op {
	case "&&":
		return g.genLogicalAnd(b)
	case "||":
		return g.genLogicalOr(b)
	}

	lhs, err := g.genExpr(b.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := g.genExpr(b.RHS)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "+", "-", "*", "/", "%":
		if lhs.Type != symbols.INTEGER || rhs.Type != symbols.INTEGER {
			return nil, diag.New(diag.Type, b.Line(), "operator %q requires int operands, got %s and %s", b.Op, lhs.Type, rhs.Type)
		}
		switch b.Op {
		case "+":
			g.emit("add %s, %s", lhs.Register, rhs.Register)
		case "-":
			g.emit("sub %s, %s", lhs.Register, rhs.Register)
		case "*":
			g.emit("imul %s, %s", lhs.Register, rhs.Register)
		case "/", "%":
			g.emit("mov rax, %s", lhs.Register)
			g.emit("cqo")
			g.emit("idiv %s", rhs.Register)
			if b.Op == "/" {
				g.emit("mov %s, rax", lhs.Register)
			} else {
				g.emit("mov %s, rdx", lhs.Register)
			}
		}
		g.regs.Release(rhs.Register)
		return &GenResult{Register: lhs.Register, Type: symbols.INTEGER}, nil

	case "==", "!=", "<", "<=", ">", ">=":
		if !comparablePair(b.Op, lhs.Type, rhs.Type) {
			return nil, diag.New(diag.Type, b.Line(), "operator %q is not defined between %s and %s", b.Op, lhs.Type, rhs.Type)
		}
		width := lhs.Type.Size()
		if lhs.Type == symbols.STRING {
			width = 8
		}
		g.emit("cmp %s, %s", sizedRegister(lhs.Register, width), sizedRegister(rhs.Register, width))
		g.emit("%s al", setInstruction[b.Op])
		g.emit("movzx %s, al", lhs.Register)
		g.regs.Release(rhs.Register)
		return &GenResult{Register: lhs.Register, Type: symbols.BOOLEAN}, nil

	default:
		return nil, diag.New(diag.Syntax, b.Line(), "unknown binary operator %q", b.Op)
	}
}

// comparablePair implements the allowed type-pair table: INT×INT,
// BOOL×BOOL, CHAR×CHAR for every comparator; STRING×STRING additionally
// for == and !=.
func comparablePair(op string, lhs, rhs symbols.DataType) bool {
	if lhs == symbols.INTEGER && rhs == symbols.INTEGER {
		return true
	}
	if lhs == symbols.BOOLEAN && rhs == symbols.BOOLEAN {
		return true
	}
	if lhs == symbols.CHAR && rhs == symbols.CHAR {
		return true
	}
	if (op == "==" || op == "!=") && lhs == symbols.STRING && rhs == symbols.STRING {
		return true
	}
	return false
}

// genLogicalAnd/genLogicalOr expand to short-circuit test/jz/jnz
// sequences, each using a fresh pair of labels.
func (g *Generator) genLogicalAnd(b *ast.Binary) (*GenResult, error) {
	lhs, err := g.genExpr(b.LHS)
	if err != nil {
		return nil, err
	}
	if lhs.Type != symbols.BOOLEAN {
		return nil, diag.New(diag.Type, b.Line(), "operator && requires bool operands, got %s", lhs.Type)
	}
	falseLabel := g.labels.Next("and_false")
	endLabel := g.labels.Next("and_end")

	g.emit("test %s, %s", sizedRegister(lhs.Register, 1), sizedRegister(lhs.Register, 1))
	g.emit("jz %s", falseLabel)

	rhs, err := g.genExpr(b.RHS)
	if err != nil {
		return nil, err
	}
	if rhs.Type != symbols.BOOLEAN {
		return nil, diag.New(diag.Type, b.Line(), "operator && requires bool operands, got %s", rhs.Type)
	}
	g.emit("test %s, %s", sizedRegister(rhs.Register, 1), sizedRegister(rhs.Register, 1))
	g.emit("jz %s", falseLabel)
	g.regs.Release(rhs.Register)

	g.emit("mov %s, 1", sizedRegister(lhs.Register, 1))
	g.emit("jmp %s", endLabel)
	g.label(falseLabel)
	g.emit("mov %s, 0", sizedRegister(lhs.Register, 1))
	g.label(endLabel)
	return &GenResult{Register: lhs.Register, Type: symbols.BOOLEAN}, nil
}

func (g *Generator) genLogicalOr(b *ast.Binary) (*GenResult, error) {
	lhs, err := g.genExpr(b.LHS)
	if err != nil {
		return nil, err
	}
	if lhs.Type != symbols.BOOLEAN {
		return nil, diag.New(diag.Type, b.Line(), "operator || requires bool operands, got %s", lhs.Type)
	}
	trueLabel := g.labels.Next("or_true")
	endLabel := g.labels.Next("or_end")

	g.emit("test %s, %s", sizedRegister(lhs.Register, 1), sizedRegister(lhs.Register, 1))
	g.emit("jnz %s", trueLabel)

	rhs, err := g.genExpr(b.RHS)
	if err != nil {
		return nil, err
	}
	if rhs.Type != symbols.BOOLEAN {
		return nil, diag.New(diag.Type, b.Line(), "operator || requires bool operands, got %s", rhs.Type)
	}
	g.emit("test %s, %s", sizedRegister(rhs.Register, 1), sizedRegister(rhs.Register, 1))
	g.emit("jnz %s", trueLabel)
	g.regs.Release(rhs.Register)

	g.emit("mov %s, 0", sizedRegister(lhs.Register, 1))
	g.emit("jmp %s", endLabel)
	g.label(trueLabel)
	g.emit("mov %s, 1", sizedRegister(lhs.Register, 1))
	g.label(endLabel)
	return &GenResult{Register: lhs.Register, Type: symbols.BOOLEAN}, nil
}

// genAssign implements the assignment coercion rules: UNKNOWN LHS infers
// its type from the RHS via ChangeType; VAR_FLOAT accepts INT (coerced via
// cvtsi2ss) or FLOAT (movss); VAR_INT likewise accepts FLOAT (truncated via
// cvttss2si) or INT; everything else spills with a plain mov at the
// matching width.
func (g *Generator) genAssign(b *ast.Binary) (*GenResult, error) {
	v, ok := b.LHS.(*ast.Variable)
	if !ok {
		return nil, diag.New(diag.Syntax, b.Line(), "assignment target must be a variable")
	}
	meta, ok := g.scope.Lookup(v.Name)
	if !ok {
		return nil, diag.New(diag.Semantic, b.Line(), "reference to undeclared name %q", v.Name)
	}

	rhs, err := g.genExpr(b.RHS)
	if err != nil {
		return nil, err
	}

	switch meta.Type {
	case symbols.UNKNOWN:
		g.scope.ChangeType(v.Name, rhs.Type)
	case symbols.FLOAT:
		if rhs.Type != symbols.FLOAT && rhs.Type != symbols.INTEGER {
			return nil, diag.New(diag.Type, b.Line(), "cannot assign %s to float variable %q", rhs.Type, v.Name)
		}
	case symbols.INTEGER:
		if rhs.Type != symbols.INTEGER && rhs.Type != symbols.FLOAT {
			return nil, diag.New(diag.Type, b.Line(), "cannot assign %s to int variable %q", rhs.Type, v.Name)
		}
	default:
		if rhs.Type != meta.Type {
			return nil, diag.New(diag.Type, b.Line(), "cannot assign %s to %s variable %q", rhs.Type, meta.Type, v.Name)
		}
	}

	trueAddr := g.resolveAddress(meta)

	if meta.Type == symbols.FLOAT && rhs.Type == symbols.INTEGER {
		xmm := g.regs.GetFreeXMM()
		g.emit("cvtsi2ss %s, %s", xmm, rhs.Register)
		g.regs.Release(rhs.Register)
		g.emit("movss [rbp - %d], %s", trueAddr, xmm)
		g.regs.Release(xmm)
		return &GenResult{Type: meta.Type, TrueAddress: trueAddr}, nil
	}
	if meta.Type == symbols.INTEGER && rhs.Type == symbols.FLOAT {
		gp := g.regs.GetFree()
		g.emit("cvttss2si %s, %s", gp, rhs.Register)
		g.regs.Release(rhs.Register)
		g.emit("mov [rbp - %d], %s", trueAddr, sizedRegister(gp, meta.Size))
		g.regs.Release(gp)
		return &GenResult{Type: meta.Type, TrueAddress: trueAddr}, nil
	}
	if meta.Type == symbols.FLOAT {
		g.emit("movss [rbp - %d], %s", trueAddr, rhs.Register)
	} else {
		g.emit("mov [rbp - %d], %s", trueAddr, sizedRegister(rhs.Register, meta.Size))
	}
	g.regs.Release(rhs.Register)
	return &GenResult{Type: meta.Type, TrueAddress: trueAddr}, nil
}
