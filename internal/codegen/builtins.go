package codegen

import (
	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/diag"
	"github.com/ion-lang/ionc/internal/symbols"
)

// genFunctionCall dispatches the two built-ins ionc supports; any other
// name is a call to a function the generator does not implement.
func (g *Generator) genFunctionCall(call *ast.FunctionCall) (*GenResult, error) {
	switch call.Name {
	case "write":
		return g.genWrite(call)
	case "read":
		return g.genRead(call)
	default:
		return nil, diag.New(diag.Function, call.Line(), "call to undeclared function %q", call.Name)
	}
}

// genWrite dispatches per-argument on its AST shape: literal forms print
// with an inline printf format, variables and computed expressions
// materialize into a register, sprintf into the scratch buffer, then
// printf that buffer; strings print directly via their interned label.
func (g *Generator) genWrite(call *ast.FunctionCall) (*GenResult, error) {
	for _, arg := range call.Args {
		switch a := arg.(type) {
		case *ast.String:
			g.emit("invoke printf, %s", a.Label)

		case *ast.Integer:
			g.emit("invoke printf, fmt_int, %d", a.Value)

		case *ast.Char:
			g.emit("invoke printf, fmt_char, %d", a.Value)

		case *ast.Boolean:
			// Prints the fixed "1"/"0" literal rather than materializing
			// a register for it (see DESIGN.md's Open Question resolution).
			val := 0
			if a.Value {
				val = 1
			}
			g.emit("invoke printf, fmt_int, %d", val)

		default:
			res, err := g.genExpr(arg)
			if err != nil {
				return nil, err
			}
			switch res.Type {
			case symbols.INTEGER, symbols.BOOLEAN:
				g.emit("invoke sprintf, buffer, fmt_int, %s", sizedRegister(res.Register, 4))
				g.emit("invoke printf, buffer")
			case symbols.CHAR:
				g.emit("invoke sprintf, buffer, fmt_char, %s", sizedRegister(res.Register, 1))
				g.emit("invoke printf, buffer")
			case symbols.STRING:
				g.emit("invoke printf, %s", dereference(res.Register))
			case symbols.FLOAT:
				g.regs.Release(res.Register)
				return nil, diag.New(diag.Type, call.Line(), "write does not support float arguments")
			}
			g.regs.Release(res.Register)
		}
	}
	return &GenResult{}, nil
}

func dereference(reg string) string {
	return "[" + reg + "]"
}

// genRead requires every argument to be a Variable and dispatches the
// scanf format and scratch destination by its symbol-table type.
// UNKNOWN-typed targets are a TYPE error.
func (g *Generator) genRead(call *ast.FunctionCall) (*GenResult, error) {
	for _, arg := range call.Args {
		v, ok := arg.(*ast.Variable)
		if !ok {
			return nil, diag.New(diag.Syntax, call.Line(), "read argument must be a variable")
		}
		meta, ok := g.scope.Lookup(v.Name)
		if !ok {
			return nil, diag.New(diag.Semantic, call.Line(), "reference to undeclared name %q", v.Name)
		}

		var fmtLabel, store string
		switch meta.Type {
		case symbols.INTEGER:
			fmtLabel, store = "fmt_int", "intstore"
		case symbols.CHAR:
			fmtLabel, store = "fmt_char", "charstore"
		case symbols.BOOLEAN:
			fmtLabel, store = "fmt_int", "boolstore"
		case symbols.STRING:
			fmtLabel, store = "fmt_str", "stringstore"
		default:
			return nil, diag.New(diag.Type, call.Line(), "cannot read into variable %q of unknown type", v.Name)
		}

		trueAddr := g.resolveAddress(meta)
		g.emit("invoke scanf, %s, %s", fmtLabel, store)
		reg := g.regs.GetFree()
		g.emit("mov %s, [%s]", sizedRegister(reg, meta.Size), store)
		g.emit("mov [rbp - %d], %s", trueAddr, sizedRegister(reg, meta.Size))
		g.regs.Release(reg)
	}
	return &GenResult{}, nil
}
