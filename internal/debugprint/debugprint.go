// Package debugprint renders the AST and the symbol table as indented
// text for the two debug CLI flags. It is deliberately a thin,
// hand-rolled printer rather than a reflection-based pretty-printer — see
// DESIGN.md for why.
package debugprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/symbols"
)

func indent(w io.Writer, depth int, format string, args ...interface{}) {
	fmt.Fprint(w, strings.Repeat("  ", depth))
	fmt.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}

// PrintAST writes a depth-indented listing of p's statements.
func PrintAST(w io.Writer, p *ast.Program) {
	fmt.Fprintln(w, "Program")
	for _, stmt := range p.Statements {
		printNode(w, stmt, 1)
	}
}

func printNode(w io.Writer, n ast.Node, depth int) {
	switch v := n.(type) {
	case *ast.Integer:
		indent(w, depth, "Integer %d", v.Value)
	case *ast.Float:
		indent(w, depth, "Float %v", v.Value)
	case *ast.Boolean:
		indent(w, depth, "Boolean %v", v.Value)
	case *ast.Char:
		indent(w, depth, "Char %q", v.Value)
	case *ast.String:
		indent(w, depth, "String %q -> %s", v.Value, v.Label)
	case *ast.Variable:
		indent(w, depth, "Variable %s", v.Name)
	case *ast.Unary:
		indent(w, depth, "Unary %s", v.Op)
		printNode(w, v.Operand, depth+1)
	case *ast.Binary:
		indent(w, depth, "Binary %s", v.Op)
		printNode(w, v.LHS, depth+1)
		printNode(w, v.RHS, depth+1)
	case *ast.Block:
		indent(w, depth, "Block")
		for _, s := range v.Statements {
			printNode(w, s, depth+1)
		}
	case *ast.Conditional:
		indent(w, depth, "Conditional")
		for _, branch := range v.Branches {
			if branch.Condition == nil {
				indent(w, depth+1, "else")
			} else {
				indent(w, depth+1, "branch")
				printNode(w, branch.Condition, depth+2)
			}
			printNode(w, branch.Body, depth+2)
		}
	case *ast.Loop:
		indent(w, depth, "Loop")
		printNode(w, v.Condition, depth+1)
		printNode(w, v.Body, depth+1)
	case *ast.Function:
		indent(w, depth, "Function %s -> %s", v.Name, v.ReturnType)
		for _, param := range v.Params {
			indent(w, depth+1, "param %s: %s", param.Name, param.Type)
		}
		printNode(w, v.Body, depth+1)
	case *ast.FunctionCall:
		indent(w, depth, "Call %s", v.Name)
		for _, arg := range v.Args {
			printNode(w, arg, depth+1)
		}
	case *ast.Return:
		indent(w, depth, "Return")
		printNode(w, v.Value, depth+1)
	default:
		indent(w, depth, "<unknown node>")
	}
}

// PrintScope writes a depth-indented listing of s and its descendants,
// one line per declared name.
func PrintScope(w io.Writer, s *symbols.Scope) {
	printScope(w, s, 0)
}

func printScope(w io.Writer, s *symbols.Scope, depth int) {
	indent(w, depth, "Scope (size=%d)", s.ScopeSize)
	for _, name := range s.OrderedNames() {
		meta, _ := s.Lookup(name)
		indent(w, depth+1, "%s: %s addr=%d rel=%d fn=%v", name, meta.Type, meta.Address, meta.RelativeAddress, meta.IsFunction)
	}
	for _, child := range s.Children {
		printScope(w, child, depth+1)
	}
}
