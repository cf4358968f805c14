package parser

import (
	"testing"

	"github.com/ion-lang/ionc/internal/ast"
	"github.com/stretchr/testify/require"
)

func TestParse_PrecedenceMultiplicationBindsTighterThanAddition(t *testing.T) {
	prog, _, _, err := Parse("1 + 2 * 3\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	bin, ok := prog.Statements[0].(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)

	require.IsType(t, &ast.Integer{}, bin.LHS)
	rhs, ok := bin.RHS.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", rhs.Op)
}

func TestParse_UnaryMinusAtExpressionStart(t *testing.T) {
	prog, _, _, err := Parse("-5 + 2\n")
	require.NoError(t, err)

	bin := prog.Statements[0].(*ast.Binary)
	unary, ok := bin.LHS.(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, "-", unary.Op)
}

func TestParse_ParenthesesOverridePrecedence(t *testing.T) {
	prog, _, _, err := Parse("(1 + 2) * 3\n")
	require.NoError(t, err)

	bin := prog.Statements[0].(*ast.Binary)
	require.Equal(t, "*", bin.Op)
	require.IsType(t, &ast.Binary{}, bin.LHS)
}

func TestParse_DeclarationWithInitializerBecomesAssignment(t *testing.T) {
	prog, root, _, err := Parse("let x: int = 5 + 3\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	bin := prog.Statements[0].(*ast.Binary)
	require.Equal(t, "=", bin.Op)
	require.Equal(t, "x", bin.LHS.(*ast.Variable).Name)

	meta, ok := root.Lookup("x")
	require.True(t, ok)
	require.Equal(t, 4, meta.Size)
}

func TestParse_DeclarationWithoutInitializerProducesNoStatement(t *testing.T) {
	prog, root, _, err := Parse("let y: char\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 0)

	_, ok := root.Lookup("y")
	require.True(t, ok)
}

func TestParse_RedeclarationIsSemanticError(t *testing.T) {
	_, _, _, err := Parse("let z: int\nlet z: int\n")
	require.Error(t, err)
}

func TestParse_NestedScopesShadow(t *testing.T) {
	prog, root, _, err := Parse("let a: int = 1\n{ let a: int = 2\nwrite(a) }\nwrite(a)\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3) // outer assign, block, outer write

	require.Len(t, root.Children, 1)
	inner := root.Children[0]
	innerMeta, _ := inner.Lookup("a")
	outerMeta, _ := root.Lookup("a")
	require.NotSame(t, innerMeta, outerMeta)
}

func TestParse_WhileConditionStopsAtMatchingCloseParen(t *testing.T) {
	prog, _, _, err := Parse("while (i < 10) { i = i + 1 }\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	loop, ok := prog.Statements[0].(*ast.Loop)
	require.True(t, ok)
	cmp, ok := loop.Condition.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "<", cmp.Op)
}

func TestParse_CallArguments(t *testing.T) {
	prog, _, _, err := Parse(`write("x=", x)` + "\n")
	require.NoError(t, err)

	call, ok := prog.Statements[0].(*ast.FunctionCall)
	require.True(t, ok)
	require.Equal(t, "write", call.Name)
	require.Len(t, call.Args, 2)
	require.IsType(t, &ast.String{}, call.Args[0])
	require.IsType(t, &ast.Variable{}, call.Args[1])
}

func TestParse_ConditionalElseIfChain(t *testing.T) {
	src := "if (a == 1) { write(1) } else if (a == 2) { write(2) } else { write(3) }\n"
	prog, _, _, err := Parse(src)
	require.NoError(t, err)

	cond, ok := prog.Statements[0].(*ast.Conditional)
	require.True(t, ok)
	require.Len(t, cond.Branches, 3)
	require.NotNil(t, cond.Branches[0].Condition)
	require.NotNil(t, cond.Branches[1].Condition)
	require.Nil(t, cond.Branches[2].Condition)
}
