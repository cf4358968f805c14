package codegen

import (
	"testing"

	"github.com/ion-lang/ionc/internal/parser"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	prog, root, strs, err := parser.Parse(src)
	require.NoError(t, err)
	asm, err := Generate(prog, root, strs)
	require.NoError(t, err)
	return asm
}

func TestGenerate_EmitsPrologueAndEpilogue(t *testing.T) {
	asm := generate(t, "let x: int = 1\n")
	require.Contains(t, asm, "mov rbp, rsp")
	require.Contains(t, asm, "sub rsp, 16")
	require.Contains(t, asm, "add rsp, 16")
	require.Contains(t, asm, "mov ecx, 0")
	require.Contains(t, asm, "call [ExitProcess]")
}

func TestGenerate_EmitsFixedSections(t *testing.T) {
	asm := generate(t, "write(1)\n")
	require.Contains(t, asm, "format PE64 console")
	require.Contains(t, asm, "section '.data'")
	require.Contains(t, asm, "section '.text'")
	require.Contains(t, asm, "section '.idata'")
	require.Contains(t, asm, "import msvcrt, printf")
}

func TestGenerate_InternedStringGetsDataEntry(t *testing.T) {
	asm := generate(t, `write("hello")`+"\n")
	require.Contains(t, asm, "str_0 db 'hello', 0")
	require.Contains(t, asm, "str_0_len = 5")
}

func TestGenerate_ArithmeticEmitsArithmeticOpcode(t *testing.T) {
	asm := generate(t, "let x: int = 1 + 2\n")
	require.Contains(t, asm, "add ")
}

func TestGenerate_DivisionDoesNotClobberLiveOperand(t *testing.T) {
	asm := generate(t, "let x: int = (1+2) + 6/3\n")
	require.Contains(t, asm, "idiv")
	require.NotContains(t, asm, "mov rax, rax")
}

func TestGenerate_ComparisonEmitsSetAndMovzx(t *testing.T) {
	asm := generate(t, "let x: int = 1\nlet y: bool = x < 2\n")
	require.Contains(t, asm, "setl al")
	require.Contains(t, asm, "movzx")
}

func TestGenerate_IntAssignmentAcceptsFloatRHS(t *testing.T) {
	asm := generate(t, "let x: int = 1\nlet y: float = 2.5\nx = y\n")
	require.Contains(t, asm, "cvttss2si")
}

func TestGenerate_ConditionalEmitsEndIfLabel(t *testing.T) {
	asm := generate(t, "let x: int = 1\nif (x < 2) { write(1) } else { write(2) }\n")
	require.Contains(t, asm, "end_if_0:")
}

func TestGenerate_RejectsFunctionDeclaration(t *testing.T) {
	prog, root, strs, err := parser.Parse("fn f(a: int): int { return a }\n")
	require.NoError(t, err)
	_, err = Generate(prog, root, strs)
	require.Error(t, err)
}
