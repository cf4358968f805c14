// Package codegen walks the parsed AST and the populated symbol table in
// lock step — replaying the exact scope tree the parser built — emitting
// FASM source text for Windows PE64.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/diag"
	"github.com/ion-lang/ionc/internal/symbols"
)

// GenResult is the triple every AST node's generator returns: the register
// holding its value, the value's resolved type, and (for variables) the
// resolved base-pointer-relative address.
type GenResult struct {
	Register    string
	Type        symbols.DataType
	TrueAddress int
}

// Generator is the single piece of global, mutable code-generation state:
// the register manager, label allocator, the scope cursor being replayed,
// and the cumulative stack offset (the frame's GLOBAL_ADDRESS).
type Generator struct {
	text   strings.Builder
	regs   *RegisterManager
	labels *LabelAllocator
	scope  *symbols.Scope
	global int
	strs   *symbols.StringTable
}

// New returns a Generator ready to walk a program against strs, the
// string-literal intern table the parser built.
func New(strs *symbols.StringTable) *Generator {
	return &Generator{regs: NewRegisterManager(), labels: &LabelAllocator{}, strs: strs}
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.text, format+"\n", args...)
}

func (g *Generator) label(name string) {
	fmt.Fprintf(&g.text, "%s:\n", name)
}

func alignUp(n, to int) int {
	if n%to == 0 {
		return n
	}
	return n + (to - n%to)
}

// Generate emits a complete assembly file for prog, whose statements were
// parsed against root. It returns the full FASM source text.
func Generate(prog *ast.Program, root *symbols.Scope, strs *symbols.StringTable) (string, error) {
	g := New(strs)
	g.scope = root

	frame := alignUp(root.ScopeSize, 16)
	g.emit("mov rbp, rsp")
	if frame > 0 {
		g.emit("sub rsp, %d", frame)
	}
	g.global += frame

	for _, stmt := range prog.Statements {
		if err := g.genStmt(stmt); err != nil {
			return "", err
		}
		if !g.regs.AtStart() {
			return "", diag.New(diag.Runtime, stmt.Line(), "register leak after statement")
		}
	}

	if frame > 0 {
		g.emit("add rsp, %d", frame)
	}
	g.global -= frame
	g.emit("mov ecx, 0")
	g.emit("call [ExitProcess]")

	return g.assemble(), nil
}

// assemble wraps the accumulated body text in the fixed header, .data,
// .text and .idata sections every ionc output file carries.
func (g *Generator) assemble() string {
	var out strings.Builder

	out.WriteString("format PE64 console\n")
	out.WriteString("entry start\n")
	out.WriteString("include 'win64ax.inc'\n\n")

	out.WriteString("section '.data' data readable writeable\n")
	out.WriteString("  buffer rb 256\n")
	out.WriteString("  intstore dd 0\n")
	out.WriteString("  charstore db 0\n")
	out.WriteString("  boolstore dd 0\n")
	out.WriteString("  stringstore rb 256\n")
	out.WriteString("  floatstore dd 0\n")
	out.WriteString("  fmt_int db '%d', 0\n")
	out.WriteString("  fmt_char db '%c', 0\n")
	out.WriteString("  fmt_str db '%s', 0\n")
	for _, e := range g.strs.Entries() {
		out.WriteString(fmt.Sprintf("  %s db %s, 0\n", e.Label, fasmStringLiteral(e.Text)))
		out.WriteString(fmt.Sprintf("  %s_len = %d\n", e.Label, len(e.Text)))
	}
	out.WriteString("\n")

	out.WriteString("section '.text' code readable executable\n")
	out.WriteString("start:\n")
	out.WriteString(g.text.String())
	out.WriteString("\n")

	out.WriteString("section '.idata' import data readable writeable\n")
	out.WriteString("  library kernel32, 'kernel32.dll', msvcrt, 'msvcrt.dll'\n")
	out.WriteString("  import kernel32, ExitProcess, 'ExitProcess'\n")
	out.WriteString("  import msvcrt, printf, 'printf', scanf, 'scanf', sprintf, 'sprintf', _getch, '_getch'\n")

	return out.String()
}

// fasmStringLiteral renders text as a FASM-quoted byte string, doubling
// any embedded single quotes.
func fasmStringLiteral(text string) string {
	return "'" + strings.ReplaceAll(text, "'", "''") + "'"
}
