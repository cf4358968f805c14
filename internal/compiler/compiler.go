// Package compiler orchestrates the pipeline: lex (on demand, inside the
// parser) → parse (building the AST and the symbol table together) →
// generate (emitting FASM text), stopping at the first diag.Diagnostic any
// stage raises.
package compiler

import (
	"bytes"
	"context"

	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/codegen"
	"github.com/ion-lang/ionc/internal/debugprint"
	"github.com/ion-lang/ionc/internal/parser"
	"github.com/ion-lang/ionc/internal/source"
	"github.com/ion-lang/ionc/internal/symbols"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Options carries the two debug flags ionc's CLI exposes.
type Options struct {
	DebugAST     bool
	DebugSymbols bool
}

// Result is what a successful compilation produces: the assembly text
// plus the intermediate artifacts the debug flags can print. ASTDebug and
// SymbolsDebug are only populated when the matching Options flag was set.
type Result struct {
	Assembly     string
	Program      *ast.Program
	Root         *symbols.Scope
	ASTDebug     string
	SymbolsDebug string
}

// Compile runs the full pipeline over file.Contents and returns the
// generated FASM source text, or the first Diagnostic raised.
func Compile(ctx context.Context, file *source.File, opts Options) (*Result, error) {
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())
	span := tlog.SpanFromContext(ctx)
	span.Printw("compiling", "file", file.Name)

	prog, root, strs, err := parser.Parse(file.Contents)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", file.Name)
	}
	span.Printw("parsed", "file", file.Name, "statements", len(prog.Statements))

	asm, err := codegen.Generate(prog, root, strs)
	if err != nil {
		return nil, errors.Wrap(err, "generate %v", file.Name)
	}
	span.Printw("generated", "file", file.Name, "bytes", len(asm))

	res := &Result{Assembly: asm, Program: prog, Root: root}
	if opts.DebugAST {
		var b bytes.Buffer
		debugprint.PrintAST(&b, prog)
		res.ASTDebug = b.String()
	}
	if opts.DebugSymbols {
		var b bytes.Buffer
		debugprint.PrintScope(&b, root)
		res.SymbolsDebug = b.String()
	}

	return res, nil
}
