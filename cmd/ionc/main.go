package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"github.com/ion-lang/ionc/internal/compiler"
	"github.com/ion-lang/ionc/internal/diag"
	"github.com/ion-lang/ionc/internal/source"
	"github.com/urfave/cli"
)

var (
	noColor      bool
	debugAST     bool
	debugSymbols bool
)

func main() {
	app := cli.NewApp()
	app.Name = "ionc"
	app.Usage = "compile Ion source files to x86-64 FASM assembly"

	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "no-color", Usage: "hide colors in diagnostic output", Destination: &noColor},
		cli.BoolFlag{Name: "debug-ast", Usage: "print the parsed AST for each file", Destination: &debugAST},
		cli.BoolFlag{Name: "debug-symbols", Usage: "print the populated symbol table for each file", Destination: &debugSymbols},
	}

	app.Action = func(c *cli.Context) error {
		status := 0
		for _, arg := range c.Args() {
			if err := compileOne(arg); err != nil {
				status = 1
			}
		}
		os.Exit(status)
		return nil
	}

	app.Run(os.Args)
}

func compileOne(arg string) error {
	if path.Ext(arg) != ".ion" {
		fmt.Println("ERR: File format not recognized")
		return errors.New("bad extension")
	}

	buf, err := ioutil.ReadFile(arg)
	if err != nil {
		fmt.Println("ERR: File not found")
		return err
	}

	base := arg[:len(arg)-4]
	file := &source.File{Name: arg, Base: base, Contents: string(buf)}

	opts := compiler.Options{DebugAST: debugAST, DebugSymbols: debugSymbols}
	result, err := compiler.Compile(context.Background(), file, opts)
	if err != nil {
		printDiagnostic(err)
		return err
	}

	fmt.Print(result.ASTDebug)
	fmt.Print(result.SymbolsDebug)

	outName := base + ".asm"
	if err := ioutil.WriteFile(outName, []byte(result.Assembly), 0644); err != nil {
		fmt.Println(err.Error())
		return err
	}

	return nil
}

// printDiagnostic unwraps err to the *diag.Diagnostic the pipeline raised,
// possibly wrapped by tlog.app/go/errors on its way up, and renders it;
// anything that isn't a Diagnostic prints as a plain message.
func printDiagnostic(err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		fmt.Println(d.Render(!noColor))
		return
	}
	fmt.Println(err.Error())
}
