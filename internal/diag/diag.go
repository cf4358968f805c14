// Package diag implements the compiler's single tagged-error model: every
// stage reports failure as one Diagnostic carrying a kind, a message and an
// optional line number, and the pipeline stops at the first one raised.
package diag

import (
	"fmt"

	"github.com/fatih/color"
	"tlog.app/go/errors"
)

// Kind classifies a Diagnostic. The values mirror ErrorType in the original
// ion compiler's error.hpp one-for-one.
type Kind int

const (
	Syntax Kind = iota
	Semantic
	Type
	Runtime
	Reference
	Scope
	Function
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Semantic:
		return "semantic error"
	case Type:
		return "type error"
	case Runtime:
		return "runtime error"
	case Reference:
		return "reference error"
	case Scope:
		return "scope error"
	case Function:
		return "function error"
	default:
		return "unknown error"
	}
}

// NoLine suppresses the "at line N" clause when rendering a Diagnostic.
const NoLine = -1

// Diagnostic is the only error shape the compiler ever raises once past the
// CLI boundary. It satisfies the error interface so it can be threaded
// through ordinary Go control flow.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	cause   error
}

// New constructs a Diagnostic with no underlying cause.
func New(kind Kind, line int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line}
}

// Wrap attaches a Diagnostic to an unexpected lower-level failure (a failed
// file read, a malformed buffer) while still exposing one of the seven Kind
// values at the CLI boundary. The original cause is preserved via
// tlog.app/go/errors so a stack trace survives for debugging without ever
// being shown to the end user.
func Wrap(kind Kind, line int, cause error, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		cause:   errors.Wrap(cause, fmt.Sprintf(format, args...)),
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Line == NoLine {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at line %d: %s", d.Kind, d.Line, d.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chains.
func (d *Diagnostic) Unwrap() error {
	return d.cause
}

// Render formats the Diagnostic the way the CLI prints it: bold red for the
// classification, plain text for the rest. withColor controls whether ANSI
// escapes are emitted at all.
func (d *Diagnostic) Render(withColor bool) string {
	color.NoColor = !withColor
	bold := color.New(color.FgRed, color.Bold).SprintFunc()

	if d.Line == NoLine {
		return fmt.Sprintf("%s %s", bold(d.Kind.String()+":"), d.Message)
	}
	return fmt.Sprintf("%s %s", bold(fmt.Sprintf("%s at line %d:", d.Kind, d.Line)), d.Message)
}
