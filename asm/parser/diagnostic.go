package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	LexError    Kind = iota // Unrecognized lexeme, fatal.
	SyntaxError             // Fatal.
	Warning                 // Reported, assembly continues.
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case SyntaxError:
		return "syntax error"
	case Warning:
		return "warning"
	default:
		return "unknown diagnostic"
	}
}

// Diagnostic is an assembler error or warning.
// Line is 1-based, 0 when the diagnostic has no position. Column is 0-based.
type Diagnostic struct {
	Kind   Kind
	Line   int
	Column int
	Msg    string
}

func (d *Diagnostic) Error() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Msg)
	}
	return fmt.Sprintf("[%d:%d]: %s: %s", d.Line, d.Column+1, d.Kind, d.Msg)
}

// Fatal reports whether the diagnostic aborts assembly.
func (d *Diagnostic) Fatal() bool { return d.Kind != Warning }

// Format renders the diagnostic with the offending line and a caret under the column.
func (d *Diagnostic) Format(lines []string) string {
	header := "ASSEMBLER ERROR: "
	if !d.Fatal() {
		header = "ASSEMBLER WARNING: "
	}
	out := header + d.Msg + "\n"
	if d.Line < 1 || d.Line > len(lines) {
		return out
	}
	prefix := strconv.Itoa(d.Line) + " | "
	out += prefix + lines[d.Line-1] + "\n"
	out += strings.Repeat(" ", len(prefix)+d.Column) + "^\n"
	return out
}

func newDiagnostic(kind Kind, it item, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:   kind,
		Line:   it.line,
		Column: it.col,
		Msg:    fmt.Sprintf(format, args...),
	}
}
