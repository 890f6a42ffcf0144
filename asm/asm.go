// Package asm compiles g1 assembly source into an intermediate program.
package asm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.creack.net/g1/asm/parser"
	"go.creack.net/g1/program"
)

// Compile assembles the given source. Warnings are returned even on success.
// A fatal diagnostic is returned as a *parser.Diagnostic error.
// In debug mode, each instruction keeps its source line and the program
// keeps the source text.
func Compile(inputName, inputData string, debug bool) (*program.Program, []*parser.Diagnostic, error) {
	// Parse the input.
	p := parser.NewParser(inputName, inputData)
	if err := p.Parse(); err != nil {
		return nil, p.Warnings, err
	}

	// Resolve the operands.
	pr := parser.NewProgram(p, debug)
	out, err := pr.Build()
	if err != nil {
		return nil, p.Warnings, err
	}
	return out, p.Warnings, nil
}

// Report writes the diagnostics with their source line and caret.
// err may be nil, otherwise it is written last.
func Report(w io.Writer, inputData string, warnings []*parser.Diagnostic, err error) {
	lines := strings.Split(inputData, "\n")
	for _, elem := range warnings {
		fmt.Fprint(w, elem.Format(lines))
	}
	if err == nil {
		return
	}
	var diag *parser.Diagnostic
	if errors.As(err, &diag) {
		fmt.Fprint(w, diag.Format(lines))
		return
	}
	fmt.Fprintf(w, "ASSEMBLER ERROR: %s\n", err)
}
