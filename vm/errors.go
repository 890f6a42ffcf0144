package vm

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrSetup          = errors.New("setup error")
	ErrOutOfBounds    = errors.New("out of bounds")
	ErrDivisionByZero = errors.New("division by zero")
	ErrJumpRange      = errors.New("jump target out of range")
)

// RuntimeError aborts a run. Line and Source are set when the program
// retained debug information.
type RuntimeError struct {
	Err       error
	PC        uint32
	Line      int // Zero-based.
	Source    string
	HasSource bool
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at pc %d: %s", e.PC, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Report renders the error the way it is shown to the user.
func (e *RuntimeError) Report() string {
	out := "RUNTIME ERROR: " + capitalize(e.Err.Error()) + ".\n"
	if e.HasSource {
		out += strconv.Itoa(e.Line+1) + " | " + e.Source + "\n"
	} else {
		out += "at instruction " + strconv.FormatUint(uint64(e.PC), 10) + "\n"
	}
	return out
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
