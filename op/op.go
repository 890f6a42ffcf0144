// Package op holds the definitions shared by the assembler, the binary codec
// and the virtual machine: the opcode table, the meta defaults and the
// reserved memory layout.
package op

import (
	"encoding/binary"
)

var Endian = binary.BigEndian

// Signature starts every binary program.
const Signature = "g1"

const (
	MaxArgsNumber = 4  // Widest instruction (line, rect).
	ReservedCells = 12 // Cells [0, ReservedCells) belong to the driver.
	InputCount    = 8  // Cells [0, InputCount) hold the input controls.
	DeltaCell     = 12 // Milliseconds since the previous frame.
)

// Meta variable names and defaults.
const (
	MetaMemory   = "memory"
	MetaWidth    = "width"
	MetaHeight   = "height"
	MetaTickrate = "tickrate"

	DefaultMemory   = 128
	DefaultWidth    = 100
	DefaultHeight   = 100
	DefaultTickrate = 60
)

// MetaNames lists the meta variables in their reserved-cell echo order (cells 8-11).
var MetaNames = [4]string{MetaMemory, MetaWidth, MetaHeight, MetaTickrate}

// Entry label names.
const (
	StartLabel = "start"
	TickLabel  = "tick"
)

// Tokens.
const (
	MetaChar         = '#'
	AddressChar      = '$'
	LabelChar        = ':'
	CommentOpenChar  = '('
	CommentCloseChar = ')'
	NegativeChar     = '-'
)

// Opcode identifies an instruction. Its value is the binary opcode id, i.e.
// the index in OpCodeTable.
type Opcode uint8

// OpCode is the definition of an instruction.
type OpCode struct {
	Name    string
	Code    Opcode
	Arity   int
	Class   Class
	Comment string
}

// Lookup returns the opcode for the given mnemonic.
func Lookup(name string) (Opcode, bool) {
	for _, elem := range OpCodeTable {
		if elem.Name == name {
			return elem.Code, true
		}
	}
	return 0, false
}

// Valid reports whether o is in the table.
func (o Opcode) Valid() bool { return int(o) < len(OpCodeTable) }

// Def returns the table entry. o must be valid.
func (o Opcode) Def() OpCode { return OpCodeTable[o] }

func (o Opcode) Arity() int { return OpCodeTable[o].Arity }

// Assigns reports whether the first operand is a destination address.
func (o Opcode) Assigns() bool { return OpCodeTable[o].Class == ClassAssign }

func (o Opcode) String() string {
	if !o.Valid() {
		return "unknown"
	}
	return OpCodeTable[o].Name
}
