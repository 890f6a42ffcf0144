// Package program defines the intermediate representation produced by the
// assembler, persisted by the codec and executed by the vm.
package program

import (
	"fmt"
	"strconv"

	"go.creack.net/g1/op"
)

// Meta is the program header.
type Meta struct {
	Memory   uint32 `json:"memory"`
	Width    uint16 `json:"width"`
	Height   uint16 `json:"height"`
	Tickrate uint16 `json:"tickrate"`
}

// DefaultMeta returns the header used when a source sets no meta variable.
func DefaultMeta() Meta {
	return Meta{
		Memory:   op.DefaultMemory,
		Width:    op.DefaultWidth,
		Height:   op.DefaultHeight,
		Tickrate: op.DefaultTickrate,
	}
}

// Values returns the meta values in op.MetaNames order.
func (m Meta) Values() [4]int32 {
	return [4]int32{int32(m.Memory), int32(m.Width), int32(m.Height), int32(m.Tickrate)}
}

// Set assigns the named meta variable. The value must fit the field.
func (m *Meta) Set(name string, v int64) error {
	limit := int64(1<<16 - 1)
	if name == op.MetaMemory {
		limit = 1<<32 - 1
	}
	if v < 0 || v > limit {
		return fmt.Errorf("meta variable %q value %d out of range [0, %d]", name, v, limit)
	}
	switch name {
	case op.MetaMemory:
		m.Memory = uint32(v)
	case op.MetaWidth:
		m.Width = uint16(v)
	case op.MetaHeight:
		m.Height = uint16(v)
	case op.MetaTickrate:
		m.Tickrate = uint16(v)
	default:
		return fmt.Errorf("unknown meta variable %q", name)
	}
	return nil
}

// Operand is an instruction argument.
type Operand struct {
	Kind  op.OperandKind
	Value int32
}

// Lit returns a literal operand.
func Lit(v int32) Operand { return Operand{Kind: op.Literal, Value: v} }

// Addr returns an address operand.
func Addr(a int32) Operand { return Operand{Kind: op.Address, Value: a} }

func (o Operand) String() string {
	if o.Kind == op.Address {
		return string(op.AddressChar) + strconv.Itoa(int(o.Value))
	}
	return strconv.Itoa(int(o.Value))
}

// Instruction is an opcode with exactly op.Arity operands.
// The zero value is not valid, use NewInstruction.
type Instruction struct {
	code  op.Opcode
	args  [op.MaxArgsNumber]Operand
	line  int
	debug bool
}

// NewInstruction validates the opcode and operand count.
func NewInstruction(code op.Opcode, args ...Operand) (Instruction, error) {
	if !code.Valid() {
		return Instruction{}, fmt.Errorf("invalid opcode %d", code)
	}
	if len(args) != code.Arity() {
		return Instruction{}, fmt.Errorf("expected %d argument(s) for instruction %q but got %d", code.Arity(), code, len(args))
	}
	for i, a := range args {
		if a.Kind == op.Address && a.Value < 0 {
			return Instruction{}, fmt.Errorf("argument %d of %q: negative address %d", i+1, code, a.Value)
		}
	}
	ins := Instruction{code: code}
	copy(ins.args[:], args)
	return ins, nil
}

// MustInstruction is like NewInstruction but panics on error.
func MustInstruction(code op.Opcode, args ...Operand) Instruction {
	ins, err := NewInstruction(code, args...)
	if err != nil {
		panic(err)
	}
	return ins
}

// WithLine returns a copy of the instruction carrying its zero-based source line.
func (ins Instruction) WithLine(line int) Instruction {
	ins.line = line
	ins.debug = true
	return ins
}

// StripLine returns a copy of the instruction without debug information.
func (ins Instruction) StripLine() Instruction {
	ins.line = 0
	ins.debug = false
	return ins
}

func (ins Instruction) Op() op.Opcode { return ins.code }

// Args returns the operands. The slice aliases a copy, callers may keep it.
func (ins Instruction) Args() []Operand {
	return ins.args[:ins.code.Arity()]
}

// Line returns the zero-based source line, if known.
func (ins Instruction) Line() (int, bool) { return ins.line, ins.debug }

func (ins Instruction) String() string {
	out := ins.code.String()
	for _, a := range ins.Args() {
		out += " " + a.String()
	}
	return out
}

// DataEntry is a contiguous memory pre-load.
type DataEntry struct {
	Address uint32
	Values  []int32
}

// End returns the address of the last value.
func (d DataEntry) End() int64 { return int64(d.Address) + int64(len(d.Values)) - 1 }

// Program is the assembled program.
type Program struct {
	Meta         Meta
	Instructions []Instruction
	Start        *uint32 // Entry run once before the first frame.
	Tick         *uint32 // Entry run on every frame.
	Data         []DataEntry
	Source       []string // Source lines, debug only.
}

// Index is a helper to build optional entry points.
func Index(i uint32) *uint32 { return &i }

// CheckData validates every data entry against the memory size.
func (p *Program) CheckData() error {
	for _, d := range p.Data {
		if end := int64(d.Address) + int64(len(d.Values)); end > int64(p.Meta.Memory) {
			return fmt.Errorf("data entry spans from %d to %d but only %d slots were allocated", d.Address, end, p.Meta.Memory)
		}
	}
	return nil
}

// StripDebug returns a shallow copy without source lines or line numbers.
func (p *Program) StripDebug() *Program {
	out := *p
	out.Source = nil
	out.Instructions = make([]Instruction, len(p.Instructions))
	for i, ins := range p.Instructions {
		out.Instructions[i] = ins.StripLine()
	}
	return &out
}

// SourceLine returns the source text of the given instruction, if debug
// information was retained.
func (p *Program) SourceLine(pc uint32) (int, string, bool) {
	if int(pc) >= len(p.Instructions) {
		return 0, "", false
	}
	line, ok := p.Instructions[pc].Line()
	if !ok || line < 0 || line >= len(p.Source) {
		return 0, "", false
	}
	return line, p.Source[line], true
}
