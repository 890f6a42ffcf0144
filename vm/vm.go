// Package vm executes g1 programs.
package vm

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// Canvas receives the drawing instructions.
type Canvas interface {
	Point(x, y int32, c color.RGBA)
	Line(x0, y0, x1, y1 int32, c color.RGBA)
	Rect(x, y, w, h int32, c color.RGBA)
}

// Input is the state of the eight controls, in reserved cell order:
// Enter, RightShift, Z, X, Up, Down, Left, Right.
type Input [op.InputCount]bool

type Config struct {
	Canvas     Canvas    // Optional, drawing is a no-op when nil.
	Output     io.Writer // Log sink, defaults to stdout.
	DisableLog bool      // Skip log instructions without decoding them.

	// OnMessage, if set, is called synchronously for every event.
	OnMessage func(Message)
}

type Machine struct {
	Program *program.Program
	Memory  *Memory

	PC    uint32
	Color color.RGBA
	Steps uint64 // Number of executed instructions.

	cfg Config
}

// New allocates the memory and pre-loads the data entries.
func New(p *program.Program, cfg Config) (*Machine, error) {
	if err := p.CheckData(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	m := &Machine{
		Program: p,
		Memory:  NewMemory(p.Meta.Memory),
		Color:   color.RGBA{A: 0xff},
		cfg:     cfg,
	}
	for _, d := range p.Data {
		m.Memory.load(d.Address, d.Values)
	}
	return m, nil
}

func (m *Machine) send(mt MessageType, msg string) {
	if m.cfg.OnMessage != nil {
		m.cfg.OnMessage(NewMessage(mt, m.PC, msg))
	}
}

// UpdateReserved writes the driver owned cells: input state, meta echo and
// the frame delta. Must be called between runs only.
func (m *Machine) UpdateReserved(in Input, deltaMS int32) {
	for i, pressed := range in {
		var v int32
		if pressed {
			v = 1
		}
		m.Memory.driverSet(i, v)
	}
	for i, v := range m.Program.Meta.Values() {
		m.Memory.driverSet(op.InputCount+i, v)
	}
	m.Memory.driverSet(op.DeltaCell, deltaMS)
}

// Done reports whether the current run reached the end of the instructions.
func (m *Machine) Done() bool {
	return int64(m.PC) >= int64(len(m.Program.Instructions))
}

// Run executes from pc until the program counter leaves the instructions.
func (m *Machine) Run(pc uint32) error {
	m.PC = pc
	for !m.Done() {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunStart runs the start entry, if any.
func (m *Machine) RunStart() error {
	if m.Program.Start == nil {
		return nil
	}
	return m.Run(*m.Program.Start)
}

// RunTick runs the tick entry, if any.
func (m *Machine) RunTick() error {
	if m.Program.Tick == nil {
		return nil
	}
	return m.Run(*m.Program.Tick)
}

// Step executes the instruction at PC. Returns io.EOF when the run is over.
func (m *Machine) Step() error {
	if m.Done() {
		return io.EOF
	}
	ins := m.Program.Instructions[m.PC]
	if m.cfg.OnMessage != nil {
		m.send(MsgStep, ins.String())
	}
	if ins.Op() == op.Log && m.cfg.DisableLog {
		m.PC++
		m.Steps++
		return nil
	}

	next, jump, err := m.exec(ins)
	if err != nil {
		rerr := &RuntimeError{Err: err, PC: m.PC}
		rerr.Line, rerr.Source, rerr.HasSource = m.Program.SourceLine(m.PC)
		m.send(MsgError, rerr.Error())
		return rerr
	}
	if jump {
		m.PC = next
	} else {
		m.PC++
	}
	m.Steps++
	return nil
}
