package parser

import (
	"fmt"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// Program resolves the parsed nodes into an intermediate program.
type Program struct {
	p     *Parser
	debug bool

	labels map[string]uint32
	raw    []*Instruction
	out    *program.Program
}

func NewProgram(p *Parser, debug bool) *Program {
	return &Program{
		p:      p,
		debug:  debug,
		labels: map[string]uint32{},
	}
}

// Labels returns the label table. Only valid after Build.
func (p *Program) Labels() map[string]uint32 { return p.labels }

// Build runs both sub-passes: first index every label against the raw
// instruction list, then resolve the operands. Labels are visible from the
// whole file.
func (p *Program) Build() (*program.Program, error) {
	p.out = &program.Program{
		Meta:         p.p.Meta,
		Instructions: make([]program.Instruction, 0, len(p.p.Nodes)),
	}
	for _, n := range p.p.Nodes {
		n.index(p)
	}
	for _, n := range p.p.Nodes {
		if err := n.encode(p); err != nil {
			return nil, err
		}
	}
	if len(p.out.Instructions) != len(p.raw) {
		return nil, fmt.Errorf("resolved %d instructions out of %d", len(p.out.Instructions), len(p.raw))
	}

	if idx, ok := p.labels[op.TickLabel]; ok {
		p.out.Tick = program.Index(idx)
	} else {
		p.p.Warnings = append(p.p.Warnings, &Diagnostic{Kind: Warning, Msg: fmt.Sprintf("%q label not found in program.", op.TickLabel)})
	}
	if idx, ok := p.labels[op.StartLabel]; ok {
		p.out.Start = program.Index(idx)
	}
	if p.debug {
		p.out.Source = p.p.lines
	}
	return p.out, nil
}
