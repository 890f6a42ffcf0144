package parser

import (
	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// Instruction is a raw instruction with unresolved parameters.
type Instruction struct {
	Op     op.Opcode
	Params []Parameter
	item   item
}

func (ins *Instruction) String() string {
	out := "<" + ins.Op.String()
	for _, param := range ins.Params {
		out += " " + param.String()
	}
	return out + ">"
}

func (ins *Instruction) index(p *Program) {
	p.raw = append(p.raw, ins)
}

func (ins *Instruction) encode(p *Program) error {
	args := make([]program.Operand, 0, len(ins.Params))
	for _, param := range ins.Params {
		arg, err := param.resolve(p.labels)
		if err != nil {
			return err
		}
		args = append(args, arg)
	}

	if ins.Op.Assigns() && args[0].Kind == op.Literal && args[0].Value >= 0 && args[0].Value < op.ReservedCells {
		p.p.warnf(ins.Params[0].item, "Assignment to a reserved memory location.")
	}

	out, err := program.NewInstruction(ins.Op, args...)
	if err != nil {
		return newDiagnostic(SyntaxError, ins.item, "%s", err)
	}
	if p.debug {
		out = out.WithLine(ins.item.line - 1)
	}
	p.out.Instructions = append(p.out.Instructions, out)
	return nil
}
