package program

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/g1/op"
)

// jsonProgram is the structured text form.
type jsonProgram struct {
	Meta         Meta              `json:"meta"`
	Instructions []jsonInstruction `json:"instructions"`
	Tick         *uint32           `json:"tick,omitempty"`
	Start        *uint32           `json:"start,omitempty"`
	Data         []DataEntry       `json:"data,omitempty"`
	Source       []string          `json:"source,omitempty"`
}

type jsonInstruction struct {
	Instruction
}

// MarshalJSON encodes an operand as a number (literal) or "$n" (address).
func (o Operand) MarshalJSON() ([]byte, error) {
	if o.Kind == op.Address {
		return json.Marshal(o.String())
	}
	return json.Marshal(o.Value)
}

func (o *Operand) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if !strings.HasPrefix(s, string(op.AddressChar)) {
			return fmt.Errorf("invalid address operand %q", s)
		}
		n, err := strconv.ParseInt(s[1:], 10, 32)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid address operand %q", s)
		}
		*o = Addr(int32(n))
		return nil
	}
	var n int32
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid literal operand %s: %w", b, err)
	}
	*o = Lit(n)
	return nil
}

// MarshalJSON encodes ["name", [args...]] with an optional trailing line.
func (ins jsonInstruction) MarshalJSON() ([]byte, error) {
	elems := []any{ins.code.String(), ins.Args()}
	if line, ok := ins.Line(); ok {
		elems = append(elems, line)
	}
	return json.Marshal(elems)
}

func (ins *jsonInstruction) UnmarshalJSON(b []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return err
	}
	if len(elems) != 2 && len(elems) != 3 {
		return fmt.Errorf("instruction must have 2 or 3 elements, got %d", len(elems))
	}
	var name string
	if err := json.Unmarshal(elems[0], &name); err != nil {
		return fmt.Errorf("instruction name: %w", err)
	}
	code, ok := op.Lookup(name)
	if !ok {
		return fmt.Errorf("unrecognized instruction %q", name)
	}
	var args []Operand
	if err := json.Unmarshal(elems[1], &args); err != nil {
		return fmt.Errorf("instruction %q arguments: %w", name, err)
	}
	i, err := NewInstruction(code, args...)
	if err != nil {
		return err
	}
	if len(elems) == 3 {
		var line int
		if err := json.Unmarshal(elems[2], &line); err != nil {
			return fmt.Errorf("instruction %q line: %w", name, err)
		}
		i = i.WithLine(line)
	}
	ins.Instruction = i
	return nil
}

// MarshalJSON encodes [address, [values...]].
func (d DataEntry) MarshalJSON() ([]byte, error) {
	values := d.Values
	if values == nil {
		values = []int32{}
	}
	return json.Marshal([]any{d.Address, values})
}

func (d *DataEntry) UnmarshalJSON(b []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return err
	}
	if len(elems) != 2 {
		return fmt.Errorf("data entry must have 2 elements, got %d", len(elems))
	}
	if err := json.Unmarshal(elems[0], &d.Address); err != nil {
		return fmt.Errorf("data entry address: %w", err)
	}
	if err := json.Unmarshal(elems[1], &d.Values); err != nil {
		return fmt.Errorf("data entry values: %w", err)
	}
	return nil
}

func (p *Program) MarshalJSON() ([]byte, error) {
	jp := jsonProgram{
		Meta:         p.Meta,
		Instructions: make([]jsonInstruction, len(p.Instructions)),
		Tick:         p.Tick,
		Start:        p.Start,
		Data:         p.Data,
		Source:       p.Source,
	}
	for i, ins := range p.Instructions {
		jp.Instructions[i] = jsonInstruction{ins}
	}
	return json.Marshal(jp)
}

func (p *Program) UnmarshalJSON(b []byte) error {
	jp := jsonProgram{Meta: DefaultMeta()}
	if err := json.Unmarshal(b, &jp); err != nil {
		return err
	}
	*p = Program{
		Meta:         jp.Meta,
		Instructions: make([]Instruction, len(jp.Instructions)),
		Tick:         jp.Tick,
		Start:        jp.Start,
		Data:         jp.Data,
		Source:       jp.Source,
	}
	for i, ins := range jp.Instructions {
		p.Instructions[i] = ins.Instruction
	}
	return nil
}

// ParseJSON decodes the structured text form.
func ParseJSON(b []byte) (*Program, error) {
	p := &Program{}
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("decode program json: %w", err)
	}
	return p, nil
}
