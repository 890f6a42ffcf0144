package codec

import (
	"fmt"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// reader walks the buffer, every read checks for truncation.
type reader struct {
	buf []byte
	idx int
}

func (r *reader) take(n int, what string) ([]byte, error) {
	if len(r.buf)-r.idx < n {
		return nil, fmt.Errorf("truncated buffer reading %s at offset %d: %w", what, r.idx, ErrFormat)
	}
	b := r.buf[r.idx : r.idx+n]
	r.idx += n
	return b, nil
}

func (r *reader) u8(what string) (uint8, error) {
	b, err := r.take(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16(what string) (uint16, error) {
	b, err := r.take(2, what)
	if err != nil {
		return 0, err
	}
	return op.Endian.Uint16(b), nil
}

func (r *reader) u32(what string) (uint32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return op.Endian.Uint32(b), nil
}

func (r *reader) entry(what string) (*uint32, error) {
	v, err := r.u32(what)
	if err != nil {
		return nil, err
	}
	switch n := int32(v); {
	case n == op.NoEntry:
		return nil, nil
	case n < 0:
		return nil, fmt.Errorf("invalid %s index %d: %w", what, n, ErrFormat)
	default:
		return program.Index(uint32(n)), nil
	}
}

// DecodeNextInstruction decodes the instruction at the start of buf.
// Returns the instruction and how many bytes have been consumed.
func DecodeNextInstruction(buf []byte) (program.Instruction, int, error) {
	r := &reader{buf: buf}
	ins, err := r.instruction()
	return ins, r.idx, err
}

func (r *reader) instruction() (program.Instruction, error) {
	b, err := r.u8("opcode")
	if err != nil {
		return program.Instruction{}, err
	}
	code := op.Opcode(b)
	if !code.Valid() {
		return program.Instruction{}, fmt.Errorf("invalid opcode %d at offset %d: %w", b, r.idx-1, ErrFormat)
	}
	var args [op.MaxArgsNumber]program.Operand
	for i := range code.Arity() {
		t, err := r.u8("argument type")
		if err != nil {
			return program.Instruction{}, err
		}
		kind, err := new(op.OperandKind).Decoding(t)
		if err != nil {
			return program.Instruction{}, fmt.Errorf("%s argument %d: %w: %w", code, i+1, err, ErrFormat)
		}
		v, err := r.u32("argument value")
		if err != nil {
			return program.Instruction{}, err
		}
		args[i] = program.Operand{Kind: kind, Value: int32(v)}
	}
	ins, err := program.NewInstruction(code, args[:code.Arity()]...)
	if err != nil {
		return program.Instruction{}, fmt.Errorf("%w: %w", err, ErrFormat)
	}
	return ins, nil
}

// Decode parses a binary program. Trailing bytes are ignored.
func Decode(buf []byte) (*program.Program, error) {
	if !IsBinary(buf) {
		return nil, fmt.Errorf("signature mismatch: %w", ErrFormat)
	}
	r := &reader{buf: buf, idx: op.SignatureSize}
	p := &program.Program{}

	var err error
	if p.Meta.Memory, err = r.u32("meta.memory"); err != nil {
		return nil, err
	}
	if p.Meta.Width, err = r.u16("meta.width"); err != nil {
		return nil, err
	}
	if p.Meta.Height, err = r.u16("meta.height"); err != nil {
		return nil, err
	}
	if p.Meta.Tickrate, err = r.u16("meta.tickrate"); err != nil {
		return nil, err
	}
	if p.Tick, err = r.entry("tick"); err != nil {
		return nil, err
	}
	if p.Start, err = r.entry("start"); err != nil {
		return nil, err
	}

	count, err := r.u32("instruction count")
	if err != nil {
		return nil, err
	}
	// Every instruction takes at least one byte, don't trust the count for the allocation.
	p.Instructions = make([]program.Instruction, 0, min(int(count), len(buf)-r.idx))
	for i := range count {
		ins, err := r.instruction()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		p.Instructions = append(p.Instructions, ins)
	}

	count, err = r.u32("data entry count")
	if err != nil {
		return nil, err
	}
	for i := range count {
		d := program.DataEntry{}
		if d.Address, err = r.u32("data address"); err != nil {
			return nil, err
		}
		size, err := r.u32("data size")
		if err != nil {
			return nil, err
		}
		raw, err := r.take(int(size)*op.ValueSize, fmt.Sprintf("data entry %d values", i))
		if err != nil {
			return nil, err
		}
		d.Values = make([]int32, size)
		for j := range d.Values {
			d.Values[j] = int32(op.Endian.Uint32(raw[j*op.ValueSize:]))
		}
		p.Data = append(p.Data, d)
	}
	return p, nil
}
