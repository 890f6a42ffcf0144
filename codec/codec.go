// Package codec maps programs to and from the g1 binary format.
//
// All integers are big endian. Instruction arities are not stored, they come
// from the op table.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// ErrFormat is returned for any malformed binary input.
var ErrFormat = errors.New("invalid g1 binary")

// IsBinary reports whether b starts with the binary signature.
func IsBinary(b []byte) bool {
	return bytes.HasPrefix(b, []byte(op.Signature))
}

func entry(idx *uint32) (int32, error) {
	if idx == nil {
		return op.NoEntry, nil
	}
	if *idx > math.MaxInt32 {
		return 0, fmt.Errorf("entry index %d does not fit in 32 bits", *idx)
	}
	return int32(*idx), nil
}

// Encode serializes the program. Debug information is dropped.
func Encode(p *program.Program) ([]byte, error) {
	tick, err := entry(p.Tick)
	if err != nil {
		return nil, fmt.Errorf("tick: %w", err)
	}
	start, err := entry(p.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, op.HeaderStructSize()+len(p.Instructions)*op.InstructionSize(op.Line)))
	tmp := make([]byte, 4)
	put32 := func(v uint32) {
		op.Endian.PutUint32(tmp, v)
		buf.Write(tmp)
	}
	put16 := func(v uint16) {
		op.Endian.PutUint16(tmp, v)
		buf.Write(tmp[:2])
	}

	// Header.
	buf.WriteString(op.Signature)
	put32(p.Meta.Memory)
	put16(p.Meta.Width)
	put16(p.Meta.Height)
	put16(p.Meta.Tickrate)
	put32(uint32(tick))
	put32(uint32(start))

	// Instructions.
	put32(uint32(len(p.Instructions)))
	for i, ins := range p.Instructions {
		if !ins.Op().Valid() {
			return nil, fmt.Errorf("instruction %d: invalid opcode %d", i, ins.Op())
		}
		buf.WriteByte(byte(ins.Op()))
		for _, arg := range ins.Args() {
			buf.WriteByte(arg.Kind.Encoding())
			put32(uint32(arg.Value))
		}
	}

	// Data.
	put32(uint32(len(p.Data)))
	for _, d := range p.Data {
		if uint64(len(d.Values)) > math.MaxUint32 {
			return nil, fmt.Errorf("data entry at %d has too many values", d.Address)
		}
		put32(d.Address)
		put32(uint32(len(d.Values)))
		for _, v := range d.Values {
			put32(uint32(v))
		}
	}
	return buf.Bytes(), nil
}
