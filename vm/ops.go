package vm

import (
	"fmt"
	"image/color"
	"strconv"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// decode resolves every operand, address operands read through memory.
func (m *Machine) decode(ins program.Instruction) ([op.MaxArgsNumber]int32, error) {
	var out [op.MaxArgsNumber]int32
	for i, arg := range ins.Args() {
		if arg.Kind == op.Literal {
			out[i] = arg.Value
			continue
		}
		v, err := m.Memory.Get(int64(arg.Value))
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func floorDiv(x, y int32) int32 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

func floorMod(x, y int32) int32 {
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func clampComponent(v int32) uint8 {
	return uint8(min(max(v, 0), 0xff))
}

// exec runs one instruction. Returns the new program counter and true when
// the instruction jumped.
func (m *Machine) exec(ins program.Instruction) (uint32, bool, error) {
	a, err := m.decode(ins)
	if err != nil {
		return 0, false, err
	}
	dst := int64(a[0])

	switch ins.Op() {
	// mov. memory[a] = v.
	case op.Mov:
		return 0, false, m.Memory.Set(dst, a[1])

	// movp. memory[a] = memory[b], b being itself already decoded.
	case op.Movp:
		v, err := m.Memory.Get(int64(a[1]))
		if err != nil {
			return 0, false, err
		}
		return 0, false, m.Memory.Set(dst, v)

	// add. sub. mul. 32 bits wrapping arithmetic.
	case op.Add:
		return 0, false, m.Memory.Set(dst, a[1]+a[2])
	case op.Sub:
		return 0, false, m.Memory.Set(dst, a[1]-a[2])
	case op.Mul:
		return 0, false, m.Memory.Set(dst, a[1]*a[2])

	// div. mod. Floored, the result of mod has the sign of the divisor.
	case op.Div, op.Mod:
		if a[2] == 0 {
			return 0, false, ErrDivisionByZero
		}
		if ins.Op() == op.Div {
			return 0, false, m.Memory.Set(dst, floorDiv(a[1], a[2]))
		}
		return 0, false, m.Memory.Set(dst, floorMod(a[1], a[2]))

	case op.Less:
		return 0, false, m.Memory.Set(dst, boolValue(a[1] < a[2]))
	case op.Equal:
		return 0, false, m.Memory.Set(dst, boolValue(a[1] == a[2]))
	case op.Not:
		return 0, false, m.Memory.Set(dst, boolValue(a[1] == 0))

	// jmp. Jump to target if cond is non zero.
	case op.Jmp:
		if a[1] == 0 {
			return 0, false, nil
		}
		if a[0] < 0 {
			return 0, false, fmt.Errorf("%w: %d", ErrJumpRange, a[0])
		}
		return uint32(a[0]), true, nil

	// color. Set the color register, components are clamped.
	case op.Color:
		m.Color = color.RGBA{R: clampComponent(a[0]), G: clampComponent(a[1]), B: clampComponent(a[2]), A: 0xff}

	case op.Point:
		if m.cfg.Canvas != nil {
			m.cfg.Canvas.Point(a[0], a[1], m.Color)
		}
	case op.Line:
		if m.cfg.Canvas != nil {
			m.cfg.Canvas.Line(a[0], a[1], a[2], a[3], m.Color)
		}
	case op.Rect:
		if m.cfg.Canvas != nil {
			m.cfg.Canvas.Rect(a[0], a[1], a[2], a[3], m.Color)
		}

	case op.Log:
		s := strconv.Itoa(int(a[0]))
		fmt.Fprintln(m.cfg.Output, s)
		m.send(MsgLog, s)

	default:
		return 0, false, fmt.Errorf("invalid opcode %d", ins.Op())
	}
	return 0, false, nil
}
