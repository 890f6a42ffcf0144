package op

// Class groups opcodes by their effect.
type Class int

const (
	ClassAssign  Class = iota // First operand is the destination address.
	ClassControl              // Changes the program counter.
	ClassDraw                 // Delegated to the canvas.
	ClassOutput               // Delegated to the log sink.
)

func (c Class) String() string {
	switch c {
	case ClassAssign:
		return "assign"
	case ClassControl:
		return "control"
	case ClassDraw:
		return "draw"
	case ClassOutput:
		return "output"
	default:
		return "unknown class"
	}
}
