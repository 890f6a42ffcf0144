package op

import "fmt"

// OperandKind tells how an operand value is used.
type OperandKind uint8

const (
	Literal OperandKind = iota // Immediate value.
	Address                    // Read through memory when decoded.
)

// Encoding returns the binary argument type byte.
func (k OperandKind) Encoding() byte { return byte(k) }

// Decoding is the reverse of Encoding.
func (OperandKind) Decoding(b byte) (OperandKind, error) {
	switch b {
	case 0:
		return Literal, nil
	case 1:
		return Address, nil
	default:
		return 0, fmt.Errorf("invalid argument type %d", b)
	}
}

func (k OperandKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Address:
		return "address"
	default:
		return "unknown"
	}
}
