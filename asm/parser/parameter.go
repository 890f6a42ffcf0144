package parser

import (
	"math"
	"strconv"
	"strings"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

// Parameter is an unresolved instruction operand.
type Parameter struct {
	Typ   itemType // itemNumber, itemAddress or itemName.
	Value int64    // Numeric value for numbers and addresses.
	Name  string   // Label reference for names.
	item  item
}

func (p Parameter) String() string { return p.item.val }

func newParameter(it item) (Parameter, error) {
	param := Parameter{Typ: it.typ, item: it}
	switch it.typ {
	case itemName:
		param.Name = it.val
		return param, nil
	case itemAddress:
		n, err := strconv.ParseInt(strings.TrimPrefix(it.val, string(op.AddressChar)), 10, 64)
		if err != nil || n > math.MaxInt32 {
			return param, newDiagnostic(SyntaxError, it, "Address %s out of range.", it.val)
		}
		param.Value = n
	default:
		n, err := strconv.ParseInt(it.val, 10, 64)
		if err != nil || n < math.MinInt32 || n > math.MaxInt32 {
			return param, newDiagnostic(SyntaxError, it, "Value %s does not fit in 32 bits.", it.val)
		}
		param.Value = n
	}
	return param, nil
}

// resolve turns the parameter into an operand, looking up label references.
func (p Parameter) resolve(labels map[string]uint32) (program.Operand, error) {
	switch p.Typ {
	case itemName:
		idx, ok := labels[p.Name]
		if !ok {
			return program.Operand{}, newDiagnostic(SyntaxError, p.item, "Undefined label %q.", p.Name)
		}
		return program.Lit(int32(idx)), nil
	case itemAddress:
		return program.Addr(int32(p.Value)), nil
	default:
		return program.Lit(int32(p.Value)), nil
	}
}
