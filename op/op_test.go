package op

import "testing"

func TestOpCodeTable(t *testing.T) {
	arities := map[string]int{
		"mov": 2, "movp": 2,
		"add": 3, "sub": 3, "mul": 3, "div": 3, "mod": 3, "less": 3, "equal": 3,
		"not": 2, "jmp": 2, "color": 3, "point": 2, "line": 4, "rect": 4, "log": 1,
	}
	if len(OpCodeTable) != len(arities) {
		t.Fatalf("table has %d entries, want %d", len(OpCodeTable), len(arities))
	}
	for i, elem := range OpCodeTable {
		if int(elem.Code) != i {
			t.Errorf("%s: code %d at index %d", elem.Name, elem.Code, i)
		}
		if want := arities[elem.Name]; elem.Arity != want {
			t.Errorf("%s: arity %d, want %d", elem.Name, elem.Arity, want)
		}
		if elem.Arity > MaxArgsNumber {
			t.Errorf("%s: arity %d exceeds MaxArgsNumber", elem.Name, elem.Arity)
		}
		code, ok := Lookup(elem.Name)
		if !ok || code != elem.Code {
			t.Errorf("Lookup(%q) = %d, %v", elem.Name, code, ok)
		}
	}
	if _, ok := Lookup("print"); ok {
		t.Error("Lookup(print) should fail")
	}
}

func TestAssigns(t *testing.T) {
	for _, name := range []string{"mov", "movp", "add", "sub", "mul", "div", "mod", "less", "equal", "not"} {
		o, _ := Lookup(name)
		if !o.Assigns() {
			t.Errorf("%s should be assignment class", name)
		}
	}
	for _, name := range []string{"jmp", "color", "point", "line", "rect", "log"} {
		o, _ := Lookup(name)
		if o.Assigns() {
			t.Errorf("%s should not be assignment class", name)
		}
	}
}

func TestSizes(t *testing.T) {
	if got := HeaderStructSize(); got != 24 {
		t.Errorf("HeaderStructSize() = %d, want 24", got)
	}
	if got := InstructionSize(Line); got != 21 {
		t.Errorf("InstructionSize(line) = %d, want 21", got)
	}
	if Opcode(16).Valid() {
		t.Error("opcode 16 should be invalid")
	}
	if _, err := Literal.Decoding(2); err == nil {
		t.Error("Decoding(2) should fail")
	}
}
