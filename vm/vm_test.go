package vm

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"testing"

	"go.creack.net/g1/asm"
	"go.creack.net/g1/program"
)

func compile(t *testing.T, src string) *program.Program {
	t.Helper()
	p, _, err := asm.Compile("test.g1", src, true)
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	return p
}

func newMachine(t *testing.T, src string) (*Machine, *bytes.Buffer) {
	t.Helper()
	out := bytes.NewBuffer(nil)
	m, err := New(compile(t, src), Config{Output: out})
	if err != nil {
		t.Fatal(err)
	}
	return m, out
}

func mem(t *testing.T, m *Machine, addr int64) int32 {
	t.Helper()
	v, err := m.Memory.Get(addr)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestMovThroughAddress(t *testing.T) {
	m, _ := newMachine(t, "tick:\n  mov 20 10\n  mov 21 $20\n")
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if mem(t, m, 20) != 10 || mem(t, m, 21) != 10 {
		t.Errorf("memory[20]=%d memory[21]=%d, want 10 10", mem(t, m, 20), mem(t, m, 21))
	}

	// Address operands are decoded before dispatch, destination included.
	m, _ = newMachine(t, "tick:\n  mov 30 40\n  mov $30 7\n")
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if got := mem(t, m, 40); got != 7 {
		t.Errorf("memory[40] = %d, want 7", got)
	}
}

func TestMovAddressDestination(t *testing.T) {
	// Both destinations are address operands, so they are read first:
	// memory[5] and memory[6] are 0 and both writes land in cell 0.
	m, _ := newMachine(t, "tick:\n  mov $5 10\n  mov $6 $5\n")
	m.PC = *m.Program.Tick
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if mem(t, m, 0) != 10 || mem(t, m, 5) != 0 {
		t.Errorf("after mov $5 10: memory[0]=%d memory[5]=%d, want 10 0", mem(t, m, 0), mem(t, m, 5))
	}
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if mem(t, m, 0) != 0 || mem(t, m, 6) != 0 {
		t.Errorf("after mov $6 $5: memory[0]=%d memory[6]=%d, want 0 0", mem(t, m, 0), mem(t, m, 6))
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int32
	}{
		{"add 20 2 3", 5},
		{"sub 20 2 3", -1},
		{"mul 20 -4 3", -12},
		{"mul 20 2147483647 2", -2},
		{"add 20 2147483647 1", -2147483648},
		{"div 20 7 2", 3},
		{"div 20 -7 2", -4},
		{"div 20 7 -2", -4},
		{"div 20 -2147483648 -1", -2147483648},
		{"mod 20 7 3", 1},
		{"mod 20 -7 3", 2},
		{"mod 20 7 -3", -2},
		{"mod 20 -6 3", 0},
		{"less 20 1 2", 1},
		{"less 20 2 2", 0},
		{"equal 20 2 2", 1},
		{"equal 20 2 3", 0},
		{"not 20 0", 1},
		{"not 20 -3", 0},
		{"movp 20 8", 128},
	}
	for _, tt := range tests {
		m, _ := newMachine(t, "tick:\n  "+tt.src+"\n")
		m.UpdateReserved(Input{}, 0)
		if err := m.RunTick(); err != nil {
			t.Errorf("%s: %s", tt.src, err)
			continue
		}
		if got := mem(t, m, 20); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{"tick:\n  mov 20 5\n  div 20 10 0\n", "tick:\n  mov 20 5\n  mod 20 10 $0\n"} {
		m, _ := newMachine(t, src)
		err := m.RunTick()
		var rerr *RuntimeError
		if !errors.As(err, &rerr) || !errors.Is(err, ErrDivisionByZero) {
			t.Fatalf("expected division by zero, got %v", err)
		}
		if rerr.PC != 1 || !rerr.HasSource || rerr.Line != 2 {
			t.Errorf("unexpected error location: %+v", rerr)
		}
		if got := mem(t, m, 20); got != 5 {
			t.Errorf("destination mutated: %d", got)
		}
		if m.PC != 1 {
			t.Errorf("pc moved to %d", m.PC)
		}
	}
}

func TestRuntimeErrorReport(t *testing.T) {
	m, _ := newMachine(t, "#memory 16\ntick:\n  log $16\n")
	err := m.RunTick()
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
	want := "RUNTIME ERROR: Cannot get at address 16 since it is out of bounds.\n3 |   log $16\n"
	if got := rerr.Report(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Without debug information only the pc is reported.
	p := compile(t, "tick:\n  mov -1 0\n").StripDebug()
	m2, err := New(p, Config{})
	if err != nil {
		t.Fatal(err)
	}
	err = m2.RunTick()
	if !errors.As(err, &rerr) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if want := "RUNTIME ERROR: Cannot set at address -1 since it is out of bounds.\nat instruction 0\n"; rerr.Report() != want {
		t.Errorf("got %q, want %q", rerr.Report(), want)
	}
}

func TestJump(t *testing.T) {
	src := `tick:
  add 20 $20 1
  equal 21 $20 3
  jmp end $21
  jmp tick 1
end:
  jmp tick 0
  log $20
`
	m, out := newMachine(t, src)
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if got := mem(t, m, 20); got != 3 {
		t.Errorf("loop ran %d times, want 3", got)
	}
	if out.String() != "3\n" {
		t.Errorf("unexpected log output %q", out.String())
	}

	m, _ = newMachine(t, "tick:\n  jmp -1 1\n")
	if err := m.RunTick(); !errors.Is(err, ErrJumpRange) {
		t.Errorf("expected jump range error, got %v", err)
	}

	// Jumping past the end terminates the run.
	m, out = newMachine(t, "tick:\n  jmp 100 1\n  log 1\n")
	if err := m.RunTick(); err != nil || out.Len() != 0 {
		t.Errorf("unexpected result %v %q", err, out)
	}
}

func TestStep(t *testing.T) {
	src := "l0:\n  log 0\n  log 1\n  log 2\n  jmp l0 1\n  log 4\n"
	m, _ := newMachine(t, src)
	m.PC = 3
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.PC != 0 {
		t.Errorf("jmp l0 1: pc = %d, want 0", m.PC)
	}

	src = "l0:\n  log 0\n  log 1\n  log 2\n  jmp l0 0\n  log 4\n"
	m, _ = newMachine(t, src)
	m.PC = 3
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.PC != 4 {
		t.Errorf("jmp l0 0: pc = %d, want 4", m.PC)
	}
	m.PC = 5
	if err := m.Step(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestEntries(t *testing.T) {
	m, out := newMachine(t, "start:\n  log 1\ntick:\n  log 2\n")
	if err := m.RunStart(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "1\n2\n" {
		t.Errorf("start should fall through into tick, got %q", out)
	}
	out.Reset()
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "2\n" {
		t.Errorf("got %q", out)
	}

	m, out = newMachine(t, "log 1\n")
	if err := m.RunStart(); err != nil {
		t.Fatal(err)
	}
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should run without entries, got %q", out)
	}
}

func TestDisableLog(t *testing.T) {
	var msgs []Message
	out := bytes.NewBuffer(nil)
	m, err := New(compile(t, "tick:\n  log $1000\n  log 5\n"), Config{
		Output:     out,
		DisableLog: true,
		OnMessage:  func(msg Message) { msgs = append(msgs, msg) },
	})
	if err != nil {
		t.Fatal(err)
	}
	// Out of bounds operand is never decoded.
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out)
	}
	if len(msgs) != 2 || msgs[0].Type != MsgStep || msgs[1].PC != 1 {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestUpdateReserved(t *testing.T) {
	m, _ := newMachine(t, "#memory 20\n#tickrate 30\ntick:\n  log 1\n")
	m.UpdateReserved(Input{true, false, true, false, false, false, false, true}, 16)
	want := []int32{1, 0, 1, 0, 0, 0, 0, 1, 20, 100, 100, 30, 16}
	for i, w := range want {
		if got := mem(t, m, int64(i)); got != w {
			t.Errorf("cell %d = %d, want %d", i, got, w)
		}
	}

	// Memory smaller than the reserved area.
	small, err := New(&program.Program{Meta: program.Meta{Memory: 4}}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	small.UpdateReserved(Input{true}, 5)
	if small.Memory.Len() != 4 || mem(t, small, 0) != 1 {
		t.Error("unexpected small memory state")
	}
}

func TestSetupData(t *testing.T) {
	p := &program.Program{
		Meta: program.Meta{Memory: 10},
		Data: []program.DataEntry{{Address: 8, Values: []int32{1, 2}}},
	}
	m, err := New(p, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Memory.Slice(7, 12); len(got) != 3 || got[1] != 1 || got[2] != 2 {
		t.Errorf("unexpected memory %v", got)
	}

	p.Data[0].Address = 9
	if _, err := New(p, Config{}); !errors.Is(err, ErrSetup) {
		t.Errorf("expected setup error, got %v", err)
	}
}

type recorder struct {
	calls []string
	color color.RGBA
}

func (r *recorder) Point(x, y int32, c color.RGBA) {
	r.calls = append(r.calls, "point")
	r.color = c
}
func (r *recorder) Line(x0, y0, x1, y1 int32, c color.RGBA) { r.calls = append(r.calls, "line") }
func (r *recorder) Rect(x, y, w, h int32, c color.RGBA)     { r.calls = append(r.calls, "rect") }

func TestDraw(t *testing.T) {
	rec := &recorder{}
	m, err := New(compile(t, "tick:\n  color 300 -5 7\n  point 1 2\n  line 0 0 5 5\n  rect 0 0 2 2\n"), Config{Canvas: rec})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.RunTick(); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 3 {
		t.Errorf("unexpected calls %v", rec.calls)
	}
	if want := (color.RGBA{R: 255, G: 0, B: 7, A: 255}); rec.color != want {
		t.Errorf("color = %v, want %v", rec.color, want)
	}
}
