package disasm

import (
	"strings"
	"testing"

	"go.creack.net/g1/asm"
	"go.creack.net/g1/assets"
	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

func equalPrograms(t *testing.T, got, want *program.Program) {
	t.Helper()
	if got.Meta != want.Meta {
		t.Errorf("meta = %+v, want %+v", got.Meta, want.Meta)
	}
	entry := func(i *uint32) int64 {
		if i == nil {
			return -1
		}
		return int64(*i)
	}
	if entry(got.Start) != entry(want.Start) || entry(got.Tick) != entry(want.Tick) {
		t.Errorf("entries start=%d tick=%d, want start=%d tick=%d", entry(got.Start), entry(got.Tick), entry(want.Start), entry(want.Tick))
	}
	if len(got.Instructions) != len(want.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(got.Instructions), len(want.Instructions))
	}
	for i := range want.Instructions {
		if got.Instructions[i] != want.Instructions[i] {
			t.Errorf("instruction %d: got %s, want %s", i, got.Instructions[i], want.Instructions[i])
		}
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	lit, addr := program.Lit, program.Addr
	tcs := []struct {
		name string
		p    *program.Program
	}{
		{"empty", &program.Program{Meta: program.DefaultMeta()}},
		{"loop", &program.Program{
			Meta: program.Meta{Memory: 1 << 20, Width: 320, Height: 200, Tickrate: 30},
			Instructions: []program.Instruction{
				program.MustInstruction(op.Mov, lit(20), lit(-3)),
				program.MustInstruction(op.Add, lit(20), addr(20), lit(1)),
				program.MustInstruction(op.Less, lit(21), addr(20), lit(10)),
				program.MustInstruction(op.Jmp, lit(1), addr(21)),
				program.MustInstruction(op.Jmp, lit(6), lit(1)),
				program.MustInstruction(op.Jmp, lit(-1), lit(0)),
				program.MustInstruction(op.Jmp, lit(99), lit(0)),
				program.MustInstruction(op.Jmp, addr(3), lit(0)),
				program.MustInstruction(op.Rect, addr(20), lit(0), lit(4), lit(4)),
			},
			Start: program.Index(0),
			Tick:  program.Index(1),
		}},
		{"same entries", &program.Program{
			Meta: program.DefaultMeta(),
			Instructions: []program.Instruction{
				program.MustInstruction(op.Log, lit(1)),
				program.MustInstruction(op.Jmp, lit(0), lit(1)),
			},
			Start: program.Index(0),
			Tick:  program.Index(0),
		}},
		{"entries at the end", &program.Program{
			Meta: program.DefaultMeta(),
			Instructions: []program.Instruction{
				program.MustInstruction(op.Jmp, lit(1), lit(1)),
			},
			Start: program.Index(1),
			Tick:  program.Index(1),
		}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			src := Generate(tc.p)
			got, _, err := asm.Compile("gen.g1", src, false)
			if err != nil {
				t.Fatalf("reassemble: %s\n%s", err, src)
			}
			equalPrograms(t, got, tc.p)
		})
	}
}

func TestGenerateEntriesPastEnd(t *testing.T) {
	p := &program.Program{
		Meta:         program.DefaultMeta(),
		Instructions: []program.Instruction{program.MustInstruction(op.Log, program.Lit(1))},
		Start:        program.Index(7),
		Tick:         program.Index(1 << 30),
	}
	src := Generate(p)
	got, _, err := asm.Compile("gen.g1", src, false)
	if err != nil {
		t.Fatalf("reassemble: %s\n%s", err, src)
	}
	if got.Start == nil || *got.Start != 1 || got.Tick == nil || *got.Tick != 1 {
		t.Errorf("entries should move to the end, got start=%v tick=%v\n%s", got.Start, got.Tick, src)
	}
}

func TestGenerateLabels(t *testing.T) {
	p := &program.Program{
		Meta: program.Meta{Memory: 64, Width: 100, Height: 100, Tickrate: 60},
		Instructions: []program.Instruction{
			program.MustInstruction(op.Log, program.Lit(1)),
			program.MustInstruction(op.Jmp, program.Lit(0), program.Lit(1)),
			program.MustInstruction(op.Jmp, program.Lit(1), program.Lit(1)),
		},
		Tick: program.Index(0),
	}
	want := "#memory 64\n\ntick:\n  log 1\nl1:\n  jmp tick 1\n  jmp l1 1\n"
	if got := Generate(p); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDisasmKnownSample(t *testing.T) {
	src, err := assets.Source("bounce")
	if err != nil {
		t.Fatal(err)
	}
	p, _, err := asm.Compile("bounce.g1", src, false)
	if err != nil {
		t.Fatal(err)
	}
	name, _, err := Match(p)
	if err != nil {
		t.Fatal(err)
	}
	if name != "bounce" {
		t.Errorf("match = %q, want bounce", name)
	}
	out, err := Disasm(p)
	if err != nil {
		t.Fatal(err)
	}
	if out != src {
		t.Errorf("expected the sample source, got:\n%s", out)
	}
}

func TestDisasmDebugSource(t *testing.T) {
	src := "tick:\n  log 42 (answer)\n"
	p, _, err := asm.Compile("a.g1", src, true)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Disasm(p)
	if err != nil {
		t.Fatal(err)
	}
	if out != src {
		t.Errorf("got %q, want %q", out, src)
	}
}

func TestDisasmUnknown(t *testing.T) {
	p := &program.Program{
		Meta:         program.DefaultMeta(),
		Instructions: []program.Instruction{program.MustInstruction(op.Log, program.Lit(7))},
		Tick:         program.Index(0),
	}
	name, _, err := Match(p)
	if err != nil {
		t.Fatal(err)
	}
	if name != "" {
		t.Errorf("unexpected match %q", name)
	}
	out, err := Disasm(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "  log 7\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
