// Package disasm turns a program back into assembly source.
package disasm

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/g1/asm"
	"go.creack.net/g1/assets"
	"go.creack.net/g1/codec"
	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

func md5sum(data []byte) string {
	h := md5.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func programSum(p *program.Program) (string, error) {
	buf, err := codec.Encode(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode program: %w", err)
	}
	return md5sum(buf), nil
}

// Match looks for an embedded sample assembling to the same binary as p.
// Returns an empty name when nothing matches.
func Match(p *program.Program) (name, src string, err error) {
	search, err := programSum(p)
	if err != nil {
		return "", "", err
	}
	names, err := assets.Samples()
	if err != nil {
		return "", "", fmt.Errorf("failed to list samples: %w", err)
	}
	for _, name := range names {
		src, err := assets.Source(name)
		if err != nil {
			return "", "", fmt.Errorf("failed to read sample %q: %w", name, err)
		}
		sample, _, err := asm.Compile(name+assets.Ext, src, false)
		if err != nil {
			// Should not happen.
			return "", "", fmt.Errorf("failed to compile sample %q: %w", name, err)
		}
		sum, err := programSum(sample)
		if err != nil {
			return "", "", err
		}
		if sum == search {
			return name, src, nil
		}
	}
	return "", "", nil
}

// Disasm returns the source of p. Source lines kept in debug mode come first,
// then a known sample's text, then generated source.
func Disasm(p *program.Program) (string, error) {
	if len(p.Source) > 0 {
		return strings.Join(p.Source, "\n"), nil
	}
	name, src, err := Match(p)
	if err != nil {
		return "", err
	}
	if name != "" {
		return src, nil
	}
	return Generate(p), nil
}

// Generate writes source that assembles back to p. Data entries have no
// source form and are left out.
func Generate(p *program.Program) string {
	var sb strings.Builder

	def := program.DefaultMeta().Values()
	for i, v := range p.Meta.Values() {
		if v != def[i] {
			fmt.Fprintf(&sb, "%c%s %d\n", op.MetaChar, op.MetaNames[i], uint32(v))
		}
	}
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}

	// Labels per instruction index. Index len(Instructions) is the end.
	// An entry past the end runs nothing, same as one at the end, so it is
	// labeled there.
	n := len(p.Instructions)
	labels := make([][]string, n+1)
	entry := func(idx *uint32, name string) {
		if idx == nil {
			return
		}
		i := min(int64(*idx), int64(n))
		labels[i] = append(labels[i], name)
	}
	entry(p.Start, op.StartLabel)
	entry(p.Tick, op.TickLabel)
	targets := map[int32]string{}
	for _, ins := range p.Instructions {
		if ins.Op() != op.Jmp {
			continue
		}
		t := ins.Args()[0]
		if t.Kind != op.Literal || t.Value < 0 || int(t.Value) > n {
			continue
		}
		if _, ok := targets[t.Value]; ok {
			continue
		}
		if len(labels[t.Value]) > 0 {
			targets[t.Value] = labels[t.Value][0]
			continue
		}
		name := "l" + strconv.Itoa(int(t.Value))
		targets[t.Value] = name
		labels[t.Value] = append(labels[t.Value], name)
	}
	for i := 0; i <= n; i++ {
		for _, l := range labels[i] {
			fmt.Fprintf(&sb, "%s%c\n", l, op.LabelChar)
		}
		if i == n {
			break
		}
		ins := p.Instructions[i]
		sb.WriteString("  " + ins.Op().String())
		for j, a := range ins.Args() {
			if name, ok := targets[a.Value]; ok && j == 0 && ins.Op() == op.Jmp && a.Kind == op.Literal {
				sb.WriteString(" " + name)
				continue
			}
			sb.WriteString(" " + a.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
