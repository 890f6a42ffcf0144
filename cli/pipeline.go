package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-isatty"

	"go.creack.net/g1/asm"
	"go.creack.net/g1/codec"
	"go.creack.net/g1/data"
	"go.creack.net/g1/program"
)

// ErrReported is returned once the failure has been written for the user.
var ErrReported = errors.New("reported")

func newPrinter(w io.Writer) *pp.PrettyPrinter {
	printer := pp.New()
	printer.SetOutput(w)
	f, ok := w.(*os.File)
	printer.SetColoringEnabled(ok && isatty.IsTerminal(f.Fd()))
	return printer
}

func checkFile(path string) error {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return usageErrorf("could not find file %q", path)
	}
	return nil
}

// Assemble compiles cfg.Input, attaches the data entries and writes the
// result. Diagnostics go to stderr, the -p dump to stdout.
func Assemble(cfg AssembleConfig, stdout, stderr io.Writer) error {
	if err := checkFile(cfg.Input); err != nil {
		return err
	}
	if cfg.Data != "" {
		if err := checkFile(cfg.Data); err != nil {
			return err
		}
	}

	src, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	prog, warnings, err := asm.Compile(cfg.Input, string(src), cfg.Debug)
	asm.Report(stderr, string(src), warnings, err)
	if err != nil {
		return ErrReported
	}

	// Add data entries.
	if cfg.Data != "" {
		entries, overlaps, err := data.LoadFile(cfg.Data, prog.Meta.Memory)
		if err != nil {
			var derr *data.Error
			if errors.As(err, &derr) {
				fmt.Fprintln(stderr, derr.Report())
				return ErrReported
			}
			return fmt.Errorf("failed to load data: %w", err)
		}
		for _, o := range overlaps {
			fmt.Fprintf(stderr, "WARNING: %s\n", o)
		}
		prog.Data = entries
	}

	if cfg.Pretty {
		newPrinter(stdout).Println(prog)
		return nil
	}

	buf, err := Encode(prog, cfg.Format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Output, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Encode serializes the program in the given format.
func Encode(p *program.Program, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		buf, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return buf, nil
	case FormatBinary:
		buf, err := codec.Encode(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode binary: %w", err)
		}
		return buf, nil
	default:
		return nil, usageErrorf("unknown format %q", format)
	}
}

// LoadProgram reads either form, sniffing the binary signature.
func LoadProgram(path string) (*program.Program, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if codec.IsBinary(buf) {
		p, err := codec.Decode(buf)
		if err != nil {
			return nil, fmt.Errorf("failed to decode program %q: %w", path, err)
		}
		return p, nil
	}
	p, err := program.ParseJSON(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program %q: %w", path, err)
	}
	return p, nil
}

const dumpWidth = 8

// DumpMemory writes the cells, dumpWidth per row. Runs of zero rows are
// collapsed into a single '*'.
func DumpMemory(w io.Writer, cells []int32) {
	zz := make([]int32, dumpWidth)
	for i := 0; i < len(cells); i += dumpWidth {
		row := cells[i:min(i+dumpWidth, len(cells))]
		if len(row) == dumpWidth && slices.Equal(row, zz) {
			fmt.Fprintln(w, "*")
			for i+2*dumpWidth <= len(cells) && slices.Equal(cells[i+dumpWidth:i+2*dumpWidth], zz) {
				i += dumpWidth
			}
			continue
		}
		fmt.Fprintf(w, "0x%04X:", i)
		for _, v := range row {
			fmt.Fprintf(w, " %d", v)
		}
		fmt.Fprintln(w)
	}
}
