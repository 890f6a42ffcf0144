// Package cli provides the functions to parse the non-standard CLI flags
// and the file level pipelines shared by the commands.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUsage is returned for invalid command lines.
var ErrUsage = errors.New("usage")

// Output formats.
const (
	FormatJSON   = "json"
	FormatBinary = "g1b"

	DefaultFormat = FormatJSON
)

var formats = []string{FormatJSON, FormatBinary}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// AssembleConfig is the assemble command line.
type AssembleConfig struct {
	Input  string
	Output string
	Data   string // Optional data descriptor.
	Debug  bool   // Keep the source lines.
	Format string // FormatJSON or FormatBinary.
	Pretty bool   // Dump the program instead of writing it.
}

// ParseAssemble parses `<input> <output> [-d <data file>] [-dbg] [-f json|g1b] [-p]`.
// The positional arguments come first. The format defaults to the output
// extension, then to json.
func ParseAssemble(args []string) (AssembleConfig, error) {
	var cfg AssembleConfig
	if len(args) < 1 {
		return cfg, usageErrorf("missing input file")
	}
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return cfg, usageErrorf("expected output file at argument 2")
	}
	cfg.Input, cfg.Output = args[0], args[1]

	// Process the flags manually.
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		switch arg := rest[i]; arg {
		case "-d":
			if i+1 >= len(rest) {
				return cfg, usageErrorf("expected argument after flag %q", arg)
			}
			i++ // Skip the value.
			cfg.Data = rest[i]
		case "-dbg":
			cfg.Debug = true
		case "-f":
			if i+1 >= len(rest) {
				return cfg, usageErrorf("expected argument after flag %q", arg)
			}
			i++
			f := rest[i]
			if !validFormat(f) {
				return cfg, usageErrorf("got output format %q but expected one of %s", f, strings.Join(formats, ", "))
			}
			cfg.Format = f
		case "-p":
			cfg.Pretty = true
		default:
			return cfg, usageErrorf("got unrecognized flag %q", arg)
		}
	}

	// Get format from the output file extension.
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
		if ext := strings.TrimPrefix(filepath.Ext(cfg.Output), "."); validFormat(ext) {
			cfg.Format = ext
		}
	}
	return cfg, nil
}

func validFormat(f string) bool {
	for _, elem := range formats {
		if elem == f {
			return true
		}
	}
	return false
}

// RunConfig is the run command line.
type RunConfig struct {
	Program    string
	Scale      int
	ShowFPS    bool
	Step       bool // Open the step debugger instead of the window.
	DisableLog bool
	DumpMemory bool // Print the memory once the program exits.
}

// ParseRun parses `<program> [-s <scale>] [-f|-fps] [-S] [-dl] [-m]`.
// Flags may appear before or after the program path.
func ParseRun(args []string) (RunConfig, error) {
	cfg := RunConfig{Scale: 1}
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "-s" && i+1 < len(args) {
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return cfg, usageErrorf("invalid scale %q", args[i+1])
			}
			cfg.Scale = n
			i++ // Skip the value of -s.
			continue
		} else if arg == "-s" {
			return cfg, usageErrorf("expected argument after flag %q", arg)
		}

		switch arg {
		case "-f", "-fps":
			cfg.ShowFPS = true
		case "-S":
			cfg.Step = true
		case "-dl":
			cfg.DisableLog = true
		case "-m":
			cfg.DumpMemory = true
		default:
			if strings.HasPrefix(arg, "-") {
				return cfg, usageErrorf("got unrecognized flag %q", arg)
			}
			if cfg.Program != "" {
				return cfg, usageErrorf("unexpected argument %q", arg)
			}
			cfg.Program = arg
		}
	}
	if cfg.Program == "" {
		return cfg, usageErrorf("missing program file")
	}
	return cfg, nil
}
