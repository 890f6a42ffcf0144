// Package data loads memory pre-load descriptors.
//
// Each non-blank line has the form "<address> <type> <payload>" where type is
// one of:
//
//	b  even-length hex string, one value per byte
//	s  string, stored as [length, c0, c1, ...]
//	f  file, decoded by extension (images become [width, height, pixels...])
//	F  file, raw bytes, not bounds checked
package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.creack.net/g1/program"
)

var (
	ErrData     = errors.New("data error")
	ErrCapacity = fmt.Errorf("%w: entry data size exceeds memory capacity", ErrData)
)

// Error locates a data error. Line is 1-based.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Report returns the user facing message.
func (e *Error) Report() string { return fmt.Sprintf("DATA ERROR: Line %d: %s", e.Line, e.Err) }

var lineRegex = regexp.MustCompile(`^(\d+) ([fFbs]) (.+)$`)

// Options control how file entries are read.
type Options struct {
	// BaseDir is used to resolve relative file paths.
	BaseDir string
	// Decoders maps lower case file extensions (with the dot) to decoders.
	// Defaults to DefaultDecoders.
	Decoders map[string]Decoder
}

func (o Options) decoder(path string) Decoder {
	decoders := o.Decoders
	if decoders == nil {
		decoders = DefaultDecoders
	}
	if d, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		return d
	}
	return RawDecoder{}
}

func (o Options) resolve(path string) string {
	if filepath.IsAbs(path) || o.BaseDir == "" {
		return path
	}
	return filepath.Join(o.BaseDir, path)
}

// Parse reads a descriptor against the given memory size.
// Any error aborts the whole load. Overlapping spans are returned as warnings.
func Parse(text string, memory uint32, opts Options) ([]program.DataEntry, []Overlap, error) {
	var entries []program.DataEntry
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := parseLine(line, memory, opts)
		if err != nil {
			return nil, nil, &Error{Line: i + 1, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, Overlaps(entries), nil
}

// LoadFile reads a descriptor file. Relative paths inside resolve against its directory.
func LoadFile(path string, memory uint32) ([]program.DataEntry, []Overlap, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read data file: %w", err)
	}
	return Parse(string(buf), memory, Options{BaseDir: filepath.Dir(path)})
}

func parseLine(line string, memory uint32, opts Options) (program.DataEntry, error) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return program.DataEntry{}, fmt.Errorf("%w: expected [address] [f|F|b|s] [data] syntax for data entry", ErrData)
	}
	addr, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return program.DataEntry{}, fmt.Errorf("%w: invalid address %q", ErrData, m[1])
	}
	entry := program.DataEntry{Address: uint32(addr)}
	payload := m[3]

	switch m[2] {
	case "b":
		if entry.Values, err = decodeHex(payload); err != nil {
			return entry, err
		}
	case "s":
		entry.Values = make([]int32, 0, utf8.RuneCountInString(payload)+1)
		entry.Values = append(entry.Values, int32(utf8.RuneCountInString(payload)))
		for _, r := range payload {
			entry.Values = append(entry.Values, int32(r))
		}
	case "f", "F":
		path := opts.resolve(payload)
		if st, err := os.Stat(path); err != nil || !st.Mode().IsRegular() {
			return entry, fmt.Errorf("%w: path %q is either nonexistent or not a file", ErrData, payload)
		}
		buf, err := os.ReadFile(path)
		if err != nil {
			return entry, fmt.Errorf("%w: %w", ErrData, err)
		}
		if m[2] == "F" {
			entry.Values, _ = RawDecoder{}.Decode(buf)
			return entry, nil
		}
		if entry.Values, err = opts.decoder(path).Decode(buf); err != nil {
			return entry, fmt.Errorf("%w: decode %q: %w", ErrData, payload, err)
		}
	}

	if end := uint64(entry.Address) + uint64(len(entry.Values)); end > uint64(memory) {
		return entry, fmt.Errorf("%w (%d > %d), consider allocating more memory", ErrCapacity, end, memory)
	}
	return entry, nil
}

func decodeHex(s string) ([]int32, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: expected hex value for byte data", ErrData)
	}
	out := make([]int32, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		n, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: expected hex value for byte data", ErrData)
		}
		out = append(out, int32(n))
	}
	return out, nil
}

// Span is an inclusive address range.
type Span struct {
	Start, End int64
}

func (s Span) String() string { return fmt.Sprintf("[%d, %d]", s.Start, s.End) }

// Overlap reports two data spans sharing at least one cell.
type Overlap struct {
	A, B Span
}

func (o Overlap) String() string {
	return fmt.Sprintf("Data overlap found between %s and %s.", o.A, o.B)
}

// Overlaps compares every pair of non-empty spans, sorted by start.
func Overlaps(entries []program.DataEntry) []Overlap {
	spans := make([]Span, 0, len(entries))
	for _, e := range entries {
		if len(e.Values) == 0 {
			continue
		}
		spans = append(spans, Span{int64(e.Address), e.End()})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var out []Overlap
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].End >= spans[j].Start {
				out = append(out, Overlap{spans[i], spans[j]})
			}
		}
	}
	return out
}
