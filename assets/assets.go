// Package assets embeds a few sample g1 programs.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

// Ext is the source file extension.
const Ext = ".g1"

//go:embed samples/*.g1
var samples embed.FS

// Samples returns the sample names, without extension, in lexical order.
func Samples() ([]string, error) {
	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	return names, nil
}

// Source returns the source text of the named sample.
func Source(name string) (string, error) {
	buf, err := samples.ReadFile(path.Join("samples", name+Ext))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
