package parser

import (
	"testing"
)

func collect(input string) []item {
	l := NewLexer("test", input)
	var out []item
	for {
		it := l.nextItem()
		out = append(out, it)
		if it.typ == itemEOF || it.typ == itemError {
			return out
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		types []itemType
		vals  []string
	}{
		{
			name:  "meta",
			input: "#memory 256",
			types: []itemType{itemMeta, itemNumber, itemNewline, itemEOF},
			vals:  []string{"#memory", "256", "\n", ""},
		},
		{
			name:  "instruction",
			input: "tick: mov $5 -10 (set)",
			types: []itemType{itemLabel, itemName, itemAddress, itemNumber, itemComment, itemNewline, itemEOF},
			vals:  []string{"tick", "mov", "$5", "-10", "(set)", "\n", ""},
		},
		{
			name:  "tabs and crlf",
			input: "\tjmp loop_1 1\r\n",
			types: []itemType{itemName, itemName, itemNumber, itemNewline, itemNewline, itemEOF},
			vals:  []string{"jmp", "loop_1", "1", "\n", "\n", ""},
		},
		{
			name:  "multiline comment",
			input: "(a\nb) log 1",
			types: []itemType{itemComment, itemName, itemNumber, itemNewline, itemEOF},
			vals:  []string{"(a\nb)", "log", "1", "\n", ""},
		},
		{
			name:  "number then label",
			input: "1abc:",
			types: []itemType{itemNumber, itemLabel, itemNewline, itemEOF},
			vals:  []string{"1", "abc", "\n", ""},
		},
	}
	for _, tt := range tests {
		items := collect(tt.input)
		if len(items) != len(tt.types) {
			t.Errorf("%s: got %d items %v, want %d", tt.name, len(items), items, len(tt.types))
			continue
		}
		for i, it := range items {
			if it.typ != tt.types[i] {
				t.Errorf("%s: item %d: type %s, want %s", tt.name, i, it.typ, tt.types[i])
			}
			if it.typ != itemEOF && it.val != tt.vals[i] {
				t.Errorf("%s: item %d: value %q, want %q", tt.name, i, it.val, tt.vals[i])
			}
		}
	}
}

func TestLexerPositions(t *testing.T) {
	items := collect("a:\n  mov 1 $2")
	// a: \n mov 1 $2 \n EOF
	want := []struct{ line, col int }{{1, 0}, {1, 2}, {2, 2}, {2, 6}, {2, 8}}
	for i, w := range want {
		if items[i].line != w.line || items[i].col != w.col {
			t.Errorf("item %d %s: pos %d:%d, want %d:%d", i, items[i], items[i].line, items[i].col, w.line, w.col)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input     string
		line, col int
	}{
		{"mov 1 @", 1, 6},
		{"log 1\nlog -x", 2, 4},
		{"log $", 1, 4},
		{"# 1", 1, 0},
		{"log 1 (open", 1, 6},
	}
	for _, tt := range tests {
		items := collect(tt.input)
		last := items[len(items)-1]
		if last.typ != itemError {
			t.Errorf("%q: expected error, got %s", tt.input, last)
			continue
		}
		if last.line != tt.line || last.col != tt.col {
			t.Errorf("%q: error at %d:%d, want %d:%d", tt.input, last.line, last.col, tt.line, tt.col)
		}
	}
}
