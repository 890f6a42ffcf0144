package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.creack.net/g1/op"
)

type stateFn func(*lexer) stateFn

const eof = -1

type itemType int

const (
	itemError itemType = iota // Error occurred; value is the offending text.
	itemNewline
	itemMeta    // #name
	itemNumber  // -?[0-9]+
	itemAddress // $[0-9]+
	itemLabel   // name: (value excludes the colon)
	itemName
	itemComment // (...)
	itemEOF     // End of the input.
)

func (it itemType) String() string {
	switch it {
	case itemError:
		return "<error>"
	case itemNewline:
		return "<newline>"
	case itemMeta:
		return "<meta>"
	case itemNumber:
		return "<number>"
	case itemAddress:
		return "<address>"
	case itemLabel:
		return "<label>"
	case itemName:
		return "<name>"
	case itemComment:
		return "<comment>"
	case itemEOF:
		return "<eof>"
	default:
		return fmt.Sprintf("<unknown token %d>", it)
	}
}

type item struct {
	typ  itemType // The type of this item.
	pos  Pos      // The start position, in bytes, of this item in the input string.
	val  string   // The value of this item.
	line int      // The line number at the start of this item.
	col  int      // The zero-based column, in runes, of the start of this item.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case i.typ == itemNewline:
		return "'\\n'"
	case len(i.val) > 10:
		return fmt.Sprintf("%s %.10q...", i.typ, i.val)
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

type Pos int

const (
	digits     = "0123456789"
	letters    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	nameChars  = letters + digits + "_"
	blankChars = " \t\r"
)

// lexer holds the state of the scanner.
type lexer struct {
	name      string // The name of the input; used only for error reports.
	input     string // The string being scanned.
	pos       Pos    // Current position in the input.
	start     Pos    // Start position of this item.
	atEOF     bool   // We have hit the end of input and returned eof.
	line      int    // 1+number of newlines seen.
	startLine int    // Start line of this item.
	item      item   // Item to return to parser.
}

// column returns the rune column of pos within its line.
func (l *lexer) column(pos Pos) int {
	lineStart := strings.LastIndexByte(l.input[:pos], '\n') + 1
	return utf8.RuneCountInString(l.input[lineStart:pos])
}

// errorf returns an error token and terminates the scan by passing
// back a nil pointer that will be the next state, terminating l.nextItem.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.item = item{itemError, l.start, fmt.Sprintf(format, args...), l.startLine, l.column(l.start)}
	l.input = l.input[:l.start]
	l.pos = l.start
	return nil
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.atEOF = true
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += Pos(w)
	if r == '\n' {
		l.line++
	}
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune.
func (l *lexer) backup() {
	if !l.atEOF && l.pos > 0 {
		r, w := utf8.DecodeLastRuneInString(l.input[:l.pos])
		l.pos -= Pos(w)
		// Correct newline count.
		if r == '\n' {
			l.line--
		}
	}
}

// thisItem returns the item at the current input point with the specified type
// and advances the input.
func (l *lexer) thisItem(t itemType) item {
	i := item{t, l.start, l.input[l.start:l.pos], l.startLine, l.column(l.start)}
	l.start = l.pos
	l.startLine = l.line
	return i
}

// emit passes the trailing text as an item back to the parser.
func (l *lexer) emit(t itemType) stateFn {
	return l.emitItem(l.thisItem(t))
}

// emitItem passes the specified item to the parser.
func (l *lexer) emitItem(i item) stateFn {
	l.item = i
	return nil
}

// ignore skips over the pending input before this point.
// It tracks newlines in the ignored text, so use it only
// for text that is skipped without calling l.next.
func (l *lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
}

// accept consumes the next rune if it's from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) bool {
	accepted := false
	for strings.ContainsRune(valid, l.next()) {
		accepted = true
	}
	l.backup()
	return accepted
}

// lexText scans the next token.
func lexText(l *lexer) stateFn {
	l.acceptRun(blankChars)
	l.ignore()
	switch r := l.peek(); {
	case r == eof:
		return l.emit(itemEOF)
	case r == '\n':
		l.next()
		return l.emit(itemNewline)
	case r == op.MetaChar:
		return lexMeta
	case r == op.AddressChar:
		return lexAddress
	case r == op.NegativeChar || ('0' <= r && r <= '9'):
		return lexNumber
	case r == op.CommentOpenChar:
		return lexComment
	case strings.ContainsRune(letters+"_", r):
		return lexName
	default:
		l.next()
		return l.errorf("Unrecognized token %q.", r)
	}
}

func lexMeta(l *lexer) stateFn {
	l.next()
	if !l.acceptRun(letters) {
		return l.errorf("Missing meta variable name.")
	}
	return l.emit(itemMeta)
}

func lexAddress(l *lexer) stateFn {
	l.next()
	if !l.acceptRun(digits) {
		return l.errorf("Missing address value.")
	}
	return l.emit(itemAddress)
}

func lexNumber(l *lexer) stateFn {
	// Optional leading sign.
	l.accept(string(op.NegativeChar))
	if !l.acceptRun(digits) {
		return l.errorf("Missing digits after sign.")
	}
	// NOTE: A number directly followed by name chars is still a number,
	// the remaining chars start the next token.
	return l.emit(itemNumber)
}

func lexName(l *lexer) stateFn {
	l.acceptRun(nameChars)
	// If the name is directly followed by a label char, it is a label declaration.
	if l.peek() == op.LabelChar {
		i := l.thisItem(itemLabel)
		l.next()
		l.ignore()
		return l.emitItem(i)
	}
	return l.emit(itemName)
}

// lexComment scans a parenthesized comment. Comments do not nest and may span lines.
func lexComment(l *lexer) stateFn {
	for {
		r := l.next()
		if r == eof {
			return l.errorf("Unterminated comment.")
		}
		if r == op.CommentCloseChar {
			break
		}
	}
	return l.emit(itemComment)
}

// nextItem returns the next item from the input.
// Called by the parser, not in the lexing goroutine.
func (l *lexer) nextItem() item {
	l.item = item{itemEOF, l.pos, "EOF", l.startLine, l.column(l.pos)}
	state := lexText
	for {
		state = state(l)
		if state == nil {
			return l.item
		}
	}
}

// NewLexer creates a new scanner for the input string.
// A trailing newline is appended so the last line always terminates.
func NewLexer(name, input string) *lexer {
	return &lexer{
		name:      name,
		input:     input + "\n",
		line:      1,
		startLine: 1,
	}
}
