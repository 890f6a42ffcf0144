package parser

import (
	"strconv"
	"strings"

	"go.creack.net/g1/op"
	"go.creack.net/g1/program"
)

type state int

const (
	stateMeta       state = iota // Header, meta variables allowed.
	stateProcedures              // After the first label.
)

// Node is an element of the parsed source, in file order.
type Node interface {
	index(p *Program)
	encode(p *Program) error
}

// Parser structure
type Parser struct {
	lexer     *lexer
	currToken item
	peekToken item
	state     state
	lines     []string

	Meta     program.Meta
	Nodes    []Node
	Warnings []*Diagnostic
}

// NewParser creates a new parser
func NewParser(name, input string) *Parser {
	lines := strings.Split(input, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	p := &Parser{
		lexer: NewLexer(name, input),
		lines: lines,
		Meta:  program.DefaultMeta(),
	}
	// Preload the next token.
	p.nextToken()
	return p
}

// Lines returns the source split in lines, for diagnostics.
func (p *Parser) Lines() []string { return p.lines }

func (p *Parser) warnf(it item, format string, args ...any) {
	p.Warnings = append(p.Warnings, newDiagnostic(Warning, it, format, args...))
}

func (p *Parser) parseMeta() error {
	metaItem := p.currToken
	if p.state != stateMeta {
		return newDiagnostic(SyntaxError, metaItem, "Found meta variable outside file header.")
	}
	name := strings.TrimPrefix(metaItem.val, string(op.MetaChar))
	known := false
	for _, elem := range op.MetaNames {
		known = known || elem == name
	}
	if !known {
		return newDiagnostic(SyntaxError, metaItem, "Unrecognized meta variable %q.", name)
	}

	p.nextToken()
	if p.currToken.typ == itemError {
		return newDiagnostic(LexError, p.currToken, "%s", p.currToken.val)
	}
	if p.currToken.typ != itemNumber {
		return newDiagnostic(SyntaxError, p.currToken, "Expected a value for meta variable %q.", name)
	}
	n, err := strconv.ParseInt(p.currToken.val, 10, 64)
	if err != nil {
		return newDiagnostic(SyntaxError, p.currToken, "Invalid value %q for meta variable %q.", p.currToken.val, name)
	}
	if err := p.Meta.Set(name, n); err != nil {
		return newDiagnostic(SyntaxError, p.currToken, "Value %d out of range for meta variable %q.", n, name)
	}
	return nil
}

func (p *Parser) parseLabel() {
	p.state = stateProcedures
	p.Nodes = append(p.Nodes, &Label{Name: p.currToken.val, item: p.currToken})
}

func (p *Parser) parseInstruction() error {
	nameItem := p.currToken
	code, ok := op.Lookup(nameItem.val)
	if !ok {
		return newDiagnostic(SyntaxError, nameItem, "Unrecognized instruction %q.", nameItem.val)
	}

	ins := &Instruction{Op: code, item: nameItem}
	for {
		p.nextToken()
		switch p.currToken.typ {
		case itemComment:
			continue
		case itemNumber, itemAddress, itemName:
			param, err := newParameter(p.currToken)
			if err != nil {
				return err
			}
			ins.Params = append(ins.Params, param)
			continue
		case itemError:
			return newDiagnostic(LexError, p.currToken, "%s", p.currToken.val)
		case itemNewline, itemEOF:
		default:
			return newDiagnostic(SyntaxError, p.currToken, "Invalid argument %s for instruction %q.", p.currToken, nameItem.val)
		}
		break
	}

	if len(ins.Params) != code.Arity() {
		return newDiagnostic(SyntaxError, nameItem, "Expected %d argument(s) for instruction %q but got %d.", code.Arity(), nameItem.val, len(ins.Params))
	}
	p.Nodes = append(p.Nodes, ins)
	return nil
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.currToken = p.peekToken
	p.peekToken = p.lexer.nextItem()
}

// Parse consumes the whole token stream, collecting labels and raw
// instructions. Operands are resolved later by Program.
func (p *Parser) Parse() error {
	for {
		p.nextToken()
		item := p.currToken
		if item.typ == itemEOF {
			break
		}
		if item.typ == itemError {
			return newDiagnostic(LexError, item, "%s", item.val)
		}

		var err error
		switch item.typ {
		case itemNewline, itemComment:
			continue
		case itemMeta:
			err = p.parseMeta()
		case itemLabel:
			p.parseLabel()
		case itemName:
			err = p.parseInstruction()
		case itemNumber, itemAddress:
			err = newDiagnostic(SyntaxError, item, "Value outside of instruction.")
		default:
			err = newDiagnostic(SyntaxError, item, "Unexpected %s.", item)
		}
		if err != nil {
			return err
		}
	}

	return nil
}
