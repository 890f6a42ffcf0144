package parser

// Label marks the index of the next instruction.
type Label struct {
	Name string
	item item
}

func (l *Label) index(p *Program) {
	if _, ok := p.labels[l.Name]; ok {
		p.p.warnf(l.item, "Label %q declared more than once.", l.Name)
		return
	}
	p.labels[l.Name] = uint32(len(p.raw))
}

func (l *Label) encode(*Program) error { return nil }
