package reactive

// Atom is the smallest observable source. It carries no value; owners call
// ReportObserved when their state is read and ReportChanged after it mutates.
type Atom struct {
	g    *Graph
	name string
}

// NewAtom creates an atom on g. The name only shows up in error messages.
func NewAtom(g *Graph, name string) *Atom {
	return &Atom{g: g, name: name}
}

// ReportObserved records the atom as a dependency of the derivation being evaluated, if any.
func (a *Atom) ReportObserved() {
	a.g.reportObserved(a)
}

// ReportChanged marks every derivation depending on the atom as dirty.
func (a *Atom) ReportChanged() {
	a.g.reportChanged(a)
}

func (a *Atom) label() string { return a.name }

func (a *Atom) markDirty() []*watcher { return nil }
