package reactive

// Cell is a mutable reactive value. Reading it inside a derivation records a
// dependency; writing it invalidates every dependent derivation.
type Cell[T any] struct {
	atom  *Atom
	value T
	equal func(a, b T) bool
}

// CellOption configures a Cell.
type CellOption[T any] func(*Cell[T])

// WithEqual makes Set a no-op when the new value equals the current one.
func WithEqual[T any](equal func(a, b T) bool) CellOption[T] {
	return func(c *Cell[T]) {
		c.equal = equal
	}
}

// StrictEqual compares values with ==.
func StrictEqual[T comparable]() CellOption[T] {
	return WithEqual(func(a, b T) bool { return a == b })
}

// NewCell creates a cell holding initial.
func NewCell[T any](g *Graph, initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{
		atom:  NewAtom(g, "cell"),
		value: initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current value and records the read.
func (c *Cell[T]) Get() T {
	c.atom.ReportObserved()
	return c.value
}

// Peek returns the current value without recording the read.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores v and invalidates dependents.
func (c *Cell[T]) Set(v T) {
	if c.equal != nil && c.equal(c.value, v) {
		return
	}
	c.value = v
	c.atom.ReportChanged()
}

// Update replaces the value with fn applied to the current one.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.value))
}
