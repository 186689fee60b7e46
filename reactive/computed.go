package reactive

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when a computed value is read from inside its own derivation.
var ErrCycle = errors.New("reactive: cycle in computed derivation")

// State is the freshness of a computed value.
type State int

const (
	// StateDirty means the cached result may be stale and is recomputed on the next read.
	StateDirty State = iota
	// StateClean means no source changed since the last evaluation.
	StateClean
	// StateDisposed means the value no longer tracks or caches anything.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateDirty:
		return "dirty"
	case StateClean:
		return "clean"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

type watcher struct {
	fn        func()
	cancelled bool
}

// ComputedOption configures a Computed.
type ComputedOption func(*computedConfig)

type computedConfig struct {
	name string
}

// Named sets the name reported in cycle errors.
func Named(name string) ComputedOption {
	return func(c *computedConfig) {
		c.name = name
	}
}

// Computed is a memoized derivation. It is evaluated lazily on Get while
// dirty, records every reactive source read by the derivation, and becomes
// dirty again only when one of those sources changes.
type Computed[T any] struct {
	g      *Graph
	name   string
	derive func() (T, error)

	state    State
	value    T
	err      error
	watchers []*watcher

	evaluating bool
	// changed is set when a source read by the running derivation changes
	// before the derivation returns.
	changed bool
}

// NewComputed creates a computed value on g. It starts dirty; derive does not
// run until the first Get.
func NewComputed[T any](g *Graph, derive func() (T, error), opts ...ComputedOption) *Computed[T] {
	cfg := computedConfig{name: "computed"}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Computed[T]{
		g:      g,
		name:   cfg.name,
		derive: derive,
		state:  StateDirty,
	}
}

// Get returns the derived value, recomputing it first if dirty. Errors
// returned by the derivation are cached and returned until a source changes.
//
// A disposed value runs its derivation on every Get and caches nothing. Its
// reads are attributed to the derivation that called Get, if any, so a live
// dependent keeps tracking the underlying sources.
func (c *Computed[T]) Get() (T, error) {
	if c.state == StateDisposed {
		return c.derive()
	}

	if c.g.isEvaluating(c) {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrCycle, c.name)
	}

	c.g.reportObserved(c)

	if c.state == StateDirty {
		c.recompute()
	}

	return c.value, c.err
}

// Peek returns the last cached result without evaluating or tracking.
func (c *Computed[T]) Peek() (T, error) {
	return c.value, c.err
}

// State reports whether the cached result is fresh.
func (c *Computed[T]) State() State {
	return c.state
}

// Name returns the name given with Named.
func (c *Computed[T]) Name() string {
	return c.name
}

// OnInvalidate registers fn to run whenever the value goes from clean to
// dirty, or an evaluation finishes already stale. The returned function
// cancels the registration.
func (c *Computed[T]) OnInvalidate(fn func()) (cancel func()) {
	w := &watcher{fn: fn}
	c.watchers = append(c.watchers, w)
	return func() {
		w.cancelled = true
		c.watchers = removeElement(c.watchers, w)
	}
}

// Dispose removes every dependency edge of the value and stops
// notifications. Calling it again is a no-op.
func (c *Computed[T]) Dispose() {
	if c.state == StateDisposed {
		return
	}
	c.state = StateDisposed
	c.g.detach(c)
	for _, w := range c.watchers {
		w.cancelled = true
	}
	c.watchers = nil
	var zero T
	c.value, c.err = zero, nil
}

func (c *Computed[T]) recompute() {
	c.g.clearUpstream(c)
	c.g.begin(c)
	c.evaluating, c.changed = true, false

	var (
		v   T
		err error
	)
	func() {
		defer func() {
			c.g.end()
			c.evaluating = false
		}()
		v, err = c.derive()
	}()

	c.value, c.err = v, err
	if c.changed {
		// a source moved after it was read; the next Get evaluates again
		c.changed = false
		c.state = StateDirty
		c.g.notify(append([]*watcher(nil), c.watchers...))
		return
	}
	c.state = StateClean
}

func (c *Computed[T]) label() string { return c.name }

func (c *Computed[T]) markDirty() []*watcher {
	if c.evaluating {
		c.changed = true
		return nil
	}
	if c.state != StateClean {
		return nil
	}
	c.state = StateDirty
	return append([]*watcher(nil), c.watchers...)
}
