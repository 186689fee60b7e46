// Package reactive implements lazily recomputed values with automatic
// dependency tracking.
//
// # Model
//
// A Graph owns three kinds of nodes:
//
//   - Atom: a bare observable source used by owners of custom state.
//   - Cell[T]: a mutable value. Reading it inside a derivation records an edge.
//   - Computed[T]: a memoized derivation over cells and other computed values.
//
// Evaluation is pull based. A computed value runs its derivation only when it
// is read while dirty; while running, every source it reads is recorded.
// Writing a cell pushes dirtiness (never values) to every transitive
// dependent:
//
//	g := reactive.NewGraph()
//	count := reactive.NewCell(g, 1)
//	doubled := reactive.NewComputed(g, func() (int, error) {
//	    return count.Get() * 2, nil
//	})
//
//	v, _ := doubled.Get() // derivation runs, v == 2
//	v, _ = doubled.Get()  // cached
//	count.Set(5)          // doubled is dirty, nothing recomputed yet
//	v, _ = doubled.Get()  // derivation runs again, v == 10
//
// # Invalidation hooks
//
// OnInvalidate registers a callback for the clean to dirty transition, which
// is what a renderer needs to schedule a redraw. Batch coalesces callbacks
// across several writes.
//
// # Disposal
//
// Dispose removes every edge of a computed value. It is idempotent. A disposed
// value still answers Get by running its derivation untracked.
//
// # Concurrency
//
// A Graph and its nodes must be confined to one goroutine.
package reactive
