package reactive

// node is anything that can sit in the dependency graph: atoms and cells as
// sources, computed values as both sources and dependents.
type node interface {
	label() string
	// markDirty flags the node as stale. It returns the invalidation callbacks
	// to run when the node made a clean to dirty transition.
	markDirty() []*watcher
}

// frame is one derivation being evaluated. A frame with a nil owner belongs
// to an Untracked section.
type frame struct {
	owner node
}

// Graph owns the dependency edges between reactive nodes and the stack of
// derivations currently being evaluated.
//
// A Graph is not safe for concurrent use. All reads and writes of the cells
// and computed values created from it must happen on one goroutine.
type Graph struct {
	// dependency -> dependents
	downstream map[node][]node
	// dependent -> dependencies
	upstream map[node][]node

	tracking []*frame

	batchDepth int
	pending    []*watcher
}

// NewGraph creates an empty reactive graph.
func NewGraph() *Graph {
	return &Graph{
		downstream: make(map[node][]node),
		upstream:   make(map[node][]node),
	}
}

// Batch runs fn and defers invalidation callbacks until it returns, so that
// several writes produce one notification per watcher.
func (g *Graph) Batch(fn func()) {
	g.batchDepth++
	defer func() {
		g.batchDepth--
		if g.batchDepth == 0 {
			g.flush()
		}
	}()
	fn()
}

// Untracked runs fn without recording any of its reads as dependencies of the
// derivation currently being evaluated.
func Untracked[T any](g *Graph, fn func() T) T {
	var v T
	g.untracked(func() { v = fn() })
	return v
}

func (g *Graph) untracked(fn func()) {
	g.tracking = append(g.tracking, &frame{})
	defer func() {
		g.tracking = g.tracking[:len(g.tracking)-1]
	}()
	fn()
}

// Evaluating reports whether a derivation is currently running on this graph.
func (g *Graph) Evaluating() bool {
	for _, f := range g.tracking {
		if f.owner != nil {
			return true
		}
	}
	return false
}

func (g *Graph) link(dependency, dependent node) {
	g.downstream[dependency] = appendUnique(g.downstream[dependency], dependent)
	g.upstream[dependent] = appendUnique(g.upstream[dependent], dependency)
}

func (g *Graph) unlink(dependency, dependent node) {
	g.downstream[dependency] = removeElement(g.downstream[dependency], dependent)
	if len(g.downstream[dependency]) == 0 {
		delete(g.downstream, dependency)
	}

	g.upstream[dependent] = removeElement(g.upstream[dependent], dependency)
	if len(g.upstream[dependent]) == 0 {
		delete(g.upstream, dependent)
	}
}

// clearUpstream drops every edge from n to the sources it read last time.
func (g *Graph) clearUpstream(n node) {
	for _, dep := range append([]node(nil), g.upstream[n]...) {
		g.unlink(dep, n)
	}
}

// detach removes every edge touching n.
func (g *Graph) detach(n node) {
	g.clearUpstream(n)
	for _, dependent := range append([]node(nil), g.downstream[n]...) {
		g.unlink(n, dependent)
	}
}

func (g *Graph) begin(owner node) {
	g.tracking = append(g.tracking, &frame{owner: owner})
}

func (g *Graph) end() {
	g.tracking = g.tracking[:len(g.tracking)-1]
}

func (g *Graph) isEvaluating(n node) bool {
	for _, f := range g.tracking {
		if f.owner == n {
			return true
		}
	}
	return false
}

// reportObserved links n to the innermost tracked derivation. The edge
// exists as soon as the read happens, so a change of n later in the same
// evaluation reaches the reader.
func (g *Graph) reportObserved(n node) {
	if len(g.tracking) == 0 {
		return
	}
	top := g.tracking[len(g.tracking)-1]
	if top.owner == nil || top.owner == n {
		return
	}
	g.link(n, top.owner)
}

// reportChanged flags every transitive dependent of source as dirty.
// Values are never recomputed here.
func (g *Graph) reportChanged(source node) {
	g.batchDepth++
	for _, dependent := range g.findDependents(source) {
		g.pending = append(g.pending, dependent.markDirty()...)
	}
	g.batchDepth--
	if g.batchDepth == 0 {
		g.flush()
	}
}

// notify queues ws and runs them unless a batch is open.
func (g *Graph) notify(ws []*watcher) {
	g.pending = append(g.pending, ws...)
	if g.batchDepth == 0 {
		g.flush()
	}
}

// findDependents walks downstream edges iteratively so deep chains cannot
// exhaust the call stack.
func (g *Graph) findDependents(start node) []node {
	stack := make([]node, 0, 16)
	stack = append(stack, start)

	dependents := make([]node, 0, 16)
	visited := make(map[node]bool, 16)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		if current != start {
			dependents = append(dependents, current)
		}

		for _, dep := range g.downstream[current] {
			if !visited[dep] {
				stack = append(stack, dep)
			}
		}
	}

	return dependents
}

func (g *Graph) flush() {
	// callbacks that write cells queue more work instead of recursing
	g.batchDepth++
	defer func() { g.batchDepth-- }()

	for len(g.pending) > 0 {
		queue := g.pending
		g.pending = nil

		seen := make(map[*watcher]bool, len(queue))
		for _, w := range queue {
			if seen[w] || w.cancelled {
				continue
			}
			seen[w] = true
			w.fn()
		}
	}
}

func (g *Graph) edgeCount() int {
	n := 0
	for _, deps := range g.downstream {
		n += len(deps)
	}
	return n
}

func appendUnique[T comparable](slice []T, item T) []T {
	for _, existing := range slice {
		if existing == item {
			return slice
		}
	}
	return append(slice, item)
}

func removeElement[T comparable](slice []T, item T) []T {
	for i, existing := range slice {
		if existing == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
