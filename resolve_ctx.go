package injectable

import (
	"github.com/lensdock/injectable/reactive"
)

// Resolver is anything definitions can be injected from: the Container
// itself, or the ResolveCtx handed to a factory.
type Resolver interface {
	resolveDefinition(def Definition) (any, error)
	owner() *Container
}

type cleanupEntry struct {
	fn    func() error
	order int
}

// ResolveCtx provides context for factory functions
type ResolveCtx struct {
	container *Container
	def       Definition
	cleanups  []cleanupEntry
}

// OnCleanup registers a cleanup function to be called when the container is
// disposed. Cleanups of one definition run in reverse registration order. If
// the factory fails, the cleanups it registered run immediately.
func (ctx *ResolveCtx) OnCleanup(fn func() error) {
	entry := cleanupEntry{
		fn:    fn,
		order: len(ctx.cleanups),
	}
	ctx.cleanups = append(ctx.cleanups, entry)
}

// ID returns the id of the definition being resolved.
func (ctx *ResolveCtx) ID() string {
	return ctx.def.ID()
}

// Definition returns the definition being resolved.
func (ctx *ResolveCtx) Definition() Definition {
	return ctx.def
}

// Container returns the container running the factory.
func (ctx *ResolveCtx) Container() *Container {
	return ctx.container
}

// Graph returns the reactive graph of the container.
func (ctx *ResolveCtx) Graph() *reactive.Graph {
	return ctx.container.graph
}

func (ctx *ResolveCtx) resolveDefinition(def Definition) (any, error) {
	return ctx.container.resolve(def, ctx.def.ID())
}

func (ctx *ResolveCtx) owner() *Container {
	return ctx.container
}

// GetTag retrieves a tag value from the container
func (ctx *ResolveCtx) GetTag(tag any) (any, bool) {
	return ctx.container.GetTag(tag)
}

// GetTag retrieves a typed tag value from the container
func GetTag[T any](ctx *ResolveCtx, tag Tag[T]) (T, bool) {
	return tag.GetFromContainer(ctx.container)
}

// GetTagOrDefault retrieves a typed tag or returns a default value
func GetTagOrDefault[T any](ctx *ResolveCtx, tag Tag[T], defaultVal T) T {
	if val, ok := tag.GetFromContainer(ctx.container); ok {
		return val
	}
	return defaultVal
}

// NewCell creates a cell on the container's reactive graph.
func NewCell[T any](r Resolver, initial T, opts ...reactive.CellOption[T]) *reactive.Cell[T] {
	return reactive.NewCell(r.owner().graph, initial, opts...)
}

// NewComputed creates a computed value on the container's reactive graph. The
// container disposes it together with everything else it owns.
func NewComputed[T any](r Resolver, derive func() (T, error), opts ...reactive.ComputedOption) *reactive.Computed[T] {
	c := r.owner()
	comp := reactive.NewComputed(c.graph, derive, opts...)
	c.disposables = append(c.disposables, comp.Dispose)
	return comp
}
