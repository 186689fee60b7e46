package injectable

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/lensdock/injectable/reactive"
)

// Container resolves definitions, caches singletons, detects cycles and owns
// the disposal of everything it created.
//
// A Container is not safe for concurrent use; it belongs to the goroutine
// that drives the application (the UI loop).
type Container struct {
	id        string
	registry  *Registry
	graph     *reactive.Graph
	instances *instanceCache
	tags      map[any]any

	resolving []string
	overrides map[string]override

	cleanups    []cleanupRecord
	disposables []func()

	extensions        []Extension
	pendingExtensions []Extension

	roots        []string
	dependencies map[string][]string

	unsubscribe func()

	tokenAtoms map[string]*reactive.Atom
	aggregates map[string]any

	preventSideEffects bool
	disposed           bool
}

type override struct {
	instantiate func(ctx *ResolveCtx) (any, error)
}

type cleanupRecord struct {
	id      string
	entries []cleanupEntry
}

// ContainerOption is a modifier for containers
type ContainerOption func(*Container)

// WithRegistry makes the container resolve from an existing registry.
func WithRegistry(r *Registry) ContainerOption {
	return func(c *Container) {
		c.registry = r
	}
}

// WithExtension returns an option that registers an extension to a container
func WithExtension(ext Extension) ContainerOption {
	return func(c *Container) {
		c.pendingExtensions = append(c.pendingExtensions, ext)
	}
}

// WithContainerTag returns an option that sets a tag on a container
func WithContainerTag[T any](tag Tag[T], val T) ContainerOption {
	return func(c *Container) {
		tag.SetOnContainer(c, val)
	}
}

// PreventSideEffects turns the container into a sandbox: resolving a
// definition marked CausesSideEffects fails unless it has been overridden.
func PreventSideEffects() ContainerOption {
	return func(c *Container) {
		c.preventSideEffects = true
	}
}

// NewContainer creates a new container with optional configuration
func NewContainer(opts ...ContainerOption) *Container {
	c := &Container{
		id:           uuid.NewString(),
		graph:        reactive.NewGraph(),
		instances:    newInstanceCache(),
		tags:         make(map[any]any),
		overrides:    make(map[string]override),
		dependencies: make(map[string][]string),
		tokenAtoms:   make(map[string]*reactive.Atom),
		aggregates:   make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = NewRegistry()
	}
	c.unsubscribe = c.registry.onRegister(c.notifyRegistered)

	for _, ext := range c.pendingExtensions {
		if err := c.UseExtension(ext); err != nil {
			panic(err)
		}
	}
	c.pendingExtensions = nil

	return c
}

// ID returns the unique id of the container.
func (c *Container) ID() string {
	return c.id
}

// Registry returns the registry the container resolves from.
func (c *Container) Registry() *Registry {
	return c.registry
}

// Graph returns the reactive graph shared by every value the container creates.
func (c *Container) Graph() *reactive.Graph {
	return c.graph
}

// Register adds definitions to the container's registry.
func (c *Container) Register(defs ...Definition) error {
	return c.registry.Register(defs...)
}

// RegisterModules registers the definitions of every module as one batch.
func (c *Container) RegisterModules(mods ...Module) error {
	var defs []Definition
	for _, m := range mods {
		defs = append(defs, m.Definitions...)
	}
	if err := c.registry.Register(defs...); err != nil {
		return fmt.Errorf("registering modules: %w", err)
	}
	return nil
}

// UseExtension registers an extension to the container
func (c *Container) UseExtension(ext Extension) error {
	c.extensions = append(c.extensions, ext)
	sort.SliceStable(c.extensions, func(i, j int) bool {
		return c.extensions[i].Order() < c.extensions[j].Order()
	})

	return ext.Init(c)
}

// GetTag retrieves a tag value from the container
func (c *Container) GetTag(tag any) (any, bool) {
	val, ok := c.tags[tag]
	return val, ok
}

// SetTag stores a tag value on the container
func (c *Container) SetTag(tag any, val any) {
	c.tags[tag] = val
}

// IsCached reports whether a singleton instance exists for id.
func (c *Container) IsCached(id string) bool {
	return c.instances.Has(id)
}

// Resolved returns the ids of cached instances in resolution order.
func (c *Container) Resolved() []string {
	return c.instances.IDs()
}

// Roots returns the ids injected directly on the container, in first
// injection order.
func (c *Container) Roots() []string {
	return append([]string(nil), c.roots...)
}

// DependencyGraph returns, for every definition that injected others, the ids
// it injected in first injection order.
func (c *Container) DependencyGraph() map[string][]string {
	out := make(map[string][]string, len(c.dependencies))
	for parent, children := range c.dependencies {
		out[parent] = append([]string(nil), children...)
	}
	return out
}

// Disposed reports whether Dispose has been called.
func (c *Container) Disposed() bool {
	return c.disposed
}

func (c *Container) resolveDefinition(def Definition) (any, error) {
	return c.resolve(def, "")
}

func (c *Container) owner() *Container {
	return c
}

// Inject resolves def through r and returns the typed instance.
func Inject[T any](r Resolver, def *Injectable[T]) (T, error) {
	val, err := r.resolveDefinition(def)
	if err != nil {
		var zero T
		return zero, err
	}
	return SafeTypeAssertion[T](def.ID(), val)
}

// MustInject is Inject that panics on error. It is meant for composition
// roots and tests.
func MustInject[T any](r Resolver, def *Injectable[T]) T {
	val, err := Inject(r, def)
	if err != nil {
		panic(err)
	}
	return val
}

// InjectByID resolves the definition registered under id.
func InjectByID(r Resolver, id string) (any, error) {
	def, err := r.owner().registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	return r.resolveDefinition(def)
}

// Override replaces the factory of def in c. It must be called before def is
// first resolved. Overridden definitions may be resolved in containers that
// prevent side effects.
func Override[T any](c *Container, def *Injectable[T], instantiate func(ctx *ResolveCtx) (T, error)) error {
	if c.instances.Has(def.ID()) {
		return fmt.Errorf("%w: %q", ErrOverrideAfterInject, def.ID())
	}
	c.overrides[def.ID()] = override{
		instantiate: func(ctx *ResolveCtx) (any, error) {
			return instantiate(ctx)
		},
	}
	return nil
}

// OverrideValue makes def resolve to val in c.
func OverrideValue[T any](c *Container, def *Injectable[T], val T) error {
	return Override(c, def, func(*ResolveCtx) (T, error) {
		return val, nil
	})
}

type outcome struct {
	val any
	err error
}

func (c *Container) resolve(def Definition, parent string) (any, error) {
	if c.disposed {
		return nil, ErrContainerDisposed
	}

	id := def.ID()
	registered, err := c.registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	c.recordDependency(parent, id)

	if val, ok := c.instances.Load(id); ok {
		return val, nil
	}

	if i := slices.Index(c.resolving, id); i >= 0 {
		cycle := append(slices.Clone(c.resolving[i:]), id)
		return nil, &CyclicDependencyError{Cycle: cycle}
	}

	ov, hasOverride := c.overrides[id]
	if !hasOverride && c.preventSideEffects && registered.CausesSideEffects() {
		return nil, &SideEffectsPreventedError{ID: id}
	}

	instantiate := registered.instantiateAny
	if hasOverride {
		instantiate = ov.instantiate
	}

	c.resolving = append(c.resolving, id)
	defer func() {
		c.resolving = c.resolving[:len(c.resolving)-1]
	}()

	ctx := &ResolveCtx{container: c, def: registered}
	op := &Operation{
		Kind:       OpInject,
		Definition: registered,
		Container:  c,
		Parent:     parent,
	}

	// factories never become dependencies of a derivation that happens to
	// be evaluating
	result, err := c.wrap(op, func() (any, error) {
		out := reactive.Untracked(c.graph, func() outcome {
			val, err := instantiate(ctx)
			return outcome{val: val, err: err}
		})
		return out.val, out.err
	})

	if err != nil {
		err = newResolveError(id, err)
		if unhandled := c.runCleanups(ctx.cleanups, id, "failed-resolve"); len(unhandled) > 0 {
			err = errors.Join(append([]error{err}, unhandled...)...)
		}
		c.notifyError(err, op)
		return nil, err
	}

	if len(ctx.cleanups) > 0 {
		c.cleanups = append(c.cleanups, cleanupRecord{id: id, entries: ctx.cleanups})
	}
	if registered.Lifecycle() != Transient {
		c.instances.Store(id, result)
	}

	return result, nil
}

// wrap chains extensions around next (middleware pattern); the first
// extension in order is the outermost.
func (c *Container) wrap(op *Operation, next func() (any, error)) (any, error) {
	for i := len(c.extensions) - 1; i >= 0; i-- {
		ext := c.extensions[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(context.Background(), currentNext, op)
		}
	}
	return next()
}

func (c *Container) notifyError(err error, op *Operation) {
	for _, ext := range c.extensions {
		ext.OnError(err, op, c)
	}
}

func (c *Container) recordDependency(parent, id string) {
	if parent == "" {
		if !slices.Contains(c.roots, id) {
			c.roots = append(c.roots, id)
		}
		return
	}
	if !slices.Contains(c.dependencies[parent], id) {
		c.dependencies[parent] = append(c.dependencies[parent], id)
	}
}

func (c *Container) notifyRegistered(defs []Definition) {
	c.graph.Batch(func() {
		for _, def := range defs {
			if atom, ok := c.tokenAtoms[def.TokenID()]; ok {
				atom.ReportChanged()
			}
		}
	})
}

func (c *Container) tokenAtom(tokenID string) *reactive.Atom {
	atom, ok := c.tokenAtoms[tokenID]
	if !ok {
		atom = reactive.NewAtom(c.graph, "token:"+tokenID)
		c.tokenAtoms[tokenID] = atom
	}
	return atom
}

// runCleanups runs entries in reverse order and returns the failures no
// extension handled.
func (c *Container) runCleanups(entries []cleanupEntry, id string, cleanupContext string) []error {
	var unhandled []error

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		if err := entry.fn(); err != nil {
			cleanupErr := &CleanupError{
				ID:      id,
				Err:     err,
				Context: cleanupContext,
			}

			handled := false
			for _, ext := range c.extensions {
				if ext.OnCleanupError(cleanupErr) {
					handled = true
					break
				}
			}
			if !handled {
				unhandled = append(unhandled, cleanupErr)
			}
		}
	}

	return unhandled
}

// Dispose tears the container down: computed values it created are disposed,
// cleanups run in reverse resolution order (each definition's own cleanups
// in reverse registration order), and extensions are disposed. Calling it
// again is a no-op. Cleanup failures not handled by an extension are joined
// into the returned error.
func (c *Container) Dispose() error {
	if c.disposed {
		return nil
	}
	c.disposed = true
	c.unsubscribe()

	for i := len(c.disposables) - 1; i >= 0; i-- {
		c.disposables[i]()
	}
	c.disposables = nil

	var errs []error
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		errs = append(errs, c.runCleanups(c.cleanups[i].entries, c.cleanups[i].id, "dispose")...)
	}
	c.cleanups = nil
	c.instances.Clear()
	c.aggregates = make(map[string]any)

	for _, ext := range c.extensions {
		if err := ext.Dispose(c); err != nil {
			errs = append(errs, fmt.Errorf("disposing extension %s: %w", ext.Name(), err))
		}
	}

	return errors.Join(errs...)
}
