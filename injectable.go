package injectable

// Lifecycle controls whether a resolved instance is cached by the container.
type Lifecycle string

const (
	// Singleton instances are created once per container and cached by id.
	Singleton Lifecycle = "singleton"
	// Transient instances are created on every injection and never cached.
	Transient Lifecycle = "transient"
)

// Definition is the untyped view of an Injectable that the registry and
// container work with.
type Definition interface {
	ID() string
	// TokenID is the id of the token the definition implements, or "".
	TokenID() string
	CausesSideEffects() bool
	Lifecycle() Lifecycle
	// Enabled evaluates the eligibility predicate. Definitions without one
	// are always enabled.
	Enabled(r Resolver) bool
	GetTag(key any) (any, bool)

	instantiateAny(ctx *ResolveCtx) (any, error)
}

// Option configures a definition.
type Option func(*definitionOptions)

type definitionOptions struct {
	causesSideEffects bool
	lifecycle         Lifecycle
	enabled           func(Resolver) bool
	tags              map[any]any
}

// CausesSideEffects marks a definition whose factory performs an observable
// action outside the object graph. Such a definition is still a singleton, and
// containers created with PreventSideEffects refuse to run its factory.
func CausesSideEffects() Option {
	return func(o *definitionOptions) {
		o.causesSideEffects = true
	}
}

// AsTransient makes every injection run the factory again.
func AsTransient() Option {
	return func(o *definitionOptions) {
		o.lifecycle = Transient
	}
}

// EnabledWhen attaches an eligibility predicate used by many-injection.
// Reactive values read inside fn are tracked, so a flip of the predicate
// invalidates the aggregated collection.
func EnabledWhen(fn func(r Resolver) bool) Option {
	return func(o *definitionOptions) {
		o.enabled = fn
	}
}

// WithTag attaches typed metadata to a definition.
func WithTag[T any](tag Tag[T], val T) Option {
	return func(o *definitionOptions) {
		if o.tags == nil {
			o.tags = make(map[any]any)
		}
		o.tags[tag] = val
	}
}

// Injectable describes how to build one T. It is immutable once created.
type Injectable[T any] struct {
	id          string
	tokenID     string
	instantiate func(ctx *ResolveCtx) (T, error)
	opts        definitionOptions
}

// Define creates a standalone definition.
//
// Example:
//
//	var ClockInjectable = injectable.Define("clock", func(ctx *injectable.ResolveCtx) (Clock, error) {
//	    return systemClock{}, nil
//	})
func Define[T any](id string, instantiate func(ctx *ResolveCtx) (T, error), opts ...Option) *Injectable[T] {
	o := definitionOptions{lifecycle: Singleton}
	for _, opt := range opts {
		opt(&o)
	}
	return &Injectable[T]{
		id:          id,
		instantiate: instantiate,
		opts:        o,
	}
}

// Implement creates a definition bound to token. The token's type parameter
// fixes what the factory must produce.
func Implement[T any](token Token[T], id string, instantiate func(ctx *ResolveCtx) (T, error), opts ...Option) *Injectable[T] {
	def := Define(id, instantiate, opts...)
	def.tokenID = token.ID()
	return def
}

func (d *Injectable[T]) ID() string {
	return d.id
}

func (d *Injectable[T]) TokenID() string {
	return d.tokenID
}

func (d *Injectable[T]) CausesSideEffects() bool {
	return d.opts.causesSideEffects
}

func (d *Injectable[T]) Lifecycle() Lifecycle {
	return d.opts.lifecycle
}

func (d *Injectable[T]) Enabled(r Resolver) bool {
	if d.opts.enabled == nil {
		return true
	}
	return d.opts.enabled(r)
}

func (d *Injectable[T]) GetTag(key any) (any, bool) {
	val, ok := d.opts.tags[key]
	return val, ok
}

func (d *Injectable[T]) String() string {
	return d.id
}

func (d *Injectable[T]) instantiateAny(ctx *ResolveCtx) (any, error) {
	return d.instantiate(ctx)
}
