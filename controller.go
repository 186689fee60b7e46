package injectable

// Controller is a typed handle to one definition in one container.
type Controller[T any] struct {
	def       *Injectable[T]
	container *Container
}

// Accessor creates a controller for a definition
func Accessor[T any](c *Container, def *Injectable[T]) *Controller[T] {
	return &Controller[T]{
		def:       def,
		container: c,
	}
}

// Get retrieves the instance (resolves if not cached)
func (c *Controller[T]) Get() (T, error) {
	return Inject(c.container, c.def)
}

// Peek retrieves the cached instance without resolving
func (c *Controller[T]) Peek() (T, bool) {
	val, ok := c.container.instances.Load(c.def.ID())
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}

// IsCached checks if the instance is currently cached
func (c *Controller[T]) IsCached() bool {
	return c.container.IsCached(c.def.ID())
}

// Override replaces the factory before the first resolution.
func (c *Controller[T]) Override(instantiate func(ctx *ResolveCtx) (T, error)) error {
	return Override(c.container, c.def, instantiate)
}
