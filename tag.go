package injectable

// Tag is a type-safe key for metadata attached to definitions and containers.
type Tag[T any] struct {
	key string
}

// NewTag creates a new tag with the given key
func NewTag[T any](key string) Tag[T] {
	return Tag[T]{key: key}
}

// Key returns the tag's key (for debugging)
func (t Tag[T]) Key() string {
	return t.key
}

// Get retrieves the tag value from a definition
func (t Tag[T]) Get(def Definition) (T, bool) {
	val, ok := def.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}

// MustGet retrieves the tag value or panics if not found
func (t Tag[T]) MustGet(def Definition) T {
	val, ok := t.Get(def)
	if !ok {
		panic("tag " + t.key + " not found on " + def.ID())
	}
	return val
}

// GetOrDefault retrieves the tag value or returns a default
func (t Tag[T]) GetOrDefault(def Definition, defaultVal T) T {
	if val, ok := t.Get(def); ok {
		return val
	}
	return defaultVal
}

// GetFromContainer retrieves the tag value from a container
func (t Tag[T]) GetFromContainer(c *Container) (T, bool) {
	val, ok := c.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}

// SetOnContainer stores the tag value on a container
func (t Tag[T]) SetOnContainer(c *Container, val T) {
	c.SetTag(t, val)
}

// NameTag is the conventional tag for a human readable definition name,
// used by the debug and tracing extensions.
var NameTag = NewTag[string]("injectable.name")

// DisplayName returns the NameTag of def, falling back to its id.
func DisplayName(def Definition) string {
	return NameTag.GetOrDefault(def, def.ID())
}
