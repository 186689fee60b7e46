package injectable

import "context"

// Extension provides hooks into the container lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a container
	Init(c *Container) error

	// Wrap intercepts operations (inject, inject-many)
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)

	// OnError handles errors during resolution
	OnError(err error, op *Operation, c *Container)

	// OnCleanupError handles cleanup failures
	// Returns true if the error was handled, false to use default behavior
	OnCleanupError(err *CleanupError) bool

	// Dispose is called when the container is disposed
	Dispose(c *Container) error
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(c *Container) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation, c *Container) {
}

func (e *BaseExtension) OnCleanupError(err *CleanupError) bool {
	return false
}

func (e *BaseExtension) Dispose(c *Container) error {
	return nil
}

// Operation describes what operation is happening
type Operation struct {
	Kind OperationKind
	// Definition is nil for OpInjectMany.
	Definition Definition
	// TokenID is set for OpInjectMany.
	TokenID   string
	Container *Container
	// Parent is the id of the definition whose factory requested this one,
	// or "" for injections made directly on the container.
	Parent string
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpInject indicates a definition's factory is being run
	OpInject OperationKind = "inject"
	// OpInjectMany indicates an aggregated collection is being derived
	OpInjectMany OperationKind = "inject-many"
)
