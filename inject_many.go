package injectable

import (
	"github.com/lensdock/injectable/reactive"
)

// ComputedInjectMany returns a computed collection of every definition
// implementing token, in registration order.
//
// Definitions whose EnabledWhen predicate is false are skipped before they
// are resolved, so a disabled side-effecting implementer is never built.
// The collection is recomputed when a new implementer is registered or when
// a reactive value read by a predicate changes. Repeated calls on one
// container return the same computed value.
func ComputedInjectMany[T any](r Resolver, token Token[T]) (*reactive.Computed[[]T], error) {
	c := r.owner()
	if c.disposed {
		return nil, ErrContainerDisposed
	}

	if existing, ok := c.aggregates[token.ID()]; ok {
		return SafeTypeAssertion[*reactive.Computed[[]T]](token.ID(), existing)
	}

	atom := c.tokenAtom(token.ID())
	comp := NewComputed(c, func() ([]T, error) {
		atom.ReportObserved()
		return injectMany(c, token)
	}, reactive.Named("inject-many:"+token.ID()))

	c.aggregates[token.ID()] = comp
	return comp, nil
}

// InjectMany resolves every enabled implementer of token once, without
// tracking anything.
func InjectMany[T any](r Resolver, token Token[T]) ([]T, error) {
	c := r.owner()
	if c.disposed {
		var zero []T
		return zero, ErrContainerDisposed
	}
	out := reactive.Untracked(c.graph, func() outcome {
		items, err := injectMany(c, token)
		return outcome{val: items, err: err}
	})
	if out.err != nil {
		return nil, out.err
	}
	return out.val.([]T), nil
}

func injectMany[T any](c *Container, token Token[T]) ([]T, error) {
	op := &Operation{
		Kind:      OpInjectMany,
		TokenID:   token.ID(),
		Container: c,
	}

	result, err := c.wrap(op, func() (any, error) {
		defs := c.registry.Implementations(token.ID())
		items := make([]T, 0, len(defs))
		for _, def := range defs {
			if !def.Enabled(c) {
				continue
			}
			val, err := c.resolve(def, "")
			if err != nil {
				return nil, err
			}
			item, err := SafeTypeAssertion[T](def.ID(), val)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	})
	if err != nil {
		c.notifyError(err, op)
		return nil, err
	}
	return result.([]T), nil
}
