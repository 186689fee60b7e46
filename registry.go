package injectable

import "slices"

// Registry stores definitions by id in registration order. It is append-only:
// there is no way to unregister a definition.
type Registry struct {
	byID    map[string]Definition
	order   []string
	byToken map[string][]Definition

	listeners []*listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Definition),
		byToken: make(map[string][]Definition),
	}
}

// Register adds defs. Registration is all-or-nothing: when any id is already
// present, or repeated inside defs, a *DuplicateRegistrationError is returned
// and the registry is left unchanged.
func (r *Registry) Register(defs ...Definition) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		id := def.ID()
		if _, exists := r.byID[id]; exists || seen[id] {
			return &DuplicateRegistrationError{ID: id}
		}
		seen[id] = true
	}

	for _, def := range defs {
		r.byID[def.ID()] = def
		r.order = append(r.order, def.ID())
		if tokenID := def.TokenID(); tokenID != "" {
			r.byToken[tokenID] = append(r.byToken[tokenID], def)
		}
	}

	for _, l := range slices.Clone(r.listeners) {
		l.fn(defs)
	}
	return nil
}

// Lookup returns the definition registered under id.
func (r *Registry) Lookup(id string) (Definition, error) {
	def, ok := r.byID[id]
	if !ok {
		return nil, &UnknownDependencyError{ID: id}
	}
	return def, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns every registered id in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.order)
}

// Implementations returns the definitions bound to tokenID in registration order.
func (r *Registry) Implementations(tokenID string) []Definition {
	return append([]Definition(nil), r.byToken[tokenID]...)
}

// onRegister subscribes fn to successful registrations. The returned
// function removes the subscription.
func (r *Registry) onRegister(fn func(defs []Definition)) (cancel func()) {
	l := &listener{fn: fn}
	r.listeners = append(r.listeners, l)
	return func() {
		r.listeners = slices.DeleteFunc(r.listeners, func(other *listener) bool { return other == l })
	}
}

type listener struct {
	fn func(defs []Definition)
}

// Module groups the definitions of one feature.
type Module struct {
	Name        string
	Definitions []Definition
}

// NewModule creates a module from defs.
func NewModule(name string, defs ...Definition) Module {
	return Module{Name: name, Definitions: defs}
}
