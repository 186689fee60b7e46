package kube

import (
	"slices"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/config"
	"github.com/lensdock/injectable/reactive"
)

// Store holds the objects of one kind.
//
// Items are the whole set. ContextItems are the items in the selected
// namespaces; cluster scoped objects (no namespace) are always in context.
type Store[T Object] struct {
	items        *reactive.Cell[[]T]
	contextItems *reactive.Computed[[]T]
}

func newStore[T Object](ctx *injectable.ResolveCtx, kind string) (*Store[T], error) {
	selected, err := injectable.Inject(ctx, SelectedNamespacesInjectable)
	if err != nil {
		return nil, err
	}

	s := &Store[T]{items: injectable.NewCell[[]T](ctx, nil)}
	s.contextItems = injectable.NewComputed(ctx, func() ([]T, error) {
		namespaces := selected.Get()
		items := s.items.Get()
		if len(namespaces) == 0 {
			return items, nil
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			ns := item.Meta().Namespace
			if ns == "" || slices.Contains(namespaces, ns) {
				out = append(out, item)
			}
		}
		return out, nil
	}, reactive.Named(kind+"-context-items"))

	return s, nil
}

// Items returns every object. Reads inside a derivation are tracked.
func (s *Store[T]) Items() []T {
	return s.items.Get()
}

// ContextItems returns the objects in the selected namespaces.
func (s *Store[T]) ContextItems() ([]T, error) {
	return s.contextItems.Get()
}

// Replace swaps the whole set.
func (s *Store[T]) Replace(items []T) {
	s.items.Set(slices.Clone(items))
}

// Remove drops the object with uid and reports whether it was present.
func (s *Store[T]) Remove(uid string) bool {
	items := s.items.Peek()
	i := slices.IndexFunc(items, func(item T) bool { return item.Meta().UID == uid })
	if i < 0 {
		return false
	}
	s.items.Set(slices.Delete(slices.Clone(items), i, i+1))
	return true
}

// GetByName returns the first object called name in namespace.
func (s *Store[T]) GetByName(namespace, name string) (T, bool) {
	for _, item := range s.items.Peek() {
		m := item.Meta()
		if m.Namespace == namespace && m.Name == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// SelectedNamespacesInjectable is the namespace selection. An empty
// selection means every namespace.
var SelectedNamespacesInjectable = injectable.Define("selected-namespaces", func(ctx *injectable.ResolveCtx) (*reactive.Cell[[]string], error) {
	cfg, err := injectable.Inject(ctx, config.StateInjectable)
	if err != nil {
		return nil, err
	}
	return injectable.NewCell(ctx, slices.Clone(cfg.Peek().Namespaces)), nil
})

var NamespaceStoreInjectable = injectable.Define("namespace-store", func(ctx *injectable.ResolveCtx) (*Store[Namespace], error) {
	return newStore[Namespace](ctx, "namespace")
})

var ReplicaSetStoreInjectable = injectable.Define("replica-set-store", func(ctx *injectable.ResolveCtx) (*Store[ReplicaSet], error) {
	return newStore[ReplicaSet](ctx, "replica-set")
})

var PodStoreInjectable = injectable.Define("pod-store", func(ctx *injectable.ResolveCtx) (*Store[Pod], error) {
	return newStore[Pod](ctx, "pod")
})
