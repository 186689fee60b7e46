// Package namespaces contributes the namespace list to the dock.
package namespaces

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/fp"
	"github.com/lensdock/injectable/internal/dock"
	"github.com/lensdock/injectable/internal/kube"
	"github.com/lensdock/injectable/internal/logging"
	"github.com/lensdock/injectable/reactive"
)

// ErrNamespaceNotFound is returned when deleting a namespace the store does
// not hold.
var ErrNamespaceNotFound = errors.New("namespace not found")

// Column is a sortable column of the list.
type Column string

const (
	ColumnName   Column = "name"
	ColumnLabels Column = "labels"
	ColumnAge    Column = "age"
	ColumnStatus Column = "status"
)

// Sorting selects the sort column and direction.
type Sorting struct {
	Column     Column
	Descending bool
}

// Row is one rendered namespace.
type Row struct {
	UID          string
	Name         string
	Labels       []string
	Age          string
	Status       string
	Subnamespace bool
}

// Now returns the current time.
type Now func() time.Time

var NowInjectable = injectable.Define("now", func(ctx *injectable.ResolveCtx) (Now, error) {
	return time.Now, nil
})

// SearchStateInjectable holds the list filter text.
var SearchStateInjectable = injectable.Define("namespace-search-state", func(ctx *injectable.ResolveCtx) (*reactive.Cell[string], error) {
	return injectable.NewCell(ctx, "", reactive.StrictEqual[string]()), nil
})

// SortingStateInjectable holds the list order, by name by default.
var SortingStateInjectable = injectable.Define("namespace-sorting-state", func(ctx *injectable.ResolveCtx) (*reactive.Cell[Sorting], error) {
	return injectable.NewCell(ctx, Sorting{Column: ColumnName}, reactive.StrictEqual[Sorting]()), nil
})

func matches(ns kube.Namespace, search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return slices.ContainsFunc(ns.SearchFields(), func(field string) bool {
		return strings.Contains(strings.ToLower(field), search)
	})
}

func compareBy(column Column) func(a, b kube.Namespace) int {
	switch column {
	case ColumnLabels:
		return func(a, b kube.Namespace) int {
			return cmp.Compare(strings.Join(a.Metadata.LabelList(), ","), strings.Join(b.Metadata.LabelList(), ","))
		}
	case ColumnAge:
		// youngest first
		return func(a, b kube.Namespace) int {
			return b.Metadata.CreationTimestamp.Compare(a.Metadata.CreationTimestamp)
		}
	case ColumnStatus:
		return func(a, b kube.Namespace) int { return cmp.Compare(a.Phase(), b.Phase()) }
	default:
		return func(a, b kube.Namespace) int { return cmp.Compare(a.Metadata.Name, b.Metadata.Name) }
	}
}

// RowsInjectable is the filtered and sorted namespace list.
var RowsInjectable = injectable.Define("namespace-rows", func(ctx *injectable.ResolveCtx) (*reactive.Computed[[]Row], error) {
	store, err := injectable.Inject(ctx, kube.NamespaceStoreInjectable)
	if err != nil {
		return nil, err
	}
	search, err := injectable.Inject(ctx, SearchStateInjectable)
	if err != nil {
		return nil, err
	}
	sorting, err := injectable.Inject(ctx, SortingStateInjectable)
	if err != nil {
		return nil, err
	}
	now, err := injectable.Inject(ctx, NowInjectable)
	if err != nil {
		return nil, err
	}

	return injectable.NewComputed(ctx, func() ([]Row, error) {
		query := search.Get()
		order := sorting.Get()
		at := now()

		sortNamespaces := func(items []kube.Namespace) []kube.Namespace {
			compare := compareBy(order.Column)
			slices.SortStableFunc(items, func(a, b kube.Namespace) int {
				if order.Descending {
					return compare(b, a)
				}
				return compare(a, b)
			})
			return items
		}

		return fp.Pipe3(
			store.Items(),
			fp.Filter(func(ns kube.Namespace) bool { return matches(ns, query) }),
			sortNamespaces,
			fp.Map(func(ns kube.Namespace) Row {
				return Row{
					UID:          ns.Metadata.UID,
					Name:         ns.Metadata.Name,
					Labels:       ns.Metadata.LabelList(),
					Age:          ns.Metadata.Age(at),
					Status:       ns.Phase(),
					Subnamespace: ns.IsSubnamespace(),
				}
			}),
		), nil
	}, reactive.Named("namespace-rows")), nil
})

// DeleteNamespace removes the namespace called name.
type DeleteNamespace func(name string) error

var DeleteNamespaceInjectable = injectable.Define("delete-namespace", func(ctx *injectable.ResolveCtx) (DeleteNamespace, error) {
	store, err := injectable.Inject(ctx, kube.NamespaceStoreInjectable)
	if err != nil {
		return nil, err
	}
	logger := logging.For(ctx, "namespaces")

	return func(name string) error {
		ns, ok := store.GetByName("", name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNamespaceNotFound, name)
		}
		store.Remove(ns.Metadata.UID)
		logger.Info("namespace deleted", "name", name)
		return nil
	}, nil
})

// TabInjectable lists the namespaces.
var TabInjectable = dock.DefineTab(dock.TabSpec{
	ID:    "namespaces",
	Title: "Namespaces",
	Flag:  "namespaces",
	Content: func(ctx *injectable.ResolveCtx) (*reactive.Computed[string], error) {
		rows, err := injectable.Inject(ctx, RowsInjectable)
		if err != nil {
			return nil, err
		}
		search, err := injectable.Inject(ctx, SearchStateInjectable)
		if err != nil {
			return nil, err
		}

		return injectable.NewComputed(ctx, func() (string, error) {
			items, err := rows.Get()
			if err != nil {
				return "", err
			}
			return renderRows(items, search.Get()), nil
		}, reactive.Named("namespaces-content")), nil
	},
})

func renderRows(rows []Row, search string) string {
	var b strings.Builder
	if search != "" {
		fmt.Fprintf(&b, "Filter: %q\n\n", search)
	}
	if len(rows) == 0 {
		b.WriteString("No namespaces.")
		return b.String()
	}

	fmt.Fprintf(&b, "%-28s %-36s %-8s %s\n", "NAME", "LABELS", "AGE", "STATUS")
	for _, row := range rows {
		name := row.Name
		if row.Subnamespace {
			name += " [sub]"
		}
		fmt.Fprintf(&b, "%-28s %-36s %-8s %s\n", name, strings.Join(row.Labels, ","), row.Age, row.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Module bundles the namespace definitions.
var Module = injectable.NewModule("namespaces",
	NowInjectable,
	SearchStateInjectable,
	SortingStateInjectable,
	RowsInjectable,
	DeleteNamespaceInjectable,
	TabInjectable,
)
