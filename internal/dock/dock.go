package dock

import (
	"maps"
	"slices"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/fp"
	"github.com/lensdock/injectable/internal/config"
	"github.com/lensdock/injectable/reactive"
)

// ActiveTabIDStateInjectable holds the id of the tab the user selected.
var ActiveTabIDStateInjectable = injectable.Define("active-dock-tab-id-state", func(ctx *injectable.ResolveCtx) (*reactive.Cell[string], error) {
	return injectable.NewCell(ctx, "", reactive.StrictEqual[string]()), nil
})

// ClosedTabsStateInjectable holds the ids of closed tabs. The map is
// replaced, never mutated, so readers can keep what they got.
var ClosedTabsStateInjectable = injectable.Define("closed-dock-tabs-state", func(ctx *injectable.ResolveCtx) (*reactive.Cell[map[string]bool], error) {
	return injectable.NewCell(ctx, map[string]bool{}), nil
})

// TabsInjectable is every enabled tab in registration order.
var TabsInjectable = injectable.Define("dock-tabs", func(ctx *injectable.ResolveCtx) (*reactive.Computed[[]Tab], error) {
	return injectable.ComputedInjectMany(ctx, TabToken)
})

// ActiveTabInjectable is the enabled tab whose id is the active id, or
// NullTab.
var ActiveTabInjectable = injectable.Define("active-dock-tab", func(ctx *injectable.ResolveCtx) (*reactive.Computed[Tab], error) {
	tabs, err := injectable.Inject(ctx, TabsInjectable)
	if err != nil {
		return nil, err
	}
	activeID, err := injectable.Inject(ctx, ActiveTabIDStateInjectable)
	if err != nil {
		return nil, err
	}

	return injectable.NewComputed(ctx, func() (Tab, error) {
		items, err := tabs.Get()
		if err != nil {
			return nil, err
		}
		id := activeID.Get()

		return fp.Pipe2(
			items,
			fp.Find(func(tab Tab) bool { return tab.ID() == id }),
			fp.Default(NullTab),
		), nil
	}, reactive.Named("active-dock-tab")), nil
})

// ActivateTab makes the tab with id the active one.
type ActivateTab func(id string)

var ActivateTabInjectable = injectable.Define("activate-dock-tab", func(ctx *injectable.ResolveCtx) (ActivateTab, error) {
	activeID, err := injectable.Inject(ctx, ActiveTabIDStateInjectable)
	if err != nil {
		return nil, err
	}
	return func(id string) { activeID.Set(id) }, nil
})

// CloseTab closes the tab with id. Closing the active tab activates the
// first tab still open.
type CloseTab func(id string)

var CloseTabInjectable = injectable.Define("close-dock-tab", func(ctx *injectable.ResolveCtx) (CloseTab, error) {
	activeID, err := injectable.Inject(ctx, ActiveTabIDStateInjectable)
	if err != nil {
		return nil, err
	}
	closed, err := injectable.Inject(ctx, ClosedTabsStateInjectable)
	if err != nil {
		return nil, err
	}
	tabs, err := injectable.Inject(ctx, TabsInjectable)
	if err != nil {
		return nil, err
	}
	graph := ctx.Graph()

	return func(id string) {
		graph.Batch(func() {
			closed.Update(func(current map[string]bool) map[string]bool {
				next := maps.Clone(current)
				next[id] = true
				return next
			})
			if activeID.Peek() != id {
				return
			}
			next := ""
			if items, err := tabs.Get(); err == nil && len(items) > 0 {
				next = items[0].ID()
			}
			activeID.Set(next)
		})
	}, nil
})

// ReopenTabs brings every closed tab back.
type ReopenTabs func()

var ReopenTabsInjectable = injectable.Define("reopen-dock-tabs", func(ctx *injectable.ResolveCtx) (ReopenTabs, error) {
	closed, err := injectable.Inject(ctx, ClosedTabsStateInjectable)
	if err != nil {
		return nil, err
	}
	return func() { closed.Set(map[string]bool{}) }, nil
})

// TabSpec describes a tab contributed by a feature.
type TabSpec struct {
	ID    string
	Title string
	Type  TabType
	// Flag names the config feature flag that enables the tab; "" means
	// always enabled.
	Flag string
	// Content builds the computed body of the tab. It runs once, when the
	// tab is first resolved.
	Content func(ctx *injectable.ResolveCtx) (*reactive.Computed[string], error)
	Options []injectable.Option
}

// DefineTab creates the TabToken implementation described by spec. The tab
// is enabled while its feature flag is on and it has not been closed.
func DefineTab(spec TabSpec) *injectable.Injectable[Tab] {
	opts := []injectable.Option{
		injectable.EnabledWhen(tabEnabled(spec.ID, spec.Flag)),
		injectable.WithTag(injectable.NameTag, spec.Title),
	}
	opts = append(opts, spec.Options...)

	typ := spec.Type
	if typ.ID == "" {
		typ = TabType{ID: spec.ID + "-type", Title: spec.Title}
	}

	return injectable.Implement(TabToken, spec.ID, func(ctx *injectable.ResolveCtx) (Tab, error) {
		activate, err := injectable.Inject(ctx, ActivateTabInjectable)
		if err != nil {
			return nil, err
		}
		closeTab, err := injectable.Inject(ctx, CloseTabInjectable)
		if err != nil {
			return nil, err
		}

		t := &tab{
			id:       spec.ID,
			typ:      typ,
			title:    spec.Title,
			activate: activate,
			close:    closeTab,
		}
		if spec.Content != nil {
			if t.content, err = spec.Content(ctx); err != nil {
				return nil, err
			}
		}
		return t, nil
	}, opts...)
}

func tabEnabled(id, flag string) func(r injectable.Resolver) bool {
	return func(r injectable.Resolver) bool {
		if cfg, err := injectable.Inject(r, config.StateInjectable); err == nil {
			if !cfg.Get().FlagEnabled(flag) {
				return false
			}
		}
		if closed, err := injectable.Inject(r, ClosedTabsStateInjectable); err == nil {
			if closed.Get()[id] {
				return false
			}
		}
		return true
	}
}

// Dock is the view the rendering layer drives.
type Dock struct {
	tabs     *reactive.Computed[[]Tab]
	active   *reactive.Computed[Tab]
	activeID *reactive.Cell[string]
	closed   *reactive.Cell[map[string]bool]
	activate ActivateTab
	closeTab CloseTab
	reopen   ReopenTabs
}

// Tabs returns the enabled tabs.
func (d *Dock) Tabs() ([]Tab, error) {
	return d.tabs.Get()
}

// Active returns the active tab, NullTab when none is.
func (d *Dock) Active() (Tab, error) {
	return d.active.Get()
}

// Activate makes the tab with id active.
func (d *Dock) Activate(id string) {
	d.activate(id)
}

// Close closes the tab with id.
func (d *Dock) Close(id string) {
	d.closeTab(id)
}

// ReopenAll reopens every closed tab.
func (d *Dock) ReopenAll() {
	d.reopen()
}

// Closed returns the ids of closed tabs, sorted.
func (d *Dock) Closed() []string {
	var ids []string
	for id, closed := range d.closed.Peek() {
		if closed {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// EnsureActive activates the first tab when no enabled tab is active.
func (d *Dock) EnsureActive() error {
	return d.step(0)
}

// Next activates the tab after the active one, wrapping around.
func (d *Dock) Next() error {
	return d.step(1)
}

// Prev activates the tab before the active one, wrapping around.
func (d *Dock) Prev() error {
	return d.step(-1)
}

func (d *Dock) step(delta int) error {
	tabs, err := d.tabs.Get()
	if err != nil {
		return err
	}
	if len(tabs) == 0 {
		return nil
	}

	current := slices.IndexFunc(tabs, func(t Tab) bool { return t.ID() == d.activeID.Peek() })
	if current < 0 {
		tabs[0].Activate()
		return nil
	}
	next := (current + delta + len(tabs)) % len(tabs)
	tabs[next].Activate()
	return nil
}

// OnChange registers fn to run whenever the tab list or the active tab
// becomes stale. The returned function cancels the registration.
func (d *Dock) OnChange(fn func()) (cancel func()) {
	cancelTabs := d.tabs.OnInvalidate(fn)
	cancelActive := d.active.OnInvalidate(fn)
	return func() {
		cancelTabs()
		cancelActive()
	}
}

var DockInjectable = injectable.Define("dock", func(ctx *injectable.ResolveCtx) (*Dock, error) {
	d := &Dock{}
	var err error
	if d.tabs, err = injectable.Inject(ctx, TabsInjectable); err != nil {
		return nil, err
	}
	if d.active, err = injectable.Inject(ctx, ActiveTabInjectable); err != nil {
		return nil, err
	}
	if d.activeID, err = injectable.Inject(ctx, ActiveTabIDStateInjectable); err != nil {
		return nil, err
	}
	if d.closed, err = injectable.Inject(ctx, ClosedTabsStateInjectable); err != nil {
		return nil, err
	}
	if d.activate, err = injectable.Inject(ctx, ActivateTabInjectable); err != nil {
		return nil, err
	}
	if d.closeTab, err = injectable.Inject(ctx, CloseTabInjectable); err != nil {
		return nil, err
	}
	if d.reopen, err = injectable.Inject(ctx, ReopenTabsInjectable); err != nil {
		return nil, err
	}
	return d, nil
})

// Module bundles the dock definitions. Features register their tabs
// separately.
var Module = injectable.NewModule("dock",
	ActiveTabIDStateInjectable,
	ClosedTabsStateInjectable,
	TabsInjectable,
	ActiveTabInjectable,
	ActivateTabInjectable,
	CloseTabInjectable,
	ReopenTabsInjectable,
	DockInjectable,
)
