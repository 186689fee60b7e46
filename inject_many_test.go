package injectable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensdock/injectable/reactive"
)

type plugin struct{ id string }

var pluginToken = CreateToken[*plugin]("plugin")

func implementPlugin(id string, counter *int, opts ...Option) *Injectable[*plugin] {
	return Implement(pluginToken, id, func(ctx *ResolveCtx) (*plugin, error) {
		if counter != nil {
			*counter++
		}
		return &plugin{id: id}, nil
	}, opts...)
}

func pluginIDs(items []*plugin) []string {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.id)
	}
	return ids
}

func TestComputedInjectMany_RegistrationOrderAndPredicate(t *testing.T) {
	t.Parallel()

	yEnabled := Define("y-enabled", func(ctx *ResolveCtx) (*reactive.Cell[bool], error) {
		return NewCell(ctx, true), nil
	})
	x := implementPlugin("x", nil)
	y := implementPlugin("y", nil, EnabledWhen(func(r Resolver) bool {
		return MustInject(r, yEnabled).Get()
	}))
	z := implementPlugin("z", nil)

	c := newTestContainer(t, yEnabled, x, y, z)
	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	items, err := plugins.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, pluginIDs(items))

	MustInject(c, yEnabled).Set(false)
	assert.Equal(t, reactive.StateDirty, plugins.State())

	items, err = plugins.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z"}, pluginIDs(items))
}

func TestComputedInjectMany_ReadsTwiceResolveOnce(t *testing.T) {
	t.Parallel()

	resolutions := 0
	derivations := 0
	counting := &countingExtension{BaseExtension: NewBaseExtension("count"), count: &derivations}

	c := NewContainer(WithExtension(counting))
	require.NoError(t, c.Register(implementPlugin("a", &resolutions), implementPlugin("b", &resolutions)))

	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	first, _ := plugins.Get()
	second, _ := plugins.Get()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, derivations)
	assert.Equal(t, 2, resolutions)
}

func TestComputedInjectMany_ReflectsNewRegistrations(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t, implementPlugin("first", nil))
	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	items, _ := plugins.Get()
	require.Equal(t, []string{"first"}, pluginIDs(items))

	require.NoError(t, c.Register(implementPlugin("second", nil)))
	assert.Equal(t, reactive.StateDirty, plugins.State())

	items, _ = plugins.Get()
	assert.Equal(t, []string{"first", "second"}, pluginIDs(items))
}

func TestComputedInjectMany_RegistrationDuringDerivation(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	t.Cleanup(func() { _ = c.Dispose() })
	late := implementPlugin("late", nil)
	early := Implement(pluginToken, "early", func(ctx *ResolveCtx) (*plugin, error) {
		if err := ctx.Container().Register(late); err != nil {
			return nil, err
		}
		return &plugin{id: "early"}, nil
	})
	require.NoError(t, c.Register(early))

	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	items, err := plugins.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"early"}, pluginIDs(items))
	assert.Equal(t, reactive.StateDirty, plugins.State())

	items, err = plugins.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, pluginIDs(items))
	assert.Equal(t, reactive.StateClean, plugins.State())
}

func TestComputedInjectMany_PredicateFlippedDuringDerivation(t *testing.T) {
	t.Parallel()

	enabled := Define("second-enabled", func(ctx *ResolveCtx) (*reactive.Cell[bool], error) {
		return NewCell(ctx, false), nil
	})
	first := Implement(pluginToken, "first", func(ctx *ResolveCtx) (*plugin, error) {
		cell, err := Inject(ctx, enabled)
		if err != nil {
			return nil, err
		}
		cell.Set(true)
		return &plugin{id: "first"}, nil
	})
	second := implementPlugin("second", nil, EnabledWhen(func(r Resolver) bool {
		cell, err := Inject(r, enabled)
		return err == nil && cell.Get()
	}))
	c := newTestContainer(t, enabled, second, first)

	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	// second's predicate is read before first's factory flips it
	items, _ := plugins.Get()
	require.Equal(t, []string{"first"}, pluginIDs(items))
	assert.Equal(t, reactive.StateDirty, plugins.State())

	items, _ = plugins.Get()
	assert.Equal(t, []string{"second", "first"}, pluginIDs(items))
}

func TestComputedInjectMany_UnrelatedRegistrationKeepsClean(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t, implementPlugin("first", nil))
	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)
	_, _ = plugins.Get()

	require.NoError(t, c.Register(constant("unrelated")))
	assert.Equal(t, reactive.StateClean, plugins.State())
}

func TestComputedInjectMany_DisabledImplementersAreNeverResolved(t *testing.T) {
	t.Parallel()

	resolutions := 0
	disabled := implementPlugin("disabled", &resolutions,
		CausesSideEffects(),
		EnabledWhen(func(Resolver) bool { return false }),
	)
	c := NewContainer(PreventSideEffects())
	require.NoError(t, c.Register(disabled, implementPlugin("enabled", nil)))

	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	items, err := plugins.Get()
	require.NoError(t, err, "the side-effecting implementer must not be touched")
	assert.Equal(t, []string{"enabled"}, pluginIDs(items))
	assert.Equal(t, 0, resolutions)
}

func TestComputedInjectMany_SameComputedPerContainer(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t, implementPlugin("a", nil))
	first, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)
	second, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other := newTestContainer(t, implementPlugin("a", nil))
	third, err := ComputedInjectMany(other, pluginToken)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestComputedInjectMany_PropagatesResolutionErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	broken := Implement(pluginToken, "broken", func(*ResolveCtx) (*plugin, error) { return nil, boom })
	c := newTestContainer(t, broken)

	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)

	_, err = plugins.Get()
	assert.ErrorIs(t, err, boom)
}

func TestInjectMany_Snapshot(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t, implementPlugin("a", nil), implementPlugin("b", nil))
	items, err := InjectMany(c, pluginToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pluginIDs(items))

	empty, err := InjectMany(c, CreateToken[*plugin]("nothing"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestComputedInjectMany_DisposedWithContainer(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	require.NoError(t, c.Register(implementPlugin("a", nil)))
	plugins, err := ComputedInjectMany(c, pluginToken)
	require.NoError(t, err)
	_, _ = plugins.Get()

	require.NoError(t, c.Dispose())
	assert.Equal(t, reactive.StateDisposed, plugins.State())

	_, err = ComputedInjectMany(c, pluginToken)
	assert.ErrorIs(t, err, ErrContainerDisposed)
}
