package injectable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func constant(id string) *Injectable[string] {
	return Define(id, func(ctx *ResolveCtx) (string, error) { return id, nil })
}

func TestRegistry_DuplicateLeavesRegistryUnchanged(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(constant("a")))

	err := r.Register(constant("b"), constant("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	var dup *DuplicateRegistrationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.ID)
	assert.Equal(t, `injectable: duplicate registration of "a"`, err.Error())

	assert.Equal(t, []string{"a"}, r.IDs())
	assert.False(t, r.Has("b"), "the batch is rejected as a whole")
}

func TestRegistry_DuplicateInsideOneBatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	err := r.Register(constant("x"), constant("x"))
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := constant("known")
	require.NoError(t, r.Register(def))

	got, err := r.Lookup("known")
	require.NoError(t, err)
	assert.Equal(t, def, got)

	_, err = r.Lookup("unknown")
	assert.ErrorIs(t, err, ErrUnknownDependency)
	assert.Equal(t, `injectable: unknown dependency "unknown"`, err.Error())
}

func TestRegistry_ImplementationsKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	token := CreateToken[string]("greeters")
	other := CreateToken[string]("others")
	r := NewRegistry()

	require.NoError(t, r.Register(
		Implement(token, "z", func(*ResolveCtx) (string, error) { return "z", nil }),
		Implement(other, "o", func(*ResolveCtx) (string, error) { return "o", nil }),
		Implement(token, "a", func(*ResolveCtx) (string, error) { return "a", nil }),
	))

	var ids []string
	for _, def := range r.Implementations(token.ID()) {
		ids = append(ids, def.ID())
	}
	assert.Equal(t, []string{"z", "a"}, ids)
	assert.Empty(t, r.Implementations("none"))
}

func TestRegistry_OrderProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		perm := rapid.Permutation(makeRange(n)).Draw(rt, "perm")

		r := NewRegistry()
		var want []string
		for _, i := range perm {
			id := fmt.Sprintf("def-%d", i)
			want = append(want, id)
			require.NoError(rt, r.Register(constant(id)))
		}

		assert.Equal(rt, want, r.IDs())
		assert.Equal(rt, n, r.Len())
	})
}

func makeRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestRegistry_SharedRegistryForgetsDisposedContainers(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	first := NewContainer(WithRegistry(r))
	second := NewContainer(WithRegistry(r))
	t.Cleanup(func() { _ = second.Dispose() })
	require.Len(t, r.listeners, 2)

	plugins, err := ComputedInjectMany(second, pluginToken)
	require.NoError(t, err)
	_, _ = plugins.Get()

	require.NoError(t, first.Dispose())
	assert.Len(t, r.listeners, 1)

	require.NoError(t, r.Register(implementPlugin("after-dispose", nil)))
	items, err := plugins.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"after-dispose"}, pluginIDs(items), "live containers still see registrations")
}
