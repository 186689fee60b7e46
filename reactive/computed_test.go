package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestComputed_StartsDirtyAndIsLazy(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	calls := 0
	c := NewComputed(g, func() (int, error) {
		calls++
		return 1, nil
	})

	assert.Equal(t, StateDirty, c.State())
	assert.Equal(t, 0, calls, "derivation must not run before the first read")

	v, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, StateClean, c.State())
	assert.Equal(t, 1, calls)
}

func TestComputed_ConsecutiveReadsRecomputeAtMostOnce(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	count := NewCell(g, 2)
	recomputes := 0
	doubled := NewComputed(g, func() (int, error) {
		recomputes++
		return count.Get() * 2, nil
	})

	_, _ = doubled.Get()
	_, _ = doubled.Get()
	assert.Equal(t, 1, recomputes)
}

func TestComputed_MutationRecomputesExactlyOnce(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	count := NewCell(g, 2)
	recomputes := 0
	doubled := NewComputed(g, func() (int, error) {
		recomputes++
		return count.Get() * 2, nil
	})

	v, _ := doubled.Get()
	require.Equal(t, 4, v)

	count.Set(5)
	assert.Equal(t, StateDirty, doubled.State())
	assert.Equal(t, 1, recomputes, "a write only marks dirty")

	v, _ = doubled.Get()
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, recomputes)

	_, _ = doubled.Get()
	_, _ = doubled.Get()
	assert.Equal(t, 2, recomputes)
}

func TestComputed_TransitiveDirtiness(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	base := NewCell(g, 1)
	inner := NewComputed(g, func() (int, error) { return base.Get() + 1, nil })
	outer := NewComputed(g, func() (int, error) {
		v, err := inner.Get()
		return v * 10, err
	})

	v, err := outer.Get()
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	base.Set(4)
	assert.Equal(t, StateDirty, inner.State())
	assert.Equal(t, StateDirty, outer.State())

	v, err = outer.Get()
	require.NoError(t, err)
	assert.Equal(t, 50, v)
}

func TestComputed_UnreadSourcesDoNotInvalidate(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	useA := NewCell(g, true)
	a := NewCell(g, "a")
	b := NewCell(g, "b")
	recomputes := 0
	pick := NewComputed(g, func() (string, error) {
		recomputes++
		if useA.Get() {
			return a.Get(), nil
		}
		return b.Get(), nil
	})

	_, _ = pick.Get()
	b.Set("b2")
	assert.Equal(t, StateClean, pick.State(), "b was not read in the last evaluation")

	useA.Set(false)
	v, _ := pick.Get()
	assert.Equal(t, "b2", v)

	a.Set("a2")
	assert.Equal(t, StateClean, pick.State(), "a dropped out of the dependency set")
	assert.Equal(t, 2, recomputes)
}

func TestComputed_ErrorIsCachedUntilSourceChanges(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	fail := NewCell(g, true)
	boom := errors.New("boom")
	calls := 0
	c := NewComputed(g, func() (int, error) {
		calls++
		if fail.Get() {
			return 0, boom
		}
		return 7, nil
	})

	_, err := c.Get()
	assert.ErrorIs(t, err, boom)
	_, err = c.Get()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	fail.Set(false)
	v, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestComputed_SelfReadIsCycle(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	var self *Computed[int]
	self = NewComputed(g, func() (int, error) {
		v, err := self.Get()
		return v + 1, err
	}, Named("self"))

	_, err := self.Get()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "self")
}

func TestComputed_DisposeIsIdempotentAndDetaches(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	count := NewCell(g, 1)
	calls := 0
	c := NewComputed(g, func() (int, error) {
		calls++
		return count.Get(), nil
	})
	invalidations := 0
	c.OnInvalidate(func() { invalidations++ })

	_, _ = c.Get()
	require.Equal(t, 1, g.edgeCount())

	c.Dispose()
	c.Dispose()
	assert.Equal(t, StateDisposed, c.State())
	assert.Equal(t, 0, g.edgeCount())

	count.Set(2)
	assert.Equal(t, 0, invalidations, "disposed values are not notified")

	v, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, v, "a disposed value still answers reads")
	assert.Equal(t, 0, g.edgeCount(), "reads after disposal are untracked")
}

func TestComputed_SourceChangedDuringEvaluationStaysDirty(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	x := NewCell(g, 1)
	written := false
	c := NewComputed(g, func() (int, error) {
		v := x.Get()
		if !written {
			written = true
			Untracked(g, func() struct{} {
				x.Set(2)
				return struct{}{}
			})
		}
		return v, nil
	})
	invalidations := 0
	c.OnInvalidate(func() { invalidations++ })

	v, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v, "the running evaluation returns what it read")
	assert.Equal(t, StateDirty, c.State())
	assert.Equal(t, 1, invalidations, "watchers learn the value is already stale")

	v, err = c.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, StateClean, c.State())
}

func TestComputed_UpstreamChangedDuringEvaluationStaysDirty(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	x := NewCell(g, 1)
	inner := NewComputed(g, func() (int, error) { return x.Get() * 10, nil })
	written := false
	outer := NewComputed(g, func() (int, error) {
		v, err := inner.Get()
		if !written {
			written = true
			x.Set(2)
		}
		return v, err
	})

	v, _ := outer.Get()
	assert.Equal(t, 10, v)
	assert.Equal(t, StateDirty, outer.State())
	assert.Equal(t, StateDirty, inner.State())

	v, _ = outer.Get()
	assert.Equal(t, 20, v)
	assert.Equal(t, StateClean, outer.State())
}

func TestComputed_ReadingDisposedValueTracksItsSources(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	x := NewCell(g, 1)
	inner := NewComputed(g, func() (int, error) { return x.Get() + 1, nil })
	outer := NewComputed(g, func() (int, error) {
		v, err := inner.Get()
		return v * 2, err
	})

	inner.Dispose()
	v, _ := outer.Get()
	assert.Equal(t, 4, v)

	x.Set(5)
	assert.Equal(t, StateDirty, outer.State(), "the reader depends on the disposed value's sources")
	v, _ = outer.Get()
	assert.Equal(t, 12, v)
}

func TestComputed_OnInvalidateFiresOnCleanToDirty(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	count := NewCell(g, 1)
	c := NewComputed(g, func() (int, error) { return count.Get(), nil })

	fired := 0
	cancel := c.OnInvalidate(func() { fired++ })

	count.Set(2)
	assert.Equal(t, 0, fired, "never-read values are already dirty")

	_, _ = c.Get()
	count.Set(3)
	count.Set(4)
	assert.Equal(t, 1, fired, "only the clean to dirty transition notifies")

	_, _ = c.Get()
	cancel()
	count.Set(5)
	assert.Equal(t, 1, fired)
}

func TestGraph_BatchCoalescesNotifications(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	a := NewCell(g, 1)
	b := NewCell(g, 2)
	sum := NewComputed(g, func() (int, error) { return a.Get() + b.Get(), nil })

	fired := 0
	sum.OnInvalidate(func() { fired++ })
	_, _ = sum.Get()

	g.Batch(func() {
		a.Set(10)
		b.Set(20)
		assert.Equal(t, 0, fired, "callbacks wait for the batch to end")
	})
	assert.Equal(t, 1, fired)

	v, _ := sum.Get()
	assert.Equal(t, 30, v)
}

func TestCell_WithEqualSuppressesNoopWrites(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	name := NewCell(g, "a", StrictEqual[string]())
	calls := 0
	c := NewComputed(g, func() (string, error) {
		calls++
		return name.Get(), nil
	})

	_, _ = c.Get()
	name.Set("a")
	assert.Equal(t, StateClean, c.State())

	name.Update(func(s string) string { return s + "b" })
	v, _ := c.Get()
	assert.Equal(t, "ab", v)
	assert.Equal(t, 2, calls)
}

func TestUntracked_DoesNotRecordReads(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	tracked := NewCell(g, 1)
	hidden := NewCell(g, 100)
	c := NewComputed(g, func() (int, error) {
		return tracked.Get() + Untracked(g, hidden.Get), nil
	})

	v, _ := c.Get()
	assert.Equal(t, 101, v)

	hidden.Set(200)
	assert.Equal(t, StateClean, c.State())
	assert.False(t, g.Evaluating())
}

func TestComputed_DeterministicForSameInputs(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewGraph()
		xs := NewCell(g, rapid.SliceOf(rapid.IntRange(-100, 100)).Draw(rt, "xs"))
		evaluations := 0
		sum := NewComputed(g, func() (int, error) {
			evaluations++
			total := 0
			for _, x := range xs.Get() {
				total += x
			}
			return total, nil
		})

		reads := rapid.IntRange(1, 10).Draw(rt, "reads")
		first, _ := sum.Get()
		for i := 1; i < reads; i++ {
			v, _ := sum.Get()
			assert.Equal(rt, first, v)
		}
		assert.Equal(rt, 1, evaluations)

		next := rapid.SliceOf(rapid.IntRange(-100, 100)).Draw(rt, "next")
		xs.Set(next)
		want := 0
		for _, x := range next {
			want += x
		}
		got, _ := sum.Get()
		assert.Equal(rt, want, got)
		assert.Equal(rt, 2, evaluations)
	})
}
