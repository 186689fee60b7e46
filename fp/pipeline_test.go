package fp

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPipe2_Composition(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Int().Draw(rt, "x")
		k := rapid.IntRange(-100, 100).Draw(rt, "k")

		f := func(v int) int { return v + k }
		g := func(v int) string { return strconv.Itoa(v * 2) }

		assert.Equal(rt, g(f(x)), Pipe2(x, f, g))
	})
}

func TestPipe_HeterogeneousTypes(t *testing.T) {
	t.Parallel()

	got := Pipe3(
		"a,b,c",
		func(s string) []string { return strings.Split(s, ",") },
		func(parts []string) int { return len(parts) },
		func(n int) bool { return n == 3 },
	)
	assert.True(t, got)
}

func TestPipe8_OrderIsLeftToRight(t *testing.T) {
	t.Parallel()

	step := func(n string) func(string) string {
		return func(s string) string { return s + n }
	}

	got := Pipe8("", step("1"), step("2"), step("3"), step("4"), step("5"), step("6"), step("7"), step("8"))
	assert.Equal(t, "12345678", got)
}

func TestPipeline_Homogeneous(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.IntRange(-1000, 1000).Draw(rt, "x")
		inc := func(v int) int { return v + 1 }
		dbl := func(v int) int { return v * 2 }

		assert.Equal(rt, dbl(inc(x)), Pipeline(x, inc, dbl))
		assert.Equal(rt, x, Pipeline(x))
	})
}

func TestFindDefault(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c"}

	cases := []struct {
		name string
		want string
		got  string
	}{
		{name: "present", want: "b", got: Pipe2(items, Find(func(s string) bool { return s == "b" }), Default("none"))},
		{name: "absent", want: "none", got: Pipe2(items, Find(func(s string) bool { return s == "z" }), Default("none"))},
		{name: "empty input", want: "none", got: Pipe2([]string(nil), Find(func(s string) bool { return true }), Default("none"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestFind_ReturnsFirstMatch(t *testing.T) {
	t.Parallel()

	type item struct {
		id  string
		pos int
	}
	items := []item{{"x", 0}, {"y", 1}, {"x", 2}}

	m := Find(func(it item) bool { return it.id == "x" })(items)
	require.True(t, m.Ok)
	assert.Equal(t, 0, m.Value.pos)
}

func TestMapFilter(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		xs := rapid.SliceOf(rapid.IntRange(-50, 50)).Draw(rt, "xs")

		evens := Filter(func(v int) bool { return v%2 == 0 })(xs)
		for _, v := range evens {
			assert.Equal(rt, 0, v%2)
		}

		squared := Map(func(v int) int { return v * v })(xs)
		require.Len(rt, squared, len(xs))
		for i, v := range xs {
			assert.Equal(rt, v*v, squared[i])
		}
	})
}
