// Package fp holds the small set of point-free helpers used to express derivations.
//
// The Pipe functions thread a value through a sequence of functions, left to
// right, so that
//
//	fp.Pipe2(x, f, g) == g(f(x))
//
// Combined with Find and Default this reads as a single expression:
//
//	active := fp.Pipe2(
//	    tabs,
//	    fp.Find(func(tab Tab) bool { return tab.ID() == activeID }),
//	    fp.Default(NullTab),
//	)
//
// Every function handed to a pipe is expected to be pure.
package fp

// Pipeline applies fns to v left to right when every step keeps the same type.
func Pipeline[T any](v T, fns ...func(T) T) T {
	for _, fn := range fns {
		v = fn(v)
	}
	return v
}

// Maybe is the result of a lookup that may find nothing.
type Maybe[T any] struct {
	Value T
	Ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{Value: v, Ok: true}
}

// None returns an absent value.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Find returns a function yielding the first element matching pred.
func Find[T any](pred func(T) bool) func([]T) Maybe[T] {
	return func(items []T) Maybe[T] {
		for _, item := range items {
			if pred(item) {
				return Some(item)
			}
		}
		return None[T]()
	}
}

// Default returns a function unwrapping a Maybe, substituting fallback when absent.
func Default[T any](fallback T) func(Maybe[T]) T {
	return func(m Maybe[T]) T {
		if m.Ok {
			return m.Value
		}
		return fallback
	}
}

// Map returns a function applying fn to every element.
func Map[T, R any](fn func(T) R) func([]T) []R {
	return func(items []T) []R {
		out := make([]R, 0, len(items))
		for _, item := range items {
			out = append(out, fn(item))
		}
		return out
	}
}

// Filter returns a function keeping the elements matching pred, in order.
func Filter[T any](pred func(T) bool) func([]T) []T {
	return func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, item := range items {
			if pred(item) {
				out = append(out, item)
			}
		}
		return out
	}
}
