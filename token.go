package injectable

// Token is a typed extension point. Definitions built with Implement are
// bound to a token, and ComputedInjectMany collects every one of them.
//
// A Token is not an instance; it only groups definitions and carries the type
// they produce.
type Token[T any] struct {
	id string
}

// CreateToken creates an extension point identified by id.
func CreateToken[T any](id string) Token[T] {
	return Token[T]{id: id}
}

// ID returns the token's identifier.
func (t Token[T]) ID() string {
	return t.id
}

func (t Token[T]) String() string {
	return "token(" + t.id + ")"
}
