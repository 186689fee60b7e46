package injectable

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

var (
	// ErrDuplicateRegistration matches *DuplicateRegistrationError.
	ErrDuplicateRegistration = errors.New("injectable: duplicate registration")
	// ErrUnknownDependency matches *UnknownDependencyError.
	ErrUnknownDependency = errors.New("injectable: unknown dependency")
	// ErrCyclicDependency matches *CyclicDependencyError.
	ErrCyclicDependency = errors.New("injectable: cyclic dependency")
	// ErrSideEffectsPrevented matches *SideEffectsPreventedError.
	ErrSideEffectsPrevented = errors.New("injectable: side effects prevented")
	// ErrTypeMismatch matches *TypeMismatchError.
	ErrTypeMismatch = errors.New("injectable: type mismatch")
	// ErrContainerDisposed is returned by every resolution after Dispose.
	ErrContainerDisposed = errors.New("injectable: container disposed")
	// ErrOverrideAfterInject is returned when overriding a definition that was already resolved.
	ErrOverrideAfterInject = errors.New("injectable: override after inject")
)

// DuplicateRegistrationError is returned when a definition id is registered twice.
type DuplicateRegistrationError struct{ ID string }

func (e *DuplicateRegistrationError) Error() string {
	// Example: injectable: duplicate registration of "clock"
	return "injectable: duplicate registration of " + strconv.Quote(e.ID)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// UnknownDependencyError is returned when no definition is registered under ID.
type UnknownDependencyError struct{ ID string }

func (e *UnknownDependencyError) Error() string {
	// Example: injectable: unknown dependency "clock"
	return "injectable: unknown dependency " + strconv.Quote(e.ID)
}

func (e *UnknownDependencyError) Is(target error) bool {
	return target == ErrUnknownDependency
}

// CyclicDependencyError is returned when a definition is injected while it is
// already being resolved. Cycle starts and ends with the repeated id.
type CyclicDependencyError struct{ Cycle []string }

func (e *CyclicDependencyError) Error() string {
	// Example: injectable: cyclic dependency a -> b -> a
	return "injectable: cyclic dependency " + strings.Join(e.Cycle, " -> ")
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// SideEffectsPreventedError is returned by containers created with
// PreventSideEffects when a side-effecting definition has no override.
type SideEffectsPreventedError struct{ ID string }

func (e *SideEffectsPreventedError) Error() string {
	return "injectable: " + strconv.Quote(e.ID) + " causes side effects, which are prevented in this container"
}

func (e *SideEffectsPreventedError) Is(target error) bool {
	return target == ErrSideEffectsPrevented
}

// TypeMismatchError is returned when a resolved instance does not have the
// type requested by the caller.
type TypeMismatchError struct {
	ID       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	// Example: injectable: "clock" resolved to int, expected string
	return "injectable: " + strconv.Quote(e.ID) + " resolved to " + e.Got + ", expected " + e.Expected
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ResolveError wraps an error returned by a definition's factory. Errors
// raised by the container itself are never wrapped, and a factory error is
// wrapped once even when it travels through several nested injections.
type ResolveError struct {
	ID         string
	Cause      error
	StackTrace []byte
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve error in %q: %v", e.ID, e.Cause)
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}

func newResolveError(id string, cause error) error {
	if isCoreError(cause) {
		return cause
	}
	var re *ResolveError
	if errors.As(cause, &re) {
		return cause
	}
	return &ResolveError{
		ID:         id,
		Cause:      cause,
		StackTrace: debug.Stack(),
	}
}

func isCoreError(err error) bool {
	return errors.Is(err, ErrCyclicDependency) ||
		errors.Is(err, ErrUnknownDependency) ||
		errors.Is(err, ErrSideEffectsPrevented) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrContainerDisposed)
}

// CleanupError contains information about a cleanup failure
type CleanupError struct {
	ID      string
	Err     error
	Context string // "failed-resolve" or "dispose"
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup of %q during %s: %v", e.ID, e.Context, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// SafeTypeAssertion converts an instance to T, reporting a TypeMismatchError
// naming id when it has another type.
func SafeTypeAssertion[T any](id string, value any) (T, error) {
	typed, ok := value.(T)
	if ok {
		return typed, nil
	}
	var zero T
	if value == nil {
		// a nil interface or pointer value is a valid zero T
		return zero, nil
	}
	return zero, &TypeMismatchError{
		ID:       id,
		Expected: fmt.Sprintf("%T", &zero)[1:],
		Got:      fmt.Sprintf("%T", value),
	}
}
