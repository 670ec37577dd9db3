// Package result provides the two-variant outcome returned by every use case.
package result

// Result is either a success carrying S or a failure carrying F, never both.
// The zero value is a failure with a zero F; constructors are the only way to build a
// meaningful Result.
type Result[F any, S any] struct {
	value   S
	failure F
	success bool
}

// Success creates a successful result.
func Success[F any, S any](value S) Result[F, S] {
	return Result[F, S]{value: value, success: true}
}

// Failure creates a failed result.
func Failure[F any, S any](failure F) Result[F, S] {
	return Result[F, S]{failure: failure}
}

// IsSuccess returns true if the result is successful.
func (r Result[F, S]) IsSuccess() bool {
	return r.success
}

// IsFailure returns true if the result is a failure.
func (r Result[F, S]) IsFailure() bool {
	return !r.success
}

// Value returns the success value.
// Should only be called after checking IsSuccess().
func (r Result[F, S]) Value() S {
	return r.value
}

// Failure returns the failure value.
// Should only be called after checking IsFailure().
func (r Result[F, S]) Failure() F {
	return r.failure
}

// Map transforms a successful result's value.
// A failure is returned unchanged.
func Map[F, S, T any](r Result[F, S], fn func(S) T) Result[F, T] {
	if r.IsFailure() {
		return Failure[F, T](r.failure)
	}
	return Success[F](fn(r.value))
}

// FlatMap chains result-returning operations.
func FlatMap[F, S, T any](r Result[F, S], fn func(S) Result[F, T]) Result[F, T] {
	if r.IsFailure() {
		return Failure[F, T](r.failure)
	}
	return fn(r.value)
}

// Match applies one of two functions depending on the variant.
func Match[F, S, T any](r Result[F, S], onSuccess func(S) T, onFailure func(F) T) T {
	if r.IsSuccess() {
		return onSuccess(r.value)
	}
	return onFailure(r.failure)
}

// Forward re-types a failed result so it can be returned from a caller with a different
// success type. It panics when given a success, which would silently drop a value.
func Forward[T, F, S any](r Result[F, S]) Result[F, T] {
	if r.IsSuccess() {
		panic("result: Forward called on a success")
	}
	return Failure[F, T](r.failure)
}

// OrElse returns the success value or the provided default if failure.
func (r Result[F, S]) OrElse(defaultValue S) S {
	if r.IsSuccess() {
		return r.value
	}
	return defaultValue
}
