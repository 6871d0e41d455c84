package provide

import "fmt"

// Result holds either a success value of type T or a failure of type E.
type Result[T, E any] struct {
	value  T
	err    E
	failed bool
}

// Ok returns a successful result.
func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v}
}

// Err returns a failed result.
func Err[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err, failed: true}
}

// From converts a conventional (value, error) pair. A nil error is a success.
func From[T any](v T, err error) Result[T, error] {
	if err != nil {
		return Err[T](err)
	}

	return Ok[T, error](v)
}

// IsOk reports whether r holds a value.
func (r Result[T, E]) IsOk() bool {
	return !r.failed
}

// IsErr reports whether r holds an error.
func (r Result[T, E]) IsErr() bool {
	return r.failed
}

// Get returns the value, the error and whether r is a success.
func (r Result[T, E]) Get() (T, E, bool) {
	return r.value, r.err, !r.failed
}

// Unwrap returns the success value. It panics if r is a failure.
func (r Result[T, E]) Unwrap() T {
	if r.failed {
		panic(fmt.Sprintf("provide: Unwrap on failed result: %v", r.err))
	}

	return r.value
}

// UnwrapErr returns the failure. It panics if r is a success.
func (r Result[T, E]) UnwrapErr() E {
	if !r.failed {
		panic("provide: UnwrapErr on successful result")
	}

	return r.err
}

// String formats r as Ok(v) or Err(e).
func (r Result[T, E]) String() string {
	if r.failed {
		return fmt.Sprintf("Err(%v)", r.err)
	}

	return fmt.Sprintf("Ok(%v)", r.value)
}
