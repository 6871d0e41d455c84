package provide

import (
	"errors"
	"io"
	"sync/atomic"
)

// ErrReleased is returned when a Shared handle is used after its last release.
var ErrReleased = errors.New("provide: shared value already released")

// Shared is a reference-counted handle to a value owned by several
// dependents. Copying a Shared does not add a reference; use Clone.
type Shared[T any] struct {
	ref *sharedRef[T]
}

type sharedRef[T any] struct {
	value T
	refs  atomic.Int64
}

// NewShared wraps v with a reference count of one.
func NewShared[T any](v T) Shared[T] {
	ref := &sharedRef[T]{value: v}
	ref.refs.Store(1)

	return Shared[T]{ref: ref}
}

// Get returns the shared value.
func (s Shared[T]) Get() T {
	if s.ref == nil {
		var zero T
		return zero
	}

	return s.ref.value
}

// Clone adds a reference and returns a handle for it.
func (s Shared[T]) Clone() Shared[T] {
	if s.ref != nil {
		s.ref.refs.Add(1)
	}

	return s
}

// Refs returns the current number of references.
func (s Shared[T]) Refs() int64 {
	if s.ref == nil {
		return 0
	}

	return s.ref.refs.Load()
}

// Release drops one reference. Dropping the last one closes the value when it
// implements io.Closer.
func (s Shared[T]) Release() error {
	if s.ref == nil {
		return ErrReleased
	}

	n := s.ref.refs.Add(-1)

	switch {
	case n < 0:
		s.ref.refs.Store(0)
		return ErrReleased
	case n > 0:
		return nil
	}

	if c, ok := any(s.ref.value).(io.Closer); ok {
		return c.Close()
	}

	return nil
}
