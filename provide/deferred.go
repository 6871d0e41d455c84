package provide

import (
	"context"
	"fmt"
)

// Deferred is a value that is still being computed.
//
// Async starts the computation right away on its own goroutine; Await blocks
// until it finishes. A Deferred may be awaited any number of times, from any
// number of goroutines. The zero Deferred is already resolved to the zero T.
type Deferred[T any] struct {
	st *deferredState[T]
}

type deferredState[T any] struct {
	done     chan struct{}
	value    T
	panicked bool
	panicVal any
}

// Async runs fn on a new goroutine and returns its pending result. A panic in
// fn is re-raised in every goroutine that awaits the result.
func Async[T any](fn func() T) Deferred[T] {
	st := &deferredState[T]{done: make(chan struct{})}

	go func() {
		defer close(st.done)
		defer func() {
			if r := recover(); r != nil {
				st.panicked = true
				st.panicVal = r
			}
		}()

		st.value = fn()
	}()

	return Deferred[T]{st: st}
}

// Ready returns a Deferred that is already resolved to v.
func Ready[T any](v T) Deferred[T] {
	st := &deferredState[T]{done: make(chan struct{}), value: v}
	close(st.done)

	return Deferred[T]{st: st}
}

// Done returns a channel that is closed once the value is available.
func (d Deferred[T]) Done() <-chan struct{} {
	if d.st == nil {
		return closedChan
	}

	return d.st.done
}

// Await blocks until the value is available and returns it.
func (d Deferred[T]) Await() T {
	if d.st == nil {
		var zero T
		return zero
	}

	<-d.st.done

	return d.st.result()
}

// AwaitContext is Await bounded by ctx. Cancelling ctx only stops the wait;
// the computation itself keeps running.
func (d Deferred[T]) AwaitContext(ctx context.Context) (T, error) {
	if d.st == nil {
		var zero T
		return zero, nil
	}

	select {
	case <-d.st.done:
		return d.st.result(), nil
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("awaiting deferred value: %w", ctx.Err())
	}
}

func (st *deferredState[T]) result() T {
	if st.panicked {
		panic(st.panicVal)
	}

	return st.value
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)

	return ch
}()
