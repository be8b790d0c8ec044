// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"sync"
)

// Future is a computation that resolves exactly once. Every waiter
// observes the same value and error.
type Future[V any] struct {
	done chan struct{}
	once sync.Once
	val  V
	err  error
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Resolved returns a Future already resolved with v.
func Resolved[V any](v V) *Future[V] {
	f := newFuture[V]()
	f.resolve(v, nil)
	return f
}

// Failed returns a Future already resolved with err.
func Failed[V any](err error) *Future[V] {
	f := newFuture[V]()
	var zero V
	f.resolve(zero, err)
	return f
}

// resolve settles the future. Calls after the first are ignored.
func (f *Future[V]) resolve(v V, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future resolves.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome without blocking. done is false while the
// computation is still pending.
func (f *Future[V]) Result() (v V, done bool, err error) {
	select {
	case <-f.done:
		return f.val, true, f.err
	default:
		var zero V
		return zero, false, nil
	}
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
