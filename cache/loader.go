// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"fmt"
)

// LoadFunc produces the value for a key. It runs on its own goroutine.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Loader memoizes asynchronous productions keyed by K.
//
// The pending Future is stored before the load completes, so concurrent
// callers share one in-flight load. A load that fails is removed from the
// cache before its waiters are released; the failure is delivered to every
// waiter of that attempt and the next Load starts a fresh one.
type Loader[K comparable, V any] struct {
	entries *Cache[K, *Future[V]]
}

// NewLoader creates an empty Loader.
func NewLoader[K comparable, V any]() *Loader[K, V] {
	return &Loader[K, V]{entries: New[K, *Future[V]]()}
}

// Load returns the Future for key, starting load if no production for key
// is cached or in flight. The production is shared by every caller, so it
// keeps ctx's values but not its cancellation; callers bound their own
// waiting through Future.Wait.
func (l *Loader[K, V]) Load(ctx context.Context, key K, load LoadFunc[V]) *Future[V] {
	var started *Future[V]
	f := l.entries.GetOrCreate(key, func() *Future[V] {
		started = newFuture[V]()
		return started
	})
	if started != nil {
		go l.run(context.WithoutCancel(ctx), key, started, load)
	}
	return f
}

func (l *Loader[K, V]) run(ctx context.Context, key K, f *Future[V], load LoadFunc[V]) {
	var (
		v   V
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("cache: load panicked: %v", r)
			}
		}()
		v, err = load(ctx)
	}()

	if err != nil {
		l.entries.CompareAndDelete(key, func(cur *Future[V]) bool { return cur == f })
	}
	f.resolve(v, err)
}

// Peek returns the cached Future for key without starting a load.
func (l *Loader[K, V]) Peek(key K) (*Future[V], bool) {
	return l.entries.Get(key)
}

// Forget drops the entry for key. A load still in flight keeps running
// and resolves its Future, but later Loads start over.
func (l *Loader[K, V]) Forget(key K) bool {
	return l.entries.Delete(key)
}

// Len returns the number of cached or in-flight entries.
func (l *Loader[K, V]) Len() int {
	return l.entries.Len()
}
