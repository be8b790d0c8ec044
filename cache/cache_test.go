// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int]()
	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, *int]()
	createCalled := 0

	first := c.GetOrCreate("60", func() *int {
		createCalled++
		v := 60
		return &v
	})
	second := c.GetOrCreate("60", func() *int {
		createCalled++
		v := 61
		return &v
	})

	if createCalled != 1 {
		t.Errorf("expected create called once, got %d", createCalled)
	}
	if first != second {
		t.Error("second GetOrCreate should return the reference produced by the first")
	}
	if *second != 60 {
		t.Errorf("expected 60 (cached), got %d", *second)
	}
}

func TestCacheGetOrCreateDistinctKeys(t *testing.T) {
	c := New[string, int]()
	for i := 0; i < 100; i++ {
		key := strconv.Itoa(i % 10)
		c.GetOrCreate(key, func() int { return i })
	}
	if c.Len() != 10 {
		t.Errorf("expected 10 entries (one per distinct key), got %d", c.Len())
	}
}

func TestCacheGetOrCreateConcurrent(t *testing.T) {
	c := New[string, int]()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrCreate("font", func() int {
				calls.Add(1)
				return 1
			})
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("overlapping requests ran the producer %d times, want 1", got)
	}
}

func TestCacheGetAndDelete(t *testing.T) {
	c := New[string, int]()
	c.GetOrCreate("key1", func() int { return 42 })

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v; want 42, true", val, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected missing key to not exist")
	}

	if !c.Delete("key1") {
		t.Error("expected Delete to return true for existing key")
	}
	if c.Delete("key1") {
		t.Error("expected Delete to return false for deleted key")
	}
}

func TestCacheCompareAndDelete(t *testing.T) {
	c := New[string, int]()
	c.GetOrCreate("k", func() int { return 7 })

	if c.CompareAndDelete("k", func(v int) bool { return v == 8 }) {
		t.Error("CompareAndDelete removed an entry that did not match")
	}
	if !c.CompareAndDelete("k", func(v int) bool { return v == 7 }) {
		t.Error("CompareAndDelete did not remove the matching entry")
	}
	if c.CompareAndDelete("k", func(int) bool { return true }) {
		t.Error("CompareAndDelete on a missing key should return false")
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int]()
	c.GetOrCreate("a", func() int { return 1 }) // miss
	c.GetOrCreate("a", func() int { return 1 }) // hit
	c.Get("a")                                  // hit
	c.Get("b")                                  // miss

	s := c.Stats()
	if s.Len != 1 {
		t.Errorf("Len = %d, want 1", s.Len)
	}
	if s.Hits != 2 {
		t.Errorf("Hits = %d, want 2", s.Hits)
	}
	if s.Misses != 2 {
		t.Errorf("Misses = %d, want 2", s.Misses)
	}
}
