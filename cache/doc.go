// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache provides memoizing caches for resources that are produced
// once and reused for the lifetime of a view.
//
// # Cache[K, V]
//
// A thread-safe memoizing map. GetOrCreate runs the producer under the
// cache lock, so a key is produced at most once even when requests overlap:
//
//	meshes := cache.New[string, *scene.Node]()
//	node := meshes.GetOrCreate("60", func() *scene.Node { return build("60") })
//
// # Loader[K, V]
//
// Asynchronous memoization. Load stores a pending Future under the key
// before the production finishes, so every caller that arrives while the
// load is in flight observes the same Future instead of starting a
// duplicate load. A failed load removes its entry, so the next Load retries.
//
//	fonts := cache.NewLoader[string, *text.Font]()
//	f := fonts.Load(ctx, url, fetchFont)
//	font, err := f.Wait(ctx)
//
// # Growth
//
// Entries are never evicted. Size is bounded only by the number of distinct
// keys ever requested (FPS strings, font URLs).
package cache
