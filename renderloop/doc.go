// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package renderloop drives a per-frame callback chain from a host's
// "next frame" primitive.
//
// A [Controller] keeps at most one frame scheduled. Attaching starts the
// chain, detaching cancels it, and each frame schedules its successor
// before running the tick so a detach always has a live handle to cancel.
//
// [Queue] is a [Scheduler] with animation-frame semantics for hosts that
// own their own clock (a ticker, a game loop, a terminal event loop).
package renderloop
