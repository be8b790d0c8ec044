// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fps measures frame rate and shows it as a text visual.
//
// A [Counter] is fed one timestamp per rendered frame. Once per window
// (one second by default) it computes the average rate, formats it as a
// whole number and swaps in the matching visual from a [MeshSource]. Old
// visuals are only detached; the source keeps them for reuse.
package fps
