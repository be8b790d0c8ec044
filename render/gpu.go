// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build gpu

package render

// Registers gg's GPU accelerator and coverage filler. Without a usable
// adapter gg falls back to the CPU path.
import _ "github.com/gogpu/gg/gpu"
