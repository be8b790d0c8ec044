// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package host holds the environments a systemview.View can run in.
//
// Each subpackage provides a type satisfying systemview.Host:
//
//   - headless renders off-screen on a ticker and keeps the last frame
//   - window opens a desktop window through Ebitengine
//   - terminal draws into a terminal with half-block cells through tcell
package host
