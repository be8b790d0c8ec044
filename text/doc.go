// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package text turns strings into flat scene geometry.
//
// Fonts are loaded asynchronously by a [FontLoader] and memoized by URL;
// a failed load is forgotten so the next request retries. [Generate]
// shapes a message with HarfBuzz (github.com/go-text/typesetting),
// extracts glyph outlines through github.com/gogpu/gg/text and flattens
// them into polygons. A [MeshProvider] keeps one scene node per distinct
// message.
//
// Supported font URLs:
//
//	https://example.com/font.ttf   fetched with the loader's HTTP client
//	file:///usr/share/fonts/x.ttf  read from disk (plain paths work too)
//	builtin:goregular              the embedded Go fonts (goregular, gomono)
package text
