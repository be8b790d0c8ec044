// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"bytes"
	"errors"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	ggtext "github.com/gogpu/gg/text"
)

// ErrInvalidFont is returned when font data cannot be parsed.
var ErrInvalidFont = errors.New("text: invalid font")

// Font is a parsed TrueType or OpenType font.
type Font struct {
	// Name is where the font came from (its URL).
	Name string

	data    []byte
	source  *ggtext.FontSource
	shaping *gotext.Font
}

// ParseFont parses TTF/OTF data. name is informational.
func ParseFont(name string, data []byte) (*Font, error) {
	src, err := ggtext.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFont, name, err)
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFont, name, err)
	}
	return &Font{
		Name:    name,
		data:    data,
		source:  src,
		shaping: face.Font,
	}, nil
}

// Family returns the font's family name, if the font declares one.
func (f *Font) Family() string {
	return f.source.Name()
}

// Source returns the gg font source backing f.
func (f *Font) Source() *ggtext.FontSource {
	return f.source
}

// Size returns the length of the raw font data.
func (f *Font) Size() int {
	return len(f.data)
}

// Close releases the font source.
func (f *Font) Close() error {
	return f.source.Close()
}
