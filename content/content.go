// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package content provides the scenes a view can show.
package content

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gogpu/systemview/scene"
)

// ErrUnknownContent is returned by New for an unregistered name.
var ErrUnknownContent = errors.New("content: unknown content")

// Content populates a scene and animates it.
type Content interface {
	// Build adds the content's nodes to s.
	Build(s *scene.Scene)
	// Update advances the animation by dt.
	Update(dt time.Duration)
}

var registry = map[string]func() Content{
	"cube":        func() Content { return NewCube() },
	"star-system": func() Content { return NewStarSystem() },
}

// New returns fresh content by name.
func New(name string) (Content, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownContent, name, Names())
	}
	return ctor(), nil
}

// Names returns the registered content names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
