// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package content

import (
	"image/color"
	"time"

	"github.com/gogpu/systemview/scene"
)

// Cube is a unit box spinning at one radian per second about X and Y.
type Cube struct {
	node *scene.Node
}

// NewCube creates the cube content.
func NewCube() *Cube {
	return &Cube{
		node: scene.NewMeshNode("cube",
			scene.NewBoxGeometry(1, 1, 1),
			scene.Material{Color: color.NRGBA{G: 0xff, A: 0xff}, Lit: true}),
	}
}

// Build implements Content.
func (c *Cube) Build(s *scene.Scene) {
	s.Add(c.node)
}

// Update implements Content.
func (c *Cube) Update(dt time.Duration) {
	d := dt.Seconds()
	c.node.Rotation[0] += d
	c.node.Rotation[1] += d
}

// Node returns the cube's node.
func (c *Cube) Node() *scene.Node {
	return c.node
}
