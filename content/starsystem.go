// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package content

import (
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/systemview/scene"
)

// Body is a sphere on a circular orbit around its parent.
type Body struct {
	Name   string
	Radius float64
	Color  color.NRGBA

	// Orbit is the orbital radius; Period the time for one revolution.
	Orbit  float64
	Period time.Duration
	// Phase is the starting angle in radians.
	Phase float64

	Moons []Body
}

// DefaultBodies is the system built by NewStarSystem.
var DefaultBodies = []Body{
	{Name: "inner", Radius: 0.12, Color: color.NRGBA{R: 0xb0, G: 0x90, B: 0x70, A: 0xff},
		Orbit: 1.1, Period: 4 * time.Second},
	{Name: "blue", Radius: 0.2, Color: color.NRGBA{R: 0x40, G: 0x80, B: 0xff, A: 0xff},
		Orbit: 1.9, Period: 9 * time.Second, Phase: 2,
		Moons: []Body{
			{Name: "moon", Radius: 0.06, Color: color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
				Orbit: 0.35, Period: 2 * time.Second},
		}},
	{Name: "giant", Radius: 0.32, Color: color.NRGBA{R: 0xe0, G: 0xa0, B: 0x60, A: 0xff},
		Orbit: 3, Period: 20 * time.Second, Phase: 4},
}

// orbiter tracks one body: pivot rotates about its parent, body sits on
// the pivot's x axis.
type orbiter struct {
	body  Body
	pivot *scene.Node
	node  *scene.Node
}

// StarSystem is a lit star with planets, orbit rings and a moon. The star
// is the scene's point light.
type StarSystem struct {
	root     *scene.Node
	star     *scene.Node
	orbiters []*orbiter
	elapsed  time.Duration
}

// NewStarSystem creates the system from DefaultBodies.
func NewStarSystem() *StarSystem {
	return NewStarSystemFrom(DefaultBodies)
}

// NewStarSystemFrom creates a system from the given bodies.
func NewStarSystemFrom(bodies []Body) *StarSystem {
	ss := &StarSystem{root: scene.NewNode("star-system")}
	// Tilt so orbits read as ellipses from the default camera.
	ss.root.Rotation = mgl64.Vec3{0.45, 0, 0}

	ss.star = scene.NewMeshNode("star",
		scene.NewSphereGeometry(0.45, 16, 10),
		scene.BasicMaterial(color.NRGBA{R: 0xff, G: 0xd8, B: 0x40, A: 0xff}))
	ss.root.Add(ss.star)

	for _, b := range bodies {
		ss.addBody(ss.root, b)
	}
	ss.place()
	return ss
}

func (ss *StarSystem) addBody(parent *scene.Node, b Body) {
	ring := scene.NewMeshNode(b.Name+"-orbit",
		scene.NewRingGeometry(b.Orbit-0.01, b.Orbit+0.01, 48),
		scene.Material{Color: color.NRGBA{R: 0x50, G: 0x50, B: 0x60, A: 0xff}, DoubleSide: true})
	// Rings are built in XY; orbits run in XZ.
	ring.Rotation = mgl64.Vec3{-math.Pi / 2, 0, 0}
	parent.Add(ring)

	pivot := scene.NewNode(b.Name + "-pivot")
	parent.Add(pivot)

	node := scene.NewMeshNode(b.Name,
		scene.NewSphereGeometry(b.Radius, 12, 8),
		scene.Material{Color: b.Color, Lit: true})
	node.Position = mgl64.Vec3{b.Orbit, 0, 0}
	pivot.Add(node)

	ss.orbiters = append(ss.orbiters, &orbiter{body: b, pivot: pivot, node: node})
	for _, m := range b.Moons {
		ss.addBody(node, m)
	}
}

// Build implements Content. It also makes the star the scene's light.
func (ss *StarSystem) Build(s *scene.Scene) {
	s.Add(ss.root)
	s.Light = scene.Light{Point: true, Ambient: 0.15}
}

// Update implements Content.
func (ss *StarSystem) Update(dt time.Duration) {
	ss.elapsed += dt
	ss.place()
}

func (ss *StarSystem) place() {
	for _, o := range ss.orbiters {
		o.pivot.Rotation[1] = o.body.Phase + angle(ss.elapsed, o.body.Period)
	}
	ss.star.Rotation[1] = angle(ss.elapsed, 30*time.Second)
}

// angle is the orbital angle after t for the given period.
func angle(t, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	turns := float64(t%period) / float64(period)
	return 2 * math.Pi * turns
}

// Root returns the system's root node.
func (ss *StarSystem) Root() *scene.Node {
	return ss.root
}

// Body returns the node for the named body, or nil.
func (ss *StarSystem) Body(name string) *scene.Node {
	for _, o := range ss.orbiters {
		if o.body.Name == name {
			return o.node
		}
	}
	return nil
}
