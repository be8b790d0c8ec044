package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PerspectiveCamera is a node with a perspective projection.
// After changing FOV, Aspect, Near or Far, call UpdateProjection.
type PerspectiveCamera struct {
	*Node

	// FOV is the vertical field of view in degrees.
	FOV float64
	// Aspect is viewport width / height.
	Aspect float64
	// Near and Far are the clip plane distances.
	Near, Far float64

	projection mgl64.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -z.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Node:       NewNode("camera"),
		FOV:        fov,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
		projection: mgl64.Ident4(),
	}
	c.UpdateProjection()
	return c
}

// UpdateProjection recomputes the projection matrix from the current
// parameters. Invalid parameters (non-positive or non-finite aspect, fov
// outside (0, 180), near >= far) leave the previous matrix in place and
// UpdateProjection returns false.
func (c *PerspectiveCamera) UpdateProjection() bool {
	if !(c.Aspect > 0) || math.IsInf(c.Aspect, 0) ||
		!(c.FOV > 0 && c.FOV < 180) ||
		!(c.Near > 0) || !(c.Far > c.Near) {
		return false
	}
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	return true
}

// Projection returns the projection matrix computed by the last
// successful UpdateProjection.
func (c *PerspectiveCamera) Projection() mgl64.Mat4 {
	return c.projection
}

// ViewMatrix returns the world-to-camera transform.
func (c *PerspectiveCamera) ViewMatrix() mgl64.Mat4 {
	return c.WorldMatrix().Inv()
}
