// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package screenspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/systemview/scene"
)

// ErrDegenerateViewport is returned when the viewport or camera cannot
// produce a finite transform.
var ErrDegenerateViewport = errors.New("screenspace: degenerate viewport")

// Transform is the scale and offset that turn pixel units into camera
// space at the near plane.
type Transform struct {
	// Scale is world units per pixel along x and y; z is always 1.
	Scale mgl64.Vec3
	// Offset places local (0, 0) at the lower-left near-plane corner.
	Offset mgl64.Vec3
	// Width and Height are the viewport size the transform was built for.
	Width, Height int
}

// Compute derives the transform for a camera with the given vertical field
// of view (degrees) and near-plane distance, drawing into a width×height
// viewport.
func Compute(verticalFOV, near float64, width, height int) (Transform, error) {
	if width <= 0 || height <= 0 {
		return Transform{}, fmt.Errorf("%w: %dx%d", ErrDegenerateViewport, width, height)
	}
	if !(verticalFOV > 0 && verticalFOV < 180) {
		return Transform{}, fmt.Errorf("%w: fov %v", ErrDegenerateViewport, verticalFOV)
	}
	if !(near > 0) || math.IsInf(near, 0) {
		return Transform{}, fmt.Errorf("%w: near %v", ErrDegenerateViewport, near)
	}

	vfov := verticalFOV * math.Pi / 180
	aspect := float64(width) / float64(height)
	hfov := 2 * math.Atan(math.Tan(vfov/2)*aspect)

	screenHeight := 2 * math.Tan(vfov/2) * near
	screenWidth := 2 * math.Tan(hfov/2) * near

	return Transform{
		Scale:  mgl64.Vec3{screenWidth / float64(width), screenHeight / float64(height), 1},
		Offset: mgl64.Vec3{-screenWidth / 2, -screenHeight / 2, -near},
		Width:  width,
		Height: height,
	}, nil
}

// Apply writes the transform onto n's scale and position.
func (t Transform) Apply(n *scene.Node) {
	n.Scale = t.Scale
	n.Position = t.Offset
}

// Map returns the camera-space point of pixel (x, y), y measured up from
// the bottom edge.
func (t Transform) Map(x, y float64) mgl64.Vec3 {
	return mgl64.Vec3{
		t.Offset.X() + x*t.Scale.X(),
		t.Offset.Y() + y*t.Scale.Y(),
		t.Offset.Z(),
	}
}
