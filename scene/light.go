package scene

import "github.com/go-gl/mathgl/mgl64"

// Light is the single light used for Lit materials.
type Light struct {
	// Point selects a point light at Position. Otherwise the light is
	// directional and Direction points from the scene toward it.
	Point     bool
	Position  mgl64.Vec3
	Direction mgl64.Vec3

	// Ambient is the minimum intensity, in [0, 1].
	Ambient float64
}

// DefaultLight is a directional light from the upper right, behind the
// default camera.
var DefaultLight = Light{
	Direction: mgl64.Vec3{0.4, 0.6, 1},
	Ambient:   0.25,
}

// Intensity returns the Lambert factor for a surface at p with normal n,
// both in world space.
func (l Light) Intensity(p, n mgl64.Vec3) float64 {
	toLight := l.Direction
	if l.Point {
		toLight = l.Position.Sub(p)
	}
	if toLight.Len() == 0 || n.Len() == 0 {
		return 1
	}
	d := max(n.Normalize().Dot(toLight.Normalize()), 0)
	return l.Ambient + (1-l.Ambient)*d
}
