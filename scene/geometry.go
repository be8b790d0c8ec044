package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a filled polygon made of one or more closed contours, given as
// indices into Geometry.Vertices. Contours of the same face are filled
// together with the non-zero winding rule, so a glyph's counters stay open.
// Front faces wind counter-clockwise when seen from outside.
type Face [][]int

// Geometry is a polygonal shape in local coordinates.
type Geometry struct {
	Vertices []mgl64.Vec3
	Faces    []Face
}

// AddFace appends a face built from the given contours of points and
// returns its index.
func (g *Geometry) AddFace(contours ...[]mgl64.Vec3) int {
	face := make(Face, 0, len(contours))
	for _, c := range contours {
		if len(c) < 3 {
			continue
		}
		idx := make([]int, len(c))
		for i, p := range c {
			idx[i] = len(g.Vertices)
			g.Vertices = append(g.Vertices, p)
		}
		face = append(face, idx)
	}
	g.Faces = append(g.Faces, face)
	return len(g.Faces) - 1
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max mgl64.Vec3
}

// Size returns the extent of the box along each axis.
func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Bounds computes the bounding box of all vertices. ok is false for an
// empty geometry.
func (g *Geometry) Bounds() (b Box, ok bool) {
	if len(g.Vertices) == 0 {
		return Box{}, false
	}
	b.Min = g.Vertices[0]
	b.Max = g.Vertices[0]
	for _, v := range g.Vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = math.Min(b.Min[i], v[i])
			b.Max[i] = math.Max(b.Max[i], v[i])
		}
	}
	return b, true
}

// NewBoxGeometry creates a box centered on the origin.
func NewBoxGeometry(width, height, depth float64) *Geometry {
	x, y, z := width/2, height/2, depth/2
	g := &Geometry{
		Vertices: []mgl64.Vec3{
			{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
			{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
		},
	}
	g.Faces = []Face{
		{{4, 5, 6, 7}}, // +z
		{{1, 0, 3, 2}}, // -z
		{{5, 1, 2, 6}}, // +x
		{{0, 4, 7, 3}}, // -x
		{{7, 6, 2, 3}}, // +y
		{{0, 1, 5, 4}}, // -y
	}
	return g
}

// NewSphereGeometry creates a UV sphere centered on the origin.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	g := &Geometry{}
	for i := 0; i <= heightSegments; i++ {
		theta := float64(i) * math.Pi / float64(heightSegments)
		for j := 0; j <= widthSegments; j++ {
			phi := float64(j) * 2 * math.Pi / float64(widthSegments)
			g.Vertices = append(g.Vertices, mgl64.Vec3{
				radius * math.Sin(theta) * math.Cos(phi),
				radius * math.Cos(theta),
				radius * math.Sin(theta) * math.Sin(phi),
			})
		}
	}

	row := widthSegments + 1
	for i := 0; i < heightSegments; i++ {
		for j := 0; j < widthSegments; j++ {
			a := i*row + j
			b := a + 1
			c := a + row + 1
			d := a + row
			g.Faces = append(g.Faces, Face{{a, b, c, d}})
		}
	}
	return g
}

// NewRingGeometry creates a flat annulus in the XY plane.
func NewRingGeometry(innerRadius, outerRadius float64, segments int) *Geometry {
	segments = max(segments, 3)

	g := &Geometry{}
	for k := 0; k < segments; k++ {
		a := float64(k) * 2 * math.Pi / float64(segments)
		c, s := math.Cos(a), math.Sin(a)
		g.Vertices = append(g.Vertices,
			mgl64.Vec3{innerRadius * c, innerRadius * s, 0},
			mgl64.Vec3{outerRadius * c, outerRadius * s, 0},
		)
	}
	for k := 0; k < segments; k++ {
		i0, o0 := 2*k, 2*k+1
		i1, o1 := (2*k+2)%(2*segments), (2*k+3)%(2*segments)
		g.Faces = append(g.Faces, Face{{i0, o0, o1, i1}})
	}
	return g
}
