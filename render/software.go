// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"

	"github.com/gogpu/systemview/internal/logging"
	"github.com/gogpu/systemview/scene"
)

var (
	// ErrInvalidSize is returned for non-positive render sizes.
	ErrInvalidSize = errors.New("render: invalid size")

	// ErrClosed is returned when rendering with a closed renderer.
	ErrClosed = errors.New("render: renderer closed")
)

// eyeEpsilon is the smallest clip-space w kept by clipping.
const eyeEpsilon = 1e-6

// Stats describes the last Render call.
type Stats struct {
	Meshes  int // visible meshes visited
	Faces   int // faces considered
	Clipped int // faces entirely behind the eye
	Culled  int // back faces skipped
	Drawn   int // faces filled
	Elapsed time.Duration
}

// polygon is a projected face ready to fill.
type polygon struct {
	depth    float64
	contours [][]mgl64.Vec2
	color    gg.RGBA
}

// Software renders scenes on the CPU (or gg's accelerator, when registered).
// It is not safe for concurrent use.
type Software struct {
	dc            *gg.Context
	width, height int
	polys         []polygon
	stats         Stats
	closed        bool
}

// NewSoftware creates a renderer with a width×height target.
func NewSoftware(width, height int) (*Software, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetFillRule(gg.FillRuleNonZero)
	logging.Logger().Debug("render: software renderer created",
		slog.Int("width", width), slog.Int("height", height),
		slog.String("backend", Backend()))
	return &Software{dc: dc, width: width, height: height}, nil
}

// Backend names the fill backend in use: gg's registered accelerator, or
// "software".
func Backend() string {
	if a := gg.Accelerator(); a != nil {
		return a.Name()
	}
	return "software"
}

// SetSize resizes the target. The contents are cleared on the next Render.
func (r *Software) SetSize(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width == r.width && height == r.height {
		return nil
	}
	if err := r.dc.Resize(width, height); err != nil {
		return fmt.Errorf("render: resize: %w", err)
	}
	r.dc.SetFillRule(gg.FillRuleNonZero)
	r.width, r.height = width, height
	return nil
}

// Size returns the target size.
func (r *Software) Size() (width, height int) {
	return r.width, r.height
}

// Render clears the target to the scene background and draws every
// visible mesh as seen from camera.
func (r *Software) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	if r.closed {
		return ErrClosed
	}
	start := time.Now()
	r.stats = Stats{}
	r.polys = r.polys[:0]

	r.dc.ClearWithColor(toRGBA(s.Background))

	vp := camera.Projection().Mul4(camera.ViewMatrix())
	r.walk(s.Root, mgl64.Ident4(), vp, s.Light)

	slices.SortStableFunc(r.polys, func(a, b polygon) int {
		return cmp.Compare(b.depth, a.depth)
	})

	for _, p := range r.polys {
		r.dc.SetRGBA(p.color.R, p.color.G, p.color.B, p.color.A)
		for _, c := range p.contours {
			r.dc.MoveTo(c[0].X(), c[0].Y())
			for _, pt := range c[1:] {
				r.dc.LineTo(pt.X(), pt.Y())
			}
			r.dc.ClosePath()
		}
		if err := r.dc.Fill(); err != nil {
			return fmt.Errorf("render: fill: %w", err)
		}
		r.stats.Drawn++
	}

	r.stats.Elapsed = time.Since(start)
	return nil
}

func (r *Software) walk(n *scene.Node, parent, vp mgl64.Mat4, light scene.Light) {
	if !n.Visible {
		return
	}
	world := parent.Mul4(n.LocalMatrix())
	if n.Mesh != nil && n.Mesh.Geometry != nil {
		r.stats.Meshes++
		r.collect(n.Mesh, world, vp.Mul4(world), light)
	}
	for _, c := range n.Children() {
		r.walk(c, world, vp, light)
	}
}

// collect projects every face of m and appends the visible ones.
func (r *Software) collect(m *scene.Mesh, world, mvp mgl64.Mat4, light scene.Light) {
	g := m.Geometry
	mat := m.Material
	w, h := float64(r.width), float64(r.height)

	for _, face := range g.Faces {
		r.stats.Faces++

		var (
			contours [][]mgl64.Vec2
			area     float64
			depth    float64
			count    int
		)
		for _, idx := range face {
			clip := make([]mgl64.Vec4, len(idx))
			for i, vi := range idx {
				clip[i] = mvp.Mul4x1(g.Vertices[vi].Vec4(1))
			}
			clip = clipEye(clip)
			if len(clip) < 3 {
				continue
			}
			ndc := make([]mgl64.Vec2, len(clip))
			for i, v := range clip {
				ndc[i] = mgl64.Vec2{v.X() / v.W(), v.Y() / v.W()}
				depth += v.W()
				count++
			}
			area += signedArea(ndc)

			screen := make([]mgl64.Vec2, len(ndc))
			for i, p := range ndc {
				screen[i] = mgl64.Vec2{(p.X() + 1) / 2 * w, (1 - p.Y()) / 2 * h}
			}
			contours = append(contours, screen)
		}
		if len(contours) == 0 {
			r.stats.Clipped++
			continue
		}
		if !mat.DoubleSide && area <= 0 {
			r.stats.Culled++
			continue
		}

		c := toRGBA(mat.Color)
		if mat.Lit {
			p, n := worldCentroidNormal(g, face, world)
			k := light.Intensity(p, n)
			c.R *= k
			c.G *= k
			c.B *= k
		}
		r.polys = append(r.polys, polygon{
			depth:    depth / float64(count),
			contours: contours,
			color:    c,
		})
	}
}

// clipEye clips a polygon to the half-space w >= eyeEpsilon
// (Sutherland-Hodgman against a single plane).
func clipEye(in []mgl64.Vec4) []mgl64.Vec4 {
	inside := func(v mgl64.Vec4) bool { return v.W() >= eyeEpsilon }

	all := true
	for _, v := range in {
		if !inside(v) {
			all = false
			break
		}
	}
	if all {
		return in
	}

	out := make([]mgl64.Vec4, 0, len(in)+2)
	for i, cur := range in {
		prev := in[(i+len(in)-1)%len(in)]
		switch {
		case inside(cur) && inside(prev):
			out = append(out, cur)
		case inside(cur):
			out = append(out, intersectEye(prev, cur), cur)
		case inside(prev):
			out = append(out, intersectEye(prev, cur))
		}
	}
	return out
}

func intersectEye(a, b mgl64.Vec4) mgl64.Vec4 {
	t := (eyeEpsilon - a.W()) / (b.W() - a.W())
	return a.Add(b.Sub(a).Mul(t))
}

// signedArea is twice the signed area; positive is counter-clockwise.
func signedArea(c []mgl64.Vec2) float64 {
	var a float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a
}

// worldCentroidNormal returns a face's centroid and Newell normal in world
// space, summed over all contours.
func worldCentroidNormal(g *scene.Geometry, face scene.Face, world mgl64.Mat4) (mgl64.Vec3, mgl64.Vec3) {
	var (
		centroid, normal mgl64.Vec3
		n                int
	)
	for _, idx := range face {
		for i, vi := range idx {
			a := mgl64.TransformCoordinate(g.Vertices[vi], world)
			b := mgl64.TransformCoordinate(g.Vertices[idx[(i+1)%len(idx)]], world)
			normal[0] += (a.Y() - b.Y()) * (a.Z() + b.Z())
			normal[1] += (a.Z() - b.Z()) * (a.X() + b.X())
			normal[2] += (a.X() - b.X()) * (a.Y() + b.Y())
			centroid = centroid.Add(a)
			n++
		}
	}
	if n > 0 {
		centroid = centroid.Mul(1 / float64(n))
	}
	return centroid, normal
}

func toRGBA(c color.NRGBA) gg.RGBA {
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// Image returns the last rendered frame.
func (r *Software) Image() image.Image {
	return r.dc.Image()
}

// SavePNG writes the last rendered frame to path.
func (r *Software) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

// Stats returns statistics for the last Render.
func (r *Software) Stats() Stats {
	return r.stats
}

// Close releases the drawing context. Close is idempotent.
func (r *Software) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.dc.Close()
}
