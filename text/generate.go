// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	ggtext "github.com/gogpu/gg/text"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/systemview/internal/logging"
	"github.com/gogpu/systemview/scene"
)

// ErrGlyph is returned when a glyph outline cannot be extracted.
var ErrGlyph = errors.New("text: glyph outline")

// DefaultCurveSegments is the number of line segments per curve.
const DefaultCurveSegments = 12

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	curveSegments int
}

// WithCurveSegments sets how many line segments approximate each
// quadratic or cubic outline segment. Values below 1 are ignored.
func WithCurveSegments(n int) GenerateOption {
	return func(o *generateOptions) {
		if n >= 1 {
			o.curveSegments = n
		}
	}
}

// Generate lays out message on a single line and returns its outline as
// flat geometry in the z = 0 plane. The baseline starts at the origin,
// y grows up and one unit is one pixel at the given size. Each glyph is
// one face whose contours are filled with the non-zero rule; faces wind
// counter-clockwise seen from +z.
func Generate(f *Font, message string, size float64, opts ...GenerateOption) (*scene.Geometry, error) {
	o := generateOptions{curveSegments: DefaultCurveSegments}
	for _, opt := range opts {
		opt(&o)
	}

	g := &scene.Geometry{}
	runes := []rune(message)
	if len(runes) == 0 || size <= 0 {
		return g, nil
	}

	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.shaping),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})

	extractor := ggtext.NewOutlineExtractor()
	parsed := f.source.Parsed()

	var pen float64
	for _, glyph := range out.Glyphs {
		x := pen + fixedToFloat(glyph.XOffset)
		y := fixedToFloat(glyph.YOffset)
		pen += fixedToFloat(glyph.Advance)

		gid, ok := outlineGlyph(uint32(glyph.GlyphID))
		if !ok {
			logging.Logger().Debug("text: glyph id out of outline range",
				slog.Uint64("gid", uint64(glyph.GlyphID)))
			continue
		}
		outline, err := extractor.ExtractOutline(parsed, gid, size)
		if err != nil {
			return nil, fmt.Errorf("%w: glyph %d: %v", ErrGlyph, gid, err)
		}
		if outline == nil || outline.IsEmpty() {
			continue
		}
		contours := flatten(outline, x, y, o.curveSegments)
		if len(contours) == 0 {
			continue
		}
		orient(contours)
		g.AddFace(contours...)
	}
	return g, nil
}

// flatten converts an outline to closed polygons, translated by (x, y)
// and flipped from y-down font space to y-up.
func flatten(outline *ggtext.GlyphOutline, x, y float64, segments int) [][]mgl64.Vec3 {
	pt := func(p ggtext.OutlinePoint) mgl64.Vec2 {
		return mgl64.Vec2{x + float64(p.X), y - float64(p.Y)}
	}

	var (
		contours [][]mgl64.Vec3
		cur      []mgl64.Vec3
		last     mgl64.Vec2
	)
	closeContour := func() {
		if len(cur) >= 3 {
			contours = append(contours, cur)
		}
		cur = nil
	}
	add := func(p mgl64.Vec2) {
		cur = append(cur, mgl64.Vec3{p.X(), p.Y(), 0})
		last = p
	}

	for _, seg := range outline.Segments {
		switch seg.Op {
		case ggtext.OutlineOpMoveTo:
			closeContour()
			add(pt(seg.Points[0]))
		case ggtext.OutlineOpLineTo:
			add(pt(seg.Points[0]))
		case ggtext.OutlineOpQuadTo:
			p0, c, p1 := last, pt(seg.Points[0]), pt(seg.Points[1])
			for i := 1; i <= segments; i++ {
				t := float64(i) / float64(segments)
				u := 1 - t
				add(p0.Mul(u * u).Add(c.Mul(2 * u * t)).Add(p1.Mul(t * t)))
			}
		case ggtext.OutlineOpCubicTo:
			p0, c1, c2, p1 := last, pt(seg.Points[0]), pt(seg.Points[1]), pt(seg.Points[2])
			for i := 1; i <= segments; i++ {
				t := float64(i) / float64(segments)
				u := 1 - t
				add(p0.Mul(u * u * u).
					Add(c1.Mul(3 * u * u * t)).
					Add(c2.Mul(3 * u * t * t)).
					Add(p1.Mul(t * t * t)))
			}
		}
	}
	closeContour()
	return contours
}

// outlineGlyph converts a shaped glyph ID to the 16-bit ID used by the
// outline tables. IDs beyond that range have no outline.
func outlineGlyph(id uint32) (ggtext.GlyphID, bool) {
	if id > math.MaxUint16 {
		return 0, false
	}
	return ggtext.GlyphID(id), true
}

// signedArea returns twice the signed area of a contour in the XY plane;
// positive means counter-clockwise.
func signedArea(c []mgl64.Vec3) float64 {
	var a float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a
}

// orient reverses every contour of a glyph when its largest contour winds
// clockwise. TrueType and CFF outlines use opposite conventions; reversing
// all contours together keeps holes as holes.
func orient(contours [][]mgl64.Vec3) {
	var largest float64
	for _, c := range contours {
		if a := signedArea(c); abs(a) > abs(largest) {
			largest = a
		}
	}
	if largest >= 0 {
		return
	}
	for _, c := range contours {
		for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
			c[i], c[j] = c[j], c[i]
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
