package scene

import "image/color"

// Material describes how a mesh is filled.
type Material struct {
	// Color is the base fill color; its alpha is the opacity.
	Color color.NRGBA

	// DoubleSide disables back-face culling.
	DoubleSide bool

	// Lit applies flat Lambert shading from the renderer's light.
	// Unlit materials are drawn with Color as is.
	Lit bool
}

// BasicMaterial returns an unlit, single-sided material.
func BasicMaterial(c color.NRGBA) Material {
	return Material{Color: c}
}

// Mesh pairs a geometry with a material.
type Mesh struct {
	Geometry *Geometry
	Material Material
}
