// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"errors"
	"image/color"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/systemview/cache"
	"github.com/gogpu/systemview/internal/logging"
	"github.com/gogpu/systemview/scene"
)

// ErrNoMesh is returned when a concurrent generation for the same message
// failed and this caller has no error of its own to report.
var ErrNoMesh = errors.New("text: mesh unavailable")

// DefaultSize is the default text size in pixels.
const DefaultSize = 16

// ProviderOption configures a MeshProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	size     float64
	material scene.Material
	generate []GenerateOption
}

// WithSize sets the text size in pixels.
func WithSize(px float64) ProviderOption {
	return func(o *providerOptions) {
		if px > 0 {
			o.size = px
		}
	}
}

// WithMaterial sets the material of generated meshes.
func WithMaterial(m scene.Material) ProviderOption {
	return func(o *providerOptions) {
		o.material = m
	}
}

// WithGenerateOptions passes options through to Generate.
func WithGenerateOptions(opts ...GenerateOption) ProviderOption {
	return func(o *providerOptions) {
		o.generate = append(o.generate, opts...)
	}
}

// MeshProvider returns one scene node per distinct message, generating
// it on first use and reusing it afterwards. Messages are compared after
// NFC normalization.
//
// A node has a single parent, so providers are not shared between views;
// share the FontLoader instead.
type MeshProvider struct {
	font   *Font
	opts   providerOptions
	meshes *cache.Cache[string, *scene.Node]
}

// NewMeshProvider creates a provider for f.
func NewMeshProvider(f *Font, opts ...ProviderOption) *MeshProvider {
	o := providerOptions{
		size:     DefaultSize,
		material: scene.BasicMaterial(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &MeshProvider{
		font:   f,
		opts:   o,
		meshes: cache.New[string, *scene.Node](),
	}
}

// Mesh returns the node for message. A failed generation is not cached.
func (p *MeshProvider) Mesh(message string) (*scene.Node, error) {
	key := norm.NFC.String(message)

	var genErr error
	n := p.meshes.GetOrCreate(key, func() *scene.Node {
		g, err := Generate(p.font, key, p.opts.size, p.opts.generate...)
		if err != nil {
			genErr = err
			return nil
		}
		logging.Logger().Debug("text: mesh generated",
			slog.String("message", key), slog.Int("faces", len(g.Faces)))
		return scene.NewMeshNode("text:"+key, g, p.opts.material)
	})
	if n != nil {
		return n, nil
	}

	p.meshes.CompareAndDelete(key, func(v *scene.Node) bool { return v == nil })
	if genErr == nil {
		genErr = ErrNoMesh
	}
	return nil, genErr
}

// Len returns the number of cached meshes.
func (p *MeshProvider) Len() int {
	return p.meshes.Len()
}
