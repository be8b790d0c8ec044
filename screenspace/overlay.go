// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package screenspace

import (
	"log/slog"

	"github.com/gogpu/systemview/internal/logging"
	"github.com/gogpu/systemview/scene"
)

// Overlay is a pixel-space node that follows the camera.
type Overlay struct {
	node *scene.Node
	last Transform
	ok   bool
}

// NewOverlay creates an overlay with an unparented node. Call Attach to
// put it under a camera.
func NewOverlay() *Overlay {
	return &Overlay{node: scene.NewNode("screenspace")}
}

// Node returns the overlay node. Children added to it are positioned in
// pixels.
func (o *Overlay) Node() *scene.Node {
	return o.node
}

// Attach parents the overlay node to camera so it moves rigidly with it.
func (o *Overlay) Attach(camera *scene.PerspectiveCamera) {
	camera.Add(o.node)
}

// Update recomputes the transform from the camera's current field of view
// and near plane and the viewport's live size. It must run before every
// draw. On a degenerate viewport the last good transform stays applied and
// Update returns false.
func (o *Overlay) Update(camera *scene.PerspectiveCamera, width, height int) bool {
	t, err := Compute(camera.FOV, camera.Near, width, height)
	if err != nil {
		logging.Logger().Debug("screenspace: keeping last transform",
			slog.Any("err", err))
		return false
	}
	t.Apply(o.node)
	o.last = t
	o.ok = true
	return true
}

// Transform returns the transform applied by the last successful Update.
func (o *Overlay) Transform() (Transform, bool) {
	return o.last, o.ok
}
