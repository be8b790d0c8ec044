// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package screenspace maps a perspective camera's near plane to pixel
// coordinates.
//
// An [Overlay] owns a scene node parented to the camera. Each frame,
// [Overlay.Update] rescales and offsets that node so one local unit is one
// viewport pixel, with local (0, 0) at the lower-left corner of the visible
// frustum slice at the near plane and (width, height) at the upper-right.
//
// Only the near-plane slice maps exactly. Overlay content should have
// negligible depth (1e-9 along z); thicker content appears to scale as the
// field of view changes.
package screenspace
