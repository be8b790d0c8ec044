// Package scene is a minimal retained 3-D scene graph.
//
// A Scene holds a tree of Nodes. Each Node carries a local transform
// (position, Euler rotation, scale) and optionally a Mesh. Nodes can be
// re-parented freely: Add detaches a node from its previous parent and
// Remove only unparents, it never destroys. This is what lets a cached
// text mesh be swapped in and out of an overlay without being rebuilt.
//
// Cameras are nodes too, so content added under a camera moves rigidly
// with it:
//
//	s := scene.New()
//	cam := scene.NewPerspectiveCamera(75, 16.0/9.0, 0.1, 1000)
//	s.Add(cam.Node)
//	hud := scene.NewNode("hud")
//	cam.Add(hud)
//
// # Coordinate System
//
// Right-handed, y up, the camera looks down -z. Euler angles are applied in
// XYZ order (the rotation matrix is Rx·Ry·Rz) and local matrices compose as
// translate·rotate·scale.
//
// # Thread Safety
//
// Nodes are not safe for concurrent mutation. A view mutates its scene only
// from its frame callback.
package scene
