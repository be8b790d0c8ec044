package scene

import "image/color"

// Scene is the root of a scene graph.
type Scene struct {
	// Root holds every top-level node.
	Root *Node

	// Background is the clear color.
	Background color.NRGBA

	// Light shades Lit materials.
	Light Light
}

// New creates an empty scene with a black background and DefaultLight.
func New() *Scene {
	return &Scene{
		Root:       NewNode("scene"),
		Background: color.NRGBA{A: 0xff},
		Light:      DefaultLight,
	}
}

// Add attaches n to the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Remove detaches n from the scene root.
func (s *Scene) Remove(n *Node) bool {
	return s.Root.Remove(n)
}

// Traverse walks every node in the scene.
func (s *Scene) Traverse(fn func(*Node) bool) {
	s.Root.Traverse(fn)
}
