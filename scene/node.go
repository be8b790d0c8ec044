package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is an element of the scene graph.
type Node struct {
	// Name is used for lookups and diagnostics.
	Name string

	// Position, Rotation (Euler XYZ, radians) and Scale form the local transform.
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3

	// Visible hides the node and its whole subtree when false.
	Visible bool

	// Mesh is drawn at this node's world transform when non-nil.
	Mesh *Mesh

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   mgl64.Vec3{1, 1, 1},
		Visible: true,
	}
}

// NewMeshNode creates a node displaying the given geometry and material.
func NewMeshNode(name string, g *Geometry, m Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	return n
}

// Parent returns the node's parent, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child to n, detaching it from any previous parent first.
// Adding a node to itself or to one of its ancestors is ignored.
func (n *Node) Add(child *Node) {
	if child == nil || child == n || child.isAncestorOf(n) {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. The child is left intact and may be added
// elsewhere later. Returns false if child is not a child of n.
func (n *Node) Remove(child *Node) bool {
	if child == nil || child.parent != n {
		return false
	}
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// Contains reports whether child is a direct child of n.
func (n *Node) Contains(child *Node) bool {
	return child != nil && child.parent == n
}

func (n *Node) isAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Find returns the first node in the subtree (including n) with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Traverse walks the subtree depth-first, parents before children.
// Returning false from fn stops the walk.
func (n *Node) Traverse(fn func(*Node) bool) {
	n.traverse(fn)
}

func (n *Node) traverse(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.traverse(fn) {
			return false
		}
	}
	return true
}

// LocalMatrix returns translate·rotate·scale for this node.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := mgl64.HomogRotate3DX(n.Rotation.X()).
		Mul4(mgl64.HomogRotate3DY(n.Rotation.Y())).
		Mul4(mgl64.HomogRotate3DZ(n.Rotation.Z()))
	s := mgl64.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the product of local matrices from the root down to n.
// It is computed on demand, so it always reflects the current transforms.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPoint maps a point in n's local space to world space.
func (n *Node) WorldPoint(local mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(local, n.WorldMatrix())
}

// WorldVisible reports whether n and all its ancestors are visible.
func (n *Node) WorldVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
