// Package scene defines the renderer-agnostic render tree produced by the
// scene compiler.
package scene

import (
	"github.com/Faultbox/yasf/pkg/math"
)

// Scene is a compiled scene document.
type Scene struct {
	Root          *Node
	Background    [3]float32
	Ambient       [3]float32
	Fog           *Fog
	Cameras       []*Camera
	InitialCamera *Camera
	// Lights lists every light in the tree with its world-space placement.
	// Only the nearest level of each LOD group contributes.
	Lights []*PlacedLight
}

// Fog holds linear fog settings.
type Fog struct {
	Color [3]float32
	Near  float32
	Far   float32
}

// Transform is a node's local transform. The matrix is T * R * S.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a transform that leaves geometry unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Matrix returns the local transform matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Rotation, t.Scale)
}

// Node is one node of the render tree.
type Node struct {
	ID       string // Source node id
	Name     string
	Local    Transform
	Children []*Node
	Meshes   []*Mesh
	Lights   []*Light
	// Helpers holds debug line sets, only filled when light helpers are enabled.
	Helpers []*Lines
	// LOD is set on LOD group nodes. Its level roots are also the Children.
	LOD *LOD

	CastShadow    bool
	ReceiveShadow bool
}

// NewNode creates a node with an identity transform.
func NewNode(id string) *Node {
	return &Node{
		ID:    id,
		Name:  id,
		Local: IdentityTransform(),
	}
}

// IsLOD reports whether the node is a LOD group.
func (n *Node) IsLOD() bool {
	return n.LOD != nil
}

// LOD packages the alternative subtrees of a LOD group.
type LOD struct {
	Levels []LODLevel // Sorted by ascending MinDistance, first at 0
}

// LODLevel is one level of a LOD group.
type LODLevel struct {
	MinDistance float64
	Node        *Node
}

// LevelFor returns the level to show at the given camera distance: the last
// level whose MinDistance does not exceed it.
func (l *LOD) LevelFor(distance float64) *Node {
	var picked *Node
	for _, level := range l.Levels {
		if level.MinDistance > distance {
			break
		}
		picked = level.Node
	}
	if picked == nil && len(l.Levels) > 0 {
		picked = l.Levels[0].Node
	}
	return picked
}

// Walk visits the tree depth-first in child order with each node's world
// matrix. Returning false from fn skips the node's children.
func Walk(root *Node, fn func(n *Node, world math.Mat4, depth int) bool) {
	if root == nil {
		return
	}
	walk(root, math.Identity(), 0, fn)
}

func walk(n *Node, parent math.Mat4, depth int, fn func(*Node, math.Mat4, int) bool) {
	world := parent.Mul(n.Local.Matrix())
	if !fn(n, world, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, world, depth+1, fn)
	}
}

// Stats counts the contents of a tree.
type Stats struct {
	Nodes     int
	Meshes    int
	Lights    int
	LODs      int
	Vertices  int
	Triangles int
}

// Count walks the tree and totals its contents.
func Count(root *Node) Stats {
	var s Stats
	Walk(root, func(n *Node, _ math.Mat4, _ int) bool {
		s.Nodes++
		s.Lights += len(n.Lights)
		if n.IsLOD() {
			s.LODs++
		}
		for _, m := range n.Meshes {
			s.Meshes++
			if m.Geometry != nil {
				s.Vertices += len(m.Geometry.Vertices)
				s.Triangles += m.Geometry.TriangleCount()
			}
		}
		return true
	})
	return s
}

// WorldBounds returns the world-space bounds of every mesh in the tree.
// The result is not Valid when the tree holds no geometry.
func WorldBounds(root *Node) Bounds {
	out := EmptyBounds()
	Walk(root, func(n *Node, world math.Mat4, _ int) bool {
		for _, m := range n.Meshes {
			if m.Geometry == nil || !m.Geometry.Bounds.Valid() {
				continue
			}
			lo, hi := m.Geometry.Bounds.Min, m.Geometry.Bounds.Max
			for i := 0; i < 8; i++ {
				corner := math.Vec3{X: lo[0], Y: lo[1], Z: lo[2]}
				if i&1 != 0 {
					corner.X = hi[0]
				}
				if i&2 != 0 {
					corner.Y = hi[1]
				}
				if i&4 != 0 {
					corner.Z = hi[2]
				}
				p := world.TransformVec3(corner)
				out.Extend([3]float32{p.X, p.Y, p.Z})
			}
		}
		return true
	})
	return out
}
