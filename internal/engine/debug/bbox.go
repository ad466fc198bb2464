// Package debug builds line-set helpers that visualize lights and bounds.
package debug

import "github.com/Faultbox/yasf/pkg/scene"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for bounds wireframes.
const DefaultBBoxPadding = 0.05

// GenerateBBoxWireframeVertices creates line vertices for a wireframe box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoundsWireframe returns a wireframe around a mesh's bounds, expanded by
// padding on all sides. Invalid bounds produce nil.
func BoundsWireframe(name string, b scene.Bounds, padding float32) *scene.Lines {
	if !b.Valid() {
		return nil
	}
	return &scene.Lines{
		Name: name,
		Vertices: GenerateBBoxWireframeVertices(
			b.Min[0]-padding, b.Min[1]-padding, b.Min[2]-padding,
			b.Max[0]+padding, b.Max[1]+padding, b.Max[2]+padding,
		),
		Color: [3]float32{0, 1, 0},
	}
}
