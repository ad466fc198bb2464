package geometry

import (
	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
)

// meshBuilder accumulates vertices and indices into a geometry.
type meshBuilder struct {
	geom       *scene.Geometry
	groupStart int
}

func newMeshBuilder(kind string, hasUVs bool) *meshBuilder {
	return &meshBuilder{
		geom: &scene.Geometry{
			Kind:   kind,
			Bounds: scene.EmptyBounds(),
			HasUVs: hasUVs,
		},
	}
}

// vertex appends a vertex and returns its index.
func (b *meshBuilder) vertex(pos, normal math.Vec3, u, v float32) uint32 {
	idx := uint32(len(b.geom.Vertices))
	p := pos.Array()
	b.geom.Vertices = append(b.geom.Vertices, scene.Vertex{
		Position: p,
		Normal:   normal.Array(),
		TexCoord: [2]float32{u, v},
	})
	b.geom.Bounds.Extend(p)
	return idx
}

// colored appends a vertex with a color and no texture coordinates.
func (b *meshBuilder) colored(pos, normal math.Vec3, color [3]float32) uint32 {
	idx := b.vertex(pos, normal, 0, 0)
	b.geom.Vertices[idx].Color = color
	b.geom.HasColors = true
	return idx
}

func (b *meshBuilder) triangle(a, c, d uint32) {
	b.geom.Indices = append(b.geom.Indices, a, c, d)
}

// endGroup closes the indices added since the previous group.
func (b *meshBuilder) endGroup(material int) {
	count := len(b.geom.Indices) - b.groupStart
	if count == 0 {
		return
	}
	b.geom.Groups = append(b.geom.Groups, scene.Group{
		Material:   material,
		StartIndex: int32(b.groupStart),
		IndexCount: int32(count),
	})
	b.groupStart = len(b.geom.Indices)
}

func (b *meshBuilder) finish() *scene.Geometry {
	b.endGroup(0)
	return b.geom
}

// plane adds a gridX x gridY grid spanning origin + su*uAxis + sv*vAxis for
// s in [0,1]. uAxis x vAxis points along the face normal. UVs run 0..1.
func (b *meshBuilder) plane(origin, uAxis, vAxis math.Vec3, gridX, gridY int) {
	normal := uAxis.Cross(vAxis).Normalize()
	stride := uint32(gridX + 1)

	first := uint32(len(b.geom.Vertices))
	for iy := 0; iy <= gridY; iy++ {
		fy := float32(iy) / float32(gridY)
		for ix := 0; ix <= gridX; ix++ {
			fx := float32(ix) / float32(gridX)
			pos := origin.Add(uAxis.Scale(fx)).Add(vAxis.Scale(fy))
			b.vertex(pos, normal, fx, fy)
		}
	}

	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := first + uint32(iy)*stride + uint32(ix)
			c := a + 1
			d := a + stride + 1
			e := a + stride
			b.triangle(a, c, d)
			b.triangle(a, d, e)
		}
	}
}
