package geometry

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/yasf/internal/engine/material"
	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

func texturedHandle(s, t float64) *material.Handle {
	return &material.Handle{
		Material: &scene.Material{
			ID:  "m1",
			Map: &scene.TextureBinding{TextureID: "t1", Wrap: scene.WrapRepeat, RepeatS: 1, RepeatT: 1},
		},
		TexLengthS: s,
		TexLengthT: t,
	}
}

func plainHandle() *material.Handle {
	return &material.Handle{Material: &scene.Material{ID: "plain"}, TexLengthS: 1, TexLengthT: 1}
}

func TestBoxTiling(t *testing.T) {
	box := &yasf.Box{
		XYZ1:   yasf.Vec3{},
		XYZ2:   yasf.Vec3{X: 2, Y: 1, Z: 3},
		PartsX: 1, PartsY: 1, PartsZ: 1,
	}
	res, err := Build(box, texturedHandle(1, 1), DefaultOptions())
	require.NoError(t, err)

	want := []Repeat{
		{3, 1}, {3, 1}, // X faces: (depth, height)
		{2, 3}, {2, 3}, // Y faces: (width, depth)
		{2, 1}, {2, 1}, // Z faces: (width, height)
	}
	require.Len(t, res.Repeats, 6)
	require.Len(t, res.Materials, 6)
	for i, w := range want {
		assert.InDelta(t, w.S, res.Repeats[i].S, 1e-6, "face %d s", i)
		assert.InDelta(t, w.T, res.Repeats[i].T, 1e-6, "face %d t", i)

		s, tt := res.Materials[i].Repeat()
		assert.InDelta(t, w.S, s, 1e-6)
		assert.InDelta(t, w.T, tt, 1e-6)
	}

	// Every face owns its material instance.
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			assert.NotSame(t, res.Materials[i], res.Materials[j])
			assert.NotSame(t, res.Materials[i].Map, res.Materials[j].Map)
		}
	}
}

func TestBoxTilingTexLength(t *testing.T) {
	box := &yasf.Box{XYZ2: yasf.Vec3{X: 2, Y: 1, Z: 3}, PartsX: 1, PartsY: 1, PartsZ: 1}
	res, err := Build(box, texturedHandle(2, 0.5), DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 1.5, res.Repeats[0].S, 1e-9)
	assert.InDelta(t, 2.0, res.Repeats[0].T, 1e-9)
	assert.InDelta(t, 1.0, res.Repeats[4].S, 1e-9)
}

func TestBoxGeometry(t *testing.T) {
	box := &yasf.Box{XYZ1: yasf.Vec3{X: 1, Y: 1, Z: 1}, XYZ2: yasf.Vec3{X: -1, Y: 0, Z: 2}, PartsX: 2, PartsY: 1, PartsZ: 3}
	res, err := Build(box, nil, DefaultOptions())
	require.NoError(t, err)
	g := res.Geometry

	assert.Empty(t, res.Materials)
	assert.Equal(t, yasf.TypeBox, g.Kind)
	require.Len(t, g.Groups, 6)
	for i, grp := range g.Groups {
		assert.Equal(t, i, grp.Material)
	}

	assert.Equal(t, [3]float32{-1, 0, 1}, g.Bounds.Min)
	assert.Equal(t, [3]float32{1, 1, 2}, g.Bounds.Max)

	// X faces: 3x1 grid, Y faces: 2x3, Z faces: 2x1.
	wantTris := 2 * 2 * (3*1 + 2*3 + 2*1)
	assert.Equal(t, wantTris, g.TriangleCount())

	// Face normals follow the +X, -X, +Y, -Y, +Z, -Z order.
	normals := [6][3]float32{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for i, grp := range g.Groups {
		v := g.Vertices[g.Indices[grp.StartIndex]]
		assert.Equal(t, normals[i], v.Normal, "face %d", i)
		assertWinding(t, g, grp)
	}
}

// assertWinding checks that every triangle of the group faces its vertex
// normals.
func assertWinding(t *testing.T, g *scene.Geometry, grp scene.Group) {
	t.Helper()
	for i := grp.StartIndex; i < grp.StartIndex+grp.IndexCount; i += 3 {
		a := toVec(g.Vertices[g.Indices[i]].Position)
		b := toVec(g.Vertices[g.Indices[i+1]].Position)
		c := toVec(g.Vertices[g.Indices[i+2]].Position)
		face := b.Sub(a).Cross(c.Sub(a))
		n := toVec(g.Vertices[g.Indices[i]].Normal)
		assert.Greater(t, face.Dot(n), float32(0), "triangle at %d faces away from its normal", i)
	}
}

func toVec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func TestRectangle(t *testing.T) {
	rect := &yasf.Rectangle{XY1: yasf.Vec2{X: 4, Y: 3}, XY2: yasf.Vec2{X: 0, Y: 0}, PartsX: 4, PartsY: 2}
	res, err := Build(rect, texturedHandle(2, 1), DefaultOptions())
	require.NoError(t, err)

	g := res.Geometry
	assert.Len(t, g.Vertices, 5*3)
	assert.Equal(t, 4*2*2, g.TriangleCount())
	assert.Equal(t, [3]float32{0, 0, 1}, g.Vertices[0].Normal)
	assertWinding(t, g, g.Groups[0])

	require.Len(t, res.Repeats, 1)
	assert.InDelta(t, 2.0, res.Repeats[0].S, 1e-9)
	assert.InDelta(t, 3.0, res.Repeats[0].T, 1e-9)
}

func TestTriangleUVs(t *testing.T) {
	const L = 2.5
	uvs := TriangleUVs(
		yasf.Vec3{},
		yasf.Vec3{X: L},
		yasf.Vec3{Y: L},
	)
	assert.InDelta(t, 0, uvs[0][0], 1e-6)
	assert.InDelta(t, 0, uvs[0][1], 1e-6)
	assert.InDelta(t, L, uvs[1][0], 1e-6)
	assert.InDelta(t, 0, uvs[1][1], 1e-6)
	assert.InDelta(t, 0, uvs[2][0], 1e-6)
	assert.InDelta(t, L, uvs[2][1], 1e-6)
}

func TestTriangleUVsPreserveLengths(t *testing.T) {
	v1 := yasf.Vec3{X: 1, Y: 2, Z: 3}
	v2 := yasf.Vec3{X: 4, Y: -1, Z: 0}
	v3 := yasf.Vec3{X: 0, Y: 5, Z: 1}
	uvs := TriangleUVs(v1, v2, v3)

	uvDist := func(a, b [2]float64) float64 {
		return gomath.Hypot(b[0]-a[0], b[1]-a[1])
	}
	assert.InDelta(t, dist(v1, v2), uvDist(uvs[0], uvs[1]), 1e-9)
	assert.InDelta(t, dist(v1, v3), uvDist(uvs[0], uvs[2]), 1e-9)
	assert.InDelta(t, dist(v2, v3), uvDist(uvs[1], uvs[2]), 1e-9)
}

func TestTriangleRepeat(t *testing.T) {
	tri := &yasf.Triangle{XYZ1: yasf.Vec3{}, XYZ2: yasf.Vec3{X: 1}, XYZ3: yasf.Vec3{Y: 1}}
	res, err := Build(tri, texturedHandle(4, 2), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Repeats, 1)
	assert.InDelta(t, 0.25, res.Repeats[0].S, 1e-9)
	assert.InDelta(t, 0.5, res.Repeats[0].T, 1e-9)
	assert.Equal(t, [3]float32{0, 0, 1}, res.Geometry.Vertices[0].Normal)
}

func TestCircumferenceTiling(t *testing.T) {
	tests := []struct {
		name   string
		prim   yasf.Primitive
		radius float64
	}{
		{"sphere", &yasf.Sphere{Radius: 2, Slices: 8, Stacks: 6, ThetaLength: 180, PhiLength: 360}, 2},
		{"cone", &yasf.Cone{Radius: 1.5, Height: 2, Slices: 8, Stacks: 1, ThetaLength: 360}, 1.5},
		{"cylinder uses larger radius", &yasf.Cylinder{Base: 1, Top: 3, Height: 2, Slices: 8, Stacks: 2, ThetaLength: 360}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(tt.prim, texturedHandle(1, 2), DefaultOptions())
			require.NoError(t, err)
			require.Len(t, res.Repeats, 1)
			circ := 2 * gomath.Pi * tt.radius
			assert.InDelta(t, circ, res.Repeats[0].S, 1e-9)
			assert.InDelta(t, circ/2, res.Repeats[0].T, 1e-9)
		})
	}
}

func TestCylinderGeometry(t *testing.T) {
	cyl := &yasf.Cylinder{Base: 1, Top: 1, Height: 2, Slices: 8, Stacks: 2, ThetaLength: 360}
	res, err := Build(cyl, nil, DefaultOptions())
	require.NoError(t, err)
	g := res.Geometry
	assert.Len(t, g.Vertices, 9*3)
	assert.Equal(t, 8*2*2, g.TriangleCount())
	assert.InDelta(t, -1, g.Bounds.Min[1], 1e-6)
	assert.InDelta(t, 1, g.Bounds.Max[1], 1e-6)

	cyl.CapsClose = true
	res, err = Build(cyl, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8*2*2+2*8, res.Geometry.TriangleCount())
	assertWinding(t, res.Geometry, res.Geometry.Groups[0])

	// A cone has no top cap.
	cone := &yasf.Cone{Radius: 1, Height: 2, Slices: 8, Stacks: 1, CapsClose: true, ThetaLength: 360}
	res, err = Build(cone, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8*2+8, res.Geometry.TriangleCount())
	assert.Equal(t, yasf.TypeCone, res.Geometry.Kind)
}

func TestSphereGeometry(t *testing.T) {
	s := &yasf.Sphere{Radius: 2, Slices: 8, Stacks: 4, ThetaLength: 180, PhiLength: 360}
	res, err := Build(s, nil, DefaultOptions())
	require.NoError(t, err)
	g := res.Geometry

	assert.Len(t, g.Vertices, 9*5)
	// Pole rows contribute one triangle per slice.
	assert.Equal(t, 8*2*4-2*8, g.TriangleCount())
	for _, v := range g.Vertices {
		assert.InDelta(t, 2, toVec(v.Position).Length(), 1e-5)
	}
	assertWinding(t, g, g.Groups[0])

	// A hemisphere keeps the full bottom row.
	s.ThetaLength = 90
	res, err = Build(s, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8*2*4-8, res.Geometry.TriangleCount())
}

func TestPolygon(t *testing.T) {
	p := &yasf.Polygon{
		Radius: 2, Stacks: 3, Slices: 6,
		ColorC: yasf.Color{R: 1, G: 0, B: 0},
		ColorP: yasf.Color{R: 0, G: 0, B: 1},
	}
	res, err := Build(p, texturedHandle(1, 1), DefaultOptions())
	require.NoError(t, err)
	g := res.Geometry

	assert.Len(t, g.Vertices, 1+3*6)
	assert.Equal(t, 6+2*6*2, g.TriangleCount())
	assert.True(t, g.HasColors)
	assert.False(t, g.HasUVs)
	assert.Empty(t, res.Repeats)
	require.Len(t, res.Materials, 1)
	assert.True(t, res.Materials[0].VertexColors)
	assertWinding(t, g, g.Groups[0])

	assert.Equal(t, [3]float32{1, 0, 0}, g.Vertices[0].Color)
	rim := g.Vertices[len(g.Vertices)-1]
	assert.Equal(t, [3]float32{0, 0, 1}, rim.Color)
	assert.InDelta(t, 2, toVec(rim.Position).Length(), 1e-5)

	// First ring sits a third of the way between the two colors.
	first := g.Vertices[1].Color
	assert.InDelta(t, 2.0/3, first[0], 1e-6)
	assert.InDelta(t, 1.0/3, first[2], 1e-6)
}

func TestNilMaterial(t *testing.T) {
	prims := []yasf.Primitive{
		&yasf.Rectangle{XY2: yasf.Vec2{X: 1, Y: 1}, PartsX: 1, PartsY: 1},
		&yasf.Triangle{XYZ2: yasf.Vec3{X: 1}, XYZ3: yasf.Vec3{Y: 1}},
		&yasf.Polygon{Radius: 1, Stacks: 1, Slices: 3},
		flatNurbs(1),
	}
	for _, p := range prims {
		res, err := Build(p, nil, DefaultOptions())
		require.NoError(t, err, p.LeafType())
		assert.NotNil(t, res.Geometry)
		assert.Empty(t, res.Materials)
		assert.Empty(t, res.Repeats)
	}
}

func TestUntexturedMaterialHasNoRepeat(t *testing.T) {
	h := plainHandle()
	res, err := Build(&yasf.Box{XYZ2: yasf.Vec3{X: 1, Y: 1, Z: 1}, PartsX: 1, PartsY: 1, PartsZ: 1}, h, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Materials, 6)
	assert.Empty(t, res.Repeats)
	assert.NotSame(t, h.Material, res.Materials[0])
}

func TestBuildDoesNotMutateHandle(t *testing.T) {
	h := texturedHandle(1, 1)
	_, err := Build(&yasf.Rectangle{XY2: yasf.Vec2{X: 5, Y: 7}, PartsX: 1, PartsY: 1}, h, DefaultOptions())
	require.NoError(t, err)
	s, tt := h.Material.Repeat()
	assert.Equal(t, 1.0, s)
	assert.Equal(t, 1.0, tt)
}

func TestBuildRejectsMalformedPrimitives(t *testing.T) {
	prims := []yasf.Primitive{
		&yasf.Polygon{Radius: 1, Slices: 8},
		&yasf.Nurbs{DegreeU: 1, DegreeV: 1, PartsU: 1, PartsV: 1, ControlPoints: []yasf.ControlPoint{{}, {X: 1}}},
		&yasf.Box{XYZ2: yasf.Vec3{X: 1, Y: 1, Z: 1}},
		&yasf.Sphere{Radius: 1, Slices: 8, Stacks: 4},
	}
	for _, p := range prims {
		_, err := Build(p, texturedHandle(1, 1), DefaultOptions())
		require.Error(t, err, p.LeafType())
		assert.ErrorIs(t, err, yasf.ErrSchema, p.LeafType())
	}
}
