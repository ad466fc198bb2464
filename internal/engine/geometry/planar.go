package geometry

import (
	gomath "math"

	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

func rectangleGeometry(r *yasf.Rectangle) *scene.Geometry {
	x0, x1 := gomath.Min(r.XY1.X, r.XY2.X), gomath.Max(r.XY1.X, r.XY2.X)
	y0, y1 := gomath.Min(r.XY1.Y, r.XY2.Y), gomath.Max(r.XY1.Y, r.XY2.Y)

	b := newMeshBuilder(yasf.TypeRectangle, true)
	b.plane(
		math.V3(x0, y0, 0),
		math.V3(x1-x0, 0, 0),
		math.V3(0, y1-y0, 0),
		r.PartsX, r.PartsY,
	)
	return b.finish()
}

// boxSize returns the width (x), height (y) and depth (z) of a box.
func boxSize(x *yasf.Box) (w, h, d float64) {
	return gomath.Abs(x.XYZ2.X - x.XYZ1.X),
		gomath.Abs(x.XYZ2.Y - x.XYZ1.Y),
		gomath.Abs(x.XYZ2.Z - x.XYZ1.Z)
}

// boxGeometry builds six faces in the order +X, -X, +Y, -Y, +Z, -Z, each in
// its own material group.
func boxGeometry(x *yasf.Box) *scene.Geometry {
	x0, x1 := gomath.Min(x.XYZ1.X, x.XYZ2.X), gomath.Max(x.XYZ1.X, x.XYZ2.X)
	y0, y1 := gomath.Min(x.XYZ1.Y, x.XYZ2.Y), gomath.Max(x.XYZ1.Y, x.XYZ2.Y)
	z0, z1 := gomath.Min(x.XYZ1.Z, x.XYZ2.Z), gomath.Max(x.XYZ1.Z, x.XYZ2.Z)
	w, h, d := x1-x0, y1-y0, z1-z0

	faces := []struct {
		origin, u, v math.Vec3
		gridX, gridY int
	}{
		{math.V3(x1, y0, z1), math.V3(0, 0, -d), math.V3(0, h, 0), x.PartsZ, x.PartsY},
		{math.V3(x0, y0, z0), math.V3(0, 0, d), math.V3(0, h, 0), x.PartsZ, x.PartsY},
		{math.V3(x0, y1, z1), math.V3(w, 0, 0), math.V3(0, 0, -d), x.PartsX, x.PartsZ},
		{math.V3(x0, y0, z0), math.V3(w, 0, 0), math.V3(0, 0, d), x.PartsX, x.PartsZ},
		{math.V3(x0, y0, z1), math.V3(w, 0, 0), math.V3(0, h, 0), x.PartsX, x.PartsY},
		{math.V3(x1, y0, z0), math.V3(-w, 0, 0), math.V3(0, h, 0), x.PartsX, x.PartsY},
	}

	b := newMeshBuilder(yasf.TypeBox, true)
	for i, f := range faces {
		b.plane(f.origin, f.u, f.v, f.gridX, f.gridY)
		b.endGroup(i)
	}
	return b.finish()
}

// TriangleUVs unwraps a triangle onto the plane without distortion using the
// law of cosines: v1 maps to (0,0), v2 to (c,0) and v3 to (b cosθ, b sinθ),
// where a, b and c are the lengths of v2-v3, v1-v3 and v1-v2.
func TriangleUVs(v1, v2, v3 yasf.Vec3) [3][2]float64 {
	a := dist(v2, v3)
	b := dist(v1, v3)
	c := dist(v1, v2)

	cos := (b*b + c*c - a*a) / (2 * b * c)
	cos = gomath.Max(-1, gomath.Min(1, cos))
	sin := gomath.Sqrt(1 - cos*cos)

	return [3][2]float64{
		{0, 0},
		{c, 0},
		{b * cos, b * sin},
	}
}

func dist(p, q yasf.Vec3) float64 {
	dx, dy, dz := q.X-p.X, q.Y-p.Y, q.Z-p.Z
	return gomath.Sqrt(dx*dx + dy*dy + dz*dz)
}

func triangleGeometry(t *yasf.Triangle) *scene.Geometry {
	p1 := math.V3(t.XYZ1.X, t.XYZ1.Y, t.XYZ1.Z)
	p2 := math.V3(t.XYZ2.X, t.XYZ2.Y, t.XYZ2.Z)
	p3 := math.V3(t.XYZ3.X, t.XYZ3.Y, t.XYZ3.Z)
	normal := p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
	uvs := TriangleUVs(t.XYZ1, t.XYZ2, t.XYZ3)

	b := newMeshBuilder(yasf.TypeTriangle, true)
	i1 := b.vertex(p1, normal, float32(uvs[0][0]), float32(uvs[0][1]))
	i2 := b.vertex(p2, normal, float32(uvs[1][0]), float32(uvs[1][1]))
	i3 := b.vertex(p3, normal, float32(uvs[2][0]), float32(uvs[2][1]))
	b.triangle(i1, i2, i3)
	return b.finish()
}

// polygonGeometry builds a radial fan in the XY plane: stacks concentric
// rings of slices vertices, colored from ColorC at the center to ColorP at
// the rim.
func polygonGeometry(p *yasf.Polygon) *scene.Geometry {
	normal := math.Vec3{Z: 1}
	center := color(p.ColorC)
	rim := color(p.ColorP)

	b := newMeshBuilder(yasf.TypePolygon, false)
	apex := b.colored(math.Vec3{}, normal, center)

	rings := make([][]uint32, p.Stacks+1)
	for i := 1; i <= p.Stacks; i++ {
		f := float64(i) / float64(p.Stacks)
		radius := p.Radius * f
		c := lerpColor(center, rim, float32(f))

		ring := make([]uint32, p.Slices)
		for j := range ring {
			angle := 2 * gomath.Pi * float64(j) / float64(p.Slices)
			pos := math.V3(radius*gomath.Cos(angle), radius*gomath.Sin(angle), 0)
			ring[j] = b.colored(pos, normal, c)
		}
		rings[i] = ring
	}

	for j := 0; j < p.Slices; j++ {
		next := (j + 1) % p.Slices
		b.triangle(apex, rings[1][j], rings[1][next])
	}
	for i := 2; i <= p.Stacks; i++ {
		inner, outer := rings[i-1], rings[i]
		for j := 0; j < p.Slices; j++ {
			next := (j + 1) % p.Slices
			b.triangle(inner[j], outer[j], outer[next])
			b.triangle(inner[j], outer[next], inner[next])
		}
	}
	return b.finish()
}

func color(c yasf.Color) [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

func lerpColor(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
