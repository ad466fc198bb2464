package debug

import (
	gomath "math"

	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
)

// DefaultHelperSize is the radius of a point light helper.
const DefaultHelperSize = 0.5

// circleSegments is the number of segments per helper circle.
const circleSegments = 16

// LightHelper returns a line set showing a light's placement, in the same
// local space as the light.
func LightHelper(l *scene.Light, size float32) *scene.Lines {
	if size <= 0 {
		size = DefaultHelperSize
	}
	lines := &scene.Lines{Name: l.Name + "_helper", Color: l.Color}

	switch l.Kind {
	case scene.LightPoint:
		// Three great circles approximate a wire sphere.
		x, y, z := math.Vec3{X: size}, math.Vec3{Y: size}, math.Vec3{Z: size}
		lines.Vertices = append(lines.Vertices, circle(l.Position, x, y)...)
		lines.Vertices = append(lines.Vertices, circle(l.Position, y, z)...)
		lines.Vertices = append(lines.Vertices, circle(l.Position, z, x)...)

	case scene.LightSpot:
		dir := l.Target.Sub(l.Position)
		length := dir.Length()
		radius := length * float32(gomath.Tan(float64(l.Angle)))
		right, up := basis(dir)
		ring := circle(l.Target, right.Scale(radius), up.Scale(radius))
		lines.Vertices = append(lines.Vertices, ring...)
		for i := 0; i < 4; i++ {
			// Every fourth ring segment start, from the apex.
			k := i * (circleSegments / 4) * 6
			lines.Vertices = append(lines.Vertices, seg(l.Position, math.Vec3{X: ring[k], Y: ring[k+1], Z: ring[k+2]})...)
		}
		lines.Vertices = append(lines.Vertices, seg(l.Position, l.Target)...)

	case scene.LightDirectional:
		right, up := basis(l.Target.Sub(l.Position))
		corner := func(h, v float32) math.Vec3 {
			return l.Position.Add(right.Scale(h)).Add(up.Scale(v))
		}
		bl := corner(l.ShadowLeft, l.ShadowBottom)
		br := corner(l.ShadowRight, l.ShadowBottom)
		tr := corner(l.ShadowRight, l.ShadowTop)
		tl := corner(l.ShadowLeft, l.ShadowTop)
		lines.Vertices = append(lines.Vertices, seg(bl, br)...)
		lines.Vertices = append(lines.Vertices, seg(br, tr)...)
		lines.Vertices = append(lines.Vertices, seg(tr, tl)...)
		lines.Vertices = append(lines.Vertices, seg(tl, bl)...)
		lines.Vertices = append(lines.Vertices, seg(l.Position, l.Target)...)
	}
	return lines
}

// basis returns two unit vectors perpendicular to dir and to each other.
func basis(dir math.Vec3) (right, up math.Vec3) {
	dir = dir.Normalize()
	ref := math.Vec3{Y: 1}
	if d := dir.Dot(ref); d > 0.999 || d < -0.999 {
		ref = math.Vec3{X: 1}
	}
	right = dir.Cross(ref).Normalize()
	up = right.Cross(dir).Normalize()
	return right, up
}

// circle returns the segments of a circle around center spanned by the
// radius vectors a and b.
func circle(center, a, b math.Vec3) []float32 {
	out := make([]float32, 0, circleSegments*6)
	point := func(i int) math.Vec3 {
		theta := 2 * gomath.Pi * float64(i) / circleSegments
		return center.Add(a.Scale(float32(gomath.Cos(theta)))).Add(b.Scale(float32(gomath.Sin(theta))))
	}
	for i := 0; i < circleSegments; i++ {
		out = append(out, seg(point(i), point(i+1))...)
	}
	return out
}

func seg(a, b math.Vec3) []float32 {
	return []float32{a.X, a.Y, a.Z, b.X, b.Y, b.Z}
}
