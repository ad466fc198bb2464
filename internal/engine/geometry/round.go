package geometry

import (
	gomath "math"

	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

func radians(deg float64) float64 {
	return deg / 180 * gomath.Pi
}

// cylinderGeometry builds a tapered cylinder centered on the origin along Y.
// A cone is a cylinder with a zero top radius. Angles are in degrees.
func cylinderGeometry(kind string, top, bottom, height float64, slices, stacks int,
	caps bool, thetaStart, thetaLength float64) *scene.Geometry {

	b := newMeshBuilder(kind, true)
	half := height / 2
	slope := (bottom - top) / height
	start, length := radians(thetaStart), radians(thetaLength)

	rows := make([][]uint32, stacks+1)
	for y := 0; y <= stacks; y++ {
		v := float64(y) / float64(stacks)
		radius := v*(bottom-top) + top

		row := make([]uint32, slices+1)
		for x := 0; x <= slices; x++ {
			u := float64(x) / float64(slices)
			theta := u*length + start
			sin, cos := gomath.Sin(theta), gomath.Cos(theta)

			pos := math.V3(radius*sin, -v*height+half, radius*cos)
			normal := math.V3(sin, slope, cos).Normalize()
			row[x] = b.vertex(pos, normal, float32(u), float32(1-v))
		}
		rows[y] = row
	}

	for x := 0; x < slices; x++ {
		for y := 0; y < stacks; y++ {
			a := rows[y][x]
			c := rows[y+1][x]
			d := rows[y+1][x+1]
			e := rows[y][x+1]
			b.triangle(a, c, e)
			b.triangle(c, d, e)
		}
	}

	if caps {
		if top > 0 {
			cylinderCap(b, true, top, half, slices, start, length)
		}
		if bottom > 0 {
			cylinderCap(b, false, bottom, half, slices, start, length)
		}
	}
	return b.finish()
}

func cylinderCap(b *meshBuilder, top bool, radius, half float64, slices int, start, length float64) {
	sign := 1.0
	if !top {
		sign = -1
	}
	normal := math.V3(0, sign, 0)

	centers := make([]uint32, slices)
	for x := range centers {
		centers[x] = b.vertex(math.V3(0, half*sign, 0), normal, 0.5, 0.5)
	}

	ring := make([]uint32, slices+1)
	for x := 0; x <= slices; x++ {
		u := float64(x) / float64(slices)
		theta := u*length + start
		sin, cos := gomath.Sin(theta), gomath.Cos(theta)
		pos := math.V3(radius*sin, half*sign, radius*cos)
		ring[x] = b.vertex(pos, normal, float32(cos*0.5+0.5), float32(sin*0.5*sign+0.5))
	}

	for x := 0; x < slices; x++ {
		if top {
			b.triangle(ring[x], ring[x+1], centers[x])
		} else {
			b.triangle(ring[x+1], ring[x], centers[x])
		}
	}
}

// sphereGeometry builds a sphere patch. Theta sweeps from the +Y pole
// downwards, phi sweeps around Y.
func sphereGeometry(s *yasf.Sphere) *scene.Geometry {
	b := newMeshBuilder(yasf.TypeSphere, true)
	phiStart, phiLength := radians(s.PhiStart), radians(s.PhiLength)
	thetaStart, thetaLength := radians(s.ThetaStart), radians(s.ThetaLength)
	thetaEnd := gomath.Min(thetaStart+thetaLength, gomath.Pi)

	grid := make([][]uint32, s.Stacks+1)
	for iy := 0; iy <= s.Stacks; iy++ {
		v := float64(iy) / float64(s.Stacks)
		theta := thetaStart + v*thetaLength

		row := make([]uint32, s.Slices+1)
		for ix := 0; ix <= s.Slices; ix++ {
			u := float64(ix) / float64(s.Slices)
			phi := phiStart + u*phiLength

			pos := math.V3(
				-s.Radius*gomath.Cos(phi)*gomath.Sin(theta),
				s.Radius*gomath.Cos(theta),
				s.Radius*gomath.Sin(phi)*gomath.Sin(theta),
			)
			row[ix] = b.vertex(pos, pos.Normalize(), float32(u), float32(1-v))
		}
		grid[iy] = row
	}

	for iy := 0; iy < s.Stacks; iy++ {
		for ix := 0; ix < s.Slices; ix++ {
			a := grid[iy][ix+1]
			c := grid[iy][ix]
			d := grid[iy+1][ix]
			e := grid[iy+1][ix+1]
			// Skip the degenerate triangles that touch a closed pole.
			if iy != 0 || thetaStart > 0 {
				b.triangle(a, c, e)
			}
			if iy != s.Stacks-1 || thetaEnd < gomath.Pi {
				b.triangle(c, d, e)
			}
		}
	}
	return b.finish()
}
