package geometry

import (
	gomath "math"

	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

// normalEpsilon is the parametric step used for finite-difference normals.
const normalEpsilon = 1e-5

type point [3]float64

func (p point) add(q point) point { return point{p[0] + q[0], p[1] + q[1], p[2] + q[2]} }
func (p point) sub(q point) point { return point{p[0] - q[0], p[1] - q[1], p[2] - q[2]} }
func (p point) scale(s float64) point { return point{p[0] * s, p[1] * s, p[2] * s} }
func (p point) lerp(q point, t float64) point { return p.add(q.sub(p).scale(t)) }

func (p point) length() float64 {
	return gomath.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
}

func (p point) vec() math.Vec3 {
	return math.V3(p[0], p[1], p[2])
}

// surface evaluates a rational tensor-product patch with clamped uniform
// knot vectors.
type surface struct {
	degreeU, degreeV int
	knotsU, knotsV   []float64
	points           [][]point   // [u][v]
	weights          [][]float64 // [u][v]
}

// newSurface prepares a NURBS descriptor for evaluation.
func newSurface(n *yasf.Nurbs) *surface {
	s := &surface{
		degreeU: n.DegreeU,
		degreeV: n.DegreeV,
		knotsU:  clampedKnots(n.CountU(), n.DegreeU),
		knotsV:  clampedKnots(n.CountV(), n.DegreeV),
		points:  make([][]point, n.CountU()),
		weights: make([][]float64, n.CountU()),
	}
	for i := 0; i < n.CountU(); i++ {
		s.points[i] = make([]point, n.CountV())
		s.weights[i] = make([]float64, n.CountV())
		for j := 0; j < n.CountV(); j++ {
			cp := n.Point(i, j)
			s.points[i][j] = point{cp.X, cp.Y, cp.Z}
			s.weights[i][j] = cp.Weight()
		}
	}
	return s
}

// clampedKnots returns a clamped uniform knot vector on [0, 1] for count
// control points of the given degree.
func clampedKnots(count, degree int) []float64 {
	knots := make([]float64, count+degree+1)
	inner := count - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= count:
			knots[i] = 1
		default:
			knots[i] = float64(i-degree) / float64(inner)
		}
	}
	return knots
}

// findSpan returns the knot span index containing t.
func findSpan(knots []float64, degree, count int, t float64) int {
	if t >= knots[count] {
		return count - 1
	}
	if t <= knots[degree] {
		return degree
	}
	low, high := degree, count
	mid := (low + high) / 2
	for t < knots[mid] || t >= knots[mid+1] {
		if t < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basis returns the degree+1 non-zero Cox-de Boor basis functions at t for
// the given span.
func basis(knots []float64, degree, span int, t float64) []float64 {
	n := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	n[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = t - knots[span+1-j]
		right[j] = knots[span+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		n[j] = saved
	}
	return n
}

// Eval returns the surface point at (u, v) in [0,1]².
func (s *surface) Eval(u, v float64) point {
	countU, countV := len(s.points), len(s.points[0])
	spanU := findSpan(s.knotsU, s.degreeU, countU, u)
	spanV := findSpan(s.knotsV, s.degreeV, countV, v)
	nu := basis(s.knotsU, s.degreeU, spanU, u)
	nv := basis(s.knotsV, s.degreeV, spanV, v)

	var sum point
	var wsum float64
	for a := 0; a <= s.degreeU; a++ {
		i := spanU - s.degreeU + a
		for b := 0; b <= s.degreeV; b++ {
			j := spanV - s.degreeV + b
			w := nu[a] * nv[b] * s.weights[i][j]
			sum = sum.add(s.points[i][j].scale(w))
			wsum += w
		}
	}
	if wsum == 0 {
		return sum
	}
	return sum.scale(1 / wsum)
}

// normal estimates the surface normal at (u, v) from one-sided differences
// that stay inside the parameter domain.
func (s *surface) normal(u, v float64, p point) math.Vec3 {
	var du, dv point
	if u-normalEpsilon >= 0 {
		du = p.sub(s.Eval(u-normalEpsilon, v))
	} else {
		du = s.Eval(u+normalEpsilon, v).sub(p)
	}
	if v-normalEpsilon >= 0 {
		dv = p.sub(s.Eval(u, v-normalEpsilon))
	} else {
		dv = s.Eval(u, v+normalEpsilon).sub(p)
	}
	return du.vec().Cross(dv.vec()).Normalize()
}

// nurbsGeometry samples the patch on a (parts_u+1) x (parts_v+1) grid.
func nurbsGeometry(n *yasf.Nurbs) *scene.Geometry {
	surf := newSurface(n)
	b := newMeshBuilder(yasf.TypeNurbs, true)

	stride := uint32(n.PartsU + 1)
	for j := 0; j <= n.PartsV; j++ {
		v := float64(j) / float64(n.PartsV)
		for i := 0; i <= n.PartsU; i++ {
			u := float64(i) / float64(n.PartsU)
			p := surf.Eval(u, v)
			b.vertex(p.vec(), surf.normal(u, v, p), float32(u), float32(v))
		}
	}

	for j := 0; j < n.PartsV; j++ {
		for i := 0; i < n.PartsU; i++ {
			a := uint32(j)*stride + uint32(i)
			c := a + 1
			d := a + stride + 1
			e := a + stride
			b.triangle(a, c, e)
			b.triangle(c, d, e)
		}
	}
	return b.finish()
}

// NurbsExtent estimates the world extent of a patch for tiling. Along u the
// control rows are averaged into one polyline whose arc length is estimated
// by midpoint subdivision. Along v the extent is the average bounding box
// diagonal of the control rows. Both are approximations whose error shrinks
// with more subdivisions; they are not exact arc lengths.
func NurbsExtent(n *yasf.Nurbs, subdivisions int) (u, v float64) {
	countU, countV := n.CountU(), n.CountV()

	avg := make([]point, countU)
	for i := 0; i < countU; i++ {
		var sum point
		for j := 0; j < countV; j++ {
			cp := n.Point(i, j)
			sum = sum.add(point{cp.X, cp.Y, cp.Z})
		}
		avg[i] = sum.scale(1 / float64(countV))
	}
	u = arcLength(avg, subdivisions)

	for i := 0; i < countU; i++ {
		lo := point{gomath.Inf(1), gomath.Inf(1), gomath.Inf(1)}
		hi := point{gomath.Inf(-1), gomath.Inf(-1), gomath.Inf(-1)}
		for j := 0; j < countV; j++ {
			cp := n.Point(i, j)
			for k, c := range [3]float64{cp.X, cp.Y, cp.Z} {
				lo[k] = gomath.Min(lo[k], c)
				hi[k] = gomath.Max(hi[k], c)
			}
		}
		v += hi.sub(lo).length()
	}
	v /= float64(countU)
	return u, v
}

// arcLength estimates the length of the Bézier curve defined by a control
// polygon. The polygon is split at its midpoint with de Casteljau's
// algorithm subdivisions times and the lengths of the resulting control
// polygons are summed. The estimate never falls below the chord length and
// never exceeds the original polygon length.
func arcLength(ctrl []point, subdivisions int) float64 {
	if len(ctrl) < 2 {
		return 0
	}
	pieces := [][]point{ctrl}
	for round := 0; round < subdivisions; round++ {
		next := make([][]point, 0, len(pieces)*2)
		for _, piece := range pieces {
			left, right := splitMidpoint(piece)
			next = append(next, left, right)
		}
		pieces = next
	}

	total := 0.0
	for _, piece := range pieces {
		total += polygonLength(piece)
	}
	return total
}

// splitMidpoint splits a Bézier control polygon at t = 0.5.
func splitMidpoint(ctrl []point) (left, right []point) {
	n := len(ctrl)
	left = make([]point, n)
	right = make([]point, n)

	work := append([]point(nil), ctrl...)
	for level := 0; level < n; level++ {
		left[level] = work[0]
		right[n-1-level] = work[n-1-level]
		for k := 0; k < n-1-level; k++ {
			work[k] = work[k].lerp(work[k+1], 0.5)
		}
	}
	return left, right
}

func polygonLength(pts []point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].sub(pts[i-1]).length()
	}
	return total
}
