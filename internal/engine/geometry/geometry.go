// Package geometry builds mesh geometry for the procedural primitives of a
// scene and derives texture tiling from each primitive's extent.
package geometry

import (
	gomath "math"

	"github.com/Faultbox/yasf/internal/engine/material"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

// DefaultArcSubdivisions is the number of midpoint subdivision rounds used to
// estimate curve lengths for NURBS tiling.
const DefaultArcSubdivisions = 5

// Options controls geometry building.
type Options struct {
	ArcSubdivisions int
}

// DefaultOptions returns the default build options.
func DefaultOptions() Options {
	return Options{ArcSubdivisions: DefaultArcSubdivisions}
}

// Repeat is the tiling applied to one material slot.
type Repeat struct {
	S, T float64
}

// Result is a built primitive. Materials and Repeats are indexed by material
// slot. Materials is empty when no material was bound; Repeats is empty when
// the material does not tile.
type Result struct {
	Geometry  *scene.Geometry
	Materials []*scene.Material
	Repeats   []Repeat
}

// Build builds the geometry of a primitive. Every material slot of the
// result holds its own clone of h. Malformed parameters are a SchemaError.
func Build(p yasf.Primitive, h *material.Handle, opts Options) (*Result, error) {
	if err := yasf.Validate(p); err != nil {
		return nil, &yasf.SchemaError{Field: p.LeafType(), Msg: err.Error()}
	}
	if opts.ArcSubdivisions <= 0 {
		opts.ArcSubdivisions = DefaultArcSubdivisions
	}
	b := &builder{handle: h, opts: opts}
	if err := p.Accept(b); err != nil {
		return nil, err
	}
	return b.result, nil
}

// builder dispatches on the primitive kind.
type builder struct {
	handle *material.Handle
	opts   Options
	result *Result
}

func (b *builder) VisitRectangle(r *yasf.Rectangle) error {
	geom := rectangleGeometry(r)
	w, h := gomath.Abs(r.XY2.X-r.XY1.X), gomath.Abs(r.XY2.Y-r.XY1.Y)
	return b.single(geom, w, h)
}

func (b *builder) VisitTriangle(t *yasf.Triangle) error {
	// UVs are already world lengths, so one unit of UV spans one texlength.
	return b.single(triangleGeometry(t), 1, 1)
}

func (b *builder) VisitBox(x *yasf.Box) error {
	geom := boxGeometry(x)
	res := &Result{Geometry: geom}
	if b.handle == nil {
		b.result = res
		return nil
	}

	w, h, d := boxSize(x)
	extents := [6][2]float64{
		{d, h}, {d, h}, // +X, -X
		{w, d}, {w, d}, // +Y, -Y
		{w, h}, {w, h}, // +Z, -Z
	}
	for _, e := range extents {
		m, rep, err := b.instance(e[0], e[1])
		if err != nil {
			return err
		}
		res.Materials = append(res.Materials, m)
		if rep != nil {
			res.Repeats = append(res.Repeats, *rep)
		}
	}
	b.result = res
	return nil
}

func (b *builder) VisitCylinder(c *yasf.Cylinder) error {
	geom := cylinderGeometry(yasf.TypeCylinder, c.Top, c.Base, c.Height, c.Slices, c.Stacks,
		c.CapsClose, c.ThetaStart, c.ThetaLength)
	circ := Circumference(gomath.Max(c.Base, c.Top))
	return b.single(geom, circ, circ)
}

func (b *builder) VisitCone(c *yasf.Cone) error {
	geom := cylinderGeometry(yasf.TypeCone, 0, c.Radius, c.Height, c.Slices, c.Stacks,
		c.CapsClose, c.ThetaStart, c.ThetaLength)
	circ := Circumference(c.Radius)
	return b.single(geom, circ, circ)
}

func (b *builder) VisitSphere(s *yasf.Sphere) error {
	circ := Circumference(s.Radius)
	return b.single(sphereGeometry(s), circ, circ)
}

func (b *builder) VisitPolygon(p *yasf.Polygon) error {
	res := &Result{Geometry: polygonGeometry(p)}
	if b.handle != nil {
		m, err := material.Clone(b.handle.Material)
		if err != nil {
			return err
		}
		m.VertexColors = true
		res.Materials = []*scene.Material{m}
	}
	b.result = res
	return nil
}

func (b *builder) VisitNurbs(n *yasf.Nurbs) error {
	u, v := NurbsExtent(n, b.opts.ArcSubdivisions)
	return b.single(nurbsGeometry(n), u, v)
}

// single stores a one-slot geometry as the result.
func (b *builder) single(geom *scene.Geometry, width, height float64) error {
	res := &Result{Geometry: geom}
	if b.handle != nil {
		m, rep, err := b.instance(width, height)
		if err != nil {
			return err
		}
		res.Materials = []*scene.Material{m}
		if rep != nil {
			res.Repeats = []Repeat{*rep}
		}
	}
	b.result = res
	return nil
}

// instance clones the bound material and sets its tiling for a surface of
// the given extent.
func (b *builder) instance(width, height float64) (*scene.Material, *Repeat, error) {
	h, err := b.handle.Clone()
	if err != nil {
		return nil, nil, err
	}
	if !h.Repeatable() {
		return h.Material, nil, nil
	}
	s, t := h.Repeat(width, height)
	h.Material.SetRepeat(s, t)
	return h.Material, &Repeat{S: s, T: t}, nil
}

// Circumference returns 2πr.
func Circumference(radius float64) float64 {
	return 2 * gomath.Pi * radius
}
