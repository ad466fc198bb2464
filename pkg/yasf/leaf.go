package yasf

import "strings"

// Leaf is an inline child of a node: a Primitive, a Light, or an Unsupported
// placeholder for an unknown kind string.
type Leaf interface {
	LeafType() string
}

// PrimitiveVisitor handles every primitive kind. Adding a kind adds a method
// here, so every builder stops compiling until it handles the new kind.
type PrimitiveVisitor interface {
	VisitRectangle(*Rectangle) error
	VisitTriangle(*Triangle) error
	VisitBox(*Box) error
	VisitCylinder(*Cylinder) error
	VisitSphere(*Sphere) error
	VisitCone(*Cone) error
	VisitPolygon(*Polygon) error
	VisitNurbs(*Nurbs) error
}

// Primitive is a procedural geometry descriptor.
type Primitive interface {
	Leaf
	Accept(PrimitiveVisitor) error
}

// LightVisitor handles every light kind.
type LightVisitor interface {
	VisitPointLight(*PointLight) error
	VisitSpotLight(*SpotLight) error
	VisitDirectionalLight(*DirectionalLight) error
}

// Light is a light descriptor.
type Light interface {
	Leaf
	Accept(LightVisitor) error
	Common() *LightCommon
}

// Unsupported records a leaf whose type string is not a known kind.
type Unsupported struct {
	Type string
}

func (u *Unsupported) LeafType() string { return u.Type }

// IsLight reports whether the unknown kind names a light.
func (u *Unsupported) IsLight() bool {
	return strings.HasSuffix(strings.ToLower(u.Type), "light")
}

// Rectangle spans two opposite corners in the XY plane.
type Rectangle struct {
	XY1    Vec2 `json:"xy1"`
	XY2    Vec2 `json:"xy2"`
	PartsX int  `json:"parts_x"`
	PartsY int  `json:"parts_y"`
}

// Triangle is a flat triangle.
type Triangle struct {
	XYZ1 Vec3 `json:"xyz1"`
	XYZ2 Vec3 `json:"xyz2"`
	XYZ3 Vec3 `json:"xyz3"`
}

// Box is an axis-aligned box spanning two opposite corners.
type Box struct {
	XYZ1   Vec3 `json:"xyz1"`
	XYZ2   Vec3 `json:"xyz2"`
	PartsX int  `json:"parts_x"`
	PartsY int  `json:"parts_y"`
	PartsZ int  `json:"parts_z"`
}

// Cylinder is a (possibly tapered) cylinder around the Y axis.
type Cylinder struct {
	Base        float64 `json:"base"`
	Top         float64 `json:"top"`
	Height      float64 `json:"height"`
	Slices      int     `json:"slices"`
	Stacks      int     `json:"stacks"`
	CapsClose   bool    `json:"capsclose"`
	ThetaStart  float64 `json:"thetastart"`  // Degrees
	ThetaLength float64 `json:"thetalength"` // Degrees
}

// Cone is a cone around the Y axis with its apex at the top.
type Cone struct {
	Radius      float64 `json:"radius"`
	Height      float64 `json:"height"`
	Slices      int     `json:"slices"`
	Stacks      int     `json:"stacks"`
	CapsClose   bool    `json:"capsclose"`
	ThetaStart  float64 `json:"thetastart"`
	ThetaLength float64 `json:"thetalength"`
}

// Sphere is a (possibly partial) sphere centered at the origin.
type Sphere struct {
	Radius      float64 `json:"radius"`
	Slices      int     `json:"slices"`
	Stacks      int     `json:"stacks"`
	ThetaStart  float64 `json:"thetastart"`  // Vertical sweep start, degrees
	ThetaLength float64 `json:"thetalength"` // Vertical sweep, degrees
	PhiStart    float64 `json:"phistart"`    // Horizontal sweep start, degrees
	PhiLength   float64 `json:"philength"`   // Horizontal sweep, degrees
}

// Polygon is a flat radial fan colored from ColorC at the center to ColorP
// at the rim.
type Polygon struct {
	Radius float64 `json:"radius"`
	Stacks int     `json:"stacks"`
	Slices int     `json:"slices"`
	ColorC Color   `json:"color_c"`
	ColorP Color   `json:"color_p"`
}

// ControlPoint is a weighted NURBS control point.
type ControlPoint struct {
	X float64  `json:"x"`
	Y float64  `json:"y"`
	Z float64  `json:"z"`
	W *float64 `json:"w,omitempty"`
}

// Weight returns the point weight, 1 when unset.
func (p ControlPoint) Weight() float64 {
	if p.W == nil {
		return 1
	}
	return *p.W
}

// Nurbs is a rational tensor-product patch. ControlPoints hold
// (DegreeU+1)*(DegreeV+1) points in u-major order: index = u*(DegreeV+1) + v.
type Nurbs struct {
	DegreeU       int            `json:"degree_u"`
	DegreeV       int            `json:"degree_v"`
	PartsU        int            `json:"parts_u"`
	PartsV        int            `json:"parts_v"`
	ControlPoints []ControlPoint `json:"controlpoints"`
}

// CountU returns the number of control points along u.
func (n *Nurbs) CountU() int { return n.DegreeU + 1 }

// CountV returns the number of control points along v.
func (n *Nurbs) CountV() int { return n.DegreeV + 1 }

// Point returns control point (i, j), i along u and j along v.
func (n *Nurbs) Point(i, j int) ControlPoint {
	return n.ControlPoints[i*n.CountV()+j]
}

// LightCommon holds the fields shared by every light kind.
type LightCommon struct {
	Enabled       bool    `json:"enabled"`
	Color         Color   `json:"color"`
	Intensity     float64 `json:"intensity"`
	CastShadow    bool    `json:"castshadow"`
	ShadowFar     float64 `json:"shadowfar"`
	ShadowMapSize int     `json:"shadowmapsize"`
}

// PointLight emits in every direction from Position.
type PointLight struct {
	LightCommon
	Position Vec3    `json:"position"`
	Distance float64 `json:"distance"`
	Decay    float64 `json:"decay"`
}

// SpotLight emits a cone from Position towards Target.
type SpotLight struct {
	LightCommon
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
	Distance float64 `json:"distance"`
	Decay    float64 `json:"decay"`
	Angle    float64 `json:"angle"` // Degrees
	Penumbra float64 `json:"penumbra"`
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	LightCommon
	Position     Vec3    `json:"position"`
	ShadowLeft   float64 `json:"shadowleft"`
	ShadowRight  float64 `json:"shadowright"`
	ShadowBottom float64 `json:"shadowbottom"`
	ShadowTop    float64 `json:"shadowtop"`
}

// Leaf type strings.
const (
	TypeRectangle        = "rectangle"
	TypeTriangle         = "triangle"
	TypeBox              = "box"
	TypeCylinder         = "cylinder"
	TypeSphere           = "sphere"
	TypeCone             = "cone"
	TypePolygon          = "polygon"
	TypeNurbs            = "nurbs"
	TypePointLight       = "pointlight"
	TypeSpotLight        = "spotlight"
	TypeDirectionalLight = "directionallight"
)

func (*Rectangle) LeafType() string        { return TypeRectangle }
func (*Triangle) LeafType() string         { return TypeTriangle }
func (*Box) LeafType() string              { return TypeBox }
func (*Cylinder) LeafType() string         { return TypeCylinder }
func (*Sphere) LeafType() string           { return TypeSphere }
func (*Cone) LeafType() string             { return TypeCone }
func (*Polygon) LeafType() string          { return TypePolygon }
func (*Nurbs) LeafType() string            { return TypeNurbs }
func (*PointLight) LeafType() string       { return TypePointLight }
func (*SpotLight) LeafType() string        { return TypeSpotLight }
func (*DirectionalLight) LeafType() string { return TypeDirectionalLight }

func (p *Rectangle) Accept(v PrimitiveVisitor) error { return v.VisitRectangle(p) }
func (p *Triangle) Accept(v PrimitiveVisitor) error  { return v.VisitTriangle(p) }
func (p *Box) Accept(v PrimitiveVisitor) error       { return v.VisitBox(p) }
func (p *Cylinder) Accept(v PrimitiveVisitor) error  { return v.VisitCylinder(p) }
func (p *Sphere) Accept(v PrimitiveVisitor) error    { return v.VisitSphere(p) }
func (p *Cone) Accept(v PrimitiveVisitor) error      { return v.VisitCone(p) }
func (p *Polygon) Accept(v PrimitiveVisitor) error   { return v.VisitPolygon(p) }
func (p *Nurbs) Accept(v PrimitiveVisitor) error     { return v.VisitNurbs(p) }

func (l *PointLight) Accept(v LightVisitor) error       { return v.VisitPointLight(l) }
func (l *SpotLight) Accept(v LightVisitor) error        { return v.VisitSpotLight(l) }
func (l *DirectionalLight) Accept(v LightVisitor) error { return v.VisitDirectionalLight(l) }

func (l *LightCommon) Common() *LightCommon { return l }
