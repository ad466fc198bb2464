package yasf

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// requiredFields lists the keys each leaf kind must declare.
var requiredFields = map[string][]string{
	TypeRectangle:        {"xy1", "xy2"},
	TypeTriangle:         {"xyz1", "xyz2", "xyz3"},
	TypeBox:              {"xyz1", "xyz2"},
	TypeCylinder:         {"base", "top", "height", "slices", "stacks"},
	TypeSphere:           {"radius", "slices", "stacks"},
	TypeCone:             {"radius", "height", "slices", "stacks"},
	TypePolygon:          {"radius", "stacks", "slices", "color_c", "color_p"},
	TypeNurbs:            {"degree_u", "degree_v", "parts_u", "parts_v", "controlpoints"},
	TypePointLight:       {"color", "position"},
	TypeSpotLight:        {"color", "position", "target", "angle"},
	TypeDirectionalLight: {"color", "position"},
}

type validator interface {
	Leaf
	validate() error
}

// newLeaf returns a leaf of the given kind with optional fields defaulted,
// or nil when the kind is unknown.
func newLeaf(kind string) validator {
	switch kind {
	case TypeRectangle:
		return &Rectangle{PartsX: 1, PartsY: 1}
	case TypeTriangle:
		return &Triangle{}
	case TypeBox:
		return &Box{PartsX: 1, PartsY: 1, PartsZ: 1}
	case TypeCylinder:
		return &Cylinder{ThetaLength: 360}
	case TypeSphere:
		return &Sphere{ThetaLength: 180, PhiLength: 360}
	case TypeCone:
		return &Cone{ThetaLength: 360}
	case TypePolygon:
		return &Polygon{}
	case TypeNurbs:
		return &Nurbs{}
	case TypePointLight:
		return &PointLight{LightCommon: defaultLightCommon(), Distance: 1000, Decay: 2}
	case TypeSpotLight:
		return &SpotLight{LightCommon: defaultLightCommon(), Distance: 1000, Decay: 2, Penumbra: 1}
	case TypeDirectionalLight:
		return &DirectionalLight{
			LightCommon:  defaultLightCommon(),
			ShadowLeft:   -5,
			ShadowRight:  5,
			ShadowBottom: -5,
			ShadowTop:    5,
		}
	}
	return nil
}

func defaultLightCommon() LightCommon {
	return LightCommon{
		Enabled:       true,
		Intensity:     1,
		ShadowFar:     500,
		ShadowMapSize: 512,
	}
}

// parseLeaf decodes an inline leaf. Unknown kinds decode to *Unsupported so
// the resolver can apply its policy.
func parseLeaf(nodeID, name string, raw json.RawMessage) (Leaf, error) {
	field := "children." + name

	var fields map[string]json.RawMessage
	if err := decode(raw, &fields, nodeID, field); err != nil {
		return nil, err
	}
	typeRaw, ok := fields["type"]
	if !ok {
		return nil, schemaErr(nodeID, field, "missing type")
	}
	var kind string
	if err := decode(typeRaw, &kind, nodeID, field+".type"); err != nil {
		return nil, err
	}

	leaf := newLeaf(strings.ToLower(kind))
	if leaf == nil {
		return &Unsupported{Type: kind}, nil
	}

	for _, key := range requiredFields[leaf.LeafType()] {
		if _, ok := fields[key]; !ok {
			return nil, schemaErr(nodeID, field, "%s: missing %s", leaf.LeafType(), key)
		}
	}
	if err := decode(raw, leaf, nodeID, field); err != nil {
		return nil, err
	}
	if err := ValidateLeaf(nodeID, name, leaf); err != nil {
		return nil, err
	}
	return leaf, nil
}

// Validate checks the parameters of a known leaf kind. Parsed documents are
// already validated; builders call it for leaves constructed in code.
// Unsupported leaves pass.
func Validate(l Leaf) error {
	if v, ok := l.(validator); ok {
		return v.validate()
	}
	return nil
}

// ValidateLeaf is Validate reported as a SchemaError on the named leaf of a
// node.
func ValidateLeaf(nodeID, name string, l Leaf) error {
	if err := Validate(l); err != nil {
		return &SchemaError{NodeID: nodeID, Field: "children." + name, Msg: l.LeafType() + ": " + err.Error()}
	}
	return nil
}

func checkParts(names string, parts ...int) error {
	for _, p := range parts {
		if p < 1 {
			return fmt.Errorf("%s must be at least 1", names)
		}
	}
	return nil
}

func checkSweep(name string, length, max float64) error {
	if length <= 0 || length > max {
		return fmt.Errorf("%s must be in (0, %g], got %g", name, max, length)
	}
	return nil
}

func (r *Rectangle) validate() error {
	if r.XY1.X == r.XY2.X || r.XY1.Y == r.XY2.Y {
		return errors.New("corners span an empty area")
	}
	return checkParts("parts_x and parts_y", r.PartsX, r.PartsY)
}

func (t *Triangle) validate() error {
	if t.XYZ1 == t.XYZ2 || t.XYZ1 == t.XYZ3 || t.XYZ2 == t.XYZ3 {
		return errors.New("vertices must be distinct")
	}
	return nil
}

func (b *Box) validate() error {
	if b.XYZ1.X == b.XYZ2.X || b.XYZ1.Y == b.XYZ2.Y || b.XYZ1.Z == b.XYZ2.Z {
		return errors.New("corners span an empty volume")
	}
	return checkParts("parts_x, parts_y and parts_z", b.PartsX, b.PartsY, b.PartsZ)
}

func (c *Cylinder) validate() error {
	switch {
	case c.Base < 0 || c.Top < 0:
		return errors.New("radii must not be negative")
	case c.Base == 0 && c.Top == 0:
		return errors.New("base and top cannot both be zero")
	case c.Height <= 0:
		return errors.New("height must be positive")
	case c.Slices < 3:
		return errors.New("slices must be at least 3")
	case c.Stacks < 1:
		return errors.New("stacks must be at least 1")
	}
	return checkSweep("thetalength", c.ThetaLength, 360)
}

func (c *Cone) validate() error {
	switch {
	case c.Radius <= 0:
		return errors.New("radius must be positive")
	case c.Height <= 0:
		return errors.New("height must be positive")
	case c.Slices < 3:
		return errors.New("slices must be at least 3")
	case c.Stacks < 1:
		return errors.New("stacks must be at least 1")
	}
	return checkSweep("thetalength", c.ThetaLength, 360)
}

func (s *Sphere) validate() error {
	switch {
	case s.Radius <= 0:
		return errors.New("radius must be positive")
	case s.Slices < 3:
		return errors.New("slices must be at least 3")
	case s.Stacks < 2:
		return errors.New("stacks must be at least 2")
	}
	if err := checkSweep("thetalength", s.ThetaLength, 180); err != nil {
		return err
	}
	return checkSweep("philength", s.PhiLength, 360)
}

func (p *Polygon) validate() error {
	switch {
	case p.Radius <= 0:
		return errors.New("radius must be positive")
	case p.Stacks < 1:
		return errors.New("stacks must be at least 1")
	case p.Slices < 3:
		return errors.New("slices must be at least 3")
	}
	return nil
}

func (n *Nurbs) validate() error {
	if n.DegreeU < 1 || n.DegreeV < 1 {
		return errors.New("degree_u and degree_v must be at least 1")
	}
	if err := checkParts("parts_u and parts_v", n.PartsU, n.PartsV); err != nil {
		return err
	}
	if want := n.CountU() * n.CountV(); len(n.ControlPoints) != want {
		return fmt.Errorf("expected %d control points, got %d", want, len(n.ControlPoints))
	}
	for i, p := range n.ControlPoints {
		if p.Weight() <= 0 {
			return fmt.Errorf("control point %d has non-positive weight", i)
		}
	}
	return nil
}

func (l *LightCommon) validate() error {
	switch {
	case l.Intensity < 0:
		return errors.New("intensity must not be negative")
	case l.ShadowFar <= 0:
		return errors.New("shadowfar must be positive")
	case l.ShadowMapSize <= 0:
		return errors.New("shadowmapsize must be positive")
	}
	return nil
}

func (l *PointLight) validate() error {
	if l.Distance < 0 || l.Decay < 0 {
		return errors.New("distance and decay must not be negative")
	}
	return l.LightCommon.validate()
}

func (l *SpotLight) validate() error {
	switch {
	case l.Distance < 0 || l.Decay < 0:
		return errors.New("distance and decay must not be negative")
	case l.Angle <= 0 || l.Angle > 90:
		return fmt.Errorf("angle must be in (0, 90], got %g", l.Angle)
	case l.Penumbra < 0 || l.Penumbra > 1:
		return fmt.Errorf("penumbra must be in [0, 1], got %g", l.Penumbra)
	case l.Position == l.Target:
		return errors.New("target must differ from position")
	}
	return l.LightCommon.validate()
}

func (l *DirectionalLight) validate() error {
	if l.ShadowLeft >= l.ShadowRight || l.ShadowBottom >= l.ShadowTop {
		return errors.New("shadow frustum needs left < right and bottom < top")
	}
	return l.LightCommon.validate()
}
