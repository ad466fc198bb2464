package scene

import "github.com/Faultbox/yasf/pkg/math"

// LightKind identifies a light type.
type LightKind string

// Light kinds.
const (
	LightPoint       LightKind = "point"
	LightSpot        LightKind = "spot"
	LightDirectional LightKind = "directional"
)

// Light is a light attached to a node. Position and Target are in the
// node's local space.
type Light struct {
	Name      string
	Kind      LightKind
	Color     [3]float32
	Intensity float32
	Position  math.Vec3
	Target    math.Vec3 // Spot and directional lights aim here

	// Point and spot falloff.
	Distance float32
	Decay    float32

	// Spot cone.
	Angle    float32 // Half angle in radians
	Penumbra float32

	CastShadow    bool
	ShadowFar     float32
	ShadowMapSize int
	// Directional shadow frustum.
	ShadowLeft   float32
	ShadowRight  float32
	ShadowBottom float32
	ShadowTop    float32
}

// Direction returns the normalized direction from Position to Target.
func (l *Light) Direction() math.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}

// PlacedLight is a light with its world-space placement resolved.
type PlacedLight struct {
	Light    *Light
	NodeID   string
	Position math.Vec3
	Target   math.Vec3
}
