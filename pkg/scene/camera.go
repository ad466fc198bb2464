package scene

import "github.com/Faultbox/yasf/pkg/math"

// CameraKind identifies a projection type.
type CameraKind string

// Camera kinds.
const (
	CameraPerspective CameraKind = "perspective"
	CameraOrthogonal  CameraKind = "orthogonal"
)

// Camera is a resolved camera.
type Camera struct {
	ID       string
	Kind     CameraKind
	Position math.Vec3
	Target   math.Vec3
	FovY     float32 // Radians, perspective only
	Near     float32
	Far      float32
	Left     float32 // Orthogonal frustum
	Right    float32
	Bottom   float32
	Top      float32
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, math.Vec3{X: 0, Y: 1, Z: 0})
}

// ProjectionMatrix returns the projection for the given viewport aspect
// ratio. The aspect is ignored by orthogonal cameras.
func (c *Camera) ProjectionMatrix(aspect float32) math.Mat4 {
	if c.Kind == CameraOrthogonal {
		return math.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
	}
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}
