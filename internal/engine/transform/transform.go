// Package transform applies declared transform operations to render nodes.
package transform

import (
	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

var (
	axisX = math.Vec3{X: 1}
	axisY = math.Vec3{Y: 1}
	axisZ = math.Vec3{Z: 1}
)

// Apply applies ops to t strictly in the given order. A translate moves
// along the current local axes, so a translate after a rotate moves in the
// rotated frame. Rotations are in degrees and turn about the local X, then
// Y, then Z axis. A scale replaces the current scale.
func Apply(t *scene.Transform, ops []yasf.TransformOp) {
	for _, op := range ops {
		switch op := op.(type) {
		case yasf.Translate:
			offset := math.V3(op.Amount.X, op.Amount.Y, op.Amount.Z)
			t.Position = t.Position.Add(t.Rotation.RotateVec3(offset))
		case yasf.Rotate:
			q := t.Rotation
			q = q.Mul(math.QuatFromAxisAngle(axisX, math.Radians(float32(op.Amount.X))))
			q = q.Mul(math.QuatFromAxisAngle(axisY, math.Radians(float32(op.Amount.Y))))
			q = q.Mul(math.QuatFromAxisAngle(axisZ, math.Radians(float32(op.Amount.Z))))
			t.Rotation = q.Normalize()
		case yasf.Scale:
			t.Scale = math.V3(op.Amount.X, op.Amount.Y, op.Amount.Z)
		}
	}
}

// Local returns the transform produced by ops from identity.
func Local(ops []yasf.TransformOp) scene.Transform {
	t := scene.IdentityTransform()
	Apply(&t, ops)
	return t
}
