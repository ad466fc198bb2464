// Package camera builds scene cameras from camera descriptors.
package camera

import (
	gomath "math"

	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

// Default perspective settings used when a document declares no camera.
const (
	DefaultFovY = 45.0 // Degrees
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Build converts a camera descriptor.
func Build(c *yasf.Camera) *scene.Camera {
	cam := &scene.Camera{
		ID:       c.ID,
		Position: math.V3(c.Location.X, c.Location.Y, c.Location.Z),
		Target:   math.V3(c.Target.X, c.Target.Y, c.Target.Z),
		Near:     float32(c.Near),
		Far:      float32(c.Far),
	}
	if c.Type == yasf.CameraOrthogonal {
		cam.Kind = scene.CameraOrthogonal
		cam.Left = float32(c.Left)
		cam.Right = float32(c.Right)
		cam.Bottom = float32(c.Bottom)
		cam.Top = float32(c.Top)
	} else {
		cam.Kind = scene.CameraPerspective
		cam.FovY = math.Radians(float32(c.Angle))
	}
	return cam
}

// BuildAll converts the camera table in document order and returns the
// initial camera. A missing initial camera is an unresolved reference.
func BuildAll(cams *yasf.Cameras) ([]*scene.Camera, *scene.Camera, error) {
	if cams == nil {
		return nil, nil, nil
	}
	out := make([]*scene.Camera, 0, len(cams.Order))
	var initial *scene.Camera
	for _, id := range cams.Order {
		cam := Build(cams.ByID[id])
		if id == cams.Initial {
			initial = cam
		}
		out = append(out, cam)
	}
	if initial == nil {
		return nil, nil, &yasf.UnresolvedReferenceError{Field: "cameras.initial", Ref: cams.Initial}
	}
	return out, initial, nil
}

// FitToBounds returns a perspective camera that frames the given bounds,
// looking down at the bounds center from the front. Empty bounds frame a
// unit box at the origin.
func FitToBounds(id string, b scene.Bounds) *scene.Camera {
	if !b.Valid() {
		b = scene.Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}
	}
	center := math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
	size := b.Size()
	radius := math.Vec3{X: size[0], Y: size[1], Z: size[2]}.Length() / 2
	if radius <= 0 {
		radius = 1
	}

	fov := math.Radians(DefaultFovY)
	distance := radius / float32(gomath.Sin(float64(fov/2)))

	// Look down at about 30 degrees.
	pitch := 0.5
	offset := math.Vec3{
		Y: distance * float32(gomath.Sin(pitch)),
		Z: distance * float32(gomath.Cos(pitch)),
	}

	far := float32(DefaultFar)
	if 2*distance+radius > far {
		far = 2*distance + radius
	}
	return &scene.Camera{
		ID:       id,
		Kind:     scene.CameraPerspective,
		Position: center.Add(offset),
		Target:   center,
		FovY:     fov,
		Near:     DefaultNear,
		Far:      far,
	}
}
