// Package lighting builds scene lights from light descriptors and collects
// the lights of a compiled tree.
package lighting

import (
	"github.com/Faultbox/yasf/pkg/math"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

// Build converts a light descriptor. It returns nil for a disabled light,
// which is then left out of the tree entirely.
func Build(name string, l yasf.Light) (*scene.Light, error) {
	c := l.Common()
	if !c.Enabled {
		return nil, nil
	}
	b := &builder{light: &scene.Light{
		Name:          name,
		Color:         clampColor(c.Color),
		Intensity:     float32(c.Intensity),
		CastShadow:    c.CastShadow,
		ShadowFar:     float32(c.ShadowFar),
		ShadowMapSize: c.ShadowMapSize,
	}}
	if err := l.Accept(b); err != nil {
		return nil, err
	}
	return b.light, nil
}

type builder struct {
	light *scene.Light
}

func (b *builder) VisitPointLight(l *yasf.PointLight) error {
	b.light.Kind = scene.LightPoint
	b.light.Position = vec(l.Position)
	b.light.Target = b.light.Position
	b.light.Distance = float32(l.Distance)
	b.light.Decay = float32(l.Decay)
	return nil
}

func (b *builder) VisitSpotLight(l *yasf.SpotLight) error {
	b.light.Kind = scene.LightSpot
	b.light.Position = vec(l.Position)
	b.light.Target = vec(l.Target)
	b.light.Distance = float32(l.Distance)
	b.light.Decay = float32(l.Decay)
	b.light.Angle = math.Radians(float32(l.Angle))
	b.light.Penumbra = float32(l.Penumbra)
	return nil
}

func (b *builder) VisitDirectionalLight(l *yasf.DirectionalLight) error {
	b.light.Kind = scene.LightDirectional
	b.light.Position = vec(l.Position)
	// Directional lights shine towards the node origin.
	b.light.Target = math.Vec3{}
	b.light.ShadowLeft = float32(l.ShadowLeft)
	b.light.ShadowRight = float32(l.ShadowRight)
	b.light.ShadowBottom = float32(l.ShadowBottom)
	b.light.ShadowTop = float32(l.ShadowTop)
	return nil
}

// clampColor clamps each channel to the 0-1 range.
func clampColor(c yasf.Color) [3]float32 {
	out := [3]float32{float32(c.R), float32(c.G), float32(c.B)}
	for i := range out {
		if out[i] > 1 {
			out[i] = 1
		}
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

func vec(v yasf.Vec3) math.Vec3 {
	return math.V3(v.X, v.Y, v.Z)
}

// Collect returns every light of the tree in depth-first order with its
// world-space position and target. Of a LOD group only the nearest level is
// visited, so a light repeated in each level is listed once.
func Collect(root *scene.Node) []*scene.PlacedLight {
	var placed []*scene.PlacedLight
	if root != nil {
		collect(root, math.Identity(), &placed)
	}
	return placed
}

func collect(n *scene.Node, parent math.Mat4, placed *[]*scene.PlacedLight) {
	world := parent.Mul(n.Local.Matrix())
	for _, l := range n.Lights {
		*placed = append(*placed, &scene.PlacedLight{
			Light:    l,
			NodeID:   n.ID,
			Position: world.TransformVec3(l.Position),
			Target:   world.TransformVec3(l.Target),
		})
	}
	children := n.Children
	if n.IsLOD() && len(n.LOD.Levels) > 0 {
		children = []*scene.Node{n.LOD.Levels[0].Node}
	}
	for _, child := range children {
		collect(child, world, placed)
	}
}

// ShadowCasters returns the placed lights that cast shadows, up to limit.
// A limit of zero or less returns all of them.
func ShadowCasters(lights []*scene.PlacedLight, limit int) []*scene.PlacedLight {
	var out []*scene.PlacedLight
	for _, l := range lights {
		if !l.Light.CastShadow {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, l)
	}
	return out
}
