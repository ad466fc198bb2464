package scene

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/yasf/pkg/math"
)

// Dump writes an indented outline of the tree.
func Dump(w io.Writer, root *Node) error {
	var err error
	Walk(root, func(n *Node, _ math.Mat4, depth int) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", depth)

		kind := "group"
		if n.IsLOD() {
			kind = fmt.Sprintf("lod %s", lodDistances(n.LOD))
		}
		if _, err = fmt.Fprintf(w, "%s%s [%s]%s\n", indent, n.Name, kind, formatTransform(n.Local)); err != nil {
			return false
		}

		for _, m := range n.Meshes {
			if _, err = fmt.Fprintf(w, "%s  mesh %s\n", indent, formatMesh(m)); err != nil {
				return false
			}
		}
		for _, l := range n.Lights {
			p := l.Position
			if _, err = fmt.Fprintf(w, "%s  light %s %s at (%g, %g, %g)\n", indent, l.Name, l.Kind, p.X, p.Y, p.Z); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

func lodDistances(l *LOD) string {
	parts := make([]string, len(l.Levels))
	for i, level := range l.Levels {
		parts[i] = fmt.Sprintf("%g", level.MinDistance)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatTransform(t Transform) string {
	var b strings.Builder
	if t.Position != (math.Vec3{}) {
		fmt.Fprintf(&b, " pos=(%g, %g, %g)", t.Position.X, t.Position.Y, t.Position.Z)
	}
	if t.Rotation != math.QuatIdentity() {
		q := t.Rotation
		fmt.Fprintf(&b, " rot=(%.4g, %.4g, %.4g, %.4g)", q.X, q.Y, q.Z, q.W)
	}
	if t.Scale != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		fmt.Fprintf(&b, " scale=(%g, %g, %g)", t.Scale.X, t.Scale.Y, t.Scale.Z)
	}
	return b.String()
}

func formatMesh(m *Mesh) string {
	var b strings.Builder
	b.WriteString(m.Name)
	if g := m.Geometry; g != nil {
		fmt.Fprintf(&b, " %s verts=%d tris=%d", g.Kind, len(g.Vertices), g.TriangleCount())
	}
	if len(m.Materials) == 0 {
		b.WriteString(" material=none")
		return b.String()
	}
	fmt.Fprintf(&b, " materials=%d", len(m.Materials))
	if mat := m.Materials[0]; mat != nil && mat.Map != nil {
		s, t := mat.Repeat()
		fmt.Fprintf(&b, " repeat=(%.3g, %.3g)", s, t)
	}
	return b.String()
}
