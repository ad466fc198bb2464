package scene

// Vertex is a mesh vertex with position, normal, texture coordinates and
// an optional color.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [3]float32
}

// Group is a run of indices drawn with one material slot.
type Group struct {
	Material   int // Index into Mesh.Materials
	StartIndex int32
	IndexCount int32
}

// Geometry holds indexed triangle data ready for upload.
type Geometry struct {
	Kind     string // Primitive kind that produced the geometry
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds

	HasUVs    bool
	HasColors bool
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns inverted bounds that any Extend call replaces.
func EmptyBounds() Bounds {
	const inf = 1e30
	return Bounds{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// Extend grows the bounds to include p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Valid reports whether the bounds enclose at least one point.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Mesh is a geometry drawn with one material per group.
type Mesh struct {
	Name     string
	Geometry *Geometry
	// Materials is indexed by Group.Material. It is empty when no material
	// was bound anywhere in the node's ancestry.
	Materials []*Material

	CastShadow    bool
	ReceiveShadow bool
}

// Material returns the material for a slot, or nil when unbound.
func (m *Mesh) Material(slot int) *Material {
	if slot < 0 || slot >= len(m.Materials) {
		return nil
	}
	return m.Materials[slot]
}

// Shading modes.
const (
	ShadingSmooth = "smooth"
	ShadingFlat   = "flat"
)

// Wrap modes.
const (
	WrapClamp  = "clamp"
	WrapRepeat = "repeat"
)

// Material is a Phong material instance. Every mesh owns its instances, so
// per-mesh tiling can be set without affecting other meshes.
type Material struct {
	ID          string
	Color       [3]float32
	Specular    [3]float32
	Emissive    [3]float32
	Shininess   float32
	Opacity     float32
	Transparent bool
	TwoSided    bool
	Wireframe   bool
	Shading     string
	BumpScale   float32

	VertexColors bool

	Map         *TextureBinding
	BumpMap     *TextureBinding
	SpecularMap *TextureBinding
}

// TextureBinding binds a texture file to a material slot.
type TextureBinding struct {
	TextureID string
	Path      string
	IsVideo   bool
	Mipmaps   []string
	Wrap      string
	RepeatS   float64
	RepeatT   float64
}

// SetRepeat sets the tiling of every bound map of the material.
func (m *Material) SetRepeat(s, t float64) {
	for _, b := range []*TextureBinding{m.Map, m.BumpMap, m.SpecularMap} {
		if b != nil {
			b.RepeatS, b.RepeatT = s, t
		}
	}
}

// Repeat returns the tiling of the color map, (1, 1) when unbound.
func (m *Material) Repeat() (s, t float64) {
	if m.Map == nil {
		return 1, 1
	}
	return m.Map.RepeatS, m.Map.RepeatT
}

// Lines is a set of line segments, two vertices per segment, used for debug
// visualization.
type Lines struct {
	Name     string
	Vertices []float32 // [x, y, z] per vertex
	Color    [3]float32
}

// SegmentCount returns the number of segments.
func (l *Lines) SegmentCount() int {
	return len(l.Vertices) / 6
}
