// Package yasf parses YASF ("Yet Another Scene Format") JSON scene documents
// into an immutable, id-indexed description of the scene graph.
package yasf

// Color is an RGB color with components in the 0-1 range.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Vec2 is a 2D point.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a 3D point or vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Document is a parsed scene file.
type Document struct {
	Globals   *Globals
	Fog       *Fog
	Cameras   *Cameras
	Textures  map[string]*Texture
	Materials map[string]*Material
	Graph     *Graph
}

// Globals holds scene-wide settings.
type Globals struct {
	Background Color
	Ambient    Color
}

// Fog holds linear fog settings.
type Fog struct {
	Color Color
	Near  float64
	Far   float64
}

// Camera kinds.
const (
	CameraPerspective = "perspective"
	CameraOrthogonal  = "orthogonal"
)

// Camera describes a perspective or orthogonal camera.
type Camera struct {
	ID       string
	Type     string
	Angle    float64 // Vertical field of view in degrees (perspective)
	Near     float64
	Far      float64
	Location Vec3
	Target   Vec3
	Left     float64 // Orthogonal frustum bounds
	Right    float64
	Bottom   float64
	Top      float64
}

// Cameras holds the camera table in document order.
type Cameras struct {
	Initial string
	Order   []string
	ByID    map[string]*Camera
}

// Texture describes an image or video texture file.
type Texture struct {
	ID       string
	FilePath string
	IsVideo  bool
	Mipmaps  []string // Explicit mipmap level files, level 0 first
}

// Shading modes.
const (
	ShadingSmooth = "smooth"
	ShadingFlat   = "flat"
)

// Material describes a Phong material.
type Material struct {
	ID          string
	Color       Color
	Specular    Color
	Emissive    Color
	Shininess   float64
	Opacity     float64
	Transparent bool
	TwoSided    bool
	Wireframe   bool
	Shading     string
	TextureRef  string
	BumpRef     string
	BumpScale   float64
	SpecularRef string
	// TexLengthS and TexLengthT are the world lengths one texture tile spans.
	TexLengthS float64
	TexLengthT float64
}

// Graph is the node table. Nodes is the id-indexed arena; Order keeps the
// document order of node ids.
type Graph struct {
	RootID string
	Nodes  map[string]*Node
	Order  []string
}

// Node is one entry of the node table.
type Node struct {
	ID             string
	MaterialRef    string
	Transforms     []TransformOp
	Children       []Child
	LODs           []LODRef
	CastShadows    bool
	ReceiveShadows bool
}

// IsLOD reports whether the node's children are a LOD list.
func (n *Node) IsLOD() bool {
	return len(n.LODs) > 0
}

// Child is either a reference to another node (Ref) or an inline leaf.
type Child struct {
	Ref  string
	Name string
	Leaf Leaf
}

// IsRef reports whether the child references another node.
func (c Child) IsRef() bool {
	return c.Leaf == nil
}

// LODRef is one level of a LOD list.
type LODRef struct {
	NodeID  string  `json:"nodeId"`
	MinDist float64 `json:"mindist"`
}

// TransformOp is one of Translate, Rotate or Scale.
type TransformOp interface {
	Op() string
}

// Translate moves a node along its current local axes.
type Translate struct{ Amount Vec3 }

// Rotate rotates a node about its local X, Y then Z axes. Angles are in degrees.
type Rotate struct{ Amount Vec3 }

// Scale replaces a node's scale.
type Scale struct{ Amount Vec3 }

func (Translate) Op() string { return "translate" }
func (Rotate) Op() string    { return "rotate" }
func (Scale) Op() string     { return "scale" }
