package yasf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ParseFile reads and parses a scene file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a scene document. The document may be wrapped in a single
// top-level "yasf" object.
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &SchemaError{Msg: err.Error()}
	}
	if inner, ok := top["yasf"]; ok && len(top) == 1 {
		top = nil
		if err := json.Unmarshal(inner, &top); err != nil {
			return nil, &SchemaError{Field: "yasf", Msg: err.Error()}
		}
	}

	doc := &Document{
		Textures:  make(map[string]*Texture),
		Materials: make(map[string]*Material),
	}

	if raw, ok := top["globals"]; ok {
		globals, fog, err := parseGlobals(raw)
		if err != nil {
			return nil, err
		}
		doc.Globals = globals
		doc.Fog = fog
	}

	if raw, ok := top["fog"]; ok {
		fog, err := parseFog(raw)
		if err != nil {
			return nil, err
		}
		doc.Fog = fog
	}

	if raw, ok := top["cameras"]; ok {
		cameras, err := parseCameras(raw)
		if err != nil {
			return nil, err
		}
		doc.Cameras = cameras
	}

	if raw, ok := top["textures"]; ok {
		err := eachMember(raw, "", "textures", func(id string, val json.RawMessage) error {
			tex, err := parseTexture(id, val)
			if err != nil {
				return err
			}
			doc.Textures[id] = tex
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if raw, ok := top["materials"]; ok {
		err := eachMember(raw, "", "materials", func(id string, val json.RawMessage) error {
			mat, err := parseMaterial(id, val)
			if err != nil {
				return err
			}
			doc.Materials[id] = mat
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	raw, ok := top["graph"]
	if !ok {
		return nil, schemaErr("", "graph", "missing graph")
	}
	graph, err := parseGraph(raw)
	if err != nil {
		return nil, err
	}
	doc.Graph = graph

	return doc, nil
}

// eachMember walks a JSON object in document order. Duplicate keys are a
// schema error since ids must be unique.
func eachMember(data json.RawMessage, id, field string, fn func(key string, val json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return &SchemaError{NodeID: id, Field: field, Msg: err.Error()}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return schemaErr(id, field, "expected an object")
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return &SchemaError{NodeID: id, Field: field, Msg: err.Error()}
		}
		key := tok.(string)
		if seen[key] {
			return schemaErr(id, field, "duplicate key %q", key)
		}
		seen[key] = true

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return &SchemaError{NodeID: id, Field: field + "." + key, Msg: err.Error()}
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return &SchemaError{NodeID: id, Field: field, Msg: err.Error()}
	}
	return nil
}

func decode(raw json.RawMessage, v any, id, field string) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return &SchemaError{NodeID: id, Field: field, Msg: err.Error()}
	}
	return nil
}

func parseGlobals(raw json.RawMessage) (*Globals, *Fog, error) {
	var g struct {
		Background *Color          `json:"background"`
		Ambient    *Color          `json:"ambient"`
		Fog        json.RawMessage `json:"fog"`
	}
	if err := decode(raw, &g, "", "globals"); err != nil {
		return nil, nil, err
	}
	if g.Background == nil {
		return nil, nil, schemaErr("", "globals.background", "missing background")
	}
	if g.Ambient == nil {
		return nil, nil, schemaErr("", "globals.ambient", "missing ambient")
	}

	var fog *Fog
	if len(g.Fog) > 0 {
		var err error
		if fog, err = parseFog(g.Fog); err != nil {
			return nil, nil, err
		}
	}
	return &Globals{Background: *g.Background, Ambient: *g.Ambient}, fog, nil
}

func parseFog(raw json.RawMessage) (*Fog, error) {
	var f struct {
		Color *Color   `json:"color"`
		Near  *float64 `json:"near"`
		Far   *float64 `json:"far"`
	}
	if err := decode(raw, &f, "", "fog"); err != nil {
		return nil, err
	}
	if f.Color == nil || f.Near == nil || f.Far == nil {
		return nil, schemaErr("", "fog", "color, near and far are mandatory")
	}
	if *f.Near < 0 || *f.Far <= *f.Near {
		return nil, schemaErr("", "fog", "need 0 <= near < far, got near=%g far=%g", *f.Near, *f.Far)
	}
	return &Fog{Color: *f.Color, Near: *f.Near, Far: *f.Far}, nil
}

func parseCameras(raw json.RawMessage) (*Cameras, error) {
	cams := &Cameras{ByID: make(map[string]*Camera)}
	err := eachMember(raw, "", "cameras", func(key string, val json.RawMessage) error {
		if key == "initial" {
			return decode(val, &cams.Initial, "", "cameras.initial")
		}
		cam, err := parseCamera(key, val)
		if err != nil {
			return err
		}
		cams.ByID[key] = cam
		cams.Order = append(cams.Order, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cams.Initial == "" {
		return nil, schemaErr("", "cameras.initial", "missing initial camera")
	}
	return cams, nil
}

func parseCamera(id string, raw json.RawMessage) (*Camera, error) {
	var c struct {
		Type     string   `json:"type"`
		Angle    float64  `json:"angle"`
		Near     *float64 `json:"near"`
		Far      *float64 `json:"far"`
		Location *Vec3    `json:"location"`
		Target   *Vec3    `json:"target"`
		Left     float64  `json:"left"`
		Right    float64  `json:"right"`
		Bottom   float64  `json:"bottom"`
		Top      float64  `json:"top"`
	}
	if err := decode(raw, &c, id, "camera"); err != nil {
		return nil, err
	}
	if c.Near == nil || c.Far == nil || c.Location == nil || c.Target == nil {
		return nil, schemaErr(id, "camera", "near, far, location and target are mandatory")
	}
	if *c.Far <= *c.Near {
		return nil, schemaErr(id, "far", "far (%g) must exceed near (%g)", *c.Far, *c.Near)
	}

	cam := &Camera{
		ID:       id,
		Type:     strings.ToLower(c.Type),
		Angle:    c.Angle,
		Near:     *c.Near,
		Far:      *c.Far,
		Location: *c.Location,
		Target:   *c.Target,
		Left:     c.Left,
		Right:    c.Right,
		Bottom:   c.Bottom,
		Top:      c.Top,
	}
	switch cam.Type {
	case CameraPerspective:
		if cam.Angle <= 0 || cam.Angle >= 180 {
			return nil, schemaErr(id, "angle", "angle must be in (0, 180), got %g", cam.Angle)
		}
	case CameraOrthogonal, "orthographic":
		cam.Type = CameraOrthogonal
		if cam.Right <= cam.Left || cam.Top <= cam.Bottom {
			return nil, schemaErr(id, "camera", "orthogonal frustum needs left < right and bottom < top")
		}
	default:
		return nil, schemaErr(id, "type", "unknown camera type %q", c.Type)
	}
	return cam, nil
}

func parseTexture(id string, raw json.RawMessage) (*Texture, error) {
	var t struct {
		FilePath string `json:"filepath"`
		IsVideo  bool   `json:"isVideo"`
	}
	if err := decode(raw, &t, id, "texture"); err != nil {
		return nil, err
	}
	if t.FilePath == "" {
		return nil, schemaErr(id, "filepath", "missing filepath")
	}

	var levels map[string]json.RawMessage
	if err := decode(raw, &levels, id, "texture"); err != nil {
		return nil, err
	}
	tex := &Texture{ID: id, FilePath: t.FilePath, IsVideo: t.IsVideo}
	for level := 0; level < 8; level++ {
		key := fmt.Sprintf("mipmap%d", level)
		val, ok := levels[key]
		if !ok {
			continue
		}
		if len(tex.Mipmaps) != level {
			return nil, schemaErr(id, key, "mipmap levels must start at 0 and be contiguous")
		}
		var path string
		if err := decode(val, &path, id, key); err != nil {
			return nil, err
		}
		tex.Mipmaps = append(tex.Mipmaps, path)
	}
	return tex, nil
}

func parseMaterial(id string, raw json.RawMessage) (*Material, error) {
	var m struct {
		Color       *Color   `json:"color"`
		Specular    *Color   `json:"specular"`
		Emissive    *Color   `json:"emissive"`
		Shininess   *float64 `json:"shininess"`
		Opacity     *float64 `json:"opacity"`
		Transparent bool     `json:"transparent"`
		TwoSided    bool     `json:"twosided"`
		Wireframe   bool     `json:"wireframe"`
		Shading     string   `json:"shading"`
		TextureRef  string   `json:"textureref"`
		TexLengthS  *float64 `json:"texlength_s"`
		TexLengthT  *float64 `json:"texlength_t"`
		BumpRef     string   `json:"bumpref"`
		BumpScale   *float64 `json:"bumpscale"`
		SpecularRef string   `json:"specularref"`
	}
	if err := decode(raw, &m, id, "material"); err != nil {
		return nil, err
	}
	if m.Color == nil || m.Specular == nil || m.Emissive == nil || m.Shininess == nil {
		return nil, schemaErr(id, "material", "color, specular, emissive and shininess are mandatory")
	}

	mat := &Material{
		ID:          id,
		Color:       *m.Color,
		Specular:    *m.Specular,
		Emissive:    *m.Emissive,
		Shininess:   *m.Shininess,
		Opacity:     1,
		Transparent: m.Transparent,
		TwoSided:    m.TwoSided,
		Wireframe:   m.Wireframe,
		Shading:     ShadingSmooth,
		TextureRef:  m.TextureRef,
		BumpRef:     m.BumpRef,
		BumpScale:   1,
		SpecularRef: m.SpecularRef,
		TexLengthS:  1,
		TexLengthT:  1,
	}
	if m.Opacity != nil {
		mat.Opacity = *m.Opacity
	}
	if mat.Opacity < 0 || mat.Opacity > 1 {
		return nil, schemaErr(id, "opacity", "opacity must be in [0, 1], got %g", mat.Opacity)
	}
	if m.Shading != "" {
		mat.Shading = strings.ToLower(m.Shading)
	}
	if mat.Shading != ShadingSmooth && mat.Shading != ShadingFlat {
		return nil, schemaErr(id, "shading", "unknown shading %q", m.Shading)
	}
	if m.BumpScale != nil {
		mat.BumpScale = *m.BumpScale
	}
	if m.TexLengthS != nil {
		mat.TexLengthS = *m.TexLengthS
	}
	if m.TexLengthT != nil {
		mat.TexLengthT = *m.TexLengthT
	}
	if mat.TexLengthS <= 0 || mat.TexLengthT <= 0 {
		return nil, schemaErr(id, "texlength", "texlength_s and texlength_t must be positive")
	}
	return mat, nil
}

func parseGraph(raw json.RawMessage) (*Graph, error) {
	g := &Graph{Nodes: make(map[string]*Node)}
	err := eachMember(raw, "", "graph", func(key string, val json.RawMessage) error {
		if key == "rootid" {
			return decode(val, &g.RootID, "", "graph.rootid")
		}
		node, err := parseNode(key, val)
		if err != nil {
			return err
		}
		g.Nodes[key] = node
		g.Order = append(g.Order, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if g.RootID == "" {
		return nil, schemaErr("", "graph.rootid", "missing rootid")
	}
	return g, nil
}

func parseNode(id string, raw json.RawMessage) (*Node, error) {
	var n struct {
		Type        string          `json:"type"`
		Transforms  json.RawMessage `json:"transforms"`
		MaterialRef *struct {
			MaterialID string `json:"materialId"`
		} `json:"materialref"`
		CastShadows    bool            `json:"castshadows"`
		ReceiveShadows bool            `json:"receiveshadows"`
		Children       json.RawMessage `json:"children"`
	}
	if err := decode(raw, &n, id, "node"); err != nil {
		return nil, err
	}
	if n.Type != "" && n.Type != "node" {
		return nil, schemaErr(id, "type", "expected node, got %q", n.Type)
	}

	node := &Node{
		ID:             id,
		CastShadows:    n.CastShadows,
		ReceiveShadows: n.ReceiveShadows,
	}
	if n.MaterialRef != nil {
		if n.MaterialRef.MaterialID == "" {
			return nil, schemaErr(id, "materialref", "missing materialId")
		}
		node.MaterialRef = n.MaterialRef.MaterialID
	}

	if len(n.Transforms) > 0 {
		ops, err := parseTransforms(id, n.Transforms)
		if err != nil {
			return nil, err
		}
		node.Transforms = ops
	}

	if len(n.Children) > 0 {
		if err := parseChildren(node, n.Children); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseTransforms accepts either a list of ops or an object of named ops,
// keeping document order in both cases.
func parseTransforms(id string, raw json.RawMessage) ([]TransformOp, error) {
	var ops []TransformOp
	add := func(field string, val json.RawMessage) error {
		op, err := parseTransform(id, field, val)
		if err != nil {
			return err
		}
		ops = append(ops, op)
		return nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := decode(raw, &list, id, "transforms"); err != nil {
			return nil, err
		}
		for i, val := range list {
			if err := add(fmt.Sprintf("transforms[%d]", i), val); err != nil {
				return nil, err
			}
		}
		return ops, nil
	}

	err := eachMember(raw, id, "transforms", func(key string, val json.RawMessage) error {
		return add("transforms."+key, val)
	})
	return ops, err
}

func parseTransform(id, field string, raw json.RawMessage) (TransformOp, error) {
	var t struct {
		Type   string `json:"type"`
		Amount *Vec3  `json:"amount"`
	}
	if err := decode(raw, &t, id, field); err != nil {
		return nil, err
	}
	if t.Amount == nil {
		return nil, schemaErr(id, field, "missing amount")
	}
	switch strings.ToLower(t.Type) {
	case "translate":
		return Translate{Amount: *t.Amount}, nil
	case "rotate":
		return Rotate{Amount: *t.Amount}, nil
	case "scale":
		return Scale{Amount: *t.Amount}, nil
	default:
		return nil, schemaErr(id, field, "unknown transform type %q", t.Type)
	}
}

func parseChildren(node *Node, raw json.RawMessage) error {
	id := node.ID
	err := eachMember(raw, id, "children", func(key string, val json.RawMessage) error {
		switch key {
		case "nodesList":
			var refs []string
			if err := decode(val, &refs, id, "children.nodesList"); err != nil {
				return err
			}
			for _, ref := range refs {
				if ref == "" {
					return schemaErr(id, "children.nodesList", "empty node reference")
				}
				node.Children = append(node.Children, Child{Ref: ref})
			}
		case "lodsList":
			var lods []struct {
				NodeID  string   `json:"nodeId"`
				MinDist *float64 `json:"mindist"`
			}
			if err := decode(val, &lods, id, "children.lodsList"); err != nil {
				return err
			}
			if len(lods) == 0 {
				return schemaErr(id, "children.lodsList", "empty LOD list")
			}
			for i, lod := range lods {
				if lod.NodeID == "" || lod.MinDist == nil {
					return schemaErr(id, fmt.Sprintf("children.lodsList[%d]", i), "nodeId and mindist are mandatory")
				}
				node.LODs = append(node.LODs, LODRef{NodeID: lod.NodeID, MinDist: *lod.MinDist})
			}
		default:
			leaf, err := parseLeaf(id, key, val)
			if err != nil {
				return err
			}
			node.Children = append(node.Children, Child{Name: key, Leaf: leaf})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(node.LODs) > 0 && len(node.Children) > 0 {
		return schemaErr(id, "children", "lodsList cannot be combined with other children")
	}
	return nil
}
