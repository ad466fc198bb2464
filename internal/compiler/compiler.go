// Package compiler turns a parsed scene document into a render tree.
//
// Compilation walks the node graph from the root depth-first, resolving
// material inheritance, building primitive geometry with material tiling,
// converting lights and applying transforms. Every use of a node produces
// an independent subtree with its own material instances.
package compiler

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/yasf/internal/engine/camera"
	"github.com/Faultbox/yasf/internal/engine/debug"
	"github.com/Faultbox/yasf/internal/engine/geometry"
	"github.com/Faultbox/yasf/internal/engine/lighting"
	"github.com/Faultbox/yasf/internal/engine/material"
	"github.com/Faultbox/yasf/internal/engine/transform"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

// DefaultCameraID names the camera generated for documents without one.
const DefaultCameraID = "default"

// Options controls compilation.
type Options struct {
	// SkipUnsupported drops leaves of unknown type with a warning instead
	// of failing the compile.
	SkipUnsupported bool
	// LightHelpers attaches a debug line set to every enabled light.
	LightHelpers bool
	// BoundsHelpers attaches a bounding box line set to every mesh.
	BoundsHelpers bool
	HelperSize    float32
	Geometry      geometry.Options
	Logger        *zap.Logger
}

// DefaultOptions returns strict compile options.
func DefaultOptions() Options {
	return Options{
		HelperSize: debug.DefaultHelperSize,
		Geometry:   geometry.DefaultOptions(),
	}
}

// Compiler compiles one document. It is not safe for concurrent use.
type Compiler struct {
	doc       *yasf.Document
	materials *material.Resolver
	opts      Options
	log       *zap.Logger

	skipped int
}

// New validates the references of a document and prepares its materials.
func New(doc *yasf.Document, opts Options) (*Compiler, error) {
	if doc == nil || doc.Graph == nil {
		return nil, &yasf.SchemaError{Field: "graph", Msg: "missing"}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	materials, err := material.NewResolver(doc.Materials, doc.Textures)
	if err != nil {
		return nil, err
	}
	c := &Compiler{
		doc:       doc,
		materials: materials,
		opts:      opts,
		log:       opts.Logger,
	}
	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	return c, nil
}

// Compile compiles a document with the given options.
func Compile(doc *yasf.Document, opts Options) (*scene.Scene, error) {
	c, err := New(doc, opts)
	if err != nil {
		return nil, err
	}
	return c.Compile()
}

// Compile resolves the graph from its root and assembles the scene.
func (c *Compiler) Compile() (*scene.Scene, error) {
	c.skipped = 0
	root, err := c.Resolve(c.doc.Graph.RootID)
	if err != nil {
		return nil, err
	}

	s := &scene.Scene{Root: root}
	if g := c.doc.Globals; g != nil {
		s.Background = rgb(g.Background)
		s.Ambient = rgb(g.Ambient)
	}
	if f := c.doc.Fog; f != nil {
		s.Fog = &scene.Fog{Color: rgb(f.Color), Near: float32(f.Near), Far: float32(f.Far)}
	}

	s.Cameras, s.InitialCamera, err = camera.BuildAll(c.doc.Cameras)
	if err != nil {
		return nil, err
	}
	if s.InitialCamera == nil {
		cam := camera.FitToBounds(DefaultCameraID, scene.WorldBounds(root))
		s.Cameras = []*scene.Camera{cam}
		s.InitialCamera = cam
	}

	s.Lights = lighting.Collect(root)

	stats := scene.Count(root)
	c.log.Info("Scene compiled",
		zap.String("root", root.ID),
		zap.Int("nodes", stats.Nodes),
		zap.Int("meshes", stats.Meshes),
		zap.Int("lights", stats.Lights),
		zap.Int("triangles", stats.Triangles),
		zap.Int("skipped", c.skipped))
	return s, nil
}

// Resolve builds the subtree rooted at a node, as if it were the graph root.
func (c *Compiler) Resolve(nodeID string) (*scene.Node, error) {
	if _, ok := c.doc.Graph.Nodes[nodeID]; !ok {
		return nil, &yasf.UnresolvedReferenceError{Field: "rootid", Ref: nodeID}
	}
	return c.resolve(nodeID, inherited{}, false, newVisitPath())
}

// Skipped returns the number of unsupported leaves dropped by the last
// compile.
func (c *Compiler) Skipped() int {
	return c.skipped
}

// inherited is the state a node passes down to its children.
type inherited struct {
	material      *material.Handle
	castShadow    bool
	receiveShadow bool
}

// visitPath tracks the nodes on the current resolution path.
type visitPath struct {
	stack []string
	on    map[string]bool
}

func newVisitPath() *visitPath {
	return &visitPath{on: make(map[string]bool)}
}

func (p *visitPath) push(id string) { p.stack = append(p.stack, id); p.on[id] = true }

func (p *visitPath) pop() {
	id := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	delete(p.on, id)
}

// cycle returns the active path followed by the repeated id.
func (p *visitPath) cycle(id string) []string {
	out := append([]string(nil), p.stack...)
	return append(out, id)
}

func (c *Compiler) resolve(id string, parent inherited, lodLevel bool, path *visitPath) (*scene.Node, error) {
	node := c.doc.Graph.Nodes[id]
	if path.on[id] {
		return nil, &yasf.CyclicGraphError{NodeID: id, Path: path.cycle(id)}
	}
	path.push(id)
	defer path.pop()

	state := inherited{
		material:      parent.material,
		castShadow:    parent.castShadow || node.CastShadows,
		receiveShadow: parent.receiveShadow || node.ReceiveShadows,
	}
	if node.MaterialRef != "" {
		h, err := c.materials.Resolve(node.MaterialRef)
		if err != nil {
			return nil, withNode(err, id)
		}
		state.material = h
	}

	out := scene.NewNode(id)
	out.CastShadow = state.castShadow
	out.ReceiveShadow = state.receiveShadow
	transform.Apply(&out.Local, node.Transforms)

	if node.IsLOD() {
		if lodLevel {
			return nil, &yasf.SchemaError{NodeID: id, Field: "children.lodsList", Msg: "LOD node used as a LOD level"}
		}
		if err := c.resolveLOD(out, node, state, path); err != nil {
			return nil, err
		}
		return out, nil
	}

	for _, child := range node.Children {
		if child.IsRef() {
			sub, err := c.resolve(child.Ref, state, false, path)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, sub)
			continue
		}
		if err := c.attachLeaf(out, child, state); err != nil {
			return nil, err
		}
	}

	c.log.Debug("Resolved node",
		zap.String("id", id),
		zap.Int("depth", len(path.stack)-1),
		zap.Int("children", len(out.Children)),
		zap.Int("meshes", len(out.Meshes)))
	return out, nil
}

func (c *Compiler) resolveLOD(out *scene.Node, node *yasf.Node, state inherited, path *visitPath) error {
	levels := append([]yasf.LODRef(nil), node.LODs...)
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].MinDist < levels[j].MinDist })

	for _, l := range levels {
		if l.MinDist < 0 {
			return &yasf.SchemaError{NodeID: node.ID, Field: "children.lodsList",
				Msg: fmt.Sprintf("negative mindist %g", l.MinDist)}
		}
	}
	if levels[0].MinDist != 0 {
		return &yasf.SchemaError{NodeID: node.ID, Field: "children.lodsList", Msg: "no level at mindist 0"}
	}

	out.LOD = &scene.LOD{Levels: make([]scene.LODLevel, 0, len(levels))}
	for _, l := range levels {
		sub, err := c.resolve(l.NodeID, state, true, path)
		if err != nil {
			return err
		}
		out.LOD.Levels = append(out.LOD.Levels, scene.LODLevel{MinDistance: l.MinDist, Node: sub})
		out.Children = append(out.Children, sub)
	}
	return nil
}

// attachLeaf builds a primitive or light leaf into out.
func (c *Compiler) attachLeaf(out *scene.Node, child yasf.Child, state inherited) error {
	switch leaf := child.Leaf.(type) {
	case yasf.Primitive:
		res, err := geometry.Build(leaf, state.material, c.opts.Geometry)
		if err != nil {
			return withNode(err, out.ID)
		}
		out.Meshes = append(out.Meshes, &scene.Mesh{
			Name:          child.Name,
			Geometry:      res.Geometry,
			Materials:     res.Materials,
			CastShadow:    state.castShadow,
			ReceiveShadow: state.receiveShadow,
		})
		if c.opts.BoundsHelpers {
			if lines := debug.BoundsWireframe(child.Name+"_bounds", res.Geometry.Bounds, debug.DefaultBBoxPadding); lines != nil {
				out.Helpers = append(out.Helpers, lines)
			}
		}

	case yasf.Light:
		l, err := lighting.Build(child.Name, leaf)
		if err != nil {
			return withNode(err, out.ID)
		}
		if l == nil {
			c.log.Debug("Light disabled", zap.String("node", out.ID), zap.String("light", child.Name))
			return nil
		}
		out.Lights = append(out.Lights, l)
		if c.opts.LightHelpers {
			out.Helpers = append(out.Helpers, debug.LightHelper(l, c.opts.HelperSize))
		}

	case *yasf.Unsupported:
		var err error
		if leaf.IsLight() {
			err = &yasf.UnsupportedLightError{NodeID: out.ID, Leaf: child.Name, Kind: leaf.Type}
		} else {
			err = &yasf.UnsupportedPrimitiveError{NodeID: out.ID, Leaf: child.Name, Kind: leaf.Type}
		}
		if !c.opts.SkipUnsupported {
			return err
		}
		c.skipped++
		c.log.Warn("Skipping unsupported leaf", zap.Error(err))

	default:
		return &yasf.SchemaError{NodeID: out.ID, Field: child.Name, Msg: "unknown leaf"}
	}
	return nil
}

// checkReferences verifies that every node and material reference in the
// table resolves and that every leaf is well formed, reachable from the root
// or not.
func (c *Compiler) checkReferences() error {
	g := c.doc.Graph
	if _, ok := g.Nodes[g.RootID]; !ok {
		return &yasf.UnresolvedReferenceError{Field: "rootid", Ref: g.RootID}
	}
	order := g.Order
	if len(order) != len(g.Nodes) {
		order = slices.Sorted(maps.Keys(g.Nodes))
	}
	for _, id := range order {
		node := g.Nodes[id]
		if node.MaterialRef != "" {
			if _, err := c.materials.Resolve(node.MaterialRef); err != nil {
				return withNode(err, id)
			}
		}
		for _, child := range node.Children {
			if !child.IsRef() {
				if err := yasf.ValidateLeaf(id, child.Name, child.Leaf); err != nil {
					return err
				}
				continue
			}
			if _, ok := g.Nodes[child.Ref]; !ok {
				return &yasf.UnresolvedReferenceError{NodeID: id, Field: "children.nodesList", Ref: child.Ref}
			}
		}
		for _, l := range node.LODs {
			if _, ok := g.Nodes[l.NodeID]; !ok {
				return &yasf.UnresolvedReferenceError{NodeID: id, Field: "children.lodsList", Ref: l.NodeID}
			}
		}
	}
	return nil
}

// withNode stamps the referencing node onto an unresolved reference or a
// schema error raised by a builder.
func withNode(err error, id string) error {
	switch e := err.(type) {
	case *yasf.UnresolvedReferenceError:
		if e.NodeID == "" {
			e.NodeID = id
		}
	case *yasf.SchemaError:
		if e.NodeID == "" {
			e.NodeID = id
		}
	}
	return err
}

func rgb(c yasf.Color) [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
