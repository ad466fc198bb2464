// Package material resolves scene material descriptors into material handles
// that carry the tiling lengths used by the geometry builders.
package material

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

// Handle bundles a material instance with the world lengths one texture
// tile spans. The lengths are compiler bookkeeping, not render state.
type Handle struct {
	Material   *scene.Material
	TexLengthS float64
	TexLengthT float64
}

// Repeatable reports whether the material carries a texture that tiles.
func (h *Handle) Repeatable() bool {
	return h != nil && h.Material != nil &&
		h.Material.Map != nil && h.Material.Map.Wrap == scene.WrapRepeat
}

// Repeat returns the tiling factors for a surface of the given extent.
func (h *Handle) Repeat(width, height float64) (s, t float64) {
	return width / h.TexLengthS, height / h.TexLengthT
}

// Clone returns an independent deep copy. A nil handle clones to nil.
func (h *Handle) Clone() (*Handle, error) {
	if h == nil {
		return nil, nil
	}
	m, err := Clone(h.Material)
	if err != nil {
		return nil, err
	}
	return &Handle{
		Material:   m,
		TexLengthS: h.TexLengthS,
		TexLengthT: h.TexLengthT,
	}, nil
}

// Clone deep-copies a material instance including its texture bindings.
func Clone(m *scene.Material) (*scene.Material, error) {
	if m == nil {
		return nil, nil
	}
	out := new(scene.Material)
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copying material %s: %w", m.ID, err)
	}
	return out, nil
}

// Resolver turns material ids into handles. It is read-only after
// construction and safe to share between compiles.
type Resolver struct {
	prototypes map[string]*Handle
}

// NewResolver validates every texture reference of the material table and
// prepares a prototype handle per material.
func NewResolver(materials map[string]*yasf.Material, textures map[string]*yasf.Texture) (*Resolver, error) {
	r := &Resolver{prototypes: make(map[string]*Handle, len(materials))}

	// Sorted so the first reported error does not depend on map order.
	for _, id := range slices.Sorted(maps.Keys(materials)) {
		desc := materials[id]
		m := &scene.Material{
			ID:          id,
			Color:       rgb(desc.Color),
			Specular:    rgb(desc.Specular),
			Emissive:    rgb(desc.Emissive),
			Shininess:   float32(desc.Shininess),
			Opacity:     float32(desc.Opacity),
			Transparent: desc.Transparent,
			TwoSided:    desc.TwoSided,
			Wireframe:   desc.Wireframe,
			Shading:     desc.Shading,
			BumpScale:   float32(desc.BumpScale),
		}

		maps := []struct {
			field string
			ref   string
			slot  **scene.TextureBinding
		}{
			{"textureref", desc.TextureRef, &m.Map},
			{"bumpref", desc.BumpRef, &m.BumpMap},
			{"specularref", desc.SpecularRef, &m.SpecularMap},
		}
		for _, tm := range maps {
			if tm.ref == "" {
				continue
			}
			tex, ok := textures[tm.ref]
			if !ok {
				return nil, &yasf.UnresolvedReferenceError{NodeID: id, Field: tm.field, Ref: tm.ref}
			}
			*tm.slot = bind(tex)
		}

		r.prototypes[id] = &Handle{
			Material:   m,
			TexLengthS: desc.TexLengthS,
			TexLengthT: desc.TexLengthT,
		}
	}
	return r, nil
}

// Resolve returns a fresh handle for the material. Handles never share
// mutable state, so callers may set tiling on them freely.
func (r *Resolver) Resolve(id string) (*Handle, error) {
	proto, ok := r.prototypes[id]
	if !ok {
		return nil, &yasf.UnresolvedReferenceError{Field: "materialref", Ref: id}
	}
	return proto.Clone()
}

// Len returns the number of known materials.
func (r *Resolver) Len() int {
	return len(r.prototypes)
}

// bind creates a texture binding. Textured materials tile by default.
func bind(tex *yasf.Texture) *scene.TextureBinding {
	return &scene.TextureBinding{
		TextureID: tex.ID,
		Path:      tex.FilePath,
		IsVideo:   tex.IsVideo,
		Mipmaps:   append([]string(nil), tex.Mipmaps...),
		Wrap:      scene.WrapRepeat,
		RepeatS:   1,
		RepeatT:   1,
	}
}

func rgb(c yasf.Color) [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
