package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/yasf/internal/config"
	"github.com/Faultbox/yasf/pkg/yasf"
)

const demoScene = `{
  "globals": {"background": {"r": 0, "g": 0, "b": 0}, "ambient": {"r": 0.1, "g": 0.1, "b": 0.1}},
  "graph": {
    "rootid": "root",
    "root": {
      "children": {
        "nodesList": ["lamp"],
        "floor": {"type": "rectangle", "xy1": {"x": -1, "y": -1}, "xy2": {"x": 1, "y": 1}}
      }
    },
    "lamp": {
      "children": {
        "bulb": {"type": "pointlight", "enabled": true, "color": {"r": 1, "g": 1, "b": 1}, "position": {"x": 0, "y": 2, "z": 0}}
      }
    }
  }
}`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	return path
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.Compiler.LightHelpers = true

	res, err := build(context.Background(), cfg, writeScene(t, demoScene))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if res.scene.Root.ID != "root" {
		t.Errorf("expected root node, got %s", res.scene.Root.ID)
	}
	if len(res.scene.Lights) != 1 {
		t.Errorf("expected 1 light, got %d", len(res.scene.Lights))
	}
	if len(res.scene.Root.Children[0].Helpers) != 1 {
		t.Error("expected a light helper with light_helpers enabled")
	}
	if res.textures != 0 {
		t.Errorf("expected no textures, got %d", res.textures)
	}
}

func TestBuildMissingTexture(t *testing.T) {
	const src = `{
  "textures": {"t1": {"filepath": "missing.png"}},
  "graph": {"rootid": "root", "root": {}}
}`
	path := writeScene(t, src)

	cfg := config.Default()
	if _, err := build(context.Background(), cfg, path); err == nil {
		t.Error("expected missing texture to fail the build")
	}

	cfg.Assets.LoadTextures = false
	if _, err := build(context.Background(), cfg, path); err != nil {
		t.Errorf("expected build without textures to succeed, got %v", err)
	}
}

func TestCompilerOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Compiler.SkipUnsupported = true
	cfg.Compiler.HelperSize = 0
	cfg.Compiler.ArcSubdivisions = 9

	opts := compilerOptions(cfg)
	if !opts.SkipUnsupported {
		t.Error("expected SkipUnsupported from config")
	}
	if opts.HelperSize <= 0 {
		t.Error("expected default helper size when config leaves it unset")
	}
	if opts.Geometry.ArcSubdivisions != 9 {
		t.Errorf("expected 9 arc subdivisions, got %d", opts.Geometry.ArcSubdivisions)
	}
	if opts.Logger == nil {
		t.Error("expected a logger")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&yasf.SchemaError{Field: "graph"}, 3},
		{fmt.Errorf("parsing: %w", &yasf.UnresolvedReferenceError{Ref: "x"}), 4},
		{&yasf.CyclicGraphError{NodeID: "a"}, 5},
		{&yasf.UnsupportedPrimitiveError{Kind: "torus"}, 6},
		{&yasf.UnsupportedLightError{Kind: "arealight"}, 6},
		{errors.New("disk on fire"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
