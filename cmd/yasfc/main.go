// yasfc is a CLI utility that compiles YASF scene documents into render trees.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/yasf/internal/assets"
	"github.com/Faultbox/yasf/internal/compiler"
	"github.com/Faultbox/yasf/internal/config"
	"github.com/Faultbox/yasf/internal/engine/geometry"
	"github.com/Faultbox/yasf/internal/engine/lighting"
	"github.com/Faultbox/yasf/internal/logger"
	"github.com/Faultbox/yasf/internal/watch"
	"github.com/Faultbox/yasf/pkg/scene"
	"github.com/Faultbox/yasf/pkg/yasf"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(2)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: yasfc %s <scene.json>\n", command)
		os.Exit(2)
	}
	path := args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "compile", "c":
		err = cmdCompile(ctx, cfg, path)
	case "tree", "t":
		err = cmdTree(ctx, cfg, path)
	case "validate", "v":
		err = cmdValidate(ctx, cfg, path)
	case "watch", "w":
		err = cmdWatch(ctx, cfg, path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(exitCode(err))
	}
}

func printUsage() {
	fmt.Println(`yasfc - YASF scene compiler

Usage:
  yasfc [options] <command> <scene.json>

Commands:
  compile <scene.json>    Compile and print a summary
  tree <scene.json>       Compile and print the render tree
  validate <scene.json>   Compile and report only success or failure
  watch <scene.json>      Recompile whenever the scene file changes
  help                    Show this help

Options:
  -config <file>          Config file (config.yaml or config.toml)
  -debug                  Enable debug logging
  -skip-unsupported       Skip unknown primitive and light types
  -helpers                Attach debug helpers to lights
  -root <dir>             Extra texture search directory
  -no-textures            Do not load texture files
  -log-file <file>        Write logs to a rotating file

Examples:
  yasfc compile scenes/demo.json
  yasfc -helpers tree scenes/demo.json
  yasfc -skip-unsupported validate scenes/demo.json`)
}

// result is one pass of the load and compile pipeline.
type result struct {
	scene    *scene.Scene
	textures int
	skipped  int
}

// build loads a scene and its textures and compiles it. Texture loading
// runs first so a missing file stops the compile.
func build(ctx context.Context, cfg *config.Config, path string) (*result, error) {
	mgr := assets.NewManager(assets.Options{
		MaxConcurrentLoads: cfg.Assets.MaxConcurrentLoads,
		VerifyTextures:     cfg.Assets.VerifyTextures,
		Logger:             logger.Named("assets"),
	})
	defer mgr.Close()

	for _, root := range cfg.Assets.Roots {
		if err := mgr.AddRoot(root); err != nil {
			return nil, err
		}
	}

	doc, err := mgr.LoadScene(ctx, path)
	if err != nil {
		return nil, err
	}

	res := &result{}
	if cfg.Assets.LoadTextures {
		textures, err := mgr.LoadTextures(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("loading textures: %w", err)
		}
		res.textures = len(textures)
	}

	c, err := compiler.New(doc, compilerOptions(cfg))
	if err != nil {
		return nil, err
	}
	if res.scene, err = c.Compile(); err != nil {
		return nil, err
	}
	res.skipped = c.Skipped()
	return res, nil
}

func compilerOptions(cfg *config.Config) compiler.Options {
	opts := compiler.DefaultOptions()
	opts.SkipUnsupported = cfg.Compiler.SkipUnsupported
	opts.LightHelpers = cfg.Compiler.LightHelpers
	opts.BoundsHelpers = cfg.Compiler.BoundsHelpers
	if cfg.Compiler.HelperSize > 0 {
		opts.HelperSize = cfg.Compiler.HelperSize
	}
	opts.Geometry = geometry.Options{ArcSubdivisions: cfg.Compiler.ArcSubdivisions}
	opts.Logger = logger.Named("compiler")
	return opts
}

func cmdCompile(ctx context.Context, cfg *config.Config, path string) error {
	res, err := build(ctx, cfg, path)
	if err != nil {
		return err
	}
	printSummary(path, res)
	return nil
}

func cmdTree(ctx context.Context, cfg *config.Config, path string) error {
	res, err := build(ctx, cfg, path)
	if err != nil {
		return err
	}
	return scene.Dump(os.Stdout, res.scene.Root)
}

func cmdValidate(ctx context.Context, cfg *config.Config, path string) error {
	if _, err := build(ctx, cfg, path); err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", path)
	return nil
}

func cmdWatch(ctx context.Context, cfg *config.Config, path string) error {
	w, err := watch.New([]string{path}, cfg.Watch.Debounce(), logger.Named("watch"))
	if err != nil {
		return err
	}
	logger.Info("Watching scene", zap.String("path", path))
	return w.Run(ctx, func(ctx context.Context) error {
		res, err := build(ctx, cfg, path)
		if err != nil {
			return err
		}
		printSummary(path, res)
		return nil
	})
}

func printSummary(path string, res *result) {
	s := res.scene
	stats := scene.Count(s.Root)
	casters := lighting.ShadowCasters(s.Lights, 0)

	fmt.Printf("Scene:     %s\n", path)
	fmt.Printf("Root:      %s\n", s.Root.ID)
	fmt.Printf("Nodes:     %d (%d LOD groups)\n", stats.Nodes, stats.LODs)
	fmt.Printf("Meshes:    %d (%d vertices, %d triangles)\n", stats.Meshes, stats.Vertices, stats.Triangles)
	fmt.Printf("Lights:    %d (%d casting shadows)\n", stats.Lights, len(casters))
	fmt.Printf("Cameras:   %d (initial: %s)\n", len(s.Cameras), s.InitialCamera.ID)
	fmt.Printf("Textures:  %d\n", res.textures)
	if res.skipped > 0 {
		fmt.Printf("Skipped:   %d unsupported leaves\n", res.skipped)
	}
}

// exitCode maps compile failures to distinct exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, yasf.ErrSchema):
		return 3
	case errors.Is(err, yasf.ErrUnresolvedReference):
		return 4
	case errors.Is(err, yasf.ErrCyclicGraph):
		return 5
	case errors.Is(err, yasf.ErrUnsupportedPrimitive), errors.Is(err, yasf.ErrUnsupportedLight):
		return 6
	default:
		return 1
	}
}
