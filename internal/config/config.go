// Package config handles compiler configuration loading and management.
package config

import "time"

// Config holds all compiler settings.
type Config struct {
	Compiler CompilerConfig `yaml:"compiler" toml:"compiler"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// CompilerConfig holds scene compilation settings.
type CompilerConfig struct {
	SkipUnsupported bool    `yaml:"skip_unsupported" toml:"skip_unsupported"` // Warn and drop unknown leaf types
	LightHelpers    bool    `yaml:"light_helpers" toml:"light_helpers"`
	BoundsHelpers   bool    `yaml:"bounds_helpers" toml:"bounds_helpers"`
	HelperSize      float32 `yaml:"helper_size" toml:"helper_size"`
	ArcSubdivisions int     `yaml:"arc_subdivisions" toml:"arc_subdivisions"` // NURBS tiling precision
}

// AssetsConfig holds texture loading settings.
type AssetsConfig struct {
	Roots              []string `yaml:"roots" toml:"roots"` // Extra texture search directories
	LoadTextures       bool     `yaml:"load_textures" toml:"load_textures"`
	VerifyTextures     bool     `yaml:"verify_textures" toml:"verify_textures"`
	MaxConcurrentLoads int      `yaml:"max_concurrent_loads" toml:"max_concurrent_loads"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Debounce returns the debounce delay.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			SkipUnsupported: false,
			LightHelpers:    false,
			BoundsHelpers:   false,
			HelperSize:      0.5,
			ArcSubdivisions: 5,
		},
		Assets: AssetsConfig{
			LoadTextures:       true,
			VerifyTextures:     true,
			MaxConcurrentLoads: 8,
		},
		Watch: WatchConfig{
			DebounceMS: 250,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
