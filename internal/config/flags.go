package config

import "flag"

var (
	flagConfig          = flag.String("config", "", "Path to config file")
	flagDebug           = flag.Bool("debug", false, "Enable debug logging")
	flagSkipUnsupported = flag.Bool("skip-unsupported", false, "Skip unknown primitive and light types instead of failing")
	flagHelpers         = flag.Bool("helpers", false, "Attach debug helpers to lights")
	flagRoot            = flag.String("root", "", "Extra texture search directory")
	flagNoTextures      = flag.Bool("no-textures", false, "Do not load texture files")
	flagLogFile         = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSkipUnsupported {
		cfg.Compiler.SkipUnsupported = true
	}
	if *flagHelpers {
		cfg.Compiler.LightHelpers = true
	}
	if *flagRoot != "" {
		cfg.Assets.Roots = append(cfg.Assets.Roots, *flagRoot)
	}
	if *flagNoTextures {
		cfg.Assets.LoadTextures = false
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
