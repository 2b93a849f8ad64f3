package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMesh       = flag.String("mesh", "", "OBJ file to display (also accepted as the first argument)")
	flagAssets     = flag.String("assets", "", "Additional asset root directory")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagMSAA       = flag.Int("msaa", -1, "Multisample count, 0 disables antialiasing")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// meshArg returns the mesh named on the command line. The -mesh flag wins
// over a positional argument.
func meshArg() string {
	if *flagMesh != "" {
		return *flagMesh
	}
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if mesh := meshArg(); mesh != "" {
		cfg.Assets.Mesh = mesh
	}
	if *flagAssets != "" {
		cfg.Assets.Roots = append(cfg.Assets.Roots, *flagAssets)
	}

	switch {
	case *flagFullscreen:
		cfg.Graphics.Fullscreen = true
	case *flagWindowed:
		cfg.Graphics.Fullscreen = false
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagMSAA >= 0 {
		cfg.Graphics.MSAASamples = *flagMSAA
	}
}
