// Package config handles viewer configuration loading and management.
package config

import "github.com/Faultbox/meshview/internal/engine/material"

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Material MaterialConfig `yaml:"material"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	Fullscreen  bool `yaml:"fullscreen"`
	VSync       bool `yaml:"vsync"`
	MSAASamples int  `yaml:"msaa_samples"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	Roots       []string `yaml:"roots"`        // Searched last to first; empty means the working directory
	Mesh        string   `yaml:"mesh"`         // OBJ file to display
	MaterialDir string   `yaml:"material_dir"` // Directory holding .mtl libraries
	TextureDir  string   `yaml:"texture_dir"`  // Directory holding texture images
}

// MaterialConfig holds material settings.
type MaterialConfig struct {
	// Fallback is used when the selected material block does not exist.
	Fallback material.Coefficients `yaml:"fallback"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:       1280,
			Height:      720,
			Fullscreen:  false,
			VSync:       true,
			MSAASamples: 4,
		},
		Assets: AssetsConfig{
			Mesh:        "mesh/cube.obj",
			MaterialDir: "material",
			TextureDir:  "texture",
		},
		Material: MaterialConfig{
			Fallback: material.FallbackDefaults,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
