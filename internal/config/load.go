package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// MinStagingVertexes is the smallest staging capacity accepted; one full surface
// unrolled by index must always fit.
const MinStagingVertexes = 6 * 4000

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the back end cannot run with.
func (c *Config) Validate() error {
	r := &c.Renderer
	if r.Greyscale < 0 || r.Greyscale > 1 {
		return fmt.Errorf("renderer.greyscale must be within [0,1], got %v", r.Greyscale)
	}
	if r.OverbrightBits < 0 || r.OverbrightBits > 2 {
		return fmt.Errorf("renderer.overbright_bits must be within [0,2], got %d", r.OverbrightBits)
	}
	if r.StagingVertexes < MinStagingVertexes {
		return fmt.Errorf("renderer.staging_vertexes must be at least %d, got %d", MinStagingVertexes, r.StagingVertexes)
	}
	if c.Viewer.Frames < 1 {
		return fmt.Errorf("viewer.frames must be at least 1, got %d", c.Viewer.Frames)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./rbshade.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "RBShade")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "RBShade")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rbshade")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "rbshade")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
