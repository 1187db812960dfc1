package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const fileName = "wheel.yaml"

// Load builds the config with priority defaults < file < flags and
// validates the result. It also returns the file path used, if any.
func Load() (*Config, string, error) {
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	cfg := Default()
	if configPath != "" {
		var err error
		if cfg, err = LoadFile(configPath); err != nil {
			return nil, "", err
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, configPath, nil
}

// Reload reads path again for a running wheel. Command-line overrides still
// win over the file, and the result is validated.
func Reload(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is where the wheel keeps its config when none was given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), fileName)
}

// LoadFile reads a YAML file on top of the defaults. Keys missing from the
// file keep their default values. The result is not validated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for a config in the working directory, then in the
// user config directory.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", fileName),
		filepath.Join(ConfigDir(), fileName),
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
		return filepath.Join(home, "Library", "Application Support", "PrizeWheel")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PrizeWheel")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "prize-wheel")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "prize-wheel")
	}
}
