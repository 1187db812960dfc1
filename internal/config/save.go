package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const backupName = "wheel.backup.yaml"

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the config to path, creating parent directories. The file is
// written next to its destination and renamed so readers never see a
// partial config.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// BackupPath is where Backup keeps the previous config for path.
func BackupPath(path string) string {
	return filepath.Join(filepath.Dir(path), backupName)
}

// Backup copies the config file at path to its backup location. A missing
// source is not an error.
func Backup(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	return os.WriteFile(BackupPath(path), data, 0644)
}

// RestoreBackup loads the backup kept for path.
func RestoreBackup(path string) (*Config, error) {
	return LoadFile(BackupPath(path))
}

// Import validates the config at src, backs up dst and replaces it with src.
// The previous dst stays readable through RestoreBackup.
func Import(src, dst string) (*Config, error) {
	cfg, err := LoadFile(src)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", src, err)
	}
	if err := Backup(dst); err != nil {
		return nil, err
	}
	// Relative image paths stay anchored to the imported file.
	if cfg.Wheel.AssetDir == "" || !filepath.IsAbs(cfg.Wheel.AssetDir) {
		cfg.Wheel.AssetDir = cfg.AssetRoot()
	}
	if err := cfg.SaveTo(dst); err != nil {
		return nil, err
	}
	return cfg, nil
}
