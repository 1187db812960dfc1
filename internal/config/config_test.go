package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iburimskiy/prize-wheel/internal/wheel"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Wheel.SliceCount != 6 {
		t.Errorf("expected 6 slices, got %d", cfg.Wheel.SliceCount)
	}
	if cfg.Spin.WinningIndex != 1 {
		t.Errorf("expected winning index 1, got %d", cfg.Spin.WinningIndex)
	}
	if cfg.Spin.Duration != 5*time.Second {
		t.Errorf("expected duration 5s, got %v", cfg.Spin.Duration)
	}
	if cfg.Spin.FullTurns != 5 {
		t.Errorf("expected 5 full turns, got %d", cfg.Spin.FullTurns)
	}
	if cfg.Confetti.Count != 120 {
		t.Errorf("expected 120 confetti, got %d", cfg.Confetti.Count)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wheel.yaml")

	yamlContent := `
wheel:
  slice_count: 8
  slice_colors: ["#FFC700", "#012ebd"]
  border_color: "#ffd700"
  pointer:
    offset_x: 75
    offset_y: -2
    size: 250
spin:
  winning_index: 7
  duration: 3s
  full_turns: 3
confetti:
  lifetime_max: 4s
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Wheel.SliceCount != 8 {
		t.Errorf("expected 8 slices, got %d", cfg.Wheel.SliceCount)
	}
	if cfg.Spin.Duration != 3*time.Second {
		t.Errorf("expected duration 3s, got %v", cfg.Spin.Duration)
	}
	if cfg.Wheel.Pointer.OffsetX != 75 || cfg.Wheel.Pointer.Size != 250 {
		t.Errorf("pointer = %+v", cfg.Wheel.Pointer)
	}
	if cfg.Confetti.LifetimeMin != 2500*time.Millisecond {
		t.Errorf("unset key lost its default: lifetime_min = %v", cfg.Confetti.LifetimeMin)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
	if cfg.AssetRoot() != tmpDir {
		t.Errorf("AssetRoot() = %s, want %s", cfg.AssetRoot(), tmpDir)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("wheel: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{name: "zero slices", mutate: func(c *Config) { c.Wheel.SliceCount = 0 }, is: wheel.ErrInvalidSliceCount},
		{name: "winner too high", mutate: func(c *Config) { c.Spin.WinningIndex = 6 }, is: wheel.ErrInvalidWinningIndex},
		{name: "winner negative", mutate: func(c *Config) { c.Spin.WinningIndex = -1 }, is: wheel.ErrInvalidWinningIndex},
		{name: "zero duration", mutate: func(c *Config) { c.Spin.Duration = 0 }},
		{name: "negative turns", mutate: func(c *Config) { c.Spin.FullTurns = -2 }},
		{name: "bad slice color", mutate: func(c *Config) { c.Wheel.SliceColors = []string{"orange"} }},
		{name: "bad border color", mutate: func(c *Config) { c.Wheel.BorderColor = "#12" }},
		{name: "bad palette", mutate: func(c *Config) { c.Confetti.Palette = []string{"#fff", "nope"} }},
		{name: "removal before lifetime", mutate: func(c *Config) { c.Confetti.RemoveAfter = time.Second }},
		{name: "volume above one", mutate: func(c *Config) { c.Audio.Volume = 1.5 }},
		{name: "bad popup color", mutate: func(c *Config) { c.Popup.Background = "x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}

func TestModelSpecAlternatesColors(t *testing.T) {
	cfg := Default()
	cfg.Wheel.SliceColors = []string{"#000000", "", "#123456"}

	spec, err := cfg.ModelSpec()
	if err != nil {
		t.Fatal(err)
	}
	even := color.NRGBA{R: 0xf0, G: 0x4d, B: 0x2e, A: 0xff}
	odd := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	want := []color.NRGBA{
		{A: 0xff},
		odd,
		{R: 0x12, G: 0x34, B: 0x56, A: 0xff},
		odd,
		even,
		odd,
	}
	for i, w := range want {
		if spec.Slices[i].Color != w {
			t.Errorf("slice %d color = %v, want %v", i, spec.Slices[i].Color, w)
		}
	}
	if spec.Slices[4].ImageSize != 95 || spec.Slices[4].ImageRef != "assets/p5.png" {
		t.Errorf("slice 4 = %+v", spec.Slices[4])
	}

	m, err := wheel.NewModel(spec)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if m.SliceCount() != 6 {
		t.Errorf("SliceCount() = %d", m.SliceCount())
	}
}

func TestModelSpecMissingImages(t *testing.T) {
	cfg := Default()
	cfg.Wheel.SliceCount = 8
	spec, err := cfg.ModelSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Slices[7].ImageRef != "" || spec.Slices[7].ImageSize != cfg.Wheel.DefaultImageSize {
		t.Errorf("slice 7 = %+v", spec.Slices[7])
	}
}

func TestSaveAndImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "live", "wheel.yaml")

	original := Default()
	original.Popup.Title = "Original"
	if err := original.SaveTo(live); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	incoming := Default()
	incoming.Popup.Title = "Imported"
	incoming.Spin.WinningIndex = 4
	src := filepath.Join(dir, "incoming", "export.yaml")
	if err := incoming.SaveTo(src); err != nil {
		t.Fatal(err)
	}

	imported, err := Import(src, live)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported.Spin.WinningIndex != 4 {
		t.Errorf("imported winning index = %d", imported.Spin.WinningIndex)
	}
	if imported.AssetRoot() != filepath.Join(dir, "incoming") {
		t.Errorf("imported AssetRoot() = %s", imported.AssetRoot())
	}

	reloaded, err := LoadFile(live)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Popup.Title != "Imported" {
		t.Errorf("live config title = %q", reloaded.Popup.Title)
	}
	if reloaded.AssetRoot() != filepath.Join(dir, "incoming") {
		t.Errorf("reloaded AssetRoot() = %s", reloaded.AssetRoot())
	}

	backup, err := RestoreBackup(live)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if backup.Popup.Title != "Original" {
		t.Errorf("backup title = %q", backup.Popup.Title)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(src, []byte("spin:\n  winning_index: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}
	live := filepath.Join(dir, "wheel.yaml")
	if _, err := Import(src, live); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(live); !os.IsNotExist(err) {
		t.Error("invalid import touched the live config")
	}
}

func TestMarshalUsesDurationStrings(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "duration: 5s") {
		t.Errorf("marshalled config lacks duration string:\n%s", data)
	}
}

func TestFileWatcherDetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	if err := os.WriteFile(path, []byte("spin:\n  winning_index: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Minute)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int32
	w := NewFileWatcher(path, 10*time.Millisecond, func(string) { changes.Add(1) })
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(path, []byte("spin:\n  winning_index: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for changes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if changes.Load() == 0 {
		t.Fatal("watcher did not report the change")
	}

	w.Stop()
	w.Stop()
}
