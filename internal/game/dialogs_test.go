package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iburimskiy/prize-wheel/internal/config"
)

func TestRestoreDefaultsKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.yaml")
	if err := os.WriteFile(path, []byte("wheel:\n  slice_count: 3\nspin:\n  winning_index: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := restoreDefaults(path)
	if err != nil {
		t.Fatalf("restoreDefaults: %v", err)
	}
	if cfg.Wheel.SliceCount != 6 || !filepath.IsAbs(cfg.Wheel.AssetDir) {
		t.Errorf("restored config = %d slices, asset dir %q", cfg.Wheel.SliceCount, cfg.Wheel.AssetDir)
	}

	onDisk, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if onDisk.Wheel.SliceCount != 6 {
		t.Errorf("saved slice count = %d, want 6", onDisk.Wheel.SliceCount)
	}

	restored, err := restoreBackup(path)
	if err != nil {
		t.Fatalf("restoreBackup: %v", err)
	}
	if restored.Wheel.SliceCount != 3 || restored.Spin.WinningIndex != 2 {
		t.Errorf("backup = %d slices winner %d, want 3 and 2", restored.Wheel.SliceCount, restored.Spin.WinningIndex)
	}
	if onDisk, _ = config.LoadFile(path); onDisk.Wheel.SliceCount != 3 {
		t.Errorf("backup not written back, slice count %d", onDisk.Wheel.SliceCount)
	}
}

func TestRestoreBackupMissing(t *testing.T) {
	if _, err := restoreBackup(filepath.Join(t.TempDir(), "wheel.yaml")); err == nil {
		t.Error("expected an error without a backup")
	}
}

func TestExportAnchorsAssets(t *testing.T) {
	src := t.TempDir()
	srcPath := filepath.Join(src, "wheel.yaml")
	if err := config.Default().SaveTo(srcPath); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadFile(srcPath)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "exported.yaml")
	if err := exportTo(cfg, out); err != nil {
		t.Fatalf("exportTo: %v", err)
	}
	if cfg.Wheel.AssetDir != "" {
		t.Errorf("exportTo modified the live config: %q", cfg.Wheel.AssetDir)
	}

	exported, err := config.LoadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if exported.AssetRoot() != src {
		t.Errorf("exported asset root = %q, want %q", exported.AssetRoot(), src)
	}
}
