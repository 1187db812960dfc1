package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iburimskiy/prize-wheel/internal/config"
)

func TestRunWritesFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Window.WheelSize = 100
	cfg.Spin.Duration = 200 * time.Millisecond
	cfg.Wheel.AssetDir = t.TempDir() // no images: slices render without pictures
	dir := t.TempDir()

	n, err := run(cfg, dir, 10, 100*time.Millisecond, 7, time.Second)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Spin frames at 0, 100 and 200 ms, then one confetti frame.
	if n != 4 {
		t.Fatalf("wrote %d frames, want 4", n)
	}

	f, err := os.Open(filepath.Join(dir, "frame_0003.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode last frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("frame size = %v, want 100x100", b)
	}
}

func TestRunRejectsBadFPS(t *testing.T) {
	if _, err := run(config.Default(), t.TempDir(), 0, 0, 1, time.Second); err == nil {
		t.Error("fps 0 accepted")
	}
}
