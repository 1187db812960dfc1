// Command wheelshot renders a spin of the configured wheel to numbered PNG
// frames without opening a window. Frames are timed by a fixed step clock, so
// the same config always produces the same images.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/assets"
	"github.com/iburimskiy/prize-wheel/internal/config"
	"github.com/iburimskiy/prize-wheel/internal/logger"
	"github.com/iburimskiy/prize-wheel/internal/particles"
	"github.com/iburimskiy/prize-wheel/internal/raster"
	"github.com/iburimskiy/prize-wheel/internal/wheel"
)

var (
	flagOut      = flag.String("out", "frames", "Directory to write PNG frames to")
	flagFPS      = flag.Int("fps", 30, "Frames per second of animation time")
	flagConfetti = flag.Duration("confetti", 2*time.Second, "How long to keep rendering confetti after the spin")
	flagSeed     = flag.Uint64("seed", 1, "Confetti random seed")
	flagTimeout  = flag.Duration("load-timeout", 10*time.Second, "How long to wait for images")
)

func main() {
	config.ParseFlags()

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wheelshot: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "wheelshot: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	n, err := run(cfg, *flagOut, *flagFPS, *flagConfetti, *flagSeed, *flagTimeout)
	if err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}
	logger.Info("frames written", zap.Int("count", n), zap.String("dir", *flagOut))
}

// shot renders frames of one spin into a directory.
type shot struct {
	dir      string
	model    *wheel.Model
	renderer *wheel.Renderer
	surface  *raster.Surface
	confetti *particles.Effect
	frames   int
}

func run(cfg *config.Config, dir string, fps int, confettiFor time.Duration, seed uint64, timeout time.Duration) (int, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("fps must be positive, got %d", fps)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	spec, err := cfg.ModelSpec()
	if err != nil {
		return 0, err
	}
	model, err := wheel.NewModel(spec)
	if err != nil {
		return 0, err
	}
	palette, err := cfg.ConfettiPalette()
	if err != nil {
		return 0, err
	}

	store := assets.NewStore(cfg.AssetRoot())
	store.Load(model.ImageRefs()...)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := store.Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for images: %w", err)
	}

	size := cfg.Window.WheelSize
	surface := raster.New(size, size, store)
	surface.SetBackground(config.ColorOr(cfg.Window.Background, color.NRGBA{A: 0xff}))

	step := time.Second / time.Duration(fps)
	now := time.Unix(0, 0).UTC()
	clock := func() time.Time { return now }

	s := &shot{
		dir:      dir,
		model:    model,
		renderer: wheel.NewRenderer(store),
		surface:  surface,
		confetti: particles.New(cfg.ParticleConfig(float64(size), float64(size)), particles.NewSeededRNG(seed), clock),
	}

	opts := cfg.SpinOptions()
	opts.OnFrame = s.frame
	ctrl, err := wheel.NewController(model.SliceCount(), opts)
	if err != nil {
		return 0, err
	}
	done, err := ctrl.Spin(cfg.Spin.WinningIndex)
	if err != nil {
		return 0, err
	}

	for ctrl.Active() {
		ctrl.Advance(now)
		now = now.Add(step)
	}
	if err := <-done; err != nil {
		return s.frames, err
	}

	landed := model.SliceAt(ctrl.Angle())
	logger.Info("spin rendered",
		zap.Int("winning_index", cfg.Spin.WinningIndex),
		zap.Int("landed", landed),
		zap.Int("frames", s.frames))
	if landed != cfg.Spin.WinningIndex {
		logger.Warn("wheel stopped off the winning slice", zap.Int("landed", landed))
	}

	s.confetti.Burst(palette, cfg.Confetti.Count)
	for end := now.Add(confettiFor); now.Before(end); now = now.Add(step) {
		s.confetti.Update(now)
		if err := s.frameAt(ctrl.Angle(), now); err != nil {
			return s.frames, err
		}
	}
	return s.frames, nil
}

func (s *shot) frame(angle float64) error {
	return s.frameAt(angle, time.Time{})
}

// frameAt renders the wheel at angle plus the confetti alive at now and
// writes the next numbered PNG.
func (s *shot) frameAt(angle float64, now time.Time) error {
	s.renderer.Render(s.surface, s.model, angle)
	if !now.IsZero() {
		s.confetti.Each(now, func(v particles.Visual) {
			s.surface.FillRect(v.X, v.Y, v.Size, v.Size*0.6, v.Rotation, v.Color)
		})
	}

	path := filepath.Join(s.dir, fmt.Sprintf("frame_%04d.png", s.frames))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.surface.Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.frames++
	return nil
}
