package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/config"
	"github.com/iburimskiy/prize-wheel/internal/game"
	"github.com/iburimskiy/prize-wheel/internal/logger"
	"github.com/iburimskiy/prize-wheel/internal/sound"
)

func main() {
	config.ParseFlags()

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "prize-wheel: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "prize-wheel: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	logger.Info("starting prize wheel",
		zap.String("config", cfgPath),
		zap.Int("slices", cfg.Wheel.SliceCount),
		zap.Int("winning_index", cfg.Spin.WinningIndex))

	player := sound.NewPlayer(sound.Options{
		Muted:     cfg.Audio.Muted,
		Volume:    cfg.Audio.Volume,
		ChimeFile: cfg.Audio.ChimeFile,
	})

	g, err := game.New(cfg, cfgPath, player)
	if err != nil {
		logger.Fatal("building wheel", zap.Error(err))
	}
	defer g.Close()

	if interval := cfg.Window.ReloadInterval; interval > 0 {
		watcher := config.NewFileWatcher(cfgPath, interval, func(path string) {
			next, err := config.Reload(path)
			if err != nil {
				logger.Warn("ignoring config change", zap.Error(err))
				return
			}
			g.Reload(next)
		})
		watcher.Start()
		defer watcher.Stop()
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - Space: spin, Esc/Q: quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop failed", zap.Error(err))
	}
}
