package game

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/config"
	"github.com/iburimskiy/prize-wheel/internal/logger"
)

const dialogTitle = "Prize Wheel"

var yamlFilter = zenity.FileFilters{{
	Name:     "Wheel config",
	Patterns: []string{"*.yaml", "*.yml"},
}}

// configEvent carries the outcome of a file action back to the frame loop.
// A nil cfg with a nil err is a plain notice.
type configEvent struct {
	source string
	cfg    *config.Config
	err    error
}

// runDialog runs fn on its own goroutine so the native dialog never blocks
// a frame. Only one dialog is open at a time.
func (g *Game) runDialog(source string, fn func() (*config.Config, error)) {
	if !g.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer g.dialogOpen.Store(false)
		cfg, err := fn()
		if errors.Is(err, zenity.ErrCanceled) {
			logger.Debug("dialog canceled", zap.String("action", source))
			return
		}
		if err != nil {
			logger.Warn("config action failed", zap.String("action", source), zap.Error(err))
			_ = zenity.Error(err.Error(), zenity.Title(dialogTitle), zenity.ErrorIcon)
		}
		g.submit(configEvent{source: source, cfg: cfg, err: err})
	}()
}

func (g *Game) importConfig() {
	dst := g.cfgPath
	g.runDialog("import", func() (*config.Config, error) {
		src, err := zenity.SelectFile(
			zenity.Title("Import wheel config"),
			yamlFilter,
		)
		if err != nil {
			return nil, err
		}
		logger.Info("importing config", zap.String("from", src), zap.String("to", dst))
		return config.Import(src, dst)
	})
}

func (g *Game) exportConfig() {
	cfg := g.cfg
	g.runDialog("export", func() (*config.Config, error) {
		path, err := zenity.SelectFileSave(
			zenity.Title("Export wheel config"),
			zenity.ConfirmOverwrite(),
			zenity.Filename("wheel.yaml"),
			yamlFilter,
		)
		if err != nil {
			return nil, err
		}
		return nil, exportTo(cfg, path)
	})
}

func (g *Game) restoreDefaults() {
	dst := g.cfgPath
	g.runDialog("defaults", func() (*config.Config, error) {
		err := zenity.Question("Replace the current wheel with the default one? The current config is kept as a backup.",
			zenity.Title(dialogTitle),
			zenity.OKLabel("Restore"),
			zenity.CancelLabel("Keep"),
		)
		if err != nil {
			return nil, err
		}
		return restoreDefaults(dst)
	})
}

func (g *Game) restoreBackup() {
	dst := g.cfgPath
	g.runDialog("backup", func() (*config.Config, error) {
		return restoreBackup(dst)
	})
}

// exportTo writes cfg to path with image paths made absolute, so the file
// still works from another directory.
func exportTo(cfg *config.Config, path string) error {
	out := *cfg
	if err := anchorAssets(&out); err != nil {
		return err
	}
	if err := out.SaveTo(path); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	logger.Info("config exported", zap.String("path", path))
	return nil
}

// restoreDefaults backs up the config at path and replaces it with the
// built-in wheel.
func restoreDefaults(path string) (*config.Config, error) {
	if err := config.Backup(path); err != nil {
		return nil, err
	}
	cfg := config.Default()
	if err := anchorAssets(cfg); err != nil {
		return nil, err
	}
	if err := cfg.SaveTo(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// restoreBackup puts the backup kept for path back in place.
func restoreBackup(path string) (*config.Config, error) {
	cfg, err := config.RestoreBackup(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backup is invalid: %w", err)
	}
	if err := anchorAssets(cfg); err != nil {
		return nil, err
	}
	if err := cfg.SaveTo(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// anchorAssets pins relative image paths to where they resolve now.
func anchorAssets(cfg *config.Config) error {
	root, err := filepath.Abs(cfg.AssetRoot())
	if err != nil {
		return err
	}
	cfg.Wheel.AssetDir = root
	return nil
}
