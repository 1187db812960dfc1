package config

import (
	"flag"
	"time"
)

var (
	flagConfig   = flag.String("config", "", "Path to wheel config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write logs to this rotating file")
	flagWinner   = flag.Int("winner", -1, "Winning slice index override")
	flagDuration = flag.Duration("duration", 0, "Spin duration override")
	flagTurns    = flag.Int("turns", -1, "Full turns override")
	flagMuted    = flag.Bool("muted", false, "Disable the win chime")
	flagNoReload = flag.Bool("no-reload", false, "Disable live config reload")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWinner >= 0 {
		cfg.Spin.WinningIndex = *flagWinner
	}
	if *flagDuration > 0 {
		cfg.Spin.Duration = *flagDuration
	}
	if *flagTurns >= 0 {
		cfg.Spin.FullTurns = *flagTurns
	}
	if *flagMuted {
		cfg.Audio.Muted = true
	}
	if *flagNoReload {
		cfg.Window.ReloadInterval = time.Duration(0)
	}
}
