// Package config loads the wheel configuration snapshot and turns it into
// the values the wheel, confetti and host packages consume.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/iburimskiy/prize-wheel/internal/particles"
	"github.com/iburimskiy/prize-wheel/internal/wheel"
)

// Config holds every setting of the prize wheel.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Wheel    WheelConfig    `yaml:"wheel"`
	Spin     SpinConfig     `yaml:"spin"`
	Confetti ConfettiConfig `yaml:"confetti"`
	Popup    PopupConfig    `yaml:"popup"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`

	dir string // directory of the file the config came from
}

// WindowConfig holds the host window layout.
type WindowConfig struct {
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Title          string        `yaml:"title"`
	Background     string        `yaml:"background"`
	WheelSize      int           `yaml:"wheel_size"`
	ReloadInterval time.Duration `yaml:"reload_interval"` // 0 disables live reload
}

// PointerConfig places the pointer image; see wheel.PointerGeometry.
type PointerConfig struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Size    float64 `yaml:"size"`
}

// WheelConfig describes the dial. Slices without an explicit color take
// EvenColor or OddColor by index parity.
type WheelConfig struct {
	SliceCount       int       `yaml:"slice_count"`
	SliceColors      []string  `yaml:"slice_colors,omitempty"`
	EvenColor        string    `yaml:"even_color"`
	OddColor         string    `yaml:"odd_color"`
	SliceImages      []string  `yaml:"slice_images,omitempty"`
	SliceImageSizes  []float64 `yaml:"slice_image_sizes,omitempty"`
	DefaultImageSize float64   `yaml:"default_image_size"`
	ImageGap         float64   `yaml:"image_gap"`

	BorderColor     string  `yaml:"border_color"`
	BorderThickness float64 `yaml:"border_thickness"`
	DividerColor    string  `yaml:"divider_color"`
	DividerWidth    float64 `yaml:"divider_width"`

	CenterImage     string        `yaml:"center_image"`
	CenterImageSize float64       `yaml:"center_image_size"`
	PointerImage    string        `yaml:"pointer_image"`
	Pointer         PointerConfig `yaml:"pointer"`

	// AssetDir resolves relative image paths. Empty means the directory of
	// the config file, or the working directory for built-in defaults.
	AssetDir string `yaml:"asset_dir"`
}

// SpinConfig holds the predetermined outcome and the animation timing.
type SpinConfig struct {
	WinningIndex int           `yaml:"winning_index"`
	Duration     time.Duration `yaml:"duration"`
	FullTurns    int           `yaml:"full_turns"`
	ButtonText   string        `yaml:"button_text"`
	ButtonColor  string        `yaml:"button_color"`
}

// ConfettiConfig holds the burst shown after a spin.
type ConfettiConfig struct {
	Count       int           `yaml:"count"`
	Palette     []string      `yaml:"palette"`
	SizeMin     float64       `yaml:"size_min"`
	SizeMax     float64       `yaml:"size_max"`
	LifetimeMin time.Duration `yaml:"lifetime_min"`
	LifetimeMax time.Duration `yaml:"lifetime_max"`
	RemoveAfter time.Duration `yaml:"remove_after"`
}

// PopupConfig holds the winner popup texts.
type PopupConfig struct {
	Title       string `yaml:"title"`
	Text        string `yaml:"text"`
	ButtonText  string `yaml:"button_text"`
	ButtonColor string `yaml:"button_color"`
	Background  string `yaml:"background"`
	Link        string `yaml:"link"`
}

// AudioConfig holds the win chime settings.
type AudioConfig struct {
	Muted  bool    `yaml:"muted"`
	Volume float64 `yaml:"volume"` // 0..1

	// ChimeFile is a wav, mp3 or flac file; empty plays the built-in chime.
	ChimeFile string `yaml:"chime_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the stock six-slice wheel.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:          480,
			Height:         640,
			Title:          "Prize Wheel",
			Background:     "#f04d2e",
			WheelSize:      400,
			ReloadInterval: 2 * time.Second,
		},
		Wheel: WheelConfig{
			SliceCount:       6,
			EvenColor:        "#f04d2e",
			OddColor:         "#ffffff",
			SliceImages:      []string{"assets/p1.png", "assets/p2.png", "assets/p3.png", "assets/p4.png", "assets/p5.png", "assets/p6.png"},
			SliceImageSizes:  []float64{80, 80, 85, 80, 95, 95},
			DefaultImageSize: 80,
			ImageGap:         20,
			BorderColor:      "#c73c23",
			BorderThickness:  22,
			DividerColor:     "#ffffff",
			DividerWidth:     3,
			CenterImage:      "assets/logo2.png",
			CenterImageSize:  90,
			PointerImage:     "assets/seta.png",
			Pointer:          PointerConfig{Size: 70},
		},
		Spin: SpinConfig{
			WinningIndex: 1,
			Duration:     wheel.DefaultDuration,
			FullTurns:    wheel.DefaultFullTurns,
			ButtonText:   "SPIN THE WHEEL",
			ButtonColor:  "#ff6b47",
		},
		Confetti: ConfettiConfig{
			Count:       particles.DefaultCount,
			Palette:     []string{"#f04d2e", "#ffffff", "#ffab91", "#ffccbc", "#ffe0b2"},
			SizeMin:     6,
			SizeMax:     14,
			LifetimeMin: 2500 * time.Millisecond,
			LifetimeMax: 4500 * time.Millisecond,
			RemoveAfter: 5 * time.Second,
		},
		Popup: PopupConfig{
			Title:       "Congratulations!",
			Text:        "You won an exclusive discount coupon.",
			ButtonText:  "Claim your coupon",
			ButtonColor: "#25d366",
			Background:  "#f04d2e",
		},
		Audio: AudioConfig{
			Volume: 0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first invalid setting. It runs before any model or
// controller is built, so a bad file never touches live state.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.WheelSize <= 0 {
		return fmt.Errorf("wheel_size must be positive, got %d", c.Window.WheelSize)
	}
	if c.Wheel.SliceCount <= 0 {
		return fmt.Errorf("%w: %d", wheel.ErrInvalidSliceCount, c.Wheel.SliceCount)
	}
	if _, err := wheel.TargetRotation(c.Wheel.SliceCount, c.Spin.WinningIndex, c.Spin.FullTurns); err != nil {
		return err
	}
	if c.Spin.FullTurns < 0 {
		return fmt.Errorf("full_turns must not be negative, got %d", c.Spin.FullTurns)
	}
	if c.Spin.Duration <= 0 {
		return fmt.Errorf("spin duration must be positive, got %v", c.Spin.Duration)
	}
	if c.Confetti.SizeMin < 0 || c.Confetti.SizeMax < c.Confetti.SizeMin {
		return fmt.Errorf("confetti size range [%v, %v] is invalid", c.Confetti.SizeMin, c.Confetti.SizeMax)
	}
	if c.Confetti.LifetimeMin <= 0 || c.Confetti.LifetimeMax < c.Confetti.LifetimeMin {
		return fmt.Errorf("confetti lifetime range [%v, %v] is invalid", c.Confetti.LifetimeMin, c.Confetti.LifetimeMax)
	}
	if c.Confetti.RemoveAfter < c.Confetti.LifetimeMax {
		return fmt.Errorf("confetti remove_after %v is shorter than lifetime_max %v", c.Confetti.RemoveAfter, c.Confetti.LifetimeMax)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio volume must be within [0, 1], got %v", c.Audio.Volume)
	}
	if _, err := c.ModelSpec(); err != nil {
		return err
	}
	if _, err := c.ConfettiPalette(); err != nil {
		return err
	}
	for name, hex := range map[string]string{
		"window.background":  c.Window.Background,
		"spin.button_color":  c.Spin.ButtonColor,
		"popup.button_color": c.Popup.ButtonColor,
		"popup.background":   c.Popup.Background,
	} {
		if _, err := wheel.ParseHexColor(hex); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// AssetRoot is the directory relative image paths are resolved against.
func (c *Config) AssetRoot() string {
	if c.Wheel.AssetDir != "" {
		if filepath.IsAbs(c.Wheel.AssetDir) || c.dir == "" {
			return c.Wheel.AssetDir
		}
		return filepath.Join(c.dir, c.Wheel.AssetDir)
	}
	if c.dir != "" {
		return c.dir
	}
	return "."
}

// SliceColor returns the configured color of slice i.
func (c *Config) SliceColor(i int) string {
	if i < len(c.Wheel.SliceColors) && c.Wheel.SliceColors[i] != "" {
		return c.Wheel.SliceColors[i]
	}
	if i%2 == 0 {
		return c.Wheel.EvenColor
	}
	return c.Wheel.OddColor
}

// ModelSpec converts the wheel section into a wheel.ModelSpec.
func (c *Config) ModelSpec() (wheel.ModelSpec, error) {
	w := c.Wheel
	if w.SliceCount <= 0 {
		return wheel.ModelSpec{}, wheel.ErrInvalidSliceCount
	}

	slices := make([]wheel.Slice, w.SliceCount)
	for i := range slices {
		clr, err := wheel.ParseHexColor(c.SliceColor(i))
		if err != nil {
			return wheel.ModelSpec{}, fmt.Errorf("slice %d: %w", i, err)
		}
		size := w.DefaultImageSize
		if i < len(w.SliceImageSizes) && w.SliceImageSizes[i] > 0 {
			size = w.SliceImageSizes[i]
		}
		var ref string
		if i < len(w.SliceImages) {
			ref = w.SliceImages[i]
		}
		slices[i] = wheel.Slice{Index: i, Color: clr, ImageRef: ref, ImageSize: size}
	}

	border, err := wheel.ParseHexColor(w.BorderColor)
	if err != nil {
		return wheel.ModelSpec{}, fmt.Errorf("border_color: %w", err)
	}
	var divider color.NRGBA
	if w.DividerColor != "" {
		if divider, err = wheel.ParseHexColor(w.DividerColor); err != nil {
			return wheel.ModelSpec{}, fmt.Errorf("divider_color: %w", err)
		}
	}
	if w.BorderThickness < 0 {
		return wheel.ModelSpec{}, errors.New("border_thickness must not be negative")
	}

	return wheel.ModelSpec{
		Slices:          slices,
		BorderColor:     border,
		BorderThickness: w.BorderThickness,
		DividerColor:    divider,
		DividerWidth:    w.DividerWidth,
		CenterImageRef:  w.CenterImage,
		CenterImageSize: w.CenterImageSize,
		PointerImageRef: w.PointerImage,
		Pointer: wheel.PointerGeometry{
			OffsetX: w.Pointer.OffsetX,
			OffsetY: w.Pointer.OffsetY,
			Size:    w.Pointer.Size,
		},
		ImageGap: w.ImageGap,
	}, nil
}

// SpinOptions returns controller options without hooks.
func (c *Config) SpinOptions() wheel.Options {
	return wheel.Options{FullTurns: c.Spin.FullTurns, Duration: c.Spin.Duration}
}

// ParticleConfig sizes the confetti to a width×height screen.
func (c *Config) ParticleConfig(width, height float64) particles.Config {
	pc := particles.DefaultConfig(width, height)
	pc.SizeMin = c.Confetti.SizeMin
	pc.SizeMax = c.Confetti.SizeMax
	pc.LifetimeMin = c.Confetti.LifetimeMin
	pc.LifetimeMax = c.Confetti.LifetimeMax
	pc.RemoveAfter = c.Confetti.RemoveAfter
	return pc
}

// ConfettiPalette parses the confetti colors.
func (c *Config) ConfettiPalette() ([]color.Color, error) {
	out := make([]color.Color, 0, len(c.Confetti.Palette))
	for i, hex := range c.Confetti.Palette {
		clr, err := wheel.ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("confetti palette %d: %w", i, err)
		}
		out = append(out, clr)
	}
	return out, nil
}

// ColorOr parses hex, returning fallback when it is not a valid color.
func ColorOr(hex string, fallback color.NRGBA) color.NRGBA {
	clr, err := wheel.ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return clr
}
