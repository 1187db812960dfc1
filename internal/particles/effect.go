// Package particles implements the confetti burst shown after a spin.
package particles

import (
	"image/color"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/logger"
)

// DefaultCount is the burst size used when Burst is asked for none.
const DefaultCount = 120

// Config bounds the random particle attributes.
type Config struct {
	Width  float64 // horizontal spawn range [0, Width)
	Height float64 // distance a particle rises over its lifetime

	SizeMin, SizeMax         float64
	LifetimeMin, LifetimeMax time.Duration

	// RemoveAfter is when a particle is dropped, counted from its spawn and
	// regardless of whether its animation has visibly finished.
	RemoveAfter time.Duration

	// Spin is the total rotation over a particle lifetime, in radians.
	Spin float64
}

// DefaultConfig mirrors the stock confetti: 6–14 px dots rising for
// 2.5–4.5 s, removed 5 s after spawn.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:       width,
		Height:      height,
		SizeMin:     6,
		SizeMax:     14,
		LifetimeMin: 2500 * time.Millisecond,
		LifetimeMax: 4500 * time.Millisecond,
		RemoveAfter: 5 * time.Second,
		Spin:        4 * math.Pi,
	}
}

// Particle is one confetti dot. It shares nothing with other particles or
// with the wheel once created.
type Particle struct {
	X        float64
	Color    color.NRGBA
	Size     float64
	Lifetime time.Duration
	Spawned  time.Time
	removeAt time.Time
}

// Visual is a particle's appearance at an instant.
type Visual struct {
	X, Y     float64
	Size     float64
	Rotation float64
	Color    color.NRGBA // alpha fades from the particle alpha to zero
}

// VisualAt places p at now: it rises from y=height to y=0 over its lifetime
// while turning and fading out, then stays invisible until removed.
func (p Particle) VisualAt(now time.Time, height, spin float64) Visual {
	progress := float64(now.Sub(p.Spawned)) / float64(p.Lifetime)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	c := p.Color
	c.A = uint8(float64(c.A)*(1-progress) + 0.5)
	return Visual{
		X:        p.X,
		Y:        height - progress*height,
		Size:     p.Size,
		Rotation: progress * spin,
		Color:    c,
	}
}

// Effect owns a set of live particles. Like the wheel controller it is
// advanced from the frame loop and is not safe for concurrent use.
type Effect struct {
	cfg       Config
	rng       RandomSource
	now       func() time.Time
	particles []Particle
}

// New builds an Effect. A nil rng uses DefaultRNG and a nil clock uses
// time.Now.
func New(cfg Config, rng RandomSource, clock func() time.Time) *Effect {
	if rng == nil {
		rng = DefaultRNG()
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.LifetimeMax < cfg.LifetimeMin {
		cfg.LifetimeMax = cfg.LifetimeMin
	}
	if cfg.RemoveAfter < cfg.LifetimeMax {
		cfg.RemoveAfter = cfg.LifetimeMax
	}
	return &Effect{cfg: cfg, rng: rng, now: clock}
}

func (e *Effect) Config() Config { return e.cfg }

// Burst spawns count particles with random position, palette color, size
// and lifetime. count <= 0 means DefaultCount and an empty palette falls
// back to a rainbow. Burst never fails.
func (e *Effect) Burst(palette []color.Color, count int) {
	if count <= 0 {
		count = DefaultCount
	}
	colors := toNRGBA(palette)
	if len(colors) == 0 {
		colors = rainbow(8)
	}

	spawned := e.now()
	for i := 0; i < count; i++ {
		lifetime := e.cfg.LifetimeMin + time.Duration(e.rng.Float64()*float64(e.cfg.LifetimeMax-e.cfg.LifetimeMin))
		e.particles = append(e.particles, Particle{
			X:        e.rng.Float64() * e.cfg.Width,
			Color:    colors[int(e.rng.Float64()*float64(len(colors)))%len(colors)],
			Size:     e.cfg.SizeMin + e.rng.Float64()*(e.cfg.SizeMax-e.cfg.SizeMin),
			Lifetime: lifetime,
			Spawned:  spawned,
			removeAt: spawned.Add(e.cfg.RemoveAfter),
		})
	}
	logger.Debug("confetti burst", zap.Int("count", count), zap.Int("live", len(e.particles)))
}

// Update drops every particle whose removal time has passed and returns how
// many were removed.
func (e *Effect) Update(now time.Time) int {
	kept := e.particles[:0]
	for _, p := range e.particles {
		if now.Before(p.removeAt) {
			kept = append(kept, p)
		}
	}
	removed := len(e.particles) - len(kept)
	clear(e.particles[len(kept):])
	e.particles = kept
	return removed
}

// Len is the number of live particles.
func (e *Effect) Len() int { return len(e.particles) }

// Particles returns a copy of the live particles.
func (e *Effect) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// Each calls fn with the visual state of every live particle at now.
func (e *Effect) Each(now time.Time, fn func(Visual)) {
	for _, p := range e.particles {
		fn(p.VisualAt(now, e.cfg.Height, e.cfg.Spin))
	}
}

func toNRGBA(palette []color.Color) []color.NRGBA {
	out := make([]color.NRGBA, 0, len(palette))
	for _, c := range palette {
		if c == nil {
			continue
		}
		out = append(out, color.NRGBAModel.Convert(c).(color.NRGBA))
	}
	return out
}

// rainbow spreads n fully saturated hues around the color wheel.
func rainbow(n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		r, g, b := hsvToRgb(float64(i)*360/float64(n), 0.85, 1)
		out[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out
}

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
