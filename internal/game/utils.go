package game

import (
	"fmt"
	"image/color"
	"strings"
	"time"
)

// rect is an axis-aligned screen rectangle in logical pixels.
type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= r.X && fx <= r.X+r.W && fy >= r.Y && fy <= r.Y+r.H
}

func (r rect) center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as SS.t, or MM:SS past a minute.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%02d.%d", int(d.Seconds()), int(d/(100*time.Millisecond))%10)
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// haloColor fades base in with the chime level.
func haloColor(base color.NRGBA, level float64) color.NRGBA {
	base.A = uint8(float64(base.A)*clamp01(level*3) + 0.5)
	return base
}

// scaleColor multiplies the RGB channels of c by f, keeping alpha.
func scaleColor(c color.NRGBA, f float64) color.NRGBA {
	f = clamp01(f)
	return color.NRGBA{
		R: uint8(float64(c.R)*f + 0.5),
		G: uint8(float64(c.G)*f + 0.5),
		B: uint8(float64(c.B)*f + 0.5),
		A: c.A,
	}
}

// wrapText breaks s into lines no wider than maxWidth as measured by
// measure. Words longer than a line get a line of their own.
func wrapText(s string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		if line == "" {
			line = word
			continue
		}
		if measure(line+" "+word) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
