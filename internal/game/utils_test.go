package game

import (
	"image/color"
	"reflect"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00.0"},
		{-time.Second, "00.0"},
		{1250 * time.Millisecond, "01.2"},
		{59 * time.Second, "59.0"},
		{61 * time.Second, "01:01"},
		{10 * time.Minute, "10:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := rect{X: 10, Y: 20, W: 100, H: 40}
	for _, tt := range []struct {
		x, y int
		want bool
	}{
		{10, 20, true},
		{110, 60, true},
		{60, 40, true},
		{9, 40, false},
		{60, 61, false},
	} {
		if got := r.contains(tt.x, tt.y); got != tt.want {
			t.Errorf("contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if x, y := r.center(); x != 60 || y != 40 {
		t.Errorf("center = (%v, %v), want (60, 40)", x, y)
	}
}

func TestHaloColor(t *testing.T) {
	base := color.NRGBA{R: 10, G: 20, B: 30, A: 200}
	if got := haloColor(base, 0); got.A != 0 {
		t.Errorf("silent halo alpha = %d, want 0", got.A)
	}
	if got := haloColor(base, 1); got != base {
		t.Errorf("loud halo = %v, want %v", got, base)
	}
	if got := haloColor(base, 0.1); got.A == 0 || got.A >= base.A {
		t.Errorf("quiet halo alpha = %d, want in (0, %d)", got.A, base.A)
	}
}

func TestScaleColor(t *testing.T) {
	got := scaleColor(color.NRGBA{R: 200, G: 100, B: 0, A: 77}, 0.5)
	want := color.NRGBA{R: 100, G: 50, B: 0, A: 77}
	if got != want {
		t.Errorf("scaleColor = %v, want %v", got, want)
	}
}

func TestWrapText(t *testing.T) {
	byLen := func(s string) float64 { return float64(len(s)) }
	tests := []struct {
		in    string
		width float64
		want  []string
	}{
		{"", 10, nil},
		{"short", 10, []string{"short"}},
		{"one two three four", 9, []string{"one two", "three", "four"}},
		{"a  b\nc", 10, []string{"a b c"}},
		{"unbreakableword x", 5, []string{"unbreakableword", "x"}},
	}
	for _, tt := range tests {
		if got := wrapText(tt.in, tt.width, byLen); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wrapText(%q, %v) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
