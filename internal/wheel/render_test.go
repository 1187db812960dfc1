package wheel

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"testing"
)

type drawCall struct {
	op   string
	ref  string
	args []float64
	clr  color.NRGBA
}

// recordingSurface captures draw calls instead of painting pixels.
type recordingSurface struct {
	w, h  int
	calls []drawCall
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Clear() { s.calls = append(s.calls, drawCall{op: "clear"}) }

func (s *recordingSurface) FillSector(cx, cy, radius, start, end float64, clr color.NRGBA) {
	s.calls = append(s.calls, drawCall{op: "sector", args: []float64{cx, cy, radius, start, end}, clr: clr})
}

func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	s.calls = append(s.calls, drawCall{op: "line", args: []float64{x0, y0, x1, y1, width}, clr: clr})
}

func (s *recordingSurface) StrokeRing(cx, cy, radius, width float64, inner, outer color.NRGBA) {
	s.calls = append(s.calls, drawCall{op: "ring", args: []float64{cx, cy, radius, width}, clr: outer})
}

func (s *recordingSurface) FillCircle(cx, cy, radius float64, clr color.NRGBA) {
	s.calls = append(s.calls, drawCall{op: "circle", args: []float64{cx, cy, radius}, clr: clr})
}

func (s *recordingSurface) DrawImage(ref string, cx, cy, size, rotation float64) {
	s.calls = append(s.calls, drawCall{op: "image", ref: ref, args: []float64{cx, cy, size, rotation}})
}

func (s *recordingSurface) DrawImageCircle(ref string, cx, cy, diameter float64) {
	s.calls = append(s.calls, drawCall{op: "clipped", ref: ref, args: []float64{cx, cy, diameter}})
}

func (s *recordingSurface) ops() string {
	parts := make([]string, len(s.calls))
	for i, c := range s.calls {
		parts[i] = c.op
		if c.ref != "" {
			parts[i] += ":" + c.ref
		}
	}
	return strings.Join(parts, " ")
}

type readySet map[string]bool

func (r readySet) IsReady(ref string) bool { return r[ref] }

func TestRenderDrawOrder(t *testing.T) {
	spec := testSpec(2)
	spec.Slices[0].ImageRef = "a.png"
	spec.Slices[1].ImageRef = "b.png"
	m, err := NewModel(spec)
	if err != nil {
		t.Fatal(err)
	}
	images := readySet{"a.png": true, "b.png": true, "logo.png": true, "pointer.png": true}

	s := &recordingSurface{w: 400, h: 400}
	NewRenderer(images).Render(s, m, 0)

	want := "clear sector line image:a.png sector line image:b.png ring circle clipped:logo.png image:pointer.png"
	if got := s.ops(); got != want {
		t.Errorf("draw order\n got: %s\nwant: %s", got, want)
	}
}

func TestRenderSkipsUnreadyImages(t *testing.T) {
	m := mustModel(t, 6)
	s := &recordingSurface{w: 400, h: 400}
	NewRenderer(readySet{}).Render(s, m, 1.2)

	for _, c := range s.calls {
		if c.op == "image" || c.op == "clipped" || c.op == "circle" {
			t.Errorf("unexpected %s call for unready image %q", c.op, c.ref)
		}
	}
	if got := strings.Count(s.ops(), "sector"); got != 6 {
		t.Errorf("drew %d sectors, want 6", got)
	}

	// Nil source behaves the same.
	s = &recordingSurface{w: 400, h: 400}
	NewRenderer(nil).Render(s, m, 1.2)
	if strings.Contains(s.ops(), "image") {
		t.Error("nil image source drew images")
	}
}

func TestRenderSliceGeometry(t *testing.T) {
	m := mustModel(t, 6)
	s := &recordingSurface{w: 400, h: 400}
	const angle = 0.7
	NewRenderer(readySet{"prize.png": true}).Render(s, m, angle)

	span := math.Pi / 3
	sector, image := 0, 0
	for _, c := range s.calls {
		switch c.op {
		case "sector":
			wantStart := angle + float64(sector)*span
			if math.Abs(c.args[3]-wantStart) > 1e-12 || math.Abs(c.args[4]-(wantStart+span)) > 1e-12 {
				t.Errorf("sector %d spans [%v, %v), want [%v, %v)", sector, c.args[3], c.args[4], wantStart, wantStart+span)
			}
			if c.args[2] != 200-22 {
				t.Errorf("sector radius = %v, want %v", c.args[2], 200-22)
			}
			if c.clr != m.Slice(sector).Color {
				t.Errorf("sector %d color = %v", sector, c.clr)
			}
			sector++
		case "image":
			if c.ref != "prize.png" {
				continue
			}
			bisector := angle + float64(image)*span + span/2
			dist := 200.0 - 22 - 80 - 20 + 40
			wantX := 200 + math.Cos(bisector)*dist
			wantY := 200 + math.Sin(bisector)*dist
			if math.Abs(c.args[0]-wantX) > 1e-9 || math.Abs(c.args[1]-wantY) > 1e-9 {
				t.Errorf("image %d at (%v, %v), want (%v, %v)", image, c.args[0], c.args[1], wantX, wantY)
			}
			if c.args[2] != 80 || math.Abs(c.args[3]-bisector) > 1e-12 {
				t.Errorf("image %d size/rotation = %v/%v", image, c.args[2], c.args[3])
			}
			image++
		}
	}
	if sector != 6 || image != 6 {
		t.Errorf("got %d sectors and %d images, want 6 and 6", sector, image)
	}
}

func TestRenderPointerIgnoresRotation(t *testing.T) {
	m := mustModel(t, 6)
	images := readySet{"pointer.png": true}

	var positions []string
	for _, angle := range []float64{0, 1, 4.5} {
		s := &recordingSurface{w: 400, h: 400}
		NewRenderer(images).Render(s, m, angle)
		for _, c := range s.calls {
			if c.ref == "pointer.png" {
				positions = append(positions, fmt.Sprint(c.args))
			}
		}
	}
	if len(positions) != 3 || positions[0] != positions[1] || positions[1] != positions[2] {
		t.Errorf("pointer moved with rotation: %v", positions)
	}

	x, y := PointerCenter(400, 400, m.Pointer())
	if x != 400-35 || y != 200 {
		t.Errorf("PointerCenter = (%v, %v), want (365, 200)", x, y)
	}
}

func TestRenderBorderGradient(t *testing.T) {
	m := mustModel(t, 6)
	s := &recordingSurface{w: 400, h: 400}
	NewRenderer(nil).Render(s, m, 0)

	for _, c := range s.calls {
		if c.op != "ring" {
			continue
		}
		if c.args[2] != 200-11 || c.args[3] != 26 {
			t.Errorf("ring radius/width = %v/%v, want 189/26", c.args[2], c.args[3])
		}
		if c.clr != Darken(m.BorderColor(), 20) {
			t.Errorf("ring outer color = %v", c.clr)
		}
		return
	}
	t.Error("no border ring drawn")
}
