package wheel

import (
	"image/color"
	"math"
)

// Surface is a 2D render target of fixed pixel size. Angles are radians,
// clockwise from 3 o'clock in y-down coordinates.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillSector(cx, cy, radius, start, end float64, clr color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA)
	// StrokeRing strokes a circle with a radial gradient running from inner
	// at the inside edge of the stroke to outer at its outside edge.
	StrokeRing(cx, cy, radius, width float64, inner, outer color.NRGBA)
	FillCircle(cx, cy, radius float64, clr color.NRGBA)
	// DrawImage draws ref scaled to size×size, centered on (cx, cy) and
	// rotated by rotation around its center.
	DrawImage(ref string, cx, cy, size, rotation float64)
	// DrawImageCircle draws ref scaled to diameter and clipped to a circle.
	DrawImageCircle(ref string, cx, cy, diameter float64)
}

// ImageSource reports whether an image reference can be drawn right now.
type ImageSource interface {
	IsReady(ref string) bool
}

const (
	borderDarken    = 20
	borderStrokePad = 4
)

var centerBackdrop = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Renderer paints a Model at a rotation angle. It keeps no per-frame state,
// so Render may be called as often as the host likes.
type Renderer struct {
	images ImageSource
}

// NewRenderer returns a Renderer that polls images before drawing them.
// A nil source treats every image as not ready.
func NewRenderer(images ImageSource) *Renderer {
	return &Renderer{images: images}
}

func (r *Renderer) ready(ref string) bool {
	return ref != "" && r.images != nil && r.images.IsReady(ref)
}

// Render clears s and draws, in order, the slices, the border ring, the
// center logo and the pointer. Only the slices move with angle.
func (r *Renderer) Render(s Surface, m *Model, angle float64) {
	w, h := s.Size()
	cx, cy := float64(w)/2, float64(h)/2
	outer := math.Min(cx, cy)
	border := m.BorderThickness()
	inner := outer - border

	s.Clear()

	for i, slice := range m.slices {
		start, end := m.SliceRange(i, angle)
		s.FillSector(cx, cy, inner, start, end, slice.Color)

		if m.dividerWidth > 0 && m.dividerColor.A > 0 {
			s.StrokeLine(cx, cy, cx+math.Cos(start)*inner, cy+math.Sin(start)*inner, m.dividerWidth, m.dividerColor)
		}

		if slice.ImageSize > 0 && r.ready(slice.ImageRef) {
			bisector := start + m.SliceSpan()/2
			dist := inner - slice.ImageSize - m.imageGap + slice.ImageSize/2
			s.DrawImage(slice.ImageRef,
				cx+math.Cos(bisector)*dist,
				cy+math.Sin(bisector)*dist,
				slice.ImageSize, bisector)
		}
	}

	s.StrokeRing(cx, cy, outer-border/2, border+borderStrokePad,
		m.borderColor, Darken(m.borderColor, borderDarken))

	if size := m.centerImageSize; size > 0 && r.ready(m.centerImageRef) {
		s.FillCircle(cx, cy, size/2, centerBackdrop)
		s.DrawImageCircle(m.centerImageRef, cx, cy, size)
	}

	if p := m.pointer; p.Size > 0 && r.ready(m.pointerImageRef) {
		px, py := PointerCenter(w, h, p)
		s.DrawImage(m.pointerImageRef, px, py, p.Size, 0)
	}
}

// PointerCenter is the fixed screen position of the pointer image center on
// a width×height surface. It does not depend on the wheel rotation.
func PointerCenter(width, height int, p PointerGeometry) (x, y float64) {
	left := float64(width) - p.Size + p.OffsetX
	top := float64(height)/2 - p.Size/2 + p.OffsetY
	return left + p.Size/2, top + p.Size/2
}
