// Package raster is a software wheel.Surface backed by an *image.RGBA, for
// headless rendering and pixel tests.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/prize-wheel/internal/wheel"
)

// arcStep is the largest angle covered by one polygon edge of an arc.
const arcStep = math.Pi / 90

// gradientSteps is the number of bands a gradient ring is split into.
const gradientSteps = 16

// ImageLookup resolves image references to decoded images.
type ImageLookup interface {
	Image(ref string) (image.Image, error)
}

// Surface paints into an RGBA image.
type Surface struct {
	dst        *image.RGBA
	images     ImageLookup
	background color.Color
}

var _ wheel.Surface = (*Surface)(nil)

// New returns a w×h surface cleared to transparent.
func New(w, h int, images ImageLookup) *Surface {
	return &Surface{
		dst:        image.NewRGBA(image.Rect(0, 0, w, h)),
		images:     images,
		background: color.Transparent,
	}
}

// SetBackground sets the color Clear fills with.
func (s *Surface) SetBackground(c color.Color) { s.background = c }

// Image is the backing image. It is reused across frames.
func (s *Surface) Image() *image.RGBA { return s.dst }

func (s *Surface) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear() {
	draw.Draw(s.dst, s.dst.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
}

func (s *Surface) rasterizer() *vector.Rasterizer {
	w, h := s.Size()
	return vector.NewRasterizer(w, h)
}

func (s *Surface) fill(z *vector.Rasterizer, clr color.Color) {
	z.Draw(s.dst, s.dst.Bounds(), image.NewUniform(clr), image.Point{})
}

// arc appends points along a circle from start to end, clockwise in screen
// space when end > start.
func arc(z *vector.Rasterizer, cx, cy, r, start, end float64, moveFirst bool) {
	n := int(math.Ceil(math.Abs(end-start) / arcStep))
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		x, y := float32(cx+math.Cos(a)*r), float32(cy+math.Sin(a)*r)
		if i == 0 && moveFirst {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
}

func (s *Surface) FillSector(cx, cy, radius, start, end float64, clr color.NRGBA) {
	z := s.rasterizer()
	z.MoveTo(float32(cx), float32(cy))
	arc(z, cx, cy, radius, start, end, false)
	z.ClosePath()
	s.fill(z, clr)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2

	z := s.rasterizer()
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
	s.fill(z, clr)
}

// annulus fills the ring between r0 and r1.
func (s *Surface) annulus(cx, cy, r0, r1 float64, clr color.Color) {
	z := s.rasterizer()
	arc(z, cx, cy, r1, 0, 2*math.Pi, true)
	z.ClosePath()
	arc(z, cx, cy, r0, 2*math.Pi, 0, true)
	z.ClosePath()
	s.fill(z, clr)
}

func (s *Surface) StrokeRing(cx, cy, radius, width float64, inner, outer color.NRGBA) {
	if width <= 0 {
		return
	}
	r0 := math.Max(0, radius-width/2)
	band := width / gradientSteps
	for i := 0; i < gradientSteps; i++ {
		t := (float64(i) + 0.5) / gradientSteps
		s.annulus(cx, cy, r0+band*float64(i), r0+band*float64(i+1), wheel.LerpColor(inner, outer, t))
	}
}

func (s *Surface) FillCircle(cx, cy, radius float64, clr color.NRGBA) {
	z := s.rasterizer()
	arc(z, cx, cy, radius, 0, 2*math.Pi, true)
	z.ClosePath()
	s.fill(z, clr)
}

// FillRect fills a w×h rectangle centered on (cx, cy) and turned by
// rotation around its center.
func (s *Surface) FillRect(cx, cy, w, h, rotation float64, clr color.NRGBA) {
	if w <= 0 || h <= 0 || clr.A == 0 {
		return
	}
	sin, cos := math.Sincos(rotation)
	corner := func(dx, dy float64) (float32, float32) {
		return float32(cx + dx*cos - dy*sin), float32(cy + dx*sin + dy*cos)
	}
	z := s.rasterizer()
	z.MoveTo(corner(-w/2, -h/2))
	z.LineTo(corner(w/2, -h/2))
	z.LineTo(corner(w/2, h/2))
	z.LineTo(corner(-w/2, h/2))
	z.ClosePath()
	s.fill(z, clr)
}

func (s *Surface) lookup(ref string) image.Image {
	if s.images == nil {
		return nil
	}
	img, err := s.images.Image(ref)
	if err != nil {
		return nil
	}
	return img
}

// transform maps src onto a size×size square centered on (cx, cy), rotated
// by rotation.
func transform(src image.Rectangle, cx, cy, size, rotation float64) f64.Aff3 {
	w, h := float64(src.Dx()), float64(src.Dy())
	sx, sy := size/w, size/h
	sin, cos := math.Sincos(rotation)
	a, b := cos*sx, -sin*sy
	d, e := sin*sx, cos*sy
	ox := float64(src.Min.X) + w/2
	oy := float64(src.Min.Y) + h/2
	return f64.Aff3{
		a, b, cx - (a*ox + b*oy),
		d, e, cy - (d*ox + e*oy),
	}
}

func (s *Surface) DrawImage(ref string, cx, cy, size, rotation float64) {
	img := s.lookup(ref)
	if img == nil || img.Bounds().Empty() {
		return
	}
	draw.BiLinear.Transform(s.dst, transform(img.Bounds(), cx, cy, size, rotation), img, img.Bounds(), draw.Over, nil)
}

func (s *Surface) DrawImageCircle(ref string, cx, cy, diameter float64) {
	img := s.lookup(ref)
	if img == nil || img.Bounds().Empty() {
		return
	}
	w, h := s.Size()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z := vector.NewRasterizer(w, h)
	arc(z, cx, cy, diameter/2, 0, 2*math.Pi, true)
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.BiLinear.Transform(s.dst, transform(img.Bounds(), cx, cy, diameter, 0), img, img.Bounds(), draw.Over,
		&draw.Options{DstMask: mask})
}
