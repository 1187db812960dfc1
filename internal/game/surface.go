package game

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/assets"
	"github.com/iburimskiy/prize-wheel/internal/logger"
	"github.com/iburimskiy/prize-wheel/internal/wheel"
)

const ringBands = 16

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// whitePixel is the source texture for solid-color triangles.
func whitePixel() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

type clipKey struct {
	ref      string
	diameter int
}

// textureCache uploads decoded images to the GPU once per reference.
type textureCache struct {
	store   *assets.Store
	images  map[string]*ebiten.Image
	clipped map[clipKey]*ebiten.Image
}

func newTextureCache(store *assets.Store) *textureCache {
	return &textureCache{
		store:   store,
		images:  map[string]*ebiten.Image{},
		clipped: map[clipKey]*ebiten.Image{},
	}
}

func (c *textureCache) IsReady(ref string) bool { return c.store.IsReady(ref) }

func (c *textureCache) texture(ref string) *ebiten.Image {
	if img, ok := c.images[ref]; ok {
		return img
	}
	src, err := c.store.Image(ref)
	if err != nil {
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	c.images[ref] = img
	return img
}

// circle returns ref scaled to diameter and masked to a disc.
func (c *textureCache) circle(ref string, diameter int) *ebiten.Image {
	key := clipKey{ref, diameter}
	if img, ok := c.clipped[key]; ok {
		return img
	}
	src := c.texture(ref)
	if src == nil || diameter <= 0 {
		return nil
	}

	out := ebiten.NewImage(diameter, diameter)
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	b := src.Bounds()
	op.GeoM.Scale(float64(diameter)/float64(b.Dx()), float64(diameter)/float64(b.Dy()))
	out.DrawImage(src, op)

	mask := ebiten.NewImage(diameter, diameter)
	r := float32(diameter) / 2
	vector.DrawFilledCircle(mask, r, r, r, color.White, true)
	out.DrawImage(mask, &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn})
	mask.Deallocate()

	c.clipped[key] = out
	return out
}

// release frees every GPU image the cache holds.
func (c *textureCache) release() {
	for _, img := range c.images {
		img.Deallocate()
	}
	for _, img := range c.clipped {
		img.Deallocate()
	}
	clear(c.images)
	clear(c.clipped)
}

// ebitenSurface is the on-screen wheel.Surface: an offscreen image the host
// composites into the window every frame.
type ebitenSurface struct {
	img      *ebiten.Image
	textures *textureCache
}

var _ wheel.Surface = (*ebitenSurface)(nil)

func newEbitenSurface(size int, textures *textureCache) *ebitenSurface {
	return &ebitenSurface{img: ebiten.NewImage(size, size), textures: textures}
}

func (s *ebitenSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ebitenSurface) Clear() { s.img.Clear() }

func (s *ebitenSurface) FillSector(cx, cy, radius, start, end float64, clr color.NRGBA) {
	var path vector.Path
	path.MoveTo(float32(cx), float32(cy))
	path.Arc(float32(cx), float32(cy), float32(radius), float32(start), float32(end), vector.Clockwise)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, a
	}
	s.img.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (s *ebitenSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

func (s *ebitenSurface) StrokeRing(cx, cy, radius, width float64, inner, outer color.NRGBA) {
	band := width / ringBands
	r0 := radius - width/2
	for i := 0; i < ringBands; i++ {
		t := (float64(i) + 0.5) / ringBands
		r := r0 + band*(float64(i)+0.5)
		// Bands overlap by half a pixel so no seams show between them.
		vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(band+0.5),
			wheel.LerpColor(inner, outer, t), true)
	}
}

func (s *ebitenSurface) FillCircle(cx, cy, radius float64, clr color.NRGBA) {
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(radius), clr, true)
}

func (s *ebitenSurface) DrawImage(ref string, cx, cy, size, rotation float64) {
	tex := s.textures.texture(ref)
	if tex == nil {
		logger.Debug("image not uploaded, skipping", zap.String("ref", ref))
		return
	}
	b := tex.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(size/float64(b.Dx()), size/float64(b.Dy()))
	op.GeoM.Rotate(rotation)
	op.GeoM.Translate(cx, cy)
	s.img.DrawImage(tex, op)
}

func (s *ebitenSurface) DrawImageCircle(ref string, cx, cy, diameter float64) {
	d := int(math.Round(diameter))
	tex := s.textures.circle(ref, d)
	if tex == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(cx-float64(d)/2, cy-float64(d)/2)
	s.img.DrawImage(tex, op)
}
