// Package wheel holds the prize wheel geometry, its renderer and the spin
// controller that animates the wheel onto a chosen slice.
package wheel

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// PointerAngle is the screen direction of the pointer in radians.
// Angles grow clockwise in y-down screen space, so 0 is 3 o'clock.
const PointerAngle = 0.0

const fullCircle = 2 * math.Pi

var (
	// ErrInvalidSliceCount is returned when a wheel is built with no slices.
	ErrInvalidSliceCount = errors.New("wheel: slice count must be positive")
	// ErrInvalidWinningIndex is returned for a winning index outside [0, N-1].
	ErrInvalidWinningIndex = errors.New("wheel: winning index out of range")
)

// Slice is one equal angular sector of the wheel.
type Slice struct {
	Index     int
	Color     color.NRGBA
	ImageRef  string
	ImageSize float64
}

// PointerGeometry places the pointer image relative to the right edge of the
// surface, vertically centered on the wheel.
type PointerGeometry struct {
	OffsetX float64
	OffsetY float64
	Size    float64
}

// ModelSpec is the configuration snapshot a Model is built from.
type ModelSpec struct {
	Slices          []Slice
	BorderColor     color.NRGBA
	BorderThickness float64
	DividerColor    color.NRGBA
	DividerWidth    float64
	CenterImageRef  string
	CenterImageSize float64
	PointerImageRef string
	Pointer         PointerGeometry
	ImageGap        float64
}

// Model is the immutable wheel geometry. Replace it on config change,
// never mutate it.
type Model struct {
	slices          []Slice
	borderColor     color.NRGBA
	borderThickness float64
	dividerColor    color.NRGBA
	dividerWidth    float64
	centerImageRef  string
	centerImageSize float64
	pointerImageRef string
	pointer         PointerGeometry
	imageGap        float64
}

// NewModel validates spec and builds a Model. Slice indexes are reassigned
// from their position so the order is always index-addressable.
func NewModel(spec ModelSpec) (*Model, error) {
	if len(spec.Slices) == 0 {
		return nil, ErrInvalidSliceCount
	}

	slices := make([]Slice, len(spec.Slices))
	for i, s := range spec.Slices {
		if s.ImageSize < 0 {
			return nil, fmt.Errorf("wheel: slice %d has negative image size %v", i, s.ImageSize)
		}
		s.Index = i
		slices[i] = s
	}

	return &Model{
		slices:          slices,
		borderColor:     spec.BorderColor,
		borderThickness: spec.BorderThickness,
		dividerColor:    spec.DividerColor,
		dividerWidth:    spec.DividerWidth,
		centerImageRef:  spec.CenterImageRef,
		centerImageSize: spec.CenterImageSize,
		pointerImageRef: spec.PointerImageRef,
		pointer:         spec.Pointer,
		imageGap:        spec.ImageGap,
	}, nil
}

func (m *Model) SliceCount() int { return len(m.slices) }

// Slice returns slice i. It panics when i is out of range, like an index
// expression would.
func (m *Model) Slice(i int) Slice { return m.slices[i] }

// Slices returns a copy of the slice list.
func (m *Model) Slices() []Slice {
	out := make([]Slice, len(m.slices))
	copy(out, m.slices)
	return out
}

// SliceSpan is the angular width of every slice.
func (m *Model) SliceSpan() float64 { return sliceSpan(len(m.slices)) }

// SliceRange returns the [start, end) angles slice i occupies at rotation angle.
func (m *Model) SliceRange(i int, angle float64) (start, end float64) {
	span := m.SliceSpan()
	start = angle + float64(i)*span
	return start, start + span
}

// Bisector returns the angle centered within slice i at rotation angle.
func (m *Model) Bisector(i int, angle float64) float64 {
	start, _ := m.SliceRange(i, angle)
	return start + m.SliceSpan()/2
}

// SliceAt returns the index of the slice lying under the pointer when the
// wheel is rotated by angle.
func (m *Model) SliceAt(angle float64) int {
	rel := normalizeAngle(PointerAngle - angle)
	i := int(rel / m.SliceSpan())
	if i >= len(m.slices) {
		i = len(m.slices) - 1
	}
	return i
}

func (m *Model) BorderColor() color.NRGBA { return m.borderColor }
func (m *Model) BorderThickness() float64 { return m.borderThickness }
func (m *Model) DividerColor() color.NRGBA { return m.dividerColor }
func (m *Model) DividerWidth() float64 { return m.dividerWidth }
func (m *Model) CenterImageRef() string { return m.centerImageRef }
func (m *Model) CenterImageSize() float64 { return m.centerImageSize }
func (m *Model) PointerImageRef() string { return m.pointerImageRef }
func (m *Model) Pointer() PointerGeometry { return m.pointer }
func (m *Model) ImageGap() float64 { return m.imageGap }

// ImageRefs lists every non-empty image reference the model draws.
func (m *Model) ImageRefs() []string {
	var refs []string
	for _, s := range m.slices {
		if s.ImageRef != "" {
			refs = append(refs, s.ImageRef)
		}
	}
	if m.centerImageRef != "" {
		refs = append(refs, m.centerImageRef)
	}
	if m.pointerImageRef != "" {
		refs = append(refs, m.pointerImageRef)
	}
	return refs
}

func sliceSpan(n int) float64 {
	return fullCircle / float64(n)
}

// normalizeAngle maps a into [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, fullCircle)
	if a < 0 {
		a += fullCircle
	}
	if a >= fullCircle {
		a = 0
	}
	return a
}
