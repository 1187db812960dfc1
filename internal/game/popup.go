package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/prize-wheel/internal/config"
)

const (
	popupMargin    = 32
	popupPadding   = 20
	popupLineGap   = 6
	popupButtonH   = 40
	titleScale     = 2
	popupMaxHeight = 320
)

var (
	uiFace    = text.NewGoXFace(basicfont.Face7x13)
	textWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	shade     = color.NRGBA{A: 0x99}
)

// popup is the winner announcement shown when a spin ends.
type popup struct {
	visible bool
	title   string
	body    string
	link    string
	label   string

	background color.NRGBA
	button     color.NRGBA
	hovered    bool
}

func newPopup(cfg config.PopupConfig) *popup {
	p := &popup{}
	p.configure(cfg)
	return p
}

func (p *popup) configure(cfg config.PopupConfig) {
	p.title = cfg.Title
	p.body = cfg.Text
	p.label = cfg.ButtonText
	p.link = cfg.Link
	p.background = config.ColorOr(cfg.Background, color.NRGBA{R: 0xf0, G: 0x4d, B: 0x2e, A: 0xff})
	p.button = config.ColorOr(cfg.ButtonColor, color.NRGBA{R: 0x25, G: 0xd3, B: 0x66, A: 0xff})
}

func (p *popup) show() { p.visible = true }

func (p *popup) hide() {
	p.visible = false
	p.hovered = false
}

// panelRect is the popup card for a screen of the given size.
func panelRect(width, height int) rect {
	w := float64(width) - 2*popupMargin
	h := float64(popupMaxHeight)
	if limit := float64(height) - 2*popupMargin; h > limit {
		h = limit
	}
	return rect{X: popupMargin, Y: (float64(height) - h) / 2, W: w, H: h}
}

// buttonRect is the call-to-action button inside panel.
func (p *popup) buttonRect(panel rect) rect {
	return rect{
		X: panel.X + popupPadding,
		Y: panel.Y + panel.H - popupPadding - popupButtonH,
		W: panel.W - 2*popupPadding,
		H: popupButtonH,
	}
}

// update handles input and reports whether the popup was dismissed.
func (p *popup) update(width, height, mouseX, mouseY int, clicked, confirm bool) bool {
	if !p.visible {
		return false
	}
	btn := p.buttonRect(panelRect(width, height))
	p.hovered = btn.contains(mouseX, mouseY)
	if confirm || (clicked && p.hovered) {
		p.hide()
		return true
	}
	return false
}

func measure(s string) float64 {
	w, _ := text.Measure(s, uiFace, 0)
	return w
}

func (p *popup) draw(screen *ebiten.Image) {
	if !p.visible {
		return
	}
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), shade, false)

	panel := panelRect(b.Dx(), b.Dy())
	vector.DrawFilledRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H), p.background, true)
	vector.StrokeRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H), 2, textWhite, true)

	cx, _ := panel.center()
	y := panel.Y + popupPadding

	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.GeoM.Scale(titleScale, titleScale)
	op.GeoM.Translate(cx, y)
	op.ColorScale.ScaleWithColor(textWhite)
	text.Draw(screen, p.title, uiFace, op)
	y += uiFace.Metrics().HAscent*titleScale + uiFace.Metrics().HDescent*titleScale + 2*popupLineGap

	lineH := uiFace.Metrics().HAscent + uiFace.Metrics().HDescent + popupLineGap
	lines := wrapText(p.body, panel.W-2*popupPadding, measure)
	if p.link != "" {
		lines = append(lines, "", p.link)
	}
	for _, line := range lines {
		drawCentered(screen, line, cx, y, textWhite)
		y += lineH
	}

	btn := p.buttonRect(panel)
	fill := p.button
	if p.hovered {
		fill = scaleColor(fill, 0.85)
	}
	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), fill, true)
	bx, by := btn.center()
	drawCentered(screen, p.label, bx, by-uiFace.Metrics().HAscent/2, textWhite)
}

func drawCentered(dst *ebiten.Image, s string, cx, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.GeoM.Translate(cx, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, uiFace, op)
}
