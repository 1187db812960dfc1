// Package game hosts the prize wheel in an ebiten window: it drives the spin
// controller and confetti from the frame clock, draws the HUD and popup and
// applies config changes between spins.
package game

import (
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/assets"
	"github.com/iburimskiy/prize-wheel/internal/config"
	"github.com/iburimskiy/prize-wheel/internal/logger"
	"github.com/iburimskiy/prize-wheel/internal/particles"
	"github.com/iburimskiy/prize-wheel/internal/sound"
	"github.com/iburimskiy/prize-wheel/internal/wheel"
)

const (
	wheelTop     = 40
	buttonWidth  = 260
	buttonHeight = 48
	buttonGap    = 36
	haloPad      = 14
	eventBuffer  = 8
)

var (
	haloBase   = color.NRGBA{R: 0xff, G: 0xe0, B: 0x82, A: 0xff}
	disabledBG = color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
)

// Game implements ebiten.Game for one wheel.
type Game struct {
	cfg     *config.Config
	cfgPath string
	now     func() time.Time

	// wheel
	store    *assets.Store
	textures *textureCache
	model    *wheel.Model
	renderer *wheel.Renderer
	ctrl     *wheel.Controller
	surface  *ebitenSurface
	done     <-chan error

	// effects
	confetti *particles.Effect
	palette  []color.Color
	player   *sound.Player
	popup    *popup
	spinAt   time.Time

	// pending config waits for the current spin to end
	pending *config.Config
	events  chan configEvent

	// input
	buttonHovered bool
	buttonPressed bool
	dialogOpen    atomic.Bool

	background color.NRGBA
	button     color.NRGBA
	lastErr    error
	notice     string
}

// New builds a Game from a validated config. cfgPath is where imports and
// restores are written and may not exist yet.
func New(cfg *config.Config, cfgPath string, player *sound.Player) (*Game, error) {
	g := &Game{
		cfgPath: cfgPath,
		now:     time.Now,
		player:  player,
		popup:   newPopup(cfg.Popup),
		events:  make(chan configEvent, eventBuffer),
	}
	if err := g.apply(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// Reload queues cfg for the frame loop. It is safe to call from any
// goroutine.
func (g *Game) Reload(cfg *config.Config) {
	g.submit(configEvent{source: "reload", cfg: cfg})
}

func (g *Game) submit(ev configEvent) {
	select {
	case g.events <- ev:
	default:
		logger.Warn("config event dropped, queue full", zap.String("source", ev.source))
	}
}

// apply swaps in cfg. While a spin is in flight the swap is deferred to
// the end of the spin so the controller never sees a new slice count.
func (g *Game) apply(cfg *config.Config) error {
	if g.ctrl != nil && g.ctrl.Active() {
		g.pending = cfg
		logger.Info("config change deferred until the spin ends")
		return nil
	}

	spec, err := cfg.ModelSpec()
	if err != nil {
		return err
	}
	model, err := wheel.NewModel(spec)
	if err != nil {
		return err
	}
	palette, err := cfg.ConfettiPalette()
	if err != nil {
		return err
	}

	opts := cfg.SpinOptions()
	if g.ctrl == nil {
		if g.ctrl, err = wheel.NewController(model.SliceCount(), opts); err != nil {
			return err
		}
	} else {
		if err := g.ctrl.SetSliceCount(model.SliceCount()); err != nil {
			return err
		}
		if err := g.ctrl.SetOptions(opts); err != nil {
			return err
		}
	}

	if g.textures != nil {
		g.textures.release()
	}
	g.store = assets.NewStore(cfg.AssetRoot())
	g.store.Load(model.ImageRefs()...)
	g.textures = newTextureCache(g.store)
	g.renderer = wheel.NewRenderer(g.textures)

	size := cfg.Window.WheelSize
	if g.surface == nil || g.surface.img.Bounds().Dx() != size {
		if g.surface != nil {
			g.surface.img.Deallocate()
		}
		g.surface = newEbitenSurface(size, g.textures)
	}
	g.surface.textures = g.textures

	if g.confetti == nil || g.cfg == nil || g.cfg.Window != cfg.Window || g.cfg.Confetti.RemoveAfter != cfg.Confetti.RemoveAfter {
		g.confetti = particles.New(cfg.ParticleConfig(float64(cfg.Window.Width), float64(cfg.Window.Height)), nil, g.now)
	}
	if g.cfg != nil && (g.cfg.Window.Width != cfg.Window.Width || g.cfg.Window.Height != cfg.Window.Height) {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	}
	if g.player != nil {
		g.player.SetOptions(soundOptions(cfg.Audio))
	}

	g.model = model
	g.palette = palette
	g.popup.configure(cfg.Popup)
	g.background = config.ColorOr(cfg.Window.Background, color.NRGBA{A: 0xff})
	g.button = config.ColorOr(cfg.Spin.ButtonColor, color.NRGBA{R: 0xff, G: 0x6b, B: 0x47, A: 0xff})
	g.cfg = cfg

	logger.Info("wheel configured",
		zap.Int("slices", model.SliceCount()),
		zap.Int("winning_index", cfg.Spin.WinningIndex),
		zap.String("assets", cfg.AssetRoot()))
	return nil
}

func soundOptions(a config.AudioConfig) sound.Options {
	return sound.Options{Muted: a.Muted, Volume: a.Volume, ChimeFile: a.ChimeFile}
}

// Spin starts a spin onto the configured winning slice. A spin already in
// flight is left alone.
func (g *Game) Spin() {
	if g.ctrl.Active() {
		return
	}
	done, err := g.ctrl.Spin(g.cfg.Spin.WinningIndex)
	if err != nil {
		g.lastErr = err
		logger.Error("spin rejected", zap.Error(err))
		return
	}
	g.done = done
	g.spinAt = g.now()
	g.popup.hide()
	g.lastErr = nil
	g.notice = ""
}

// wheelRect is where the wheel surface lands in the window.
func (g *Game) wheelRect() rect {
	size := float64(g.cfg.Window.WheelSize)
	return rect{X: (float64(g.cfg.Window.Width) - size) / 2, Y: wheelTop, W: size, H: size}
}

func (g *Game) buttonRect() rect {
	wr := g.wheelRect()
	return rect{
		X: (float64(g.cfg.Window.Width) - buttonWidth) / 2,
		Y: wr.Y + wr.H + buttonGap,
		W: buttonWidth,
		H: buttonHeight,
	}
}

func (g *Game) Update() error {
	now := g.now()

	g.drainEvents()

	mouseX, mouseY := ebiten.CursorPosition()
	clicked := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	confirm := inpututil.IsKeyJustPressed(ebiten.KeyEnter)

	if g.popup.visible {
		g.popup.update(g.cfg.Window.Width, g.cfg.Window.Height, mouseX, mouseY, clicked, confirm)
	} else {
		btn := g.buttonRect()
		g.buttonHovered = btn.contains(mouseX, mouseY) && !g.ctrl.Active()
		if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.buttonPressed = true
		}
		if clicked {
			if g.buttonPressed && g.buttonHovered {
				g.Spin()
			}
			g.buttonPressed = false
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.Spin()
		}
	}

	if !g.ctrl.Active() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyI):
			g.importConfig()
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			g.exportConfig()
		case inpututil.IsKeyJustPressed(ebiten.KeyD):
			g.restoreDefaults()
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			g.restoreBackup()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.toggleMute()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.ctrl.Advance(now)
	g.collectSpin()
	g.confetti.Update(now)
	return nil
}

// collectSpin picks up a finished spin and fires the win effects.
func (g *Game) collectSpin() {
	if g.done == nil {
		return
	}
	var err error
	select {
	case err = <-g.done:
	default:
		return
	}
	g.done = nil

	if err != nil {
		g.lastErr = err
	} else {
		g.confetti.Burst(g.palette, g.cfg.Confetti.Count)
		if g.player != nil {
			if err := g.player.PlayChime(); err != nil {
				logger.Warn("chime failed", zap.Error(err))
			}
		}
		g.popup.show()
	}

	if g.pending != nil {
		cfg := g.pending
		g.pending = nil
		g.applyLogged("deferred", cfg)
	}
}

func (g *Game) drainEvents() {
	for {
		select {
		case ev := <-g.events:
			g.handle(ev)
		default:
			return
		}
	}
}

func (g *Game) handle(ev configEvent) {
	switch {
	case ev.err != nil:
		g.lastErr = fmt.Errorf("%s: %w", ev.source, ev.err)
	case ev.cfg != nil:
		g.applyLogged(ev.source, ev.cfg)
	default:
		g.notice = ev.source + " done"
	}
}

func (g *Game) applyLogged(source string, cfg *config.Config) {
	if err := g.apply(cfg); err != nil {
		g.lastErr = fmt.Errorf("%s: %w", source, err)
		logger.Error("config not applied", zap.String("source", source), zap.Error(err))
		return
	}
	g.lastErr = nil
	if source != "reload" {
		g.notice = source + " applied"
	}
}

func (g *Game) toggleMute() {
	if g.player == nil {
		return
	}
	a := g.cfg.Audio
	a.Muted = !g.player.Muted()
	g.player.SetOptions(soundOptions(a))
	if a.Muted {
		g.notice = "sound off"
	} else {
		g.notice = "sound on"
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	g.renderer.Render(g.surface, g.model, g.ctrl.Angle())
	wr := g.wheelRect()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(wr.X, wr.Y)
	screen.DrawImage(g.surface.img, op)

	g.drawHalo(screen, wr)
	g.drawButton(screen)
	g.drawConfetti(screen)
	g.drawStatus(screen)
	g.popup.draw(screen)
}

// drawHalo pulses a ring around the pointer while the chime plays.
func (g *Game) drawHalo(screen *ebiten.Image, wr rect) {
	if g.player == nil {
		return
	}
	level := g.player.Level()
	p := g.model.Pointer()
	if level <= 0 || p.Size <= 0 {
		return
	}
	px, py := wheel.PointerCenter(int(wr.W), int(wr.H), p)
	r := p.Size/2 + haloPad*clamp01(level*4)
	vector.StrokeCircle(screen, float32(wr.X+px), float32(wr.Y+py), float32(r), 4, haloColor(haloBase, level), true)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	btn := g.buttonRect()
	fill := g.button
	switch {
	case g.ctrl.Active():
		fill = disabledBG
	case g.buttonPressed:
		fill = scaleColor(fill, 0.75)
	case g.buttonHovered:
		fill = scaleColor(fill, 0.9)
	}
	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), fill, true)
	vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 2, textWhite, true)

	cx, cy := btn.center()
	drawCentered(screen, g.cfg.Spin.ButtonText, cx, cy-uiFace.Metrics().HAscent/2, textWhite)
}

func (g *Game) drawConfetti(screen *ebiten.Image) {
	dot := whitePixel()
	g.confetti.Each(g.now(), func(v particles.Visual) {
		if v.Color.A == 0 {
			return
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-0.5, -0.5)
		op.GeoM.Scale(v.Size, v.Size*0.6)
		op.GeoM.Rotate(v.Rotation)
		op.GeoM.Translate(v.X, v.Y)
		op.ColorScale.ScaleWithColor(v.Color)
		screen.DrawImage(dot, op)
	})
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	h := g.cfg.Window.Height
	var status string
	switch {
	case g.ctrl.Active():
		status = "Spinning " + formatDuration(g.now().Sub(g.spinAt))
	case g.lastErr != nil:
		status = "Error: " + g.lastErr.Error()
	case g.notice != "":
		status = g.notice
	default:
		status = "Space: spin   M: mute   Esc/Q: quit"
	}
	ebitenutil.DebugPrintAt(screen, status, 8, h-36)
	ebitenutil.DebugPrintAt(screen, "I: import  E: export  R: backup  D: defaults", 8, h-20)

	if g.pending != nil {
		ebitenutil.DebugPrintAt(screen, "config changed, applying after this spin", 8, 8)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Close releases audio and GPU resources.
func (g *Game) Close() {
	if g.player != nil {
		g.player.Close()
	}
	if g.textures != nil {
		g.textures.release()
	}
}
