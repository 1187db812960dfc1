package game

import (
	"testing"

	"github.com/iburimskiy/prize-wheel/internal/config"
)

func TestPanelRect(t *testing.T) {
	r := panelRect(480, 640)
	if r.X != popupMargin || r.W != 480-2*popupMargin {
		t.Errorf("panel x/w = %v/%v", r.X, r.W)
	}
	if r.H != popupMaxHeight || r.Y != (640-popupMaxHeight)/2 {
		t.Errorf("panel y/h = %v/%v", r.Y, r.H)
	}

	small := panelRect(300, 200)
	if small.H != 200-2*popupMargin || small.Y != popupMargin {
		t.Errorf("small panel = %+v", small)
	}
}

func TestPopupDismiss(t *testing.T) {
	p := newPopup(config.Default().Popup)
	if p.update(480, 640, 0, 0, true, true) {
		t.Fatal("hidden popup reported a dismissal")
	}

	p.show()
	btn := p.buttonRect(panelRect(480, 640))
	bx, by := btn.center()

	if p.update(480, 640, 0, 0, true, false) {
		t.Error("click outside the button dismissed the popup")
	}
	if p.update(480, 640, int(bx), int(by), false, false) || !p.hovered {
		t.Error("hover alone should only highlight the button")
	}
	if !p.update(480, 640, int(bx), int(by), true, false) || p.visible {
		t.Error("button click did not dismiss the popup")
	}

	p.show()
	if !p.update(480, 640, 0, 0, false, true) || p.visible {
		t.Error("Enter did not dismiss the popup")
	}
}

func TestPopupConfigure(t *testing.T) {
	cfg := config.Default().Popup
	cfg.Title = "Winner"
	cfg.ButtonColor = "not a color"
	p := newPopup(cfg)
	if p.title != "Winner" || p.label != cfg.ButtonText {
		t.Errorf("texts not applied: %q %q", p.title, p.label)
	}
	if p.button.A != 0xff {
		t.Errorf("invalid button color should fall back, got %v", p.button)
	}
}
