package ui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gbcore/dmgcore/internal/gb"
	"github.com/gbcore/dmgcore/internal/joypad"
)

// App is the ebiten-driven host for a Machine: one StepFrame per Update,
// one framebuffer blit per Draw.
type App struct {
	cfg Config
	m   *gb.Machine
	tex *ebiten.Image
}

// NewApp wires an ebiten window to an already-loaded Machine.
func NewApp(cfg Config, m *gb.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	return &App{cfg: cfg, m: m}
}

// Run blocks until the window closes.
func (a *App) Run() error { return ebiten.RunGame(a) }

type keyBinding struct {
	key ebiten.Key
	btn joypad.Button
}

var keyBindings = []keyBinding{
	{ebiten.KeyArrowRight, joypad.Right},
	{ebiten.KeyArrowLeft, joypad.Left},
	{ebiten.KeyArrowUp, joypad.Up},
	{ebiten.KeyArrowDown, joypad.Down},
	{ebiten.KeyZ, joypad.A},
	{ebiten.KeyX, joypad.B},
	{ebiten.KeyEnter, joypad.Start},
	{ebiten.KeyShiftRight, joypad.Select},
}

func (a *App) Update() error {
	for _, kb := range keyBindings {
		if ebiten.IsKeyPressed(kb.key) {
			a.m.Press(kb.btn)
		} else {
			a.m.Release(kb.btn)
		}
	}
	a.m.StepFrame()
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.FramebufferRGBA())
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }
