// Package driver runs a vm in an ebiten window: it polls the keyboard into
// the reserved cells, paces the tick procedure and presents the canvas.
package driver

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"go.creack.net/g1/canvas"
	"go.creack.net/g1/op"
	"go.creack.net/g1/vm"
)

var fontFace = text.NewGoXFace(bitmapfont.Face)

// Keys maps the reserved input cells to keyboard keys.
var Keys = [op.InputCount]ebiten.Key{
	ebiten.KeyEnter,
	ebiten.KeyShiftRight,
	ebiten.KeyZ,
	ebiten.KeyX,
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
}

type Options struct {
	Scale   int  // Pixel size.
	ShowFPS bool // Overlay the actual FPS.
}

// Game implements ebiten.Game interface.
type Game struct {
	m      *vm.Machine
	canvas *canvas.Canvas
	img    *ebiten.Image
	opts   Options

	last   time.Time
	frames uint64
}

func NewGame(m *vm.Machine, c *canvas.Canvas, opts Options) *Game {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	b := c.Image().Bounds()
	return &Game{
		m:      m,
		canvas: c,
		img:    ebiten.NewImage(b.Dx(), b.Dy()),
		opts:   opts,
	}
}

func pollInput() vm.Input {
	var in vm.Input
	for i, k := range Keys {
		in[i] = ebiten.IsKeyPressed(k)
	}
	return in
}

// Update runs the tick procedure once.
// Update is called every tick (meta.tickrate per second).
func (g *Game) Update() error {
	now := time.Now()
	var delta int32
	if !g.last.IsZero() {
		delta = int32(now.Sub(g.last).Milliseconds())
	}
	g.last = now

	g.m.UpdateReserved(pollInput(), delta)
	if err := g.m.RunTick(); err != nil {
		return fmt.Errorf("tick %d: %w", g.frames, err)
	}
	g.frames++
	return nil
}

// Draw presents the canvas, scaled.
func (g *Game) Draw(screen *ebiten.Image) {
	g.img.WritePixels(g.canvas.Image().Pix)
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(g.opts.Scale), float64(g.opts.Scale))
	screen.DrawImage(g.img, opts)

	if g.opts.ShowFPS {
		textOp := &text.DrawOptions{}
		textOp.ColorScale.ScaleWithColor(color.RGBA{R: 255, A: 255})
		text.Draw(screen, fmt.Sprintf("%.2f", ebiten.ActualFPS()), fontFace, textOp)
	}
}

// Layout returns the scaled canvas size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	b := g.canvas.Image().Bounds()
	return b.Dx() * g.opts.Scale, b.Dy() * g.opts.Scale
}

// Run executes the start procedure once, then opens the window and runs the
// tick procedure every frame until the window is closed or a runtime error
// occurs. Programs without a tick entry return right after start.
func Run(m *vm.Machine, c *canvas.Canvas, opts Options) error {
	m.UpdateReserved(vm.Input{}, 0)
	if err := m.RunStart(); err != nil {
		return err
	}
	if m.Program.Tick == nil {
		return nil
	}

	g := NewGame(m, c, opts)
	tps := int(m.Program.Meta.Tickrate)
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	ebiten.SetTPS(tps)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("g1")

	return ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{})
}
