package game

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// pixelsPerMeter is the viewer's world scale.
const pixelsPerMeter = 20

// statusTicks is how long a HUD status message stays up.
const statusTicks = 120

// Game is the ebiten viewer. It owns a Sim, feeds it keyboard input and
// draws a top-down debug view with the thought log on the right.
type Game struct {
	width      int
	height     int
	gameWidth  int // arena width in pixels
	gameHeight int // arena height in pixels
	offX       int
	offY       int

	opts       []SimOption
	sim        *Sim
	thoughtLog *ThoughtLog
	prevKeys   map[ebiten.Key]bool

	reloads     <-chan Tuning
	onRoundOver func(survived time.Duration, report string)
	reported    bool

	status      string
	statusUntil int
	frame       int

	// Offscreen buffer for vision cones, tinted on composite.
	visionBuf *ebiten.Image
}

// New builds a viewer around a sim made from opts. With no options it
// loads DefaultScene.
func New(opts ...SimOption) *Game {
	if len(opts) == 0 {
		opts = DefaultScene()
	}
	g := &Game{
		opts:       opts,
		thoughtLog: NewThoughtLog(),
		prevKeys:   make(map[ebiten.Key]bool),
	}
	g.rebuild(nil)
	return g
}

// rebuild replaces the sim. A non-nil tuning overrides whatever opts set.
func (g *Game) rebuild(t *Tuning) {
	opts := append([]SimOption{}, g.opts...)
	if t != nil {
		opts = append(opts, WithTuning(*t))
	}
	opts = append(opts, WithDiagnostics(g.thoughtLog))
	g.thoughtLog.Clear()
	g.sim = NewSim(opts...)
	g.reported = false

	w, d := g.sim.World.Size()
	g.gameWidth = int(w * pixelsPerMeter)
	g.gameHeight = int(d * pixelsPerMeter)
	g.offX = borderWidth
	g.offY = borderWidth
	g.width = borderWidth + g.gameWidth + borderWidth + logPanelWidth
	g.height = borderWidth + g.gameHeight + borderWidth
	g.visionBuf = nil
}

// Sim returns the running simulation.
func (g *Game) Sim() *Sim { return g.sim }

// WatchTuning makes the viewer rebuild its sim whenever a new tuning arrives.
func (g *Game) WatchTuning(ch <-chan Tuning) { g.reloads = ch }

// OnRoundOver registers a callback fired once per round when the catch
// happens.
func (g *Game) OnRoundOver(fn func(survived time.Duration, report string)) {
	g.onRoundOver = fn
}

// WindowSize returns the window size the viewer wants.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = g.frame + statusTicks
}

func (g *Game) Update() error {
	g.frame++
	select {
	case t, ok := <-g.reloads:
		if !ok {
			g.reloads = nil
			break
		}
		g.rebuild(&t)
		g.setStatus("tuning reloaded")
	default:
	}

	g.handleInput()
	g.sim.Step(g.moveInput())

	if g.sim.Round.Phase() == PhaseOver && !g.reported {
		g.reported = true
		if g.onRoundOver != nil {
			g.onRoundOver(g.sim.Round.Elapsed(), g.sim.Report())
		}
	}
	return nil
}

// moveInput reads WASD/arrows into a screen-space input vector.
func (g *Game) moveInput() Vec3 {
	var in Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in[2]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in[2]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in[0]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in[0]++
	}
	if l := in.Len(); l > 1 {
		in = in.Mul(1 / l)
	}
	return in
}

// handleInput processes edge-triggered keys: R restart, P pause, C copy
// report.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	if pressed(ebiten.KeyR) {
		g.sim.Restart()
		g.reported = false
		g.setStatus("restarted")
	}
	pause := pressed(ebiten.KeyP)
	escape := pressed(ebiten.KeyEscape)
	if pause || escape {
		if g.sim.TogglePause() {
			g.setStatus("paused")
		} else {
			g.setStatus("resumed")
		}
	}
	if pressed(ebiten.KeyC) {
		report := g.sim.Report() + "\n" + g.sim.SimLog.Format()
		if err := clipboard.WriteAll(report); err != nil {
			g.setStatus(fmt.Sprintf("clipboard: %v", err))
		} else {
			g.setStatus(fmt.Sprintf("copied %d log lines", len(g.sim.SimLog.Entries())))
		}
	}

	g.prevKeys = currentKeys
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
