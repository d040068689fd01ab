package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// coneSegments is how many edges approximate the vision cone arc.
const coneSegments = 16

var (
	colBackground = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	colGround     = color.RGBA{R: 38, G: 52, B: 38, A: 255}
	colGrid       = color.RGBA{R: 50, G: 66, B: 50, A: 255}
	colBlocked    = color.RGBA{R: 60, G: 40, B: 40, A: 90}
	colCone       = color.RGBA{R: 255, G: 215, B: 0, A: 60}
)

// toScreen maps a ground point to window pixels. World +Z is screen up.
func (g *Game) toScreen(p Vec3) (float32, float32) {
	_, d := g.sim.World.Size()
	return float32(float64(g.offX) + p.X()*pixelsPerMeter),
		float32(float64(g.offY) + (d-p.Z())*pixelsPerMeter)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	vector.FillRect(screen, float32(g.offX), float32(g.offY), float32(g.gameWidth), float32(g.gameHeight), colGround, false)
	drawGridOffset(screen, g.offX, g.offY, g.gameWidth, g.gameHeight, pixelsPerMeter*2, colGrid)

	g.drawBlockedCells(screen)
	g.drawObstacles(screen)
	g.drawVisionCones(screen)
	for _, h := range g.sim.Hiders {
		g.drawHider(screen, h)
	}
	if s := g.sim.Seeker; s != nil {
		x, y := g.toScreen(s.Agent.Position())
		r := float32(s.cfg.Radius * pixelsPerMeter)
		vector.FillCircle(screen, x, y, r, colornames.Crimson, true)
		g.drawHeading(screen, s.Agent, colornames.White)
	}

	g.drawHUD(screen)
	g.thoughtLog.Draw(screen, g.width-logPanelWidth, g.height)
}

// drawBlockedCells tints nav grid cells agents cannot enter.
func (g *Game) drawBlockedCells(screen *ebiten.Image) {
	nav := g.sim.World.NavGrid()
	if nav == nil {
		return
	}
	cols, rows := nav.Size()
	cs := float32(nav.CellSize() * pixelsPerMeter)
	for cz := 0; cz < rows; cz++ {
		for cx := 0; cx < cols; cx++ {
			if !nav.IsBlocked(cx, cz) {
				continue
			}
			c := nav.CellToWorld(cx, cz)
			x, y := g.toScreen(c)
			vector.FillRect(screen, x-cs/2, y-cs/2, cs, cs, colBlocked, false)
		}
	}
}

func (g *Game) drawObstacles(screen *ebiten.Image) {
	for _, o := range g.sim.World.Obstacles() {
		// Top-left on screen is min X, max Z.
		x, y := g.toScreen(V3(o.Center.X()-o.Width/2, o.Center.Z()+o.Depth/2))
		w := float32(o.Width * pixelsPerMeter)
		h := float32(o.Depth * pixelsPerMeter)
		fill := colornames.Dimgray
		if o.Layer.Has(LayerHidable) {
			fill = colornames.Saddlebrown
		}
		vector.FillRect(screen, x, y, w, h, fill, false)
		vector.StrokeRect(screen, x, y, w, h, 1, colornames.Black, false)
	}
}

func (g *Game) drawHider(screen *ebiten.Image, h *Hider) {
	// Remaining path.
	px, py := g.toScreen(h.Agent.Position())
	for _, wp := range h.Agent.Path() {
		x, y := g.toScreen(wp)
		vector.StrokeLine(screen, px, py, x, y, 1, colornames.Lightskyblue, true)
		px, py = x, y
	}
	if pt, ok := h.Planner.LastPoint(); ok {
		x, y := g.toScreen(pt.Position)
		vector.StrokeCircle(screen, x, y, 5, 1.5, colornames.Lime, true)
		nx, ny := g.toScreen(pt.Position.Add(pt.Normal))
		vector.StrokeLine(screen, x, y, nx, ny, 1, colornames.Lime, true)
	}

	body := colornames.Steelblue
	switch h.Sensor.State() {
	case SensorProbing:
		body = colornames.Orange
	case SensorTracking:
		body = colornames.Gold
	}
	x, y := g.toScreen(h.Agent.Position())
	vector.FillCircle(screen, x, y, float32(h.Agent.cfg.Radius*pixelsPerMeter), body, true)
	g.drawHeading(screen, h.Agent, colornames.White)
	ebitenutil.DebugPrintAt(screen, h.Label, int(x)+8, int(y)-18)
}

// drawVisionCones fills each hider's field of view into visionBuf, clipping
// every ray at the first obstacle, then composites the buffer tinted.
func (g *Game) drawVisionCones(screen *ebiten.Image) {
	if g.visionBuf == nil {
		g.visionBuf = ebiten.NewImage(g.width, g.height)
	}
	buf := g.visionBuf
	buf.Clear()

	for _, h := range g.sim.Hiders {
		o := &h.Eye
		heading := math.Atan2(o.Forward.Z(), o.Forward.X())
		half := o.FOVDeg / 2 * math.Pi / 180

		var path vector.Path
		cx, cy := g.toScreen(o.Position)
		path.MoveTo(cx, cy)
		for i := 0; i <= coneSegments; i++ {
			a := heading - half + 2*half*float64(i)/coneSegments
			x, y := g.toScreen(g.clipVisionRay(o, ForwardFromHeading(a)))
			path.LineTo(x, y)
		}
		path.Close()
		vector.FillPath(buf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})
	}

	opts := &ebiten.DrawImageOptions{}
	opts.ColorScale.ScaleWithColor(colCone)
	screen.DrawImage(buf, opts)
}

// clipVisionRay returns where a sight ray along dir stops: the first
// obstacle it meets at eye height, or the end of the detection radius.
func (g *Game) clipVisionRay(o *Observer, dir Vec3) Vec3 {
	dist := o.Radius
	if hit, ok := g.sim.World.Raycast(o.Eye(), dir, o.Radius, LayerDefault|LayerHidable); ok {
		dist = hit.Distance
	}
	return o.Position.Add(dir.Mul(dist))
}

func (g *Game) drawHeading(screen *ebiten.Image, a *NavAgent, c color.Color) {
	x0, y0 := g.toScreen(a.Position())
	x1, y1 := g.toScreen(a.Position().Add(a.Forward().Mul(a.cfg.Radius * 1.6)))
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, c, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	r := g.sim.Round
	state := r.Phase().String()
	if r.Paused() {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  %s", r.Clock(), state),
		"WASD move  P pause  R restart  C copy report",
	}
	if by := g.sim.CaughtBy(); by != "" {
		lines = append(lines, fmt.Sprintf("caught %s: survived %s", by, FormatClock(r.Elapsed())))
	}
	if g.status != "" && g.frame < g.statusUntil {
		lines = append(lines, g.status)
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, g.offX+4, g.offY+4+i*14)
	}
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}
