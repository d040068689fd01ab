package game

import "math"

// Frame is a JSON-ready snapshot of the sim for viewers.
type Frame struct {
	Tick      int             `json:"tick"`
	Time      float64         `json:"time"`
	Clock     string          `json:"clock"`
	Phase     string          `json:"phase"`
	Paused    bool            `json:"paused"`
	Countdown float64         `json:"countdown,omitempty"` // seconds left before the round starts
	Width     float64         `json:"width"`
	Depth     float64         `json:"depth"`
	Obstacles []FrameObstacle `json:"obstacles"`
	Hiders    []FrameHider    `json:"hiders"`
	Seeker    *FrameActor     `json:"seeker,omitempty"`
	CaughtBy  string          `json:"caughtBy,omitempty"`
}

// FrameObstacle is a box footprint.
type FrameObstacle struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
	Width   float64 `json:"width"`
	Depth   float64 `json:"depth"`
	Height  float64 `json:"height"`
	Hidable bool    `json:"hidable"`
}

// FrameActor is a moving circle.
type FrameActor struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`
}

// FrameHider adds what the hider sees and where it is going.
type FrameHider struct {
	FrameActor
	Sensor       string       `json:"sensor"`
	Planning     bool         `json:"planning"`
	FOV          float64      `json:"fov"`
	ViewDistance float64      `json:"viewDistance"`
	Path         [][2]float64 `json:"path,omitempty"`
	Cover        *[2]float64  `json:"cover,omitempty"`
}

// round2 trims coordinates for compact JSON.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func actorFrame(name string, a *NavAgent) FrameActor {
	p := a.Position()
	return FrameActor{
		ID:      a.ID().Short(),
		Name:    name,
		X:       round2(p.X()),
		Z:       round2(p.Z()),
		Heading: round2(a.Heading()),
	}
}

// Snapshot captures the current state.
func (s *Sim) Snapshot() Frame {
	f := Frame{
		Tick:     s.tick,
		Time:     s.Now().Seconds(),
		Clock:    s.Round.Clock(),
		Phase:    s.Round.Phase().String(),
		Paused:   s.Round.Paused(),
		Width:    s.width,
		Depth:    s.depth,
		CaughtBy: s.caughtBy,
	}
	if s.Round.Phase() == PhaseCountdown {
		f.Countdown = round2(s.Round.Remaining().Seconds())
	}
	for _, o := range s.World.Obstacles() {
		f.Obstacles = append(f.Obstacles, FrameObstacle{
			Name:    o.Name,
			X:       o.Center.X(),
			Z:       o.Center.Z(),
			Width:   o.Width,
			Depth:   o.Depth,
			Height:  o.Height,
			Hidable: o.Layer.Has(LayerHidable),
		})
	}
	for _, h := range s.Hiders {
		fh := FrameHider{
			FrameActor:   actorFrame(h.Label, h.Agent),
			Sensor:       h.Sensor.State().String(),
			Planning:     h.Planner.Active(),
			FOV:          h.Eye.FOVDeg,
			ViewDistance: h.Eye.Radius,
		}
		for _, wp := range h.Agent.Path() {
			fh.Path = append(fh.Path, [2]float64{round2(wp.X()), round2(wp.Z())})
		}
		if pt, ok := h.Planner.LastPoint(); ok {
			fh.Cover = &[2]float64{round2(pt.Position.X()), round2(pt.Position.Z())}
		}
		f.Hiders = append(f.Hiders, fh)
	}
	if s.Seeker != nil {
		a := actorFrame(s.Seeker.Label, s.Seeker.Agent)
		f.Seeker = &a
	}
	return f
}
