package game

import (
	"math"
	"testing"
)

func newAgentWorld(obstacles ...rect) *World {
	w := NewWorld(20, 20, nil)
	for i, r := range obstacles {
		w.AddObstacle(string(rune('a'+i)), r.center(), r.w, r.d, 2, LayerHidable)
	}
	w.BuildNavGrid(0.5, 0.5)
	return w
}

func TestNavAgent_WalksToDestination(t *testing.T) {
	w := newAgentWorld(rect{x: 8, z: 4, w: 2, d: 8})
	a := NewNavAgent(w, "a", V3(4, 8), 0, LayerAgent, DefaultAgentConfig())

	dest := V3(14, 8)
	if !a.SetDestination(dest) {
		t.Fatal("destination should be reachable around the box")
	}
	if got, ok := a.Destination(); !ok || !got.ApproxEqual(dest) {
		t.Fatalf("Destination = %v", got)
	}
	for i := 0; i < 600 && a.Moving(); i++ {
		a.Update(1.0 / 60)
	}
	if a.Moving() {
		t.Fatal("agent never arrived")
	}
	if planeDist(a.Position(), dest) > 1e-6 {
		t.Fatalf("agent stopped at %v, want %v", a.Position(), dest)
	}
	if p, _ := w.Locate(a.ID()); !p.ApproxEqual(a.Position()) {
		t.Fatal("world position out of sync with agent")
	}
}

func TestNavAgent_SpeedLimit(t *testing.T) {
	w := newAgentWorld()
	cfg := DefaultAgentConfig()
	a := NewNavAgent(w, "a", V3(2, 2), 0, LayerAgent, cfg)
	a.SetDestination(V3(18, 2))
	start := a.Position()
	a.Update(0.5)
	if d := planeDist(start, a.Position()); d > cfg.Speed*0.5+1e-9 {
		t.Fatalf("moved %.3f m in 0.5 s at %.1f m/s", d, cfg.Speed)
	}
}

func TestNavAgent_TurnsTowardTravel(t *testing.T) {
	w := newAgentWorld()
	a := NewNavAgent(w, "a", V3(10, 2), math.Pi, LayerAgent, DefaultAgentConfig())
	a.SetDestination(V3(10, 18))
	for i := 0; i < 60; i++ {
		a.Update(1.0 / 60)
	}
	if a.Forward().Z() < 0.99 {
		t.Fatalf("agent should face +Z after a second of walking, forward=%v", a.Forward())
	}
}

func TestNavAgent_UnreachableKeepsPath(t *testing.T) {
	w := newAgentWorld(rect{x: 14, z: 14, w: 4, d: 4})
	a := NewNavAgent(w, "a", V3(2, 2), 0, LayerAgent, DefaultAgentConfig())
	if !a.SetDestination(V3(8, 2)) {
		t.Fatal("expected a path")
	}
	path := a.Path()
	if a.SetDestination(V3(16, 16)) {
		t.Fatal("a point deep inside the box should be unreachable")
	}
	if got := a.Path(); len(got) != len(path) {
		t.Fatal("failed SetDestination replaced the path")
	}
}

func TestNavAgent_NoGrid(t *testing.T) {
	w := NewWorld(20, 20, nil)
	a := NewNavAgent(w, "a", V3(2, 2), 0, LayerAgent, DefaultAgentConfig())
	if a.SetDestination(V3(5, 5)) {
		t.Fatal("no nav grid means no destination")
	}
}

func TestNavAgent_WarpDropsPath(t *testing.T) {
	w := newAgentWorld()
	a := NewNavAgent(w, "a", V3(2, 2), 0, LayerAgent, DefaultAgentConfig())
	a.SetDestination(V3(10, 10))
	a.Warp(V3(5, 5), math.Pi/2)
	if a.Moving() {
		t.Fatal("warp should drop the path")
	}
	if _, ok := a.Destination(); ok {
		t.Fatal("warp should forget the destination")
	}
	if !a.Position().ApproxEqual(V3(5, 5)) || a.Heading() != math.Pi/2 {
		t.Fatalf("unexpected pose %v %v", a.Position(), a.Heading())
	}
}
