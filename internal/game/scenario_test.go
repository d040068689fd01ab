package game

import (
	"strings"
	"testing"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, s *Sim) {
	t.Helper()
	entries := s.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// noCountdown is the default tuning with the round running from tick one.
func noCountdown() Tuning {
	tn := DefaultTuning()
	tn.Round.Countdown = 0
	return tn
}

// --- Scenario: Hide Behind Crate ---

func TestScenario_HideBehindCrate(t *testing.T) {
	t.Log("=== TestScenario_HideBehindCrate ===")
	t.Log("--- Setup: one 2 m crate, hider facing a still player 7 m away ---")

	seekerPos := V3(20, 8)
	hiderPos := V3(16, 14)
	s := NewSim(
		WithSeed(7),
		WithTuning(noCountdown()),
		WithObstacle("crate", 20, 20, 2, 2, 2),
		WithHider(hiderPos.X(), hiderPos.Z(), HeadingTo(hiderPos, seekerPos)),
		WithPlayer(seekerPos.X(), seekerPos.Z()),
	)
	h := s.Hiders[0]

	s.RunTicks(1)
	if h.Sensor.State() != SensorTracking {
		dumpLog(t, s)
		t.Fatalf("hider should see the player on the first tick, sensor=%s", h.Sensor.State())
	}
	first, ok := h.Planner.LastPoint()
	if !ok {
		dumpLog(t, s)
		t.Fatal("planner should pick a spot as soon as sight is gained")
	}
	if first.Obstacle.Name != "crate" || first.Mirrored {
		t.Fatalf("unexpected first point %+v", first)
	}
	// The crate is padded to 18.5..21.5 on the nav grid; the far face is z=21.5.
	if !first.Normal.ApproxEqual(Vec3{0, 0, 1}) || first.Position.Z() != 21.5 {
		t.Fatalf("expected the far face of the crate, got %v normal %v", first.Position, first.Normal)
	}

	tick := s.RunUntil(func(s *Sim) bool { return !h.Agent.Moving() }, 600)
	dumpLog(t, s)
	if tick < 0 {
		t.Fatal("hider never reached cover")
	}

	eye := Vec3{seekerPos.X(), s.Tuning().Sensor.EyeHeight, seekerPos.Z()}
	dir, _ := dirTo(seekerPos, h.Agent.Position())
	hit, ok := s.World.Raycast(eye, dir, 30, LayerDefault|LayerHidable|LayerAgent)
	if !ok || hit.Name != "crate" {
		t.Fatalf("player should not see the hider at %v, ray hit %+v", h.Agent.Position(), hit)
	}
	if s.SimLog.CountCategory("planner", "destination") == 0 {
		t.Fatal("no destination logged")
	}
	if s.Round.Phase() != PhaseRunning || s.CaughtBy() != "" {
		t.Fatal("nobody should be caught")
	}
}

// --- Scenario: Short Cover Ignored ---

func TestScenario_ShortCoverIgnored(t *testing.T) {
	t.Log("=== TestScenario_ShortCoverIgnored ===")

	seekerPos := V3(20, 8)
	hiderPos := V3(16, 14)
	s := NewSim(
		WithTuning(noCountdown()),
		WithObstacle("bench", 20, 20, 2, 2, 1),
		WithHider(hiderPos.X(), hiderPos.Z(), HeadingTo(hiderPos, seekerPos)),
		WithPlayer(seekerPos.X(), seekerPos.Z()),
	)
	s.RunTicks(30)
	h := s.Hiders[0]
	if h.Sensor.State() != SensorTracking {
		t.Fatalf("expected tracking, got %s", h.Sensor.State())
	}
	if _, ok := h.Planner.LastPoint(); ok {
		t.Fatal("a 1 m bench is too short to hide behind")
	}
	if h.Agent.Moving() {
		t.Fatal("no cover means the hider stays put")
	}
}

// --- Scenario: Bot Catches Unaware Hider ---

func TestScenario_BotCatchesHider(t *testing.T) {
	t.Log("=== TestScenario_BotCatchesHider ===")
	t.Log("--- Setup: hider faces away, bot seeker walks up from behind ---")

	s := NewSim(
		WithSeed(3),
		WithVerbose(true),
		WithTuning(noCountdown()),
		WithHider(16, 14, 3.14159),
		WithSeekerBot(20, 14),
	)
	tick := s.RunUntil(func(s *Sim) bool { return s.CaughtBy() != "" }, 600)
	dumpLog(t, s)
	if tick < 0 {
		t.Fatal("bot seeker never caught the hider")
	}
	if s.CaughtBy() != "H0" || s.Round.Phase() != PhaseOver {
		t.Fatalf("expected H0 caught and the round over, got %q %s", s.CaughtBy(), s.Round.Phase())
	}
	if !s.SimLog.HasEntry("round", "caught", "survived") {
		t.Fatal("catch not logged")
	}
	if s.SimLog.CountCategory("move", "pos") == 0 {
		t.Fatal("verbose run should log positions")
	}

	report := s.Report()
	if !strings.Contains(report, "caught H0 after") {
		t.Fatalf("report missing the catch:\n%s", report)
	}

	elapsed := s.Round.Elapsed()
	s.RunTicks(60)
	if s.Round.Elapsed() != elapsed {
		t.Fatal("clock should stop at the catch")
	}

	s.Restart()
	if s.CaughtBy() != "" || s.Round.Phase() != PhaseRunning {
		t.Fatal("restart should start a fresh round")
	}
	if !s.Hiders[0].Agent.Position().ApproxEqual(V3(16, 14)) {
		t.Fatalf("hider should be back on its spawn, at %v", s.Hiders[0].Agent.Position())
	}
	if !s.Seeker.Agent.Position().ApproxEqual(V3(20, 14)) {
		t.Fatalf("seeker should be back on its spawn, at %v", s.Seeker.Agent.Position())
	}
}

// --- Scenario: Countdown And Pause ---

func TestScenario_CountdownAndPause(t *testing.T) {
	s := NewSim(
		WithHider(10, 10, 0),
		WithSeekerBot(30, 30),
	)
	s.RunTicks(60)
	if s.Round.Phase() != PhaseCountdown || s.Now() != 0 {
		t.Fatalf("nothing should run during the countdown: phase=%s now=%v", s.Round.Phase(), s.Now())
	}
	if !s.Seeker.Agent.Position().ApproxEqual(V3(30, 30)) {
		t.Fatal("seeker moved during the countdown")
	}
	if c := s.Snapshot().Countdown; c < 3.9 || c > 4.1 {
		t.Fatalf("expected about 4 s of countdown left in the frame, got %v", c)
	}

	s.RunTicks(5 * 60)
	if s.Round.Phase() != PhaseRunning {
		t.Fatalf("expected running after 6 s, got %s", s.Round.Phase())
	}
	if !s.TogglePause() {
		t.Fatal("expected paused")
	}
	at := s.Seeker.Agent.Position()
	now := s.Now()
	s.RunTicks(60)
	if s.Now() != now || !s.Seeker.Agent.Position().ApproxEqual(at) {
		t.Fatal("pause should freeze the clock and the actors")
	}
	s.TogglePause()
	s.RunTicks(10)
	if s.Now() <= now {
		t.Fatal("resume should restart the clock")
	}
}

// --- Scenario: Spawn Points ---

func TestScenario_SpawnPointsDeterministic(t *testing.T) {
	spawns := []Vec3{V3(5, 5), V3(35, 5), V3(5, 35), V3(35, 35)}
	build := func() *Sim {
		return NewSim(
			WithSeed(11),
			WithSpawnPoints(spawns, []Vec3{V3(20, 2)}),
			WithHider(0, 0, 0),
			WithSeekerBot(0, 0),
		)
	}
	a, b := build(), build()
	pa, pb := a.Hiders[0].Agent.Position(), b.Hiders[0].Agent.Position()
	if !pa.ApproxEqual(pb) {
		t.Fatalf("same seed picked different spawns: %v vs %v", pa, pb)
	}
	found := false
	for _, sp := range spawns {
		if sp.ApproxEqual(pa) {
			found = true
		}
	}
	if !found {
		t.Fatalf("hider at %v is not on a spawn point", pa)
	}
	if !a.Seeker.Agent.Position().ApproxEqual(V3(20, 2)) {
		t.Fatal("seeker should use its only spawn")
	}
	if a.Hiders[0].ID() != b.Hiders[0].ID() {
		t.Fatal("seeded sims should hand out the same entity handles")
	}
}

// --- Scenario: Snapshot ---

func TestScenario_Snapshot(t *testing.T) {
	s := NewSim(
		WithTuning(noCountdown()),
		WithObstacle("crate", 20, 20, 2, 2, 2),
		WithWall("wall", 5, 20, 1, 10, 1),
		WithHider(16, 14, 0),
		WithPlayer(3, 3),
	)
	s.RunTicks(2)
	f := s.Snapshot()
	if f.Tick != 2 || f.Phase != "running" || f.Width != 40 || f.Countdown != 0 {
		t.Fatalf("unexpected frame header %+v", f)
	}
	if len(f.Obstacles) != 2 || !f.Obstacles[0].Hidable || f.Obstacles[1].Hidable {
		t.Fatalf("unexpected obstacles %+v", f.Obstacles)
	}
	if len(f.Hiders) != 1 || f.Hiders[0].Name != "H0" || f.Seeker == nil {
		t.Fatalf("unexpected actors %+v", f)
	}
}
