package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// TickDuration is the fixed wall-time step of one sim tick.
const TickDuration = time.Second / 60

// verboseEvery is how many ticks apart verbose position entries are.
const verboseEvery = 15

// Sim is a headless hide-and-seek round. It mirrors Game.Update without any
// Ebiten dependency, supports deterministic seeding and records every event
// in SimLog. The viewer, the report CLI, the viz server and the tests all
// drive it the same way.
type Sim struct {
	World  *World
	Sched  *Scheduler
	SimLog *SimLog
	Round  *Round
	Hiders []*Hider
	Seeker *Seeker

	tuning       Tuning
	width, depth float64
	seed         int64
	rng          *rand.Rand
	obstacles    []obstacleSpec
	hiderSpawns  []Vec3
	seekerSpawns []Vec3
	sinks        []Diagnostics
	log          Diagnostics
	tick         int
	caughtBy     string
}

type obstacleSpec struct {
	name         string
	center       Vec3
	width, depth float64
	height       float64
	layer        LayerMask
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // arena, obstacles, seed, tuning; applied first
	simOptActor                      // hiders and seeker; applied after the nav grid is built
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithArena sets the arena size in meters.
func WithArena(width, depth float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.width = width
		s.depth = depth
	}}
}

// WithSeed sets the RNG seed for deterministic runs. Entity handles and
// spawn picks both draw from it.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.seed = seed
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic sim
	}}
}

// WithVerbose enables periodic position logging and low-value planner
// entries.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.SimLog = NewSimLog(v)
	}}
}

// WithDiagnostics adds another sink next to SimLog, such as a ThoughtLog.
func WithDiagnostics(d Diagnostics) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.sinks = append(s.sinks, d)
	}}
}

// WithObstacle adds a hidable box centered at (x, z).
func WithObstacle(name string, x, z, width, depth, height float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.obstacles = append(s.obstacles, obstacleSpec{name, V3(x, z), width, depth, height, LayerHidable})
	}}
}

// WithWall adds a box on the default layer: it blocks sight and paths but
// is never picked as cover.
func WithWall(name string, x, z, width, depth, height float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.obstacles = append(s.obstacles, obstacleSpec{name, V3(x, z), width, depth, height, LayerDefault})
	}}
}

// WithTuning replaces the default tuning.
func WithTuning(t Tuning) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.tuning = t
	}}
}

// WithSpawnPoints sets the lists round starts pick from. Empty lists keep
// the positions actors were added at.
func WithSpawnPoints(hiders, seekers []Vec3) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.hiderSpawns = hiders
		s.seekerSpawns = seekers
	}}
}

// WithHider adds an AI hider at (x, z) facing heading (radians).
func WithHider(x, z, heading float64) SimOption {
	return SimOption{simOptActor, func(s *Sim) {
		label := fmt.Sprintf("H%d", len(s.Hiders))
		h := NewHider(label, s.World, s.Sched, s.log, V3(x, z), heading, s.tuning)
		s.Hiders = append(s.Hiders, h)
	}}
}

// WithSeekerBot adds a self-driving seeker at (x, z) that chases the first
// hider.
func WithSeekerBot(x, z float64) SimOption {
	return SimOption{simOptActor, func(s *Sim) {
		s.Seeker = NewBotSeeker("S0", s.World, V3(x, z), 0, s.tuning.Seeker)
	}}
}

// WithPlayer adds an input-driven seeker at (x, z).
func WithPlayer(x, z float64) SimOption {
	return SimOption{simOptActor, func(s *Sim) {
		s.Seeker = NewPlayerSeeker("S0", s.World, V3(x, z), 0, s.tuning.Seeker)
	}}
}

// NewSim constructs a Sim from the given options in ordered passes:
//  1. Infrastructure (arena, obstacles, seed, tuning, logging)
//  2. World and nav grid
//  3. Actors
//  4. Catch triggers, spawn placement, round start
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		width:  40,
		depth:  40,
		seed:   1,
		tuning: DefaultTuning(),
		SimLog: NewSimLog(false),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- deterministic sim default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	s.log = s.SimLog
	if len(s.sinks) > 0 {
		s.log = append(teeLog{s.SimLog}, s.sinks...)
	}

	s.Sched = NewScheduler()
	s.World = NewWorld(s.width, s.depth, s.rng)
	for _, o := range s.obstacles {
		s.World.AddObstacle(o.name, o.center, o.width, o.depth, o.height, o.layer)
	}
	s.World.BuildNavGrid(s.tuning.CellSize, s.tuning.Agent.Radius)

	for _, o := range opts {
		if o.kind == simOptActor {
			o.fn(s)
		}
	}
	for _, h := range s.Hiders {
		s.World.AddTrigger(h.ID(), s.tuning.Round.CatchRadius, LayerPlayer, func(EntityID) {
			s.onCatch(h)
		}, nil)
	}

	s.Round = NewRound(s.tuning.Round)
	s.begin()
	return s
}

// Tuning returns the tuning the sim was built with.
func (s *Sim) Tuning() Tuning { return s.tuning }

// Seed returns the RNG seed.
func (s *Sim) Seed() int64 { return s.seed }

// Tick returns the number of steps taken.
func (s *Sim) Tick() int { return s.tick }

// Now returns game time.
func (s *Sim) Now() time.Duration { return s.Sched.Now() }

// CaughtBy returns the label of the hider that was caught, or "".
func (s *Sim) CaughtBy() string { return s.caughtBy }

// Restart puts every actor back on a spawn point and starts a new round.
func (s *Sim) Restart() {
	for _, h := range s.Hiders {
		h.Reset(h.spawnPos, h.spawnHeading)
	}
	if s.Seeker != nil {
		s.Seeker.Reset(s.Seeker.spawnPos, s.Seeker.spawnHeading)
	}
	s.World.ResetTriggers()
	s.Round.Start()
	s.begin()
}

// begin places actors on random spawn points when lists are configured and
// starts the bot chase.
func (s *Sim) begin() {
	s.caughtBy = ""
	center := V3(s.width/2, s.depth/2)
	if len(s.hiderSpawns) > 0 {
		for _, h := range s.Hiders {
			p := s.hiderSpawns[s.rng.Intn(len(s.hiderSpawns))]
			h.Reset(p, HeadingTo(p, center))
		}
	}
	if s.Seeker != nil && len(s.seekerSpawns) > 0 {
		p := s.seekerSpawns[s.rng.Intn(len(s.seekerSpawns))]
		s.Seeker.Reset(p, HeadingTo(p, center))
	}
	if s.Seeker != nil && len(s.Hiders) > 0 {
		s.Seeker.Chase(s.Sched, s.Hiders[0].ID())
	}
	s.log.Add(s.Now(), "--", "round", "start", s.Round.Clock(), s.Round.Config().Countdown.Seconds())
}

func (s *Sim) onCatch(h *Hider) {
	if !s.Round.End() {
		return
	}
	s.caughtBy = h.Label
	if s.Seeker != nil {
		s.Seeker.StopChase()
		s.Seeker.Agent.Stop()
	}
	for _, hh := range s.Hiders {
		hh.Planner.Stop()
		hh.Agent.Stop()
	}
	s.log.Add(s.Now(), h.Label, "round", "caught",
		"survived "+FormatClock(s.Round.Elapsed()), s.Round.Elapsed().Seconds())
}

// TogglePause freezes or resumes the round.
func (s *Sim) TogglePause() bool {
	p := s.Round.TogglePause()
	key := "resume"
	if p {
		key = "pause"
	}
	s.log.Add(s.Now(), "--", "round", key, s.Round.Clock(), 0)
	return p
}

// Step advances one tick. input steers a player seeker and is ignored by a
// bot.
func (s *Sim) Step(input Vec3) {
	s.tick++
	dt := s.Round.Advance(TickDuration)
	if dt <= 0 {
		return
	}
	secs := dt.Seconds()
	if s.Seeker != nil {
		if s.Seeker.Bot() {
			s.Seeker.Update(secs)
		} else {
			s.Seeker.Drive(input, secs)
		}
	}
	for _, h := range s.Hiders {
		h.Update(secs)
	}
	s.World.UpdateTriggers()
	if s.Round.Phase() != PhaseRunning {
		return
	}
	s.Sched.Advance(dt)

	if s.SimLog.Verbose() && s.tick%verboseEvery == 0 {
		for _, h := range s.Hiders {
			addVerbose(s.log, s.Now(), h.Label, "move", "pos", fmtVec(h.Agent.Position()), 0)
		}
		if s.Seeker != nil {
			addVerbose(s.log, s.Now(), s.Seeker.Label, "move", "pos", fmtVec(s.Seeker.Agent.Position()), 0)
		}
	}
}

// RunTicks advances the simulation n ticks with no player input.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Step(Vec3{})
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns
// true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Step(Vec3{})
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// Report summarises the round and each hider's activity.
func (s *Sim) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "seed=%d tick=%d phase=%s clock=%s\n", s.seed, s.tick, s.Round.Phase(), s.Round.Clock())
	if s.caughtBy != "" {
		fmt.Fprintf(&sb, "caught %s after %s\n", s.caughtBy, FormatClock(s.Round.Elapsed()))
	}
	for _, h := range s.Hiders {
		count := func(category, key string) int {
			return s.SimLog.Count(LogQuery{Actor: h.Label, Category: category, Key: key})
		}
		fmt.Fprintf(&sb, "%s sensor=%s sightings=%d lost=%d destinations=%d unreachable=%d no_navmesh=%d no_edge=%d cycles=%d\n",
			h.Label, h.Sensor.State(),
			count("sensor", "gained_sight"), count("sensor", "lost_sight"),
			count("planner", "destination"), count("planner", "unreachable"),
			count("planner", "no_navmesh"), count("planner", "no_edge"),
			h.Planner.Cycles())
	}
	return sb.String()
}
