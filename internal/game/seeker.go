package game

import (
	"math"
)

// Seeker is the hunter. A player seeker is steered by an input vector each
// tick; a bot seeker re-paths to its quarry on a fixed interval.
type Seeker struct {
	Label string
	Agent *NavAgent

	cfg    SeekerConfig
	world  *World
	bot    bool
	quarry EntityID
	repath *Task
	speed  float64

	spawnPos     Vec3
	spawnHeading float64
}

// NewPlayerSeeker places an input-driven seeker.
func NewPlayerSeeker(label string, world *World, pos Vec3, heading float64, cfg SeekerConfig) *Seeker {
	return newSeeker(label, world, pos, heading, cfg, false)
}

// NewBotSeeker places a seeker that chases its quarry on its own.
func NewBotSeeker(label string, world *World, pos Vec3, heading float64, cfg SeekerConfig) *Seeker {
	return newSeeker(label, world, pos, heading, cfg, true)
}

func newSeeker(label string, world *World, pos Vec3, heading float64, cfg SeekerConfig, bot bool) *Seeker {
	ac := AgentConfig{
		Speed:    cfg.BotSpeed,
		TurnRate: cfg.TurnRate,
		Radius:   cfg.Radius,
		Height:   cfg.Height,
		Arrive:   0.05,
	}
	return &Seeker{
		Label: label,
		Agent: NewNavAgent(world, label, pos, heading, LayerPlayer, ac),
		cfg:   cfg,
		world: world,
		bot:   bot,

		spawnPos:     pos,
		spawnHeading: heading,
	}
}

// ID returns the seeker's world handle.
func (s *Seeker) ID() EntityID { return s.Agent.ID() }

// Bot reports whether the seeker drives itself.
func (s *Seeker) Bot() bool { return s.bot }

// Speed returns the speed of the last Drive call.
func (s *Seeker) Speed() float64 { return s.speed }

// Chase starts a bot seeker re-pathing to quarry. Player seekers ignore it.
func (s *Seeker) Chase(sched *Scheduler, quarry EntityID) {
	if !s.bot {
		return
	}
	s.repath.Cancel()
	s.quarry = quarry
	s.repath = sched.EveryNow(s.cfg.RepathInterval, func() bool {
		if pos, ok := s.world.Locate(s.quarry); ok {
			s.Agent.SetDestination(pos)
		}
		return true
	})
}

// StopChase cancels re-pathing.
func (s *Seeker) StopChase() {
	s.repath.Cancel()
	s.repath = nil
}

// Update walks a bot seeker along its path.
func (s *Seeker) Update(dt float64) {
	if s.bot {
		s.Agent.Update(dt)
	}
}

// Drive moves a player seeker for dt seconds. input is screen space (x
// right, z up, magnitude 0..1) and is rotated into the isometric world
// frame. Speed lerps between MinSpeed and MaxSpeed by input magnitude.
// Movement into blocked cells slides along the free axis.
func (s *Seeker) Drive(input Vec3, dt float64) {
	input = Vec3{input.X(), 0, input.Z()}
	mag := math.Min(1, input.Len())
	if mag < 1e-6 || dt <= 0 {
		s.speed = 0
		return
	}
	s.speed = s.cfg.MinSpeed + (s.cfg.MaxSpeed-s.cfg.MinSpeed)*mag
	dir := ToIso(input).Normalize()

	a := s.Agent
	heading := turnToward(a.heading, math.Atan2(dir.Z(), dir.X()), s.cfg.TurnRate*dt)
	step := dir.Mul(s.speed * dt)
	next := s.world.clampToArena(a.pos.Add(step))
	if nav := s.world.NavGrid(); nav != nil && !nav.Walkable(next) {
		// Slide along whichever axis stays walkable.
		alongX := s.world.clampToArena(a.pos.Add(Vec3{step.X(), 0, 0}))
		alongZ := s.world.clampToArena(a.pos.Add(Vec3{0, 0, step.Z()}))
		switch {
		case nav.Walkable(alongX):
			next = alongX
		case nav.Walkable(alongZ):
			next = alongZ
		default:
			next = a.pos
		}
	}
	a.place(next, heading)
}

// Reset moves the seeker to pos and cancels any chase.
func (s *Seeker) Reset(pos Vec3, heading float64) {
	s.StopChase()
	s.speed = 0
	s.Agent.Warp(pos, heading)
}
