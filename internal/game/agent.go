package game

import (
	"math"
)

// AgentConfig is the movement tuning for a nav agent.
type AgentConfig struct {
	Speed    float64 // meters per second
	TurnRate float64 // radians per second
	Radius   float64
	Height   float64
	// Arrive is how close to a waypoint counts as reaching it.
	Arrive float64
}

// DefaultAgentConfig returns a human-sized walker.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Speed:    3.5,
		TurnRate: 2 * math.Pi,
		Radius:   0.5,
		Height:   1.8,
		Arrive:   0.05,
	}
}

// NavAgent walks an actor along A* paths on the nav grid. It implements
// PathAgent.
type NavAgent struct {
	cfg   AgentConfig
	world *World
	id    EntityID

	pos       Vec3
	heading   float64
	path      []Vec3
	pathIndex int
	dest      Vec3
	hasDest   bool
}

// NewNavAgent registers an actor in world at pos and returns its agent.
func NewNavAgent(world *World, name string, pos Vec3, heading float64, layer LayerMask, cfg AgentConfig) *NavAgent {
	id := world.AddActor(name, pos, cfg.Radius, cfg.Height, layer)
	return &NavAgent{
		cfg:     cfg,
		world:   world,
		id:      id,
		pos:     V3(pos.X(), pos.Z()),
		heading: heading,
	}
}

// ID returns the actor's world handle.
func (a *NavAgent) ID() EntityID { return a.id }

// Position returns the agent's ground position.
func (a *NavAgent) Position() Vec3 { return a.pos }

// Height returns the agent's standing height.
func (a *NavAgent) Height() float64 { return a.cfg.Height }

// Heading returns the facing angle in radians.
func (a *NavAgent) Heading() float64 { return a.heading }

// Forward returns the unit facing vector.
func (a *NavAgent) Forward() Vec3 { return ForwardFromHeading(a.heading) }

// Moving reports whether the agent still has waypoints to walk.
func (a *NavAgent) Moving() bool { return a.pathIndex < len(a.path) }

// Destination returns the last accepted destination.
func (a *NavAgent) Destination() (Vec3, bool) { return a.dest, a.hasDest }

// Path returns the remaining waypoints.
func (a *NavAgent) Path() []Vec3 {
	if !a.Moving() {
		return nil
	}
	return a.path[a.pathIndex:]
}

// SetDestination plans a path to dest. It returns false and keeps the old
// path when dest is unreachable.
func (a *NavAgent) SetDestination(dest Vec3) bool {
	nav := a.world.NavGrid()
	if nav == nil {
		return false
	}
	dest = V3(dest.X(), dest.Z())
	if a.hasDest && a.Moving() && planeDist(dest, a.dest) < a.cfg.Arrive {
		return true
	}
	path := nav.FindPath(a.pos, dest)
	if path == nil {
		return false
	}
	a.path = path
	a.pathIndex = 0
	a.dest, a.hasDest = dest, true
	return true
}

// Stop clears the path. The destination is kept for inspection.
func (a *NavAgent) Stop() {
	a.path = nil
	a.pathIndex = 0
}

// Warp teleports the agent and drops its path.
func (a *NavAgent) Warp(pos Vec3, heading float64) {
	a.Stop()
	a.hasDest = false
	a.pos = V3(pos.X(), pos.Z())
	a.heading = heading
	a.world.MoveActor(a.id, a.pos)
}

// place moves the agent without touching its path.
func (a *NavAgent) place(pos Vec3, heading float64) {
	a.pos = V3(pos.X(), pos.Z())
	a.heading = heading
	a.world.MoveActor(a.id, a.pos)
}

// Update advances the agent along its path for dt seconds.
func (a *NavAgent) Update(dt float64) {
	if !a.Moving() || dt <= 0 {
		return
	}
	remaining := a.cfg.Speed * dt
	for remaining > 0 && a.pathIndex < len(a.path) {
		wp := a.path[a.pathIndex]
		dist := planeDist(a.pos, wp)

		if dist > 1e-6 {
			a.heading = turnToward(a.heading, HeadingTo(a.pos, wp), a.cfg.TurnRate*dt)
		}

		if dist <= remaining || dist <= a.cfg.Arrive {
			a.pos = wp
			remaining -= dist
			a.pathIndex++
		} else {
			step := wp.Sub(a.pos).Mul(remaining / dist)
			a.pos = a.pos.Add(step)
			remaining = 0
		}
	}
	a.world.MoveActor(a.id, a.pos)
}
