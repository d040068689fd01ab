package game

import (
	"fmt"
	"time"
)

// defaultProbeInterval is how often a sensor retests a target that is in
// range but not yet visible.
const defaultProbeInterval = 500 * time.Millisecond

// SensorState is the visibility sensor's high-level state.
type SensorState int

const (
	SensorIdle     SensorState = iota // no target in range
	SensorProbing                     // target in range, retesting until visible
	SensorTracking                    // target seen; held until it leaves range
)

func (s SensorState) String() string {
	switch s {
	case SensorIdle:
		return "idle"
	case SensorProbing:
		return "probing"
	case SensorTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// SightListener receives the sensor's events. Both calls carry the target
// handle, never the target itself.
type SightListener interface {
	OnGainedSight(target EntityID)
	OnLostSight(target EntityID)
}

// SightFuncs adapts plain functions to SightListener. Nil fields are skipped.
type SightFuncs struct {
	Gained func(EntityID)
	Lost   func(EntityID)
}

func (f SightFuncs) OnGainedSight(target EntityID) {
	if f.Gained != nil {
		f.Gained(target)
	}
}

func (f SightFuncs) OnLostSight(target EntityID) {
	if f.Lost != nil {
		f.Lost(target)
	}
}

// VisibilitySensor decides whether its observer can see a target and turns
// proximity enter/exit into gained-sight and lost-sight events.
type VisibilitySensor struct {
	eye           *Observer
	world         SpatialQuery
	sched         *Scheduler
	log           Diagnostics
	label         string
	probeInterval time.Duration

	listeners []SightListener
	state     SensorState
	target    EntityID
	hasTarget bool
	probe     *Task
}

// NewVisibilitySensor creates an idle sensor looking through eye.
func NewVisibilitySensor(label string, eye *Observer, world SpatialQuery, sched *Scheduler, log Diagnostics) *VisibilitySensor {
	if log == nil {
		log = discardLog{}
	}
	return &VisibilitySensor{
		eye:           eye,
		world:         world,
		sched:         sched,
		log:           log,
		label:         label,
		probeInterval: defaultProbeInterval,
	}
}

// SetProbeInterval overrides the retest interval used while probing.
func (s *VisibilitySensor) SetProbeInterval(d time.Duration) {
	if d > 0 {
		s.probeInterval = d
	}
}

// Subscribe adds a listener. Listeners fire in subscription order.
func (s *VisibilitySensor) Subscribe(l SightListener) {
	s.listeners = append(s.listeners, l)
}

// State returns the current sensor state.
func (s *VisibilitySensor) State() SensorState { return s.state }

// Target returns the tracked or probed target, if any.
func (s *VisibilitySensor) Target() (EntityID, bool) { return s.target, s.hasTarget }

// Evaluate tests whether target is inside the field-of-view cone with a clear
// ray from eye height. On success it switches to Tracking, fires gained-sight
// and returns true. A failed test is a plain negative result.
func (s *VisibilitySensor) Evaluate(target EntityID) bool {
	pos, ok := s.world.Locate(target)
	if !ok {
		return false
	}
	dir, inCone := s.eye.InCone(pos)
	if !inCone {
		return false
	}
	hit, ok := s.world.Raycast(s.eye.Eye(), dir, s.eye.Radius, s.eye.Mask)
	if !ok || hit.ID != target {
		return false
	}

	s.cancelProbe()
	s.dropTracked(target)
	s.target, s.hasTarget = target, true
	s.state = SensorTracking
	s.log.Add(s.sched.Now(), s.label, "sensor", "gained_sight",
		fmt.Sprintf("%s at %.1fm", target.Short(), hit.Distance), hit.Distance)
	for _, l := range s.listeners {
		l.OnGainedSight(target)
	}
	return true
}

// OnProximityEnter handles a target entering the sensor's trigger. It
// replaces any previous target, firing lost-sight for one that was being
// tracked. If the new target is not visible right away the sensor keeps
// probing on a fixed interval until it is.
func (s *VisibilitySensor) OnProximityEnter(target EntityID) {
	s.cancelProbe()
	s.dropTracked(target)
	s.target, s.hasTarget = target, true
	s.state = SensorProbing
	s.log.Add(s.sched.Now(), s.label, "sensor", "in_range", target.Short(), 0)

	if s.Evaluate(target) {
		return
	}
	s.probe = s.sched.Every(s.probeInterval, func() bool {
		return !s.Evaluate(target)
	})
}

// OnProximityExit handles a target leaving the trigger. Exits for anything
// other than the current target are ignored.
func (s *VisibilitySensor) OnProximityExit(target EntityID) {
	if !s.hasTarget || s.target != target {
		return
	}
	s.cancelProbe()
	s.state = SensorIdle
	s.hasTarget = false
	s.target = NoEntity
	s.fireLost(target)
}

// dropTracked fires lost-sight for a tracked target that next is about to
// replace.
func (s *VisibilitySensor) dropTracked(next EntityID) {
	if s.state != SensorTracking || !s.hasTarget || s.target == next {
		return
	}
	old := s.target
	s.state = SensorIdle
	s.hasTarget = false
	s.target = NoEntity
	s.fireLost(old)
}

func (s *VisibilitySensor) fireLost(target EntityID) {
	s.log.Add(s.sched.Now(), s.label, "sensor", "lost_sight", target.Short(), 0)
	for _, l := range s.listeners {
		l.OnLostSight(target)
	}
}

// Reset drops the target and any probe without firing events.
func (s *VisibilitySensor) Reset() {
	s.cancelProbe()
	s.state = SensorIdle
	s.hasTarget = false
	s.target = NoEntity
}

func (s *VisibilitySensor) cancelProbe() {
	s.probe.Cancel()
	s.probe = nil
}
