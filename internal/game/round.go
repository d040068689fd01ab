package game

import (
	"fmt"
	"time"
)

// RoundPhase is where a round is in its lifecycle.
type RoundPhase int

const (
	PhaseCountdown RoundPhase = iota // pre-timer; nothing moves
	PhaseRunning                     // clock counting up
	PhaseOver                        // seeker made the catch
)

func (p RoundPhase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Round tracks the countdown, the running clock and pause state.
type Round struct {
	cfg       RoundConfig
	phase     RoundPhase
	paused    bool
	remaining time.Duration
	elapsed   time.Duration
}

// NewRound creates a round already in its countdown.
func NewRound(cfg RoundConfig) *Round {
	r := &Round{cfg: cfg}
	r.Start()
	return r
}

// Start resets the clock and begins the countdown. A zero countdown starts
// the round straight away.
func (r *Round) Start() {
	r.paused = false
	r.elapsed = 0
	r.remaining = r.cfg.Countdown
	r.phase = PhaseCountdown
	if r.remaining <= 0 {
		r.phase = PhaseRunning
	}
}

// Advance moves wall time forward by dt and returns how much game time
// passed. Game time only flows while running and unpaused; countdown
// overflow carries into the first running tick.
func (r *Round) Advance(dt time.Duration) time.Duration {
	if r.paused || dt <= 0 {
		return 0
	}
	switch r.phase {
	case PhaseCountdown:
		r.remaining -= dt
		if r.remaining > 0 {
			return 0
		}
		over := -r.remaining
		r.remaining = 0
		r.phase = PhaseRunning
		r.elapsed += over
		return over
	case PhaseRunning:
		r.elapsed += dt
		return dt
	default:
		return 0
	}
}

// TogglePause flips pause. It has no effect once the round is over.
func (r *Round) TogglePause() bool {
	if r.phase == PhaseOver {
		return r.paused
	}
	r.paused = !r.paused
	return r.paused
}

// End stops the clock. Only a running round can end; it reports whether it
// did.
func (r *Round) End() bool {
	if r.phase != PhaseRunning {
		return false
	}
	r.phase = PhaseOver
	return true
}

// Phase returns the current phase.
func (r *Round) Phase() RoundPhase { return r.phase }

// Paused reports whether the clock is frozen by the player.
func (r *Round) Paused() bool { return r.paused }

// Elapsed returns running time; after the catch it is the survival time.
func (r *Round) Elapsed() time.Duration { return r.elapsed }

// Remaining returns what is left of the countdown.
func (r *Round) Remaining() time.Duration { return r.remaining }

// Config returns the round tuning.
func (r *Round) Config() RoundConfig { return r.cfg }

// Clock is the HUD timer: the countdown while counting down, elapsed
// time otherwise.
func (r *Round) Clock() string {
	if r.phase == PhaseCountdown {
		return FormatClock(r.remaining)
	}
	return FormatClock(r.elapsed)
}

// FormatClock renders d as mm:ss:ff where ff is hundredths.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := int64(d / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d:%02d", cs/6000, (cs/100)%60, cs%100)
}
