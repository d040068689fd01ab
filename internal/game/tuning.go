package game

import (
	"math"
	"time"
)

// SensorConfig tunes the hider's eyes.
type SensorConfig struct {
	FOVDeg        float64
	ViewDistance  float64 // also the proximity trigger radius
	EyeHeight     float64
	ProbeInterval time.Duration
}

// SeekerConfig tunes the seeker, player or bot.
type SeekerConfig struct {
	MinSpeed float64 // speed at the smallest non-zero input
	MaxSpeed float64 // speed at full input
	BotSpeed float64 // path-following speed when driven by the sim
	TurnRate float64 // radians per second
	Radius   float64
	Height   float64
	// RepathInterval is how often a bot seeker re-targets the hider.
	RepathInterval time.Duration
}

// RoundConfig tunes the round flow.
type RoundConfig struct {
	Countdown   time.Duration
	CatchRadius float64
}

// Tuning gathers every knob the sim exposes. Config files decode into it.
type Tuning struct {
	Sensor   SensorConfig
	Planner  PlannerConfig
	Agent    AgentConfig
	Seeker   SeekerConfig
	Round    RoundConfig
	CellSize float64
}

// DefaultTuning returns the stock values.
func DefaultTuning() Tuning {
	return Tuning{
		Sensor: SensorConfig{
			FOVDeg:        defaultFOVDeg,
			ViewDistance:  defaultViewDist,
			EyeHeight:     defaultEyeHeight,
			ProbeInterval: defaultProbeInterval,
		},
		Planner: DefaultPlannerConfig(),
		Agent:   DefaultAgentConfig(),
		Seeker: SeekerConfig{
			MinSpeed:       5,
			MaxSpeed:       10,
			BotSpeed:       3,
			TurnRate:       2 * math.Pi,
			Radius:         0.5,
			Height:         1.8,
			RepathInterval: 500 * time.Millisecond,
		},
		Round: RoundConfig{
			Countdown:   5 * time.Second,
			CatchRadius: 1.2,
		},
		CellSize: defaultCellSize,
	}
}
