// Package config loads scenes and tuning from YAML. Documents are checked
// against an embedded JSON schema before they are decoded, and fields a
// file leaves out keep the stock values from game.DefaultTuning.
package config

import (
	"bytes"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Hide-Sense/internal/game"
)

// File is the on-disk scene layout.
type File struct {
	Seed      int64          `yaml:"seed"`
	Verbose   bool           `yaml:"verbose"`
	Arena     ArenaSpec      `yaml:"arena"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Hiders    []HiderSpec    `yaml:"hiders"`
	Seeker    *SeekerSpec    `yaml:"seeker"`
	Spawns    SpawnSpec      `yaml:"spawns"`
	Tuning    TuningSpec     `yaml:"tuning"`
}

type ArenaSpec struct {
	Width    float64 `yaml:"width"`
	Depth    float64 `yaml:"depth"`
	CellSize float64 `yaml:"cell_size"`
}

type ObstacleSpec struct {
	Name    string  `yaml:"name"`
	X       float64 `yaml:"x"`
	Z       float64 `yaml:"z"`
	Width   float64 `yaml:"width"`
	Depth   float64 `yaml:"depth"`
	Height  float64 `yaml:"height"`
	Hidable bool    `yaml:"hidable"`
}

type HiderSpec struct {
	X          float64 `yaml:"x"`
	Z          float64 `yaml:"z"`
	HeadingDeg float64 `yaml:"heading_deg"`
}

type SeekerSpec struct {
	X   float64 `yaml:"x"`
	Z   float64 `yaml:"z"`
	Bot bool    `yaml:"bot"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

type SpawnSpec struct {
	Hiders  []PointSpec `yaml:"hiders"`
	Seekers []PointSpec `yaml:"seekers"`
}

// TuningSpec mirrors game.Tuning with designer units: degrees instead of
// radians and duration strings such as "250ms".
type TuningSpec struct {
	Sensor  SensorSpec  `yaml:"sensor"`
	Planner PlannerSpec `yaml:"planner"`
	Agent   AgentSpec   `yaml:"agent"`
	Seeker  MoverSpec   `yaml:"seeker"`
	Round   RoundSpec   `yaml:"round"`
}

type SensorSpec struct {
	FOVDeg        float64       `yaml:"fov_deg"`
	ViewDistance  float64       `yaml:"view_distance"`
	EyeHeight     float64       `yaml:"eye_height"`
	ProbeInterval time.Duration `yaml:"probe_interval"`
}

type PlannerSpec struct {
	AngleToTargetDeg  float64       `yaml:"angle_to_target_deg"`
	HideSensitivity   float64       `yaml:"hide_sensitivity"`
	MinTargetDistance float64       `yaml:"min_target_distance"`
	MinObstacleHeight float64       `yaml:"min_obstacle_height"`
	UpdateInterval    time.Duration `yaml:"update_interval"`
	CandidateCapacity int           `yaml:"candidate_capacity"`
	CoverOffset       float64       `yaml:"cover_offset"`
	SampleRadiusScale float64       `yaml:"sample_radius_scale"`
}

type AgentSpec struct {
	Speed       float64 `yaml:"speed"`
	TurnRateDeg float64 `yaml:"turn_rate_deg"`
	Radius      float64 `yaml:"radius"`
	Height      float64 `yaml:"height"`
}

type MoverSpec struct {
	MinSpeed       float64       `yaml:"min_speed"`
	MaxSpeed       float64       `yaml:"max_speed"`
	BotSpeed       float64       `yaml:"bot_speed"`
	RepathInterval time.Duration `yaml:"repath_interval"`
}

type RoundSpec struct {
	Countdown   time.Duration `yaml:"countdown"`
	CatchRadius float64       `yaml:"catch_radius"`
}

// Default returns an empty 40 x 40 arena with stock tuning.
func Default() *File {
	t := game.DefaultTuning()
	return &File{
		Seed:  1,
		Arena: ArenaSpec{Width: 40, Depth: 40, CellSize: t.CellSize},
		Tuning: TuningSpec{
			Sensor: SensorSpec{
				FOVDeg:        t.Sensor.FOVDeg,
				ViewDistance:  t.Sensor.ViewDistance,
				EyeHeight:     t.Sensor.EyeHeight,
				ProbeInterval: t.Sensor.ProbeInterval,
			},
			Planner: PlannerSpec{
				AngleToTargetDeg:  t.Planner.AngleToTargetDeg,
				HideSensitivity:   t.Planner.HideSensitivity,
				MinTargetDistance: t.Planner.MinTargetDistance,
				MinObstacleHeight: t.Planner.MinObstacleHeight,
				UpdateInterval:    t.Planner.UpdateInterval,
				CandidateCapacity: t.Planner.CandidateCapacity,
				CoverOffset:       t.Planner.CoverOffset,
				SampleRadiusScale: t.Planner.SampleRadiusScale,
			},
			Agent: AgentSpec{
				Speed:       t.Agent.Speed,
				TurnRateDeg: deg(t.Agent.TurnRate),
				Radius:      t.Agent.Radius,
				Height:      t.Agent.Height,
			},
			Seeker: MoverSpec{
				MinSpeed:       t.Seeker.MinSpeed,
				MaxSpeed:       t.Seeker.MaxSpeed,
				BotSpeed:       t.Seeker.BotSpeed,
				RepathInterval: t.Seeker.RepathInterval,
			},
			Round: RoundSpec{
				Countdown:   t.Round.Countdown,
				CatchRadius: t.Round.CatchRadius,
			},
		},
	}
}

// Load reads and parses a scene file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return f, nil
}

// Parse validates data against the scene schema and decodes it over the
// defaults.
func Parse(data []byte) (*File, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "yaml")
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	f := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if f.Tuning.Seeker.MinSpeed > f.Tuning.Seeker.MaxSpeed {
		return nil, errors.Errorf("seeker min_speed %.2f exceeds max_speed %.2f",
			f.Tuning.Seeker.MinSpeed, f.Tuning.Seeker.MaxSpeed)
	}
	return f, nil
}

// GameTuning converts the tuning section into sim units.
func (f *File) GameTuning() game.Tuning {
	t := game.DefaultTuning()
	s := f.Tuning

	t.Sensor.FOVDeg = s.Sensor.FOVDeg
	t.Sensor.ViewDistance = s.Sensor.ViewDistance
	t.Sensor.EyeHeight = s.Sensor.EyeHeight
	t.Sensor.ProbeInterval = s.Sensor.ProbeInterval

	t.Planner.AngleToTargetDeg = s.Planner.AngleToTargetDeg
	t.Planner.HideSensitivity = s.Planner.HideSensitivity
	t.Planner.MinTargetDistance = s.Planner.MinTargetDistance
	t.Planner.MinObstacleHeight = s.Planner.MinObstacleHeight
	t.Planner.UpdateInterval = s.Planner.UpdateInterval
	t.Planner.CandidateCapacity = s.Planner.CandidateCapacity
	t.Planner.CoverOffset = s.Planner.CoverOffset
	t.Planner.SampleRadiusScale = s.Planner.SampleRadiusScale

	t.Agent.Speed = s.Agent.Speed
	t.Agent.TurnRate = rad(s.Agent.TurnRateDeg)
	t.Agent.Radius = s.Agent.Radius
	t.Agent.Height = s.Agent.Height

	t.Seeker.MinSpeed = s.Seeker.MinSpeed
	t.Seeker.MaxSpeed = s.Seeker.MaxSpeed
	t.Seeker.BotSpeed = s.Seeker.BotSpeed
	t.Seeker.RepathInterval = s.Seeker.RepathInterval

	t.Round.Countdown = s.Round.Countdown
	t.Round.CatchRadius = s.Round.CatchRadius

	t.CellSize = f.Arena.CellSize
	return t
}

// SimOptions turns the scene into sim builder options.
func (f *File) SimOptions() []game.SimOption {
	opts := []game.SimOption{
		game.WithSeed(f.Seed),
		game.WithVerbose(f.Verbose),
		game.WithArena(f.Arena.Width, f.Arena.Depth),
		game.WithTuning(f.GameTuning()),
	}
	for _, o := range f.Obstacles {
		if o.Hidable {
			opts = append(opts, game.WithObstacle(o.Name, o.X, o.Z, o.Width, o.Depth, o.Height))
		} else {
			opts = append(opts, game.WithWall(o.Name, o.X, o.Z, o.Width, o.Depth, o.Height))
		}
	}
	if len(f.Spawns.Hiders) > 0 || len(f.Spawns.Seekers) > 0 {
		opts = append(opts, game.WithSpawnPoints(points(f.Spawns.Hiders), points(f.Spawns.Seekers)))
	}
	for _, h := range f.Hiders {
		opts = append(opts, game.WithHider(h.X, h.Z, rad(h.HeadingDeg)))
	}
	if s := f.Seeker; s != nil {
		if s.Bot {
			opts = append(opts, game.WithSeekerBot(s.X, s.Z))
		} else {
			opts = append(opts, game.WithPlayer(s.X, s.Z))
		}
	}
	return opts
}

func points(ps []PointSpec) []game.Vec3 {
	out := make([]game.Vec3, 0, len(ps))
	for _, p := range ps {
		out = append(out, game.V3(p.X, p.Z))
	}
	return out
}

func deg(r float64) float64 { return r * 180 / math.Pi }
func rad(d float64) float64 { return d * math.Pi / 180 }
