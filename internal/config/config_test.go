package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Hide-Sense/internal/game"
)

func TestParse_EmptyUsesDefaults(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)

	got := f.GameTuning()
	want := game.DefaultTuning()
	assert.Equal(t, want.Sensor, got.Sensor)
	assert.Equal(t, want.Planner, got.Planner)
	assert.Equal(t, want.Seeker, got.Seeker)
	assert.Equal(t, want.Round, got.Round)
	assert.InDelta(t, want.Agent.TurnRate, got.Agent.TurnRate, 1e-9)
	assert.Equal(t, 40.0, f.Arena.Width)
}

func TestParse_OverridesKeepOtherDefaults(t *testing.T) {
	f, err := Parse([]byte(`
tuning:
  sensor:
    fov_deg: 120
    probe_interval: 250ms
  planner:
    update_interval: 100ms
  round:
    countdown: 0s
`))
	require.NoError(t, err)

	tn := f.GameTuning()
	assert.Equal(t, 120.0, tn.Sensor.FOVDeg)
	assert.Equal(t, 250*time.Millisecond, tn.Sensor.ProbeInterval)
	assert.Equal(t, 100*time.Millisecond, tn.Planner.UpdateInterval)
	assert.Equal(t, time.Duration(0), tn.Round.Countdown)
	assert.Equal(t, game.DefaultTuning().Sensor.ViewDistance, tn.Sensor.ViewDistance)
	assert.Equal(t, game.DefaultTuning().Planner.CandidateCapacity, tn.Planner.CandidateCapacity)
}

func TestParse_SchemaRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"fov too wide":      "tuning: {sensor: {fov_deg: 400}}",
		"zero view":         "tuning: {sensor: {view_distance: 0}}",
		"bad duration":      "tuning: {planner: {update_interval: soon}}",
		"zero capacity":     "tuning: {planner: {candidate_capacity: 0}}",
		"unknown key":       "tuning: {planner: {magic: 1}}",
		"obstacle no size":  "obstacles: [{name: a, x: 1, z: 1, height: 2}]",
		"negative spawn":    "spawns: {hiders: [{x: -1, z: 2}]}",
		"min above max":     "tuning: {seeker: {min_speed: 12, max_speed: 10}}",
		"not a mapping":     "- 1\n- 2\n",
		"sensitivity range": "tuning: {planner: {hide_sensitivity: 2}}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_CompoundDurations(t *testing.T) {
	f, err := Parse([]byte(`
tuning:
  sensor:
    probe_interval: 1.5s
  seeker:
    repath_interval: 1m30s
  round:
    countdown: 1h2m3s
`))
	require.NoError(t, err)

	tn := f.GameTuning()
	assert.Equal(t, 1500*time.Millisecond, tn.Sensor.ProbeInterval)
	assert.Equal(t, 90*time.Second, tn.Seeker.RepathInterval)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, tn.Round.Countdown)

	for _, bad := range []string{"10", "5 s", "1m30", "s"} {
		_, err := Parse([]byte("tuning: {round: {countdown: \"" + bad + "\"}}"))
		assert.Error(t, err, bad)
	}
}

func TestLoad_DefaultSceneFile(t *testing.T) {
	f, err := Load(filepath.Join("..", "..", "configs", "default.yaml"))
	require.NoError(t, err)

	assert.Len(t, f.Obstacles, 9)
	assert.Len(t, f.Hiders, 1)
	require.NotNil(t, f.Seeker)
	assert.False(t, f.Seeker.Bot)
	assert.Len(t, f.Spawns.Hiders, 3)

	got := f.GameTuning()
	want := game.DefaultTuning()
	assert.Equal(t, want.Sensor, got.Sensor)
	assert.Equal(t, want.Planner, got.Planner)
	assert.Equal(t, want.Round, got.Round)
	assert.InDelta(t, 2*math.Pi, got.Agent.TurnRate, 1e-9)
}

func TestLoad_MissingFileIsWrapped(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestSimOptions_BuildsScene(t *testing.T) {
	f, err := Parse([]byte(`
seed: 9
arena: {width: 30, depth: 20}
obstacles:
  - {name: crate, x: 10, z: 10, width: 2, depth: 2, height: 2, hidable: true}
  - {name: wall, x: 20, z: 10, width: 1, depth: 6, height: 1}
hiders:
  - {x: 5, z: 5, heading_deg: 90}
seeker: {x: 25, z: 15, bot: true}
`))
	require.NoError(t, err)

	s := game.NewSim(f.SimOptions()...)
	assert.Equal(t, int64(9), s.Seed())
	w, d := s.World.Size()
	assert.Equal(t, 30.0, w)
	assert.Equal(t, 20.0, d)

	obs := s.World.Obstacles()
	require.Len(t, obs, 2)
	assert.True(t, obs[0].Layer.Has(game.LayerHidable))
	assert.True(t, obs[1].Layer.Has(game.LayerDefault))

	require.Len(t, s.Hiders, 1)
	assert.InDelta(t, math.Pi/2, s.Hiders[0].Agent.Heading(), 1e-9)
	require.NotNil(t, s.Seeker)
	assert.True(t, s.Seeker.Bot())
}
