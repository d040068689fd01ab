package viz

import (
	"context"
	"log"
	"time"

	"github.com/Garsondee/Hide-Sense/internal/game"
)

// RunConfig controls the real-time driver.
type RunConfig struct {
	// PublishEvery is how many ticks pass between frames.
	PublishEvery int
	// RestartAfter is how long a finished round stays on screen. Zero
	// leaves it finished until a viewer asks for a restart.
	RestartAfter time.Duration
}

// Run steps sim in real time at game.TickDuration and publishes frames to
// srv until ctx is done. It owns sim for its whole lifetime.
func Run(ctx context.Context, sim *game.Sim, srv *Server, cfg RunConfig) error {
	if cfg.PublishEvery <= 0 {
		cfg.PublishEvery = 1
	}
	ticker := time.NewTicker(game.TickDuration)
	defer ticker.Stop()

	var overFor time.Duration
	publish := func() {
		if err := srv.Publish(sim.Snapshot()); err != nil {
			log.Printf("viz: %v", err)
		}
	}
	publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-srv.Commands():
			switch cmd.Cmd {
			case "restart":
				sim.Restart()
				overFor = 0
			case "pause":
				sim.TogglePause()
			default:
				log.Printf("viz: unknown command %q", cmd.Cmd)
			}
			publish()
		case <-ticker.C:
			sim.Step(game.Vec3{})
			if sim.Round.Phase() == game.PhaseOver && cfg.RestartAfter > 0 {
				overFor += game.TickDuration
				if overFor >= cfg.RestartAfter {
					log.Printf("viz: %s", firstLine(sim.Report()))
					sim.Restart()
					overFor = 0
				}
			}
			if sim.Tick()%cfg.PublishEvery == 0 {
				publish()
			}
		}
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
