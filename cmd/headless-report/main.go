package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ttacon/chalk"

	"github.com/Garsondee/Hide-Sense/internal/config"
	"github.com/Garsondee/Hide-Sense/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	caught    bool
	survived  time.Duration
	endTick   int
	firstSeen time.Duration // -1 when the hider never saw the seeker

	sightings    int
	lostSight    int
	destinations int
	unreachable  int
	noNavmesh    int
	noEdge       int
	cycles       int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scene string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless rounds")
	flag.IntVar(&ticks, "ticks", 60*60, "tick limit per round")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scene, "config", "", "scene YAML (default: built-in arena)")
	flag.BoolVar(&verbose, "v", false, "print each round's event log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	base := game.BotScene()
	if scene != "" {
		f, err := config.Load(scene)
		if err != nil {
			fmt.Println(chalk.Red.Color("error: " + err.Error()))
			return
		}
		if f.Seeker == nil {
			f.Seeker = &config.SeekerSpec{X: 3, Z: 3}
		}
		f.Seeker.Bot = true
		base = f.SimOptions()
	}

	fmt.Printf("=== Headless Hide-and-Seek Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d scene=%s\n\n", runs, ticks, seedBase, seedStep, sceneName(scene))

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		s := game.NewSim(append(append([]game.SimOption{}, base...), game.WithSeed(seed))...)
		rs := runRound(i+1, s, ticks)
		all = append(all, rs)
		printRun(rs)
		if verbose {
			fmt.Println(s.SimLog.Format())
		}
	}

	printAggregate(all)
}

// runRound plays one round until the catch or the tick limit.
func runRound(runIndex int, s *game.Sim, ticks int) runStats {
	s.RunUntil(func(s *game.Sim) bool { return s.Round.Phase() == game.PhaseOver }, ticks)

	rs := runStats{
		runIndex:  runIndex,
		seed:      s.Seed(),
		caught:    s.CaughtBy() != "",
		survived:  s.Round.Elapsed(),
		endTick:   s.Tick(),
		firstSeen: firstAt(s.SimLog.Entries(), "sensor", "gained_sight"),

		sightings:    s.SimLog.CountCategory("sensor", "gained_sight"),
		lostSight:    s.SimLog.CountCategory("sensor", "lost_sight"),
		destinations: s.SimLog.CountCategory("planner", "destination"),
		unreachable:  s.SimLog.CountCategory("planner", "unreachable"),
		noNavmesh:    s.SimLog.CountCategory("planner", "no_navmesh"),
		noEdge:       s.SimLog.CountCategory("planner", "no_edge"),
	}
	for _, h := range s.Hiders {
		rs.cycles += h.Planner.Cycles()
	}
	return rs
}

func firstAt(entries []game.SimLogEntry, category, key string) time.Duration {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.At
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	outcome := chalk.Green.Color("survived " + game.FormatClock(rs.survived))
	if rs.caught {
		outcome = chalk.Red.Color("caught after " + game.FormatClock(rs.survived))
	}
	fmt.Printf("outcome: %s (tick %d)\n", outcome, rs.endTick)
	fmt.Printf("first_seen=%s sightings=%d lost_sight=%d\n", seenString(rs.firstSeen), rs.sightings, rs.lostSight)
	fmt.Printf("planner: cycles=%d destinations=%d unreachable=%d no_navmesh=%d no_edge=%d\n\n",
		rs.cycles, rs.destinations, rs.unreachable, rs.noNavmesh, rs.noEdge)
}

type aggregate struct {
	runs        int
	caught      int
	avgSurvival time.Duration
	avgCycles   float64
	failRate    float64 // geometry failures per destination issued
}

func summarize(all []runStats) aggregate {
	ag := aggregate{runs: len(all)}
	if len(all) == 0 {
		return ag
	}
	var survival time.Duration
	cycles, dests, fails := 0, 0, 0
	for _, rs := range all {
		if rs.caught {
			ag.caught++
		}
		survival += rs.survived
		cycles += rs.cycles
		dests += rs.destinations
		fails += rs.unreachable + rs.noNavmesh + rs.noEdge
	}
	ag.avgSurvival = survival / time.Duration(len(all))
	ag.avgCycles = float64(cycles) / float64(len(all))
	if dests > 0 {
		ag.failRate = float64(fails) / float64(dests)
	}
	return ag
}

func printAggregate(all []runStats) {
	ag := summarize(all)
	fmt.Println(chalk.Bold.TextStyle("=== Aggregate ==="))
	rate := fmt.Sprintf("%d/%d caught", ag.caught, ag.runs)
	if ag.caught == ag.runs {
		rate = chalk.Red.Color(rate)
	} else {
		rate = chalk.Green.Color(rate)
	}
	fmt.Printf("%s avg_survival=%s avg_cycles=%.1f geometry_failures_per_destination=%.2f\n",
		rate, game.FormatClock(ag.avgSurvival), ag.avgCycles, ag.failRate)
}

func seenString(d time.Duration) string {
	if d < 0 {
		return "never"
	}
	return game.FormatClock(d)
}

func sceneName(path string) string {
	if strings.TrimSpace(path) == "" {
		return "built-in"
	}
	return path
}
