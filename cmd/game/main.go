package main

import (
	"flag"
	"log"
	"time"

	"github.com/Garsondee/Hide-Sense/internal/config"
	"github.com/Garsondee/Hide-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var scene string
	var watch bool
	flag.StringVar(&scene, "config", "", "scene YAML (default: built-in arena)")
	flag.BoolVar(&watch, "watch", true, "reload tuning when the scene file changes")
	flag.Parse()

	var opts []game.SimOption
	if scene != "" {
		f, err := config.Load(scene)
		if err != nil {
			log.Fatal(err)
		}
		opts = f.SimOptions()
	}
	g := game.New(opts...)

	if scene != "" && watch {
		w, err := config.Watch(scene)
		if err != nil {
			log.Fatal(err)
		}
		defer w.Close()
		g.WatchTuning(w.Tunings)
		go func() {
			for err := range w.Errors {
				log.Printf("config: %v", err)
			}
		}()
	}

	g.OnRoundOver(func(survived time.Duration, report string) {
		log.Printf("caught after %s\n%s", game.FormatClock(survived), report)
	})

	ebiten.SetWindowTitle("Hide Sense")
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
