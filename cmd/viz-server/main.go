package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Garsondee/Hide-Sense/internal/config"
	"github.com/Garsondee/Hide-Sense/internal/game"
	"github.com/Garsondee/Hide-Sense/internal/viz"
)

func main() {
	var addr string
	var scene string
	var every int
	var restart time.Duration
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&scene, "config", "", "scene YAML (default: built-in arena)")
	flag.IntVar(&every, "publish-every", 2, "ticks between streamed frames")
	flag.DurationVar(&restart, "restart-after", 3*time.Second, "pause after a catch before the next round (0 = wait for a viewer)")
	flag.Parse()

	opts := game.BotScene()
	if scene != "" {
		f, err := config.Load(scene)
		if err != nil {
			log.Fatal(err)
		}
		if f.Seeker == nil {
			f.Seeker = &config.SeekerSpec{X: 3, Z: 3}
		}
		f.Seeker.Bot = true
		opts = f.SimOptions()
	}
	sim := game.NewSim(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := viz.NewServer()
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Println("viz: listening on " + addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	if err := viz.Run(ctx, sim, srv, viz.RunConfig{PublishEvery: every, RestartAfter: restart}); err != nil && err != context.Canceled {
		log.Print(err)
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdown)
}
