package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	"github.com/df07/go-wormhole-raytracer/pkg/config"
	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/viewer/window"
)

func main() {
	logger := core.NewDefaultLogger()
	if err := run(logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger core.Logger) error {
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}

	r, err := cfg.NewRenderer(logger)
	if err != nil {
		return err
	}
	defer r.Close()

	store, err := cfg.SnapshotStore(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Printf("Controls: WASD move, Space/Shift up/down, arrows and Q/E rotate, J/L focus, I/M aperture\n")
	logger.Printf("Enter toggles depth mode, O the overlay, Tab mouse look, P saves a snapshot, Esc quits\n")

	game := window.NewGame(r, window.Options{
		Title:         "Wormhole Raytracer - " + r.Scene().Name,
		Store:         store,
		SnapshotWidth: cfg.SnapshotScale,
		Logger:        logger,
	})
	return game.Run(ctx)
}
