package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/go-wormhole-raytracer/pkg/config"
	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/web/server"
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

	webServer := server.NewServer(r, server.Options{
		Port:          cfg.Port,
		SceneDir:      "scenes",
		SnapshotWidth: cfg.SnapshotScale,
		Store:         store,
		Logger:        logger,
	})

	logger.Printf("Wormhole Raytracer Web Server\n")
	logger.Printf("Serving scene %q at %dx%d\n", r.Scene().Name, cfg.Width, cfg.Height)

	errChan := make(chan error, 1)
	go func() {
		errChan <- webServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Printf("Received %v, shutting down\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return webServer.Shutdown(ctx)
}
