package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-wormhole-raytracer/pkg/config"
	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/renderer"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
	"github.com/df07/go-wormhole-raytracer/pkg/snapshot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := core.NewDefaultLogger()
	location, err := run(ctx, os.Args[1:], logger)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Printf("  %s\n", strings.Join(scene.BuiltInIDs(), ", "))
		fmt.Println("  or a path to a JSON scene file")
		fmt.Println()
		fmt.Println("Output will be saved to <output>/<scene>/render_<timestamp>.png")
		return
	}
	if err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", location)
}

// run renders the configured number of frames and stores the final image
func run(ctx context.Context, args []string, logger core.Logger) (string, error) {
	cfg, err := config.Loader{EnvFile: ".env", Logger: logger}.Load("raytracer", args)
	if err != nil {
		return "", err
	}

	r, err := cfg.NewRenderer(logger)
	if err != nil {
		return "", err
	}
	defer r.Close()

	store, err := cfg.SnapshotStore(logger)
	if err != nil {
		return "", err
	}

	logger.Printf("Rendering %s at %dx%d for %d frames\n", r.Scene().Name, cfg.Width, cfg.Height, cfg.Frames)
	startTime := time.Now()
	last, err := renderFrames(ctx, r, cfg.Frames)
	if err != nil {
		return "", err
	}
	logger.Printf("Render completed in %v (%d samples/pixel, mean luminance %.3f)\n",
		time.Since(startTime), last.Stats.SampleCount, last.Stats.MeanLuminance)

	return snapshot.Take(ctx, store, r.Scene().Name, last.Image(), cfg.SnapshotScale)
}

// renderFrames drains the progressive stream and returns the last frame
func renderFrames(ctx context.Context, r *renderer.ProgressiveRenderer, frames int) (renderer.FrameResult, error) {
	frameChan, errChan := r.RenderFrames(ctx, frames, nil)
	var last renderer.FrameResult
	for frame := range frameChan {
		last = frame
	}
	if err := <-errChan; err != nil {
		return renderer.FrameResult{}, err
	}
	if last.Pixels == nil {
		return renderer.FrameResult{}, errors.New("no frames rendered")
	}
	return last, nil
}
