// Package window shows a progressive renderer in an ebiten window and
// drives its camera from the keyboard and mouse.
package window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/input"
	"github.com/df07/go-wormhole-raytracer/pkg/renderer"
	"github.com/df07/go-wormhole-raytracer/pkg/snapshot"
)

// TitleEvery is how many frames pass between window title updates
const TitleEvery = 30

// Options configures the viewer
type Options struct {
	Title         string
	Store         snapshot.Store // nil disables P
	SnapshotWidth int
	Logger        core.Logger
}

// Game implements ebiten.Game. Rendering runs on its own goroutine and
// publishes frames through a FrameBuffer; Update only queues camera changes.
type Game struct {
	renderer *renderer.ProgressiveRenderer
	frames   *renderer.FrameBuffer
	opts     Options
	logger   core.Logger

	controller *input.Controller

	width  int
	height int
	image  *ebiten.Image
	rgba   []byte
	seen   uint64

	stats chan renderer.FrameStats
	done  <-chan struct{}
}

// NewGame creates a viewer for r
func NewGame(r *renderer.ProgressiveRenderer, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	if opts.Title == "" {
		opts.Title = "Wormhole Raytracer"
	}
	config := r.Config()
	return &Game{
		renderer:   r,
		frames:     &renderer.FrameBuffer{},
		opts:       opts,
		logger:     logger,
		controller: input.NewController(r, r.Mode(), r.OverlayEnabled()),
		width:      config.Width,
		height:     config.Height,
		rgba:       make([]byte, 4*config.Width*config.Height),
		stats:      make(chan renderer.FrameStats, 1),
	}
}

// Run opens the window and renders until it is closed
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.done = ctx.Done()

	renderDone := make(chan error, 1)
	go func() {
		renderDone <- g.renderLoop(ctx)
	}()

	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(g)
	cancel()

	if renderErr := <-renderDone; renderErr != nil && !errors.Is(renderErr, context.Canceled) {
		return errors.Join(err, renderErr)
	}
	return err
}

func (g *Game) renderLoop(ctx context.Context) error {
	for {
		stats, err := g.renderer.Present(ctx, g.frames)
		if err != nil {
			return err
		}
		if stats.Frame%TitleEvery == 0 {
			select {
			case g.stats <- stats:
			default:
			}
		}
	}
}

// Update applies input. Returning ebiten.Termination closes the window.
func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	mouseLook := g.controller.MouseLook
	result := g.controller.Update(device{})
	if g.controller.MouseLook != mouseLook {
		if g.controller.MouseLook {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}

	if result.Snapshot {
		g.takeSnapshot()
	}

	select {
	case stats := <-g.stats:
		ebiten.SetWindowTitle(windowTitle(g.opts.Title, stats))
	default:
	}
	return nil
}

func (g *Game) takeSnapshot() {
	img := g.frames.Image()
	if img == nil || g.opts.Store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		location, err := snapshot.Take(ctx, g.opts.Store, g.renderer.Scene().Name, img, g.opts.SnapshotWidth)
		if err != nil {
			g.logger.Printf("Error: snapshot failed: %v\n", err)
			return
		}
		g.logger.Printf("Snapshot saved to %s\n", location)
	}()
}

// Draw copies the newest frame to the screen
func (g *Game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(g.width, g.height)
	}
	if version, ok := g.frames.CopyRGBA(g.rgba, g.seen); ok {
		g.seen = version
		g.image.WritePixels(g.rgba)
	}
	screen.DrawImage(g.image, nil)
}

// Layout keeps the logical screen at the render size; ebiten scales it to the window
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func windowTitle(title string, stats renderer.FrameStats) string {
	return fmt.Sprintf("%s - %.0fms - %d iterations", title,
		float64(stats.Duration.Microseconds())/1000, stats.SampleCount)
}
