package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/overlay"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// ErrClosed is returned when rendering on a closed renderer
var ErrClosed = errors.New("renderer closed")

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	Width, Height       int
	NumWorkers          int   // Number of parallel workers (0 = use CPU count)
	RowsPerTask         int   // Rows per worker task
	Seed                int64 // Base seed for every task generator
	DeterministicFrames bool  // Repeat the same samples every frame
	Integrator          integrator.Config
	Mode                integrator.Mode
	Autofocus           bool
	Overlay             bool
	BVHDrawLevel        int // negative means the camera height
	BVH                 geometry.BVHOptions
	MaxFrames           int // frames streamed by RenderProgressive (0 = until cancelled)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		Width:        640,
		Height:       360,
		NumWorkers:   0,
		RowsPerTask:  8,
		Seed:         42,
		Integrator:   integrator.DefaultConfig(),
		Mode:         integrator.ModeShaded,
		Autofocus:    false,
		Overlay:      false,
		BVHDrawLevel: -1,
		BVH:          geometry.DefaultBVHOptions(),
	}
}

// FrameResult is one tone-mapped frame
type FrameResult struct {
	Pixels []uint32 // packed 0x00RRGGBB, row-major
	Width  int
	Height int
	Stats  FrameStats
}

// Image converts the frame to an RGBA image
func (f FrameResult) Image() *image.RGBA {
	return ToRGBA(f.Pixels, f.Width, f.Height)
}

// DisplaySink consumes finished frames
type DisplaySink interface {
	Display(pixels []uint32, width, height int) error
}

// ProgressiveRenderer owns the scene and accumulates one sample per pixel per frame.
// Camera and mode changes are queued and applied at the start of the next frame.
type ProgressiveRenderer struct {
	config      ProgressiveConfig
	scene       *scene.Scene
	accumulator *Accumulator
	pixels      []uint32
	workerPool  *WorkerPool
	logger      core.Logger
	frame       int
	closed      bool

	frameMu sync.Mutex // serializes RenderFrame and Close

	mu             sync.Mutex // guards everything below
	pendingCamera  []func(cam *scene.Camera)
	pendingMode    *integrator.Mode
	pendingReset   bool
	overlayEnabled bool
	autofocus      bool
	camera         scene.Camera // last applied camera, for readers
	mode           integrator.Mode
}

// NewProgressiveRenderer creates a renderer for s. Budgets above the hard
// limits are clamped and logged.
func NewProgressiveRenderer(s *scene.Scene, config ProgressiveConfig, logger core.Logger) (*ProgressiveRenderer, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if s == nil {
		return nil, fmt.Errorf("nil scene")
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if config.RowsPerTask <= 0 {
		config.RowsPerTask = DefaultProgressiveConfig().RowsPerTask
	}
	if clamped := config.Integrator.Clamped(); clamped != config.Integrator {
		logger.Printf("Clamping bounce budgets %+v to %+v\n", config.Integrator, clamped)
		config.Integrator = clamped
	}

	chunks := (config.Height + config.RowsPerTask - 1) / config.RowsPerTask
	return &ProgressiveRenderer{
		config:         config,
		scene:          s,
		accumulator:    NewAccumulator(config.Width, config.Height),
		pixels:         make([]uint32, config.Width*config.Height),
		workerPool:     NewWorkerPool(config.NumWorkers, chunks),
		logger:         logger,
		overlayEnabled: config.Overlay,
		autofocus:      config.Autofocus,
		camera:         s.Camera,
		mode:           config.Mode,
	}, nil
}

// UpdateCamera queues a camera mutation for the next frame
func (pr *ProgressiveRenderer) UpdateCamera(update func(cam *scene.Camera)) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.pendingCamera = append(pr.pendingCamera, update)
}

// SetCamera queues replacing the whole camera
func (pr *ProgressiveRenderer) SetCamera(cam scene.Camera) {
	pr.UpdateCamera(func(c *scene.Camera) { *c = cam })
}

// SetMode queues a render mode change
func (pr *ProgressiveRenderer) SetMode(mode integrator.Mode) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.pendingMode = &mode
}

// SetOverlay turns the debug overlay on or off. It never resets accumulation.
func (pr *ProgressiveRenderer) SetOverlay(enabled bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.overlayEnabled = enabled
}

// SetAutofocus turns autofocus on or off
func (pr *ProgressiveRenderer) SetAutofocus(enabled bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.autofocus = enabled
}

// AutofocusEnabled reports whether autofocus runs at each frame boundary
func (pr *ProgressiveRenderer) AutofocusEnabled() bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.autofocus
}

// Reset queues clearing the accumulation buffer
func (pr *ProgressiveRenderer) Reset() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.pendingReset = true
}

// Camera returns the camera used by the most recent frame
func (pr *ProgressiveRenderer) Camera() scene.Camera {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.camera
}

// Mode returns the mode used by the most recent frame
func (pr *ProgressiveRenderer) Mode() integrator.Mode {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.mode
}

// OverlayEnabled reports whether the overlay is drawn
func (pr *ProgressiveRenderer) OverlayEnabled() bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.overlayEnabled
}

// Scene returns the scene owned by the renderer
func (pr *ProgressiveRenderer) Scene() *scene.Scene {
	return pr.scene
}

// Config returns the renderer configuration
func (pr *ProgressiveRenderer) Config() ProgressiveConfig {
	return pr.config
}

// SampleCount returns the samples per pixel accumulated so far
func (pr *ProgressiveRenderer) SampleCount() int {
	pr.frameMu.Lock()
	defer pr.frameMu.Unlock()
	return pr.accumulator.SampleCount
}

// frameSettings is what a frame needs from the shared state
type frameSettings struct {
	mode      integrator.Mode
	overlay   bool
	autofocus bool
	reset     bool
}

// applyPending drains queued mutations into the owned scene
func (pr *ProgressiveRenderer) applyPending() frameSettings {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	before := pr.scene.Camera
	for _, update := range pr.pendingCamera {
		update(&pr.scene.Camera)
	}
	pr.pendingCamera = nil

	reset := pr.pendingReset || pr.scene.Camera != before
	pr.pendingReset = false

	if pr.pendingMode != nil {
		if *pr.pendingMode != pr.mode {
			reset = true
		}
		pr.mode = *pr.pendingMode
		pr.pendingMode = nil
	}

	return frameSettings{
		mode:      pr.mode,
		overlay:   pr.overlayEnabled,
		autofocus: pr.autofocus,
		reset:     reset,
	}
}

// RenderFrame renders one sample for every pixel and returns the tone-mapped frame.
// All workers finish before the frame is tone-mapped.
func (pr *ProgressiveRenderer) RenderFrame(ctx context.Context) (FrameResult, error) {
	pr.frameMu.Lock()
	defer pr.frameMu.Unlock()

	if pr.closed {
		return FrameResult{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return FrameResult{}, err
	}

	startTime := time.Now()
	settings := pr.applyPending()

	if settings.autofocus && applyAutofocus(&pr.scene.Camera, pr.scene.Spheres,
		pr.config.Width, pr.config.Height, pr.config.Integrator.MaxWormholeBounces) {
		settings.reset = true
	}
	if settings.reset {
		pr.accumulator.Reset()
	}

	snap := pr.scene.Snapshot()
	pr.mu.Lock()
	pr.camera = snap.Camera
	pr.mu.Unlock()

	var bvhDone chan *geometry.BoundingVolume
	if settings.overlay {
		bvhDone = make(chan *geometry.BoundingVolume, 1)
		go func() {
			bvhDone <- geometry.BuildBVH(snap.WorldObjects(), 0, pr.config.BVH)
		}()
	}

	job := &FrameJob{
		Scene:       snap,
		Generator:   NewRayGenerator(snap.Camera, pr.config.Width, pr.config.Height),
		Integrator:  integrator.New(settings.mode, pr.config.Integrator),
		Accumulator: pr.accumulator,
		Width:       pr.config.Width,
	}
	if err := pr.runTasks(job); err != nil {
		if bvhDone != nil {
			<-bvhDone
		}
		return FrameResult{}, err
	}
	pr.accumulator.EndFrame()
	pr.frame++

	pr.accumulator.ToneMap(pr.pixels)
	if bvhDone != nil {
		root := <-bvhDone
		img := ToRGBA(pr.pixels, pr.config.Width, pr.config.Height)
		overlay.Draw(img, snap, root, pr.config.BVHDrawLevel)
		FromRGBA(img, pr.pixels)
	}

	stats := FrameStats{
		Frame:         pr.frame,
		SampleCount:   pr.accumulator.SampleCount,
		Duration:      time.Since(startTime),
		MeanLuminance: calculateAverageLuminance(pr.pixels),
		Mode:          settings.mode,
		Reset:         settings.reset,
	}
	return FrameResult{
		Pixels: append([]uint32(nil), pr.pixels...),
		Width:  pr.config.Width,
		Height: pr.config.Height,
		Stats:  stats,
	}, nil
}

// runTasks fans the frame out as row chunks and waits for all of them
func (pr *ProgressiveRenderer) runTasks(job *FrameJob) error {
	pr.workerPool.Start()

	seedFrame := pr.frame
	if pr.config.DeterministicFrames {
		seedFrame = 0
	}

	taskID := 0
	for start := 0; start < pr.config.Height; start += pr.config.RowsPerTask {
		pr.workerPool.SubmitTask(RowTask{
			TaskID:   taskID,
			StartRow: start,
			EndRow:   min(start+pr.config.RowsPerTask, pr.config.Height),
			Seed:     taskSeed(pr.config.Seed, seedFrame, taskID),
			Job:      job,
		})
		taskID++
	}

	var errs []error
	for i := 0; i < taskID; i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			errs = append(errs, result.Error)
		}
	}
	return errors.Join(errs...)
}

// Present renders a frame and hands it to sink
func (pr *ProgressiveRenderer) Present(ctx context.Context, sink DisplaySink) (FrameStats, error) {
	frame, err := pr.RenderFrame(ctx)
	if err != nil {
		return FrameStats{}, err
	}
	if err := sink.Display(frame.Pixels, frame.Width, frame.Height); err != nil {
		return frame.Stats, fmt.Errorf("display frame %d: %w", frame.Stats.Frame, err)
	}
	return frame.Stats, nil
}

// RenderProgressive renders frames until ctx is cancelled or MaxFrames is reached.
// The caller should read from both channels; both are closed when rendering stops.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context) (<-chan FrameResult, <-chan error) {
	return pr.RenderFrames(ctx, pr.config.MaxFrames, nil)
}

// RenderFrames streams up to maxFrames frames (0 = until cancelled). Progress
// is logged to logger, or to the renderer's logger when logger is nil.
func (pr *ProgressiveRenderer) RenderFrames(ctx context.Context, maxFrames int, logger core.Logger) (<-chan FrameResult, <-chan error) {
	if logger == nil {
		logger = pr.logger
	}
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		logger.Printf("Starting progressive rendering (max frames %d)...\n", maxFrames)

		for n := 1; maxFrames <= 0 || n <= maxFrames; n++ {
			select {
			case <-ctx.Done():
				logger.Printf("Rendering cancelled before frame %d\n", n)
				errChan <- ctx.Err()
				return
			default:
			}

			frame, err := pr.RenderFrame(ctx)
			if err != nil {
				errChan <- err
				return
			}

			if frame.Stats.Frame%30 == 0 || n == maxFrames {
				logger.Printf("Frame %d completed in %v (%d samples/pixel)\n",
					frame.Stats.Frame, frame.Stats.Duration, frame.Stats.SampleCount)
			}

			select {
			case frameChan <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, errChan
}

// Close stops the worker pool. Further frames return ErrClosed.
func (pr *ProgressiveRenderer) Close() {
	pr.frameMu.Lock()
	defer pr.frameMu.Unlock()
	if pr.closed {
		return
	}
	pr.closed = true
	pr.workerPool.Stop()
}
