package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-wormhole-raytracer/pkg/renderer"
	"github.com/df07/go-wormhole-raytracer/pkg/snapshot"
)

// MaxFramesPerRequest bounds how much work one request can queue
const MaxFramesPerRequest = 4096

// FrameUpdate is the payload of a "frame" SSE event
type FrameUpdate struct {
	Frame         int     `json:"frame"`
	Samples       int     `json:"samples"`
	DurationMs    float64 `json:"durationMs"`
	MeanLuminance float64 `json:"meanLuminance"`
	Mode          string  `json:"mode"`
	Reset         bool    `json:"reset"`
	ImageData     string  `json:"imageData,omitempty"` // Base64 encoded PNG
	ElapsedMs     int64   `json:"elapsedMs"`
}

// SSEEvent is one server-sent event
type SSEEvent struct {
	Type string
	Data string
}

// frameSink adapts an HTTP response into a display sink that writes a PNG
type frameSink struct {
	c echo.Context
}

func (fs frameSink) Display(pixels []uint32, width, height int) error {
	data, err := snapshot.Encode(renderer.ToRGBA(pixels, width, height))
	if err != nil {
		return err
	}
	return fs.c.Blob(http.StatusOK, "image/png", data)
}

// handleFrame renders ?frames=N more frames (default 1) and returns the last as PNG
func (s *Server) handleFrame(c echo.Context) error {
	frames, err := parseIntParam(c.QueryParams(), "frames", 1, 1, MaxFramesPerRequest)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	for i := 1; i < frames; i++ {
		if _, err := s.renderer.RenderFrame(ctx); err != nil {
			return s.renderError(err)
		}
	}
	if _, err := s.renderer.Present(ctx, frameSink{c: c}); err != nil {
		return s.renderError(err)
	}
	return nil
}

func (s *Server) renderError(err error) error {
	if errors.Is(err, context.Canceled) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled")
	}
	if errors.Is(err, renderer.ErrClosed) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// handleRender streams progressive frames via SSE.
// Query: frames (0 = until the client disconnects), every (image every N frames).
func (s *Server) handleRender(c echo.Context) error {
	frames, err := parseIntParam(c.QueryParams(), "frames", 32, 0, MaxFramesPerRequest)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	every, err := parseIntParam(c.QueryParams(), "every", 1, 1, MaxFramesPerRequest)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.setSSEHeaders(c)
	ctx := c.Request().Context()

	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, c.Response(), sseEventChan)
	}()

	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan, s.logger)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	logger.Printf("Streaming %d frames of %s (image every %d)\n", frames, s.renderer.Scene().Name, every)
	startTime := time.Now()
	frameChan, errChan := s.renderer.RenderFrames(ctx, frames, logger)
	s.handleRenderingEvents(ctx, sseEventChan, frameChan, errChan, logger, every, startTime)

	close(consoleChan)
	<-consoleDone
	close(sseEventChan)
	<-writerDone
	return nil
}

func (s *Server) setSSEHeaders(c echo.Context) {
	header := c.Response().Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
}

// writeSSEEvents is the only goroutine writing to the response
func (s *Server) writeSSEEvents(ctx context.Context, w *echo.Response, sseEventChan <-chan SSEEvent) {
	for event := range sseEventChan {
		if ctx.Err() != nil {
			continue // drain so senders never block
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		w.Flush()
	}
}

// streamConsoleMessages forwards log lines as "console" events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			s.logger.Printf("Error marshaling console message: %v\n", err)
			continue
		}
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	frameChan <-chan renderer.FrameResult, errChan <-chan error,
	logger *WebLogger, every int, startTime time.Time) {

	send := func(event SSEEvent) {
		select {
		case sseEventChan <- event:
		case <-ctx.Done():
		}
	}

	var last renderer.FrameResult
	sent := 0
	for frame := range frameChan {
		sent++
		last = frame
		update := newFrameUpdate(frame, startTime)
		if sent%every == 0 {
			data, err := snapshot.Encode(frame.Image())
			if err != nil {
				logger.Printf("Error: encode frame %d: %v\n", frame.Stats.Frame, err)
			} else {
				update.ImageData = base64.StdEncoding.EncodeToString(data)
			}
		}
		payload, err := json.Marshal(update)
		if err != nil {
			logger.Printf("Error: marshal frame %d: %v\n", frame.Stats.Frame, err)
			continue
		}
		send(SSEEvent{Type: "frame", Data: string(payload)})
	}

	if err := <-errChan; err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Printf("Error: rendering failed: %v\n", err)
			send(SSEEvent{Type: "error", Data: err.Error()})
		}
		return
	}

	logger.Printf("Rendered %d frames, %d samples per pixel\n", sent, last.Stats.SampleCount)
	send(SSEEvent{Type: "complete", Data: "Rendering completed"})
}

func newFrameUpdate(frame renderer.FrameResult, startTime time.Time) FrameUpdate {
	return FrameUpdate{
		Frame:         frame.Stats.Frame,
		Samples:       frame.Stats.SampleCount,
		DurationMs:    float64(frame.Stats.Duration.Microseconds()) / 1000,
		MeanLuminance: frame.Stats.MeanLuminance,
		Mode:          frame.Stats.Mode.String(),
		Reset:         frame.Stats.Reset,
		ElapsedMs:     time.Since(startTime).Milliseconds(),
	}
}

// SnapshotResponse reports where a snapshot was stored
type SnapshotResponse struct {
	Location string `json:"location"`
	Frame    int    `json:"frame"`
	Samples  int    `json:"samples"`
}

// handleSnapshot renders one more frame and stores it
func (s *Server) handleSnapshot(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, snapshot.ErrNoStore.Error())
	}

	ctx := c.Request().Context()
	frame, err := s.renderer.RenderFrame(ctx)
	if err != nil {
		return s.renderError(err)
	}

	location, err := snapshot.Take(ctx, s.store, s.renderer.Scene().Name, frame.Image(), s.snapshotWidth)
	if err != nil {
		s.logger.Printf("Snapshot failed: %v\n", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, SnapshotResponse{
		Location: location,
		Frame:    frame.Stats.Frame,
		Samples:  frame.Stats.SampleCount,
	})
}
