package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/renderer"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
	"github.com/df07/go-wormhole-raytracer/pkg/snapshot"
)

// Options configures the control server
type Options struct {
	Port          int
	SceneDir      string         // directory listed by /api/scenes
	SnapshotWidth int            // 0 keeps the render size
	Store         snapshot.Store // nil disables /api/snapshot
	Logger        core.Logger
}

// Server exposes a renderer over HTTP. It never touches the scene directly;
// camera and mode changes are queued on the renderer.
type Server struct {
	port          int
	echo          *echo.Echo
	renderer      *renderer.ProgressiveRenderer
	store         snapshot.Store
	sceneDir      string
	snapshotWidth int
	logger        core.Logger
}

// NewServer creates a new web server for r
func NewServer(r *renderer.ProgressiveRenderer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}

	s := &Server{
		port:          opts.Port,
		echo:          echo.New(),
		renderer:      r,
		store:         opts.Store,
		sceneDir:      opts.SceneDir,
		snapshotWidth: opts.SnapshotWidth,
		logger:        logger,
	}
	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(corsMiddleware)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/camera", s.handleGetCamera)
	s.echo.POST("/api/camera", s.handleSetCamera)
	s.echo.POST("/api/mode", s.handleMode)
	s.echo.GET("/api/frame.png", s.handleFrame)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.POST("/api/snapshot", s.handleSnapshot)
	s.echo.GET("/api/inspect", s.handleInspect)
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// HealthResponse reports server and host status
type HealthResponse struct {
	Status     string      `json:"status"`
	Scene      string      `json:"scene"`
	Samples    int         `json:"samples"`
	Goroutines int         `json:"goroutines"`
	System     *SystemInfo `json:"system,omitempty"`
}

// SystemInfo describes the host machine
type SystemInfo struct {
	CPUName    string  `json:"cpuName"`
	LogicalCPU int     `json:"logicalCpu"`
	ClockGHz   float64 `json:"clockGhz"`
	TotalRAMGB uint64  `json:"totalRamGb"`
}

func getSystemInfo() (*SystemInfo, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return nil, err
	}
	if len(cpuInfo) == 0 {
		return nil, fmt.Errorf("no CPU information available")
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	return &SystemInfo{
		CPUName:    cpuInfo[0].ModelName,
		LogicalCPU: runtime.NumCPU(),
		ClockGHz:   cpuInfo[0].Mhz / 1000,
		TotalRAMGB: memInfo.Total / (1024 * 1024 * 1024),
	}, nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	response := HealthResponse{
		Status:     "ok",
		Scene:      s.renderer.Scene().Name,
		Samples:    s.renderer.SampleCount(),
		Goroutines: runtime.NumGoroutine(),
	}
	if info, err := getSystemInfo(); err == nil {
		response.System = info
	} else {
		s.logger.Printf("System info unavailable: %v\n", err)
	}
	return c.JSON(http.StatusOK, response)
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes(s.sceneDir, s.logger)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, response)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
