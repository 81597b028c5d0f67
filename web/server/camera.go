package server

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/input"
	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// CameraRequest is a partial camera update. Absent fields are unchanged.
// Move is a camera-space offset applied after the absolute fields.
type CameraRequest struct {
	Position       *core.Vec3 `json:"position"`
	Rotation       *core.Vec3 `json:"rotation"`
	FOV            *float64   `json:"fov"`
	FocalLength    *float64   `json:"focalLength"`
	ApertureRadius *float64   `json:"apertureRadius"`
	Move           *core.Vec3 `json:"move"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec(v *core.Vec3) bool {
	return v == nil || (finite(v.X) && finite(v.Y) && finite(v.Z))
}

func (r CameraRequest) validate() error {
	if !finiteVec(r.Position) || !finiteVec(r.Rotation) || !finiteVec(r.Move) {
		return echo.NewHTTPError(http.StatusBadRequest, "camera vectors must be finite")
	}
	if r.FOV != nil && (!finite(*r.FOV) || *r.FOV <= 0 || *r.FOV >= 180) {
		return echo.NewHTTPError(http.StatusBadRequest, "fov must be in (0, 180)")
	}
	if r.FocalLength != nil && (!finite(*r.FocalLength) || math.Abs(*r.FocalLength+0.5) < 1e-6) {
		return echo.NewHTTPError(http.StatusBadRequest, "focalLength must be finite and not -0.5")
	}
	if r.ApertureRadius != nil && (!finite(*r.ApertureRadius) || *r.ApertureRadius < 0) {
		return echo.NewHTTPError(http.StatusBadRequest, "apertureRadius must be non-negative")
	}
	return nil
}

func (r CameraRequest) apply(cam *scene.Camera) {
	if r.Position != nil {
		cam.Position = *r.Position
	}
	if r.Rotation != nil {
		cam.Rotation = *r.Rotation
	}
	if r.FOV != nil {
		cam.FOV = *r.FOV
	}
	if r.FocalLength != nil {
		cam.FocalLength = *r.FocalLength
	}
	if r.ApertureRadius != nil {
		cam.ApertureRadius = *r.ApertureRadius
	}
	if r.Move != nil {
		input.Move(cam, *r.Move)
	}
}

// handleGetCamera returns the camera used by the latest frame
func (s *Server) handleGetCamera(c echo.Context) error {
	return c.JSON(http.StatusOK, s.renderer.Camera())
}

// handleSetCamera queues a camera update for the next frame
func (s *Server) handleSetCamera(c echo.Context) error {
	var req CameraRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid camera request")
	}
	if err := req.validate(); err != nil {
		return err
	}

	s.renderer.UpdateCamera(req.apply)

	// Report what the camera will be once the update lands
	preview := s.renderer.Camera()
	req.apply(&preview)
	return c.JSON(http.StatusAccepted, preview)
}

// ModeRequest toggles render settings. Absent fields are unchanged.
type ModeRequest struct {
	Mode      string `json:"mode"` // "shaded" or "depth"
	Overlay   *bool  `json:"overlay"`
	Autofocus *bool  `json:"autofocus"`
}

// ModeResponse reports the settings after a mode request
type ModeResponse struct {
	Mode      string `json:"mode"`
	Overlay   bool   `json:"overlay"`
	Autofocus *bool  `json:"autofocus,omitempty"`
}

// handleMode switches the integrator and overlay
func (s *Server) handleMode(c echo.Context) error {
	var req ModeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode request")
	}

	mode := s.renderer.Mode()
	switch req.Mode {
	case "":
	case integrator.ModeShaded.String():
		mode = integrator.ModeShaded
	case integrator.ModeDepth.String():
		mode = integrator.ModeDepth
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown mode: "+req.Mode)
	}
	if req.Mode != "" {
		s.renderer.SetMode(mode)
	}

	if req.Overlay != nil {
		s.renderer.SetOverlay(*req.Overlay)
	}
	if req.Autofocus != nil {
		s.renderer.SetAutofocus(*req.Autofocus)
	}

	return c.JSON(http.StatusOK, ModeResponse{
		Mode:      mode.String(),
		Overlay:   s.renderer.OverlayEnabled(),
		Autofocus: req.Autofocus,
	})
}
