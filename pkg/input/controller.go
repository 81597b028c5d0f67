package input

import (
	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// Target is the renderer surface a Controller drives
type Target interface {
	Camera() scene.Camera
	AutofocusEnabled() bool
	SetCamera(cam scene.Camera)
	SetMode(mode integrator.Mode)
	SetOverlay(enabled bool)
}

// Controller turns per-tick device state into queued renderer changes.
// It keeps the camera the user is steering; the renderer applies it at the
// next frame boundary.
type Controller struct {
	State
	target  Target
	camera  scene.Camera
	mode    integrator.Mode
	overlay bool
}

// NewController starts from the target's current camera
func NewController(target Target, mode integrator.Mode, overlay bool) *Controller {
	return &Controller{
		target:  target,
		camera:  target.Camera(),
		mode:    mode,
		overlay: overlay,
	}
}

// Camera returns the camera as last submitted
func (c *Controller) Camera() scene.Camera {
	return c.camera
}

// Update reads one tick of input and queues what changed
func (c *Controller) Update(dev Device) Result {
	// Autofocus owns the focal length while it is on
	if c.target.AutofocusEnabled() {
		c.camera.FocalLength = c.target.Camera().FocalLength
	}

	result := c.State.Apply(&c.camera, dev)
	if result.CameraChanged {
		c.target.SetCamera(c.camera)
	}
	if result.ModeToggled {
		if c.mode == integrator.ModeShaded {
			c.mode = integrator.ModeDepth
		} else {
			c.mode = integrator.ModeShaded
		}
		c.target.SetMode(c.mode)
	}
	if result.OverlayToggled {
		c.overlay = !c.overlay
		c.target.SetOverlay(c.overlay)
	}
	return result
}
