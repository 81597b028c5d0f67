package renderer

import (
	"math"

	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// FocusEpsilon is the smallest focal change that restarts accumulation
const FocusEpsilon = 1e-6

// Autofocus returns the distance along the center ray to the first surface,
// following portals up to the wormhole budget. ok is false on a miss.
func Autofocus(cam scene.Camera, spheres []*geometry.Sphere, width, height, maxWormholeBounces int) (float64, bool) {
	ray := NewRayGenerator(cam, width, height).CenterRay()
	return integrator.Raycast(ray, spheres, maxWormholeBounces)
}

// applyAutofocus updates cam.FocalLength and reports whether it moved enough to matter
func applyAutofocus(cam *scene.Camera, spheres []*geometry.Sphere, width, height, maxWormholeBounces int) bool {
	distance, ok := Autofocus(*cam, spheres, width, height, maxWormholeBounces)
	if !ok || math.Abs(distance-cam.FocalLength) <= FocusEpsilon {
		return false
	}
	cam.FocalLength = distance
	return true
}
