package integrator

import (
	"math/rand"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// DepthScale is the distance that maps to white in depth mode
const DepthScale = 20.0

// Raycast returns the distance travelled to the first non-portal surface.
// Portal hits displace the ray exactly like shading does, and the distance
// up to each portal is added to the total. When the wormhole budget runs out
// the distance to the last portal surface is returned.
func Raycast(ray core.Ray, spheres []*geometry.Sphere, maxWormholeBounces int) (float64, bool) {
	exclude := ray.FromObjectID
	total := 0.0

	for bounces := 0; ; bounces++ {
		hit, ok := NearestHit(ray, spheres, exclude)
		if !ok {
			return 0, false
		}
		total += hit.T

		mat := hit.Sphere.Material
		if mat.Kind() != material.KindWormhole || bounces >= maxWormholeBounces {
			return total, true
		}

		cosine := -hit.Sphere.NormalAt(hit.Point).Dot(ray.Direction.Normalize())
		ray = wormholeRay(ray, hit, mat.Wormhole, cosine)
		exclude = hit.Sphere.ID
	}
}

// DepthIntegrator renders distance to the nearest surface as grey levels
type DepthIntegrator struct {
	config Config
}

// NewDepthIntegrator creates a depth integrator
func NewDepthIntegrator(config Config) *DepthIntegrator {
	return &DepthIntegrator{config: config.Clamped()}
}

// RayColor returns grey distance/DepthScale clamped to [0,1], or the sky on a miss
func (di *DepthIntegrator) RayColor(ray core.Ray, s *scene.Scene, random *rand.Rand) core.Vec3 {
	distance, ok := Raycast(ray, s.Spheres, di.config.MaxWormholeBounces)
	if !ok {
		return s.Sky.Emit(ray)
	}
	grey := max(0, min(1, distance/DepthScale))
	return core.NewVec3(grey, grey, grey)
}
