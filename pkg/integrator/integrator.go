package integrator

import (
	"math/rand"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// Integrator defines the interface for turning a primary ray into a radiance sample
type Integrator interface {
	RayColor(ray core.Ray, scene *scene.Scene, random *rand.Rand) core.Vec3
}

// Mode selects which integrator renders the frame
type Mode int

const (
	// ModeShaded runs the full shading recursion
	ModeShaded Mode = iota
	// ModeDepth shows distance to the nearest hit as grey levels
	ModeDepth
)

// String returns a readable name for the mode
func (m Mode) String() string {
	if m == ModeDepth {
		return "depth"
	}
	return "shaded"
}

// Hard limits on recursion depth. Dielectric hits branch twice, so the number
// of shaded nodes grows as 2^MaxBounces.
const (
	MaxBounceLimit         = 8
	MaxWormholeBounceLimit = 32
)

// Config holds recursion budgets
type Config struct {
	MaxBounces         int
	MaxWormholeBounces int
}

// DefaultConfig returns the standard bounce budgets
func DefaultConfig() Config {
	return Config{MaxBounces: 3, MaxWormholeBounces: 10}
}

// Clamped returns the config with budgets limited to [0, limit]
func (c Config) Clamped() Config {
	return Config{
		MaxBounces:         max(0, min(c.MaxBounces, MaxBounceLimit)),
		MaxWormholeBounces: max(0, min(c.MaxWormholeBounces, MaxWormholeBounceLimit)),
	}
}

// New returns the integrator for a mode
func New(mode Mode, config Config) Integrator {
	if mode == ModeDepth {
		return NewDepthIntegrator(config)
	}
	return NewPathTracer(config)
}

// Hit is the nearest intersection found by a scan
type Hit struct {
	Sphere *geometry.Sphere
	T      float64
	Point  core.Vec3
}

// NearestHit scans every sphere linearly and returns the closest valid hit.
// Rays leaving a wormhole skip the exit portal they carry; other rays skip exclude.
func NearestHit(ray core.Ray, spheres []*geometry.Sphere, exclude core.ObjectID) (Hit, bool) {
	skip := exclude
	if ray.FromWormhole {
		skip = ray.FromObjectID
	}

	var best Hit
	found := false
	for _, sphere := range spheres {
		if sphere.ID == skip {
			continue
		}
		t, ok := sphere.Hit(ray)
		if !ok || (found && t >= best.T) {
			continue
		}
		best = Hit{Sphere: sphere, T: t}
		found = true
	}
	if found {
		best.Point = ray.Origin.Add(ray.Direction.Normalize().Multiply(best.T))
	}
	return best, found
}
