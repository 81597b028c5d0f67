package lights

import (
	"math"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// Ground tile colors
var (
	groundLight = core.NewVec3(0.8, 0.8, 0.8)
	groundDark  = core.NewVec3(0.2, 0.3, 0.4)
)

// Sky is the background that every escaping ray sees.
// Horizon is returned for level rays and Zenith for vertical ones. When
// Ground is set, directions with positive Z show a tiled ground instead.
type Sky struct {
	Horizon core.Vec3 `json:"horizon"`
	Zenith  core.Vec3 `json:"zenith"`
	Ground  bool      `json:"ground"`
}

// NewGradientSky creates a two-color sky with the tiled ground enabled
func NewGradientSky(horizon, zenith core.Vec3) Sky {
	return Sky{Horizon: horizon, Zenith: zenith, Ground: true}
}

// NewUniformSky creates a sky of one constant color with no ground
func NewUniformSky(color core.Vec3) Sky {
	return Sky{Horizon: color, Zenith: color}
}

// DefaultSky returns the warm horizon to blue zenith sky
func DefaultSky() Sky {
	return NewGradientSky(core.NewVec3(0.9, 0.875, 0.85), core.NewVec3(0.078, 0.4, 1.0))
}

// Emit returns the background radiance for a ray. It depends only on the ray.
func (s Sky) Emit(ray core.Ray) core.Vec3 {
	d := ray.Direction
	if s.Ground && d.Z > 0 {
		return groundColor(d)
	}
	return s.Horizon.Lerp(s.Zenith, math.Abs(d.Z))
}

// groundColor tiles the ground by projecting the direction onto a plane
func groundColor(d core.Vec3) core.Vec3 {
	mask := tile(math.Cos(d.X*10/d.Z)) *
		tile(math.Cos(d.Y*10/d.Z)) *
		tile(math.Cos(d.X*40/d.Z)) *
		tile(math.Cos(d.Y*40/d.Z))
	return groundLight.Lerp(groundDark, mask)
}

// tile marks grout lines where the cosine peaks
func tile(x float64) float64 {
	if x > 0.99 {
		return 0
	}
	return 1
}
