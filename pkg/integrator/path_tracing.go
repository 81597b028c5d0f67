package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// PathTracer evaluates the recursive diffuse/specular/metal/wormhole bounce model
type PathTracer struct {
	config Config
}

// NewPathTracer creates a path tracer with budgets clamped to the hard limits
func NewPathTracer(config Config) *PathTracer {
	return &PathTracer{config: config.Clamped()}
}

// Config returns the effective budgets
func (pt *PathTracer) Config() Config {
	return pt.config
}

// RayColor returns one radiance sample for a primary ray
func (pt *PathTracer) RayColor(ray core.Ray, s *scene.Scene, random *rand.Rand) core.Vec3 {
	return pt.shade(ray, s, 0, 0, ray.FromObjectID, random)
}

func (pt *PathTracer) shade(ray core.Ray, s *scene.Scene, bounce, wormholeBounce int, exclude core.ObjectID, random *rand.Rand) core.Vec3 {
	hit, ok := NearestHit(ray, s.Spheres, exclude)
	if !ok {
		return s.Sky.Emit(ray)
	}

	// Truncate at the budget; the missing energy is an accepted bias
	if bounce >= pt.config.MaxBounces || wormholeBounce >= pt.config.MaxWormholeBounces {
		return s.Sky.Emit(ray)
	}

	sphere := hit.Sphere
	mat := sphere.Material
	d := ray.Direction.Normalize()
	n := sphere.NormalAt(hit.Point)
	cosine := -n.Dot(d)

	if mat.Kind() == material.KindWormhole {
		next := wormholeRay(ray, hit, mat.Wormhole, cosine)
		return pt.shade(next, s, bounce, wormholeBounce+1, sphere.ID, random)
	}

	specular0 := material.Reflect(d, n)
	diffuse := n.Add(core.SampleUniformCube(random, 0.5).Multiply(math.Pi))
	specular := diffuse.Multiply(mat.Roughness).Add(specular0.Multiply(1 - mat.Roughness))

	specularRay := core.NewRayFrom(hit.Point, specular.Normalize(), sphere.ID)
	specularResult := pt.shade(specularRay, s, bounce+1, wormholeBounce, sphere.ID, random)

	if mat.Kind() == material.KindMetal {
		return specularResult.MultiplyVec(mat.Color)
	}

	diffuseRay := core.NewRayFrom(hit.Point, diffuse.Normalize(), sphere.ID)
	diffuseResult := pt.shade(diffuseRay, s, bounce+1, wormholeBounce, sphere.ID, random).MultiplyVec(mat.Color)

	fresnel := material.Reflectance(cosine)
	dielectric := specularResult.Multiply(fresnel).
		Add(diffuseResult.Multiply(1 - fresnel)).
		Add(mat.Emission())

	return dielectric.Multiply(1 - mat.Metallic).
		Add(specularResult.MultiplyVec(mat.Color).Multiply(mat.Metallic))
}

// wormholeRay continues a ray through a portal. The origin moves from the hit
// point by the portal offset scaled by the grazing factor, the direction is
// kept and the ray remembers the exit so the next scan skips it.
func wormholeRay(ray core.Ray, hit Hit, params *material.WormholeParams, cosine float64) core.Ray {
	factor := material.WormholeFactor(cosine)
	return core.Ray{
		Origin:       hit.Point.Add(params.Offset.Multiply(factor)),
		Direction:    ray.Direction,
		FromWormhole: true,
		FromObjectID: params.OtherEnd,
	}
}
