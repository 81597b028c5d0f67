package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/lights"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

var white = core.NewVec3(1, 1, 1)

// createTestScene creates a single sphere at the origin under a uniform white sky
func createTestScene(mat material.Material) *scene.Scene {
	return &scene.Scene{
		Spheres: []*geometry.Sphere{geometry.NewSphere(1, core.Vec3{}, 1, mat)},
		Sky:     lights.NewUniformSky(white),
	}
}

// headOnRay hits the origin-centered unit sphere with normal incidence
func headOnRay() core.Ray {
	return core.NewRay(core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0))
}

func assertColor(t *testing.T, expected, got core.Vec3) {
	t.Helper()
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestPathTracer_ZeroBouncesReturnsSky(t *testing.T) {
	sc := scene.NewDefaultScene(42)
	pt := NewPathTracer(Config{MaxBounces: 0, MaxWormholeBounces: 10})
	random := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		dir := core.NewVec3(random.NormFloat64(), random.NormFloat64(), random.NormFloat64()).Normalize()
		ray := core.NewRay(sc.Camera.Position, dir)

		got := pt.RayColor(ray, sc, random)
		if want := sc.Sky.Emit(ray); got != want {
			t.Fatalf("Ray %v: expected sky %v, got %v", dir, want, got)
		}
	}
}

func TestPathTracer_MissReturnsSky(t *testing.T) {
	sc := createTestScene(material.NewDiffuse(core.NewVec3(1, 0, 0)))
	sc.Sky = lights.DefaultSky()
	pt := NewPathTracer(DefaultConfig())

	ray := core.NewRay(core.NewVec3(5, -5, 0), core.NewVec3(0, 1, 0.2).Normalize())
	got := pt.RayColor(ray, sc, rand.New(rand.NewSource(1)))
	assertColor(t, sc.Sky.Emit(ray), got)
}

func TestPathTracer_MaterialBranches(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	fresnel := material.Reflectance(1)

	tests := []struct {
		name     string
		material material.Material
		expected core.Vec3
	}{
		{
			name:     "full metal is the tinted reflection",
			material: material.NewMetal(core.NewVec3(0.9, 0.5, 0.1), 0),
			expected: core.NewVec3(0.9, 0.5, 0.1),
		},
		{
			name:     "rough diffuse blends by fresnel",
			material: material.NewDiffuse(red),
			expected: core.NewVec3(fresnel+(1-fresnel), fresnel, fresnel),
		},
		{
			name:     "emission is added to the dielectric term",
			material: material.NewEmissive(core.Vec3{}, white, 2),
			expected: core.NewVec3(fresnel+2, fresnel+2, fresnel+2),
		},
		{
			name: "half metal mixes dielectric and tinted specular",
			material: material.Material{
				Color:    red,
				Metallic: 0.5,
			},
			expected: core.NewVec3(1, fresnel*0.5, fresnel*0.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// With one bounce every secondary ray escapes to the uniform sky
			sc := createTestScene(tt.material)
			pt := NewPathTracer(Config{MaxBounces: 1, MaxWormholeBounces: 1})

			got := pt.RayColor(headOnRay(), sc, rand.New(rand.NewSource(42)))
			assertColor(t, tt.expected, got)
		})
	}
}

func TestPathTracer_BudgetTruncatesToSky(t *testing.T) {
	// Two facing mirrors would bounce forever without a budget
	sc := &scene.Scene{
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(1, core.NewVec3(0, 3, 0), 1, material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0)),
			geometry.NewSphere(2, core.NewVec3(0, -3, 0), 1, material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0)),
		},
		Sky: lights.NewUniformSky(white),
	}
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	for bounces := 1; bounces <= 4; bounces++ {
		pt := NewPathTracer(Config{MaxBounces: bounces, MaxWormholeBounces: 1})
		got := pt.RayColor(ray, sc, rand.New(rand.NewSource(1)))

		// Each mirror hit within the budget tints by 0.5 before the sky is returned
		want := math.Pow(0.5, float64(bounces))
		assertColor(t, core.NewVec3(want, want, want), got)
	}
}

func TestPathTracer_ClampsBudgets(t *testing.T) {
	pt := NewPathTracer(Config{MaxBounces: 100, MaxWormholeBounces: 1000})
	if pt.Config() != (Config{MaxBounces: MaxBounceLimit, MaxWormholeBounces: MaxWormholeBounceLimit}) {
		t.Errorf("Expected budgets clamped to limits, got %+v", pt.Config())
	}

	pt = NewPathTracer(Config{MaxBounces: -1, MaxWormholeBounces: -1})
	if pt.Config() != (Config{}) {
		t.Errorf("Expected negative budgets clamped to zero, got %+v", pt.Config())
	}
}

func TestPathTracer_DeterministicForSeed(t *testing.T) {
	sc := scene.NewDefaultScene(3)
	pt := NewPathTracer(DefaultConfig())
	ray := core.NewRay(sc.Camera.Position, core.NewVec3(0, 1, 0))

	first := pt.RayColor(ray, sc, rand.New(rand.NewSource(99)))
	second := pt.RayColor(ray, sc, rand.New(rand.NewSource(99)))
	if first != second {
		t.Errorf("Expected identical samples for identical seeds, got %v and %v", first, second)
	}
}

func TestWormholeContinuationRay(t *testing.T) {
	entry, exit := scene.NewWormholePair(3, 4, core.NewVec3(0, 0, 8), 2, scene.DefaultWormholeOffset)
	spheres := []*geometry.Sphere{entry, exit}

	ray := core.NewRay(core.NewVec3(0, -10, 8), core.NewVec3(0, 1, 0))
	hit, ok := NearestHit(ray, spheres, core.NoObject)
	if !ok || hit.Sphere.ID != entry.ID {
		t.Fatalf("Expected to hit the entry portal, got %+v ok=%t", hit, ok)
	}
	if hit.Point.Subtract(core.NewVec3(0, -2, 8)).Length() > 1e-12 {
		t.Fatalf("Expected hit point (0,-2,8), got %v", hit.Point)
	}

	cosine := -entry.NormalAt(hit.Point).Dot(ray.Direction)
	factor := material.WormholeFactor(cosine)
	next := wormholeRay(ray, hit, entry.Material.Wormhole, cosine)

	wantOrigin := hit.Point.Add(scene.DefaultWormholeOffset.Multiply(factor))
	if next.Origin.Subtract(wantOrigin).Length() > 1e-12 {
		t.Errorf("Expected origin %v, got %v", wantOrigin, next.Origin)
	}
	if math.Abs(factor-0.96) > 1e-12 {
		t.Errorf("Expected head-on factor 0.96, got %f", factor)
	}
	if next.Direction != ray.Direction {
		t.Errorf("Expected direction unchanged, got %v", next.Direction)
	}
	if !next.FromWormhole || next.FromObjectID != exit.ID {
		t.Errorf("Expected ray from wormhole exit %d, got %+v", exit.ID, next)
	}

	// The exit is skipped even though the continuation would otherwise hit it
	if _, ok := NearestHit(next, spheres, entry.ID); ok {
		t.Error("Expected continuation ray to skip the exit portal")
	}
	plain := next
	plain.FromWormhole = false
	if hit, ok := NearestHit(plain, spheres, entry.ID); !ok || hit.Sphere.ID != exit.ID {
		t.Error("Expected a non-portal ray from the same origin to hit the exit")
	}
}

func TestPathTracer_WormholeChargesWormholeBudget(t *testing.T) {
	entry, exit := scene.NewWormholePair(1, 2, core.Vec3{}, 1, core.NewVec3(0, 10, 0))
	target := geometry.NewSphere(3, core.NewVec3(0, 20, 0), 1, material.NewMetal(core.NewVec3(0.5, 0.25, 1), 0))
	sc := &scene.Scene{
		Spheres: []*geometry.Sphere{entry, exit, target},
		Sky:     lights.NewUniformSky(white),
	}

	// No wormhole budget: the portal hit truncates to sky
	pt := NewPathTracer(Config{MaxBounces: 1, MaxWormholeBounces: 0})
	assertColor(t, white, pt.RayColor(headOnRay(), sc, rand.New(rand.NewSource(1))))

	// The hit after one portal still has wormhole budget left, so the ray
	// reflects off the tinted mirror. The portal does not consume the regular
	// bounce budget.
	pt = NewPathTracer(Config{MaxBounces: 1, MaxWormholeBounces: 2})
	assertColor(t, core.NewVec3(0.5, 0.25, 1), pt.RayColor(headOnRay(), sc, rand.New(rand.NewSource(1))))
}

func TestNearestHit(t *testing.T) {
	diffuse := material.NewDiffuse(white)
	spheres := []*geometry.Sphere{
		geometry.NewSphere(1, core.NewVec3(0, 10, 0), 1, diffuse),
		geometry.NewSphere(2, core.NewVec3(0, 5, 0), 1, diffuse),
		geometry.NewSphere(3, core.NewVec3(5, 5, 0), 1, diffuse),
	}
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	hit, ok := NearestHit(ray, spheres, core.NoObject)
	if !ok || hit.Sphere.ID != 2 || math.Abs(hit.T-4) > 1e-12 {
		t.Errorf("Expected nearest sphere 2 at t=4, got %+v", hit)
	}

	hit, ok = NearestHit(ray, spheres, 2)
	if !ok || hit.Sphere.ID != 1 {
		t.Errorf("Expected excluded sphere to be skipped, got %+v", hit)
	}
}
