package scene

import (
	"math/rand"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/lights"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
)

// DefaultWormholeOffset is the displacement from the default scene's portal to its exit
var DefaultWormholeOffset = core.NewVec3(-2, 12, -6)

// DefaultCamera returns the starting camera for built-in scenes
func DefaultCamera() Camera {
	return Camera{
		Position:       core.NewVec3(0, -5, 0),
		FOV:            90,
		FocalLength:    5,
		ApertureRadius: 0.05,
	}
}

// AxisWireframes returns unit-colored world axis lines of the given length
func AxisWireframes(length float64) []Line {
	origin := core.Vec3{}
	return []Line{
		{From: origin, To: core.NewVec3(length, 0, 0), Color: core.NewVec3(1, 0, 0)},
		{From: origin, To: core.NewVec3(0, length, 0), Color: core.NewVec3(0, 1, 0)},
		{From: origin, To: core.NewVec3(0, 0, length), Color: core.NewVec3(0, 0, 1)},
	}
}

// NewDefaultScene creates the standard scene: a blue and a red sphere, a
// wormhole pair and a seeded field of random spheres
func NewDefaultScene(seed int64) *Scene {
	s := &Scene{
		Name:        "default",
		Description: "Two spheres, a wormhole pair and fifty random spheres",
		Group:       BuiltInGroup,
		Camera:      DefaultCamera(),
		Sky:         lights.DefaultSky(),
		Wireframes:  AxisWireframes(3),
	}

	s.Spheres = append(s.Spheres,
		geometry.NewSphere(1, core.NewVec3(0, 0, 2), 1, material.NewPlastic(core.NewVec3(0, 0.2, 0.6), 0.3)),
		geometry.NewSphere(2, core.NewVec3(0, 0, 0), 2, material.NewDiffuse(core.NewVec3(1, 0.2, 0.2))),
	)
	s.AddWormholePair(core.NewVec3(0, 0, 8), 2, DefaultWormholeOffset)

	random := rand.New(rand.NewSource(seed))
	for i := 0; i < 50; i++ {
		center := core.NewVec3(
			core.SampleUniformRange(random, -5, 5),
			core.SampleUniformRange(random, -5, 5),
			core.SampleUniformRange(random, -5, 5),
		)
		radius := core.SampleUniformRange(random, 0.25, 1)
		s.Spheres = append(s.Spheres, geometry.NewSphere(s.NextID(), center, radius, randomMaterial(random)))
	}

	return s
}

// randomMaterial picks mostly plastics with some metals and a few lights
func randomMaterial(random *rand.Rand) material.Material {
	color := core.NewVec3(random.Float64(), random.Float64(), random.Float64())
	roughness := random.Float64()

	switch choice := random.Float64(); {
	case choice < 0.1:
		return material.NewEmissive(color, color, 2+random.Float64()*3)
	case choice < 0.35:
		return material.NewMetal(color, roughness*0.5)
	default:
		m := material.NewPlastic(color, roughness)
		m.Metallic = random.Float64() * 0.5
		return m
	}
}

// NewFurnaceScene creates a single rough red sphere under a uniform white sky.
// Its converged image is predictable, which makes it useful for noise tests.
func NewFurnaceScene() *Scene {
	return &Scene{
		Name:        "furnace",
		Description: "Rough red sphere lit by a uniform white sky",
		Group:       BuiltInGroup,
		Camera:      Camera{Position: core.NewVec3(0, -4, 0), FOV: 40, FocalLength: 4},
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(1, core.Vec3{}, 1, material.NewDiffuse(core.NewVec3(1, 0, 0))),
		},
		Sky: lights.NewUniformSky(core.NewVec3(1, 1, 1)),
	}
}

// NewPortalGalleryScene creates a row of mirror spheres viewed through two
// chained wormhole pairs
func NewPortalGalleryScene() *Scene {
	s := &Scene{
		Name:        "portal-gallery",
		Description: "Mirror spheres seen through chained wormholes",
		Group:       BuiltInGroup,
		Camera:      DefaultCamera(),
		Sky:         lights.DefaultSky(),
		Wireframes:  AxisWireframes(2),
	}

	s.AddWormholePair(core.NewVec3(-2, 2, 0), 1, core.NewVec3(4, 10, 0))
	s.AddWormholePair(core.NewVec3(2, 2, 0), 1, core.NewVec3(-4, 20, 0))

	for i := 0; i < 6; i++ {
		x := float64(i-3) * 2.5
		color := core.NewVec3(0.9, 0.6+float64(i)*0.05, 0.3)
		s.Spheres = append(s.Spheres, geometry.NewSphere(s.NextID(), core.NewVec3(x, 16, 0), 1, material.NewMetal(color, float64(i)*0.15)))
	}
	s.Spheres = append(s.Spheres,
		geometry.NewSphere(s.NextID(), core.NewVec3(0, 26, 3), 1.5,
			material.NewEmissive(core.NewVec3(1, 1, 1), core.NewVec3(1, 0.9, 0.7), 4)),
	)

	return s
}
