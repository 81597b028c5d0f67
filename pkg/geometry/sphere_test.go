package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
)

func newTestSphere(center core.Vec3, radius float64) *Sphere {
	return NewSphere(1, center, radius, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
}

func TestSphere_Hit_HeadOn(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0))

	dist, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(dist-4.0) > 1e-12 {
		t.Errorf("Expected t=4.0, got t=%f", dist)
	}
}

func TestSphere_Hit_Cases(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name         string
		rayOrigin    core.Vec3
		rayDirection core.Vec3
		expectHit    bool
		expectedT    float64
	}{
		{
			name:         "miss to the side",
			rayOrigin:    core.NewVec3(2, -5, 0),
			rayDirection: core.NewVec3(0, 1, 0),
			expectHit:    false,
		},
		{
			name:         "sphere behind origin",
			rayOrigin:    core.NewVec3(0, 5, 0),
			rayDirection: core.NewVec3(0, 1, 0),
			expectHit:    false,
		},
		{
			name:         "origin inside hits only the exit face",
			rayOrigin:    core.NewVec3(0, 0, 0),
			rayDirection: core.NewVec3(0, 0, 1),
			expectHit:    false,
		},
		{
			name:         "origin on surface heading out",
			rayOrigin:    core.NewVec3(0, 0, 1),
			rayDirection: core.NewVec3(0, 0, 1),
			expectHit:    false,
		},
		{
			name:         "unnormalized direction still reports world distance",
			rayOrigin:    core.NewVec3(0, 0, 3),
			rayDirection: core.NewVec3(0, 0, -10),
			expectHit:    true,
			expectedT:    2.0,
		},
		{
			name:         "tangent ray touches once",
			rayOrigin:    core.NewVec3(1, -5, 0),
			rayDirection: core.NewVec3(0, 1, 0),
			expectHit:    true,
			expectedT:    5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			dist, isHit := sphere.Hit(ray)

			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got hit=%t (t=%f)", tt.expectHit, isHit, dist)
			}
			if isHit && math.Abs(dist-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, dist)
			}
		})
	}
}

// TestSphere_Hit_Classification checks the no-hit rule against an independent
// geometric classification: a ray misses when the line passes outside the
// sphere, when both roots are behind the origin, or when the only forward root
// is on the exiting face.
func TestSphere_Hit_Classification(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	checked := 0
	for checked < 2000 {
		center := core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2)
		radius := 0.25 + random.Float64()*2
		sphere := newTestSphere(center, radius)

		origin := core.NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		dir := core.NewVec3(random.NormFloat64(), random.NormFloat64(), random.NormFloat64()).Normalize()

		oc := origin.Subtract(center)
		along := oc.Dot(dir)
		closest := oc.Subtract(dir.Multiply(along)).Length()

		// Skip near-boundary cases where float error decides the outcome
		if math.Abs(closest-radius) < 1e-6 {
			continue
		}

		wantHit := false
		var wantT float64
		if closest < radius {
			half := math.Sqrt(radius*radius - closest*closest)
			t0, t1 := -along-half, -along+half
			if math.Abs(t0) < 1e-6 || math.Abs(t1) < 1e-6 {
				continue
			}
			if t0 >= 0 {
				wantHit, wantT = true, t0
			}
		}
		checked++

		gotT, gotHit := sphere.Hit(core.NewRay(origin, dir))
		if gotHit != wantHit {
			t.Fatalf("origin=%v dir=%v center=%v r=%f: expected hit=%t, got %t", origin, dir, center, radius, wantHit, gotHit)
		}
		if gotHit && math.Abs(gotT-wantT) > 1e-6 {
			t.Fatalf("Expected t=%f, got %f", wantT, gotT)
		}
	}
}

func TestSphere_NormalAndBounds(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(1, 2, 3), 2)

	n := sphere.NormalAt(core.NewVec3(1, 2, 5))
	if n != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected normal (0,0,1), got %v", n)
	}

	box := sphere.BoundingBox()
	if box.Min != core.NewVec3(-1, 0, 1) || box.Max != core.NewVec3(3, 4, 5) {
		t.Errorf("Unexpected bounding box %v", box)
	}

	var obj WorldObject = sphere
	if obj.GetCenter() != sphere.Center || obj.GetRadius() != 2 || obj.GetID() != 1 {
		t.Errorf("WorldObject accessors disagree with sphere fields")
	}
}
