package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleUnitDisk(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	var sumX, sumZ float64
	const n = 20000
	for i := 0; i < n; i++ {
		p := SampleUnitDisk(random)
		if p.Y != 0 {
			t.Fatalf("Expected point on the XZ plane, got Y=%f", p.Y)
		}
		if r := math.Hypot(p.X, p.Z); r > 1.0+1e-12 {
			t.Fatalf("Point %v outside unit disk (r=%f)", p, r)
		}
		sumX += p.X
		sumZ += p.Z
	}

	// Uniform disk samples are centered on the origin
	if math.Abs(sumX/n) > 0.02 || math.Abs(sumZ/n) > 0.02 {
		t.Errorf("Expected mean near zero, got (%f, %f)", sumX/n, sumZ/n)
	}
}

func TestSampleUnitDisk_AreaDensity(t *testing.T) {
	random := rand.New(rand.NewSource(7))

	// With uniform area density, a quarter of samples fall within r=0.5
	inner := 0
	const n = 40000
	for i := 0; i < n; i++ {
		p := SampleUnitDisk(random)
		if math.Hypot(p.X, p.Z) < 0.5 {
			inner++
		}
	}

	fraction := float64(inner) / n
	if math.Abs(fraction-0.25) > 0.01 {
		t.Errorf("Expected ~25%% of samples inside r=0.5, got %.3f", fraction)
	}
}

func TestSampleUniformCube(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	half := 0.5 * math.Pi

	for i := 0; i < 1000; i++ {
		p := SampleUniformCube(random, half)
		if math.Abs(p.X) > half || math.Abs(p.Y) > half || math.Abs(p.Z) > half {
			t.Fatalf("Sample %v outside cube of half extent %f", p, half)
		}
	}
}

func TestSampleUniformRange(t *testing.T) {
	random := rand.New(rand.NewSource(3))

	for i := 0; i < 1000; i++ {
		v := SampleUniformRange(random, 0.25, 1.0)
		if v < 0.25 || v >= 1.0 {
			t.Fatalf("Expected value in [0.25, 1), got %f", v)
		}
	}
}
