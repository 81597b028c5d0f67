package core

import (
	"math"
	"math/rand"
)

// SampleUnitDisk returns a uniformly distributed point in the unit disk on the
// XZ plane. The radius is sqrt(u) so that density is uniform over the area.
func SampleUnitDisk(random *rand.Rand) Vec3 {
	angle := 2 * math.Pi * random.Float64()
	radius := math.Sqrt(random.Float64())
	return NewVec3(radius*math.Cos(angle), 0, radius*math.Sin(angle))
}

// SampleUniformCube returns a point with each component uniform in [-half, half]
func SampleUniformCube(random *rand.Rand, half float64) Vec3 {
	return NewVec3(
		(random.Float64()*2-1)*half,
		(random.Float64()*2-1)*half,
		(random.Float64()*2-1)*half,
	)
}

// SampleUniformRange returns a value uniform in [lo, hi)
func SampleUniformRange(random *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*random.Float64()
}
