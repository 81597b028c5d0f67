package material

import (
	"math"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// DielectricIOR is the fixed refractive index used for every Fresnel term
const DielectricIOR = 1.5

// R0 is Schlick's reflectance at normal incidence for DielectricIOR
var R0 = math.Pow((1-DielectricIOR)/(1+DielectricIOR), 2)

// Reflect mirrors v about n: v - 2·dot(v,n)·n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Reflectance returns Schlick's Fresnel term for the given cosine, clamped to [0,1]
func Reflectance(cosine float64) float64 {
	return clamp01(R0 + (1-R0)*math.Pow(1-cosine, 5))
}

// WormholeFactor softens the portal displacement at grazing angles.
// It reuses the Fresnel constants with a squared falloff.
func WormholeFactor(cosine float64) float64 {
	return 1 - clamp01(R0+(1-R0)*math.Pow(1-cosine, 2))
}
