package material

import (
	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// Kind is the closed set of shading behaviors a material can select
type Kind int

const (
	// KindDielectric blends a Fresnel-weighted specular and diffuse response (metallic < 1)
	KindDielectric Kind = iota
	// KindMetal is a tinted mirror-like response (metallic == 1)
	KindMetal
	// KindWormhole teleports rays to a paired portal sphere
	KindWormhole
)

// String returns a readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindMetal:
		return "metal"
	case KindWormhole:
		return "wormhole"
	default:
		return "dielectric"
	}
}

// WormholeParams links a wormhole sphere to its exit
type WormholeParams struct {
	IsWormhole bool          `json:"isWormhole"`
	Offset     core.Vec3     `json:"offset"`   // displacement to the paired exit
	OtherEnd   core.ObjectID `json:"otherEnd"` // id of the paired sphere
}

// Material describes how a sphere responds to light.
// Color is linear RGB and is not clamped.
type Material struct {
	Color             core.Vec3       `json:"color"`
	Metallic          float64         `json:"metallic"`
	Roughness         float64         `json:"roughness"`
	EmissionColor     core.Vec3       `json:"emissionColor"`
	EmissionIntensity float64         `json:"emissionIntensity"`
	Wormhole          *WormholeParams `json:"wormhole,omitempty"`
}

// Kind selects the shading branch, in priority order wormhole, metal, dielectric
func (m Material) Kind() Kind {
	if m.Wormhole != nil && m.Wormhole.IsWormhole {
		return KindWormhole
	}
	if m.Metallic >= 1 {
		return KindMetal
	}
	return KindDielectric
}

// Emission returns the emitted radiance
func (m Material) Emission() core.Vec3 {
	return m.EmissionColor.Multiply(m.EmissionIntensity)
}

// NewDiffuse creates a fully rough, non-metallic material
func NewDiffuse(color core.Vec3) Material {
	return Material{Color: color, Roughness: 1}
}

// NewPlastic creates a dielectric material with the given roughness
func NewPlastic(color core.Vec3, roughness float64) Material {
	return Material{Color: color, Roughness: clamp01(roughness)}
}

// NewMetal creates a fully metallic material
func NewMetal(color core.Vec3, roughness float64) Material {
	return Material{Color: color, Metallic: 1, Roughness: clamp01(roughness)}
}

// NewEmissive creates a diffuse material that also emits light
func NewEmissive(color, emission core.Vec3, intensity float64) Material {
	return Material{
		Color:             color,
		Roughness:         1,
		EmissionColor:     emission,
		EmissionIntensity: max(0, intensity),
	}
}

// NewWormhole creates a portal material leading to otherEnd displaced by offset
func NewWormhole(offset core.Vec3, otherEnd core.ObjectID) Material {
	return Material{
		Color:    core.NewVec3(1, 1, 1),
		Wormhole: &WormholeParams{IsWormhole: true, Offset: offset, OtherEnd: otherEnd},
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
