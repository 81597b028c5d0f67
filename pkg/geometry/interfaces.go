package geometry

import (
	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// WorldObject is anything that can be placed in a scene and bounded.
// Spheres are the only implementation.
type WorldObject interface {
	GetCenter() core.Vec3
	GetRadius() float64
	GetID() core.ObjectID
}
