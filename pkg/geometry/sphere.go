package geometry

import (
	"math"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3         `json:"center"`
	Radius   float64           `json:"radius"`
	Material material.Material `json:"material"`
	ID       core.ObjectID     `json:"id"`
}

// NewSphere creates a new sphere
func NewSphere(id core.ObjectID, center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
		ID:       id,
	}
}

// GetCenter returns the sphere center
func (s *Sphere) GetCenter() core.Vec3 { return s.Center }

// GetRadius returns the sphere radius
func (s *Sphere) GetRadius() float64 { return s.Radius }

// GetID returns the sphere's object id
func (s *Sphere) GetID() core.ObjectID { return s.ID }

// Hit returns the distance along the ray to the nearest valid intersection.
// The ray direction is normalized before solving, so t is a world distance.
// A root is rejected when the surface normal at the hit faces along the ray,
// which filters exit-face hits for rays that start on or inside the sphere.
func (s *Sphere) Hit(ray core.Ray) (float64, bool) {
	l := ray.Direction.Normalize()
	oc := ray.Origin.Subtract(s.Center)

	b := l.Dot(oc)
	discriminant := b*b - oc.LengthSquared() + s.Radius*s.Radius
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t := -b - sqrtD
	if t < 0 {
		t = -b + sqrtD
		if t < 0 {
			return 0, false
		}
	}

	hit := ray.Origin.Add(l.Multiply(t))
	if hit.Subtract(s.Center).Dot(l) > 0 {
		return 0, false
	}

	return t, true
}

// NormalAt returns the outward unit normal at a point on the surface
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Multiply(1.0 / s.Radius)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return core.NewAABBFromSphere(s.Center, s.Radius)
}
