package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is a composed camera rotation matrix
type Rotation struct {
	m mgl64.Mat3
}

// NewRotation builds the Z·Y·X rotation for the given angles in radians.
// angles.X is pitch, angles.Y is roll and angles.Z is yaw.
func NewRotation(angles Vec3) Rotation {
	m := mgl64.Rotate3DZ(angles.Z).
		Mul3(mgl64.Rotate3DY(angles.Y)).
		Mul3(mgl64.Rotate3DX(angles.X))
	return Rotation{m: m}
}

// IdentityRotation returns a rotation that leaves vectors unchanged
func IdentityRotation() Rotation {
	return Rotation{m: mgl64.Ident3()}
}

// Apply rotates v
func (r Rotation) Apply(v Vec3) Vec3 {
	out := r.m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return Vec3{X: out[0], Y: out[1], Z: out[2]}
}

// Matrix exposes the underlying matrix for projection code
func (r Rotation) Matrix() mgl64.Mat3 {
	return r.m
}

// Rotate applies the Z·Y·X rotation described by angles to v
func (v Vec3) Rotate(angles Vec3) Vec3 {
	return NewRotation(angles).Apply(v)
}
