package overlay

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

const (
	nearPlane = 0.1
	farPlane  = 1000.0
)

// Projector maps world points to pixel coordinates using the same framing as
// the ray generator: the camera FOV is horizontal and pixels are square.
type Projector struct {
	viewProj      mgl64.Mat4
	width, height float64
}

// NewProjector builds the view and projection matrices for a camera
func NewProjector(cam scene.Camera, width, height int) *Projector {
	rot := cam.RotationMatrix()
	eye := toMgl(cam.Position)
	forward := toMgl(rot.Apply(core.NewVec3(0, 1, 0)))
	up := toMgl(rot.Apply(core.NewVec3(0, 0, 1)))

	w := float64(width)
	h := float64(height)
	halfFov := cam.FOV * math.Pi / 180 / 2
	fovy := 2 * math.Atan(math.Tan(halfFov)*h/w)

	view := mgl64.LookAtV(eye, eye.Add(forward), up)
	proj := mgl64.Perspective(fovy, w/h, nearPlane, farPlane)
	return &Projector{
		viewProj: proj.Mul4(view),
		width:    w,
		height:   h,
	}
}

// Project returns the pixel position of p. ok is false behind the camera.
func (p *Projector) Project(point core.Vec3) (x, y float64, ok bool) {
	clip := p.viewProj.Mul4x1(toMgl(point).Vec4(1))
	if clip.W() <= nearPlane {
		return 0, 0, false
	}
	nx := clip.X() / clip.W()
	ny := clip.Y() / clip.W()
	return (nx + 1) / 2 * p.width, (1 - ny) / 2 * p.height, true
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
