package renderer

import (
	"math/rand"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// RayGenerator turns pixel indices into primary rays for one camera snapshot.
// It is read-only after construction and shared by every worker in a frame.
type RayGenerator struct {
	width, height int
	position      core.Vec3
	rotation      core.Rotation
	planeSize     float64 // 2·tan(fov/2)
	pixelSize     float64 // anti-aliasing jitter extent
	jitterSize    float64 // aperture jitter radius
}

// NewRayGenerator precomputes the rotation and jitter sizes for a camera
func NewRayGenerator(cam scene.Camera, width, height int) *RayGenerator {
	planeSize := cam.ImagePlaneSize()
	return &RayGenerator{
		width:      width,
		height:     height,
		position:   cam.Position,
		rotation:   cam.RotationMatrix(),
		planeSize:  planeSize,
		pixelSize:  1 / float64(width) * planeSize / 2,
		jitterSize: cam.ApertureRadius * 2 * (1 - 1/(cam.FocalLength+0.5)),
	}
}

// PlanePoint maps pixel coordinates to the camera-space image plane at y = 1.
// Pixels are square: both axes are scaled by the width.
func (g *RayGenerator) PlanePoint(x, y float64) core.Vec3 {
	w := float64(g.width)
	h := float64(g.height)
	u := (x/w - 0.5) * g.planeSize
	v := ((h/2 - y) / w) * g.planeSize
	return core.NewVec3(u, 1, v)
}

// GenerateRay returns a jittered primary ray for pixel index i
func (g *RayGenerator) GenerateRay(i int, random *rand.Rand) core.Ray {
	x := i % g.width
	y := i / g.width
	plane := g.PlanePoint(float64(x), float64(y))

	aa := core.NewVec3(
		core.SampleUniformRange(random, -g.pixelSize/2, g.pixelSize/2),
		0,
		core.SampleUniformRange(random, -g.pixelSize/2, g.pixelSize/2),
	)
	aperture := core.SampleUnitDisk(random).Multiply(g.jitterSize)

	origin := g.position.Add(g.rotation.Apply(aperture.Add(aa)))
	direction := g.rotation.Apply(plane.Subtract(aperture).Add(aa)).Normalize()
	return core.NewRay(origin, direction)
}

// PixelRay returns the unjittered ray through image position (x, y)
func (g *RayGenerator) PixelRay(x, y float64) core.Ray {
	plane := g.PlanePoint(x, y)
	return core.NewRay(g.position, g.rotation.Apply(plane).Normalize())
}

// CenterRay returns the unjittered ray through the middle of the image
func (g *RayGenerator) CenterRay() core.Ray {
	return g.PixelRay(float64(g.width)/2, float64(g.height)/2)
}

// JitterSize returns the aperture jitter radius
func (g *RayGenerator) JitterSize() float64 {
	return g.jitterSize
}

// PixelSize returns the anti-aliasing jitter extent
func (g *RayGenerator) PixelSize() float64 {
	return g.pixelSize
}
