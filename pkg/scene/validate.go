package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// ErrInvalidScene marks every problem reported by Validate
var ErrInvalidScene = errors.New("invalid scene")

// Validate reports defects the kernel does not guard against: non-positive
// radii, duplicate or reserved ids, broken wormhole pairs and camera values
// that produce NaN or divide by near zero. It never modifies the scene.
func (s *Scene) Validate() error {
	var errs []error
	report := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...)))
	}

	seen := make(map[core.ObjectID]bool, len(s.Spheres))
	for i, sphere := range s.Spheres {
		if sphere == nil {
			report("sphere %d is null", i)
			continue
		}
		if sphere.ID == core.NoObject {
			report("sphere %d uses reserved id 0", i)
		}
		if seen[sphere.ID] {
			report("duplicate sphere id %d", sphere.ID)
		}
		seen[sphere.ID] = true
		if !(sphere.Radius > 0) {
			report("sphere %d has non-positive radius %g", sphere.ID, sphere.Radius)
		}
		if sphere.Center.IsNaN() {
			report("sphere %d has a NaN center", sphere.ID)
		}
	}

	for _, sphere := range s.Spheres {
		if sphere == nil || sphere.Material.Wormhole == nil || !sphere.Material.Wormhole.IsWormhole {
			continue
		}
		params := sphere.Material.Wormhole
		partner, ok := s.FindSphere(params.OtherEnd)
		if !ok {
			report("wormhole %d links to missing sphere %d", sphere.ID, params.OtherEnd)
			continue
		}
		pp := partner.Material.Wormhole
		if pp == nil || !pp.IsWormhole || pp.OtherEnd != sphere.ID {
			report("wormhole %d is not linked back from %d", sphere.ID, partner.ID)
			continue
		}
		if pp.Offset.Add(params.Offset).Length() > 1e-9 {
			report("wormhole %d and %d offsets are not opposite", sphere.ID, partner.ID)
		}
	}

	cam := s.Camera
	if cam.Position.IsNaN() || cam.Rotation.IsNaN() {
		report("camera has NaN position or rotation")
	}
	if !(cam.FOV > 0 && cam.FOV < 180) {
		report("camera fov %g outside (0, 180)", cam.FOV)
	}
	if math.Abs(cam.FocalLength+0.5) < 1e-6 {
		report("camera focal length %g makes the lens jitter divide by zero", cam.FocalLength)
	}
	if cam.ApertureRadius < 0 {
		report("camera aperture %g is negative", cam.ApertureRadius)
	}

	return errors.Join(errs...)
}
