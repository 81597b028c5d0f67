package scene

import (
	"math"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/lights"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
)

// Camera is a thin-lens camera looking down +Y with +Z up.
// Rotation holds pitch (X), roll (Y) and yaw (Z) in radians, composed Z·Y·X.
type Camera struct {
	Position       core.Vec3 `json:"position"`
	Rotation       core.Vec3 `json:"rotation"`
	FOV            float64   `json:"fov"`            // degrees
	FocalLength    float64   `json:"focalLength"`    // distance to the focus plane
	ApertureRadius float64   `json:"apertureRadius"` // lens size
}

// RotationMatrix returns the composed rotation for the camera angles
func (c Camera) RotationMatrix() core.Rotation {
	return core.NewRotation(c.Rotation)
}

// ImagePlaneSize returns 2·tan(fov/2)
func (c Camera) ImagePlaneSize() float64 {
	return 2 * math.Tan(c.FOV*math.Pi/180/2)
}

// Line is a static wireframe segment drawn by the overlay
type Line struct {
	From  core.Vec3 `json:"from"`
	To    core.Vec3 `json:"to"`
	Color core.Vec3 `json:"color"`
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Group       string             `json:"group,omitempty"`
	Camera      Camera             `json:"camera"`
	Spheres     []*geometry.Sphere `json:"spheres"`
	Sky         lights.Sky         `json:"sky"`
	Wireframes  []Line             `json:"wireframes,omitempty"`
}

// Snapshot returns a copy of the scene safe to read while the original camera
// is mutated. Spheres are shared because the sphere set never changes during a run.
func (s *Scene) Snapshot() *Scene {
	snap := *s
	snap.Spheres = append([]*geometry.Sphere(nil), s.Spheres...)
	snap.Wireframes = append([]Line(nil), s.Wireframes...)
	return &snap
}

// FindSphere returns the sphere with the given id
func (s *Scene) FindSphere(id core.ObjectID) (*geometry.Sphere, bool) {
	for _, sphere := range s.Spheres {
		if sphere.ID == id {
			return sphere, true
		}
	}
	return nil, false
}

// WorldObjects returns the spheres as bounded world objects
func (s *Scene) WorldObjects() []geometry.WorldObject {
	objects := make([]geometry.WorldObject, len(s.Spheres))
	for i, sphere := range s.Spheres {
		objects[i] = sphere
	}
	return objects
}

// NextID returns an id larger than every sphere id in the scene
func (s *Scene) NextID() core.ObjectID {
	next := core.ObjectID(1)
	for _, sphere := range s.Spheres {
		if sphere.ID >= next {
			next = sphere.ID + 1
		}
	}
	return next
}

// NewWormholePair creates two linked portal spheres. The exit sits at
// center+offset and each end stores the other's id and the opposite offset.
func NewWormholePair(entryID, exitID core.ObjectID, center core.Vec3, radius float64, offset core.Vec3) (*geometry.Sphere, *geometry.Sphere) {
	entry := geometry.NewSphere(entryID, center, radius, material.NewWormhole(offset, exitID))
	exit := geometry.NewSphere(exitID, center.Add(offset), radius, material.NewWormhole(offset.Negate(), entryID))
	return entry, exit
}

// AddWormholePair appends a new portal pair using fresh ids
func (s *Scene) AddWormholePair(center core.Vec3, radius float64, offset core.Vec3) (*geometry.Sphere, *geometry.Sphere) {
	entryID := s.NextID()
	entry, exit := NewWormholePair(entryID, entryID+1, center, radius, offset)
	s.Spheres = append(s.Spheres, entry, exit)
	return entry, exit
}
