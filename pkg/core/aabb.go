package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromSphere creates the AABB covering center ± radius
func NewAABBFromSphere(center Vec3, radius float64) AABB {
	r := NewVec3(radius, radius, radius)
	return AABB{Min: center.Subtract(r), Max: center.Add(r)}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(aabb.Min.X, other.Min.X),
			Y: math.Min(aabb.Min.Y, other.Min.Y),
			Z: math.Min(aabb.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			X: math.Max(aabb.Max.X, other.Max.X),
			Y: math.Max(aabb.Max.Y, other.Max.Y),
			Z: math.Max(aabb.Max.Z, other.Max.Z),
		},
	}
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Contains reports whether other lies entirely inside this box
func (aabb AABB) Contains(other AABB) bool {
	const eps = 1e-9
	return other.Min.X >= aabb.Min.X-eps && other.Min.Y >= aabb.Min.Y-eps && other.Min.Z >= aabb.Min.Z-eps &&
		other.Max.X <= aabb.Max.X+eps && other.Max.Y <= aabb.Max.Y+eps && other.Max.Z <= aabb.Max.Z+eps
}

// Corners returns the eight corner points of the box in the order
// bottom face (z=min) then top face (z=max), each as
// (minX,minY) (minX,maxY) (maxX,minY) (maxX,maxY).
func (aabb AABB) Corners() [8]Vec3 {
	lo, hi := aabb.Min, aabb.Max
	return [8]Vec3{
		{lo.X, lo.Y, lo.Z},
		{lo.X, hi.Y, lo.Z},
		{hi.X, lo.Y, lo.Z},
		{hi.X, hi.Y, lo.Z},
		{lo.X, lo.Y, hi.Z},
		{lo.X, hi.Y, hi.Z},
		{hi.X, lo.Y, hi.Z},
		{hi.X, hi.Y, hi.Z},
	}
}

// AABBFromCorners recovers the box from a corner array produced by Corners
func AABBFromCorners(corners [8]Vec3) AABB {
	return AABB{Min: corners[0], Max: corners[7]}
}

// CubeEdges lists the twelve edges of a box as index pairs into Corners
var CubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // bottom
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // top
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // verticals
}
