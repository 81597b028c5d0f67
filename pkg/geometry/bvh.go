package geometry

import (
	"math/rand"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// RetryMode controls what happens between split attempts that leave a side empty
type RetryMode int

const (
	// RetrySame recomputes the identical partition on every attempt
	RetrySame RetryMode = iota
	// RetryRotateAxis moves to the next axis before each retry
	RetryRotateAxis
)

// ChildMode controls which objects a split hands to its children
type ChildMode int

const (
	// ChildrenShareParent gives both children the full parent object list
	ChildrenShareParent ChildMode = iota
	// ChildrenPartitioned gives each child only its side of the split
	ChildrenPartitioned
)

// BVHOptions configures hierarchy construction
type BVHOptions struct {
	MaxLevel     int       // nodes at this level are always leaves
	SplitRetries int       // extra attempts after an empty-sided split
	Retry        RetryMode // behavior between attempts
	Children     ChildMode // object lists handed to children
}

// DefaultBVHOptions returns the standard construction rules
func DefaultBVHOptions() BVHOptions {
	return BVHOptions{
		MaxLevel:     6,
		SplitRetries: 3,
		Retry:        RetrySame,
		Children:     ChildrenShareParent,
	}
}

// BoundingVolume is one node of the debug hierarchy.
// Bounds holds the eight box corners in core.AABB.Corners order.
type BoundingVolume struct {
	Bounds  [8]core.Vec3
	Objects []WorldObject
	Left    *BoundingVolume
	Right   *BoundingVolume
	Level   int
	Axis    int // axis of the last split attempt
}

// IsLeaf reports whether the node has no children
func (bv *BoundingVolume) IsLeaf() bool {
	return bv.Left == nil && bv.Right == nil
}

// Box returns the node bounds as min/max
func (bv *BoundingVolume) Box() core.AABB {
	return core.AABBFromCorners(bv.Bounds)
}

// Walk visits the tree depth-first, children before their parent, calling fn
// for every node whose level is at least drawLevel
func (bv *BoundingVolume) Walk(drawLevel int, fn func(node *BoundingVolume)) {
	if bv == nil {
		return
	}
	bv.Left.Walk(drawLevel, fn)
	bv.Right.Walk(drawLevel, fn)
	if bv.Level >= drawLevel {
		fn(bv)
	}
}

// BuildBVH builds the debug hierarchy over objects starting at level.
// The caller's slice is never reordered.
func BuildBVH(objects []WorldObject, level int, opts BVHOptions) *BoundingVolume {
	if len(objects) == 0 {
		return nil
	}
	own := make([]WorldObject, len(objects))
	copy(own, objects)
	return buildNode(own, level, opts)
}

func buildNode(objects []WorldObject, level int, opts BVHOptions) *BoundingVolume {
	box := Bounds(objects)
	node := &BoundingVolume{
		Bounds:  box.Corners(),
		Objects: objects,
		Level:   level,
		Axis:    level % 3,
	}

	if len(objects) <= 1 || level >= opts.MaxLevel {
		return node
	}

	split := -1
	axis := node.Axis
	for attempt := 0; attempt <= opts.SplitRetries; attempt++ {
		node.Axis = axis
		n := partition(objects, axis, splitMidpoint(box, axis))
		if n > 0 && n < len(objects) {
			split = n
			break
		}
		if opts.Retry == RetryRotateAxis {
			axis = (axis + 1) % 3
		}
	}
	if split < 0 {
		return node
	}

	var left, right []WorldObject
	switch opts.Children {
	case ChildrenPartitioned:
		left = cloneObjects(objects[:split])
		right = cloneObjects(objects[split:])
	default:
		left = cloneObjects(objects)
		right = cloneObjects(objects)
	}

	node.Left = buildNode(left, level+1, opts)
	node.Right = buildNode(right, level+1, opts)
	return node
}

// Bounds returns the box covering center ± radius of every object
func Bounds(objects []WorldObject) core.AABB {
	box := core.NewAABBFromSphere(objects[0].GetCenter(), objects[0].GetRadius())
	for _, obj := range objects[1:] {
		box = box.Union(core.NewAABBFromSphere(obj.GetCenter(), obj.GetRadius()))
	}
	return box
}

// splitMidpoint is half the box extent along axis measured from its minimum
// corner. It is compared against world coordinates, so it is not the box center
// unless the box starts at the origin.
func splitMidpoint(box core.AABB, axis int) float64 {
	return (box.Max.Axis(axis) - box.Min.Axis(axis)) / 2
}

// partition moves objects whose far extent lies past midpoint to the front
// and returns how many there are
func partition(objects []WorldObject, axis int, midpoint float64) int {
	i := 0
	for j, obj := range objects {
		if obj.GetCenter().Axis(axis)+obj.GetRadius() > midpoint {
			objects[i], objects[j] = objects[j], objects[i]
			i++
		}
	}
	return i
}

func cloneObjects(objects []WorldObject) []WorldObject {
	out := make([]WorldObject, len(objects))
	copy(out, objects)
	return out
}

type bvhStats struct {
	totalNodes int
	leafNodes  int
	maxDepth   int
}

func (bv *BoundingVolume) getStats() bvhStats {
	var stats bvhStats
	bv.Walk(0, func(node *BoundingVolume) {
		stats.totalNodes++
		if node.IsLeaf() {
			stats.leafNodes++
		}
		if node.Level > stats.maxDepth {
			stats.maxDepth = node.Level
		}
	})
	return stats
}

// LevelHue returns a hue in [0, 1) for drawing nodes at the given level.
// The same level always gets the same hue.
func LevelHue(level int) float64 {
	return rand.New(rand.NewSource(int64(level) + 1)).Float64()
}
