package overlay

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// Canvas draws projected 3D lines onto an image
type Canvas struct {
	dc        *gg.Context
	projector *Projector
	lines     int
}

// NewCanvas wraps img so lines are drawn directly into its pixels
func NewCanvas(img *image.RGBA, cam scene.Camera) *Canvas {
	bounds := img.Bounds()
	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(1)
	return &Canvas{
		dc:        dc,
		projector: NewProjector(cam, bounds.Dx(), bounds.Dy()),
	}
}

// Line draws a world-space segment. Segments with an end behind the camera are skipped.
func (c *Canvas) Line(from, to, color core.Vec3) bool {
	x1, y1, ok1 := c.projector.Project(from)
	x2, y2, ok2 := c.projector.Project(to)
	if !ok1 || !ok2 {
		return false
	}
	c.dc.SetRGB(color.X, color.Y, color.Z)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
	c.lines++
	return true
}

// Cube draws the twelve edges of a box given as eight corners
func (c *Canvas) Cube(corners [8]core.Vec3, color core.Vec3) {
	for _, edge := range core.CubeEdges {
		c.Line(corners[edge[0]], corners[edge[1]], color)
	}
}

// LinesDrawn returns how many segments were visible
func (c *Canvas) LinesDrawn() int {
	return c.lines
}

// DrawWireframes draws the scene's static lines
func (c *Canvas) DrawWireframes(lines []scene.Line) {
	for _, line := range lines {
		c.Line(line.From, line.To, line.Color)
	}
}

// DrawBVH draws every node at or below drawLevel as a cube colored by its level
func (c *Canvas) DrawBVH(root *geometry.BoundingVolume, drawLevel int) {
	root.Walk(drawLevel, func(node *geometry.BoundingVolume) {
		c.Cube(node.Bounds, HSV(geometry.LevelHue(node.Level), 1, 1))
	})
}

// ResolveDrawLevel returns level, or the camera height when level is negative
func ResolveDrawLevel(level int, cam scene.Camera) int {
	if level < 0 {
		return int(cam.Position.Z)
	}
	return level
}

// HSV converts hue, saturation and value in [0,1] to RGB
func HSV(h, s, v float64) core.Vec3 {
	h = math.Mod(h, 1) * 6
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(i) {
	case 0:
		return core.NewVec3(v, t, p)
	case 1:
		return core.NewVec3(q, v, p)
	case 2:
		return core.NewVec3(p, v, t)
	case 3:
		return core.NewVec3(p, q, v)
	case 4:
		return core.NewVec3(t, p, v)
	default:
		return core.NewVec3(v, p, q)
	}
}

// Draw renders the wireframes and the hierarchy for one frame
func Draw(img *image.RGBA, s *scene.Scene, root *geometry.BoundingVolume, drawLevel int) int {
	canvas := NewCanvas(img, s.Camera)
	canvas.DrawWireframes(s.Wireframes)
	if root != nil {
		canvas.DrawBVH(root, ResolveDrawLevel(drawLevel, s.Camera))
	}
	return canvas.LinesDrawn()
}
