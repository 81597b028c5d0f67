package overlay

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

func litPixels(img *image.RGBA) int {
	count := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			count++
		}
	}
	return count
}

func TestCanvas_LineDrawsPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	canvas := NewCanvas(img, testCamera())

	if !canvas.Line(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 1)) {
		t.Fatal("Expected visible line to be drawn")
	}
	if litPixels(img) == 0 {
		t.Error("Expected line to change pixels")
	}
}

func TestCanvas_LineBehindCameraSkipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	canvas := NewCanvas(img, testCamera())

	if canvas.Line(core.NewVec3(0, -20, 0), core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)) {
		t.Error("Expected line crossing behind the camera to be skipped")
	}
	if canvas.LinesDrawn() != 0 || litPixels(img) != 0 {
		t.Error("Expected nothing drawn")
	}
}

func TestDraw_WireframesAndBVH(t *testing.T) {
	s := &scene.Scene{
		Camera:     testCamera(),
		Wireframes: scene.AxisWireframes(1),
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(1, core.NewVec3(1, 2, 0), 0.5, material.NewDiffuse(core.NewVec3(1, 0, 0))),
			geometry.NewSphere(2, core.NewVec3(3, 2, 1), 0.5, material.NewDiffuse(core.NewVec3(0, 1, 0))),
		},
	}
	root := geometry.BuildBVH(s.WorldObjects(), 0, geometry.DefaultBVHOptions())

	wireOnly := image.NewRGBA(image.Rect(0, 0, 64, 64))
	n := Draw(wireOnly, s, nil, 0)
	if n != 3 {
		t.Errorf("Expected 3 axis lines, drew %d", n)
	}

	withBVH := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if m := Draw(withBVH, s, root, 0); m <= n {
		t.Errorf("Expected hierarchy cubes to add lines, got %d vs %d", m, n)
	}
}

func TestResolveDrawLevel(t *testing.T) {
	cam := testCamera()
	cam.Position.Z = 2.7
	if got := ResolveDrawLevel(-1, cam); got != 2 {
		t.Errorf("Expected camera height 2, got %d", got)
	}
	if got := ResolveDrawLevel(4, cam); got != 4 {
		t.Errorf("Expected explicit level 4, got %d", got)
	}
}

func TestHSV(t *testing.T) {
	tests := []struct {
		h        float64
		expected core.Vec3
	}{
		{0, core.NewVec3(1, 0, 0)},
		{1.0 / 3, core.NewVec3(0, 1, 0)},
		{2.0 / 3, core.NewVec3(0, 0, 1)},
	}
	for _, tt := range tests {
		got := HSV(tt.h, 1, 1)
		if got.Subtract(tt.expected).Length() > 1e-9 {
			t.Errorf("HSV(%f) = %v, want %v", tt.h, got, tt.expected)
		}
	}
	grey := HSV(0.3, 0, 0.5)
	if math.Abs(grey.X-0.5) > 1e-9 || grey.X != grey.Y || grey.Y != grey.Z {
		t.Errorf("Expected zero saturation to give grey, got %v", grey)
	}
}
