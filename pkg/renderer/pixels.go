package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// Pack converts a color in [0,1] to 0x00RRGGBB
func Pack(c core.Vec3) uint32 {
	c = c.Clamp(0, 1)
	r := uint32(c.X * 255)
	g := uint32(c.Y * 255)
	b := uint32(c.Z * 255)
	return r<<16 | g<<8 | b
}

// Unpack splits a packed pixel into its channels
func Unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// UnpackVec returns a packed pixel as a color in [0,1]
func UnpackVec(p uint32) core.Vec3 {
	r, g, b := Unpack(p)
	return core.NewVec3(float64(r)/255, float64(g)/255, float64(b)/255)
}

// ToRGBA copies a packed row-major buffer into an opaque RGBA image
func ToRGBA(pixels []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		r, g, b := Unpack(p)
		img.SetRGBA(i%width, i/width, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return img
}

// FromRGBA packs an RGBA image back into dst, ignoring alpha
func FromRGBA(img *image.RGBA, dst []uint32) {
	bounds := img.Bounds()
	width := bounds.Dx()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			dst[(y-bounds.Min.Y)*width+(x-bounds.Min.X)] = uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
		}
	}
}
