package renderer

import (
	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// Accumulator sums squared samples per pixel across frames.
// Workers write disjoint pixel ranges, so Add needs no locking.
type Accumulator struct {
	width, height int
	sum           []core.Vec3
	SampleCount   int // frames accumulated since the last reset
}

// NewAccumulator creates an empty buffer for a width×height image
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		width:  width,
		height: height,
		sum:    make([]core.Vec3, width*height),
	}
}

// Add accumulates the squared sample for pixel i
func (a *Accumulator) Add(i int, sample core.Vec3) {
	a.sum[i] = a.sum[i].Add(sample.Square())
}

// EndFrame marks one more sample per pixel as complete
func (a *Accumulator) EndFrame() {
	a.SampleCount++
}

// Reset zeroes the sums and the sample count
func (a *Accumulator) Reset() {
	clear(a.sum)
	a.SampleCount = 0
}

// Color returns the tone-mapped color for pixel i: clamp(sqrt(sum/n), 0, 1)
func (a *Accumulator) Color(i int) core.Vec3 {
	if a.SampleCount == 0 {
		return core.Vec3{}
	}
	return a.sum[i].Multiply(1 / float64(a.SampleCount)).Sqrt().Clamp(0, 1)
}

// Sum returns the raw squared sum for pixel i
func (a *Accumulator) Sum(i int) core.Vec3 {
	return a.sum[i]
}

// ToneMap writes packed colors for every pixel into dst
func (a *Accumulator) ToneMap(dst []uint32) {
	for i := range a.sum {
		if a.SampleCount == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = Pack(a.Color(i))
	}
}

// Len returns the number of pixels
func (a *Accumulator) Len() int {
	return len(a.sum)
}
