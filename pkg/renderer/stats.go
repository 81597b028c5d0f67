package renderer

import (
	"time"

	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
)

// FrameStats describes one completed frame
type FrameStats struct {
	Frame         int           // frames rendered since the renderer started
	SampleCount   int           // samples per pixel in the accumulator
	Duration      time.Duration // wall time of the frame
	MeanLuminance float64       // average tone-mapped luminance
	Mode          integrator.Mode
	Reset         bool // accumulation restarted this frame
}

// calculateAverageLuminance averages the luminance of packed pixels
func calculateAverageLuminance(pixels []uint32) float64 {
	if len(pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range pixels {
		total += UnpackVec(p).Luminance()
	}
	return total / float64(len(pixels))
}
