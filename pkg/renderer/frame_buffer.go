package renderer

import (
	"fmt"
	"image"
	"sync"
)

// FrameBuffer is a DisplaySink that keeps the latest frame for a window to pull.
// Display runs on the render goroutine, the copy methods on the UI goroutine.
type FrameBuffer struct {
	mu      sync.Mutex
	pixels  []uint32
	width   int
	height  int
	version uint64
}

// Display stores a copy of pixels as the latest frame
func (fb *FrameBuffer) Display(pixels []uint32, width, height int) error {
	if len(pixels) != width*height {
		return fmt.Errorf("frame buffer: %d pixels for %dx%d", len(pixels), width, height)
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.pixels = append(fb.pixels[:0], pixels...)
	fb.width, fb.height = width, height
	fb.version++
	return nil
}

// Version counts frames displayed so far
func (fb *FrameBuffer) Version() uint64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.version
}

// CopyRGBA writes the latest frame into dst as RGBA bytes if it is newer than seen.
// It returns the version copied and whether dst was written.
func (fb *FrameBuffer) CopyRGBA(dst []byte, seen uint64) (uint64, bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.version == seen || len(dst) < 4*len(fb.pixels) {
		return seen, false
	}
	for i, p := range fb.pixels {
		r, g, b := Unpack(p)
		dst[4*i] = r
		dst[4*i+1] = g
		dst[4*i+2] = b
		dst[4*i+3] = 0xff
	}
	return fb.version, true
}

// Image returns the latest frame, or nil before the first Display
func (fb *FrameBuffer) Image() *image.RGBA {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.version == 0 {
		return nil
	}
	return ToRGBA(fb.pixels, fb.width, fb.height)
}
