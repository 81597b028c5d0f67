// Package snapshot encodes frames as PNG and stores them locally or in S3.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/nfnt/resize"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// ErrNoStore is returned when a snapshot is requested without a store
var ErrNoStore = errors.New("no snapshot store configured")

// Store persists encoded snapshots and returns where they were written
type Store interface {
	Save(ctx context.Context, sceneName string, data []byte) (string, error)
}

// Encode writes img as PNG
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Scale resizes img to width keeping the aspect ratio. A width of zero or
// the image's own width returns img unchanged.
func Scale(img image.Image, width int) image.Image {
	if width <= 0 || width == img.Bounds().Dx() {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Lanczos3)
}

// FileName returns the timestamped name used for a snapshot
func FileName(now time.Time) string {
	return fmt.Sprintf("render_%s.png", now.Format("20060102_150405"))
}

// Take scales, encodes and saves img
func Take(ctx context.Context, store Store, sceneName string, img image.Image, width int) (string, error) {
	if store == nil {
		return "", ErrNoStore
	}
	data, err := Encode(Scale(img, width))
	if err != nil {
		return "", err
	}
	location, err := store.Save(ctx, sceneName, data)
	if err != nil {
		return "", fmt.Errorf("save snapshot for %s: %w", sceneName, err)
	}
	return location, nil
}

// NewStore returns an S3 store when a bucket is configured, otherwise a
// FileStore rooted at dir
func NewStore(s3Opts S3Options, dir string, logger core.Logger) (Store, error) {
	if s3Opts.Bucket != "" {
		return NewS3Store(s3Opts, logger)
	}
	return NewFileStore(dir, logger), nil
}
