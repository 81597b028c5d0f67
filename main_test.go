package main

import (
	"context"
	"errors"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		sceneType string
	}{
		{"default scene", "default"},
		{"furnace scene", "furnace"},
		{"portal gallery scene", "portal-gallery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := []string{
				"-scene", tt.sceneType,
				"-width", "12", "-height", "8",
				"-frames", "2", "-workers", "2",
				"-output", dir,
			}
			location, err := run(context.Background(), args, core.NopLogger{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.HasPrefix(location, filepath.Join(dir, tt.sceneType)) {
				t.Errorf("Expected output under %s, got %s", filepath.Join(dir, tt.sceneType), location)
			}

			file, err := os.Open(location)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()
			img, err := png.Decode(file)
			if err != nil {
				t.Fatalf("Invalid PNG: %v", err)
			}
			if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
				t.Errorf("Expected 12x8 image, got %v", img.Bounds())
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown scene", []string{"-scene", "nonexistent", "-output", dir}, scene.ErrUnknownScene},
		{"help", []string{"-help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(context.Background(), tt.args, core.NopLogger{}); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	args := []string{"-scene", "furnace", "-width", "4", "-height", "4", "-output", t.TempDir()}
	if _, err := run(ctx, args, core.NopLogger{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
