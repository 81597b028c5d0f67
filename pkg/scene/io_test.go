package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-wormhole-raytracer/pkg/material"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	original := NewDefaultScene(7)
	path := filepath.Join(t.TempDir(), "nested", "default.json")

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	logger := &recordingLogger{}
	loaded, err := Load(path, logger)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(logger.lines) != 0 {
		t.Errorf("Expected no warnings, got %v", logger.lines)
	}

	if loaded.Camera != original.Camera {
		t.Errorf("Camera mismatch: %+v vs %+v", loaded.Camera, original.Camera)
	}
	if len(loaded.Spheres) != len(original.Spheres) {
		t.Fatalf("Expected %d spheres, got %d", len(original.Spheres), len(loaded.Spheres))
	}

	entry, ok := loaded.FindSphere(3)
	if !ok || entry.Material.Kind() != material.KindWormhole {
		t.Fatalf("Expected wormhole entry to survive the round trip")
	}
	if entry.Material.Wormhole.Offset != DefaultWormholeOffset {
		t.Errorf("Expected offset %v, got %v", DefaultWormholeOffset, entry.Material.Wormhole.Offset)
	}
	if loaded.Sky != original.Sky {
		t.Errorf("Sky mismatch: %+v vs %+v", loaded.Sky, original.Sky)
	}
}

func TestLoad_WarnsOnInvalidScene(t *testing.T) {
	s := NewFurnaceScene()
	s.Spheres[0].Radius = 0
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := Save(s, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	logger := &recordingLogger{}
	loaded, err := Load(path, logger)
	if err != nil {
		t.Fatalf("Expected invalid scene to load, got %v", err)
	}
	if loaded.Spheres[0].Radius != 0 {
		t.Errorf("Expected radius to be kept as loaded")
	}
	if len(logger.lines) != 1 || !strings.Contains(logger.lines[0], "non-positive radius") {
		t.Errorf("Expected one radius warning, got %v", logger.lines)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"spheres": [], "bogus": 1}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(bad, &recordingLogger{}); err == nil {
		t.Error("Expected unknown field to fail decoding")
	}
	if _, err := Load(filepath.Join(dir, "missing.json"), &recordingLogger{}); err == nil {
		t.Error("Expected missing file to fail")
	}
}

func TestLoad_NameFromFile(t *testing.T) {
	s := NewFurnaceScene()
	s.Name = ""
	path := filepath.Join(t.TempDir(), "my-room.json")
	if err := Save(s, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path, &recordingLogger{})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "my-room" {
		t.Errorf("Expected name from file, got %q", loaded.Name)
	}
}
