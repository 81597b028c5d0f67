package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// Decode reads a scene from JSON
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &s, nil
}

// Load reads a scene file and validates it. Validation problems are logged as
// warnings rather than returned, matching how the kernel treats them.
func Load(path string, logger core.Logger) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene %s: %w", path, err)
	}
	defer file.Close()

	s, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = sceneName(path)
	}

	if err := s.Validate(); err != nil {
		logger.Printf("Warning: scene %s: %v", path, err)
	}
	return s, nil
}

// Save writes a scene as indented JSON, creating parent directories
func Save(s *Scene, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create scene directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	return nil
}
