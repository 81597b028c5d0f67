package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// FileStore writes snapshots to <dir>/<scene>/render_<timestamp>.png
type FileStore struct {
	Dir    string
	Logger core.Logger
	Now    func() time.Time
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string, logger core.Logger) *FileStore {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &FileStore{Dir: dir, Logger: logger, Now: time.Now}
}

// Save writes data and returns the file path
func (fs *FileStore) Save(ctx context.Context, sceneName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	outputDir := filepath.Join(fs.Dir, sceneName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	filename := filepath.Join(outputDir, FileName(fs.Now()))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}

	fs.Logger.Printf("Render saved as %s\n", filename)
	return filename, nil
}
