package snapshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

var fixedTime = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func TestEncode(t *testing.T) {
	data, err := Encode(testImage(8, 4))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
}

func TestScale(t *testing.T) {
	src := testImage(20, 10)
	if Scale(src, 0) != image.Image(src) || Scale(src, 20) != image.Image(src) {
		t.Error("Expected unchanged image for zero or matching width")
	}
	scaled := Scale(src, 10)
	if scaled.Bounds().Dx() != 10 || scaled.Bounds().Dy() != 5 {
		t.Errorf("Expected 10x5, got %v", scaled.Bounds())
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(fixedTime); got != "render_20240305_140709.png" {
		t.Errorf("Unexpected file name %q", got)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, core.NopLogger{})
	store.Now = func() time.Time { return fixedTime }

	path, err := store.Save(context.Background(), "default", []byte("png"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	expected := filepath.Join(dir, "default", "render_20240305_140709.png")
	if path != expected {
		t.Errorf("Expected %s, got %s", expected, path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png" {
		t.Errorf("Unexpected file contents %q (%v)", data, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Save(ctx, "default", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = input
	f.body, _ = io.ReadAll(input.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, S3Options{Bucket: "renders-bucket"}, nil)
	store.now = func() time.Time { return fixedTime }

	location, err := store.Save(context.Background(), "portal-gallery", []byte("image"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if location != "s3://renders-bucket/renders/portal-gallery/render_20240305_140709.png" {
		t.Errorf("Unexpected location %s", location)
	}
	if aws.StringValue(client.input.ContentType) != "image/png" ||
		aws.Int64Value(client.input.ContentLength) != 5 ||
		string(client.body) != "image" {
		t.Errorf("Unexpected upload %+v", client.input)
	}

	client.err = errors.New("denied")
	if _, err := store.Save(context.Background(), "x", nil); !errors.Is(err, client.err) {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(S3Options{}, t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("Expected FileStore without a bucket, got %T", store)
	}

	store, err = NewStore(S3Options{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}, "", nil)
	if err != nil {
		t.Fatalf("NewStore with bucket failed: %v", err)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Errorf("Expected S3Store with a bucket, got %T", store)
	}
}

func TestTake(t *testing.T) {
	if _, err := Take(context.Background(), nil, "default", testImage(2, 2), 0); !errors.Is(err, ErrNoStore) {
		t.Errorf("Expected ErrNoStore, got %v", err)
	}

	dir := t.TempDir()
	path, err := Take(context.Background(), NewFileStore(dir, nil), "furnace", testImage(16, 8), 4)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if !strings.HasPrefix(path, filepath.Join(dir, "furnace")) {
		t.Errorf("Unexpected path %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil || cfg.Width != 4 || cfg.Height != 2 {
		t.Errorf("Expected 4x2 PNG, got %dx%d (%v)", cfg.Width, cfg.Height, err)
	}
}
