// Package config loads run settings from defaults, a .env file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/renderer"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
	"github.com/df07/go-wormhole-raytracer/pkg/snapshot"
)

// EnvPrefix is prepended to every environment key
const EnvPrefix = "WORMHOLE_"

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// S3Config holds object storage settings for snapshots
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether snapshots should go to S3
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Config contains every setting shared by the CLI, viewer and web server
type Config struct {
	Width  int
	Height int
	FOV    float64 // degrees; 0 keeps the scene camera's value

	MaxBounces         int
	MaxWormholeBounces int

	Workers     int
	RowsPerTask int
	Seed        int64
	Frames      int // frames rendered by the headless CLI

	Scene string // built-in id or path to a JSON scene

	Autofocus    bool
	Overlay      bool
	BVHDrawLevel int // negative means the camera height

	OutputDir     string
	SnapshotScale int // snapshot width in pixels; 0 keeps the render size

	Port int

	S3 S3Config
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	budgets := integrator.DefaultConfig()
	return Config{
		Width:              640,
		Height:             360,
		MaxBounces:         budgets.MaxBounces,
		MaxWormholeBounces: budgets.MaxWormholeBounces,
		Workers:            0,
		RowsPerTask:        8,
		Seed:               42,
		Frames:             64,
		Scene:              "default",
		Autofocus:          true,
		Overlay:            false,
		BVHDrawLevel:       -1,
		OutputDir:          "output",
		Port:               8080,
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Loader reads configuration layers
type Loader struct {
	// EnvFile is an optional .env path. A missing file is not an error.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(key string) (string, bool)
	Logger    core.Logger
}

// Load builds a Config from defaults, the .env file, the environment and args
func (l Loader) Load(name string, args []string) (Config, error) {
	logger := l.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	fileValues := map[string]string{}
	if l.EnvFile != "" {
		values, err := godotenv.Read(l.EnvFile)
		switch {
		case err == nil:
			fileValues = values
			logger.Printf("Loaded %d settings from %s\n", len(values), l.EnvFile)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read env file %s: %w", l.EnvFile, err)
		}
	}

	env := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := fileValues[EnvPrefix+key]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	if err := cfg.applyFlags(name, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads .env from the working directory, the environment and os.Args
func Load(logger core.Logger) (Config, error) {
	return Loader{EnvFile: ".env", Logger: logger}.Load(os.Args[0], os.Args[1:])
}

type envFunc func(key string) (string, bool)

func (c *Config) applyEnv(env envFunc) error {
	var errs []error
	intVar := func(key string, dst *int) {
		if v, ok := env(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	floatVar := func(key string, dst *float64) {
		if v, ok := env(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	boolVar := func(key string, dst *bool) {
		if v, ok := env(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	stringVar := func(key string, dst *string) {
		if v, ok := env(key); ok {
			*dst = v
		}
	}

	intVar("WIDTH", &c.Width)
	intVar("HEIGHT", &c.Height)
	floatVar("FOV", &c.FOV)
	intVar("MAX_BOUNCES", &c.MaxBounces)
	intVar("MAX_WORMHOLE_BOUNCES", &c.MaxWormholeBounces)
	intVar("WORKERS", &c.Workers)
	intVar("ROWS_PER_TASK", &c.RowsPerTask)
	if v, ok := env("SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = seed
		}
	}
	intVar("FRAMES", &c.Frames)
	stringVar("SCENE", &c.Scene)
	boolVar("AUTOFOCUS", &c.Autofocus)
	boolVar("OVERLAY", &c.Overlay)
	intVar("BVH_DRAW_LEVEL", &c.BVHDrawLevel)
	stringVar("OUTPUT_DIR", &c.OutputDir)
	intVar("SNAPSHOT_SCALE", &c.SnapshotScale)
	intVar("PORT", &c.Port)
	stringVar("S3_BUCKET", &c.S3.Bucket)
	stringVar("S3_REGION", &c.S3.Region)
	stringVar("S3_ENDPOINT", &c.S3.Endpoint)
	stringVar("S3_ACCESS_KEY", &c.S3.AccessKey)
	stringVar("S3_SECRET_KEY", &c.S3.SecretKey)

	return errors.Join(errs...)
}

// applyFlags parses args on top of the current values
func (c *Config) applyFlags(name string, args []string) error {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.IntVar(&c.Width, "width", c.Width, "Image width in pixels")
	flags.IntVar(&c.Height, "height", c.Height, "Image height in pixels")
	flags.Float64Var(&c.FOV, "fov", c.FOV, "Horizontal field of view in degrees (0 = scene camera)")
	flags.IntVar(&c.MaxBounces, "max-bounces", c.MaxBounces, "Surface bounce budget")
	flags.IntVar(&c.MaxWormholeBounces, "max-wormhole-bounces", c.MaxWormholeBounces, "Portal traversal budget")
	flags.IntVar(&c.Workers, "workers", c.Workers, "Number of parallel workers (0 = CPU count)")
	flags.IntVar(&c.RowsPerTask, "rows-per-task", c.RowsPerTask, "Image rows per worker task")
	flags.Int64Var(&c.Seed, "seed", c.Seed, "Random seed")
	flags.IntVar(&c.Frames, "frames", c.Frames, "Frames to accumulate before saving")
	flags.StringVar(&c.Scene, "scene", c.Scene, "Built-in scene id or path to a JSON scene")
	flags.BoolVar(&c.Autofocus, "autofocus", c.Autofocus, "Focus on the object under the image center")
	flags.BoolVar(&c.Overlay, "overlay", c.Overlay, "Draw the BVH and wireframe overlay")
	flags.IntVar(&c.BVHDrawLevel, "bvh-level", c.BVHDrawLevel, "Lowest BVH level drawn (negative = camera height)")
	flags.StringVar(&c.OutputDir, "output", c.OutputDir, "Directory for snapshots")
	flags.IntVar(&c.SnapshotScale, "snapshot-width", c.SnapshotScale, "Resize snapshots to this width (0 = render size)")
	flags.IntVar(&c.Port, "port", c.Port, "Web server port")
	flags.StringVar(&c.S3.Bucket, "s3-bucket", c.S3.Bucket, "Upload snapshots to this S3 bucket")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// Validate range-checks the configuration
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Width > 0 && c.Height > 0, "image size %dx%d", c.Width, c.Height)
	check(c.FOV >= 0 && c.FOV < 180, "fov %v outside [0, 180)", c.FOV)
	// Budgets above the kernel limits are clamped by the renderer
	check(c.MaxBounces >= 0, "max bounces %d is negative", c.MaxBounces)
	check(c.MaxWormholeBounces >= 0, "max wormhole bounces %d is negative", c.MaxWormholeBounces)
	check(c.Workers >= 0, "workers %d is negative", c.Workers)
	check(c.RowsPerTask > 0, "rows per task %d must be positive", c.RowsPerTask)
	check(c.Frames > 0, "frames %d must be positive", c.Frames)
	check(c.SnapshotScale >= 0, "snapshot width %d is negative", c.SnapshotScale)
	check(c.Port > 0 && c.Port < 65536, "port %d", c.Port)
	check(!c.S3.Enabled() || c.S3.Region != "", "s3 bucket %q needs a region", c.S3.Bucket)

	return errors.Join(errs...)
}

// Progressive converts the settings into renderer options
func (c Config) Progressive() renderer.ProgressiveConfig {
	pc := renderer.DefaultProgressiveConfig()
	pc.Width = c.Width
	pc.Height = c.Height
	pc.NumWorkers = c.Workers
	pc.RowsPerTask = c.RowsPerTask
	pc.Seed = c.Seed
	pc.Integrator = integrator.Config{
		MaxBounces:         c.MaxBounces,
		MaxWormholeBounces: c.MaxWormholeBounces,
	}
	pc.Autofocus = c.Autofocus
	pc.Overlay = c.Overlay
	pc.BVHDrawLevel = c.BVHDrawLevel
	return pc
}

// ApplyCamera overrides scene camera settings that were configured
func (c Config) ApplyCamera(cam *scene.Camera) {
	if c.FOV > 0 {
		cam.FOV = c.FOV
	}
}

// S3Options converts the S3 settings for the snapshot package
func (c Config) S3Options() snapshot.S3Options {
	return snapshot.S3Options{
		Bucket:    c.S3.Bucket,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	}
}

// SnapshotStore returns the store snapshots are written to
func (c Config) SnapshotStore(logger core.Logger) (snapshot.Store, error) {
	store, err := snapshot.NewStore(c.S3Options(), c.OutputDir, logger)
	if err != nil {
		return nil, fmt.Errorf("create snapshot store: %w", err)
	}
	return store, nil
}

// NewRenderer resolves the configured scene and starts a renderer for it.
// Scene files that fail validation are rendered anyway; scene.Load has
// already logged the problems.
func (c Config) NewRenderer(logger core.Logger) (*renderer.ProgressiveRenderer, error) {
	s, err := scene.Resolve(c.Scene, c.Seed, logger)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	c.ApplyCamera(&s.Camera)
	return renderer.NewProgressiveRenderer(s, c.Progressive(), logger)
}
