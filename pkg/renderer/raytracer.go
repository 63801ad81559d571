package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/geometry"
	"github.com/df07/go-raytracer/pkg/integrator"
)

var (
	// ErrImageTooSmall is returned for images narrower or shorter than two
	// pixels, which leave the jitter divisor at zero
	ErrImageTooSmall = errors.New("image must be at least 2x2 pixels")
	// ErrNoSamples is returned when fewer than one sample per pixel is requested
	ErrNoSamples = errors.New("samples per pixel must be positive")
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Hittable
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	random     *rand.Rand
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		random:     rand.New(rand.NewSource(42)), // Deterministic for testing
		integrator: integrator.NewPathTracingIntegrator(),
		logger:     core.NopLogger{},
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetRandom replaces the random source used for jitter and bounces
func (rt *Raytracer) SetRandom(random *rand.Rand) {
	rt.random = random
}

// SetIntegrator replaces the color estimator
func (rt *Raytracer) SetIntegrator(integrator integrator.Integrator) {
	rt.integrator = integrator
}

// SetLogger sets the sink for scanline progress
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

// Render traces every pixel top scanline first and returns the summed samples.
// Cancellation is checked between scanlines.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	stats := RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		MaxDepth:        rt.config.MaxDepth,
	}
	if rt.width < 2 || rt.height < 2 {
		return nil, stats, fmt.Errorf("%dx%d: %w", rt.width, rt.height, ErrImageTooSmall)
	}
	if rt.config.SamplesPerPixel < 1 {
		return nil, stats, fmt.Errorf("%d: %w", rt.config.SamplesPerPixel, ErrNoSamples)
	}

	fb := NewFramebuffer(rt.width, rt.height, rt.config.SamplesPerPixel)
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()
	startTime := time.Now()

	for j := rt.height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("render interrupted with %d scanlines remaining: %w", j+1, err)
		}
		rt.logger.Printf("Scanlines remaining: %d", j)

		for i := 0; i < rt.width; i++ {
			fb.Set(i, j, rt.samplePixel(camera, world, i, j))
		}
		stats.TotalPixels += rt.width
	}

	stats.TotalSamples = stats.TotalPixels * rt.config.SamplesPerPixel
	stats.Elapsed = time.Since(startTime)
	return fb, stats, nil
}

// samplePixel sums SamplesPerPixel jittered samples for pixel (i, j)
func (rt *Raytracer) samplePixel(camera *Camera, world geometry.Hittable, i, j int) core.Color {
	colorAccum := core.Color{}
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		u := (float64(i) + rt.random.Float64()) / float64(rt.width-1)
		v := (float64(j) + rt.random.Float64()) / float64(rt.height-1)

		ray := camera.GetRay(u, v)
		colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, world, rt.config.MaxDepth, rt.random))
	}
	return colorAccum
}
