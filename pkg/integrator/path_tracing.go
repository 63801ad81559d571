package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/geometry"
)

const (
	// DefaultAlbedo is the fraction of light every surface reflects
	DefaultAlbedo = 0.5
	// DefaultTMin keeps bounce rays from re-hitting the surface they leave
	DefaultTMin = 0.001
)

// PathTracingIntegrator implements recursive diffuse path tracing under a
// background light
type PathTracingIntegrator struct {
	Albedo     float64
	TMin       float64
	Background Background
}

// NewPathTracingIntegrator creates an integrator with the default albedo,
// epsilon and sky
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{
		Albedo:     DefaultAlbedo,
		TMin:       DefaultTMin,
		Background: DefaultSky,
	}
}

var defaultIntegrator = NewPathTracingIntegrator()

// RayColor estimates radiance along ray with the default integrator
func RayColor(ray core.Ray, world geometry.Hittable, depth int, random *rand.Rand) core.Color {
	return defaultIntegrator.RayColor(ray, world, depth, random)
}

// RayColor implements Integrator
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, depth int, random *rand.Rand) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, pt.TMin, math.Inf(1))
	if !isHit {
		return pt.Background.Color(ray)
	}

	// Lambertian-style bounce: normal plus a random unit vector
	direction := hit.Normal.Add(core.RandomUnitVector(random))
	if direction.NearZero() {
		// The random vector cancelled the normal
		direction = hit.Normal
	}
	scattered := core.NewRay(hit.Point, direction)

	return pt.RayColor(scattered, world, depth-1, random).Multiply(pt.Albedo)
}
