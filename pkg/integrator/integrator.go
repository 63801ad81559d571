package integrator

import (
	"math/rand"

	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray, following at most
	// depth bounces through world
	RayColor(ray core.Ray, world geometry.Hittable, depth int, random *rand.Rand) core.Color
}

// Background is the radiance seen by rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Color
}
