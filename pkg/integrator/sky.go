package integrator

import "github.com/df07/go-raytracer/pkg/core"

// SkyGradient blends vertically from Horizon (looking straight down) to
// Zenith (looking straight up). It is the only light in the scene.
type SkyGradient struct {
	Horizon core.Color
	Zenith  core.Color
}

// DefaultSky is white at the bottom fading to light blue at the top
var DefaultSky = SkyGradient{
	Horizon: core.NewColor(1.0, 1.0, 1.0),
	Zenith:  core.NewColor(0.5, 0.7, 1.0),
}

// Color implements Background. The ray direction must be non-zero.
func (s SkyGradient) Color(ray core.Ray) core.Color {
	unitDirection := core.UnitVector(ray.Direction)
	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return s.Horizon.Multiply(1.0 - t).Add(s.Zenith.Multiply(t))
}

// Sky evaluates DefaultSky
func Sky(ray core.Ray) core.Color {
	return DefaultSky.Color(ray)
}
