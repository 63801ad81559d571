package renderer

import (
	"math"

	"github.com/df07/go-raytracer/pkg/core"
)

// DefaultAspectRatio is the width to height ratio of the default image
const DefaultAspectRatio = 16.0 / 9.0

// Camera generates rays for rendering
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// CameraConfig describes a camera placed with look-from/look-at vectors
type CameraConfig struct {
	LookFrom    core.Point3 // Eye position
	LookAt      core.Point3 // Point the camera looks towards
	Up          core.Vec3   // Approximate up direction
	VFov        float64     // Vertical field of view in degrees
	AspectRatio float64     // Width / height
}

// NewCamera creates the fixed camera at the origin looking down -Z with a
// viewport two units high and a focal length of one
func NewCamera(aspectRatio float64) *Camera {
	viewportHeight := 2.0
	viewportWidth := aspectRatio * viewportHeight
	focalLength := 1.0

	origin := core.NewVec3(0, 0, 0)
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, focalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// NewLookAtCamera creates a camera at config.LookFrom facing config.LookAt
func NewLookAtCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis: w points backwards, u right, v up
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          config.LookFrom,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// Origin returns the eye position
func (c *Camera) Origin() core.Point3 {
	return c.origin
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
