package geometry

import (
	"math"

	"github.com/df07/go-raytracer/pkg/core"
)

// parallelEpsilon is the |D·N| below which a ray is treated as parallel to a surface
const parallelEpsilon = 1e-8

// Plane represents an infinite plane defined by a point and normal.
// The plane is one-sided: hits always report Normal, whichever side the ray
// arrives from.
type Plane struct {
	Point  core.Point3 // A point on the plane
	Normal core.Vec3   // Unit normal vector
}

// NewPlane creates a new plane. normal must not be the zero vector.
func NewPlane(point core.Point3, normal core.Vec3) *Plane {
	return &Plane{
		Point:  point,
		Normal: core.UnitVector(normal),
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < parallelEpsilon {
		return HitRecord{}, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !inRange(t, tMin, tMax) {
		return HitRecord{}, false
	}

	return HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    p.Normal,
		FrontFace: denominator < 0,
	}, true
}
