package geometry

import (
	"math"

	"github.com/df07/go-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Point3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Point3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !inRange(root, tMin, tMax) {
		root = (-halfB + sqrtD) / a
		if !inRange(root, tMin, tMax) {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{
		T:     root,
		Point: ray.At(root),
	}

	// Outward normal (from center to hit point)
	outwardNormal := rec.Point.Subtract(s.Center).Divide(s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)

	return rec, true
}

// BoundingBox returns the axis-aligned box enclosing the sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := math.Abs(s.Radius)
	return core.NewAABB(
		s.Center.Subtract(core.NewVec3(r, r, r)),
		s.Center.Add(core.NewVec3(r, r, r)),
	)
}
