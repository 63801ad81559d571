package geometry

import "github.com/df07/go-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection.
// It is only meaningful when the Hit call that produced it returned true.
type HitRecord struct {
	Point     core.Point3 // Point of intersection
	Normal    core.Vec3   // Unit surface normal at intersection
	T         float64     // Parameter t along the ray
	FrontFace bool        // Whether ray hit the outward-facing side
}

// SetFaceNormal sets the normal vector and determines front/back face.
// The stored normal always opposes the ray direction.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Hittable is anything a ray can intersect. Hit reports the nearest
// intersection with t in (tMin, tMax].
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool)
}

// inRange reports whether t lies in the half-open interval (tMin, tMax]
func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t <= tMax
}

// Bounded is implemented by finite hittables
type Bounded interface {
	BoundingBox() core.AABB
}
