package geometry

import (
	"math"

	"github.com/df07/go-raytracer/pkg/core"
)

// Cube represents a cube with an arbitrary orientation. Intersection happens
// in the cube's local frame, where its faces sit at ±HalfExtent on each axis.
type Cube struct {
	Center     core.Point3 // Center point of the cube
	HalfExtent float64     // Distance from the center to each face
	rotation   core.Mat3   // Local to world rotation
}

// NewCube creates an axis-aligned cube
func NewCube(center core.Point3, halfExtent float64) *Cube {
	return &Cube{
		Center:     center,
		HalfExtent: halfExtent,
		rotation:   core.Identity3(),
	}
}

// Rotate turns the cube by angle radians about axis through its center.
// Rotations compose with any earlier rotation.
func (c *Cube) Rotate(axis core.Vec3, angle float64) {
	c.rotation = core.RotationMatrix(axis, angle).Mul(c.rotation).Orthonormalize()
}

// RotateAbout turns the cube by angle radians about an axis through pivot,
// moving its center as well as its orientation.
func (c *Cube) RotateAbout(pivot core.Point3, axis core.Vec3, angle float64) {
	c.Center = core.RotateAround(c.Center, pivot, axis, angle)
	c.Rotate(axis, angle)
}

// Orientation returns the current local to world rotation
func (c *Cube) Orientation() core.Mat3 {
	return c.rotation
}

// Corners returns the eight corners of the cube in world space
func (c *Cube) Corners() [8]core.Point3 {
	var corners [8]core.Point3
	h := c.HalfExtent
	for i := range corners {
		local := core.NewVec3(-h, -h, -h)
		if i&1 != 0 {
			local.X = h
		}
		if i&2 != 0 {
			local.Y = h
		}
		if i&4 != 0 {
			local.Z = h
		}
		corners[i] = c.Center.Add(c.rotation.MulVec(local))
	}
	return corners
}

// Hit tests if a ray intersects with the cube using the slab method
func (c *Cube) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	// Move the ray into the cube's local frame. The parameter t is the same
	// in both frames because rotation preserves lengths.
	toLocal := c.rotation.Transpose()
	origin := toLocal.MulVec(ray.Origin.Subtract(c.Center))
	direction := toLocal.MulVec(ray.Direction)

	h := c.HalfExtent
	tNear, tFar := math.Inf(-1), math.Inf(1)
	nearAxis, farAxis := -1, -1

	for axis := 0; axis < 3; axis++ {
		o := component(origin, axis)
		d := component(direction, axis)

		if math.Abs(d) < parallelEpsilon {
			// Parallel to this slab: either always inside it or never
			if o < -h || o > h {
				return HitRecord{}, false
			}
			continue
		}

		t0 := (-h - o) / d
		t1 := (h - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear, nearAxis = t0, axis
		}
		if t1 < tFar {
			tFar, farAxis = t1, axis
		}
		if tNear > tFar {
			return HitRecord{}, false
		}
	}

	// Prefer the entry point; fall back to the exit when the ray starts inside
	t, axis := tNear, nearAxis
	if !inRange(t, tMin, tMax) {
		t, axis = tFar, farAxis
		if !inRange(t, tMin, tMax) {
			return HitRecord{}, false
		}
	}
	if axis < 0 {
		return HitRecord{}, false
	}

	localPoint := origin.Add(direction.Multiply(t))
	sign := 1.0
	if component(localPoint, axis) < 0 {
		sign = -1.0
	}
	var localNormal core.Vec3
	switch axis {
	case 0:
		localNormal = core.NewVec3(sign, 0, 0)
	case 1:
		localNormal = core.NewVec3(0, sign, 0)
	default:
		localNormal = core.NewVec3(0, 0, sign)
	}

	rec := HitRecord{
		T:     t,
		Point: ray.At(t),
	}
	rec.SetFaceNormal(ray, c.rotation.MulVec(localNormal))

	return rec, true
}

// component returns the x, y or z component of v for axis 0, 1 or 2
func component(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// BoundingBox returns the axis-aligned box enclosing the rotated cube
func (c *Cube) BoundingBox() core.AABB {
	corners := c.Corners()
	return core.NewAABBFromPoints(corners[:]...)
}
