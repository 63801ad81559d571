package geometry

import "github.com/df07/go-raytracer/pkg/core"

// HittableList is an ordered collection of hittables that reports the
// nearest intersection among its members
type HittableList struct {
	objects []Hittable
}

// NewHittableList creates a list holding the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	l := &HittableList{}
	for _, o := range objects {
		l.Add(o)
	}
	return l
}

// Add appends an object to the list
func (l *HittableList) Add(object Hittable) {
	l.objects = append(l.objects, object)
}

// Clear removes every object
func (l *HittableList) Clear() {
	l.objects = nil
}

// Len returns the number of objects
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the objects in insertion order
func (l *HittableList) Objects() []Hittable {
	return l.objects
}

// Hit returns the nearest intersection among all objects
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	rec, _, ok := l.HitObject(ray, tMin, tMax)
	return rec, ok
}

// HitObject is Hit that also returns the object that was struck. On an
// exact tie in t the earlier object wins.
func (l *HittableList) HitObject(ray core.Ray, tMin, tMax float64) (HitRecord, Hittable, bool) {
	var closest HitRecord
	var closestObject Hittable
	closestSoFar := tMax
	hitAnything := false

	for _, object := range l.objects {
		rec, isHit := object.Hit(ray, tMin, closestSoFar)
		if !isHit {
			continue
		}
		if hitAnything && !(rec.T < closestSoFar) {
			continue
		}
		hitAnything = true
		closestSoFar = rec.T
		closest = rec
		closestObject = object
	}

	return closest, closestObject, hitAnything
}

// BoundingBox returns the box enclosing every bounded member. Unbounded
// members such as planes are skipped; ok is false when nothing is bounded.
func (l *HittableList) BoundingBox() (box core.AABB, ok bool) {
	for _, object := range l.objects {
		bounded, isBounded := object.(Bounded)
		if !isBounded {
			continue
		}
		if !ok {
			box, ok = bounded.BoundingBox(), true
			continue
		}
		box = box.Union(bounded.BoundingBox())
	}
	return box, ok
}
