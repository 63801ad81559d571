package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-raytracer/pkg/core"
)

// fixedHittable reports a hit at a fixed t when it is within range
type fixedHittable struct {
	t      float64
	normal core.Vec3
	calls  *[]float64 // records the tMax each call received
}

func (f fixedHittable) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	if f.calls != nil {
		*f.calls = append(*f.calls, tMax)
	}
	if f.t <= tMin || f.t > tMax {
		return HitRecord{}, false
	}
	return HitRecord{T: f.t, Point: ray.At(f.t), Normal: f.normal}, true
}

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected empty list to report no hit")
	}
	if list.Len() != 0 {
		t.Errorf("Expected empty list, got %d objects", list.Len())
	}
}

func TestHittableList_OverlappingSpheres(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 1)
	far := NewSphere(core.NewVec3(0, 0, -2.5), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// Insertion order must not matter
	orders := map[string][]Hittable{
		"near first": {near, far},
		"far first":  {far, near},
	}

	for name, objects := range orders {
		t.Run(name, func(t *testing.T) {
			list := NewHittableList(objects...)

			hit, object, isHit := list.HitObject(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-1) > 1e-9 {
				t.Errorf("Expected nearest surface at t=1, got t=%f", hit.T)
			}
			if object != Hittable(near) {
				t.Errorf("Expected the nearer sphere to be reported, got %+v", object)
			}
		})
	}
}

func TestHittableList_ShrinksSearchInterval(t *testing.T) {
	var calls []float64
	list := NewHittableList(
		fixedHittable{t: 5, calls: &calls},
		fixedHittable{t: 3, calls: &calls},
		fixedHittable{t: 4, calls: &calls},
	)

	hit, isHit := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 0.001, 10)
	if !isHit || hit.T != 3 {
		t.Fatalf("Expected hit at t=3, got hit=%t t=%f", isHit, hit.T)
	}

	expected := []float64{10, 5, 3}
	if len(calls) != len(expected) {
		t.Fatalf("Expected %d calls, got %d", len(expected), len(calls))
	}
	for i := range expected {
		if calls[i] != expected[i] {
			t.Errorf("Call %d: expected tMax=%f, got %f", i, expected[i], calls[i])
		}
	}
}

func TestHittableList_TieKeepsFirstInserted(t *testing.T) {
	first := fixedHittable{t: 2, normal: core.NewVec3(1, 0, 0)}
	second := fixedHittable{t: 2, normal: core.NewVec3(0, 1, 0)}
	list := NewHittableList(first, second)

	hit, isHit := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 0.001, 10)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Normal != first.normal {
		t.Errorf("Expected the first inserted object to win the tie, got normal %v", hit.Normal)
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5))
	list.Add(NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)))
	list.Add(NewCube(core.NewVec3(0, 0, -3), 0.5))

	if list.Len() != 3 || len(list.Objects()) != 3 {
		t.Fatalf("Expected 3 objects, got %d", list.Len())
	}

	list.Clear()
	if list.Len() != 0 {
		t.Errorf("Expected empty list after Clear, got %d objects", list.Len())
	}
}

func TestHittableList_Nested(t *testing.T) {
	inner := NewHittableList(NewSphere(core.NewVec3(0, 0, -5), 1))
	outer := NewHittableList(inner, NewSphere(core.NewVec3(0, 0, -10), 1))

	hit, isHit := outer.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit || math.Abs(hit.T-4) > 1e-9 {
		t.Errorf("Expected nested hit at t=4, got hit=%t t=%f", isHit, hit.T)
	}
}

func TestHittableList_BoundingBox(t *testing.T) {
	list := NewHittableList(
		NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)),
		NewSphere(core.NewVec3(0, 0, -1), 0.5),
		NewCube(core.NewVec3(2, 0, -3), 0.5),
	)

	box, ok := list.BoundingBox()
	if !ok {
		t.Fatal("Expected a bounding box")
	}
	want := core.NewAABB(core.NewVec3(-0.5, -0.5, -3.5), core.NewVec3(2.5, 0.5, -0.5))
	if box != want {
		t.Errorf("Expected %v, got %v", want, box)
	}

	// A rotated cube grows its axis-aligned box
	cube := NewCube(core.Vec3{}, 1)
	cube.Rotate(core.NewVec3(0, 1, 0), math.Pi/4)
	size := cube.BoundingBox().Size()
	if math.Abs(size.X-2*math.Sqrt2) > 1e-9 || math.Abs(size.Y-2) > 1e-9 {
		t.Errorf("Expected rotated cube extent (2√2, 2, 2√2), got %v", size)
	}

	if _, ok := NewHittableList(NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0))).BoundingBox(); ok {
		t.Error("Expected no bounding box for planes only")
	}
}
