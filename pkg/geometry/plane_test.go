package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-raytracer/pkg/core"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// Create a horizontal plane at y=0
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	expectedT := 1.0
	if math.Abs(hit.T-expectedT) > 1e-9 {
		t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
	}

	expectedPoint := core.NewVec3(0, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestPlane_Hit_ParallelRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0))

	origins := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -0.5, 0), // in the plane itself
		core.NewVec3(5, -3, -2),
	}
	directions := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, -1),
		core.NewVec3(1, 0, 1),
	}

	for _, origin := range origins {
		for _, direction := range directions {
			ray := core.NewRay(origin, direction)
			if hit, isHit := plane.Hit(ray, 0.001, math.Inf(1)); isHit {
				t.Errorf("Expected miss for parallel ray from %v along %v, got hit at t=%f", origin, direction, hit.T)
			}
		}
	}
}

func TestPlane_Hit_BehindRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Ray shooting up from above (intersection behind ray origin)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	hit, isHit := plane.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss for intersection behind ray, but got hit at t=%f", hit.T)
	}
}

func TestPlane_Hit_OneSidedNormal(t *testing.T) {
	// Normal is normalized on construction
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 3, 0))

	tests := []struct {
		name          string
		rayOrigin     core.Vec3
		rayDirection  core.Vec3
		expectedFront bool
	}{
		{
			name:          "from above",
			rayOrigin:     core.NewVec3(0, 1, 0),
			rayDirection:  core.NewVec3(0, -1, 0),
			expectedFront: true,
		},
		{
			name:          "from below",
			rayOrigin:     core.NewVec3(0, -1, 0),
			rayDirection:  core.NewVec3(0, 1, 0),
			expectedFront: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := plane.Hit(ray, 0.001, 1000.0)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			// The plane never flips its normal toward the ray
			expectedNormal := core.NewVec3(0, 1, 0)
			if hit.Normal != expectedNormal {
				t.Errorf("Expected normal %v, got %v", expectedNormal, hit.Normal)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
		})
	}
}

func TestPlane_Hit_Bounds(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := plane.Hit(ray, 0.001, 1.5); isHit {
		t.Error("Expected miss beyond tMax")
	}
	if _, isHit := plane.Hit(ray, 2.0, 10); isHit {
		t.Error("Expected miss when t equals tMin")
	}
	if hit, isHit := plane.Hit(ray, 0.001, 2.0); !isHit || hit.T != 2.0 {
		t.Errorf("Expected hit at inclusive tMax=2, got hit=%t t=%f", isHit, hit.T)
	}
}
