package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomInUnitSphere(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		p := RandomInUnitSphere(random)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Sample %d outside unit sphere: %v (|p|²=%v)", i, p, p.LengthSquared())
		}
	}
}

func TestRandomUnitVector_Distribution(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const n = 10000

	var sum Vec3
	totalLength := 0.0
	octants := make([]int, 8)

	for i := 0; i < n; i++ {
		v := RandomUnitVector(random)
		length := v.Length()
		if math.Abs(length-1) > 1e-9 {
			t.Fatalf("Sample %d has length %v", i, length)
		}
		totalLength += length
		sum = sum.Add(v)

		octant := 0
		if v.X > 0 {
			octant |= 1
		}
		if v.Y > 0 {
			octant |= 2
		}
		if v.Z > 0 {
			octant |= 4
		}
		octants[octant]++
	}

	if mean := totalLength / n; math.Abs(mean-1) > 1e-9 {
		t.Errorf("Mean length %v, expected 1", mean)
	}

	// A uniform direction has zero expected mean; each component has
	// variance 1/3, so the standard error of the mean is about 0.0058.
	if mean := sum.Divide(n); mean.Length() > 0.05 {
		t.Errorf("Mean direction %v is too far from zero", mean)
	}

	// Each octant should hold about n/8 = 1250 samples.
	for i, count := range octants {
		if count < 1100 || count > 1400 {
			t.Errorf("Octant %d has %d samples, expected about %d", i, count, n/8)
		}
	}
}

func TestRandomUnitVector_Hemisphere(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	normal := NewVec3(0, 1, 0)
	const n = 10000

	above := 0
	for i := 0; i < n; i++ {
		if RandomUnitVector(random).Dot(normal) > 0 {
			above++
		}
	}

	if above < 4800 || above > 5200 {
		t.Errorf("Expected about half of %d samples above the plane, got %d", n, above)
	}
}

func TestRandomVec3Range(t *testing.T) {
	random := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		v := RandomVec3Range(random, -2, 3)
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < -2 || c >= 3 {
				t.Fatalf("Component %v outside [-2, 3)", c)
			}
		}
		u := RandomVec3(random)
		for _, c := range []float64{u.X, u.Y, u.Z} {
			if c < 0 || c >= 1 {
				t.Fatalf("Component %v outside [0, 1)", c)
			}
		}
	}
}
