package core

import "math/rand"

// RandomDoubleRange returns a uniform float64 in [min, max)
func RandomDoubleRange(random *rand.Rand, min, max float64) float64 {
	return min + (max-min)*random.Float64()
}

// RandomVec3 returns a vector with each component uniform in [0, 1)
func RandomVec3(random *rand.Rand) Vec3 {
	return NewVec3(random.Float64(), random.Float64(), random.Float64())
}

// RandomVec3Range returns a vector with each component uniform in [min, max)
func RandomVec3Range(random *rand.Rand, min, max float64) Vec3 {
	return NewVec3(
		RandomDoubleRange(random, min, max),
		RandomDoubleRange(random, min, max),
		RandomDoubleRange(random, min, max),
	)
}

// RandomInUnitSphere rejection-samples a point uniformly inside the unit sphere.
// Draws come from the [-1,1]³ cube, which is 6/π times the sphere's volume,
// so the expected number of draws per point is 6/π ≈ 1.91.
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := RandomVec3Range(random, -1, 1)
		if p.LengthSquared() >= 1 {
			continue
		}
		return p
	}
}

// RandomUnitVector returns a direction uniformly distributed on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	for {
		p := RandomInUnitSphere(random)
		// A draw this close to the origin loses precision once normalized.
		if p.LengthSquared() > 1e-160 {
			return UnitVector(p)
		}
	}
}
