package core

import "math"

// RotateVector rotates v by angle radians about axis using Rodrigues' formula:
//
//	v·cosθ + (k×v)·sinθ + k·(k·v)·(1−cosθ)
//
// where k is axis normalized. axis must not be the zero vector.
func RotateVector(v, axis Vec3, angle float64) Vec3 {
	k := UnitVector(axis)
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)

	return v.Multiply(cosTheta).
		Add(k.Cross(v).Multiply(sinTheta)).
		Add(k.Multiply(k.Dot(v) * (1 - cosTheta)))
}

// RotateAround rotates the point p by angle radians about an axis passing through pivot
func RotateAround(p, pivot Point3, axis Vec3, angle float64) Point3 {
	return pivot.Add(RotateVector(p.Subtract(pivot), axis, angle))
}

// Mat3 is a row-major 3x3 matrix
type Mat3 [3][3]float64

// Identity3 returns the identity matrix
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// RotationMatrix returns the matrix form of RotateVector(·, axis, angle)
func RotationMatrix(axis Vec3, angle float64) Mat3 {
	k := UnitVector(axis)
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c

	return Mat3{
		{c + k.X*k.X*t, k.X*k.Y*t - k.Z*s, k.X*k.Z*t + k.Y*s},
		{k.Y*k.X*t + k.Z*s, c + k.Y*k.Y*t, k.Y*k.Z*t - k.X*s},
		{k.Z*k.X*t - k.Y*s, k.Z*k.Y*t + k.X*s, c + k.Z*k.Z*t},
	}
}

// Mul returns the matrix product m·other
func (m Mat3) Mul(other Mat3) Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

// MulVec returns m·v
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m, which is its inverse when m is a rotation
func (m Mat3) Transpose() Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[j][i] = m[i][j]
		}
	}
	return result
}

// Orthonormalize re-orthogonalizes the rows of a rotation matrix with
// Gram-Schmidt so accumulated rounding does not shear or scale it.
func (m Mat3) Orthonormalize() Mat3 {
	x := UnitVector(NewVec3(m[0][0], m[0][1], m[0][2]))
	y := NewVec3(m[1][0], m[1][1], m[1][2])
	y = UnitVector(y.Subtract(x.Multiply(x.Dot(y))))
	z := x.Cross(y)

	return Mat3{
		{x.X, x.Y, x.Z},
		{y.X, y.Y, y.Z},
		{z.X, z.Y, z.Z},
	}
}
