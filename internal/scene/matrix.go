package scene

import "math"

// Matrix3x2 is a 2D affine transformation.
// Layout: [M11, M12, M21, M22, M31, M32] representing:
// | M11  M21  M31 |
// | M12  M22  M32 |
// |  0    0    1  |
type Matrix3x2 [6]float64

// Identity returns the identity matrix.
func Identity() Matrix3x2 {
	return Matrix3x2{1, 0, 0, 1, 0, 0}
}

// Translation returns a translation matrix.
func Translation(tx, ty float64) Matrix3x2 {
	return Matrix3x2{1, 0, 0, 1, tx, ty}
}

// Scaling returns a scale matrix.
func Scaling(sx, sy float64) Matrix3x2 {
	return Matrix3x2{sx, 0, 0, sy, 0, 0}
}

// RotationDegrees returns a rotation matrix.
func RotationDegrees(degrees float64) Matrix3x2 {
	rad := degrees * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Matrix3x2{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m * other, which applies other first, then m.
func (m Matrix3x2) Multiply(other Matrix3x2) Matrix3x2 {
	return Matrix3x2{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Power returns m applied n times. Power(0) is the identity.
func (m Matrix3x2) Power(n int) Matrix3x2 {
	out := Identity()
	for range n {
		out = m.Multiply(out)
	}
	return out
}

// TransformPoint applies the matrix to a point.
func (m Matrix3x2) TransformPoint(p Vector2) Vector2 {
	return Vector2{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func (m Matrix3x2) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix3x2) Invert() Matrix3x2 {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}
	inv := 1.0 / det
	return Matrix3x2{
		m[3] * inv,
		-m[1] * inv,
		-m[2] * inv,
		m[0] * inv,
		(m[2]*m[5] - m[3]*m[4]) * inv,
		(m[1]*m[4] - m[0]*m[5]) * inv,
	}
}

// FromTransform composes Translate(offset + center) * Rotate(r) *
// Scale(sx, sy) * Translate(-center), the order in which visuals and shapes
// apply their transform properties.
func FromTransform(offset, center, scale Vector2, rDegrees float64) Matrix3x2 {
	rad := rDegrees * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	x, y := offset.X+center.X, offset.Y+center.Y
	ax, ay := center.X, center.Y
	sx, sy := scale.X, scale.Y
	return Matrix3x2{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		x - cos*sx*ax + sin*sy*ay,
		y - sin*sx*ax - cos*sy*ay,
	}
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix3x2) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix3x2) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}
