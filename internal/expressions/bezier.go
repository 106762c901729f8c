package expressions

import "github.com/inamate/inamate/lottiegen/internal/document"

// CubicBezier2 is a cubic bezier curve in the plane with absolute control
// points.
type CubicBezier2 struct {
	P0, P1, P2, P3 document.Vector2
}

// IsEquivalentToLinear reports whether the curve is a straight segment from
// P0 to P3, which is the case when both inner control points coincide with
// their end points.
func (c CubicBezier2) IsEquivalentToLinear() bool {
	return c.P0 == c.P1 && c.P2 == c.P3
}

// At evaluates the curve at t.
func (c CubicBezier2) At(t float64) document.Vector2 {
	u := 1 - t
	b0, b1, b2, b3 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return document.Vector2{
		X: b0*c.P0.X + b1*c.P1.X + b2*c.P2.X + b3*c.P3.X,
		Y: b0*c.P0.Y + b1*c.P1.Y + b2*c.P2.Y + b3*c.P3.Y,
	}
}

// Expression returns the Vector2 expression of the curve evaluated at the
// scalar expression t.
func (c CubicBezier2) Expression(t *Expr) *Expr {
	mustBe(t, Scalar, "CubicBezier2")
	u := Subtract(Number(1), t)
	b0 := Multiply(Multiply(u, u), u)
	b1 := Multiply(Multiply(Number(3), Multiply(u, u)), t)
	b2 := Multiply(Multiply(Number(3), u), Multiply(t, t))
	b3 := Multiply(Multiply(t, t), t)
	component := func(p0, p1, p2, p3 float64) *Expr {
		return Add(Add(Add(
			Multiply(Number(p0), b0),
			Multiply(Number(p1), b1)),
			Multiply(Number(p2), b2)),
			Multiply(Number(p3), b3)).Simplified()
	}
	return Vec2(
		component(c.P0.X, c.P1.X, c.P2.X, c.P3.X),
		component(c.P0.Y, c.P1.Y, c.P2.Y, c.P3.Y),
	)
}
