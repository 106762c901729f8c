package document

import "math"

// Vector2 is a 2D value. Lottie stores most spatial values as Vector3 with a
// zero Z; Vector2 is used where the third component never exists.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector3 is a 3D value. Z is non-zero only for 3D content.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Vector2 drops the Z component.
func (v Vector3) Vector2() Vector2 { return Vector2{X: v.X, Y: v.Y} }

// IsZero reports whether all components are zero.
func (v Vector3) IsZero() bool { return v == Vector3{} }

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Mul(s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }
func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Mul(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func Vec2(x, y float64) Vector2         { return Vector2{X: x, Y: y} }
func Vec3(x, y, z float64) Vector3      { return Vector3{X: x, Y: y, Z: z} }
func Uniform3(v float64) Vector3        { return Vector3{X: v, Y: v, Z: v} }
func (v Vector2) Vector3() Vector3      { return Vector3{X: v.X, Y: v.Y} }
func (v Vector2) Length() float64       { return math.Hypot(v.X, v.Y) }
func (v Vector2) Equal(o Vector2) bool  { return v == o }
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Color is a non-premultiplied ARGB color with channels in 0..1.
type Color struct {
	A float64 `json:"a"`
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// ColorFromRGB returns an opaque color.
func ColorFromRGB(r, g, b float64) Color { return Color{A: 1, R: r, G: g, B: b} }

// WithAlphaMultiplied returns the color with its alpha scaled by m.
func (c Color) WithAlphaMultiplied(m float64) Color {
	c.A *= m
	return c
}

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool { return c.A <= 0 }

var (
	Black = ColorFromRGB(0, 0, 0)
	White = ColorFromRGB(1, 1, 1)
	Red   = ColorFromRGB(1, 0, 0)
)

// BezierVertex is one vertex of a Lottie path. The tangents are relative to
// Point.
type BezierVertex struct {
	Point      Vector2 `json:"p"`
	InTangent  Vector2 `json:"i"`
	OutTangent Vector2 `json:"o"`
}

// PathGeometry is a single figure made of cubic bezier segments.
type PathGeometry struct {
	Vertices []BezierVertex `json:"vertices"`
	Closed   bool           `json:"closed"`
}

// Reversed returns the figure traversed in the opposite direction.
func (p PathGeometry) Reversed() PathGeometry {
	n := len(p.Vertices)
	out := PathGeometry{Vertices: make([]BezierVertex, n), Closed: p.Closed}
	for i, v := range p.Vertices {
		out.Vertices[n-1-i] = BezierVertex{Point: v.Point, InTangent: v.OutTangent, OutTangent: v.InTangent}
	}
	return out
}

// IsEmpty reports whether the figure has no vertices.
func (p PathGeometry) IsEmpty() bool { return len(p.Vertices) == 0 }

// FillRule is the filled-region determination of a path.
type FillRule string

const (
	FillRuleEvenOdd FillRule = "evenOdd"
	FillRuleNonZero FillRule = "nonZero"
)

// BlendMode is the compositing mode of a layer or a shape content item.
type BlendMode string

const (
	BlendModeNormal     BlendMode = ""
	BlendModeMultiply   BlendMode = "multiply"
	BlendModeScreen     BlendMode = "screen"
	BlendModeOverlay    BlendMode = "overlay"
	BlendModeDarken     BlendMode = "darken"
	BlendModeLighten    BlendMode = "lighten"
	BlendModeDifference BlendMode = "difference"
	BlendModeAdd        BlendMode = "add"
)
