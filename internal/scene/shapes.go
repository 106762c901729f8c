package scene

// Shape is a node of a ShapeVisual's shape tree.
type Shape interface {
	Node
	Transform() *ShapeTransform
}

// ShapeTransform is the transform of a shape, applied like the transform of
// a visual.
type ShapeTransform struct {
	CenterPoint            Vector2
	Offset                 Vector2
	Scale                  Vector2
	RotationAngleInDegrees float64
	TransformMatrix        Matrix3x2
}

func (t *ShapeTransform) Transform() *ShapeTransform { return t }

func defaultShapeTransform() ShapeTransform {
	return ShapeTransform{Scale: Vector2{X: 1, Y: 1}, TransformMatrix: Identity()}
}

type ContainerShape struct {
	Object
	ShapeTransform
	Shapes []Shape
}

func (*ContainerShape) Kind() string { return "ContainerShape" }

type StrokeCap string

const (
	StrokeCapFlat   StrokeCap = "flat"
	StrokeCapRound  StrokeCap = "round"
	StrokeCapSquare StrokeCap = "square"
)

type StrokeLineJoin string

const (
	StrokeLineJoinMiter StrokeLineJoin = "miter"
	StrokeLineJoinRound StrokeLineJoin = "round"
	StrokeLineJoinBevel StrokeLineJoin = "bevel"
)

// SpriteShape draws one geometry with an optional fill and stroke.
type SpriteShape struct {
	Object
	ShapeTransform
	Geometry         Geometry
	FillBrush        *ColorBrush
	StrokeBrush      *ColorBrush
	StrokeThickness  float64
	StrokeStartCap   StrokeCap
	StrokeEndCap     StrokeCap
	StrokeLineJoin   StrokeLineJoin
	StrokeMiterLimit float64
}

func (*SpriteShape) Kind() string { return "SpriteShape" }

// ColorBrush paints with a solid color.
type ColorBrush struct {
	Object
	Color Color
}

func (*ColorBrush) Kind() string { return "ColorBrush" }
