package scene

import (
	"time"

	"github.com/inamate/inamate/lottiegen/internal/expressions"
)

// Compositor creates scene nodes. Node IDs are assigned in creation order,
// so building the same scene twice yields the same IDs.
type Compositor struct {
	lastID int
}

func NewCompositor() *Compositor { return &Compositor{} }

func (c *Compositor) init(o *Object) {
	c.lastID++
	o.id = c.lastID
}

func (c *Compositor) CreateContainerVisual() *ContainerVisual {
	v := &ContainerVisual{VisualProperties: defaultVisualProperties()}
	c.init(&v.Object)
	return v
}

func (c *Compositor) CreateShapeVisual() *ShapeVisual {
	v := &ShapeVisual{VisualProperties: defaultVisualProperties()}
	c.init(&v.Object)
	return v
}

func (c *Compositor) CreateContainerShape() *ContainerShape {
	s := &ContainerShape{ShapeTransform: defaultShapeTransform()}
	c.init(&s.Object)
	return s
}

func (c *Compositor) CreateSpriteShape() *SpriteShape {
	s := &SpriteShape{
		ShapeTransform:   defaultShapeTransform(),
		StrokeStartCap:   StrokeCapFlat,
		StrokeEndCap:     StrokeCapFlat,
		StrokeLineJoin:   StrokeLineJoinMiter,
		StrokeMiterLimit: 1,
	}
	c.init(&s.Object)
	return s
}

func (c *Compositor) CreateColorBrush(color Color) *ColorBrush {
	b := &ColorBrush{Color: color}
	c.init(&b.Object)
	return b
}

func (c *Compositor) CreatePathGeometry(p *Path) *PathGeometry {
	g := &PathGeometry{Trim: defaultTrim(), Path: p}
	c.init(&g.Object)
	return g
}

func (c *Compositor) CreateEllipseGeometry() *EllipseGeometry {
	g := &EllipseGeometry{Trim: defaultTrim()}
	c.init(&g.Object)
	return g
}

func (c *Compositor) CreateRectangleGeometry() *RectangleGeometry {
	g := &RectangleGeometry{Trim: defaultTrim()}
	c.init(&g.Object)
	return g
}

func (c *Compositor) CreateRoundedRectangleGeometry() *RoundedRectangleGeometry {
	g := &RoundedRectangleGeometry{Trim: defaultTrim()}
	c.init(&g.Object)
	return g
}

func (c *Compositor) CreateLinearEasing() *LinearEasing {
	e := &LinearEasing{}
	c.init(&e.Object)
	return e
}

func (c *Compositor) CreateStepEasing(steps int) *StepEasing {
	e := &StepEasing{StepCount: steps}
	c.init(&e.Object)
	return e
}

func (c *Compositor) CreateCubicBezierEasing(cp1, cp2 Vector2) *CubicBezierEasing {
	e := &CubicBezierEasing{ControlPoint1: cp1, ControlPoint2: cp2}
	c.init(&e.Object)
	return e
}

// CreateExpressionAnimation returns an animation evaluating e. The
// expression is simplified first.
func (c *Compositor) CreateExpressionAnimation(e *expressions.Expr) *ExpressionAnimation {
	a := &ExpressionAnimation{Expression: e.Simplified()}
	c.init(&a.Object)
	return a
}

// NewKeyFrameAnimation returns an empty keyframe animation created by c.
func NewKeyFrameAnimation[T any](c *Compositor, duration time.Duration) *KeyFrameAnimation[T] {
	a := &KeyFrameAnimation[T]{Duration: duration}
	c.init(&a.Object)
	return a
}
