package scene

import (
	"fmt"
	"slices"
	"time"

	"github.com/inamate/inamate/lottiegen/internal/expressions"
)

// Easing maps the linear progress of a keyframe segment to eased progress.
type Easing interface {
	Node
	easing()
}

type LinearEasing struct{ Object }

func (*LinearEasing) Kind() string { return "LinearEasing" }
func (*LinearEasing) easing()      {}

// StepEasing jumps in StepCount equal steps. With one step the value holds
// until the end of the segment and then steps to the destination.
type StepEasing struct {
	Object
	StepCount int
}

func (*StepEasing) Kind() string { return "StepEasing" }
func (*StepEasing) easing()      {}

type CubicBezierEasing struct {
	Object
	ControlPoint1 Vector2
	ControlPoint2 Vector2
}

func (*CubicBezierEasing) Kind() string { return "CubicBezierEasing" }
func (*CubicBezierEasing) easing()      {}

// Animation is a KeyFrameAnimation or an ExpressionAnimation.
type Animation interface {
	Node
	ReferenceParameters() []ReferenceParameter
	SetReferenceParameter(name string, n Node)
}

// ReferenceParameter names a node that an expression refers to.
type ReferenceParameter struct {
	Name string
	Node Node
}

type animationBase struct {
	Object
	refs []ReferenceParameter
}

func (a *animationBase) ReferenceParameters() []ReferenceParameter { return a.refs }

// SetReferenceParameter binds name to n in the animation's expressions.
func (a *animationBase) SetReferenceParameter(name string, n Node) {
	for i := range a.refs {
		if a.refs[i].Name == name {
			a.refs[i].Node = n
			return
		}
	}
	a.refs = append(a.refs, ReferenceParameter{Name: name, Node: n})
}

// ExpressionAnimation sets a property to the value of an expression. The
// parameter "my" always refers to the animated node itself.
type ExpressionAnimation struct {
	animationBase
	Expression *expressions.Expr
}

func (*ExpressionAnimation) Kind() string { return "ExpressionAnimation" }

// KeyFrame is one control point of a KeyFrameAnimation. The easing describes
// the segment that ends at this keyframe. An expression keyframe takes its
// value from Expression over that segment.
type KeyFrame[T any] struct {
	Progress   float64
	Value      T
	Expression *expressions.Expr
	Easing     Easing
}

// KeyFrameAnimation interpolates a property over normalized progress 0..1.
type KeyFrameAnimation[T any] struct {
	animationBase
	Duration  time.Duration
	KeyFrames []KeyFrame[T]
}

func (a *KeyFrameAnimation[T]) Kind() string {
	var zero T
	switch any(zero).(type) {
	case float64:
		return "ScalarKeyFrameAnimation"
	case Vector2:
		return "Vector2KeyFrameAnimation"
	case Vector3:
		return "Vector3KeyFrameAnimation"
	case Color:
		return "ColorKeyFrameAnimation"
	case Matrix3x2:
		return "Matrix3x2KeyFrameAnimation"
	case *Path:
		return "PathKeyFrameAnimation"
	}
	return fmt.Sprintf("KeyFrameAnimation[%T]", zero)
}

// InsertKeyFrame adds or replaces the keyframe at progress.
func (a *KeyFrameAnimation[T]) InsertKeyFrame(progress float64, v T, easing Easing) {
	a.insert(KeyFrame[T]{Progress: progress, Value: v, Easing: easing})
}

// InsertExpressionKeyFrame adds or replaces the keyframe at progress with one
// whose value is computed by e.
func (a *KeyFrameAnimation[T]) InsertExpressionKeyFrame(progress float64, e *expressions.Expr, easing Easing) {
	a.insert(KeyFrame[T]{Progress: progress, Expression: e, Easing: easing})
}

func (a *KeyFrameAnimation[T]) insert(kf KeyFrame[T]) {
	if kf.Progress < 0 || kf.Progress > 1 {
		panic(fmt.Sprintf("scene: keyframe progress %v outside 0..1", kf.Progress))
	}
	i, found := slices.BinarySearchFunc(a.KeyFrames, kf.Progress, func(k KeyFrame[T], p float64) int {
		switch {
		case k.Progress < p:
			return -1
		case k.Progress > p:
			return 1
		}
		return 0
	})
	if found {
		a.KeyFrames[i] = kf
		return
	}
	a.KeyFrames = slices.Insert(a.KeyFrames, i, kf)
}
