package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// newRoot returns a root visual with the Progress property every
// animation is bound to.
func newRoot(c *scene.Compositor) *scene.ContainerVisual {
	root := c.CreateContainerVisual()
	root.Properties().InsertScalar(ProgressProperty, 0)
	return root
}

// bindToRoot drives the animation on property of n by root.Progress.
func bindToRoot(c *scene.Compositor, root, n scene.Node, property string) {
	ctl := n.Base().TryGetAnimationController(property)
	ctl.Pause()
	a := c.CreateExpressionAnimation(expressions.Property("root", ProgressProperty, expressions.Scalar))
	a.SetReferenceParameter("root", root)
	ctl.StartAnimation(ProgressProperty, a)
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestKeyFrameInterpolation(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	v := c.CreateContainerVisual()
	a := scene.NewKeyFrameAnimation[float64](c, time.Second)
	a.InsertKeyFrame(0.5, 10, c.CreateLinearEasing())
	a.InsertKeyFrame(1, 20, c.CreateLinearEasing())
	v.StartAnimation("RotationAngleInDegrees", a)
	bindToRoot(c, root, v, "RotationAngleInDegrees")

	tests := []struct {
		progress float64
		want     float64
	}{
		{0, 0},
		{0.25, 5},
		{0.5, 10},
		{0.75, 15},
		{1, 20},
		{2, 20},
	}
	programs := NewPrograms()
	for _, tt := range tests {
		got, err := Evaluate(root, tt.progress, programs).Scalar(v, "RotationAngleInDegrees")
		if err != nil {
			t.Fatalf("progress %v: %v", tt.progress, err)
		}
		if !approxEqual(got, tt.want) {
			t.Errorf("progress %v: got %v, want %v", tt.progress, got, tt.want)
		}
	}
}

func TestStepEasingHoldsUntilSegmentEnd(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	v := c.CreateContainerVisual()
	a := scene.NewKeyFrameAnimation[float64](c, time.Second)
	a.InsertKeyFrame(0, 1, c.CreateLinearEasing())
	a.InsertKeyFrame(0.5, 0, c.CreateStepEasing(1))
	v.StartAnimation("Opacity", a)
	bindToRoot(c, root, v, "Opacity")

	for _, tt := range []struct {
		progress float64
		want     float64
	}{
		{0, 1},
		{0.49, 1},
		{0.5, 0},
		{0.9, 0},
	} {
		got, err := Evaluate(root, tt.progress, nil).Scalar(v, "Opacity")
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("progress %v: got %v, want %v", tt.progress, got, tt.want)
		}
	}
}

func TestUnboundAnimationStaysAtStart(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	v := c.CreateContainerVisual()
	a := scene.NewKeyFrameAnimation[scene.Vector2](c, time.Second)
	a.InsertKeyFrame(0, scene.Vec2(1, 2), c.CreateLinearEasing())
	a.InsertKeyFrame(1, scene.Vec2(3, 4), c.CreateLinearEasing())
	v.StartAnimation("Offset", a)

	st := Evaluate(root, 0.5, nil)
	got, err := valueAs[scene.Vector2](st, v, "Offset")
	if err != nil {
		t.Fatal(err)
	}
	if want := scene.Vec2(1, 2); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCubicBezierEase(t *testing.T) {
	easeInOut := &scene.CubicBezierEasing{ControlPoint1: scene.Vec2(0.42, 0), ControlPoint2: scene.Vec2(0.58, 1)}
	linear := &scene.CubicBezierEasing{ControlPoint1: scene.Vec2(0, 0), ControlPoint2: scene.Vec2(1, 1)}

	tests := []struct {
		name   string
		easing scene.Easing
		t      float64
		want   float64
	}{
		{"start", easeInOut, 0, 0},
		{"end", easeInOut, 1, 1},
		{"symmetric midpoint", easeInOut, 0.5, 0.5},
		{"linear curve", linear, 0.3, 0.3},
		{"linear easing", &scene.LinearEasing{}, 0.7, 0.7},
		{"step before end", &scene.StepEasing{StepCount: 1}, 0.99, 0},
		{"step at end", &scene.StepEasing{StepCount: 1}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ease(tt.easing, tt.t); math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	prev := 0.0
	for i := 1; i <= 20; i++ {
		got := ease(easeInOut, float64(i)/20)
		if got < prev {
			t.Fatalf("ease is not monotonic at %v: %v < %v", float64(i)/20, got, prev)
		}
		prev = got
	}
}

func TestExpressionAnimation(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	g := c.CreateRectangleGeometry()
	g.Properties().InsertVector2("Position", scene.Vec2(10, 20))
	g.Size = scene.Vec2(4, 6)
	e := expressions.Subtract(
		expressions.Property("my", "Position", expressions.Vector2),
		expressions.Divide(expressions.Property("my", "Size", expressions.Vector2), expressions.Number(2)))
	g.StartAnimation("Offset", c.CreateExpressionAnimation(e))

	got, err := valueAs[scene.Vector2](Evaluate(root, 0, nil), g, "Offset")
	if err != nil {
		t.Fatal(err)
	}
	if want := scene.Vec2(8, 17); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMinMaxExpressions(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	g := c.CreatePathGeometry(scene.NewPathBuilder(scene.FillRuleEvenOdd).Path())
	g.Properties().InsertScalar("TStart", 0.8)
	g.Properties().InsertScalar("TEnd", 0.2)
	tStart := expressions.Property("my", "TStart", expressions.Scalar)
	tEnd := expressions.Property("my", "TEnd", expressions.Scalar)
	g.StartAnimation("TrimStart", c.CreateExpressionAnimation(expressions.Min(tStart, tEnd)))
	g.StartAnimation("TrimEnd", c.CreateExpressionAnimation(expressions.Max(tStart, tEnd)))

	st := Evaluate(root, 0, nil)
	start, err := st.Scalar(g, "TrimStart")
	if err != nil {
		t.Fatal(err)
	}
	end, err := st.Scalar(g, "TrimEnd")
	if err != nil {
		t.Fatal(err)
	}
	if start != 0.2 || end != 0.8 {
		t.Errorf("got trim %v..%v, want 0.2..0.8", start, end)
	}
}

func TestExpressionKeyFrame(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	root.Properties().InsertScalar("t0", 0.25)
	v := c.CreateContainerVisual()
	a := scene.NewKeyFrameAnimation[scene.Vector2](c, time.Second)
	a.InsertKeyFrame(0, scene.Vec2(0, 0), c.CreateLinearEasing())
	t0 := expressions.Property("root", "t0", expressions.Scalar)
	a.InsertExpressionKeyFrame(1, expressions.Vec2(expressions.Multiply(t0, expressions.Number(100)), t0), c.CreateLinearEasing())
	a.SetReferenceParameter("root", root)
	v.StartAnimation("Offset", a)
	bindToRoot(c, root, v, "Offset")

	got, err := valueAs[scene.Vector2](Evaluate(root, 0.5, nil), v, "Offset")
	if err != nil {
		t.Fatal(err)
	}
	if want := scene.Vec2(25, 0.25); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCyclicExpressions(t *testing.T) {
	c := scene.NewCompositor()
	root := newRoot(c)
	v := c.CreateContainerVisual()
	v.Properties().InsertScalar("A", 0)
	v.Properties().InsertScalar("B", 0)
	v.StartAnimation("A", c.CreateExpressionAnimation(expressions.Property("my", "B", expressions.Scalar)))
	v.StartAnimation("B", c.CreateExpressionAnimation(expressions.Property("my", "A", expressions.Scalar)))

	_, err := Evaluate(root, 0, nil).Scalar(v, "A")
	if !errors.Is(err, ErrCycle) {
		t.Errorf("got %v, want ErrCycle", err)
	}
}

func TestProgramsAreCached(t *testing.T) {
	p := NewPrograms()
	a, err := p.compile("Min(1, 2)")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.compile("Min(1, 2)")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same source compiled twice")
	}
}
