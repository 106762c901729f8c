package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
)

func approxMatrix(t *testing.T, got, want Matrix3x2) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestMatrixPower(t *testing.T) {
	m := Translation(10, 0).Multiply(RotationDegrees(90))
	approxMatrix(t, m.Power(0), Identity())
	approxMatrix(t, m.Power(1), m)
	approxMatrix(t, m.Power(3), m.Multiply(m).Multiply(m))
}

func TestFromTransform(t *testing.T) {
	// Rotating a unit offset by 90 degrees around the center (5, 5).
	m := FromTransform(Vector2{X: 1, Y: 0}, Vector2{X: 5, Y: 5}, Vector2{X: 1, Y: 1}, 90)
	got := m.TransformPoint(Vector2{X: 10, Y: 5})
	if math.Abs(got.X-6) > 1e-9 || math.Abs(got.Y-10) > 1e-9 {
		t.Errorf("got %v, want (6, 10)", got)
	}
	approxMatrix(t, m.Multiply(m.Invert()), Identity())
}

func TestInsertKeyFrameOrdersByProgress(t *testing.T) {
	c := NewCompositor()
	a := NewKeyFrameAnimation[float64](c, 0)
	lin := c.CreateLinearEasing()
	a.InsertKeyFrame(1, 3, lin)
	a.InsertKeyFrame(0, 1, lin)
	a.InsertKeyFrame(0.5, 2, lin)
	a.InsertKeyFrame(0.5, 5, lin)

	var got []float64
	for _, kf := range a.KeyFrames {
		got = append(got, kf.Value)
	}
	if diff := cmp.Diff([]float64{1, 5, 3}, got); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
}

func TestInsertKeyFrameOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("no panic")
		}
	}()
	c := NewCompositor()
	NewKeyFrameAnimation[float64](c, 0).InsertKeyFrame(1.5, 0, nil)
}

func TestSetDescriptionTwicePanics(t *testing.T) {
	c := NewCompositor()
	v := c.CreateContainerVisual()
	v.SetDescription("layer")
	defer func() {
		if recover() == nil {
			t.Errorf("no panic")
		}
	}()
	v.SetDescription("again")
}

func TestAnimationController(t *testing.T) {
	c := NewCompositor()
	v := c.CreateContainerVisual()
	if v.TryGetAnimationController("Opacity") != nil {
		t.Fatalf("controller without animation")
	}
	v.StartAnimation("Opacity", NewKeyFrameAnimation[float64](c, 0))
	ctl := v.TryGetAnimationController("Opacity")
	if ctl == nil || ctl != v.TryGetAnimationController("Opacity") {
		t.Fatalf("controller not stable")
	}
	v.StartAnimation("Offset", c.CreateExpressionAnimation(expressions.ConstVec2(1, 1)))
	if v.TryGetAnimationController("Offset") != nil {
		t.Errorf("expression animation has a controller")
	}
}

func TestPropertyLookup(t *testing.T) {
	c := NewCompositor()
	s := c.CreateSpriteShape()
	s.Offset = Vector2{X: 3, Y: 4}
	s.Properties().InsertVector2("Position", Vector2{X: 7})

	if v, ok := Property(s, "Offset"); !ok || v != (Vector2{X: 3, Y: 4}) {
		t.Errorf("Offset: got %v, %v", v, ok)
	}
	if v, ok := Property(s, "Position"); !ok || v != (Vector2{X: 7}) {
		t.Errorf("Position: got %v, %v", v, ok)
	}
	if _, ok := Property(s, "Missing"); ok {
		t.Errorf("found missing property")
	}
}

func TestDumpListsOnlyChangedProperties(t *testing.T) {
	c := NewCompositor()
	root := c.CreateContainerVisual()
	sv := c.CreateShapeVisual()
	sv.Size = Vector2{X: 100, Y: 100}
	root.Children = append(root.Children, sv)
	sprite := c.CreateSpriteShape()
	geo := c.CreateRectangleGeometry()
	geo.Size = Vector2{X: 10, Y: 20}
	sprite.Geometry = geo
	sprite.FillBrush = c.CreateColorBrush(Color{A: 1, R: 1})
	sv.Shapes = append(sv.Shapes, sprite)

	d := Dump(root)
	if len(d.Properties) != 0 {
		t.Errorf("root properties: got %v, want none", d.Properties)
	}
	svd := d.Children[0]
	if diff := cmp.Diff([]NamedValue{{"Size", Vector2{X: 100, Y: 100}}}, svd.Properties); diff != "" {
		t.Errorf("shape visual properties (-want +got):\n%s", diff)
	}
	sd := svd.Children[0]
	if sd.Geometry == nil || sd.Geometry.Kind != "RectangleGeometry" {
		t.Fatalf("geometry: got %+v", sd.Geometry)
	}
	if sd.Fill == nil || len(sd.Fill.Properties) != 1 {
		t.Errorf("fill: got %+v", sd.Fill)
	}

	y, err := MarshalYAML(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"kind: ContainerVisual", "kind: SpriteShape", "kind: RectangleGeometry"} {
		if !strings.Contains(string(y), want) {
			t.Errorf("yaml lacks %q:\n%s", want, y)
		}
	}
}

func TestPathKey(t *testing.T) {
	build := func() *Path {
		b := NewPathBuilder(FillRuleWinding)
		b.BeginFigure(Vector2{X: 0, Y: 0})
		b.AddLine(Vector2{X: 10, Y: 0})
		b.AddCubicBezier(Vector2{X: 10, Y: 5}, Vector2{X: 5, Y: 10}, Vector2{X: 0, Y: 10})
		b.EndFigure(true)
		return b.Path()
	}
	a, b := build(), build()
	if a == b || a.Key() != b.Key() {
		t.Errorf("equal paths have keys %q and %q", a.Key(), b.Key())
	}
	if got, want := a.Key(), "winding|M0,0L10,0C10,5,5,10,0,10Z"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValueConstructors(t *testing.T) {
	if got, want := Vec2(3, -4), (Vector2{X: 3, Y: -4}); got != want {
		t.Errorf("Vec2: got %v, want %v", got, want)
	}
	if got, want := ColorFromRGB(1, 0.5, 0), (Color{A: 1, R: 1, G: 0.5, B: 0}); got != want {
		t.Errorf("ColorFromRGB: got %v, want %v", got, want)
	}
}
