package translate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

func newComposition(layers ...document.Layer) *document.Composition {
	return &document.Composition{
		Name:            "test",
		Width:           100,
		Height:          100,
		OutPoint:        60,
		FramesPerSecond: 30,
		Layers:          layers,
	}
}

func newShapeLayer(t *testing.T, index int, contents ...document.ShapeContent) *document.ShapeLayer {
	t.Helper()
	l, err := document.NewLayer(document.LayerTypeShape)
	if err != nil {
		t.Fatal(err)
	}
	sl := l.(*document.ShapeLayer)
	sl.Name = "layer"
	sl.Index = index
	sl.OutPoint = 60
	sl.Contents = contents
	return sl
}

func newContent[T document.ShapeContent](t *testing.T, ty document.ShapeContentType) T {
	t.Helper()
	c, err := document.NewShapeContent(ty)
	if err != nil {
		t.Fatal(err)
	}
	return c.(T)
}

func redRectangle(t *testing.T) (*document.Rectangle, *document.SolidColorFill) {
	rect := newContent[*document.Rectangle](t, document.ContentRectangle)
	rect.Position = document.Static(document.Vec3(50, 50, 0))
	rect.Size = document.Static(document.Vec3(20, 10, 0))
	fill := newContent[*document.SolidColorFill](t, document.ContentFill)
	fill.Color = document.Static(document.Red)
	return rect, fill
}

func translate(t *testing.T, comp *document.Composition) *Result {
	t.Helper()
	r, err := Translate(comp, Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	return r
}

// layerShapes returns the shapes the first layer translated to.
func layerShapes(t *testing.T, r *Result) []scene.Shape {
	t.Helper()
	if len(r.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(r.Root.Children))
	}
	host, ok := r.Root.Children[0].(*scene.ShapeVisual)
	if !ok {
		t.Fatalf("root child is %s, want ShapeVisual", r.Root.Children[0].Kind())
	}
	return host.Shapes
}

// nodes lists every node reachable from n.
func nodes(n scene.Node) []scene.Node {
	out := []scene.Node{n}
	switch n := n.(type) {
	case *scene.ContainerVisual:
		for _, c := range n.Children {
			out = append(out, nodes(c)...)
		}
	case *scene.ShapeVisual:
		if n.Clip != nil {
			out = append(out, n.Clip)
		}
		for _, s := range n.Shapes {
			out = append(out, nodes(s)...)
		}
	case *scene.ContainerShape:
		for _, s := range n.Shapes {
			out = append(out, nodes(s)...)
		}
	case *scene.SpriteShape:
		out = append(out, n.Geometry)
		if n.FillBrush != nil {
			out = append(out, n.FillBrush)
		}
		if n.StrokeBrush != nil {
			out = append(out, n.StrokeBrush)
		}
	}
	return out
}

func TestStaticRectangle(t *testing.T) {
	rect, fill := redRectangle(t)
	r := translate(t, newComposition(newShapeLayer(t, 1, rect, fill)))

	if len(r.Issues) != 0 {
		t.Errorf("issues = %v, want none", r.Issues)
	}
	var sprites []*scene.SpriteShape
	for _, n := range nodes(r.Root) {
		if len(n.Base().Animators()) != 0 {
			t.Errorf("%s has animators", n.Kind())
		}
		if s, ok := n.(*scene.SpriteShape); ok {
			sprites = append(sprites, s)
		}
	}
	if len(sprites) != 1 {
		t.Fatalf("got %d sprites, want 1", len(sprites))
	}
	geo, ok := sprites[0].Geometry.(*scene.RectangleGeometry)
	if !ok {
		t.Fatalf("geometry is %s, want RectangleGeometry", sprites[0].Geometry.Kind())
	}
	if want := document.Vec2(40, 45); geo.Offset != want {
		t.Errorf("offset = %v, want %v", geo.Offset, want)
	}
	if want := document.Vec2(20, 10); geo.Size != want {
		t.Errorf("size = %v, want %v", geo.Size, want)
	}
	if sprites[0].FillBrush == nil || sprites[0].FillBrush.Color != document.Red {
		t.Errorf("fill brush = %+v, want red", sprites[0].FillBrush)
	}
	if sprites[0].StrokeBrush != nil {
		t.Error("unexpected stroke brush")
	}
}

func TestLayerVisibility(t *testing.T) {
	rect, fill := redRectangle(t)
	layer := newShapeLayer(t, 1, rect, fill)
	layer.InPoint, layer.OutPoint = 15, 45
	r := translate(t, newComposition(layer))

	shapes := layerShapes(t, r)
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	visibility := shapes[0].(*scene.ContainerShape)
	if want := document.Vec2(0, 0); visibility.Scale != want {
		t.Errorf("initial scale = %v, want %v", visibility.Scale, want)
	}
	an := visibility.Animator("Scale")
	if an == nil {
		t.Fatal("visibility scale is not animated")
	}
	anim := an.Animation.(*scene.KeyFrameAnimation[scene.Vector2])
	got := make([]float64, len(anim.KeyFrames))
	for i, kf := range anim.KeyFrames {
		got[i] = kf.Progress
		if _, ok := kf.Easing.(*scene.StepEasing); !ok {
			t.Errorf("keyframe %d easing = %s, want StepEasing", i, kf.Easing.Kind())
		}
	}
	if diff := cmp.Diff([]float64{0.25, 0.75}, got); diff != "" {
		t.Errorf("keyframe progress (-want +got):\n%s", diff)
	}
	if an.Controller == nil || !an.Controller.Paused {
		t.Fatal("visibility animation is not paused")
	}
	binding := an.Controller.Animator("Progress")
	if binding == nil {
		t.Fatal("visibility animation is not bound to the root progress")
	}
	if got, want := binding.Animation.(*scene.ExpressionAnimation).Expression.String(), "root.Progress"; got != want {
		t.Errorf("binding = %q, want %q", got, want)
	}
}

func TestCrossingTrimUsesMinMax(t *testing.T) {
	ellipse := newContent[*document.Ellipse](t, document.ContentEllipse)
	ellipse.Diameter = document.Static(document.Vec3(40, 40, 0))
	stroke := newContent[*document.SolidColorStroke](t, document.ContentStroke)
	trim := newContent[*document.TrimPath](t, document.ContentTrimPath)
	trim.Start = document.Animated(
		document.Keyframe[float64]{Frame: 0, Value: 0},
		document.Keyframe[float64]{Frame: 60, Value: 100},
	)
	trim.End = document.Static(50.0)

	if got := compareAnimatables(newRootContext(newComposition()), trim.Start, trim.End); got != orderBeforeAndAfter {
		t.Fatalf("order = %v, want orderBeforeAndAfter", got)
	}

	r := translate(t, newComposition(newShapeLayer(t, 1, ellipse, stroke, trim)))
	var geo *scene.EllipseGeometry
	for _, n := range nodes(r.Root) {
		if g, ok := n.(*scene.EllipseGeometry); ok {
			geo = g
		}
	}
	if geo == nil {
		t.Fatal("no ellipse geometry")
	}
	if diff := cmp.Diff([]string{"TStart", "TEnd"}, geo.Properties().Names()); diff != "" {
		t.Errorf("custom properties (-want +got):\n%s", diff)
	}
	for property, want := range map[string]string{
		"TrimStart": "Min(my.TStart, my.TEnd)",
		"TrimEnd":   "Max(my.TStart, my.TEnd)",
	} {
		an := geo.Animator(property)
		if an == nil {
			t.Errorf("%s is not animated", property)
			continue
		}
		e, ok := an.Animation.(*scene.ExpressionAnimation)
		if !ok {
			t.Errorf("%s animation is %s, want ExpressionAnimation", property, an.Animation.Kind())
			continue
		}
		if got := e.Expression.String(); got != want {
			t.Errorf("%s = %q, want %q", property, got, want)
		}
	}
}

func TestCompareAnimatables(t *testing.T) {
	ctx := newRootContext(newComposition())
	overshoot := ramp(0, 10)
	overshoot.Keyframes[0].Easing = document.CubicBezierEasing(0.5, -0.5, 0.5, 1.5)

	tests := []struct {
		name string
		a, b document.Animatable[float64]
		want order
	}{
		{"static before", document.Static(10.0), document.Static(20.0), orderBefore},
		{"static after", document.Static(30.0), document.Static(20.0), orderAfter},
		{"static equal", document.Static(20.0), document.Static(20.0), orderEqual},
		{"animated below constant", ramp(0, 40), document.Static(50.0), orderBefore},
		{"constant below animated", document.Static(0.0), ramp(10, 40), orderBefore},
		{"animated crossing constant", ramp(0, 100), document.Static(50.0), orderBeforeAndAfter},
		{"overshooting easing", overshoot, document.Static(50.0), orderBeforeAndAfter},
		{"parallel ramps", ramp(50, 100), ramp(0, 50), orderAfter},
		{"different frame counts", ramp(0, 10), document.Animated(
			document.Keyframe[float64]{Frame: 0, Value: 20},
			document.Keyframe[float64]{Frame: 30, Value: 30},
			document.Keyframe[float64]{Frame: 60, Value: 40},
		), orderBeforeAndAfter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareAnimatables(ctx, tt.a, tt.b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiplyOpacity(t *testing.T) {
	comp := newComposition()
	tr := newTranslator(comp, Options{})
	ctx := newRootContext(comp)
	animated := document.Animated(
		document.Keyframe[float64]{Frame: 0, Value: 20, Easing: document.CubicBezierEasing(0.3, 0, 0.7, 1)},
		document.Keyframe[float64]{Frame: 30, Value: 100},
		document.Keyframe[float64]{Frame: 60, Value: 60},
	)

	for _, v := range []float64{0, 50, 100} {
		for _, swap := range []bool{false, true} {
			a, b := animated, document.Static(v)
			if swap {
				a, b = b, a
			}
			got := tr.multiplyOpacity(ctx, a, b)
			if len(got.Keyframes) != len(animated.Keyframes) {
				t.Fatalf("got %d keyframes, want %d", len(got.Keyframes), len(animated.Keyframes))
			}
			for i, kf := range got.Keyframes {
				want := animated.Keyframes[i]
				if kf.Frame != want.Frame || kf.Easing != want.Easing {
					t.Errorf("keyframe %d timing changed: %+v", i, kf)
				}
				if kf.Value != want.Value*v/100 {
					t.Errorf("v=%v keyframe %d = %v, want %v", v, i, kf.Value, want.Value*v/100)
				}
			}
		}
	}
	if tr.issues.Len() != 0 {
		t.Errorf("issues = %v", tr.issues.Issues())
	}

	if got := tr.multiplyOpacity(ctx, animated, animated); !cmp.Equal(got, animated) {
		t.Error("two animated opacities should keep the first")
	}
	if diff := cmp.Diff([]issues.Issue{{Code: issues.MultipliedAnimations, Description: issues.MultipliedAnimations.Description()}}, tr.issues.Issues()); diff != "" {
		t.Errorf("issues (-want +got):\n%s", diff)
	}
}

func ramp(from, to float64) document.Animatable[float64] {
	return document.Animated(
		document.Keyframe[float64]{Frame: 0, Value: from},
		document.Keyframe[float64]{Frame: 60, Value: to},
	)
}

func TestFoldFills(t *testing.T) {
	green := document.ColorFromRGB(0, 1, 0)
	red := &fillPaint{color: document.Static(document.Red), opacity: document.Static(100.0)}
	tests := []struct {
		name  string
		prev  *fillPaint
		next  *fillPaint
		want  document.Color
		codes []issues.Code
	}{
		{"single fill", nil, red, document.Red, nil},
		{
			"two visible fills", red,
			&fillPaint{color: document.Static(green), opacity: document.Static(100.0)},
			green, []issues.Code{issues.MultipleFills},
		},
		{
			"transparent fill keeps the visible one", red,
			&fillPaint{color: document.Static(green), opacity: document.Static(0.0)},
			document.Red, nil,
		},
		{
			"transparent fill is replaced",
			&fillPaint{color: document.Static(document.Color{R: 1}), opacity: document.Static(100.0)},
			&fillPaint{color: document.Static(green), opacity: document.Static(100.0)},
			green, nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := newComposition()
			tr := newTranslator(comp, Options{})
			sc := newShapeContext(document.Static(100.0))
			if tt.prev != nil {
				sc = sc.withFill(tr, tt.prev)
			}
			sc = sc.withFill(tr, tt.next)
			if got := valueAt(sc.fill.color, 0); got != tt.want {
				t.Errorf("fill color = %v, want %v", got, tt.want)
			}
			if diff := cmp.Diff(tt.codes, codes(tr.issues.Issues())); diff != "" {
				t.Errorf("issues (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFoldStrokes(t *testing.T) {
	stroke := func(thickness document.Animatable[float64]) *strokePaint {
		return &strokePaint{
			color:     document.Static(document.Red),
			opacity:   document.Static(100.0),
			thickness: thickness,
		}
	}
	thick, wider, animated := stroke(document.Static(8.0)), stroke(document.Static(12.0)), stroke(ramp(1, 4))
	tests := []struct {
		name       string
		prev, next *strokePaint
		want       *strokePaint
		codes      []issues.Code
	}{
		{"single stroke", nil, thick, thick, nil},
		{"thinner stroke is covered", thick, stroke(document.Static(2.0)), thick, nil},
		{"equal stroke is covered", thick, stroke(document.Static(8.0)), thick, nil},
		{"wider stroke", thick, wider, wider, []issues.Code{issues.MultipleStrokes}},
		{"animated thickness", thick, animated, animated, []issues.Code{issues.MultipleStrokes}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := newComposition()
			tr := newTranslator(comp, Options{})
			ctx := newRootContext(comp)
			sc := newShapeContext(document.Static(100.0))
			if tt.prev != nil {
				sc = sc.withStroke(tr, ctx, tt.prev)
			}
			sc = sc.withStroke(tr, ctx, tt.next)
			if sc.stroke != tt.want {
				t.Errorf("stroke thickness = %v, want %v", valueAt(sc.stroke.thickness, 0), valueAt(tt.want.thickness, 0))
			}
			if diff := cmp.Diff(tt.codes, codes(tr.issues.Issues())); diff != "" {
				t.Errorf("issues (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFoldRoundedCorners(t *testing.T) {
	corner := func(r document.Animatable[float64]) *document.RoundedCorner {
		return &document.RoundedCorner{Radius: r}
	}
	static5, static10, zero := corner(document.Static(5.0)), corner(document.Static(10.0)), corner(document.Static(0.0))
	animated, animated2 := corner(ramp(0, 10)), corner(ramp(10, 0))

	tests := []struct {
		name       string
		prev, next *document.RoundedCorner
		want       *document.RoundedCorner
		codes      []issues.Code
	}{
		{"single corner", nil, static5, static5, nil},
		{"static corner replaces", static5, static10, static10, nil},
		{"zero corner is ignored", static5, zero, static5, nil},
		{"animated corner under a static one", static5, animated, static5, nil},
		{"animated corner over zero", zero, animated, animated, nil},
		{"two animated corners", animated, animated2, animated2, []issues.Code{issues.MultipleAnimatedRoundedCorners}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := newComposition()
			tr := newTranslator(comp, Options{})
			ctx := newRootContext(comp)
			sc := newShapeContext(document.Static(100.0))
			if tt.prev != nil {
				sc = sc.withRoundedCorner(tr, ctx, tt.prev)
			}
			sc = sc.withRoundedCorner(tr, ctx, tt.next)
			if sc.roundedCorner != tt.want {
				t.Errorf("kept radius %v, want %v", valueAt(sc.roundedCorner.Radius, 0), valueAt(tt.want.Radius, 0))
			}
			if diff := cmp.Diff(tt.codes, codes(tr.issues.Issues())); diff != "" {
				t.Errorf("issues (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFoldTrims(t *testing.T) {
	trim := func(start, end float64) *document.TrimPath {
		return &document.TrimPath{Start: document.Static(start), End: document.Static(end), Offset: document.Static(0.0)}
	}
	whole, part, other, empty := trim(0, 100), trim(10, 50), trim(20, 60), trim(30, 30)

	tests := []struct {
		name       string
		prev, next *document.TrimPath
		want       *document.TrimPath
		codes      []issues.Code
	}{
		{"single trim", nil, part, part, nil},
		{"whole trim is ignored", part, whole, part, nil},
		{"whole trim is replaced", whole, part, part, nil},
		{"empty trim wins", part, empty, empty, nil},
		{"empty trim is kept", empty, part, empty, nil},
		{"two partial trims", part, other, other, []issues.Code{issues.MultipleTrimPaths}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := newComposition()
			tr := newTranslator(comp, Options{})
			ctx := newRootContext(comp)
			sc := newShapeContext(document.Static(100.0))
			if tt.prev != nil {
				sc = sc.withTrim(tr, ctx, tt.prev)
			}
			sc = sc.withTrim(tr, ctx, tt.next)
			if sc.trim != tt.want {
				t.Errorf("kept trim %v-%v, want %v-%v",
					valueAt(sc.trim.Start, 0), valueAt(sc.trim.End, 0),
					valueAt(tt.want.Start, 0), valueAt(tt.want.End, 0))
			}
			if diff := cmp.Diff(tt.codes, codes(tr.issues.Issues())); diff != "" {
				t.Errorf("issues (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNestedTrimsReachTheGeometry(t *testing.T) {
	ellipse := newContent[*document.Ellipse](t, document.ContentEllipse)
	ellipse.Diameter = document.Static(document.Vec3(40, 40, 0))
	stroke := newContent[*document.SolidColorStroke](t, document.ContentStroke)
	inner := newContent[*document.TrimPath](t, document.ContentTrimPath)
	inner.Start, inner.End = document.Static(10.0), document.Static(50.0)
	outer := newContent[*document.TrimPath](t, document.ContentTrimPath)
	outer.Start, outer.End = document.Static(0.0), document.Static(100.0)

	r := translate(t, newComposition(newShapeLayer(t, 1, ellipse, stroke, inner, outer)))
	if len(r.Issues) != 0 {
		t.Errorf("issues = %v, want none", r.Issues)
	}
	var geo *scene.EllipseGeometry
	for _, n := range nodes(r.Root) {
		if g, ok := n.(*scene.EllipseGeometry); ok {
			geo = g
		}
	}
	if geo == nil {
		t.Fatal("no ellipse geometry")
	}
	want := scene.Trim{TrimStart: 0.1, TrimEnd: 0.5}
	if diff := cmp.Diff(want, *geo.Trimming(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("trim (-want +got):\n%s", diff)
	}
}

func TestGradientsFallBackToFirstStop(t *testing.T) {
	green := document.ColorFromRGB(0, 1, 0)
	stops := []document.GradientStop{
		{Offset: 0, Color: green},
		{Offset: 1, Color: document.ColorFromRGB(0, 0, 1)},
	}

	t.Run("fill", func(t *testing.T) {
		rect, _ := redRectangle(t)
		fill := newContent[*document.GradientFill](t, document.ContentGradientFill)
		fill.Stops = stops
		r := translate(t, newComposition(newShapeLayer(t, 1, rect, fill)))

		sprite := onlySprite(t, r)
		if sprite.FillBrush == nil || sprite.FillBrush.Color != green {
			t.Errorf("fill brush = %+v, want the first stop color", sprite.FillBrush)
		}
		if diff := cmp.Diff([]issues.Code{issues.GradientFill}, codes(r.Issues)); diff != "" {
			t.Errorf("issues (-want +got):\n%s", diff)
		}
	})

	t.Run("stroke", func(t *testing.T) {
		rect, _ := redRectangle(t)
		stroke := newContent[*document.GradientStroke](t, document.ContentGradientStroke)
		stroke.Stops = stops
		stroke.Thickness = document.Static(3.0)
		r := translate(t, newComposition(newShapeLayer(t, 1, rect, stroke)))

		sprite := onlySprite(t, r)
		if sprite.StrokeBrush == nil || sprite.StrokeBrush.Color != green {
			t.Errorf("stroke brush = %+v, want the first stop color", sprite.StrokeBrush)
		}
		if sprite.StrokeThickness != 3 {
			t.Errorf("stroke thickness = %v, want 3", sprite.StrokeThickness)
		}
		if diff := cmp.Diff([]issues.Code{issues.GradientStroke}, codes(r.Issues)); diff != "" {
			t.Errorf("issues (-want +got):\n%s", diff)
		}
	})
}

func onlySprite(t *testing.T, r *Result) *scene.SpriteShape {
	t.Helper()
	var sprites []*scene.SpriteShape
	for _, n := range nodes(r.Root) {
		if s, ok := n.(*scene.SpriteShape); ok {
			sprites = append(sprites, s)
		}
	}
	if len(sprites) != 1 {
		t.Fatalf("got %d sprites, want 1", len(sprites))
	}
	return sprites[0]
}

func TestRepeaterCopies(t *testing.T) {
	rect, fill := redRectangle(t)
	rep := newContent[*document.Repeater](t, document.ContentRepeater)
	rep.Count = document.Static(3.0)
	rep.Transform.Position = document.Static(document.Vec3(10, 0, 0))
	rep.Transform.Rotation = document.Static(15.0)
	r := translate(t, newComposition(newShapeLayer(t, 1, rect, fill, rep)))

	chain := layerShapes(t, r)[0].(*scene.ContainerShape)
	if len(chain.Shapes) != 3 {
		t.Fatalf("got %d copies, want 3", len(chain.Shapes))
	}
	step := scene.FromTransform(document.Vec2(10, 0), document.Vec2(0, 0), document.Vec2(1, 1), 15)
	for i, s := range chain.Shapes {
		c := s.(*scene.ContainerShape)
		if diff := cmp.Diff(step.Power(i+1), c.TransformMatrix, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("copy %d transform (-want +got):\n%s", i, diff)
		}
		if len(c.Shapes) != 1 {
			t.Errorf("copy %d has %d shapes, want 1", i, len(c.Shapes))
		}
	}
}

func TestAnimatedRepeaterIsSkipped(t *testing.T) {
	rect, fill := redRectangle(t)
	rep := newContent[*document.Repeater](t, document.ContentRepeater)
	rep.Offset = document.Static(1.0)
	r := translate(t, newComposition(newShapeLayer(t, 1, rect, fill, rep)))

	chain := layerShapes(t, r)[0].(*scene.ContainerShape)
	if _, ok := chain.Shapes[0].(*scene.SpriteShape); !ok || len(chain.Shapes) != 1 {
		t.Errorf("got %d shapes, want the rectangle alone", len(chain.Shapes))
	}
	if len(r.Issues) != 1 || r.Issues[0].Code != issues.Repeater {
		t.Errorf("issues = %v, want %s", r.Issues, issues.Repeater)
	}
}

func TestKeyframesOutsideWindow(t *testing.T) {
	rect, fill := redRectangle(t)
	layer := newShapeLayer(t, 1, rect, fill)
	layer.Transform.Position = document.Animated(
		document.Keyframe[document.Vector3]{Frame: 100, Value: document.Vec3(5, 5, 0)},
		document.Keyframe[document.Vector3]{Frame: 120, Value: document.Vec3(50, 50, 0)},
	)
	r := translate(t, newComposition(layer))

	chain := layerShapes(t, r)[0].(*scene.ContainerShape)
	if len(chain.Animators()) != 0 {
		t.Errorf("got %d animators, want none", len(chain.Animators()))
	}
	if want := document.Vec2(5, 5); chain.Offset != want {
		t.Errorf("offset = %v, want %v", chain.Offset, want)
	}
}

func TestKeyframeRetiming(t *testing.T) {
	rect, fill := redRectangle(t)
	layer := newShapeLayer(t, 1, rect, fill)
	layer.Transform.Rotation = document.Animated(
		document.Keyframe[float64]{Frame: 30, Value: 0},
		document.Keyframe[float64]{Frame: 90, Value: 180},
	)
	r := translate(t, newComposition(layer))

	chain := layerShapes(t, r)[0].(*scene.ContainerShape)
	an := chain.Animator("RotationAngleInDegrees")
	if an == nil {
		t.Fatal("rotation is not animated")
	}
	anim := an.Animation.(*scene.KeyFrameAnimation[float64])
	var progress, values []float64
	for _, kf := range anim.KeyFrames {
		progress = append(progress, kf.Progress)
		values = append(values, kf.Value)
	}
	// The animation spans frames 0..90: a hold keyframe at 0, then 30 and 90.
	if diff := cmp.Diff([]float64{0, 1.0 / 3, 1}, progress, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("progress (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0, 180}, values); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
	binding := an.Controller.Animator("Progress").Animation.(*scene.ExpressionAnimation)
	if got, want := binding.Expression.String(), "root.Progress * 0.6666666666666666"; got != want {
		t.Errorf("binding = %q, want %q", got, want)
	}
}

func TestSpatialPositionUsesExpressionKeyframe(t *testing.T) {
	rect, fill := redRectangle(t)
	layer := newShapeLayer(t, 1, rect, fill)
	layer.Transform.Position = document.Animated(
		document.Keyframe[document.Vector3]{
			Frame:             0,
			Value:             document.Vec3(0, 0, 0),
			SpatialOutTangent: document.Vec3(0, 40, 0),
			SpatialInTangent:  document.Vec3(-40, 0, 0),
		},
		document.Keyframe[document.Vector3]{Frame: 60, Value: document.Vec3(80, 80, 0)},
	)
	r := translate(t, newComposition(layer))

	chain := layerShapes(t, r)[0].(*scene.ContainerShape)
	anim := chain.Animator("Offset").Animation.(*scene.KeyFrameAnimation[scene.Vector2])
	last := anim.KeyFrames[len(anim.KeyFrames)-1]
	if last.Expression == nil {
		t.Fatal("curved segment is not an expression keyframe")
	}
	if diff := cmp.Diff([]string{ProgressProperty, "t0"}, r.Root.Properties().Names()); diff != "" {
		t.Errorf("root properties (-want +got):\n%s", diff)
	}
	if r.Root.Animator("t0") == nil {
		t.Error("segment driver is not animated")
	}
}

func TestMergePathsConcatenates(t *testing.T) {
	a, fill := redRectangle(t)
	b := newContent[*document.Rectangle](t, document.ContentRectangle)
	b.Position = document.Static(document.Vec3(10, 10, 0))
	b.Size = document.Static(document.Vec3(4, 4, 0))
	merge := newContent[*document.MergePaths](t, document.ContentMergePaths)
	r := translate(t, newComposition(newShapeLayer(t, 1, a, b, merge, fill)))

	chain := layerShapes(t, r)[0].(*scene.ContainerShape)
	if len(chain.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(chain.Shapes))
	}
	geo := chain.Shapes[0].(*scene.SpriteShape).Geometry.(*scene.PathGeometry)
	if len(geo.Path.Figures) != 2 {
		t.Fatalf("got %d figures, want 2", len(geo.Path.Figures))
	}
	if want := document.Vec2(60, 45); geo.Path.Figures[0].Start != want {
		t.Errorf("first figure starts at %v, want %v", geo.Path.Figures[0].Start, want)
	}
}

func TestUnsupportedLayers(t *testing.T) {
	text, _ := document.NewLayer(document.LayerTypeText)
	text.Base().Index = 1
	text.Base().OutPoint = 60
	comp := newComposition(text)

	r := translate(t, comp)
	if len(r.Issues) != 1 || r.Issues[0].Code != issues.TextLayer {
		t.Errorf("issues = %v, want %s", r.Issues, issues.TextLayer)
	}

	_, err := Translate(comp, Options{StrictTranslation: true})
	var ue *issues.UnsupportedError
	if !errors.As(err, &ue) {
		t.Fatalf("strict error = %v, want *issues.UnsupportedError", err)
	}
	if ue.Issue.Code != issues.TextLayer {
		t.Errorf("code = %s, want %s", ue.Issue.Code, issues.TextLayer)
	}
}

func TestInvalidDocuments(t *testing.T) {
	pre, _ := document.NewLayer(document.LayerTypePreComp)
	pre.(*document.PreCompLayer).RefID = "missing"
	pre.Base().OutPoint = 60

	self, _ := document.NewLayer(document.LayerTypePreComp)
	self.(*document.PreCompLayer).RefID = "loop"
	self.Base().OutPoint = 60
	cyclic := newComposition()
	cyclic.PreComps = map[string]*document.PreCompAsset{"loop": {ID: "loop", Layers: document.LayerCollection{self}}}
	cyclic.Layers = document.LayerCollection{self}

	empty := newComposition()
	empty.OutPoint = 0

	for name, comp := range map[string]*document.Composition{
		"missing precomp": newComposition(pre),
		"cyclic precomp":  cyclic,
		"empty window":    empty,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Translate(comp, Options{}); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("err = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestMaskedLayerBecomesVisual(t *testing.T) {
	rect, fill := redRectangle(t)
	layer := newShapeLayer(t, 1, rect, fill)
	square := document.PathGeometry{Closed: true, Vertices: []document.BezierVertex{
		{Point: document.Vec2(0, 0)}, {Point: document.Vec2(50, 0)}, {Point: document.Vec2(50, 50)},
	}}
	layer.Masks = []document.Mask{
		{Mode: document.MaskModeAdd, Points: document.Static(square), Opacity: document.Static(100.0)},
		{Mode: document.MaskModeSubtract, Points: document.Static(square), Opacity: document.Static(50.0)},
	}
	r := translate(t, newComposition(layer))

	chain, ok := r.Root.Children[0].(*scene.ContainerVisual)
	if !ok {
		t.Fatalf("root child is %s, want ContainerVisual", r.Root.Children[0].Kind())
	}
	host := chain.Children[0].(*scene.ShapeVisual)
	if _, ok := host.Clip.(*scene.PathGeometry); !ok {
		t.Errorf("clip = %v, want a path geometry", host.Clip)
	}
	if diff := cmp.Diff([]issues.Code{issues.MultipleMasks}, codes(r.Issues)); diff != "" {
		t.Errorf("issue codes (-want +got):\n%s", diff)
	}
}

func TestPreCompIsNestedAndClipped(t *testing.T) {
	rect, fill := redRectangle(t)
	inner := newShapeLayer(t, 1, rect, fill)
	inner.InPoint, inner.OutPoint = 10, 70

	pre, _ := document.NewLayer(document.LayerTypePreComp)
	pl := pre.(*document.PreCompLayer)
	pl.RefID, pl.Width, pl.Height = "inner", 40, 30
	pl.StartTime = 10
	pl.Index, pl.OutPoint = 2, 60
	comp := newComposition(pl)
	comp.PreComps = map[string]*document.PreCompAsset{"inner": {ID: "inner", Layers: document.LayerCollection{inner}}}

	r := translate(t, comp)
	chain := r.Root.Children[0].(*scene.ContainerVisual)
	content := chain.Children[0].(*scene.ContainerVisual)
	if want := document.Vec2(40, 30); content.Size != want {
		t.Errorf("size = %v, want %v", content.Size, want)
	}
	clip, ok := content.Clip.(*scene.RectangleGeometry)
	if !ok || clip.Size != content.Size {
		t.Errorf("clip = %v, want the precomp bounds", content.Clip)
	}
	// Inner frames 10..70 are root frames 20..80: visible from progress 1/3.
	host := content.Children[0].(*scene.ShapeVisual)
	visibility := host.Shapes[0].(*scene.ContainerShape)
	anim := visibility.Animator("Scale").Animation.(*scene.KeyFrameAnimation[scene.Vector2])
	if len(anim.KeyFrames) != 1 {
		t.Fatalf("got %d visibility keyframes, want 1", len(anim.KeyFrames))
	}
	if got := anim.KeyFrames[0].Progress; got < 1.0/3-1e-9 || got > 1.0/3+1e-9 {
		t.Errorf("appears at %v, want 1/3", got)
	}
}

func TestDeterministic(t *testing.T) {
	dump := func() string {
		r := translate(t, document.NewSampleComposition())
		b, err := scene.MarshalYAML(r.Root)
		if err != nil {
			t.Fatal(err)
		}
		return string(b)
	}
	first := dump()
	if diff := cmp.Diff(first, dump()); diff != "" {
		t.Errorf("translations differ (-first +second):\n%s", diff)
	}
}

func codes(list []issues.Issue) []issues.Code {
	var out []issues.Code
	for _, i := range list {
		out = append(out, i.Code)
	}
	return out
}
