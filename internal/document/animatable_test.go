package document

import "testing"

func TestAnimatableIsAnimated(t *testing.T) {
	tests := []struct {
		name string
		a    Animatable[float64]
		want bool
	}{
		{"static", Static(3.0), false},
		{"single keyframe", Animated(Keyframe[float64]{Frame: 1, Value: 2}), false},
		{"two keyframes", Animated(Keyframe[float64]{Frame: 1, Value: 2}, Keyframe[float64]{Frame: 2, Value: 3}), true},
	}
	for _, tt := range tests {
		if got := tt.a.IsAnimated(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScaled(t *testing.T) {
	a := Animated(
		Keyframe[float64]{Frame: 0, Value: 100, Easing: HoldEasing},
		Keyframe[float64]{Frame: 10, Value: 50},
	)
	got := Scaled(a, 0.5)
	if got.InitialValue != 50 {
		t.Errorf("initial: got %v, want 50", got.InitialValue)
	}
	for i, kf := range got.Keyframes {
		if want := a.Keyframes[i].Value * 0.5; kf.Value != want {
			t.Errorf("keyframe %d: got %v, want %v", i, kf.Value, want)
		}
		if kf.Easing != a.Keyframes[i].Easing || kf.Frame != a.Keyframes[i].Frame {
			t.Errorf("keyframe %d: timing changed", i)
		}
	}
}

func TestEasingOvershoots(t *testing.T) {
	tests := []struct {
		e    Easing
		want bool
	}{
		{LinearEasing, false},
		{Easing{}, false},
		{HoldEasing, false},
		{CubicBezierEasing(0.4, 0, 0.6, 1), false},
		{CubicBezierEasing(0.4, -0.2, 0.6, 1), true},
		{CubicBezierEasing(0.4, 0, 0.6, 1.5), true},
	}
	for _, tt := range tests {
		if got := tt.e.Overshoots(); got != tt.want {
			t.Errorf("%+v: got %v, want %v", tt.e, got, tt.want)
		}
	}
}

func TestPathGeometryReversed(t *testing.T) {
	g := PathGeometry{
		Closed: true,
		Vertices: []BezierVertex{
			{Point: Vec2(0, 0), OutTangent: Vec2(1, 0)},
			{Point: Vec2(10, 0), InTangent: Vec2(-1, 0)},
		},
	}
	r := g.Reversed()
	if r.Vertices[0].Point != Vec2(10, 0) || r.Vertices[0].OutTangent != Vec2(-1, 0) {
		t.Errorf("got %+v", r.Vertices[0])
	}
	if !r.Closed {
		t.Errorf("closed flag lost")
	}
}
