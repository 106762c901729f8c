package expressions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/inamate/inamate/lottiegen/internal/document"
)

func TestString(t *testing.T) {
	pos := Property("my", "Position", Vector2)
	size := Property("my", "Size", Vector2)
	a := Property("my", "A", Scalar)
	b := Property("my", "B", Scalar)
	c := Property("my", "C", Scalar)

	tests := []struct {
		name string
		e    *Expr
		want string
	}{
		{"offset", Subtract(pos, Divide(size, Number(2))), "my.Position - my.Size / 2"},
		{"left assoc", Subtract(Subtract(a, b), c), "my.A - my.B - my.C"},
		{"right grouping", Subtract(a, Subtract(b, c)), "my.A - (my.B - my.C)"},
		{"sum right", Add(a, Add(b, c)), "my.A + my.B + my.C"},
		{"product of sum", Multiply(Add(a, b), c), "(my.A + my.B) * my.C"},
		{"negative constant", Add(a, Number(-2)), "my.A + (-2)"},
		{"leading negative", Multiply(Number(-0.5), a), "-0.5 * my.A"},
		{"negate sum", Negate(Add(a, b)), "-(my.A + my.B)"},
		{"min", Min(a, Max(b, Number(1))), "Min(my.A, Max(my.B, 1))"},
		{"ternary", Ternary(Less(a, b), a, Add(b, c)), "my.A < my.B ? my.A : my.B + my.C"},
		{"progress", Add(Multiply(Property("root", "Progress", Scalar), Number(0.5)), Number(0.25)), "root.Progress * 0.5 + 0.25"},
		{"vector", ConstVec2(1.5, 0), "Vector2(1.5, 0)"},
		{"logic", Or(And(Less(a, b), Greater(b, c)), Equal(a, c)), "my.A < my.B && my.B > my.C || my.A == my.C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeMismatchPanics(t *testing.T) {
	tests := []struct {
		name string
		f    func()
	}{
		{"add scalar vector", func() { Add(Number(1), ConstVec2(1, 1)) }},
		{"min vector", func() { Min(ConstVec2(1, 1), Number(1)) }},
		{"ternary scalar condition", func() { Ternary(Number(1), Number(1), Number(2)) }},
		{"ternary branches", func() { Ternary(Bool(true), Number(1), ConstVec2(1, 2)) }},
		{"vector of bool", func() { Vec2(Bool(true), Number(1)) }},
		{"scalar channel", func() { Channel(Number(1), "X") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("no panic")
				}
			}()
			tt.f()
		})
	}
}

func TestSimplified(t *testing.T) {
	a := Property("my", "A", Scalar)
	tests := []struct {
		e    *Expr
		want string
	}{
		{Add(Number(1), Number(2)), "3"},
		{Add(a, Number(0)), "my.A"},
		{Multiply(Number(1), a), "my.A"},
		{Multiply(a, Number(0)), "0"},
		{Subtract(Number(0), a), "-my.A"},
		{Negate(Negate(a)), "my.A"},
		{Divide(a, Number(1)), "my.A"},
		{Max(Number(1), Number(4)), "4"},
		{Ternary(Less(Number(1), Number(2)), a, Number(3)), "my.A"},
		{Add(ConstVec2(1, 2), Vec2(a, Number(3))), "Vector2(1 + my.A, 5)"},
		{Multiply(ConstVec2(2, 4), Number(0.5)), "Vector2(1, 2)"},
	}
	for _, tt := range tests {
		if got := tt.e.Simplified().String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestSimplifiedIsMemoized(t *testing.T) {
	e := Add(Property("my", "A", Scalar), Number(0))
	if e.Simplified() != e.Simplified() {
		t.Errorf("Simplified returned different nodes")
	}
}

func TestChannel(t *testing.T) {
	pos := Property("my", "Position", Vector2)
	size := Property("my", "Size", Vector2)
	off := Subtract(pos, Divide(size, Number(2)))

	if got, want := Channel(off, "Y").String(), "my.Position.Y - my.Size.Y / 2"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Channel(off, "X").Type(); got != Scalar {
		t.Errorf("got %s, want Scalar", got)
	}
	v := Vec2(Number(3), Property("my", "A", Scalar))
	if got := Channel(v, "Y").String(); got != "my.A" {
		t.Errorf("got %q", got)
	}
}

func TestReferences(t *testing.T) {
	e := Add(Min(Property("my", "TStart", Scalar), Property("my", "TEnd", Scalar)),
		Multiply(Property("root", "Progress", Scalar), Property("my", "TStart", Scalar)))
	want := []string{"my.TStart", "my.TEnd", "root.Progress"}
	if diff := cmp.Diff(want, References(e)); diff != "" {
		t.Errorf("references (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"my", "root"}, Owners(e)); diff != "" {
		t.Errorf("owners (-want +got):\n%s", diff)
	}
}

func TestCubicBezier2(t *testing.T) {
	line := CubicBezier2{P0: document.Vec2(0, 0), P1: document.Vec2(0, 0), P2: document.Vec2(10, 0), P3: document.Vec2(10, 0)}
	if !line.IsEquivalentToLinear() {
		t.Errorf("degenerate curve not linear")
	}
	curve := CubicBezier2{P0: document.Vec2(0, 0), P1: document.Vec2(0, 10), P2: document.Vec2(10, 10), P3: document.Vec2(10, 0)}
	if curve.IsEquivalentToLinear() {
		t.Errorf("curve reported linear")
	}
	if got := curve.At(0.5); got != document.Vec2(5, 7.5) {
		t.Errorf("At(0.5): got %v, want (5, 7.5)", got)
	}
	e := curve.Expression(Property("root", "t0", Scalar))
	if e.Type() != Vector2 {
		t.Fatalf("got %s, want Vector2", e.Type())
	}
	if refs := References(e); len(refs) != 1 || refs[0] != "root.t0" {
		t.Errorf("got references %v", refs)
	}
}
