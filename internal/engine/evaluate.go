package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// ProgressProperty is the root property every animation is bound to.
const ProgressProperty = "Progress"

// ErrCycle is returned when properties depend on each other.
var ErrCycle = errors.New("cyclic property dependency")

// Programs caches compiled expressions. It is safe for concurrent use and
// is meant to be shared by every evaluation of a scene.
type Programs struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

func NewPrograms() *Programs {
	return &Programs{programs: make(map[string]*vm.Program)}
}

func exprOptions() []expr.Option {
	return []expr.Option{
		expr.Function("Min", func(params ...any) (any, error) {
			return math.Min(toFloat64(params[0]), toFloat64(params[1])), nil
		}),
		expr.Function("Max", func(params ...any) (any, error) {
			return math.Max(toFloat64(params[0]), toFloat64(params[1])), nil
		}),
	}
}

func (p *Programs) compile(src string) (*vm.Program, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prg, ok := p.programs[src]; ok {
		return prg, nil
	}
	prg, err := expr.Compile(src, exprOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	p.programs[src] = prg
	return prg, nil
}

type propertyKey struct {
	node     scene.Node
	property string
}

// State is the value of every property of a scene at one root progress.
// Values are computed on first use.
type State struct {
	root     scene.Node
	progress float64
	programs *Programs
	values   map[propertyKey]any
	pending  map[propertyKey]bool
}

// Evaluate returns the state of the scene under root at progress, which is
// clamped to 0..1.
func Evaluate(root scene.Node, progress float64, programs *Programs) *State {
	if programs == nil {
		programs = NewPrograms()
	}
	return &State{
		root:     root,
		progress: math.Max(0, math.Min(1, progress)),
		programs: programs,
		values:   make(map[propertyKey]any),
		pending:  make(map[propertyKey]bool),
	}
}

func (s *State) Progress() float64 { return s.progress }

// Value returns the current value of a property of n: the result of its
// animation if it has one, its assigned value otherwise.
func (s *State) Value(n scene.Node, property string) (any, error) {
	key := propertyKey{n, property}
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	if s.pending[key] {
		return nil, fmt.Errorf("%w: %s.%s", ErrCycle, n.Kind(), property)
	}
	s.pending[key] = true
	defer delete(s.pending, key)

	v, err := s.compute(n, property)
	if err != nil {
		return nil, err
	}
	s.values[key] = v
	return v, nil
}

// Scalar is Value for float64 properties.
func (s *State) Scalar(n scene.Node, property string) (float64, error) {
	v, err := s.Value(n, property)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s.%s is %T, not a scalar", n.Kind(), property, v)
	}
	return f, nil
}

func valueAs[T any](s *State, n scene.Node, property string) (T, error) {
	var zero T
	v, err := s.Value(n, property)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s.%s is %T, not %T", n.Kind(), property, v, zero)
	}
	return t, nil
}

func (s *State) compute(n scene.Node, property string) (any, error) {
	if n == s.root && property == ProgressProperty {
		return s.progress, nil
	}
	base, ok := scene.Property(n, property)
	if !ok {
		return nil, fmt.Errorf("%s has no property %q", n.Kind(), property)
	}
	an := n.Base().Animator(property)
	if an == nil {
		return base, nil
	}

	switch a := an.Animation.(type) {
	case *scene.ExpressionAnimation:
		return s.evalExpression(a.Expression, a, n)
	}

	p := 0.0
	if an.Controller != nil {
		if an.Controller.Animator(ProgressProperty) != nil {
			v, err := s.Scalar(an.Controller, ProgressProperty)
			if err != nil {
				return nil, err
			}
			p = math.Max(0, math.Min(1, v))
		}
	}

	switch a := an.Animation.(type) {
	case *scene.KeyFrameAnimation[float64]:
		return evalKeyFrames(s, n, a, p, base, lerpScalar)
	case *scene.KeyFrameAnimation[scene.Vector2]:
		return evalKeyFrames(s, n, a, p, base, scene.Vector2.Lerp)
	case *scene.KeyFrameAnimation[scene.Vector3]:
		return evalKeyFrames(s, n, a, p, base, lerpVector3)
	case *scene.KeyFrameAnimation[scene.Color]:
		return evalKeyFrames(s, n, a, p, base, lerpColor)
	case *scene.KeyFrameAnimation[scene.Matrix3x2]:
		return evalKeyFrames(s, n, a, p, base, lerpMatrix)
	case *scene.KeyFrameAnimation[*scene.Path]:
		return evalKeyFrames(s, n, a, p, base, stepPath)
	}
	return nil, fmt.Errorf("unsupported animation %s on %s.%s", an.Animation.Kind(), n.Kind(), property)
}

// evalKeyFrames interpolates an animation at progress p. A keyframe's easing
// shapes the segment ending at it; before the first keyframe the value
// moves from the property's own value.
func evalKeyFrames[T any](s *State, n scene.Node, a *scene.KeyFrameAnimation[T], p float64, base any, lerp func(a, b T, t float64) T) (any, error) {
	kfs := a.KeyFrames
	if len(kfs) == 0 {
		return base, nil
	}
	valueOf := func(kf scene.KeyFrame[T]) (T, error) {
		if kf.Expression == nil {
			return kf.Value, nil
		}
		v, err := s.evalExpression(kf.Expression, a, n)
		if err != nil {
			var zero T
			return zero, err
		}
		t, ok := v.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("expression %s is %T, not %T", kf.Expression, v, zero)
		}
		return t, nil
	}

	next := len(kfs)
	for i, kf := range kfs {
		if kf.Progress >= p {
			next = i
			break
		}
	}
	if next == len(kfs) {
		return valueOf(kfs[len(kfs)-1])
	}
	to := kfs[next]
	if to.Expression != nil || to.Progress == p {
		return valueOf(to)
	}

	var from T
	fromProgress := 0.0
	if next == 0 {
		b, ok := base.(T)
		if !ok {
			return nil, fmt.Errorf("%s base value is %T", n.Kind(), base)
		}
		from = b
	} else {
		v, err := valueOf(kfs[next-1])
		if err != nil {
			return nil, err
		}
		from, fromProgress = v, kfs[next-1].Progress
	}
	t := (p - fromProgress) / (to.Progress - fromProgress)
	return lerp(from, to.Value, ease(to.Easing, t)), nil
}

// evalExpression evaluates e with "my" bound to n and the animation's
// reference parameters bound to their nodes.
func (s *State) evalExpression(e *expressions.Expr, a scene.Animation, my scene.Node) (any, error) {
	scalar := func(c *expressions.Expr) (float64, error) { return s.evalScalar(c, a, my) }
	switch e.Type() {
	case expressions.Scalar:
		return scalar(e)
	case expressions.Vector2:
		x, err := scalar(expressions.Channel(e, "X"))
		if err != nil {
			return nil, err
		}
		y, err := scalar(expressions.Channel(e, "Y"))
		if err != nil {
			return nil, err
		}
		return scene.Vector2{X: x, Y: y}, nil
	case expressions.Vector3:
		var v [3]float64
		for i, ch := range e.Type().Channels() {
			c, err := scalar(expressions.Channel(e, ch))
			if err != nil {
				return nil, err
			}
			v[i] = c
		}
		return scene.Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
	case expressions.Matrix3x2:
		var m scene.Matrix3x2
		for i, ch := range e.Type().Channels() {
			c, err := scalar(expressions.Channel(e, ch))
			if err != nil {
				return nil, err
			}
			m[i] = c
		}
		return m, nil
	}
	return nil, fmt.Errorf("cannot evaluate %s expression %s", e.Type(), e)
}

func (s *State) evalScalar(e *expressions.Expr, a scene.Animation, my scene.Node) (float64, error) {
	e = e.Simplified()
	if e.IsConstant() {
		return e.Value(), nil
	}
	prg, err := s.programs.compile(e.String())
	if err != nil {
		return 0, err
	}
	env, err := s.environment(e, a, my)
	if err != nil {
		return 0, err
	}
	out, err := vm.Run(prg, env)
	if err != nil {
		return 0, fmt.Errorf("run %s: %w", e, err)
	}
	return toFloat64(out), nil
}

// environment resolves the references of e ("my.Size.X", "root.t0") into
// nested maps.
func (s *State) environment(e *expressions.Expr, a scene.Animation, my scene.Node) (map[string]any, error) {
	env := make(map[string]any)
	for _, ref := range expressions.References(e) {
		parts := strings.Split(ref, ".")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("malformed reference %q", ref)
		}
		owner := my
		if parts[0] != "my" {
			owner = nil
			for _, rp := range a.ReferenceParameters() {
				if rp.Name == parts[0] {
					owner = rp.Node
				}
			}
			if owner == nil {
				return nil, fmt.Errorf("unbound reference parameter %q", parts[0])
			}
		}
		v, err := s.Value(owner, parts[1])
		if err != nil {
			return nil, err
		}
		props, _ := env[parts[0]].(map[string]any)
		if props == nil {
			props = make(map[string]any)
			env[parts[0]] = props
		}
		if len(parts) == 2 {
			props[parts[1]] = v
			continue
		}
		c, err := component(v, parts[2])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		channels, _ := props[parts[1]].(map[string]any)
		if channels == nil {
			channels = make(map[string]any)
			props[parts[1]] = channels
		}
		channels[parts[2]] = c
	}
	return env, nil
}

func component(v any, ch string) (float64, error) {
	switch v := v.(type) {
	case scene.Vector2:
		switch ch {
		case "X":
			return v.X, nil
		case "Y":
			return v.Y, nil
		}
	case scene.Vector3:
		switch ch {
		case "X":
			return v.X, nil
		case "Y":
			return v.Y, nil
		case "Z":
			return v.Z, nil
		}
	case scene.Matrix3x2:
		for i, name := range expressions.Matrix3x2.Channels() {
			if name == ch {
				return v[i], nil
			}
		}
	}
	return 0, fmt.Errorf("%T has no channel %q", v, ch)
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// ease maps linear segment progress t through an easing.
func ease(e scene.Easing, t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	switch e := e.(type) {
	case *scene.StepEasing:
		steps := max(e.StepCount, 1)
		return math.Floor(t*float64(steps)) / float64(steps)
	case *scene.CubicBezierEasing:
		return cubicBezierEase(e.ControlPoint1, e.ControlPoint2, t)
	}
	return t
}

// cubicBezierEase solves x(u) = t for the curve parameter u, then returns
// y(u). Newton iterations fall back to bisection when the slope is flat.
func cubicBezierEase(cp1, cp2 scene.Vector2, t float64) float64 {
	bez := func(a, b, u float64) float64 {
		v := 1 - u
		return 3*v*v*u*a + 3*v*u*u*b + u*u*u
	}
	slope := func(a, b, u float64) float64 {
		v := 1 - u
		return 3*v*v*a + 6*v*u*(b-a) + 3*u*u*(1-b)
	}
	u := t
	for range 8 {
		x := bez(cp1.X, cp2.X, u) - t
		if math.Abs(x) < 1e-7 {
			return bez(cp1.Y, cp2.Y, u)
		}
		d := slope(cp1.X, cp2.X, u)
		if math.Abs(d) < 1e-6 {
			break
		}
		u -= x / d
	}
	lo, hi := 0.0, 1.0
	u = t
	for range 50 {
		x := bez(cp1.X, cp2.X, u)
		if math.Abs(x-t) < 1e-7 {
			break
		}
		if x < t {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return bez(cp1.Y, cp2.Y, u)
}

func lerpScalar(a, b, t float64) float64 { return a + (b-a)*t }

func lerpVector3(a, b scene.Vector3, t float64) scene.Vector3 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerpColor(a, b scene.Color, t float64) scene.Color {
	return scene.Color{
		A: lerpScalar(a.A, b.A, t),
		R: lerpScalar(a.R, b.R, t),
		G: lerpScalar(a.G, b.G, t),
		B: lerpScalar(a.B, b.B, t),
	}
}

func lerpMatrix(a, b scene.Matrix3x2, t float64) scene.Matrix3x2 {
	var m scene.Matrix3x2
	for i := range m {
		m[i] = lerpScalar(a[i], b[i], t)
	}
	return m
}

// stepPath switches shapes at the end of the segment; paths do not morph.
func stepPath(a, b *scene.Path, t float64) *scene.Path {
	if t < 1 {
		return a
	}
	return b
}
