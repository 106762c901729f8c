package translate

import (
	"fmt"
	"math"
	"time"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// colorBrush returns a shared brush for a static color.
func (tr *translator) colorBrush(c document.Color) *scene.ColorBrush {
	if b, ok := tr.brushes[c]; ok {
		return b
	}
	b := tr.c.CreateColorBrush(c)
	tr.brushes[c] = b
	return b
}

// easing returns the shared scene easing equivalent to e.
func (tr *translator) easing(e document.Easing) scene.Easing {
	key := e
	switch e.Kind() {
	case document.EasingLinear:
		key = document.LinearEasing
	case document.EasingHold:
		key = document.HoldEasing
	case document.EasingCubicBezier:
		key.ControlPoint1.X = clamp01(e.ControlPoint1.X)
		key.ControlPoint2.X = clamp01(e.ControlPoint2.X)
		if key.ControlPoint1.X == key.ControlPoint1.Y && key.ControlPoint2.X == key.ControlPoint2.Y {
			key = document.LinearEasing
		}
	}
	if s, ok := tr.easings[key]; ok {
		return s
	}
	var s scene.Easing
	switch key.Kind() {
	case document.EasingLinear:
		s = tr.c.CreateLinearEasing()
	case document.EasingHold:
		s = tr.c.CreateStepEasing(1)
	default:
		s = tr.c.CreateCubicBezierEasing(key.ControlPoint1, key.ControlPoint2)
	}
	tr.easings[key] = s
	return s
}

func (tr *translator) linearEasing() scene.Easing { return tr.easing(document.LinearEasing) }

// holdThenStep holds the previous value for the whole segment and steps to
// the destination at its end.
func (tr *translator) holdThenStep() scene.Easing { return tr.easing(document.HoldEasing) }

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// path returns a shared path structurally equal to p.
func (tr *translator) path(p *scene.Path) *scene.Path {
	key := p.Key()
	if shared, ok := tr.paths[key]; ok {
		return shared
	}
	tr.paths[key] = p
	return p
}

type bindingKey struct {
	scale, offset float64
}

// progressBinding returns the expression animation that maps the root
// progress onto an animation's local progress:
// root.Progress * scale + offset.
func (tr *translator) progressBinding(scale, offset float64) *scene.ExpressionAnimation {
	key := bindingKey{scale, offset}
	if a, ok := tr.bindings[key]; ok {
		return a
	}
	progress := expressions.Property("root", ProgressProperty, expressions.Scalar)
	e := expressions.Add(expressions.Multiply(progress, expressions.Number(scale)), expressions.Number(offset))
	a := tr.c.CreateExpressionAnimation(e)
	a.SetReferenceParameter("root", tr.root)
	tr.bindings[key] = a
	return a
}

// bindToProgress pauses the animation running on property and drives it
// from the root progress.
func (tr *translator) bindToProgress(target scene.Node, property string, scale, offset float64) {
	ctl := target.Base().TryGetAnimationController(property)
	if ctl == nil {
		panic(fmt.Sprintf("translate: no animation on %s.%s", target.Kind(), property))
	}
	ctl.Pause()
	ctl.StartAnimation("Progress", tr.progressBinding(scale, offset))
}

type driverKey struct {
	start, end    float64
	easing        document.Easing
	scale, offset float64
}

// progressDriver returns a root property that rises from 0 to 1 with easing
// while the animation's local progress goes from start to end.
func (tr *translator) progressDriver(duration time.Duration, start, end float64, easing document.Easing, scale, offset float64) *expressions.Expr {
	key := driverKey{start, end, easing, scale, offset}
	name, ok := tr.drivers[key]
	if !ok {
		name = fmt.Sprintf("t%d", len(tr.drivers))
		tr.drivers[key] = name
		tr.root.Properties().InsertScalar(name, 0)

		a := scene.NewKeyFrameAnimation[float64](tr.c, duration)
		a.InsertKeyFrame(start, 0, tr.linearEasing())
		a.InsertKeyFrame(end, 1, tr.easing(easing))
		tr.root.StartAnimation(name, a)
		tr.bindToProgress(tr.root, name, scale, offset)
	}
	return expressions.Property("root", name, expressions.Scalar)
}
