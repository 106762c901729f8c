package translate

import (
	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// order is how one animatable value compares to another over a window.
type order int

const (
	orderEqual order = iota
	orderBefore
	orderAfter
	// orderBeforeAndAfter means the values cross, or that the comparison
	// could not be decided.
	orderBeforeAndAfter
)

func orderOf(less, greater bool) order {
	switch {
	case less && greater:
		return orderBeforeAndAfter
	case less:
		return orderBefore
	case greater:
		return orderAfter
	}
	return orderEqual
}

func overshoots(kfs []document.Keyframe[float64]) bool {
	for _, kf := range kfs {
		if kf.Easing.Overshoots() {
			return true
		}
	}
	return false
}

// compareAnimatables reports whether a stays before (less than or equal
// to) b during the context's window.
func compareAnimatables(ctx *translationContext, a, b document.Animatable[float64]) order {
	ta, tb := trimToWindow(a, ctx.start, ctx.end()), trimToWindow(b, ctx.start, ctx.end())
	switch {
	case ta.keyframes == nil && tb.keyframes == nil:
		return orderOf(ta.value < tb.value, ta.value > tb.value)
	case ta.keyframes == nil:
		return compareToConstant(tb.keyframes, ta.value).reversed()
	case tb.keyframes == nil:
		return compareToConstant(ta.keyframes, tb.value)
	}
	if len(ta.keyframes) != len(tb.keyframes) || overshoots(ta.keyframes) || overshoots(tb.keyframes) {
		return orderBeforeAndAfter
	}
	var less, greater bool
	for i, ka := range ta.keyframes {
		kb := tb.keyframes[i]
		if ka.Frame != kb.Frame || ka.Easing != kb.Easing {
			return orderBeforeAndAfter
		}
		less = less || ka.Value < kb.Value
		greater = greater || ka.Value > kb.Value
	}
	return orderOf(less, greater)
}

func compareToConstant(kfs []document.Keyframe[float64], v float64) order {
	if overshoots(kfs) {
		return orderBeforeAndAfter
	}
	var less, greater bool
	for _, kf := range kfs {
		less = less || kf.Value < v
		greater = greater || kf.Value > v
	}
	return orderOf(less, greater)
}

func (o order) reversed() order {
	switch o {
	case orderBefore:
		return orderAfter
	case orderAfter:
		return orderBefore
	}
	return o
}

// applyTrim sets the geometry's trim from a trim path item. Lottie allows
// start to be after end; the scene does not, so the values are swapped, or
// ordered by an expression when they cross.
func (tr *translator) applyTrim(ctx *translationContext, geometry scene.Geometry, t *document.TrimPath) {
	trim := geometry.Trimming()
	start := document.Map(t.Start, percentToFraction)
	end := document.Map(t.End, percentToFraction)
	offset := document.Map(t.Offset, func(deg float64) float64 { return deg / 360 })

	switch compareAnimatables(ctx, t.Start, t.End) {
	case orderAfter:
		start, end = end, start
		fallthrough
	case orderBefore, orderEqual:
		setOrAnimate(tr, ctx, geometry, "TrimStart", start, &trim.TrimStart)
		setOrAnimate(tr, ctx, geometry, "TrimEnd", end, &trim.TrimEnd)
	default:
		props := geometry.Base().Properties()
		insertProperty(tr, ctx, geometry, "TStart", start, props.InsertScalar)
		insertProperty(tr, ctx, geometry, "TEnd", end, props.InsertScalar)
		tStart := expressions.Property("my", "TStart", expressions.Scalar)
		tEnd := expressions.Property("my", "TEnd", expressions.Scalar)
		geometry.Base().StartAnimation("TrimStart", tr.c.CreateExpressionAnimation(expressions.Min(tStart, tEnd)))
		geometry.Base().StartAnimation("TrimEnd", tr.c.CreateExpressionAnimation(expressions.Max(tStart, tEnd)))
	}
	setOrAnimate(tr, ctx, geometry, "TrimOffset", offset, &trim.TrimOffset)
}
