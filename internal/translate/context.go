package translate

import (
	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

type fillPaint struct {
	rule    document.FillRule
	color   document.Animatable[document.Color]
	opacity document.Animatable[float64]
}

func (f *fillPaint) isTransparent() bool {
	return document.Always(f.color, document.Color.IsTransparent) ||
		document.Always(f.opacity, func(v float64) bool { return v <= 0 })
}

type strokePaint struct {
	color      document.Animatable[document.Color]
	opacity    document.Animatable[float64]
	thickness  document.Animatable[float64]
	lineCap    document.LineCap
	lineJoin   document.LineJoin
	miterLimit float64
}

// shapeContext is the drawing state that applies to a geometry item: the
// paint and modifier items that follow it in its content list and in the
// lists of its enclosing groups. Values are never modified; the with
// methods return updated copies.
type shapeContext struct {
	fill          *fillPaint
	stroke        *strokePaint
	trim          *document.TrimPath
	roundedCorner *document.RoundedCorner
	// opacity is the product of the layer's and the enclosing groups'
	// opacity, in percent.
	opacity document.Animatable[float64]
}

func newShapeContext(layerOpacity document.Animatable[float64]) shapeContext {
	return shapeContext{opacity: layerOpacity}
}

func (sc shapeContext) fillRule() scene.FillRule {
	if sc.fill != nil && sc.fill.rule == document.FillRuleEvenOdd {
		return scene.FillRuleEvenOdd
	}
	return scene.FillRuleWinding
}

// withFill applies a fill that precedes the current one. A transparent
// fill never replaces a visible one.
func (sc shapeContext) withFill(tr *translator, f *fillPaint) shapeContext {
	switch {
	case sc.fill == nil || sc.fill.isTransparent():
		sc.fill = f
	case f.isTransparent():
	default:
		tr.issues.Report(issues.MultipleFills)
		sc.fill = f
	}
	return sc
}

// withStroke keeps the current stroke when it is static and at least as
// thick as the new one, since it covers it entirely.
func (sc shapeContext) withStroke(tr *translator, ctx *translationContext, s *strokePaint) shapeContext {
	old := sc.stroke
	switch {
	case old == nil:
		sc.stroke = s
	case !animatedIn(ctx, s.thickness) && !animatedIn(ctx, s.opacity) &&
		!animatedIn(ctx, old.thickness) && !animatedIn(ctx, old.opacity) &&
		valueAt(s.thickness, ctx.start) <= valueAt(old.thickness, ctx.start):
	default:
		tr.issues.Report(issues.MultipleStrokes)
		sc.stroke = s
	}
	return sc
}

func (sc shapeContext) withRoundedCorner(tr *translator, ctx *translationContext, rc *document.RoundedCorner) shapeContext {
	old := sc.roundedCorner
	newAnimated := animatedIn(ctx, rc.Radius)
	switch {
	case old == nil:
		sc.roundedCorner = rc
	case !newAnimated && valueAt(rc.Radius, ctx.start) > 0:
		sc.roundedCorner = rc
	case !newAnimated:
	case !animatedIn(ctx, old.Radius) && valueAt(old.Radius, ctx.start) > 0:
	case animatedIn(ctx, old.Radius):
		tr.issues.Report(issues.MultipleAnimatedRoundedCorners)
		sc.roundedCorner = rc
	default:
		sc.roundedCorner = rc
	}
	return sc
}

// trimRemovesAll reports whether a static trim draws nothing.
func trimRemovesAll(ctx *translationContext, t *document.TrimPath) bool {
	return !animatedIn(ctx, t.Start) && !animatedIn(ctx, t.End) &&
		valueAt(t.Start, ctx.start) == valueAt(t.End, ctx.start)
}

// trimIsNoop reports whether a static trim draws the whole path.
func trimIsNoop(ctx *translationContext, t *document.TrimPath) bool {
	if animatedIn(ctx, t.Start) || animatedIn(ctx, t.End) {
		return false
	}
	s, e := valueAt(t.Start, ctx.start), valueAt(t.End, ctx.start)
	return (s == 0 && e == 100) || (s == 100 && e == 0)
}

func (sc shapeContext) withTrim(tr *translator, ctx *translationContext, t *document.TrimPath) shapeContext {
	old := sc.trim
	switch {
	case old == nil:
		sc.trim = t
	case trimRemovesAll(ctx, old):
	case trimRemovesAll(ctx, t):
		sc.trim = t
	case trimIsNoop(ctx, t):
	case trimIsNoop(ctx, old):
		sc.trim = t
	default:
		tr.issues.Report(issues.MultipleTrimPaths)
		sc.trim = t
	}
	return sc
}

// withOpacity multiplies the context's opacity by o, in percent.
func (sc shapeContext) withOpacity(tr *translator, ctx *translationContext, o document.Animatable[float64]) shapeContext {
	sc.opacity = tr.multiplyOpacity(ctx, sc.opacity, o)
	return sc
}

// multiplyOpacity returns a*b/100. The product of two animated values is
// not computed; the first one is kept.
func (tr *translator) multiplyOpacity(ctx *translationContext, a, b document.Animatable[float64]) document.Animatable[float64] {
	aAnimated, bAnimated := animatedIn(ctx, a), animatedIn(ctx, b)
	switch {
	case aAnimated && bAnimated:
		tr.issues.Report(issues.MultipliedAnimations)
		return a
	case aAnimated:
		return document.Scaled(a, valueAt(b, ctx.start)/100)
	case bAnimated:
		return document.Scaled(b, valueAt(a, ctx.start)/100)
	}
	return document.Static(valueAt(a, ctx.start) * valueAt(b, ctx.start) / 100)
}
