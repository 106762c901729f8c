package translate

import (
	"math"
	"slices"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// translateRepeater draws the items before a repeater, given last item
// first, once per copy. Copy i is transformed by the repeater transform
// applied i+1 times. It returns false when the repeater's count or offset
// cannot be expressed, in which case the repeater is ignored.
func (tr *translator) translateRepeater(ctx *translationContext, r *document.Repeater, rest []document.ShapeContent, sc shapeContext) ([]scene.Shape, bool) {
	if animatedIn(ctx, r.Count) || animatedIn(ctx, r.Offset) || valueAt(r.Offset, ctx.start) != 0 {
		tr.issues.Report(issues.Repeater)
		return nil, false
	}
	t := r.Transform
	if animatedIn(ctx, t.Anchor) || animatedIn(ctx, t.Position) || animatedIn(ctx, t.Scale) ||
		animatedIn(ctx, t.Rotation) || animatedIn(ctx, t.StartOpacity) || animatedIn(ctx, t.EndOpacity) {
		tr.issues.Report(issues.Repeater)
	}

	count := int(math.Ceil(valueAt(r.Count, ctx.start)))
	if count <= 0 {
		return nil, true
	}
	anchor := valueAt(t.Anchor, ctx.start).Vector2()
	step := scene.FromTransform(
		valueAt(t.Position, ctx.start).Vector2().Sub(anchor),
		anchor,
		percentToScale(valueAt(t.Scale, ctx.start)),
		valueAt(t.Rotation, ctx.start))
	startOpacity, endOpacity := valueAt(t.StartOpacity, ctx.start), valueAt(t.EndOpacity, ctx.start)

	contents := slices.Clone(rest)
	slices.Reverse(contents)

	out := make([]scene.Shape, 0, count)
	for i := range count {
		opacity := startOpacity
		if count > 1 {
			opacity += (endOpacity - startOpacity) * float64(i) / float64(count-1)
		}
		copyContext := sc.withOpacity(tr, ctx, document.Static(opacity))

		container := tr.c.CreateContainerShape()
		tr.describe(container, "%s copy %d", r.Name, i)
		container.TransformMatrix = step.Power(i + 1)
		container.Shapes = tr.translateContents(ctx, contents, copyContext)
		out = append(out, container)
	}
	return out, true
}
