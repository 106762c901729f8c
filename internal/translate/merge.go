package translate

import (
	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/pathcombine"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

func mergeMode(m document.MergeMode) pathcombine.Mode {
	switch m {
	case document.MergeModeAdd:
		return pathcombine.Add
	case document.MergeModeSubtract:
		return pathcombine.Subtract
	case document.MergeModeIntersect:
		return pathcombine.Intersect
	case document.MergeModeExcludeIntersections:
		return pathcombine.ExcludeIntersections
	}
	return pathcombine.Merge
}

// translateMerge combines the geometry items before a merge paths item,
// given last item first, into a single sprite drawn with the context's
// paint.
func (tr *translator) translateMerge(ctx *translationContext, m *document.MergePaths, rest []document.ShapeContent, sc shapeContext) []scene.Shape {
	var paths []*scene.Path
	// Inputs keep document order.
	for i := len(rest) - 1; i >= 0; i-- {
		if p := tr.mergeInput(ctx, rest[i], scene.Identity(), sc.fillRule()); p != nil {
			paths = append(paths, p)
		}
	}
	merged := tr.combiner.Combine(mergeMode(m.Mode), paths...)
	if merged == nil {
		return nil
	}
	geo := tr.c.CreatePathGeometry(tr.path(merged))
	return []scene.Shape{tr.sprite(ctx, geo, sc, m.Name)}
}

// mergeInput returns the outline of a geometry item transformed by m, or
// nil for items without one. Animated inputs contribute their value at the
// start of the window.
func (tr *translator) mergeInput(ctx *translationContext, item document.ShapeContent, m scene.Matrix3x2, rule scene.FillRule) *scene.Path {
	var g document.PathGeometry
	switch item := item.(type) {
	case *document.Path:
		tr.checkMergeAnimated(ctx, animatedIn(ctx, item.Geometry))
		g = orientedGeometry(valueAt(item.Geometry, ctx.start), item.Reversed)
	case *document.Ellipse:
		tr.checkMergeAnimated(ctx, animatedIn(ctx, item.Position) || animatedIn(ctx, item.Diameter))
		g = ellipseVertices(valueAt(item.Position, ctx.start).Vector2(), valueAt(item.Diameter, ctx.start).Vector2())
		g = orientedGeometry(g, item.Reversed)
	case *document.Rectangle:
		tr.checkMergeAnimated(ctx, animatedIn(ctx, item.Position) || animatedIn(ctx, item.Size) || animatedIn(ctx, item.CornerRadius))
		g = rectangleVertices(valueAt(item.Position, ctx.start).Vector2(), valueAt(item.Size, ctx.start).Vector2(), valueAt(item.CornerRadius, ctx.start))
		g = orientedGeometry(g, item.Reversed)
	case *document.ShapeGroup:
		return tr.mergeGroup(ctx, item, m, rule)
	default:
		return nil
	}
	b := scene.NewPathBuilder(rule)
	addFigure(b, transformGeometry(g, m))
	return b.Path()
}

// mergeGroup merges a group's geometry into one path under the group's
// transform. The group's own fill decides the fill rule.
func (tr *translator) mergeGroup(ctx *translationContext, g *document.ShapeGroup, m scene.Matrix3x2, rule scene.FillRule) *scene.Path {
	contents, transform := splitTransform(g.Contents)
	if transform != nil {
		t := transform.Transform
		tr.checkMergeAnimated(ctx, animatedIn(ctx, t.Anchor) || animatedIn(ctx, t.Position) ||
			animatedIn(ctx, t.Scale) || animatedIn(ctx, t.Rotation))
		anchor := valueAt(t.Anchor, ctx.start).Vector2()
		local := scene.FromTransform(
			valueAt(t.Position, ctx.start).Vector2().Sub(anchor),
			anchor,
			percentToScale(valueAt(t.Scale, ctx.start)),
			valueAt(t.Rotation, ctx.start))
		m = m.Multiply(local)
	}
	for _, c := range contents {
		if f, ok := c.(*document.SolidColorFill); ok && f.FillRule == document.FillRuleEvenOdd {
			rule = scene.FillRuleEvenOdd
		}
	}
	b := scene.NewPathBuilder(rule)
	for _, c := range contents {
		if p := tr.mergeInput(ctx, c, m, rule); p != nil {
			b.AddFigures(p.Figures...)
		}
	}
	p := b.Path()
	if len(p.Figures) == 0 {
		return nil
	}
	return p
}

func (tr *translator) checkMergeAnimated(ctx *translationContext, animated bool) {
	if animated {
		tr.issues.Report(issues.MergingAnimatedPaths)
	}
}

// transformGeometry maps the vertices of g through m.
func transformGeometry(g document.PathGeometry, m scene.Matrix3x2) document.PathGeometry {
	if m.IsIdentity() {
		return g
	}
	out := document.PathGeometry{Closed: g.Closed, Vertices: make([]document.BezierVertex, len(g.Vertices))}
	for i, v := range g.Vertices {
		p := m.TransformPoint(v.Point)
		out.Vertices[i] = document.BezierVertex{
			Point:      p,
			InTangent:  m.TransformPoint(v.Point.Add(v.InTangent)).Sub(p),
			OutTangent: m.TransformPoint(v.Point.Add(v.OutTangent)).Sub(p),
		}
	}
	return out
}
