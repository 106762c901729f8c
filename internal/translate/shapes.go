package translate

import (
	"fmt"
	"slices"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// splitTransform separates a group's transform item from its other
// contents.
func splitTransform(contents document.ShapeContents) (document.ShapeContents, *document.ShapeTransform) {
	var transform *document.ShapeTransform
	out := make(document.ShapeContents, 0, len(contents))
	for _, c := range contents {
		if t, ok := c.(*document.ShapeTransform); ok {
			transform = t
			continue
		}
		out = append(out, c)
	}
	return out, transform
}

// translateShapeList translates the contents of a layer or group. A
// transform item among them wraps the result in a container.
func (tr *translator) translateShapeList(ctx *translationContext, contents document.ShapeContents, sc shapeContext, name string) []scene.Shape {
	contents, transform := splitTransform(contents)
	if transform == nil {
		return tr.translateContents(ctx, contents, sc)
	}
	container := tr.c.CreateContainerShape()
	tr.describe(container, "%s", name)
	tr.applyTransform(ctx, container, shapeFields(&container.ShapeTransform), transform.Transform)
	sc = sc.withOpacity(tr, ctx, transform.Opacity)
	container.Shapes = tr.translateContents(ctx, contents, sc)
	return []scene.Shape{container}
}

// translateContents evaluates a content list without transform items. The
// list is walked last item first: paint and modifier items update the
// context for the geometry items before them, and the shapes come out in
// paint order, bottom first.
func (tr *translator) translateContents(ctx *translationContext, contents document.ShapeContents, sc shapeContext) []scene.Shape {
	stack := slices.Clone(contents)
	slices.Reverse(stack)

	var out []scene.Shape
	for i := 0; i < len(stack); i++ {
		item := stack[i]
		if item.Common().BlendMode != document.BlendModeNormal {
			tr.issues.Report(issues.BlendMode)
		}
		switch item := item.(type) {
		case *document.SolidColorFill:
			sc = sc.withFill(tr, &fillPaint{rule: item.FillRule, color: item.Color, opacity: item.Opacity})
		case *document.GradientFill:
			tr.issues.Report(issues.GradientFill)
			sc = sc.withFill(tr, &fillPaint{rule: item.FillRule, color: document.Static(item.FirstStopColor()), opacity: item.Opacity})
		case *document.SolidColorStroke:
			sc = sc.withStroke(tr, ctx, &strokePaint{
				color:      item.Color,
				opacity:    item.Opacity,
				thickness:  item.Thickness,
				lineCap:    item.LineCap,
				lineJoin:   item.LineJoin,
				miterLimit: item.MiterLimit,
			})
		case *document.GradientStroke:
			tr.issues.Report(issues.GradientStroke)
			sc = sc.withStroke(tr, ctx, &strokePaint{
				color:      document.Static(item.FirstStopColor()),
				opacity:    item.Opacity,
				thickness:  item.Thickness,
				lineCap:    item.LineCap,
				lineJoin:   item.LineJoin,
				miterLimit: item.MiterLimit,
			})
		case *document.TrimPath:
			sc = sc.withTrim(tr, ctx, item)
		case *document.RoundedCorner:
			sc = sc.withRoundedCorner(tr, ctx, item)
		case *document.ShapeGroup:
			out = append(out, tr.translateGroup(ctx, item, sc))
		case *document.Path:
			j := i
			for j+1 < len(stack) {
				if _, ok := stack[j+1].(*document.Path); !ok {
					break
				}
				j++
			}
			out = append(out, tr.translatePaths(ctx, stack[i:j+1], sc)...)
			i = j
		case *document.Ellipse:
			out = append(out, tr.translateEllipse(ctx, item, sc))
		case *document.Rectangle:
			out = append(out, tr.translateRectangle(ctx, item, sc))
		case *document.Polystar:
			tr.issues.Report(issues.Polystar)
		case *document.MergePaths:
			return append(out, tr.translateMerge(ctx, item, stack[i+1:], sc)...)
		case *document.Repeater:
			if shapes, ok := tr.translateRepeater(ctx, item, stack[i+1:], sc); ok {
				return append(out, shapes...)
			}
		default:
			panic(fmt.Sprintf("translate: unexpected %s content in shape list", item.ContentType()))
		}
	}
	return out
}

func (tr *translator) translateGroup(ctx *translationContext, g *document.ShapeGroup, sc shapeContext) scene.Shape {
	contents, transform := splitTransform(g.Contents)
	container := tr.c.CreateContainerShape()
	tr.describe(container, "Group: %s", g.Name)
	if transform != nil {
		tr.applyTransform(ctx, container, shapeFields(&container.ShapeTransform), transform.Transform)
		sc = sc.withOpacity(tr, ctx, transform.Opacity)
	}
	container.Shapes = tr.translateContents(ctx, contents, sc)
	return container
}

// sprite draws geometry with the context's paint and trim.
func (tr *translator) sprite(ctx *translationContext, geometry scene.Geometry, sc shapeContext, name string) *scene.SpriteShape {
	s := tr.c.CreateSpriteShape()
	tr.describe(s, "%s", name)
	s.Geometry = geometry
	if sc.fill != nil {
		s.FillBrush = tr.paintBrush(ctx, sc.fill.color, sc.fill.opacity, sc.opacity)
	}
	if st := sc.stroke; st != nil {
		s.StrokeBrush = tr.paintBrush(ctx, st.color, st.opacity, sc.opacity)
		setOrAnimate(tr, ctx, s, "StrokeThickness", st.thickness, &s.StrokeThickness)
		s.StrokeStartCap = strokeCap(st.lineCap)
		s.StrokeEndCap = s.StrokeStartCap
		s.StrokeLineJoin = strokeJoin(st.lineJoin)
		s.StrokeMiterLimit = st.miterLimit
	}
	if sc.trim != nil && !trimIsNoop(ctx, sc.trim) {
		tr.applyTrim(ctx, geometry, sc.trim)
	}
	return s
}

func strokeCap(c document.LineCap) scene.StrokeCap {
	switch c {
	case document.LineCapRound:
		return scene.StrokeCapRound
	case document.LineCapSquare:
		return scene.StrokeCapSquare
	}
	return scene.StrokeCapFlat
}

func strokeJoin(j document.LineJoin) scene.StrokeLineJoin {
	switch j {
	case document.LineJoinRound:
		return scene.StrokeLineJoinRound
	case document.LineJoinBevel:
		return scene.StrokeLineJoinBevel
	}
	return scene.StrokeLineJoinMiter
}

// paintBrush returns a brush for color at paintOpacity times the context
// opacity. Static brushes are shared.
func (tr *translator) paintBrush(ctx *translationContext, color document.Animatable[document.Color], paintOpacity, contextOpacity document.Animatable[float64]) *scene.ColorBrush {
	opacity := tr.multiplyOpacity(ctx, contextOpacity, paintOpacity)
	colorAnimated, opacityAnimated := animatedIn(ctx, color), animatedIn(ctx, opacity)

	var animated document.Animatable[document.Color]
	switch {
	case !colorAnimated && !opacityAnimated:
		c := valueAt(color, ctx.start).WithAlphaMultiplied(valueAt(opacity, ctx.start) / 100)
		return tr.colorBrush(c)
	case colorAnimated && opacityAnimated:
		tr.issues.Report(issues.OpacityAndColorAnimatedTogether)
		fallthrough
	case colorAnimated:
		o := valueAt(opacity, ctx.start) / 100
		animated = document.Map(color, func(c document.Color) document.Color { return c.WithAlphaMultiplied(o) })
	default:
		c := valueAt(color, ctx.start)
		animated = document.Map(opacity, func(o float64) document.Color { return c.WithAlphaMultiplied(o / 100) })
	}
	brush := tr.c.CreateColorBrush(valueAt(animated, ctx.start))
	setOrAnimate(tr, ctx, brush, "Color", animated, &brush.Color)
	return brush
}

// translatePaths translates consecutive path items, given last item first.
// Runs of static paths share one geometry.
func (tr *translator) translatePaths(ctx *translationContext, items []document.ShapeContent, sc shapeContext) []scene.Shape {
	if rc := sc.roundedCorner; rc != nil && (animatedIn(ctx, rc.Radius) || valueAt(rc.Radius, ctx.start) > 0) {
		tr.issues.Report(issues.PathWithRoundedCorners)
	}
	rule := sc.fillRule()
	var out []scene.Shape
	var static []*document.Path
	flush := func() {
		if len(static) == 0 {
			return
		}
		b := scene.NewPathBuilder(rule)
		// Figures keep document order.
		for i := len(static) - 1; i >= 0; i-- {
			addFigure(b, orientedGeometry(valueAt(static[i].Geometry, ctx.start), static[i].Reversed))
		}
		geo := tr.c.CreatePathGeometry(tr.path(b.Path()))
		out = append(out, tr.sprite(ctx, geo, sc, static[len(static)-1].Name))
		static = nil
	}
	for _, item := range items {
		p := item.(*document.Path)
		if !animatedIn(ctx, p.Geometry) {
			static = append(static, p)
			continue
		}
		flush()
		reversed := p.Reversed
		paths := document.Map(p.Geometry, func(g document.PathGeometry) *scene.Path {
			b := scene.NewPathBuilder(rule)
			addFigure(b, orientedGeometry(g, reversed))
			return tr.path(b.Path())
		})
		geo := tr.c.CreatePathGeometry(valueAt(paths, ctx.start))
		setOrAnimate(tr, ctx, geo, "Path", paths, &geo.Path)
		out = append(out, tr.sprite(ctx, geo, sc, p.Name))
	}
	flush()
	return out
}

func orientedGeometry(g document.PathGeometry, reversed bool) document.PathGeometry {
	if reversed {
		return g.Reversed()
	}
	return g
}

// addFigure appends a Lottie path. Segments without tangents become lines.
func addFigure(b *scene.PathBuilder, g document.PathGeometry) {
	if g.IsEmpty() {
		return
	}
	vs := g.Vertices
	segment := func(from, to document.BezierVertex) {
		if from.OutTangent == (document.Vector2{}) && to.InTangent == (document.Vector2{}) {
			b.AddLine(to.Point)
			return
		}
		b.AddCubicBezier(from.Point.Add(from.OutTangent), to.Point.Add(to.InTangent), to.Point)
	}
	b.BeginFigure(vs[0].Point)
	for i := 1; i < len(vs); i++ {
		segment(vs[i-1], vs[i])
	}
	if g.Closed && len(vs) > 1 {
		segment(vs[len(vs)-1], vs[0])
	}
	b.EndFigure(g.Closed)
}

func (tr *translator) translateEllipse(ctx *translationContext, e *document.Ellipse, sc shapeContext) scene.Shape {
	geo := tr.c.CreateEllipseGeometry()
	setOrAnimate(tr, ctx, geo, "Center", document.Map(e.Position, toVector2), &geo.Center)
	radius := document.Map(e.Diameter, func(d document.Vector3) document.Vector2 { return document.Vec2(d.X/2, d.Y/2) })
	setOrAnimate(tr, ctx, geo, "Radius", radius, &geo.Radius)
	return tr.sprite(ctx, geo, sc, e.Name)
}

// translateRectangle converts Lottie's centered rectangle to a geometry
// positioned by its top-left corner.
func (tr *translator) translateRectangle(ctx *translationContext, r *document.Rectangle, sc shapeContext) scene.Shape {
	size := document.Map(r.Size, toVector2)
	position := document.Map(r.Position, toVector2)
	radius := r.CornerRadius
	if !animatedIn(ctx, radius) && valueAt(radius, ctx.start) == 0 && sc.roundedCorner != nil {
		radius = sc.roundedCorner.Radius
	}
	sizeAnimated, positionAnimated := animatedIn(ctx, size), animatedIn(ctx, position)
	radiusAnimated := animatedIn(ctx, radius)

	if sc.trim != nil && !trimIsNoop(ctx, sc.trim) {
		if !sizeAnimated && !positionAnimated && !radiusAnimated {
			g := rectangleVertices(valueAt(position, ctx.start), valueAt(size, ctx.start), valueAt(radius, ctx.start))
			b := scene.NewPathBuilder(sc.fillRule())
			addFigure(b, orientedGeometry(g, r.Reversed))
			return tr.sprite(ctx, tr.c.CreatePathGeometry(tr.path(b.Path())), sc, r.Name)
		}
		if sizeAnimated {
			tr.issues.Report(issues.AnimatedRectangleWithTrimPath)
		}
	}

	var geo scene.Geometry
	var offsetField, sizeField *document.Vector2
	if !radiusAnimated && valueAt(radius, ctx.start) == 0 {
		g := tr.c.CreateRectangleGeometry()
		geo, offsetField, sizeField = g, &g.Offset, &g.Size
	} else {
		g := tr.c.CreateRoundedRectangleGeometry()
		geo, offsetField, sizeField = g, &g.Offset, &g.Size
		corner := document.Map(radius, func(v float64) document.Vector2 { return document.Vec2(v, v) })
		setOrAnimate(tr, ctx, g, "CornerRadius", corner, &g.CornerRadius)
	}
	setOrAnimate(tr, ctx, geo, "Size", size, sizeField)

	switch {
	case !sizeAnimated && !positionAnimated:
		*offsetField = valueAt(position, ctx.start).Sub(valueAt(size, ctx.start).Mul(0.5))
	case !sizeAnimated:
		half := valueAt(size, ctx.start).Mul(0.5)
		offset := document.Map(position, func(p document.Vector2) document.Vector2 { return p.Sub(half) })
		setOrAnimate(tr, ctx, geo, "Offset", offset, offsetField)
	case !positionAnimated:
		p := valueAt(position, ctx.start)
		offset := document.Map(size, func(s document.Vector2) document.Vector2 { return p.Sub(s.Mul(0.5)) })
		setOrAnimate(tr, ctx, geo, "Offset", offset, offsetField)
	default:
		insertProperty(tr, ctx, geo, "Position", position, geo.Base().Properties().InsertVector2)
		e := expressions.Subtract(
			expressions.Property("my", "Position", expressions.Vector2),
			expressions.Divide(expressions.Property("my", "Size", expressions.Vector2), expressions.Number(2)))
		geo.Base().StartAnimation("Offset", tr.c.CreateExpressionAnimation(e))
	}
	return tr.sprite(ctx, geo, sc, r.Name)
}

// bezierCircleFactor is the tangent length of a cubic quarter circle of
// radius 1.
const bezierCircleFactor = 0.5522847498

// rectangleVertices returns a rectangle as a Lottie path: clockwise from
// the top of the right edge.
func rectangleVertices(center, size document.Vector2, radius float64) document.PathGeometry {
	hw, hh := size.X/2, size.Y/2
	l, r, t, b := center.X-hw, center.X+hw, center.Y-hh, center.Y+hh
	radius = min(radius, hw, hh)
	v := func(x, y, ix, iy, ox, oy float64) document.BezierVertex {
		return document.BezierVertex{Point: document.Vec2(x, y), InTangent: document.Vec2(ix, iy), OutTangent: document.Vec2(ox, oy)}
	}
	if radius <= 0 {
		return document.PathGeometry{Closed: true, Vertices: []document.BezierVertex{
			v(r, t, 0, 0, 0, 0),
			v(r, b, 0, 0, 0, 0),
			v(l, b, 0, 0, 0, 0),
			v(l, t, 0, 0, 0, 0),
		}}
	}
	k := radius * bezierCircleFactor
	return document.PathGeometry{Closed: true, Vertices: []document.BezierVertex{
		v(r, t+radius, 0, -k, 0, 0),
		v(r, b-radius, 0, 0, 0, k),
		v(r-radius, b, k, 0, 0, 0),
		v(l+radius, b, 0, 0, -k, 0),
		v(l, b-radius, 0, k, 0, 0),
		v(l, t+radius, 0, 0, 0, -k),
		v(l+radius, t, -k, 0, 0, 0),
		v(r-radius, t, 0, 0, k, 0),
	}}
}

// ellipseVertices returns an ellipse as a Lottie path: clockwise from the
// top.
func ellipseVertices(center, diameter document.Vector2) document.PathGeometry {
	rx, ry := diameter.X/2, diameter.Y/2
	kx, ky := rx*bezierCircleFactor, ry*bezierCircleFactor
	v := func(x, y, ix, iy, ox, oy float64) document.BezierVertex {
		return document.BezierVertex{Point: document.Vec2(x, y), InTangent: document.Vec2(ix, iy), OutTangent: document.Vec2(ox, oy)}
	}
	return document.PathGeometry{Closed: true, Vertices: []document.BezierVertex{
		v(center.X, center.Y-ry, -kx, 0, kx, 0),
		v(center.X+rx, center.Y, 0, -ky, 0, ky),
		v(center.X, center.Y+ry, kx, 0, -kx, 0),
		v(center.X-rx, center.Y, 0, ky, 0, -ky),
	}}
}
