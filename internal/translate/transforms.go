package translate

import (
	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

func toVector2(v document.Vector3) document.Vector2 { return v.Vector2() }

func percentToScale(v document.Vector3) document.Vector2 {
	return document.Vec2(v.X/100, v.Y/100)
}

func percentToFraction(v float64) float64 { return v / 100 }

// animatedIn reports whether a changes during the context's window.
func animatedIn[T any](ctx *translationContext, a document.Animatable[T]) bool {
	return trimToWindow(a, ctx.start, ctx.end()).keyframes != nil
}

// insertProperty adds a custom property to target and animates it when a
// varies.
func insertProperty[T any](tr *translator, ctx *translationContext, target scene.Node, name string, a document.Animatable[T], insert func(name string, v T)) {
	insert(name, valueAt(a, ctx.start))
	if v, animated := animate(tr, ctx, target, name, a); !animated {
		insert(name, v)
	}
}

// transformFields are the transform properties shared by shapes and
// visuals.
type transformFields struct {
	center   *document.Vector2
	offset   *document.Vector2
	scale    *document.Vector2
	rotation *float64
}

func shapeFields(t *scene.ShapeTransform) transformFields {
	return transformFields{&t.CenterPoint, &t.Offset, &t.Scale, &t.RotationAngleInDegrees}
}

func visualFields(v *scene.VisualProperties) transformFields {
	return transformFields{&v.CenterPoint, &v.Offset, &v.Scale, &v.RotationAngleInDegrees}
}

// applyTransform sets the anchor as the center point and derives the offset
// as position minus anchor.
func (tr *translator) applyTransform(ctx *translationContext, node scene.Node, f transformFields, t document.Transform) {
	flat := func(v document.Vector3) bool { return v.Z == 0 }
	if !document.Always(t.Anchor, flat) || !document.Always(t.Position, flat) {
		tr.issues.Report(issues.ThreeDContent)
	}

	anchor := document.Map(t.Anchor, toVector2)
	position := document.Map(t.Position, toVector2)
	setOrAnimate(tr, ctx, node, "CenterPoint", anchor, f.center)

	switch {
	case !animatedIn(ctx, anchor) && !animatedIn(ctx, position):
		*f.offset = valueAt(position, ctx.start).Sub(valueAt(anchor, ctx.start))
	case !animatedIn(ctx, anchor):
		a := valueAt(anchor, ctx.start)
		offset := document.Map(position, func(p document.Vector2) document.Vector2 { return p.Sub(a) })
		setOrAnimate(tr, ctx, node, "Offset", offset, f.offset)
	default:
		props := node.Base().Properties()
		insertProperty(tr, ctx, node, "Anchor", anchor, props.InsertVector2)
		insertProperty(tr, ctx, node, "Position", position, props.InsertVector2)
		e := expressions.Subtract(
			expressions.Property("my", "Position", expressions.Vector2),
			expressions.Property("my", "Anchor", expressions.Vector2))
		node.Base().StartAnimation("Offset", tr.c.CreateExpressionAnimation(e))
	}

	setOrAnimate(tr, ctx, node, "Scale", document.Map(t.Scale, percentToScale), f.scale)
	setOrAnimate(tr, ctx, node, "RotationAngleInDegrees", t.Rotation, f.rotation)
}

// shapeTransformChain returns the outermost and innermost containers that
// apply the transforms of a layer and its ancestors.
func (tr *translator) shapeTransformChain(ctx *translationContext, b *document.LayerBase) (root, leaf *scene.ContainerShape) {
	leaf = tr.c.CreateContainerShape()
	tr.describe(leaf, "Transforms for %s", b.Name)
	tr.applyTransform(ctx, leaf, shapeFields(&leaf.ShapeTransform), b.Transform)
	root = leaf
	if b.Parent != nil {
		if parent, ok := ctx.layers.ByIndex(*b.Parent); ok {
			proot, pleaf := tr.shapeTransformChain(ctx, parent.Base())
			pleaf.Shapes = append(pleaf.Shapes, leaf)
			root = proot
		}
	}
	return root, leaf
}

// visualTransformChain is shapeTransformChain for visuals. Opacity is not
// part of the chain; ancestors' opacity is not inherited.
func (tr *translator) visualTransformChain(ctx *translationContext, b *document.LayerBase) (root, leaf *scene.ContainerVisual) {
	leaf = tr.c.CreateContainerVisual()
	tr.describe(leaf, "Transforms for %s", b.Name)
	tr.applyTransform(ctx, leaf, visualFields(&leaf.VisualProperties), b.Transform)
	root = leaf
	if b.Parent != nil {
		if parent, ok := ctx.layers.ByIndex(*b.Parent); ok {
			proot, pleaf := tr.visualTransformChain(ctx, parent.Base())
			pleaf.Children = append(pleaf.Children, leaf)
			root = proot
		}
	}
	return root, leaf
}

func (tr *translator) applyLayerOpacity(ctx *translationContext, v *scene.ContainerVisual, b *document.LayerBase) {
	setOrAnimate(tr, ctx, v, "Opacity", document.Map(b.Transform.Opacity, percentToFraction), &v.Opacity)
}

// visibleRange returns the root progress at which a layer appears and
// disappears.
func (ctx *translationContext) visibleRange(b *document.LayerBase) (in, out float64) {
	return ctx.progressOf(b.InPoint), ctx.progressOf(b.OutPoint)
}

// neverVisible reports whether the layer is outside the whole window.
func (ctx *translationContext) neverVisible(b *document.LayerBase) bool {
	in, out := ctx.visibleRange(b)
	return out <= 0 || in >= 1 || out <= in
}

// shapeVisibility returns a container that hides its content outside the
// layer's active window by scaling it to zero, or nil if the layer is
// visible throughout.
func (tr *translator) shapeVisibility(ctx *translationContext, b *document.LayerBase) *scene.ContainerShape {
	in, out := ctx.visibleRange(b)
	if in <= 0 && out >= 1 {
		return nil
	}
	node := tr.c.CreateContainerShape()
	tr.describe(node, "Visibility for %s", b.Name)
	hidden, visible := document.Vec2(0, 0), document.Vec2(1, 1)
	startVisibility(tr, ctx, node, "Scale", &node.Scale, in, out, hidden, visible)
	return node
}

// visualVisibility is shapeVisibility for visuals, using opacity.
func (tr *translator) visualVisibility(ctx *translationContext, b *document.LayerBase) *scene.ContainerVisual {
	in, out := ctx.visibleRange(b)
	if in <= 0 && out >= 1 {
		return nil
	}
	node := tr.c.CreateContainerVisual()
	tr.describe(node, "Visibility for %s", b.Name)
	startVisibility(tr, ctx, node, "Opacity", &node.Opacity, in, out, 0.0, 1.0)
	return node
}

// startVisibility steps property to visible at in and back to hidden at
// out with hold-then-step easing.
func startVisibility[T any](tr *translator, ctx *translationContext, node scene.Node, property string, field *T, in, out float64, hidden, visible T) {
	anim := scene.NewKeyFrameAnimation[T](tr.c, ctx.animationDuration(ctx.duration))
	if in > 0 {
		*field = hidden
		anim.InsertKeyFrame(in, visible, tr.holdThenStep())
	}
	if out < 1 {
		anim.InsertKeyFrame(out, hidden, tr.holdThenStep())
	}
	node.Base().StartAnimation(property, anim)
	tr.bindToProgress(node, property, 1, 0)
}
