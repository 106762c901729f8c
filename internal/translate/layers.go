package translate

import (
	"fmt"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// shapeOrVisual is the translation of one layer: a shape tree when the
// layer can share a ShapeVisual with its neighbours, a visual otherwise.
type shapeOrVisual struct {
	shape  scene.Shape
	visual scene.Visual
}

func shapeResult(s scene.Shape) shapeOrVisual   { return shapeOrVisual{shape: s} }
func visualResult(v scene.Visual) shapeOrVisual { return shapeOrVisual{visual: v} }

func (sv shapeOrVisual) IsShape() bool { return sv.shape != nil }

func (sv shapeOrVisual) Shape() scene.Shape {
	if sv.shape == nil {
		panic("translate: visual used as a shape")
	}
	return sv.shape
}

func (sv shapeOrVisual) Visual() scene.Visual {
	if sv.visual == nil {
		panic("translate: shape used as a visual")
	}
	return sv.visual
}

// translateLayers translates the context's layers bottom-most first.
func (tr *translator) translateLayers(ctx *translationContext) []shapeOrVisual {
	var out []shapeOrVisual
	for i := len(ctx.layers) - 1; i >= 0; i-- {
		if r, ok := tr.translateLayer(ctx, ctx.layers[i]); ok {
			out = append(out, r)
		}
	}
	return out
}

// groupVisuals hosts each run of consecutive shapes in a ShapeVisual the
// size of the context.
func (tr *translator) groupVisuals(ctx *translationContext, items []shapeOrVisual) []scene.Visual {
	var out []scene.Visual
	var host *scene.ShapeVisual
	for _, item := range items {
		if !item.IsShape() {
			host = nil
			out = append(out, item.Visual())
			continue
		}
		if host == nil {
			host = tr.c.CreateShapeVisual()
			host.Size = document.Vec2(ctx.width, ctx.height)
			out = append(out, host)
		}
		host.Shapes = append(host.Shapes, item.Shape())
	}
	return out
}

func (tr *translator) checkLayer(b *document.LayerBase) {
	if b.Is3D {
		tr.issues.Report(issues.ThreeDLayer)
	}
	if b.IsTimeStretched() {
		tr.issues.Report(issues.TimeStretch)
	}
	if b.BlendMode != document.BlendModeNormal {
		tr.issues.Report(issues.BlendMode)
	}
}

func (tr *translator) translateLayer(ctx *translationContext, layer document.Layer) (shapeOrVisual, bool) {
	b := layer.Base()
	tr.checkLayer(b)
	if ctx.neverVisible(b) {
		tr.logger.Debug("skip layer outside the active window", "layer", b.Name, "in", b.InPoint, "out", b.OutPoint)
		return shapeOrVisual{}, false
	}

	switch l := layer.(type) {
	case *document.ImageLayer:
		tr.issues.Report(issues.ImageLayer)
	case *document.TextLayer:
		tr.issues.Report(issues.TextLayer)
	case *document.NullLayer:
	case *document.SolidLayer:
		return tr.translateContentLayer(ctx, b, func(sc shapeContext) []scene.Shape {
			return tr.solidContents(ctx, l, sc)
		}), true
	case *document.ShapeLayer:
		return tr.translateContentLayer(ctx, b, func(sc shapeContext) []scene.Shape {
			return tr.translateShapeList(ctx, l.Contents, sc, b.Name)
		}), true
	case *document.PreCompLayer:
		return visualResult(tr.translatePreComp(ctx, l)), true
	default:
		panic(fmt.Sprintf("translate: unexpected layer type %s", layer.Type()))
	}
	return shapeOrVisual{}, false
}

// translateContentLayer translates a shape or solid layer. Unmasked
// layers become shape trees; masked layers need a visual to clip.
func (tr *translator) translateContentLayer(ctx *translationContext, b *document.LayerBase, contents func(shapeContext) []scene.Shape) shapeOrVisual {
	if clip := tr.maskClip(ctx, b); clip != nil {
		root, leaf := tr.visualTransformChain(ctx, b)
		tr.applyLayerOpacity(ctx, leaf, b)
		host := tr.c.CreateShapeVisual()
		tr.describe(host, "Masked content for %s", b.Name)
		host.Size = document.Vec2(ctx.width, ctx.height)
		host.Clip = clip
		host.Shapes = contents(newShapeContext(document.Static(100.0)))
		leaf.Children = append(leaf.Children, host)
		return visualResult(tr.wrapVisual(ctx, b, root))
	}

	root, leaf := tr.shapeTransformChain(ctx, b)
	leaf.Shapes = contents(newShapeContext(b.Transform.Opacity))
	if visibility := tr.shapeVisibility(ctx, b); visibility != nil {
		visibility.Shapes = append(visibility.Shapes, root)
		return shapeResult(visibility)
	}
	return shapeResult(root)
}

// wrapVisual puts v under the layer's visibility node, if it has one.
func (tr *translator) wrapVisual(ctx *translationContext, b *document.LayerBase, v scene.Visual) scene.Visual {
	visibility := tr.visualVisibility(ctx, b)
	if visibility == nil {
		return v
	}
	visibility.Children = append(visibility.Children, v)
	return visibility
}

// solidContents is a rectangle covering the solid layer, drawn with the
// layer's color.
func (tr *translator) solidContents(ctx *translationContext, l *document.SolidLayer, sc shapeContext) []scene.Shape {
	if l.Width <= 0 || l.Height <= 0 {
		return nil
	}
	geo := tr.c.CreateRectangleGeometry()
	geo.Size = document.Vec2(l.Width, l.Height)
	s := tr.c.CreateSpriteShape()
	tr.describe(s, "Solid %s", l.Name)
	s.Geometry = geo
	s.FillBrush = tr.paintBrush(ctx, document.Static(l.Color), document.Static(100.0), sc.opacity)
	return []scene.Shape{s}
}

// translatePreComp translates the layers of a precomp in their own time
// and coordinate space, clipped to the precomp's size.
func (tr *translator) translatePreComp(ctx *translationContext, l *document.PreCompLayer) scene.Visual {
	asset := tr.comp.PreComps[l.RefID]
	nested := ctx.nested(l, asset.Layers)

	content := tr.c.CreateContainerVisual()
	tr.describe(content, "PreComp %s", l.RefID)
	content.Size = document.Vec2(l.Width, l.Height)
	if clip := tr.maskClip(ctx, &l.LayerBase); clip != nil {
		content.Clip = clip
	} else {
		rect := tr.c.CreateRectangleGeometry()
		rect.Size = content.Size
		content.Clip = rect
	}
	content.Children = tr.groupVisuals(nested, tr.translateLayers(nested))

	root, leaf := tr.visualTransformChain(ctx, &l.LayerBase)
	tr.applyLayerOpacity(ctx, leaf, &l.LayerBase)
	leaf.Children = append(leaf.Children, content)
	return tr.wrapVisual(ctx, &l.LayerBase, root)
}

// maskClip returns the geometry of the layer's mask, or nil if it has
// none. Only a single additive, opaque, non-inverted mask is supported;
// others are approximated by the first mask's outline.
func (tr *translator) maskClip(ctx *translationContext, b *document.LayerBase) scene.Geometry {
	if len(b.Masks) == 0 {
		return nil
	}
	if len(b.Masks) > 1 {
		tr.issues.Report(issues.MultipleMasks)
	}
	m := b.Masks[0]
	if m.Inverted {
		tr.issues.Report(issues.InvertedMask)
	}
	if m.Mode != document.MaskModeAdd {
		tr.issues.Report(issues.MaskWithUnsupportedMode)
	}
	if animatedIn(ctx, m.Opacity) || valueAt(m.Opacity, ctx.start) != 100 {
		tr.issues.Report(issues.MaskWithAlpha)
	}

	paths := document.Map(m.Points, func(g document.PathGeometry) *scene.Path {
		pb := scene.NewPathBuilder(scene.FillRuleWinding)
		addFigure(pb, g)
		return tr.path(pb.Path())
	})
	geo := tr.c.CreatePathGeometry(valueAt(paths, ctx.start))
	tr.describe(geo, "Mask %s for %s", m.Name, b.Name)
	setOrAnimate(tr, ctx, geo, "Path", paths, &geo.Path)
	return geo
}
