// Package translate converts an animation document into a scene whose
// animations are all driven by one root "Progress" property.
package translate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/pathcombine"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// ProgressProperty is the root property that drives every animation. 0 is
// the composition's in point, 1 its out point.
const ProgressProperty = "Progress"

// Options control a translation.
type Options struct {
	// StrictTranslation fails the translation on the first unsupported
	// feature instead of approximating it.
	StrictTranslation bool `json:"strictTranslation" yaml:"strictTranslation"`
	// AddCodegenDescriptions annotates every created node with a
	// human-readable description.
	AddCodegenDescriptions bool `json:"addCodegenDescriptions" yaml:"addCodegenDescriptions"`

	// Kernel combines paths for merge-paths items. Defaults to a
	// flattening polygon clipper.
	Kernel pathcombine.Kernel `json:"-" yaml:"-"`
	Logger *slog.Logger       `json:"-" yaml:"-"`
}

// Result is a translated composition.
type Result struct {
	Root       *scene.ContainerVisual
	Compositor *scene.Compositor
	Issues     []issues.Issue
	Width      float64
	Height     float64
	Duration   float64
	FrameRate  float64
	InPoint    float64
}

// ErrInvalidDocument is wrapped by errors about documents that cannot be
// translated at all.
var ErrInvalidDocument = errors.New("invalid document")

// Translate converts comp. Unsupported features are approximated and listed
// in the result's Issues, or returned as an *issues.UnsupportedError in
// strict mode.
func Translate(comp *document.Composition, opts Options) (result *Result, err error) {
	if comp.DurationInFrames() <= 0 {
		return nil, fmt.Errorf("%w: out point %g is not after in point %g", ErrInvalidDocument, comp.OutPoint, comp.InPoint)
	}
	if err := checkReferences(comp); err != nil {
		return nil, err
	}
	defer issues.Recover(&err)

	tr := newTranslator(comp, opts)
	tr.describe(tr.root, "%s", comp.Name)

	if len(comp.Images) > 0 {
		tr.issues.Report(issues.ImageAssets)
	}

	ctx := newRootContext(comp)
	tr.root.Children = tr.groupVisuals(ctx, tr.translateLayers(ctx))

	tr.logger.Debug("translate composition", "name", comp.Name, "layers", len(comp.Layers), "issues", tr.issues.Len())
	return &Result{
		Root:       tr.root,
		Compositor: tr.c,
		Issues:     tr.issues.Issues(),
		Width:      comp.Width,
		Height:     comp.Height,
		Duration:   comp.DurationInFrames(),
		FrameRate:  comp.FramesPerSecond,
		InPoint:    comp.InPoint,
	}, nil
}

// checkReferences rejects precomp layers whose asset is missing or that
// contain themselves.
func checkReferences(comp *document.Composition) error {
	var visit func(layers document.LayerCollection, stack []string) error
	visit = func(layers document.LayerCollection, stack []string) error {
		for _, l := range layers {
			pl, ok := l.(*document.PreCompLayer)
			if !ok {
				continue
			}
			asset, ok := comp.PreComps[pl.RefID]
			if !ok {
				return fmt.Errorf("%w: layer %q refers to missing precomp %q", ErrInvalidDocument, pl.Name, pl.RefID)
			}
			for _, id := range stack {
				if id == pl.RefID {
					return fmt.Errorf("%w: precomp %q contains itself", ErrInvalidDocument, pl.RefID)
				}
			}
			if err := visit(asset.Layers, append(stack, pl.RefID)); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(comp.Layers, nil)
}

func newTranslator(comp *document.Composition, opts Options) *translator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := issues.NewCollector(opts.StrictTranslation)
	c := scene.NewCompositor()
	tr := &translator{
		comp:     comp,
		opts:     opts,
		logger:   logger,
		issues:   collector,
		c:        c,
		combiner: pathcombine.NewCombiner(opts.Kernel, collector, logger),
		brushes:  make(map[document.Color]*scene.ColorBrush),
		easings:  make(map[document.Easing]scene.Easing),
		paths:    make(map[string]*scene.Path),
		bindings: make(map[bindingKey]*scene.ExpressionAnimation),
		drivers:  make(map[driverKey]string),
	}
	tr.root = c.CreateContainerVisual()
	tr.root.Properties().InsertScalar(ProgressProperty, 0)
	tr.root.Size = document.Vec2(comp.Width, comp.Height)
	return tr
}

type translator struct {
	comp     *document.Composition
	opts     Options
	logger   *slog.Logger
	issues   *issues.Collector
	c        *scene.Compositor
	combiner *pathcombine.Combiner
	root     *scene.ContainerVisual

	brushes  map[document.Color]*scene.ColorBrush
	easings  map[document.Easing]scene.Easing
	paths    map[string]*scene.Path
	bindings map[bindingKey]*scene.ExpressionAnimation
	drivers  map[driverKey]string
}

func (tr *translator) describe(n scene.Node, format string, args ...any) {
	if !tr.opts.AddCodegenDescriptions {
		return
	}
	n.Base().SetDescription(fmt.Sprintf(format, args...))
}

// translationContext is the coordinate and time space layers are translated
// in. Times are frames of the context's own composition; Duration is the
// number of frames that the root progress range 0..1 spans.
type translationContext struct {
	layers   document.LayerCollection
	width    float64
	height   float64
	start    float64
	duration float64
	fps      float64
}

func newRootContext(comp *document.Composition) *translationContext {
	return &translationContext{
		layers:   comp.Layers,
		width:    comp.Width,
		height:   comp.Height,
		start:    comp.InPoint,
		duration: comp.DurationInFrames(),
		fps:      comp.FramesPerSecond,
	}
}

func (ctx *translationContext) end() float64 { return ctx.start + ctx.duration }

// nested returns the context of a precomp layer's content. The precomp's
// frame 0 is the containing layer's start time.
func (ctx *translationContext) nested(layer *document.PreCompLayer, layers document.LayerCollection) *translationContext {
	return &translationContext{
		layers:   layers,
		width:    layer.Width,
		height:   layer.Height,
		start:    ctx.start - layer.StartTime,
		duration: ctx.duration,
		fps:      ctx.fps,
	}
}

// progressOf converts a frame of the context to root progress.
func (ctx *translationContext) progressOf(frame float64) float64 {
	return (frame - ctx.start) / ctx.duration
}
