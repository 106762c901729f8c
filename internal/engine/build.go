package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// FlattenTolerance is the maximum distance between a curve and the polyline
// that replaces it when a path is trimmed.
const FlattenTolerance = 0.1

// BuildSceneGraph resolves the scene under root in state st into world
// space.
func BuildSceneGraph(st *State, root scene.Visual, width, height float64) (*SceneGraph, error) {
	sg := newSceneGraph(width, height)
	b := &builder{st: st, sg: sg}
	node, err := b.visual(root, nil)
	if err != nil {
		return nil, fmt.Errorf("build scene graph: %w", err)
	}
	sg.Root = node
	return sg, nil
}

type builder struct {
	st *State
	sg *SceneGraph
}

// reader reads properties of one node and keeps the first error.
type reader struct {
	st  *State
	n   scene.Node
	err error
}

func read[T any](r *reader, property string) T {
	if r.err != nil {
		var zero T
		return zero
	}
	v, err := valueAs[T](r.st, r.n, property)
	if err != nil {
		r.err = err
	}
	return v
}

// localTransform is Offset * TransformMatrix * T(Center) * R * S * T(-Center).
// Visuals and shapes share the property names.
func localTransform(r *reader) scene.Matrix3x2 {
	offset := read[scene.Vector2](r, "Offset")
	matrix := read[scene.Matrix3x2](r, "TransformMatrix")
	center := read[scene.Vector2](r, "CenterPoint")
	scale := read[scene.Vector2](r, "Scale")
	rotation := read[float64](r, "RotationAngleInDegrees")
	return scene.Translation(offset.X, offset.Y).
		Multiply(matrix).
		Multiply(scene.FromTransform(scene.Vector2{}, center, scale, rotation))
}

func (b *builder) newNode(n scene.Node, parent *SceneNode, local scene.Matrix3x2) *SceneNode {
	node := &SceneNode{
		ID:             n.Base().ID(),
		Kind:           n.Kind(),
		Description:    n.Base().Description(),
		LocalTransform: local,
		WorldTransform: local,
		Opacity:        1,
		Visible:        local.Determinant() != 0,
		Parent:         parent,
	}
	if parent != nil {
		node.WorldTransform = parent.WorldTransform.Multiply(local)
		node.Opacity = parent.Opacity
		node.Visible = node.Visible && parent.Visible
	}
	b.sg.NodesByID[node.ID] = node
	return node
}

func (b *builder) visual(v scene.Visual, parent *SceneNode) (*SceneNode, error) {
	r := &reader{st: b.st, n: v}
	local := localTransform(r)
	opacity := read[float64](r, "Opacity")
	size := read[scene.Vector2](r, "Size")
	if r.err != nil {
		return nil, r.err
	}

	node := b.newNode(v, parent, local)
	node.Opacity *= math.Max(0, math.Min(1, opacity))
	node.Visible = node.Visible && node.Opacity > 0

	props := v.Visual()
	_, isShapeVisual := v.(*scene.ShapeVisual)
	switch {
	case props.Clip != nil:
		p, err := b.geometry(props.Clip)
		if err != nil {
			return nil, err
		}
		node.ClipPath = &SceneNode{Kind: props.Clip.Kind(), Path: pathCommands(p), Visible: true}
	case isShapeVisual && size.X > 0 && size.Y > 0:
		node.ClipPath = &SceneNode{Kind: "Size", Path: pathCommands(rectanglePath(scene.Vector2{}, size, 0)), Visible: true}
	}

	switch v := v.(type) {
	case *scene.ContainerVisual:
		for _, c := range v.Children {
			child, err := b.visual(c, node)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	case *scene.ShapeVisual:
		for _, s := range v.Shapes {
			child, err := b.shape(s, node)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func (b *builder) shape(s scene.Shape, parent *SceneNode) (*SceneNode, error) {
	r := &reader{st: b.st, n: s}
	local := localTransform(r)
	if r.err != nil {
		return nil, r.err
	}
	node := b.newNode(s, parent, local)

	switch s := s.(type) {
	case *scene.ContainerShape:
		for _, c := range s.Shapes {
			child, err := b.shape(c, node)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	case *scene.SpriteShape:
		if err := b.sprite(s, node, r); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (b *builder) sprite(s *scene.SpriteShape, node *SceneNode, r *reader) error {
	if s.Geometry == nil {
		return nil
	}
	p, err := b.geometry(s.Geometry)
	if err != nil {
		return err
	}
	if s.FillBrush != nil {
		if node.Fill, err = b.brush(s.FillBrush); err != nil {
			return err
		}
	}
	if s.StrokeBrush != nil {
		thickness := read[float64](r, "StrokeThickness")
		if r.err != nil {
			return r.err
		}
		if node.Stroke, err = b.brush(s.StrokeBrush); err != nil {
			return err
		}
		if thickness <= 0 {
			node.Stroke = ""
		}
		node.StrokeWidth = thickness
		node.LineCap = lineCap(s.StrokeStartCap)
		node.LineJoin = string(s.StrokeLineJoin)
		node.MiterLimit = s.StrokeMiterLimit
	}
	if node.Fill == "" && node.Stroke == "" {
		return nil
	}
	node.Path = pathCommands(p)
	node.FillRule = fillRule(p.FillRule)
	node.Bounds = computePathBounds(node.Path, node.WorldTransform)
	return nil
}

func fillRule(r scene.FillRule) string {
	if r == scene.FillRuleWinding {
		return "nonzero"
	}
	return "evenodd"
}

func lineCap(c scene.StrokeCap) string {
	if c == scene.StrokeCapFlat {
		return "butt"
	}
	return string(c)
}

// brush returns the CSS color of a brush, or "" when it paints nothing.
func (b *builder) brush(cb *scene.ColorBrush) (string, error) {
	c, err := valueAs[scene.Color](b.st, cb, "Color")
	if err != nil {
		return "", err
	}
	if c.IsTransparent() {
		return "", nil
	}
	return cssColor(c), nil
}

func cssColor(c scene.Color) string {
	channel := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	alpha := strconv.FormatFloat(math.Min(1, c.A), 'f', -1, 64)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", channel(c.R), channel(c.G), channel(c.B), alpha)
}

// geometry resolves a geometry into a path, trimmed if it has a trim.
func (b *builder) geometry(g scene.Geometry) (*scene.Path, error) {
	r := &reader{st: b.st, n: g}
	var p *scene.Path
	switch g := g.(type) {
	case *scene.PathGeometry:
		p = read[*scene.Path](r, "Path")
		if p == nil {
			p = &scene.Path{FillRule: scene.FillRuleEvenOdd}
		}
	case *scene.EllipseGeometry:
		p = ellipsePath(read[scene.Vector2](r, "Center"), read[scene.Vector2](r, "Radius"))
	case *scene.RectangleGeometry:
		p = rectanglePath(read[scene.Vector2](r, "Offset"), read[scene.Vector2](r, "Size"), 0)
	case *scene.RoundedRectangleGeometry:
		radius := read[scene.Vector2](r, "CornerRadius")
		p = rectanglePath(read[scene.Vector2](r, "Offset"), read[scene.Vector2](r, "Size"), min(radius.X, radius.Y))
	default:
		return nil, fmt.Errorf("unsupported geometry %s", g.Kind())
	}

	start := read[float64](r, "TrimStart")
	end := read[float64](r, "TrimEnd")
	offset := read[float64](r, "TrimOffset")
	if r.err != nil {
		return nil, r.err
	}
	if start != 0 || end != 1 || offset != 0 {
		p = trimPath(p, start, end, offset)
	}
	return p, nil
}

const bezierCircleFactor = 0.5522847498

func ellipsePath(center, radius scene.Vector2) *scene.Path {
	kx, ky := radius.X*bezierCircleFactor, radius.Y*bezierCircleFactor
	cx, cy := center.X, center.Y
	rx, ry := radius.X, radius.Y

	b := scene.NewPathBuilder(scene.FillRuleEvenOdd)
	b.BeginFigure(scene.Vec2(cx, cy-ry))
	b.AddCubicBezier(scene.Vec2(cx+kx, cy-ry), scene.Vec2(cx+rx, cy-ky), scene.Vec2(cx+rx, cy))
	b.AddCubicBezier(scene.Vec2(cx+rx, cy+ky), scene.Vec2(cx+kx, cy+ry), scene.Vec2(cx, cy+ry))
	b.AddCubicBezier(scene.Vec2(cx-kx, cy+ry), scene.Vec2(cx-rx, cy+ky), scene.Vec2(cx-rx, cy))
	b.AddCubicBezier(scene.Vec2(cx-rx, cy-ky), scene.Vec2(cx-kx, cy-ry), scene.Vec2(cx, cy-ry))
	b.EndFigure(true)
	return b.Path()
}

// rectanglePath runs clockwise from the top left corner. The corner radius
// is limited to half the shorter side.
func rectanglePath(offset, size scene.Vector2, radius float64) *scene.Path {
	l, t := offset.X, offset.Y
	r, btm := l+size.X, t+size.Y
	radius = math.Max(0, math.Min(radius, math.Min(size.X, size.Y)/2))

	b := scene.NewPathBuilder(scene.FillRuleEvenOdd)
	if radius == 0 {
		b.BeginFigure(scene.Vec2(l, t))
		b.AddLine(scene.Vec2(r, t))
		b.AddLine(scene.Vec2(r, btm))
		b.AddLine(scene.Vec2(l, btm))
		b.EndFigure(true)
		return b.Path()
	}

	k := radius * (1 - bezierCircleFactor)
	b.BeginFigure(scene.Vec2(l+radius, t))
	b.AddLine(scene.Vec2(r-radius, t))
	b.AddCubicBezier(scene.Vec2(r-k, t), scene.Vec2(r, t+k), scene.Vec2(r, t+radius))
	b.AddLine(scene.Vec2(r, btm-radius))
	b.AddCubicBezier(scene.Vec2(r, btm-k), scene.Vec2(r-k, btm), scene.Vec2(r-radius, btm))
	b.AddLine(scene.Vec2(l+radius, btm))
	b.AddCubicBezier(scene.Vec2(l+k, btm), scene.Vec2(l, btm-k), scene.Vec2(l, btm-radius))
	b.AddLine(scene.Vec2(l, t+radius))
	b.AddCubicBezier(scene.Vec2(l, t+k), scene.Vec2(l+k, t), scene.Vec2(l+radius, t))
	b.EndFigure(true)
	return b.Path()
}

// trimPath keeps the part of p between start and end, as fractions of its
// total length, after shifting both by offset. The result is made of
// open line figures.
func trimPath(p *scene.Path, start, end, offset float64) *scene.Path {
	if start > end {
		start, end = end, start
	}
	start, end = math.Max(0, start), math.Min(1, end)
	out := scene.NewPathBuilder(p.FillRule)
	if end <= start {
		return out.Path()
	}
	if end-start >= 1 {
		return p
	}

	lines := flatten(p)
	total := 0.0
	for _, pl := range lines {
		total += polylineLength(pl)
	}
	if total == 0 {
		return out.Path()
	}

	shift := offset - math.Floor(offset)
	s, e := start+shift, end+shift
	switch {
	case s >= 1:
		appendRange(out, lines, (s-1)*total, (e-1)*total)
	case e > 1:
		appendRange(out, lines, s*total, total)
		appendRange(out, lines, 0, (e-1)*total)
	default:
		appendRange(out, lines, s*total, e*total)
	}
	return out.Path()
}

// flatten turns every figure of p into a polyline. Closed figures end at
// their start point.
func flatten(p *scene.Path) [][]scene.Vector2 {
	var lines [][]scene.Vector2
	for _, f := range p.Figures {
		gp := gg.NewPath()
		gp.MoveTo(f.Start.X, f.Start.Y)
		for _, s := range f.Segments {
			if s.Cubic {
				gp.CubicTo(s.Control1.X, s.Control1.Y, s.Control2.X, s.Control2.Y, s.End.X, s.End.Y)
			} else {
				gp.LineTo(s.End.X, s.End.Y)
			}
		}

		pl := []scene.Vector2{f.Start}
		gp.FlattenCallback(FlattenTolerance, func(pt gg.Point) {
			next := scene.Vec2(pt.X, pt.Y)
			if pl[len(pl)-1] != next {
				pl = append(pl, next)
			}
		})
		if f.Closed && pl[len(pl)-1] != f.Start {
			pl = append(pl, f.Start)
		}
		lines = append(lines, pl)
	}
	return lines
}

func polylineLength(pl []scene.Vector2) float64 {
	l := 0.0
	for i := 1; i < len(pl); i++ {
		l += pl[i].Sub(pl[i-1]).Length()
	}
	return l
}

// appendRange adds the part of lines between arc lengths from and to.
func appendRange(b *scene.PathBuilder, lines [][]scene.Vector2, from, to float64) {
	pos := 0.0
	for _, pl := range lines {
		open := false
		for i := 1; i < len(pl); i++ {
			p0, p1 := pl[i-1], pl[i]
			l := p1.Sub(p0).Length()
			s0 := pos
			pos += l
			if l == 0 || pos <= from || s0 >= to {
				continue
			}
			t0 := math.Max(0, (from-s0)/l)
			t1 := math.Min(1, (to-s0)/l)
			if !open {
				b.BeginFigure(p0.Lerp(p1, t0))
				open = true
			}
			b.AddLine(p0.Lerp(p1, t1))
		}
		if open {
			b.EndFigure(false)
		}
	}
}

// pathCommands converts a path to Canvas2D commands.
func pathCommands(p *scene.Path) []PathCommand {
	var out []PathCommand
	for _, f := range p.Figures {
		out = append(out, PathCommand{"M", f.Start.X, f.Start.Y})
		for _, s := range f.Segments {
			if s.Cubic {
				out = append(out, PathCommand{"C", s.Control1.X, s.Control1.Y, s.Control2.X, s.Control2.Y, s.End.X, s.End.Y})
			} else {
				out = append(out, PathCommand{"L", s.End.X, s.End.Y})
			}
		}
		if f.Closed {
			out = append(out, PathCommand{"Z"})
		}
	}
	return out
}

// computePathBounds calculates the world-space bounding box of path
// commands. Curve control points are included, so boxes around curves may
// be larger than the curve itself.
func computePathBounds(path []PathCommand, world scene.Matrix3x2) Rect {
	var minX, minY, maxX, maxY float64
	first := true
	add := func(x, y float64) {
		w := world.TransformPoint(scene.Vec2(x, y))
		if first {
			minX, maxX = w.X, w.X
			minY, maxY = w.Y, w.Y
			first = false
			return
		}
		minX = math.Min(minX, w.X)
		maxX = math.Max(maxX, w.X)
		minY = math.Min(minY, w.Y)
		maxY = math.Max(maxY, w.Y)
	}

	for _, cmd := range path {
		for i := 1; i+1 < len(cmd); i += 2 {
			x, _ := cmd[i].(float64)
			y, _ := cmd[i+1].(float64)
			add(x, y)
		}
	}
	if first {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
