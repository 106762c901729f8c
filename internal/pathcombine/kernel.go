package pathcombine

import (
	polyclip "github.com/ctessum/polyclip-go"
	"github.com/gogpu/gg"

	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// DefaultTolerance is the maximum distance between a curve and its
// flattened polyline.
const DefaultTolerance = 0.05

// PolygonKernel flattens curves into polylines and clips the resulting
// polygons. Results contain only line segments and use the even-odd rule.
type PolygonKernel struct {
	tolerance float64
}

func NewPolygonKernel(tolerance float64) *PolygonKernel {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &PolygonKernel{tolerance: tolerance}
}

func (k *PolygonKernel) Combine(mode Mode, a, b *scene.Path) *scene.Path {
	var op polyclip.Op
	switch mode {
	case Add, Merge:
		op = polyclip.UNION
	case Subtract:
		op = polyclip.DIFFERENCE
	case Intersect:
		op = polyclip.INTERSECTION
	case ExcludeIntersections:
		op = polyclip.XOR
	default:
		panic("pathcombine: unknown mode " + mode.String())
	}
	result := k.Polygon(a).Construct(op, k.Polygon(b))
	return FromPolygon(result)
}

// Polygon flattens every figure of p into a contour. Open figures are
// treated as closed.
func (k *PolygonKernel) Polygon(p *scene.Path) polyclip.Polygon {
	var poly polyclip.Polygon
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
		gp.Close()

		var contour polyclip.Contour
		gp.FlattenCallback(k.tolerance, func(pt gg.Point) {
			next := polyclip.Point{X: pt.X, Y: pt.Y}
			if n := len(contour); n > 0 && contour[n-1] == next {
				return
			}
			contour = append(contour, next)
		})
		if n := len(contour); n > 1 && contour[0] == contour[n-1] {
			contour = contour[:n-1]
		}
		if len(contour) >= 3 {
			poly = append(poly, contour)
		}
	}
	return poly
}

// FromPolygon converts clipped contours back to a path of closed line
// figures.
func FromPolygon(poly polyclip.Polygon) *scene.Path {
	b := scene.NewPathBuilder(scene.FillRuleEvenOdd)
	for _, c := range poly {
		if len(c) < 3 {
			continue
		}
		b.BeginFigure(scene.Vector2{X: c[0].X, Y: c[0].Y})
		for _, pt := range c[1:] {
			b.AddLine(scene.Vector2{X: pt.X, Y: pt.Y})
		}
		b.EndFigure(true)
	}
	return b.Path()
}
