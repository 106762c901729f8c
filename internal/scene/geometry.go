package scene

import (
	"fmt"
	"strings"
)

// Geometry is the outline drawn by a SpriteShape or used as a clip.
type Geometry interface {
	Node
	Trimming() *Trim
}

// Trim restricts drawing to the part of the outline between TrimStart and
// TrimEnd, fractions of its length, rotated by TrimOffset turns.
type Trim struct {
	TrimStart  float64
	TrimEnd    float64
	TrimOffset float64
}

func (t *Trim) Trimming() *Trim { return t }

// IsDefault reports whether the trim draws the whole outline.
func (t *Trim) IsDefault() bool {
	return t.TrimStart == 0 && t.TrimEnd == 1 && t.TrimOffset == 0
}

func defaultTrim() Trim { return Trim{TrimEnd: 1} }

type PathGeometry struct {
	Object
	Trim
	Path *Path
}

func (*PathGeometry) Kind() string { return "PathGeometry" }

type EllipseGeometry struct {
	Object
	Trim
	Center Vector2
	Radius Vector2
}

func (*EllipseGeometry) Kind() string { return "EllipseGeometry" }

// RectangleGeometry spans Offset to Offset+Size.
type RectangleGeometry struct {
	Object
	Trim
	Offset Vector2
	Size   Vector2
}

func (*RectangleGeometry) Kind() string { return "RectangleGeometry" }

type RoundedRectangleGeometry struct {
	Object
	Trim
	Offset       Vector2
	Size         Vector2
	CornerRadius Vector2
}

func (*RoundedRectangleGeometry) Kind() string { return "RoundedRectangleGeometry" }

// FillRule decides which regions of a path are inside.
type FillRule string

const (
	FillRuleEvenOdd FillRule = "evenOdd"
	FillRuleWinding FillRule = "winding"
)

// Segment is a line to End, or a cubic bezier to End when Cubic is set.
type Segment struct {
	Cubic    bool    `json:"cubic,omitempty"`
	Control1 Vector2 `json:"c1,omitzero"`
	Control2 Vector2 `json:"c2,omitzero"`
	End      Vector2 `json:"end"`
}

// Figure is a begin point followed by segments, optionally closed.
type Figure struct {
	Start    Vector2   `json:"start"`
	Segments []Segment `json:"segments"`
	Closed   bool      `json:"closed"`
}

// Path is a path geometry shared by PathGeometry nodes.
type Path struct {
	FillRule FillRule `json:"fillRule"`
	Figures  []Figure `json:"figures"`
}

// Key is a structural identity of the path, equal for equal paths.
func (p *Path) Key() string {
	var b strings.Builder
	b.WriteString(string(p.FillRule))
	for _, f := range p.Figures {
		fmt.Fprintf(&b, "|M%g,%g", f.Start.X, f.Start.Y)
		for _, s := range f.Segments {
			if s.Cubic {
				fmt.Fprintf(&b, "C%g,%g,%g,%g,%g,%g", s.Control1.X, s.Control1.Y, s.Control2.X, s.Control2.Y, s.End.X, s.End.Y)
			} else {
				fmt.Fprintf(&b, "L%g,%g", s.End.X, s.End.Y)
			}
		}
		if f.Closed {
			b.WriteByte('Z')
		}
	}
	return b.String()
}

// PathBuilder assembles a Path figure by figure.
type PathBuilder struct {
	path    Path
	current *Figure
}

func NewPathBuilder(rule FillRule) *PathBuilder {
	return &PathBuilder{path: Path{FillRule: rule}}
}

func (b *PathBuilder) BeginFigure(p Vector2) {
	if b.current != nil {
		panic("scene: BeginFigure inside an open figure")
	}
	b.current = &Figure{Start: p}
}

func (b *PathBuilder) AddLine(p Vector2) {
	b.figure().Segments = append(b.current.Segments, Segment{End: p})
}

func (b *PathBuilder) AddCubicBezier(c1, c2, p Vector2) {
	b.figure().Segments = append(b.current.Segments, Segment{Cubic: true, Control1: c1, Control2: c2, End: p})
}

func (b *PathBuilder) EndFigure(closed bool) {
	f := b.figure()
	f.Closed = closed
	b.path.Figures = append(b.path.Figures, *f)
	b.current = nil
}

// AddFigures appends complete figures.
func (b *PathBuilder) AddFigures(figs ...Figure) {
	if b.current != nil {
		panic("scene: AddFigures inside an open figure")
	}
	b.path.Figures = append(b.path.Figures, figs...)
}

func (b *PathBuilder) figure() *Figure {
	if b.current == nil {
		panic("scene: segment outside a figure")
	}
	return b.current
}

// Path returns the built path.
func (b *PathBuilder) Path() *Path {
	if b.current != nil {
		panic("scene: Path with an open figure")
	}
	p := b.path
	return &p
}
