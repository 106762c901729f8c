package document

// ShapeContentType is the discriminator of a ShapeContent item.
type ShapeContentType string

const (
	ContentFill           ShapeContentType = "fill"
	ContentStroke         ShapeContentType = "stroke"
	ContentGradientFill   ShapeContentType = "gradientFill"
	ContentGradientStroke ShapeContentType = "gradientStroke"
	ContentTrimPath       ShapeContentType = "trimPath"
	ContentRoundedCorner  ShapeContentType = "roundedCorner"
	ContentTransform      ShapeContentType = "transform"
	ContentGroup          ShapeContentType = "group"
	ContentPath           ShapeContentType = "path"
	ContentEllipse        ShapeContentType = "ellipse"
	ContentRectangle      ShapeContentType = "rectangle"
	ContentMergePaths     ShapeContentType = "mergePaths"
	ContentRepeater       ShapeContentType = "repeater"
	ContentPolystar       ShapeContentType = "polystar"
)

// ShapeContent is one instruction in a shape layer's content list. Paint and
// modifier items apply to the geometry items that precede them in the list.
type ShapeContent interface {
	ContentType() ShapeContentType
	Common() *ShapeCommon
}

// ShapeContents is an ordered content list.
type ShapeContents []ShapeContent

// ShapeCommon holds the properties shared by every content item.
type ShapeCommon struct {
	Name      string    `json:"name,omitempty"`
	BlendMode BlendMode `json:"blendMode,omitempty"`
}

func (c *ShapeCommon) Common() *ShapeCommon { return c }

type SolidColorFill struct {
	ShapeCommon
	FillRule FillRule            `json:"fillRule,omitempty"`
	Color    Animatable[Color]   `json:"color"`
	Opacity  Animatable[float64] `json:"opacity"`
}

type LineCap string

const (
	LineCapFlat   LineCap = "flat"
	LineCapRound  LineCap = "round"
	LineCapSquare LineCap = "square"
)

type LineJoin string

const (
	LineJoinMiter LineJoin = "miter"
	LineJoinRound LineJoin = "round"
	LineJoinBevel LineJoin = "bevel"
)

type SolidColorStroke struct {
	ShapeCommon
	Color      Animatable[Color]   `json:"color"`
	Opacity    Animatable[float64] `json:"opacity"`
	Thickness  Animatable[float64] `json:"thickness"`
	LineCap    LineCap             `json:"lineCap,omitempty"`
	LineJoin   LineJoin            `json:"lineJoin,omitempty"`
	MiterLimit float64             `json:"miterLimit,omitempty"`
}

type GradientKind string

const (
	GradientLinear GradientKind = "linear"
	GradientRadial GradientKind = "radial"
)

type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

type GradientFill struct {
	ShapeCommon
	Kind       GradientKind        `json:"kind"`
	FillRule   FillRule            `json:"fillRule,omitempty"`
	Opacity    Animatable[float64] `json:"opacity"`
	StartPoint Animatable[Vector3] `json:"startPoint"`
	EndPoint   Animatable[Vector3] `json:"endPoint"`
	Stops      []GradientStop      `json:"stops"`
}

type GradientStroke struct {
	ShapeCommon
	Kind       GradientKind        `json:"kind"`
	Opacity    Animatable[float64] `json:"opacity"`
	Thickness  Animatable[float64] `json:"thickness"`
	StartPoint Animatable[Vector3] `json:"startPoint"`
	EndPoint   Animatable[Vector3] `json:"endPoint"`
	Stops      []GradientStop      `json:"stops"`
	LineCap    LineCap             `json:"lineCap,omitempty"`
	LineJoin   LineJoin            `json:"lineJoin,omitempty"`
	MiterLimit float64             `json:"miterLimit,omitempty"`
}

// FirstStopColor is the color used when the gradient is drawn as a solid.
func firstStopColor(stops []GradientStop) Color {
	if len(stops) == 0 {
		return Black
	}
	return stops[0].Color
}

func (g *GradientFill) FirstStopColor() Color   { return firstStopColor(g.Stops) }
func (g *GradientStroke) FirstStopColor() Color { return firstStopColor(g.Stops) }

// TrimPath draws the part of each path between Start and End percent of its
// length, rotated by Offset degrees.
type TrimPath struct {
	ShapeCommon
	Start  Animatable[float64] `json:"start"`
	End    Animatable[float64] `json:"end"`
	Offset Animatable[float64] `json:"offset"`
}

type RoundedCorner struct {
	ShapeCommon
	Radius Animatable[float64] `json:"radius"`
}

type ShapeTransform struct {
	ShapeCommon
	Transform
}

type ShapeGroup struct {
	ShapeCommon
	Contents ShapeContents `json:"contents"`
}

type Path struct {
	ShapeCommon
	Geometry Animatable[PathGeometry] `json:"geometry"`
	Reversed bool                     `json:"reversed,omitempty"`
}

// Ellipse is centered on Position.
type Ellipse struct {
	ShapeCommon
	Position Animatable[Vector3] `json:"position"`
	Diameter Animatable[Vector3] `json:"diameter"`
	Reversed bool                `json:"reversed,omitempty"`
}

// Rectangle is centered on Position.
type Rectangle struct {
	ShapeCommon
	Position     Animatable[Vector3] `json:"position"`
	Size         Animatable[Vector3] `json:"size"`
	CornerRadius Animatable[float64] `json:"cornerRadius"`
	Reversed     bool                `json:"reversed,omitempty"`
}

type MergeMode string

const (
	MergeModeMerge                MergeMode = "merge"
	MergeModeAdd                  MergeMode = "add"
	MergeModeSubtract             MergeMode = "subtract"
	MergeModeIntersect            MergeMode = "intersect"
	MergeModeExcludeIntersections MergeMode = "excludeIntersections"
)

type MergePaths struct {
	ShapeCommon
	Mode MergeMode `json:"mode"`
}

// RepeaterTransform is applied cumulatively to each copy.
type RepeaterTransform struct {
	Transform
	StartOpacity Animatable[float64] `json:"startOpacity"`
	EndOpacity   Animatable[float64] `json:"endOpacity"`
}

type Repeater struct {
	ShapeCommon
	Count     Animatable[float64] `json:"count"`
	Offset    Animatable[float64] `json:"offset"`
	Transform RepeaterTransform   `json:"transform"`
}

type PolystarType string

const (
	PolystarStar    PolystarType = "star"
	PolystarPolygon PolystarType = "polygon"
)

type Polystar struct {
	ShapeCommon
	StarType    PolystarType        `json:"starType"`
	Points      Animatable[float64] `json:"points"`
	Position    Animatable[Vector3] `json:"position"`
	Rotation    Animatable[float64] `json:"rotation"`
	InnerRadius Animatable[float64] `json:"innerRadius"`
	OuterRadius Animatable[float64] `json:"outerRadius"`
}

func (*SolidColorFill) ContentType() ShapeContentType   { return ContentFill }
func (*SolidColorStroke) ContentType() ShapeContentType { return ContentStroke }
func (*GradientFill) ContentType() ShapeContentType     { return ContentGradientFill }
func (*GradientStroke) ContentType() ShapeContentType   { return ContentGradientStroke }
func (*TrimPath) ContentType() ShapeContentType         { return ContentTrimPath }
func (*RoundedCorner) ContentType() ShapeContentType    { return ContentRoundedCorner }
func (*ShapeTransform) ContentType() ShapeContentType   { return ContentTransform }
func (*ShapeGroup) ContentType() ShapeContentType       { return ContentGroup }
func (*Path) ContentType() ShapeContentType             { return ContentPath }
func (*Ellipse) ContentType() ShapeContentType          { return ContentEllipse }
func (*Rectangle) ContentType() ShapeContentType        { return ContentRectangle }
func (*MergePaths) ContentType() ShapeContentType       { return ContentMergePaths }
func (*Repeater) ContentType() ShapeContentType         { return ContentRepeater }
func (*Polystar) ContentType() ShapeContentType         { return ContentPolystar }
