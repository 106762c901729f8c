package document

import "time"

// Composition is the root of an animation document.
type Composition struct {
	Name            string                   `json:"name"`
	Width           float64                  `json:"width"`
	Height          float64                  `json:"height"`
	InPoint         float64                  `json:"inPoint"`
	OutPoint        float64                  `json:"outPoint"`
	FramesPerSecond float64                  `json:"fps"`
	Layers          LayerCollection          `json:"layers"`
	PreComps        map[string]*PreCompAsset `json:"precomps,omitempty"`
	Images          map[string]*ImageAsset   `json:"images,omitempty"`
}

// DurationInFrames is the length of the composition's active window.
func (c *Composition) DurationInFrames() float64 {
	return c.OutPoint - c.InPoint
}

// Duration is the play time of the composition.
func (c *Composition) Duration() time.Duration {
	if c.FramesPerSecond <= 0 {
		return 0
	}
	return time.Duration(c.DurationInFrames() / c.FramesPerSecond * float64(time.Second))
}

// PreCompAsset is a reusable layer collection referenced by PreCompLayers.
type PreCompAsset struct {
	ID     string          `json:"id"`
	Layers LayerCollection `json:"layers"`
}

// ImageAsset is a bitmap referenced by ImageLayers.
type ImageAsset struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Path   string  `json:"path"`
}

// LayerType is the discriminator of a Layer.
type LayerType string

const (
	LayerTypePreComp LayerType = "precomp"
	LayerTypeSolid   LayerType = "solid"
	LayerTypeImage   LayerType = "image"
	LayerTypeNull    LayerType = "null"
	LayerTypeShape   LayerType = "shape"
	LayerTypeText    LayerType = "text"
)

// Layer is one element of a layer collection. The set of implementations is
// closed: *SolidLayer, *ShapeLayer, *PreCompLayer, *ImageLayer, *NullLayer and
// *TextLayer.
type Layer interface {
	Type() LayerType
	Base() *LayerBase
}

// Transform positions a layer or a shape group. Scale and Opacity are
// percentages, Rotation is in degrees.
type Transform struct {
	Anchor   Animatable[Vector3] `json:"anchor"`
	Position Animatable[Vector3] `json:"position"`
	Scale    Animatable[Vector3] `json:"scale"`
	Rotation Animatable[float64] `json:"rotation"`
	Opacity  Animatable[float64] `json:"opacity"`
}

// DefaultTransform is the identity transform at full opacity.
func DefaultTransform() Transform {
	return Transform{
		Anchor:   Static(Vector3{}),
		Position: Static(Vector3{}),
		Scale:    Static(Uniform3(100)),
		Rotation: Static(0.0),
		Opacity:  Static(100.0),
	}
}

// LayerBase holds the properties shared by every layer type. Times are in
// frames of the containing composition.
type LayerBase struct {
	Name        string    `json:"name"`
	Index       int       `json:"index"`
	Parent      *int      `json:"parent,omitempty"`
	InPoint     float64   `json:"inPoint"`
	OutPoint    float64   `json:"outPoint"`
	StartTime   float64   `json:"startTime,omitempty"`
	TimeStretch float64   `json:"timeStretch,omitempty"`
	BlendMode   BlendMode `json:"blendMode,omitempty"`
	Is3D        bool      `json:"is3d,omitempty"`
	Transform   Transform `json:"transform"`
	Masks       []Mask    `json:"masks,omitempty"`
}

func (b *LayerBase) Base() *LayerBase { return b }

// IsTimeStretched reports whether the layer plays at a non-default speed.
func (b *LayerBase) IsTimeStretched() bool {
	return b.TimeStretch != 0 && b.TimeStretch != 1
}

func newLayerBase() LayerBase {
	return LayerBase{Transform: DefaultTransform(), TimeStretch: 1}
}

type SolidLayer struct {
	LayerBase
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  Color   `json:"color"`
}

type ShapeLayer struct {
	LayerBase
	Contents ShapeContents `json:"contents"`
}

type PreCompLayer struct {
	LayerBase
	RefID  string  `json:"refId"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ImageLayer struct {
	LayerBase
	RefID string `json:"refId"`
}

// NullLayer draws nothing; it exists to parent other layers.
type NullLayer struct {
	LayerBase
}

type TextLayer struct {
	LayerBase
	Text string `json:"text"`
}

func (*SolidLayer) Type() LayerType   { return LayerTypeSolid }
func (*ShapeLayer) Type() LayerType   { return LayerTypeShape }
func (*PreCompLayer) Type() LayerType { return LayerTypePreComp }
func (*ImageLayer) Type() LayerType   { return LayerTypeImage }
func (*NullLayer) Type() LayerType    { return LayerTypeNull }
func (*TextLayer) Type() LayerType    { return LayerTypeText }

// LayerCollection is ordered top-most layer first, as in the document.
type LayerCollection []Layer

// ByIndex returns the layer with the given Index.
func (lc LayerCollection) ByIndex(index int) (Layer, bool) {
	for _, l := range lc {
		if l.Base().Index == index {
			return l, true
		}
	}
	return nil, false
}

// MaskMode is how a mask combines with the masks before it.
type MaskMode string

const (
	MaskModeAdd        MaskMode = "add"
	MaskModeSubtract   MaskMode = "subtract"
	MaskModeIntersect  MaskMode = "intersect"
	MaskModeLighten    MaskMode = "lighten"
	MaskModeDarken     MaskMode = "darken"
	MaskModeDifference MaskMode = "difference"
	MaskModeNone       MaskMode = "none"
)

type Mask struct {
	Name     string                   `json:"name,omitempty"`
	Inverted bool                     `json:"inverted,omitempty"`
	Mode     MaskMode                 `json:"mode"`
	Points   Animatable[PathGeometry] `json:"points"`
	Opacity  Animatable[float64]      `json:"opacity"`
}
