package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Layers and shape contents are encoded as JSON objects carrying a "ty"
// discriminator next to their own fields. Decoding starts from the
// documented defaults, so omitted properties keep them.

type typeTag struct {
	Type string `json:"ty"`
}

// withTypeTag prepends "ty" to an encoded JSON object.
func withTypeTag(ty string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(ty)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"ty":`)
	buf.Write(tag)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func readTypeTag(data []byte) (string, error) {
	var tag typeTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return "", err
	}
	if tag.Type == "" {
		return "", fmt.Errorf("missing \"ty\" discriminator")
	}
	return tag.Type, nil
}

// NewLayer returns a layer of the given type with default properties.
func NewLayer(t LayerType) (Layer, error) {
	base := newLayerBase()
	switch t {
	case LayerTypeSolid:
		return &SolidLayer{LayerBase: base, Color: Black}, nil
	case LayerTypeShape:
		return &ShapeLayer{LayerBase: base}, nil
	case LayerTypePreComp:
		return &PreCompLayer{LayerBase: base}, nil
	case LayerTypeImage:
		return &ImageLayer{LayerBase: base}, nil
	case LayerTypeNull:
		return &NullLayer{LayerBase: base}, nil
	case LayerTypeText:
		return &TextLayer{LayerBase: base}, nil
	}
	return nil, fmt.Errorf("unknown layer type %q", t)
}

func (lc LayerCollection) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, len(lc))
	for i, l := range lc {
		raw, err := withTypeTag(string(l.Type()), l)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		items[i] = raw
	}
	return json.Marshal(items)
}

func (lc *LayerCollection) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(LayerCollection, 0, len(items))
	for i, raw := range items {
		ty, err := readTypeTag(raw)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		l, err := NewLayer(LayerType(ty))
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, l); err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, ty, err)
		}
		out = append(out, l)
	}
	*lc = out
	return nil
}

// NewShapeContent returns a content item of the given type with default
// properties.
func NewShapeContent(t ShapeContentType) (ShapeContent, error) {
	switch t {
	case ContentFill:
		return &SolidColorFill{FillRule: FillRuleNonZero, Color: Static(Black), Opacity: Static(100.0)}, nil
	case ContentStroke:
		return &SolidColorStroke{
			Color:      Static(Black),
			Opacity:    Static(100.0),
			Thickness:  Static(1.0),
			LineCap:    LineCapFlat,
			LineJoin:   LineJoinMiter,
			MiterLimit: 4,
		}, nil
	case ContentGradientFill:
		return &GradientFill{
			Kind:       GradientLinear,
			FillRule:   FillRuleNonZero,
			Opacity:    Static(100.0),
			StartPoint: Static(Vector3{}),
			EndPoint:   Static(Vector3{}),
		}, nil
	case ContentGradientStroke:
		return &GradientStroke{
			Kind:       GradientLinear,
			Opacity:    Static(100.0),
			Thickness:  Static(1.0),
			StartPoint: Static(Vector3{}),
			EndPoint:   Static(Vector3{}),
			LineCap:    LineCapFlat,
			LineJoin:   LineJoinMiter,
			MiterLimit: 4,
		}, nil
	case ContentTrimPath:
		return &TrimPath{Start: Static(0.0), End: Static(100.0), Offset: Static(0.0)}, nil
	case ContentRoundedCorner:
		return &RoundedCorner{Radius: Static(0.0)}, nil
	case ContentTransform:
		return &ShapeTransform{Transform: DefaultTransform()}, nil
	case ContentGroup:
		return &ShapeGroup{}, nil
	case ContentPath:
		return &Path{Geometry: Static(PathGeometry{})}, nil
	case ContentEllipse:
		return &Ellipse{Position: Static(Vector3{}), Diameter: Static(Vector3{})}, nil
	case ContentRectangle:
		return &Rectangle{Position: Static(Vector3{}), Size: Static(Vector3{}), CornerRadius: Static(0.0)}, nil
	case ContentMergePaths:
		return &MergePaths{Mode: MergeModeMerge}, nil
	case ContentRepeater:
		return &Repeater{
			Count:  Static(1.0),
			Offset: Static(0.0),
			Transform: RepeaterTransform{
				Transform:    DefaultTransform(),
				StartOpacity: Static(100.0),
				EndOpacity:   Static(100.0),
			},
		}, nil
	case ContentPolystar:
		return &Polystar{
			StarType:    PolystarStar,
			Points:      Static(5.0),
			Position:    Static(Vector3{}),
			Rotation:    Static(0.0),
			InnerRadius: Static(0.0),
			OuterRadius: Static(0.0),
		}, nil
	}
	return nil, fmt.Errorf("unknown shape content type %q", t)
}

func (sc ShapeContents) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, len(sc))
	for i, c := range sc {
		raw, err := withTypeTag(string(c.ContentType()), c)
		if err != nil {
			return nil, fmt.Errorf("content %d: %w", i, err)
		}
		items[i] = raw
	}
	return json.Marshal(items)
}

func (sc *ShapeContents) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(ShapeContents, 0, len(items))
	for i, raw := range items {
		ty, err := readTypeTag(raw)
		if err != nil {
			return fmt.Errorf("content %d: %w", i, err)
		}
		c, err := NewShapeContent(ShapeContentType(ty))
		if err != nil {
			return fmt.Errorf("content %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("content %d (%s): %w", i, ty, err)
		}
		out = append(out, c)
	}
	*sc = out
	return nil
}

// UnmarshalJSON decodes a mask, defaulting to an additive mask at full
// opacity.
func (m *Mask) UnmarshalJSON(data []byte) error {
	type plain Mask
	p := plain{Mode: MaskModeAdd, Opacity: Static(100.0), Points: Static(PathGeometry{})}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Mask(p)
	return nil
}

// Decode parses a composition from its JSON interchange form and validates
// it.
func Decode(data []byte) (*Composition, error) {
	var c Composition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode renders a composition in its JSON interchange form.
func Encode(c *Composition) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Validate checks the structural properties the translator relies on.
func (c *Composition) Validate() error {
	if c.OutPoint <= c.InPoint {
		return fmt.Errorf("composition %q: outPoint %v must be after inPoint %v", c.Name, c.OutPoint, c.InPoint)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("composition %q: size %vx%v must be positive", c.Name, c.Width, c.Height)
	}
	if err := validateLayers(c, c.Layers, "root"); err != nil {
		return err
	}
	for id, pc := range c.PreComps {
		if err := validateLayers(c, pc.Layers, "precomp "+id); err != nil {
			return err
		}
	}
	return nil
}

func validateLayers(c *Composition, layers LayerCollection, where string) error {
	seen := make(map[int]bool, len(layers))
	for _, l := range layers {
		b := l.Base()
		if seen[b.Index] {
			return fmt.Errorf("%s: duplicate layer index %d", where, b.Index)
		}
		seen[b.Index] = true
		if b.OutPoint < b.InPoint {
			return fmt.Errorf("%s: layer %q outPoint precedes inPoint", where, b.Name)
		}
	}
	for _, l := range layers {
		if p := l.Base().Parent; p != nil && !seen[*p] {
			return fmt.Errorf("%s: layer %q has unknown parent %d", where, l.Base().Name, *p)
		}
	}
	return nil
}
