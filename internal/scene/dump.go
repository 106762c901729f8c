package scene

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/goccy/go-yaml"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
)

// DumpNode is the serializable structure of a scene node. Only properties
// that differ from their defaults are listed.
type DumpNode struct {
	ID          int             `json:"id" yaml:"id"`
	Kind        string          `json:"kind" yaml:"kind"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  []NamedValue    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Custom      []NamedValue    `json:"custom,omitempty" yaml:"custom,omitempty"`
	Animations  []DumpAnimation `json:"animations,omitempty" yaml:"animations,omitempty"`
	Clip        *DumpNode       `json:"clip,omitempty" yaml:"clip,omitempty"`
	Geometry    *DumpNode       `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Fill        *DumpNode       `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke      *DumpNode       `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Children    []*DumpNode     `json:"children,omitempty" yaml:"children,omitempty"`
}

type DumpAnimation struct {
	Property   string          `json:"property" yaml:"property"`
	Kind       string          `json:"kind" yaml:"kind"`
	Expression string          `json:"expression,omitempty" yaml:"expression,omitempty"`
	KeyFrames  []DumpKeyFrame  `json:"keyFrames,omitempty" yaml:"keyFrames,omitempty"`
	References map[string]int  `json:"references,omitempty" yaml:"references,omitempty"`
	Paused     bool            `json:"paused,omitempty" yaml:"paused,omitempty"`
	Controller []DumpAnimation `json:"controller,omitempty" yaml:"controller,omitempty"`
}

type DumpKeyFrame struct {
	Progress   float64 `json:"progress" yaml:"progress"`
	Value      any     `json:"value,omitempty" yaml:"value,omitempty"`
	Expression string  `json:"expression,omitempty" yaml:"expression,omitempty"`
	Easing     string  `json:"easing" yaml:"easing"`
}

// Dump returns the structure of the tree rooted at n.
func Dump(n Node) *DumpNode {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return nil
	}
	o := n.Base()
	d := &DumpNode{ID: o.id, Kind: n.Kind(), Description: o.description}
	defaults := defaultsFor(n)
	for _, nv := range IntrinsicProperties(n) {
		if def, ok := defaults[nv.Name]; ok && reflect.DeepEqual(def, nv.Value) {
			continue
		}
		d.Properties = append(d.Properties, nv)
	}
	for _, name := range o.properties.Names() {
		v, _ := o.properties.Get(name)
		d.Custom = append(d.Custom, NamedValue{name, v})
	}
	d.Animations = dumpAnimators(o.animators)

	switch n := n.(type) {
	case *ContainerVisual:
		d.Clip = dumpGeometry(n.Clip)
		for _, c := range n.Children {
			d.Children = append(d.Children, Dump(c))
		}
	case *ShapeVisual:
		d.Clip = dumpGeometry(n.Clip)
		for _, s := range n.Shapes {
			d.Children = append(d.Children, Dump(s))
		}
	case *ContainerShape:
		for _, s := range n.Shapes {
			d.Children = append(d.Children, Dump(s))
		}
	case *SpriteShape:
		d.Geometry = dumpGeometry(n.Geometry)
		if n.FillBrush != nil {
			d.Fill = Dump(n.FillBrush)
		}
		if n.StrokeBrush != nil {
			d.Stroke = Dump(n.StrokeBrush)
		}
	}
	return d
}

func dumpGeometry(g Geometry) *DumpNode {
	if g == nil {
		return nil
	}
	return Dump(g)
}

func dumpAnimators(animators []*Animator) []DumpAnimation {
	var out []DumpAnimation
	for _, an := range animators {
		da := dumpAnimation(an.Property, an.Animation)
		if an.Controller != nil {
			da.Paused = an.Controller.Paused
			da.Controller = dumpAnimators(an.Controller.animators)
		}
		out = append(out, da)
	}
	return out
}

func dumpAnimation(property string, a Animation) DumpAnimation {
	da := DumpAnimation{Property: property, Kind: a.Kind()}
	for _, rp := range a.ReferenceParameters() {
		if da.References == nil {
			da.References = make(map[string]int)
		}
		da.References[rp.Name] = rp.Node.Base().id
	}
	switch a := a.(type) {
	case *ExpressionAnimation:
		da.Expression = a.Expression.String()
	case *KeyFrameAnimation[float64]:
		da.KeyFrames = dumpKeyFrames(a.KeyFrames)
	case *KeyFrameAnimation[Vector2]:
		da.KeyFrames = dumpKeyFrames(a.KeyFrames)
	case *KeyFrameAnimation[Vector3]:
		da.KeyFrames = dumpKeyFrames(a.KeyFrames)
	case *KeyFrameAnimation[Color]:
		da.KeyFrames = dumpKeyFrames(a.KeyFrames)
	case *KeyFrameAnimation[Matrix3x2]:
		da.KeyFrames = dumpKeyFrames(a.KeyFrames)
	case *KeyFrameAnimation[*Path]:
		da.KeyFrames = dumpKeyFrames(a.KeyFrames)
	}
	return da
}

func dumpKeyFrames[T any](kfs []KeyFrame[T]) []DumpKeyFrame {
	out := make([]DumpKeyFrame, len(kfs))
	for i, kf := range kfs {
		out[i] = DumpKeyFrame{Progress: kf.Progress, Easing: EasingString(kf.Easing)}
		if kf.Expression != nil {
			out[i].Expression = kf.Expression.String()
		} else {
			out[i].Value = kf.Value
		}
	}
	return out
}

// EasingString is a compact description of an easing.
func EasingString(e Easing) string {
	switch e := e.(type) {
	case nil, *LinearEasing:
		return "linear"
	case *StepEasing:
		return fmt.Sprintf("step(%d)", e.StepCount)
	case *CubicBezierEasing:
		return fmt.Sprintf("cubicBezier(%s, %s, %s, %s)",
			expressions.FormatNumber(e.ControlPoint1.X), expressions.FormatNumber(e.ControlPoint1.Y),
			expressions.FormatNumber(e.ControlPoint2.X), expressions.FormatNumber(e.ControlPoint2.Y))
	}
	return e.Kind()
}

func defaultsFor(n Node) map[string]any {
	m := map[string]any{}
	for _, nv := range IntrinsicProperties(zeroNode(n)) {
		m[nv.Name] = nv.Value
	}
	return m
}

func zeroNode(n Node) Node {
	switch n.(type) {
	case *ContainerVisual:
		return &ContainerVisual{VisualProperties: defaultVisualProperties()}
	case *ShapeVisual:
		return &ShapeVisual{VisualProperties: defaultVisualProperties()}
	case *ContainerShape:
		return &ContainerShape{ShapeTransform: defaultShapeTransform()}
	case *SpriteShape:
		return &SpriteShape{ShapeTransform: defaultShapeTransform()}
	case *PathGeometry:
		return &PathGeometry{Trim: defaultTrim()}
	case *EllipseGeometry:
		return &EllipseGeometry{Trim: defaultTrim()}
	case *RectangleGeometry:
		return &RectangleGeometry{Trim: defaultTrim()}
	case *RoundedRectangleGeometry:
		return &RoundedRectangleGeometry{Trim: defaultTrim()}
	case *ColorBrush:
		return &ColorBrush{}
	}
	return nil
}

// MarshalJSON encodes the dump of the tree rooted at n.
func MarshalJSON(n Node) ([]byte, error) {
	return json.MarshalIndent(Dump(n), "", "  ")
}

// MarshalYAML encodes the dump of the tree rooted at n.
func MarshalYAML(n Node) ([]byte, error) {
	return yaml.Marshal(Dump(n))
}
