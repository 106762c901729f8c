package scene

// NamedValue is a property name and its current value.
type NamedValue struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// IntrinsicProperties lists the animatable built-in properties of a node
// with their current values.
func IntrinsicProperties(n Node) []NamedValue {
	var out []NamedValue
	add := func(name string, v any) { out = append(out, NamedValue{name, v}) }
	visual := func(v *VisualProperties) {
		add("CenterPoint", v.CenterPoint)
		add("Offset", v.Offset)
		add("Scale", v.Scale)
		add("RotationAngleInDegrees", v.RotationAngleInDegrees)
		add("TransformMatrix", v.TransformMatrix)
		add("Opacity", v.Opacity)
		add("Size", v.Size)
	}
	shape := func(t *ShapeTransform) {
		add("CenterPoint", t.CenterPoint)
		add("Offset", t.Offset)
		add("Scale", t.Scale)
		add("RotationAngleInDegrees", t.RotationAngleInDegrees)
		add("TransformMatrix", t.TransformMatrix)
	}
	trim := func(t *Trim) {
		add("TrimStart", t.TrimStart)
		add("TrimEnd", t.TrimEnd)
		add("TrimOffset", t.TrimOffset)
	}
	switch n := n.(type) {
	case *ContainerVisual:
		visual(&n.VisualProperties)
	case *ShapeVisual:
		visual(&n.VisualProperties)
	case *ContainerShape:
		shape(&n.ShapeTransform)
	case *SpriteShape:
		shape(&n.ShapeTransform)
		add("StrokeThickness", n.StrokeThickness)
	case *ColorBrush:
		add("Color", n.Color)
	case *PathGeometry:
		add("Path", n.Path)
		trim(&n.Trim)
	case *EllipseGeometry:
		add("Center", n.Center)
		add("Radius", n.Radius)
		trim(&n.Trim)
	case *RectangleGeometry:
		add("Offset", n.Offset)
		add("Size", n.Size)
		trim(&n.Trim)
	case *RoundedRectangleGeometry:
		add("Offset", n.Offset)
		add("Size", n.Size)
		add("CornerRadius", n.CornerRadius)
		trim(&n.Trim)
	case *AnimationController:
		add("Progress", 0.0)
	}
	return out
}

// Property returns the current value of a custom or built-in property.
// Custom properties shadow built-in ones.
func Property(n Node, name string) (any, bool) {
	if v, ok := n.Base().properties.Get(name); ok {
		return v, true
	}
	for _, nv := range IntrinsicProperties(n) {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return nil, false
}
