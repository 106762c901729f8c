package scene

// Visual is a node of the visual tree.
type Visual interface {
	Node
	Visual() *VisualProperties
}

// VisualProperties are the transform, opacity, size and clip shared by all
// visuals. The local transform is
// Translate(Offset) * TransformMatrix * Translate(CenterPoint) * Rotate * Scale * Translate(-CenterPoint).
type VisualProperties struct {
	CenterPoint            Vector2
	Offset                 Vector2
	Scale                  Vector2
	RotationAngleInDegrees float64
	TransformMatrix        Matrix3x2
	Opacity                float64
	Size                   Vector2
	// Clip restricts drawing to the inside of a geometry in the visual's
	// coordinate space.
	Clip Geometry
}

func (v *VisualProperties) Visual() *VisualProperties { return v }

func defaultVisualProperties() VisualProperties {
	return VisualProperties{Scale: Vector2{X: 1, Y: 1}, TransformMatrix: Identity(), Opacity: 1}
}

type ContainerVisual struct {
	Object
	VisualProperties
	Children []Visual
}

func (*ContainerVisual) Kind() string { return "ContainerVisual" }

// ShapeVisual hosts a tree of shapes.
type ShapeVisual struct {
	Object
	VisualProperties
	Shapes []Shape
}

func (*ShapeVisual) Kind() string { return "ShapeVisual" }
