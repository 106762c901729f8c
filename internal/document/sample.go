package document

// NewSampleComposition returns a small two-second animation: a red square
// sliding across a dark background and a spinning ring whose stroke is
// trimmed in and out. It exercises most of the supported features and is
// served by the preview endpoints when no document is supplied.
func NewSampleComposition() *Composition {
	ease := CubicBezierEasing(0.33, 0, 0.67, 1)

	background := &SolidLayer{
		LayerBase: newLayerBase(),
		Width:     512,
		Height:    512,
		Color:     ColorFromRGB(0.1, 0.1, 0.18),
	}
	background.Name = "Background"
	background.Index = 3
	background.OutPoint = 48

	square := &ShapeLayer{LayerBase: newLayerBase()}
	square.Name = "Square"
	square.Index = 2
	square.OutPoint = 48
	square.Transform.Position = Animated(
		Keyframe[Vector3]{Frame: 0, Value: Vec3(96, 256, 0), Easing: ease},
		Keyframe[Vector3]{Frame: 24, Value: Vec3(416, 256, 0), Easing: ease},
		Keyframe[Vector3]{Frame: 48, Value: Vec3(96, 256, 0)},
	)
	square.Contents = ShapeContents{
		&Rectangle{
			ShapeCommon:  ShapeCommon{Name: "Box"},
			Position:     Static(Vector3{}),
			Size:         Static(Vec3(64, 64, 0)),
			CornerRadius: Static(8.0),
		},
		&SolidColorFill{
			ShapeCommon: ShapeCommon{Name: "Red"},
			FillRule:    FillRuleNonZero,
			Color:       Static(Red),
			Opacity:     Static(100.0),
		},
	}

	ring := &ShapeLayer{LayerBase: newLayerBase()}
	ring.Name = "Ring"
	ring.Index = 1
	ring.InPoint = 6
	ring.OutPoint = 42
	ring.Transform.Position = Static(Vec3(256, 256, 0))
	ring.Transform.Rotation = Animated(
		Keyframe[float64]{Frame: 6, Value: 0},
		Keyframe[float64]{Frame: 42, Value: 360},
	)
	ring.Contents = ShapeContents{
		&ShapeGroup{
			ShapeCommon: ShapeCommon{Name: "Arc"},
			Contents: ShapeContents{
				&Ellipse{
					Position: Static(Vector3{}),
					Diameter: Static(Vec3(160, 160, 0)),
				},
				&SolidColorStroke{
					Color:      Static(White),
					Opacity:    Static(100.0),
					Thickness:  Static(12.0),
					LineCap:    LineCapRound,
					LineJoin:   LineJoinRound,
					MiterLimit: 4,
				},
				&TrimPath{
					Start: Static(0.0),
					End: Animated(
						Keyframe[float64]{Frame: 6, Value: 0, Easing: ease},
						Keyframe[float64]{Frame: 24, Value: 100, Easing: ease},
						Keyframe[float64]{Frame: 42, Value: 0},
					),
					Offset: Static(0.0),
				},
				&ShapeTransform{Transform: DefaultTransform()},
			},
		},
	}

	return &Composition{
		Name:            "Sample",
		Width:           512,
		Height:          512,
		InPoint:         0,
		OutPoint:        48,
		FramesPerSecond: 24,
		Layers:          LayerCollection{ring, square, background},
	}
}
