package engine

import "github.com/inamate/inamate/lottiegen/internal/scene"

// SceneGraph is the evaluated, render-ready state of a scene at one
// progress value.
type SceneGraph struct {
	Root      *SceneNode
	NodesByID map[int]*SceneNode
	Width     float64
	Height    float64
}

// SceneNode is a resolved visual or shape. All transforms are world
// transforms and all animated properties hold their current values.
type SceneNode struct {
	ID          int
	Kind        string
	Description string

	WorldTransform scene.Matrix3x2 // parent * local
	LocalTransform scene.Matrix3x2

	// Opacity is inherited: parent opacity times the node's own.
	Opacity float64
	Visible bool

	Parent   *SceneNode
	Children []*SceneNode

	// ClipPath is in the node's own coordinate space.
	ClipPath *SceneNode

	Path        []PathCommand
	FillRule    string
	Fill        string
	Stroke      string
	StrokeWidth float64
	LineCap     string
	LineJoin    string
	MiterLimit  float64

	// Bounds is the axis-aligned box of Path in world space.
	Bounds Rect
}

// PathCommand is one path segment in Canvas2D form: ["M", x, y],
// ["L", x, y], ["C", x1, y1, x2, y2, x, y] or ["Z"].
type PathCommand []any

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func newSceneGraph(width, height float64) *SceneGraph {
	return &SceneGraph{
		NodesByID: make(map[int]*SceneNode),
		Width:     width,
		Height:    height,
	}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}
