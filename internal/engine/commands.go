package engine

import (
	"encoding/json"
)

// DrawCommand represents a single drawing operation for a Canvas2D client.
// A client receives a list of these and executes them in order.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "path", "save", "restore", "clip"
	ObjectID    int           `json:"objectId,omitempty"`    // scene node id, for hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // path data for "path" and "clip" ops
	FillRule    string        `json:"fillRule,omitempty"`    // "evenodd" or "nonzero"
	Fill        string        `json:"fill,omitempty"`        // fill color
	Stroke      string        `json:"stroke,omitempty"`      // stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // stroke width
	LineCap     string        `json:"lineCap,omitempty"`
	LineJoin    string        `json:"lineJoin,omitempty"`
	MiterLimit  float64       `json:"miterLimit,omitempty"`
	Opacity     float64       `json:"opacity,omitempty"` // global alpha
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front).
func CompileDrawCommands(sg *SceneGraph) []DrawCommand {
	if sg == nil || sg.Root == nil {
		return nil
	}

	var commands []DrawCommand
	compileNode(sg.Root, &commands)
	return commands
}

// compileNode recursively generates draw commands for a node and its children.
func compileNode(node *SceneNode, commands *[]DrawCommand) {
	if node == nil || !node.Visible {
		return
	}

	hasClip := node.ClipPath != nil
	if hasClip {
		*commands = append(*commands, DrawCommand{Op: "save"})
		if len(node.ClipPath.Path) > 0 {
			*commands = append(*commands, DrawCommand{
				Op:        "clip",
				Transform: node.WorldTransform.ToSlice(),
				Path:      node.ClipPath.Path,
			})
		}
	}

	if len(node.Path) > 0 {
		*commands = append(*commands, DrawCommand{
			Op:          "path",
			ObjectID:    node.ID,
			Transform:   node.WorldTransform.ToSlice(),
			Path:        node.Path,
			FillRule:    node.FillRule,
			Fill:        node.Fill,
			Stroke:      node.Stroke,
			StrokeWidth: node.StrokeWidth,
			LineCap:     node.LineCap,
			LineJoin:    node.LineJoin,
			MiterLimit:  node.MiterLimit,
			Opacity:     node.Opacity,
		})
	}

	for _, child := range node.Children {
		compileNode(child, commands)
	}

	if hasClip {
		*commands = append(*commands, DrawCommand{Op: "restore"})
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the id of the topmost painted node whose bounds contain
// the point, or 0.
func HitTest(sg *SceneGraph, x, y float64) int {
	if sg == nil || sg.Root == nil {
		return 0
	}
	return hitTestNode(sg.Root, x, y)
}

// hitTestNode tests children first, front to back, since they paint over
// their parent.
func hitTestNode(node *SceneNode, x, y float64) int {
	if node == nil || !node.Visible {
		return 0
	}

	for i := len(node.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(node.Children[i], x, y); hit != 0 {
			return hit
		}
	}

	if len(node.Path) > 0 && !node.Bounds.IsEmpty() && node.Bounds.Contains(x, y) {
		return node.ID
	}
	return 0
}

// Bounds returns the combined bounding box of the given nodes.
func Bounds(sg *SceneGraph, ids []int) Rect {
	if sg == nil {
		return Rect{}
	}

	var result Rect
	for _, id := range ids {
		node, ok := sg.NodesByID[id]
		if !ok || node.Bounds.IsEmpty() {
			continue
		}
		result = result.Union(node.Bounds)
	}
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}
