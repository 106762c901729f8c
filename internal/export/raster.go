// Package export rasterizes rendered frames to images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/lottiegen/internal/engine"
)

// Rasterize replays draw commands onto a width x height canvas, every
// coordinate multiplied by scale. The caller closes the returned context.
func Rasterize(commands []engine.DrawCommand, width, height int, scale float64) (*gg.Context, error) {
	dc := gg.NewContext(width, height)
	base := gg.Scale(scale, scale)

	for i, cmd := range commands {
		switch cmd.Op {
		case "save":
			dc.Push()
		case "restore":
			dc.Pop()
		case "clip":
			dc.SetTransform(base.Multiply(canvasMatrix(cmd.Transform)))
			if err := tracePath(dc, cmd.Path); err != nil {
				return nil, fmt.Errorf("command %d: %w", i, err)
			}
			dc.Clip()
		case "path":
			if err := paint(dc, base, cmd); err != nil {
				return nil, fmt.Errorf("command %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("command %d: unknown op %q", i, cmd.Op)
		}
	}
	dc.Identity()
	return dc, nil
}

func paint(dc *gg.Context, base gg.Matrix, cmd engine.DrawCommand) error {
	m := canvasMatrix(cmd.Transform)
	dc.SetTransform(base.Multiply(m))

	if cmd.Fill != "" {
		r, g, b, a, err := parseColor(cmd.Fill)
		if err != nil {
			return err
		}
		if err := tracePath(dc, cmd.Path); err != nil {
			return err
		}
		dc.SetRGBA(r, g, b, a*cmd.Opacity)
		if cmd.FillRule == "evenodd" {
			dc.SetFillRule(gg.FillRuleEvenOdd)
		} else {
			dc.SetFillRule(gg.FillRuleNonZero)
		}
		if err := dc.Fill(); err != nil {
			return err
		}
	}

	if cmd.Stroke != "" && cmd.StrokeWidth > 0 {
		r, g, b, a, err := parseColor(cmd.Stroke)
		if err != nil {
			return err
		}
		if err := tracePath(dc, cmd.Path); err != nil {
			return err
		}
		// Stroke widths are not transformed; scale them by the mean
		// axis scale instead.
		det := math.Abs(m.A*m.E-m.B*m.D) * base.A * base.E
		dc.SetLineWidth(cmd.StrokeWidth * math.Sqrt(det))
		dc.SetRGBA(r, g, b, a*cmd.Opacity)
		dc.SetLineCap(lineCap(cmd.LineCap))
		dc.SetLineJoin(lineJoin(cmd.LineJoin))
		if cmd.MiterLimit > 0 {
			dc.SetMiterLimit(cmd.MiterLimit)
		}
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// canvasMatrix converts a Canvas2D [a, b, c, d, e, f] transform.
func canvasMatrix(t []float64) gg.Matrix {
	if len(t) != 6 {
		return gg.Identity()
	}
	return gg.Matrix{
		A: t[0], B: t[2], C: t[4],
		D: t[1], E: t[3], F: t[5],
	}
}

func tracePath(dc *gg.Context, path []engine.PathCommand) error {
	dc.ClearPath()
	for _, seg := range path {
		if len(seg) == 0 {
			continue
		}
		op, _ := seg[0].(string)
		args := make([]float64, 0, len(seg)-1)
		for _, v := range seg[1:] {
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("path segment %v: non-numeric argument", seg)
			}
			args = append(args, f)
		}
		switch {
		case op == "M" && len(args) == 2:
			dc.MoveTo(args[0], args[1])
		case op == "L" && len(args) == 2:
			dc.LineTo(args[0], args[1])
		case op == "C" && len(args) == 6:
			dc.CubicTo(args[0], args[1], args[2], args[3], args[4], args[5])
		case op == "Z":
			dc.ClosePath()
		default:
			return fmt.Errorf("malformed path segment %v", seg)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// parseColor reads the "rgba(r,g,b,a)" colors of draw commands.
func parseColor(s string) (r, g, b, a float64, err error) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &ri, &gi, &bi, &a); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("color %q: %w", s, err)
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, a, nil
}

func lineCap(s string) gg.LineCap {
	switch s {
	case "round":
		return gg.LineCapRound
	case "square":
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

func lineJoin(s string) gg.LineJoin {
	switch s {
	case "round":
		return gg.LineJoinRound
	case "bevel":
		return gg.LineJoinBevel
	}
	return gg.LineJoinMiter
}
