package document

import (
	"encoding/json"
	"fmt"
)

// EasingType selects the interpolation between two keyframes.
type EasingType string

const (
	EasingLinear      EasingType = "linear"
	EasingHold        EasingType = "hold"
	EasingCubicBezier EasingType = "cubicBezier"
)

// Easing describes how a value moves from one keyframe to the next. The
// control points of a cubic bezier easing are normalized: X is time and Y is
// progress, both usually in 0..1.
type Easing struct {
	Type          EasingType `json:"type,omitempty"`
	ControlPoint1 Vector2    `json:"cp1,omitempty"`
	ControlPoint2 Vector2    `json:"cp2,omitempty"`
}

var (
	LinearEasing = Easing{Type: EasingLinear}
	HoldEasing   = Easing{Type: EasingHold}
)

// CubicBezierEasing returns a cubic bezier easing.
func CubicBezierEasing(x1, y1, x2, y2 float64) Easing {
	return Easing{Type: EasingCubicBezier, ControlPoint1: Vec2(x1, y1), ControlPoint2: Vec2(x2, y2)}
}

// Kind returns the easing type, treating the zero value as linear.
func (e Easing) Kind() EasingType {
	if e.Type == "" {
		return EasingLinear
	}
	return e.Type
}

// Overshoots reports whether the easing can produce progress outside 0..1.
func (e Easing) Overshoots() bool {
	if e.Kind() != EasingCubicBezier {
		return false
	}
	out := func(y float64) bool { return y < 0 || y > 1 }
	return out(e.ControlPoint1.Y) || out(e.ControlPoint2.Y)
}

// Keyframe is one control point of an animated property. Easing and the
// spatial tangents describe the segment that starts at this keyframe and ends
// at the next one. The spatial tangents are only meaningful for position-like
// Vector3 values: SpatialOutTangent is relative to this keyframe's value and
// SpatialInTangent is relative to the next keyframe's value.
type Keyframe[T any] struct {
	Frame             float64 `json:"frame"`
	Value             T       `json:"value"`
	Easing            Easing  `json:"easing,omitempty"`
	SpatialOutTangent Vector3 `json:"spatialOut,omitempty"`
	SpatialInTangent  Vector3 `json:"spatialIn,omitempty"`
}

// HasSpatialTangents reports whether the segment starting at this keyframe
// follows a curved path through space.
func (k Keyframe[T]) HasSpatialTangents() bool {
	return !k.SpatialOutTangent.IsZero() || !k.SpatialInTangent.IsZero()
}

// Animatable is a property value that is either constant or keyframed.
// Keyframes are ordered by frame.
type Animatable[T any] struct {
	InitialValue T
	Keyframes    []Keyframe[T]
}

// Static returns a non-animated value.
func Static[T any](v T) Animatable[T] {
	return Animatable[T]{InitialValue: v}
}

// Animated returns a keyframed value. The initial value is the first
// keyframe's value.
func Animated[T any](keyframes ...Keyframe[T]) Animatable[T] {
	if len(keyframes) == 0 {
		panic("document: Animated requires at least one keyframe")
	}
	return Animatable[T]{InitialValue: keyframes[0].Value, Keyframes: keyframes}
}

// IsAnimated reports whether the value has more than one keyframe.
func (a Animatable[T]) IsAnimated() bool {
	return len(a.Keyframes) > 1
}

// Map converts every value of an animatable, keeping frames and easings.
func Map[T, U any](a Animatable[T], f func(T) U) Animatable[U] {
	out := Animatable[U]{InitialValue: f(a.InitialValue)}
	if len(a.Keyframes) == 0 {
		return out
	}
	out.Keyframes = make([]Keyframe[U], len(a.Keyframes))
	for i, kf := range a.Keyframes {
		out.Keyframes[i] = Keyframe[U]{
			Frame:             kf.Frame,
			Value:             f(kf.Value),
			Easing:            kf.Easing,
			SpatialOutTangent: kf.SpatialOutTangent,
			SpatialInTangent:  kf.SpatialInTangent,
		}
	}
	return out
}

// Scaled multiplies every value of a scalar animatable by m.
func Scaled(a Animatable[float64], m float64) Animatable[float64] {
	return Map(a, func(v float64) float64 { return v * m })
}

// Always reports whether pred holds for the initial value and every keyframe
// value. Values between keyframes are not inspected.
func Always[T any](a Animatable[T], pred func(T) bool) bool {
	if !pred(a.InitialValue) {
		return false
	}
	for _, kf := range a.Keyframes {
		if !pred(kf.Value) {
			return false
		}
	}
	return true
}

type animatableJSON[T any] struct {
	Value     *T            `json:"value,omitempty"`
	Keyframes []Keyframe[T] `json:"keyframes,omitempty"`
}

func (a Animatable[T]) MarshalJSON() ([]byte, error) {
	if len(a.Keyframes) > 0 {
		return json.Marshal(animatableJSON[T]{Keyframes: a.Keyframes})
	}
	v := a.InitialValue
	return json.Marshal(animatableJSON[T]{Value: &v})
}

func (a *Animatable[T]) UnmarshalJSON(data []byte) error {
	var raw animatableJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case len(raw.Keyframes) > 0:
		for i := 1; i < len(raw.Keyframes); i++ {
			if raw.Keyframes[i].Frame < raw.Keyframes[i-1].Frame {
				return fmt.Errorf("keyframe %d at frame %v precedes frame %v", i, raw.Keyframes[i].Frame, raw.Keyframes[i-1].Frame)
			}
		}
		*a = Animated(raw.Keyframes...)
	case raw.Value != nil:
		*a = Static(*raw.Value)
	}
	return nil
}
