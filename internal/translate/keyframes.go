package translate

import (
	"math"
	"reflect"
	"time"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/expressions"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// epsilon separates an expression keyframe from the keyframe that freezes
// its final value.
const epsilon = 1e-7

// trimmed is the part of a keyframe list that affects a time window.
type trimmed[T any] struct {
	keyframes []document.Keyframe[T]
	// value is the constant value when keyframes is nil.
	value T
}

// trimToWindow keeps the keyframes from the last one at or before start to
// the first one at or after end. Fewer than two keyframes, or keyframes that
// never change value, make the value constant over the window.
func trimToWindow[T any](a document.Animatable[T], start, end float64) trimmed[T] {
	kfs := a.Keyframes
	if len(kfs) == 0 {
		return trimmed[T]{value: a.InitialValue}
	}
	first := 0
	for i, kf := range kfs {
		if kf.Frame <= start {
			first = i
		}
	}
	last := len(kfs) - 1
	for i := len(kfs) - 1; i >= first; i-- {
		if kfs[i].Frame >= end {
			last = i
		}
	}
	kfs = kfs[first : last+1]
	if len(kfs) < 2 {
		return trimmed[T]{value: kfs[0].Value}
	}
	for i, kf := range kfs {
		if kf.HasSpatialTangents() && i < len(kfs)-1 {
			return trimmed[T]{keyframes: kfs}
		}
		if !reflect.DeepEqual(kf.Value, kfs[0].Value) {
			return trimmed[T]{keyframes: kfs}
		}
	}
	return trimmed[T]{value: kfs[0].Value}
}

// animationDuration is the play time of frames at the context's frame rate.
func (ctx *translationContext) animationDuration(frames float64) time.Duration {
	if ctx.fps <= 0 {
		return 0
	}
	return time.Duration(frames / ctx.fps * float64(time.Second))
}

// timing is the mapping of an animation's keyframes onto root progress.
type timing struct {
	start, duration float64
	scale, offset   float64
	holdAtStart     bool
}

func (ctx *translationContext) timingOf(first, last float64) timing {
	t := timing{start: first}
	if first > ctx.start {
		t.start = ctx.start
		t.holdAtStart = true
	}
	end := max(last, ctx.end())
	t.duration = end - t.start
	t.scale = math.Min(ctx.duration/t.duration, 1)
	t.offset = (ctx.start - t.start) / t.duration
	return t
}

func (t timing) progress(frame float64) float64 {
	return clamp01((frame - t.start) / t.duration)
}

// animate binds property of target to a, expressed in the target's value
// type. It returns the value to assign directly and false when a does not
// vary over the context's window.
func animate[T any](tr *translator, ctx *translationContext, target scene.Node, property string, a document.Animatable[T]) (T, bool) {
	tw := trimToWindow(a, ctx.start, ctx.end())
	if tw.keyframes == nil {
		return tw.value, false
	}
	kfs := tw.keyframes
	tm := ctx.timingOf(kfs[0].Frame, kfs[len(kfs)-1].Frame)
	anim := scene.NewKeyFrameAnimation[T](tr.c, ctx.animationDuration(tm.duration))

	if tm.holdAtStart {
		anim.InsertKeyFrame(0, kfs[0].Value, tr.holdThenStep())
	}

	prevProgress := 0.0
	prevWasExpression := false
	for i, kf := range kfs {
		p := tm.progress(kf.Frame)
		if i == 0 {
			anim.InsertKeyFrame(p, kf.Value, tr.holdThenStep())
			prevProgress = p
			continue
		}
		prev := kfs[i-1]
		easing := tr.easing(prev.Easing)

		if prevWasExpression && p > prevProgress+epsilon {
			anim.InsertKeyFrame(prevProgress+epsilon, prev.Value, tr.holdThenStep())
		}
		prevWasExpression = false

		if prev.HasSpatialTangents() && prev.Easing.Kind() != document.EasingHold {
			if e := tr.spatialSegment(anim.Duration, tm, prev, kf, prevProgress, p); e != nil {
				anim.InsertExpressionKeyFrame(p, e, tr.linearEasing())
				anim.SetReferenceParameter("root", tr.root)
				prevWasExpression = true
				prevProgress = p
				continue
			}
		}
		anim.InsertKeyFrame(p, kf.Value, easing)
		prevProgress = p
	}

	target.Base().StartAnimation(property, anim)
	tr.bindToProgress(target, property, tm.scale, tm.offset)
	var zero T
	return zero, true
}

// spatialSegment returns the expression of a curved motion segment, or nil
// when the segment can be a plain keyframe.
func (tr *translator) spatialSegment(duration time.Duration, tm timing, from, to any, start, end float64) *expressions.Expr {
	var p0, p3 document.Vector2
	var out, in document.Vector3
	var easing document.Easing
	switch from := from.(type) {
	case document.Keyframe[document.Vector2]:
		to := to.(document.Keyframe[document.Vector2])
		p0, p3 = from.Value, to.Value
		out, in, easing = from.SpatialOutTangent, from.SpatialInTangent, from.Easing
	default:
		tr.logger.Debug("ignore spatial tangents on non-vector value", "type", reflect.TypeOf(from).String())
		return nil
	}
	cb := expressions.CubicBezier2{
		P0: p0,
		P1: p0.Add(out.Vector2()),
		P2: p3.Add(in.Vector2()),
		P3: p3,
	}
	if cb.IsEquivalentToLinear() || end == 0 {
		return nil
	}
	t := tr.progressDriver(duration, start, end, easing, tm.scale, tm.offset)
	return cb.Expression(t)
}

// setOrAnimate assigns the constant value of a to *field or animates the
// property.
func setOrAnimate[T any](tr *translator, ctx *translationContext, target scene.Node, property string, a document.Animatable[T], field *T) {
	if v, animated := animate(tr, ctx, target, property, a); !animated {
		*field = v
	}
}

// valueAt is the value of a at frame, ignoring easing.
func valueAt[T any](a document.Animatable[T], frame float64) T {
	kfs := a.Keyframes
	if len(kfs) == 0 {
		return a.InitialValue
	}
	v := kfs[0].Value
	for _, kf := range kfs {
		if kf.Frame <= frame {
			v = kf.Value
		}
	}
	return v
}
