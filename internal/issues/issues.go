// Package issues records the document features a translation could not
// reproduce faithfully.
package issues

import (
	"fmt"
	"strings"
)

// Code identifies one unsupported-feature condition.
type Code string

const (
	AnimatedRectangleWithTrimPath   Code = "LT0001"
	MultipliedAnimations            Code = "LT0002"
	BlendMode                       Code = "LT0003"
	GradientFill                    Code = "LT0004"
	GradientStroke                  Code = "LT0005"
	ImageAssets                     Code = "LT0006"
	ImageLayer                      Code = "LT0007"
	MergingTooManyPaths             Code = "LT0008"
	MultipleAnimatedRoundedCorners  Code = "LT0009"
	MultipleFills                   Code = "LT0010"
	MultipleStrokes                 Code = "LT0011"
	MultipleTrimPaths               Code = "LT0012"
	OpacityAndColorAnimatedTogether Code = "LT0013"
	PathWithRoundedCorners          Code = "LT0014"
	Polystar                        Code = "LT0015"
	Repeater                        Code = "LT0016"
	TextLayer                       Code = "LT0017"
	ThreeDContent                   Code = "LT0018"
	ThreeDLayer                     Code = "LT0019"
	TimeStretch                     Code = "LT0020"
	InvertedMask                    Code = "LT0021"
	MaskWithUnsupportedMode         Code = "LT0022"
	MaskWithAlpha                   Code = "LT0023"
	MultipleMasks                   Code = "LT0024"
	MergeWithDifferentFillRules     Code = "LT0025"
	MergingAnimatedPaths            Code = "LT0026"
)

var descriptions = map[Code]string{
	AnimatedRectangleWithTrimPath:   "Animated rectangle with a trim path is not supported.",
	MultipliedAnimations:            "Multiplication of two or more animated values is not supported.",
	BlendMode:                       "Blend mode other than normal is not supported.",
	GradientFill:                    "Gradient fill is not supported.",
	GradientStroke:                  "Gradient stroke is not supported.",
	ImageAssets:                     "Image assets are not supported.",
	ImageLayer:                      "Image layers are not supported.",
	MergingTooManyPaths:             "Merging more than 50 paths is not supported.",
	MultipleAnimatedRoundedCorners:  "Multiple animated rounded corners is not supported.",
	MultipleFills:                   "Multiple fills is not supported.",
	MultipleStrokes:                 "Multiple strokes is not supported.",
	MultipleTrimPaths:               "Multiple trim paths is not supported.",
	OpacityAndColorAnimatedTogether: "Opacity and color animated at the same time is not supported.",
	PathWithRoundedCorners:          "Path with rounded corners is not supported.",
	Polystar:                        "Polystar is not supported.",
	Repeater:                        "Repeater with animated count or a non-zero offset is not supported.",
	TextLayer:                       "Text layers are not supported.",
	ThreeDContent:                   "3D content is not supported.",
	ThreeDLayer:                     "3D layers are not supported.",
	TimeStretch:                     "Time stretch is not supported.",
	InvertedMask:                    "Inverted mask is not supported.",
	MaskWithUnsupportedMode:         "Mask mode other than add is not supported.",
	MaskWithAlpha:                   "Mask with opacity other than 100% is not supported.",
	MultipleMasks:                   "More than one mask is not supported.",
	MergeWithDifferentFillRules:     "Merging paths with different fill rules is not supported.",
	MergingAnimatedPaths:            "Merging animated paths is not supported.",
}

// Codes returns every known code in order.
func Codes() []Code {
	out := make([]Code, 0, len(descriptions))
	for i := 1; i <= len(descriptions); i++ {
		out = append(out, Code(fmt.Sprintf("LT%04d", i)))
	}
	return out
}

// Description is the fixed human-readable text of the code.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "Unknown issue."
}

// Issue is one recorded unsupported feature.
type Issue struct {
	Code        Code   `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

func (i Issue) String() string {
	return string(i.Code) + ": " + i.Description
}

// UnsupportedError is returned by a strict translation for the first
// unsupported feature it meets.
type UnsupportedError struct {
	Issue Issue
}

func (e *UnsupportedError) Error() string {
	return "unsupported feature " + e.Issue.String()
}

// Collector accumulates deduplicated issues in the order they are first
// reported. A strict collector panics with an *UnsupportedError instead;
// Recover turns that panic back into an error at the translation boundary.
type Collector struct {
	strict bool
	seen   map[Issue]bool
	list   []Issue
}

func NewCollector(strict bool) *Collector {
	return &Collector{strict: strict, seen: make(map[Issue]bool)}
}

// Report records the code with its standard description.
func (c *Collector) Report(code Code) {
	c.ReportDetail(code, code.Description())
}

// ReportDetail records the code with a specific description.
func (c *Collector) ReportDetail(code Code, description string) {
	issue := Issue{Code: code, Description: description}
	if c.strict {
		panic(&UnsupportedError{Issue: issue})
	}
	if c.seen[issue] {
		return
	}
	c.seen[issue] = true
	c.list = append(c.list, issue)
}

// Issues returns the recorded issues.
func (c *Collector) Issues() []Issue {
	out := make([]Issue, len(c.list))
	copy(out, c.list)
	return out
}

func (c *Collector) Len() int { return len(c.list) }

// Recover converts a strict-mode panic into *err. Other panics propagate.
// It must be deferred directly.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ue, ok := r.(*UnsupportedError); ok {
		*err = ue
		return
	}
	panic(r)
}

// Summary renders issues one per line.
func Summary(list []Issue) string {
	var b strings.Builder
	for _, i := range list {
		b.WriteString(i.String())
		b.WriteByte('\n')
	}
	return b.String()
}
