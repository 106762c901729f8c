// Package pathcombine combines path geometries, either structurally
// (concatenating figures) or with boolean operations.
package pathcombine

import (
	"log/slog"

	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
)

// Mode is how paths are combined.
type Mode int

const (
	// Merge concatenates figures without changing them.
	Merge Mode = iota
	// Add is the union of the paths.
	Add
	// Subtract removes every following path from the first.
	Subtract
	Intersect
	// ExcludeIntersections is the symmetric difference.
	ExcludeIntersections
)

func (m Mode) String() string {
	switch m {
	case Merge:
		return "merge"
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Intersect:
		return "intersect"
	case ExcludeIntersections:
		return "excludeIntersections"
	}
	return "unknown"
}

// MaxKernelInputs bounds the number of paths given to a Kernel in one
// combination.
const MaxKernelInputs = 50

// Kernel computes boolean combinations of two paths.
type Kernel interface {
	Combine(mode Mode, a, b *scene.Path) *scene.Path
}

// Combiner combines paths and reports what it cannot do faithfully.
type Combiner struct {
	kernel Kernel
	issues *issues.Collector
	logger *slog.Logger
}

func NewCombiner(kernel Kernel, collector *issues.Collector, logger *slog.Logger) *Combiner {
	if kernel == nil {
		kernel = NewPolygonKernel(DefaultTolerance)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Combiner{kernel: kernel, issues: collector, logger: logger}
}

// Combine returns the combination of paths. It returns nil for no paths and
// the path itself for one.
func (c *Combiner) Combine(mode Mode, paths ...*scene.Path) *scene.Path {
	switch len(paths) {
	case 0:
		return nil
	case 1:
		return paths[0]
	}

	if mode == Merge {
		rule := paths[0].FillRule
		for _, p := range paths[1:] {
			if p.FillRule != rule {
				c.issues.Report(issues.MergeWithDifferentFillRules)
				break
			}
		}
		b := scene.NewPathBuilder(rule)
		for _, p := range paths {
			b.AddFigures(p.Figures...)
		}
		return b.Path()
	}

	if len(paths) > MaxKernelInputs {
		c.logger.Debug("truncate path combination", "mode", mode, "paths", len(paths))
		c.issues.Report(issues.MergingTooManyPaths)
		paths = paths[:MaxKernelInputs]
	}
	acc := paths[0]
	for _, p := range paths[1:] {
		acc = c.kernel.Combine(mode, acc, p)
	}
	return acc
}
