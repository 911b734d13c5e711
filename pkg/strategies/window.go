/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: window.go
Description: Window strategies for the tablesynth engine. Covers centered window
aggregations over partitions, source columns, and bounded before/after radii,
and the simpler trailing-window sum, mean, and equality-count fallback.
*/

package strategies

import (
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// CenteredWindowStrategy matches centered window aggregations with explicit
// before/after radii
type CenteredWindowStrategy struct{}

// NewCenteredWindowStrategy creates a new centered window strategy
func NewCenteredWindowStrategy() *CenteredWindowStrategy { return &CenteredWindowStrategy{} }

// Name returns the name of this strategy
func (s *CenteredWindowStrategy) Name() string { return "CenteredWindowStrategy" }

// Description returns a description of this strategy
func (s *CenteredWindowStrategy) Description() string {
	return "Matches centered window sum, mean, and median over partitions and bounded before/after radii"
}

// Attempt tries sum and mean over every partition, source, and radius pair
// before any median. Radii are capped at 8 to bound the search.
func (s *CenteredWindowStrategy) Attempt(ctx *Context) *plan.Transform {
	maxRadius := len(ctx.Outputs)
	if maxRadius < 1 {
		maxRadius = 1
	}
	if maxRadius > 8 {
		maxRadius = 8
	}
	parts := ctx.partitions()

	for _, ops := range [][]string{{"sum", "mean"}, {"median"}} {
		for _, part := range parts {
			for _, col := range ctx.InputCols {
				if !columnHasNumbers(ctx.InputRows, col) {
					continue
				}
				for before := 0; before <= maxRadius; before++ {
					for after := 0; after <= maxRadius; after++ {
						if before == 0 && after == 0 {
							continue
						}
						for _, op := range ops {
							t := &plan.Transform{
								Type:      plan.TransformWindow,
								Partition: part,
								Source:    col,
								Op:        op,
								Centered:  true,
								Before:    before,
								After:     after,
								Window:    before + after + 1,
								A:         1.0,
							}
							if ctx.Matches(t) {
								return t
							}
						}
					}
				}
			}
		}
	}
	return nil
}

// TrailingWindowStrategy matches trailing window aggregations ending at the
// current row
type TrailingWindowStrategy struct{}

// NewTrailingWindowStrategy creates a new trailing window strategy
func NewTrailingWindowStrategy() *TrailingWindowStrategy { return &TrailingWindowStrategy{} }

// Name returns the name of this strategy
func (s *TrailingWindowStrategy) Name() string { return "TrailingWindowStrategy" }

// Description returns a description of this strategy
func (s *TrailingWindowStrategy) Description() string {
	return "Matches trailing window sums, means, and equality counts with window sizes up to 64"
}

// Attempt scans window sizes per column, accepting only near-identity linear
// fits against the windowed sequence. Non-numeric cells contribute zero.
func (s *TrailingWindowStrategy) Attempt(ctx *Context) *plan.Transform {
	maxWindow := len(ctx.Outputs) - 1
	if maxWindow < 1 {
		maxWindow = 1
	}
	if maxWindow > 64 {
		maxWindow = 64
	}

	for _, col := range ctx.InputCols {
		if !columnHasNumbers(ctx.InputRows, col) {
			continue
		}
		values := make([]float64, len(ctx.InputRows))
		for i, row := range ctx.InputRows {
			values[i], _ = row.Get(col).AsNumber()
		}

		for window := 1; window <= maxWindow; window++ {
			sums := make([]float64, len(values))
			running := 0.0
			for i, v := range values {
				running += v
				if i >= window {
					running -= values[i-window]
				}
				sums[i] = running
			}
			if a, b, ok := matchIdentitySequence(sums, ctx.Outputs); ok {
				return &plan.Transform{
					Type:   plan.TransformWindow,
					Source: col,
					Op:     "sum",
					Window: window,
					A:      a,
					B:      b,
				}
			}

			means := make([]float64, len(sums))
			for i := range sums {
				n := i + 1
				if n > window {
					n = window
				}
				means[i] = sums[i] / float64(n)
			}
			if a, b, ok := matchIdentitySequence(means, ctx.Outputs); ok {
				return &plan.Transform{
					Type:   plan.TransformWindow,
					Source: col,
					Op:     "mean",
					Window: window,
					A:      a,
					B:      b,
				}
			}
		}

		raw := make([]table.Value, len(ctx.InputRows))
		for i, row := range ctx.InputRows {
			raw[i] = row.Get(col)
		}
		targets := table.DistinctValues(raw)
		if len(targets) > 3 {
			targets = targets[:3]
		}
		for window := 1; window <= maxWindow; window++ {
			for _, target := range targets {
				counts := make([]float64, len(raw))
				for i := range raw {
					start := i - window + 1
					if start < 0 {
						start = 0
					}
					matches := 0
					for j := start; j <= i; j++ {
						if table.Equal(raw[j], target) {
							matches++
						}
					}
					counts[i] = float64(matches)
				}
				if a, b, ok := matchIdentitySequence(counts, ctx.Outputs); ok {
					return &plan.Transform{
						Type:      plan.TransformWindow,
						Source:    col,
						Op:        "count",
						Window:    window,
						A:         a,
						B:         b,
						Predicate: &plan.Condition{Column: col, Op: "==", Value: target},
					}
				}
			}
		}
	}
	return nil
}
