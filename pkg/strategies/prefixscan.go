/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: prefixscan.go
Description: Prefix scan strategy for the tablesynth engine. Matches global
cumulative sums, running maxima and minima, the plain row count, and predicate
counting, accepting only near-identity linear fits against the scanned sequence.
*/

package strategies

import (
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// PrefixScanStrategy matches cumulative scans over a single source column
type PrefixScanStrategy struct{}

// NewPrefixScanStrategy creates a new prefix scan strategy
func NewPrefixScanStrategy() *PrefixScanStrategy { return &PrefixScanStrategy{} }

// Name returns the name of this strategy
func (s *PrefixScanStrategy) Name() string { return "PrefixScanStrategy" }

// Description returns a description of this strategy
func (s *PrefixScanStrategy) Description() string {
	return "Matches global cumulative sums, running maxima/minima, row counts, and equality-predicate counts"
}

// Attempt scans every fully numeric column for cumulative sum, max, and min,
// then falls back to the plain row count and equality-predicate counting
func (s *PrefixScanStrategy) Attempt(ctx *Context) *plan.Transform {
	for _, col := range ctx.InputCols {
		nums, ok := numericColumn(ctx.InputRows, col)
		if !ok {
			continue
		}

		running := 0.0
		sums := make([]float64, len(nums))
		for i, v := range nums {
			running += v
			sums[i] = running
		}
		if a, b, ok := matchIdentitySequence(sums, ctx.Outputs); ok {
			return &plan.Transform{Type: plan.TransformPrefixAgg, Source: col, Op: "sum", A: a, B: b}
		}

		maxes := make([]float64, len(nums))
		for i, v := range nums {
			if i == 0 || v > maxes[i-1] {
				maxes[i] = v
			} else {
				maxes[i] = maxes[i-1]
			}
		}
		if a, b, ok := matchIdentitySequence(maxes, ctx.Outputs); ok {
			return &plan.Transform{Type: plan.TransformPrefixAgg, Source: col, Op: "max", A: a, B: b}
		}

		mins := make([]float64, len(nums))
		for i, v := range nums {
			if i == 0 || v < mins[i-1] {
				mins[i] = v
			} else {
				mins[i] = mins[i-1]
			}
		}
		if a, b, ok := matchIdentitySequence(mins, ctx.Outputs); ok {
			return &plan.Transform{Type: plan.TransformPrefixAgg, Source: col, Op: "min", A: a, B: b}
		}
	}

	counts := make([]float64, len(ctx.Outputs))
	for i := range counts {
		counts[i] = float64(i + 1)
	}
	if a, b, ok := matchIdentitySequence(counts, ctx.Outputs); ok {
		return &plan.Transform{Type: plan.TransformPrefixAgg, Op: "count", A: a, B: b}
	}

	for _, col := range ctx.InputCols {
		values := make([]table.Value, len(ctx.InputRows))
		for i, row := range ctx.InputRows {
			values[i] = row.Get(col)
		}
		uniques := table.DistinctValues(values)
		if len(uniques) > 4 {
			uniques = uniques[:4]
		}
		for _, target := range uniques {
			running := 0.0
			predCounts := make([]float64, len(values))
			for i, v := range values {
				if table.Equal(v, target) {
					running++
				}
				predCounts[i] = running
			}
			if a, b, ok := matchIdentitySequence(predCounts, ctx.Outputs); ok {
				return &plan.Transform{
					Type:      plan.TransformPrefixAgg,
					Source:    col,
					Op:        "count",
					A:         a,
					B:         b,
					Predicate: &plan.Condition{Column: col, Op: "==", Value: target},
				}
			}
		}
	}
	return nil
}

// numericColumn coerces every cell in col to a number; ok is false when any
// cell refuses
func numericColumn(rows []table.Row, col string) ([]float64, bool) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		n, ok := row.Get(col).AsNumber()
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
