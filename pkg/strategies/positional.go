/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: positional.go
Description: Positional strategies for the tablesynth engine. Covers partitioned
row-number counters (forward and reverse), rank and dense-rank over an order-by
column, and partition-aware prefix aggregations.
*/

package strategies

import "github.com/kleascm/tablesynth/pkg/plan"

// RowNumberStrategy matches 1-based positional counters per partition
type RowNumberStrategy struct{}

// NewRowNumberStrategy creates a new row number strategy
func NewRowNumberStrategy() *RowNumberStrategy { return &RowNumberStrategy{} }

// Name returns the name of this strategy
func (s *RowNumberStrategy) Name() string { return "RowNumberStrategy" }

// Description returns a description of this strategy
func (s *RowNumberStrategy) Description() string {
	return "Matches partitioned row-number counters, forward counting before reverse"
}

// Attempt tries every candidate partition forward first, then every candidate
// partition in reverse
func (s *RowNumberStrategy) Attempt(ctx *Context) *plan.Transform {
	parts := ctx.partitions()
	for _, reverse := range []bool{false, true} {
		for _, part := range parts {
			t := &plan.Transform{Type: plan.TransformRowNumber, Partition: part, Reverse: reverse}
			if ctx.Matches(t) {
				return t
			}
		}
	}
	return nil
}

// RankStrategy matches rank and dense-rank over an order-by column per
// partition
type RankStrategy struct{}

// NewRankStrategy creates a new rank strategy
func NewRankStrategy() *RankStrategy { return &RankStrategy{} }

// Name returns the name of this strategy
func (s *RankStrategy) Name() string { return "RankStrategy" }

// Description returns a description of this strategy
func (s *RankStrategy) Description() string {
	return "Matches rank and dense-rank per partition and order-by column, descending tried before ascending"
}

// Attempt tries plain rank over every (partition, column, direction) before
// any dense-rank
func (s *RankStrategy) Attempt(ctx *Context) *plan.Transform {
	parts := ctx.partitions()
	for _, tt := range []plan.TransformType{plan.TransformRank, plan.TransformDenseRank} {
		for _, part := range parts {
			for _, col := range ctx.InputCols {
				for _, ascending := range []bool{false, true} {
					t := &plan.Transform{
						Type:      tt,
						Partition: part,
						OrderBy:   col,
						Ascending: ascending,
					}
					if ctx.Matches(t) {
						return t
					}
				}
			}
		}
	}
	return nil
}

// PrefixAggStrategy matches partition-aware prefix aggregations: running
// counts and per-column running sum, max, and min
type PrefixAggStrategy struct{}

// NewPrefixAggStrategy creates a new prefix aggregation strategy
func NewPrefixAggStrategy() *PrefixAggStrategy { return &PrefixAggStrategy{} }

// Name returns the name of this strategy
func (s *PrefixAggStrategy) Name() string { return "PrefixAggStrategy" }

// Description returns a description of this strategy
func (s *PrefixAggStrategy) Description() string {
	return "Matches partitioned running counts, sums, maxima, and minima"
}

// Attempt tries running count and sum over every partition before running max
// and min
func (s *PrefixAggStrategy) Attempt(ctx *Context) *plan.Transform {
	parts := ctx.partitions()
	for _, part := range parts {
		t := &plan.Transform{
			Type:      plan.TransformPrefixAgg,
			Partition: part,
			Op:        "count",
			A:         1.0,
		}
		if ctx.Matches(t) {
			return t
		}
		for _, col := range ctx.InputCols {
			t := &plan.Transform{
				Type:      plan.TransformPrefixAgg,
				Partition: part,
				Op:        "sum",
				Source:    col,
				A:         1.0,
			}
			if ctx.Matches(t) {
				return t
			}
		}
	}
	for _, part := range parts {
		for _, col := range ctx.InputCols {
			for _, op := range []string{"max", "min"} {
				t := &plan.Transform{
					Type:      plan.TransformPrefixAgg,
					Partition: part,
					Op:        op,
					Source:    col,
					A:         1.0,
				}
				if ctx.Matches(t) {
					return t
				}
			}
		}
	}
	return nil
}
