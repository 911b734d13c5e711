/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stateful.go
Description: Stateful strategies for the tablesynth engine. Covers the
predicate-driven incrementing counter, the two-label toggle, and the
partition-scoped resettable sum. Each searches the shared candidate predicate
library crossed with skip-first handling of the partition's first row.
*/

package strategies

import (
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// StateStrategy matches an incrementing counter driven by a candidate
// predicate
type StateStrategy struct{}

// NewStateStrategy creates a new state counter strategy
func NewStateStrategy() *StateStrategy { return &StateStrategy{} }

// Name returns the name of this strategy
func (s *StateStrategy) Name() string { return "StateStrategy" }

// Description returns a description of this strategy
func (s *StateStrategy) Description() string {
	return "Matches a predicate-driven incrementing counter with a constant step"
}

// Attempt requires numeric outputs whose level changes all share one step
// size, then searches partitions, predicates, and skip-first handling
func (s *StateStrategy) Attempt(ctx *Context) *plan.Transform {
	nums := make([]float64, len(ctx.Outputs))
	for i, v := range ctx.Outputs {
		n, ok := v.AsNumber()
		if !ok {
			return nil
		}
		nums[i] = n
	}
	step := 0.0
	stepSet := false
	for i := 1; i < len(nums); i++ {
		if nums[i] == nums[i-1] {
			continue
		}
		d := nums[i] - nums[i-1]
		if !stepSet {
			step = d
			stepSet = true
			continue
		}
		if absFloat(d-step) > 1e-6 {
			return nil
		}
	}
	if !stepSet {
		return nil
	}

	predicates := BuildCandidatePredicates(ctx.InputRows, ctx.InputCols)
	for _, part := range ctx.narrowPartitions() {
		for _, pred := range predicates {
			for _, skipFirst := range []bool{false, true} {
				t := &plan.Transform{
					Type:      plan.TransformState,
					Initial:   table.NumberValue(nums[0]),
					Step:      step,
					Partition: part,
					Predicate: pred,
					Source:    pred.Column,
					SkipFirst: skipFirst,
				}
				if ctx.MatchesNumeric(t, 1e-6) {
					return t
				}
			}
		}
	}
	return nil
}

// ToggleStrategy matches a two-label finite state machine flipped by a
// candidate predicate
type ToggleStrategy struct{}

// NewToggleStrategy creates a new toggle strategy
func NewToggleStrategy() *ToggleStrategy { return &ToggleStrategy{} }

// Name returns the name of this strategy
func (s *ToggleStrategy) Name() string { return "ToggleStrategy" }

// Description returns a description of this strategy
func (s *ToggleStrategy) Description() string {
	return "Matches a two-label toggle flipped by a candidate predicate, single-column partitions tried before the global one"
}

// Attempt requires exactly two distinct output labels. Single-column
// partitions are preferred over the global partition.
func (s *ToggleStrategy) Attempt(ctx *Context) *plan.Transform {
	labels := distinctCanonical(ctx.Outputs)
	if len(labels) != 2 {
		return nil
	}
	predicates := BuildCandidatePredicates(ctx.InputRows, ctx.InputCols)

	limited := ctx.InputCols
	if len(limited) > 4 {
		limited = limited[:4]
	}
	parts := make([][]string, 0, len(limited)+1)
	for _, col := range limited {
		parts = append(parts, []string{col})
	}
	parts = append(parts, nil)

	for _, part := range parts {
		for _, pred := range predicates {
			for _, skipFirst := range []bool{false, true} {
				t := &plan.Transform{
					Type:      plan.TransformToggle,
					Initial:   ctx.Outputs[0],
					Labels:    labels,
					Partition: part,
					Predicate: pred,
					SkipFirst: skipFirst,
				}
				if ctx.Matches(t) {
					return t
				}
			}
		}
	}
	return nil
}

// ResetSumStrategy matches a running sum that resets when a candidate
// predicate fires
type ResetSumStrategy struct{}

// NewResetSumStrategy creates a new reset sum strategy
func NewResetSumStrategy() *ResetSumStrategy { return &ResetSumStrategy{} }

// Name returns the name of this strategy
func (s *ResetSumStrategy) Name() string { return "ResetSumStrategy" }

// Description returns a description of this strategy
func (s *ResetSumStrategy) Description() string {
	return "Matches a segment-bounded cumulative sum reset by a candidate predicate"
}

// Attempt requires numeric outputs and searches partitions, source columns,
// predicates, and skip-first handling
func (s *ResetSumStrategy) Attempt(ctx *Context) *plan.Transform {
	for _, v := range ctx.Outputs {
		if _, ok := v.AsNumber(); !ok {
			return nil
		}
	}
	predicates := BuildCandidatePredicates(ctx.InputRows, ctx.InputCols)
	for _, part := range ctx.narrowPartitions() {
		for _, src := range ctx.InputCols {
			if !columnHasNumbers(ctx.InputRows, src) {
				continue
			}
			for _, pred := range predicates {
				for _, skipFirst := range []bool{false, true} {
					t := &plan.Transform{
						Type:      plan.TransformResetSum,
						Source:    src,
						Partition: part,
						Predicate: pred,
						SkipFirst: skipFirst,
						A:         1.0,
					}
					if ctx.MatchesNumeric(t, 1e-6) {
						return t
					}
				}
			}
		}
	}
	return nil
}

// distinctCanonical returns the distinct values of vals in first-seen order,
// deduplicated by canonical string form so 1 and 1.0 collapse
func distinctCanonical(vals []table.Value) []table.Value {
	seen := make(map[string]struct{}, len(vals))
	out := make([]table.Value, 0, len(vals))
	for _, v := range vals {
		c := v.Canonical()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, v)
	}
	return out
}

func columnHasNumbers(rows []table.Row, col string) bool {
	for _, row := range rows {
		if _, ok := row.Get(col).AsNumber(); ok {
			return true
		}
	}
	return false
}
