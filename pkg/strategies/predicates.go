/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: predicates.go
Description: Candidate predicate library for the stateful strategies. Builds a
bounded set of equality, numeric-threshold, delta, and change predicates per
input column, favouring low-cardinality columns over high-cardinality ids.
*/

package strategies

import (
	"sort"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// BuildCandidatePredicates builds the predicate library the stateful
// strategies search over. Per column: equality against up to four observed
// values when the column is low-cardinality, numeric thresholds from the first
// three distinct values (>= and <), delta_ge against the first three distinct
// row-to-row gaps, and a change predicate.
func BuildCandidatePredicates(rows []table.Row, cols []string) []*plan.Condition {
	ordered := append([]string(nil), cols...)
	distinct := make(map[string]int, len(cols))
	for _, col := range ordered {
		seen := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			seen[row.Get(col).Key()] = struct{}{}
		}
		distinct[col] = len(seen)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return distinct[ordered[i]] < distinct[ordered[j]]
	})

	var predicates []*plan.Condition
	for _, col := range ordered {
		values := make([]table.Value, len(rows))
		for i, row := range rows {
			values[i] = row.Get(col)
		}

		uniques := table.DistinctValues(values)
		uniqueLimit := len(values) * 6 / 10
		if uniqueLimit < 4 {
			uniqueLimit = 4
		}
		if len(uniques) <= uniqueLimit {
			limit := len(uniques)
			if limit > 4 {
				limit = 4
			}
			for _, val := range uniques[:limit] {
				predicates = append(predicates, &plan.Condition{Column: col, Op: "==", Value: val})
			}
		}

		nums := make([]float64, 0, len(values))
		for _, v := range values {
			if n, ok := v.AsNumber(); ok {
				nums = append(nums, n)
			}
		}
		if len(nums) >= 2 {
			for _, threshold := range distinctSorted(nums, 3) {
				tv := table.NumberValue(threshold)
				predicates = append(predicates, &plan.Condition{Column: col, Op: ">=", Value: tv})
				predicates = append(predicates, &plan.Condition{Column: col, Op: "<", Value: tv})
			}
			deltas := make([]float64, 0, len(values))
			for i := 1; i < len(values); i++ {
				a, aok := values[i-1].AsNumber()
				b, bok := values[i].AsNumber()
				if aok && bok {
					deltas = append(deltas, absFloat(b-a))
				}
			}
			for _, d := range distinctSorted(deltas, 3) {
				predicates = append(predicates, &plan.Condition{Kind: plan.KindDeltaGE, Column: col, Delta: d})
			}
		}

		predicates = append(predicates, &plan.Condition{Kind: plan.KindChange, Column: col})
	}
	return predicates
}

// distinctSorted returns up to limit distinct values in ascending order
func distinctSorted(vals []float64, limit int) []float64 {
	seen := make(map[float64]struct{}, len(vals))
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
