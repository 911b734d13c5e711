/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: neighbor.go
Description: Neighbor rule synthesis for the tablesynth engine. Explains rows
that pass the filter yet are dropped by the alignment through a single rule
about the adjacent row in the original order: an ordered comparison, a constant
neighbor value, or a duplicate-of-neighbor match.
*/

package filter

import (
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// InferNeighborRules finds at most one rule whose predicted drop set exactly
// equals the rows that pass the filter but are not kept by the alignment.
// Returns an empty slice when no such rows exist or no rule explains them.
func InferNeighborRules(rows []table.Row, keepIndices []int, columns []string, conditions []*plan.Condition) []*plan.NeighborRule {
	keepSet := make(map[int]struct{}, len(keepIndices))
	for _, i := range keepIndices {
		keepSet[i] = struct{}{}
	}
	dropTargets := make(map[int]struct{})
	for i, row := range rows {
		if !plan.RowPasses(conditions, row) {
			continue
		}
		if _, kept := keepSet[i]; !kept {
			dropTargets[i] = struct{}{}
		}
	}
	if len(dropTargets) == 0 {
		return nil
	}

	for _, offset := range []int{1, -1} {
		for _, col := range columns {
			for _, op := range []string{"<", "<=", ">", ">="} {
				rule := &plan.NeighborRule{
					Type:            plan.NeighborCompare,
					Offset:          offset,
					Column:          col,
					NeighborColumn:  col,
					Op:              op,
					RequireNeighbor: true,
				}
				if ruleExplains(rule, rows, conditions, dropTargets) {
					return []*plan.NeighborRule{rule}
				}
			}

			// Constant neighbor values observed next to the dropped rows
			neighborVals := make([]table.Value, 0, len(dropTargets))
			for i := range rows {
				if _, dropped := dropTargets[i]; !dropped {
					continue
				}
				n := i + offset
				if n >= 0 && n < len(rows) {
					neighborVals = append(neighborVals, rows[n].Get(col))
				}
			}
			uniques := table.DistinctValues(neighborVals)
			if len(uniques) > 4 {
				uniques = uniques[:4]
			}
			for _, val := range uniques {
				rule := &plan.NeighborRule{
					Type:   plan.NeighborValue,
					Offset: offset,
					Column: col,
					Op:     "==",
					Value:  val,
				}
				if ruleExplains(rule, rows, conditions, dropTargets) {
					return []*plan.NeighborRule{rule}
				}
			}

			rule := &plan.NeighborRule{Type: plan.NeighborMatch, Offset: offset, Column: col}
			if ruleExplains(rule, rows, conditions, dropTargets) {
				return []*plan.NeighborRule{rule}
			}
		}
	}
	return nil
}

// ruleExplains checks whether the rule's predicted drop set over
// filter-passing rows exactly equals dropTargets. Prediction reuses the same
// evaluation replay uses, so accepted rules behave identically at replay time.
func ruleExplains(rule *plan.NeighborRule, rows []table.Row, conditions []*plan.Condition, dropTargets map[int]struct{}) bool {
	rules := []*plan.NeighborRule{rule}
	predicted := 0
	for i, row := range rows {
		if !plan.RowPasses(conditions, row) {
			continue
		}
		if plan.NeighborOK(rules, rows, i) {
			continue
		}
		if _, want := dropTargets[i]; !want {
			return false
		}
		predicted++
	}
	return predicted == len(dropTargets)
}
