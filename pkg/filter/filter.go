/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter.go
Description: Filter condition synthesis for the tablesynth engine. Generates
per-column candidate conditions that keep exactly the aligned rows, then runs
greedy set cover over the dropped rows. Numeric columns prefer strict range
bounds positioned past the observed gap so the filter generalizes beyond the
sample.
*/

package filter

import (
	"sort"
	"strings"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// NeverMatch is the sentinel equality target used when the alignment keeps no
// rows at all; no real cell compares equal to it
const NeverMatch = "__never__"

// GenerateColumnConditions builds the candidate conditions for one column
// given the kept and dropped row index sets
func GenerateColumnConditions(col string, rows []table.Row, keepIndices, dropIndices []int) []*plan.Condition {
	keptVals := make([]table.Value, 0, len(keepIndices))
	for _, i := range keepIndices {
		keptVals = append(keptVals, rows[i].Get(col))
	}
	droppedVals := make([]table.Value, 0, len(dropIndices))
	for _, i := range dropIndices {
		droppedVals = append(droppedVals, rows[i].Get(col))
	}

	var conds []*plan.Condition
	if len(keptVals) == 0 {
		if len(dropIndices) > 0 {
			conds = append(conds, &plan.Condition{Column: col, Op: "==", Value: table.StringValue(NeverMatch)})
		}
		return conds
	}

	uniqueKept := table.DistinctValues(keptVals)
	uniqueDrop := table.DistinctValues(droppedVals)

	numericCol := allNumeric(keptVals) && allNumeric(droppedVals)

	// Range bounds go first; strict inequalities against the dropped side
	// generalize past the observed gap.
	if numericCol && len(keptVals) > 0 && len(droppedVals) > 0 {
		minKept, maxKept := numericBounds(keptVals)
		minDrop, maxDrop := numericBounds(droppedVals)
		if maxDrop > maxKept && minDrop > maxKept {
			conds = append(conds, &plan.Condition{Column: col, Op: "<", Value: table.NumberValue(minDrop)})
		}
		if minDrop < minKept && maxDrop < minKept {
			conds = append(conds, &plan.Condition{Column: col, Op: ">", Value: table.NumberValue(maxDrop)})
		}
	}

	if len(uniqueKept) == 1 {
		conds = append(conds, &plan.Condition{Column: col, Op: "==", Value: uniqueKept[0]})
	}
	if len(uniqueDrop) == 1 && !containsEqual(uniqueKept, uniqueDrop[0]) {
		conds = append(conds, &plan.Condition{Column: col, Op: "!=", Value: uniqueDrop[0]})
	}
	if !numericCol && len(uniqueKept) > 1 && len(uniqueKept) <= 4 {
		conds = append(conds, &plan.Condition{Column: col, Op: "in", Values: uniqueKept})
	}
	return conds
}

// PickConditions finds an AND-combined condition set that keeps exactly the
// given rows. Returns (nil, true) when no filter is needed, (conds, true) on
// success, and (nil, false) when greedy cover leaves dropped rows unexplained
// and the caller must rely on neighbor rules or reject the alignment.
func PickConditions(rows []table.Row, keepIndices []int, columns, outputCols []string) ([]*plan.Condition, bool) {
	keepSet := make(map[int]struct{}, len(keepIndices))
	for _, i := range keepIndices {
		keepSet[i] = struct{}{}
	}
	if len(keepSet) == len(rows) {
		return nil, true
	}
	dropIndices := make([]int, 0, len(rows))
	for i := range rows {
		if _, kept := keepSet[i]; !kept {
			dropIndices = append(dropIndices, i)
		}
	}

	sortedKeep := append([]int(nil), keepIndices...)
	sort.Ints(sortedKeep)

	// Columns absent from the output go first; their conditions generalize
	// better than conditions on columns the transform also reads.
	ordered := orderColumns(columns, outputCols)

	var candidates []*plan.Condition
	for _, col := range ordered {
		candidates = append(candidates, GenerateColumnConditions(col, rows, sortedKeep, dropIndices)...)
	}

	seen := make(map[string]struct{}, len(candidates))
	valid := make([]*plan.Condition, 0, len(candidates))
	for _, cond := range candidates {
		key := conditionKey(cond)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if holdsForAll(cond, rows, sortedKeep) {
			valid = append(valid, cond)
		}
	}

	remaining := make(map[int]struct{}, len(dropIndices))
	for _, i := range dropIndices {
		remaining[i] = struct{}{}
	}
	var selected []*plan.Condition
	for len(remaining) > 0 && len(valid) > 0 {
		var best *plan.Condition
		bestRemoved := 0
		for _, cond := range valid {
			removed := 0
			for idx := range remaining {
				if !plan.ConditionHolds(cond, rows[idx]) {
					removed++
				}
			}
			if removed > bestRemoved {
				best = cond
				bestRemoved = removed
			}
		}
		if best == nil {
			break
		}
		selected = append(selected, best)
		for idx := range remaining {
			if !plan.ConditionHolds(best, rows[idx]) {
				delete(remaining, idx)
			}
		}
	}
	if len(remaining) > 0 {
		return nil, false
	}
	return selected, true
}

func orderColumns(columns, outputCols []string) []string {
	if len(outputCols) == 0 {
		return columns
	}
	inOutput := make(map[string]struct{}, len(outputCols))
	for _, c := range outputCols {
		inOutput[c] = struct{}{}
	}
	ordered := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, present := inOutput[c]; !present {
			ordered = append(ordered, c)
		}
	}
	for _, c := range columns {
		if _, present := inOutput[c]; present {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

func holdsForAll(cond *plan.Condition, rows []table.Row, indices []int) bool {
	for _, i := range indices {
		if !plan.ConditionHolds(cond, rows[i]) {
			return false
		}
	}
	return true
}

func conditionKey(cond *plan.Condition) string {
	parts := []string{cond.Column, cond.Op, cond.Value.Key()}
	for _, v := range cond.Values {
		parts = append(parts, v.Key())
	}
	return strings.Join(parts, "|")
}

func allNumeric(vals []table.Value) bool {
	for _, v := range vals {
		if !v.IsNumeric() {
			return false
		}
	}
	return true
}

func numericBounds(vals []table.Value) (float64, float64) {
	min, _ := vals[0].AsNumber()
	max := min
	for _, v := range vals[1:] {
		n, _ := v.AsNumber()
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return min, max
}

func containsEqual(vals []table.Value, target table.Value) bool {
	for _, v := range vals {
		if table.Equal(v, target) {
			return true
		}
	}
	return false
}
