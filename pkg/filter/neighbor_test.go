/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: neighbor_test.go
Description: Tests for neighbor rule synthesis. Covers ordered-comparison rules
with boundary drops, duplicate-of-neighbor dedup rules, and the no-drop case.
*/

package filter_test

import (
	"testing"

	"github.com/kleascm/tablesynth/pkg/filter"
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intRows(col string, vals ...int64) []table.Row {
	rows := make([]table.Row, 0, len(vals))
	for _, v := range vals {
		rows = append(rows, table.Row{col: table.IntValue(v)})
	}
	return rows
}

// TestInferNeighborRulesNone tests that fully kept input needs no rules
func TestInferNeighborRulesNone(t *testing.T) {
	rows := intRows("v", 1, 2, 3)
	rules := filter.InferNeighborRules(rows, []int{0, 1, 2}, []string{"v"}, nil)
	assert.Empty(t, rules)
}

// TestInferNeighborRulesCompare tests a strictly-ascending keep rule
func TestInferNeighborRulesCompare(t *testing.T) {
	// Keep rows whose next value is strictly greater; the local maximum and
	// the final row drop
	rows := intRows("v", 1, 3, 2, 5)
	rules := filter.InferNeighborRules(rows, []int{0, 2}, []string{"v"}, nil)
	require.Len(t, rules, 1)

	rule := rules[0]
	assert.Equal(t, plan.NeighborCompare, rule.Type)
	assert.Equal(t, 1, rule.Offset)
	assert.Equal(t, "<", rule.Op)
	assert.True(t, rule.RequireNeighbor)

	// The rule reproduces the drop decisions at replay time
	assert.True(t, plan.NeighborOK(rules, rows, 0))
	assert.False(t, plan.NeighborOK(rules, rows, 1))
	assert.True(t, plan.NeighborOK(rules, rows, 2))
	assert.False(t, plan.NeighborOK(rules, rows, 3))
}

// TestInferNeighborRulesDedupe tests the duplicate-of-previous-row rule
func TestInferNeighborRulesDedupe(t *testing.T) {
	rows := intRows("v", 1, 1, 5, 5, 9)
	rules := filter.InferNeighborRules(rows, []int{0, 2, 4}, []string{"v"}, nil)
	require.Len(t, rules, 1)

	rule := rules[0]
	assert.Equal(t, plan.NeighborMatch, rule.Type)
	assert.Equal(t, -1, rule.Offset)

	assert.True(t, plan.NeighborOK(rules, rows, 0))
	assert.False(t, plan.NeighborOK(rules, rows, 1))
	assert.False(t, plan.NeighborOK(rules, rows, 3))
	assert.True(t, plan.NeighborOK(rules, rows, 4))
}

// TestInferNeighborRulesUnexplainable tests that arbitrary drops yield nothing
func TestInferNeighborRulesUnexplainable(t *testing.T) {
	// Dropping one row of an all-identical column has no neighbor story
	rows := intRows("v", 1, 1, 1, 1)
	rules := filter.InferNeighborRules(rows, []int{0, 1, 3}, []string{"v"}, nil)
	assert.Empty(t, rules)
}

// TestInferNeighborRulesRespectFilter tests that filtered rows are not drop targets
func TestInferNeighborRulesRespectFilter(t *testing.T) {
	rows := intRows("v", 1, -4, 2, 3)
	conds := []*plan.Condition{{Column: "v", Op: ">", Value: table.IntValue(0)}}
	// Row 1 is already removed by the filter; nothing left to explain
	rules := filter.InferNeighborRules(rows, []int{0, 2, 3}, []string{"v"}, conds)
	assert.Empty(t, rules)
}
