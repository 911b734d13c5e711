/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sequence_test.go
Description: Tests for full-sequence transform evaluation. Covers positional
counters, ranks, prefix aggregates, resettable sums, windows, and the
predicate-driven stateful transforms.
*/

package plan_test

import (
	"testing"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numRows(col string, vals ...float64) []table.Row {
	rows := make([]table.Row, 0, len(vals))
	for _, v := range vals {
		rows = append(rows, table.Row{col: table.NumberValue(v)})
	}
	return rows
}

func canonicals(vals []table.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Canonical()
	}
	return out
}

// TestRowNumber tests positional counters with partitions and reversal
func TestRowNumber(t *testing.T) {
	rows := []table.Row{
		{"g": table.StringValue("a")},
		{"g": table.StringValue("a")},
		{"g": table.StringValue("b")},
		{"g": table.StringValue("a")},
	}

	global := plan.ComputeSequence(&plan.Transform{Type: plan.TransformRowNumber}, rows)
	assert.Equal(t, []string{"1", "2", "3", "4"}, canonicals(global))

	byGroup := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformRowNumber,
		Partition: []string{"g"},
	}, rows)
	assert.Equal(t, []string{"1", "2", "1", "3"}, canonicals(byGroup))

	reversed := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformRowNumber,
		Partition: []string{"g"},
		Reverse:   true,
	}, rows)
	assert.Equal(t, []string{"3", "2", "1", "1"}, canonicals(reversed))
}

// TestRank tests competition and dense ranking
func TestRank(t *testing.T) {
	rows := numRows("score", 30, 10, 30, 20)

	desc := plan.ComputeSequence(&plan.Transform{
		Type:    plan.TransformRank,
		OrderBy: "score",
	}, rows)
	// Ties share a rank and leave a gap
	assert.Equal(t, []string{"1", "4", "1", "3"}, canonicals(desc))

	dense := plan.ComputeSequence(&plan.Transform{
		Type:    plan.TransformDenseRank,
		OrderBy: "score",
	}, rows)
	assert.Equal(t, []string{"1", "3", "1", "2"}, canonicals(dense))

	asc := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformRank,
		OrderBy:   "score",
		Ascending: true,
	}, rows)
	assert.Equal(t, []string{"3", "1", "3", "2"}, canonicals(asc))
}

// TestPrefixAgg tests running aggregates with the affine adjustment
func TestPrefixAgg(t *testing.T) {
	rows := numRows("v", 1, 2, 3, 4)

	sum := plan.ComputeSequence(&plan.Transform{
		Type:   plan.TransformPrefixAgg,
		Op:     "sum",
		Source: "v",
		A:      1,
	}, rows)
	assert.Equal(t, []string{"1", "3", "6", "10"}, canonicals(sum))

	scaled := plan.ComputeSequence(&plan.Transform{
		Type:   plan.TransformPrefixAgg,
		Op:     "sum",
		Source: "v",
		A:      2,
		B:      1,
	}, rows)
	assert.Equal(t, []string{"3", "7", "13", "21"}, canonicals(scaled))

	max := plan.ComputeSequence(&plan.Transform{
		Type:   plan.TransformPrefixAgg,
		Op:     "max",
		Source: "v",
		A:      1,
	}, numRows("v", 3, 1, 5, 2))
	assert.Equal(t, []string{"3", "3", "5", "5"}, canonicals(max))

	count := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformPrefixAgg,
		Op:        "count",
		A:         1,
		Predicate: &plan.Condition{Column: "v", Op: ">=", Value: table.IntValue(3)},
	}, numRows("v", 3, 1, 5, 2))
	assert.Equal(t, []string{"1", "1", "2", "2"}, canonicals(count))
}

// TestPrefixAggMaxNullUntilSet tests that max stays null before any numeric cell
func TestPrefixAggMaxNullUntilSet(t *testing.T) {
	rows := []table.Row{
		{"v": table.StringValue("n/a")},
		{"v": table.IntValue(7)},
	}
	out := plan.ComputeSequence(&plan.Transform{
		Type:   plan.TransformPrefixAgg,
		Op:     "max",
		Source: "v",
		A:      1,
	}, rows)
	assert.True(t, out[0].IsNull())
	assert.Equal(t, "7", out[1].Canonical())
}

// TestResetSum tests the predicate-reset running sum
func TestResetSum(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(1), "flag": table.StringValue("")},
		{"v": table.IntValue(2), "flag": table.StringValue("r")},
		{"v": table.IntValue(3), "flag": table.StringValue("")},
		{"v": table.IntValue(4), "flag": table.StringValue("r")},
	}
	out := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformResetSum,
		Source:    "v",
		Predicate: &plan.Condition{Column: "flag", Op: "==", Value: table.StringValue("r")},
		A:         1,
	}, rows)
	assert.Equal(t, []string{"1", "2", "5", "4"}, canonicals(out))
}

// TestResetSumSkipFirst tests that skip-first suppresses a first-row trigger
func TestResetSumSkipFirst(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(5), "flag": table.StringValue("r")},
		{"v": table.IntValue(2), "flag": table.StringValue("")},
	}
	tr := &plan.Transform{
		Type:      plan.TransformResetSum,
		Source:    "v",
		Predicate: &plan.Condition{Column: "flag", Op: "==", Value: table.StringValue("r")},
		SkipFirst: true,
		A:         1,
	}
	out := plan.ComputeSequence(tr, rows)
	// First row seeds the sum either way; the suppressed trigger must not
	// change the continuation
	assert.Equal(t, []string{"5", "7"}, canonicals(out))
}

// TestWindow tests trailing and centered window aggregates
func TestWindow(t *testing.T) {
	rows := numRows("v", 1, 4, 2, 8)

	trailing := plan.ComputeSequence(&plan.Transform{
		Type:   plan.TransformWindow,
		Op:     "sum",
		Source: "v",
		Window: 2,
		A:      1,
	}, rows)
	assert.Equal(t, []string{"1", "5", "6", "10"}, canonicals(trailing))

	centered := plan.ComputeSequence(&plan.Transform{
		Type:     plan.TransformWindow,
		Op:       "mean",
		Source:   "v",
		Centered: true,
		Before:   1,
		After:    1,
		A:        1,
	}, numRows("v", 2, 8, 4))
	require.Len(t, centered, 3)
	n0, _ := centered[0].AsNumber()
	n1, _ := centered[1].AsNumber()
	n2, _ := centered[2].AsNumber()
	assert.InDelta(t, 5.0, n0, 1e-9)
	assert.InDelta(t, 14.0/3.0, n1, 1e-9)
	assert.InDelta(t, 6.0, n2, 1e-9)

	median := plan.ComputeSequence(&plan.Transform{
		Type:     plan.TransformWindow,
		Op:       "median",
		Source:   "v",
		Centered: true,
		Before:   1,
		After:    1,
		A:        1,
	}, numRows("v", 1, 9, 2, 5))
	// Lower median of even-sized windows
	assert.Equal(t, []string{"1", "2", "5", "2"}, canonicals(median))
}

// TestStateCounter tests the predicate-driven incrementing counter
func TestStateCounter(t *testing.T) {
	rows := []table.Row{
		{"evt": table.StringValue("x")},
		{"evt": table.StringValue("reset")},
		{"evt": table.StringValue("y")},
		{"evt": table.StringValue("reset")},
	}
	out := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformState,
		Initial:   table.IntValue(0),
		Step:      1,
		Predicate: &plan.Condition{Column: "evt", Op: "==", Value: table.StringValue("reset")},
	}, rows)
	assert.Equal(t, []string{"0", "1", "1", "2"}, canonicals(out))
}

// TestToggle tests the two-label toggle state machine
func TestToggle(t *testing.T) {
	rows := numRows("btn", 0, 1, 0, 1)
	out := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformToggle,
		Initial:   table.StringValue("off"),
		Labels:    []table.Value{table.StringValue("off"), table.StringValue("on")},
		Predicate: &plan.Condition{Column: "btn", Op: "==", Value: table.IntValue(1)},
	}, rows)
	assert.Equal(t, []string{"off", "on", "on", "off"}, canonicals(out))
}

// TestStatefulPartitionIsolation tests that partitions carry independent state
func TestStatefulPartitionIsolation(t *testing.T) {
	rows := []table.Row{
		{"g": table.StringValue("a"), "v": table.IntValue(1)},
		{"g": table.StringValue("b"), "v": table.IntValue(10)},
		{"g": table.StringValue("a"), "v": table.IntValue(2)},
		{"g": table.StringValue("b"), "v": table.IntValue(20)},
	}
	out := plan.ComputeSequence(&plan.Transform{
		Type:      plan.TransformPrefixAgg,
		Op:        "sum",
		Source:    "v",
		Partition: []string{"g"},
		A:         1,
	}, rows)
	assert.Equal(t, []string{"1", "10", "3", "30"}, canonicals(out))
}
