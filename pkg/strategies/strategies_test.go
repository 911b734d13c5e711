/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: strategies_test.go
Description: Tests for the transform hypothesis battery. Covers strategy
priority, scalar and concat inference, positional and stateful transforms, and
the fallback behavior when nothing matches.
*/

package strategies_test

import (
	"testing"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/strategies"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxFor(outCol string, outputs []table.Value, rows []table.Row, cols []string) *strategies.Context {
	return strategies.NewContext(outCol, outputs, rows, cols)
}

func strVals(vals ...string) []table.Value {
	out := make([]table.Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, table.StringValue(v))
	}
	return out
}

func numVals(vals ...float64) []table.Value {
	out := make([]table.Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, table.NumberValue(v))
	}
	return out
}

// replayMatches checks the inferred transform reproduces the outputs
func replayMatches(t *testing.T, tr *plan.Transform, ctx *strategies.Context) {
	t.Helper()
	predicted := plan.ComputeSequence(tr, ctx.InputRows)
	require.Len(t, predicted, len(ctx.Outputs))
	for i := range predicted {
		assert.True(t, table.Equal(predicted[i], ctx.Outputs[i]),
			"row %d: predicted %s want %s", i, predicted[i], ctx.Outputs[i])
	}
}

// TestInferCopyPriority tests that a same-named copy beats every coincidental match
func TestInferCopyPriority(t *testing.T) {
	rows := []table.Row{
		{"n": table.IntValue(1)},
		{"n": table.IntValue(2)},
		{"n": table.IntValue(3)},
	}
	// A row counter would also explain this column; copy must win
	ctx := ctxFor("n", numVals(1, 2, 3), rows, []string{"n"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformCopy, tr.Type)
	assert.Equal(t, "n", tr.Source)
}

// TestInferStrip tests whitespace stripping inference
func TestInferStrip(t *testing.T) {
	rows := []table.Row{
		{"name": table.StringValue(" alice ")},
		{"name": table.StringValue("bob")},
	}
	ctx := ctxFor("name", strVals("alice", "bob"), rows, []string{"name"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformStrip, tr.Type)
	replayMatches(t, tr, ctx)
}

// TestInferPrefix tests literal prefix recovery from the first row
func TestInferPrefix(t *testing.T) {
	rows := []table.Row{
		{"name": table.StringValue("alice")},
		{"name": table.StringValue("bob")},
	}
	ctx := ctxFor("title", strVals("Dr. alice", "Dr. bob"), rows, []string{"name"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformPrefix, tr.Type)
	assert.Equal(t, "Dr. ", tr.Prefix)
}

// TestInferSuffix tests literal suffix recovery
func TestInferSuffix(t *testing.T) {
	rows := []table.Row{
		{"name": table.StringValue("alice")},
		{"name": table.StringValue("bob")},
	}
	ctx := ctxFor("excited", strVals("alice!", "bob!"), rows, []string{"name"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformSuffix, tr.Type)
	assert.Equal(t, "!", tr.Suffix)
}

// TestInferLinear tests affine numeric inference
func TestInferLinear(t *testing.T) {
	rows := []table.Row{
		{"x": table.IntValue(1)},
		{"x": table.IntValue(2)},
		{"x": table.IntValue(3)},
	}
	ctx := ctxFor("y", numVals(3, 5, 7), rows, []string{"x"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformLinear, tr.Type)
	assert.InDelta(t, 2.0, tr.A, 1e-9)
	assert.InDelta(t, 1.0, tr.B, 1e-9)
}

// TestInferConcat tests two-column concatenation with delimiter recovery
func TestInferConcat(t *testing.T) {
	rows := []table.Row{
		{"first": table.StringValue("ann"), "last": table.StringValue("lee")},
		{"first": table.StringValue("bo"), "last": table.StringValue("kim")},
	}
	ctx := ctxFor("full", strVals("ann-lee", "bo-kim"), rows, []string{"first", "last"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformConcat, tr.Type)
	assert.Equal(t, "-", tr.Delimiter)
	replayMatches(t, tr, ctx)
}

// TestInferRowNumber tests partitioned positional counter inference
func TestInferRowNumber(t *testing.T) {
	rows := []table.Row{
		{"g": table.StringValue("a")},
		{"g": table.StringValue("a")},
		{"g": table.StringValue("b")},
		{"g": table.StringValue("b")},
	}
	ctx := ctxFor("rn", numVals(1, 2, 1, 2), rows, []string{"g"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformRowNumber, tr.Type)
	assert.Equal(t, []string{"g"}, tr.Partition)
}

// TestInferRank tests descending rank inference
func TestInferRank(t *testing.T) {
	rows := []table.Row{
		{"score": table.IntValue(30)},
		{"score": table.IntValue(10)},
		{"score": table.IntValue(20)},
		{"score": table.IntValue(25)},
	}
	ctx := ctxFor("r", numVals(1, 4, 3, 2), rows, []string{"score"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformRank, tr.Type)
	assert.False(t, tr.Ascending)
	replayMatches(t, tr, ctx)
}

// TestInferCumulativeSum tests that a running sum resolves to a prefix aggregate
func TestInferCumulativeSum(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(1)},
		{"v": table.IntValue(2)},
		{"v": table.IntValue(3)},
		{"v": table.IntValue(4)},
	}
	ctx := ctxFor("running", numVals(1, 3, 6, 10), rows, []string{"v"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformPrefixAgg, tr.Type)
	assert.Equal(t, "sum", tr.Op)
	assert.Equal(t, "v", tr.Source)
}

// TestInferStateCounter tests the predicate-driven counter
func TestInferStateCounter(t *testing.T) {
	rows := []table.Row{
		{"evt": table.StringValue("x")},
		{"evt": table.StringValue("reset")},
		{"evt": table.StringValue("y")},
		{"evt": table.StringValue("reset")},
	}
	ctx := ctxFor("count", numVals(0, 1, 1, 2), rows, []string{"evt"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformState, tr.Type)
	assert.InDelta(t, 1.0, tr.Step, 1e-9)
	replayMatches(t, tr, ctx)
}

// TestInferToggle tests the two-label toggle
func TestInferToggle(t *testing.T) {
	rows := []table.Row{
		{"btn": table.IntValue(0)},
		{"btn": table.IntValue(1)},
		{"btn": table.IntValue(0)},
		{"btn": table.IntValue(1)},
	}
	ctx := ctxFor("state", strVals("off", "on", "on", "off"), rows, []string{"btn"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformToggle, tr.Type)
	replayMatches(t, tr, ctx)
}

// TestInferResetSum tests the predicate-reset running sum
func TestInferResetSum(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(1), "flag": table.StringValue("")},
		{"v": table.IntValue(2), "flag": table.StringValue("r")},
		{"v": table.IntValue(3), "flag": table.StringValue("")},
		{"v": table.IntValue(4), "flag": table.StringValue("r")},
	}
	ctx := ctxFor("seg", numVals(1, 2, 5, 4), rows, []string{"v", "flag"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformResetSum, tr.Type)
	assert.Equal(t, "v", tr.Source)
	replayMatches(t, tr, ctx)
}

// TestInferBucket tests threshold bucketing with three labels
func TestInferBucket(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(1)},
		{"v": table.IntValue(5)},
		{"v": table.IntValue(10)},
		{"v": table.IntValue(2)},
		{"v": table.IntValue(6)},
		{"v": table.IntValue(11)},
	}
	ctx := ctxFor("band", strVals("low", "mid", "high", "low", "mid", "high"), rows, []string{"v"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformBucket, tr.Type)
	require.Len(t, tr.Thresholds, 2)
	// Boundaries sit a fifth of the way into the observed gap
	assert.InDelta(t, 2.6, tr.Thresholds[0], 1e-9)
	assert.InDelta(t, 6.8, tr.Thresholds[1], 1e-9)
	replayMatches(t, tr, ctx)
}

// TestInferTrailingWindow tests sliding window inference on a non-affine sequence
func TestInferTrailingWindow(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(1)},
		{"v": table.IntValue(4)},
		{"v": table.IntValue(2)},
		{"v": table.IntValue(8)},
	}
	ctx := ctxFor("w", numVals(1, 5, 6, 10), rows, []string{"v"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformWindow, tr.Type)
	assert.Equal(t, "sum", tr.Op)
	replayMatches(t, tr, ctx)
}

// TestInferCenteredMean tests a centered mean window
func TestInferCenteredMean(t *testing.T) {
	rows := []table.Row{
		{"v": table.IntValue(2)},
		{"v": table.IntValue(8)},
		{"v": table.IntValue(4)},
	}
	ctx := ctxFor("m", []table.Value{
		table.NumberValue(5),
		table.FloatValue(14.0 / 3.0),
		table.NumberValue(6),
	}, rows, []string{"v"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformWindow, tr.Type)
	assert.Equal(t, "mean", tr.Op)
	assert.True(t, tr.Centered)
}

// TestInferConstantFallback tests the constant fallback for unexplained columns
func TestInferConstantFallback(t *testing.T) {
	rows := []table.Row{
		{"a": table.StringValue("x")},
		{"a": table.StringValue("y")},
	}
	ctx := ctxFor("c", strVals("same", "same"), rows, []string{"a"})
	tr := strategies.InferTransform(ctx)
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformConstant, tr.Type)
	assert.Equal(t, "same", tr.Value.Str())
}

// TestBatteryOrder tests that the scalar strategy leads the battery
func TestBatteryOrder(t *testing.T) {
	battery := strategies.Battery()
	require.NotEmpty(t, battery)
	assert.Equal(t, "ScalarStrategy", battery[0].Name())
	for _, s := range battery {
		assert.NotEmpty(t, s.Name())
		assert.NotEmpty(t, s.Description())
	}
}
