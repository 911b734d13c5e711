/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine_test.go
Description: Tests for the synthesis driver. Covers end-to-end plan synthesis
with filtering, validation stamping, determinism, and the best-effort fallback.
*/

package synth_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/synth"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSynthesizeFilteredCopy tests inferring a filter plus a column copy
func TestSynthesizeFilteredCopy(t *testing.T) {
	input := &table.Table{
		Columns: []string{"name", "score"},
		Rows: []table.Row{
			{"name": table.StringValue("alice"), "score": table.IntValue(50)},
			{"name": table.StringValue("bob"), "score": table.IntValue(10)},
			{"name": table.StringValue("carol"), "score": table.IntValue(60)},
		},
	}
	output := &table.Table{
		Columns: []string{"name"},
		Rows: []table.Row{
			{"name": table.StringValue("alice")},
			{"name": table.StringValue("carol")},
		},
	}

	engine := synth.NewEngine(nil)
	p := engine.Synthesize(input, output)
	require.NotNil(t, p)
	assert.True(t, p.Validated)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"name"}, p.OutputColumns)

	simulated := plan.Simulate(p, input)
	assert.True(t, plan.Matches(simulated, output))
}

// TestSynthesizeIdentity tests a same-shape transform without filtering
func TestSynthesizeIdentity(t *testing.T) {
	input := &table.Table{
		Columns: []string{"x"},
		Rows: []table.Row{
			{"x": table.IntValue(1)},
			{"x": table.IntValue(2)},
			{"x": table.IntValue(3)},
		},
	}
	output := &table.Table{
		Columns: []string{"doubled"},
		Rows: []table.Row{
			{"doubled": table.IntValue(2)},
			{"doubled": table.IntValue(4)},
			{"doubled": table.IntValue(6)},
		},
	}

	engine := synth.NewEngine(nil)
	p := engine.Synthesize(input, output)
	require.NotNil(t, p)
	assert.True(t, p.Validated)
	assert.Empty(t, p.Filter)

	tr := p.Transforms["doubled"]
	require.NotNil(t, tr)
	assert.Equal(t, plan.TransformLinear, tr.Type)
}

// TestSynthesizeStateful tests a partitioned running sum through the driver
func TestSynthesizeStateful(t *testing.T) {
	input := &table.Table{
		Columns: []string{"cat", "val"},
		Rows: []table.Row{
			{"cat": table.StringValue("a"), "val": table.IntValue(1)},
			{"cat": table.StringValue("b"), "val": table.IntValue(10)},
			{"cat": table.StringValue("a"), "val": table.IntValue(2)},
			{"cat": table.StringValue("b"), "val": table.IntValue(20)},
		},
	}
	output := &table.Table{
		Columns: []string{"cat", "total"},
		Rows: []table.Row{
			{"cat": table.StringValue("a"), "total": table.IntValue(1)},
			{"cat": table.StringValue("b"), "total": table.IntValue(10)},
			{"cat": table.StringValue("a"), "total": table.IntValue(3)},
			{"cat": table.StringValue("b"), "total": table.IntValue(30)},
		},
	}

	engine := synth.NewEngine(nil)
	p := engine.Synthesize(input, output)
	require.NotNil(t, p)
	assert.True(t, p.Validated)
	assert.True(t, plan.Matches(plan.Simulate(p, input), output))
}

// TestSynthesizeBestEffort tests the unvalidated fallback plan
func TestSynthesizeBestEffort(t *testing.T) {
	input := &table.Table{
		Columns: []string{"a"},
		Rows: []table.Row{
			{"a": table.StringValue("x")},
			{"a": table.StringValue("y")},
		},
	}
	output := &table.Table{
		Columns: []string{"b"},
		Rows: []table.Row{
			{"b": table.StringValue("p")},
			{"b": table.StringValue("q")},
		},
	}

	engine := synth.NewEngine(nil)
	p := engine.Synthesize(input, output)
	require.NotNil(t, p)
	assert.False(t, p.Validated, "unrelated output cannot validate")
	assert.NotNil(t, p.Transforms["b"])
}

// TestSynthesizeDeterministicShape tests that repeated runs agree structurally
func TestSynthesizeDeterministicShape(t *testing.T) {
	input := &table.Table{
		Columns: []string{"name", "score"},
		Rows: []table.Row{
			{"name": table.StringValue("alice"), "score": table.IntValue(50)},
			{"name": table.StringValue("bob"), "score": table.IntValue(10)},
			{"name": table.StringValue("carol"), "score": table.IntValue(60)},
		},
	}
	output := &table.Table{
		Columns: []string{"name"},
		Rows: []table.Row{
			{"name": table.StringValue("alice")},
			{"name": table.StringValue("carol")},
		},
	}

	engine := synth.NewEngine(nil)
	p1 := engine.Synthesize(input, output)
	p2 := engine.Synthesize(input, output)

	assert.Equal(t, p1.Alignment, p2.Alignment)
	assert.Equal(t, len(p1.Filter), len(p2.Filter))
	assert.Equal(t, p1.Transforms["name"].Type, p2.Transforms["name"].Type)
	// Plan identity is content-derived, so repeated runs agree byte for byte
	assert.Equal(t, p1.ID, p2.ID)
	j1, err := json.Marshal(p1)
	require.NoError(t, err)
	j2, err := json.Marshal(p2)
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
}

// propInput generates a random input table with a unique id column, a
// two-value group column, distinct numbers, and a run-structured dup column
func propInput(rng *rand.Rand) (*table.Table, []int64) {
	n := 6 + rng.Intn(5)
	perm := rng.Perm(n)
	nums := make([]int64, n)
	rows := make([]table.Row, 0, n)
	dup := 'a'
	for i := 0; i < n; i++ {
		grp := "a"
		if i == 1 || (i > 1 && rng.Intn(2) == 0) {
			grp = "b"
		}
		if i > 0 && rng.Intn(2) == 0 {
			dup++
		}
		nums[i] = int64(5*perm[i] + 3)
		rows = append(rows, table.Row{
			"id":  table.StringValue(fmt.Sprintf("id-%c", 'a'+i)),
			"grp": table.StringValue(grp),
			"num": table.IntValue(nums[i]),
			"dup": table.StringValue(string(dup)),
		})
	}
	return &table.Table{
		Columns: []string{"id", "grp", "num", "dup"},
		Rows:    rows,
	}, nums
}

// propPlan generates a random plan over the input: a filter or neighbor rule
// scenario plus a random second transform next to the id copy
func propPlan(scenario int, rng *rand.Rand, nums []int64) *plan.Plan {
	p := &plan.Plan{
		OutputColumns: []string{"id"},
		Transforms: map[string]*plan.Transform{
			"id": {Type: plan.TransformCopy, Source: "id"},
		},
	}

	switch scenario % 4 {
	case 1:
		// Threshold below the maximum keeps at least one row and drops at
		// least the row carrying the threshold value
		sorted := append([]int64(nil), nums...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		t := sorted[rng.Intn(len(sorted)-1)]
		p.Filter = []*plan.Condition{{Column: "num", Op: ">", Value: table.IntValue(t)}}
	case 2:
		p.Filter = []*plan.Condition{{Column: "grp", Op: "==", Value: table.StringValue("a")}}
	case 3:
		p.NeighborRules = []*plan.NeighborRule{{Type: plan.NeighborMatch, Offset: -1, Column: "dup"}}
	}

	switch rng.Intn(4) {
	case 0:
		p.OutputColumns = append(p.OutputColumns, "level")
		p.Transforms["level"] = &plan.Transform{Type: plan.TransformLinear, Source: "num", A: 2, B: 1}
	case 1:
		p.OutputColumns = append(p.OutputColumns, "seq")
		p.Transforms["seq"] = &plan.Transform{Type: plan.TransformRowNumber}
	case 2:
		p.OutputColumns = append(p.OutputColumns, "total")
		p.Transforms["total"] = &plan.Transform{Type: plan.TransformPrefixAgg, Op: "sum", Source: "num", A: 1, B: 0}
	case 3:
		p.OutputColumns = append(p.OutputColumns, "loud")
		p.Transforms["loud"] = &plan.Transform{Type: plan.TransformUpper, Source: "id"}
	}
	return p
}

// TestSynthesizeRoundTripProperty tests the round-trip law over generated
// plans: simulating a random plan yields a sample pair that synthesis must
// solve with a validated plan whose replay reproduces the simulated output
func TestSynthesizeRoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(20260830))
	engine := synth.NewEngine(nil)

	for iter := 0; iter < 32; iter++ {
		input, nums := propInput(rng)
		generated := propPlan(iter, rng, nums)
		want := plan.Simulate(generated, input)
		require.NotEmpty(t, want.Rows, "iteration %d produced an empty sample", iter)

		got := engine.Synthesize(input, want)
		require.True(t, got.Validated,
			"iteration %d: no validated plan for a simulable sample (filter=%d neighbors=%d cols=%v)",
			iter, len(generated.Filter), len(generated.NeighborRules), generated.OutputColumns)
		assert.True(t, plan.Matches(plan.Simulate(got, input), want), "iteration %d replay diverged", iter)
	}
}
