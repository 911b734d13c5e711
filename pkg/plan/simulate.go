/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: simulate.go
Description: Plan replay for the tablesynth engine. Applies a plan's filter,
neighbor rules, and per-column transforms to a full input table and compares the
result against an expected output under tolerant cell equality. Replay is the
sole acceptance gate for synthesized plans.
*/

package plan

import "github.com/kleascm/tablesynth/pkg/table"

// KeptIndices applies the plan's filter conditions and neighbor rules to the
// full input and returns the surviving row indices in original order. Neighbor
// rules always resolve against the original unfiltered row order.
func KeptIndices(p *Plan, input *table.Table) []int {
	kept := make([]int, 0, len(input.Rows))
	for idx, row := range input.Rows {
		if !RowPasses(p.Filter, row) {
			continue
		}
		if !NeighborOK(p.NeighborRules, input.Rows, idx) {
			continue
		}
		kept = append(kept, idx)
	}
	return kept
}

// Simulate replays the plan over the full input table and returns the produced
// output table. Every stateful transform runs over the kept-row sequence with
// fresh state.
func Simulate(p *Plan, input *table.Table) *table.Table {
	keptRows := input.Select(KeptIndices(p, input))
	columns := make(map[string][]table.Value, len(p.OutputColumns))
	for _, col := range p.OutputColumns {
		t := p.Transforms[col]
		if t == nil {
			t = &Transform{Type: TransformConstant, Value: table.NullValue()}
		}
		columns[col] = ComputeSequence(t, keptRows)
	}
	rows := make([]table.Row, len(keptRows))
	for i := range keptRows {
		row := make(table.Row, len(p.OutputColumns))
		for _, col := range p.OutputColumns {
			row[col] = columns[col][i].Normalize()
		}
		rows[i] = row
	}
	return &table.Table{Columns: append([]string(nil), p.OutputColumns...), Rows: rows}
}

// Matches reports whether the simulated table reproduces the expected output:
// same row count, and every cell equal under tolerant equality. Column order
// differences do not matter; cells are compared by column name.
func Matches(simulated, expected *table.Table) bool {
	if len(simulated.Rows) != len(expected.Rows) {
		return false
	}
	for i, want := range expected.Rows {
		got := simulated.Rows[i]
		for _, col := range expected.Columns {
			if !table.Equal(got.Get(col), want.Get(col)) {
				return false
			}
		}
	}
	return true
}

// Validate simulates the plan against the sample pair and stamps the verdict
// onto the plan
func Validate(p *Plan, input, expected *table.Table) bool {
	p.Validated = Matches(Simulate(p, input), expected)
	return p.Validated
}
