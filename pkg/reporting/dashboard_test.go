/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard_test.go
Description: Tests for HTML plan report generation. Covers the display model
assembly and the rendered report file.
*/

package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportPlan() *plan.Plan {
	return &plan.Plan{
		ID:            "plan-1",
		Ext:           "csv",
		OutputColumns: []string{"name", "total"},
		Transforms: map[string]*plan.Transform{
			"name": {Type: plan.TransformCopy, Source: "name"},
			"total": {
				Type: plan.TransformPrefixAgg, Op: "sum", Source: "val",
				A: 1, B: 0, Partition: []string{"cat"},
			},
		},
		Filter: []*plan.Condition{
			{Column: "val", Op: ">", Value: table.IntValue(0)},
		},
		NeighborRules: []*plan.NeighborRule{
			{Type: plan.NeighborMatch, Offset: -1, Column: "name"},
		},
		Alignment: []int{0, 2},
		Validated: true,
	}
}

func reportTables() (*table.Table, *table.Table) {
	input := &table.Table{
		Columns: []string{"name", "cat", "val"},
		Rows: []table.Row{
			{"name": table.StringValue("a"), "cat": table.StringValue("x"), "val": table.IntValue(1)},
			{"name": table.StringValue("b"), "cat": table.StringValue("x"), "val": table.IntValue(-1)},
			{"name": table.StringValue("c"), "cat": table.StringValue("y"), "val": table.IntValue(2)},
		},
	}
	output := &table.Table{
		Columns: []string{"name", "total"},
		Rows: []table.Row{
			{"name": table.StringValue("a"), "total": table.IntValue(1)},
			{"name": table.StringValue("c"), "total": table.IntValue(2)},
		},
	}
	return input, output
}

// TestBuildReportData tests the display model assembly
func TestBuildReportData(t *testing.T) {
	input, output := reportTables()
	data := BuildReportData(reportPlan(), input, output)

	assert.Equal(t, "plan-1", data.PlanID)
	assert.True(t, data.Validated)
	assert.Equal(t, 3, data.InputRows)
	assert.Equal(t, 2, data.OutputRows)
	assert.Equal(t, "[0, 2]", data.Alignment)

	require.Len(t, data.Transforms, 2)
	assert.Equal(t, "name", data.Transforms[0].Column)
	assert.Equal(t, "copy of name", data.Transforms[0].Detail)
	assert.Equal(t, "running sum of val per cat", data.Transforms[1].Detail)

	require.Len(t, data.Filter, 1)
	assert.Equal(t, "val > 0", data.Filter[0])

	require.Len(t, data.Neighbors, 1)
	assert.Contains(t, data.Neighbors[0], "previous")
}

// TestGenerateReport tests the rendered report file
func TestGenerateReport(t *testing.T) {
	dir := t.TempDir()
	input, output := reportTables()

	generator := NewReportGenerator(dir, logrus.New())
	require.NoError(t, generator.GenerateReport(BuildReportData(reportPlan(), input, output)))

	content, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "plan-1")
	assert.Contains(t, html, "Validated by exact replay")
	assert.Contains(t, html, "running sum of val per cat")
	assert.Contains(t, html, "[0, 2]")
}
