/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: HTML report generation for the tablesynth engine. Renders a
synthesized plan as a standalone web report with the committed alignment, filter
conditions, neighbor rules, and per-column transform summaries.
*/

package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/sirupsen/logrus"
)

// ReportGenerator creates HTML plan reports
type ReportGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// ReportData contains all data for report generation
type ReportData struct {
	Title         string    `json:"title"`
	GeneratedAt   time.Time `json:"generated_at"`
	PlanID        string    `json:"plan_id"`
	Ext           string    `json:"ext"`
	Validated     bool      `json:"validated"`
	InputRows     int       `json:"input_rows"`
	OutputRows    int       `json:"output_rows"`
	InputColumns  []string  `json:"input_columns"`
	OutputColumns []string  `json:"output_columns"`
	Alignment     string    `json:"alignment"`

	Transforms []TransformSummary `json:"transforms"`
	Filter     []string           `json:"filter"`
	Neighbors  []string           `json:"neighbors"`
}

// TransformSummary is one output column's transform in display form
type TransformSummary struct {
	Column string `json:"column"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(outputDir string, logger *logrus.Logger) *ReportGenerator {
	return &ReportGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// BuildReportData assembles the display model for a synthesized plan
func BuildReportData(p *plan.Plan, input, output *table.Table) *ReportData {
	data := &ReportData{
		Title:         "Synthesis Report",
		GeneratedAt:   time.Now(),
		PlanID:        p.ID,
		Ext:           p.Ext,
		Validated:     p.Validated,
		InputRows:     len(input.Rows),
		OutputRows:    len(output.Rows),
		InputColumns:  input.Columns,
		OutputColumns: p.OutputColumns,
		Alignment:     formatAlignment(p.Alignment),
	}
	for _, col := range p.OutputColumns {
		tr := p.Transforms[col]
		if tr == nil {
			continue
		}
		data.Transforms = append(data.Transforms, TransformSummary{
			Column: col,
			Type:   string(tr.Type),
			Detail: describeTransform(tr),
		})
	}
	for _, cond := range p.Filter {
		data.Filter = append(data.Filter, describeCondition(cond))
	}
	for _, rule := range p.NeighborRules {
		data.Neighbors = append(data.Neighbors, describeNeighborRule(rule))
	}
	return data
}

// GenerateReport writes the report HTML under the output directory
func (rg *ReportGenerator) GenerateReport(data *ReportData) error {
	if err := os.MkdirAll(rg.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputFile := filepath.Join(rg.outputDir, "index.html")
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := rg.templates.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	rg.logger.Infof("Report generated successfully in: %s", rg.outputDir)
	return nil
}

func formatAlignment(alignment []int) string {
	if len(alignment) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, len(alignment))
	for _, idx := range alignment {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func describeTransform(tr *plan.Transform) string {
	switch tr.Type {
	case plan.TransformConstant:
		return fmt.Sprintf("constant %s", tr.Value.Canonical())
	case plan.TransformCopy:
		return fmt.Sprintf("copy of %s", tr.Source)
	case plan.TransformStrip, plan.TransformLower, plan.TransformUpper:
		return fmt.Sprintf("%s(%s)", tr.Type, tr.Source)
	case plan.TransformPrefix:
		return fmt.Sprintf("%q + %s", tr.Prefix, tr.Source)
	case plan.TransformSuffix:
		return fmt.Sprintf("%s + %q", tr.Source, tr.Suffix)
	case plan.TransformLinear:
		return fmt.Sprintf("%g * %s + %g", tr.A, tr.Source, tr.B)
	case plan.TransformConcat:
		return fmt.Sprintf("concat(%s, %q, order=%s)", strings.Join(tr.Sources, ", "), tr.Delimiter, tr.Order)
	case plan.TransformBucket:
		return fmt.Sprintf("bucket of %s over %d thresholds", tr.Source, len(tr.Thresholds))
	case plan.TransformRowNumber:
		return fmt.Sprintf("row number%s", describePartition(tr.Partition))
	case plan.TransformRank, plan.TransformDenseRank:
		dir := "descending"
		if tr.Ascending {
			dir = "ascending"
		}
		return fmt.Sprintf("%s by %s %s%s", tr.Type, tr.OrderBy, dir, describePartition(tr.Partition))
	case plan.TransformPrefixAgg:
		return fmt.Sprintf("running %s of %s%s", tr.Op, tr.Source, describePartition(tr.Partition))
	case plan.TransformWindow:
		if tr.Centered {
			return fmt.Sprintf("centered %s of %s (-%d..+%d)%s", tr.Op, tr.Source, tr.Before, tr.After, describePartition(tr.Partition))
		}
		return fmt.Sprintf("trailing %s of %s over %d rows%s", tr.Op, tr.Source, tr.Window, describePartition(tr.Partition))
	case plan.TransformResetSum:
		return fmt.Sprintf("resetting sum of %s when %s%s", tr.Source, describeCondition(tr.Predicate), describePartition(tr.Partition))
	case plan.TransformState:
		return fmt.Sprintf("counter from %s stepping %g when %s%s", tr.Initial.Canonical(), tr.Step, describeCondition(tr.Predicate), describePartition(tr.Partition))
	case plan.TransformToggle:
		return fmt.Sprintf("toggle from %s when %s%s", tr.Initial.Canonical(), describeCondition(tr.Predicate), describePartition(tr.Partition))
	}
	return string(tr.Type)
}

func describePartition(partition []string) string {
	if len(partition) == 0 {
		return ""
	}
	return " per " + strings.Join(partition, ", ")
}

func describeCondition(cond *plan.Condition) string {
	if cond == nil {
		return "(none)"
	}
	switch cond.Kind {
	case plan.KindChange:
		return fmt.Sprintf("%s changes", cond.Column)
	case plan.KindDeltaGE:
		return fmt.Sprintf("|Δ%s| >= %g", cond.Column, cond.Delta)
	}
	if cond.Op == "in" {
		vals := make([]string, 0, len(cond.Values))
		for _, v := range cond.Values {
			vals = append(vals, v.Canonical())
		}
		return fmt.Sprintf("%s in {%s}", cond.Column, strings.Join(vals, ", "))
	}
	return fmt.Sprintf("%s %s %s", cond.Column, cond.Op, cond.Value.Canonical())
}

func describeNeighborRule(rule *plan.NeighborRule) string {
	side := "next"
	if rule.Offset < 0 {
		side = "previous"
	}
	switch rule.Type {
	case plan.NeighborMatch:
		return fmt.Sprintf("drop when %s equals the %s row's %s", rule.Column, side, rule.Column)
	case plan.NeighborCompare:
		return fmt.Sprintf("keep when %s %s the %s row's %s", rule.Column, rule.Op, side, rule.NeighborColumn)
	case plan.NeighborValue:
		return fmt.Sprintf("drop when the %s row's %s %s %s", side, rule.Column, rule.Op, rule.Value.Canonical())
	}
	return rule.Type
}
