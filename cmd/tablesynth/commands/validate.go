/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Plan validation command implementation for tablesynth. Replays the
inferred plan against the full sample input and shows a structured diff of the
simulated output against the expected output.
*/

package commands

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/synth"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformPlanValidation replays the inferred plan and diffs it against the sample
func PerformPlanValidation(cmd *cobra.Command, args []string) error {
	fmt.Println("🧬 tablesynth - Plan Validation")
	fmt.Println("===============================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	sampleDir := viper.GetString("sample_dir")

	fmt.Printf("📁 Sample directory: %s\n", sampleDir)
	fmt.Println()

	// Load the sample pair
	input, output, ext, err := loadSamplePair(sampleDir)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Loaded sample pair (.%s): %d input rows, %d output rows\n",
		ext, len(input.Rows), len(output.Rows))
	fmt.Println()

	// Perform plan synthesis
	engine := synth.NewEngine(logger.GetLogger())
	p := engine.Synthesize(input, output)
	p.Ext = ext

	// Replay the plan against the full sample input
	fmt.Println("🔁 Replaying plan against sample input...")
	simulated := plan.Simulate(p, input)

	if plan.Matches(simulated, output) {
		fmt.Printf("✅ Replay matches the expected output (%d rows)\n", len(output.Rows))
		return nil
	}

	fmt.Println("❌ Replay diverges from the expected output")
	fmt.Println()

	// Diff canonical cell values so numeric spellings compare cleanly
	got := canonicalMatrix(simulated, p.OutputColumns)
	want := canonicalMatrix(output, p.OutputColumns)

	fmt.Println("📝 Difference (-expected +simulated):")
	fmt.Println(cmp.Diff(want, got))

	return fmt.Errorf("plan replay diverged from expected output")
}

// canonicalMatrix flattens a table into canonical cell strings, row-major over
// the given column order
func canonicalMatrix(t *table.Table, columns []string) [][]string {
	matrix := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, row.Get(col).Canonical())
		}
		matrix = append(matrix, cells)
	}
	return matrix
}
