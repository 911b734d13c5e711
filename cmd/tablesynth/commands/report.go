/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Report command implementation for tablesynth. Infers a plan from
the sample pair and renders an HTML report summarizing the alignment, filter,
neighbor rules, and per-column transforms.
*/

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/kleascm/tablesynth/pkg/reporting"
	"github.com/kleascm/tablesynth/pkg/synth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformReport infers a plan and writes an HTML report for it
func PerformReport(cmd *cobra.Command, args []string) error {
	fmt.Println("🧬 tablesynth - Plan Report")
	fmt.Println("===========================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging for report generation
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	sampleDir := viper.GetString("sample_dir")
	reportDir := viper.GetString("report_dir")

	input, output, ext, err := loadSamplePair(sampleDir)
	if err != nil {
		return err
	}

	engine := synth.NewEngine(logger.GetLogger())
	p := engine.Synthesize(input, output)
	p.Ext = ext

	generator := reporting.NewReportGenerator(reportDir, logger.GetLogger())
	data := reporting.BuildReportData(p, input, output)
	if err := generator.GenerateReport(data); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	fmt.Printf("📊 Report written to: %s\n", filepath.Join(reportDir, "index.html"))
	if !p.Validated {
		fmt.Println("⚠️  Plan did not validate against the sample; report shows the best-effort plan.")
	}

	return nil
}
