/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: plan.go
Description: Plan inspection command implementation for tablesynth. Infers a
plan from a sample pair and prints it as JSON without emitting a module.
*/

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/kleascm/tablesynth/pkg/synth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformPlanDump infers a plan from the sample pair and prints it as JSON
func PerformPlanDump(cmd *cobra.Command, args []string) error {
	fmt.Println("🧬 tablesynth - Plan Inspection")
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

	if !p.Validated {
		fmt.Println("⚠️  Plan did not validate against the sample; showing best-effort plan.")
		fmt.Println()
	}

	// Pretty print the plan
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	fmt.Println(string(data))

	return nil
}
