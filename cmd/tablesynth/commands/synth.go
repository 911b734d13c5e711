/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: synth.go
Description: Synthesis command implementation for tablesynth. Loads a sample
input/output pair, infers a validated preprocessing plan, and emits it as a
standalone module in the target language.
*/

package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kleascm/tablesynth/pkg/render"
	"github.com/kleascm/tablesynth/pkg/synth"
	"github.com/kleascm/tablesynth/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformSynthesis infers a plan from the sample pair and emits a module
func PerformSynthesis(cmd *cobra.Command, args []string) error {
	fmt.Println("🧬 tablesynth - Module Synthesis")
	fmt.Println("================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging for synthesis
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	sampleDir := viper.GetString("sample_dir")
	outputDir := viper.GetString("output_dir")
	lang := viper.GetString("lang")

	moduleName := "preprocessor"
	if len(args) > 0 {
		moduleName = args[0]
	}

	fmt.Printf("📁 Sample directory: %s\n", sampleDir)
	fmt.Printf("🎯 Target language: %s\n", lang)
	fmt.Printf("📦 Module name: %s\n", moduleName)
	fmt.Println()

	if _, ok := render.Renderers()[lang]; !ok {
		return fmt.Errorf("unsupported language: %s", lang)
	}

	// Load the sample pair
	input, output, ext, err := loadSamplePair(sampleDir)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Loaded sample pair (.%s): %d input rows, %d output rows\n",
		ext, len(input.Rows), len(output.Rows))
	fmt.Println()

	// Perform plan synthesis
	fmt.Println("🧠 Synthesizing preprocessing plan...")
	startTime := time.Now()

	engine := synth.NewEngine(logger.GetLogger())
	p := engine.Synthesize(input, output)
	p.Ext = ext

	synthTime := time.Since(startTime)
	fmt.Printf("✅ Synthesis completed in %v\n", synthTime)
	fmt.Println()

	// Display results
	fmt.Println("📋 Inferred Plan")
	fmt.Println("================")
	fmt.Printf("Plan ID: %s\n", p.ID)
	fmt.Printf("Output Columns: %v\n", p.OutputColumns)
	fmt.Printf("Transforms: %d\n", len(p.Transforms))
	fmt.Printf("Filter Conditions: %d\n", len(p.Filter))
	fmt.Printf("Neighbor Rules: %d\n", len(p.NeighborRules))
	fmt.Println()

	if !p.Validated {
		fmt.Println("⚠️  Plan did not validate against the sample; emitting best-effort module.")
		fmt.Println("   The generated module may not reproduce the expected output exactly.")
		fmt.Println()
	}

	logger.LogSynthesis(p.ID, p.Validated, len(p.Transforms), map[string]interface{}{
		"sample_dir": sampleDir,
		"input_rows": len(input.Rows),
	})

	// Emit the module
	if err := render.Render(p, lang, moduleName, outputDir); err != nil {
		return fmt.Errorf("failed to render module: %w", err)
	}

	modulePath := filepath.Join(outputDir, moduleName)
	logger.LogRender(p.ID, lang, modulePath, nil)

	// Optionally record the run for later analysis
	if viper.GetBool("metrics") {
		record := &utils.RunRecord{
			PlanID:     p.ID,
			Validated:  p.Validated,
			SampleDir:  sampleDir,
			InputRows:  len(input.Rows),
			OutputRows: len(output.Rows),
			Lang:       lang,
			ModulePath: modulePath,
			DurationMS: synthTime.Milliseconds(),
			Version:    cmd.Root().Version,
		}
		metricsPath, err := utils.WriteRunRecord(record)
		if err != nil {
			logger.Warning("Failed to write metrics record", map[string]interface{}{"error": err.Error()})
		} else {
			fmt.Printf("📈 Metrics record written to: %s\n", metricsPath)
		}
	}

	fmt.Printf("💾 Module written to: %s\n", modulePath)
	fmt.Println("\n✨ Synthesis completed!")

	return nil
}
