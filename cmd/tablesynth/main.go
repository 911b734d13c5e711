/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for tablesynth. Provides commands for
synthesizing preprocessing modules from sample tables, inspecting and validating
plans, and listing the available inference strategies.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/tablesynth/cmd/tablesynth/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Sample configuration
	sampleDir    string
	outputDir    string
	lang         string
	writeMetrics bool
	reportDir    string

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "tablesynth",
		Short: "tablesynth - Preprocessing module synthesis from sample tables",
		Long: `tablesynth infers a complete row-level preprocessing pipeline from a single
pair of sample tables: the raw input and the desired output. It discovers row
filters, row alignment, and per-column transforms (including stateful ones like
running sums, ranks, and toggles), validates the inferred plan by exact replay,
and emits a standalone preprocessor module in the target language.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))

	// Add synth command
	synthCmd := &cobra.Command{
		Use:   "synth [module-name]",
		Short: "Synthesize a preprocessor module from a sample pair",
		Long: `Synthesize a preprocessing plan from a sample directory containing an
input.<ext> / output.<ext> pair and emit it as a standalone module in the
target language. The plan is validated by replaying it against the full
sample input before emission.`,
		Args: cobra.MaximumNArgs(1),
		RunE: commands.PerformSynthesis,
	}

	// Add synth command flags
	synthCmd.Flags().StringVar(&sampleDir, "sample", "", "Directory containing input/output sample pair (required)")
	synthCmd.Flags().StringVar(&outputDir, "output", "./generated", "Directory for emitted modules")
	synthCmd.Flags().StringVar(&lang, "lang", "python", "Target language (python, javascript)")
	synthCmd.Flags().BoolVar(&writeMetrics, "metrics", false, "Write a synthesis run record to the metrics directory")
	synthCmd.MarkFlagRequired("sample")

	viper.BindPFlag("sample_dir", synthCmd.Flags().Lookup("sample"))
	viper.BindPFlag("output_dir", synthCmd.Flags().Lookup("output"))
	viper.BindPFlag("lang", synthCmd.Flags().Lookup("lang"))
	viper.BindPFlag("metrics", synthCmd.Flags().Lookup("metrics"))

	rootCmd.AddCommand(synthCmd)

	// Add plan command for inspecting the inferred plan without emission
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Infer a plan from a sample pair and print it as JSON",
		Long: `Run plan synthesis on a sample directory and print the inferred plan as
JSON without emitting a module. Useful for inspecting what the engine
discovered before committing to a target language.`,
		RunE: commands.PerformPlanDump,
	}

	planCmd.Flags().StringVar(&sampleDir, "sample", "", "Directory containing input/output sample pair (required)")
	planCmd.MarkFlagRequired("sample")

	viper.BindPFlag("sample_dir", planCmd.Flags().Lookup("sample"))

	rootCmd.AddCommand(planCmd)

	// Add validate command for replaying a plan against its sample
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Replay the inferred plan against the sample and show differences",
		Long: `Infer a plan from the sample pair, replay it against the full sample
input, and compare the simulated output against the expected output cell by
cell. Prints a structured diff when the replay diverges.`,
		RunE: commands.PerformPlanValidation,
	}

	validateCmd.Flags().StringVar(&sampleDir, "sample", "", "Directory containing input/output sample pair (required)")
	validateCmd.MarkFlagRequired("sample")

	viper.BindPFlag("sample_dir", validateCmd.Flags().Lookup("sample"))

	rootCmd.AddCommand(validateCmd)

	// Add report command for HTML plan summaries
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Infer a plan from a sample pair and render an HTML report",
		Long: `Run plan synthesis on a sample directory and write an HTML report
summarizing the inferred plan: validation status, row alignment, filter
conditions, neighbor rules, and per-column transforms.`,
		RunE: commands.PerformReport,
	}

	reportCmd.Flags().StringVar(&sampleDir, "sample", "", "Directory containing input/output sample pair (required)")
	reportCmd.Flags().StringVar(&reportDir, "report-dir", "./report", "Directory for the generated report")
	reportCmd.MarkFlagRequired("sample")

	viper.BindPFlag("sample_dir", reportCmd.Flags().Lookup("sample"))
	viper.BindPFlag("report_dir", reportCmd.Flags().Lookup("report-dir"))

	rootCmd.AddCommand(reportCmd)

	// Add list-strategies command
	listStrategiesCmd := &cobra.Command{
		Use:   "list-strategies",
		Short: "List available inference strategies and their capabilities",
		Long: `List all transform inference strategies in the order the engine tries
them, with descriptions of the transform families each one covers.`,
		Run: func(cmd *cobra.Command, args []string) {
			commands.ListStrategies(cmd, args)
		},
	}
	rootCmd.AddCommand(listStrategiesCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
