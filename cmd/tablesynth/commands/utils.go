/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for tablesynth commands. Provides common
configuration loading, logging setup, and sample loading used across all
command implementations.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/tablesynth/pkg/loader"
	"github.com/kleascm/tablesynth/pkg/logging"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TABLESYNTH")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system from viper settings
func SetupLogging() (*logging.Logger, error) {
	format := logging.LogFormat(viper.GetString("log_format"))
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Caller:    false,
		Colors:    true,
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	logger, err := logging.NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// loadSamplePair locates and loads the input/output sample pair from a
// directory. Returns the input table, the expected output table, and the
// sample file extension.
func loadSamplePair(sampleDir string) (*table.Table, *table.Table, string, error) {
	ext, inputPath, outputPath, err := loader.FindSampleFiles(sampleDir)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to locate sample pair: %w", err)
	}

	input, err := loader.LoadTable(inputPath, ext)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load input sample: %w", err)
	}

	output, err := loader.LoadTable(outputPath, ext)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load output sample: %w", err)
	}

	return input, output, ext, nil
}
