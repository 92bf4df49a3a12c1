// =============================================================================
// Lançamentos Consolidator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults (applyMainConfigDefaults)
//   2. The YAML file given with --config (default: config.yaml)
//   3. Environment variables LANCAMENTOS_*, optionally loaded from a .env file
//
// A missing config file is only an error when the path was set explicitly;
// without one the tool runs on defaults.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where file outputs (csv, json, xml, xlsx) are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputFormat is the default report format: table, csv, json, xml or xlsx.
	// Default: "table"
	OutputFormat string `yaml:"output_format"`

	// FileNameFormat names file outputs. Placeholders:
	//   {uuid}      - the run ID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - current date (YYYYMMDD)
	//   {original}  - input file name without extension ("stdin" for stdin)
	// The extension of the chosen format is appended when missing.
	// Default: "resumo_{original}_{timestamp}"
	FileNameFormat string `yaml:"file_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of input files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing the remaining files when one fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// Input holds the settings for reading raw text.
	Input InputSettings `yaml:"input"`

	// Reconstruction holds the line-joining heuristics.
	Reconstruction ReconstructionSettings `yaml:"reconstruction"`

	// Classification holds the category rules.
	Classification ClassificationSettings `yaml:"classification"`

	// Validation tunes the post-run diagnostics.
	Validation ValidationSettings `yaml:"validation"`

	// Server holds the settings of the serve command.
	Server ServerSettings `yaml:"server"`
}

// InputSettings contains settings for reading input text.
type InputSettings struct {
	// Encoding is the character encoding of input files and stdin.
	// Common values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// ReconstructionSettings tunes the line reconstructor.
type ReconstructionSettings struct {
	// FooterMarkers are substrings that identify page footers.
	// Default: ["CÁLCULO LIQUIDADO", "VERSÃO", "PÁG"]
	FooterMarkers []string `yaml:"footer_markers"`

	// MinNumericTokens is the number of numeric tokens that closes a row.
	// Default: 3
	MinNumericTokens int `yaml:"min_numeric_tokens"`
}

// ClassificationSettings replaces the built-in category rules.
// When both are set, RulesWorkbook wins.
type ClassificationSettings struct {
	// Rules are evaluated in the order listed.
	Rules []RuleConfig `yaml:"rules"`

	// RulesWorkbook is an XLSX file with "Categoria | Palavra-chave" rows.
	RulesWorkbook string `yaml:"rules_workbook,omitempty"`
}

// RuleConfig is one category rule as written in YAML.
type RuleConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// ValidationSettings tunes the diagnostics run after each statement.
type ValidationSettings struct {
	// Strict rejects a run that has warnings, such as an amount that could
	// not be parsed and counted as zero.
	// Default: false
	Strict bool `yaml:"strict"`

	// SkipInfo leaves info-level issues (dropped rows, empty descriptions)
	// out of results, reports and issue logs.
	// Default: false
	SkipInfo bool `yaml:"skip_info"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxBodyBytes caps the size of pasted text.
	// Default: 2 MiB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// ShouldContinueOnError reports the effective ContinueOnError setting.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: Whether a missing file is an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, required bool) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides reads LANCAMENTOS_* variables, loading .env first when
// present. Variables already set in the environment are not overwritten by .env.
func applyEnvOverrides(config *MainConfig) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if v := os.Getenv("LANCAMENTOS_OUTPUT_DIR"); v != "" {
		config.OutputDir = v
	}
	if v := os.Getenv("LANCAMENTOS_OUTPUT_FORMAT"); v != "" {
		config.OutputFormat = v
	}
	if v := os.Getenv("LANCAMENTOS_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("LANCAMENTOS_ENCODING"); v != "" {
		config.Input.Encoding = v
	}
	if v := os.Getenv("LANCAMENTOS_RULES_WORKBOOK"); v != "" {
		config.Classification.RulesWorkbook = v
	}
	if v := os.Getenv("LANCAMENTOS_SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv("LANCAMENTOS_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LANCAMENTOS_STRICT: %w", err)
		}
		config.Validation.Strict = strict
	}
	if v := os.Getenv("LANCAMENTOS_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LANCAMENTOS_MAX_CONCURRENCY: %w", err)
		}
		config.MaxConcurrency = n
	}

	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "table"
	}
	if config.FileNameFormat == "" {
		config.FileNameFormat = "resumo_{original}_{timestamp}"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.Input.Encoding == "" {
		config.Input.Encoding = "UTF-8"
	}
	if len(config.Reconstruction.FooterMarkers) == 0 {
		config.Reconstruction.FooterMarkers = []string{"CÁLCULO LIQUIDADO", "VERSÃO", "PÁG"}
	}
	if config.Reconstruction.MinNumericTokens == 0 {
		config.Reconstruction.MinNumericTokens = 3
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.MaxBodyBytes == 0 {
		config.Server.MaxBodyBytes = 2 << 20
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", config.LogLevel)
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}
	if config.Reconstruction.MinNumericTokens < 1 {
		return fmt.Errorf("reconstruction.min_numeric_tokens must be at least 1, got %d", config.Reconstruction.MinNumericTokens)
	}
	if config.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", config.Server.MaxBodyBytes)
	}

	for i, rule := range config.Classification.Rules {
		if _, ok := types.ParseCategory(rule.Category); !ok {
			return fmt.Errorf("classification.rules[%d]: unknown category %q", i, rule.Category)
		}
	}

	if wb := config.Classification.RulesWorkbook; wb != "" {
		if _, err := os.Stat(wb); err != nil {
			return fmt.Errorf("classification.rules_workbook: %w", err)
		}
	}

	return nil
}
