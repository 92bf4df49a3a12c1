// =============================================================================
// Lançamentos Consolidator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   lancamentos validate [--config config.yaml]
//
// Checks the configuration without processing anything: the file itself
// (already loaded by the root command), the output format, the input
// encoding and the classification rules.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/converter"
	"github.com/ginjaninja78/lancamentos/internal/report"
	"github.com/ginjaninja78/lancamentos/internal/textinput"
	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), appConfig)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, cfg *config.MainConfig) error {
	if _, err := report.ParseFormat(cfg.OutputFormat); err != nil {
		return fmt.Errorf("output_format: %w", err)
	}
	if err := textinput.ValidateEncoding(cfg.Input.Encoding); err != nil {
		return fmt.Errorf("input.encoding: %w", err)
	}

	cls, err := converter.LoadClassifier(cfg)
	if err != nil {
		return fmt.Errorf("classification: %w", err)
	}

	keywords := 0
	for _, rule := range cls.Rules() {
		keywords += len(rule.Keywords)
	}

	fmt.Fprintln(w, "Configuration OK")
	fmt.Fprintf(w, "  Output:      %s -> %s\n", cfg.OutputFormat, cfg.OutputDir)
	fmt.Fprintf(w, "  Encoding:    %s\n", cfg.Input.Encoding)
	fmt.Fprintf(w, "  Rules:       %d categories, %d keywords\n", len(cls.Rules()), keywords)
	fmt.Fprintf(w, "  Concurrency: %d\n", cfg.MaxConcurrency)
	return nil
}
