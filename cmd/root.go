// =============================================================================
// Lançamentos Consolidator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (lancamentos)
//   ├── processCmd  (lancamentos process)
//   ├── serveCmd    (lancamentos serve)
//   ├── rulesCmd    (lancamentos rules)
//   ├── validateCmd (lancamentos validate)
//   └── versionCmd  (lancamentos version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/logger"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded by PersistentPreRunE.
var appConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lancamentos",
	Short: "Lançamentos Consolidator - Summarise pasted liquidation statements by category",
	Long: `Lançamentos Consolidator reads the text of a labour-court liquidation
statement ("cálculo liquidado"), rebuilds the rows broken by copy and paste,
takes the total of each row and sums it into one of six categories:

  INDENIZAÇÕES, HORAS EXTRAS, ADICIONAIS DIVERSOS, DIFERENÇAS SALARIAIS,
  HONORÁRIOS and DEMAIS AÇÕES, followed by TOTAL GERAL.

Example Usage:
  lancamentos process --file extrato.txt          # Summary table on stdout
  pbpaste | lancamentos process                   # Read the statement from stdin
  lancamentos process --format xlsx ./extratos    # One workbook per file
  lancamentos serve --addr :8080                  # HTTP paste endpoint
  lancamentos rules                               # Show the classification rules`,

	SilenceUsage: true,

	// PersistentPreRunE loads the configuration for every subcommand and puts
	// the application logger in the command context.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return fmt.Errorf("failed to load main config: %w", err)
		}
		appConfig = cfg

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log := logger.New(level)
		log.Debug().Str("config", cfgFile).Msg("configuration loaded")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logger.WithContext(ctx, log))

		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: a missing file is only an error when the flag is given.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
