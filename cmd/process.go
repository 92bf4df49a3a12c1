// =============================================================================
// Lançamentos Consolidator - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// runs the pipeline over one or more statements and renders the summaries.
//
// COMMAND USAGE:
//   lancamentos process [file|dir|-]... [flags]
//
// FLAGS:
//   --file, -f    : Input file, repeatable ("-" is stdin)
//   --format      : table, csv, json, xml or xlsx (default from config)
//   --output-dir  : Where file formats are written (default from config)
//   --entries     : Also render the categorised entries
//   --dry-run     : Run the pipeline without writing output files
//   --no-color    : Disable colours in the table format
//
// PROCESSING PIPELINE:
//   1. Resolve inputs (directories expand to their *.txt and *.pdf files;
//      no input at all means stdin)
//   2. Build the classifier from the configured rules
//   3. For each input (concurrently, bounded by max_concurrency):
//      a. Read and decode the text (PDF text layer for .pdf)
//      b. Run the pipeline
//      c. Write the output file for file formats
//   4. Print the results in input order
//   5. Write the processing summary log when files were written
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/converter"
	"github.com/ginjaninja78/lancamentos/internal/logger"
	"github.com/ginjaninja78/lancamentos/internal/report"
	"github.com/ginjaninja78/lancamentos/internal/textinput"
	"github.com/ginjaninja78/lancamentos/internal/validation"
	"github.com/ginjaninja78/lancamentos/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFiles   []string
	outputFormat string
	outputDir    string
	showEntries  bool
	dryRun       bool
	noColor      bool
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process [file|dir|-]...",
	Short: "Summarise one or more statements",
	Long: `The process command reads each statement, rebuilds its rows, classifies
every row total and prints the summary per category.

Inputs are files, directories (every *.txt and *.pdf inside) or "-" for
stdin. Without any input the statement is read from stdin.

The table format prints to stdout. The csv, json, xml and xlsx formats write
one file per input into the output directory, named after file_name_format.

Each input is processed independently; with continue_on_error (the default)
a failing input does not stop the others.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts := processOptions{
			Inputs:    append(append([]string{}, inputFiles...), args...),
			Format:    outputFormat,
			OutputDir: outputDir,
			Entries:   showEntries,
			DryRun:    dryRun,
			Color:     !noColor && !color.NoColor,
		}
		streams := processStreams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
		return runProcess(cmd.Context(), appConfig, logger.FromContext(cmd.Context()), opts, streams)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringArrayVarP(&inputFiles, "file", "f", nil, `Input file, repeatable ("-" reads stdin)`)
	processCmd.Flags().StringVar(&outputFormat, "format", "", "Output format: table, csv, json, xml, xlsx (default from config)")
	processCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for file outputs (default from config)")
	processCmd.Flags().BoolVar(&showEntries, "entries", false, "Also render the categorised entries")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without writing output files")
	processCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colours in the table format")
}

// =============================================================================
// OPTIONS
// =============================================================================

type processOptions struct {
	Inputs    []string
	Format    string
	OutputDir string
	Entries   bool
	DryRun    bool
	Color     bool
}

type processStreams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// fileOutcome is what processing one input produced.
type fileOutcome struct {
	index  int
	path   string
	output string
	result converter.Result
	err    error
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the pipeline over every input.
func runProcess(ctx context.Context, cfg *config.MainConfig, log zerolog.Logger, opts processOptions, streams processStreams) error {
	startTime := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	// =========================================================================
	// STEP 1: RESOLVE SETTINGS AND INPUTS
	// =========================================================================

	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.OutputFormat
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if err := textinput.ValidateEncoding(cfg.Input.Encoding); err != nil {
		return err
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	fm := utils.NewFileManager(dir)

	inputs := opts.Inputs
	if len(inputs) == 0 {
		inputs = []string{textinput.StdinName}
	}
	inputs, err = fm.ExpandInputs(inputs)
	if err != nil {
		return fmt.Errorf("failed to resolve inputs: %w", err)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(streams.Err, "No input files found.")
		return nil
	}
	if countStdin(inputs) > 1 {
		return errors.New(`stdin ("-") can only be read once`)
	}

	writeFiles := format != report.FormatTable && !opts.DryRun
	if writeFiles {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 2: BUILD THE PIPELINE
	// =========================================================================

	cls, err := converter.LoadClassifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to load classification rules: %w", err)
	}
	conv := converter.New(cfg, cls, logger.Printf{L: log})

	log.Debug().Int("inputs", len(inputs)).Str("format", string(format)).Msg("processing")

	// =========================================================================
	// STEP 3: PROCESS INPUTS CONCURRENTLY
	// =========================================================================
	// At most max_concurrency inputs are in flight. Without continue_on_error
	// the first failure cancels the inputs that have not started yet.

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	results := make(chan fileOutcome, len(inputs))
	sem := make(chan struct{}, cfg.MaxConcurrency)

	for i, path := range inputs {
		wg.Add(1)

		go func(index int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- fileOutcome{index: index, path: path, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results <- fileOutcome{index: index, path: path, err: ctx.Err()}
				return
			}

			outcome := processOne(conv, cfg, fm, format, opts, writeFiles, index, path, streams.In)
			if outcome.err != nil && !cfg.ShouldContinueOnError() {
				cancel()
			}
			results <- outcome
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]fileOutcome, len(inputs))
	for outcome := range results {
		outcomes[outcome.index] = outcome
	}

	// =========================================================================
	// STEP 4: PRINT RESULTS
	// =========================================================================

	summary := utils.ProcessingSummary{StartTime: startTime, TotalFiles: len(inputs)}
	warn := color.New(color.FgYellow)
	if !opts.Color {
		warn.DisableColor()
	}

	for i, o := range outcomes {
		if o.err != nil {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    o.path,
				ErrorMessage: o.err.Error(),
			})
			switch {
			case errors.Is(o.err, converter.ErrEmptyInput):
				warn.Fprintf(streams.Err, "  ⚠ %s: %s\n", displayName(o.path), converter.EmptyInputWarning)
			case errors.Is(o.err, converter.ErrValidationFailed):
				fmt.Fprintf(streams.Err, "  ✗ %s: %v\n", displayName(o.path), o.err)
				fmt.Fprintln(streams.Err, validation.FormatIssues(o.result.Validation.Issues))
			default:
				fmt.Fprintf(streams.Err, "  ✗ %s: %v\n", displayName(o.path), o.err)
			}
			continue
		}

		r := o.result
		summary.SuccessfulFiles++
		summary.TotalRows += r.Stats.RowsReconstructed
		summary.TotalEntries += r.Stats.EntriesParsed
		summary.DegradedEntries += r.Stats.EntriesDegraded
		summary.ValidationIssues += len(r.Validation.Issues)
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   o.path,
			OutputFile:  o.output,
			RunID:       r.RunID,
			Rows:        r.Stats.RowsReconstructed,
			Entries:     r.Stats.EntriesParsed,
			GrandTotal:  aggregator.FormatBRL(r.Summary.GrandTotal()),
			ProcessTime: r.Stats.ProcessingTime,
		})

		switch {
		case opts.DryRun:
			fmt.Fprintf(streams.Out, "  ✓ %s: %d entr(ies), TOTAL GERAL %s (dry run)\n",
				displayName(o.path), r.Stats.EntriesParsed, aggregator.FormatBRL(r.Summary.GrandTotal()))
		case format == report.FormatTable:
			if i > 0 {
				fmt.Fprintln(streams.Out)
			}
			rep := newReport(o)
			if err := report.Write(streams.Out, report.FormatTable, rep, report.Options{IncludeEntries: opts.Entries, Color: opts.Color}); err != nil {
				return err
			}
		default:
			fmt.Fprintf(streams.Out, "  ✓ %s -> %s\n", displayName(o.path), o.output)
		}
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()

	if writeFiles || opts.DryRun || len(inputs) > 1 {
		fmt.Fprintln(streams.Out, "\n=== Processing Complete ===")
		fmt.Fprintf(streams.Out, "Total files:     %d\n", summary.TotalFiles)
		fmt.Fprintf(streams.Out, "Successful:      %d\n", summary.SuccessfulFiles)
		fmt.Fprintf(streams.Out, "Errors:          %d\n", summary.FailedFiles)
		fmt.Fprintf(streams.Out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))
	}

	if writeFiles {
		path, err := utils.WriteSummaryLog(summary, fm.OutputDir)
		if err != nil {
			log.Warn().Err(err).Msg("failed to write processing summary")
		} else {
			log.Info().Str("path", path).Msg("processing summary written")
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d input(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// processOne reads, converts and, for file formats, writes one input.
func processOne(conv *converter.Converter, cfg *config.MainConfig, fm *utils.FileManager, format report.Format,
	opts processOptions, writeFiles bool, index int, path string, stdin io.Reader) fileOutcome {
	outcome := fileOutcome{index: index, path: path}

	text, err := textinput.ReadSource(path, cfg.Input.Encoding, stdin)
	if err != nil {
		outcome.err = fmt.Errorf("failed to read input: %w", err)
		return outcome
	}

	outcome.result = conv.Run(path, text)
	if outcome.result.Error != nil {
		outcome.err = outcome.result.Error
		return outcome
	}

	if !writeFiles {
		return outcome
	}

	fileName := utils.GenerateOutputFileName(cfg.FileNameFormat, map[string]string{
		"uuid":     outcome.result.RunID,
		"original": utils.OriginalName(path),
	}, format.Extension())
	outputPath := filepath.Join(fm.OutputDir, fileName)

	if err := writeReportFile(outputPath, format, newReport(outcome), report.Options{IncludeEntries: opts.Entries}); err != nil {
		outcome.err = err
		return outcome
	}
	outcome.output = outputPath

	if issues := outcome.result.Validation.Issues; len(issues) > 0 {
		logPath := strings.TrimSuffix(outputPath, format.Extension()) + ".issues.log"
		if err := validation.WriteIssueLog(path, issues, logPath); err != nil {
			outcome.err = err
		}
	}

	return outcome
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func newReport(o fileOutcome) report.Report {
	return report.Report{
		Source:      displayName(o.path),
		RunID:       o.result.RunID,
		GeneratedAt: time.Now(),
		Summary:     o.result.Summary,
		Entries:     o.result.Entries,
		Issues:      o.result.Validation.Issues,
	}
}

func writeReportFile(path string, format report.Format, rep report.Report, opts report.Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if err := report.Write(file, format, rep, opts); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func displayName(path string) string {
	if path == textinput.StdinName {
		return "stdin"
	}
	return filepath.Base(path)
}

func countStdin(inputs []string) int {
	n := 0
	for _, in := range inputs {
		if in == textinput.StdinName {
			n++
		}
	}
	return n
}
