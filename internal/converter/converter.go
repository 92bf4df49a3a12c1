// =============================================================================
// Lançamentos Consolidator - Converter Module
// =============================================================================
//
// This module contains the core pipeline. It orchestrates one run over one
// block of pasted text, from raw lines to the consolidated summary.
//
// PIPELINE:
//   1. Reject blank input
//   2. Split the text into lines
//   3. Reconstruct wrapped rows
//   4. Parse (description, amount) out of each row
//   5. Classify each entry into a category
//   6. Aggregate the summary
//   7. Validate the run (diagnostics only)
//
// CONCURRENCY:
//   A Converter holds no per-run state. Run can be called from several
//   goroutines at once, which the process command and the HTTP server do.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/classifier"
	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/reconstructor"
	"github.com/ginjaninja78/lancamentos/internal/rowparser"
	"github.com/ginjaninja78/lancamentos/internal/rulesbook"
	"github.com/ginjaninja78/lancamentos/internal/textinput"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/ginjaninja78/lancamentos/internal/validation"
	"github.com/google/uuid"
)

// EmptyInputWarning is shown to the user when there is nothing to process.
const EmptyInputWarning = "Cole os dados no campo acima."

// ErrEmptyInput is returned for blank input. The pipeline does not run.
var ErrEmptyInput = errors.New("empty input")

// ErrValidationFailed is returned when diagnostics reject a run, which only
// happens for errors or, with validation.strict, warnings.
var ErrValidationFailed = errors.New("validation failed")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single input.
type Result struct {
	// Source names the input: a file path, "-" for stdin, or "api".
	Source string

	// RunID identifies this run in logs and output file names.
	RunID string

	// Success indicates whether a summary was produced.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Rows are the reconstructed rows.
	Rows []string

	// Dropped are the 1-based indexes of rows without a numeric token.
	Dropped []int

	// Entries are the categorised entries in row order.
	Entries []types.CategorizedEntry

	// Summary is the consolidated record. Nil when processing failed.
	Summary *aggregator.SummaryRecord

	// Validation holds the post-run diagnostics.
	Validation *validation.Result

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// LinesRead is the number of physical lines after trimming the block.
	LinesRead int

	// FooterLines is the number of page footer lines discarded.
	FooterLines int

	// RowsReconstructed is the number of logical rows.
	RowsReconstructed int

	// RowsDropped is the number of rows without any numeric token.
	RowsDropped int

	// EntriesParsed is the number of entries that reached the classifier.
	EntriesParsed int

	// EntriesDegraded is the number of entries whose amount fell back to zero.
	EntriesDegraded int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline with a fixed configuration.
type Converter struct {
	reconstructor *reconstructor.Reconstructor
	classifier    *classifier.Classifier
	validator     *validation.Validator
	logger        Logger
}

// Logger is an interface for logging.
// logger.Printf adapts a zerolog.Logger to it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The main configuration (reconstruction and validation settings).
//   - cls: The classifier. Nil means the built-in rules.
//   - logger: Where progress is logged. Nil discards everything.
//
// RETURNS:
//   - A new Converter instance.
func New(cfg *config.MainConfig, cls *classifier.Classifier, logger Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if cls == nil {
		cls = classifier.Default()
	}
	if logger == nil {
		logger = nopLogger{}
	}

	validator := validation.NewValidatorWithOptions(validation.Options{
		TreatWarningsAsErrors: cfg.Validation.Strict,
		SkipInfo:              cfg.Validation.SkipInfo,
	})

	return &Converter{
		reconstructor: reconstructor.New(reconstructor.Options{
			FooterMarkers:    cfg.Reconstruction.FooterMarkers,
			MinNumericTokens: cfg.Reconstruction.MinNumericTokens,
		}),
		classifier: cls,
		validator:  validator,
		logger:     logger,
	}
}

// LoadClassifier builds the classifier the configuration asks for: the rules
// workbook when set, else the YAML rules when present, else the built-in rules.
func LoadClassifier(cfg *config.MainConfig) (*classifier.Classifier, error) {
	if cfg == nil {
		return classifier.Default(), nil
	}

	if path := cfg.Classification.RulesWorkbook; path != "" {
		rules, err := rulesbook.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules workbook: %w", err)
		}
		return classifier.New(rules)
	}

	if len(cfg.Classification.Rules) > 0 {
		rules := make([]classifier.Rule, 0, len(cfg.Classification.Rules))
		for _, r := range cfg.Classification.Rules {
			rules = append(rules, classifier.Rule{Category: types.Category(r.Category), Keywords: r.Keywords})
		}
		return classifier.New(rules)
	}

	return classifier.Default(), nil
}

// Classifier returns the classifier used by the converter.
func (c *Converter) Classifier() *classifier.Classifier {
	return c.classifier
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline over text.
//
// PARAMETERS:
//   - source: A name for the input, used in logs and the result.
//   - text: The pasted block.
//
// RETURNS:
//   - A Result. Result.Error is ErrEmptyInput for blank text and wraps
//     ErrValidationFailed when the diagnostics reject the run.
func (c *Converter) Run(source, text string) Result {
	startTime := time.Now()
	result := Result{
		Source: source,
		RunID:  uuid.New().String(),
	}

	// =========================================================================
	// STEP 1: REJECT BLANK INPUT
	// =========================================================================

	if textinput.IsBlank(text) {
		c.logger.Warn("%s: %s", source, EmptyInputWarning)
		result.Error = ErrEmptyInput
		return result
	}

	c.logger.Info("Processing %s (run %s)", source, result.RunID)

	// =========================================================================
	// STEP 2-3: SPLIT AND RECONSTRUCT
	// =========================================================================

	lines := textinput.Lines(text)
	result.Stats.LinesRead = len(lines)
	for _, line := range lines {
		if c.reconstructor.IsFooter(line) {
			result.Stats.FooterLines++
		}
	}

	result.Rows = c.reconstructor.Reconstruct(lines)
	result.Stats.RowsReconstructed = len(result.Rows)
	c.logger.Debug("Reconstructed %d row(s) from %d line(s), %d footer line(s) skipped",
		len(result.Rows), len(lines), result.Stats.FooterLines)

	// =========================================================================
	// STEP 4: PARSE ROWS
	// =========================================================================

	parsed, dropped := rowparser.ParseAll(result.Rows)
	result.Dropped = dropped
	result.Stats.RowsDropped = len(dropped)
	result.Stats.EntriesParsed = len(parsed)

	for _, idx := range dropped {
		c.logger.Debug("Row %d has no numeric token, skipped: %q", idx, result.Rows[idx-1])
	}
	for _, e := range parsed {
		if e.Degraded {
			result.Stats.EntriesDegraded++
			c.logger.Warn("Row %d: could not parse amount %q, counted as 0,00", e.Row, e.AmountText)
		}
	}

	// =========================================================================
	// STEP 5-6: CLASSIFY AND AGGREGATE
	// =========================================================================

	result.Entries = c.classifier.ClassifyAll(parsed)
	result.Summary = aggregator.Aggregate(result.Entries)

	// =========================================================================
	// STEP 7: VALIDATE
	// =========================================================================

	result.Validation = c.validator.ValidateAll(validation.Input{
		Rows:    result.Rows,
		Dropped: result.Dropped,
		Entries: result.Entries,
		Summary: result.Summary,
	})
	for _, issue := range result.Validation.Issues {
		if issue.Severity == validation.SeverityError {
			c.logger.Error("Validation: %s", issue.Error())
		}
	}
	if !result.Validation.IsValid {
		result.Error = fmt.Errorf("%w: %d error(s), %d warning(s)",
			ErrValidationFailed, result.Validation.ErrorCount, result.Validation.WarningCount)
		result.Stats.ProcessingTime = time.Since(startTime)
		c.logger.Error("%s: %v", source, result.Error)
		return result
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info("Processed %s: %d entr(ies), TOTAL GERAL %s",
		source, len(result.Entries), aggregator.FormatBRL(result.Summary.GrandTotal()))

	return result
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
