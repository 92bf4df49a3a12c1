// =============================================================================
// Lançamentos Consolidator - Validation Engine
// =============================================================================
//
// This module produces post-run diagnostics. It never changes an amount or a
// category; it only reports what the lenient pipeline did silently:
//   - Rows whose amount could not be parsed and were counted as zero
//   - Reconstructed rows dropped for having no numeric token
//   - Entries left with an empty description
//   - Summary invariants (TOTAL GERAL and HONORÁRIOS cross-checks)
//
// SEVERITY:
//   - "error"   = the summary is inconsistent and must not be trusted
//   - "warning" = a row contributed zero because of bad input
//   - "info"    = something was skipped on purpose
//
// ERROR HANDLING:
//   - Issues are collected, not returned as the first failure
//   - Each issue carries the row number and offending value
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Severity levels of an Issue.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Rule names of the checks.
const (
	RuleUnparseableAmount = "unparseable_amount"
	RuleDroppedRow        = "dropped_row"
	RuleEmptyDescription  = "empty_description"
	RuleGrandTotal        = "grand_total"
	RuleHonorarios        = "honorarios_total"
)

// Issue is a single diagnostic.
type Issue struct {
	// Severity is one of SeverityError, SeverityWarning, SeverityInfo.
	Severity string `json:"severity"`

	// Rule is the check that produced the issue.
	Rule string `json:"rule"`

	// Row is the 1-based reconstructed row, 0 for summary-level issues.
	Row int `json:"row,omitempty"`

	// Field is the part of the row or summary the issue is about.
	Field string `json:"field,omitempty"`

	// Value is the offending value.
	Value string `json:"value,omitempty"`

	// Message is a human-readable explanation.
	Message string `json:"message"`
}

// Error implements the error interface.
func (i *Issue) Error() string {
	if i.Row > 0 {
		return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
			strings.ToUpper(i.Severity), i.Row, i.Field, i.Message, i.Value)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')",
		strings.ToUpper(i.Severity), i.Field, i.Message, i.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the results of validation.
type Result struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Issues contains every issue, errors and warnings included.
	Issues []*Issue

	ErrorCount   int
	WarningCount int
	InfoCount    int

	// EntriesValidated is the number of entries checked.
	EntriesValidated int
}

// Input gathers what one run produced.
type Input struct {
	// Rows are the reconstructed rows, used to quote dropped ones.
	Rows []string

	// Dropped are the 1-based indexes of rows with no numeric token.
	Dropped []int

	Entries []types.CategorizedEntry
	Summary *aggregator.SummaryRecord
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Options contains options for validation.
type Options struct {
	// TreatWarningsAsErrors makes degraded rows invalidate the run.
	// Default: false
	TreatWarningsAsErrors bool

	// SkipInfo drops info-level issues from the result.
	// Default: false
	SkipInfo bool
}

// Validator checks the output of one run.
type Validator struct {
	options Options
}

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{}
}

// NewValidator creates a Validator with the default options.
func NewValidator() *Validator {
	return &Validator{options: DefaultOptions()}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options Options) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateAll runs every check over one run's output.
//
// PARAMETERS:
//   - in: The rows, dropped indexes, entries and summary of the run.
//
// RETURNS:
//   - A Result with the issues ordered rows first, then summary.
func (v *Validator) ValidateAll(in Input) *Result {
	var issues []*Issue

	issues = append(issues, v.ValidateDropped(in.Rows, in.Dropped)...)
	issues = append(issues, v.ValidateEntries(in.Entries)...)
	if in.Summary != nil {
		issues = append(issues, v.ValidateSummary(in.Summary, in.Entries)...)
	}

	result := &Result{EntriesValidated: len(in.Entries)}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		default:
			if v.options.SkipInfo {
				continue
			}
			result.InfoCount++
		}
		result.Issues = append(result.Issues, issue)
	}

	result.IsValid = result.ErrorCount == 0 &&
		!(v.options.TreatWarningsAsErrors && result.WarningCount > 0)

	return result
}

// ValidateEntries reports degraded amounts and empty descriptions.
func (v *Validator) ValidateEntries(entries []types.CategorizedEntry) []*Issue {
	var issues []*Issue

	for _, e := range entries {
		if e.Degraded {
			issues = append(issues, &Issue{
				Severity: SeverityWarning,
				Rule:     RuleUnparseableAmount,
				Row:      e.Row,
				Field:    "amount",
				Value:    e.AmountText,
				Message:  "amount could not be parsed and was counted as 0,00",
			})
		}
		if e.Description == "" {
			issues = append(issues, &Issue{
				Severity: SeverityInfo,
				Rule:     RuleEmptyDescription,
				Row:      e.Row,
				Field:    "description",
				Message:  fmt.Sprintf("row has no description and was classified as %s", e.Category),
			})
		}
	}

	return issues
}

// ValidateDropped reports the rows the parser skipped. rows may be nil, in
// which case the issue carries no value.
func (v *Validator) ValidateDropped(rows []string, dropped []int) []*Issue {
	issues := make([]*Issue, 0, len(dropped))

	for _, idx := range dropped {
		var value string
		if idx >= 1 && idx <= len(rows) {
			value = rows[idx-1]
		}
		issues = append(issues, &Issue{
			Severity: SeverityInfo,
			Rule:     RuleDroppedRow,
			Row:      idx,
			Field:    "row",
			Value:    value,
			Message:  "row has no numeric token and was ignored",
		})
	}

	return issues
}

// ValidateSummary cross-checks the summary against the entries it was built
// from: TOTAL GERAL must equal the sum of the six categories, and HONORÁRIOS
// must equal the direct sum of its entries.
func (v *Validator) ValidateSummary(summary *aggregator.SummaryRecord, entries []types.CategorizedEntry) []*Issue {
	var issues []*Issue

	sum := decimal.Zero
	for _, cat := range types.Categories() {
		sum = sum.Add(summary.Total(cat))
	}
	if !sum.Equal(summary.GrandTotal()) {
		issues = append(issues, &Issue{
			Severity: SeverityError,
			Rule:     RuleGrandTotal,
			Field:    types.GrandTotalHeader,
			Value:    aggregator.FormatBRL(summary.GrandTotal()),
			Message:  fmt.Sprintf("does not match the sum of the categories (%s)", aggregator.FormatBRL(sum)),
		})
	}

	honorarios := decimal.Zero
	for _, e := range entries {
		if e.Category == types.CategoryHonorarios {
			honorarios = honorarios.Add(e.Amount)
		}
	}
	if got := summary.Total(types.CategoryHonorarios); !honorarios.Equal(got) {
		issues = append(issues, &Issue{
			Severity: SeverityError,
			Rule:     RuleHonorarios,
			Field:    string(types.CategoryHonorarios),
			Value:    aggregator.FormatBRL(got),
			Message:  fmt.Sprintf("does not match the sum of its entries (%s)", aggregator.FormatBRL(honorarios)),
		})
	}

	return issues
}

// =============================================================================
// ISSUE FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
//
// PARAMETERS:
//   - issues: The issues to format.
//
// RETURNS:
//   - A formatted string containing all issues.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}

// WriteIssueLog writes issues to a log file.
//
// PARAMETERS:
//   - source: The input the issues belong to.
//   - issues: The issues to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteIssueLog(source string, issues []*Issue, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create issue log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Source: %s\n", source)
	fmt.Fprintf(writer, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatIssues(issues))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write issue log: %w", err)
	}

	return nil
}
