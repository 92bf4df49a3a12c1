// =============================================================================
// Lançamentos Consolidator - Report Writers
// =============================================================================
//
// This module renders the result of a run. Every format writes the same
// seven summary columns in the same order:
//
//   INDENIZAÇÕES | HORAS EXTRAS | ADICIONAIS DIVERSOS | DIFERENÇAS SALARIAIS |
//   HONORÁRIOS | DEMAIS AÇÕES | TOTAL GERAL
//
// FORMATS:
//   - table: aligned text for the terminal, issues highlighted in colour
//   - csv:   ";"-separated, pt-BR values, one header and one value row
//   - json:  summary cells, optional entries and issues
//   - xml:   <resumo> document with one element per category
//   - xlsx:  "Resumo" sheet, plus "Lançamentos" when entries are included
//
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/ginjaninja78/lancamentos/internal/validation"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is an output format name.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXML   Format = "xml"
	FormatXLSX  Format = "xlsx"
)

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatTable, FormatCSV, FormatJSON, FormatXML, FormatXLSX}
}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	want := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range Formats() {
		if f == want {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Extension returns the file extension of a format, dot included.
func (f Format) Extension() string {
	if f == FormatTable {
		return ".txt"
	}
	return "." + string(f)
}

// =============================================================================
// REPORT
// =============================================================================

// Report is everything a writer may render for one run.
type Report struct {
	Source      string
	RunID       string
	GeneratedAt time.Time

	Summary *aggregator.SummaryRecord
	Entries []types.CategorizedEntry
	Issues  []*validation.Issue
}

// Options controls what is rendered.
type Options struct {
	// IncludeEntries adds the categorised entries after the summary.
	IncludeEntries bool

	// Color enables ANSI colours in the table format.
	Color bool
}

// Write renders rep to w in the given format.
//
// PARAMETERS:
//   - w: The destination.
//   - format: One of Formats().
//   - rep: The run to render. rep.Summary must not be nil.
//   - opts: Rendering options.
//
// RETURNS:
//   - ErrUnsupportedFormat for unknown formats, or the writer's error.
func Write(w io.Writer, format Format, rep Report, opts Options) error {
	if rep.Summary == nil {
		return errors.New("report has no summary")
	}
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now()
	}

	switch format {
	case FormatTable:
		return writeTable(w, rep, opts)
	case FormatCSV:
		return writeCSV(w, rep, opts)
	case FormatJSON:
		return writeJSON(w, rep, opts)
	case FormatXML:
		return writeXML(w, rep, opts)
	case FormatXLSX:
		return writeXLSX(w, rep, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
