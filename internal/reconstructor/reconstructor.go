// =============================================================================
// Lançamentos Consolidator - Line Reconstructor
// =============================================================================
//
// Copy-pasted liquidation statements wrap long descriptions over several
// physical lines, with the numeric columns only on the last one:
//
//   DIFERENÇAS DE ADICIONAL NOTURNO SOBRE
//   HORAS EXTRAS 1.200,00 120,00 1.320,00
//
// The reconstructor merges such fragments back into logical rows. A line with
// at least MinNumericTokens numeric tokens closes a row; anything shorter is
// held in an accumulator and prepended to the next closing line. Page footers
// printed by the calculation software are dropped before counting.
//
// =============================================================================

package reconstructor

import (
	"strings"

	"github.com/ginjaninja78/lancamentos/internal/types"
)

// DefaultFooterMarkers are the substrings that identify footer lines.
var DefaultFooterMarkers = []string{"CÁLCULO LIQUIDADO", "VERSÃO", "PÁG"}

// DefaultMinNumericTokens is the number of numeric tokens that makes a line a
// complete row.
const DefaultMinNumericTokens = 3

// Options configures a Reconstructor.
type Options struct {
	// FooterMarkers are matched case-insensitively against each trimmed line.
	FooterMarkers []string

	// MinNumericTokens is the token count at which a line closes a row.
	MinNumericTokens int
}

// DefaultOptions returns the options tuned for the liquidation report layout.
func DefaultOptions() Options {
	markers := make([]string, len(DefaultFooterMarkers))
	copy(markers, DefaultFooterMarkers)
	return Options{
		FooterMarkers:    markers,
		MinNumericTokens: DefaultMinNumericTokens,
	}
}

// Reconstructor merges wrapped physical lines into logical rows.
// It holds no per-run state and is safe for concurrent use.
type Reconstructor struct {
	markers   []string
	minTokens int
}

// New creates a Reconstructor. Zero values in opts fall back to the defaults.
func New(opts Options) *Reconstructor {
	if len(opts.FooterMarkers) == 0 {
		opts.FooterMarkers = DefaultFooterMarkers
	}
	if opts.MinNumericTokens <= 0 {
		opts.MinNumericTokens = DefaultMinNumericTokens
	}

	markers := make([]string, 0, len(opts.FooterMarkers))
	for _, m := range opts.FooterMarkers {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" {
			markers = append(markers, m)
		}
	}

	return &Reconstructor{markers: markers, minTokens: opts.MinNumericTokens}
}

// IsFooter reports whether line is a page footer that must be discarded.
func (r *Reconstructor) IsFooter(line string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, m := range r.markers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// Reconstruct returns the logical rows of lines, in input order.
//
// A trailing fragment that is never closed by a numeric line is still emitted
// as its own row; the row parser drops it later if it carries no number.
func (r *Reconstructor) Reconstruct(lines []string) []string {
	var (
		rows []string
		acc  string
	)

	for _, line := range lines {
		if r.IsFooter(line) {
			continue
		}
		line = strings.TrimSpace(line)

		if types.CountNumericTokens(line) >= r.minTokens {
			if acc != "" {
				rows = append(rows, strings.TrimSpace(acc+" "+line))
				acc = ""
			} else {
				rows = append(rows, line)
			}
			continue
		}

		acc += " " + line
	}

	if tail := strings.TrimSpace(acc); tail != "" {
		rows = append(rows, tail)
	}

	return rows
}

// Reconstruct merges lines using the default options.
func Reconstruct(lines []string) []string {
	return New(DefaultOptions()).Reconstruct(lines)
}
