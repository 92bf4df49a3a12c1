package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/validation"
	"github.com/shopspring/decimal"
)

// Document is the JSON shape of a report. The HTTP server returns it too.
type Document struct {
	Source      string              `json:"source,omitempty"`
	RunID       string              `json:"run_id,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     []aggregator.Cell   `json:"summary"`
	Totals      map[string]string   `json:"totals"`
	Entries     []EntryDocument     `json:"entries,omitempty"`
	Issues      []*validation.Issue `json:"issues,omitempty"`
}

// EntryDocument is one categorised entry in a Document.
type EntryDocument struct {
	Row         int             `json:"row"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Value       string          `json:"value"`
	Degraded    bool            `json:"degraded,omitempty"`
}

// NewDocument builds the JSON document of rep.
func NewDocument(rep Report, opts Options) Document {
	doc := Document{
		Source:      rep.Source,
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt,
		Summary:     rep.Summary.Cells(),
		Totals:      rep.Summary.Formatted(),
		Issues:      rep.Issues,
	}

	if opts.IncludeEntries {
		doc.Entries = make([]EntryDocument, 0, len(rep.Entries))
		for _, e := range rep.Entries {
			doc.Entries = append(doc.Entries, EntryDocument{
				Row:         e.Row,
				Description: e.Description,
				Category:    string(e.Category),
				Amount:      e.Amount,
				Value:       aggregator.FormatBRL(e.Amount),
				Degraded:    e.Degraded,
			})
		}
	}

	return doc
}

func writeJSON(w io.Writer, rep Report, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(rep, opts))
}
