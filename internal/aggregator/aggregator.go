// =============================================================================
// Lançamentos Consolidator - Aggregator
// =============================================================================
//
// The aggregator folds the categorised entries of one run into a single
// horizontal SummaryRecord: one total per fixed category plus TOTAL GERAL.
//
// AGGREGATION STEPS:
//   1. Group entries by category and sum the amounts of each group.
//   2. Start a record with all six categories at zero.
//   3. Overwrite each category with its grouped sum, where present.
//   4. Recompute HONORÁRIOS directly over the entries and force it in.
//   5. TOTAL GERAL is the sum of the six category totals.
//
// Step 4 is an independent second computation of one category. It must stay
// even though it normally agrees with step 3.
//
// =============================================================================

package aggregator

import (
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SUMMARY RECORD
// =============================================================================

// SummaryRecord is the consolidated result of one run. It is built once by
// Aggregate and never changes afterwards.
type SummaryRecord struct {
	totals map[types.Category]decimal.Decimal
	grand  decimal.Decimal
}

// Cell is one formatted column of the summary.
type Cell struct {
	Header string          `json:"header"`
	Value  string          `json:"value"`
	Amount decimal.Decimal `json:"amount"`
}

// Aggregate builds the summary of entries.
func Aggregate(entries []types.CategorizedEntry) *SummaryRecord {
	grouped := groupByCategory(entries)

	totals := make(map[types.Category]decimal.Decimal, len(types.Categories()))
	for _, cat := range types.Categories() {
		totals[cat] = decimal.Zero
	}
	for cat, sum := range grouped {
		if _, ok := totals[cat]; ok {
			totals[cat] = sum
		}
	}

	totals[types.CategoryHonorarios] = sumCategory(entries, types.CategoryHonorarios)

	grand := decimal.Zero
	for _, cat := range types.Categories() {
		grand = grand.Add(totals[cat])
	}

	return &SummaryRecord{totals: totals, grand: grand}
}

func groupByCategory(entries []types.CategorizedEntry) map[types.Category]decimal.Decimal {
	groups := make(map[types.Category]decimal.Decimal)
	for _, e := range entries {
		groups[e.Category] = groups[e.Category].Add(e.Amount)
	}
	return groups
}

// sumCategory sums the amounts of the entries classified as cat.
func sumCategory(entries []types.CategorizedEntry, cat types.Category) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Category == cat {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// Total returns the total of one category. Unknown categories are zero.
func (s *SummaryRecord) Total(cat types.Category) decimal.Decimal {
	return s.totals[cat]
}

// GrandTotal returns TOTAL GERAL.
func (s *SummaryRecord) GrandTotal() decimal.Decimal {
	return s.grand
}

// Cells returns the seven summary columns in display order, each formatted
// with FormatBRL.
func (s *SummaryRecord) Cells() []Cell {
	cells := make([]Cell, 0, len(types.Categories())+1)
	for _, cat := range types.Categories() {
		amount := s.totals[cat]
		cells = append(cells, Cell{Header: string(cat), Value: FormatBRL(amount), Amount: amount})
	}
	return append(cells, Cell{Header: types.GrandTotalHeader, Value: FormatBRL(s.grand), Amount: s.grand})
}

// Formatted returns the seven formatted values keyed by column header.
func (s *SummaryRecord) Formatted() map[string]string {
	out := make(map[string]string, len(types.Categories())+1)
	for _, c := range s.Cells() {
		out[c.Header] = c.Value
	}
	return out
}
