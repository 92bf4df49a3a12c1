// =============================================================================
// Lançamentos Consolidator - Shared Types
// =============================================================================
//
// This package contains shared types used across the pipeline stages to avoid
// import cycles. Types defined here are used by:
//   - reconstructor / rowparser (numeric tokens)
//   - classifier (categories)
//   - aggregator, validation, report (entries)
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Category is one of the fixed legal expense categories a row is assigned to.
type Category string

const (
	CategoryIndenizacoes Category = "INDENIZAÇÕES"
	CategoryHorasExtras  Category = "HORAS EXTRAS"
	CategoryAdicionais   Category = "ADICIONAIS DIVERSOS"
	CategoryDiferencas   Category = "DIFERENÇAS SALARIAIS"
	CategoryHonorarios   Category = "HONORÁRIOS"
	CategoryDemais       Category = "DEMAIS AÇÕES"
)

// GrandTotalHeader is the header of the seventh summary column.
const GrandTotalHeader = "TOTAL GERAL"

// categoryOrder is the display order of the summary columns. Column order is a
// contract with every report writer, so it is a slice and never a map.
var categoryOrder = []Category{
	CategoryIndenizacoes,
	CategoryHorasExtras,
	CategoryAdicionais,
	CategoryDiferencas,
	CategoryHonorarios,
	CategoryDemais,
}

// Categories returns the six categories in display order.
// The returned slice is a copy and may be modified by the caller.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Headers returns the seven summary column headers: the six categories in
// display order followed by TOTAL GERAL.
func Headers() []string {
	headers := make([]string, 0, len(categoryOrder)+1)
	for _, c := range categoryOrder {
		headers = append(headers, string(c))
	}
	return append(headers, GrandTotalHeader)
}

// ParseCategory resolves a category name, ignoring case and surrounding space.
func ParseCategory(name string) (Category, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, c := range categoryOrder {
		if string(c) == want {
			return c, true
		}
	}
	return "", false
}

// =============================================================================
// ENTRY TYPES
// =============================================================================

// ParsedEntry is the (description, amount) pair extracted from one
// reconstructed row.
type ParsedEntry struct {
	// Row is the 1-based position of the source row in the reconstructed output.
	Row int

	// Description is the row text without its trailing numeric tokens, uppercased.
	Description string

	// Amount is the last numeric token of the row, negative when written in
	// parentheses. Zero when the token could not be parsed.
	Amount decimal.Decimal

	// AmountText is the raw numeric token the amount was parsed from.
	AmountText string

	// Degraded is set when AmountText could not be parsed and Amount fell back to zero.
	Degraded bool
}

// CategorizedEntry is a ParsedEntry with its assigned category.
type CategorizedEntry struct {
	ParsedEntry

	Category Category
}
