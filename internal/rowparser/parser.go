// =============================================================================
// Lançamentos Consolidator - Row Parser
// =============================================================================
//
// The row parser turns one reconstructed row into a ParsedEntry:
//
//   "HORAS EXTRAS 50% 1.200,00 120,00 (1.320,00)"
//      -> Description: "HORAS EXTRAS 50%"
//      -> Amount:      -1320.00
//
// AMOUNT:
//   The last numeric token of the row is the total. Parentheses mark a
//   negative value. Dots are thousands separators and the comma is the
//   decimal separator. A token that still fails to parse yields zero and the
//   entry is flagged as degraded instead of being dropped.
//
// DESCRIPTION:
//   The last (up to) three numeric tokens are cut away one at a time, in the
//   order they were found, each at its last occurrence in what is left.
//
// =============================================================================

package rowparser

import (
	"strings"

	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/shopspring/decimal"
)

// descriptionTokens is how many trailing numeric tokens are stripped from a
// row to obtain its description.
const descriptionTokens = 3

// Parse extracts the entry of one reconstructed row. index is the 1-based
// position of the row and is carried into the entry for diagnostics.
//
// RETURNS:
//   - The parsed entry.
//   - false when the row has no numeric token and must be dropped.
func Parse(index int, row string) (types.ParsedEntry, bool) {
	tokens := types.NumericTokens(row)
	if len(tokens) == 0 {
		return types.ParsedEntry{}, false
	}

	total := tokens[len(tokens)-1]
	amount, err := ParseAmount(total)

	entry := types.ParsedEntry{
		Row:         index,
		Description: StripDescription(row, tokens),
		Amount:      amount,
		AmountText:  total,
		Degraded:    err != nil,
	}
	return entry, true
}

// ParseAll parses every row, dropping rows without numeric tokens.
// It returns the entries and the 1-based indexes of the dropped rows.
func ParseAll(rows []string) ([]types.ParsedEntry, []int) {
	entries := make([]types.ParsedEntry, 0, len(rows))
	var dropped []int

	for i, row := range rows {
		entry, ok := Parse(i+1, row)
		if !ok {
			dropped = append(dropped, i+1)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, dropped
}

// ParseAmount converts a pt-BR numeric token such as "1.234,56" or "(50,00)"
// to a decimal. On failure it returns zero together with the parse error.
func ParseAmount(token string) (decimal.Decimal, error) {
	negative := strings.Contains(token, "(") && strings.Contains(token, ")")
	if negative {
		token = strings.ReplaceAll(token, "(", "")
		token = strings.ReplaceAll(token, ")", "")
	}

	token = strings.ReplaceAll(token, ".", "")
	token = strings.ReplaceAll(token, ",", ".")

	value, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		value = value.Neg()
	}
	return value, nil
}

// StripDescription removes the last up-to-three tokens from row and returns
// the remaining text trimmed and uppercased. tokens must be the numeric tokens
// of row in the order they were found.
func StripDescription(row string, tokens []string) string {
	tail := tokens
	if len(tail) > descriptionTokens {
		tail = tail[len(tail)-descriptionTokens:]
	}

	desc := row
	for _, tok := range tail {
		if i := strings.LastIndex(desc, tok); i >= 0 {
			desc = desc[:i]
		}
	}

	return strings.ToUpper(strings.TrimSpace(desc))
}
