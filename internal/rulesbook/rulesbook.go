// =============================================================================
// Lançamentos Consolidator - XLSX Rules Workbook
// =============================================================================
//
// This module reads and writes the classification rules as an XLSX workbook,
// so the keyword lists can be maintained in a spreadsheet.
//
// WORKBOOK STRUCTURE (first sheet):
//
//   | Column A            | Column B       |
//   |---------------------|----------------|
//   | Categoria           | Palavra-chave  |
//   | INDENIZAÇÕES        | MULTA          |
//   | INDENIZAÇÕES        | FGTS           |
//   | HORAS EXTRAS        | HORA EXTRA     |
//
// Row 1 is the header and is skipped. Rules are built in the order each
// category first appears, and keywords keep their row order within a
// category. That order is the classification order.
//
// =============================================================================

package rulesbook

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/lancamentos/internal/classifier"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/xuri/excelize/v2"
)

// Header cells written and expected on row 1.
const (
	CategoryHeader = "Categoria"
	KeywordHeader  = "Palavra-chave"
)

// Columns locates the category and keyword columns (0-based).
type Columns struct {
	Category     int
	Keyword      int
	DataStartRow int
}

// DefaultColumns returns the layout described above.
func DefaultColumns() Columns {
	return Columns{
		Category:     0, // Column A
		Keyword:      1, // Column B
		DataStartRow: 1, // Row 2
	}
}

// =============================================================================
// READING
// =============================================================================

// Load reads the rules from the first sheet of an XLSX workbook.
//
// PARAMETERS:
//   - path: The path to the workbook.
//
// RETURNS:
//   - The rules in classification order.
//   - An error if the workbook cannot be read or a row names an unknown category.
func Load(path string) ([]classifier.Rule, error) {
	return LoadWithColumns(path, DefaultColumns())
}

// LoadWithColumns reads rules using a custom column layout.
func LoadWithColumns(path string, columns Columns) ([]classifier.Rule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("rules workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return parseRows(rows, columns)
}

func parseRows(rows [][]string, columns Columns) ([]classifier.Rule, error) {
	var (
		order    []types.Category
		keywords = make(map[types.Category][]string)
	)

	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]

		getCell := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		catName := getCell(columns.Category)
		keyword := getCell(columns.Keyword)
		if catName == "" && keyword == "" {
			continue
		}

		cat, ok := types.ParseCategory(catName)
		if !ok {
			return nil, fmt.Errorf("row %d: unknown category %q", i+1, catName)
		}
		if keyword == "" {
			continue
		}

		if _, seen := keywords[cat]; !seen {
			order = append(order, cat)
		}
		keywords[cat] = append(keywords[cat], keyword)
	}

	rules := make([]classifier.Rule, 0, len(order))
	for _, cat := range order {
		rules = append(rules, classifier.Rule{Category: cat, Keywords: keywords[cat]})
	}

	return rules, nil
}

// =============================================================================
// WRITING
// =============================================================================

// Save writes rules to a new workbook at path, one keyword per row.
func Save(path string, rules []classifier.Rule) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{CategoryHeader, KeywordHeader}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{string(rule.Category), kw}); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save rules workbook: %w", err)
	}

	return nil
}
