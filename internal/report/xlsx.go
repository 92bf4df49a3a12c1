package report

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX report.
const (
	SummarySheet = "Resumo"
	EntriesSheet = "Lançamentos"
)

// brlNumberFormat shows amounts as 1.234,56 in a pt-BR Excel.
const brlNumberFormat = "#,##0.00"

func writeXLSX(w io.Writer, rep Report, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	numFmt := brlNumberFormat
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	cells := rep.Summary.Cells()
	headers := make([]interface{}, len(cells))
	amounts := make([]interface{}, len(cells))
	for i, c := range cells {
		headers[i] = c.Header
		amounts[i] = c.Amount.InexactFloat64()
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, "A2", &amounts); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(cells))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A2", lastCol+"2", amountStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", lastCol, 22); err != nil {
		return err
	}

	if opts.IncludeEntries && len(rep.Entries) > 0 {
		if err := writeEntriesSheet(f, rep, headerStyle, amountStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

func writeEntriesSheet(f *excelize.File, rep Report, headerStyle, amountStyle int) error {
	if _, err := f.NewSheet(EntriesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []interface{}{"Linha", "Descrição", "Categoria", "Valor", "Valor (texto)"}
	if err := f.SetSheetRow(EntriesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(EntriesSheet, "A1", "E1", headerStyle); err != nil {
		return err
	}

	for i, e := range rep.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Row, e.Description, string(e.Category), e.Amount.InexactFloat64(), aggregator.FormatBRL(e.Amount)}
		if err := f.SetSheetRow(EntriesSheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(rep.Entries) + 1
	if err := f.SetCellStyle(EntriesSheet, "D2", fmt.Sprintf("D%d", last), amountStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(EntriesSheet, "B", "B", 50); err != nil {
		return err
	}
	return f.SetColWidth(EntriesSheet, "C", "C", 24)
}
