package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/ginjaninja78/lancamentos/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() Report {
	entries := []types.CategorizedEntry{
		{
			ParsedEntry: types.ParsedEntry{Row: 1, Description: "INDENIZAÇÃO POR DANO MORAL", Amount: decimal.RequireFromString("1000"), AmountText: "1.000,00"},
			Category:    types.CategoryIndenizacoes,
		},
		{
			ParsedEntry: types.ParsedEntry{Row: 2, Description: "HONORÁRIOS ADVOCATÍCIOS", Amount: decimal.RequireFromString("-11"), AmountText: "(11,00)"},
			Category:    types.CategoryHonorarios,
		},
		{
			ParsedEntry: types.ParsedEntry{Row: 4, Description: "MULTA", Amount: decimal.Zero, AmountText: "1,2,3", Degraded: true},
			Category:    types.CategoryDemais,
		},
	}

	return Report{
		Source:      "extrato.txt",
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Summary:     aggregator.Aggregate(entries),
		Entries:     entries,
		Issues: []*validation.Issue{
			{Severity: validation.SeverityWarning, Rule: validation.RuleUnparseableAmount, Row: 4, Field: "amount", Value: "1,2,3", Message: "amount could not be parsed and was counted as 0,00"},
		},
	}
}

func render(t *testing.T, format Format, opts Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, format, sampleReport(), opts))
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"table", "CSV", " json ", "xml", "Xlsx"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".txt", FormatTable.Extension())
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
}

func TestWriteRejectsUnknownFormatAndMissingSummary(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, Format("yaml"), sampleReport(), Options{}), ErrUnsupportedFormat)
	assert.Error(t, Write(&buf, FormatTable, Report{}, Options{}))
}

func TestWriteTable(t *testing.T) {
	out := string(render(t, FormatTable, Options{IncludeEntries: true}))

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "Resumo: extrato.txt", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "INDENIZAÇÕES  HORAS EXTRAS"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "TOTAL GERAL"))
	assert.True(t, strings.HasPrefix(lines[2], "1.000,00"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "989,00"))

	assert.Contains(t, out, "HONORÁRIOS ADVOCATÍCIOS")
	assert.Contains(t, out, "-11,00")
	assert.Contains(t, out, "[WARNING] Row 4, Field 'amount'")
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteTableColor(t *testing.T) {
	out := string(render(t, FormatTable, Options{Color: true}))
	assert.Contains(t, out, "\x1b[")
	assert.NotContains(t, out, "LINHA")
}

func TestWriteCSV(t *testing.T) {
	r := csv.NewReader(bytes.NewReader(render(t, FormatCSV, Options{})))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, types.Headers(), records[0])
	assert.Equal(t, []string{"1.000,00", "0,00", "0,00", "0,00", "-11,00", "0,00", "989,00"}, records[1])
}

func TestWriteCSVWithEntries(t *testing.T) {
	out := string(render(t, FormatCSV, Options{IncludeEntries: true}))

	assert.Contains(t, out, "Linha;Descrição;Categoria;Valor\n")
	assert.Contains(t, out, "2;HONORÁRIOS ADVOCATÍCIOS;HONORÁRIOS;-11,00\n")
}

func TestWriteJSON(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal(render(t, FormatJSON, Options{IncludeEntries: true}), &doc))

	assert.Equal(t, "extrato.txt", doc.Source)
	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Summary, 7)
	assert.Equal(t, "TOTAL GERAL", doc.Summary[6].Header)
	assert.Equal(t, "989,00", doc.Summary[6].Value)
	assert.True(t, decimal.NewFromInt(989).Equal(doc.Summary[6].Amount))
	assert.Equal(t, "-11,00", doc.Totals["HONORÁRIOS"])

	require.Len(t, doc.Entries, 3)
	assert.True(t, doc.Entries[2].Degraded)
	assert.Equal(t, "0,00", doc.Entries[2].Value)
	require.Len(t, doc.Issues, 1)
	assert.Equal(t, validation.RuleUnparseableAmount, doc.Issues[0].Rule)
}

func TestWriteJSONWithoutEntries(t *testing.T) {
	out := render(t, FormatJSON, Options{})
	assert.NotContains(t, string(out), `"entries"`)
}

func TestWriteXML(t *testing.T) {
	out := string(render(t, FormatXML, Options{IncludeEntries: true}))

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<resumo origem="extrato.txt" execucao="run-1" gerado="2026-10-19T12:00:00Z">`)
	assert.Contains(t, out, `<categoria nome="INDENIZAÇÕES">1.000,00</categoria>`)
	assert.Contains(t, out, `<categoria nome="HONORÁRIOS">-11,00</categoria>`)
	assert.Contains(t, out, `<totalGeral>989,00</totalGeral>`)
	assert.Contains(t, out, `<lancamento n="3" linha="4" categoria="DEMAIS AÇÕES" degradado="true">`)
	assert.Equal(t, 6, strings.Count(out, "<categoria "))
}

func TestWriteXLSX(t *testing.T) {
	f, err := excelize.OpenReader(bytes.NewReader(render(t, FormatXLSX, Options{IncludeEntries: true})))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, EntriesSheet}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Headers(), rows[0])
	assert.Equal(t, "1000", rows[1][0])
	assert.Equal(t, "-11", rows[1][4])
	assert.Equal(t, "989", rows[1][6])

	entries, err := f.GetRows(EntriesSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "HONORÁRIOS ADVOCATÍCIOS", entries[2][1])
	assert.Equal(t, "-11,00", entries[2][4])
}

func TestWriteXLSXSummaryOnly(t *testing.T) {
	f, err := excelize.OpenReader(bytes.NewReader(render(t, FormatXLSX, Options{})))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet}, f.GetSheetList())
}
