package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categorized(row int, desc string, cat types.Category, amount string) types.CategorizedEntry {
	return types.CategorizedEntry{
		ParsedEntry: types.ParsedEntry{
			Row:         row,
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			AmountText:  amount,
		},
		Category: cat,
	}
}

func TestValidateCleanRun(t *testing.T) {
	entries := []types.CategorizedEntry{
		categorized(1, "HONORÁRIOS ADVOCATÍCIOS", types.CategoryHonorarios, "150"),
		categorized(2, "HORA EXTRA 50%", types.CategoryHorasExtras, "500"),
	}

	result := NewValidator().ValidateAll(Input{Entries: entries, Summary: aggregator.Aggregate(entries)})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 2, result.EntriesValidated)
}

func TestValidateEntriesReportsDegradedRows(t *testing.T) {
	degraded := categorized(3, "MULTA", types.CategoryIndenizacoes, "0")
	degraded.AmountText = "1,2,3"
	degraded.Degraded = true

	issues := NewValidator().ValidateEntries([]types.CategorizedEntry{degraded})

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, RuleUnparseableAmount, issues[0].Rule)
	assert.Equal(t, 3, issues[0].Row)
	assert.Equal(t, "1,2,3", issues[0].Value)
}

func TestValidateEntriesReportsEmptyDescription(t *testing.T) {
	issues := NewValidator().ValidateEntries([]types.CategorizedEntry{
		categorized(1, "", types.CategoryDemais, "10"),
	})

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Equal(t, RuleEmptyDescription, issues[0].Rule)
	assert.Contains(t, issues[0].Message, "DEMAIS AÇÕES")
}

func TestValidateDropped(t *testing.T) {
	rows := []string{"TOTAL DA RECLAMADA", "SALARIO 1 2 3"}

	issues := NewValidator().ValidateDropped(rows, []int{1, 7})

	require.Len(t, issues, 2)
	assert.Equal(t, RuleDroppedRow, issues[0].Rule)
	assert.Equal(t, "TOTAL DA RECLAMADA", issues[0].Value)
	assert.Equal(t, 7, issues[1].Row)
	assert.Empty(t, issues[1].Value)
}

func TestValidateSummaryDetectsMismatch(t *testing.T) {
	built := []types.CategorizedEntry{
		categorized(1, "HONORÁRIOS", types.CategoryHonorarios, "100"),
	}
	summary := aggregator.Aggregate(built)

	other := []types.CategorizedEntry{
		categorized(1, "HONORÁRIOS", types.CategoryHonorarios, "100"),
		categorized(2, "HONORÁRIOS PERICIAIS", types.CategoryHonorarios, "20"),
	}
	issues := NewValidator().ValidateSummary(summary, other)

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, RuleHonorarios, issues[0].Rule)
	assert.Equal(t, "100,00", issues[0].Value)
	assert.Contains(t, issues[0].Message, "120,00")
}

func TestValidateAllCountsAndOptions(t *testing.T) {
	degraded := categorized(2, "SALDO", types.CategoryDemais, "0")
	degraded.Degraded = true
	degraded.AmountText = ".."
	entries := []types.CategorizedEntry{degraded}
	in := Input{
		Rows:    []string{"SEM NUMEROS", "SALDO .."},
		Dropped: []int{1},
		Entries: entries,
		Summary: aggregator.Aggregate(entries),
	}

	result := NewValidator().ValidateAll(in)
	assert.True(t, result.IsValid)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, 1, result.InfoCount)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, RuleDroppedRow, result.Issues[0].Rule)

	strict := NewValidatorWithOptions(Options{TreatWarningsAsErrors: true, SkipInfo: true}).ValidateAll(in)
	assert.False(t, strict.IsValid)
	assert.Equal(t, 0, strict.InfoCount)
	assert.Len(t, strict.Issues, 1)
}

func TestFormatIssues(t *testing.T) {
	assert.Equal(t, "No validation issues.", FormatIssues(nil))

	out := FormatIssues([]*Issue{
		{Severity: SeverityWarning, Row: 4, Field: "amount", Value: "1,2,3", Message: "bad"},
		{Severity: SeverityError, Field: "TOTAL GERAL", Value: "1,00", Message: "off"},
	})

	assert.Contains(t, out, "2 issue(s)")
	assert.Contains(t, out, "1. [WARNING] Row 4, Field 'amount': bad (value: '1,2,3')")
	assert.Contains(t, out, "2. [ERROR] TOTAL GERAL: off (value: '1,00')")
}

func TestWriteIssueLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.log")

	err := WriteIssueLog("extrato.txt", []*Issue{{Severity: SeverityInfo, Row: 1, Field: "row", Message: "ignored"}}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Source: extrato.txt")
	assert.Contains(t, string(data), "[INFO] Row 1, Field 'row': ignored")
}
