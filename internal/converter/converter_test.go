package converter

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ginjaninja78/lancamentos/internal/classifier"
	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/rulesbook"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/ginjaninja78/lancamentos/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `
INDENIZAÇÃO POR DANO MORAL 1.000,00 0,00 1.000,00
HORA EXTRA 50% 300,00 30,00 330,00
Cálculo liquidado por PJe-Calc Versão 2.10 pág. 1
ADICIONAL DE
INSALUBRIDADE 100,00 10,00 110,00
DIFERENÇA SALARIAL 50,00 5,00 55,00
HONORÁRIOS ADVOCATÍCIOS 10,00 1,00 (11,00)
SALDO DE SALÁRIO 1,00 2,00 3,00
`

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Warn(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(msg, args...))
}

func formatted(t *testing.T, r Result) map[string]string {
	t.Helper()
	require.NoError(t, r.Error)
	require.True(t, r.Success)
	require.NotNil(t, r.Summary)
	return r.Summary.Formatted()
}

func TestRunEndToEnd(t *testing.T) {
	result := New(nil, nil, nil).Run("extrato.txt", statement)

	got := formatted(t, result)
	assert.Equal(t, map[string]string{
		"INDENIZAÇÕES":         "1.000,00",
		"HORAS EXTRAS":         "330,00",
		"ADICIONAIS DIVERSOS":  "110,00",
		"DIFERENÇAS SALARIAIS": "55,00",
		"HONORÁRIOS":           "-11,00",
		"DEMAIS AÇÕES":         "3,00",
		"TOTAL GERAL":          "1.487,00",
	}, got)

	assert.Equal(t, "extrato.txt", result.Source)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 8, result.Stats.LinesRead)
	assert.Equal(t, 1, result.Stats.FooterLines)
	assert.Equal(t, 6, result.Stats.RowsReconstructed)
	assert.Equal(t, 0, result.Stats.RowsDropped)
	assert.Equal(t, 6, result.Stats.EntriesParsed)
	assert.Equal(t, "ADICIONAL DE INSALUBRIDADE", result.Entries[2].Description)
	assert.True(t, result.Validation.IsValid)
}

func TestRunEmptyInput(t *testing.T) {
	log := &recordingLogger{}

	for _, text := range []string{"", "   \n\t  "} {
		result := New(nil, nil, log).Run("api", text)

		assert.ErrorIs(t, result.Error, ErrEmptyInput)
		assert.False(t, result.Success)
		assert.Nil(t, result.Summary)
	}
	assert.Equal(t, []string{"api: " + EmptyInputWarning, "api: " + EmptyInputWarning}, log.warns)
}

func TestRunShortLinesMergeIntoOneRow(t *testing.T) {
	// Neither line has three numeric tokens, so both become a single row
	// whose last token is the total.
	result := New(nil, nil, nil).Run("-", "SALARIO 1.000,00\nHORA EXTRA NOTURNA 500,00")

	got := formatted(t, result)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "SALARIO", result.Entries[0].Description)
	assert.Equal(t, types.CategoryDemais, result.Entries[0].Category)
	assert.Equal(t, "500,00", got["DEMAIS AÇÕES"])
	assert.Equal(t, "500,00", got["TOTAL GERAL"])
}

func TestRunCompleteShortRows(t *testing.T) {
	cfg := config.Default()
	cfg.Reconstruction.MinNumericTokens = 1

	result := New(cfg, nil, nil).Run("-", "SALARIO 1.000,00\nHORA EXTRA NOTURNA 500,00")

	got := formatted(t, result)
	assert.Equal(t, "500,00", got["HORAS EXTRAS"])
	assert.Equal(t, "1.000,00", got["DEMAIS AÇÕES"])
	assert.Equal(t, "0,00", got["INDENIZAÇÕES"])
	assert.Equal(t, "1.500,00", got["TOTAL GERAL"])
}

func TestRunDegradedAndDroppedRows(t *testing.T) {
	log := &recordingLogger{}
	text := "MULTA 1,00 2,00 1,2,3\nHORAS EXTRAS 1,00 2,00 3,00\nOBSERVACAO FINAL"

	result := New(nil, nil, log).Run("-", text)

	got := formatted(t, result)
	assert.Equal(t, 1, result.Stats.EntriesDegraded)
	assert.Equal(t, 1, result.Stats.RowsDropped)
	assert.Equal(t, []int{3}, result.Dropped)
	assert.Equal(t, "0,00", got["DEMAIS AÇÕES"])
	assert.Equal(t, "3,00", got["TOTAL GERAL"])

	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], `"1,2,3"`)

	assert.True(t, result.Validation.IsValid)
	assert.Equal(t, 1, result.Validation.WarningCount)
	rules := make([]string, 0, len(result.Validation.Issues))
	for _, issue := range result.Validation.Issues {
		rules = append(rules, issue.Rule)
	}
	assert.ElementsMatch(t, []string{validation.RuleDroppedRow, validation.RuleUnparseableAmount}, rules)
}

func TestRunStrictValidationRejectsWarnings(t *testing.T) {
	cfg := config.Default()
	cfg.Validation.Strict = true
	cfg.Validation.SkipInfo = true
	text := "MULTA 1,00 2,00 1,2,3\nHORAS EXTRAS 1,00 2,00 3,00\nOBSERVACAO FINAL"

	result := New(cfg, nil, nil).Run("-", text)

	require.ErrorIs(t, result.Error, ErrValidationFailed)
	assert.Contains(t, result.Error.Error(), "0 error(s), 1 warning(s)")
	assert.False(t, result.Success)
	require.NotNil(t, result.Summary)
	assert.False(t, result.Validation.IsValid)
	require.Len(t, result.Validation.Issues, 1)
	assert.Equal(t, validation.RuleUnparseableAmount, result.Validation.Issues[0].Rule)

	clean := New(cfg, nil, nil).Run("-", "HORAS EXTRAS 1,00 2,00 3,00")
	assert.NoError(t, clean.Error)
}

func TestRunIsSafeForConcurrentUse(t *testing.T) {
	conv := New(nil, nil, nil)

	var wg sync.WaitGroup
	results := make(chan Result, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- conv.Run("-", statement)
		}()
	}
	wg.Wait()
	close(results)

	ids := make(map[string]bool)
	for r := range results {
		assert.Equal(t, "1.487,00", formatted(t, r)["TOTAL GERAL"])
		ids[r.RunID] = true
	}
	assert.Len(t, ids, 8)
}

func TestLoadClassifier(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		c, err := LoadClassifier(config.Default())
		require.NoError(t, err)
		assert.Equal(t, classifier.Default().Rules(), c.Rules())
	})

	t.Run("yaml rules", func(t *testing.T) {
		cfg := config.Default()
		cfg.Classification.Rules = []config.RuleConfig{
			{Category: "honorários", Keywords: []string{"sucumbência"}},
		}

		c, err := LoadClassifier(cfg)
		require.NoError(t, err)
		assert.Equal(t, types.CategoryHonorarios, c.Classify("HONORÁRIOS DE SUCUMBÊNCIA"))
		assert.Equal(t, types.CategoryDemais, c.Classify("HORA EXTRA"))
	})

	t.Run("invalid yaml rules", func(t *testing.T) {
		cfg := config.Default()
		cfg.Classification.Rules = []config.RuleConfig{{Category: "HORAS EXTRAS"}}

		_, err := LoadClassifier(cfg)
		assert.ErrorIs(t, err, classifier.ErrInvalidRules)
	})

	t.Run("workbook wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "regras.xlsx")
		require.NoError(t, rulesbook.Save(path, []classifier.Rule{
			{Category: types.CategoryAdicionais, Keywords: []string{"HORA EXTRA"}},
		}))

		cfg := config.Default()
		cfg.Classification.RulesWorkbook = path
		cfg.Classification.Rules = []config.RuleConfig{{Category: "HORAS EXTRAS", Keywords: []string{"HORA EXTRA"}}}

		c, err := LoadClassifier(cfg)
		require.NoError(t, err)
		assert.Equal(t, types.CategoryAdicionais, c.Classify("HORA EXTRA 50%"))
	})

	t.Run("nil config", func(t *testing.T) {
		c, err := LoadClassifier(nil)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestNewUsesCustomClassifier(t *testing.T) {
	cls, err := classifier.New([]classifier.Rule{
		{Category: types.CategoryIndenizacoes, Keywords: []string{"SALDO"}},
	})
	require.NoError(t, err)

	conv := New(nil, cls, nil)
	result := conv.Run("-", "SALDO DE SALÁRIO 1,00 2,00 3,00")

	assert.Same(t, cls, conv.Classifier())
	assert.Equal(t, "3,00", formatted(t, result)["INDENIZAÇÕES"])
	assert.True(t, strings.HasPrefix(result.Entries[0].Description, "SALDO"))
}
