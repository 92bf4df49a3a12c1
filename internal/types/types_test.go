package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersOrder(t *testing.T) {
	assert.Equal(t, []string{
		"INDENIZAÇÕES",
		"HORAS EXTRAS",
		"ADICIONAIS DIVERSOS",
		"DIFERENÇAS SALARIAIS",
		"HONORÁRIOS",
		"DEMAIS AÇÕES",
		"TOTAL GERAL",
	}, Headers())
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0] = "X"
	assert.Equal(t, CategoryIndenizacoes, Categories()[0])
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("  honorários ")
	assert.True(t, ok)
	assert.Equal(t, CategoryHonorarios, c)

	_, ok = ParseCategory("FÉRIAS")
	assert.False(t, ok)
}

func TestNumericTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"SALARIO 1.000,00", []string{"1.000,00"}},
		{"FGTS 10,00 20,00 (30,00)", []string{"10,00", "20,00", "(30,00)"}},
		{"MULTA ART. 477", []string{".", "477"}},
		{"SEM NUMEROS", nil},
		{"FULLWIDTH \uff11\uff12\uff13 4,00", []string{"4,00"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericTokens(tt.input))
			assert.Equal(t, len(tt.want), CountNumericTokens(tt.input))
		})
	}
}
