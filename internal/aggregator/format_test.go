package aggregator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1234.5", "1.234,50"},
		{"-50", "-50,00"},
		{"0", "0,00"},
		{"0.005", "0,01"},
		{"-0.001", "0,00"},
		{"-0.004", "0,00"},
		{"2.675", "2,67"},
		{"1.005", "1,00"},
		{"-2.675", "-2,67"},
		{"0.125", "0,12"},
		{"999.999", "1.000,00"},
		{"100", "100,00"},
		{"1000", "1.000,00"},
		{"12345678.9", "12.345.678,90"},
		{"-1234567.891", "-1.234.567,89"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1", groupThousands("1"))
	assert.Equal(t, "123", groupThousands("123"))
	assert.Equal(t, "1.234", groupThousands("1234"))
	assert.Equal(t, "123.456", groupThousands("123456"))
	assert.Equal(t, "1.234.567", groupThousands("1234567"))
}
