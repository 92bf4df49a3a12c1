package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.ShouldContinueOnError())
	assert.Equal(t, "UTF-8", cfg.Input.Encoding)
	assert.Equal(t, []string{"CÁLCULO LIQUIDADO", "VERSÃO", "PÁG"}, cfg.Reconstruction.FooterMarkers)
	assert.Equal(t, 3, cfg.Reconstruction.MinNumericTokens)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.EqualValues(t, 2<<20, cfg.Server.MaxBodyBytes)
}

func TestLoadMainConfigMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadMainConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.OutputFormat)

	_, err = LoadMainConfig(missing, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMainConfigFromYAML(t *testing.T) {
	path := writeConfig(t, `
output_dir: ./relatorios
output_format: xlsx
log_level: debug
max_concurrency: 2
continue_on_error: false
input:
  encoding: Windows-1252
reconstruction:
  footer_markers: ["RODAPÉ"]
  min_numeric_tokens: 2
classification:
  rules:
    - category: HONORÁRIOS
      keywords: [SUCUMBÊNCIA]
validation:
  strict: true
  skip_info: true
server:
  addr: "127.0.0.1:9000"
`)

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "./relatorios", cfg.OutputDir)
	assert.Equal(t, "xlsx", cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.False(t, cfg.ShouldContinueOnError())
	assert.Equal(t, "Windows-1252", cfg.Input.Encoding)
	assert.Equal(t, []string{"RODAPÉ"}, cfg.Reconstruction.FooterMarkers)
	assert.Equal(t, 2, cfg.Reconstruction.MinNumericTokens)
	require.Len(t, cfg.Classification.Rules, 1)
	assert.Equal(t, "HONORÁRIOS", cfg.Classification.Rules[0].Category)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.Validation.Strict)
	assert.True(t, cfg.Validation.SkipInfo)
	assert.Equal(t, "resumo_{original}_{timestamp}", cfg.FileNameFormat)
}

func TestLoadMainConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "output_dir: [unterminated"},
		{"bad log level", "log_level: chatty"},
		{"bad concurrency", "max_concurrency: -1"},
		{"bad min tokens", "reconstruction:\n  min_numeric_tokens: -2"},
		{"unknown category", "classification:\n  rules:\n    - category: FÉRIAS\n      keywords: [FÉRIAS]"},
		{"missing workbook", "classification:\n  rules_workbook: /definitely/not/here.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.body), true)
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LANCAMENTOS_OUTPUT_DIR", "/tmp/out")
	t.Setenv("LANCAMENTOS_OUTPUT_FORMAT", "json")
	t.Setenv("LANCAMENTOS_LOG_LEVEL", "warn")
	t.Setenv("LANCAMENTOS_ENCODING", "ISO-8859-1")
	t.Setenv("LANCAMENTOS_SERVER_ADDR", ":9999")
	t.Setenv("LANCAMENTOS_MAX_CONCURRENCY", "8")
	t.Setenv("LANCAMENTOS_STRICT", "true")

	cfg, err := LoadMainConfig(writeConfig(t, "output_dir: ./ignored\n"), true)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "ISO-8859-1", cfg.Input.Encoding)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.True(t, cfg.Validation.Strict)
}

func TestEnvOverrideBadNumber(t *testing.T) {
	t.Setenv("LANCAMENTOS_MAX_CONCURRENCY", "many")

	_, err := LoadMainConfig(writeConfig(t, ""), true)
	assert.Error(t, err)
}

func TestEnvOverrideBadStrict(t *testing.T) {
	t.Setenv("LANCAMENTOS_STRICT", "sometimes")

	_, err := LoadMainConfig(writeConfig(t, ""), true)
	assert.Error(t, err)
}
