package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/davidleathers/audit-scanner/internal/domain/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scanner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
environment: production
log_level: info
report:
  format: json
metrics:
  textfile_path: /var/lib/node_exporter/audit_scanner.prom
telemetry:
  enabled: true
  otlp_endpoint: collector:4317
  sampling_rate: 0.25
  export_timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, "/var/lib/node_exporter/audit_scanner.prom", cfg.Metrics.TextfilePath)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, 0.25, cfg.Telemetry.SamplingRate)
	assert.Equal(t, 3*time.Second, cfg.Telemetry.ExportTimeout)
	assert.Equal(t, "audit-scanner", cfg.Telemetry.ServiceName)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "report:\n  format: json\n")
	t.Setenv("SCANNER_REPORT_FORMAT", "text")
	t.Setenv("SCANNER_LOG_LEVEL", "debug")
	t.Setenv("SCANNER_TELEMETRY_SAMPLING_RATE", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.5, cfg.Telemetry.SamplingRate)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown report format", body: "report:\n  format: xml\n"},
		{name: "unknown log level", body: "log_level: loud\n"},
		{name: "sampling rate out of range", body: "telemetry:\n  sampling_rate: 1.5\n"},
		{name: "telemetry without endpoint", body: "telemetry:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeValidation))
			assert.Equal(t, "INVALID_CONFIG", domainerrors.CodeOf(err))
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "report: [unterminated\n"))
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeConfiguration))
	assert.Equal(t, "LOAD_FILE", domainerrors.CodeOf(err))
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SCANNER_LOG_LEVEL":               "log_level",
		"SCANNER_ENVIRONMENT":             "environment",
		"SCANNER_REPORT_FORMAT":           "report.format",
		"SCANNER_METRICS_TEXTFILE_PATH":   "metrics.textfile_path",
		"SCANNER_TELEMETRY_OTLP_ENDPOINT": "telemetry.otlp_endpoint",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, envKey(in))
		})
	}
}
