package scanner

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/audit-scanner/internal/domain/audit"
	domainerrors "github.com/davidleathers/audit-scanner/internal/domain/errors"
	"github.com/davidleathers/audit-scanner/internal/domain/values"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	targets := sampleTargets()
	findings := make([]Finding, 0, len(targets))
	for i := range targets {
		findings = append(findings, Finding{
			Status:       targets[i].Status(),
			TargetID:     targets[i].ID,
			MaskedVector: values.MaskVector(targets[i].ThreatVector),
			Seal:         audit.GenerateSeal(&targets[i], fixedAuditTime),
		})
	}
	return &Report{
		RunID:     uuid.MustParse("6f1c9f1e-6a4f-4a63-9d1e-1f0c2b9a7d11"),
		AuditedAt: fixedAuditTime,
		Findings:  findings,
	}
}

func TestFinding_Line(t *testing.T) {
	report := sampleReport(t)

	assert.Equal(t,
		"[CRITICAL: SECURITY BREACH DETECTED] ID: 0xFD21 | Vector: 0x1ac29da5f0f00f0f | Seal: 4cfe0a459b9baf04",
		report.Findings[0].Line())
	assert.Equal(t,
		"[VERIFIED: PROTOCOL COMPLIANT] ID: 0xAF44 | Vector: 0x1a2865a5f0f00f0f | Seal: 901ba385d8942791",
		report.Findings[1].Line())
}

func TestReporter_RenderText(t *testing.T) {
	reporter, err := NewReporter("text")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, reporter.Render(&buf, sampleReport(t)))

	want := strings.Join([]string{
		"--------------------------------------------------",
		"   PROTOCOL SECURITY SCANNER - VERSION 1.0.0      ",
		"   COMPLIANCE: ISO/IEC 27001:2026 | NIST FRAMEWORK",
		"--------------------------------------------------",
		"[CRITICAL: SECURITY BREACH DETECTED] ID: 0xFD21 | Vector: 0x1ac29da5f0f00f0f | Seal: 4cfe0a459b9baf04",
		"[VERIFIED: PROTOCOL COMPLIANT] ID: 0xAF44 | Vector: 0x1a2865a5f0f00f0f | Seal: 901ba385d8942791",
		"--------------------------------------------------",
		"   SYSTEM STATUS: SECURE | CORE STABLE            ",
		"--------------------------------------------------",
	}, "\n") + "\n"

	assert.Equal(t, want, buf.String())
}

func TestReporter_RenderTextEmpty(t *testing.T) {
	reporter, err := NewReporter("text")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, reporter.Render(&buf, &Report{}))
	assert.Len(t, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), 7)
}

func TestReporter_RenderJSON(t *testing.T) {
	reporter, err := NewReporter("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, reporter.Format())

	var buf bytes.Buffer
	require.NoError(t, reporter.Render(&buf, sampleReport(t)))

	var doc struct {
		RunID     string `json:"run_id"`
		AuditedAt int64  `json:"audited_at"`
		Findings  []struct {
			Status string `json:"status"`
			Level  string `json:"level"`
			ID     string `json:"id"`
			Vector string `json:"vector"`
			Seal   string `json:"seal"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "6f1c9f1e-6a4f-4a63-9d1e-1f0c2b9a7d11", doc.RunID)
	assert.Equal(t, fixedAuditTime, doc.AuditedAt)
	require.Len(t, doc.Findings, 2)
	assert.Equal(t, "CRITICAL: SECURITY BREACH DETECTED", doc.Findings[0].Status)
	assert.Equal(t, "critical", doc.Findings[0].Level)
	assert.Equal(t, "0xFD21", doc.Findings[0].ID)
	assert.Equal(t, "0x1ac29da5f0f00f0f", doc.Findings[0].Vector)
	assert.Equal(t, "4cfe0a459b9baf04023dde597251ab840fa7b2162795ef2233b2e3cbd58956f4", doc.Findings[0].Seal)
}

func TestNewReporter_UnknownFormat(t *testing.T) {
	_, err := NewReporter("xml")
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeValidation))
	assert.Equal(t, "UNKNOWN_REPORT_FORMAT", domainerrors.CodeOf(err))
}

type failingWriter struct {
	after int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestReporter_RenderWriteFailure(t *testing.T) {
	// the json encoder emits the whole document in a single write
	tests := map[string]int{"text": 2, "json": 0}

	for format, after := range tests {
		t.Run(format, func(t *testing.T) {
			reporter, err := NewReporter(format)
			require.NoError(t, err)

			err = reporter.Render(&failingWriter{after: after}, sampleReport(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "disk full")
		})
	}
}
