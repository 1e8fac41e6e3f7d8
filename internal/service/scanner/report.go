package scanner

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/davidleathers/audit-scanner/internal/domain/audit"
	"github.com/davidleathers/audit-scanner/internal/domain/errors"
	"github.com/davidleathers/audit-scanner/internal/domain/values"
)

// Format selects how a Report is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const rule = "--------------------------------------------------"

var (
	bannerLines = []string{
		rule,
		"   PROTOCOL SECURITY SCANNER - VERSION 1.0.0      ",
		"   COMPLIANCE: ISO/IEC 27001:2026 | NIST FRAMEWORK",
		rule,
	}
	footerLines = []string{
		rule,
		"   SYSTEM STATUS: SECURE | CORE STABLE            ",
		rule,
	}
)

// Line renders the finding as a single report line
func (f Finding) Line() string {
	return fmt.Sprintf("[%s] ID: %s | Vector: %s | Seal: %s",
		f.Status, audit.FormatTargetID(f.TargetID), f.MaskedVector, f.Seal.Prefix())
}

// Reporter writes reports in a fixed format
type Reporter struct {
	format Format
}

// NewReporter validates the format name
func NewReporter(format string) (*Reporter, error) {
	switch Format(format) {
	case FormatText, FormatJSON:
		return &Reporter{format: Format(format)}, nil
	default:
		return nil, errors.NewValidationError("UNKNOWN_REPORT_FORMAT",
			fmt.Sprintf("report format %q is not one of text, json", format))
	}
}

// Format returns the configured format
func (r *Reporter) Format() Format {
	return r.format
}

// Render writes report to w
func (r *Reporter) Render(w io.Writer, report *Report) error {
	switch r.format {
	case FormatJSON:
		return renderJSON(w, report)
	default:
		return renderText(w, report)
	}
}

// errWriter stops writing after the first failure
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func renderText(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	for _, line := range bannerLines {
		ew.println(line)
	}
	for _, f := range report.Findings {
		ew.println(f.Line())
	}
	for _, line := range footerLines {
		ew.println(line)
	}
	if ew.err != nil {
		return errors.Wrap(ew.err, "writing text report")
	}
	return nil
}

type jsonFinding struct {
	Status audit.Status        `json:"status"`
	Level  string              `json:"level"`
	ID     string              `json:"id"`
	Vector values.MaskedVector `json:"vector"`
	Seal   values.Seal         `json:"seal"`
}

type jsonReport struct {
	RunID     string        `json:"run_id"`
	AuditedAt int64         `json:"audited_at"`
	Findings  []jsonFinding `json:"findings"`
}

func renderJSON(w io.Writer, report *Report) error {
	doc := jsonReport{
		RunID:     report.RunID.String(),
		AuditedAt: report.AuditedAt,
		Findings:  make([]jsonFinding, 0, len(report.Findings)),
	}
	for _, f := range report.Findings {
		doc.Findings = append(doc.Findings, jsonFinding{
			Status: f.Status,
			Level:  f.Status.Level(),
			ID:     audit.FormatTargetID(f.TargetID),
			Vector: f.MaskedVector,
			Seal:   f.Seal,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "writing json report")
	}
	return nil
}
