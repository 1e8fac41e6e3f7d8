package audit

import "fmt"

// Target is one record under audit
type Target struct {
	ID            uint32  `json:"id"`
	EntropySource float64 `json:"entropy_source"`
	ThreatVector  float64 `json:"threat_vector"`
}

// Status classifies the target's measurements
func (t *Target) Status() Status {
	return Classify(t.EntropySource, t.ThreatVector)
}

// DisplayID renders the identifier as 0x-prefixed uppercase hex
func (t *Target) DisplayID() string {
	return FormatTargetID(t.ID)
}

// Wipe overwrites every field with zero
func (t *Target) Wipe() {
	t.ID = 0
	t.EntropySource = 0
	t.ThreatVector = 0
}

// IsWiped reports whether Wipe has cleared the target
func (t *Target) IsWiped() bool {
	return t.ID == 0 && t.EntropySource == 0 && t.ThreatVector == 0
}

// WithTarget runs fn with t and wipes t once fn returns, errors or panics
func WithTarget(t *Target, fn func(*Target) error) error {
	defer t.Wipe()
	return fn(t)
}

// FormatTargetID renders an identifier the way reports show it
func FormatTargetID(id uint32) string {
	return fmt.Sprintf("0x%X", id)
}
