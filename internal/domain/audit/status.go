package audit

// Status is the label assigned to an audited target
type Status string

const (
	StatusCritical Status = "CRITICAL: SECURITY BREACH DETECTED"
	StatusWarning  Status = "WARNING: HIGH RISK ANOMALY"
	StatusVerified Status = "VERIFIED: PROTOCOL COMPLIANT"
)

// Classification thresholds
const (
	// CriticalThreatThreshold must be exceeded, together with a low entropy source, for a breach
	CriticalThreatThreshold = 1000.0

	// CriticalEntropyCeiling is the exclusive upper bound on entropy for a breach
	CriticalEntropyCeiling = 100.0

	// WarningThreatThreshold must be exceeded for a high risk anomaly
	WarningThreatThreshold = 500.0
)

// Classify maps the two measurements to a Status. Rules are checked in order and
// the first match wins; NaN fails every comparison and lands on StatusVerified.
func Classify(entropySource, threatVector float64) Status {
	switch {
	case threatVector > CriticalThreatThreshold && entropySource < CriticalEntropyCeiling:
		return StatusCritical
	case threatVector > WarningThreatThreshold:
		return StatusWarning
	default:
		return StatusVerified
	}
}

// String returns the report label
func (s Status) String() string {
	return string(s)
}

// Level returns a short lowercase name suitable for metric labels and log fields
func (s Status) Level() string {
	switch s {
	case StatusCritical:
		return "critical"
	case StatusWarning:
		return "warning"
	case StatusVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// IsValid checks if the status is one of the known labels
func (s Status) IsValid() bool {
	switch s {
	case StatusCritical, StatusWarning, StatusVerified:
		return true
	default:
		return false
	}
}

// AllStatuses lists the labels in rule order
func AllStatuses() []Status {
	return []Status{StatusCritical, StatusWarning, StatusVerified}
}
