package values

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/davidleathers/audit-scanner/internal/domain/errors"
)

// ObfuscationMask is XORed into the IEEE-754 bits of a masked measurement.
// It hides the value from casual reading only and provides no confidentiality.
const ObfuscationMask uint64 = 0x5A5A_A5A5_F0F0_0F0F

// MaskedVector holds the bit pattern of a float64 after XOR with ObfuscationMask
type MaskedVector struct {
	bits uint64
}

// MaskVector masks the raw bit pattern of value
func MaskVector(value float64) MaskedVector {
	return MaskedVector{bits: math.Float64bits(value) ^ ObfuscationMask}
}

// ParseMaskedVector parses the "0x<hex>" form produced by String
func ParseMaskedVector(s string) (MaskedVector, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "0x") || len(trimmed) == 2 {
		return MaskedVector{}, errors.NewValidationError("INVALID_MASKED_VECTOR",
			fmt.Sprintf("masked vector %q must be 0x-prefixed hex", s))
	}

	bits, err := strconv.ParseUint(trimmed[2:], 16, 64)
	if err != nil {
		return MaskedVector{}, errors.NewValidationError("INVALID_MASKED_VECTOR",
			fmt.Sprintf("masked vector %q is not a 64-bit hex value", s)).WithCause(err)
	}

	return MaskedVector{bits: bits}, nil
}

// Bits returns the masked bit pattern
func (m MaskedVector) Bits() uint64 {
	return m.bits
}

// Unmask recovers the original float64
func (m MaskedVector) Unmask() float64 {
	return math.Float64frombits(m.bits ^ ObfuscationMask)
}

// String renders the masked bits as lowercase hex without zero padding
func (m MaskedVector) String() string {
	return fmt.Sprintf("0x%x", m.bits)
}

// MarshalJSON implements JSON marshaling
func (m MaskedVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements JSON unmarshaling
func (m *MaskedVector) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseMaskedVector(raw)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}
