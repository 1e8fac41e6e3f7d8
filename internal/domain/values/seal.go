package values

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/davidleathers/audit-scanner/internal/domain/errors"
)

// SealPrefixLength is the number of hex characters shown in report lines
const SealPrefixLength = 16

// Seal is a SHA-256 digest rendered as lowercase hex, used for display-grade integrity
type Seal struct {
	hash string // Hex-encoded SHA-256 digest (64 characters)
}

var (
	// SHA-256 hex regex: exactly 64 hex characters
	sha256HexRegex = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
)

// NewSeal creates a Seal from its hex form
func NewSeal(hash string) (Seal, error) {
	if hash == "" {
		return Seal{}, errors.NewValidationError("EMPTY_SEAL",
			"seal cannot be empty")
	}

	normalized := strings.ToLower(strings.TrimSpace(hash))
	if !sha256HexRegex.MatchString(normalized) {
		return Seal{}, errors.NewValidationError("INVALID_SEAL_FORMAT",
			"seal must be a 64-character hexadecimal string (SHA-256)")
	}

	return Seal{hash: normalized}, nil
}

// NewSealFromDigest creates a Seal from a raw SHA-256 digest
func NewSealFromDigest(digest [sha256.Size]byte) Seal {
	return Seal{hash: hex.EncodeToString(digest[:])}
}

// MustNewSeal creates Seal and panics on error (for constants/tests)
func MustNewSeal(hash string) Seal {
	s, err := NewSeal(hash)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the hex-encoded digest
func (s Seal) String() string {
	return s.hash
}

// Bytes returns the raw digest bytes
func (s Seal) Bytes() ([]byte, error) {
	return hex.DecodeString(s.hash)
}

// IsEmpty checks if the seal is empty
func (s Seal) IsEmpty() bool {
	return s.hash == ""
}

// Equal compares two seals in constant time
func (s Seal) Equal(other Seal) bool {
	return subtle.ConstantTimeCompare([]byte(s.hash), []byte(other.hash)) == 1
}

// Prefix returns the first SealPrefixLength characters for display
func (s Seal) Prefix() string {
	if len(s.hash) <= SealPrefixLength {
		return s.hash
	}
	return s.hash[:SealPrefixLength]
}

// MarshalJSON implements JSON marshaling
func (s Seal) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.hash)
}

// UnmarshalJSON implements JSON unmarshaling
func (s *Seal) UnmarshalJSON(data []byte) error {
	var hash string
	if err := json.Unmarshal(data, &hash); err != nil {
		return err
	}

	seal, err := NewSeal(hash)
	if err != nil {
		return err
	}

	*s = seal
	return nil
}
