package audit

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/davidleathers/audit-scanner/internal/domain/values"
)

// sealInputSize is id (4) + entropy bits (8) + threat bits (8) + timestamp (8)
const sealInputSize = 28

// sealInput serializes the target and timestamp big-endian in fixed order
func sealInput(t *Target, ts int64) []byte {
	buf := make([]byte, 0, sealInputSize)
	buf = binary.BigEndian.AppendUint32(buf, t.ID)
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(t.EntropySource))
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(t.ThreatVector))
	buf = binary.BigEndian.AppendUint64(buf, uint64(ts))
	return buf
}

// GenerateSeal computes the SHA-256 seal of t at timestamp ts (unix seconds)
func GenerateSeal(t *Target, ts int64) values.Seal {
	input := sealInput(t, ts)
	defer clear(input)
	return values.NewSealFromDigest(sha256.Sum256(input))
}

// VerifySeal recomputes the seal and compares it in constant time
func VerifySeal(t *Target, ts int64, seal values.Seal) bool {
	if seal.IsEmpty() {
		return false
	}
	return GenerateSeal(t, ts).Equal(seal)
}
