package detection

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintSize is the canonical digest length in bytes.
const FingerprintSize = sha256.Size

// Fingerprint is the deterministic digest of the audio content. It is the
// sole source of pseudo-randomness in the engine: identical bytes always
// produce identical detection results.
type Fingerprint [FingerprintSize]byte

// ComputeFingerprint hashes the raw audio bytes.
func ComputeFingerprint(raw []byte) Fingerprint {
	return Fingerprint(sha256.Sum256(raw))
}

// Hex renders the digest as a lowercase hex string.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}
