package itf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for digests. The version suffix leaves room for changing
// the encoding later without colliding with stored digests.
const (
	DomainState = "bankcheck/state/v1"
	DomainTrace = "bankcheck/trace/v1"
)

// Digest hashes the canonical encoding of v under a domain prefix.
// Format: SHA256(domain || 0x00 || canonical(v)).
func Digest(domain string, v Value) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return DigestBytes(domain, data), nil
}

// DigestBytes hashes raw bytes under a domain prefix.
func DigestBytes(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
