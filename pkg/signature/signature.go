// Package signature computes and verifies webhook payload signatures.
//
// The provider signs the exact raw bytes of the request body with
// HMAC-SHA256 under a pre-shared secret and sends the hex digest in a header.
// Verification is constant time and fails closed on any malformed input.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the hex-encoded HMAC-SHA256 of body under secret.
func Compute(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig is the valid signature of body under secret.
// The comparison runs in constant time; length mismatches and non-hex input
// are verification failures, never errors.
func Verify(secret string, body []byte, sig string) bool {
	candidate, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	return hmac.Equal(candidate, expected)
}
