package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// TextDigest returns the hex SHA-256 of s. Used to correlate résumé payloads
// in logs without logging their content.
func TextDigest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
