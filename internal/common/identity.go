package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKeyForIdentity derives the on-disk cache key for an account
// identity. Hashing keeps the email address itself out of filenames
// and directory listings.
func CacheKeyForIdentity(identity string) string {
	normalized := strings.ToLower(strings.TrimSpace(identity))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
