package anglify

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
// Used to deduplicate document nodes, whose surrounding whitespace is kept
// outside the translated unit.
func HashText(text string) string {
	return HashExact(strings.TrimSpace(text))
}

// HashExact computes the SHA-256 hash of text as-is. Span offsets depend on
// leading whitespace, so whole-text cache entries use this form.
func HashExact(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKeyVersioned builds "<hash>:<direction>:<revision>". The revision
// keeps entries written against older dictionaries from being served.
func CacheKeyVersioned(hash string, dir Direction, revision string) string {
	return hash + ":" + string(dir) + ":" + revision
}
