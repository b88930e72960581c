package services

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the lower-case hex SHA-256 of raw uploaded bytes.
// It identifies exact duplicates only; similar content hashes differently.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
