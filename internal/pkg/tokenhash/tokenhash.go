package tokenhash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash hashes a client session id using SHA256 before it is persisted
func Hash(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
