package teams

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
)

// tokenBytes is the entropy of a raw invitation token. 32 bytes gives
// 256 bits, encoded URL-safe for use in invite links.
const tokenBytes = 32

// GenerateRawToken returns a new random URL-safe invitation token. The
// raw token is handed to the caller exactly once and never stored.
func GenerateRawToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate invitation token")
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// TokenDigest computes the fixed-width one-way digest of a raw token.
// Only digests are persisted; the raw token cannot be recovered from
// one. The digest is deterministic so a presented token can be matched
// against the ledger.
func TokenDigest(rawToken string) string {
	digest := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(digest[:])
}
