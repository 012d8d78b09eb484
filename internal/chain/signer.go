package chain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/chaintrail/chaintrail/internal/models"
)

// Sign computes the HMAC-SHA-256 tag over the entry's canonical form,
// including its hash. The secret is passed per call so key sourcing and
// rotation stay outside this package.
func Sign(e *models.AuditEntry, secret []byte) (string, error) {
	b, err := canonicalize(signaturePayload(e))
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(b)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature reports whether tag is a valid signature for the entry
// under secret. Comparison is constant-time.
func VerifySignature(e *models.AuditEntry, tag string, secret []byte) bool {
	expected, err := Sign(e, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(tag))
}
