package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/chaintrail/chaintrail/internal/models"
)

// GenesisHash is the previous_hash sentinel for the first entry in the
// ledger: "0" repeated to the digest length.
var GenesisHash = strings.Repeat("0", sha256.Size*2)

// ComputeHash calculates the SHA-256 content hash for an entry. The
// entry's PreviousHash must already be set; the hash commits to it,
// forming the chain. Deterministic for well-formed entries.
func ComputeHash(e *models.AuditEntry) (string, error) {
	b, err := canonicalize(hashPayload(e))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyLink reports whether the entry claims the expected predecessor.
func VerifyLink(e *models.AuditEntry, expectedPreviousHash string) bool {
	return e.PreviousHash == expectedPreviousHash
}

// VerifyContent reports whether recomputing the hash from the entry's
// stored fields reproduces the stored hash. A mismatch means some
// hash-bound field was altered after the entry was written.
func VerifyContent(e *models.AuditEntry) bool {
	computed, err := ComputeHash(e)
	if err != nil {
		return false
	}
	return computed == e.Hash
}
