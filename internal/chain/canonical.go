// Package chain implements the tamper-evidence core of the ledger: a
// deterministic canonical encoding of audit entries, SHA-256 hash
// chaining, and HMAC-SHA-256 entry signatures.
//
// Each entry's hash commits to the previous entry's hash, so altering
// any stored entry breaks the chain from that point forward. The
// signature additionally binds the fields the hash does not cover, under
// a secret the storage layer never holds.
package chain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/chaintrail/chaintrail/internal/models"
)

// canonicalTime renders a timestamp in the single accepted canonical
// form: RFC 3339, UTC, microsecond precision. Postgres timestamptz
// stores microseconds, so canonicalization truncates sub-microsecond
// digits up front; a hash computed before the storage round-trip must
// equal one recomputed after it.
func canonicalTime(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano)
}

// hashPayload assembles the exact field set bound by the content hash.
// sourceAddress, clientAgent, sensitivity, complianceTags, and the error
// message are deliberately excluded here — they are authenticated by the
// signature only. Changing this set changes every hash in every existing
// ledger, so treat it as a wire format.
func hashPayload(e *models.AuditEntry) map[string]any {
	return map[string]any{
		"timestamp":     canonicalTime(e.Timestamp),
		"action":        string(e.Action),
		"actor_id":      e.ActorID,
		"actor_name":    e.ActorName,
		"resource_type": e.ResourceType,
		"resource_id":   e.ResourceID,
		"details":       detailsOrEmpty(e.Details),
		"previous_hash": e.PreviousHash,
		"outcome":       e.Outcome,
	}
}

// signaturePayload assembles every persisted field except the signature
// itself, including the content hash.
func signaturePayload(e *models.AuditEntry) map[string]any {
	return map[string]any{
		"id":              e.ID.String(),
		"timestamp":       canonicalTime(e.Timestamp),
		"action":          string(e.Action),
		"actor_id":        e.ActorID,
		"actor_name":      e.ActorName,
		"resource_type":   e.ResourceType,
		"resource_id":     e.ResourceID,
		"details":         detailsOrEmpty(e.Details),
		"source_address":  e.SourceAddress,
		"client_agent":    e.ClientAgent,
		"sensitivity":     string(e.Sensitivity),
		"compliance_tags": sortedTags(e.ComplianceTags),
		"outcome":         e.Outcome,
		"error_message":   e.ErrorMessage,
		"previous_hash":   e.PreviousHash,
		"hash":            e.Hash,
	}
}

// detailsOrEmpty normalizes a nil details map to an empty object so
// "no details" and "empty details" canonicalize identically.
func detailsOrEmpty(d map[string]any) map[string]any {
	if d == nil {
		return map[string]any{}
	}
	return d
}

// sortedTags returns a sorted copy of tags. Tag order carries no meaning,
// so canonicalization must not depend on insertion order.
func sortedTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	sort.Strings(out)
	return out
}

// canonicalize serializes a payload to its canonical byte form.
// encoding/json emits map keys in sorted order at every nesting level,
// which makes the output deterministic for arbitrary details payloads.
func canonicalize(payload map[string]any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing entry: %w", err)
	}
	return b, nil
}
