package models

import (
	"time"

	"github.com/google/uuid"
)

// IntegrityErrorKind distinguishes the two ways a chain can be broken.
type IntegrityErrorKind string

const (
	// IntegrityHashMismatch means recomputing an entry's content hash
	// does not reproduce the stored hash: the entry itself was altered.
	IntegrityHashMismatch IntegrityErrorKind = "hash_mismatch"

	// IntegrityChainBroken means an entry's previous_hash does not match
	// the stored hash of its predecessor: the chain was cut, reordered,
	// or an entry was inserted or removed.
	IntegrityChainBroken IntegrityErrorKind = "chain_broken"
)

// IntegrityError is a single verification finding. Findings are data,
// never raised as errors — detecting tampering is the expected outcome
// of verification, not an exceptional one.
type IntegrityError struct {
	Kind            IntegrityErrorKind `json:"kind"`
	EntryID         uuid.UUID          `json:"entry_id"`
	PreviousEntryID *uuid.UUID         `json:"previous_entry_id,omitempty"`

	// hash_mismatch fields.
	ExpectedHash string `json:"expected_hash,omitempty"`
	ActualHash   string `json:"actual_hash,omitempty"`

	// chain_broken fields.
	ExpectedPreviousHash string `json:"expected_previous_hash,omitempty"`
	ActualPreviousHash   string `json:"actual_previous_hash,omitempty"`
}

// IntegrityResult is the outcome of verifying a range of the chain.
type IntegrityResult struct {
	Valid        bool             `json:"valid"`
	TotalEntries int              `json:"total_entries"`
	Errors       []IntegrityError `json:"errors"`
}

// SignatureCheckResult is the outcome of re-verifying entry signatures
// over a range under the current signing secret.
type SignatureCheckResult struct {
	Valid          bool        `json:"valid"`
	TotalEntries   int         `json:"total_entries"`
	InvalidEntries []uuid.UUID `json:"invalid_entries"`
}

// ReportPeriod is the half-open-ended time window a report covers.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportStatistics aggregates entry counts for a compliance report.
type ReportStatistics struct {
	TotalEntries   int64                 `json:"total_entries"`
	DistinctActors int                   `json:"distinct_actors"`
	ActionsByType  map[Action]int64      `json:"actions_by_type"`
	BySensitivity  map[Sensitivity]int64 `json:"by_sensitivity"`
	FailedEntries  int64                 `json:"failed_entries"`
	FailedPercent  float64               `json:"failed_percent"`
}

// Violation summarizes an entry flagged by the report: a failed action
// or an explicit access denial.
type Violation struct {
	EntryID      uuid.UUID `json:"entry_id"`
	Timestamp    time.Time `json:"timestamp"`
	ActorID      string    `json:"actor_id"`
	ActorName    string    `json:"actor_name"`
	Action       Action    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// ComplianceReport is the full report returned to compliance tooling.
// ReportID is a fresh random identifier per call, not derived from content.
type ComplianceReport struct {
	ReportID       uuid.UUID            `json:"report_id"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Period         ReportPeriod         `json:"period"`
	Standards      []ComplianceStandard `json:"standards"`
	Statistics     ReportStatistics     `json:"statistics"`
	Violations     []Violation          `json:"violations"`
	ChainIntegrity IntegrityResult      `json:"chain_integrity"`
}
