package client

import "time"

// AuditEntry is one immutable record in the ledger.
type AuditEntry struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Action         string         `json:"action"`
	ActorID        string         `json:"actor_id"`
	ActorName      string         `json:"actor_name"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	Details        map[string]any `json:"details,omitempty"`
	SourceAddress  string         `json:"source_address,omitempty"`
	ClientAgent    string         `json:"client_agent,omitempty"`
	Sensitivity    string         `json:"sensitivity"`
	ComplianceTags []string       `json:"compliance_tags,omitempty"`
	Outcome        bool           `json:"outcome"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	PreviousHash   string         `json:"previous_hash"`
	Hash           string         `json:"hash"`
	Signature      string         `json:"signature"`
}

// CreateEntryRequest is the payload for recording an entry.
type CreateEntryRequest struct {
	Action         string         `json:"action"`
	ActorID        string         `json:"actor_id"`
	ActorName      string         `json:"actor_name,omitempty"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	Details        map[string]any `json:"details,omitempty"`
	SourceAddress  string         `json:"source_address,omitempty"`
	ClientAgent    string         `json:"client_agent,omitempty"`
	Sensitivity    string         `json:"sensitivity,omitempty"`
	ComplianceTags []string       `json:"compliance_tags,omitempty"`
	Outcome        *bool          `json:"outcome,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
}

// SearchResult is a paginated page of entries.
type SearchResult struct {
	Entries []AuditEntry `json:"entries"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
}

// SearchOptions holds optional filters for Search and Export.
type SearchOptions struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Sensitivity  string
	Tag          string
	Text         string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
	Ascending    bool
}

// IntegrityError is a single verification finding.
type IntegrityError struct {
	Kind                 string  `json:"kind"`
	EntryID              string  `json:"entry_id"`
	PreviousEntryID      *string `json:"previous_entry_id,omitempty"`
	ExpectedHash         string  `json:"expected_hash,omitempty"`
	ActualHash           string  `json:"actual_hash,omitempty"`
	ExpectedPreviousHash string  `json:"expected_previous_hash,omitempty"`
	ActualPreviousHash   string  `json:"actual_previous_hash,omitempty"`
}

// IntegrityResult is the outcome of a chain verification run.
type IntegrityResult struct {
	Valid        bool             `json:"valid"`
	TotalEntries int              `json:"total_entries"`
	Errors       []IntegrityError `json:"errors"`
}

// SignatureCheckResult is the outcome of a signature verification run.
type SignatureCheckResult struct {
	Valid          bool     `json:"valid"`
	TotalEntries   int      `json:"total_entries"`
	InvalidEntries []string `json:"invalid_entries"`
}

// ReportPeriod is the time window a report covers.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportStatistics aggregates entry counts for a compliance report.
type ReportStatistics struct {
	TotalEntries   int64            `json:"total_entries"`
	DistinctActors int              `json:"distinct_actors"`
	ActionsByType  map[string]int64 `json:"actions_by_type"`
	BySensitivity  map[string]int64 `json:"by_sensitivity"`
	FailedEntries  int64            `json:"failed_entries"`
	FailedPercent  float64          `json:"failed_percent"`
}

// Violation is an entry flagged by a compliance report.
type Violation struct {
	EntryID      string    `json:"entry_id"`
	Timestamp    time.Time `json:"timestamp"`
	ActorID      string    `json:"actor_id"`
	ActorName    string    `json:"actor_name"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// ComplianceReport is the full report payload.
type ComplianceReport struct {
	ReportID       string           `json:"report_id"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Period         ReportPeriod     `json:"period"`
	Standards      []string         `json:"standards"`
	Statistics     ReportStatistics `json:"statistics"`
	Violations     []Violation      `json:"violations"`
	ChainIntegrity IntegrityResult  `json:"chain_integrity"`
}

// LedgerStats holds ledger-wide aggregate counters.
type LedgerStats struct {
	TotalEntries  int64            `json:"total_entries"`
	ActionsByType map[string]int64 `json:"actions_by_type"`
	FailedEntries int64            `json:"failed_entries"`
	LastEntryAt   *time.Time       `json:"last_entry_at,omitempty"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	StreamClients int     `json:"stream_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
