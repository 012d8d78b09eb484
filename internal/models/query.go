package models

import "time"

// SearchOpts holds filters for querying the ledger.
// All fields are optional — zero values mean "no filter".
type SearchOpts struct {
	ActorID      string
	Action       Action
	ResourceType string
	ResourceID   string
	Sensitivity  Sensitivity
	Tag          string // compliance tag set-membership
	Text         string // substring match over actor_name, resource_id, details
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
	Ascending    bool // default is newest first
}

// SearchResult is a paginated page of ledger entries. Total is the full
// count under the same filter, not the page size.
type SearchResult struct {
	Entries []AuditEntry `json:"entries"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
}

// LedgerStats aggregates ledger-wide counters for the stats endpoint.
type LedgerStats struct {
	TotalEntries  int64            `json:"total_entries"`
	ActionsByType map[Action]int64 `json:"actions_by_type"`
	FailedEntries int64            `json:"failed_entries"`
	LastEntryAt   *time.Time       `json:"last_entry_at,omitempty"`
}
