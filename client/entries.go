package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// EntryService handles recording and reading ledger entries.
type EntryService struct {
	c *Client
}

// Create records a new audit entry and returns it with its assigned
// position in the chain.
func (s *EntryService) Create(ctx context.Context, req *CreateEntryRequest) (*AuditEntry, error) {
	var entry AuditEntry
	if err := s.c.post(ctx, "/api/v1/entries", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get returns a single entry by ID.
func (s *EntryService) Get(ctx context.Context, id string) (*AuditEntry, error) {
	var entry AuditEntry
	if err := s.c.get(ctx, "/api/v1/entries/"+url.PathEscape(id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// exportResponse wraps the JSON export payload.
type exportResponse struct {
	ExportedAt time.Time    `json:"exported_at"`
	Total      int64        `json:"total"`
	Entries    []AuditEntry `json:"entries"`
}

// Export downloads entries matching the given filters, oldest first.
func (s *EntryService) Export(ctx context.Context, opts *SearchOptions) ([]AuditEntry, error) {
	params := searchParams(opts)
	params.Set("format", "json")
	var resp exportResponse
	if err := s.c.get(ctx, "/api/v1/entries/export", params, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// searchParams encodes SearchOptions as query parameters. Shared by
// the search and export endpoints, whose filters are identical.
func searchParams(opts *SearchOptions) url.Values {
	params := url.Values{}
	if opts == nil {
		return params
	}
	if opts.ActorID != "" {
		params.Set("actor_id", opts.ActorID)
	}
	if opts.Action != "" {
		params.Set("action", opts.Action)
	}
	if opts.ResourceType != "" {
		params.Set("resource_type", opts.ResourceType)
	}
	if opts.ResourceID != "" {
		params.Set("resource_id", opts.ResourceID)
	}
	if opts.Sensitivity != "" {
		params.Set("sensitivity", opts.Sensitivity)
	}
	if opts.Tag != "" {
		params.Set("tag", opts.Tag)
	}
	if opts.Text != "" {
		params.Set("q", opts.Text)
	}
	if opts.From != nil {
		params.Set("from", opts.From.UTC().Format(time.RFC3339))
	}
	if opts.To != nil {
		params.Set("to", opts.To.UTC().Format(time.RFC3339))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Ascending {
		params.Set("order", "asc")
	}
	return params
}
