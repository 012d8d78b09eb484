package client

import "context"

// SearchService queries the ledger with filters and pagination.
type SearchService struct {
	c *Client
}

// Query returns entries matching the given filters.
func (s *SearchService) Query(ctx context.Context, opts *SearchOptions) (*SearchResult, error) {
	var result SearchResult
	if err := s.c.get(ctx, "/api/v1/search", searchParams(opts), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
