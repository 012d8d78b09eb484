package client

import (
	"context"
	"net/url"
	"time"
)

// VerifyService runs chain and signature verification.
type VerifyService struct {
	c *Client
}

// windowParams encodes an optional verification window.
func windowParams(from, to *time.Time) url.Values {
	params := url.Values{}
	if from != nil {
		params.Set("from", from.UTC().Format(time.RFC3339))
	}
	if to != nil {
		params.Set("to", to.UTC().Format(time.RFC3339))
	}
	return params
}

// Integrity verifies hashes and chain links over the given window.
// A nil from and to verifies the whole chain. Tampering is reported
// in the result, not as an error.
func (s *VerifyService) Integrity(ctx context.Context, from, to *time.Time) (*IntegrityResult, error) {
	var result IntegrityResult
	if err := s.c.get(ctx, "/api/v1/verify", windowParams(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signatures re-verifies entry signatures over the given window under
// the server's current signing secret.
func (s *VerifyService) Signatures(ctx context.Context, from, to *time.Time) (*SignatureCheckResult, error) {
	var result SignatureCheckResult
	if err := s.c.get(ctx, "/api/v1/verify/signatures", windowParams(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
