package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// TrailService reads per-actor and per-resource audit trails.
type TrailService struct {
	c *Client
}

// Actor returns an actor's trail, newest first, optionally restricted
// to a time window.
func (s *TrailService) Actor(ctx context.Context, actorID string, from, to *time.Time, limit, offset int) (*SearchResult, error) {
	params := url.Values{}
	if from != nil {
		params.Set("from", from.UTC().Format(time.RFC3339))
	}
	if to != nil {
		params.Set("to", to.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var result SearchResult
	if err := s.c.get(ctx, "/api/v1/trails/actor/"+url.PathEscape(actorID), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Resource returns a resource's trail, newest first.
func (s *TrailService) Resource(ctx context.Context, resourceType, resourceID string, limit, offset int) (*SearchResult, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/v1/trails/resource/" + url.PathEscape(resourceType) + "/" + url.PathEscape(resourceID)
	var result SearchResult
	if err := s.c.get(ctx, path, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
