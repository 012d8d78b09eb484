package client

import (
	"context"
	"time"
)

// ReportService generates compliance reports.
type ReportService struct {
	c *Client
}

// complianceRequest is the report generation payload.
type complianceRequest struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Standards []string  `json:"standards,omitempty"`
}

// Compliance generates a report over [start, end], optionally filtered
// to entries tagged with the given standards (e.g. "HIPAA", "SOX").
func (s *ReportService) Compliance(ctx context.Context, start, end time.Time, standards ...string) (*ComplianceReport, error) {
	req := complianceRequest{Start: start, End: end, Standards: standards}
	var report ComplianceReport
	if err := s.c.post(ctx, "/api/v1/reports/compliance", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
