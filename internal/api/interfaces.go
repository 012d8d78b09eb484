package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/models"
)

// EntryService defines entry operations used by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.AuditEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.AuditEntry, error)
	Search(ctx context.Context, opts models.SearchOpts) (*models.SearchResult, error)
}

// TrailService defines trail operations used by TrailHandler.
type TrailService interface {
	GetTrailForActor(ctx context.Context, actorID string, from, to *time.Time, limit, offset int) (*models.SearchResult, error)
	GetTrailForResource(ctx context.Context, resourceType, resourceID string, limit, offset int) (*models.SearchResult, error)
}

// VerifyService defines verification operations used by VerifyHandler.
type VerifyService interface {
	VerifyIntegrity(ctx context.Context, from, to *time.Time) (*models.IntegrityResult, error)
	VerifySignatures(ctx context.Context, from, to *time.Time) (*models.SignatureCheckResult, error)
}

// ReportService defines reporting operations used by ReportHandler.
type ReportService interface {
	GenerateComplianceReport(ctx context.Context, start, end time.Time, standards []models.ComplianceStandard) (*models.ComplianceReport, error)
}

// StatsService defines the aggregate counters used by StatsHandler.
type StatsService interface {
	Stats(ctx context.Context) (*models.LedgerStats, error)
}
