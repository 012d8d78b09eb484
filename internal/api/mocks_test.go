package api_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/models"
)

// mockLedger implements the api service interfaces for testing.
type mockLedger struct {
	createFn      func(ctx context.Context, req models.CreateEntryRequest) (*models.AuditEntry, error)
	getFn         func(ctx context.Context, id uuid.UUID) (*models.AuditEntry, error)
	searchFn      func(ctx context.Context, opts models.SearchOpts) (*models.SearchResult, error)
	actorTrailFn  func(ctx context.Context, actorID string, from, to *time.Time, limit, offset int) (*models.SearchResult, error)
	resTrailFn    func(ctx context.Context, resourceType, resourceID string, limit, offset int) (*models.SearchResult, error)
	verifyFn      func(ctx context.Context, from, to *time.Time) (*models.IntegrityResult, error)
	verifySigsFn  func(ctx context.Context, from, to *time.Time) (*models.SignatureCheckResult, error)
	reportFn      func(ctx context.Context, start, end time.Time, standards []models.ComplianceStandard) (*models.ComplianceReport, error)
	statsFn       func(ctx context.Context) (*models.LedgerStats, error)
}

func (m *mockLedger) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.AuditEntry, error) {
	return m.createFn(ctx, req)
}

func (m *mockLedger) GetEntry(ctx context.Context, id uuid.UUID) (*models.AuditEntry, error) {
	return m.getFn(ctx, id)
}

func (m *mockLedger) Search(ctx context.Context, opts models.SearchOpts) (*models.SearchResult, error) {
	return m.searchFn(ctx, opts)
}

func (m *mockLedger) GetTrailForActor(ctx context.Context, actorID string, from, to *time.Time, limit, offset int) (*models.SearchResult, error) {
	return m.actorTrailFn(ctx, actorID, from, to, limit, offset)
}

func (m *mockLedger) GetTrailForResource(ctx context.Context, resourceType, resourceID string, limit, offset int) (*models.SearchResult, error) {
	return m.resTrailFn(ctx, resourceType, resourceID, limit, offset)
}

func (m *mockLedger) VerifyIntegrity(ctx context.Context, from, to *time.Time) (*models.IntegrityResult, error) {
	return m.verifyFn(ctx, from, to)
}

func (m *mockLedger) VerifySignatures(ctx context.Context, from, to *time.Time) (*models.SignatureCheckResult, error) {
	return m.verifySigsFn(ctx, from, to)
}

func (m *mockLedger) GenerateComplianceReport(ctx context.Context, start, end time.Time, standards []models.ComplianceStandard) (*models.ComplianceReport, error) {
	return m.reportFn(ctx, start, end, standards)
}

func (m *mockLedger) Stats(ctx context.Context) (*models.LedgerStats, error) {
	return m.statsFn(ctx)
}

// sampleEntry returns a minimal entry for handler responses.
func sampleEntry() *models.AuditEntry {
	return &models.AuditEntry{
		ID:           uuid.New(),
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Action:       models.ActionLogin,
		ActorID:      "alice",
		ActorName:    "Alice",
		ResourceType: "session",
		ResourceID:   "sess-1",
		Sensitivity:  models.SensitivityInternal,
		Outcome:      true,
		PreviousHash: "0000000000000000000000000000000000000000000000000000000000000000",
		Hash:         "1111111111111111111111111111111111111111111111111111111111111111",
		Signature:    "2222222222222222222222222222222222222222222222222222222222222222",
	}
}
