package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/models"
)

func reportWindow() (time.Time, time.Time) {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func TestGenerateComplianceReport(t *testing.T) {
	ledger := &memLedger{}
	svc := newTestService(t, ledger, nil)
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, createReq()); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	denied := createReq()
	denied.Action = models.ActionAccessDenied
	denied.ActorID = "bob"
	if _, err := svc.CreateEntry(ctx, denied); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	failed := createReq()
	failed.Action = models.ActionExport
	outcome := false
	failed.Outcome = &outcome
	failed.ErrorMessage = "quota exceeded"
	if _, err := svc.CreateEntry(ctx, failed); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	start, end := reportWindow()
	report, err := svc.GenerateComplianceReport(ctx, start, end, nil)
	if err != nil {
		t.Fatalf("GenerateComplianceReport: %v", err)
	}

	if report.ReportID == (uuid.UUID{}) {
		t.Error("ReportID is zero")
	}
	if report.Statistics.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", report.Statistics.TotalEntries)
	}
	if report.Statistics.DistinctActors != 2 {
		t.Errorf("DistinctActors = %d, want 2", report.Statistics.DistinctActors)
	}
	if report.Statistics.FailedEntries != 1 {
		t.Errorf("FailedEntries = %d, want 1", report.Statistics.FailedEntries)
	}
	if report.Statistics.ActionsByType[models.ActionLogin] != 1 {
		t.Errorf("ActionsByType[LOGIN] = %d, want 1", report.Statistics.ActionsByType[models.ActionLogin])
	}

	// The denial and the failure are both violations.
	if len(report.Violations) != 2 {
		t.Fatalf("violations = %d, want 2: %+v", len(report.Violations), report.Violations)
	}

	if !report.ChainIntegrity.Valid {
		t.Errorf("ChainIntegrity.Valid = false on clean ledger: %+v", report.ChainIntegrity.Errors)
	}
	if report.Period.Start != start || report.Period.End != end {
		t.Errorf("Period = %+v, want [%v, %v]", report.Period, start, end)
	}
}

func TestGenerateComplianceReportFiltersByStandard(t *testing.T) {
	ledger := &memLedger{}
	svc := newTestService(t, ledger, nil)
	ctx := context.Background()

	tagged := createReq()
	tagged.ComplianceTags = []string{"HIPAA"}
	if _, err := svc.CreateEntry(ctx, tagged); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	untagged := createReq()
	untagged.Action = models.ActionRead
	if _, err := svc.CreateEntry(ctx, untagged); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	start, end := reportWindow()
	report, err := svc.GenerateComplianceReport(ctx, start, end, []models.ComplianceStandard{models.StandardHIPAA})
	if err != nil {
		t.Fatalf("GenerateComplianceReport: %v", err)
	}

	if report.Statistics.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1 (tagged only)", report.Statistics.TotalEntries)
	}

	// Integrity still covers the full window regardless of tag filter.
	if report.ChainIntegrity.TotalEntries != 2 {
		t.Errorf("ChainIntegrity.TotalEntries = %d, want 2", report.ChainIntegrity.TotalEntries)
	}
}

func TestGenerateComplianceReportFlagsTampering(t *testing.T) {
	ledger := &memLedger{}
	svc := newTestService(t, ledger, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateEntry(ctx, createReq()); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}

	ledger.entries[0].ActorName = "Renamed"

	start, end := reportWindow()
	report, err := svc.GenerateComplianceReport(ctx, start, end, nil)
	if err != nil {
		t.Fatalf("GenerateComplianceReport: %v", err)
	}

	if report.ChainIntegrity.Valid {
		t.Error("ChainIntegrity.Valid = true on tampered ledger")
	}
}

func TestGenerateComplianceReportEmptyWindow(t *testing.T) {
	svc := newTestService(t, &memLedger{}, nil)

	start, end := reportWindow()
	report, err := svc.GenerateComplianceReport(context.Background(), start, end, nil)
	if err != nil {
		t.Fatalf("GenerateComplianceReport: %v", err)
	}

	if report.Statistics.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0", report.Statistics.TotalEntries)
	}
	if report.Statistics.FailedPercent != 0 {
		t.Errorf("FailedPercent = %v, want 0", report.Statistics.FailedPercent)
	}
	if len(report.Violations) != 0 {
		t.Errorf("violations = %d, want 0", len(report.Violations))
	}
	if !report.ChainIntegrity.Valid {
		t.Error("empty window should verify as valid")
	}
}
