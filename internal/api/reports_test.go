package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/api"
	"github.com/chaintrail/chaintrail/internal/models"
)

func TestReportCompliance(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		reportFn: func(_ context.Context, start, end time.Time, standards []models.ComplianceStandard) (*models.ComplianceReport, error) {
			if len(standards) != 1 || standards[0] != models.StandardHIPAA {
				t.Errorf("standards = %v, want [HIPAA]", standards)
			}
			return &models.ComplianceReport{
				ReportID:    uuid.New(),
				GeneratedAt: time.Now().UTC(),
				Period:      models.ReportPeriod{Start: start, End: end},
				Standards:   standards,
				Violations:  []models.Violation{},
				ChainIntegrity: models.IntegrityResult{
					Valid:  true,
					Errors: []models.IntegrityError{},
				},
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewReportHandler(ledger, testLogger())
	r.POST("/reports/compliance", h.Compliance)

	w := doRequest(r, http.MethodPost, "/reports/compliance",
		`{"start":"2026-03-01T00:00:00Z","end":"2026-03-02T00:00:00Z","standards":["HIPAA"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report models.ComplianceReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.ReportID == (uuid.UUID{}) {
		t.Error("missing report_id")
	}
}

func TestReportCompliance_MissingWindow(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewReportHandler(&mockLedger{}, testLogger())
	r.POST("/reports/compliance", h.Compliance)

	w := doRequest(r, http.MethodPost, "/reports/compliance", `{"standards":["SOX"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReportCompliance_InvertedWindow(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewReportHandler(&mockLedger{}, testLogger())
	r.POST("/reports/compliance", h.Compliance)

	w := doRequest(r, http.MethodPost, "/reports/compliance",
		`{"start":"2026-03-02T00:00:00Z","end":"2026-03-01T00:00:00Z"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
