package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/api"
	"github.com/chaintrail/chaintrail/internal/models"
)

func TestEntryCreate_Valid(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		createFn: func(_ context.Context, req models.CreateEntryRequest) (*models.AuditEntry, error) {
			e := sampleEntry()
			e.Action = req.Action
			e.ActorID = req.ActorID
			return e, nil
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.POST("/entries", h.Create)

	w := doRequest(r, http.MethodPost, "/entries",
		`{"action":"LOGIN","actor_id":"alice","resource_type":"session","resource_id":"sess-1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var entry models.AuditEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if entry.ActorID != "alice" {
		t.Errorf("expected actor 'alice', got %q", entry.ActorID)
	}
	if entry.Hash == "" || entry.Signature == "" {
		t.Error("response missing chain fields")
	}
}

func TestEntryCreate_MissingActor(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewEntryHandler(&mockLedger{}, testLogger())
	r.POST("/entries", h.Create)

	// Binding fails before the service is reached.
	w := doRequest(r, http.MethodPost, "/entries",
		`{"action":"LOGIN","resource_type":"session","resource_id":"sess-1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntryCreate_UnknownAction(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		createFn: func(_ context.Context, _ models.CreateEntryRequest) (*models.AuditEntry, error) {
			return nil, models.ErrInvalidAction
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.POST("/entries", h.Create)

	w := doRequest(r, http.MethodPost, "/entries",
		`{"action":"SHRED","actor_id":"alice","resource_type":"session","resource_id":"sess-1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntryCreate_ContentionExhausted(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		createFn: func(_ context.Context, _ models.CreateEntryRequest) (*models.AuditEntry, error) {
			return nil, models.ErrChainForked
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.POST("/entries", h.Create)

	w := doRequest(r, http.MethodPost, "/entries",
		`{"action":"LOGIN","actor_id":"alice","resource_type":"session","resource_id":"sess-1"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntryGet_Found(t *testing.T) {
	t.Parallel()

	want := sampleEntry()
	ledger := &mockLedger{
		getFn: func(_ context.Context, id uuid.UUID) (*models.AuditEntry, error) {
			if id != want.ID {
				t.Errorf("handler passed id %s, want %s", id, want.ID)
			}
			return want, nil
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.GET("/entries/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/entries/"+want.ID.String(), "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntryGet_NotFound(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		getFn: func(_ context.Context, _ uuid.UUID) (*models.AuditEntry, error) {
			return nil, models.ErrEntryNotFound
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.GET("/entries/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/entries/"+uuid.NewString(), "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntryGet_InvalidID(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewEntryHandler(&mockLedger{}, testLogger())
	r.GET("/entries/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/entries/not-a-uuid", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntryExport_CSV(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		searchFn: func(_ context.Context, opts models.SearchOpts) (*models.SearchResult, error) {
			if !opts.Ascending {
				t.Error("export should read oldest first")
			}
			return &models.SearchResult{
				Entries: []models.AuditEntry{*sampleEntry()},
				Total:   1,
				Page:    1,
				Pages:   1,
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.GET("/entries/export", h.Export)

	w := doRequest(r, http.MethodGet, "/entries/export?format=csv", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv has %d lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,timestamp,action") {
		t.Errorf("unexpected csv header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "alice") {
		t.Errorf("row missing entry data: %q", lines[1])
	}
}

// An export must return every matching entry, not just the first store
// page, and must say when an explicit limit cut the window short.
func TestEntryExport_PagesThroughFullWindow(t *testing.T) {
	t.Parallel()

	const total = 1500

	ledger := &mockLedger{
		searchFn: func(_ context.Context, opts models.SearchOpts) (*models.SearchResult, error) {
			n := total - opts.Offset
			if n > opts.Limit {
				n = opts.Limit
			}
			if n < 0 {
				n = 0
			}
			entries := make([]models.AuditEntry, n)
			for i := range entries {
				entries[i] = *sampleEntry()
			}
			return &models.SearchResult{Entries: entries, Total: total}, nil
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.GET("/entries/export", h.Export)

	var resp struct {
		Total     int64               `json:"total"`
		Truncated bool                `json:"truncated"`
		Entries   []models.AuditEntry `json:"entries"`
	}

	w := doRequest(r, http.MethodGet, "/entries/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if len(resp.Entries) != total {
		t.Errorf("exported %d entries, want %d", len(resp.Entries), total)
	}
	if resp.Total != total || resp.Truncated {
		t.Errorf("total/truncated = %d/%v, want %d/false", resp.Total, resp.Truncated, total)
	}

	w = doRequest(r, http.MethodGet, "/entries/export?limit=1200", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if len(resp.Entries) != 1200 {
		t.Errorf("exported %d entries, want 1200", len(resp.Entries))
	}
	if !resp.Truncated {
		t.Error("truncated = false, want true for a capped export")
	}
}

func TestEntryExport_BadFormat(t *testing.T) {
	t.Parallel()

	ledger := &mockLedger{
		searchFn: func(_ context.Context, _ models.SearchOpts) (*models.SearchResult, error) {
			return &models.SearchResult{Entries: []models.AuditEntry{}}, nil
		},
	}

	r := newTestRouter()
	h := api.NewEntryHandler(ledger, testLogger())
	r.GET("/entries/export", h.Export)

	w := doRequest(r, http.MethodGet, "/entries/export?format=xml", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
