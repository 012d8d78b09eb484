// Package api provides HTTP handlers for the audit ledger.
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/models"
)

// EntryHandler serves entry creation, retrieval, and export.
type EntryHandler struct {
	svc EntryService
	log *logrus.Logger
}

// NewEntryHandler creates an EntryHandler with the given service and logger.
func NewEntryHandler(svc EntryService, log *logrus.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/entries.
func (h *EntryHandler) Create(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		case errors.Is(err, models.ErrChainForked), errors.Is(err, models.ErrDuplicateHash):
			// Retries exhausted under sustained contention.
			respondError(c, http.StatusConflict, ErrCodeConflict, "ledger busy, retry the append")
		default:
			h.log.WithError(err).Error("creating entry")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// isValidationError reports whether err is one of the request validation
// sentinels, safe to echo back to the caller.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		models.ErrMissingAction, models.ErrInvalidAction,
		models.ErrMissingActor,
		models.ErrMissingResourceType, models.ErrMissingResourceID,
		models.ErrInvalidSensitivity,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Get handles GET /api/v1/entries/:id.
func (h *EntryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid entry id")
		return
	}

	entry, err := h.svc.GetEntry(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrEntryNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "entry not found")
			return
		}

		h.log.WithError(err).Error("getting entry")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Export handles GET /api/v1/entries/export. Filters match the search
// endpoint; format is json (default) or csv.
// exportPageSize matches the store's page cap; the export walks the
// window page by page so the file holds every matching entry, not just
// the first page.
const exportPageSize = 1000

func (h *EntryHandler) Export(c *gin.Context) {
	opts, err := searchOptsFromQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	// Exports walk the window oldest-first. An explicit limit caps the
	// export; the default is the full filtered window.
	maxRows := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		maxRows = v
	}
	opts.Ascending = true
	opts.Limit = exportPageSize

	entries := []models.AuditEntry{}
	var total int64
	for {
		page, err := h.svc.Search(c.Request.Context(), opts)
		if err != nil {
			h.log.WithError(err).Error("exporting entries")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
			return
		}
		total = page.Total
		entries = append(entries, page.Entries...)

		if maxRows > 0 && len(entries) >= maxRows {
			entries = entries[:maxRows]
			break
		}
		if len(page.Entries) < exportPageSize {
			break
		}
		opts.Offset += exportPageSize
	}

	format := c.DefaultQuery("format", "json")
	stamp := time.Now().UTC().Format("20060102-150405")

	switch format {
	case "json":
		c.Header("Content-Disposition", `attachment; filename="audit-export-`+stamp+`.json"`)
		c.JSON(http.StatusOK, gin.H{
			"exported_at": time.Now().UTC(),
			"total":       total,
			"truncated":   int64(len(entries)) < total,
			"entries":     entries,
		})
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="audit-export-`+stamp+`.csv"`)
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := writeCSV(c.Writer, entries); err != nil {
			h.log.WithError(err).Error("writing csv export")
		}
	default:
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "format must be json or csv")
	}
}

var csvHeader = []string{
	"id", "timestamp", "action", "actor_id", "actor_name",
	"resource_type", "resource_id", "details", "source_address",
	"client_agent", "sensitivity", "compliance_tags", "outcome",
	"error_message", "previous_hash", "hash", "signature",
}

func writeCSV(w http.ResponseWriter, entries []models.AuditEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		details := ""
		if len(e.Details) > 0 {
			b, err := json.Marshal(e.Details)
			if err != nil {
				return err
			}
			details = string(b)
		}

		record := []string{
			e.ID.String(),
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			string(e.Action),
			e.ActorID,
			e.ActorName,
			e.ResourceType,
			e.ResourceID,
			details,
			e.SourceAddress,
			e.ClientAgent,
			string(e.Sensitivity),
			strings.Join(e.ComplianceTags, ";"),
			strconv.FormatBool(e.Outcome),
			e.ErrorMessage,
			e.PreviousHash,
			e.Hash,
			e.Signature,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
