package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/models"
)

// ReportHandler serves compliance report generation.
type ReportHandler struct {
	svc ReportService
	log *logrus.Logger
}

// NewReportHandler creates a ReportHandler with the given service and logger.
func NewReportHandler(svc ReportService, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: log}
}

// complianceReportRequest is the POST body for report generation.
type complianceReportRequest struct {
	Start     time.Time                   `json:"start" binding:"required"`
	End       time.Time                   `json:"end" binding:"required"`
	Standards []models.ComplianceStandard `json:"standards"`
}

// Compliance handles POST /api/v1/reports/compliance.
func (h *ReportHandler) Compliance(c *gin.Context) {
	var req complianceReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if req.End.Before(req.Start) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "end precedes start")
		return
	}

	report, err := h.svc.GenerateComplianceReport(c.Request.Context(), req.Start, req.End, req.Standards)
	if err != nil {
		h.log.WithError(err).Error("generating compliance report")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, report)
}
