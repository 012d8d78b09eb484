package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VerifyHandler serves chain and signature verification.
type VerifyHandler struct {
	svc VerifyService
	log *logrus.Logger
}

// NewVerifyHandler creates a VerifyHandler with the given service and logger.
func NewVerifyHandler(svc VerifyService, log *logrus.Logger) *VerifyHandler {
	return &VerifyHandler{svc: svc, log: log}
}

// Integrity handles GET /api/v1/verify. A tampered chain is a 200 with
// valid=false and findings; only a failure to read the ledger is a 500.
func (h *VerifyHandler) Integrity(c *gin.Context) {
	from, to, ok := parseTimeWindow(c)
	if !ok {
		return
	}

	result, err := h.svc.VerifyIntegrity(c.Request.Context(), from, to)
	if err != nil {
		h.log.WithError(err).Error("verifying chain")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Signatures handles GET /api/v1/verify/signatures.
func (h *VerifyHandler) Signatures(c *gin.Context) {
	from, to, ok := parseTimeWindow(c)
	if !ok {
		return
	}

	result, err := h.svc.VerifySignatures(c.Request.Context(), from, to)
	if err != nil {
		h.log.WithError(err).Error("verifying signatures")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}
