package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StatsHandler serves ledger-wide aggregate counters.
type StatsHandler struct {
	svc StatsService
	log *logrus.Logger
}

// NewStatsHandler creates a StatsHandler with the given service and logger.
func NewStatsHandler(svc StatsService, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

// GetStats handles GET /api/v1/stats.
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("reading ledger stats")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, stats)
}
