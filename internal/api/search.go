package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/models"
)

// SearchHandler serves filtered ledger queries.
type SearchHandler struct {
	svc EntryService
	log *logrus.Logger
}

// NewSearchHandler creates a SearchHandler with the given service and logger.
func NewSearchHandler(svc EntryService, log *logrus.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, log: log}
}

// Search handles GET /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	opts, err := searchOptsFromQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	if opts.Action != "" && !opts.Action.Valid() {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, models.ErrInvalidAction.Error())
		return
	}
	if opts.Sensitivity != "" && !opts.Sensitivity.Valid() {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, models.ErrInvalidSensitivity.Error())
		return
	}

	result, err := h.svc.Search(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("searching entries")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}
