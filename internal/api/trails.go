package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TrailHandler serves per-actor and per-resource audit trails.
type TrailHandler struct {
	svc TrailService
	log *logrus.Logger
}

// NewTrailHandler creates a TrailHandler with the given service and logger.
func NewTrailHandler(svc TrailService, log *logrus.Logger) *TrailHandler {
	return &TrailHandler{svc: svc, log: log}
}

// Actor handles GET /api/v1/trails/actor/:actorID.
func (h *TrailHandler) Actor(c *gin.Context) {
	actorID := c.Param("actorID")
	if err := validatePathID(actorID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	from, to, ok := parseTimeWindow(c)
	if !ok {
		return
	}

	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	result, err := h.svc.GetTrailForActor(c.Request.Context(), actorID, from, to, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("reading actor trail")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Resource handles GET /api/v1/trails/resource/:type/:id.
func (h *TrailHandler) Resource(c *gin.Context) {
	resourceType := c.Param("type")
	resourceID := c.Param("id")
	if err := validatePathID(resourceType); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "type: "+err.Error())
		return
	}
	if err := validatePathID(resourceID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "id: "+err.Error())
		return
	}

	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	result, err := h.svc.GetTrailForResource(c.Request.Context(), resourceType, resourceID, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("reading resource trail")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}
