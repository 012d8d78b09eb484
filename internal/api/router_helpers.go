package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/middleware"
	"github.com/chaintrail/chaintrail/internal/models"
	"github.com/chaintrail/chaintrail/internal/ws"
)

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards etc.).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")
			return
		}

		client := ws.NewClient(hub, conn)
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 1000

// maxPaginationOffset caps the maximum offset for paginated queries.
const maxPaginationOffset = 100000

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxPaginationLimit {
		return maxPaginationLimit
	}

	return v
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	if v > maxPaginationOffset {
		return maxPaginationOffset
	}

	return v
}

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("id exceeds maximum length of 255")
	}
	return nil
}

// parseTimeParam parses an optional RFC 3339 query parameter.
// Returns an error only when the value is present and malformed.
func parseTimeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("must be RFC 3339 (e.g. 2026-03-01T00:00:00Z)")
	}
	return &t, nil
}

// parseTimeWindow parses the from/to query parameters shared by the
// verification and export endpoints. It writes the error response itself
// and returns ok=false when either value is malformed.
func parseTimeWindow(c *gin.Context) (from, to *time.Time, ok bool) {
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		respondError(c, 400, ErrCodeInvalidRequest, "from: "+err.Error())
		return nil, nil, false
	}

	to, err = parseTimeParam(c.Query("to"))
	if err != nil {
		respondError(c, 400, ErrCodeInvalidRequest, "to: "+err.Error())
		return nil, nil, false
	}

	if from != nil && to != nil && to.Before(*from) {
		respondError(c, 400, ErrCodeInvalidRequest, "to precedes from")
		return nil, nil, false
	}

	return from, to, true
}

// searchOptsFromQuery builds SearchOpts from the shared filter query
// parameters.
func searchOptsFromQuery(c *gin.Context) (models.SearchOpts, error) {
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		return models.SearchOpts{}, fmt.Errorf("from: %w", err)
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		return models.SearchOpts{}, fmt.Errorf("to: %w", err)
	}

	return models.SearchOpts{
		ActorID:      c.Query("actor_id"),
		Action:       models.Action(c.Query("action")),
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
		Sensitivity:  models.Sensitivity(c.Query("sensitivity")),
		Tag:          c.Query("tag"),
		Text:         c.Query("q"),
		From:         from,
		To:           to,
		Limit:        parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:       parseOffset(c.DefaultQuery("offset", "0")),
		Ascending:    c.Query("order") == "asc",
	}, nil
}
