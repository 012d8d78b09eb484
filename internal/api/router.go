package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/dbpool"
	"github.com/chaintrail/chaintrail/internal/middleware"
	"github.com/chaintrail/chaintrail/internal/ws"
)

// LedgerAPI is the full service surface the router wires handlers to.
type LedgerAPI interface {
	EntryService
	TrailService
	VerifyService
	ReportService
	StatsService
}

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Ledger      LedgerAPI
	APIKeys     []string
	CORSOrigins []string
	Version     string
	WSEnabled   bool
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB; entries are small, reports carry no body to speak of
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	entries := NewEntryHandler(deps.Ledger, log)
	trails := NewTrailHandler(deps.Ledger, log)
	search := NewSearchHandler(deps.Ledger, log)
	verify := NewVerifyHandler(deps.Ledger, log)
	reports := NewReportHandler(deps.Ledger, log)
	stats := NewStatsHandler(deps.Ledger, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	auth := middleware.NewAPIKeyAuth(deps.APIKeys, log)
	api.Use(auth.Handler())

	// Ledger writes and reads.
	api.POST("/entries", entries.Create)
	api.GET("/entries/export", entries.Export)
	api.GET("/entries/:id", entries.Get)

	// Trails.
	api.GET("/trails/actor/:actorID", trails.Actor)
	api.GET("/trails/resource/:type/:id", trails.Resource)

	// Search.
	api.GET("/search", search.Search)

	// Verification.
	api.GET("/verify", verify.Integrity)
	api.GET("/verify/signatures", verify.Signatures)

	// Reporting.
	api.POST("/reports/compliance", reports.Compliance)

	// Stats.
	api.GET("/stats", stats.GetStats)

	// Live entry stream.
	if deps.WSEnabled {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
