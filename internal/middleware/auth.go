package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// authTimingFloor is the minimum response time for failed auth, so the
// reply time cannot distinguish valid from invalid API keys.
const authTimingFloor = 50 * time.Millisecond

// APIKeyAuth authenticates requests via Bearer token against a fixed
// key set loaded at startup. Keys are compared as SHA-256 digests so the
// comparison is constant-time and independent of key length.
type APIKeyAuth struct {
	keyHashes [][32]byte
	log       *logrus.Logger
}

// NewAPIKeyAuth creates an APIKeyAuth for the given keys.
func NewAPIKeyAuth(keys []string, log *logrus.Logger) *APIKeyAuth {
	hashes := make([][32]byte, len(keys))
	for i, k := range keys {
		hashes[i] = sha256.Sum256([]byte(k))
	}
	return &APIKeyAuth{keyHashes: hashes, log: log}
}

// match reports whether key is one of the configured keys. Every
// configured key is checked even after a match.
func (a *APIKeyAuth) match(key string) bool {
	digest := sha256.Sum256([]byte(key))

	ok := 0
	for _, h := range a.keyHashes {
		ok |= subtle.ConstantTimeCompare(digest[:], h[:])
	}
	return ok == 1
}

// Handler returns Gin middleware that rejects requests without a valid key.
func (a *APIKeyAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		if !a.match(apiKey) {
			a.logAuthFailure(c, apiKey)
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		}

		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

func (a *APIKeyAuth) logAuthFailure(c *gin.Context, apiKey string) {
	a.log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString("request_id"),
		"key_prefix": truncateKey(apiKey),
	}).Warn("authentication failed: invalid api key")
}
