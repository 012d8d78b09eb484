// Package store provides data access for the audit ledger.
//
// The ledger is a single append-only table. The store exposes append and
// ordered-read operations only; Update and Delete exist solely to fail
// with models.ErrImmutableEntry, and a database trigger enforces the
// same rule against anything that bypasses this package.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

// Base contains shared dependencies for stores.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
