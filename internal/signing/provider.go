// Package signing sources the ledger's HMAC signing secret. The secret
// authenticates entries against forgery by anyone holding only the
// database; it is process configuration, never stored alongside entries.
package signing

import "context"

// Provider returns the current signing secret.
type Provider interface {
	// Key returns the secret bytes used to sign and verify entries.
	Key(ctx context.Context) ([]byte, error)
}
