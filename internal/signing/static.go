package signing

import (
	"context"
	"fmt"
)

// StaticProvider holds a single secret sourced from configuration at
// startup. This is the normal deployment mode; the vault provider exists
// for installations that centralize key custody.
type StaticProvider struct {
	secret []byte
}

// NewStaticProvider creates a StaticProvider from the configured secret.
func NewStaticProvider(secret string) (*StaticProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing/static: empty secret")
	}
	return &StaticProvider{secret: []byte(secret)}, nil
}

// Key returns a copy of the static secret.
func (p *StaticProvider) Key(_ context.Context) ([]byte, error) {
	out := make([]byte, len(p.secret))
	copy(out, p.secret)
	return out, nil
}
