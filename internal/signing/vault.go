package signing

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/chaintrail/chaintrail/internal/config"
)

// keyCacheTTL is how long a fetched secret is reused before re-fetching
// from Vault. Rotation in Vault takes effect within this window.
const keyCacheTTL = 15 * time.Minute

// vaultSecretPath is where the signing secret lives in Vault's KV v2 engine.
const vaultSecretPath = "/v1/secret/data/chaintrail/signing"

// VaultProvider fetches the signing secret from HashiCorp Vault and
// caches it with a TTL. Concurrent cache misses are collapsed into a
// single Vault request via singleflight.
type VaultProvider struct {
	addr   string
	token  config.Secret
	client *http.Client
	group  singleflight.Group

	mu        sync.Mutex
	cached    []byte
	fetchedAt time.Time
}

// NewVaultProvider creates a VaultProvider for the given Vault address and token.
func NewVaultProvider(addr, token string) *VaultProvider {
	return &VaultProvider{
		addr:  addr,
		token: config.Secret(token),
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}
}

// Key returns the cached signing secret, fetching from Vault on first
// access or after the cache TTL expires.
func (p *VaultProvider) Key(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	if p.cached != nil && time.Since(p.fetchedAt) < keyCacheTTL {
		out := make([]byte, len(p.cached))
		copy(out, p.cached)
		p.mu.Unlock()
		return out, nil
	}
	p.mu.Unlock()

	val, err, _ := p.group.Do("signing", func() (any, error) {
		// Double-check after winning the singleflight race.
		p.mu.Lock()
		if p.cached != nil && time.Since(p.fetchedAt) < keyCacheTTL {
			cached := p.cached
			p.mu.Unlock()
			return cached, nil
		}
		p.mu.Unlock()

		k, err := p.fetchKey(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.cached = append([]byte(nil), k...)
		p.fetchedAt = time.Now()
		p.mu.Unlock()

		return k, nil
	})
	if err != nil {
		return nil, err
	}

	key, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("signing/vault: unexpected singleflight result type %T", val)
	}

	out := make([]byte, len(key))
	copy(out, key)
	return out, nil
}

func (p *VaultProvider) fetchKey(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.addr+vaultSecretPath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("signing/vault: create request: %w", err)
	}

	req.Header.Set("X-Vault-Token", p.token.Value())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signing/vault: request failed: %w", err)
	}
	defer resp.Body.Close()

	// Limit all body reads to 1 MB to prevent memory exhaustion.
	limitedBody := io.LimitReader(resp.Body, 1<<20)

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, limitedBody)
		return nil, fmt.Errorf("signing/vault: no signing secret found — create it in Vault at secret/chaintrail/signing")
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(limitedBody)
		if readErr != nil {
			return nil, fmt.Errorf("signing/vault: unexpected status %d (failed to read body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("signing/vault: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data struct {
			Data map[string]string `json:"data"`
		} `json:"data"`
	}

	if err := json.NewDecoder(limitedBody).Decode(&result); err != nil {
		return nil, fmt.Errorf("signing/vault: decode response: %w", err)
	}

	b64Secret, ok := result.Data.Data["signing_secret"]
	if !ok || b64Secret == "" {
		return nil, fmt.Errorf("signing/vault: signing_secret field missing at secret/chaintrail/signing")
	}

	secret, err := base64.StdEncoding.DecodeString(b64Secret)
	if err != nil {
		return nil, fmt.Errorf("signing/vault: decode base64 secret: %w", err)
	}

	if len(secret) < 32 {
		return nil, fmt.Errorf("signing/vault: secret must be at least 32 bytes, got %d", len(secret))
	}

	return secret, nil
}
