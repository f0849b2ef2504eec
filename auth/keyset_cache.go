// auth/keyset_cache.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/db"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
)

const maxKeySetBytes = 1 << 20

// KeySetCache fetches the issuer's key set and keeps it in the shared store
// for a bounded time so each request need not refetch it.
type KeySetCache struct {
	store  db.KVStore
	client *http.Client
	ttl    time.Duration

	// CertsURL derives the certs endpoint from the issuer domain.
	CertsURL func(issuerDomain string) string
}

func NewKeySetCache(store db.KVStore, client *http.Client, ttl time.Duration) *KeySetCache {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &KeySetCache{
		store:    store,
		client:   client,
		ttl:      ttl,
		CertsURL: DefaultCertsURL,
	}
}

func DefaultCertsURL(issuerDomain string) string {
	return fmt.Sprintf("https://%s/cdn-cgi/access/certs", issuerDomain)
}

func keySetCacheKey(issuerDomain string) string {
	return fmt.Sprintf("jwks:%s", issuerDomain)
}

// GetKeySet returns the cached key set for issuerDomain, fetching it on a miss.
func (c *KeySetCache) GetKeySet(ctx context.Context, issuerDomain string) (*KeySet, error) {
	cached, ok, err := c.store.Get(ctx, keySetCacheKey(issuerDomain))
	if err != nil {
		logger.Warn("Key set cache read failed", zap.Error(err), zap.String("issuer", issuerDomain))
	} else if ok {
		var ks KeySet
		if err := json.Unmarshal([]byte(cached), &ks); err == nil && len(ks.Keys) > 0 {
			return &ks, nil
		}
		logger.Warn("Discarding undecodable cached key set", zap.String("issuer", issuerDomain))
	}
	return c.Refresh(ctx, issuerDomain)
}

// Refresh fetches the key set from the issuer and overwrites the cached copy.
// There is no fallback to a previously cached set when the fetch fails.
func (c *KeySetCache) Refresh(ctx context.Context, issuerDomain string) (*KeySet, error) {
	ks, raw, err := c.fetch(ctx, issuerDomain)
	if err != nil {
		logger.Error("Failed to fetch key set", zap.Error(err), zap.String("issuer", issuerDomain))
		return nil, fmt.Errorf("%w: %v", vault_errors.ErrKeySetUnavailable, err)
	}

	if err := c.store.Put(ctx, keySetCacheKey(issuerDomain), string(raw), c.ttl); err != nil {
		logger.Warn("Failed to cache key set", zap.Error(err), zap.String("issuer", issuerDomain))
	}
	logger.Debug("Key set refreshed", zap.String("issuer", issuerDomain), zap.Int("keys", len(ks.Keys)))
	return ks, nil
}

func (c *KeySetCache) fetch(ctx context.Context, issuerDomain string) (*KeySet, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CertsURL(issuerDomain), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("certs endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read certs response: %w", err)
	}

	var ks KeySet
	if err := json.Unmarshal(body, &ks); err != nil {
		return nil, nil, fmt.Errorf("failed to decode certs response: %w", err)
	}
	if len(ks.Keys) == 0 {
		return nil, nil, fmt.Errorf("certs response has no keys")
	}

	raw, err := json.Marshal(ks)
	if err != nil {
		return nil, nil, err
	}
	return &ks, raw, nil
}
