// util/cache_service.go

package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/db"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

// CacheService is the read-through metadata cache. Entries are keyed by owner
// and object id, and a lookup only returns an entry whose stored owner and id
// match the ones asked for. Writers invalidate after their backend change
// has committed; the cache is never written on the mutation path.
type CacheService struct {
	store db.KVStore
	ttl   time.Duration
}

func NewCacheService(store db.KVStore, ttl time.Duration) *CacheService {
	return &CacheService{store: store, ttl: ttl}
}

func metaKey(ownerSub, objectID string) string {
	return fmt.Sprintf("meta:%s:%s", ownerSub, objectID)
}

// GetObjectMeta returns the cached metadata or nil. Store and decode failures
// are logged and reported as a miss.
func (c *CacheService) GetObjectMeta(ctx context.Context, ownerSub, objectID string) *model.ObjectMetadata {
	raw, ok, err := c.store.Get(ctx, metaKey(ownerSub, objectID))
	if err != nil {
		logger.Warn("Metadata cache read failed", zap.Error(err), zap.String("objectID", objectID))
		return nil
	}
	if !ok {
		logger.Debug("Metadata not found in cache", zap.String("objectID", objectID))
		return nil
	}

	var meta model.ObjectMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		logger.Warn("Discarding undecodable metadata cache entry", zap.Error(err), zap.String("objectID", objectID))
		return nil
	}
	// subjects and ids may contain ':', so the key alone does not prove ownership
	if meta.OwnerSub != ownerSub || meta.ID != objectID {
		logger.Warn("Ignoring metadata cache entry for another owner",
			zap.String("objectID", objectID),
			zap.String("owner", ownerSub))
		return nil
	}
	return &meta
}

func (c *CacheService) SetObjectMeta(ctx context.Context, meta model.ObjectMetadata, ownerSub string) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal object metadata: %w", err)
	}
	if err := c.store.Put(ctx, metaKey(ownerSub, meta.ID), string(raw), c.ttl); err != nil {
		return fmt.Errorf("failed to cache object metadata: %w", err)
	}
	logger.Debug("Metadata cached successfully", zap.String("objectID", meta.ID))
	return nil
}

// InvalidateObjectMeta drops the entry. Deleting an absent entry is not an error.
func (c *CacheService) InvalidateObjectMeta(ctx context.Context, objectID, ownerSub string) error {
	if err := c.store.Delete(ctx, metaKey(ownerSub, objectID)); err != nil {
		return fmt.Errorf("failed to delete object metadata from cache: %w", err)
	}
	logger.Debug("Metadata deleted from cache", zap.String("objectID", objectID))
	return nil
}
