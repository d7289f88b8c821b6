package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mon-panier-local/internal/cache"
	"mon-panier-local/internal/config"
	"mon-panier-local/pkg/logger"
)

// responseCache memoizes serialized read responses. Every failure is
// logged and degraded to a miss so the cache never breaks a request.
type responseCache struct {
	store cache.Store
	cfg   config.CacheConfig
	log   logger.Logger
}

func newResponseCache(store cache.Store, cfg config.CacheConfig, log logger.Logger) *responseCache {
	return &responseCache{store: store, cfg: cfg, log: log}
}

func (c *responseCache) get(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.log.Warn("cache: read failed", "key", key, "err", err)
		}
		return nil, false
	}
	return body, true
}

func (c *responseCache) set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if err := c.store.Set(ctx, key, body, ttl); err != nil {
		c.log.Warn("cache: write failed", "key", key, "err", err)
	}
}

// invalidateProducers drops the producer's detail entry and every list and
// nearby entry. Conservative on purpose: no stale reads after a write beats
// a higher hit rate.
func (c *responseCache) invalidateProducers(ctx context.Context, producerID string) {
	if producerID != "" {
		key := cache.Key(cache.PrefixProducerDetail, map[string]string{"id": producerID})
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn("cache: detail invalidation failed", "producer_id", producerID, "err", err)
		}
	}

	for _, prefix := range []string{cache.PrefixProducersList, cache.PrefixProducersNear} {
		if err := c.store.DeletePattern(ctx, prefix+"*"); err != nil {
			c.log.Warn("cache: pattern invalidation failed", "prefix", prefix, "err", err)
			// Best-effort fallback for stores without pattern support.
			if err := c.store.Delete(ctx, prefix); err != nil {
				c.log.Warn("cache: fallback invalidation failed", "prefix", prefix, "err", err)
			}
		}
	}
}

// CacheStats serves GET /api/cache/stats/.
// TODO: gate the cache admin endpoints behind an operator role before
// exposing them outside the private network.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.store.Stats(r.Context())
	if err != nil {
		h.log.InternalError("cache.stats: stats failed", err)
		writeError(w, http.StatusInternalServerError, "cache stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CacheClear serves POST /api/cache/clear/.
func (h *Handlers) CacheClear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.store.Clear(r.Context()); err != nil {
		h.log.InternalError("cache.clear: clear failed", err)
		writeError(w, http.StatusInternalServerError, "cache clear failed")
		return
	}
	h.log.Info("cache: cleared")
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
}
