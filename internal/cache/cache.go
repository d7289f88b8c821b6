// Package cache provides the response cache used by the read endpoints.
// The cache is a performance optimization only: callers must treat every
// error as a miss and fall through to direct computation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Key prefixes for the cached views. Invalidation pattern-deletes the list
// and nearby prefixes wholesale, which is deliberately conservative.
const (
	PrefixProducersList  = "producers_list"
	PrefixProducersNear  = "producers_nearby"
	PrefixProducerDetail = "producer_detail"
	PrefixCategoriesList = "categories_list"
)

type Stats struct {
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	HitRate          float64 `json:"hit_rate"`
	TotalKeys        int64   `json:"total_keys"`
	UsedMemory       string  `json:"used_memory"`
	ConnectedClients int64   `json:"connected_clients"`
}

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching the glob pattern, e.g.
	// "producers_list:*". Stores without pattern support may fall back to
	// deleting the bare prefix key.
	DeletePattern(ctx context.Context, pattern string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Noop is the fallback store used when no Redis is configured; every read
// is a miss and every write is discarded.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error)                  { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error     { return nil }
func (Noop) Delete(context.Context, ...string) error                      { return nil }
func (Noop) DeletePattern(context.Context, string) error                  { return nil }
func (Noop) Clear(context.Context) error                                  { return nil }
func (Noop) Stats(context.Context) (Stats, error)                         { return Stats{}, nil }
