package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every entry so Clear cannot touch keys owned by
// other applications sharing the Redis instance.
const keyPrefix = "mpl:"

type RedisStore struct {
	client *redis.Client
}

func NewRedis(url string, timeout time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, keyPrefix+key)
	}
	return s.client.Del(ctx, prefixed...).Err()
}

func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) error {
	return s.deleteMatching(ctx, keyPrefix+pattern)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.deleteMatching(ctx, keyPrefix+"*")
}

func (s *RedisStore) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	info, err := s.client.Info(ctx, "stats", "memory", "clients").Result()
	if err != nil {
		return Stats{}, err
	}

	fields := parseInfo(info)
	hits, _ := strconv.ParseInt(fields["keyspace_hits"], 10, 64)
	misses, _ := strconv.ParseInt(fields["keyspace_misses"], 10, 64)
	clients, _ := strconv.ParseInt(fields["connected_clients"], 10, 64)

	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	keys, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Hits:             hits,
		Misses:           misses,
		HitRate:          hitRate,
		TotalKeys:        keys,
		UsedMemory:       fields["used_memory_human"],
		ConnectedClients: clients,
	}, nil
}

func parseInfo(info string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[name] = value
	}
	return fields
}
