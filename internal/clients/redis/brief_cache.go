package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

// BriefCache keeps already-generated synthesis text close to readers. The
// database rows remain the source of truth; a cache miss just falls through
// to the store, so running without Redis changes nothing semantically.
type BriefCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, text string) error
	Close() error
}

type briefCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewBriefCache(log *logger.Logger) (BriefCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 6 * time.Hour
	if v := strings.TrimSpace(os.Getenv("REDIS_BRIEF_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &briefCache{
		log: log.With("service", "RedisBriefCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *briefCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, cacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *briefCache) Set(ctx context.Context, key string, text string) error {
	return c.rdb.Set(ctx, cacheKey(key), text, c.ttl).Err()
}

func (c *briefCache) Close() error { return c.rdb.Close() }

func cacheKey(key string) string { return "brief:" + key }
