package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PageCache keeps rendered page PNGs in Redis. Keys are content hashes, so
// entries never need invalidation and simply expire after the TTL.
type PageCache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPageCache connects to addr and pings it.
func NewPageCache(ctx context.Context, addr string, ttl time.Duration, logger *slog.Logger) (*PageCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &PageCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With("component", "page_cache"),
	}, nil
}

// Get returns the cached page. A miss is (nil, false, nil).
func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

// Set stores a page for the configured TTL.
func (c *PageCache) Set(ctx context.Context, key string, png []byte) error {
	if err := c.rdb.Set(ctx, key, png, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	c.logger.Debug("page cached", "key", key, "bytes", len(png))
	return nil
}

// Close closes the client.
func (c *PageCache) Close() error {
	return c.rdb.Close()
}
