package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/infrastructure/redis"
	"github.com/yourorg/nestboxd/pkg/cache"
)

const sessionKeyPrefix = "session:"

// defaultMemoryTTL bounds memory cache entries when session expiry is
// disabled. Without it a zero TTL would expire every entry on write.
const defaultMemoryTTL = 24 * time.Hour

// RedisSessionCache is a read-through cache for session rows keyed by
// session token. Cache failures are treated as misses; the Postgres
// sessions table stays the source of truth.
type RedisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSessionCache creates a redis-backed session cache
func NewRedisSessionCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisSessionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSessionCache{client: client, ttl: ttl, logger: logger}
}

// Get retrieves a cached session row
func (c *RedisSessionCache) Get(ctx context.Context, sessionKey string) (*domain.Session, bool) {
	raw, err := c.client.Get(ctx, sessionKeyPrefix+sessionKey)
	if err != nil {
		if !redis.IsMiss(err) {
			c.logger.Warn("session cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	s := &domain.Session{}
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		c.logger.Warn("session cache entry corrupt", slog.String("error", err.Error()))
		return nil, false
	}
	return s, true
}

// Set stores a session row under its token with the session TTL
func (c *RedisSessionCache) Set(ctx context.Context, session *domain.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, sessionKeyPrefix+session.SessionKey, data, c.ttl); err != nil {
		c.logger.Warn("session cache write failed", slog.String("error", err.Error()))
	}
}

// Delete drops a cached session row
func (c *RedisSessionCache) Delete(ctx context.Context, sessionKey string) {
	if err := c.client.Delete(ctx, sessionKeyPrefix+sessionKey); err != nil {
		c.logger.Warn("session cache delete failed", slog.String("error", err.Error()))
	}
}

// MemorySessionCache is the in-process fallback used when no redis
// instance is configured. Same contract as RedisSessionCache.
type MemorySessionCache struct {
	cache *cache.Cache[*domain.Session]
	ttl   time.Duration
}

// NewMemorySessionCache creates an in-memory session cache. A zero or
// negative ttl means sessions never expire; entries then live for
// defaultMemoryTTL so stale rows still age out eventually.
func NewMemorySessionCache(ttl time.Duration) *MemorySessionCache {
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	return &MemorySessionCache{cache: cache.New[*domain.Session](), ttl: ttl}
}

// Get retrieves a cached session row
func (c *MemorySessionCache) Get(_ context.Context, sessionKey string) (*domain.Session, bool) {
	return c.cache.Get(sessionKeyPrefix + sessionKey)
}

// Set stores a session row under its token
func (c *MemorySessionCache) Set(_ context.Context, session *domain.Session) {
	c.cache.Set(sessionKeyPrefix+session.SessionKey, session, c.ttl)
}

// Delete drops a cached session row
func (c *MemorySessionCache) Delete(_ context.Context, sessionKey string) {
	c.cache.Delete(sessionKeyPrefix + sessionKey)
}
