// Package cache stores generated answers in Redis so repeated questions skip
// the retrieval and generation pipeline, and keeps usage counters.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/plurag/plurag/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "urbanisme:"
const statPrefix = "stats:"

// DefaultTTL is how long cached answers are kept.
const DefaultTTL = 24 * time.Hour

// Counter names tracked in Redis.
const (
	StatTotalQueries = "total_queries"
	StatCacheHits    = "cache_hits"
	StatAPICalls     = "api_calls"
	StatRAGSearches  = "rag_searches"
	StatLLMCalls     = "llm_calls"
)

func New(log *slog.Logger, addr, password string, db int) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{
		log:     log,
		client:  client,
		Enabled: true,
	}
}

type Cache struct {
	log    *slog.Logger
	client *redis.Client

	// Enabled is cleared when Redis is unreachable at startup. The server
	// then runs without caching rather than failing.
	Enabled bool
}

// Connect pings Redis and disables the cache when it cannot be reached.
func (c *Cache) Connect(ctx context.Context) {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.log.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		c.Enabled = false
		return
	}
	c.log.Info("redis connected, caching enabled")
}

// Key derives the cache key for a question, optionally scoped by commune.
func Key(commune, question string) string {
	content := question
	if commune != "" {
		content = commune + ":" + question
	}
	sum := sha256.Sum256([]byte(content))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (resp models.QueryPostResponse, ok bool) {
	if !c.Enabled {
		return resp, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Error("cache read failed", slog.Any("error", err))
		}
		return resp, false
	}
	if err = json.Unmarshal(data, &resp); err != nil {
		c.log.Error("cache entry corrupt", slog.String("key", key), slog.Any("error", err))
		return resp, false
	}
	return resp, true
}

func (c *Cache) Set(ctx context.Context, key string, resp models.QueryPostResponse, ttl time.Duration) {
	if !c.Enabled {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		c.log.Error("cache marshal failed", slog.Any("error", err))
		return
	}
	if err = c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.Error("cache write failed", slog.Any("error", err))
	}
}

// Clear deletes all cached answers and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (deleted int64, err error) {
	if !c.Enabled {
		return 0, nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err = iter.Err(); err != nil {
		return 0, fmt.Errorf("cache: scan failed: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	deleted, err = c.client.Del(ctx, keys...).Result()
	if err != nil {
		return deleted, fmt.Errorf("cache: delete failed: %w", err)
	}
	return deleted, nil
}

// IncrementStat bumps a usage counter. Failures are logged, not returned,
// because statistics must never break the query path.
func (c *Cache) IncrementStat(ctx context.Context, name string) {
	if !c.Enabled {
		return
	}
	if err := c.client.Incr(ctx, statPrefix+name).Err(); err != nil {
		c.log.Error("stat increment failed", slog.String("stat", name), slog.Any("error", err))
	}
}

func (c *Cache) Stats(ctx context.Context) (stats models.StatsGetResponse) {
	stats.CacheEnabled = c.Enabled
	if !c.Enabled {
		return stats
	}
	stats.TotalQueries = c.statValue(ctx, StatTotalQueries)
	stats.CacheHits = c.statValue(ctx, StatCacheHits)
	stats.APICalls = c.statValue(ctx, StatAPICalls)
	stats.RAGSearches = c.statValue(ctx, StatRAGSearches)
	stats.LLMCalls = c.statValue(ctx, StatLLMCalls)
	return stats
}

func (c *Cache) statValue(ctx context.Context, name string) int64 {
	v, err := c.client.Get(ctx, statPrefix+name).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *Cache) Health(ctx context.Context) *models.CacheHealth {
	if !c.Enabled {
		return &models.CacheHealth{Status: "disabled", Message: "redis not configured"}
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return &models.CacheHealth{Status: "error", Message: err.Error()}
	}
	h := &models.CacheHealth{Status: "healthy"}
	h.TotalKeys, _ = c.client.DBSize(ctx).Result()
	if info, err := c.client.Info(ctx, "clients", "memory").Result(); err == nil {
		h.ConnectedClients = infoInt(info, "connected_clients")
		h.UsedMemory = infoField(info, "used_memory_human")
	}
	return h
}

// infoField extracts a single "key:value" line from an INFO response.
func infoField(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), field+":"); ok {
			return v
		}
	}
	return ""
}

func infoInt(info, field string) int64 {
	v, err := strconv.ParseInt(infoField(info, field), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (c *Cache) Close() error {
	return c.client.Close()
}
