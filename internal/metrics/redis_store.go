// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hash fields of a variant's key.
const (
	fieldImpressions = "impressions"
	fieldClicks      = "clicks"
	fieldCTR         = "ctr"
)

// clickScript increments clicks and stores the recomputed CTR in one step,
// so replicas sharing the hash never observe a torn ratio.
var clickScript = redis.NewScript(`
local clicks = redis.call('HINCRBY', KEYS[1], 'clicks', 1)
local imps = tonumber(redis.call('HGET', KEYS[1], 'impressions') or '0')
local ctr = 0
if imps > 0 then
  ctr = clicks / imps
end
local s = tostring(ctr)
redis.call('HSET', KEYS[1], 'ctr', s)
return s
`)

// RedisConfig configures NewRedisClient.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client with conservative timeouts and verifies
// the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RedisStore shares counters between replicas through one Redis hash per
// variant, keyed "<prefix>:<model>".
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "shelfwise:ctr"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(model string) string {
	return r.prefix + ":" + model
}

// IncrImpression implements Store.
func (r *RedisStore) IncrImpression(ctx context.Context, model string) error {
	if err := r.client.HIncrBy(ctx, r.key(model), fieldImpressions, 1).Err(); err != nil {
		return fmt.Errorf("incr impressions: %w", err)
	}
	return nil
}

// IncrClick implements Store.
func (r *RedisStore) IncrClick(ctx context.Context, model string) (float64, error) {
	s, err := clickScript.Run(ctx, r.client, []string{r.key(model)}).Text()
	if err != nil {
		return 0, fmt.Errorf("incr clicks: %w", err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ctr %q: %w", s, err)
	}
	return v, nil
}

// Snapshot implements Store. All hashes are read inside MULTI/EXEC.
func (r *RedisStore) Snapshot(ctx context.Context, models []string) (map[string]Counts, error) {
	cmds := make([]*redis.SliceCmd, len(models))
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range models {
			cmds[i] = pipe.HMGet(ctx, r.key(m), fieldImpressions, fieldClicks, fieldCTR)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}

	out := make(map[string]Counts, len(models))
	for i, m := range models {
		vals := cmds[i].Val()
		var c Counts
		if c.Impressions, err = parseField(vals, 0); err != nil {
			return nil, err
		}
		if c.Clicks, err = parseField(vals, 1); err != nil {
			return nil, err
		}
		if c.CTR, err = parseField(vals, 2); err != nil {
			return nil, err
		}
		out[m] = c
	}
	return out, nil
}

func parseField(vals []interface{}, i int) (float64, error) {
	if i >= len(vals) || vals[i] == nil {
		return 0, nil
	}
	s, ok := vals[i].(string)
	if !ok {
		return 0, fmt.Errorf("unexpected counter type %T", vals[i])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %q: %w", s, err)
	}
	return v, nil
}

// Reset implements Store.
func (r *RedisStore) Reset(ctx context.Context, models []string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range models {
			pipe.HSet(ctx, r.key(m), fieldImpressions, 0, fieldClicks, 0, fieldCTR, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	return nil
}

// Name implements Store.
func (r *RedisStore) Name() string { return "redis" }
