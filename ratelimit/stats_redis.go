/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStats persists decision counters to Redis: a cumulative total hash,
// per-minute buckets, and optionally per-route counters.
//
// This is observability only. The counters play no part in limiting
// decisions, so running several instances against one Redis does not turn
// the limiter into a distributed one.
type RedisStats struct {
	rdb *redis.Client

	prefix string
	// ttl applies to time-bucketed keys only; the cumulative total never
	// expires.
	ttl time.Duration

	trackRoutes bool
}

// RedisStatsOption configures a RedisStats sink.
type RedisStatsOption func(*RedisStats)

// WithStatsPrefix overrides the key prefix (default "dreq:ratelimit").
func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStats) { s.prefix = strings.Trim(prefix, ":") }
}

// WithStatsTTL sets the expiry for per-minute bucket keys (default 24h).
func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStats) { s.ttl = d }
}

// WithStatsRoutes enables per-route counters. Off by default: route
// cardinality is unbounded when paths embed identifiers.
func WithStatsRoutes(track bool) RedisStatsOption {
	return func(s *RedisStats) { s.trackRoutes = track }
}

// NewRedisStats creates a sink writing through rdb.
func NewRedisStats(rdb *redis.Client, opts ...RedisStatsOption) *RedisStats {
	s := &RedisStats{
		rdb:    rdb,
		prefix: "dreq:ratelimit",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record implements StatsSink.
func (s *RedisStats) Record(ctx context.Context, ev StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}

	if s.trackRoutes {
		route := strings.TrimSpace(ev.Method + " " + ev.Path)
		if route != "" {
			pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
