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
	"time"
)

// Limiter combines a Store with route Rules and an optional stats sink.
// It is the type transport adapters (httpx, grpcx) consume.
type Limiter struct {
	store Store
	rules *Rules
	stats StatsSink
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithStats attaches a best-effort decision-stats sink. Recording errors
// never affect the decision.
func WithStats(sink StatsSink) Option {
	return func(l *Limiter) { l.stats = sink }
}

// New builds a Limiter. rules may be nil, in which case every path gets
// the zero Limit and the caller is expected to have configured the store
// accordingly — in practice always pass rules.
func New(store Store, rules *Rules, opts ...Option) *Limiter {
	l := &Limiter{store: store, rules: rules}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check runs one limiting decision for a client key and request route.
func (l *Limiter) Check(ctx context.Context, key, method, path string) Decision {
	dec := l.store.Take(key, l.rules.For(path))

	if l.stats != nil {
		_ = l.stats.Record(ctx, StatsEvent{
			Key:     key,
			Allowed: dec.Allowed,
			Method:  method,
			Path:    path,
			At:      time.Now(),
		})
	}
	return dec
}
