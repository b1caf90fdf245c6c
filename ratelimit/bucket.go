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
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BucketStore is an alternative Store backed by token buckets
// (golang.org/x/time/rate). Unlike WindowStore it smooths traffic across
// the window instead of admitting bursts up to Max and then refusing.
//
// The Limit is translated as: refill rate Max/Window, burst Max. A key's
// bucket is created with the Limit seen on its first request; later Limit
// changes apply to new keys only.
type BucketStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketEntry
	idleTTL time.Duration
}

type bucketEntry struct {
	lim      *rate.Limiter
	max      int
	lastSeen time.Time
}

// BucketOption configures a BucketStore.
type BucketOption func(*BucketStore)

// WithIdleTTL sets how long an unused bucket survives before Sweep removes
// it. Defaults to 15 minutes.
func WithIdleTTL(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.idleTTL = d }
}

// NewBucketStore creates an empty bucket store.
func NewBucketStore(opts ...BucketOption) *BucketStore {
	s := &BucketStore{
		buckets: make(map[string]*bucketEntry),
		idleTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take implements Store.
func (s *BucketStore) Take(key string, lim Limit) Decision {
	now := time.Now()

	s.mu.Lock()
	ent, ok := s.buckets[key]
	if !ok {
		perSecond := float64(lim.Max) / lim.Window.Seconds()
		ent = &bucketEntry{
			lim: rate.NewLimiter(rate.Limit(perSecond), lim.Max),
			max: lim.Max,
		}
		s.buckets[key] = ent
	}
	ent.lastSeen = now
	s.mu.Unlock()

	res := ent.lim.Reserve()
	if !res.OK() {
		return Decision{Limit: ent.max, RetryAfter: lim.Window}
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return Decision{Limit: ent.max, RetryAfter: delay}
	}

	remaining := int(ent.lim.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: ent.max, Remaining: remaining}
}

// Sweep removes buckets idle for longer than the configured TTL.
func (s *BucketStore) Sweep() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.buckets {
		if ent.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
		}
	}
}

// StartJanitor sweeps idle buckets every interval until ctx is done.
func (s *BucketStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}
