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
)

// WindowStore is the default Store: a fixed-length window with a counter
// that resets wholesale once the window expires.
//
// A key's entry is created on its first request in a window, mutated on
// each subsequent request in the same window, and removed by Sweep once
// the window has passed. The counter never exceeds Limit.Max while the
// entry is used to allow requests: the store denies before incrementing
// past the maximum.
type WindowStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	clock   func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// WindowOption configures a WindowStore.
type WindowOption func(*WindowStore)

// WithClock replaces the time source, for deterministic tests.
func WithClock(clock func() time.Time) WindowOption {
	return func(s *WindowStore) { s.clock = clock }
}

// NewWindowStore creates an empty store.
func NewWindowStore(opts ...WindowOption) *WindowStore {
	s := &WindowStore{
		entries: make(map[string]*windowEntry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take implements Store.
//
// A request arriving at exactly the entry's reset time sees the window as
// already expired and starts a fresh one. Keep it that way: the equality
// case is easy to invert by accident when touching this comparison.
func (s *WindowStore) Take(key string, lim Limit) Decision {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok || !ent.resetAt.After(now) {
		s.entries[key] = &windowEntry{count: 1, resetAt: now.Add(lim.Window)}
		return Decision{Allowed: true, Limit: lim.Max, Remaining: lim.Max - 1}
	}

	if ent.count >= lim.Max {
		return Decision{
			Allowed:    false,
			Limit:      lim.Max,
			Remaining:  0,
			RetryAfter: ent.resetAt.Sub(now),
		}
	}

	ent.count++
	return Decision{Allowed: true, Limit: lim.Max, Remaining: lim.Max - ent.count}
}

// Sweep removes entries whose window has already passed, bounding memory
// to the set of keys active within the trailing window.
func (s *WindowStore) Sweep() {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if !ent.resetAt.After(now) {
			delete(s.entries, k)
		}
	}
}

// Len reports the number of live entries.
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor sweeps expired entries every interval until ctx is done.
// The interval is independent of any single key's window length.
func (s *WindowStore) StartJanitor(ctx context.Context, interval time.Duration) {
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
