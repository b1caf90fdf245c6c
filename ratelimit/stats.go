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

// StatsEvent describes one limiting decision for observability purposes.
//
// Method and Path are generic strings so the same event shape serves HTTP
// and gRPC. Mind cardinality when persisting per-key or per-path series.
type StatsEvent struct {
	Key     string
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsSink persists decision statistics. Implementations are best-effort
// consumers: the Limiter ignores Record errors and never lets them affect
// a request.
type StatsSink interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// MemoryStats counts decisions in process memory. Useful in tests and for
// exposing coarse counters without external dependencies.
type MemoryStats struct {
	mu      sync.Mutex
	allowed int64
	denied  int64
}

// NewMemoryStats creates a zeroed counter set.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{}
}

// Record implements StatsSink.
func (s *MemoryStats) Record(_ context.Context, ev StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Allowed {
		s.allowed++
	} else {
		s.denied++
	}
	return nil
}

// Totals returns the allowed and denied counts so far.
func (s *MemoryStats) Totals() (allowed, denied int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed, s.denied
}
