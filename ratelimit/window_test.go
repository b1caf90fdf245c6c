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
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var minuteLimit = Limit{Max: 3, Window: time.Minute}

func TestTake_AllowAllowAllowDeny(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	for i := 0; i < 3; i++ {
		dec := s.Take("1.2.3.4", minuteLimit)
		if !dec.Allowed {
			t.Fatalf("request %d must be allowed", i+1)
		}
		if dec.Limit != 3 {
			t.Fatalf("limit = %d; want 3", dec.Limit)
		}
		if want := 2 - i; dec.Remaining != want {
			t.Fatalf("request %d remaining = %d; want %d", i+1, dec.Remaining, want)
		}
	}

	dec := s.Take("1.2.3.4", minuteLimit)
	if dec.Allowed {
		t.Fatal("fourth request must be denied")
	}
	if dec.Remaining != 0 {
		t.Fatalf("denied remaining = %d; want 0", dec.Remaining)
	}
	if secs := dec.RetryAfterSeconds(); secs <= 0 || secs > 60 {
		t.Fatalf("RetryAfterSeconds = %d; want (0, 60]", secs)
	}
}

func TestTake_RetryAfterIsCeiled(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	for i := 0; i < 3; i++ {
		s.Take("k", minuteLimit)
	}
	clk.Advance(30*time.Second + 500*time.Millisecond) // 29.5s left in window

	dec := s.Take("k", minuteLimit)
	if dec.Allowed {
		t.Fatal("must be denied")
	}
	if secs := dec.RetryAfterSeconds(); secs != 30 {
		t.Fatalf("RetryAfterSeconds = %d; want 30 (ceil of 29.5)", secs)
	}
}

func TestTake_WindowResetAfterExpiry(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	for i := 0; i < 4; i++ {
		s.Take("k", minuteLimit) // exhaust + one deny
	}
	clk.Advance(time.Minute + time.Nanosecond)

	dec := s.Take("k", minuteLimit)
	if !dec.Allowed {
		t.Fatal("request after expiry must be allowed even though prior window was exhausted")
	}
	if dec.Remaining != 2 {
		t.Fatalf("remaining = %d; want 2 (count back to 1)", dec.Remaining)
	}
}

func TestTake_ExactResetTimeStartsFreshWindow(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	for i := 0; i < 3; i++ {
		s.Take("k", minuteLimit)
	}
	clk.Advance(time.Minute) // now == resetAt exactly

	dec := s.Take("k", minuteLimit)
	if !dec.Allowed {
		t.Fatal("request at exactly resetAt must start a fresh window")
	}
	if dec.Remaining != 2 {
		t.Fatalf("remaining = %d; want 2", dec.Remaining)
	}
}

func TestTake_KeysAreIndependent(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	for i := 0; i < 3; i++ {
		s.Take("a", minuteLimit)
	}
	if dec := s.Take("a", minuteLimit); dec.Allowed {
		t.Fatal("key a must be exhausted")
	}
	if dec := s.Take("b", minuteLimit); !dec.Allowed {
		t.Fatal("key b must be unaffected")
	}
}

func TestSweep_RemovesExpiredEntries(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	s.Take("old", minuteLimit)
	clk.Advance(30 * time.Second)
	s.Take("fresh", minuteLimit)

	clk.Advance(45 * time.Second) // "old" window passed; "fresh" still live
	s.Sweep()

	if got := s.Len(); got != 1 {
		t.Fatalf("Len() = %d after sweep; want 1", got)
	}

	// The surviving entry still carries its count.
	if dec := s.Take("fresh", minuteLimit); dec.Remaining != 1 {
		t.Fatalf("fresh remaining = %d; want 1", dec.Remaining)
	}
}

func TestLimiter_RulesPickWindowByRoute(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))

	rules := NewRules(Limit{Max: 100, Window: time.Minute})
	if err := rules.Add("/api/auth", Limit{Max: 1, Window: time.Minute}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	l := New(s, rules)
	ctx := t.Context()

	if dec := l.Check(ctx, "ip", "POST", "/api/auth/login"); !dec.Allowed {
		t.Fatal("first auth request must pass")
	}
	if dec := l.Check(ctx, "ip", "POST", "/api/auth/login"); dec.Allowed {
		t.Fatal("second auth request must hit the stricter rule")
	}
	if dec := l.Check(ctx, "ip", "GET", "/api/posts"); !dec.Allowed || dec.Limit != 100 {
		t.Fatalf("base rule must apply elsewhere: %+v", dec)
	}
}

func TestLimiter_StatsAreBestEffort(t *testing.T) {
	clk := newFakeClock()
	s := NewWindowStore(WithClock(clk.Now))
	stats := NewMemoryStats()
	l := New(s, NewRules(Limit{Max: 1, Window: time.Minute}), WithStats(stats))
	ctx := t.Context()

	l.Check(ctx, "k", "GET", "/x")
	l.Check(ctx, "k", "GET", "/x")

	allowed, denied := stats.Totals()
	if allowed != 1 || denied != 1 {
		t.Fatalf("stats = %d allowed, %d denied; want 1, 1", allowed, denied)
	}
}

func TestBucketStore_AllowsBurstThenThrottles(t *testing.T) {
	s := NewBucketStore()
	lim := Limit{Max: 2, Window: time.Hour} // refill is negligible within the test

	if dec := s.Take("k", lim); !dec.Allowed {
		t.Fatal("first request must pass")
	}
	if dec := s.Take("k", lim); !dec.Allowed {
		t.Fatal("second request must pass (burst)")
	}
	dec := s.Take("k", lim)
	if dec.Allowed {
		t.Fatal("third request must be throttled")
	}
	if dec.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v; want > 0", dec.RetryAfter)
	}
}
