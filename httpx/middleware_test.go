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

package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dirpx.dev/dreq"
	"dirpx.dev/dreq/apperr"
	"dirpx.dev/dreq/code"
	"dirpx.dev/dreq/ratelimit"
)

type captureSink struct {
	mu     sync.Mutex
	events []map[string]any
}

func (s *captureSink) Emit(_ context.Context, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fields)
}

func (s *captureSink) last(t *testing.T) map[string]any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		t.Fatal("no event emitted")
	}
	return s.events[len(s.events)-1]
}

func alwaysEmit() *captureSink { return &captureSink{} }

func newRecorder(sink dreq.Sink) *dreq.Recorder {
	// Sample everything so every test request is observable.
	return dreq.NewRecorder(sink, dreq.WithRand(func() float64 { return 0 }))
}

func get(t *testing.T, h http.Handler, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "203.0.113.7:51000"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return env
}

func TestOK_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, http.StatusCreated, map[string]string{"id": "42"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if !env.Success || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestFail_AppError(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, apperr.NotFound(code.NotFound, "no such order").WithDetail("order_id", "o-1"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Success || env.Error == nil {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Error.Code != "not_found" || env.Error.Message != "no such order" {
		t.Fatalf("error = %+v", env.Error)
	}
	if env.Error.Details["order_id"] != "o-1" {
		t.Fatalf("details = %v", env.Error.Details)
	}
}

func TestFail_OpaqueErrorNeverLeaks(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, context.DeadlineExceeded)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Message == context.DeadlineExceeded.Error() {
		t.Fatal("raw error message must not reach the wire")
	}
}

func TestClientKey(t *testing.T) {
	cases := []struct {
		name   string
		trust  bool
		remote string
		xff    string
		want   string
	}{
		{"remote addr host", false, "198.51.100.2:4000", "", "198.51.100.2"},
		{"forwarded ignored when untrusted", false, "198.51.100.2:4000", "10.0.0.1", "198.51.100.2"},
		{"forwarded first hop", true, "198.51.100.2:4000", "10.0.0.1, 10.0.0.2", "10.0.0.1"},
		{"bare remote addr", false, "198.51.100.2", "", "198.51.100.2"},
		{"nothing known", false, "", "", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := ClientKey(tc.trust)(req); got != tc.want {
				t.Fatalf("key = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestLifecycle_EmitsCanonicalEvent(t *testing.T) {
	sink := alwaysEmit()
	rec := newRecorder(sink)

	h := Lifecycle(rec, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dreq.Enrich(r.Context(), dreq.Fields{"user_id": "u-7"})
		OK(w, http.StatusOK, nil)
	}))

	rr := get(t, h, "/api/orders", map[string]string{"User-Agent": "test-agent"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	got := sink.last(t)
	if got[dreq.FieldMethod] != http.MethodGet || got[dreq.FieldPath] != "/api/orders" {
		t.Fatalf("transport fields = %v %v", got[dreq.FieldMethod], got[dreq.FieldPath])
	}
	if got[dreq.FieldClientIP] != "203.0.113.7" {
		t.Fatalf("client_ip = %v", got[dreq.FieldClientIP])
	}
	if got[dreq.FieldUserAgent] != "test-agent" {
		t.Fatalf("user_agent = %v", got[dreq.FieldUserAgent])
	}
	if got["user_id"] != "u-7" {
		t.Fatal("handler enrichment missing from event")
	}
	if got[dreq.FieldStatusCode] != http.StatusOK || got[dreq.FieldOutcome] != dreq.OutcomeSuccess {
		t.Fatalf("outcome fields = %v %v", got[dreq.FieldStatusCode], got[dreq.FieldOutcome])
	}
	if _, ok := got[dreq.FieldRequestID].(string); !ok {
		t.Fatal("request_id must be generated")
	}
}

func TestLifecycle_PropagatesRequestID(t *testing.T) {
	sink := alwaysEmit()
	h := Lifecycle(newRecorder(sink), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		OK(w, http.StatusOK, nil)
	}))

	rr := get(t, h, "/", map[string]string{RequestIDHeader: "up-42"})
	if rr.Header().Get(RequestIDHeader) != "up-42" {
		t.Fatalf("response header = %q", rr.Header().Get(RequestIDHeader))
	}
	if sink.last(t)[dreq.FieldRequestID] != "up-42" {
		t.Fatal("propagated id must win over generation")
	}
}

func TestLifecycle_RecoversPanic(t *testing.T) {
	sink := alwaysEmit()
	h := Lifecycle(newRecorder(sink), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rr := get(t, h, "/boom", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Success || env.Error.Code != string(code.Internal) {
		t.Fatalf("envelope = %+v", env)
	}

	got := sink.last(t)
	if got[dreq.FieldOutcome] != dreq.OutcomeError {
		t.Fatalf("outcome = %v", got[dreq.FieldOutcome])
	}
	desc, ok := got[dreq.FieldError].(map[string]string)
	if !ok || desc["message"] != "kaboom" {
		t.Fatalf("error descriptor = %#v", got[dreq.FieldError])
	}
}

func TestLifecycle_RecordsHandlerStatus(t *testing.T) {
	sink := alwaysEmit()
	h := Lifecycle(newRecorder(sink), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Fail(w, apperr.Forbidden(code.PermissionDenied, "not yours"))
	}))

	get(t, h, "/", nil)
	if got := sink.last(t)[dreq.FieldStatusCode]; got != http.StatusForbidden {
		t.Fatalf("status_code = %v", got)
	}
}

func newLimiter(max int, window time.Duration) *ratelimit.Limiter {
	return ratelimit.New(
		ratelimit.NewWindowStore(),
		ratelimit.NewRules(ratelimit.Limit{Max: max, Window: window}),
	)
}

func TestRateLimit_HeadersOnAllow(t *testing.T) {
	h := RateLimit(newLimiter(2, time.Minute), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		OK(w, http.StatusOK, nil)
	}))

	rr := get(t, h, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("limit header = %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "1" {
		t.Fatalf("remaining header = %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_DeniesOverBudget(t *testing.T) {
	h := RateLimit(newLimiter(1, time.Minute), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		OK(w, http.StatusOK, nil)
	}))

	if rr := get(t, h, "/", nil); rr.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", rr.Code)
	}

	rr := get(t, h, "/", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("remaining header = %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
	retry := rr.Header().Get("Retry-After")
	if retry == "" || retry == "0" {
		t.Fatalf("Retry-After = %q", retry)
	}

	env := decodeEnvelope(t, rr)
	if env.Success || env.Error.Code != string(code.RateLimited) {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	h := RateLimit(newLimiter(1, time.Minute), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		OK(w, http.StatusOK, nil)
	}))

	req := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		return rr.Code
	}

	if got := req("198.51.100.1:1000"); got != http.StatusOK {
		t.Fatalf("first key: %d", got)
	}
	if got := req("198.51.100.2:1000"); got != http.StatusOK {
		t.Fatalf("second key must have its own budget: %d", got)
	}
	if got := req("198.51.100.1:2000"); got != http.StatusTooManyRequests {
		t.Fatalf("same host, new port must share the budget: %d", got)
	}
}

func TestLifecycle_ObservesRateLimitedRequests(t *testing.T) {
	sink := alwaysEmit()
	h := Lifecycle(newRecorder(sink), nil)(
		RateLimit(newLimiter(1, time.Minute), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			OK(w, http.StatusOK, nil)
		})),
	)

	get(t, h, "/", nil)
	get(t, h, "/", nil)

	got := sink.last(t)
	if got[dreq.FieldStatusCode] != http.StatusTooManyRequests {
		t.Fatalf("status_code = %v", got[dreq.FieldStatusCode])
	}
	if got["rate_limited"] != true {
		t.Fatal("denial must enrich the event")
	}
}
