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
	"net"
	"net/http"
	"strconv"
	"strings"

	"dirpx.dev/dreq"
	"dirpx.dev/dreq/apperr"
	"dirpx.dev/dreq/ratelimit"
)

// RequestIDHeader is the header used to propagate request ids across
// service hops.
const RequestIDHeader = "X-Request-ID"

// KeyFunc derives the rate-limiting key for a request.
type KeyFunc func(r *http.Request) string

// ClientKey returns the default KeyFunc: the first hop of
// X-Forwarded-For when trustForwarded is set, otherwise the host part
// of RemoteAddr, with "unknown" as the last resort.
//
// Only enable trustForwarded behind a proxy that overwrites the header;
// the client controls it otherwise.
func ClientKey(trustForwarded bool) KeyFunc {
	return func(r *http.Request) string {
		if trustForwarded {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Lifecycle opens a wide event for every request and finalizes it on
// every exit path. Panics in the inner handler are recovered, answered
// with a generic 500 envelope, and recorded on the event; they are not
// re-raised.
//
// The event rides the request context, so handlers and inner middleware
// can enrich it via dreq.FromContext or dreq.Enrich.
func Lifecycle(rec *dreq.Recorder, key KeyFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientKey(false)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			base := dreq.Fields{
				dreq.FieldMethod:    r.Method,
				dreq.FieldPath:      r.URL.Path,
				dreq.FieldClientIP:  key(r),
				dreq.FieldUserAgent: r.UserAgent(),
			}
			if id := r.Header.Get(RequestIDHeader); id != "" {
				base[dreq.FieldRequestID] = id
			}
			ev := rec.Open(base)
			if id, ok := ev.Field(dreq.FieldRequestID); ok {
				if s, ok := id.(string); ok {
					w.Header().Set(RequestIDHeader, s)
				}
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			ctx := dreq.NewContext(r.Context(), ev)

			defer func() {
				if v := recover(); v != nil {
					if !sw.wrote {
						Fail(sw, apperr.Internal())
					}
					rec.Finish(ctx, ev, http.StatusInternalServerError, v)
					return
				}
				rec.Finish(ctx, ev, sw.status, nil)
			}()

			next.ServeHTTP(sw, r.WithContext(ctx))
		})
	}
}

// RateLimit enforces lim for every request, keyed by key (ClientKey
// without proxy trust when nil). Allowed requests pass through with
// X-RateLimit-Limit and X-RateLimit-Remaining set; denied requests are
// answered with 429, a Retry-After header in whole seconds, and the
// standard failure envelope.
func RateLimit(lim *ratelimit.Limiter, key KeyFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientKey(false)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dec := lim.Check(r.Context(), key(r), r.Method, r.URL.Path)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))

			if !dec.Allowed {
				retry := dec.RetryAfterSeconds()
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				dreq.Enrich(r.Context(), dreq.Fields{"rate_limited": true})
				Fail(w, apperr.RateLimited().WithDetail("retry_after_seconds", retry))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter records the status code and whether anything was written,
// for the lifecycle event and for panic recovery.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}
