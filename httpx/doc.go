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

// Package httpx adapts the dreq request lifecycle to net/http.
//
// It provides the JSON response envelope shared by all handlers, a
// Lifecycle middleware that opens a wide event per request and finalizes
// it on every exit path including panics, and a RateLimit middleware
// that enforces a ratelimit.Limiter per client key with the standard
// X-RateLimit-* and Retry-After headers.
//
// Middleware composes outside-in: Lifecycle wraps RateLimit wraps the
// handler, so denied requests still produce a canonical event.
package httpx
