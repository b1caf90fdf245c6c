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

// Package dreq records one canonical wide event per request and decides
// after the fact whether to keep it.
//
// A request's Event is opened when handling starts, enriched by any
// collaborator holding a reference (auth resolution, business handlers),
// and finalized exactly once on every exit path with the outcome fields.
// Only then does the Recorder apply its tail-based sampling policy: error,
// slow, and high-signal traffic is always kept, routine traffic is kept at
// a small fixed probability. Deferring the decision until the outcome is
// known is what guarantees errors and outliers are never dropped while
// bounding log volume.
//
// Events are request-scoped and never shared across requests; the clock
// and the random source are injectable for deterministic tests.
//
// The subpackages supply everything around the record: result (Ok/Err
// propagation), fault (error taxonomy and the infrastructure boundary),
// apperr and code (wire error shape), ratelimit (per-key request gating),
// httpx and grpcx (transport middleware), otelsink (OpenTelemetry log
// export), config (environment setup).
package dreq
