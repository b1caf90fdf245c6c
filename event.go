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

package dreq

import (
	"sync"
	"time"
)

// Fields is a shallow set of event fields. Merging is field-level
// overwrite, last writer wins.
type Fields map[string]any

// Well-known field keys. Collaborators may add arbitrary keys next to
// these; the sampling policy only inspects the ones below.
const (
	FieldTimestamp    = "timestamp"
	FieldRequestID    = "request_id"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldClientIP     = "client_ip"
	FieldUserAgent    = "user_agent"
	FieldService      = "service"
	FieldVersion      = "service_version"
	FieldEnvironment  = "environment"
	FieldUserRole     = "user_role"
	FieldFeatureFlags = "feature_flags"

	FieldStatusCode   = "status_code"
	FieldOutcome      = "outcome"
	FieldDurationMS   = "duration_ms"
	FieldError        = "error"
	FieldSampleReason = "sample_reason"
)

// Outcome values stamped at finalize time.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Event is the mutable lifecycle record for one request: a field map
// opened at request start, enriched during handling, and finalized exactly
// once at request end.
//
// An Event is request-scoped. It is safe for concurrent merges from
// collaborators of the same request; it must never be shared across
// requests.
type Event struct {
	mu        sync.Mutex
	fields    map[string]any
	start     time.Time
	finalized bool
}

func newEvent(start time.Time) *Event {
	return &Event{
		fields: make(map[string]any, 16),
		start:  start,
	}
}

// Set merges a single field into the event, overwriting any previous
// value. Writes after finalization are ignored: the record is closed.
func (e *Event) Set(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return
	}
	e.fields[key] = value
}

// Merge shallow-merges fields into the event, last writer winning per
// field. Writes after finalization are ignored.
func (e *Event) Merge(fields Fields) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return
	}
	for k, v := range fields {
		e.fields[k] = v
	}
}

// Field returns the current value for key.
func (e *Event) Field(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.fields[key]
	return v, ok
}

// finalize closes the event, stamps the outcome fields, and returns a
// snapshot for the sampling decision. The second call and every later one
// return nil: finalization happens exactly once.
func (e *Event) finalize(outcome Fields) map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return nil
	}
	for k, v := range outcome {
		e.fields[k] = v
	}
	e.finalized = true

	snap := make(map[string]any, len(e.fields))
	for k, v := range e.fields {
		snap[k] = v
	}
	return snap
}
