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
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Recorder opens, finalizes, and tail-samples wide events. One Recorder
// serves the whole process; it holds no per-request state.
type Recorder struct {
	sink  Sink
	clock func() time.Time
	rnd   func() float64
	newID func() string

	slowThreshold time.Duration
	sampleRate    float64
	elevatedRoles map[string]struct{}
	base          Fields
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithRecorderClock replaces the time source, for deterministic tests.
func WithRecorderClock(clock func() time.Time) Option {
	return func(r *Recorder) { r.clock = clock }
}

// WithRand replaces the random source used by the probabilistic sampling
// tier. The function must return values in [0, 1).
func WithRand(rnd func() float64) Option {
	return func(r *Recorder) { r.rnd = rnd }
}

/// WithIDGenerator replaces the request-id generator (default: UUID v4).
func WithIDGenerator(newID func() string) Option {
	return func(r *Recorder) { r.newID = newID }
}

// WithSlowThreshold sets the duration above which a request is always
// sampled. Defaults to 2s.
func WithSlowThreshold(d time.Duration) Option {
	return func(r *Recorder) { r.slowThreshold = d }
}

// WithSampleRate sets the keep probability for routine traffic, in [0, 1].
// Defaults to 0.05.
func WithSampleRate(rate float64) Option {
	return func(r *Recorder) { r.sampleRate = rate }
}

// WithElevatedRoles sets the subject roles whose requests are always
// sampled. Defaults to "admin".
func WithElevatedRoles(roles ...string) Option {
	return func(r *Recorder) {
		r.elevatedRoles = make(map[string]struct{}, len(roles))
		for _, role := range roles {
			r.elevatedRoles[role] = struct{}{}
		}
	}
}

// WithService attaches static service/deployment metadata to every event.
func WithService(name, version, environment string) Option {
	return func(r *Recorder) {
		r.base = Fields{
			FieldService:     name,
			FieldVersion:     version,
			FieldEnvironment: environment,
		}
	}
}

// NewRecorder creates a Recorder emitting sampled events to sink.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{
		sink:          sink,
		clock:         time.Now,
		rnd:           rand.Float64,
		newID:         uuid.NewString,
		slowThreshold: 2 * time.Second,
		sampleRate:    0.05,
		elevatedRoles: map[string]struct{}{"admin": {}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open starts the lifecycle record for one request. base carries the
// transport-level fields (method, path, client info); a request id is
// generated unless base already propagates one.
func (r *Recorder) Open(base Fields) *Event {
	now := r.clock()
	ev := newEvent(now)

	ev.Merge(Fields{FieldTimestamp: now.UTC().Format(time.RFC3339Nano)})
	ev.Merge(r.base)
	ev.Merge(base)
	if _, ok := ev.Field(FieldRequestID); !ok {
		ev.Set(FieldRequestID, r.newID())
	}
	return ev
}

// Finish finalizes ev with the request outcome and applies the sampling
// policy. It must run on every exit path; middleware calls it from a
// defer so that aborted and panicking requests still produce a
// best-effort record.
//
// status is the response status code. recovered is non-nil only on the
// uncaught-panic path and adds an error descriptor to the event.
//
// The first call wins; later calls are no-ops. The sink sees a finalized
// event at most once.
func (r *Recorder) Finish(ctx context.Context, ev *Event, status int, recovered any) {
	if ev == nil {
		return
	}

	duration := r.clock().Sub(ev.start)
	if duration < 0 {
		duration = 0
	}

	outcome := OutcomeSuccess
	if status >= 500 {
		outcome = OutcomeError
	}

	final := Fields{
		FieldStatusCode: status,
		FieldOutcome:    outcome,
		FieldDurationMS: duration.Milliseconds(),
	}
	if recovered != nil {
		final[FieldError] = map[string]string{
			"type":    fmt.Sprintf("%T", recovered),
			"message": fmt.Sprint(recovered),
		}
	}

	snap := ev.finalize(final)
	if snap == nil {
		return
	}

	keep, reason := r.sample(status, outcome, duration, snap)
	if !keep {
		return
	}
	snap[FieldSampleReason] = reason
	r.sink.Emit(ctx, snap)
}
