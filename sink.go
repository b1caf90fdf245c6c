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
	"io"
	"log/slog"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// Sink receives finalized, sampled events. Implementations decide how the
// field mapping is encoded and where it goes; dreq calls Emit at most once
// per request.
type Sink interface {
	Emit(ctx context.Context, fields map[string]any)
}

// SlogSink emits events through a slog.Logger, one attribute per field.
// Combined with an OpenTelemetry slog bridge (see dirpx.dev/dreq/otelsink)
// this forwards events into any OTLP pipeline.
type SlogSink struct {
	logger *slog.Logger
	msg    string
}

// NewSlogSink creates a sink logging at info level with the fixed message
// "canonical".
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger, msg: "canonical"}
}

// Emit implements Sink. Attributes are sorted by key so records are
// stable for tests and log diffing.
func (s *SlogSink) Emit(ctx context.Context, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, s.msg, attrs...)
}

// JSONSink writes each event as one JSON object per line. This is the
// plain canonical-log-line form for shipping to a file or stdout
// collector.
type JSONSink struct {
	mu sync.Mutex
	w  io.Writer
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewJSONSink creates a sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

// Emit implements Sink. Marshal failures drop the record: a sink must
// never fail the request it observes.
func (s *JSONSink) Emit(_ context.Context, fields map[string]any) {
	b, err := json.Marshal(fields)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(append(b, '\n'))
}
