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

// Package otelsink ships canonical wide events to an OpenTelemetry
// logging backend.
//
// Two sinks are provided. BridgeSink rides the otelslog bridge and is
// the plug-and-play choice: it uses the global LoggerProvider and
// inherits trace correlation automatically. RecordSink talks to the
// OpenTelemetry log API directly, for callers that manage their own
// log.Logger and want one log record per event.
package otelsink

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	otellog "go.opentelemetry.io/otel/log"

	"dirpx.dev/dreq"
)

// BridgeSink emits each event as one structured line through the
// otelslog bridge.
type BridgeSink struct {
	logger *slog.Logger
}

// NewBridgeSink creates a sink logging under the given instrumentation
// scope name, via the global OpenTelemetry LoggerProvider.
func NewBridgeSink(name string) *BridgeSink {
	return &BridgeSink{logger: otelslog.NewLogger(name)}
}

// Emit implements dreq.Sink. Keys are sorted so the record layout is
// stable across emissions.
func (s *BridgeSink) Emit(ctx context.Context, fields map[string]any) {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "canonical", attrs...)
}

// RecordSink emits each event as one OpenTelemetry log record.
type RecordSink struct {
	logger otellog.Logger
}

// NewRecordSink creates a sink writing to the given OpenTelemetry
// logger.
func NewRecordSink(logger otellog.Logger) *RecordSink {
	return &RecordSink{logger: logger}
}

// Emit implements dreq.Sink.
func (s *RecordSink) Emit(ctx context.Context, fields map[string]any) {
	var record otellog.Record
	record.SetSeverity(otellog.SeverityInfo)
	record.SetBody(otellog.StringValue("canonical"))

	for _, k := range sortedKeys(fields) {
		record.AddAttributes(otellog.String(k, stringValue(fields[k])))
	}
	s.logger.Emit(ctx, record)
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return slog.AnyValue(v).String()
}

var (
	_ dreq.Sink = (*BridgeSink)(nil)
	_ dreq.Sink = (*RecordSink)(nil)
)
