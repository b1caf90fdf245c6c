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
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONSink_OneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	sink.Emit(context.Background(), map[string]any{"outcome": "success", "status_code": 200})
	sink.Emit(context.Background(), map[string]any{"outcome": "error", "status_code": 500})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d; want 2", len(lines))
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if rec["outcome"] != "success" {
		t.Fatalf("outcome = %v", rec["outcome"])
	}
}

func TestJSONSink_DropsUnmarshalableEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	sink.Emit(context.Background(), map[string]any{"bad": func() {}})
	sink.Emit(context.Background(), map[string]any{"ok": true})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d; want 1 (bad event dropped)", len(lines))
	}
}

func TestSlogSink_EmitsAllFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sink := NewSlogSink(logger)

	sink.Emit(context.Background(), map[string]any{
		"request_id": "req-1",
		"outcome":    "success",
	})

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"outcome":"success"`, "canonical"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}
