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

import "time"

// Sampling reasons recorded under FieldSampleReason on kept events.
const (
	SampleStatus = "status_5xx"
	SampleError  = "error_outcome"
	SampleSlow   = "slow"
	SampleRole   = "elevated_role"
	SampleFlags  = "feature_flags"
	SampleRandom = "random"
)

// sample evaluates the tail-sampling tiers in order; the first match
// wins. Tiers 1-5 keep the event unconditionally, the last tier keeps it
// with the configured probability.
func (r *Recorder) sample(status int, outcome string, duration time.Duration, fields map[string]any) (bool, string) {
	if status >= 500 {
		return true, SampleStatus
	}
	if outcome == OutcomeError {
		return true, SampleError
	}
	if duration > r.slowThreshold {
		return true, SampleSlow
	}
	if role, ok := fields[FieldUserRole].(string); ok {
		if _, elevated := r.elevatedRoles[role]; elevated {
			return true, SampleRole
		}
	}
	if hasFlags(fields[FieldFeatureFlags]) {
		return true, SampleFlags
	}
	if r.rnd() < r.sampleRate {
		return true, SampleRandom
	}
	return false, ""
}

// hasFlags reports whether a feature-flag snapshot is present and
// non-empty, for the shapes collaborators realistically merge.
func hasFlags(v any) bool {
	switch flags := v.(type) {
	case nil:
		return false
	case map[string]any:
		return len(flags) > 0
	case map[string]string:
		return len(flags) > 0
	case map[string]bool:
		return len(flags) > 0
	case Fields:
		return len(flags) > 0
	case []string:
		return len(flags) > 0
	default:
		return true
	}
}
