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

package ratelimit

import "time"

// Limit is the policy applied to one key: at most Max requests per Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// Decision is the outcome of one limiting check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Limit echoes the maximum for the applied window, for the
	// X-RateLimit-Limit header.
	Limit int

	// Remaining is how many requests the key has left in the current
	// window. Zero when denied.
	Remaining int

	// RetryAfter is the time left until the key's window resets. Set only
	// when denied.
	RetryAfter time.Duration
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, the
// granularity of the Retry-After header.
func (d Decision) RetryAfterSeconds() int {
	if d.RetryAfter <= 0 {
		return 0
	}
	return int((d.RetryAfter + time.Second - 1) / time.Second)
}

// Store decides whether one more request for key fits within lim.
// Implementations must be safe for concurrent use.
type Store interface {
	Take(key string, lim Limit) Decision
}
