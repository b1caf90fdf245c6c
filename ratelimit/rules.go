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

import (
	"fmt"

	"dirpx.dev/dreq/ratelimit/internal/pathtrie"
)

// Rules resolves which Limit applies to a request path: a base limit plus
// optional per-route overrides matched by longest path prefix, with "*"
// standing for exactly one path segment.
//
// Rules are built up front and read-only afterwards; For is safe for
// concurrent use.
type Rules struct {
	base Limit
	trie *pathtrie.Trie[Limit]
}

// NewRules creates a rule set that applies base everywhere.
func NewRules(base Limit) *Rules {
	return &Rules{base: base, trie: pathtrie.New[Limit]()}
}

// Add registers an override for a path prefix, e.g. "/api/auth" or
// "/api/*/export". More specific (deeper) patterns win over shorter ones.
func (r *Rules) Add(pattern string, lim Limit) error {
	if err := r.trie.Insert(pattern, lim); err != nil {
		return fmt.Errorf("ratelimit: rule %q: %w", pattern, err)
	}
	return nil
}

// For returns the Limit governing path.
func (r *Rules) For(path string) Limit {
	if r == nil {
		return Limit{}
	}
	if lim, ok := r.trie.Match(path); ok {
		return lim
	}
	return r.base
}
