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

// Package pathtrie indexes URL-path prefixes for longest-prefix-match
// lookups. Each node is one slash-separated segment; the wildcard "*"
// matches exactly one segment, so a deeper, more specific rule always wins
// over a shorter one.
package pathtrie

import (
	"errors"
	"strings"
)

// Trie is a segment trie over slash-separated path prefixes.
// It is built once and read-only afterwards; lookups are safe for
// concurrent use.
type Trie[T any] struct {
	children map[string]*Trie[T]
	hasVal   bool
	val      T
}

// ErrInvalidPattern is returned for empty patterns, patterns with empty
// segments, or patterns made only of wildcards.
var ErrInvalidPattern = errors.New("pathtrie: invalid pattern")

// New creates an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{children: make(map[string]*Trie[T])}
}

// Insert associates val with a path prefix such as "/api/users" or
// "/api/*/export". A pattern of only wildcards is rejected: it would catch
// everything.
func (t *Trie[T]) Insert(pattern string, val T) error {
	segs, ok := split(pattern)
	if !ok || len(segs) == 0 {
		return ErrInvalidPattern
	}

	allWild := true
	for _, s := range segs {
		if s != "*" {
			allWild = false
			break
		}
	}
	if allWild {
		return ErrInvalidPattern
	}

	cur := t
	for _, s := range segs {
		child, exists := cur.children[s]
		if !exists {
			child = New[T]()
			cur.children[s] = child
		}
		cur = child
	}
	cur.hasVal = true
	cur.val = val
	return nil
}

// Match returns the value of the deepest stored prefix matching path,
// exploring both exact and wildcard branches.
func (t *Trie[T]) Match(path string) (T, bool) {
	var zero T
	if t == nil {
		return zero, false
	}
	segs, ok := split(path)
	if !ok {
		return zero, false
	}

	bestDepth := -1
	var bestVal T

	var dfs func(n *Trie[T], idx, depth int)
	dfs = func(n *Trie[T], idx, depth int) {
		if n.hasVal && depth > bestDepth {
			bestDepth = depth
			bestVal = n.val
		}
		if idx >= len(segs) {
			return
		}
		if next, ok := n.children[segs[idx]]; ok {
			dfs(next, idx+1, depth+1)
		}
		if next, ok := n.children["*"]; ok {
			dfs(next, idx+1, depth+1)
		}
	}
	dfs(t, 0, 0)

	if bestDepth < 0 {
		return zero, false
	}
	return bestVal, true
}

// split breaks a path or pattern into segments, tolerating leading and
// trailing slashes. Empty interior segments ("//") are invalid.
func split(p string) ([]string, bool) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, false
	}
	segs := strings.Split(p, "/")
	for _, s := range segs {
		if s == "" {
			return nil, false
		}
	}
	return segs, true
}
