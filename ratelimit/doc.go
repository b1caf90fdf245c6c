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

// Package ratelimit gates requests per client key with an in-memory
// sliding fixed-window counter.
//
// The limiter is single-process and approximate: it enforces "at most Max
// requests per Window per key" only within one running instance and
// provides no cross-instance guarantee. A distributed deployment needs an
// externally shared counter store, which is deliberately out of scope —
// the optional Redis integration here records decision statistics only and
// never participates in the limiting decision itself.
//
// Stores are explicitly constructed and injected rather than held in
// package-level state, so tests and multi-tenant servers can run
// independent instances.
package ratelimit
