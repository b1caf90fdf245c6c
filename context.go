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

import "context"

type eventKey struct{}

// NewContext returns a child context carrying ev, so downstream
// collaborators can enrich the request's event without threading it
// through every signature.
func NewContext(ctx context.Context, ev *Event) context.Context {
	return context.WithValue(ctx, eventKey{}, ev)
}

// FromContext returns the request's event, if one was opened upstream.
func FromContext(ctx context.Context) (*Event, bool) {
	ev, ok := ctx.Value(eventKey{}).(*Event)
	return ev, ok
}

// Enrich merges fields into the context's event, if any. It is a
// convenience for collaborators that only want to annotate, not inspect.
func Enrich(ctx context.Context, fields Fields) {
	if ev, ok := FromContext(ctx); ok {
		ev.Merge(fields)
	}
}
