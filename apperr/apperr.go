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

package apperr

import (
	"fmt"
	"net/http"

	"dirpx.dev/dreq/code"
)

// Error is the handler-facing error shape: an explicit HTTP status plus the
// code/message/details triple that serializes into the wire error envelope.
//
// It is built by handlers — via the per-status constructors below or via
// FromError at a Result boundary — and is never used internally by
// repositories or use-cases, which speak Result and fault types instead.
//
// All mutation helpers (WithX) return a shallow copy, so Error instances
// can be shared and refined in a functional style.
type Error struct {
	// Code is the machine-readable wire code, normalized per dreq/code.
	Code code.Code

	// Message is the client-facing explanation. For infrastructure
	// failures this is always a fixed generic string; internals never
	// leak here.
	Message string

	// Status is the HTTP status the response is written with.
	Status int

	// Details is an optional shallow map of structured error data exposed
	// to clients (ids, limits, field names). Treated as immutable:
	// WithDetail/WithDetails always copy.
	Details map[string]any
}

// New constructs an Error with an explicit status. Prefer the per-status
// constructors where one fits.
func New(status int, c code.Code, msg string) *Error {
	return &Error{Code: c, Message: msg, Status: status}
}

// BadRequest builds a 400 error.
func BadRequest(c code.Code, msg string) *Error {
	return New(http.StatusBadRequest, c, msg)
}

// Unauthorized builds a 401 error.
func Unauthorized(c code.Code, msg string) *Error {
	return New(http.StatusUnauthorized, c, msg)
}

// Forbidden builds a 403 error.
func Forbidden(c code.Code, msg string) *Error {
	return New(http.StatusForbidden, c, msg)
}

// NotFound builds a 404 error.
func NotFound(c code.Code, msg string) *Error {
	return New(http.StatusNotFound, c, msg)
}

// Conflict builds a 409 error.
func Conflict(c code.Code, msg string) *Error {
	return New(http.StatusConflict, c, msg)
}

// RateLimited builds the 429 error the rate-limit adapters emit.
func RateLimited() *Error {
	return New(http.StatusTooManyRequests, code.RateLimited, "Too many requests")
}

// Internal builds a 500 error with the fixed generic message. There is no
// message parameter on purpose: whatever detail exists belongs in logs,
// not in the client envelope.
func Internal() *Error {
	return New(http.StatusInternalServerError, code.Internal, genericMessage)
}

// genericMessage is the only client-visible text for server-side failures.
const genericMessage = "service unavailable"

// Error implements the error interface with "<status> <code>: <message>".
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// WithMessage returns a shallow copy of e with a replaced client-facing
// message. The original is not modified.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetail returns a shallow copy of e with one extra key/value in
// Details. The map is always copied to preserve immutability.
func (e *Error) WithDetail(k string, v any) *Error {
	cp := *e
	if len(cp.Details) == 0 {
		cp.Details = map[string]any{k: v}
		return &cp
	}
	m := make(map[string]any, len(cp.Details)+1)
	for k0, v0 := range cp.Details {
		m[k0] = v0
	}
	m[k] = v
	cp.Details = m
	return &cp
}

// WithDetails returns a shallow copy of e with kv merged into Details,
// kv winning on key conflicts.
func (e *Error) WithDetails(kv map[string]any) *Error {
	if len(kv) == 0 {
		return e
	}
	cp := *e
	m := make(map[string]any, len(cp.Details)+len(kv))
	for k0, v0 := range cp.Details {
		m[k0] = v0
	}
	for k, v := range kv {
		m[k] = v
	}
	cp.Details = m
	return &cp
}
