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
	"errors"
	"net/http"

	"dirpx.dev/dreq/code"
)

// defaultStatus maps the canonical codes to their HTTP statuses. The table
// is consulted by FromCode; constructors carry their status explicitly.
var defaultStatus = map[code.Code]int{
	// 5xx — server / dependency issues; always paired with the generic message.
	code.Internal:    http.StatusInternalServerError,
	code.Unavailable: http.StatusServiceUnavailable,
	code.Timeout:     http.StatusGatewayTimeout,

	// 4xx — client / domain issues.
	code.Invalid:       http.StatusBadRequest,
	code.Missing:       http.StatusBadRequest,
	code.NotFound:      http.StatusNotFound,
	code.AlreadyExists: http.StatusConflict,
	code.Conflict:      http.StatusConflict,

	code.Unauthenticated:    http.StatusUnauthorized,
	code.InvalidCredentials: http.StatusUnauthorized,
	code.PermissionDenied:   http.StatusForbidden,

	code.RateLimited: http.StatusTooManyRequests,
}

// StatusFor resolves the default HTTP status for a code. Unknown codes
// resolve to 500: an unmapped code is a server-side mistake and must not
// surface as a client error.
func StatusFor(c code.Code) int {
	if st, ok := defaultStatus[c]; ok {
		return st
	}
	return http.StatusInternalServerError
}

// FromCode builds an Error using the default status table.
func FromCode(c code.Code, msg string) *Error {
	return New(StatusFor(c), c, msg)
}

// FromError converts any failure pulled out of a Result into a
// handler-facing Error. *Error values pass through unchanged: the handler
// already shaped them. Everything else — infrastructure failures and any
// domain variant the handler's visitor should have resolved before this
// point — collapses into the generic 500, because an unshaped error must
// never leak to a client.
func FromError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal()
}
