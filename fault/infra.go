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

package fault

import (
	"errors"
	"fmt"
)

// InfraError wraps an unexpected failure from an external resource call.
//
// Message is operator-facing context describing what was being attempted
// ("load user profile", "write session"). Cause is the original failure,
// preserved for diagnostics only — transport adapters must never include
// it in a client-visible message.
//
// InfraError is immutable once constructed.
type InfraError struct {
	// Message describes the unit of work that failed, in operator terms.
	Message string

	// Cause is the underlying failure. It participates in errors.Is /
	// errors.As chains via Unwrap.
	Cause error
}

// Infra constructs an InfraError wrapping cause with context msg.
func Infra(msg string, cause error) *InfraError {
	return &InfraError{Message: msg, Cause: cause}
}

// Error implements the error interface with the operator-facing form
// "infra: <message>: <cause>". This string is for logs, never for clients.
func (e *InfraError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("infra: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("infra: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *InfraError) Unwrap() error { return e.Cause }

// AsInfra extracts an *InfraError from anywhere in err's chain.
func AsInfra(err error) (*InfraError, bool) {
	var ie *InfraError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsInfra reports whether err carries an InfraError anywhere in its chain.
func IsInfra(err error) bool {
	_, ok := AsInfra(err)
	return ok
}

// PanicError is the cause recorded when the boundary recovers a panic from
// the wrapped unit of work. Value is whatever was passed to panic.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
