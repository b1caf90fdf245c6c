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

package code

// Server-side / infrastructure error codes.
//
// These always surface to clients with a generic message; the technical
// cause stays in server-side logs only.
const (
	// Internal indicates an unclassified server-side failure. This is the
	// fallback for any infrastructure error and for failures that escape
	// handler-level matching.
	//
	// Mapped to HTTP 500.
	Internal Code = "internal"

	// Unavailable indicates that a required downstream dependency
	// (storage, cache, network peer) is temporarily unreachable.
	//
	// Mapped to HTTP 503.
	Unavailable Code = "unavailable"

	// Timeout indicates the operation exceeded its time budget, typically
	// the per-call deadline attached at the infrastructure boundary.
	//
	// Mapped to HTTP 504.
	Timeout Code = "timeout"
)

// Client / domain error codes.
//
// These carry a precise, client-facing message built from a typed domain
// error variant.
const (
	// Invalid indicates that the input violates a structural or semantic
	// constraint (format, range, cross-field consistency).
	//
	// Mapped to HTTP 400.
	Invalid Code = "invalid"

	// Missing indicates that a required value, field, or parameter is
	// absent.
	//
	// Mapped to HTTP 400.
	Missing Code = "missing"

	// NotFound indicates that the referenced entity does not exist in the
	// caller's scope.
	//
	// Mapped to HTTP 404.
	NotFound Code = "not_found"

	// AlreadyExists indicates a creation clash: an entity with the same
	// identity is already present.
	//
	// Mapped to HTTP 409.
	AlreadyExists Code = "already_exists"

	// Conflict indicates a domain-state conflict that is not strictly an
	// identity clash: version mismatches, concurrent updates.
	//
	// Mapped to HTTP 409.
	Conflict Code = "conflict"
)

// Authentication / authorization codes.
const (
	// Unauthenticated indicates that no valid caller identity could be
	// established.
	//
	// Mapped to HTTP 401.
	Unauthenticated Code = "unauthenticated"

	// InvalidCredentials indicates an authentication attempt was made and
	// failed. Distinct from Unauthenticated, where no attempt succeeded at
	// all.
	//
	// Mapped to HTTP 401.
	InvalidCredentials Code = "invalid_credentials"

	// PermissionDenied indicates the caller is authenticated but lacks the
	// privilege for the target operation.
	//
	// Mapped to HTTP 403.
	PermissionDenied Code = "permission_denied"
)

// Rate / load codes.
const (
	// RateLimited indicates the caller exceeded the allowed request rate
	// for the current window. Transport adapters attach retry metadata
	// (Retry-After, RetryInfo) alongside this code.
	//
	// Mapped to HTTP 429.
	RateLimited Code = "rate_limited"
)
