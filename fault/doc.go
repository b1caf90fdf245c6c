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

// Package fault classifies failures into the two families dreq knows about
// and provides the single conversion point between them.
//
// # Taxonomy
//
// An InfraError is an unexpected failure from an external resource call
// (storage, cache, network). Its cause is preserved for server-side
// diagnostics and is never shown to clients. A domain error is an expected,
// typed business-rule violation carrying exactly the data a caller needs to
// build a response.
//
// # The boundary
//
// Every call that crosses into an external resource is wrapped by exactly
// one Guard or GuardCtx at the call site. The guard invokes the unit of
// work, returns Ok on success, and converts any failure — a returned error
// or a panic — into Err(InfraError). No other layer catches failures from
// that call. Functions above the boundary therefore never panic for
// expected failure modes: all failure is encoded in the returned Result.
//
// Domain-level checks do not go through the boundary a second time; they
// are ordinary control flow returning a domain error variant directly.
//
// # Closed domain unions
//
// A domain error union is declared per operation as a sealed interface: an
// exported interface with an unexported marker method, plus one struct per
// variant. Resolution goes through a visitor whose interface has one method
// per variant, so a union gaining a variant breaks every visitor at compile
// time instead of falling through at runtime:
//
//	type LookupError interface {
//		error
//		lookupError()
//	}
//
//	type UserNotFound struct{ Lookup string }
//	type UserSuspended struct{ Until time.Time }
//
//	func (UserNotFound) lookupError()  {}
//	func (UserSuspended) lookupError() {}
//
//	type LookupErrorVisitor[T any] interface {
//		VisitUserNotFound(UserNotFound) T
//		VisitUserSuspended(UserSuspended) T
//	}
//
// The variant structs implement a Visit dispatch against that interface;
// handlers implement the visitor once per response shape.
package fault
