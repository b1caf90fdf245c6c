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

package result

import (
	"context"
	"errors"
	"fmt"
)

// Result is a two-state outcome value: it holds either a success value of
// type T or an error, never both.
//
// A Result is immutable once constructed. Every combinator in this package
// (Map, AndThen, ...) returns a new Result and never modifies its input, so
// Result values can be freely shared, stored, and passed across goroutines.
//
// Results are in-process values only: they are created by a fallible
// operation, consumed by the immediate caller (usually via Match), and never
// persisted or sent over the wire.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// ErrNoValue is the error reported by a zero-value Result.
//
// The zero value of Result[T] deliberately behaves as a failure: a Result
// that was never constructed through Ok or Err must not masquerade as a
// success carrying T's zero value.
var ErrNoValue = errors.New("result: no value")

// Ok constructs a success Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Err constructs a failure Result holding err.
//
// Passing a nil error is a programming mistake — a failure without a cause
// is meaningless — and panics immediately rather than producing a Result
// that would silently report ErrNoValue later.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result: Err called with nil error")
	}
	return Result[T]{err: err}
}

// IsOk reports whether r holds a success value.
func (r Result[T]) IsOk() bool { return r.ok }

// IsErr reports whether r holds an error.
func (r Result[T]) IsErr() bool { return !r.ok }

// Value returns the success value and true, or T's zero value and false
// when r is a failure.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Err returns the error held by a failure Result, or nil for a success.
// A zero-value Result reports ErrNoValue.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return ErrNoValue
	}
	return r.err
}

// MustValue returns the success value or panics with the held error.
//
// This is the only partial operation in the package. It is reserved for
// call sites where failure is statically impossible and for test code;
// boundary code must resolve Results through Match instead.
func (r Result[T]) MustValue() T {
	if !r.ok {
		panic(fmt.Sprintf("result: MustValue on failure: %v", r.Err()))
	}
	return r.value
}

// Map transforms the success value of r with fn.
//
// On failure, the original error is carried into the new Result and fn is
// never invoked.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Result[U]{err: r.Err()}
	}
	return Ok(fn(r.value))
}

// AndThen chains a fallible continuation onto r.
//
// On success, the outcome is fn(value) — including whatever failure fn
// itself produces. On failure, the original error short-circuits and fn is
// never invoked.
func AndThen[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if !r.ok {
		return Result[U]{err: r.Err()}
	}
	return fn(r.value)
}

// AndThenCtx is AndThen for continuations that perform context-aware work
// (I/O, RPCs). The continuation runs only after r is known to be a success,
// and only while ctx is still live; an already-cancelled context
// short-circuits into a failure carrying ctx.Err().
func AndThenCtx[T, U any](ctx context.Context, r Result[T], fn func(context.Context, T) Result[U]) Result[U] {
	if !r.ok {
		return Result[U]{err: r.Err()}
	}
	if err := ctx.Err(); err != nil {
		return Err[U](err)
	}
	return fn(ctx, r.value)
}

// Match resolves r into a plain value by invoking exactly one of the two
// arms: onOk for a success, onErr for a failure. Neither arm may be nil.
//
// Match is the sanctioned way to leave Result space at a system boundary
// (building a response, logging an outcome). Both arms must be provided;
// there is no default.
func Match[T, U any](r Result[T], onOk func(T) U, onErr func(error) U) U {
	if r.ok {
		return onOk(r.value)
	}
	return onErr(r.Err())
}
