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
	"context"
	"time"

	"dirpx.dev/dreq/result"
)

// Guard is the infrastructure boundary: the one place a failing external
// call is converted into a typed Result.
//
// It invokes work and returns Ok with the value unchanged on success. A
// returned error becomes Err(InfraError(msg, err)); a panic is recovered
// and becomes Err(InfraError(msg, PanicError)). An error that is already
// an *InfraError is preserved as-is rather than wrapped a second time.
//
// The boundary never retries.
func Guard[T any](msg string, work func() (T, error)) (res result.Result[T]) {
	defer func() {
		if v := recover(); v != nil {
			res = result.Err[T](Infra(msg, &PanicError{Value: v}))
		}
	}()

	v, err := work()
	if err != nil {
		return result.Err[T](wrap(msg, err))
	}
	return result.Ok(v)
}

// GuardCtx is Guard for context-aware units of work, attaching an explicit
// per-call deadline instead of relying on the resource's own behavior.
//
// When timeout > 0 the work runs under a child context that expires after
// timeout; a deadline hit surfaces as Err(InfraError) whose chain contains
// context.DeadlineExceeded. With timeout == 0 the caller's context is
// passed through unchanged.
func GuardCtx[T any](ctx context.Context, msg string, timeout time.Duration, work func(context.Context) (T, error)) (res result.Result[T]) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if v := recover(); v != nil {
			res = result.Err[T](Infra(msg, &PanicError{Value: v}))
		}
	}()

	v, err := work(ctx)
	if err != nil {
		return result.Err[T](wrap(msg, err))
	}
	return result.Ok(v)
}

// wrap converts a unit-of-work error into an *InfraError, avoiding double
// wrapping when the callee already crossed a nested boundary.
func wrap(msg string, err error) error {
	if _, ok := AsInfra(err); ok {
		return err
	}
	return Infra(msg, err)
}
