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

// Package grpcx adapts the dreq request lifecycle to gRPC unary servers.
//
// StatusFromAppError projects an *apperr.Error into a gRPC status with a
// machine-readable errdetails.ErrorInfo attached, mirroring the JSON
// envelope of the httpx package. The interceptors carry the same
// lifecycle and rate-limiting semantics as their HTTP counterparts.
package grpcx

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gcodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"dirpx.dev/dreq"
	"dirpx.dev/dreq/apperr"
	"dirpx.dev/dreq/ratelimit"
)

// Domain identifies this module in errdetails.ErrorInfo payloads.
const Domain = "dirpx.dev/dreq"

// statusByCode maps HTTP status families onto gRPC codes. Only the
// statuses apperr can produce appear here.
var statusByCode = map[int]gcodes.Code{
	http.StatusBadRequest:          gcodes.InvalidArgument,
	http.StatusUnauthorized:        gcodes.Unauthenticated,
	http.StatusForbidden:           gcodes.PermissionDenied,
	http.StatusNotFound:            gcodes.NotFound,
	http.StatusConflict:            gcodes.AlreadyExists,
	http.StatusTooManyRequests:     gcodes.ResourceExhausted,
	http.StatusGatewayTimeout:      gcodes.DeadlineExceeded,
	http.StatusServiceUnavailable:  gcodes.Unavailable,
	http.StatusInternalServerError: gcodes.Internal,
}

// GRPCCode returns the gRPC code for an apperr HTTP status, falling back
// to Internal for anything unmapped.
func GRPCCode(httpStatus int) gcodes.Code {
	if c, ok := statusByCode[httpStatus]; ok {
		return c
	}
	return gcodes.Internal
}

// StatusFromAppError converts an *apperr.Error into a *gstatus.Status
// carrying an errdetails.ErrorInfo: the stable code in Reason, this
// module in Domain, the error details flattened to string metadata.
func StatusFromAppError(e *apperr.Error) *gstatus.Status {
	base := gstatus.New(GRPCCode(e.Status), e.Message)

	info := &errdetails.ErrorInfo{
		Reason:   string(e.Code),
		Domain:   Domain,
		Metadata: stringify(e.Details),
	}
	if with, err := base.WithDetails(info); err == nil {
		return with
	}
	return base
}

func stringify(details map[string]any) map[string]string {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]string, len(details))
	for k, v := range details {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// ErrorToStatus normalizes a non-nil handler error for the wire.
// Errors that already carry a gRPC status pass through untouched;
// everything else goes through apperr.FromError, so infrastructure
// failures surface as a generic Internal status.
func ErrorToStatus(err error) *gstatus.Status {
	type grpcError interface{ GRPCStatus() *gstatus.Status }
	if se, ok := err.(grpcError); ok {
		return se.GRPCStatus()
	}
	return StatusFromAppError(apperr.FromError(err))
}

// PeerKey derives the rate-limiting key for an RPC from the transport
// peer, "unknown" when no peer is attached to the context.
func PeerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err == nil && host != "" {
		return host
	}
	return p.Addr.String()
}

// RateLimitUnaryInterceptor enforces lim per peer. Denied RPCs fail
// with ResourceExhausted and an errdetails.RetryInfo hint carrying the
// window reset delay.
func RateLimitUnaryInterceptor(lim *ratelimit.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		dec := lim.Check(ctx, PeerKey(ctx), "POST", info.FullMethod)
		if dec.Allowed {
			return handler(ctx, req)
		}

		dreq.Enrich(ctx, dreq.Fields{"rate_limited": true})

		base := gstatus.New(gcodes.ResourceExhausted, "Too many requests")
		retry := &errdetails.RetryInfo{RetryDelay: durationpb.New(dec.RetryAfter)}
		if with, err := base.WithDetails(retry); err == nil {
			return nil, with.Err()
		}
		return nil, base.Err()
	}
}

// LifecycleUnaryInterceptor opens a wide event per RPC and finalizes it
// on every exit path. The status_code field carries the HTTP projection
// of the RPC outcome so events from both transports aggregate together.
// Panics are recovered and answered with an Internal status.
func LifecycleUnaryInterceptor(rec *dreq.Recorder) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		ev := rec.Open(dreq.Fields{
			dreq.FieldMethod:   "POST",
			dreq.FieldPath:     info.FullMethod,
			dreq.FieldClientIP: PeerKey(ctx),
		})
		ctx = dreq.NewContext(ctx, ev)

		defer func() {
			if v := recover(); v != nil {
				rec.Finish(ctx, ev, http.StatusInternalServerError, v)
				resp, err = nil, gstatus.Error(gcodes.Internal, "service unavailable")
				return
			}
			rec.Finish(ctx, ev, httpStatus(err), nil)
		}()

		resp, err = handler(ctx, req)
		if err != nil {
			err = ErrorToStatus(err).Err()
		}
		return resp, err
	}
}

// httpStatus projects an RPC outcome onto the HTTP status recorded in
// the wide event.
func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch gstatus.Code(err) {
	case gcodes.OK:
		return http.StatusOK
	case gcodes.InvalidArgument:
		return http.StatusBadRequest
	case gcodes.Unauthenticated:
		return http.StatusUnauthorized
	case gcodes.PermissionDenied:
		return http.StatusForbidden
	case gcodes.NotFound:
		return http.StatusNotFound
	case gcodes.AlreadyExists, gcodes.Aborted:
		return http.StatusConflict
	case gcodes.ResourceExhausted:
		return http.StatusTooManyRequests
	case gcodes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case gcodes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
