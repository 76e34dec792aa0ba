// Package middleware holds Connect interceptors shared by every service.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strconv"
	"time"

	"connectrpc.com/connect"
)

// VersionHeader carries the ledger version observed after a successful call.
const VersionHeader = "Ledger-Version"

// Versioner reports the current ledger version. *ledger.Ledger implements it.
type Versioner interface {
	Version() uint64
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, duration, the ledger version after the call,
// and any error codes/messages. Successful responses carry the version in
// VersionHeader.
func LoggingInterceptor(ledger Versioner) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			version := ledger.Version()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"ledger_version", version,
						"duration_ms", duration,
					)
				} else {
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"ledger_version", version,
						"duration_ms", duration,
					)
				}
			} else {
				resp.Header().Set(VersionHeader, strconv.FormatUint(version, 10))
				slog.Info("RPC ok",
					"procedure", procedure,
					"ledger_version", version,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}

// CommandRecorder counts handled commands. *metrics.Metrics implements it.
type CommandRecorder interface {
	ObserveCommand(command, result string)
}

// MetricsInterceptor counts every RPC by method name and result code.
// Successful calls are recorded as "ok".
func MetricsInterceptor(recorder CommandRecorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			resp, err := next(ctx, req)

			result := "ok"
			if err != nil {
				result = connect.CodeOf(err).String()
			}
			recorder.ObserveCommand(path.Base(req.Spec().Procedure), result)

			return resp, err
		}
	}
}
