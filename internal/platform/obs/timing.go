package obs

import (
	"context"
	"log/slog"
	"time"

	"transit-reachability-service/internal/logging"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID tags ctx so that timed operations can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Time logs the duration of an operation when the returned func is deferred.
//
//	defer obs.Time(ctx, "transport.ReachableFrom")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn("operation failed",
				slog.String("req_id", reqID),
				slog.String("op", name),
				slog.Int64("dur_ms", dur.Milliseconds()),
				slog.String("error", (*errp).Error()))
			return
		}
		logger.Debug("operation completed",
			slog.String("req_id", reqID),
			slog.String("op", name),
			slog.Int64("dur_ms", dur.Milliseconds()))
	}
}
