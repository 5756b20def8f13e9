package host

import (
	"context"
	"strings"
)

const hostComponentName = "host"

type correlationKey struct{}

// WithCorrelationID tags ctx so every log line of the call can be joined with
// the request that caused it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, strings.TrimSpace(id))
}

func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return "n/a"
	}
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return "n/a"
}

func (r *Runtime) logInfo(operation, correlationID, message string, attrs ...any) {
	base := []any{
		"component", hostComponentName,
		"operation", strings.TrimSpace(operation),
		"correlation_id", strings.TrimSpace(correlationID),
	}
	r.logger.Info(message, append(base, attrs...)...)
}

func (r *Runtime) logWarn(operation, correlationID, message string, attrs ...any) {
	base := []any{
		"component", hostComponentName,
		"operation", strings.TrimSpace(operation),
		"correlation_id", strings.TrimSpace(correlationID),
	}
	r.logger.Warn(message, append(base, attrs...)...)
}

func (r *Runtime) recordErrorWithContext(category string, err error, operation, correlationID string, attrs ...any) {
	if err == nil {
		return
	}
	base := []any{
		"component", hostComponentName,
		"operation", strings.TrimSpace(operation),
		"category", strings.TrimSpace(category),
		"correlation_id", strings.TrimSpace(correlationID),
		"error", err.Error(),
	}
	r.logger.Error("contract call failed", append(base, attrs...)...)
}
