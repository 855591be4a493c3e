package pipeline

import (
	"context"

	"content-backend/internal/shared/telemetry"
)

// backgroundWithRequestID detaches from the request context while keeping
// the request ID for log correlation.
func backgroundWithRequestID(ctx context.Context) context.Context {
	requestID := telemetry.RequestIDFrom(ctx)
	if requestID == "" {
		return context.Background()
	}
	return telemetry.WithRequestID(context.Background(), requestID)
}
