package pipeline

import (
	"context"
	"fmt"

	"content-backend/internal/shared/telemetry"
)

// Runner is the unit of work the executor schedules.
type Runner interface {
	Process(ctx context.Context, contentID string) error
}

// Executor runs processing tasks detached from the request. One goroutine
// per submission; no pool, no limit, no queue. The HTTP handler returns
// before the run finishes and callers poll the status endpoint for the
// outcome.
type Executor struct {
	Runner Runner
}

// NewExecutor constructs an Executor.
func NewExecutor(runner Runner) *Executor {
	return &Executor{Runner: runner}
}

// Submit schedules a processing run for a content ID. The request ID is
// carried over for log correlation; the request context itself is not, so
// a client disconnect never aborts the run.
func (e *Executor) Submit(ctx context.Context, contentID string) {
	go e.run(backgroundWithRequestID(ctx), contentID)
}

func (e *Executor) run(ctx context.Context, contentID string) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("content.process_panic", map[string]any{
				"contentId": contentID,
				"requestId": telemetry.RequestIDFrom(ctx),
				"panic":     fmt.Sprintf("%v", r),
			})
		}
	}()

	if err := e.Runner.Process(ctx, contentID); err != nil {
		telemetry.Error("content.process_failed", map[string]any{
			"contentId": contentID,
			"requestId": telemetry.RequestIDFrom(ctx),
			"error":     err.Error(),
		})
	}
}
