package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"content-backend/internal/analysis"
	"content-backend/internal/contents"
	"content-backend/internal/events"
	"content-backend/internal/extract"
	"content-backend/internal/shared/metrics"
	"content-backend/internal/shared/telemetry"
)

// Stage names in their fixed execution order.
const (
	stageInitialization    = "initialization"
	stageExtraction        = "content extraction"
	stageAnalysis          = "AI analysis"
	stageInsightGeneration = "insight generation"
)

const maxErrorMessageLen = 500

// Analyzer produces a structured analysis from extracted text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, in analysis.Input) analysis.Result
}

// Augmenter produces action items from a prior analysis.
type Augmenter interface {
	Augment(ctx context.Context, result analysis.Result, in analysis.Input) []analysis.ActionItem
}

// Processor drives one content record through extraction, analysis and
// augmentation, persisting status and progress at each checkpoint.
type Processor struct {
	Repo       contents.Repo
	Extractors extract.Set
	Analyzer   Analyzer
	Augmenter  Augmenter
	Events     events.Publisher // optional
}

// Process runs the full state machine for one record. The record is loaded
// once and owned by this run; write-back happens at stage checkpoints. There
// is no mutual exclusion against a concurrent run on the same record.
func (p *Processor) Process(ctx context.Context, contentID string) error {
	content, err := p.Repo.GetByID(ctx, contentID)
	if err != nil {
		return fmt.Errorf("load content %s: %w", contentID, err)
	}

	startedAt := time.Now().UTC()
	metrics.IncProcessingStarted()
	p.logStatus(ctx, content, contents.StatusProcessing, "")

	processing := contents.Processing{
		Status:    contents.StatusProcessing,
		Progress:  0,
		StartedAt: &startedAt,
	}
	startStage(&processing, stageInitialization)
	if err := p.Repo.UpdateProcessing(ctx, contentID, processing); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	extractor, ok := p.Extractors.ForType(content.Type)
	if !ok {
		return p.fail(ctx, content, processing, startedAt, fmt.Errorf("Unsupported content type: %s", content.Type))
	}

	extracted := extractor.Extract(ctx, content)
	content.ExtractedText = extracted.Text
	if err := p.Repo.UpdateExtraction(ctx, contentID, extracted.Text, extracted.Metadata); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	completeStage(&processing, stageInitialization)
	startStage(&processing, stageExtraction)
	completeStage(&processing, stageExtraction)
	processing.Progress = 30
	if err := p.Repo.UpdateProcessing(ctx, contentID, processing); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	startStage(&processing, stageAnalysis)
	processing.Progress = 40
	if err := p.Repo.UpdateProcessing(ctx, contentID, processing); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	in := analysis.Input{Title: content.Title, ContentType: string(content.Type)}
	result := p.Analyzer.Analyze(ctx, content.ExtractedText, in)
	if err := p.Repo.UpdateAnalysis(ctx, contentID, &result); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	completeStage(&processing, stageAnalysis)
	processing.Progress = 90
	if err := p.Repo.UpdateProcessing(ctx, contentID, processing); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	startStage(&processing, stageInsightGeneration)
	if err := p.Repo.UpdateProcessing(ctx, contentID, processing); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	result.ActionItems = p.Augmenter.Augment(ctx, result, in)
	if err := p.Repo.UpdateAnalysis(ctx, contentID, &result); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}
	completeStage(&processing, stageInsightGeneration)

	if p.cancelled(ctx, contentID) {
		p.logStatus(ctx, content, contents.StatusCancelled, "")
		return nil
	}

	completedAt := time.Now().UTC()
	processing.Status = contents.StatusCompleted
	processing.Progress = 100
	processing.CompletedAt = &completedAt
	if err := p.Repo.UpdateProcessing(ctx, contentID, processing); err != nil {
		return p.fail(ctx, content, processing, startedAt, err)
	}

	metrics.IncProcessingCompleted()
	metrics.ObserveProcessingDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	p.logStatus(ctx, content, contents.StatusCompleted, "")
	p.publish(ctx, content, contents.StatusCompleted)
	return nil
}

// fail writes the failed terminal state. Partial writes from completed
// stages stay persisted. A record cancelled while this run was in flight
// keeps its cancelled status.
func (p *Processor) fail(ctx context.Context, content contents.Content, processing contents.Processing, startedAt time.Time, cause error) error {
	if p.cancelled(ctx, content.ID) {
		p.logStatus(ctx, content, contents.StatusCancelled, "")
		return cause
	}

	completedAt := time.Now().UTC()
	processing.Status = contents.StatusFailed
	processing.ErrorMessage = sanitizeErrorMessage(cause)
	processing.CompletedAt = &completedAt

	if err := p.Repo.UpdateProcessing(ctx, content.ID, processing); err != nil {
		telemetry.Error("content.fail_write", map[string]any{
			"contentId": content.ID,
			"requestId": telemetry.RequestIDFrom(ctx),
			"error":     err.Error(),
		})
	}

	metrics.IncProcessingFailed()
	metrics.ObserveProcessingDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	p.logStatus(ctx, content, contents.StatusFailed, processing.ErrorMessage)
	p.publish(ctx, content, contents.StatusFailed)
	return cause
}

// cancelled re-reads the record before a terminal write so an explicit user
// cancel is not silently overwritten by this run's outcome.
func (p *Processor) cancelled(ctx context.Context, contentID string) bool {
	current, err := p.Repo.GetByID(ctx, contentID)
	if err != nil {
		if !errors.Is(err, contents.ErrNotFound) {
			telemetry.Warn("content.cancel_check", map[string]any{"contentId": contentID, "error": err.Error()})
		}
		return false
	}
	return current.Processing.Status == contents.StatusCancelled
}

func (p *Processor) publish(ctx context.Context, content contents.Content, status contents.Status) {
	if p.Events == nil {
		return
	}
	event := events.Event{
		ContentID:  content.ID,
		UserID:     content.UserID,
		Status:     string(status),
		RequestID:  telemetry.RequestIDFrom(ctx),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Version:    events.EventVersion,
	}
	if err := p.Events.Publish(ctx, event); err != nil {
		telemetry.Warn("content.event_publish", map[string]any{"contentId": content.ID, "error": err.Error()})
	}
}

func (p *Processor) logStatus(ctx context.Context, content contents.Content, status contents.Status, errorMessage string) {
	fields := map[string]any{
		"contentId": content.ID,
		"userId":    content.UserID,
		"type":      string(content.Type),
		"status":    string(status),
	}
	if requestID := telemetry.RequestIDFrom(ctx); requestID != "" {
		fields["requestId"] = requestID
	}
	if errorMessage != "" {
		fields["error"] = errorMessage
	}
	telemetry.Info("content.status", fields)
}

func startStage(processing *contents.Processing, name string) {
	now := time.Now().UTC()
	processing.Stages = append(processing.Stages, contents.Stage{
		Name:      name,
		Status:    contents.StatusProcessing,
		Progress:  0,
		StartedAt: &now,
	})
}

func completeStage(processing *contents.Processing, name string) {
	now := time.Now().UTC()
	for i := range processing.Stages {
		if processing.Stages[i].Name == name {
			processing.Stages[i].Status = contents.StatusCompleted
			processing.Stages[i].Progress = 100
			processing.Stages[i].CompletedAt = &now
			return
		}
	}
}

// sanitizeErrorMessage flattens and caps the persisted error text. The UI
// displays it verbatim.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	return msg
}
