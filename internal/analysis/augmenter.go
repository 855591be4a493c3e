package analysis

import (
	"context"
	"encoding/json"

	"content-backend/internal/llm"
	"content-backend/internal/shared/telemetry"
)

const actionItemsMaxTokens = 1000

// Augmenter produces prioritized action items from a prior analysis with a
// second chat-completion call. Like the Analyzer it never returns an error;
// any failure yields fixed fallback items. No retry.
type Augmenter struct {
	LLM   llm.Client
	Model string
}

// Augment asks for 3-5 action items seeded with the analysis insights and
// topics.
func (g *Augmenter) Augment(ctx context.Context, result Result, in Input) []ActionItem {
	if g.LLM == nil {
		return fallbackActionItems()
	}

	raw, err := g.LLM.Complete(ctx, llm.ChatRequest{
		Model:       g.Model,
		Messages:    buildActionItemMessages(result),
		Temperature: analysisTemperature,
		MaxTokens:   actionItemsMaxTokens,
	})
	if err != nil {
		telemetry.Warn("augment.llm_failed", map[string]any{
			"content_type": in.ContentType,
			"error":        err.Error(),
		})
		return fallbackActionItems()
	}

	var items []ActionItem
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil || len(items) == 0 {
		telemetry.Warn("augment.parse_failed", map[string]any{
			"content_type": in.ContentType,
		})
		return fallbackActionItems()
	}
	return items
}

func fallbackActionItems() []ActionItem {
	return []ActionItem{
		{Text: "Review the analyzed content and verify the key insights", Priority: "high"},
		{Text: "Share the summary with relevant stakeholders", Priority: "medium"},
	}
}
