package analysis

import (
	"fmt"
	"strings"

	"content-backend/internal/llm"
)

const analysisSystemPrompt = `You are a content analysis assistant. You respond with a single JSON object and nothing else. Do not wrap the JSON in markdown fences.`

const analysisUserPromptTemplate = `Analyze the following %s content titled %q and respond with a JSON object of this exact shape:
{
  "summary": {"main": string, "keyPoints": [string]},
  "insights": [string],
  "topics": [string],
  "sentiment": {"overall": "positive"|"neutral"|"negative", "positive": number, "neutral": number, "negative": number},
  "entities": [{"name": string, "type": string}],
  "keyQuotes": [string]
}

Content:
%s`

const actionItemsSystemPrompt = `You are a content analysis assistant. You respond with a single JSON array and nothing else. Do not wrap the JSON in markdown fences.`

const actionItemsUserPromptTemplate = `Based on these insights and topics from an analyzed piece of content, suggest 3-5 prioritized action items as a JSON array of {"text": string, "priority": "high"|"medium"|"low"} objects.

Insights:
%s

Topics:
%s`

// maxPromptChars caps how much extracted text is embedded in the prompt.
const maxPromptChars = 4000

func buildAnalysisMessages(text string, in Input) []llm.Message {
	excerpt := firstChars(text, maxPromptChars)
	return []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(analysisUserPromptTemplate, in.ContentType, in.Title, excerpt)},
	}
}

func buildActionItemMessages(result Result) []llm.Message {
	insights := "- (none)"
	if len(result.Insights) > 0 {
		insights = "- " + strings.Join(result.Insights, "\n- ")
	}
	topics := "(none)"
	if len(result.Topics) > 0 {
		topics = strings.Join(result.Topics, ", ")
	}
	return []llm.Message{
		{Role: "system", Content: actionItemsSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(actionItemsUserPromptTemplate, insights, topics)},
	}
}

// firstChars truncates to at most n characters without splitting a rune.
func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// stripCodeFences removes a leading/trailing markdown code fence, which some
// models emit despite instructions.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
