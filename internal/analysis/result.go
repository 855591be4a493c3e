package analysis

// Summary is the headline portion of an analysis.
type Summary struct {
	Main      string   `json:"main"`
	KeyPoints []string `json:"keyPoints"`
}

// Sentiment is the overall tone with a percentage breakdown.
type Sentiment struct {
	Overall  string `json:"overall"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

// Entity is a named thing the model found in the content.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ActionItem is a suggested follow-up produced by the augmenter.
type ActionItem struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// Result is the structured analysis persisted on a content record.
// ActionItems is filled by the augmenter in a second pass and stays
// empty when that pass has not run.
type Result struct {
	Summary     Summary      `json:"summary"`
	Insights    []string     `json:"insights"`
	Topics      []string     `json:"topics"`
	Sentiment   Sentiment    `json:"sentiment"`
	Entities    []Entity     `json:"entities"`
	KeyQuotes   []string     `json:"keyQuotes"`
	ActionItems []ActionItem `json:"actionItems,omitempty"`
	Confidence  int          `json:"confidence"`
}

// Input carries the content fields the prompts embed.
type Input struct {
	Title       string
	ContentType string
}
