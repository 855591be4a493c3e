package platform

import "context"

// CaptionTrack points at a timed-text track for a remote video.
type CaptionTrack struct {
	Language string `json:"language"`
	URL      string `json:"url"`
}

// Caption is one timed-text cue.
type Caption struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// Metadata is what a streaming platform reports about a video.
type Metadata struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DurationSeconds int            `json:"durationSeconds"`
	ViewCount       int64          `json:"viewCount"`
	PublishDate     string         `json:"publishDate"`
	CaptionTracks   []CaptionTrack `json:"captionTracks,omitempty"`
}

// Provider fetches remote video metadata and caption tracks.
type Provider interface {
	Lookup(ctx context.Context, rawURL string) (Metadata, error)
	FetchCaptions(ctx context.Context, track CaptionTrack) ([]Caption, error)
}
