package extract

import (
	"context"
	"strings"

	"content-backend/internal/contents"
	"content-backend/internal/platform"
	"content-backend/internal/shared/telemetry"
)

// VideoExtractor pulls metadata and captions for platform-hosted videos.
// Direct uploads carry no transcript, so their text is the user's own
// title and description.
type VideoExtractor struct {
	Provider platform.Provider
}

func NewVideoExtractor(provider platform.Provider) *VideoExtractor {
	return &VideoExtractor{Provider: provider}
}

func (e *VideoExtractor) Extract(ctx context.Context, content contents.Content) Result {
	switch content.Origin {
	case contents.OriginYouTube, contents.OriginBilibili, contents.OriginVimeo:
		return e.extractRemote(ctx, content)
	default:
		return Result{Text: fallbackText(content)}
	}
}

func (e *VideoExtractor) extractRemote(ctx context.Context, content contents.Content) Result {
	if e.Provider == nil {
		return Result{Text: fallbackText(content)}
	}

	meta, err := e.Provider.Lookup(ctx, content.SourceURL)
	if err != nil {
		telemetry.Warn("video.lookup", map[string]any{"contentId": content.ID, "error": err.Error()})
		return Result{Text: fallbackText(content)}
	}

	md := map[string]any{}
	if meta.Title != "" {
		md["platformTitle"] = meta.Title
	}
	if meta.DurationSeconds > 0 {
		md["durationSeconds"] = meta.DurationSeconds
	}
	if meta.ViewCount > 0 {
		md["viewCount"] = meta.ViewCount
	}
	if meta.PublishDate != "" {
		md["publishDate"] = meta.PublishDate
	}

	if text := e.captionText(ctx, content.ID, meta.CaptionTracks); text != "" {
		md["transcriptSource"] = "captions"
		return Result{Text: text, Metadata: md}
	}

	if desc := strings.TrimSpace(meta.Description); desc != "" {
		md["transcriptSource"] = "description"
		return Result{Text: desc, Metadata: md}
	}
	return Result{Text: fallbackText(content), Metadata: md}
}

// captionText fetches the first usable caption track and joins its cues.
func (e *VideoExtractor) captionText(ctx context.Context, contentID string, tracks []platform.CaptionTrack) string {
	for _, track := range tracks {
		captions, err := e.Provider.FetchCaptions(ctx, track)
		if err != nil {
			telemetry.Warn("video.captions", map[string]any{"contentId": contentID, "error": err.Error()})
			continue
		}
		if len(captions) == 0 {
			continue
		}
		lines := make([]string, 0, len(captions))
		for _, c := range captions {
			lines = append(lines, c.Text)
		}
		return strings.Join(lines, " ")
	}
	return ""
}

var _ Extractor = (*VideoExtractor)(nil)
