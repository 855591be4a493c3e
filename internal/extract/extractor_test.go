package extract

import (
	"context"
	"errors"
	"testing"

	"content-backend/internal/contents"
	"content-backend/internal/platform"
)

type failingProvider struct{}

func (failingProvider) Lookup(ctx context.Context, rawURL string) (platform.Metadata, error) {
	return platform.Metadata{}, errors.New("network down")
}

func (failingProvider) FetchCaptions(ctx context.Context, track platform.CaptionTrack) ([]platform.Caption, error) {
	return nil, errors.New("network down")
}

// Every extractor must produce non-empty text when the record has a title
// or description, whatever goes wrong internally.
func TestExtractorsNeverReturnEmptyText(t *testing.T) {
	record := contents.Content{
		ID:          "c1",
		Title:       "A title",
		Description: "A description",
		Origin:      contents.OriginYouTube,
		SourceURL:   "https://www.youtube.com/watch?v=x",
	}

	extractors := map[string]Extractor{
		"video":    NewVideoExtractor(failingProvider{}),
		"document": NewDocumentExtractor(nil),
		"image":    NewImageExtractor(),
	}

	for name, extractor := range extractors {
		result := extractor.Extract(context.Background(), record)
		if result.Text == "" {
			t.Fatalf("%s extractor returned empty text", name)
		}
	}
}

func TestFallbackTextPrefersDescription(t *testing.T) {
	got := fallbackText(contents.Content{Title: "T", Description: "D"})
	if got != "D" {
		t.Fatalf("expected description, got %q", got)
	}

	got = fallbackText(contents.Content{Title: "Only title"})
	if got != `Content titled "Only title"` {
		t.Fatalf("unexpected title fallback: %q", got)
	}

	if fallbackText(contents.Content{}) == "" {
		t.Fatalf("empty record must still yield text")
	}
}

func TestSetForType(t *testing.T) {
	set := Set{
		Video:    NewImageExtractor(),
		Document: NewImageExtractor(),
		Web:      NewImageExtractor(),
		Image:    NewImageExtractor(),
	}

	for _, typ := range []contents.Type{contents.TypeVideo, contents.TypeDocument, contents.TypeWeb, contents.TypeImage} {
		if _, ok := set.ForType(typ); !ok {
			t.Fatalf("expected extractor for %s", typ)
		}
	}
	if _, ok := set.ForType(contents.TypeAudio); ok {
		t.Fatalf("audio must have no extractor")
	}
}

type stubProvider struct {
	meta     platform.Metadata
	captions []platform.Caption
}

func (s stubProvider) Lookup(ctx context.Context, rawURL string) (platform.Metadata, error) {
	return s.meta, nil
}

func (s stubProvider) FetchCaptions(ctx context.Context, track platform.CaptionTrack) ([]platform.Caption, error) {
	return s.captions, nil
}

func TestVideoExtractorJoinsCaptions(t *testing.T) {
	provider := stubProvider{
		meta: platform.Metadata{
			Title:           "Talk",
			DurationSeconds: 90,
			CaptionTracks:   []platform.CaptionTrack{{Language: "en", URL: "http://captions"}},
		},
		captions: []platform.Caption{{Start: 0, Text: "hello"}, {Start: 1.5, Text: "world"}},
	}

	result := NewVideoExtractor(provider).Extract(context.Background(), contents.Content{
		Origin:    contents.OriginYouTube,
		SourceURL: "https://youtu.be/x",
	})

	if result.Text != "hello world" {
		t.Fatalf("expected joined captions, got %q", result.Text)
	}
	if got := result.Metadata["durationSeconds"]; got != 90 {
		t.Fatalf("expected durationSeconds 90, got %v", got)
	}
}

func TestVideoExtractorDescriptionWhenNoCaptions(t *testing.T) {
	provider := stubProvider{
		meta: platform.Metadata{Title: "Talk", Description: "About things"},
	}

	result := NewVideoExtractor(provider).Extract(context.Background(), contents.Content{
		Origin:    contents.OriginVimeo,
		SourceURL: "https://vimeo.com/1",
	})

	if result.Text != "About things" {
		t.Fatalf("expected platform description, got %q", result.Text)
	}
}

func TestVideoExtractorUploadUsesOwnFields(t *testing.T) {
	result := NewVideoExtractor(stubProvider{}).Extract(context.Background(), contents.Content{
		Origin:      contents.OriginUpload,
		Description: "My clip",
	})

	if result.Text != "My clip" {
		t.Fatalf("uploaded video must not hit the provider, got %q", result.Text)
	}
}
