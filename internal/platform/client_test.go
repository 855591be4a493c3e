package platform

import (
	"context"
	"errors"
	"testing"
)

func TestParseTimedText(t *testing.T) {
	payload := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="1.5">Hello &amp; welcome</text>
  <text start="1.5" dur="2">to the talk</text>
  <text start="3.5" dur="1">   </text>
</transcript>`)

	captions, err := ParseTimedText(payload)
	if err != nil {
		t.Fatalf("ParseTimedText: %v", err)
	}
	if len(captions) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(captions))
	}
	if captions[0].Text != "Hello & welcome" {
		t.Fatalf("entities not unescaped: %q", captions[0].Text)
	}
	if captions[1].Start != 1.5 {
		t.Fatalf("expected start 1.5, got %v", captions[1].Start)
	}
}

func TestVideoIDParsing(t *testing.T) {
	if got := youTubeVideoID("https://www.youtube.com/watch?v=abc123"); got != "abc123" {
		t.Fatalf("watch url: got %q", got)
	}
	if got := youTubeVideoID("https://youtu.be/xyz789"); got != "xyz789" {
		t.Fatalf("short url: got %q", got)
	}
	if got := bilibiliVideoID("https://www.bilibili.com/video/BV1xx411c7mD/"); got != "BV1xx411c7mD" {
		t.Fatalf("bilibili url: got %q", got)
	}
}

type countingProvider struct {
	lookups int
}

func (p *countingProvider) Lookup(ctx context.Context, rawURL string) (Metadata, error) {
	p.lookups++
	if rawURL == "https://bad" {
		return Metadata{}, errors.New("boom")
	}
	return Metadata{Title: "cached title"}, nil
}

func (p *countingProvider) FetchCaptions(ctx context.Context, track CaptionTrack) ([]Caption, error) {
	return nil, nil
}

func TestCachedProviderMemoizesLookups(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, 8)

	for i := 0; i < 3; i++ {
		meta, err := cached.Lookup(context.Background(), "https://ok")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if meta.Title != "cached title" {
			t.Fatalf("unexpected metadata: %+v", meta)
		}
	}
	if inner.lookups != 1 {
		t.Fatalf("expected one upstream lookup, got %d", inner.lookups)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, 8)

	for i := 0; i < 2; i++ {
		if _, err := cached.Lookup(context.Background(), "https://bad"); err == nil {
			t.Fatalf("expected error")
		}
	}
	if inner.lookups != 2 {
		t.Fatalf("errors must not be cached, got %d lookups", inner.lookups)
	}
}
