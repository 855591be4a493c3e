package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"content-backend/internal/contents"
)

func TestWebExtractorReadsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>T</title></head><body>Hello world</body></html>"))
	}))
	defer srv.Close()

	extractor := NewWebExtractor()
	result := extractor.Extract(context.Background(), contents.Content{
		ID:        "c1",
		Type:      contents.TypeWeb,
		SourceURL: srv.URL,
	})

	if !strings.Contains(result.Text, "Hello world") {
		t.Fatalf("expected extracted text to contain page body, got %q", result.Text)
	}
	if got := result.Metadata["title"]; got != "T" {
		t.Fatalf("expected metadata title T, got %v", got)
	}
	if got := result.Metadata["wordCount"]; got != 2 {
		t.Fatalf("expected wordCount 2, got %v", got)
	}
}

func TestWebExtractorPrefersArticleContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<nav>Navigation junk</nav>
<script>var x = 1;</script>
<main>The real article text</main>
<footer>Footer junk</footer>
</body></html>`))
	}))
	defer srv.Close()

	extractor := NewWebExtractor()
	result := extractor.Extract(context.Background(), contents.Content{SourceURL: srv.URL})

	if result.Text != "The real article text" {
		t.Fatalf("expected main text only, got %q", result.Text)
	}
}

func TestWebExtractorFallbackOnFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	extractor := NewWebExtractor()
	result := extractor.Extract(context.Background(), contents.Content{
		SourceURL:   srv.URL,
		Title:       "Saved page",
		Description: "A page I saved earlier",
	})

	if result.Text != "A page I saved earlier" {
		t.Fatalf("expected description fallback, got %q", result.Text)
	}
}

func TestWebExtractorSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	NewWebExtractor().Extract(context.Background(), contents.Content{SourceURL: srv.URL})

	if gotUA != webUserAgent {
		t.Fatalf("expected fixed user agent, got %q", gotUA)
	}
}
