package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"content-backend/internal/contents"
)

func TestDocumentExtractorReadsPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("meeting notes body\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	extractor := NewDocumentExtractor(nil)
	result := extractor.Extract(context.Background(), contents.Content{
		ID:               "c1",
		OriginalFilename: "notes.txt",
		LocalPath:        path,
	})

	if result.Text != "meeting notes body" {
		t.Fatalf("expected verbatim file text, got %q", result.Text)
	}
	if got := result.Metadata["characterCount"]; got != len("meeting notes body") {
		t.Fatalf("unexpected characterCount: %v", got)
	}
}

func TestDocumentExtractorFallbackForOtherFormats(t *testing.T) {
	extractor := NewDocumentExtractor(nil)
	result := extractor.Extract(context.Background(), contents.Content{
		OriginalFilename: "report.docx",
		Title:            "Quarterly report",
		Description:      "Q3 numbers and commentary",
	})

	if result.Text != "Q3 numbers and commentary" {
		t.Fatalf("expected description fallback, got %q", result.Text)
	}
}

func TestDocumentExtractorFallbackOnMissingFile(t *testing.T) {
	extractor := NewDocumentExtractor(nil)
	result := extractor.Extract(context.Background(), contents.Content{
		OriginalFilename: "gone.txt",
		LocalPath:        filepath.Join(t.TempDir(), "gone.txt"),
		Title:            "Lost file",
	})

	if result.Text == "" {
		t.Fatalf("fallback text must not be empty")
	}
}
