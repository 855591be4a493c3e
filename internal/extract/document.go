package extract

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"content-backend/internal/contents"
	"content-backend/internal/shared/storage/object"
	"content-backend/internal/shared/telemetry"
)

// maxDocumentBytes caps how much of a document is read into memory.
const maxDocumentBytes = 10 << 20

// DocumentExtractor reads plain-text documents verbatim. PDFs are not
// parsed for text; the page count is recorded as metadata and the analysis
// text falls back to the record's title and description.
type DocumentExtractor struct {
	Store object.ObjectStore
}

func NewDocumentExtractor(store object.ObjectStore) *DocumentExtractor {
	return &DocumentExtractor{Store: store}
}

func (e *DocumentExtractor) Extract(ctx context.Context, content contents.Content) Result {
	name := strings.ToLower(content.OriginalFilename)
	switch {
	case hasAnySuffix(name, ".txt", ".md", ".markdown"):
		return e.extractPlainText(ctx, content)
	case strings.HasSuffix(name, ".pdf"):
		return e.extractPDF(ctx, content)
	default:
		return Result{Text: fallbackText(content)}
	}
}

func (e *DocumentExtractor) extractPlainText(ctx context.Context, content contents.Content) Result {
	data, err := e.readFile(ctx, content)
	if err != nil {
		telemetry.Warn("document.read", map[string]any{"contentId": content.ID, "error": err.Error()})
		return Result{Text: fallbackText(content)}
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return Result{Text: fallbackText(content)}
	}
	return Result{
		Text:     text,
		Metadata: map[string]any{"characterCount": len(text)},
	}
}

func (e *DocumentExtractor) extractPDF(ctx context.Context, content contents.Content) Result {
	data, err := e.readFile(ctx, content)
	if err != nil {
		telemetry.Warn("document.read", map[string]any{"contentId": content.ID, "error": err.Error()})
		return Result{Text: fallbackText(content)}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		telemetry.Warn("document.pdf", map[string]any{"contentId": content.ID, "error": err.Error()})
		return Result{Text: fallbackText(content)}
	}
	return Result{
		Text:     fallbackText(content),
		Metadata: map[string]any{"pageCount": reader.NumPage()},
	}
}

// readFile prefers the local copy and falls back to the object store.
func (e *DocumentExtractor) readFile(ctx context.Context, content contents.Content) ([]byte, error) {
	if content.LocalPath != "" {
		f, err := os.Open(content.LocalPath)
		if err == nil {
			defer f.Close()
			return io.ReadAll(io.LimitReader(f, maxDocumentBytes))
		}
		if e.Store == nil || content.StorageKey == "" {
			return nil, err
		}
	}
	if e.Store != nil && content.StorageKey != "" {
		rc, err := e.Store.Open(ctx, content.StorageKey)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxDocumentBytes))
	}
	return os.ReadFile(content.LocalPath)
}

var _ Extractor = (*DocumentExtractor)(nil)
