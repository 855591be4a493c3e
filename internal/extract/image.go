package extract

import (
	"context"

	"content-backend/internal/contents"
)

// ImageExtractor produces text from the record's own fields. No OCR.
type ImageExtractor struct{}

func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

func (e *ImageExtractor) Extract(ctx context.Context, content contents.Content) Result {
	return Result{Text: fallbackText(content)}
}

var _ Extractor = (*ImageExtractor)(nil)
