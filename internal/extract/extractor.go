package extract

import (
	"context"
	"fmt"
	"strings"

	"content-backend/internal/contents"
)

// Result is what an extractor produced: the text handed to analysis plus
// whatever metadata the source exposed.
type Result struct {
	Text     string
	Metadata map[string]any
}

// Extractor turns a content record into analyzable text. Implementations
// never return an error; on any internal failure they substitute text built
// from the record's own description or title.
type Extractor interface {
	Extract(ctx context.Context, content contents.Content) Result
}

// Set holds one extractor per supported content type.
type Set struct {
	Video    Extractor
	Document Extractor
	Web      Extractor
	Image    Extractor
}

// ForType resolves the extractor for a content type. The second return is
// false for types with no extractor, such as audio.
func (s Set) ForType(t contents.Type) (Extractor, bool) {
	switch t {
	case contents.TypeVideo:
		return s.Video, s.Video != nil
	case contents.TypeDocument:
		return s.Document, s.Document != nil
	case contents.TypeWeb:
		return s.Web, s.Web != nil
	case contents.TypeImage:
		return s.Image, s.Image != nil
	default:
		return nil, false
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// fallbackText builds extraction text from the record itself. Description
// wins over title; a record with neither still yields usable text.
func fallbackText(content contents.Content) string {
	if desc := strings.TrimSpace(content.Description); desc != "" {
		return desc
	}
	if title := strings.TrimSpace(content.Title); title != "" {
		return fmt.Sprintf("Content titled %q", title)
	}
	return "Untitled content"
}
