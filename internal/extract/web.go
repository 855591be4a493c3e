package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"content-backend/internal/contents"
	"content-backend/internal/shared/telemetry"
)

const (
	webFetchTimeout = 15 * time.Second
	webUserAgent    = "content-backend/1.0 (+content analysis service)"
)

// WebExtractor fetches a page and reduces it to readable article text.
type WebExtractor struct {
	httpClient *http.Client
}

func NewWebExtractor() *WebExtractor {
	return &WebExtractor{
		httpClient: &http.Client{Timeout: webFetchTimeout},
	}
}

func (e *WebExtractor) Extract(ctx context.Context, content contents.Content) Result {
	doc, err := e.fetch(ctx, content.SourceURL)
	if err != nil {
		telemetry.Warn("web.fetch", map[string]any{"contentId": content.ID, "url": content.SourceURL, "error": err.Error()})
		return Result{Text: fallbackText(content)}
	}

	doc.Find("script, style, nav, footer").Remove()

	text := collapseWhitespace(selectMainText(doc))
	if text == "" {
		return Result{Text: fallbackText(content)}
	}

	md := map[string]any{"wordCount": len(strings.Fields(text))}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		md["title"] = title
	}
	return Result{Text: text, Metadata: md}
}

func (e *WebExtractor) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// selectMainText prefers article containers over the raw body.
func selectMainText(doc *goquery.Document) string {
	for _, selector := range []string{"main", "article", ".content", "#content"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return strings.TrimSpace(doc.Find("body").Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ Extractor = (*WebExtractor)(nil)
