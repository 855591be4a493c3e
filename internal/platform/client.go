package platform

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	lookupTimeout = 10 * time.Second
	userAgent     = "content-backend/1.0 (+content analysis service)"
)

// HTTPProvider fetches video metadata from YouTube, Bilibili and Vimeo over
// their public endpoints.
type HTTPProvider struct {
	httpClient *http.Client
}

// NewHTTPProvider constructs a provider with the fixed lookup timeout.
func NewHTTPProvider() *HTTPProvider {
	return &HTTPProvider{
		httpClient: &http.Client{Timeout: lookupTimeout},
	}
}

// Lookup resolves platform metadata for a video URL.
func (p *HTTPProvider) Lookup(ctx context.Context, rawURL string) (Metadata, error) {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return p.lookupYouTube(ctx, rawURL)
	case strings.Contains(lower, "bilibili.com"):
		return p.lookupBilibili(ctx, rawURL)
	case strings.Contains(lower, "vimeo.com"):
		return p.lookupVimeo(ctx, rawURL)
	default:
		return Metadata{}, fmt.Errorf("unsupported video platform: %s", rawURL)
	}
}

func (p *HTTPProvider) lookupYouTube(ctx context.Context, rawURL string) (Metadata, error) {
	oembedURL := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(rawURL)
	var oembed struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := p.getJSON(ctx, oembedURL, &oembed); err != nil {
		return Metadata{}, fmt.Errorf("youtube oembed: %w", err)
	}

	meta := Metadata{
		Title:       oembed.Title,
		Description: oembed.AuthorName,
	}

	if videoID := youTubeVideoID(rawURL); videoID != "" {
		meta.CaptionTracks = p.listYouTubeTracks(ctx, videoID)
	}
	return meta, nil
}

// listYouTubeTracks queries the timedtext track list. Absence of tracks is
// normal and not an error.
func (p *HTTPProvider) listYouTubeTracks(ctx context.Context, videoID string) []CaptionTrack {
	listURL := "https://video.google.com/timedtext?type=list&v=" + url.QueryEscape(videoID)
	body, err := p.get(ctx, listURL)
	if err != nil {
		return nil
	}

	var list struct {
		Tracks []struct {
			LangCode string `xml:"lang_code,attr"`
		} `xml:"track"`
	}
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil
	}

	tracks := make([]CaptionTrack, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		tracks = append(tracks, CaptionTrack{
			Language: t.LangCode,
			URL:      "https://video.google.com/timedtext?lang=" + url.QueryEscape(t.LangCode) + "&v=" + url.QueryEscape(videoID),
		})
	}
	return tracks
}

func (p *HTTPProvider) lookupBilibili(ctx context.Context, rawURL string) (Metadata, error) {
	bvid := bilibiliVideoID(rawURL)
	if bvid == "" {
		return Metadata{}, fmt.Errorf("bilibili url missing video id: %s", rawURL)
	}

	apiURL := "https://api.bilibili.com/x/web-interface/view?bvid=" + url.QueryEscape(bvid)
	var resp struct {
		Code int `json:"code"`
		Data struct {
			Title    string `json:"title"`
			Desc     string `json:"desc"`
			Duration int    `json:"duration"`
			Pubdate  int64  `json:"pubdate"`
			Stat     struct {
				View int64 `json:"view"`
			} `json:"stat"`
		} `json:"data"`
	}
	if err := p.getJSON(ctx, apiURL, &resp); err != nil {
		return Metadata{}, fmt.Errorf("bilibili view api: %w", err)
	}
	if resp.Code != 0 {
		return Metadata{}, fmt.Errorf("bilibili view api code %d", resp.Code)
	}

	meta := Metadata{
		Title:           resp.Data.Title,
		Description:     resp.Data.Desc,
		DurationSeconds: resp.Data.Duration,
		ViewCount:       resp.Data.Stat.View,
	}
	if resp.Data.Pubdate > 0 {
		meta.PublishDate = time.Unix(resp.Data.Pubdate, 0).UTC().Format("2006-01-02")
	}
	return meta, nil
}

func (p *HTTPProvider) lookupVimeo(ctx context.Context, rawURL string) (Metadata, error) {
	oembedURL := "https://vimeo.com/api/oembed.json?url=" + url.QueryEscape(rawURL)
	var oembed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Duration    int    `json:"duration"`
		UploadDate  string `json:"upload_date"`
	}
	if err := p.getJSON(ctx, oembedURL, &oembed); err != nil {
		return Metadata{}, fmt.Errorf("vimeo oembed: %w", err)
	}
	return Metadata{
		Title:           oembed.Title,
		Description:     oembed.Description,
		DurationSeconds: oembed.Duration,
		PublishDate:     oembed.UploadDate,
	}, nil
}

// FetchCaptions downloads and parses a timed-text track into cues.
func (p *HTTPProvider) FetchCaptions(ctx context.Context, track CaptionTrack) ([]Caption, error) {
	body, err := p.get(ctx, track.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}
	return ParseTimedText(body)
}

// ParseTimedText parses a timedtext XML payload into ordered cues.
func ParseTimedText(body []byte) ([]Caption, error) {
	var transcript struct {
		Texts []struct {
			Start string `xml:"start,attr"`
			Body  string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(body, &transcript); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	captions := make([]Caption, 0, len(transcript.Texts))
	for _, t := range transcript.Texts {
		start, _ := strconv.ParseFloat(t.Start, 64)
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		captions = append(captions, Caption{Start: start, Text: text})
	}
	return captions, nil
}

func (p *HTTPProvider) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (p *HTTPProvider) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := p.get(ctx, rawURL)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func youTubeVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if strings.Contains(parsed.Host, "youtu.be") {
		return strings.Trim(parsed.Path, "/")
	}
	return parsed.Query().Get("v")
}

func bilibiliVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, part := range strings.Split(parsed.Path, "/") {
		if strings.HasPrefix(part, "BV") {
			return part
		}
	}
	return ""
}

var _ Provider = (*HTTPProvider)(nil)
