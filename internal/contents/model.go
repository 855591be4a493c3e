package contents

import (
	"strings"
	"time"

	"content-backend/internal/analysis"
)

// Type classifies what kind of material a content record holds.
type Type string

const (
	TypeVideo    Type = "video"
	TypeDocument Type = "document"
	TypeWeb      Type = "web"
	TypeImage    Type = "image"
	TypeAudio    Type = "audio"
)

// Origin records where the content came from.
type Origin string

const (
	OriginUpload   Origin = "upload"
	OriginYouTube  Origin = "youtube"
	OriginBilibili Origin = "bilibili"
	OriginVimeo    Origin = "vimeo"
	OriginWebURL   Origin = "web_url"
)

// Status is the top-level processing state of a record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Stage is a named sub-step of a processing run, kept for progress display.
type Stage struct {
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Processing is the per-record state machine instance.
type Processing struct {
	Status       Status     `json:"status"`
	Progress     int        `json:"progress"`
	Stages       []Stage    `json:"stages,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// Content is one uploaded file or submitted URL and its processing state.
type Content struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Notes       string   `json:"notes,omitempty"`

	Type             Type   `json:"type"`
	Origin           Origin `json:"origin"`
	SourceURL        string `json:"sourceUrl,omitempty"`
	OriginalFilename string `json:"originalFilename,omitempty"`
	MimeType         string `json:"mimeType,omitempty"`
	SizeBytes        int64  `json:"sizeBytes,omitempty"`

	// A file may live on local disk and in remote object storage at once;
	// the two keys supplement each other.
	LocalPath  string `json:"localPath,omitempty"`
	StorageKey string `json:"storageKey,omitempty"`

	ExtractedText string         `json:"extractedText,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`

	Processing Processing       `json:"processing"`
	Analysis   *analysis.Result `json:"analysis,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProcessing returns the initial state for a freshly created record.
func NewProcessing() Processing {
	return Processing{Status: StatusPending, Progress: 0}
}

// DetectVideoOrigin maps a video URL to its platform origin.
func DetectVideoOrigin(rawURL string) Origin {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return OriginYouTube
	case strings.Contains(lower, "bilibili.com"):
		return OriginBilibili
	case strings.Contains(lower, "vimeo.com"):
		return OriginVimeo
	default:
		return OriginWebURL
	}
}

// TypeFromMime derives the content type of an uploaded file from its sniffed
// MIME type, falling back to the filename extension.
func TypeFromMime(mimeType, fileName string) Type {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch {
	case strings.HasPrefix(clean, "video/"):
		return TypeVideo
	case strings.HasPrefix(clean, "image/"):
		return TypeImage
	case strings.HasPrefix(clean, "audio/"):
		return TypeAudio
	}
	lower := strings.ToLower(fileName)
	switch {
	case hasAnySuffix(lower, ".mp4", ".mov", ".avi", ".mkv", ".webm"):
		return TypeVideo
	case hasAnySuffix(lower, ".png", ".jpg", ".jpeg", ".gif", ".webp"):
		return TypeImage
	case hasAnySuffix(lower, ".mp3", ".wav", ".flac", ".m4a", ".ogg"):
		return TypeAudio
	default:
		return TypeDocument
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
