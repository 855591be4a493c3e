package contents

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"content-backend/internal/shared/storage/object"
	"content-backend/internal/shared/storage/object/local"
	"content-backend/internal/shared/telemetry"
)

// Submitter hands a content ID to the background pipeline.
type Submitter interface {
	Submit(ctx context.Context, contentID string)
}

// Service contains business logic for content records.
type Service struct {
	Repo     Repo
	Local    *local.Store
	Remote   object.KeySaver // optional remote mirror
	Executor Submitter
}

// UploadInput is a multipart file upload plus its user-supplied fields.
type UploadInput struct {
	FileName    string
	Title       string
	Description string
	File        io.Reader
}

// CreateFromUpload saves the file, records the content and submits it for
// processing.
func (s *Service) CreateFromUpload(ctx context.Context, userId string, in UploadInput) (Content, error) {
	if in.FileName == "" || in.File == nil {
		return Content{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Local.Save(ctx, userId, in.FileName, in.File)
	if err != nil {
		return Content{}, err
	}
	localPath, err := s.Local.Path(storageKey)
	if err != nil {
		return Content{}, err
	}

	s.mirrorRemote(ctx, storageKey, mimeType)

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.FileName
	}

	now := time.Now().UTC()
	content := Content{
		ID:               uuid.NewString(),
		UserID:           userId,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		Type:             TypeFromMime(mimeType, in.FileName),
		Origin:           OriginUpload,
		OriginalFilename: in.FileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		LocalPath:        localPath,
		StorageKey:       storageKey,
		Processing:       NewProcessing(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Create(ctx, content); err != nil {
		return Content{}, err
	}

	s.Executor.Submit(ctx, content.ID)
	return content, nil
}

// mirrorRemote copies a freshly saved file into remote object storage.
// Failures are logged and never block the upload.
func (s *Service) mirrorRemote(ctx context.Context, storageKey, mimeType string) {
	if s.Remote == nil {
		return
	}
	f, err := s.Local.Open(ctx, storageKey)
	if err != nil {
		telemetry.Warn("content.mirror", map[string]any{"storageKey": storageKey, "error": err.Error()})
		return
	}
	defer f.Close()
	if _, err := s.Remote.SaveWithKey(ctx, storageKey, mimeType, f); err != nil {
		telemetry.Warn("content.mirror", map[string]any{"storageKey": storageKey, "error": err.Error()})
	}
}

// CreateFromVideoURL records a platform video URL and submits it.
func (s *Service) CreateFromVideoURL(ctx context.Context, userId, rawURL, title, description string) (Content, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Content{}, ErrInvalidInput
	}

	if title = strings.TrimSpace(title); title == "" {
		title = rawURL
	}

	now := time.Now().UTC()
	content := Content{
		ID:          uuid.NewString(),
		UserID:      userId,
		Title:       title,
		Description: strings.TrimSpace(description),
		Type:        TypeVideo,
		Origin:      DetectVideoOrigin(rawURL),
		SourceURL:   rawURL,
		Processing:  NewProcessing(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Create(ctx, content); err != nil {
		return Content{}, err
	}

	s.Executor.Submit(ctx, content.ID)
	return content, nil
}

// CreateFromWebURL records a web page URL and submits it.
func (s *Service) CreateFromWebURL(ctx context.Context, userId, rawURL, title, description string) (Content, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Content{}, ErrInvalidInput
	}

	if title = strings.TrimSpace(title); title == "" {
		title = rawURL
	}

	now := time.Now().UTC()
	content := Content{
		ID:          uuid.NewString(),
		UserID:      userId,
		Title:       title,
		Description: strings.TrimSpace(description),
		Type:        TypeWeb,
		Origin:      OriginWebURL,
		SourceURL:   rawURL,
		Processing:  NewProcessing(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Create(ctx, content); err != nil {
		return Content{}, err
	}

	s.Executor.Submit(ctx, content.ID)
	return content, nil
}

// Get returns a record owned by the user.
func (s *Service) Get(ctx context.Context, userId, id string) (Content, error) {
	return s.Repo.GetForUser(ctx, userId, id)
}

// Status returns only the processing sub-object, for polling.
func (s *Service) Status(ctx context.Context, userId, id string) (Processing, error) {
	content, err := s.Repo.GetForUser(ctx, userId, id)
	if err != nil {
		return Processing{}, err
	}
	return content.Processing, nil
}

// List returns the user's records, newest first.
func (s *Service) List(ctx context.Context, userId string, limit, offset int) ([]Content, error) {
	return s.Repo.ListByUser(ctx, userId, limit, offset)
}

// UpdateDetails edits title/tags/notes. Processing state is never touched.
func (s *Service) UpdateDetails(ctx context.Context, userId, id string, details DetailsUpdate) (Content, error) {
	if details.Title == nil && details.Tags == nil && details.Notes == nil {
		return Content{}, ErrInvalidInput
	}
	if details.Title != nil && strings.TrimSpace(*details.Title) == "" {
		return Content{}, ErrInvalidInput
	}
	return s.Repo.UpdateDetails(ctx, userId, id, details)
}

// Delete removes the record and best-effort removes its local file.
func (s *Service) Delete(ctx context.Context, userId, id string) error {
	content, err := s.Repo.GetForUser(ctx, userId, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userId, id); err != nil {
		return err
	}
	if content.StorageKey != "" {
		if err := s.Local.Delete(ctx, content.StorageKey); err != nil {
			telemetry.Warn("content.delete.file", map[string]any{"contentId": id, "error": err.Error()})
		}
	}
	return nil
}

// Cancel flips a pending or processing record to cancelled. An in-flight run
// is not interrupted; it observes the cancel before its final write.
func (s *Service) Cancel(ctx context.Context, userId, id string) (Content, error) {
	content, err := s.Repo.GetForUser(ctx, userId, id)
	if err != nil {
		return Content{}, err
	}
	if content.Processing.Status != StatusPending && content.Processing.Status != StatusProcessing {
		return Content{}, ErrNotCancellable
	}

	now := time.Now().UTC()
	processing := content.Processing
	processing.Status = StatusCancelled
	processing.CompletedAt = &now
	if err := s.Repo.UpdateProcessing(ctx, id, processing); err != nil {
		return Content{}, err
	}

	content.Processing = processing
	return content, nil
}

// Reprocess resets the state machine and submits a fresh run. Rejected while
// a run is recorded as active.
func (s *Service) Reprocess(ctx context.Context, userId, id string) (Content, error) {
	content, err := s.Repo.GetForUser(ctx, userId, id)
	if err != nil {
		return Content{}, err
	}
	if content.Processing.Status == StatusProcessing {
		return Content{}, ErrAlreadyProcessing
	}

	fresh := NewProcessing()
	if err := s.Repo.UpdateProcessing(ctx, id, fresh); err != nil {
		return Content{}, err
	}
	if err := s.Repo.UpdateAnalysis(ctx, id, nil); err != nil {
		return Content{}, err
	}

	s.Executor.Submit(ctx, id)

	content.Processing = fresh
	content.Analysis = nil
	return content, nil
}
