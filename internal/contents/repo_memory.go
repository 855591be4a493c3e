package contents

import (
	"context"
	"sort"
	"sync"
	"time"

	"content-backend/internal/analysis"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode and
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Content // id -> content
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Content),
	}
}

// Create stores a new content record.
func (r *MemoryRepo) Create(ctx context.Context, content Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[content.ID] = cloneContent(content)
	return nil
}

// GetByID returns a record regardless of owner. The pipeline uses this.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	content, ok := r.data[id]
	if !ok {
		return Content{}, ErrNotFound
	}
	return cloneContent(content), nil
}

// GetForUser returns a record only when the user owns it.
func (r *MemoryRepo) GetForUser(ctx context.Context, userId, id string) (Content, error) {
	content, err := r.GetByID(ctx, id)
	if err != nil {
		return Content{}, err
	}
	if content.UserID != userId {
		return Content{}, ErrNotFound
	}
	return content, nil
}

// ListByUser returns records for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	var items []Content
	for _, content := range r.data {
		if content.UserID == userId {
			items = append(items, cloneContent(content))
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if len(items) == 0 || offset >= len(items) {
		return []Content{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}

// UpdateExtraction stores extracted text and merges metadata keys.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, id, text string, metadata map[string]any) error {
	return r.update(ctx, id, func(content *Content) {
		content.ExtractedText = text
		if len(metadata) > 0 {
			if content.Metadata == nil {
				content.Metadata = make(map[string]any, len(metadata))
			}
			for k, v := range metadata {
				content.Metadata[k] = v
			}
		}
	})
}

// UpdateProcessing replaces the processing state.
func (r *MemoryRepo) UpdateProcessing(ctx context.Context, id string, processing Processing) error {
	return r.update(ctx, id, func(content *Content) {
		content.Processing = cloneProcessing(processing)
	})
}

// UpdateAnalysis replaces the analysis payload. The result is copied so the
// stored record does not alias caller-owned slices.
func (r *MemoryRepo) UpdateAnalysis(ctx context.Context, id string, result *analysis.Result) error {
	return r.update(ctx, id, func(content *Content) {
		content.Analysis = cloneAnalysis(result)
	})
}

// UpdateDetails applies a partial edit to the user-editable fields.
func (r *MemoryRepo) UpdateDetails(ctx context.Context, userId, id string, details DetailsUpdate) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.data[id]
	if !ok || content.UserID != userId {
		return Content{}, ErrNotFound
	}
	if details.Title != nil {
		content.Title = *details.Title
	}
	if details.Tags != nil {
		content.Tags = append([]string(nil), (*details.Tags)...)
	}
	if details.Notes != nil {
		content.Notes = *details.Notes
	}
	content.UpdatedAt = time.Now().UTC()
	r.data[id] = content
	return cloneContent(content), nil
}

// Delete removes a record owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userId, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.data[id]
	if !ok || content.UserID != userId {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) update(ctx context.Context, id string, apply func(*Content)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	apply(&content)
	content.UpdatedAt = time.Now().UTC()
	r.data[id] = content
	return nil
}

// cloneContent copies the record deeply enough that callers cannot mutate
// stored state through shared maps or slices.
func cloneContent(content Content) Content {
	out := content
	if content.Tags != nil {
		out.Tags = append([]string(nil), content.Tags...)
	}
	if content.Metadata != nil {
		out.Metadata = make(map[string]any, len(content.Metadata))
		for k, v := range content.Metadata {
			out.Metadata[k] = v
		}
	}
	out.Processing = cloneProcessing(content.Processing)
	out.Analysis = cloneAnalysis(content.Analysis)
	return out
}

func cloneAnalysis(result *analysis.Result) *analysis.Result {
	if result == nil {
		return nil
	}
	out := *result
	if result.Summary.KeyPoints != nil {
		out.Summary.KeyPoints = append([]string(nil), result.Summary.KeyPoints...)
	}
	if result.Insights != nil {
		out.Insights = append([]string(nil), result.Insights...)
	}
	if result.Topics != nil {
		out.Topics = append([]string(nil), result.Topics...)
	}
	if result.Entities != nil {
		out.Entities = append([]analysis.Entity(nil), result.Entities...)
	}
	if result.KeyQuotes != nil {
		out.KeyQuotes = append([]string(nil), result.KeyQuotes...)
	}
	if result.ActionItems != nil {
		out.ActionItems = append([]analysis.ActionItem(nil), result.ActionItems...)
	}
	return &out
}

func cloneProcessing(processing Processing) Processing {
	out := processing
	if processing.Stages != nil {
		out.Stages = append([]Stage(nil), processing.Stages...)
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
