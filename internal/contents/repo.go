package contents

import (
	"context"

	"content-backend/internal/analysis"
)

// Repo defines persistence operations for content records. Field-group
// updates are deliberately narrow so concurrent pipeline writes and user
// edits cannot clobber each other.
type Repo interface {
	Create(ctx context.Context, content Content) error
	GetByID(ctx context.Context, id string) (Content, error)
	GetForUser(ctx context.Context, userId, id string) (Content, error)
	ListByUser(ctx context.Context, userId string, limit, offset int) ([]Content, error)

	// UpdateExtraction stores extracted text and merges metadata keys into
	// the existing bag.
	UpdateExtraction(ctx context.Context, id, text string, metadata map[string]any) error
	UpdateProcessing(ctx context.Context, id string, processing Processing) error
	// UpdateAnalysis replaces the whole analysis payload in one write.
	UpdateAnalysis(ctx context.Context, id string, result *analysis.Result) error
	// UpdateDetails touches only the user-editable fields.
	UpdateDetails(ctx context.Context, userId, id string, details DetailsUpdate) (Content, error)

	Delete(ctx context.Context, userId, id string) error
}

// DetailsUpdate carries the user-editable fields of a PATCH. Nil pointers
// leave the field unchanged.
type DetailsUpdate struct {
	Title *string
	Tags  *[]string
	Notes *string
}
