package contents

import (
	"context"
	"errors"
	"testing"
	"time"

	"content-backend/internal/analysis"
)

func seedMemory(t *testing.T, repo *MemoryRepo, id, userID string, createdAt time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), Content{
		ID:         id,
		UserID:     userID,
		Title:      "t-" + id,
		Type:       TypeDocument,
		Origin:     OriginUpload,
		Processing: NewProcessing(),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Now().UTC()
	seedMemory(t, repo, "a", "u1", base.Add(-2*time.Hour))
	seedMemory(t, repo, "b", "u1", base.Add(-1*time.Hour))
	seedMemory(t, repo, "c", "u2", base)

	items, err := repo.ListByUser(context.Background(), "u1", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("expected newest first, got %s, %s", items[0].ID, items[1].ID)
	}
}

func TestMemoryRepoOwnerScoping(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemory(t, repo, "a", "u1", time.Now().UTC())

	if _, err := repo.GetForUser(context.Background(), "u2", "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := repo.Delete(context.Background(), "u2", "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
}

func TestMemoryRepoUpdateExtractionMergesMetadata(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemory(t, repo, "a", "u1", time.Now().UTC())

	if err := repo.UpdateExtraction(context.Background(), "a", "text one", map[string]any{"wordCount": 2}); err != nil {
		t.Fatalf("first UpdateExtraction: %v", err)
	}
	if err := repo.UpdateExtraction(context.Background(), "a", "text two", map[string]any{"title": "T"}); err != nil {
		t.Fatalf("second UpdateExtraction: %v", err)
	}

	got, err := repo.GetByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ExtractedText != "text two" {
		t.Fatalf("expected latest text, got %q", got.ExtractedText)
	}
	if got.Metadata["wordCount"] != 2 || got.Metadata["title"] != "T" {
		t.Fatalf("metadata keys must merge, got %v", got.Metadata)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemory(t, repo, "a", "u1", time.Now().UTC())

	got, _ := repo.GetByID(context.Background(), "a")
	got.Processing.Status = StatusFailed
	got.Tags = append(got.Tags, "mutated")

	fresh, _ := repo.GetByID(context.Background(), "a")
	if fresh.Processing.Status != StatusPending {
		t.Fatalf("stored state mutated through returned value")
	}
	if len(fresh.Tags) != 0 {
		t.Fatalf("stored tags mutated through returned value")
	}
}

func TestMemoryRepoUpdateAnalysisCopiesResult(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemory(t, repo, "a", "u1", time.Now().UTC())

	result := &analysis.Result{
		Summary:    analysis.Summary{Main: "summary"},
		Insights:   []string{"insight"},
		Confidence: 80,
	}
	if err := repo.UpdateAnalysis(context.Background(), "a", result); err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}

	// Mutating the caller's result after the write must not leak into the
	// stored record.
	result.ActionItems = append(result.ActionItems, analysis.ActionItem{Text: "late", Priority: "high"})
	result.Insights[0] = "mutated"

	got, err := repo.GetByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Analysis == nil {
		t.Fatalf("expected stored analysis")
	}
	if len(got.Analysis.ActionItems) != 0 {
		t.Fatalf("action items leaked through aliased result: %v", got.Analysis.ActionItems)
	}
	if got.Analysis.Insights[0] != "insight" {
		t.Fatalf("insight mutated through aliased result: %v", got.Analysis.Insights)
	}

	// Same in the other direction: a fetched record must not expose stored
	// state to mutation.
	got.Analysis.Summary.Main = "overwritten"
	fresh, _ := repo.GetByID(context.Background(), "a")
	if fresh.Analysis.Summary.Main != "summary" {
		t.Fatalf("stored analysis mutated through returned value")
	}
}

func TestMemoryRepoUpdateDetails(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemory(t, repo, "a", "u1", time.Now().UTC())

	title := "New title"
	tags := []string{"x"}
	got, err := repo.UpdateDetails(context.Background(), "u1", "a", DetailsUpdate{Title: &title, Tags: &tags})
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if got.Title != "New title" || len(got.Tags) != 1 {
		t.Fatalf("details not applied: %+v", got)
	}
	if got.Notes != "" {
		t.Fatalf("unset field must stay unchanged")
	}
}
