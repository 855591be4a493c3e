package contents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"content-backend/internal/analysis"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	content := Content{
		ID:               "content-1",
		UserID:           "user-1",
		Title:            "Notes",
		Type:             TypeDocument,
		Origin:           OriginUpload,
		OriginalFilename: "notes.txt",
		MimeType:         "text/plain",
		SizeBytes:        11,
		LocalPath:        "/data/u/notes.txt",
		StorageKey:       "u/notes.txt",
		Processing:       NewProcessing(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	mock.ExpectExec("INSERT INTO contents").
		WithArgs(
			content.ID,
			content.UserID,
			content.Title,
			nil,              // description
			nil,              // tags
			nil,              // notes
			"document",
			"upload",
			nil, // source_url
			sqlmock.AnyArg(), // original_filename
			sqlmock.AnyArg(), // mime_type
			content.SizeBytes,
			sqlmock.AnyArg(), // local_path
			sqlmock.AnyArg(), // storage_key
			nil,              // extracted_text
			nil,              // metadata
			sqlmock.AnyArg(), // processing
			nil,              // analysis
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), content); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithOptionalFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	content := Content{
		ID:          "content-2",
		UserID:      "user-1",
		Title:       "Clip",
		Description: "a clip",
		Tags:        []string{"talk"},
		Type:        TypeVideo,
		Origin:      OriginYouTube,
		SourceURL:   "https://youtu.be/abc",
		Metadata:    map[string]any{"durationSeconds": 90},
		Processing:  NewProcessing(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tags, _ := json.Marshal(content.Tags)
	metadata, _ := json.Marshal(content.Metadata)

	mock.ExpectExec("INSERT INTO contents").
		WithArgs(
			content.ID,
			content.UserID,
			content.Title,
			sqlmock.AnyArg(), // description
			tags,
			nil, // notes
			"video",
			"youtube",
			sqlmock.AnyArg(), // source_url
			nil,              // original_filename
			nil,              // mime_type
			int64(0),
			nil, // local_path
			nil, // storage_key
			nil, // extracted_text
			metadata,
			sqlmock.AnyArg(), // processing
			nil,              // analysis
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), content); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM contents").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateProcessing(t *testing.T) {
	repo, mock := newMockRepo(t)

	processing := Processing{Status: StatusProcessing, Progress: 40}
	payload, _ := json.Marshal(processing)

	mock.ExpectExec("UPDATE contents").
		WithArgs(payload, sqlmock.AnyArg(), "content-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProcessing(context.Background(), "content-1", processing); err != nil {
		t.Fatalf("UpdateProcessing: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateProcessingMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE contents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProcessing(context.Background(), "missing", NewProcessing())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateAnalysis(t *testing.T) {
	repo, mock := newMockRepo(t)

	result := &analysis.Result{
		Summary:    analysis.Summary{Main: "summary"},
		Confidence: 80,
	}
	payload, _ := json.Marshal(result)

	mock.ExpectExec("UPDATE contents").
		WithArgs(payload, sqlmock.AnyArg(), "content-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateAnalysis(context.Background(), "content-1", result); err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM contents").
		WithArgs("user-1", "content-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "user-1", "content-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
