package contents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"content-backend/internal/analysis"
)

// PGRepo implements Repo using Postgres. Metadata, processing and analysis
// live in jsonb columns.
type PGRepo struct {
	DB *sql.DB
}

const contentColumns = `id, user_id, title, description, tags, notes, content_type, origin, source_url, original_filename, mime_type, size_bytes, local_path, storage_key, extracted_text, metadata, processing, analysis, created_at, updated_at`

// Create inserts a new content record.
func (r *PGRepo) Create(ctx context.Context, content Content) error {
	const query = `
INSERT INTO contents (
	id, user_id, title, description, tags, notes, content_type, origin,
	source_url, original_filename, mime_type, size_bytes, local_path,
	storage_key, extracted_text, metadata, processing, analysis,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	tags, err := marshalJSONB(content.Tags)
	if err != nil {
		return err
	}
	metadata, err := marshalJSONB(content.Metadata)
	if err != nil {
		return err
	}
	processing, err := json.Marshal(content.Processing)
	if err != nil {
		return err
	}
	analysisPayload, err := marshalJSONB(content.Analysis)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		content.ID,
		content.UserID,
		content.Title,
		nullString(content.Description),
		tags,
		nullString(content.Notes),
		string(content.Type),
		string(content.Origin),
		nullString(content.SourceURL),
		nullString(content.OriginalFilename),
		nullString(content.MimeType),
		content.SizeBytes,
		nullString(content.LocalPath),
		nullString(content.StorageKey),
		nullString(content.ExtractedText),
		metadata,
		processing,
		analysisPayload,
		content.CreatedAt,
		content.UpdatedAt,
	)
	return err
}

// GetByID fetches a record by ID regardless of owner.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Content, error) {
	const query = `
SELECT ` + contentColumns + `
FROM contents
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// GetForUser fetches a record by ID scoped to its owner.
func (r *PGRepo) GetForUser(ctx context.Context, userId, id string) (Content, error) {
	const query = `
SELECT ` + contentColumns + `
FROM contents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userId, id))
}

// ListByUser lists records ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Content, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + contentColumns + `
FROM contents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

// UpdateExtraction stores extracted text and merges metadata keys into the
// jsonb bag.
func (r *PGRepo) UpdateExtraction(ctx context.Context, id, text string, metadata map[string]any) error {
	const query = `
UPDATE contents
SET extracted_text = $1,
    metadata = COALESCE(metadata, '{}'::jsonb) || $2::jsonb,
    updated_at = $3
WHERE id = $4`

	md := metadata
	if md == nil {
		md = map[string]any{}
	}
	payload, err := json.Marshal(md)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, nullString(text), payload, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateProcessing replaces the processing jsonb.
func (r *PGRepo) UpdateProcessing(ctx context.Context, id string, processing Processing) error {
	const query = `
UPDATE contents
SET processing = $1, updated_at = $2
WHERE id = $3`

	payload, err := json.Marshal(processing)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateAnalysis replaces the analysis jsonb in one write.
func (r *PGRepo) UpdateAnalysis(ctx context.Context, id string, result *analysis.Result) error {
	const query = `
UPDATE contents
SET analysis = $1, updated_at = $2
WHERE id = $3`

	payload, err := marshalJSONB(result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateDetails applies a partial edit to the user-editable fields and
// returns the updated record.
func (r *PGRepo) UpdateDetails(ctx context.Context, userId, id string, details DetailsUpdate) (Content, error) {
	const query = `
UPDATE contents
SET title = COALESCE($1, title),
    tags = COALESCE($2, tags),
    notes = COALESCE($3, notes),
    updated_at = $4
WHERE user_id = $5 AND id = $6
RETURNING ` + contentColumns

	var title sql.NullString
	if details.Title != nil {
		title = sql.NullString{String: *details.Title, Valid: true}
	}
	var tags any
	if details.Tags != nil {
		payload, err := json.Marshal(*details.Tags)
		if err != nil {
			return Content{}, err
		}
		tags = payload
	}
	var notes sql.NullString
	if details.Notes != nil {
		notes = sql.NullString{String: *details.Notes, Valid: true}
	}

	return r.scanOne(r.DB.QueryRowContext(ctx, query, title, tags, notes, time.Now().UTC(), userId, id))
}

// Delete removes a record owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userId, id string) error {
	const query = `DELETE FROM contents WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userId, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Content, error) {
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Content{}, ErrNotFound
		}
		return Content{}, err
	}
	return content, nil
}

func scanContent(row rowScanner) (Content, error) {
	var content Content
	var description sql.NullString
	var tags []byte
	var notes sql.NullString
	var contentType string
	var origin string
	var sourceURL sql.NullString
	var originalFilename sql.NullString
	var mimeType sql.NullString
	var sizeBytes sql.NullInt64
	var localPath sql.NullString
	var storageKey sql.NullString
	var extractedText sql.NullString
	var metadata []byte
	var processing []byte
	var analysisPayload []byte

	if err := row.Scan(
		&content.ID,
		&content.UserID,
		&content.Title,
		&description,
		&tags,
		&notes,
		&contentType,
		&origin,
		&sourceURL,
		&originalFilename,
		&mimeType,
		&sizeBytes,
		&localPath,
		&storageKey,
		&extractedText,
		&metadata,
		&processing,
		&analysisPayload,
		&content.CreatedAt,
		&content.UpdatedAt,
	); err != nil {
		return Content{}, err
	}

	content.Description = description.String
	content.Notes = notes.String
	content.Type = Type(contentType)
	content.Origin = Origin(origin)
	content.SourceURL = sourceURL.String
	content.OriginalFilename = originalFilename.String
	content.MimeType = mimeType.String
	content.SizeBytes = sizeBytes.Int64
	content.LocalPath = localPath.String
	content.StorageKey = storageKey.String
	content.ExtractedText = extractedText.String

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &content.Tags); err != nil {
			return Content{}, err
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &content.Metadata); err != nil {
			return Content{}, err
		}
	}
	if len(processing) > 0 {
		if err := json.Unmarshal(processing, &content.Processing); err != nil {
			return Content{}, err
		}
	}
	if len(analysisPayload) > 0 {
		var result analysis.Result
		if err := json.Unmarshal(analysisPayload, &result); err != nil {
			return Content{}, err
		}
		content.Analysis = &result
	}
	return content, nil
}

// marshalJSONB encodes a value for a nullable jsonb column. Nil values map
// to SQL NULL instead of the JSON literal null. The untyped nil return
// matters: a typed-nil []byte does not bind as NULL everywhere.
func marshalJSONB(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *analysis.Result:
		if val == nil {
			return nil, nil
		}
	case []string:
		if val == nil {
			return nil, nil
		}
	case map[string]any:
		if val == nil {
			return nil, nil
		}
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
