package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"studyaid-backend/internal/ai"
	"studyaid-backend/internal/videos"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, original_image_path, storage_key, extracted_text, user_prompt,
       analysis, quiz_questions, youtube_videos, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, original_image_path, storage_key, extracted_text, user_prompt,
	analysis, quiz_questions, youtube_videos, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	analysisPayload, err := marshalJSONB(doc.Analysis)
	if err != nil {
		return err
	}
	quizPayload, err := marshalJSONB(doc.QuizQuestions)
	if err != nil {
		return err
	}
	videosPayload, err := marshalJSONB(doc.YouTubeVideos)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.OriginalImagePath,
		doc.StorageKey,
		doc.ExtractedText,
		doc.UserPrompt,
		analysisPayload,
		quizPayload,
		videosPayload,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID returns a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns a page of documents ordered by creation time, newest first,
// along with the total count.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Document, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	docs := make([]Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// UpdateQuiz replaces the stored quiz questions for a document.
func (r *PGRepo) UpdateQuiz(ctx context.Context, id string, questions []ai.QuizQuestion, updatedAt time.Time) error {
	payload, err := marshalJSONB(questions)
	if err != nil {
		return err
	}
	const query = `
UPDATE documents
SET quiz_questions = $1, updated_at = $2
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, payload, updatedAt, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document. Chat history rows cascade via the schema.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var analysis sql.NullString
	var quiz sql.NullString
	var vids sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.OriginalImagePath,
		&doc.StorageKey,
		&doc.ExtractedText,
		&doc.UserPrompt,
		&analysis,
		&quiz,
		&vids,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if analysis.Valid && analysis.String != "" && analysis.String != "null" {
		var a Analysis
		if err := json.Unmarshal([]byte(analysis.String), &a); err == nil {
			doc.Analysis = &a
		}
	}
	if quiz.Valid && quiz.String != "" {
		var questions []ai.QuizQuestion
		if err := json.Unmarshal([]byte(quiz.String), &questions); err == nil {
			doc.QuizQuestions = questions
		}
	}
	if vids.Valid && vids.String != "" {
		var list []videos.Video
		if err := json.Unmarshal([]byte(vids.String), &list); err == nil {
			doc.YouTubeVideos = list
		}
	}
	return doc, nil
}

func marshalJSONB(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}
