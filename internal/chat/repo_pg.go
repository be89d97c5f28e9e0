package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the history for a document.
func (r *PGRepo) Get(ctx context.Context, documentID string) (History, error) {
	const query = `
SELECT document_id, messages, created_at, updated_at
FROM chat_histories
WHERE document_id = $1
LIMIT 1`
	var h History
	var messages sql.NullString
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&h.DocumentID,
		&messages,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return History{}, ErrNoHistory
		}
		return History{}, err
	}
	h.Messages = []Message{}
	if messages.Valid && messages.String != "" {
		var list []Message
		if err := json.Unmarshal([]byte(messages.String), &list); err == nil && list != nil {
			h.Messages = list
		}
	}
	return h, nil
}

// Save upserts the history for a document.
func (r *PGRepo) Save(ctx context.Context, h History) error {
	payload, err := json.Marshal(h.Messages)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO chat_histories (document_id, messages, created_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (document_id)
DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at`
	_, err = r.DB.ExecContext(ctx, query, h.DocumentID, string(payload), h.CreatedAt, h.UpdatedAt)
	return err
}

// DeleteByDocument removes the history for a document. Missing histories are
// not an error.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM chat_histories WHERE document_id = $1`, documentID)
	return err
}

// ListAll returns a page of histories ordered by last update, newest first,
// along with the total count.
func (r *PGRepo) ListAll(ctx context.Context, limit, offset int) ([]History, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_histories`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const query = `
SELECT document_id, messages, created_at, updated_at
FROM chat_histories
ORDER BY updated_at DESC, document_id DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	histories := make([]History, 0, limit)
	for rows.Next() {
		var h History
		var messages sql.NullString
		if err := rows.Scan(&h.DocumentID, &messages, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, 0, err
		}
		h.Messages = []Message{}
		if messages.Valid && messages.String != "" {
			var list []Message
			if err := json.Unmarshal([]byte(messages.String), &list); err == nil && list != nil {
				h.Messages = list
			}
		}
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}
