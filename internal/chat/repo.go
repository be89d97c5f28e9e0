package chat

import "context"

// Repo defines persistence operations for chat histories. One history per
// document; Save upserts the whole record (read-modify-write, last write
// wins).
type Repo interface {
	Get(ctx context.Context, documentID string) (History, error)
	Save(ctx context.Context, h History) error
	DeleteByDocument(ctx context.Context, documentID string) error
	ListAll(ctx context.Context, limit, offset int) ([]History, int, error)
}
