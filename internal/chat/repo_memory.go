package chat

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores chat histories in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu    sync.RWMutex
	byDoc map[string]History
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byDoc: make(map[string]History)}
}

// Get returns the history for a document.
func (r *MemoryRepo) Get(ctx context.Context, documentID string) (History, error) {
	if err := ctx.Err(); err != nil {
		return History{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byDoc[documentID]
	if !ok {
		return History{}, ErrNoHistory
	}
	return h, nil
}

// Save stores the history, replacing any existing record for the document.
func (r *MemoryRepo) Save(ctx context.Context, h History) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDoc[h.DocumentID] = h
	return nil
}

// DeleteByDocument removes the history for a document. Missing histories are
// not an error.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byDoc, documentID)
	return nil
}

// ListAll returns a page of histories ordered by last update, newest first,
// along with the total count.
func (r *MemoryRepo) ListAll(ctx context.Context, limit, offset int) ([]History, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]History, 0, len(r.byDoc))
	for _, h := range r.byDoc {
		all = append(all, h)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].DocumentID > all[j].DocumentID
		}
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	total := len(all)
	if offset >= total {
		return []History{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]History, end-offset)
	copy(page, all[offset:end])
	return page, total, nil
}
