package chat

import "context"

// evicter is the cache surface Cleaner needs.
type evicter interface {
	Delete(ctx context.Context, documentID string)
}

// Cleaner removes a document's conversation from the repo and evicts its
// cache entry, so deleting a document does not leave stale history in Redis
// until the TTL expires.
type Cleaner struct {
	Repo  Repo
	Cache evicter
}

func (c Cleaner) DeleteByDocument(ctx context.Context, documentID string) error {
	err := c.Repo.DeleteByDocument(ctx, documentID)
	if c.Cache != nil {
		c.Cache.Delete(ctx, documentID)
	}
	return err
}
