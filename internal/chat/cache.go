package chat

import (
	"context"
	"encoding/json"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"studyaid-backend/internal/shared/telemetry"
)

const historyCacheTTL = 60 * time.Second

// HistoryCache is a read-through cache for chat histories in front of the
// repo. A nil cache (or one built without a client) is a no-op, so callers
// never branch on whether Redis is configured. Cache failures are logged and
// treated as misses.
type HistoryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

// NewHistoryCache constructs a cache over the given client. A nil client
// yields a disabled cache.
func NewHistoryCache(client *redisv9.Client) *HistoryCache {
	return &HistoryCache{client: client, ttl: historyCacheTTL}
}

// Get returns the cached history and whether it was present.
func (c *HistoryCache) Get(ctx context.Context, documentID string) (History, bool) {
	if c == nil || c.client == nil {
		return History{}, false
	}
	raw, err := c.client.Get(ctx, historyKey(documentID)).Result()
	if err == redisv9.Nil {
		return History{}, false
	}
	if err != nil {
		telemetry.Warn("chat.cache_get_failed", map[string]any{"document_id": documentID, "error": err.Error()})
		return History{}, false
	}
	var h History
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		telemetry.Warn("chat.cache_decode_failed", map[string]any{"document_id": documentID, "error": err.Error()})
		return History{}, false
	}
	return h, true
}

// Set stores the history under the document key.
func (c *HistoryCache) Set(ctx context.Context, h History) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(h)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, historyKey(h.DocumentID), payload, c.ttl).Err(); err != nil {
		telemetry.Warn("chat.cache_set_failed", map[string]any{"document_id": h.DocumentID, "error": err.Error()})
	}
}

// Delete evicts the cached history for a document.
func (c *HistoryCache) Delete(ctx context.Context, documentID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, historyKey(documentID)).Err(); err != nil {
		telemetry.Warn("chat.cache_delete_failed", map[string]any{"document_id": documentID, "error": err.Error()})
	}
}

func historyKey(documentID string) string {
	return "chat:history:" + documentID
}
