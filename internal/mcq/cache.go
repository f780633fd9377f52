package mcq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 30 * time.Second

// Cache is the Redis-backed QuestionCache. Entries expire quickly because approval and
// publishing happen on the write side without invalidating this cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ QuestionCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(docID string) string {
	return "mcq:question:" + docID
}

func (c *Cache) Get(ctx context.Context, docID string) (*Question, error) {
	data, err := c.client.Get(ctx, cacheKey(docID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var q Question
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Cache) Set(ctx context.Context, q Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(q.DocID), data, c.ttl).Err()
}
