package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/milboard/milboard/internal/quiz"
)

const defaultCacheTTL = 5 * time.Minute

// Cache keeps serialized quiz definitions in Redis.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ DefinitionCache = (*Cache)(nil)

func NewCache(client redis.UniversalClient, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(id string) string {
	return "quizdef:" + id
}

func (c *Cache) Get(ctx context.Context, id string) (*quiz.Definition, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var def quiz.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *Cache) Set(ctx context.Context, def quiz.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(def.ID), data, c.ttl).Err()
}
