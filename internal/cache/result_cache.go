package cache

import (
	"context"
	"encoding/json"
	"time"

	"inflecto-api/internal/model"

	"github.com/redis/go-redis/v9"
)

// ResultCache holds server-computed assessment results until the
// finalize call picks them up
type ResultCache interface {
	Set(ctx context.Context, assessmentID string, result model.Result) error
	Get(ctx context.Context, assessmentID string) (*model.Result, error)
	Delete(ctx context.Context, assessmentID string) error
}

type resultCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewResultCache creates a result cache whose entries expire after ttl
func NewResultCache(client redis.UniversalClient, ttl time.Duration) ResultCache {
	return &resultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *resultCache) key(id string) string {
	return "assessment:result:" + id
}

func (c *resultCache) Set(ctx context.Context, assessmentID string, result model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(assessmentID), data, c.ttl).Err()
}

// Get returns nil without error when no result is cached
func (c *resultCache) Get(ctx context.Context, assessmentID string) (*model.Result, error) {
	data, err := c.client.Get(ctx, c.key(assessmentID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Delete(ctx context.Context, assessmentID string) error {
	return c.client.Del(ctx, c.key(assessmentID)).Err()
}
