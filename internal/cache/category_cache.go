package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// CategoryCache keeps the latest per-user intent/category summary so the
// read path does not touch the aggregate document.
type CategoryCache interface {
	Get(ctx context.Context, userID string) (*model.UserCategorySummary, error)
	Set(ctx context.Context, summary *model.UserCategorySummary) error
}

type categoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category summary cache.
func NewCategoryCache(client *redis.Client, ttl time.Duration) CategoryCache {
	return &categoryCache{client: client, ttl: ttl}
}

func (c *categoryCache) key(userID string) string {
	return fmt.Sprintf("user:%s:category", userID)
}

func (c *categoryCache) Get(ctx context.Context, userID string) (*model.UserCategorySummary, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary model.UserCategorySummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *categoryCache) Set(ctx context.Context, summary *model.UserCategorySummary) error {
	summary.UpdatedAt = time.Now()
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(summary.UserID), data, c.ttl).Err()
}
