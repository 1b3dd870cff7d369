package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"talentprep/internal/model"
)

// QuestionCache stores successful generated question sets so repeat
// requests within the TTL skip the model call entirely.
type QuestionCache interface {
	Set(ctx context.Context, talentID string, category model.Category, resp *model.QuestionSetResponse) error
	Get(ctx context.Context, talentID string, category model.Category) (*model.QuestionSetResponse, error)
	Delete(ctx context.Context, talentID string, category model.Category) error
}

type questionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuestionCache(client *redis.Client, ttl time.Duration) QuestionCache {
	return &questionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *questionCache) Set(ctx context.Context, talentID string, category model.Category, resp *model.QuestionSetResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(talentID, category), data, c.ttl).Err()
}

// Get returns (nil, nil) on a cache miss.
func (c *questionCache) Get(ctx context.Context, talentID string, category model.Category) (*model.QuestionSetResponse, error) {
	data, err := c.client.Get(ctx, key(talentID, category)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var resp model.QuestionSetResponse
	err = json.Unmarshal([]byte(data), &resp)
	return &resp, err
}

func (c *questionCache) Delete(ctx context.Context, talentID string, category model.Category) error {
	return c.client.Del(ctx, key(talentID, category)).Err()
}

func key(talentID string, category model.Category) string {
	if category == "" {
		category = "general"
	}
	return "questions:" + talentID + ":" + string(category)
}
