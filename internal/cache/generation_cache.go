package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GenerationCache guards report generation per project. The lock keeps
// concurrent "regenerate" requests down to a single in-flight model call;
// the status entry lets pollers see what the last attempt produced.
type GenerationCache interface {
	// TryLock returns true when this caller acquired the project's
	// generation lock. The lock self-expires after ttl in case the
	// holder dies mid-generation.
	TryLock(ctx context.Context, projectID string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, projectID string) error

	SetStatus(ctx context.Context, projectID, status string) error
	GetStatus(ctx context.Context, projectID string) (string, error)
}

type generationCache struct {
	client *redis.Client
}

func NewGenerationCache(client *redis.Client) GenerationCache {
	return &generationCache{client: client}
}

func (c *generationCache) lockKey(projectID string) string {
	return fmt.Sprintf("report:gen:%s:lock", projectID)
}

func (c *generationCache) statusKey(projectID string) string {
	return fmt.Sprintf("report:gen:%s:status", projectID)
}

func (c *generationCache) TryLock(ctx context.Context, projectID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.lockKey(projectID), "1", ttl).Result()
}

func (c *generationCache) Unlock(ctx context.Context, projectID string) error {
	return c.client.Del(ctx, c.lockKey(projectID)).Err()
}

func (c *generationCache) SetStatus(ctx context.Context, projectID, status string) error {
	return c.client.Set(ctx, c.statusKey(projectID), status, 24*time.Hour).Err()
}

func (c *generationCache) GetStatus(ctx context.Context, projectID string) (string, error) {
	status, err := c.client.Get(ctx, c.statusKey(projectID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return status, err
}
