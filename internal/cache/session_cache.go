package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"schoolpulse/internal/model"
)

// SessionCache holds in-progress respondent survey sessions in redis.
// Sessions expire on their own; completed surveys only leave responses
// behind in mongo.
type SessionCache interface {
	Set(ctx context.Context, session *model.SurveySession) error
	Get(ctx context.Context, id string) (*model.SurveySession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.SurveySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "survey:session:"+session.ID, data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.SurveySession, error) {
	data, err := c.client.Get(ctx, "survey:session:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.SurveySession
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "survey:session:"+id).Err()
}
