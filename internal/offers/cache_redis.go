package offers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const generalOffersKey = "offers:general"

// RedisCache keeps the general catalogue rows in Redis as JSON.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) GetGeneral(ctx context.Context) ([]Offer, bool, error) {
	raw, err := c.rdb.Get(ctx, generalOffersKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out []Offer
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *RedisCache) SetGeneral(ctx context.Context, rows []Offer) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, generalOffersKey, raw, c.ttl).Err()
}
