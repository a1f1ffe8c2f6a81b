package whatsapp

import (
	"context"
	"time"

	"telecom-care/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// Deduper reports whether a provider message id is seen for the first time.
// Release forgets a message so a redelivery is processed again.
type Deduper interface {
	FirstSeen(ctx context.Context, messageSid string) (bool, error)
	Release(ctx context.Context, messageSid string) error
}

const (
	dedupeKeyPrefix = "whatsapp:sid:"
	dedupeTTL       = 24 * time.Hour
)

// RedisDeduper guards against Twilio webhook retries delivering the same message twice.
type RedisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb, ttl: dedupeTTL}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, messageSid string) (bool, error) {
	return utils.ClaimOnce(ctx, d.rdb, dedupeKeyPrefix+messageSid, d.ttl)
}

func (d *RedisDeduper) Release(ctx context.Context, messageSid string) error {
	return utils.ReleaseClaim(ctx, d.rdb, dedupeKeyPrefix+messageSid)
}
