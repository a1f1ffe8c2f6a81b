package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedisAndClaimOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb, err := OpenRedis(ctx, RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rdb.Close()

	first, err := ClaimOnce(ctx, rdb, "wa:SM1", time.Hour)
	if err != nil || !first {
		t.Fatalf("expected first claim to win, got %v %v", first, err)
	}
	again, err := ClaimOnce(ctx, rdb, "wa:SM1", time.Hour)
	if err != nil || again {
		t.Fatalf("expected replay to be rejected, got %v %v", again, err)
	}

	mr.FastForward(2 * time.Hour)
	later, err := ClaimOnce(ctx, rdb, "wa:SM1", time.Hour)
	if err != nil || !later {
		t.Fatalf("expected claim after expiry, got %v %v", later, err)
	}
}

func TestClaimOnceValidatesInput(t *testing.T) {
	if _, err := ClaimOnce(context.Background(), nil, "k", time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestOpenRedisRequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestReleaseClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	rdb, err := OpenRedis(ctx, RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rdb.Close()

	if _, err := ClaimOnce(ctx, rdb, "wa:SM2", time.Hour); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := ReleaseClaim(ctx, rdb, "wa:SM2"); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := ClaimOnce(ctx, rdb, "wa:SM2", time.Hour)
	if err != nil || !again {
		t.Fatalf("expected claim to be available after release, got %v %v", again, err)
	}
}
