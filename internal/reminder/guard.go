// Package reminder decides whether a due-date reminder may be sent for a loan.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

// Guard hands out at most one claim per loan and due date. A false claim
// means a reminder for that pair was already sent. Release hands a claim
// back when the reminder could not be delivered.
type Guard interface {
	Claim(ctx context.Context, loanID uuid.UUID, due time.Time) (bool, error)
	Release(ctx context.Context, loanID uuid.UUID, due time.Time) error
}

func key(loanID uuid.UUID, due time.Time) string {
	return fmt.Sprintf("reminder:%s:%d", loanID, due.Unix())
}

// RedisGuard claims with SET NX so every scheduler and API instance agrees.
type RedisGuard struct {
	client redis.Cmdable
	// retention keeps a key around after the due date has passed
	retention time.Duration
	now       func() time.Time
}

func NewRedisGuard(client redis.Cmdable, retention time.Duration) *RedisGuard {
	return &RedisGuard{client: client, retention: retention, now: time.Now}
}

func (g *RedisGuard) Claim(ctx context.Context, loanID uuid.UUID, due time.Time) (bool, error) {
	ttl := due.Sub(g.now()) + g.retention
	if ttl < time.Minute {
		ttl = time.Minute
	}

	ok, err := g.client.SetNX(ctx, key(loanID, due), g.now().Unix(), ttl).Result()
	if err != nil {
		return false, apperrors.WrapCacheError(err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, loanID uuid.UUID, due time.Time) error {
	if err := g.client.Del(ctx, key(loanID, due)).Err(); err != nil {
		return apperrors.WrapCacheError(err)
	}
	return nil
}

// MemoryGuard is the single-process fallback used when Redis is disabled.
type MemoryGuard struct {
	mu      sync.Mutex
	claimed map[string]time.Time
	now     func() time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{claimed: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryGuard) Claim(_ context.Context, loanID uuid.UUID, due time.Time) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// forget claims whose due date is long gone
	now := g.now()
	for k, d := range g.claimed {
		if now.Sub(d) > 7*24*time.Hour {
			delete(g.claimed, k)
		}
	}

	k := key(loanID, due)
	if _, ok := g.claimed[k]; ok {
		return false, nil
	}
	g.claimed[k] = due
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, loanID uuid.UUID, due time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.claimed, key(loanID, due))
	return nil
}

// Always grants every claim; a reminder goes out on each sweep.
type Always struct{}

func (Always) Claim(context.Context, uuid.UUID, time.Time) (bool, error) { return true, nil }

func (Always) Release(context.Context, uuid.UUID, time.Time) error { return nil }
