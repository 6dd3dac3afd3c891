package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"loan-ledger/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// ErrLockTimeout is returned when a key stays held past the wait budget.
var ErrLockTimeout = errors.New("lock wait exceeded")

// Locker implements ports.Locker with SET NX PX and a token-checked release.
// It serializes resolutions across API and reconcile processes.
type Locker struct {
	client   goredis.UniversalClient
	prefix   string
	ttl      time.Duration
	wait     time.Duration
	newToken func() string
}

// NewLocker creates a Locker. ttl bounds how long a crashed holder can block a
// key; wait bounds how long Acquire retries.
func NewLocker(client goredis.UniversalClient, ttl, wait time.Duration) *Locker {
	return &Locker{
		client:   client,
		prefix:   "lock:",
		ttl:      ttl,
		wait:     wait,
		newToken: uuid.NewString,
	}
}

type lease struct {
	client goredis.UniversalClient
	key    string
	token  string
}

// Release deletes the key only if this lease still holds it.
func (l *lease) Release(ctx context.Context) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.token).Result()
	if err != nil {
		return fmt.Errorf("redis unlock %s: %w", l.key, err)
	}
	if result == int64(0) {
		return fmt.Errorf("unlock failed, lock for key %s expired or is held by another owner", l.key)
	}
	return nil
}

// Acquire retries SET NX with jitter until it succeeds or the wait budget runs out.
func (l *Locker) Acquire(ctx context.Context, key string) (ports.Lease, error) {
	redisKey := l.prefix + key
	token := l.newToken()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", redisKey, err)
		}
		if ok {
			return &lease{client: l.client, key: redisKey, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(10+rand.Intn(90)) * time.Millisecond):
		}
	}
}
