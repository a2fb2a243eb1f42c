package ratelimit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// touchScript runs the whole fixed-window transition atomically on the server.
// Returns {ok, count, ttlMillis}.
var touchScript = redis.NewScript(`
local count = redis.call('GET', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if (not count) or ttl <= 0 then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
  return {1, 1, tonumber(ARGV[2])}
end
count = tonumber(count)
if count >= tonumber(ARGV[1]) then
  return {0, count, ttl}
end
count = redis.call('INCR', KEYS[1])
return {1, count, ttl}
`)

// RedisStore shares buckets between instances.
type RedisStore struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Touch(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	// PX rejects 0, so sub-millisecond windows round up.
	windowMs := max(1, window.Milliseconds())
	values, err := touchScript.Run(ctx, s.client, []string{s.prefix + key}, limit, windowMs).Int64Slice()
	if err != nil {
		return Result{}, errors.Wrap(err, "rate limit script")
	}
	if len(values) != 3 {
		return Result{}, errors.Errorf("rate limit script returned %d values", len(values))
	}

	now := s.now()
	ok, count, ttl := values[0] == 1, int(values[1]), time.Duration(values[2])*time.Millisecond
	resetAt := now.Add(ttl)

	if !ok {
		return Result{OK: false, Remaining: 0, ResetAt: resetAt, RetryAfterSec: retryAfter(resetAt, now)}, nil
	}
	return Result{OK: true, Remaining: limit - count, ResetAt: resetAt}, nil
}
