package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// unlockScript deletes the key only while it still holds our token
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

const (
	defaultRetryInterval = 50 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// RedisLocker serializes match runs across server instances with a single
// SET NX PX key. The TTL bounds how long a crashed holder blocks the others.
type RedisLocker struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	token  func() string
	logger logrus.FieldLogger
}

// RedisOption customizes a RedisLocker
type RedisOption func(*RedisLocker)

// WithRetryInterval sets the polling interval while the lock is held elsewhere
func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) { l.retry = d }
}

// WithTokenGenerator replaces the random owner token
func WithTokenGenerator(fn func() string) RedisOption {
	return func(l *RedisLocker) { l.token = fn }
}

// WithLogger sets the logger used for release failures
func WithLogger(logger logrus.FieldLogger) RedisOption {
	return func(l *RedisLocker) { l.logger = logger }
}

// NewRedisLocker creates a locker on key. Lock gives up after wait.
func NewRedisLocker(client redis.Cmdable, key string, ttl, wait time.Duration, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		key:    key,
		ttl:    ttl,
		wait:   wait,
		retry:  defaultRetryInterval,
		token:  func() string { return uuid.NewString() },
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock polls SET NX until it wins, wait elapses, or ctx is done
func (l *RedisLocker) Lock(ctx context.Context) (func(), error) {
	token := l.token()
	deadline := time.Now().Add(l.wait)

	for {
		acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire redis lock %s: %w", l.key, err)
		}
		if acquired {
			return func() { l.release(token) }, nil
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: redis lock %s still held after %s", domain.ErrConflict, l.key, l.wait)
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// release runs on its own context so a cancelled request still frees the lock
func (l *RedisLocker) release(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := l.client.Eval(ctx, unlockScript, []string{l.key}, token).Err(); err != nil {
		l.logger.WithError(err).WithField("key", l.key).Warn("failed to release redis lock")
	}
}
