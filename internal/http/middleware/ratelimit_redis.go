package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by every API instance. It
// fails open when Redis is unreachable.
type RedisLimiter struct {
	client  redis.Scripter
	script  *redis.Script
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewRedisLimiter(client redis.Scripter, prefix string, logger *zap.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{
		client:  client,
		script:  redis.NewScript(rateLimitScript),
		prefix:  prefix,
		timeout: 250 * time.Millisecond,
		logger:  logger,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	if l.prefix != "" {
		key = l.prefix + ":" + key
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	return allowed == 1
}
