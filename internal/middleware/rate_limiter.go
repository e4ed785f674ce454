package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mroshb/quiz_bot/pkg/logger"
)

// RateLimiter throttles callback actions per (user, action) pair with a
// redis cooldown key. Restarts reset nothing; the state lives in redis.
type RateLimiter struct {
	client   *redis.Client
	cooldown time.Duration
}

func NewRateLimiter(client *redis.Client, cooldown time.Duration) *RateLimiter {
	return &RateLimiter{
		client:   client,
		cooldown: cooldown,
	}
}

func rateLimitKey(userID int64, action string) string {
	return fmt.Sprintf("user:%d:act:%s", userID, action)
}

// Allow reports whether the user may perform the action now. The first
// call in a cooldown window claims the key atomically; later calls are
// rejected until it expires. Redis failures fail open so the bot keeps
// working without redis.
func (rl *RateLimiter) Allow(ctx context.Context, userID int64, action string) bool {
	key := rateLimitKey(userID, action)
	ok, err := rl.client.SetNX(ctx, key, 1, rl.cooldown).Result()
	if err != nil {
		logger.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
		return true
	}
	return ok
}

// Reset clears the cooldown for a (user, action) pair.
func (rl *RateLimiter) Reset(ctx context.Context, userID int64, action string) {
	if err := rl.client.Del(ctx, rateLimitKey(userID, action)).Err(); err != nil {
		logger.Warn("rate limiter reset failed", "user_id", userID, "action", action, "error", err)
	}
}
