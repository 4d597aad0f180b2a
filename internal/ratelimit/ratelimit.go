// Package ratelimit implements a fixed-window request limiter on Redis.
// Without a Redis client every request passes, mirroring how the rest of the
// service degrades when Redis is absent.
package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	redis  *redis.Client
	window time.Duration
}

func New(client *redis.Client) *Limiter {
	return &Limiter{redis: client, window: time.Minute}
}

// Allow counts a hit for key and reports whether it is still within limit.
// Redis errors fail open.
func (l *Limiter) Allow(ctx context.Context, key string, limit int) (bool, error) {
	if l.redis == nil || limit <= 0 {
		return true, nil
	}
	n, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		l.redis.Expire(ctx, key, l.window)
	}
	return n <= int64(limit), nil
}

// Middleware applies limit per caller per window under the given scope.
func Middleware(l *Limiter, limit int, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := l.Allow(c.Context(), "ratelimit:"+scope+":"+clientKey(c), limit)
		if err != nil {
			log.Printf("rate limiter error: %v", err)
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}

// WriteMiddleware applies a stricter limit to mutating methods only.
func WriteMiddleware(l *Limiter, limit int) fiber.Handler {
	inner := Middleware(l, limit, "write")
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut, fiber.MethodDelete:
			return inner(c)
		}
		return c.Next()
	}
}

func clientKey(c *fiber.Ctx) string {
	if uid := identity.CallerFromCtx(c).UID; uid != "" {
		return uid
	}
	return c.IP()
}
