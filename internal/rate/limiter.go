package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	MaxLoginAttempts   int
	LoginCooldown      time.Duration
	MaxRefreshAttempts int
	RefreshCooldown    time.Duration
}

// Limiter enforces per-email login and per-identity refresh attempt budgets
// using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{redis: redisClient, config: cfg}
}

// CheckLogin reports whether the email is within its login attempt budget.
func (l *Limiter) CheckLogin(ctx context.Context, email string) error {
	return l.checkCounter(ctx, loginKey(email), l.config.MaxLoginAttempts)
}

// RecordLoginFailure counts a failed login attempt. Returns ErrRateLimited
// once the budget is exceeded.
func (l *Limiter) RecordLoginFailure(ctx context.Context, email string) error {
	count, err := l.incrementWithTTL(ctx, loginKey(email), l.config.LoginCooldown)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}
	return nil
}

// ResetLogin clears the failed-login counter after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, loginKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// CheckRefresh reports whether the identity is within its refresh budget.
func (l *Limiter) CheckRefresh(ctx context.Context, identityID string) error {
	return l.checkCounter(ctx, refreshKey(identityID), l.config.MaxRefreshAttempts)
}

// RecordRefreshFailure counts a rejected refresh attempt. Returns
// ErrRateLimited once the budget is exceeded.
func (l *Limiter) RecordRefreshFailure(ctx context.Context, identityID string) error {
	count, err := l.incrementWithTTL(ctx, refreshKey(identityID), l.config.RefreshCooldown)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxRefreshAttempts) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string, maxAttempts int) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count > int64(maxAttempts) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func loginKey(email string) string {
	return "cp:rl:login:" + email
}

func refreshKey(identityID string) string {
	return "cp:rl:refresh:" + identityID
}
