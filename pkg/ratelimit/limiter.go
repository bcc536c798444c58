package ratelimit

import (
	"context"
	"fmt"
	"time"

	"hvac-service/pkg/config"
	"hvac-service/pkg/constants"

	"go.uber.org/zap"
)

// Store counts hits per key in fixed windows. Increment starts a new window
// when the key has none or its window has ended.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

type Rule struct {
	Limit  int
	Window time.Duration
}

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type Limiter struct {
	store  Store
	rules  map[string]Rule
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(store Store, rules map[string]Rule, logger *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		rules:  rules,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records one request from identifier in category and reports whether
// it is within the category ceiling.
func (l *Limiter) Check(ctx context.Context, category, identifier string) (Result, error) {
	rule, ok := l.rules[category]
	if !ok {
		return Result{}, fmt.Errorf("ratelimit: unknown category %q", category)
	}

	key := fmt.Sprintf(constants.CacheKeyRateLimit, category, identifier)
	count, resetAt, err := l.store.Increment(ctx, key, rule.Window)
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: increment %s: %w", key, err)
	}

	res := Result{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: max(0, rule.Limit-int(count)),
		ResetAt:   resetAt,
	}
	if !res.Allowed {
		res.RetryAfter = max(0, resetAt.Sub(l.now()))
		l.logger.Debug("rate limit exceeded",
			zap.String("category", category),
			zap.String("identifier", identifier),
			zap.Int64("count", count),
			zap.Duration("retryAfter", res.RetryAfter),
		)
	}
	return res, nil
}

// Reset clears the counter, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, category, identifier string) error {
	return l.store.Reset(ctx, fmt.Sprintf(constants.CacheKeyRateLimit, category, identifier))
}

// RulesFromConfig maps the configured ceilings onto the request categories.
func RulesFromConfig(cfg config.RateLimitConfig) map[string]Rule {
	return map[string]Rule{
		constants.RateCategoryLogin:   {Limit: cfg.Login.Limit, Window: cfg.Login.Window},
		constants.RateCategoryAPI:     {Limit: cfg.API.Limit, Window: cfg.API.Window},
		constants.RateCategoryUpload:  {Limit: cfg.Upload.Limit, Window: cfg.Upload.Window},
		constants.RateCategoryContact: {Limit: cfg.Contact.Limit, Window: cfg.Contact.Window},
	}
}
