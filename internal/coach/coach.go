// Package coach owns the cache-aside generation policy: serve fresh cache,
// otherwise generate with retry and prompt escalation, and fall back to a
// stale entry before ever reporting failure.
package coach

import (
	"context"
	"errors"
	"time"

	"draftcoach/internal/cache"
	"draftcoach/internal/draft"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the long-prompt attempt ceiling per request
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the first backoff wait; later waits double
	DefaultBaseDelay = time.Second

	needRetryMessage = "AI returned NEED_RETRY on all attempts"
	defaultFailure   = "Failed to generate build"
)

// Generator produces raw build text for a request
type Generator interface {
	Generate(ctx context.Context, req draft.Request, variant draft.PromptVariant) (draft.Generation, error)
}

// SleepFunc waits between attempts
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Service
type Option func(*Service)

// WithClock sets the time source used for freshness and entry timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithSleep replaces the backoff wait (useful for testing)
func WithSleep(sleep SleepFunc) Option {
	return func(s *Service) {
		s.sleep = sleep
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.Named("coach")
		}
	}
}

// WithFreshness sets how long cached builds are served without regenerating
func WithFreshness(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.freshness = d
		}
	}
}

// WithMaxAttempts sets the long-prompt attempt ceiling
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the first backoff wait
func WithBaseDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.baseDelay = d
		}
	}
}

// Service answers build requests
type Service struct {
	store     cache.Store
	generator Generator
	logger    *zap.Logger

	now         func() time.Time
	sleep       SleepFunc
	freshness   time.Duration
	maxAttempts int
	baseDelay   time.Duration
}

// New creates a Service over store and generator
func New(store cache.Store, generator Generator, opts ...Option) *Service {
	s := &Service{
		store:       store,
		generator:   generator,
		logger:      zap.NewNop(),
		now:         time.Now,
		sleep:       sleepContext,
		freshness:   cache.DefaultFreshness,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate answers req. It never returns an error: every failure is folded
// into a Response with a message and a retryable flag.
func (s *Service) Generate(ctx context.Context, req draft.Request) draft.Response {
	resp, _ := s.GenerateTraced(ctx, req)
	return resp
}

// GenerateTraced is Generate plus the sequence of states the request passed through
func (s *Service) GenerateTraced(ctx context.Context, req draft.Request) (draft.Response, []State) {
	normalized, err := req.Normalize()
	if err != nil {
		var verr *draft.ValidationError
		if errors.As(err, &verr) {
			return draft.Failure(verr.Error(), false), []State{StateRejected}
		}
		return draft.Failure(err.Error(), false), []State{StateRejected}
	}

	r := &run{
		svc:   s,
		req:   normalized,
		key:   normalized.Key(),
		state: StateReadCache,
	}
	r.execute(ctx)
	return r.response, r.trace
}
