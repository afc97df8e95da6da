package coach

import (
	"context"

	"draftcoach/internal/cache"
	"draftcoach/internal/draft"

	"go.uber.org/zap"
)

// State is one step of a build request
type State int

const (
	StateRejected State = iota
	StateReadCache
	StateCacheHit
	StateAttempt
	StateEscalate
	StateRetryWait
	StateSuccess
	StateExhausted
	StateStaleFallback
	StateHardFailure
	stateDone
)

var stateNames = map[State]string{
	StateRejected:      "REJECTED",
	StateReadCache:     "READ_CACHE",
	StateCacheHit:      "CACHE_HIT",
	StateAttempt:       "ATTEMPT",
	StateEscalate:      "ESCALATE",
	StateRetryWait:     "RETRY_WAIT",
	StateSuccess:       "SUCCESS",
	StateExhausted:     "EXHAUSTED",
	StateStaleFallback: "STALE_FALLBACK",
	StateHardFailure:   "HARD_FAILURE",
	stateDone:          "DONE",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// run is the state of a single request as it moves through the machine
type run struct {
	svc *Service
	req draft.Request
	key string

	state   State
	trace   []State
	entry   *cache.Entry
	attempt int
	lastErr string
	result  draft.Generation

	response draft.Response
}

// execute steps the machine until a terminal state produces a response
func (r *run) execute(ctx context.Context) {
	for r.state != stateDone {
		r.trace = append(r.trace, r.state)
		r.state = r.step(ctx)
	}
}

// step handles the current state and returns the next one
func (r *run) step(ctx context.Context) State {
	log := r.svc.logger.With(zap.String("key", r.key))

	switch r.state {
	case StateReadCache:
		entry, err := r.svc.store.Get(ctx, r.key)
		if err != nil {
			// an unreadable cache is a miss, never a failed request
			log.Warn("Cache read failed", zap.Error(err))
		}
		r.entry = entry
		if entry != nil && entry.IsFresh(r.svc.now(), r.svc.freshness) {
			return StateCacheHit
		}
		if entry != nil {
			log.Debug("Cache entry is stale", zap.Time("createdAt", entry.CreatedAt))
		}
		return StateAttempt

	case StateCacheHit:
		log.Debug("Serving cached build")
		r.response = draft.Success(draft.OriginCache, r.entry.PatchDetected, r.entry.Text)
		return stateDone

	case StateAttempt:
		gen, err := r.svc.generator.Generate(ctx, r.req, draft.PromptLong)
		if err != nil {
			return r.failed(log, err)
		}
		if gen.IsNeedRetry() {
			log.Info("Model could not ground the build, escalating to short prompt", zap.Int("attempt", r.attempt+1))
			return StateEscalate
		}
		r.result = gen
		return StateSuccess

	case StateEscalate:
		gen, err := r.svc.generator.Generate(ctx, r.req, draft.PromptShort)
		if err != nil {
			return r.failed(log, err)
		}
		if gen.IsNeedRetry() {
			// a second refusal ends the whole cycle
			r.lastErr = needRetryMessage
			log.Warn("Short prompt also returned NEED_RETRY")
			return StateExhausted
		}
		r.result = gen
		return StateSuccess

	case StateRetryWait:
		delay := Backoff(r.svc.baseDelay, r.attempt)
		log.Debug("Backing off", zap.Duration("delay", delay))
		if err := r.svc.sleep(ctx, delay); err != nil {
			r.lastErr = err.Error()
			return StateExhausted
		}
		r.attempt++
		return StateAttempt

	case StateSuccess:
		entry := cache.Entry{
			Key:           r.key,
			CreatedAt:     r.svc.now(),
			Text:          r.result.Text,
			PatchDetected: r.result.PatchDetected,
			Source:        draft.OriginGrounded,
		}
		if err := r.svc.store.Put(ctx, entry); err != nil {
			log.Error("Failed to write cache entry", zap.Error(err))
		}
		log.Info("Generated grounded build", zap.String("patch", r.result.PatchDetected))
		r.response = draft.Success(draft.OriginGrounded, r.result.PatchDetected, r.result.Text)
		return stateDone

	case StateExhausted:
		if r.entry != nil {
			return StateStaleFallback
		}
		return StateHardFailure

	case StateStaleFallback:
		log.Warn("Generation unavailable, serving stale cache", zap.String("lastError", r.lastErr))
		r.response = draft.Success(draft.OriginStaleCache, r.entry.PatchDetected, r.entry.Text)
		return stateDone

	case StateHardFailure:
		msg := r.lastErr
		if msg == "" {
			msg = defaultFailure
		}
		log.Error("Build generation failed", zap.String("error", msg))
		r.response = draft.Failure(msg, true)
		return stateDone
	}

	r.response = draft.Failure(defaultFailure, true)
	return stateDone
}

// failed classifies a generation error and picks the next state: a
// non-retryable error on the first attempt aborts, anything else retries
// until the attempt ceiling
func (r *run) failed(log *zap.Logger, err error) State {
	r.lastErr = err.Error()
	retryable := IsRetryable(err)
	log.Warn("Generation attempt failed",
		zap.Int("attempt", r.attempt+1),
		zap.Bool("retryable", retryable),
		zap.Error(err))

	if !retryable && r.attempt == 0 {
		return StateExhausted
	}
	if r.attempt+1 >= r.svc.maxAttempts {
		return StateExhausted
	}
	return StateRetryWait
}
