// Package watch follows champ select in the running League client and
// generates a build once per locked draft.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"draftcoach/internal/draft"
	"draftcoach/internal/lcu"

	"github.com/bits-and-blooms/bloom/v3"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is how often the client connection and session are checked
	DefaultPollInterval = 2 * time.Second

	handledCapacity = 10000
	handledFPRate   = 0.001
)

// Generator answers build requests
type Generator interface {
	Generate(ctx context.Context, req draft.Request) draft.Response
}

// Client is the League client surface the watcher needs
type Client interface {
	Connect(ctx context.Context) error
	IsConnected(ctx context.Context) bool
	ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error)
}

// BuildHandler receives every build the watcher produces
type BuildHandler func(ctx context.Context, req draft.Request, resp draft.Response)

// Config configures a Watcher
type Config struct {
	Patch    string
	Interval time.Duration
	OnBuild  BuildHandler
}

// Watcher turns champ select sessions into build requests
type Watcher struct {
	client    Client
	names     lcu.ChampionNamer
	generator Generator
	cfg       Config
	logger    *zap.Logger

	// handled remembers drafts already answered this run; a false positive
	// only skips a repeat generation
	handled   *bloom.BloomFilter
	handledMu sync.Mutex
}

// New creates a Watcher
func New(client Client, names lcu.ChampionNamer, generator Generator, cfg Config, logger *zap.Logger) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		client:    client,
		names:     names,
		generator: generator,
		cfg:       cfg,
		logger:    logger.Named("watch"),
		handled:   bloom.NewWithEstimates(handledCapacity, handledFPRate),
	}
}

// Run polls until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	connected := false
	for {
		connected = w.tick(ctx, connected)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick checks the connection, then the session, and returns the new connected state
func (w *Watcher) tick(ctx context.Context, wasConnected bool) bool {
	if !w.client.IsConnected(ctx) {
		if wasConnected {
			w.logger.Info("League disconnected, waiting for reconnection")
		}
		if err := w.client.Connect(ctx); err != nil {
			w.logger.Debug("Waiting for League", zap.Error(err))
			return false
		}
	}

	session, err := w.client.ChampSelectSession(ctx)
	switch {
	case errors.Is(err, lcu.ErrNotInChampSelect):
		return true
	case err != nil:
		w.logger.Warn("Failed to read champ select session", zap.Error(err))
		return true
	}

	w.Observe(ctx, session)
	return true
}

// Observe handles one session snapshot. It generates a build when the local
// player has locked a champion with a known position and the draft has not
// been handled yet. It reports whether a build was generated.
func (w *Watcher) Observe(ctx context.Context, session *lcu.ChampSelectSession) bool {
	if session == nil {
		return false
	}

	d := lcu.DeriveDraft(session)
	if !d.Locked || !d.Ready() {
		return false
	}

	req, ok := d.Request(w.names, w.cfg.Patch)
	if !ok {
		w.logger.Warn("Unknown champion in draft", zap.Int("championId", d.ChampionID))
		return false
	}
	normalized, err := req.Normalize()
	if err != nil {
		w.logger.Warn("Draft is not a valid build request", zap.Error(err))
		return false
	}

	if !w.markHandled(fmt.Sprintf("%d|%s", d.GameID, normalized.Key())) {
		return false
	}

	w.logger.Info("Generating build for draft",
		zap.String("champion", normalized.ChampionID),
		zap.String("role", string(normalized.Role)),
		zap.Strings("enemies", normalized.Enemies))

	resp := w.generator.Generate(ctx, normalized)
	if w.cfg.OnBuild != nil {
		w.cfg.OnBuild(ctx, normalized, resp)
	}
	return true
}

// markHandled records key and reports whether it was new
func (w *Watcher) markHandled(key string) bool {
	w.handledMu.Lock()
	defer w.handledMu.Unlock()
	if w.handled.TestString(key) {
		return false
	}
	w.handled.AddString(key)
	return true
}
