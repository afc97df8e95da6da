package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"draftcoach/internal/cache"
	"draftcoach/internal/coach"
	"draftcoach/internal/ddragon"
	"draftcoach/internal/draft"
	"draftcoach/internal/gemini"
	"draftcoach/internal/itemset"
	"draftcoach/internal/lcu"

	"go.uber.org/zap"
)

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// openStore opens the configured cache backend
func openStore(ctx context.Context) (cache.Store, error) {
	store, err := cache.Open(ctx, cfg.CacheOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return store, nil
}

// newCoach wires the cache and the generation client into a coach service.
// The returned store must be closed by the caller.
func newCoach(ctx context.Context) (*coach.Service, cache.Store, error) {
	if err := cfg.RequireGemini(); err != nil {
		return nil, nil, err
	}

	store, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	gen, err := gemini.NewClient(ctx, cfg.Gemini(), logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	logger.Info("Generation client ready", zap.String("model", gen.Model()))

	svc := coach.New(store, gen,
		coach.WithLogger(logger),
		coach.WithFreshness(cfg.CacheFresh),
		coach.WithMaxAttempts(cfg.Attempts),
		coach.WithBaseDelay(cfg.BaseDelay),
	)
	return svc, store, nil
}

// newDDragon creates the Data Dragon client from config
func newDDragon() *ddragon.Client {
	return ddragon.NewClient(append(cfg.DDragonOptions(), ddragon.WithLogger(logger))...)
}

// draftFlags are the request flags shared by generate and export
type draftFlags struct {
	champion string
	role     string
	allies   []string
	enemies  []string
	patch    string
}

func (f *draftFlags) request() draft.Request {
	patch := f.patch
	if patch == "" {
		patch = cfg.DefaultPatch
	}
	return draft.Request{
		Patch:      patch,
		ChampionID: f.champion,
		Role:       draft.Role(f.role),
		Allies:     f.allies,
		Enemies:    f.enemies,
	}
}

// exportTarget says where a built item set goes
type exportTarget struct {
	upload bool
	title  string
}

// exportBuild resolves text into an item set and writes or uploads it.
// It returns a description of where the set went.
func exportBuild(ctx context.Context, md *ddragon.Metadata, champion, role, text string, target exportTarget) (string, error) {
	champ, ok := md.Champions.Find(champion)
	if !ok {
		return "", fmt.Errorf("unknown champion %q", champion)
	}

	title := target.title
	if title == "" {
		title = itemset.DefaultTitle(champ.Name, role)
	}

	res, err := itemset.NewBuilder(md.Items.IDs(), cfg.ResolvePolicy(), cfg.IDPolicy()).
		Build(text, itemset.Meta{Title: title, ChampionKey: champ.Key})
	if err != nil {
		return "", err
	}
	for _, line := range res.Unresolved {
		logger.Warn("Item line not resolved", zap.String("line", line))
	}

	if !target.upload {
		return itemset.WriteRecommended(cfg.LeagueDir, champ.ID, res.Set)
	}

	client := lcu.NewClient(cfg.LeagueDir, logger)
	if err := client.Connect(ctx); err != nil {
		return "", err
	}
	summoner, err := client.CurrentSummoner(ctx)
	if err != nil {
		return "", err
	}
	if err := itemset.Upload(ctx, client, summoner.SummonerID, res.Set); err != nil {
		return "", err
	}
	return fmt.Sprintf("League client (summoner %d)", summoner.SummonerID), nil
}
