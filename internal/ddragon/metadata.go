package ddragon

import (
	"context"
	"fmt"
	"sync"

	"draftcoach/internal/resolve"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Metadata is a read-only snapshot of every directory for one version
type Metadata struct {
	Version   string
	Items     *Items
	Runes     *Runes
	Spells    resolve.Directory
	Champions *Champions
}

// Load fetches the latest version and all directories for it in parallel
func (c *Client) Load(ctx context.Context) (*Metadata, error) {
	version, err := c.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}
	return c.LoadVersion(ctx, version)
}

// LoadVersion fetches all directories for a specific version
func (c *Client) LoadVersion(ctx context.Context, version string) (*Metadata, error) {
	md := &Metadata{Version: version}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.LoadItems(gctx, version)
		md.Items = items
		return err
	})
	g.Go(func() error {
		runes, err := c.LoadRunes(gctx, version)
		md.Runes = runes
		return err
	})
	g.Go(func() error {
		spells, err := c.LoadSpells(gctx, version)
		md.Spells = spells
		return err
	})
	g.Go(func() error {
		champs, err := c.LoadChampions(gctx, version)
		md.Champions = champs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load metadata for %s: %w", version, err)
	}

	c.logger.Info("Loaded metadata",
		zap.String("version", version),
		zap.Int("items", md.Items.Len()),
		zap.Int("champions", len(md.Champions.List())),
		zap.Int("spells", len(md.Spells)))
	return md, nil
}

// Snapshot keeps the metadata of the latest version and reloads it when the
// version changes
type Snapshot struct {
	client *Client

	mu      sync.Mutex
	current *Metadata
}

// NewSnapshot creates a Snapshot over client
func NewSnapshot(client *Client) *Snapshot {
	return &Snapshot{client: client}
}

// Metadata returns the directories for the latest version
func (s *Snapshot) Metadata(ctx context.Context) (*Metadata, error) {
	version, err := s.client.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.Version == version {
		return s.current, nil
	}

	md, err := s.client.LoadVersion(ctx, version)
	if err != nil {
		return nil, err
	}
	s.current = md
	return md, nil
}
