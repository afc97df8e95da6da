package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"draftcoach/internal/draft"
	"draftcoach/internal/lcu"
	"draftcoach/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchPatch    string
	watchInterval time.Duration
	watchExport   bool
	watchUpload   bool
	watchEvents   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow champ select and generate a build when you lock in",
	Long: `Connects to the running League client and waits for champ select.

When the local player locks a champion with a known position, a build is
generated once for that draft and printed. With --export the build is also
saved as an item set.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchPatch, "patch", "", "Patch label (default DRAFTCOACH_DEFAULT_PATCH)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultPollInterval, "Poll interval")
	watchCmd.Flags().BoolVar(&watchExport, "export", false, "Export each build as an item set")
	watchCmd.Flags().BoolVar(&watchUpload, "upload", false, "Upload exported sets to the client instead of writing files")
	watchCmd.Flags().BoolVar(&watchEvents, "events", true, "Subscribe to champ select events for faster updates")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc, store, err := newCoach(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	md, err := newDDragon().Load(ctx)
	if err != nil {
		return err
	}

	patch := watchPatch
	if patch == "" {
		patch = cfg.DefaultPatch
	}

	out := cmd.OutOrStdout()
	onBuild := func(ctx context.Context, req draft.Request, resp draft.Response) {
		if !resp.OK {
			logger.Warn("Build failed", zap.String("champion", req.ChampionID), zap.String("message", resp.Message))
			return
		}
		fmt.Fprintf(out, "\n=== %s %s (%s, patch %s) ===\n%s\n",
			req.ChampionID, req.Role, resp.Origin, resp.PatchDetected, resp.Text)

		if watchExport {
			dest, err := exportBuild(ctx, md, req.ChampionID, string(req.Role), resp.Text, exportTarget{upload: watchUpload})
			if err != nil {
				logger.Warn("Item set export failed", zap.Error(err))
				return
			}
			logger.Info("Item set exported", zap.String("destination", dest))
		}
	}

	client := lcu.NewClient(cfg.LeagueDir, logger)
	w := watch.New(client, md.Champions, svc, watch.Config{
		Patch:    patch,
		Interval: watchInterval,
		OnBuild:  onBuild,
	}, logger)

	if watchEvents {
		ws := lcu.NewWebSocketClient(logger)
		ws.SetChampSelectHandler(func(session *lcu.ChampSelectSession, inChampSelect bool) {
			if inChampSelect && session != nil {
				go w.Observe(ctx, session)
			}
		})
		go followEvents(ctx, client, ws, watchInterval)
		defer ws.Disconnect()
	}

	logger.Info("Watching for champ select", zap.String("patch", patch))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// followEvents keeps the event socket connected while the REST client is
func followEvents(ctx context.Context, client *lcu.Client, ws *lcu.WebSocketClient, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		creds := client.Credentials()
		if creds == nil || ws.IsConnected() {
			continue
		}
		if err := ws.Connect(creds); err != nil {
			logger.Debug("Event socket not ready", zap.Error(err))
		}
	}
}
