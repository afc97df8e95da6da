package main

import (
	"draftcoach/internal/ddragon"
	"draftcoach/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the build API over HTTP",
	Long: `Starts the HTTP API used by the desktop client.

Routes:
  GET  /health
  GET  /api/version
  POST /api/build
  POST /api/build/view
  POST /api/itemset`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc, store, err := newCoach(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	dd := newDDragon()
	srv := server.New(server.Config{
		Builds:   svc,
		Versions: dd,
		Metadata: ddragon.NewSnapshot(dd),
		Policy:   cfg.ResolvePolicy(),
		IDs:      cfg.IDPolicy(),
		Logger:   logger,
	})
	return srv.ListenAndServe(ctx, cfg.Addr())
}
