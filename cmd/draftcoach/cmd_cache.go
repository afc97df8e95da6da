package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"draftcoach/internal/cache"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the build cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached builds with their age and freshness",
	RunE:  runCacheList,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	return printEntries(cmd.OutOrStdout(), entries, time.Now(), cfg.CacheFresh)
}

// printEntries renders entries as a table
func printEntries(w io.Writer, entries []cache.Entry, now time.Time, window time.Duration) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No cached builds.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tAGE\tFRESH\tPATCH\tSOURCE")
	for i := range entries {
		e := &entries[i]
		age := now.Sub(e.CreatedAt).Truncate(time.Second)
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", e.Key, age, e.IsFresh(now, window), e.PatchDetected, e.Source)
	}
	return tw.Flush()
}
