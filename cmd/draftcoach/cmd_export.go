package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportFlags draftFlags
	exportFile  string
	exportDest  exportTarget
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a build as a League item set",
	Long: `Turns a build into an item set with Starting Items, Core Build and
Situational Items blocks.

The build text is generated for the given draft, or read from --file.
The set is written under LEAGUE_DIR as a recommended file, or uploaded
to the running client with --upload.

Example:
  draftcoach export --champion Jinx --role adc --enemies Zed --upload`,
	RunE: runExport,
}

func init() {
	addDraftFlags(exportCmd, &exportFlags)
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Read build text from a file instead of generating")
	exportCmd.Flags().BoolVar(&exportDest.upload, "upload", false, "Upload to the running League client")
	exportCmd.Flags().StringVar(&exportDest.title, "title", "", "Item set title")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if exportFlags.champion == "" {
		return errors.New("--champion is required")
	}

	var text string
	if exportFile != "" {
		data, err := os.ReadFile(exportFile)
		if err != nil {
			return fmt.Errorf("failed to read build text: %w", err)
		}
		text = string(data)
	} else {
		svc, store, err := newCoach(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		resp := svc.Generate(ctx, exportFlags.request())
		if !resp.OK {
			return errors.New(resp.Message)
		}
		text = resp.Text
	}

	md, err := newDDragon().Load(ctx)
	if err != nil {
		return err
	}

	dest, err := exportBuild(ctx, md, exportFlags.champion, exportFlags.role, text, exportDest)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Item set exported to %s\n", dest)
	return nil
}
