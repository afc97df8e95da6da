package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"draftcoach/internal/draft"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	generateFlags draftFlags
	generateJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a build for one draft",
	Long: `Answers a single build request and prints the build text.

Example:
  draftcoach generate --champion Jinx --role adc --allies Thresh --enemies Zed,Leona`,
	RunE: runGenerate,
}

func init() {
	addDraftFlags(generateCmd, &generateFlags)
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the full response as JSON")
}

// addDraftFlags registers the request flags on cmd
func addDraftFlags(cmd *cobra.Command, f *draftFlags) {
	cmd.Flags().StringVarP(&f.champion, "champion", "c", "", "Champion id (required)")
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "Role: top, jungle, mid, adc, support (required)")
	cmd.Flags().StringSliceVar(&f.allies, "allies", nil, "Allied champion ids")
	cmd.Flags().StringSliceVar(&f.enemies, "enemies", nil, "Enemy champion ids")
	cmd.Flags().StringVar(&f.patch, "patch", "", "Patch label (default DRAFTCOACH_DEFAULT_PATCH)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc, store, err := newCoach(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	resp := svc.Generate(ctx, generateFlags.request())
	return printResponse(cmd.OutOrStdout(), resp, generateJSON)
}

// printResponse writes resp as text or JSON and turns failures into errors
func printResponse(w io.Writer, resp draft.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else if resp.OK {
		fmt.Fprintf(w, "# %s build (patch %s)\n\n%s\n", resp.Origin, resp.PatchDetected, resp.Text)
	}

	if !resp.OK {
		if resp.Retryable {
			fmt.Fprintln(os.Stderr, "The request can be retried.")
		}
		return errors.New(resp.Message)
	}
	return nil
}
