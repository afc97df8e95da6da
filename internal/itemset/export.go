package itemset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-json"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// RecommendedPath returns where the client looks for a champion's legacy
// recommended item sets
func RecommendedPath(leagueDir, championID string) string {
	return filepath.Join(leagueDir, "Config", "Champions", championID, "Recommended")
}

// WriteRecommended writes set as a legacy recommended file and returns its path
func WriteRecommended(leagueDir, championID string, set *ItemSet) (string, error) {
	if leagueDir == "" {
		return "", fmt.Errorf("league directory not set")
	}
	if championID == "" {
		return "", fmt.Errorf("champion id is required")
	}

	dir := RecommendedPath(leagueDir, championID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode item set: %w", err)
	}

	name := unsafeFileChars.ReplaceAllString(set.Title, "_") + ".json"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write item set: %w", err)
	}
	return path, nil
}

// ClientAPI is the subset of the League client API used for uploads
type ClientAPI interface {
	GetJSON(ctx context.Context, endpoint string, v any) error
	PutJSON(ctx context.Context, endpoint string, body any) error
}

// Collection is the client's per-summoner item set document
type Collection struct {
	AccountID int64     `json:"accountId"`
	ItemSets  []ItemSet `json:"itemSets"`
	Timestamp int64     `json:"timestamp"`
}

// Upload adds set to the summoner's item sets in the running client,
// replacing any earlier set with the same title
func Upload(ctx context.Context, api ClientAPI, summonerID int64, set *ItemSet) error {
	endpoint := fmt.Sprintf("/lol-item-sets/v1/item-sets/%d/sets", summonerID)

	var current Collection
	if err := api.GetJSON(ctx, endpoint, &current); err != nil {
		return fmt.Errorf("failed to read item sets: %w", err)
	}

	current.ItemSets = Merge(current.ItemSets, *set)
	if err := api.PutJSON(ctx, endpoint, current); err != nil {
		return fmt.Errorf("failed to upload item set: %w", err)
	}
	return nil
}

// Merge returns existing without sets titled like set, followed by set
func Merge(existing []ItemSet, set ItemSet) []ItemSet {
	out := make([]ItemSet, 0, len(existing)+1)
	for _, s := range existing {
		if s.Title != set.Title {
			out = append(out, s)
		}
	}
	return append(out, set)
}
