package ddragon

import (
	"context"
	"fmt"

	"draftcoach/internal/resolve"
)

// SpellData holds summoner spell information as published
type SpellData struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// LoadSpells fetches summoner.json for version and returns a name -> icon URL directory
func (c *Client) LoadSpells(ctx context.Context, version string) (resolve.Directory, error) {
	var doc struct {
		Data map[string]SpellData `json:"data"`
	}
	if err := c.getJSON(ctx, c.dataURL(version, "summoner.json"), &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch summoner spells: %w", err)
	}

	spells := make(resolve.Directory, len(doc.Data))
	for _, spell := range doc.Data {
		spells[resolve.Normalize(spell.Name)] = fmt.Sprintf("%s/cdn/%s/img/spell/%s.png", c.baseURL, version, spell.ID)
	}
	return spells, nil
}
