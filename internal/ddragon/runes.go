package ddragon

import (
	"context"
	_ "embed"
	"fmt"

	"draftcoach/internal/resolve"

	"gopkg.in/yaml.v3"
)

//go:embed shards.yaml
var shardsYAML []byte

// RuneTreeData holds rune tree information as published
type RuneTreeData struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Key  string `json:"key"`
			Name string `json:"name"`
			Icon string `json:"icon"`
		} `json:"runes"`
	} `json:"slots"`
}

// Shard is a stat shard
type Shard struct {
	ID    int      `yaml:"id"`
	Names []string `yaml:"names"`
	Icon  string   `yaml:"icon"`
}

// Runes maps rune, tree and shard names to icons
type Runes struct {
	icons resolve.Directory
	names map[int]string
	trees map[int]string
}

// Icons returns the name -> icon URL directory
func (r *Runes) Icons() resolve.Directory {
	return r.icons
}

// RuneName returns the rune or shard name for id
func (r *Runes) RuneName(id int) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	return fmt.Sprintf("Rune %d", id)
}

// TreeName returns the tree name for id
func (r *Runes) TreeName(id int) string {
	if name, ok := r.trees[id]; ok {
		return name
	}
	return fmt.Sprintf("Tree %d", id)
}

// StatShards returns the embedded stat shard table
func StatShards() ([]Shard, error) {
	var doc struct {
		Shards []Shard `yaml:"shards"`
	}
	if err := yaml.Unmarshal(shardsYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse shard table: %w", err)
	}
	return doc.Shards, nil
}

// LoadRunes fetches runesReforged.json for version and adds the stat shards
func (c *Client) LoadRunes(ctx context.Context, version string) (*Runes, error) {
	var trees []RuneTreeData
	if err := c.getJSON(ctx, c.dataURL(version, "runesReforged.json"), &trees); err != nil {
		return nil, fmt.Errorf("failed to fetch runes: %w", err)
	}
	shards, err := StatShards()
	if err != nil {
		return nil, err
	}
	return NewRunes(c.baseURL, trees, shards), nil
}

// NewRunes indexes rune trees and stat shards by normalized name
func NewRunes(baseURL string, trees []RuneTreeData, shards []Shard) *Runes {
	r := &Runes{
		icons: make(resolve.Directory),
		names: make(map[int]string),
		trees: make(map[int]string),
	}
	icon := func(path string) string {
		return fmt.Sprintf("%s/cdn/img/%s", baseURL, path)
	}

	for _, tree := range trees {
		r.trees[tree.ID] = tree.Name
		r.icons[resolve.Normalize(tree.Name)] = icon(tree.Icon)
		for _, slot := range tree.Slots {
			for _, rune := range slot.Runes {
				r.names[rune.ID] = rune.Name
				r.icons[resolve.Normalize(rune.Name)] = icon(rune.Icon)
			}
		}
	}

	for _, shard := range shards {
		if len(shard.Names) > 0 {
			r.names[shard.ID] = shard.Names[0]
		}
		for _, name := range shard.Names {
			r.icons[resolve.Normalize(name)] = icon(shard.Icon)
		}
	}
	return r
}
