package ddragon

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"draftcoach/internal/resolve"
)

// ChampionData holds champion information as published
type ChampionData struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Champion is one playable champion
type Champion struct {
	ID   string `json:"id"`   // Data Dragon id, e.g. "MonkeyKing"
	Key  int    `json:"key"`  // numeric id used by the League client
	Name string `json:"name"` // display name, e.g. "Wukong"
}

// Champions indexes champions by numeric key and by name
type Champions struct {
	version string
	baseURL string
	byKey   map[int]Champion
	names   resolve.Directory
	list    []Champion
}

// ByKey returns the champion with the client's numeric id
func (c *Champions) ByKey(key int) (Champion, bool) {
	champ, ok := c.byKey[key]
	return champ, ok
}

// ChampionName returns the Data Dragon id for the client's numeric key
func (c *Champions) ChampionName(key int) (string, bool) {
	champ, ok := c.byKey[key]
	return champ.ID, ok
}

// Find returns the champion whose id or display name matches name
func (c *Champions) Find(name string) (Champion, bool) {
	id, ok := c.names[resolve.Normalize(name)]
	if !ok {
		return Champion{}, false
	}
	for _, champ := range c.list {
		if champ.ID == id {
			return champ, true
		}
	}
	return Champion{}, false
}

// Names returns the display or id name -> Data Dragon id directory
func (c *Champions) Names() resolve.Directory {
	return c.names
}

// List returns champions sorted by display name
func (c *Champions) List() []Champion {
	return c.list
}

// IconURL returns the square icon for a Data Dragon champion id
func (c *Champions) IconURL(id string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", c.baseURL, c.version, id)
}

// LoadChampions fetches champion.json for version
func (c *Client) LoadChampions(ctx context.Context, version string) (*Champions, error) {
	var doc struct {
		Data map[string]ChampionData `json:"data"`
	}
	if err := c.getJSON(ctx, c.dataURL(version, "champion.json"), &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch champions: %w", err)
	}
	return NewChampions(version, c.baseURL, doc.Data), nil
}

// NewChampions indexes champion.json data
func NewChampions(version, baseURL string, data map[string]ChampionData) *Champions {
	out := &Champions{
		version: version,
		baseURL: baseURL,
		byKey:   make(map[int]Champion, len(data)),
		names:   make(resolve.Directory, len(data)*2),
	}
	for id, champ := range data {
		key, err := strconv.Atoi(champ.Key)
		if err != nil {
			continue
		}
		// the map key is the icon id (e.g. "MonkeyKing")
		c := Champion{ID: id, Key: key, Name: champ.Name}
		out.byKey[key] = c
		out.list = append(out.list, c)
		out.names[resolve.Normalize(champ.Name)] = id
		out.names[resolve.Normalize(id)] = id
	}
	sort.Slice(out.list, func(i, j int) bool {
		return out.list[i].Name < out.list[j].Name
	})
	return out
}
