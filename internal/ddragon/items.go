package ddragon

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"draftcoach/internal/resolve"
)

// ItemData holds item information as published
type ItemData struct {
	Name string `json:"name"`
	Gold struct {
		Total       int  `json:"total"`
		Purchasable bool `json:"purchasable"`
	} `json:"gold"`
}

// ItemInfo holds item name and gold cost
type ItemInfo struct {
	Name string
	Gold int
}

// Items is the item catalogue of one version
type Items struct {
	version string
	baseURL string
	byID    map[string]ItemInfo
	names   resolve.Directory
}

// IDs returns the name -> item id directory
func (it *Items) IDs() resolve.Directory {
	return it.names
}

// Info returns the item with the given id
func (it *Items) Info(id string) (ItemInfo, bool) {
	info, ok := it.byID[id]
	return info, ok
}

// Name returns the item name for id, or a placeholder
func (it *Items) Name(id string) string {
	if info, ok := it.byID[id]; ok {
		return info.Name
	}
	return fmt.Sprintf("Item %s", id)
}

// IconURL returns the icon for an item id
func (it *Items) IconURL(id string) string {
	return fmt.Sprintf("%s/cdn/%s/img/item/%s.png", it.baseURL, it.version, id)
}

// Len returns the number of items
func (it *Items) Len() int {
	return len(it.byID)
}

// LoadItems fetches item.json for version
func (c *Client) LoadItems(ctx context.Context, version string) (*Items, error) {
	var doc struct {
		Data map[string]ItemData `json:"data"`
	}
	if err := c.getJSON(ctx, c.dataURL(version, "item.json"), &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	return NewItems(version, c.baseURL, doc.Data), nil
}

// NewItems indexes items by id and by normalized name. Several ids can share
// a name (mode variants); the lowest numeric id keeps the name.
func NewItems(version, baseURL string, data map[string]ItemData) *Items {
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})

	it := &Items{
		version: version,
		baseURL: baseURL,
		byID:    make(map[string]ItemInfo, len(data)),
		names:   make(resolve.Directory, len(data)),
	}
	for _, id := range ids {
		item := data[id]
		it.byID[id] = ItemInfo{Name: item.Name, Gold: item.Gold.Total}
		name := resolve.Normalize(item.Name)
		if name == "" {
			continue
		}
		if _, taken := it.names[name]; !taken {
			it.names[name] = id
		}
	}
	return it
}
