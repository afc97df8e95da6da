// Package itemset turns build text into a League item set that can be
// written to the install directory or uploaded to the running client.
package itemset

import (
	"fmt"
	"strings"

	"draftcoach/internal/resolve"
	"draftcoach/internal/sections"

	"github.com/google/uuid"
)

// Item is one entry of a block
type Item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Block is a titled group of items
type Block struct {
	Type  string `json:"type"`
	Items []Item `json:"items"`
}

// ItemSet is the client's item set document
type ItemSet struct {
	Title               string  `json:"title"`
	Type                string  `json:"type"`
	Map                 string  `json:"map"`
	Mode                string  `json:"mode"`
	Priority            bool    `json:"priority"`
	SortRank            int     `json:"sortrank"`
	StartedFrom         string  `json:"startedFrom"`
	AssociatedChampions []int   `json:"associatedChampions"`
	AssociatedMaps      []int   `json:"associatedMaps"`
	Blocks              []Block `json:"blocks"`
	UID                 string  `json:"uid"`
}

// Count returns the number of items across all blocks
func (s *ItemSet) Count() int {
	n := 0
	for _, b := range s.Blocks {
		n += len(b.Items)
	}
	return n
}

// ResolutionError reports an export where no item line could be resolved
type ResolutionError struct {
	Sections   int
	Unresolved []string
}

func (e *ResolutionError) Error() string {
	if e.Sections == 0 {
		return "no item sections found in build text"
	}
	return fmt.Sprintf("no items resolved from %d item sections (%d unresolved lines)", e.Sections, len(e.Unresolved))
}

// Meta describes who the set is for
type Meta struct {
	Title       string
	ChampionKey int
}

const summonersRiftMapID = 11

var blockTitles = map[sections.Title]string{
	sections.StartingItems:    "Starting Items",
	sections.CoreBuild:        "Core Build",
	sections.SituationalItems: "Situational Items",
}

// Builder resolves item lines against an item directory
type Builder struct {
	resolver *resolve.Resolver
	ids      resolve.IDPolicy
	newUID   func() string
}

// NewBuilder creates a Builder over a name -> item id directory
func NewBuilder(items resolve.Directory, policy resolve.Policy, ids resolve.IDPolicy) *Builder {
	return &Builder{
		resolver: resolve.New(items, policy),
		ids:      ids,
		newUID:   uuid.NewString,
	}
}

// Result is a built set plus the lines that did not resolve
type Result struct {
	Set        *ItemSet
	Unresolved []string
}

// Build parses text and resolves the starting, core and situational items.
// It returns a *ResolutionError when nothing resolved.
func (b *Builder) Build(text string, meta Meta) (*Result, error) {
	secs := sections.Parse(text)

	set := &ItemSet{
		Title:          meta.Title,
		Type:           "custom",
		Map:            "any",
		Mode:           "any",
		SortRank:       0,
		StartedFrom:    "blank",
		AssociatedMaps: []int{summonersRiftMapID},
		UID:            b.newUID(),
	}
	if meta.ChampionKey > 0 {
		set.AssociatedChampions = []int{meta.ChampionKey}
	} else {
		set.AssociatedChampions = []int{}
	}

	res := &Result{Set: set}
	found := 0
	for _, title := range sections.ItemTitles {
		sec, ok := sections.Find(secs, title)
		if !ok {
			continue
		}
		found++

		block := Block{Type: blockTitles[title]}
		for _, line := range sec.Lines() {
			parsed, ok := sections.ParseItemLine(line, title == sections.SituationalItems)
			if !ok {
				continue
			}
			id, ok := b.resolver.Resolve(parsed.Name)
			if !ok {
				res.Unresolved = append(res.Unresolved, strings.TrimSpace(line))
				continue
			}
			block.Items = append(block.Items, Item{ID: b.ids.Canonicalize(id), Count: 1})
		}
		if len(block.Items) > 0 {
			set.Blocks = append(set.Blocks, block)
		}
	}

	if set.Count() == 0 {
		return nil, &ResolutionError{Sections: found, Unresolved: res.Unresolved}
	}
	return res, nil
}

// DefaultTitle names a set after its champion and role
func DefaultTitle(champion, role string) string {
	return fmt.Sprintf("DraftCoach %s %s", champion, strings.ToUpper(role))
}
