// Package buildview renders build text into a structured view with icons and
// item ids, falling back to the raw text when no sections are found.
package buildview

import (
	"regexp"
	"strings"

	"draftcoach/internal/ddragon"
	"draftcoach/internal/resolve"
	"draftcoach/internal/sections"
)

// Entry is a named thing with an optional icon
type Entry struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// RunesView is a rendered rune page
type RunesView struct {
	PrimaryTree   Entry    `json:"primaryTree"`
	SecondaryTree Entry    `json:"secondaryTree"`
	Keystone      Entry    `json:"keystone"`
	Primary       []Entry  `json:"primary"`
	Secondary     []Entry  `json:"secondary"`
	Shards        []string `json:"shards,omitempty"`
}

// SpellView is a rendered summoner spell
type SpellView struct {
	Entry
	Reason string `json:"reason,omitempty"`
}

// ItemView is a rendered item line
type ItemView struct {
	Entry
	ID        string `json:"id,omitempty"`
	Number    string `json:"number,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Section is one rendered section. Exactly one of the typed fields is set
// for known titles.
type Section struct {
	Title   sections.Title `json:"title"`
	Content string         `json:"content"`
	Runes   *RunesView     `json:"runes,omitempty"`
	Spells  []SpellView    `json:"spells,omitempty"`
	Skills  []string       `json:"skills,omitempty"`
	Items   []ItemView     `json:"items,omitempty"`
}

// View is a rendered build
type View struct {
	Version  string    `json:"version,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Raw      string    `json:"raw,omitempty"`
}

// Structured reports whether any section was recognized
func (v *View) Structured() bool {
	return len(v.Sections) > 0
}

var runeLabel = regexp.MustCompile(`(?i)^(legend|rune):\s*`)

// Renderer renders builds against one metadata snapshot
type Renderer struct {
	md      *ddragon.Metadata
	ids     resolve.IDPolicy
	items   *resolve.Resolver
	runes   *resolve.Resolver
	spells  *resolve.Resolver
	version string
}

// NewRenderer creates a Renderer. md may be nil, in which case names are
// rendered without icons or ids.
func NewRenderer(md *ddragon.Metadata, policy resolve.Policy, ids resolve.IDPolicy) *Renderer {
	r := &Renderer{md: md, ids: ids}
	if md == nil {
		return r
	}
	r.version = md.Version
	if md.Items != nil {
		r.items = resolve.New(md.Items.IDs(), policy)
	}
	if md.Runes != nil {
		r.runes = resolve.New(md.Runes.Icons(), policy)
	}
	if md.Spells != nil {
		r.spells = resolve.New(md.Spells, policy)
	}
	return r
}

// Render parses text into a View
func (r *Renderer) Render(text string) *View {
	view := &View{Version: r.version}
	secs := sections.Parse(text)
	if len(secs) == 0 {
		view.Raw = text
		return view
	}

	for _, sec := range secs {
		out := Section{Title: sec.Title, Content: sec.Content}
		switch sec.Title {
		case sections.Runes:
			out.Runes = r.renderRunes(sections.ParseRunes(sec.Content))
		case sections.Summoners:
			for _, spell := range sections.ParseSummoners(sec.Content) {
				out.Spells = append(out.Spells, SpellView{
					Entry:  Entry{Name: spell.Name, Icon: lookup(r.spells, spell.Name)},
					Reason: spell.Reason,
				})
			}
		case sections.SkillOrder:
			out.Skills = sections.ParseSkillOrder(sec.Content)
		case sections.StartingItems, sections.CoreBuild, sections.SituationalItems:
			for _, item := range sections.ParseItems(sec) {
				out.Items = append(out.Items, r.renderItem(item))
			}
		}
		view.Sections = append(view.Sections, out)
	}
	return view
}

func (r *Renderer) renderRunes(page sections.RunePage) *RunesView {
	v := &RunesView{
		PrimaryTree:   r.runeEntry(page.PrimaryTree),
		SecondaryTree: r.runeEntry(page.SecondaryTree),
		Shards:        page.Shards,
	}
	if page.Keystone != "" {
		v.Keystone = r.runeEntry(page.Keystone)
	}
	for _, name := range page.Primary {
		v.Primary = append(v.Primary, r.runeEntry(name))
	}
	for _, name := range page.Secondary {
		v.Secondary = append(v.Secondary, r.runeEntry(name))
	}
	return v
}

// runeEntry looks up a rune icon, retrying without a "Legend:" style label
func (r *Renderer) runeEntry(name string) Entry {
	icon := lookup(r.runes, name)
	if icon == "" {
		if bare := runeLabel.ReplaceAllString(name, ""); bare != name {
			icon = lookup(r.runes, bare)
		}
	}
	return Entry{Name: name, Icon: icon}
}

func (r *Renderer) renderItem(item sections.ItemLine) ItemView {
	v := ItemView{
		Entry:     Entry{Name: item.Name},
		Number:    item.Number,
		Reason:    item.Reason,
		Condition: item.Condition,
	}
	if r.items == nil {
		return v
	}
	if id, ok := r.items.Resolve(item.Name); ok {
		v.ID = r.ids.Canonicalize(id)
		v.Icon = r.md.Items.IconURL(v.ID)
	}
	return v
}

func lookup(res *resolve.Resolver, name string) string {
	if res == nil || strings.TrimSpace(name) == "" {
		return ""
	}
	value, _ := res.Resolve(name)
	return value
}
