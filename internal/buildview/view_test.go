package buildview

import (
	"testing"

	"draftcoach/internal/ddragon"
	"draftcoach/internal/resolve"
	"draftcoach/internal/sections"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://ddragon.example"

func testMetadata(t *testing.T) *ddragon.Metadata {
	t.Helper()

	var trees []ddragon.RuneTreeData
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":8000,"name":"Precision","icon":"precision.png","slots":[
			{"runes":[{"id":8008,"name":"Lethal Tempo","icon":"tempo.png"}]},
			{"runes":[{"id":9104,"name":"Legend: Bloodline","icon":"bloodline.png"}]}
		]},
		{"id":8100,"name":"Domination","icon":"domination.png","slots":[
			{"runes":[{"id":8139,"name":"Taste of Blood","icon":"taste.png"}]}
		]}
	]`), &trees))

	items := map[string]ddragon.ItemData{}
	for id, name := range map[string]string{"6672": "Kraken Slayer", "223031": "Infinity Edge"} {
		var d ddragon.ItemData
		d.Name = name
		items[id] = d
	}

	return &ddragon.Metadata{
		Version: "16.4.1",
		Items:   ddragon.NewItems("16.4.1", base, items),
		Runes:   ddragon.NewRunes(base, trees, []ddragon.Shard{{ID: 5008, Names: []string{"adaptive force"}, Icon: "adaptive.png"}}),
		Spells:  resolve.Directory{"flash": base + "/flash.png"},
	}
}

const build = `RUNES
Primary: Precision
Lethal Tempo
Bloodline
Secondary: Domination
Taste of Blood
Shards: Adaptive Force

SUMMONERS
Flash (escape)

SKILL ORDER
Q > W > E

CORE BUILD
1. Kraken Slayer (on-hit)
2. Infinity Edge
3. Mystery Blade

SITUATIONAL ITEMS
Mercurial Scimitar: vs CC`

// TestRender tests the structured view of a full build
func TestRender(t *testing.T) {
	view := NewRenderer(testMetadata(t), resolve.DefaultPolicy(), resolve.DefaultIDPolicy()).Render(build)
	require.True(t, view.Structured())
	require.Len(t, view.Sections, 5)
	assert.Equal(t, "16.4.1", view.Version)

	runes := view.Sections[0].Runes
	require.NotNil(t, runes)
	assert.Equal(t, base+"/cdn/img/precision.png", runes.PrimaryTree.Icon)
	assert.Equal(t, Entry{Name: "Lethal Tempo", Icon: base + "/cdn/img/tempo.png"}, runes.Keystone)
	require.Len(t, runes.Primary, 1)
	assert.Equal(t, base+"/cdn/img/bloodline.png", runes.Primary[0].Icon)
	assert.Equal(t, []string{"Adaptive Force"}, runes.Shards)

	spells := view.Sections[1].Spells
	require.Len(t, spells, 1)
	assert.Equal(t, base+"/flash.png", spells[0].Icon)
	assert.Equal(t, "escape", spells[0].Reason)

	assert.Equal(t, []string{"Q", "W", "E"}, view.Sections[2].Skills)

	core := view.Sections[3]
	assert.Equal(t, sections.CoreBuild, core.Title)
	require.Len(t, core.Items, 3)
	assert.Equal(t, "6672", core.Items[0].ID)
	assert.Equal(t, "on-hit", core.Items[0].Reason)
	assert.Equal(t, "3031", core.Items[1].ID)
	assert.Equal(t, base+"/cdn/16.4.1/img/item/3031.png", core.Items[1].Icon)
	assert.Empty(t, core.Items[2].ID)
	assert.Equal(t, "3", core.Items[2].Number)

	sit := view.Sections[4].Items
	require.Len(t, sit, 1)
	assert.Equal(t, "Mercurial Scimitar", sit[0].Name)
	assert.Equal(t, "vs CC", sit[0].Condition)
}

// TestRender_Raw tests the fallback for text without sections
func TestRender_Raw(t *testing.T) {
	view := NewRenderer(nil, resolve.DefaultPolicy(), resolve.DefaultIDPolicy()).Render("just some advice")
	assert.False(t, view.Structured())
	assert.Equal(t, "just some advice", view.Raw)
}

// TestRender_NoMetadata tests rendering names without icons
func TestRender_NoMetadata(t *testing.T) {
	view := NewRenderer(nil, resolve.DefaultPolicy(), resolve.DefaultIDPolicy()).Render("CORE BUILD\n1. Kraken Slayer")
	require.Len(t, view.Sections, 1)
	require.Len(t, view.Sections[0].Items, 1)
	assert.Equal(t, "Kraken Slayer", view.Sections[0].Items[0].Name)
	assert.Empty(t, view.Sections[0].Items[0].Icon)
}
