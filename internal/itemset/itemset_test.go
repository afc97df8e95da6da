package itemset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"draftcoach/internal/resolve"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemIDs = resolve.Directory{
	"doran's blade":      "1055",
	"health potion":      "2003",
	"kraken slayer":      "6672",
	"infinity edge":      "223031",
	"bloodthirster":      "3072",
	"mercurial scimitar": "3139",
	"quicksilver sash":   "3140",
}

const build = `RUNES
Primary: Precision

STARTING ITEMS
- Doran's Blade
- Health Potion (x2)

CORE BUILD
1. Kraken Slayer (on-hit)
2. Infinity Edge
3. Bloodthirster
4. Sunfire Fantasy Item

SITUATIONAL ITEMS
- Mercurial Scimitar: vs heavy CC
- QSS
`

func newTestBuilder() *Builder {
	b := NewBuilder(itemIDs, resolve.DefaultPolicy(), resolve.DefaultIDPolicy())
	b.newUID = func() string { return "test-uid" }
	return b
}

// TestBuild tests the sections, resolution and id folding of an export
func TestBuild(t *testing.T) {
	res, err := newTestBuilder().Build(build, Meta{Title: "DraftCoach Jinx ADC", ChampionKey: 222})
	require.NoError(t, err)

	set := res.Set
	assert.Equal(t, "DraftCoach Jinx ADC", set.Title)
	assert.Equal(t, "test-uid", set.UID)
	assert.Equal(t, []int{222}, set.AssociatedChampions)
	require.Len(t, set.Blocks, 3)

	assert.Equal(t, Block{Type: "Starting Items", Items: []Item{{"1055", 1}, {"2003", 1}}}, set.Blocks[0])
	assert.Equal(t, Block{Type: "Core Build", Items: []Item{{"6672", 1}, {"3031", 1}, {"3072", 1}}}, set.Blocks[1])
	assert.Equal(t, Block{Type: "Situational Items", Items: []Item{{"3139", 1}}}, set.Blocks[2])

	assert.Equal(t, 6, set.Count())
	assert.Equal(t, []string{"4. Sunfire Fantasy Item", "QSS"}, res.Unresolved)
}

// TestBuild_NothingResolved tests the structured error for unresolved text
func TestBuild_NothingResolved(t *testing.T) {
	_, err := newTestBuilder().Build("CORE BUILD\n1. Made Up Item\n2. Another One", Meta{})

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, 1, resErr.Sections)
	assert.Len(t, resErr.Unresolved, 2)
}

// TestBuild_NoSections tests unstructured text
func TestBuild_NoSections(t *testing.T) {
	_, err := newTestBuilder().Build("NEED_RETRY", Meta{})

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, 0, resErr.Sections)
	assert.Contains(t, err.Error(), "no item sections")
}

// TestWriteRecommended tests the legacy file layout
func TestWriteRecommended(t *testing.T) {
	dir := t.TempDir()
	res, err := newTestBuilder().Build(build, Meta{Title: "DraftCoach Jinx ADC"})
	require.NoError(t, err)

	path, err := WriteRecommended(dir, "Jinx", res.Set)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Config", "Champions", "Jinx", "Recommended", "DraftCoach_Jinx_ADC.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded ItemSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.Set.Blocks, decoded.Blocks)

	_, err = WriteRecommended("", "Jinx", res.Set)
	assert.Error(t, err)
}

// fakeClient records item set uploads
type fakeClient struct {
	current Collection
	put     *Collection
	path    string
}

func (f *fakeClient) GetJSON(_ context.Context, endpoint string, v any) error {
	f.path = endpoint
	*(v.(*Collection)) = f.current
	return nil
}

func (f *fakeClient) PutJSON(_ context.Context, endpoint string, body any) error {
	c := body.(Collection)
	f.put = &c
	return nil
}

// TestUpload tests that uploads replace a same-titled set and keep others
func TestUpload(t *testing.T) {
	client := &fakeClient{current: Collection{
		AccountID: 7,
		ItemSets:  []ItemSet{{Title: "Mine"}, {Title: "DraftCoach Jinx ADC", UID: "old"}},
	}}
	set := &ItemSet{Title: "DraftCoach Jinx ADC", UID: "new"}

	require.NoError(t, Upload(context.Background(), client, 42, set))
	assert.Equal(t, "/lol-item-sets/v1/item-sets/42/sets", client.path)
	require.NotNil(t, client.put)
	assert.Equal(t, int64(7), client.put.AccountID)
	require.Len(t, client.put.ItemSets, 2)
	assert.Equal(t, "Mine", client.put.ItemSets[0].Title)
	assert.Equal(t, "new", client.put.ItemSets[1].UID)
}
